// internal/request/payload.go
package request

import (
	"github.com/July173/autogestionFrontWeb-sub002/internal/models"
)

// BuildPayload assembles the nested create body of an audited draft. Contract
// dates are included only when the modality requires them.
func BuildPayload(d models.RequestDraft) models.RequestPayload {
	body := models.RequestBody{
		ApprenticeID:   d.Apprentice.ID,
		CohortID:       d.Selection.CohortID,
		HeadquartersID: d.Selection.HeadquartersID,
		ModalityID:     d.Selection.ModalityID,
	}
	if d.Contract.Required {
		body.ContractStart = FormatDate(d.Contract.StartDate)
		body.ContractEnd = FormatDate(d.Contract.EndDate)
	}
	return models.RequestPayload{
		Enterprise:  partyPayload(d.Enterprise),
		Boss:        partyPayload(d.Boss),
		HumanTalent: partyPayload(d.HumanTalent),
		Request:     body,
	}
}

func partyPayload[T models.PartyRecord](p models.PartyResolution[T]) models.PartyPayload[T] {
	if p.Mode == models.PartyModeCreate {
		attrs := withoutIDs(p.Display)
		normalizePhone(&attrs)
		return models.PartyPayload[T]{Attributes: &attrs}
	}
	return models.PartyPayload[T]{ID: p.SelectedID}
}

func normalizePhone[T models.PartyRecord](record *T) {
	switch v := any(record).(type) {
	case *models.Boss:
		v.Phone = NormalizePhone(v.Phone)
	case *models.HumanTalent:
		v.Phone = NormalizePhone(v.Phone)
	}
}
