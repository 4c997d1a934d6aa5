// internal/models/payload.go
package models

import "encoding/json"

// PartyPayload is either a reference to an existing record ({"id": n}) or the
// full attribute set of a record to create.
type PartyPayload[T PartyRecord] struct {
	ID         int64
	Attributes *T
}

func (p PartyPayload[T]) MarshalJSON() ([]byte, error) {
	if p.Attributes != nil {
		return json.Marshal(p.Attributes)
	}
	return json.Marshal(struct {
		ID int64 `json:"id"`
	}{p.ID})
}

// IsNew reports whether the payload creates a record.
func (p PartyPayload[T]) IsNew() bool {
	return p.Attributes != nil
}

// RequestBody is the flat request sub-object of the create call.
type RequestBody struct {
	ApprenticeID   int64  `json:"apprentice"`
	CohortID       int64  `json:"ficha"`
	HeadquartersID int64  `json:"sede"`
	ModalityID     int64  `json:"modality_productive_stage"`
	ContractStart  string `json:"date_start_contract,omitempty"`
	ContractEnd    string `json:"date_end_contract,omitempty"`
}

// RequestPayload is the nested body sent to the request creation endpoint.
type RequestPayload struct {
	Enterprise  PartyPayload[Enterprise]  `json:"enterprise"`
	Boss        PartyPayload[Boss]        `json:"boss"`
	HumanTalent PartyPayload[HumanTalent] `json:"human_talent"`
	Request     RequestBody               `json:"request"`
}

// CreateRequestResponse is the decoded reply of the create call. ID is nil when
// the backend did not return one.
type CreateRequestResponse struct {
	ID      *int64 `json:"id"`
	Message string `json:"message,omitempty"`
}

type UploadPDFResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
