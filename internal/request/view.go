// internal/request/view.go
package request

import (
	"strconv"

	"github.com/google/uuid"

	"github.com/July173/autogestionFrontWeb-sub002/internal/i18n"
	"github.com/July173/autogestionFrontWeb-sub002/internal/models"
)

// Options holds the renderable selects of a draft.
type Options struct {
	Regionals    models.Select `json:"regionals"`
	Centers      models.Select `json:"centers"`
	Headquarters models.Select `json:"headquarters"`
	Programs     models.Select `json:"programs"`
	Cohorts      models.Select `json:"cohorts"`
	Modalities   models.Select `json:"modalities"`
}

// View is a consistent read of a draft taken under one lock.
type View struct {
	ID         uuid.UUID              `json:"id"`
	Draft      models.RequestDraft    `json:"draft"`
	Options    Options                `json:"options"`
	LiveIssues []FieldIssue           `json:"live_issues"`
	LoadErrors []*ReferenceLoadError  `json:"-"`
	State      models.SubmissionState `json:"state"`
	Outcome    *Outcome               `json:"outcome,omitempty"`
}

func (d *Draft) View() View {
	d.mu.Lock()
	defer d.mu.Unlock()

	v := View{
		ID:         d.ID,
		Draft:      d.snapshot(),
		Options:    d.options(),
		LiveIssues: d.liveIssues(),
		State:      d.submission.state,
	}
	if d.submission.outcome != nil {
		out := *d.submission.outcome
		v.Outcome = &out
	}
	for _, err := range []error{d.cascade.CohortErr(), d.parties.ContactErr(), d.enterpriseErr} {
		if rle, ok := err.(*ReferenceLoadError); ok {
			v.LoadErrors = append(v.LoadErrors, rle)
		}
	}
	return v
}

func (d *Draft) options() Options {
	catalogs := d.ref.Catalogs()
	sel := d.cascade.Selection()
	disabled := !d.ref.Ready()

	o := Options{
		Regionals: models.Select{Selected: sel.RegionalID, Disabled: d.ref.Disabled(models.CatalogRegionals)},
		Centers: models.Select{
			Selected: sel.CenterID,
			Disabled: d.ref.Disabled(models.CatalogCenters) || sel.RegionalID == 0,
		},
		Headquarters: models.Select{
			Selected: sel.HeadquartersID,
			Disabled: d.ref.Disabled(models.CatalogHeadquarters) || sel.CenterID == 0,
		},
		Programs: models.Select{Selected: sel.ProgramID, Disabled: d.ref.Disabled(models.CatalogPrograms)},
		Cohorts: models.Select{
			Selected: sel.CohortID,
			Disabled: disabled || sel.ProgramID == 0,
		},
		Modalities: models.Select{Selected: sel.ModalityID, Disabled: d.ref.Disabled(models.CatalogModalities)},
	}

	o.Regionals.Options = selectOptions(catalogs.Regionals, func(r models.Regional) (models.SelectOption, bool) {
		return models.SelectOption{ID: r.ID, Label: r.Name}, r.Active
	})
	o.Centers.Options = selectOptions(d.cascade.CentersFor(sel.RegionalID), func(c models.Center) (models.SelectOption, bool) {
		return models.SelectOption{ID: c.ID, Label: c.Name}, true
	})
	o.Headquarters.Options = selectOptions(d.cascade.HeadquartersFor(sel.CenterID), func(h models.Headquarters) (models.SelectOption, bool) {
		return models.SelectOption{ID: h.ID, Label: h.Name}, true
	})
	o.Programs.Options = selectOptions(catalogs.Programs, func(p models.Program) (models.SelectOption, bool) {
		return models.SelectOption{ID: p.ID, Label: p.Name}, p.Active
	})
	o.Cohorts.Options = selectOptions(d.cascade.Cohorts(), func(c models.Cohort) (models.SelectOption, bool) {
		label := c.FileNumber
		if label == "" {
			label = strconv.FormatInt(c.ID, 10)
		}
		return models.SelectOption{ID: c.ID, Label: label}, true
	})
	o.Modalities.Options = selectOptions(catalogs.Modalities, func(m models.Modality) (models.SelectOption, bool) {
		return models.SelectOption{ID: m.ID, Label: m.Name}, m.Active
	})
	if disabled {
		o.Centers.Disabled = true
		o.Headquarters.Disabled = true
	}
	return o
}

func (d *Draft) liveIssues() []FieldIssue {
	issues := []FieldIssue{}
	if key := d.contract.Issue(); key != "" {
		issues = append(issues, FieldIssue{Field: "contract.end_date", Key: key})
	}
	issues = append(issues, liveParty(d.parties.Enterprise)...)
	issues = append(issues, liveParty(d.parties.Boss)...)
	issues = append(issues, liveParty(d.parties.HumanTalent)...)
	return issues
}

// liveParty reports format problems of fields the user already typed. Empty
// fields are left to the submit-time audit.
func liveParty[T models.PartyRecord](p *Party[T]) []FieldIssue {
	if p.state.Mode != models.PartyModeCreate {
		return nil
	}
	var out []FieldIssue
	for _, issue := range FieldIssues(p.kind, p.state.Display) {
		if issue.Key != i18n.KeyValidationRequired {
			out = append(out, issue)
		}
	}
	return out
}

func selectOptions[T any](list []T, option func(T) (models.SelectOption, bool)) []models.SelectOption {
	out := make([]models.SelectOption, 0, len(list))
	for _, item := range list {
		if opt, ok := option(item); ok {
			out = append(out, opt)
		}
	}
	return out
}
