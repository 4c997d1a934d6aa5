// internal/models/party.go
package models

// Enterprise, Boss and HumanTalent carry their create-mode wire names in the
// json tags. The label tag names the field in validation reports.

type Enterprise struct {
	ID       int64  `json:"id,omitempty" yaml:"-" label:"-"`
	Name     string `json:"name_enterprise" yaml:"name" label:"name" validate:"required"`
	NIT      string `json:"nit_enterprise" yaml:"nit" label:"nit" validate:"required,numeric"`
	Location string `json:"locate" yaml:"location" label:"location" validate:"required"`
	Email    string `json:"email_enterprise" yaml:"email" label:"email" validate:"required,email"`
}

func (e Enterprise) RecordID() int64 { return e.ID }

type Boss struct {
	ID           int64  `json:"id,omitempty" yaml:"-" label:"-"`
	EnterpriseID int64  `json:"enterprise_id,omitempty" yaml:"-" label:"-"`
	Name         string `json:"name_boss" yaml:"name" label:"name" validate:"required"`
	Phone        string `json:"phone_number" yaml:"phone" label:"phone" validate:"required,phone10"`
	Email        string `json:"email_boss" yaml:"email" label:"email" validate:"required,email"`
	Position     string `json:"position" yaml:"position" label:"position" validate:"required"`
}

func (b Boss) RecordID() int64 { return b.ID }

type HumanTalent struct {
	ID           int64  `json:"id,omitempty" yaml:"-" label:"-"`
	EnterpriseID int64  `json:"enterprise_id,omitempty" yaml:"-" label:"-"`
	Name         string `json:"name" yaml:"name" label:"name" validate:"required"`
	Email        string `json:"email" yaml:"email" label:"email" validate:"required,email"`
	Phone        string `json:"phone_number" yaml:"phone" label:"phone" validate:"required,phone10"`
}

func (h HumanTalent) RecordID() int64 { return h.ID }

// PartyRecord is implemented by the three party record types.
type PartyRecord interface {
	Enterprise | Boss | HumanTalent
	RecordID() int64
}

// PartyResolution is the select-existing-or-create-new state of one party.
// In select mode Display mirrors the catalog entry of SelectedID; in create
// mode it holds what the user typed and SelectedID is zero.
type PartyResolution[T PartyRecord] struct {
	Mode       PartyMode `json:"mode"`
	SelectedID int64     `json:"selected_id,omitempty"`
	Catalog    []T       `json:"catalog"`
	Display    T         `json:"display"`
}
