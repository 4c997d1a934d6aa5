// internal/models/draft.go
package models

import (
	"time"

	"github.com/lib/pq"
)

// Apprentice is the identity a draft is submitted for. It is injected from the
// authenticated session and never edited through the draft.
type Apprentice struct {
	ID             int64  `json:"id" yaml:"id"`
	FirstName      string `json:"first_name" yaml:"first_name"`
	LastName       string `json:"last_name" yaml:"last_name"`
	DocumentType   string `json:"document_type,omitempty" yaml:"document_type"`
	DocumentNumber string `json:"document_number,omitempty" yaml:"document_number"`
	Email          string `json:"email,omitempty" yaml:"email"`
	Phone          string `json:"phone,omitempty" yaml:"phone"`
}

// SelectionState holds the cascading selections. Zero means unset.
type SelectionState struct {
	RegionalID     int64 `json:"regional_id" yaml:"regional_id"`
	CenterID       int64 `json:"center_id" yaml:"center_id"`
	HeadquartersID int64 `json:"headquarters_id" yaml:"headquarters_id"`
	ProgramID      int64 `json:"program_id" yaml:"program_id"`
	CohortID       int64 `json:"cohort_id" yaml:"cohort_id"`
	ModalityID     int64 `json:"modality_id" yaml:"modality_id"`
}

// ContractWindow holds the apprenticeship-contract dates. Required follows the
// selected modality; when it is false both dates are nil.
type ContractWindow struct {
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
	Required  bool       `json:"required"`
}

// Attachment references a staged PDF blob.
type Attachment struct {
	Ref         string `json:"ref"`
	Filename    string `json:"filename"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
}

// RequestDraft is the assembled state a submission is built from.
type RequestDraft struct {
	Apprentice  Apprentice                   `json:"apprentice"`
	Selection   SelectionState               `json:"selection"`
	Enterprise  PartyResolution[Enterprise]  `json:"enterprise"`
	Boss        PartyResolution[Boss]        `json:"boss"`
	HumanTalent PartyResolution[HumanTalent] `json:"human_talent"`
	Contract    ContractWindow               `json:"contract"`
	Attachment  *Attachment                  `json:"attachment,omitempty"`
}

// SubmissionResult is the outcome of the two-phase protocol.
type SubmissionResult struct {
	RequestID   *int64 `json:"request_id"`
	Message     string `json:"message"`
	PDFUploaded bool   `json:"pdf_uploaded"`
}

// DraftSnapshot persists the user input of a draft so it can be replayed
// after a restart.
type DraftSnapshot struct {
	BaseModel
	ApprenticeID  int64          `json:"apprentice_id" gorm:"not null;index"`
	State         JSONB          `json:"state" gorm:"type:jsonb;not null"`
	MissingFields pq.StringArray `json:"missing_fields" gorm:"type:text[]"`
	AttachmentRef string         `json:"attachment_ref,omitempty" gorm:"size:255"`
}

// SnapshotState is the replayable part of a draft.
type SnapshotState struct {
	Selection        SelectionState `json:"selection"`
	EnterpriseMode   PartyMode      `json:"enterprise_mode"`
	EnterpriseID     int64          `json:"enterprise_id,omitempty"`
	EnterpriseFields Enterprise     `json:"enterprise_fields"`
	BossMode         PartyMode      `json:"boss_mode"`
	BossID           int64          `json:"boss_id,omitempty"`
	BossFields       Boss           `json:"boss_fields"`
	TalentMode       PartyMode      `json:"human_talent_mode"`
	TalentID         int64          `json:"human_talent_id,omitempty"`
	TalentFields     HumanTalent    `json:"human_talent_fields"`
	ContractStart    string         `json:"contract_start,omitempty"`
	ContractEnd      string         `json:"contract_end,omitempty"`
	Attachment       *Attachment    `json:"attachment,omitempty"`
}
