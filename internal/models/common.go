// internal/models/common.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// JSONB type for PostgreSQL
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}

	return json.Unmarshal(bytes, j)
}

// DateLayout is the wire format of contract dates.
const DateLayout = "2006-01-02"

// Enums
type PartyKind string

const (
	PartyEnterprise  PartyKind = "enterprise"
	PartyBoss        PartyKind = "boss"
	PartyHumanTalent PartyKind = "human_talent"
)

func (k PartyKind) Valid() bool {
	switch k {
	case PartyEnterprise, PartyBoss, PartyHumanTalent:
		return true
	}
	return false
}

type PartyMode string

const (
	PartyModeSelect PartyMode = "select"
	PartyModeCreate PartyMode = "create"
)

func (m PartyMode) Valid() bool {
	return m == PartyModeSelect || m == PartyModeCreate
}

type CatalogKind string

const (
	CatalogRegionals    CatalogKind = "regionals"
	CatalogCenters      CatalogKind = "centers"
	CatalogHeadquarters CatalogKind = "headquarters"
	CatalogPrograms     CatalogKind = "programs"
	CatalogModalities   CatalogKind = "modalities"
	CatalogCohorts      CatalogKind = "cohorts"
	CatalogEnterprises  CatalogKind = "enterprises"
	CatalogContacts     CatalogKind = "enterprise_contacts"
)

type CatalogStatus string

const (
	CatalogStatusPending CatalogStatus = "pending"
	CatalogStatusLoaded  CatalogStatus = "loaded"
	CatalogStatusFailed  CatalogStatus = "failed"
)

type SubmissionState string

const (
	SubmissionIdle                 SubmissionState = "idle"
	SubmissionAwaitingConfirmation SubmissionState = "awaiting_confirmation"
	SubmissionValidating           SubmissionState = "validating"
	SubmissionSubmittingRequest    SubmissionState = "submitting_request"
	SubmissionUploadingPDF         SubmissionState = "uploading_pdf"
	SubmissionSucceeded            SubmissionState = "succeeded"
	SubmissionPartialFailure       SubmissionState = "partial_failure"
	SubmissionFailed               SubmissionState = "failed"
)

// Terminal reports whether the state waits for the user's acknowledgement.
func (s SubmissionState) Terminal() bool {
	switch s {
	case SubmissionSucceeded, SubmissionPartialFailure, SubmissionFailed:
		return true
	}
	return false
}

// Busy reports whether a submission is in flight.
func (s SubmissionState) Busy() bool {
	switch s {
	case SubmissionValidating, SubmissionSubmittingRequest, SubmissionUploadingPDF:
		return true
	}
	return false
}

type NotificationType string

const (
	NotificationSuccess NotificationType = "success"
	NotificationWarning NotificationType = "warning"
	NotificationError   NotificationType = "error"
	NotificationInfo    NotificationType = "info"
)

// Notification is the single presentation every user-facing outcome resolves to.
type Notification struct {
	Type    NotificationType `json:"type"`
	Title   string           `json:"title"`
	Message string           `json:"message"`
}
