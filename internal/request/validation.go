// internal/request/validation.go
package request

import (
	"mime"
	"reflect"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"

	"github.com/July173/autogestionFrontWeb-sub002/internal/i18n"
	"github.com/July173/autogestionFrontWeb-sub002/internal/models"
)

const (
	// PhoneDigits is the exact number of digits of a valid phone number.
	PhoneDigits = 10
	// ContractMonths is the distance, in calendar months, between the start
	// month and the end month of an apprenticeship contract.
	ContractMonths = 6
	// MaxPDFSize is the largest accepted attachment (1 MiB).
	MaxPDFSize  = 1 << 20
	PDFMimeType = "application/pdf"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("label")
	})
	validate.RegisterValidation("phone10", func(fl validator.FieldLevel) bool {
		return ValidatePhone(fl.Field().String()) == ""
	})
}

// NormalizePhone keeps only the ASCII digits of s.
func NormalizePhone(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidatePhone returns the message key of the problem with phone, or "" when
// it normalizes to exactly ten digits.
func ValidatePhone(phone string) string {
	if len(NormalizePhone(phone)) != PhoneDigits {
		return i18n.KeyValidationPhoneDigits
	}
	return ""
}

// ValidateContractEnd returns the message key of the problem with the contract
// window, or "" when end falls in the month six calendar months after start's
// month and is strictly after start.
func ValidateContractEnd(start, end *time.Time) string {
	if start == nil {
		return i18n.KeyValidationContractStart
	}
	if end == nil {
		return i18n.KeyValidationContractEnd
	}
	s, e := DateOnly(*start), DateOnly(*end)
	if monthIndex(e) != monthIndex(s)+ContractMonths {
		return i18n.KeyValidationContractMonth
	}
	if !e.After(s) {
		return i18n.KeyValidationContractOrdering
	}
	return ""
}

func monthIndex(t time.Time) int {
	return t.Year()*12 + int(t.Month()) - 1
}

// DateOnly drops the clock part of t, keeping its calendar date.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD date. The empty string yields nil.
func ParseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(models.DateLayout, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// FormatDate renders t as YYYY-MM-DD; nil renders as "".
func FormatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return DateOnly(*t).Format(models.DateLayout)
}

// CheckPDF enforces the attachment constraint before anything is staged or
// sent: declared type exactly application/pdf, PDF content and at most 1 MiB.
func CheckPDF(declaredType string, size int64, head []byte) string {
	if size <= 0 || len(head) == 0 {
		return i18n.KeyFileRequired
	}
	if size > MaxPDFSize {
		return i18n.KeyFileTooLarge
	}
	mediaType, _, err := mime.ParseMediaType(declaredType)
	if err != nil || mediaType != PDFMimeType {
		return i18n.KeyFileNotPDF
	}
	if !mimetype.Detect(head).Is(PDFMimeType) {
		return i18n.KeyFileNotPDF
	}
	return ""
}

// Audit lists every field that blocks submission of d. It never stops at the
// first problem.
func Audit(d models.RequestDraft) []FieldIssue {
	var issues []FieldIssue
	required := func(field string) {
		issues = append(issues, FieldIssue{Field: field, Key: i18n.KeyValidationRequired})
	}

	if d.Apprentice.ID == 0 {
		required("apprentice")
	}

	sel := d.Selection
	if sel.RegionalID == 0 {
		required("regional")
	}
	if sel.CenterID == 0 {
		required("center")
	}
	if sel.HeadquartersID == 0 {
		required("headquarters")
	}
	if sel.ProgramID == 0 {
		required("program")
	}
	if sel.CohortID == 0 {
		required("cohort")
	}
	if sel.ModalityID == 0 {
		required("modality")
	}

	if d.Contract.Required {
		switch {
		case d.Contract.StartDate == nil:
			required("contract.start_date")
			if d.Contract.EndDate == nil {
				required("contract.end_date")
			}
		case d.Contract.EndDate == nil:
			required("contract.end_date")
		default:
			if key := ValidateContractEnd(d.Contract.StartDate, d.Contract.EndDate); key != "" {
				issues = append(issues, FieldIssue{Field: "contract.end_date", Key: key})
			}
		}
	}

	issues = append(issues, auditParty(models.PartyEnterprise, d.Enterprise)...)
	issues = append(issues, auditParty(models.PartyBoss, d.Boss)...)
	issues = append(issues, auditParty(models.PartyHumanTalent, d.HumanTalent)...)

	if d.Attachment == nil || d.Attachment.Ref == "" {
		issues = append(issues, FieldIssue{Field: "attachment", Key: i18n.KeyFileRequired})
	}

	return issues
}

func auditParty[T models.PartyRecord](kind models.PartyKind, p models.PartyResolution[T]) []FieldIssue {
	prefix := string(kind) + "."
	if p.Mode != models.PartyModeCreate {
		if p.SelectedID == 0 {
			return []FieldIssue{{Field: prefix + "selection", Key: i18n.KeyValidationRequired}}
		}
		return nil
	}
	return fieldIssues(prefix, validate.Struct(p.Display))
}

// FieldIssues validates create-mode fields of a party and reports them with
// the party prefix, as the live draft view shows them.
func FieldIssues[T models.PartyRecord](kind models.PartyKind, fields T) []FieldIssue {
	return fieldIssues(string(kind)+".", validate.Struct(fields))
}

func fieldIssues(prefix string, err error) []FieldIssue {
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil
	}
	issues := make([]FieldIssue, 0, len(validationErrs))
	for _, e := range validationErrs {
		issues = append(issues, FieldIssue{Field: prefix + e.Field(), Key: issueKey(e.Tag())})
	}
	return issues
}

func issueKey(tag string) string {
	switch tag {
	case "required":
		return i18n.KeyValidationRequired
	case "email":
		return i18n.KeyValidationEmail
	case "numeric":
		return i18n.KeyValidationNumeric
	case "phone10":
		return i18n.KeyValidationPhoneDigits
	default:
		return i18n.KeyValidationInvalid
	}
}
