// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeySuccess = "success"
	KeyError   = "error"
	KeyWarning = "warning"
	KeyInfo    = "info"

	// Authentication
	KeyAuthRequired     = "auth.required"
	KeyAuthInvalidToken = "auth.invalid_token"
	KeyAuthTokenExpired = "auth.token_expired"
	KeyAuthForbidden    = "auth.forbidden"

	// Reference data
	KeyCatalogsLoading    = "catalogs.loading"
	KeyCatalogsLoadFailed = "catalogs.load_failed"
	KeyCohortsLoadFailed  = "catalogs.cohorts_load_failed"
	KeyPartiesLoadFailed  = "catalogs.parties_load_failed"
	KeyEnterprisesFailed  = "catalogs.enterprises_load_failed"

	// Drafts
	KeyDraftCreated           = "draft.created"
	KeyDraftNotFound          = "draft.not_found"
	KeyDraftInvalidSelection  = "draft.invalid_selection"
	KeyDraftWrongMode         = "draft.wrong_mode"
	KeyDraftContractNotNeeded = "draft.contract_not_required"
	KeyDraftBusy              = "draft.busy"

	// Validation
	KeyValidationRequired         = "validation.required"
	KeyValidationInvalid          = "validation.invalid"
	KeyValidationEmail            = "validation.invalid_email"
	KeyValidationNumeric          = "validation.numeric"
	KeyValidationPhoneDigits      = "validation.phone_digits"
	KeyValidationContractStart    = "validation.contract_start_required"
	KeyValidationContractEnd      = "validation.contract_end_required"
	KeyValidationContractMonth    = "validation.contract_end_month"
	KeyValidationContractOrdering = "validation.contract_end_before_start"
	KeyValidationMissingFields    = "validation.missing_fields"

	// Files
	KeyFileRequired     = "file.required"
	KeyFileNotPDF       = "file.not_pdf"
	KeyFileTooLarge     = "file.too_large"
	KeyFileUploadFailed = "file.upload_failed"
	KeyFileAttached     = "file.attached"

	// Submission
	KeySubmissionConfirmTitle     = "submission.confirm_title"
	KeySubmissionConfirmMessage   = "submission.confirm_message"
	KeySubmissionValidationTitle  = "submission.validation_title"
	KeySubmissionSuccessTitle     = "submission.success_title"
	KeySubmissionSuccess          = "submission.success"
	KeySubmissionFailedTitle      = "submission.failed_title"
	KeySubmissionFailed           = "submission.failed"
	KeySubmissionPartialTitle     = "submission.partial_title"
	KeySubmissionMissingID        = "submission.missing_id"
	KeySubmissionPDFFailed        = "submission.pdf_failed"
	KeySubmissionPDFFailedReason  = "submission.pdf_failed_reason"
	KeySubmissionNothingToConfirm = "submission.nothing_to_confirm"
	KeySubmissionNoOutcome        = "submission.no_outcome"
	KeySubmissionOutcomePending   = "submission.outcome_pending"
)

// FieldKey returns the label key of a draft field such as "boss.phone".
func FieldKey(field string) string {
	return "field." + field
}
