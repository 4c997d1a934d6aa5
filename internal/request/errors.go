// internal/request/errors.go
package request

import (
	"errors"
	"fmt"
	"strings"

	"github.com/July173/autogestionFrontWeb-sub002/internal/models"
)

var (
	// ErrStaleResponse marks a fetch whose originating selection no longer
	// matches the current one. It is discarded silently.
	ErrStaleResponse = errors.New("stale response discarded")

	ErrInvalidSelection      = errors.New("selection is not available for the current parent")
	ErrWrongPartyMode        = errors.New("operation not allowed in the current party mode")
	ErrContractNotRequired   = errors.New("contract dates are not used by the selected modality")
	ErrSubmissionInProgress  = errors.New("submission already in progress")
	ErrConfirmationRequired  = errors.New("submission must be confirmed first")
	ErrNothingToAcknowledge  = errors.New("no submission outcome to acknowledge")
	ErrReferenceDataNotReady = errors.New("reference data is still loading")
	ErrOutcomePending        = errors.New("submission outcome must be acknowledged first")

	// ErrMissingRequestID marks a create call whose response carried no
	// extractable request id. The PDF upload is skipped.
	ErrMissingRequestID = errors.New("request created without an id")
)

// FieldIssue names one field that blocks submission and the message key
// describing why.
type FieldIssue struct {
	Field string `json:"field"`
	Key   string `json:"key"`
}

// ValidationError aggregates every issue found in one pass.
type ValidationError struct {
	Issues []FieldIssue
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		fields = append(fields, issue.Field)
	}
	return "validation failed: " + strings.Join(fields, ", ")
}

// Fields returns the blocking field names in report order.
func (e *ValidationError) Fields() []string {
	fields := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		fields = append(fields, issue.Field)
	}
	return fields
}

// ReferenceLoadError reports a catalog that could not be loaded. The catalog
// is treated as empty until reloaded.
type ReferenceLoadError struct {
	Catalog models.CatalogKind
	Err     error
}

func (e *ReferenceLoadError) Error() string {
	return fmt.Sprintf("failed to load %s: %v", e.Catalog, e.Err)
}

func (e *ReferenceLoadError) Unwrap() error { return e.Err }

// RequestCreationError is returned by the gateway when the create call answers
// with a non-2xx status.
type RequestCreationError struct {
	Status  int
	Message string
	Err     error
}

func (e *RequestCreationError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("request creation failed (%d): %s", e.Status, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("request creation failed: %v", e.Err)
	}
	return fmt.Sprintf("request creation failed (%d)", e.Status)
}

func (e *RequestCreationError) Unwrap() error { return e.Err }

// PDFUploadError is returned by the gateway when the upload call fails.
type PDFUploadError struct {
	RequestID int64
	Status    int
	Message   string
	Err       error
}

func (e *PDFUploadError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("pdf upload for request %d failed (%d): %s", e.RequestID, e.Status, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("pdf upload for request %d failed: %v", e.RequestID, e.Err)
	}
	return fmt.Sprintf("pdf upload for request %d failed (%d)", e.RequestID, e.Status)
}

func (e *PDFUploadError) Unwrap() error { return e.Err }
