// internal/request/submission.go
package request

import (
	"context"
	"errors"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/July173/autogestionFrontWeb-sub002/internal/models"
)

// RequestGateway performs the two backend calls of a submission.
type RequestGateway interface {
	CreateRequest(ctx context.Context, payload models.RequestPayload) (models.CreateRequestResponse, error)
	UploadPDF(ctx context.Context, requestID int64, filename string, file io.Reader) (models.UploadPDFResponse, error)
}

// BlobReader opens a staged attachment.
type BlobReader interface {
	Open(ctx context.Context, ref string) (io.ReadCloser, error)
}

// Outcome describes how a confirmed submission ended. A validation failure is
// reported with State Failed and the Issues that blocked it, although the
// draft itself goes straight back to Idle.
type Outcome struct {
	State          models.SubmissionState  `json:"state"`
	Result         models.SubmissionResult `json:"result"`
	Issues         []FieldIssue            `json:"issues,omitempty"`
	BackendMessage string                  `json:"backend_message,omitempty"`
	Err            error                   `json:"-"`
}

// Acknowledgement is returned when the user dismisses an outcome.
type Acknowledgement struct {
	State    models.SubmissionState
	Redirect bool
	// Discarded is the attachment of a consumed draft; its blob can be
	// deleted.
	Discarded *models.Attachment
}

type submission struct {
	state   models.SubmissionState
	outcome *Outcome
}

// SubmissionState returns the current state and the outcome awaiting
// acknowledgement, if any.
func (d *Draft) SubmissionState() (models.SubmissionState, *Outcome) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.submission.outcome == nil {
		return d.submission.state, nil
	}
	out := *d.submission.outcome
	return d.submission.state, &out
}

// RequestSubmit opens the confirmation gate. Nothing is sent until Confirm.
func (d *Draft) RequestSubmit() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.guard(); err != nil {
		return err
	}
	d.submission.outcome = nil
	d.transition(models.SubmissionAwaitingConfirmation)
	return nil
}

// Dismiss closes the confirmation gate without submitting.
func (d *Draft) Dismiss() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.guard(); err != nil {
		return err
	}
	if d.submission.state != models.SubmissionAwaitingConfirmation {
		return ErrConfirmationRequired
	}
	d.transition(models.SubmissionIdle)
	return nil
}

// Confirm runs the submission: audit the draft, create the request, then
// upload the PDF under the returned id. The calls are strictly sequential and
// the draft rejects mutations until the outcome is acknowledged.
func (d *Draft) Confirm(ctx context.Context, gateway RequestGateway, blobs BlobReader) (Outcome, error) {
	d.mu.Lock()
	if d.submission.state.Busy() {
		d.mu.Unlock()
		return Outcome{}, ErrSubmissionInProgress
	}
	if d.submission.state.Terminal() {
		d.mu.Unlock()
		return Outcome{}, ErrOutcomePending
	}
	if d.submission.state != models.SubmissionAwaitingConfirmation {
		d.mu.Unlock()
		return Outcome{}, ErrConfirmationRequired
	}

	d.transition(models.SubmissionValidating)
	draft := d.snapshot()
	if issues := Audit(draft); len(issues) > 0 {
		out := Outcome{
			State:  models.SubmissionFailed,
			Issues: issues,
			Err:    &ValidationError{Issues: issues},
		}
		d.submission.outcome = &out
		d.transition(models.SubmissionIdle)
		d.mu.Unlock()
		return out, nil
	}
	payload := BuildPayload(draft)
	d.transition(models.SubmissionSubmittingRequest)
	d.mu.Unlock()

	out := d.submit(ctx, gateway, blobs, payload, *draft.Attachment)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.submission.outcome = &out
	d.transition(out.State)
	entry := logrus.WithFields(logrus.Fields{
		"draft_id":      d.ID,
		"apprentice_id": d.apprentice.ID,
		"state":         out.State,
	})
	if out.Result.RequestID != nil {
		entry = entry.WithField("request_id", *out.Result.RequestID)
	}
	if out.Err != nil {
		entry.WithError(out.Err).Error("Submission did not complete")
	} else {
		entry.Info("Submission completed")
	}
	return out, nil
}

func (d *Draft) submit(ctx context.Context, gateway RequestGateway, blobs BlobReader, payload models.RequestPayload, att models.Attachment) Outcome {
	created, err := gateway.CreateRequest(ctx, payload)
	if err != nil {
		out := Outcome{State: models.SubmissionFailed, Err: err}
		var rce *RequestCreationError
		if errors.As(err, &rce) {
			out.BackendMessage = rce.Message
		}
		return out
	}

	if created.ID == nil || *created.ID <= 0 {
		return Outcome{
			State:          models.SubmissionPartialFailure,
			Result:         models.SubmissionResult{Message: created.Message},
			BackendMessage: created.Message,
			Err:            ErrMissingRequestID,
		}
	}

	id := *created.ID
	result := models.SubmissionResult{RequestID: &id, Message: created.Message}

	d.mu.Lock()
	d.transition(models.SubmissionUploadingPDF)
	d.mu.Unlock()

	uploaded, err := uploadAttachment(ctx, gateway, blobs, id, att)
	if err != nil {
		out := Outcome{State: models.SubmissionPartialFailure, Result: result, Err: err}
		var pue *PDFUploadError
		if errors.As(err, &pue) {
			out.BackendMessage = pue.Message
		}
		return out
	}

	result.PDFUploaded = true
	if uploaded.Message != "" {
		result.Message = uploaded.Message
	}
	return Outcome{State: models.SubmissionSucceeded, Result: result, BackendMessage: result.Message}
}

func uploadAttachment(ctx context.Context, gateway RequestGateway, blobs BlobReader, id int64, att models.Attachment) (models.UploadPDFResponse, error) {
	file, err := blobs.Open(ctx, att.Ref)
	if err != nil {
		return models.UploadPDFResponse{}, &PDFUploadError{RequestID: id, Err: err}
	}
	defer file.Close()

	resp, err := gateway.UploadPDF(ctx, id, att.Filename, file)
	if err != nil {
		var pue *PDFUploadError
		if errors.As(err, &pue) {
			return resp, err
		}
		return resp, &PDFUploadError{RequestID: id, Err: err}
	}
	if !resp.Success {
		return resp, &PDFUploadError{RequestID: id, Message: resp.Message}
	}
	return resp, nil
}

// Acknowledge dismisses the pending outcome and returns the draft to Idle. A
// created request consumes the draft, which is reset; only Succeeded asks for
// the redirect, and only on this one call.
func (d *Draft) Acknowledge() (Acknowledgement, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	state := d.submission.state
	switch {
	case state.Terminal():
		ack := Acknowledgement{State: state}
		if state == models.SubmissionSucceeded || state == models.SubmissionPartialFailure {
			ack.Discarded = d.reset()
		}
		ack.Redirect = state == models.SubmissionSucceeded
		d.submission.outcome = nil
		d.transition(models.SubmissionIdle)
		return ack, nil
	case state == models.SubmissionIdle && d.submission.outcome != nil:
		ack := Acknowledgement{State: d.submission.outcome.State}
		d.submission.outcome = nil
		return ack, nil
	}
	return Acknowledgement{}, ErrNothingToAcknowledge
}

func (d *Draft) transition(to models.SubmissionState) {
	from := d.submission.state
	d.submission.state = to
	if from != to {
		logrus.WithFields(logrus.Fields{
			"draft_id": d.ID,
			"from":     from,
			"to":       to,
		}).Debug("Submission state changed")
	}
}
