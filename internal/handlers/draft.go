// internal/handlers/draft.go
package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/July173/autogestionFrontWeb-sub002/internal/i18n"
	"github.com/July173/autogestionFrontWeb-sub002/internal/models"
	"github.com/July173/autogestionFrontWeb-sub002/internal/request"
	"github.com/July173/autogestionFrontWeb-sub002/internal/services"
	"github.com/July173/autogestionFrontWeb-sub002/internal/utils"
)

type DraftHandler struct {
	drafts        *services.DraftService
	notifications *services.NotificationService
	redirectTo    string
}

func NewDraftHandler(drafts *services.DraftService, notifications *services.NotificationService, redirectTo string) *DraftHandler {
	return &DraftHandler{
		drafts:        drafts,
		notifications: notifications,
		redirectTo:    redirectTo,
	}
}

// IssueMessage is a field problem rendered for the client.
type IssueMessage struct {
	Field   string `json:"field"`
	Label   string `json:"label"`
	Key     string `json:"key"`
	Message string `json:"message"`
}

type DraftResponse struct {
	ID       uuid.UUID              `json:"id"`
	Draft    models.RequestDraft    `json:"draft"`
	Options  request.Options        `json:"options"`
	Issues   []IssueMessage         `json:"issues"`
	State    models.SubmissionState `json:"state"`
	Outcome  *request.Outcome       `json:"outcome,omitempty"`
	Warnings []models.Notification  `json:"warnings,omitempty"`
}

type AcknowledgeResponse struct {
	State      models.SubmissionState `json:"state"`
	RedirectTo string                 `json:"redirect_to,omitempty"`
	Draft      DraftResponse          `json:"draft"`
}

type LocationRequest struct {
	RegionalID     *int64 `json:"regional_id" validate:"omitempty,gte=0"`
	CenterID       *int64 `json:"center_id" validate:"omitempty,gte=0"`
	HeadquartersID *int64 `json:"headquarters_id" validate:"omitempty,gte=0"`
}

type ProgramRequest struct {
	ProgramID *int64 `json:"program_id" validate:"required,gte=0"`
}

type CohortRequest struct {
	CohortID *int64 `json:"cohort_id" validate:"required,gte=0"`
}

type ModalityRequest struct {
	ModalityID *int64 `json:"modality_id" validate:"required,gte=0"`
}

type ContractRequest struct {
	StartDate string `json:"start_date" validate:"iso_date"`
	EndDate   string `json:"end_date" validate:"iso_date"`
}

type PartyModeRequest struct {
	Mode models.PartyMode `json:"mode" validate:"required,oneof=select create"`
}

type PartySelectionRequest struct {
	ID *int64 `json:"id" validate:"required,gte=0"`
}

func (h *DraftHandler) render(c *gin.Context, d *request.Draft) DraftResponse {
	lang := utils.GetLangFromContext(c)
	view := d.View()

	resp := DraftResponse{
		ID:      view.ID,
		Draft:   view.Draft,
		Options: view.Options,
		Issues:  make([]IssueMessage, 0, len(view.LiveIssues)),
		State:   view.State,
		Outcome: view.Outcome,
	}
	for _, issue := range view.LiveIssues {
		resp.Issues = append(resp.Issues, IssueMessage{
			Field:   issue.Field,
			Label:   h.notifications.FieldLabel(lang, issue.Field),
			Key:     issue.Key,
			Message: h.notifications.FieldMessage(lang, issue),
		})
	}
	for _, err := range view.LoadErrors {
		resp.Warnings = append(resp.Warnings, h.notifications.ForLoadError(lang, err))
	}
	return resp
}

// load resolves the :id draft of the authenticated apprentice, answering the
// request itself on failure.
func (h *DraftHandler) load(c *gin.Context) (*request.Draft, bool) {
	apprentice, ok := utils.GetApprenticeFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return nil, false
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.NotFoundResponse(c, "draft")
		return nil, false
	}
	d, err := h.drafts.Get(c.Request.Context(), id, apprentice)
	if err != nil {
		h.fail(c, err)
		return nil, false
	}
	return d, true
}

// bind decodes and validates a JSON body, answering the request on failure.
func bind[T any](c *gin.Context, req *T) bool {
	lang := utils.GetLangFromContext(c)
	if err := c.ShouldBindJSON(req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return false
	}
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return false
	}
	return true
}

// finish answers a mutation. A failed catalog load keeps the mutation and is
// reported as a warning next to the draft.
func (h *DraftHandler) finish(c *gin.Context, d *request.Draft, err error) {
	var rle *request.ReferenceLoadError
	if err != nil && !errors.As(err, &rle) {
		h.fail(c, err)
		return
	}
	utils.SuccessResponse(c, h.render(c, d))
}

func (h *DraftHandler) fail(c *gin.Context, err error) {
	lang := utils.GetLangFromContext(c)
	switch {
	case errors.Is(err, services.ErrDraftNotFound):
		utils.NotFoundResponse(c, "draft")
	case errors.Is(err, services.ErrDraftForbidden):
		utils.ForbiddenResponse(c, "")
	case errors.Is(err, request.ErrInvalidSelection):
		utils.UnprocessableResponse(c, "INVALID_SELECTION", i18n.T(lang, i18n.KeyDraftInvalidSelection), nil)
	case errors.Is(err, request.ErrWrongPartyMode):
		utils.ConflictResponse(c, i18n.T(lang, i18n.KeyDraftWrongMode))
	case errors.Is(err, request.ErrContractNotRequired):
		utils.ConflictResponse(c, i18n.T(lang, i18n.KeyDraftContractNotNeeded))
	case errors.Is(err, request.ErrSubmissionInProgress):
		utils.ConflictResponse(c, i18n.T(lang, i18n.KeyDraftBusy))
	case errors.Is(err, request.ErrOutcomePending):
		utils.ConflictResponse(c, i18n.T(lang, i18n.KeySubmissionOutcomePending))
	case errors.Is(err, request.ErrConfirmationRequired):
		utils.ConflictResponse(c, i18n.T(lang, i18n.KeySubmissionNothingToConfirm))
	case errors.Is(err, request.ErrNothingToAcknowledge):
		utils.ConflictResponse(c, i18n.T(lang, i18n.KeySubmissionNoOutcome))
	case errors.Is(err, request.ErrReferenceDataNotReady):
		utils.ServiceUnavailableResponse(c, i18n.T(lang, i18n.KeyCatalogsLoading))
	default:
		utils.InternalErrorResponse(c, err.Error())
	}
}

// POST /drafts
func (h *DraftHandler) CreateDraft(c *gin.Context) {
	apprentice, ok := utils.GetApprenticeFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	d, err := h.drafts.Create(c.Request.Context(), apprentice)
	if err != nil {
		h.fail(c, err)
		return
	}
	utils.CreatedResponse(c, h.render(c, d))
}

// GET /drafts/:id
func (h *DraftHandler) GetDraft(c *gin.Context) {
	d, ok := h.load(c)
	if !ok {
		return
	}
	utils.SuccessResponse(c, h.render(c, d))
}

// DELETE /drafts/:id
func (h *DraftHandler) DeleteDraft(c *gin.Context) {
	d, ok := h.load(c)
	if !ok {
		return
	}
	if err := h.drafts.Discard(c.Request.Context(), d); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// PUT /drafts/:id/location
func (h *DraftHandler) SetLocation(c *gin.Context) {
	var req LocationRequest
	if !bind(c, &req) {
		return
	}
	d, ok := h.load(c)
	if !ok {
		return
	}
	err := h.drafts.Apply(c.Request.Context(), d, func() error {
		return d.SetLocation(req.RegionalID, req.CenterID, req.HeadquartersID)
	})
	h.finish(c, d, err)
}

// PUT /drafts/:id/program
func (h *DraftHandler) SetProgram(c *gin.Context) {
	var req ProgramRequest
	if !bind(c, &req) {
		return
	}
	d, ok := h.load(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	err := h.drafts.Apply(ctx, d, func() error { return d.SetProgram(ctx, *req.ProgramID) })
	h.finish(c, d, err)
}

// POST /drafts/:id/cohorts/reload
func (h *DraftHandler) ReloadCohorts(c *gin.Context) {
	d, ok := h.load(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	err := h.drafts.Apply(ctx, d, func() error { return d.RefreshCohorts(ctx) })
	h.finish(c, d, err)
}

// PUT /drafts/:id/cohort
func (h *DraftHandler) SetCohort(c *gin.Context) {
	var req CohortRequest
	if !bind(c, &req) {
		return
	}
	d, ok := h.load(c)
	if !ok {
		return
	}
	err := h.drafts.Apply(c.Request.Context(), d, func() error { return d.SetCohort(*req.CohortID) })
	h.finish(c, d, err)
}

// PUT /drafts/:id/modality
func (h *DraftHandler) SetModality(c *gin.Context) {
	var req ModalityRequest
	if !bind(c, &req) {
		return
	}
	d, ok := h.load(c)
	if !ok {
		return
	}
	err := h.drafts.Apply(c.Request.Context(), d, func() error { return d.SetModality(*req.ModalityID) })
	h.finish(c, d, err)
}

// PUT /drafts/:id/contract
func (h *DraftHandler) SetContract(c *gin.Context) {
	var req ContractRequest
	if !bind(c, &req) {
		return
	}
	start, err := request.ParseDate(req.StartDate)
	if err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}
	end, err := request.ParseDate(req.EndDate)
	if err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}
	d, ok := h.load(c)
	if !ok {
		return
	}
	err = h.drafts.Apply(c.Request.Context(), d, func() error { return d.SetContractDates(start, end) })
	h.finish(c, d, err)
}

// POST /drafts/:id/enterprises/reload
func (h *DraftHandler) ReloadEnterprises(c *gin.Context) {
	d, ok := h.load(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	err := h.drafts.Apply(ctx, d, func() error { return d.LoadEnterprises(ctx) })
	h.finish(c, d, err)
}

// POST /drafts/:id/contacts/reload
func (h *DraftHandler) ReloadContacts(c *gin.Context) {
	d, ok := h.load(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	err := h.drafts.Apply(ctx, d, func() error { return d.ReloadContacts(ctx) })
	h.finish(c, d, err)
}

func partyKind(c *gin.Context) (models.PartyKind, bool) {
	kind := models.PartyKind(c.Param("party"))
	if !kind.Valid() {
		utils.NotFoundResponse(c, "draft")
		return "", false
	}
	return kind, true
}

// PUT /drafts/:id/parties/:party/mode
func (h *DraftHandler) SetPartyMode(c *gin.Context) {
	kind, ok := partyKind(c)
	if !ok {
		return
	}
	var req PartyModeRequest
	if !bind(c, &req) {
		return
	}
	d, ok := h.load(c)
	if !ok {
		return
	}
	err := h.drafts.Apply(c.Request.Context(), d, func() error { return d.SetPartyMode(kind, req.Mode) })
	h.finish(c, d, err)
}

// PUT /drafts/:id/parties/:party/selection
func (h *DraftHandler) SelectParty(c *gin.Context) {
	kind, ok := partyKind(c)
	if !ok {
		return
	}
	var req PartySelectionRequest
	if !bind(c, &req) {
		return
	}
	d, ok := h.load(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	err := h.drafts.Apply(ctx, d, func() error { return d.SelectParty(ctx, kind, *req.ID) })
	h.finish(c, d, err)
}

// PUT /drafts/:id/parties/:party/fields
func (h *DraftHandler) SetPartyFields(c *gin.Context) {
	kind, ok := partyKind(c)
	if !ok {
		return
	}
	lang := utils.GetLangFromContext(c)

	var mutate func(d *request.Draft) error
	switch kind {
	case models.PartyEnterprise:
		var fields models.Enterprise
		if err := c.ShouldBindJSON(&fields); err != nil {
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
			return
		}
		mutate = func(d *request.Draft) error { return d.SetEnterpriseFields(fields) }
	case models.PartyBoss:
		var fields models.Boss
		if err := c.ShouldBindJSON(&fields); err != nil {
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
			return
		}
		mutate = func(d *request.Draft) error { return d.SetBossFields(fields) }
	default:
		var fields models.HumanTalent
		if err := c.ShouldBindJSON(&fields); err != nil {
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
			return
		}
		mutate = func(d *request.Draft) error { return d.SetHumanTalentFields(fields) }
	}

	d, ok := h.load(c)
	if !ok {
		return
	}
	err := h.drafts.Apply(c.Request.Context(), d, func() error { return mutate(d) })
	h.finish(c, d, err)
}

// POST /drafts/:id/attachment
func (h *DraftHandler) UploadAttachment(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, request.MaxPDFSize+64<<10)

	header, err := c.FormFile("pdf_file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			utils.UnprocessableResponse(c, "INVALID_FILE", i18n.T(lang, i18n.KeyFileTooLarge), nil)
			return
		}
		utils.UnprocessableResponse(c, "INVALID_FILE", i18n.T(lang, i18n.KeyFileRequired), nil)
		return
	}
	if header.Size > request.MaxPDFSize {
		utils.UnprocessableResponse(c, "INVALID_FILE", i18n.T(lang, i18n.KeyFileTooLarge), nil)
		return
	}

	file, err := header.Open()
	if err != nil {
		utils.InternalErrorResponse(c, i18n.T(lang, i18n.KeyFileUploadFailed))
		return
	}
	defer file.Close()
	data, err := io.ReadAll(io.LimitReader(file, request.MaxPDFSize+1))
	if err != nil {
		utils.InternalErrorResponse(c, i18n.T(lang, i18n.KeyFileUploadFailed))
		return
	}

	d, ok := h.load(c)
	if !ok {
		return
	}
	_, key, err := h.drafts.Attach(c.Request.Context(), d, header.Filename, header.Header.Get("Content-Type"), data)
	if err != nil {
		h.fail(c, err)
		return
	}
	if key != "" {
		utils.UnprocessableResponse(c, "INVALID_FILE", i18n.T(lang, key), nil)
		return
	}
	utils.NotifyResponse(c, http.StatusOK, h.render(c, d), models.Notification{
		Type:    models.NotificationSuccess,
		Title:   i18n.T(lang, i18n.KeySuccess),
		Message: i18n.T(lang, i18n.KeyFileAttached),
	})
}

// DELETE /drafts/:id/attachment
func (h *DraftHandler) DeleteAttachment(c *gin.Context) {
	d, ok := h.load(c)
	if !ok {
		return
	}
	if err := h.drafts.Detach(c.Request.Context(), d); err != nil {
		h.fail(c, err)
		return
	}
	utils.SuccessResponse(c, h.render(c, d))
}

// POST /drafts/:id/submission
func (h *DraftHandler) RequestSubmission(c *gin.Context) {
	d, ok := h.load(c)
	if !ok {
		return
	}
	if err := d.RequestSubmit(); err != nil {
		h.fail(c, err)
		return
	}
	lang := utils.GetLangFromContext(c)
	utils.NotifyResponse(c, http.StatusOK, h.render(c, d), h.notifications.ConfirmPrompt(lang))
}

// DELETE /drafts/:id/submission
func (h *DraftHandler) DismissSubmission(c *gin.Context) {
	d, ok := h.load(c)
	if !ok {
		return
	}
	if err := d.Dismiss(); err != nil {
		h.fail(c, err)
		return
	}
	utils.SuccessResponse(c, h.render(c, d))
}

// POST /drafts/:id/submission/confirm
func (h *DraftHandler) ConfirmSubmission(c *gin.Context) {
	d, ok := h.load(c)
	if !ok {
		return
	}
	out, err := h.drafts.Confirm(c.Request.Context(), d)
	if err != nil {
		h.fail(c, err)
		return
	}

	status := http.StatusOK
	switch {
	case out.State == models.SubmissionFailed && len(out.Issues) > 0:
		status = http.StatusUnprocessableEntity
	case out.State == models.SubmissionFailed:
		status = http.StatusBadGateway
	}
	lang := utils.GetLangFromContext(c)
	utils.NotifyResponse(c, status, h.render(c, d), h.notifications.ForOutcome(lang, out))
}

// POST /drafts/:id/submission/acknowledge
func (h *DraftHandler) AcknowledgeSubmission(c *gin.Context) {
	d, ok := h.load(c)
	if !ok {
		return
	}
	ack, err := h.drafts.Acknowledge(c.Request.Context(), d)
	if err != nil {
		h.fail(c, err)
		return
	}
	resp := AcknowledgeResponse{State: ack.State, Draft: h.render(c, d)}
	if ack.Redirect {
		resp.RedirectTo = h.redirectTo
	}
	utils.SuccessResponse(c, resp)
}
