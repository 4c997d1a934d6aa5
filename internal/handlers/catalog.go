// internal/handlers/catalog.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/July173/autogestionFrontWeb-sub002/internal/models"
	"github.com/July173/autogestionFrontWeb-sub002/internal/request"
	"github.com/July173/autogestionFrontWeb-sub002/internal/services"
	"github.com/July173/autogestionFrontWeb-sub002/internal/utils"
)

type CatalogHandler struct {
	reference     *request.ReferenceData
	drafts        *services.DraftService
	notifications *services.NotificationService
}

func NewCatalogHandler(reference *request.ReferenceData, drafts *services.DraftService, notifications *services.NotificationService) *CatalogHandler {
	return &CatalogHandler{
		reference:     reference,
		drafts:        drafts,
		notifications: notifications,
	}
}

type CatalogsResponse struct {
	Ready    bool                                        `json:"ready"`
	Statuses map[models.CatalogKind]models.CatalogStatus `json:"statuses"`
	Catalogs models.Catalogs                             `json:"catalogs"`
}

func (h *CatalogHandler) snapshot() CatalogsResponse {
	return CatalogsResponse{
		Ready:    h.reference.Ready(),
		Statuses: h.reference.Statuses(),
		Catalogs: h.reference.Catalogs(),
	}
}

// GET /catalogs
func (h *CatalogHandler) GetCatalogs(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	if err := h.reference.Err(); err != nil {
		utils.NotifyResponse(c, http.StatusOK, h.snapshot(), h.loadWarning(lang, err))
		return
	}
	utils.SuccessResponse(c, h.snapshot())
}

// POST /catalogs/reload
func (h *CatalogHandler) ReloadCatalogs(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	err := h.reference.Load(c.Request.Context())
	h.drafts.Revalidate(c.Request.Context())
	if err != nil {
		utils.NotifyResponse(c, http.StatusOK, h.snapshot(), h.loadWarning(lang, err))
		return
	}
	utils.SuccessResponse(c, h.snapshot())
}

func (h *CatalogHandler) loadWarning(lang string, err error) models.Notification {
	var rle *request.ReferenceLoadError
	if !errors.As(err, &rle) {
		rle = &request.ReferenceLoadError{Err: err}
	}
	return h.notifications.ForLoadError(lang, rle)
}
