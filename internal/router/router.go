// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/July173/autogestionFrontWeb-sub002/internal/config"
	"github.com/July173/autogestionFrontWeb-sub002/internal/handlers"
	"github.com/July173/autogestionFrontWeb-sub002/internal/middleware"
	"github.com/July173/autogestionFrontWeb-sub002/internal/request"
	"github.com/July173/autogestionFrontWeb-sub002/internal/services"
	"github.com/July173/autogestionFrontWeb-sub002/internal/utils"
)

// Dependencies are the long-lived services the routes are built on.
type Dependencies struct {
	Config        *config.Config
	Reference     *request.ReferenceData
	Drafts        *services.DraftService
	Notifications *services.NotificationService
	Limiters      *middleware.Limiters
	// Audit may be nil, in which case requests are only logged.
	Audit middleware.AuditRecorder
}

func Initialize(deps Dependencies) *gin.Engine {
	cfg := deps.Config

	// Initialize handlers
	catalogHandler := handlers.NewCatalogHandler(deps.Reference, deps.Drafts, deps.Notifications)
	draftHandler := handlers.NewDraftHandler(deps.Drafts, deps.Notifications, cfg.Frontend.RedirectAfterSubmit)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.I18nMiddleware(cfg.I18n.DefaultLocale))
	r.Use(middleware.AuditLogMiddleware(deps.Audit))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
			"ready":   deps.Reference.Ready(),
		})
	})

	v1 := r.Group("/v1")
	v1.Use(middleware.AuthRequired(), deps.Limiters.General.Middleware())
	{
		catalogs := v1.Group("/catalogs")
		{
			catalogs.GET("", catalogHandler.GetCatalogs)
			catalogs.POST("/reload", catalogHandler.ReloadCatalogs)
		}

		drafts := v1.Group("/drafts")
		{
			drafts.POST("", draftHandler.CreateDraft)
			drafts.GET("/:id", draftHandler.GetDraft)
			drafts.DELETE("/:id", draftHandler.DeleteDraft)

			drafts.PUT("/:id/location", draftHandler.SetLocation)
			drafts.PUT("/:id/program", draftHandler.SetProgram)
			drafts.POST("/:id/cohorts/reload", draftHandler.ReloadCohorts)
			drafts.PUT("/:id/cohort", draftHandler.SetCohort)
			drafts.PUT("/:id/modality", draftHandler.SetModality)
			drafts.PUT("/:id/contract", draftHandler.SetContract)

			drafts.POST("/:id/enterprises/reload", draftHandler.ReloadEnterprises)
			drafts.POST("/:id/contacts/reload", draftHandler.ReloadContacts)
			drafts.PUT("/:id/parties/:party/mode", draftHandler.SetPartyMode)
			drafts.PUT("/:id/parties/:party/selection", draftHandler.SelectParty)
			drafts.PUT("/:id/parties/:party/fields", draftHandler.SetPartyFields)

			submit := deps.Limiters.Submit.Middleware()
			drafts.POST("/:id/attachment", submit, draftHandler.UploadAttachment)
			drafts.DELETE("/:id/attachment", draftHandler.DeleteAttachment)

			drafts.POST("/:id/submission", draftHandler.RequestSubmission)
			drafts.DELETE("/:id/submission", draftHandler.DismissSubmission)
			drafts.POST("/:id/submission/confirm", submit, draftHandler.ConfirmSubmission)
			drafts.POST("/:id/submission/acknowledge", draftHandler.AcknowledgeSubmission)
		}
	}

	return r
}
