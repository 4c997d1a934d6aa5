// internal/services/notification_service.go
package services

import (
	"errors"
	"strings"

	"github.com/July173/autogestionFrontWeb-sub002/internal/config"
	"github.com/July173/autogestionFrontWeb-sub002/internal/i18n"
	"github.com/July173/autogestionFrontWeb-sub002/internal/models"
	"github.com/July173/autogestionFrontWeb-sub002/internal/request"
)

// NotificationService renders every user-facing outcome as one Notification.
type NotificationService struct {
	defaultLang string
}

func NewNotificationService(cfg *config.Config) *NotificationService {
	return &NotificationService{defaultLang: cfg.I18n.DefaultLocale}
}

func (s *NotificationService) lang(lang string) string {
	if lang == "" {
		return s.defaultLang
	}
	return lang
}

// ConfirmPrompt is shown when the confirmation gate opens.
func (s *NotificationService) ConfirmPrompt(lang string) models.Notification {
	lang = s.lang(lang)
	return models.Notification{
		Type:    models.NotificationInfo,
		Title:   i18n.T(lang, i18n.KeySubmissionConfirmTitle),
		Message: i18n.T(lang, i18n.KeySubmissionConfirmMessage),
	}
}

// ForOutcome describes how a submission ended.
func (s *NotificationService) ForOutcome(lang string, out request.Outcome) models.Notification {
	lang = s.lang(lang)
	switch out.State {
	case models.SubmissionSucceeded:
		message := out.Result.Message
		if message == "" {
			message = i18n.T(lang, i18n.KeySubmissionSuccess)
		}
		return models.Notification{
			Type:    models.NotificationSuccess,
			Title:   i18n.T(lang, i18n.KeySubmissionSuccessTitle),
			Message: message,
		}

	case models.SubmissionPartialFailure:
		n := models.Notification{
			Type:  models.NotificationWarning,
			Title: i18n.T(lang, i18n.KeySubmissionPartialTitle),
		}
		switch {
		case errors.Is(out.Err, request.ErrMissingRequestID) || out.Result.RequestID == nil:
			n.Message = i18n.T(lang, i18n.KeySubmissionMissingID)
		case out.BackendMessage != "":
			n.Message = i18n.T(lang, i18n.KeySubmissionPDFFailedReason, *out.Result.RequestID, out.BackendMessage)
		default:
			n.Message = i18n.T(lang, i18n.KeySubmissionPDFFailed, *out.Result.RequestID)
		}
		return n

	default:
		if len(out.Issues) > 0 {
			return models.Notification{
				Type:    models.NotificationError,
				Title:   i18n.T(lang, i18n.KeySubmissionValidationTitle),
				Message: i18n.T(lang, i18n.KeyValidationMissingFields, s.FieldList(lang, out.Issues)),
			}
		}
		message := out.BackendMessage
		if message == "" {
			message = i18n.T(lang, i18n.KeySubmissionFailed)
		}
		return models.Notification{
			Type:    models.NotificationError,
			Title:   i18n.T(lang, i18n.KeySubmissionFailedTitle),
			Message: message,
		}
	}
}

// ForLoadError warns about a catalog that could not be loaded.
func (s *NotificationService) ForLoadError(lang string, err *request.ReferenceLoadError) models.Notification {
	lang = s.lang(lang)
	key := i18n.KeyCatalogsLoadFailed
	switch err.Catalog {
	case models.CatalogCohorts:
		key = i18n.KeyCohortsLoadFailed
	case models.CatalogContacts:
		key = i18n.KeyPartiesLoadFailed
	case models.CatalogEnterprises:
		key = i18n.KeyEnterprisesFailed
	}
	return models.Notification{
		Type:    models.NotificationWarning,
		Title:   i18n.T(lang, i18n.KeyWarning),
		Message: i18n.T(lang, key),
	}
}

// FieldLabel returns the display name of a draft field.
func (s *NotificationService) FieldLabel(lang, field string) string {
	key := i18n.FieldKey(field)
	if !i18n.Has(key) {
		return field
	}
	return i18n.T(s.lang(lang), key)
}

// FieldMessage returns the message of one field issue.
func (s *NotificationService) FieldMessage(lang string, issue request.FieldIssue) string {
	lang = s.lang(lang)
	if issue.Key == i18n.KeyValidationInvalid {
		return i18n.T(lang, issue.Key, s.FieldLabel(lang, issue.Field))
	}
	return i18n.T(lang, issue.Key)
}

// FieldList joins the labels of the fields behind issues, each once, in
// report order.
func (s *NotificationService) FieldList(lang string, issues []request.FieldIssue) string {
	seen := make(map[string]bool, len(issues))
	labels := make([]string, 0, len(issues))
	for _, issue := range issues {
		if seen[issue.Field] {
			continue
		}
		seen[issue.Field] = true
		labels = append(labels, s.FieldLabel(lang, issue.Field))
	}
	return strings.Join(labels, ", ")
}
