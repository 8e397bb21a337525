package services

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Dosada05/chess-portal/repositories"
)

// Общие ошибки сервисного слоя, их маппинг на HTTP — в handlers/helpers.go.
var (
	// Ресурс не найден или уже удалён
	ErrNotFound = errors.New("requested resource not found")

	// Валидация и бизнес-правила
	ErrValidationFailed = errors.New("validation failed")
	ErrNotEligible      = errors.New("player is not eligible for this tournament")
	ErrInvalidPhoto     = errors.New("the file must be an image")
	ErrPhotoTooLarge    = errors.New("the image must not exceed 5MB")
	ErrViewNotLoaded    = errors.New("open the dashboard before changing it")

	// Конфликты
	ErrAlreadyEnrolled   = errors.New("already enrolled in this tournament")
	ErrEmailTaken        = errors.New("email is already registered")
	ErrOperationPending  = errors.New("another operation is still in progress")
	ErrExportUnavailable = errors.New("roster export storage is not configured")

	// Аутентификация и доступ
	ErrUnauthenticated    = errors.New("authentication required")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrForbiddenRole      = errors.New("operation not allowed for this kind of user")

	ErrUnknownForm = errors.New("unknown form")
)

// backendError turns the generic backend statuses into service errors and
// keeps the backend's detail text.
func backendError(err error) error {
	if err == nil {
		return nil
	}
	var target error
	switch repositories.StatusOf(err) {
	case http.StatusUnauthorized:
		target = ErrUnauthenticated
	case http.StatusForbidden:
		target = ErrForbiddenRole
	case http.StatusNotFound:
		target = ErrNotFound
	default:
		return err
	}
	return fmt.Errorf("%w: %s", target, detailOf(err))
}

func detailOf(err error) string {
	var apiErr *repositories.APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return err.Error()
}
