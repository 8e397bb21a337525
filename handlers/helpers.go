package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Dosada05/chess-portal/cascade"
	"github.com/Dosada05/chess-portal/middleware"
	"github.com/Dosada05/chess-portal/notifications"
	"github.com/Dosada05/chess-portal/repositories"
	"github.com/Dosada05/chess-portal/services"
	"github.com/Dosada05/chess-portal/validation"
)

type jsonResponse map[string]interface{}

func readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	maxBytes := 1_048_576 // 1MB
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var invalidUnmarshalError *json.InvalidUnmarshalError
		var maxBytesError *http.MaxBytesError

		switch {
		case errors.As(err, &syntaxError):
			return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("body contains badly-formed JSON")
		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return fmt.Errorf("body contains incorrect JSON type for field %q", unmarshalTypeError.Field)
			}
			return fmt.Errorf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)
		case errors.Is(err, io.EOF):
			return errors.New("body must not be empty")
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
			return fmt.Errorf("body contains unknown key %s", fieldName)
		case errors.As(err, &maxBytesError):
			return fmt.Errorf("body must not be larger than %d bytes", maxBytes)
		case errors.As(err, &invalidUnmarshalError):
			panic(err) // ошибка программиста: передан не указатель
		default:
			return err
		}
	}

	err = dec.Decode(&struct{}{})
	if !errors.Is(err, io.EOF) {
		return errors.New("body must only contain a single JSON value")
	}

	return nil
}

func writeJSON(w http.ResponseWriter, status int, data interface{}, headers http.Header) error {
	js, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		return err
	}
	js = append(js, '\n')

	for key, value := range headers {
		w.Header()[key] = value
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(js)
	return err
}

func readIDParam(r *http.Request, name string) (int, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s parameter %q", name, raw)
	}
	return id, nil
}

// httpError is what a service error turns into on the wire.
type httpError struct {
	Status  int
	Message string
	Field   string
	Kind    notifications.Kind
}

// mapServiceErrorToHTTP преобразует ошибки сервисного слоя в HTTP-ответ и текст уведомления.
func mapServiceErrorToHTTP(err error) httpError {
	if v, ok := validation.AsViolation(err); ok {
		return httpError{Status: http.StatusUnprocessableEntity, Message: v.Message, Field: v.Field, Kind: notifications.KindError}
	}

	switch {
	// Конфликты предметной области
	case errors.Is(err, services.ErrAlreadyEnrolled):
		return httpError{Status: http.StatusConflict, Message: "You are already enrolled in this tournament", Kind: notifications.KindWarning}
	case errors.Is(err, services.ErrNotEligible):
		return httpError{Status: http.StatusBadRequest, Message: "You are not eligible for this tournament: " + reason(err, services.ErrNotEligible), Kind: notifications.KindError}
	case errors.Is(err, services.ErrEmailTaken):
		return httpError{Status: http.StatusConflict, Message: "This email is already registered", Kind: notifications.KindError}
	case errors.Is(err, services.ErrOperationPending):
		return httpError{Status: http.StatusConflict, Message: "Please wait for the current operation to finish", Kind: notifications.KindWarning}
	case errors.Is(err, services.ErrViewNotLoaded):
		return httpError{Status: http.StatusConflict, Message: "Reload the dashboard and try again", Kind: notifications.KindWarning}

	// Устаревшие ссылки
	case errors.Is(err, services.ErrNotFound),
		errors.Is(err, services.ErrUnknownForm):
		return httpError{Status: http.StatusNotFound, Message: "The requested item no longer exists", Kind: notifications.KindError}

	// Невалидные данные
	case errors.Is(err, services.ErrValidationFailed):
		return httpError{Status: http.StatusBadRequest, Message: reason(err, services.ErrValidationFailed), Kind: notifications.KindError}
	case errors.Is(err, services.ErrInvalidPhoto):
		return httpError{Status: http.StatusUnsupportedMediaType, Message: "Select an image file", Kind: notifications.KindError}
	case errors.Is(err, services.ErrPhotoTooLarge):
		return httpError{Status: http.StatusRequestEntityTooLarge, Message: "The image must not exceed 5MB", Kind: notifications.KindError}
	case errors.Is(err, cascade.ErrCitiesLoading):
		return httpError{Status: http.StatusConflict, Message: "Cities are still loading", Kind: notifications.KindInfo}
	case errors.Is(err, cascade.ErrCityNotInCountry):
		return httpError{Status: http.StatusUnprocessableEntity, Message: "Select a city of the chosen country", Field: "fk_ciudad_id", Kind: notifications.KindError}

	// Аутентификация и доступ
	case errors.Is(err, services.ErrInvalidCredentials):
		return httpError{Status: http.StatusUnauthorized, Message: "Invalid email or password", Kind: notifications.KindError}
	case errors.Is(err, services.ErrAccountDisabled):
		return httpError{Status: http.StatusForbidden, Message: "Your account is disabled", Kind: notifications.KindError}
	case errors.Is(err, services.ErrUnauthenticated):
		return httpError{Status: http.StatusUnauthorized, Message: "Your session has expired, please log in again", Kind: notifications.KindError}
	case errors.Is(err, services.ErrForbiddenRole):
		return httpError{Status: http.StatusForbidden, Message: "This action is not available for your account", Kind: notifications.KindError}

	case errors.Is(err, services.ErrExportUnavailable):
		return httpError{Status: http.StatusServiceUnavailable, Message: "Roster export is not available", Kind: notifications.KindError}
	case errors.Is(err, repositories.ErrTransport):
		return httpError{Status: http.StatusServiceUnavailable, Message: "Could not reach the server, try again", Kind: notifications.KindError}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return httpError{Status: http.StatusServiceUnavailable, Message: "The request was interrupted, try again", Kind: notifications.KindError}
	}

	var apiErr *repositories.APIError
	if errors.As(err, &apiErr) {
		msg := "The operation failed, try again"
		if apiErr.Detail != "" {
			msg = apiErr.Detail
		}
		return httpError{Status: http.StatusBadGateway, Message: msg, Kind: notifications.KindError}
	}

	return httpError{Status: http.StatusInternalServerError, Message: "The operation failed, try again", Kind: notifications.KindError}
}

// reason strips the sentinel prefix and leaves the backend's detail.
func reason(err, sentinel error) string {
	msg := strings.TrimPrefix(err.Error(), sentinel.Error())
	msg = strings.TrimPrefix(msg, ": ")
	if msg == "" {
		return sentinel.Error()
	}
	return msg
}

// responder writes JSON answers and mirrors their notification to the
// session's websocket room.
type responder struct {
	notifier notifications.Notifier
	logger   *slog.Logger
}

func newResponder(notifier notifications.Notifier, logger *slog.Logger) responder {
	if logger == nil {
		logger = slog.Default()
	}
	return responder{notifier: notifier, logger: logger}
}

func (rs responder) respond(w http.ResponseWriter, r *http.Request, status int, body jsonResponse, toast *notifications.Toast) {
	if body == nil {
		body = jsonResponse{}
	}
	if toast != nil {
		body["notification"] = toast
		rs.notify(r, *toast)
	}
	if err := writeJSON(w, status, body, nil); err != nil {
		rs.logger.Error("failed to write response", "path", r.URL.Path, "error", err)
	}
}

func (rs responder) ok(w http.ResponseWriter, r *http.Request, body jsonResponse) {
	rs.respond(w, r, http.StatusOK, body, nil)
}

func (rs responder) success(w http.ResponseWriter, r *http.Request, status int, body jsonResponse, message string) {
	toast := notifications.Success(message)
	rs.respond(w, r, status, body, &toast)
}

func (rs responder) fail(w http.ResponseWriter, r *http.Request, err error) {
	e := mapServiceErrorToHTTP(err)
	if e.Status >= http.StatusInternalServerError {
		rs.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "status", e.Status, "error", err)
	} else {
		rs.logger.Debug("request rejected", "method", r.Method, "path", r.URL.Path, "status", e.Status, "error", err)
	}

	toast := notifications.NewToast(e.Kind, e.Message)
	body := jsonResponse{"error": e.Message}
	if e.Field != "" {
		body["field"] = e.Field
	}
	rs.respond(w, r, e.Status, body, &toast)
}

func (rs responder) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	toast := notifications.Error(err.Error())
	rs.respond(w, r, http.StatusBadRequest, jsonResponse{"error": err.Error()}, &toast)
}

func (rs responder) notify(r *http.Request, toast notifications.Toast) {
	if rs.notifier == nil {
		return
	}
	if sid := middleware.GetSessionID(r.Context()); sid != "" {
		rs.notifier.Notify(sid, toast)
	}
}

// scope is the per-request state every portal handler needs.
func (rs responder) scope(w http.ResponseWriter, r *http.Request) (*services.Workspace, bool) {
	ws, err := middleware.GetWorkspace(r.Context())
	if err != nil {
		rs.logger.Error("session middleware missing", "path", r.URL.Path)
		rs.fail(w, r, err)
		return nil, false
	}
	return ws, true
}
