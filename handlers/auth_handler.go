package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Dosada05/chess-portal/middleware"
	"github.com/Dosada05/chess-portal/models"
	"github.com/Dosada05/chess-portal/notifications"
	"github.com/Dosada05/chess-portal/services"
	"github.com/Dosada05/chess-portal/validation"
)

type AuthHandler struct {
	responder
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService, notifier notifications.Notifier, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{responder: newResponder(notifier, logger), authService: authService}
}

// sessionBody is what the browser needs to route after login.
func sessionBody(sess models.Session) jsonResponse {
	if sess.Identity == nil {
		return jsonResponse{"authenticated": false}
	}
	home := "/player"
	if sess.Identity.Base().Kind == models.KindOrganizer {
		home = "/organizer"
	}
	return jsonResponse{
		"authenticated": true,
		"kind":          sess.Identity.Base().Kind,
		"user":          sess.Identity,
		"redirect":      home,
	}
}

// Login godoc
// @Summary Log in
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body validation.LoginForm true "Email and password"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input validation.LoginForm
	if err := readJSON(w, r, &input); err != nil {
		h.badRequest(w, r, err)
		return
	}

	store, err := middleware.GetStore(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	sess, err := h.authService.Login(r.Context(), store, middleware.GetSessionID(r.Context()), input)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.success(w, r, http.StatusOK, sessionBody(sess), "Welcome, "+sess.Identity.DisplayName())
}

// Logout godoc
// @Summary Log out and drop every view of this browser
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	store, err := middleware.GetStore(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.authService.Logout(r.Context(), store, middleware.GetSessionID(r.Context())); err != nil {
		h.fail(w, r, err)
		return
	}
	h.success(w, r, http.StatusOK, jsonResponse{"authenticated": false}, "Logged out")
}

// Session godoc
// @Summary Current identity of this browser
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/auth/session [get]
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	h.ok(w, r, sessionBody(middleware.GetSession(r.Context())))
}

// RegisterPlayer godoc
// @Summary Register a player
// @Description The city comes from the register-player form selection.
// @Tags auth
// @Accept json
// @Produce json
// @Param player body validation.PlayerRegistrationForm true "Player data"
// @Success 201 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Failure 422 {object} map[string]interface{}
// @Router /api/auth/register/player [post]
func (h *AuthHandler) RegisterPlayer(w http.ResponseWriter, r *http.Request) {
	var input validation.PlayerRegistrationForm
	if err := readJSON(w, r, &input); err != nil {
		h.badRequest(w, r, err)
		return
	}
	ws, ok := h.scope(w, r)
	if !ok {
		return
	}

	if err := h.authService.RegisterPlayer(r.Context(), ws, input); err != nil {
		h.fail(w, r, err)
		return
	}
	h.success(w, r, http.StatusCreated, jsonResponse{"redirect": "/login"}, "Registration complete, you can log in now")
}

// RegisterOrganizer godoc
// @Summary Register an organizer
// @Tags auth
// @Accept json
// @Produce json
// @Param organizer body validation.OrganizerRegistrationForm true "Organizer data"
// @Success 201 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Failure 422 {object} map[string]interface{}
// @Router /api/auth/register/organizer [post]
func (h *AuthHandler) RegisterOrganizer(w http.ResponseWriter, r *http.Request) {
	var input validation.OrganizerRegistrationForm
	if err := readJSON(w, r, &input); err != nil {
		h.badRequest(w, r, err)
		return
	}
	ws, ok := h.scope(w, r)
	if !ok {
		return
	}

	if err := h.authService.RegisterOrganizer(r.Context(), ws, input); err != nil {
		h.fail(w, r, err)
		return
	}
	h.success(w, r, http.StatusCreated, jsonResponse{"redirect": "/login"}, "Registration complete, you can log in now")
}
