package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Dosada05/chess-portal/middleware"
	"github.com/Dosada05/chess-portal/notifications"
	"github.com/Dosada05/chess-portal/services"
)

type PlayerHandler struct {
	responder
	dashboardService  services.DashboardService
	enrollmentService services.EnrollmentService
}

func NewPlayerHandler(dashboardService services.DashboardService, enrollmentService services.EnrollmentService, notifier notifications.Notifier, logger *slog.Logger) *PlayerHandler {
	return &PlayerHandler{
		responder:         newResponder(notifier, logger),
		dashboardService:  dashboardService,
		enrollmentService: enrollmentService,
	}
}

// Dashboard godoc
// @Summary Mount the player dashboard
// @Description Upcoming offerings the player is not enrolled in, plus the player's enrollments.
// @Tags player
// @Produce json
// @Success 200 {object} services.PlayerDashboard
// @Router /api/player/dashboard [get]
func (h *PlayerHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ws, ok := h.scope(w, r)
	if !ok {
		return
	}
	dash, err := h.dashboardService.MountPlayer(r.Context(), middleware.GetSession(r.Context()), ws)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, jsonResponse{"dashboard": dash})
}

// Enroll godoc
// @Summary Pay and enroll in an offering
// @Description Card details are checked before the simulated payment starts.
// @Tags player
// @Accept json
// @Produce json
// @Param enrollment body services.EnrollRequest true "Offering and payment"
// @Success 201 {object} services.EnrollResult
// @Failure 400 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Failure 422 {object} map[string]interface{}
// @Router /api/player/enrollments [post]
func (h *PlayerHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	var input services.EnrollRequest
	if err := readJSON(w, r, &input); err != nil {
		h.badRequest(w, r, err)
		return
	}
	ws, ok := h.scope(w, r)
	if !ok {
		return
	}

	result, err := h.enrollmentService.Enroll(r.Context(), middleware.GetSession(r.Context()), ws, input)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.success(w, r, http.StatusCreated, jsonResponse{"result": result}, "Enrollment confirmed")
}

// Enrollments godoc
// @Summary The player's upcoming enrollments
// @Tags player
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/player/enrollments [get]
func (h *PlayerHandler) Enrollments(w http.ResponseWriter, r *http.Request) {
	ws, ok := h.scope(w, r)
	if !ok {
		return
	}
	list, err := h.enrollmentService.List(r.Context(), middleware.GetSession(r.Context()), ws)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, jsonResponse{"enrollments": list})
}

// CancelEnrollment godoc
// @Summary Cancel an enrollment
// @Tags player
// @Produce json
// @Param id path int true "Enrollment id"
// @Success 200 {object} map[string]interface{}
// @Router /api/player/enrollments/{id} [delete]
func (h *PlayerHandler) CancelEnrollment(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam(r, "id")
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	ws, ok := h.scope(w, r)
	if !ok {
		return
	}

	if err := h.enrollmentService.Cancel(r.Context(), middleware.GetSession(r.Context()), ws, id); err != nil {
		h.fail(w, r, err)
		return
	}
	h.success(w, r, http.StatusOK, nil, "Enrollment cancelled")
}
