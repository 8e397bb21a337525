package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Dosada05/chess-portal/middleware"
	"github.com/Dosada05/chess-portal/notifications"
	"github.com/Dosada05/chess-portal/services"
	"github.com/Dosada05/chess-portal/validation"
)

type OrganizerHandler struct {
	responder
	dashboardService  services.DashboardService
	tournamentService services.TournamentService
}

func NewOrganizerHandler(dashboardService services.DashboardService, tournamentService services.TournamentService, notifier notifications.Notifier, logger *slog.Logger) *OrganizerHandler {
	return &OrganizerHandler{
		responder:         newResponder(notifier, logger),
		dashboardService:  dashboardService,
		tournamentService: tournamentService,
	}
}

// Dashboard godoc
// @Summary Mount the organizer dashboard
// @Description Reloads the offerings and the tournament types; the stats are derived from the list.
// @Tags organizer
// @Produce json
// @Success 200 {object} services.OrganizerDashboard
// @Router /api/organizer/dashboard [get]
func (h *OrganizerHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ws, ok := h.scope(w, r)
	if !ok {
		return
	}
	dash, err := h.dashboardService.MountOrganizer(r.Context(), middleware.GetSession(r.Context()), ws)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, jsonResponse{"dashboard": dash})
}

// CreateTournament godoc
// @Summary Create an offering
// @Description Country and city come from the create-tournament form selection.
// @Tags organizer
// @Accept json
// @Produce json
// @Param offering body validation.TournamentForm true "Offering"
// @Success 201 {object} map[string]interface{}
// @Failure 422 {object} map[string]interface{}
// @Router /api/organizer/tournaments [post]
func (h *OrganizerHandler) CreateTournament(w http.ResponseWriter, r *http.Request) {
	var input validation.TournamentForm
	if err := readJSON(w, r, &input); err != nil {
		h.badRequest(w, r, err)
		return
	}
	ws, ok := h.scope(w, r)
	if !ok {
		return
	}

	created, err := h.tournamentService.Create(r.Context(), middleware.GetSession(r.Context()), ws, input)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	view := ws.Views().Organizer
	h.success(w, r, http.StatusCreated, jsonResponse{"tournament": created, "stats": view.Stats}, "Tournament created")
}

// UpdateTournament godoc
// @Summary Update an offering
// @Tags organizer
// @Accept json
// @Produce json
// @Param id path int true "Offering id"
// @Param offering body validation.TournamentForm true "Offering"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/organizer/tournaments/{id} [put]
func (h *OrganizerHandler) UpdateTournament(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam(r, "id")
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	var input validation.TournamentForm
	if err := readJSON(w, r, &input); err != nil {
		h.badRequest(w, r, err)
		return
	}
	ws, ok := h.scope(w, r)
	if !ok {
		return
	}

	updated, err := h.tournamentService.Update(r.Context(), middleware.GetSession(r.Context()), ws, id, input)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	view := ws.Views().Organizer
	h.success(w, r, http.StatusOK, jsonResponse{"tournament": updated, "stats": view.Stats}, "Tournament updated")
}

// DeleteTournament godoc
// @Summary Delete an offering
// @Tags organizer
// @Produce json
// @Param id path int true "Offering id"
// @Success 200 {object} map[string]interface{}
// @Router /api/organizer/tournaments/{id} [delete]
func (h *OrganizerHandler) DeleteTournament(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam(r, "id")
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	ws, ok := h.scope(w, r)
	if !ok {
		return
	}

	if err := h.tournamentService.Delete(r.Context(), middleware.GetSession(r.Context()), ws, id); err != nil {
		h.fail(w, r, err)
		return
	}
	body := jsonResponse{}
	if view := ws.Views().Organizer; view != nil {
		body["stats"] = view.Stats
	}
	h.success(w, r, http.StatusOK, body, "Tournament deleted")
}

// EnrolledPlayers godoc
// @Summary Players enrolled in an offering
// @Tags organizer
// @Produce json
// @Param id path int true "Offering id"
// @Success 200 {object} map[string]interface{}
// @Router /api/organizer/tournaments/{id}/players [get]
func (h *OrganizerHandler) EnrolledPlayers(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam(r, "id")
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	players, err := h.tournamentService.EnrolledPlayers(r.Context(), middleware.GetSession(r.Context()), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, jsonResponse{"players": players})
}

// ExportPlayers godoc
// @Summary Export the roster of an offering as CSV to object storage
// @Tags organizer
// @Produce json
// @Param id path int true "Offering id"
// @Success 201 {object} storage.UploadResult
// @Failure 503 {object} map[string]interface{}
// @Router /api/organizer/tournaments/{id}/players/export [post]
func (h *OrganizerHandler) ExportPlayers(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam(r, "id")
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	result, err := h.tournamentService.ExportRoster(r.Context(), middleware.GetSession(r.Context()), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.success(w, r, http.StatusCreated, jsonResponse{"export": result}, "Roster exported")
}
