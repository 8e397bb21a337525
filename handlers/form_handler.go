package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Dosada05/chess-portal/notifications"
	"github.com/Dosada05/chess-portal/services"
)

// FormHandler serves the location cascades of the forms and the public catalogues.
type FormHandler struct {
	responder
	formService       services.FormService
	tournamentService services.TournamentService
}

func NewFormHandler(formService services.FormService, tournamentService services.TournamentService, notifier notifications.Notifier, logger *slog.Logger) *FormHandler {
	return &FormHandler{
		responder:         newResponder(notifier, logger),
		formService:       formService,
		tournamentService: tournamentService,
	}
}

type selectInput struct {
	ID   int  `json:"id"`
	Wait bool `json:"wait"`
}

func (h *FormHandler) formParam(w http.ResponseWriter, r *http.Request) (services.FormName, bool) {
	form, err := services.ParseFormName(chi.URLParam(r, "form"))
	if err != nil {
		h.fail(w, r, err)
		return "", false
	}
	return form, true
}

// Countries godoc
// @Summary List countries
// @Tags locations
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/locations/countries [get]
func (h *FormHandler) Countries(w http.ResponseWriter, r *http.Request) {
	countries, err := h.formService.Countries(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, jsonResponse{"countries": countries})
}

// Catalog godoc
// @Summary List base tournament types
// @Tags catalog
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/catalog/tournaments [get]
func (h *FormHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	base, err := h.tournamentService.Catalog(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, jsonResponse{"tournaments": base})
}

// Open godoc
// @Summary Open a form: countries, tournament types and the current selection
// @Tags forms
// @Produce json
// @Param form path string true "create-tournament | edit-tournament | register-player | register-organizer"
// @Success 200 {object} services.FormData
// @Router /api/forms/{form} [get]
func (h *FormHandler) Open(w http.ResponseWriter, r *http.Request) {
	form, ok := h.formParam(w, r)
	if !ok {
		return
	}
	ws, ok := h.scope(w, r)
	if !ok {
		return
	}

	data, err := h.formService.Open(r.Context(), ws, form)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, jsonResponse{"form": data})
}

// SelectCountry godoc
// @Summary Select a country; clears the city and loads the country's cities
// @Description With wait=true the response carries the loaded cities.
// @Tags forms
// @Accept json
// @Produce json
// @Param form path string true "Form name"
// @Param selection body selectInput true "Country id"
// @Success 200 {object} cascade.State
// @Router /api/forms/{form}/country [put]
func (h *FormHandler) SelectCountry(w http.ResponseWriter, r *http.Request) {
	form, ok := h.formParam(w, r)
	if !ok {
		return
	}
	var input selectInput
	if err := readJSON(w, r, &input); err != nil {
		h.badRequest(w, r, err)
		return
	}
	ws, ok := h.scope(w, r)
	if !ok {
		return
	}

	state, err := h.formService.SelectCountry(r.Context(), ws, form, input.ID, input.Wait)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, jsonResponse{"location": state})
}

// SelectCity godoc
// @Summary Select a city of the current country
// @Tags forms
// @Accept json
// @Produce json
// @Param form path string true "Form name"
// @Param selection body selectInput true "City id"
// @Success 200 {object} cascade.State
// @Router /api/forms/{form}/city [put]
func (h *FormHandler) SelectCity(w http.ResponseWriter, r *http.Request) {
	form, ok := h.formParam(w, r)
	if !ok {
		return
	}
	var input selectInput
	if err := readJSON(w, r, &input); err != nil {
		h.badRequest(w, r, err)
		return
	}
	ws, ok := h.scope(w, r)
	if !ok {
		return
	}

	state, err := h.formService.SelectCity(ws, form, input.ID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, jsonResponse{"location": state})
}

// OpenEdit godoc
// @Summary Open the edit form pre-filled from an offering
// @Tags forms
// @Produce json
// @Param id path int true "Offering id"
// @Success 200 {object} services.EditFormData
// @Failure 404 {object} map[string]interface{}
// @Router /api/forms/edit-tournament/{id} [post]
func (h *FormHandler) OpenEdit(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam(r, "id")
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	ws, ok := h.scope(w, r)
	if !ok {
		return
	}

	data, err := h.formService.OpenEdit(r.Context(), ws, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, jsonResponse{"form": data})
}
