package services

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/Dosada05/chess-portal/cascade"
	"github.com/Dosada05/chess-portal/models"
	"github.com/Dosada05/chess-portal/repositories"
)

// FormData is everything a form needs to render its selects.
type FormData struct {
	Form            FormName                `json:"form"`
	Countries       []models.Country        `json:"countries"`
	BaseTournaments []models.BaseTournament `json:"base_tournaments,omitempty"`
	Location        cascade.State           `json:"location"`
}

// EditFormData pre-fills the edit form from an existing offering.
type EditFormData struct {
	FormData
	Offering models.Offering `json:"offering"`
}

type FormService interface {
	Countries(ctx context.Context) ([]models.Country, error)
	Open(ctx context.Context, ws *Workspace, form FormName) (*FormData, error)
	OpenEdit(ctx context.Context, ws *Workspace, offeringID int) (*EditFormData, error)
	SelectCountry(ctx context.Context, ws *Workspace, form FormName, countryID int, wait bool) (cascade.State, error)
	SelectCity(ws *Workspace, form FormName, cityID int) (cascade.State, error)
}

type formService struct {
	locations   repositories.LocationRepository
	tournaments repositories.TournamentRepository
	logger      *slog.Logger
}

func NewFormService(locations repositories.LocationRepository, tournaments repositories.TournamentRepository, logger *slog.Logger) FormService {
	return &formService{locations: locations, tournaments: tournaments, logger: logger}
}

func (s *formService) Countries(ctx context.Context) ([]models.Country, error) {
	countries, err := s.locations.ListCountries(ctx)
	if err != nil {
		return nil, backendError(err)
	}
	return countries, nil
}

func (s *formService) Open(ctx context.Context, ws *Workspace, form FormName) (*FormData, error) {
	data := &FormData{Form: form}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		countries, err := s.locations.ListCountries(gctx)
		if err != nil {
			return fmt.Errorf("failed to load countries: %w", err)
		}
		data.Countries = countries
		return nil
	})
	if form == FormCreateTournament || form == FormEditTournament {
		g.Go(func() error {
			base, err := s.loadBaseTournaments(gctx, ws)
			if err != nil {
				return err
			}
			data.BaseTournaments = base
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, backendError(err)
	}

	data.Location = ws.Selector(form).State()
	return data, nil
}

// OpenEdit resolves the offering's country through its city, then preselects
// both and waits for the city list.
func (s *formService) OpenEdit(ctx context.Context, ws *Workspace, offeringID int) (*EditFormData, error) {
	view := ws.Views().Organizer
	if view == nil {
		return nil, ErrViewNotLoaded
	}
	offering, ok := view.Find(offeringID)
	if !ok {
		return nil, fmt.Errorf("%w: offering %d", ErrNotFound, offeringID)
	}

	data, err := s.Open(ctx, ws, FormEditTournament)
	if err != nil {
		return nil, err
	}

	countryID := 0
	if offering.CityID != 0 {
		city, err := s.locations.GetCity(ctx, offering.CityID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve city %d: %w", offering.CityID, backendError(err))
		}
		countryID = city.CountryID
	}

	sel := ws.Selector(FormEditTournament)
	if _, err := sel.Preselect(countryID, offering.CityID); err != nil {
		return nil, err
	}
	state, err := sel.Settled(ctx)
	if err != nil {
		return nil, err
	}
	data.Location = state

	return &EditFormData{FormData: *data, Offering: offering}, nil
}

func (s *formService) SelectCountry(ctx context.Context, ws *Workspace, form FormName, countryID int, wait bool) (cascade.State, error) {
	sel := ws.Selector(form)
	state, err := sel.SelectCountry(countryID)
	if err != nil || !wait {
		return state, err
	}
	return sel.Settled(ctx)
}

func (s *formService) SelectCity(ws *Workspace, form FormName, cityID int) (cascade.State, error) {
	return ws.Selector(form).SelectCity(cityID)
}

// loadBaseTournaments reuses the catalogue already cached in the workspace.
func (s *formService) loadBaseTournaments(ctx context.Context, ws *Workspace) ([]models.BaseTournament, error) {
	if cached := ws.Views().BaseTournaments; cached != nil {
		return cached, nil
	}
	base, err := s.tournaments.ListBaseTournaments(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load tournament types: %w", err)
	}
	ws.update(func(v *Views) { v.BaseTournaments = base })
	return base, nil
}
