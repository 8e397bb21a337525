package repositories

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Dosada05/chess-portal/models"
)

// OfferingFilter narrows GET /torneos-organizadores/. Zero fields are omitted.
type OfferingFilter struct {
	OrganizerID int
	PlayerID    int
}

type TournamentRepository interface {
	ListBaseTournaments(ctx context.Context) ([]models.BaseTournament, error)
	ListOfferings(ctx context.Context, token string, filter OfferingFilter) ([]models.Offering, error)
	CreateOffering(ctx context.Context, token string, input models.OfferingInput) (*models.Offering, error)
	UpdateOffering(ctx context.Context, token string, id int, input models.OfferingInput) (*models.Offering, error)
	DeleteOffering(ctx context.Context, token string, id int) error
	ListEnrolledPlayers(ctx context.Context, token string, offeringID int) ([]models.EnrolledPlayer, error)
}

type httpTournamentRepository struct {
	client *Client
}

func NewHTTPTournamentRepository(client *Client) TournamentRepository {
	return &httpTournamentRepository{client: client}
}

func (r *httpTournamentRepository) ListBaseTournaments(ctx context.Context) ([]models.BaseTournament, error) {
	var out []models.BaseTournament
	err := r.client.Do(ctx, Request{Method: http.MethodGet, Path: "/torneos/"}, &out)
	if err != nil {
		return nil, fmt.Errorf("failed to list base tournaments: %w", err)
	}
	return out, nil
}

func (r *httpTournamentRepository) ListOfferings(ctx context.Context, token string, filter OfferingFilter) ([]models.Offering, error) {
	query := url.Values{}
	if filter.OrganizerID > 0 {
		query.Set("organizador_id", strconv.Itoa(filter.OrganizerID))
	}
	if filter.PlayerID > 0 {
		query.Set("jugador_id", strconv.Itoa(filter.PlayerID))
	}

	var out []models.Offering
	err := r.client.Do(ctx, Request{Method: http.MethodGet, Path: "/torneos-organizadores/", Query: query, Token: token}, &out)
	if err != nil {
		return nil, fmt.Errorf("failed to list offerings: %w", err)
	}
	return out, nil
}

func (r *httpTournamentRepository) CreateOffering(ctx context.Context, token string, input models.OfferingInput) (*models.Offering, error) {
	var out models.Offering
	err := r.client.Do(ctx, Request{Method: http.MethodPost, Path: "/torneos-organizadores/", Token: token, Body: input}, &out)
	if err != nil {
		return nil, fmt.Errorf("failed to create offering: %w", err)
	}
	return &out, nil
}

func (r *httpTournamentRepository) UpdateOffering(ctx context.Context, token string, id int, input models.OfferingInput) (*models.Offering, error) {
	var out models.Offering
	path := fmt.Sprintf("/torneos-organizadores/%d", id)
	err := r.client.Do(ctx, Request{Method: http.MethodPut, Path: path, Token: token, Body: input}, &out)
	if err != nil {
		return nil, fmt.Errorf("failed to update offering %d: %w", id, err)
	}
	return &out, nil
}

func (r *httpTournamentRepository) DeleteOffering(ctx context.Context, token string, id int) error {
	path := fmt.Sprintf("/torneos-organizadores/%d", id)
	if err := r.client.Do(ctx, Request{Method: http.MethodDelete, Path: path, Token: token}, nil); err != nil {
		return fmt.Errorf("failed to delete offering %d: %w", id, err)
	}
	return nil
}

func (r *httpTournamentRepository) ListEnrolledPlayers(ctx context.Context, token string, offeringID int) ([]models.EnrolledPlayer, error) {
	var out []models.EnrolledPlayer
	path := fmt.Sprintf("/torneos-organizadores/%d/jugadores-inscritos", offeringID)
	if err := r.client.Do(ctx, Request{Method: http.MethodGet, Path: path, Token: token}, &out); err != nil {
		return nil, fmt.Errorf("failed to list players of offering %d: %w", offeringID, err)
	}
	return out, nil
}
