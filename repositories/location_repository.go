package repositories

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Dosada05/chess-portal/models"
)

type LocationRepository interface {
	ListCountries(ctx context.Context) ([]models.Country, error)
	ListCitiesByCountry(ctx context.Context, countryID int) ([]models.City, error)
	GetCity(ctx context.Context, cityID int) (*models.City, error)
	CreateAddress(ctx context.Context, input models.AddressInput) (*models.Address, error)
	GetAddress(ctx context.Context, token string, addressID int) (*models.Address, error)
}

type httpLocationRepository struct {
	client *Client
}

func NewHTTPLocationRepository(client *Client) LocationRepository {
	return &httpLocationRepository{client: client}
}

func (r *httpLocationRepository) ListCountries(ctx context.Context) ([]models.Country, error) {
	var out []models.Country
	if err := r.client.Do(ctx, Request{Method: http.MethodGet, Path: "/paises"}, &out); err != nil {
		return nil, fmt.Errorf("failed to list countries: %w", err)
	}
	return out, nil
}

func (r *httpLocationRepository) ListCitiesByCountry(ctx context.Context, countryID int) ([]models.City, error) {
	var out []models.City
	path := fmt.Sprintf("/ciudades/pais/%d", countryID)
	if err := r.client.Do(ctx, Request{Method: http.MethodGet, Path: path}, &out); err != nil {
		return nil, fmt.Errorf("failed to list cities of country %d: %w", countryID, err)
	}
	return out, nil
}

func (r *httpLocationRepository) GetCity(ctx context.Context, cityID int) (*models.City, error) {
	var out models.City
	path := fmt.Sprintf("/ciudades/%d", cityID)
	if err := r.client.Do(ctx, Request{Method: http.MethodGet, Path: path}, &out); err != nil {
		return nil, fmt.Errorf("failed to get city %d: %w", cityID, err)
	}
	return &out, nil
}

func (r *httpLocationRepository) CreateAddress(ctx context.Context, input models.AddressInput) (*models.Address, error) {
	var out models.Address
	if err := r.client.Do(ctx, Request{Method: http.MethodPost, Path: "/direcciones", Body: input}, &out); err != nil {
		return nil, fmt.Errorf("failed to create address: %w", err)
	}
	return &out, nil
}

func (r *httpLocationRepository) GetAddress(ctx context.Context, token string, addressID int) (*models.Address, error) {
	var out models.Address
	path := fmt.Sprintf("/direcciones/%d", addressID)
	if err := r.client.Do(ctx, Request{Method: http.MethodGet, Path: path, Token: token}, &out); err != nil {
		return nil, fmt.Errorf("failed to get address %d: %w", addressID, err)
	}
	return &out, nil
}
