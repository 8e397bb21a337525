package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/Dosada05/chess-portal/models"
)

var ErrMalformedLogin = errors.New("login response is missing token or user")

type LoginResult struct {
	Token    string
	Identity models.Identity
}

type UserRepository interface {
	Login(ctx context.Context, creds models.Credentials) (*LoginResult, error)
	RegisterPlayer(ctx context.Context, input models.PlayerRegistration) error
	RegisterOrganizer(ctx context.Context, input models.OrganizerRegistration) error
	UpdatePlayer(ctx context.Context, token string, playerID int, input models.PlayerUpdate) (*models.Player, error)
	UpdateOrganizer(ctx context.Context, token string, organizerID int, input models.OrganizerUpdate) (*models.Organizer, error)
}

type httpUserRepository struct {
	client *Client
}

func NewHTTPUserRepository(client *Client) UserRepository {
	return &httpUserRepository{client: client}
}

func (r *httpUserRepository) Login(ctx context.Context, creds models.Credentials) (*LoginResult, error) {
	var resp struct {
		AccessToken string          `json:"access_token"`
		User        json.RawMessage `json:"usuario"`
	}
	if err := r.client.Do(ctx, Request{Method: http.MethodPost, Path: "/auth/login", Body: creds}, &resp); err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}
	if resp.AccessToken == "" || len(resp.User) == 0 {
		return nil, ErrMalformedLogin
	}

	identity, err := models.DecodeIdentity(resp.User)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: resp.AccessToken, Identity: identity}, nil
}

func (r *httpUserRepository) RegisterPlayer(ctx context.Context, input models.PlayerRegistration) error {
	if err := r.client.Do(ctx, Request{Method: http.MethodPost, Path: "/jugadores/registrar", Body: input}, nil); err != nil {
		return fmt.Errorf("failed to register player: %w", err)
	}
	return nil
}

func (r *httpUserRepository) RegisterOrganizer(ctx context.Context, input models.OrganizerRegistration) error {
	if err := r.client.Do(ctx, Request{Method: http.MethodPost, Path: "/auth/register-organizador", Body: input}, nil); err != nil {
		return fmt.Errorf("failed to register organizer: %w", err)
	}
	return nil
}

// Ответы PUT /jugadores и PUT /organizadores вкладывают аккаунт в поле "usuario".
type playerResponse struct {
	ID        int            `json:"id_jugador"`
	Name      string         `json:"nombre"`
	Surname   string         `json:"apellido"`
	Phone     string         `json:"telefono"`
	AddressID int            `json:"fk_direccion_id"`
	User      models.Account `json:"usuario"`
}

type organizerResponse struct {
	ID        int            `json:"id_organizador"`
	OrgName   string         `json:"nombre_organizador"`
	AddressID int            `json:"fk_direccion_id"`
	User      models.Account `json:"usuario"`
}

func (r *httpUserRepository) UpdatePlayer(ctx context.Context, token string, playerID int, input models.PlayerUpdate) (*models.Player, error) {
	var resp playerResponse
	path := fmt.Sprintf("/jugadores/%d", playerID)
	if err := r.client.Do(ctx, Request{Method: http.MethodPut, Path: path, Token: token, Body: input}, &resp); err != nil {
		return nil, fmt.Errorf("failed to update player %d: %w", playerID, err)
	}

	account := resp.User
	account.Kind = models.KindPlayer
	account.AddressID = resp.AddressID
	return &models.Player{
		Account: account,
		ID:      resp.ID,
		Name:    resp.Name,
		Surname: resp.Surname,
		Phone:   resp.Phone,
	}, nil
}

func (r *httpUserRepository) UpdateOrganizer(ctx context.Context, token string, organizerID int, input models.OrganizerUpdate) (*models.Organizer, error) {
	var resp organizerResponse
	path := fmt.Sprintf("/organizadores/%d", organizerID)
	if err := r.client.Do(ctx, Request{Method: http.MethodPut, Path: path, Token: token, Body: input}, &resp); err != nil {
		return nil, fmt.Errorf("failed to update organizer %d: %w", organizerID, err)
	}

	account := resp.User
	account.Kind = models.KindOrganizer
	account.AddressID = resp.AddressID
	return &models.Organizer{
		Account: account,
		ID:      resp.ID,
		OrgName: resp.OrgName,
	}, nil
}
