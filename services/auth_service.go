package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Dosada05/chess-portal/models"
	"github.com/Dosada05/chess-portal/repositories"
	"github.com/Dosada05/chess-portal/session"
	"github.com/Dosada05/chess-portal/validation"
)

type AuthService interface {
	Login(ctx context.Context, store *session.Store, sessionID string, form validation.LoginForm) (models.Session, error)
	Logout(ctx context.Context, store *session.Store, sessionID string) error
	RegisterPlayer(ctx context.Context, ws *Workspace, form validation.PlayerRegistrationForm) error
	RegisterOrganizer(ctx context.Context, ws *Workspace, form validation.OrganizerRegistrationForm) error
}

type authService struct {
	users      repositories.UserRepository
	locations  repositories.LocationRepository
	workspaces *Workspaces
	logger     *slog.Logger
}

func NewAuthService(users repositories.UserRepository, locations repositories.LocationRepository, workspaces *Workspaces, logger *slog.Logger) AuthService {
	return &authService{
		users:      users,
		locations:  locations,
		workspaces: workspaces,
		logger:     logger,
	}
}

// Login replaces the session wholesale. Views and forms of a different
// previous user are discarded before the new identity is stored.
func (s *authService) Login(ctx context.Context, store *session.Store, sessionID string, form validation.LoginForm) (models.Session, error) {
	if err := form.Validate(); err != nil {
		return models.Session{}, err
	}

	result, err := s.users.Login(ctx, models.Credentials{Email: form.Email, Password: form.Password})
	if err != nil {
		switch repositories.StatusOf(err) {
		case http.StatusUnauthorized:
			return models.Session{}, ErrInvalidCredentials
		case http.StatusForbidden:
			return models.Session{}, ErrAccountDisabled
		}
		return models.Session{}, fmt.Errorf("login failed: %w", err)
	}

	if !sameUser(store.Get(ctx).Identity, result.Identity) {
		s.workspaces.Discard(sessionID)
	}
	if err := store.Set(ctx, result.Identity, result.Token); err != nil {
		return models.Session{}, fmt.Errorf("failed to store session: %w", err)
	}
	s.logger.Info("user logged in", "user_id", result.Identity.Base().UserID, "kind", result.Identity.Base().Kind)
	return models.Session{Token: result.Token, Identity: result.Identity}, nil
}

func sameUser(prev, next models.Identity) bool {
	if prev == nil || next == nil {
		return false
	}
	return prev.Base().Kind == next.Base().Kind && prev.RoleID() == next.RoleID()
}

// Logout clears the session and throws away every view of the browser.
func (s *authService) Logout(ctx context.Context, store *session.Store, sessionID string) error {
	s.workspaces.Discard(sessionID)
	if err := store.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

func (s *authService) RegisterPlayer(ctx context.Context, ws *Workspace, form validation.PlayerRegistrationForm) error {
	form.CityID, _ = ws.Selector(FormRegisterPlayer).State().ResolvedCity()
	if err := form.Validate(); err != nil {
		return err
	}

	done, err := ws.begin()
	if err != nil {
		return err
	}
	defer done()

	addressID, err := s.createAddress(ctx, form.AddressLine, form.CityID)
	if err != nil {
		return err
	}

	err = s.users.RegisterPlayer(ctx, models.PlayerRegistration{
		Name:      form.Name,
		Surname:   form.Surname,
		Phone:     form.Phone,
		Email:     form.Email,
		Password:  form.Password,
		AddressID: addressID,
	})
	if err != nil {
		return registrationError(err)
	}

	ws.ResetForm(FormRegisterPlayer)
	s.logger.Info("player registered", "email", form.Email)
	return nil
}

func (s *authService) RegisterOrganizer(ctx context.Context, ws *Workspace, form validation.OrganizerRegistrationForm) error {
	form.CityID, _ = ws.Selector(FormRegisterOrganizer).State().ResolvedCity()
	if err := form.Validate(); err != nil {
		return err
	}

	done, err := ws.begin()
	if err != nil {
		return err
	}
	defer done()

	addressID, err := s.createAddress(ctx, form.AddressLine, form.CityID)
	if err != nil {
		return err
	}

	err = s.users.RegisterOrganizer(ctx, models.OrganizerRegistration{
		OrgName:   form.OrgName,
		Email:     form.Email,
		Password:  form.Password,
		AddressID: addressID,
	})
	if err != nil {
		return registrationError(err)
	}

	ws.ResetForm(FormRegisterOrganizer)
	s.logger.Info("organizer registered", "email", form.Email)
	return nil
}

func (s *authService) createAddress(ctx context.Context, line string, cityID int) (int, error) {
	addr, err := s.locations.CreateAddress(ctx, models.AddressInput{Line: line, CityID: cityID})
	if err != nil {
		return 0, fmt.Errorf("failed to create address: %w", backendError(err))
	}
	return addr.ID, nil
}

func registrationError(err error) error {
	switch repositories.StatusOf(err) {
	case http.StatusConflict:
		return ErrEmailTaken
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %s", ErrValidationFailed, detailOf(err))
	}
	if errors.Is(err, repositories.ErrTransport) {
		return err
	}
	return backendError(err)
}
