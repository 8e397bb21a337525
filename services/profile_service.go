package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Dosada05/chess-portal/models"
	"github.com/Dosada05/chess-portal/repositories"
	"github.com/Dosada05/chess-portal/session"
)

const MaxPhotoSize = 5 << 20

// ProfileUpdate — изменяемые поля профиля; nil значит «не менять».
type ProfileUpdate struct {
	Name    *string `json:"nombre,omitempty"`
	Surname *string `json:"apellido,omitempty"`
	Phone   *string `json:"telefono,omitempty"`
	OrgName *string `json:"nombre_organizador,omitempty"`
	Address *string `json:"direccion,omitempty"`
}

type Photo struct {
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type ProfileService interface {
	Update(ctx context.Context, store *session.Store, upd ProfileUpdate) (models.Identity, error)
	Address(ctx context.Context, sess models.Session) (*models.Address, error)
	UploadPhoto(ctx context.Context, store *session.Store, photo Photo) (models.Identity, error)
	DeletePhoto(ctx context.Context, store *session.Store) (models.Identity, error)
}

type profileService struct {
	users     repositories.UserRepository
	locations repositories.LocationRepository
	photos    repositories.PhotoRepository
	logger    *slog.Logger
}

func NewProfileService(users repositories.UserRepository, locations repositories.LocationRepository, photos repositories.PhotoRepository, logger *slog.Logger) ProfileService {
	return &profileService{users: users, locations: locations, photos: photos, logger: logger}
}

// Update sends the changes and replaces the stored identity as a whole.
func (s *profileService) Update(ctx context.Context, store *session.Store, upd ProfileUpdate) (models.Identity, error) {
	sess := store.Get(ctx)
	if err := requireSession(sess); err != nil {
		return nil, err
	}

	var next models.Identity
	switch current := sess.Identity.(type) {
	case *models.Player:
		updated, err := s.users.UpdatePlayer(ctx, sess.Token, current.ID, models.PlayerUpdate{
			Name:    upd.Name,
			Surname: upd.Surname,
			Phone:   upd.Phone,
			Address: upd.Address,
		})
		if err != nil {
			return nil, profileError(err)
		}
		mergeAccount(&updated.Account, current.Account)
		next = updated
	case *models.Organizer:
		updated, err := s.users.UpdateOrganizer(ctx, sess.Token, current.ID, models.OrganizerUpdate{
			OrgName: upd.OrgName,
			Address: upd.Address,
		})
		if err != nil {
			return nil, profileError(err)
		}
		mergeAccount(&updated.Account, current.Account)
		next = updated
	default:
		return nil, ErrForbiddenRole
	}

	if err := store.ReplaceIdentity(ctx, next); err != nil {
		return nil, fmt.Errorf("failed to store updated identity: %w", err)
	}
	s.logger.Info("profile updated", "user_id", next.Base().UserID)
	return next, nil
}

// mergeAccount keeps account fields the update response left empty.
func mergeAccount(dst *models.Account, current models.Account) {
	if dst.UserID == 0 {
		dst.UserID = current.UserID
	}
	if dst.Email == "" {
		dst.Email = current.Email
	}
	if dst.PhotoURL == nil {
		dst.PhotoURL = current.PhotoURL
	}
	if dst.CreatedAt == "" {
		dst.CreatedAt = current.CreatedAt
	}
	if dst.AddressID == 0 {
		dst.AddressID = current.AddressID
	}
	if !dst.Active {
		dst.Active = current.Active
	}
}

func (s *profileService) Address(ctx context.Context, sess models.Session) (*models.Address, error) {
	if err := requireSession(sess); err != nil {
		return nil, err
	}
	addressID := sess.Identity.Base().AddressID
	if addressID == 0 {
		return nil, fmt.Errorf("%w: no address on file", ErrNotFound)
	}
	addr, err := s.locations.GetAddress(ctx, sess.Token, addressID)
	if err != nil {
		return nil, backendError(err)
	}
	return addr, nil
}

func (s *profileService) UploadPhoto(ctx context.Context, store *session.Store, photo Photo) (models.Identity, error) {
	sess := store.Get(ctx)
	if err := requireSession(sess); err != nil {
		return nil, err
	}
	if !strings.HasPrefix(photo.ContentType, "image/") {
		return nil, ErrInvalidPhoto
	}
	if photo.Size > MaxPhotoSize {
		return nil, ErrPhotoTooLarge
	}

	result, err := s.photos.UploadProfilePicture(ctx, sess.Token, photo.FileName, photo.ContentType, photo.Body)
	if err != nil {
		return nil, profileError(err)
	}

	url := result.URL
	next := models.WithPhoto(sess.Identity, &url)
	if err := store.ReplaceIdentity(ctx, next); err != nil {
		return nil, fmt.Errorf("failed to store updated identity: %w", err)
	}
	s.logger.Info("profile photo uploaded", "user_id", next.Base().UserID)
	return next, nil
}

func (s *profileService) DeletePhoto(ctx context.Context, store *session.Store) (models.Identity, error) {
	sess := store.Get(ctx)
	if err := requireSession(sess); err != nil {
		return nil, err
	}
	if err := s.photos.DeleteProfilePicture(ctx, sess.Token); err != nil {
		return nil, profileError(err)
	}

	next := models.WithPhoto(sess.Identity, nil)
	if err := store.ReplaceIdentity(ctx, next); err != nil {
		return nil, fmt.Errorf("failed to store updated identity: %w", err)
	}
	return next, nil
}

func profileError(err error) error {
	if repositories.StatusOf(err) == http.StatusBadRequest {
		return fmt.Errorf("%w: %s", ErrValidationFailed, detailOf(err))
	}
	return backendError(err)
}
