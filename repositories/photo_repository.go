package repositories

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/Dosada05/chess-portal/models"
)

type PhotoRepository interface {
	UploadProfilePicture(ctx context.Context, token, fileName, contentType string, file io.Reader) (*models.PhotoResult, error)
	DeleteProfilePicture(ctx context.Context, token string) error
}

type httpPhotoRepository struct {
	client *Client
}

func NewHTTPPhotoRepository(client *Client) PhotoRepository {
	return &httpPhotoRepository{client: client}
}

func (r *httpPhotoRepository) UploadProfilePicture(ctx context.Context, token, fileName, contentType string, file io.Reader) (*models.PhotoResult, error) {
	var out models.PhotoResult
	req := Request{Method: http.MethodPost, Path: "/fotos/upload-profile-picture", Token: token}
	if err := r.client.Upload(ctx, req, "file", fileName, contentType, file, &out); err != nil {
		return nil, fmt.Errorf("failed to upload profile picture: %w", err)
	}
	return &out, nil
}

func (r *httpPhotoRepository) DeleteProfilePicture(ctx context.Context, token string) error {
	req := Request{Method: http.MethodDelete, Path: "/fotos/profile-picture", Token: token}
	if err := r.client.Do(ctx, req, nil); err != nil {
		return fmt.Errorf("failed to delete profile picture: %w", err)
	}
	return nil
}
