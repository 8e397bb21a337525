package repositories

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Dosada05/chess-portal/models"
)

type EnrollmentRepository interface {
	Enroll(ctx context.Context, token string, playerID int, input models.EnrollmentInput) (*models.EnrollmentReceipt, error)
	ListByPlayer(ctx context.Context, token string, playerID int) ([]models.Enrollment, error)
	Cancel(ctx context.Context, token string, enrollmentID int) error
}

type httpEnrollmentRepository struct {
	client *Client
}

func NewHTTPEnrollmentRepository(client *Client) EnrollmentRepository {
	return &httpEnrollmentRepository{client: client}
}

// Enroll не оборачивает ошибку бэкенда: статус 409/400 нужен вызывающему коду.
func (r *httpEnrollmentRepository) Enroll(ctx context.Context, token string, playerID int, input models.EnrollmentInput) (*models.EnrollmentReceipt, error) {
	var out models.EnrollmentReceipt
	path := fmt.Sprintf("/inscripciones/%d", playerID)
	if err := r.client.Do(ctx, Request{Method: http.MethodPost, Path: path, Token: token, Body: input}, &out); err != nil {
		return nil, fmt.Errorf("failed to enroll player %d in offering %d: %w", playerID, input.OfferingID, err)
	}
	return &out, nil
}

func (r *httpEnrollmentRepository) ListByPlayer(ctx context.Context, token string, playerID int) ([]models.Enrollment, error) {
	var out []models.Enrollment
	path := fmt.Sprintf("/inscripciones/%d", playerID)
	if err := r.client.Do(ctx, Request{Method: http.MethodGet, Path: path, Token: token}, &out); err != nil {
		return nil, fmt.Errorf("failed to list enrollments of player %d: %w", playerID, err)
	}
	return out, nil
}

func (r *httpEnrollmentRepository) Cancel(ctx context.Context, token string, enrollmentID int) error {
	path := fmt.Sprintf("/inscripciones/%d", enrollmentID)
	if err := r.client.Do(ctx, Request{Method: http.MethodDelete, Path: path, Token: token}, nil); err != nil {
		return fmt.Errorf("failed to cancel enrollment %d: %w", enrollmentID, err)
	}
	return nil
}
