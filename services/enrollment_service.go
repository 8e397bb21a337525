package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Dosada05/chess-portal/models"
	"github.com/Dosada05/chess-portal/payment"
	"github.com/Dosada05/chess-portal/reconcile"
	"github.com/Dosada05/chess-portal/repositories"
	"github.com/Dosada05/chess-portal/validation"
)

type EnrollRequest struct {
	OfferingID int                  `json:"fk_torneo_organizador_id"`
	Method     string               `json:"medio_pago"`
	Card       *validation.CardForm `json:"tarjeta,omitempty"`
}

type EnrollResult struct {
	Enrollment    *models.EnrollmentReceipt `json:"inscripcion"`
	Payment       payment.Receipt           `json:"pago"`
	EnrolledCount int                       `json:"enrolled_count"`
}

type EnrollmentService interface {
	Enroll(ctx context.Context, sess models.Session, ws *Workspace, req EnrollRequest) (*EnrollResult, error)
	List(ctx context.Context, sess models.Session, ws *Workspace) ([]models.Enrollment, error)
	Cancel(ctx context.Context, sess models.Session, ws *Workspace, enrollmentID int) error
}

type enrollmentService struct {
	enrollments repositories.EnrollmentRepository
	processor   payment.Processor
	now         func() time.Time
	logger      *slog.Logger
}

func NewEnrollmentService(enrollments repositories.EnrollmentRepository, processor payment.Processor, now func() time.Time, logger *slog.Logger) EnrollmentService {
	if now == nil {
		now = time.Now
	}
	return &enrollmentService{enrollments: enrollments, processor: processor, now: now, logger: logger}
}

// Enroll pays through the processor and then registers the enrollment. The
// views change only after the backend accepted it.
func (s *enrollmentService) Enroll(ctx context.Context, sess models.Session, ws *Workspace, req EnrollRequest) (*EnrollResult, error) {
	player, err := requirePlayer(sess)
	if err != nil {
		return nil, err
	}
	available := ws.Views().Available
	if available == nil {
		return nil, ErrViewNotLoaded
	}
	offering, ok := available.Find(req.OfferingID)
	if !ok {
		return nil, fmt.Errorf("%w: offering %d", ErrNotFound, req.OfferingID)
	}

	method, err := models.ParsePaymentMethod(req.Method)
	if err != nil {
		return nil, &validation.Violation{Field: "medio_pago", Message: "select a payment method"}
	}
	if method == models.PaymentCard {
		if req.Card == nil {
			return nil, &validation.Violation{Field: "tarjeta", Message: "fill in every card field"}
		}
		if err := req.Card.Validate(); err != nil {
			return nil, err
		}
	}

	done, err := ws.begin()
	if err != nil {
		return nil, err
	}
	defer done()

	paid, err := s.processor.Process(ctx, payment.Charge{
		OfferingID: offering.ID,
		Method:     method,
		Amount:     offering.Cost,
		Card:       req.Card,
	})
	if err != nil {
		return nil, fmt.Errorf("payment failed: %w", err)
	}

	receipt, err := s.enrollments.Enroll(ctx, sess.Token, player.ID, models.EnrollmentInput{
		OfferingID: offering.ID,
		Method:     method,
	})
	if err != nil {
		return nil, enrollError(err)
	}

	enrollment := models.Enrollment{
		ID:             receipt.ID,
		OfferingID:     offering.ID,
		TournamentName: offering.Tournament.Name,
		City:           offering.CityName,
		Date:           offering.Date,
		Cost:           offering.Cost,
		EnrolledAt:     s.now().Format(time.RFC3339),
		PaymentStatus:  receipt.PaymentStatus,
		PaymentMethod:  string(method),
	}
	if offering.Organizer != nil {
		enrollment.OrganizerName = offering.Organizer.OrgName
	}

	var count int
	ws.update(func(v *Views) {
		if v.Available != nil {
			next := v.Available.OnEnrolled(offering.ID)
			v.Available = &next
			count = next.EnrolledCount
		}
		if v.Enrollments != nil {
			next := v.Enrollments.OnEnrolled(enrollment)
			v.Enrollments = &next
		}
	})

	s.logger.Info("player enrolled", "player_id", player.ID, "offering_id", offering.ID, "method", method, "payment_ref", paid.Reference)
	return &EnrollResult{Enrollment: receipt, Payment: paid, EnrolledCount: count}, nil
}

func (s *enrollmentService) List(ctx context.Context, sess models.Session, ws *Workspace) ([]models.Enrollment, error) {
	player, err := requirePlayer(sess)
	if err != nil {
		return nil, err
	}
	if view := ws.Views().Enrollments; view != nil {
		return view.Enrollments, nil
	}

	list, err := s.enrollments.ListByPlayer(ctx, sess.Token, player.ID)
	if err != nil {
		return nil, backendError(err)
	}
	view := reconcile.NewEnrollmentsView(list, today(s.now))
	ws.update(func(v *Views) { v.Enrollments = &view })
	return view.Enrollments, nil
}

func (s *enrollmentService) Cancel(ctx context.Context, sess models.Session, ws *Workspace, enrollmentID int) error {
	player, err := requirePlayer(sess)
	if err != nil {
		return err
	}

	done, err := ws.begin()
	if err != nil {
		return err
	}
	defer done()

	if err := s.enrollments.Cancel(ctx, sess.Token, enrollmentID); err != nil {
		return backendError(err)
	}

	ws.update(func(v *Views) {
		if v.Enrollments != nil {
			next := v.Enrollments.OnUnenrolled(enrollmentID)
			v.Enrollments = &next
		}
	})
	s.logger.Info("enrollment cancelled", "player_id", player.ID, "enrollment_id", enrollmentID)
	return nil
}

// 409 — игрок уже записан, 400 — не проходит по условиям турнира.
func enrollError(err error) error {
	switch repositories.StatusOf(err) {
	case http.StatusConflict:
		return ErrAlreadyEnrolled
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", ErrNotEligible, detailOf(err))
	}
	return backendError(err)
}
