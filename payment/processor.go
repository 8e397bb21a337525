// Package payment simulates the card gateway shown before an enrollment is sent.
package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Dosada05/chess-portal/models"
	"github.com/Dosada05/chess-portal/validation"
)

const (
	DefaultProcessingDelay = 1800 * time.Millisecond
	DefaultConfirmDelay    = 1500 * time.Millisecond

	StatusApproved = "approved"
)

var ErrCardRequired = errors.New("card details are required for card payments")

// Charge is what the player is about to pay for one offering.
type Charge struct {
	OfferingID int                  `json:"offering_id"`
	Method     models.PaymentMethod `json:"method"`
	Amount     decimal.Decimal      `json:"amount"`
	Card       *validation.CardForm `json:"card,omitempty"`
}

type Receipt struct {
	Reference   string               `json:"reference"`
	Method      models.PaymentMethod `json:"method"`
	Amount      decimal.Decimal      `json:"amount"`
	Status      string               `json:"status"`
	ProcessedAt time.Time            `json:"processed_at"`
}

// Processor charges a player before the enrollment reaches the backend.
// A real gateway would sit behind the same interface.
type Processor interface {
	Process(ctx context.Context, charge Charge) (Receipt, error)
}

// AfterFunc matches time.After; tests swap it for a controllable clock.
type AfterFunc func(d time.Duration) <-chan time.Time

// Simulated approves every valid charge after two fixed waits: "processing"
// and then "confirmed".
type Simulated struct {
	ProcessingDelay time.Duration
	ConfirmDelay    time.Duration

	after  AfterFunc
	now    func() time.Time
	logger *slog.Logger
}

func NewSimulated(processing, confirm time.Duration, logger *slog.Logger) *Simulated {
	if logger == nil {
		logger = slog.Default()
	}
	return &Simulated{
		ProcessingDelay: processing,
		ConfirmDelay:    confirm,
		after:           time.After,
		now:             time.Now,
		logger:          logger,
	}
}

// WithTimer replaces the wait source.
func (s *Simulated) WithTimer(after AfterFunc) *Simulated {
	s.after = after
	return s
}

// Process checks card details first; an invalid card never starts the timers.
func (s *Simulated) Process(ctx context.Context, charge Charge) (Receipt, error) {
	if charge.Method == models.PaymentCard {
		if charge.Card == nil {
			return Receipt{}, ErrCardRequired
		}
		if err := charge.Card.Validate(); err != nil {
			return Receipt{}, err
		}
	}

	if err := s.wait(ctx, s.ProcessingDelay); err != nil {
		return Receipt{}, fmt.Errorf("payment processing interrupted: %w", err)
	}
	s.logger.Debug("payment processed", "offering_id", charge.OfferingID, "method", charge.Method)

	if err := s.wait(ctx, s.ConfirmDelay); err != nil {
		return Receipt{}, fmt.Errorf("payment confirmation interrupted: %w", err)
	}

	return Receipt{
		Reference:   uuid.NewString(),
		Method:      charge.Method,
		Amount:      charge.Amount,
		Status:      StatusApproved,
		ProcessedAt: s.now(),
	}, nil
}

func (s *Simulated) wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	select {
	case <-s.after(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
