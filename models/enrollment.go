package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentCard     PaymentMethod = "Tarjeta"
	PaymentCash     PaymentMethod = "Efectivo"
	PaymentTransfer PaymentMethod = "Transferencia"
)

// ParsePaymentMethod accepts both the backend values and their English names.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch s {
	case string(PaymentCard), "card", "Card":
		return PaymentCard, nil
	case string(PaymentCash), "cash", "Cash":
		return PaymentCash, nil
	case string(PaymentTransfer), "transfer", "Transfer":
		return PaymentTransfer, nil
	}
	return "", fmt.Errorf("unknown payment method %q", s)
}

// Enrollment is one row of GET /inscripciones/{playerId}.
type Enrollment struct {
	ID             int             `json:"id_inscripcion"`
	OfferingID     int             `json:"id_torneo_organizador"`
	TournamentName string          `json:"nombre_torneo"`
	OrganizerName  string          `json:"nombre_organizador"`
	City           string          `json:"ciudad"`
	Date           Date            `json:"fecha_torneo"`
	Cost           decimal.Decimal `json:"costo"`
	EnrolledAt     string          `json:"fecha_inscripcion"`
	PaymentStatus  string          `json:"estado_pago"`
	PaymentMethod  string          `json:"medio_pago"`
}

// EnrollmentInput is the body of POST /inscripciones/{playerId}.
type EnrollmentInput struct {
	OfferingID int           `json:"fk_torneo_organizador_id"`
	Method     PaymentMethod `json:"medio_pago"`
}

// EnrollmentReceipt is the backend's answer to a successful enrollment.
type EnrollmentReceipt struct {
	ID            int             `json:"id_inscripcion"`
	PaymentStatus string          `json:"estado_pago"`
	Amount        decimal.Decimal `json:"monto"`
	PaymentMethod string          `json:"medio_pago"`
	Message       string          `json:"mensaje"`
}

// EnrolledPlayer — строка списка участников турнира для организатора.
type EnrolledPlayer struct {
	EnrollmentID  int             `json:"id_inscripcion"`
	FullName      string          `json:"nombre_usuario"`
	Email         string          `json:"correo_usuario"`
	Phone         string          `json:"telefono_usuario"`
	EnrolledAt    *string         `json:"fecha_inscripcion"`
	PaymentStatus string          `json:"estado_pago"`
	Amount        decimal.Decimal `json:"monto"`
	PaymentMethod string          `json:"medio_pago"`
}
