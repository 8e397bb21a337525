package models

import (
	"github.com/shopspring/decimal"
)

// BaseTournament — шаблон турнира, который выбирает организатор.
type BaseTournament struct {
	ID   int    `json:"id_torneo"`
	Name string `json:"nombre_torneo"`
}

// Offering is an organizer's scheduled instance of a base tournament.
type Offering struct {
	ID              int             `json:"id_torneo_organizador"`
	Tournament      BaseTournament  `json:"torneo"`
	OrganizerID     int             `json:"fk_organizador_id,omitempty"`
	Organizer       *Organizer      `json:"organizador,omitempty"`
	Date            Date            `json:"fecha_torneo"`
	Cost            decimal.Decimal `json:"costo"`
	CityID          int             `json:"fk_ciudad_id,omitempty"`
	CityName        string          `json:"ciudad_nombre"`
	EnrollmentCount int             `json:"inscripciones_count"`
	PlayerLimit     int             `json:"limite_jugadores,omitempty"`
}

// Revenue is cost × enrollment count for this offering.
func (o Offering) Revenue() decimal.Decimal {
	return o.Cost.Mul(decimal.NewFromInt(int64(o.EnrollmentCount)))
}

// OfferingInput is the body of POST/PUT /torneos-organizadores.
type OfferingInput struct {
	BaseTournamentID int     `json:"fk_torneo_id"`
	Date             Date    `json:"fecha_torneo"`
	Cost             float64 `json:"costo"`
	CityID           int     `json:"fk_ciudad_id"`
}
