// Package validation holds the pre-submit checks of every portal form.
// Checks are fail-fast: the first violated rule is reported and nothing else
// is evaluated.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/Dosada05/chess-portal/models"
)

// Violation is the first rule a form broke.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v *Violation) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

// Clock returns the current time; forms compare dates against its day.
type Clock func() time.Time

var cardNumberRe = regexp.MustCompile(`^[0-9]{16}$`)

// check is one field with its rules; msg overrides the library's text when set.
type check struct {
	field string
	value interface{}
	msg   string
	rules []validation.Rule
}

func first(checks ...check) error {
	for _, c := range checks {
		if err := validation.Validate(c.value, c.rules...); err != nil {
			msg := c.msg
			if msg == "" {
				msg = err.Error()
			}
			return &Violation{Field: c.field, Message: msg}
		}
	}
	return nil
}

// AsViolation extracts a *Violation from err.
func AsViolation(err error) (*Violation, bool) {
	var v *Violation
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}

type Mode string

const (
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

// TournamentForm — форма создания/редактирования турнира организатора.
type TournamentForm struct {
	BaseTournamentID int         `json:"fk_torneo_id"`
	Date             models.Date `json:"fecha_torneo"`
	Cost             *float64    `json:"costo"`
	CountryID        int         `json:"pais_id"`
	CityID           int         `json:"fk_ciudad_id"`
	Mode             Mode        `json:"-"`
}

func (f TournamentForm) Validate(now Clock) error {
	today := models.DateOf(now())
	checks := []check{
		{field: "fk_torneo_id", value: f.BaseTournamentID, msg: "select a tournament type", rules: []validation.Rule{validation.Required}},
		{field: "fecha_torneo", value: f.Date.Time, msg: "select a date", rules: []validation.Rule{validation.Required}},
		{field: "fecha_torneo", value: f.Date.Time, msg: "the date cannot be in the past", rules: []validation.Rule{validation.Min(today.Time)}},
		{field: "costo", value: f.Cost, msg: "enter a cost", rules: []validation.Rule{validation.NotNil}},
		{field: "costo", value: f.Cost, msg: "the cost must be greater than zero", rules: []validation.Rule{validation.By(positive)}},
	}
	if f.Mode != ModeEdit {
		checks = append(checks, check{field: "pais_id", value: f.CountryID, msg: "select a country", rules: []validation.Rule{validation.Required}})
	}
	checks = append(checks, check{field: "fk_ciudad_id", value: f.CityID, msg: "select a city", rules: []validation.Rule{validation.Required}})
	return first(checks...)
}

func positive(value interface{}) error {
	p, _ := value.(*float64)
	if p == nil || *p <= 0 {
		return errors.New("must be greater than zero")
	}
	return nil
}

// PlayerRegistrationForm is submitted together with a new address.
type PlayerRegistrationForm struct {
	Name            string `json:"nombre"`
	Surname         string `json:"apellido"`
	Phone           string `json:"telefono"`
	Email           string `json:"correo"`
	Password        string `json:"contraseña"`
	PasswordConfirm string `json:"confirmar_contraseña"`
	AddressLine     string `json:"direccion"`
	// CityID is the city resolved by the form's cascade, zero while unresolved.
	CityID int `json:"-"`
}

func (f PlayerRegistrationForm) Validate() error {
	return first(
		check{field: "confirmar_contraseña", value: f.Password, msg: "passwords do not match", rules: []validation.Rule{validation.By(equals(f.PasswordConfirm))}},
		check{field: "nombre", value: f.Name, msg: "name is required", rules: []validation.Rule{validation.Required}},
		check{field: "apellido", value: f.Surname, msg: "surname is required", rules: []validation.Rule{validation.Required}},
		check{field: "telefono", value: f.Phone, msg: "phone is required", rules: []validation.Rule{validation.Required}},
		check{field: "correo", value: f.Email, msg: "email is required", rules: []validation.Rule{validation.Required}},
		check{field: "correo", value: f.Email, msg: "email is not valid", rules: []validation.Rule{is.Email}},
		check{field: "direccion", value: f.AddressLine, msg: "address is required", rules: []validation.Rule{validation.Required}},
		check{field: "contraseña", value: f.Password, msg: "password is required", rules: []validation.Rule{validation.Required}},
		check{field: "ciudad", value: f.CityID, msg: "select a country and a city", rules: []validation.Rule{validation.Required}},
	)
}

type OrganizerRegistrationForm struct {
	OrgName         string `json:"nombre_organizador"`
	Email           string `json:"correo"`
	Password        string `json:"contraseña"`
	PasswordConfirm string `json:"confirmar_contraseña"`
	AddressLine     string `json:"direccion"`
	CityID          int    `json:"-"`
}

func (f OrganizerRegistrationForm) Validate() error {
	return first(
		check{field: "confirmar_contraseña", value: f.Password, msg: "passwords do not match", rules: []validation.Rule{validation.By(equals(f.PasswordConfirm))}},
		check{field: "nombre_organizador", value: f.OrgName, msg: "organization name is required", rules: []validation.Rule{validation.Required}},
		check{field: "correo", value: f.Email, msg: "email is required", rules: []validation.Rule{validation.Required}},
		check{field: "correo", value: f.Email, msg: "email is not valid", rules: []validation.Rule{is.Email}},
		check{field: "direccion", value: f.AddressLine, msg: "address is required", rules: []validation.Rule{validation.Required}},
		check{field: "contraseña", value: f.Password, msg: "password is required", rules: []validation.Rule{validation.Required}},
		check{field: "ciudad", value: f.CityID, msg: "select a country and a city", rules: []validation.Rule{validation.Required}},
	)
}

// equals compares byte for byte, no trimming or case folding.
func equals(want string) validation.RuleFunc {
	return func(value interface{}) error {
		got, _ := value.(string)
		if got != want {
			return errors.New("values differ")
		}
		return nil
	}
}

// CardForm carries the simulated card details. Month and Year are kept as
// typed so "07" and "7" both work.
type CardForm struct {
	Number string `json:"numero"`
	Holder string `json:"titular"`
	Month  string `json:"mes"`
	Year   string `json:"ano"`
	CVV    string `json:"cvv"`
}

func (f CardForm) Validate() error {
	if err := first(
		check{field: "numero", value: f.Number, rules: []validation.Rule{validation.Required}},
		check{field: "titular", value: f.Holder, rules: []validation.Rule{validation.Required}},
		check{field: "mes", value: f.Month, rules: []validation.Rule{validation.Required}},
		check{field: "ano", value: f.Year, rules: []validation.Rule{validation.Required}},
		check{field: "cvv", value: f.CVV, rules: []validation.Rule{validation.Required}},
	); err != nil {
		v, _ := AsViolation(err)
		v.Message = "fill in every card field"
		return v
	}
	return first(
		check{field: "numero", value: f.Number, msg: "the card number must have 16 digits", rules: []validation.Rule{validation.Match(cardNumberRe)}},
		check{field: "mes", value: f.Month, msg: "the month must be between 01 and 12", rules: []validation.Rule{is.Digit, validation.By(monthRange)}},
	)
}

func monthRange(value interface{}) error {
	s, _ := value.(string)
	var m int
	if _, err := fmt.Sscanf(s, "%d", &m); err != nil || m < 1 || m > 12 {
		return errors.New("out of range")
	}
	return nil
}

type LoginForm struct {
	Email    string `json:"correo"`
	Password string `json:"contraseña"`
}

func (f LoginForm) Validate() error {
	return first(
		check{field: "correo", value: f.Email, msg: "email is required", rules: []validation.Rule{validation.Required}},
		check{field: "contraseña", value: f.Password, msg: "password is required", rules: []validation.Rule{validation.Required}},
	)
}
