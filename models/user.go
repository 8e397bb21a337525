package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

// UserKind соответствует полю tipo_usuario бэкенда.
type UserKind string

const (
	KindPlayer    UserKind = "jugador"
	KindOrganizer UserKind = "organizador"
)

var (
	ErrUnknownUserKind     = errors.New("unknown user kind")
	ErrMissingRoleIdentity = errors.New("identity is missing its role identifier")
)

// Account holds the fields shared by both identity variants.
type Account struct {
	UserID    int      `json:"id_usuario"`
	Email     string   `json:"email"`
	Kind      UserKind `json:"tipo_usuario"`
	PhotoURL  *string  `json:"foto_perfil"`
	Active    bool     `json:"activo"`
	CreatedAt string   `json:"fecha_creacion,omitempty"`
	AddressID int      `json:"fk_direccion_id,omitempty"`
}

// Identity is the authenticated user: either *Player or *Organizer.
type Identity interface {
	Base() *Account
	RoleID() int
	DisplayName() string
	isIdentity()
}

type Player struct {
	Account
	ID      int    `json:"id_jugador"`
	Name    string `json:"nombre"`
	Surname string `json:"apellido"`
	Phone   string `json:"telefono"`
}

func (p *Player) Base() *Account { return &p.Account }
func (p *Player) RoleID() int    { return p.ID }
func (p *Player) DisplayName() string {
	if p.Surname == "" {
		return p.Name
	}
	return p.Name + " " + p.Surname
}
func (*Player) isIdentity() {}

type Organizer struct {
	Account
	ID      int    `json:"id_organizador"`
	OrgName string `json:"nombre_organizador"`
}

func (o *Organizer) Base() *Account     { return &o.Account }
func (o *Organizer) RoleID() int        { return o.ID }
func (o *Organizer) DisplayName() string { return o.OrgName }
func (*Organizer) isIdentity()          {}

// WithPhoto returns a copy of the identity with the photo URL replaced.
// The original value is left untouched so readers never observe a partial update.
func WithPhoto(id Identity, photoURL *string) Identity {
	switch v := id.(type) {
	case *Player:
		cp := *v
		cp.PhotoURL = photoURL
		return &cp
	case *Organizer:
		cp := *v
		cp.PhotoURL = photoURL
		return &cp
	}
	return id
}

// DecodeIdentity разбирает объект "usuario" из ответа бэкенда.
func DecodeIdentity(raw json.RawMessage) (Identity, error) {
	var probe struct {
		Kind        UserKind `json:"tipo_usuario"`
		PlayerID    *int     `json:"id_jugador"`
		OrganizerID *int     `json:"id_organizador"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("failed to decode identity: %w", err)
	}

	switch probe.Kind {
	case KindPlayer:
		if probe.PlayerID == nil {
			return nil, fmt.Errorf("%w: id_jugador", ErrMissingRoleIdentity)
		}
		var p Player
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("failed to decode player identity: %w", err)
		}
		return &p, nil
	case KindOrganizer:
		if probe.OrganizerID == nil {
			return nil, fmt.Errorf("%w: id_organizador", ErrMissingRoleIdentity)
		}
		var o Organizer
		if err := json.Unmarshal(raw, &o); err != nil {
			return nil, fmt.Errorf("failed to decode organizer identity: %w", err)
		}
		return &o, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownUserKind, probe.Kind)
	}
}

// identityEnvelope is the storage form of an Identity.
type identityEnvelope struct {
	Kind      UserKind   `json:"kind"`
	Player    *Player    `json:"player,omitempty"`
	Organizer *Organizer `json:"organizer,omitempty"`
}

// Session pairs the backend bearer token with the identity it was issued for.
type Session struct {
	Token    string
	Identity Identity
}

func (s Session) MarshalJSON() ([]byte, error) {
	out := struct {
		Token    string            `json:"token"`
		Identity *identityEnvelope `json:"identity,omitempty"`
	}{Token: s.Token}

	switch v := s.Identity.(type) {
	case *Player:
		out.Identity = &identityEnvelope{Kind: KindPlayer, Player: v}
	case *Organizer:
		out.Identity = &identityEnvelope{Kind: KindOrganizer, Organizer: v}
	case nil:
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownUserKind, s.Identity)
	}
	return json.Marshal(out)
}

func (s *Session) UnmarshalJSON(data []byte) error {
	var in struct {
		Token    string            `json:"token"`
		Identity *identityEnvelope `json:"identity"`
	}
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	s.Token = in.Token
	s.Identity = nil
	if in.Identity == nil {
		return nil
	}
	switch in.Identity.Kind {
	case KindPlayer:
		if in.Identity.Player == nil {
			return fmt.Errorf("%w: player payload", ErrMissingRoleIdentity)
		}
		s.Identity = in.Identity.Player
	case KindOrganizer:
		if in.Identity.Organizer == nil {
			return fmt.Errorf("%w: organizer payload", ErrMissingRoleIdentity)
		}
		s.Identity = in.Identity.Organizer
	default:
		return fmt.Errorf("%w: %q", ErrUnknownUserKind, in.Identity.Kind)
	}
	return nil
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"contraseña"`
}
