package services

import (
	"time"

	"github.com/Dosada05/chess-portal/models"
)

func requireSession(sess models.Session) error {
	if sess.Token == "" || sess.Identity == nil {
		return ErrUnauthenticated
	}
	return nil
}

func requirePlayer(sess models.Session) (*models.Player, error) {
	if err := requireSession(sess); err != nil {
		return nil, err
	}
	p, ok := sess.Identity.(*models.Player)
	if !ok {
		return nil, ErrForbiddenRole
	}
	return p, nil
}

func requireOrganizer(sess models.Session) (*models.Organizer, error) {
	if err := requireSession(sess); err != nil {
		return nil, err
	}
	o, ok := sess.Identity.(*models.Organizer)
	if !ok {
		return nil, ErrForbiddenRole
	}
	return o, nil
}

func today(now func() time.Time) models.Date {
	return models.DateOf(now())
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
