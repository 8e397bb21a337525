package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Dosada05/chess-portal/models"
	"github.com/Dosada05/chess-portal/reconcile"
	"github.com/Dosada05/chess-portal/repositories"
)

type OrganizerDashboard struct {
	Organizer       string                  `json:"organizer"`
	Offerings       []models.Offering       `json:"offerings"`
	Stats           reconcile.Stats         `json:"stats"`
	BaseTournaments []models.BaseTournament `json:"base_tournaments"`
}

type PlayerDashboard struct {
	Player        string              `json:"player"`
	Available     []models.Offering   `json:"available"`
	EnrolledCount int                 `json:"enrolled_count"`
	Enrollments   []models.Enrollment `json:"enrollments"`
}

func organizerDashboard(o *models.Organizer, v Views) *OrganizerDashboard {
	d := &OrganizerDashboard{Organizer: o.DisplayName(), BaseTournaments: v.BaseTournaments}
	if v.Organizer != nil {
		d.Offerings = v.Organizer.Offerings
		d.Stats = v.Organizer.Stats
	}
	return d
}

func playerDashboard(p *models.Player, v Views) *PlayerDashboard {
	d := &PlayerDashboard{Player: p.DisplayName()}
	if v.Available != nil {
		d.Available = v.Available.Offerings
		d.EnrolledCount = v.Available.EnrolledCount
	}
	if v.Enrollments != nil {
		d.Enrollments = v.Enrollments.Enrollments
	}
	return d
}

// DashboardService mounts the dashboards: every mount refetches and replaces
// the session's views, later mutations only reconcile them.
type DashboardService interface {
	MountOrganizer(ctx context.Context, sess models.Session, ws *Workspace) (*OrganizerDashboard, error)
	MountPlayer(ctx context.Context, sess models.Session, ws *Workspace) (*PlayerDashboard, error)
}

type dashboardService struct {
	tournaments repositories.TournamentRepository
	enrollments repositories.EnrollmentRepository
	now         func() time.Time
	logger      *slog.Logger
}

func NewDashboardService(tournaments repositories.TournamentRepository, enrollments repositories.EnrollmentRepository, now func() time.Time, logger *slog.Logger) DashboardService {
	if now == nil {
		now = time.Now
	}
	return &dashboardService{tournaments: tournaments, enrollments: enrollments, now: now, logger: logger}
}

func (s *dashboardService) MountOrganizer(ctx context.Context, sess models.Session, ws *Workspace) (*OrganizerDashboard, error) {
	org, err := requireOrganizer(sess)
	if err != nil {
		return nil, err
	}

	var (
		offerings []models.Offering
		base      []models.BaseTournament
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		offerings, err = s.tournaments.ListOfferings(gctx, sess.Token, repositories.OfferingFilter{OrganizerID: org.ID})
		if err != nil {
			return fmt.Errorf("failed to load offerings: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		base, err = s.tournaments.ListBaseTournaments(gctx)
		if err != nil {
			return fmt.Errorf("failed to load tournament types: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, backendError(err)
	}

	view := reconcile.NewOrganizerView(offerings)
	ws.update(func(v *Views) {
		v.Organizer = &view
		v.BaseTournaments = base
	})
	s.logger.Debug("organizer dashboard mounted", "organizer_id", org.ID, "offerings", len(offerings))
	return organizerDashboard(org, ws.Views()), nil
}

func (s *dashboardService) MountPlayer(ctx context.Context, sess models.Session, ws *Workspace) (*PlayerDashboard, error) {
	player, err := requirePlayer(sess)
	if err != nil {
		return nil, err
	}

	var (
		offerings   []models.Offering
		enrollments []models.Enrollment
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		offerings, err = s.tournaments.ListOfferings(gctx, sess.Token, repositories.OfferingFilter{PlayerID: player.ID})
		if err != nil {
			return fmt.Errorf("failed to load offerings: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		enrollments, err = s.enrollments.ListByPlayer(gctx, sess.Token, player.ID)
		if err != nil {
			return fmt.Errorf("failed to load enrollments: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, backendError(err)
	}

	day := today(s.now)
	available := reconcile.NewAvailableView(offerings, day, len(enrollments))
	mine := reconcile.NewEnrollmentsView(enrollments, day)
	ws.update(func(v *Views) {
		v.Available = &available
		v.Enrollments = &mine
	})
	s.logger.Debug("player dashboard mounted", "player_id", player.ID, "available", len(available.Offerings))
	return playerDashboard(player, ws.Views()), nil
}
