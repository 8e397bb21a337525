package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Dosada05/chess-portal/models"
	"github.com/Dosada05/chess-portal/repositories"
	"github.com/Dosada05/chess-portal/storage"
	"github.com/Dosada05/chess-portal/validation"
)

type TournamentService interface {
	Catalog(ctx context.Context) ([]models.BaseTournament, error)
	Create(ctx context.Context, sess models.Session, ws *Workspace, form validation.TournamentForm) (*models.Offering, error)
	Update(ctx context.Context, sess models.Session, ws *Workspace, id int, form validation.TournamentForm) (*models.Offering, error)
	Delete(ctx context.Context, sess models.Session, ws *Workspace, id int) error
	EnrolledPlayers(ctx context.Context, sess models.Session, id int) ([]models.EnrolledPlayer, error)
	ExportRoster(ctx context.Context, sess models.Session, id int) (*storage.UploadResult, error)
}

type tournamentService struct {
	tournaments repositories.TournamentRepository
	uploader    storage.FileUploader
	now         func() time.Time
	logger      *slog.Logger
}

// NewTournamentService wires the organizer operations. uploader may be nil,
// in which case roster export is unavailable.
func NewTournamentService(tournaments repositories.TournamentRepository, uploader storage.FileUploader, now func() time.Time, logger *slog.Logger) TournamentService {
	if now == nil {
		now = time.Now
	}
	return &tournamentService{tournaments: tournaments, uploader: uploader, now: now, logger: logger}
}

func (s *tournamentService) Catalog(ctx context.Context) ([]models.BaseTournament, error) {
	base, err := s.tournaments.ListBaseTournaments(ctx)
	if err != nil {
		return nil, backendError(err)
	}
	return base, nil
}

func (s *tournamentService) Create(ctx context.Context, sess models.Session, ws *Workspace, form validation.TournamentForm) (*models.Offering, error) {
	org, err := requireOrganizer(sess)
	if err != nil {
		return nil, err
	}
	if ws.Views().Organizer == nil {
		return nil, ErrViewNotLoaded
	}

	sel := ws.Selector(FormCreateTournament)
	state := sel.State()
	city, _ := state.SelectedCity()
	form.Mode = validation.ModeCreate
	form.CountryID = state.CountryID
	form.CityID = city.ID
	if err := form.Validate(s.now); err != nil {
		return nil, err
	}

	done, err := ws.begin()
	if err != nil {
		return nil, err
	}
	defer done()

	created, err := s.tournaments.CreateOffering(ctx, sess.Token, offeringInput(form))
	if err != nil {
		return nil, offeringError(err)
	}

	rec := *created
	s.enrich(ws, &rec, form, city.Name)
	rec.OrganizerID = org.ID
	rec.EnrollmentCount = 0

	ws.update(func(v *Views) {
		if v.Organizer != nil {
			next := v.Organizer.OnCreated(rec)
			v.Organizer = &next
		}
	})
	ws.ResetForm(FormCreateTournament)
	s.logger.Info("offering created", "organizer_id", org.ID, "offering_id", rec.ID)
	return &rec, nil
}

func (s *tournamentService) Update(ctx context.Context, sess models.Session, ws *Workspace, id int, form validation.TournamentForm) (*models.Offering, error) {
	org, err := requireOrganizer(sess)
	if err != nil {
		return nil, err
	}
	view := ws.Views().Organizer
	if view == nil {
		return nil, ErrViewNotLoaded
	}
	existing, ok := view.Find(id)
	if !ok {
		return nil, fmt.Errorf("%w: offering %d", ErrNotFound, id)
	}

	sel := ws.Selector(FormEditTournament)
	state := sel.State()
	city, _ := state.SelectedCity()
	form.Mode = validation.ModeEdit
	form.CountryID = state.CountryID
	form.CityID = city.ID
	if err := form.Validate(s.now); err != nil {
		return nil, err
	}

	done, err := ws.begin()
	if err != nil {
		return nil, err
	}
	defer done()

	updated, err := s.tournaments.UpdateOffering(ctx, sess.Token, id, offeringInput(form))
	if err != nil {
		return nil, offeringError(err)
	}

	rec := *updated
	s.enrich(ws, &rec, form, city.Name)
	rec.OrganizerID = org.ID
	// PUT не возвращает количество записей, берём прежнее.
	rec.EnrollmentCount = existing.EnrollmentCount
	if rec.PlayerLimit == 0 {
		rec.PlayerLimit = existing.PlayerLimit
	}

	ws.update(func(v *Views) {
		if v.Organizer != nil {
			next := v.Organizer.OnUpdated(rec)
			v.Organizer = &next
		}
	})
	ws.ResetForm(FormEditTournament)
	s.logger.Info("offering updated", "organizer_id", org.ID, "offering_id", id)
	return &rec, nil
}

func (s *tournamentService) Delete(ctx context.Context, sess models.Session, ws *Workspace, id int) error {
	org, err := requireOrganizer(sess)
	if err != nil {
		return err
	}

	done, err := ws.begin()
	if err != nil {
		return err
	}
	defer done()

	if err := s.tournaments.DeleteOffering(ctx, sess.Token, id); err != nil {
		return offeringError(err)
	}

	ws.update(func(v *Views) {
		if v.Organizer != nil {
			next := v.Organizer.OnDeleted(id)
			v.Organizer = &next
		}
	})
	s.logger.Info("offering deleted", "organizer_id", org.ID, "offering_id", id)
	return nil
}

func (s *tournamentService) EnrolledPlayers(ctx context.Context, sess models.Session, id int) ([]models.EnrolledPlayer, error) {
	if _, err := requireOrganizer(sess); err != nil {
		return nil, err
	}
	players, err := s.tournaments.ListEnrolledPlayers(ctx, sess.Token, id)
	if err != nil {
		return nil, backendError(err)
	}
	if players == nil {
		players = []models.EnrolledPlayer{}
	}
	return players, nil
}

// ExportRoster uploads the offering's enrolled players as CSV.
func (s *tournamentService) ExportRoster(ctx context.Context, sess models.Session, id int) (*storage.UploadResult, error) {
	org, err := requireOrganizer(sess)
	if err != nil {
		return nil, err
	}
	if s.uploader == nil {
		return nil, ErrExportUnavailable
	}

	players, err := s.EnrolledPlayers(ctx, sess, id)
	if err != nil {
		return nil, err
	}

	data, err := rosterCSV(players)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("rosters/%d/%d-%s.csv", org.ID, id, s.now().UTC().Format("20060102T150405"))
	result, err := s.uploader.Upload(ctx, key, "text/csv", bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to upload roster: %w", err)
	}
	s.logger.Info("roster exported", "organizer_id", org.ID, "offering_id", id, "players", len(players), "key", key)
	return result, nil
}

func rosterCSV(players []models.EnrolledPlayer) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	header := []string{"id_inscripcion", "nombre", "correo", "telefono", "fecha_inscripcion", "estado_pago", "monto", "medio_pago"}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write roster header: %w", err)
	}
	for _, p := range players {
		row := []string{
			strconv.Itoa(p.EnrollmentID),
			p.FullName,
			p.Email,
			p.Phone,
			derefString(p.EnrolledAt),
			p.PaymentStatus,
			p.Amount.StringFixed(2),
			p.PaymentMethod,
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write roster row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush roster: %w", err)
	}
	return buf.Bytes(), nil
}

// enrich fills the fields the backend leaves out of create/update responses.
func (s *tournamentService) enrich(ws *Workspace, rec *models.Offering, form validation.TournamentForm, cityName string) {
	if rec.Tournament.ID == 0 {
		rec.Tournament.ID = form.BaseTournamentID
	}
	if rec.Tournament.Name == "" {
		for _, b := range ws.Views().BaseTournaments {
			if b.ID == rec.Tournament.ID {
				rec.Tournament.Name = b.Name
				break
			}
		}
	}
	if rec.CityID == 0 {
		rec.CityID = form.CityID
	}
	if rec.CityName == "" {
		rec.CityName = cityName
	}
	if rec.Date.IsZero() {
		rec.Date = form.Date
	}
	if rec.Cost.IsZero() && form.Cost != nil {
		rec.Cost = decimal.NewFromFloat(*form.Cost)
	}
}

func offeringInput(form validation.TournamentForm) models.OfferingInput {
	in := models.OfferingInput{
		BaseTournamentID: form.BaseTournamentID,
		Date:             form.Date,
		CityID:           form.CityID,
	}
	if form.Cost != nil {
		in.Cost = *form.Cost
	}
	return in
}

func offeringError(err error) error {
	if repositories.StatusOf(err) == http.StatusBadRequest {
		return fmt.Errorf("%w: %s", ErrValidationFailed, detailOf(err))
	}
	return backendError(err)
}
