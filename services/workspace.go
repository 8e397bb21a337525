package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Dosada05/chess-portal/cascade"
	"github.com/Dosada05/chess-portal/models"
	"github.com/Dosada05/chess-portal/notifications"
	"github.com/Dosada05/chess-portal/reconcile"
	"github.com/Dosada05/chess-portal/repositories"
)

type FormName string

const (
	FormCreateTournament  FormName = "create-tournament"
	FormEditTournament    FormName = "edit-tournament"
	FormRegisterPlayer    FormName = "register-player"
	FormRegisterOrganizer FormName = "register-organizer"
)

func ParseFormName(s string) (FormName, error) {
	switch f := FormName(s); f {
	case FormCreateTournament, FormEditTournament, FormRegisterPlayer, FormRegisterOrganizer:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownForm, s)
}

// Views are the dashboard lists of one session. Each field is replaced
// wholesale by the reconcile functions, never edited in place.
type Views struct {
	Organizer       *reconcile.OrganizerView
	Available       *reconcile.AvailableView
	Enrollments     *reconcile.EnrollmentsView
	BaseTournaments []models.BaseTournament
}

// Workspace is the server-side page state of one browser session.
type Workspace struct {
	sessionID   string
	newSelector func() *cascade.Selector

	mu       sync.Mutex
	pending  bool
	forms    map[FormName]*cascade.Selector
	views    Views
	lastSeen time.Time
}

func (w *Workspace) SessionID() string { return w.sessionID }

// Selector returns the cascade of a form, creating it on first use.
func (w *Workspace) Selector(form FormName) *cascade.Selector {
	w.mu.Lock()
	defer w.mu.Unlock()
	sel, ok := w.forms[form]
	if !ok {
		sel = w.newSelector()
		w.forms[form] = sel
	}
	return sel
}

// ResetForm drops a form's cascade so the next open starts clean.
func (w *Workspace) ResetForm(form FormName) {
	w.mu.Lock()
	sel, ok := w.forms[form]
	delete(w.forms, form)
	w.mu.Unlock()
	if ok {
		sel.Close()
	}
}

func (w *Workspace) Views() Views {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.views
}

func (w *Workspace) update(fn func(v *Views)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fn(&w.views)
}

// begin marks a mutation as in progress; the returned func must be deferred.
func (w *Workspace) begin() (func(), error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.pending {
		return nil, ErrOperationPending
	}
	w.pending = true
	return func() {
		w.mu.Lock()
		w.pending = false
		w.mu.Unlock()
	}, nil
}

// Pending reports whether a mutation is running.
func (w *Workspace) Pending() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.pending
}

func (w *Workspace) touch(now time.Time) {
	w.mu.Lock()
	w.lastSeen = now
	w.mu.Unlock()
}

func (w *Workspace) close() {
	w.mu.Lock()
	forms := w.forms
	w.forms = make(map[FormName]*cascade.Selector)
	w.views = Views{}
	w.mu.Unlock()
	for _, sel := range forms {
		sel.Close()
	}
}

// Workspaces owns every live workspace, keyed by session id.
type Workspaces struct {
	locations repositories.LocationRepository
	notifier  notifications.Notifier
	logger    *slog.Logger
	now       func() time.Time

	mu    sync.Mutex
	items map[string]*Workspace
}

func NewWorkspaces(locations repositories.LocationRepository, notifier notifications.Notifier, logger *slog.Logger) *Workspaces {
	if logger == nil {
		logger = slog.Default()
	}
	return &Workspaces{
		locations: locations,
		notifier:  notifier,
		logger:    logger,
		now:       time.Now,
		items:     make(map[string]*Workspace),
	}
}

func (ws *Workspaces) Get(sessionID string) *Workspace {
	ws.mu.Lock()
	w, ok := ws.items[sessionID]
	if !ok {
		w = &Workspace{
			sessionID: sessionID,
			forms:     make(map[FormName]*cascade.Selector),
		}
		w.newSelector = func() *cascade.Selector {
			return cascade.NewSelector(ws.fetchCities, ws.cityFailure(sessionID))
		}
		ws.items[sessionID] = w
	}
	ws.mu.Unlock()

	w.touch(ws.now())
	return w
}

// Discard closes and forgets a session's workspace, e.g. on logout.
func (ws *Workspaces) Discard(sessionID string) {
	ws.mu.Lock()
	w, ok := ws.items[sessionID]
	delete(ws.items, sessionID)
	ws.mu.Unlock()
	if ok {
		w.close()
	}
}

// DiscardIdle drops workspaces not used for idle and returns how many went.
func (ws *Workspaces) DiscardIdle(idle time.Duration) int {
	cutoff := ws.now().Add(-idle)

	ws.mu.Lock()
	var stale []*Workspace
	for sid, w := range ws.items {
		w.mu.Lock()
		old := w.lastSeen.Before(cutoff) && !w.pending
		w.mu.Unlock()
		if old {
			stale = append(stale, w)
			delete(ws.items, sid)
		}
	}
	ws.mu.Unlock()

	for _, w := range stale {
		w.close()
	}
	return len(stale)
}

func (ws *Workspaces) Len() int {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	return len(ws.items)
}

func (ws *Workspaces) fetchCities(ctx context.Context, countryID int) ([]models.City, error) {
	return ws.locations.ListCitiesByCountry(ctx, countryID)
}

func (ws *Workspaces) cityFailure(sessionID string) cascade.FailureFunc {
	return func(countryID int, err error) {
		ws.logger.Warn("failed to load cities", "session_id", sessionID, "country_id", countryID, "error", err)
		if ws.notifier != nil {
			ws.notifier.Notify(sessionID, notifications.Error("Could not load the cities of the selected country"))
		}
	}
}
