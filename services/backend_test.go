package services

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/chess-portal/models"
	"github.com/Dosada05/chess-portal/notifications"
	"github.com/Dosada05/chess-portal/payment"
	"github.com/Dosada05/chess-portal/repositories"
	"github.com/Dosada05/chess-portal/session"
	"github.com/Dosada05/chess-portal/storage"
)

// fakeBackend is a chi router standing in for the chess REST backend.
type fakeBackend struct {
	router chi.Router

	mu    sync.Mutex
	calls []string
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	b.calls = append(b.calls, r.Method+" "+r.URL.Path)
	b.mu.Unlock()
	b.router.ServeHTTP(w, r)
}

func (b *fakeBackend) handle(method, pattern string, h http.HandlerFunc) {
	b.router.Method(method, pattern, h)
}

func (b *fakeBackend) count(call string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, c := range b.calls {
		if c == call {
			n++
		}
	}
	return n
}

func reply(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	io.WriteString(w, body)
}

func decodeBody(t *testing.T, r *http.Request, dst interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(r.Body).Decode(dst))
}

type recordingNotifier struct {
	mu     sync.Mutex
	toasts map[string][]notifications.Toast
}

func (n *recordingNotifier) Notify(sessionID string, toast notifications.Toast) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.toasts == nil {
		n.toasts = make(map[string][]notifications.Toast)
	}
	n.toasts[sessionID] = append(n.toasts[sessionID], toast)
}

func (n *recordingNotifier) forSession(sid string) []notifications.Toast {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notifications.Toast(nil), n.toasts[sid]...)
}

type countingProcessor struct {
	inner payment.Processor
	calls atomic.Int32
}

func (p *countingProcessor) Process(ctx context.Context, charge payment.Charge) (payment.Receipt, error) {
	p.calls.Add(1)
	return p.inner.Process(ctx, charge)
}

type memUploader struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (u *memUploader) Upload(_ context.Context, key, _ string, r io.Reader) (*storage.UploadResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.objects == nil {
		u.objects = make(map[string][]byte)
	}
	u.objects[key] = data
	return &storage.UploadResult{Key: key, Location: u.GetPublicURL(key)}, nil
}

func (u *memUploader) Delete(_ context.Context, key string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	delete(u.objects, key)
	return nil
}

func (u *memUploader) GetPublicURL(key string) string { return "https://files.example.com/" + key }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var fixedNow = time.Date(2026, time.May, 10, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

type harness struct {
	t       *testing.T
	ctx     context.Context
	backend *fakeBackend

	store      *session.Store
	workspaces *Workspaces
	ws         *Workspace
	notifier   *recordingNotifier
	processor  *countingProcessor
	uploader   *memUploader

	auth        AuthService
	forms       FormService
	dashboards  DashboardService
	tournaments TournamentService
	enrollments EnrollmentService
	profile     ProfileService
}

const testSID = "sid-test"

func newHarness(t *testing.T) *harness {
	t.Helper()

	b := &fakeBackend{router: chi.NewRouter()}
	b.handle(http.MethodGet, "/torneos/", func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusOK, `[{"id_torneo":1,"nombre_torneo":"Blitz"},{"id_torneo":2,"nombre_torneo":"Rapid"}]`)
	})
	b.handle(http.MethodGet, "/paises", func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusOK, `[{"id_pais":1,"nombre_pais":"Peru"},{"id_pais":2,"nombre_pais":"Chile"}]`)
	})
	b.handle(http.MethodGet, "/ciudades/pais/{id}", func(w http.ResponseWriter, r *http.Request) {
		switch chi.URLParam(r, "id") {
		case "1":
			reply(w, http.StatusOK, `[{"id_ciudad":10,"nombre_ciudad":"Lima","fk_pais_id":1},{"id_ciudad":11,"nombre_ciudad":"Cusco","fk_pais_id":1}]`)
		case "2":
			reply(w, http.StatusOK, `[{"id_ciudad":20,"nombre_ciudad":"Santiago","fk_pais_id":2}]`)
		default:
			reply(w, http.StatusInternalServerError, `{"detail":"boom"}`)
		}
	})
	b.handle(http.MethodGet, "/ciudades/{id}", func(w http.ResponseWriter, r *http.Request) {
		switch chi.URLParam(r, "id") {
		case "10":
			reply(w, http.StatusOK, `{"id_ciudad":10,"nombre_ciudad":"Lima","fk_pais_id":1}`)
		default:
			reply(w, http.StatusNotFound, `{"detail":"Ciudad no encontrada"}`)
		}
	})

	srv := httptest.NewServer(b)
	t.Cleanup(srv.Close)

	client, err := repositories.NewClient(srv.URL, 5*time.Second)
	require.NoError(t, err)

	users := repositories.NewHTTPUserRepository(client)
	locations := repositories.NewHTTPLocationRepository(client)
	tournaments := repositories.NewHTTPTournamentRepository(client)
	enrollments := repositories.NewHTTPEnrollmentRepository(client)
	photos := repositories.NewHTTPPhotoRepository(client)

	notifier := &recordingNotifier{}
	workspaces := NewWorkspaces(locations, notifier, nil)
	processor := &countingProcessor{inner: payment.NewSimulated(0, 0, nil)}
	uploader := &memUploader{}
	logger := discardLogger()

	h := &harness{
		t:          t,
		ctx:        context.Background(),
		backend:    b,
		store:      session.NewStore(session.NewMemoryKV(), testSID, logger),
		workspaces: workspaces,
		ws:         workspaces.Get(testSID),
		notifier:   notifier,
		processor:  processor,
		uploader:   uploader,

		auth:        NewAuthService(users, locations, workspaces, logger),
		forms:       NewFormService(locations, tournaments, logger),
		dashboards:  NewDashboardService(tournaments, enrollments, clock, logger),
		tournaments: NewTournamentService(tournaments, uploader, clock, logger),
		enrollments: NewEnrollmentService(enrollments, processor, clock, logger),
		profile:     NewProfileService(users, locations, photos, logger),
	}
	t.Cleanup(func() { workspaces.Discard(testSID) })
	return h
}

func (h *harness) loginAsOrganizer() models.Session {
	h.t.Helper()
	org := &models.Organizer{
		Account: models.Account{UserID: 9, Email: "club@example.com", Kind: models.KindOrganizer, Active: true},
		ID:      4,
		OrgName: "Club Alfil",
	}
	require.NoError(h.t, h.store.Set(h.ctx, org, "tok-org"))
	return h.store.Get(h.ctx)
}

func (h *harness) loginAsPlayer() models.Session {
	h.t.Helper()
	player := &models.Player{
		Account: models.Account{UserID: 7, Email: "ana@example.com", Kind: models.KindPlayer, Active: true, AddressID: 55},
		ID:      3,
		Name:    "Ana",
		Surname: "Lopez",
	}
	require.NoError(h.t, h.store.Set(h.ctx, player, "tok-player"))
	return h.store.Get(h.ctx)
}

func requireBearer(t *testing.T, r *http.Request, token string) {
	t.Helper()
	require.Equal(t, "Bearer "+token, r.Header.Get("Authorization"))
}

func containsAll(s string, parts ...string) bool {
	for _, p := range parts {
		if !strings.Contains(s, p) {
			return false
		}
	}
	return true
}
