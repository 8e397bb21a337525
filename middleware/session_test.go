package middleware

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/chess-portal/models"
	"github.com/Dosada05/chess-portal/services"
	"github.com/Dosada05/chess-portal/session"
)

var testSecret = strings.Repeat("k", 32)

func newTestSessions(kv session.KeyValue) *Sessions {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewSessions(testSecret, kv, services.NewWorkspaces(nil, nil, logger), false, logger)
}

type seen struct {
	sid       string
	workspace *services.Workspace
	sess      models.Session
}

func capture(dst *seen) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		dst.sid = GetSessionID(r.Context())
		dst.workspace, _ = GetWorkspace(r.Context())
		dst.sess = GetSession(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == SessionCookieName {
			return c
		}
	}
	return nil
}

func TestSessions_IssuesCookieForNewBrowser(t *testing.T) {
	s := newTestSessions(session.NewMemoryKV())
	var got seen

	rec := httptest.NewRecorder()
	s.Handler(capture(&got)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/auth/session", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	cookie := sessionCookie(t, rec)
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)

	_, err := uuid.Parse(got.sid)
	require.NoError(t, err)
	assert.NotNil(t, got.workspace)
	assert.Nil(t, got.sess.Identity)

	sid, err := s.Parse(cookie.Value)
	require.NoError(t, err)
	assert.Equal(t, got.sid, sid)
}

func TestSessions_ReusesValidCookie(t *testing.T) {
	kv := session.NewMemoryKV()
	s := newTestSessions(kv)
	sid := uuid.NewString()
	signed, _, err := s.Sign(sid)
	require.NoError(t, err)

	player := &models.Player{Account: models.Account{UserID: 7, Kind: models.KindPlayer}, ID: 3, Name: "Ana"}
	require.NoError(t, session.NewStore(kv, sid, nil).Set(context.Background(), player, "tok-player"))

	var first, second seen
	for _, dst := range []*seen{&first, &second} {
		req := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: signed})
		rec := httptest.NewRecorder()
		s.Handler(capture(dst)).ServeHTTP(rec, req)

		assert.Nil(t, sessionCookie(t, rec), "a valid cookie must not be replaced")
	}

	assert.Equal(t, sid, first.sid)
	assert.Same(t, first.workspace, second.workspace)
	assert.Equal(t, "tok-player", first.sess.Token)
	require.NotNil(t, first.sess.Identity)
	assert.Equal(t, 3, first.sess.Identity.RoleID())
}

func TestSessions_ReplacesForgedCookie(t *testing.T) {
	s := newTestSessions(session.NewMemoryKV())
	other := NewSessions(strings.Repeat("x", 32), session.NewMemoryKV(), services.NewWorkspaces(nil, nil, nil), false, nil)
	forged, _, err := other.Sign(uuid.NewString())
	require.NoError(t, err)

	_, err = s.Parse(forged)
	assert.ErrorIs(t, err, ErrInvalidSessionCookie)

	var got seen
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: forged})
	rec := httptest.NewRecorder()
	s.Handler(capture(&got)).ServeHTTP(rec, req)

	require.NotNil(t, sessionCookie(t, rec))
	assert.NotEmpty(t, got.sid)
}

func TestSessions_ParseRejectsExpiredAndNonUUID(t *testing.T) {
	s := newTestSessions(session.NewMemoryKV())

	s.now = func() time.Time { return time.Now().Add(-2 * SessionTTL) }
	expired, _, err := s.Sign(uuid.NewString())
	require.NoError(t, err)
	s.now = time.Now

	_, err = s.Parse(expired)
	assert.ErrorIs(t, err, ErrInvalidSessionCookie)

	bad, _, err := s.Sign("not-a-uuid")
	require.NoError(t, err)
	_, err = s.Parse(bad)
	assert.ErrorIs(t, err, ErrInvalidSessionCookie)
}

func TestAuthenticateAndAuthorize(t *testing.T) {
	kv := session.NewMemoryKV()
	s := newTestSessions(kv)

	organizerOnly := s.Handler(Authenticate(Authorize(models.KindOrganizer)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
	)))

	call := func(identity models.Identity) *httptest.ResponseRecorder {
		sid := uuid.NewString()
		if identity != nil {
			require.NoError(t, session.NewStore(kv, sid, nil).Set(context.Background(), identity, "tok"))
		}
		signed, _, err := s.Sign(sid)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/api/organizer/dashboard", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: signed})
		rec := httptest.NewRecorder()
		organizerOnly.ServeHTTP(rec, req)
		return rec
	}

	anonymous := call(nil)
	assert.Equal(t, http.StatusUnauthorized, anonymous.Code)
	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(anonymous.Body.Bytes(), &body))
	assert.Contains(t, string(body["notification"]), `"type":"error"`)

	player := &models.Player{Account: models.Account{UserID: 7, Kind: models.KindPlayer}, ID: 3}
	assert.Equal(t, http.StatusForbidden, call(player).Code)

	organizer := &models.Organizer{Account: models.Account{UserID: 9, Kind: models.KindOrganizer}, ID: 4, OrgName: "Club Alfil"}
	assert.Equal(t, http.StatusOK, call(organizer).Code)
}
