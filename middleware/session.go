package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/Dosada05/chess-portal/services"
	"github.com/Dosada05/chess-portal/session"
)

const (
	SessionCookieName = "portal_session"
	SessionTTL        = 24 * time.Hour
)

var ErrInvalidSessionCookie = errors.New("invalid session cookie")

// Sessions issues the browser's session cookie, a signed JWT whose id is the
// namespace of the session store and the key of the workspace.
type Sessions struct {
	secret     []byte
	kv         session.KeyValue
	workspaces *services.Workspaces
	secure     bool
	logger     *slog.Logger
	now        func() time.Time
}

func NewSessions(secret string, kv session.KeyValue, workspaces *services.Workspaces, secure bool, logger *slog.Logger) *Sessions {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sessions{
		secret:     []byte(secret),
		kv:         kv,
		workspaces: workspaces,
		secure:     secure,
		logger:     logger,
		now:        time.Now,
	}
}

// Handler attaches the session store and workspace to every request and
// starts a new session when the cookie is missing, expired or forged.
func (s *Sessions) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sid, err := s.sessionID(r)
		if err != nil {
			if !errors.Is(err, http.ErrNoCookie) {
				s.logger.Debug("discarding session cookie", "error", err)
			}
			sid, err = s.issue(w)
			if err != nil {
				s.logger.Error("failed to issue session cookie", "error", err)
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}
		}

		ctx := session.WithStore(r.Context(), session.NewStore(s.kv, sid, s.logger))
		ctx = withSessionID(ctx, sid)
		ctx = withWorkspace(ctx, s.workspaces.Get(sid))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Sessions) sessionID(r *http.Request) (string, error) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return "", err
	}
	return s.Parse(cookie.Value)
}

// Parse validates a session token and returns its id.
func (s *Sessions) Parse(raw string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return "", fmt.Errorf("%w: %v", ErrInvalidSessionCookie, err)
	}
	if _, err := uuid.Parse(claims.ID); err != nil {
		return "", fmt.Errorf("%w: bad id", ErrInvalidSessionCookie)
	}
	return claims.ID, nil
}

// Sign creates a session token for sid.
func (s *Sessions) Sign(sid string) (string, time.Time, error) {
	now := s.now()
	expires := now.Add(SessionTTL)
	claims := jwt.RegisteredClaims{
		ID:        sid,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, expires, nil
}

func (s *Sessions) issue(w http.ResponseWriter) (string, error) {
	sid := uuid.NewString()
	signed, expires, err := s.Sign(sid)
	if err != nil {
		return "", err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    signed,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return sid, nil
}
