package middleware

import (
	"context"
	"errors"

	"github.com/Dosada05/chess-portal/models"
	"github.com/Dosada05/chess-portal/services"
	"github.com/Dosada05/chess-portal/session"
)

type contextKey string

const (
	sessionIDContextKey contextKey = "session_id"
	workspaceContextKey contextKey = "workspace"
)

var ErrNoSession = errors.New("session not found in context")

func withSessionID(ctx context.Context, sid string) context.Context {
	return context.WithValue(ctx, sessionIDContextKey, sid)
}

func withWorkspace(ctx context.Context, ws *services.Workspace) context.Context {
	return context.WithValue(ctx, workspaceContextKey, ws)
}

func GetSessionID(ctx context.Context) string {
	sid, _ := ctx.Value(sessionIDContextKey).(string)
	return sid
}

func GetWorkspace(ctx context.Context) (*services.Workspace, error) {
	ws, ok := ctx.Value(workspaceContextKey).(*services.Workspace)
	if !ok || ws == nil {
		return nil, ErrNoSession
	}
	return ws, nil
}

func GetStore(ctx context.Context) (*session.Store, error) {
	store, ok := session.FromContext(ctx)
	if !ok {
		return nil, ErrNoSession
	}
	return store, nil
}

// GetSession reads the authenticated session; an empty Session means anonymous.
func GetSession(ctx context.Context) models.Session {
	store, err := GetStore(ctx)
	if err != nil {
		return models.Session{}
	}
	return store.Get(ctx)
}
