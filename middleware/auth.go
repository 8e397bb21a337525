package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/Dosada05/chess-portal/models"
	"github.com/Dosada05/chess-portal/notifications"
)

// Authenticate rejects requests whose session holds no identity.
func Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := GetSession(r.Context())
		if sess.Token == "" || sess.Identity == nil {
			deny(w, http.StatusUnauthorized, "please log in")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Authorize lets through only identities of the given kinds. Use after Authenticate.
func Authorize(kinds ...models.UserKind) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := GetSession(r.Context())
			if sess.Identity == nil {
				deny(w, http.StatusUnauthorized, "please log in")
				return
			}

			kind := sess.Identity.Base().Kind
			for _, k := range kinds {
				if k == kind {
					next.ServeHTTP(w, r)
					return
				}
			}
			deny(w, http.StatusForbidden, "this page is not available for your account")
		})
	}
}

func deny(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error":        message,
		"notification": notifications.Error(message),
	})
}
