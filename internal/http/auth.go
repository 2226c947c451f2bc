package httpapi

import (
	"context"
	"net/http"
	"strings"

	"videoadmin-backend-go/internal/store"
)

const tokenPrefix = "dummy-token-"

const (
	ctxUserID authKey = "userID"
	ctxUser   authKey = "user"
)

type authKey string

// WithAuth accepts the synthetic bearer tokens the login endpoint hands
// out: "dummy-token-<id>" where <id> must resolve to a stored user. Any
// other token answers 401 so the client tears its session down.
func WithAuth(st *store.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
				WriteError(w, http.StatusUnauthorized, "認証が必要です")
				return
			}
			tokenStr := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
			if !strings.HasPrefix(tokenStr, tokenPrefix) {
				WriteError(w, http.StatusUnauthorized, "認証が必要です")
				return
			}
			userID := strings.TrimPrefix(tokenStr, tokenPrefix)
			user, err := st.Get("users", userID)
			if err != nil {
				WriteError(w, http.StatusUnauthorized, "認証が必要です")
				return
			}
			ctx := context.WithValue(r.Context(), ctxUserID, userID)
			ctx = context.WithValue(ctx, ctxUser, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func CurrentUserID(r *http.Request) string {
	if value, ok := r.Context().Value(ctxUserID).(string); ok {
		return value
	}
	return ""
}

func CurrentUser(r *http.Request) store.Record {
	if value, ok := r.Context().Value(ctxUser).(store.Record); ok {
		return value
	}
	return nil
}
