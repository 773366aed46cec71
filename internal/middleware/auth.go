package middleware

import (
	"context"
	"net/http"

	"gym-insights/backend/internal/domain/account"
)

type ctxKey string

const authAccountKey ctxKey = "authAccount"

// SessionCookie is the cookie the login handler sets and this middleware
// reads.
const SessionCookie = "gi_session"

func WithSession(accounts *account.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, err := r.Cookie(SessionCookie)
			if err != nil || c.Value == "" {
				http.Error(w, "missing session cookie", http.StatusUnauthorized)
				return
			}

			a, err := accounts.Authenticate(r.Context(), c.Value)
			if err != nil {
				http.Error(w, "invalid session", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), authAccountKey, a)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetAccount(ctx context.Context) (*account.Account, bool) {
	v := ctx.Value(authAccountKey)
	if v == nil {
		return nil, false
	}
	a, ok := v.(*account.Account)
	return a, ok
}
