package mw

import (
	"context"
	"net/http"

	"loyaltyclub/internal/auth"
	"loyaltyclub/internal/model"
	"loyaltyclub/internal/session"
)

type contextKey string

const UserCtxKey contextKey = "user"

// PageSession resolves the visitor from the cookie pair, renewing it when
// needed, and stores the user in the request context.
func PageSession(factory auth.Factory) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			provider, ok := factory.Client(auth.PrivilegeAnon)
			if !ok {
				http.Error(w, "configuration error", http.StatusServiceUnavailable)
				return
			}

			user := session.Current(w, r, provider)
			if user == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), UserCtxKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func UserFrom(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(UserCtxKey).(*model.User)
	return user, ok && user != nil
}
