package session

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"loyaltyclub/internal/auth"
	"loyaltyclub/internal/model"
)

// Resolve asks the provider who owns accessToken. Any failure yields nil.
// Tokens that are not JWTs or that already expired never reach the provider.
func Resolve(ctx context.Context, p auth.Provider, accessToken string) *model.User {
	if accessToken == "" || !usable(accessToken, time.Now()) {
		return nil
	}

	user, err := p.GetUser(ctx, accessToken)
	if err != nil || user == nil || user.ID == "" {
		return nil
	}
	return user
}

// usable inspects the claims without checking the signature; the provider does that.
func usable(token string, now time.Time) bool {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return false
	}
	return claims.ExpiresAt == nil || now.Before(claims.ExpiresAt.Time)
}
