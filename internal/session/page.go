package session

import (
	"net/http"

	"loyaltyclub/internal/auth"
	"loyaltyclub/internal/model"
)

// Current resolves the visitor of a server-rendered page. Both cookies must be
// present. A stale access token is renewed with the refresh token and the new
// pair is written back; when renewal fails the cookies are cleared.
func Current(w http.ResponseWriter, r *http.Request, p auth.Provider) *model.User {
	access, refresh := Tokens(r)
	if access == "" || refresh == "" {
		return nil
	}

	ctx := r.Context()
	if user := Resolve(ctx, p, access); user != nil {
		return user
	}

	sess, err := p.Refresh(ctx, refresh)
	if err != nil || sess == nil || sess.AccessToken == "" {
		ClearAuthCookies(w)
		return nil
	}

	user := sess.User
	if user == nil {
		user = Resolve(ctx, p, sess.AccessToken)
	}
	if user == nil {
		ClearAuthCookies(w)
		return nil
	}

	SetAuthCookies(w, sess)
	return user
}
