// Package session carries the access/refresh token pair between the browser
// and the auth provider.
package session

import (
	"net/http"
	"strings"

	"loyaltyclub/internal/model"
)

const (
	AccessCookie  = "sb-access-token"
	RefreshCookie = "sb-refresh-token"

	cookieMaxAge = 60 * 60 * 24 * 7
)

// Parse splits a raw Cookie header into name/value pairs. Segments are split
// on the first '='; segments with an empty name or value are dropped and
// later duplicates win. Values are returned as sent, without unescaping.
func Parse(header string) map[string]string {
	cookies := make(map[string]string)
	for _, segment := range strings.Split(header, ";") {
		name, value, ok := strings.Cut(strings.TrimSpace(segment), "=")
		if !ok || name == "" || value == "" {
			continue
		}
		cookies[name] = value
	}
	return cookies
}

// Tokens returns the access and refresh tokens carried by r, if any.
func Tokens(r *http.Request) (access, refresh string) {
	cookies := Parse(strings.Join(r.Header.Values("Cookie"), ";"))
	return cookies[AccessCookie], cookies[RefreshCookie]
}

func SetAuthCookies(w http.ResponseWriter, s *model.Session) {
	http.SetCookie(w, authCookie(AccessCookie, s.AccessToken, cookieMaxAge))
	http.SetCookie(w, authCookie(RefreshCookie, s.RefreshToken, cookieMaxAge))
}

func ClearAuthCookies(w http.ResponseWriter) {
	// A negative MaxAge is written as Max-Age=0.
	http.SetCookie(w, authCookie(AccessCookie, "", -1))
	http.SetCookie(w, authCookie(RefreshCookie, "", -1))
}

func authCookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}
