package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"loyaltyclub/internal/auth"
	"loyaltyclub/internal/mw"
	"loyaltyclub/internal/session"
)

type credentials struct {
	Email    string
	Password string
}

func decodeCredentials(form url.Values) (credentials, error) {
	return credentials{Email: field(form, "email"), Password: form.Get("password")}, nil
}

func SignUpHandler(g *Gate) http.HandlerFunc {
	a := &Action[credentials]{
		Name:      "auth-signup",
		Origin:    pageLogin,
		Access:    Public,
		Privilege: auth.PrivilegeAnon,
		// The backend owns the rules for acceptable addresses and passwords.
		Decode: decodeCredentials,
		Perform: func(ctx context.Context, req *Request[credentials]) (Outcome, error) {
			sess, err := req.Auth.SignUp(ctx, req.Form.Email, req.Form.Password)
			if err != nil {
				return Outcome{}, err
			}
			if sess == nil {
				return Outcome{Location: withError(pageLogin, "Please check your email to confirm your account")}, nil
			}
			return Outcome{Location: pageDashboard, Session: sess}, nil
		},
	}
	return a.Handler(g)
}

func LoginHandler(g *Gate) http.HandlerFunc {
	a := &Action[credentials]{
		Name:      "auth-login",
		Origin:    pageLogin,
		Access:    Public,
		Privilege: auth.PrivilegeAnon,
		Decode: func(form url.Values) (credentials, error) {
			c, _ := decodeCredentials(form)
			if c.Email == "" || c.Password == "" {
				return c, reject("Email and password are required")
			}
			return c, nil
		},
		Perform: func(ctx context.Context, req *Request[credentials]) (Outcome, error) {
			sess, err := req.Auth.SignIn(ctx, req.Form.Email, req.Form.Password)
			if err != nil {
				return Outcome{}, err
			}
			return Outcome{Location: pageDashboard, Session: sess}, nil
		},
	}
	return a.Handler(g)
}

func LogoutHandler(g *Gate) http.HandlerFunc {
	a := &Action[struct{}]{
		Name:   "auth-logout",
		Origin: pageLogin,
		Access: Public,
		Perform: func(context.Context, *Request[struct{}]) (Outcome, error) {
			return Outcome{Location: pageLogin, ClearSession: true}, nil
		},
	}
	return a.Handler(g)
}

type sessionResponse struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
}

// SessionHandler reports the visitor resolved by mw.PageSession.
func SessionHandler(admins session.Admins) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			mw.MethodNotAllowed(w, r)
			return
		}

		user, ok := mw.UserFrom(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		resp := sessionResponse{ID: user.ID, Email: user.Email, IsAdmin: admins.IsAdmin(user)}
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			http.Error(w, "encode error", http.StatusInternalServerError)
		}
	}
}
