package handler

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"loyaltyclub/internal/auth"
	"loyaltyclub/internal/model"
	"loyaltyclub/internal/mw"
	"loyaltyclub/internal/session"
)

// Access is who may run an action.
type Access int

const (
	Public Access = iota
	Member
	Admin
)

// Gate holds what every action needs to authenticate and authorize a request.
type Gate struct {
	Auth   auth.Factory
	Admins session.Admins
}

// Request is handed to an action once the caller passed the gate and the form decoded.
type Request[F any] struct {
	User        *model.User
	AccessToken string
	Auth        auth.Provider
	Form        F
}

// Outcome is where the browser goes next.
type Outcome struct {
	Location     string
	Session      *model.Session
	ClearSession bool
}

// Action is one form endpoint. Every request runs the same steps:
// method, configuration, session, admin check, form decoding, Perform, redirect.
type Action[F any] struct {
	Name string
	// Origin is the page failures redirect back to.
	Origin    string
	Access    Access
	Privilege auth.Privilege
	// Decode turns the posted fields into F. A nil Decode yields the zero F.
	Decode  func(form url.Values) (F, error)
	Perform func(ctx context.Context, req *Request[F]) (Outcome, error)
}

func (a *Action[F]) Handler(g *Gate) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			mw.MethodNotAllowed(w, r)
			return
		}

		ctx := r.Context()
		req := &Request[F]{}

		if a.Privilege != auth.PrivilegeNone {
			provider, ok := g.Auth.Client(a.Privilege)
			if !ok {
				slog.Error("backend not configured", "handler", a.Name, "privilege", a.Privilege.String())
				redirect(w, r, withError(a.Origin, "Configuration error"))
				return
			}
			req.Auth = provider
		}

		if a.Access != Public {
			access, _ := session.Tokens(r)
			if access == "" {
				redirect(w, r, pageLogin)
				return
			}
			user := session.Resolve(ctx, req.Auth, access)
			if user == nil {
				redirect(w, r, pageLogin)
				return
			}
			if a.Access == Admin && !g.Admins.IsAdmin(user) {
				slog.Warn("non-admin attempted admin action", "handler", a.Name, "user_id", user.ID)
				redirect(w, r, withError(pageDashboard, "Unauthorized"))
				return
			}
			req.User, req.AccessToken = user, access
		}

		form, err := readForm(w, r)
		if r.MultipartForm != nil {
			defer r.MultipartForm.RemoveAll()
		}
		if err != nil {
			slog.Info("unreadable form", "handler", a.Name, "error", err)
			redirect(w, r, withError(a.Origin, "Invalid form data"))
			return
		}

		if a.Decode != nil {
			if req.Form, err = a.Decode(form); err != nil {
				redirect(w, r, withError(a.Origin, userMessage(err)))
				return
			}
		}

		out, err := a.Perform(ctx, req)
		if err != nil {
			if !isRejection(err) {
				slog.Error("action failed", "handler", a.Name, "user_id", userID(req.User), "error", err)
			}
			redirect(w, r, withError(a.Origin, userMessage(err)))
			return
		}

		if out.ClearSession {
			session.ClearAuthCookies(w)
		}
		if out.Session != nil {
			session.SetAuthCookies(w, out.Session)
		}
		redirect(w, r, out.Location)
	}
}

func userID(u *model.User) string {
	if u == nil {
		return ""
	}
	return u.ID
}
