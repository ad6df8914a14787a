package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"loyaltyclub/internal/mw"
)

type Stores struct {
	Orders   OrderStore
	Messages MessageStore
	Rewards  RewardStore
	Accounts AccountStore
}

// NewRouter mounts every endpoint under prefix, e.g. /.netlify/functions/orders-submit.
func NewRouter(prefix string, allowedOrigins []string, g *Gate, s Stores) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.MethodNotAllowed(mw.MethodNotAllowed)

	// Public routes
	r.Post(prefix+"/auth-signup", SignUpHandler(g))
	r.Post(prefix+"/auth-login", LoginHandler(g))
	r.Post(prefix+"/auth-logout", LogoutHandler(g))

	// Member routes
	r.Post(prefix+"/auth-change-password", ChangePasswordHandler(g))
	r.Post(prefix+"/auth-delete-account", DeleteAccountHandler(g, s.Accounts))
	r.Post(prefix+"/messages-send", SendMessageHandler(g, s.Messages))
	r.Post(prefix+"/orders-submit", SubmitOrderHandler(g, s.Orders))
	r.Post(prefix+"/rewards-claim", ClaimRewardHandler(g, s.Rewards))
	r.With(mw.PageSession(g.Auth)).Get(prefix+"/auth-session", SessionHandler(g.Admins))

	// Admin routes
	r.Post(prefix+"/admin-orders-reject", RejectOrderHandler(g, s.Orders))
	r.Post(prefix+"/admin-rewards-fulfill", FulfillRewardHandler(g, s.Rewards))

	return r
}
