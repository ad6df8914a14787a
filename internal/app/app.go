// Package app wires configuration, storage and handlers into one http.Handler.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"loyaltyclub/internal/auth"
	"loyaltyclub/internal/config"
	"loyaltyclub/internal/database"
	"loyaltyclub/internal/gotrue"
	"loyaltyclub/internal/handler"
	"loyaltyclub/internal/service"
	"loyaltyclub/internal/session"
)

type App struct {
	Handler http.Handler
	db      *sql.DB
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	db, err := database.NewDB(ctx, cfg.DatabaseURI)
	if err != nil {
		return nil, fmt.Errorf("connect to DB: %w", err)
	}

	if err := database.Migrate(db); err != nil {
		database.CloseDB(db)
		return nil, fmt.Errorf("migrate DB: %w", err)
	}

	// Services
	orderSvc := service.NewOrderService(db)
	messageSvc := service.NewMessageService(db)
	rewardSvc := service.NewRewardService(db)
	accountSvc := service.NewAccountService(db)

	var authFactory auth.Factory
	switch cfg.AuthProvider {
	case config.ProviderLocal:
		authFactory = service.NewLocalAuth(db, cfg.JWTSecret)
	default:
		authFactory = gotrue.NewFactory(cfg.SupabaseURL, cfg.AnonKey, cfg.ServiceKey)
	}

	gate := &handler.Gate{Auth: authFactory, Admins: session.ParseAdmins(cfg.AdminEmails)}
	router := handler.NewRouter(cfg.FunctionsPrefix, cfg.AllowedOrigins, gate, handler.Stores{
		Orders:   orderSvc,
		Messages: messageSvc,
		Rewards:  rewardSvc,
		Accounts: accountSvc,
	})

	return &App{Handler: router, db: db}, nil
}

func (a *App) Close() {
	database.CloseDB(a.db)
}
