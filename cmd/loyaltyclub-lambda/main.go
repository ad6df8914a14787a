package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"

	"loyaltyclub/internal/app"
	"loyaltyclub/internal/config"
)

func main() {
	cfg, err := config.Load(nil, os.LookupEnv)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// The connection outlives single invocations; the runtime freezes it between them.
	a, err := app.New(context.Background(), cfg)
	if err != nil {
		slog.Error("failed to start", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	lambda.Start(httpadapter.NewV2(a.Handler).ProxyWithContext)
}
