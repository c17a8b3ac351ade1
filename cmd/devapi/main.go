// Command devapi serves a seeded stand-in for the WildGuard backend on
// DEVAPI_PORT. Demo accounts: admin/admin123 and ranger1/ranger123.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sethvargo/go-envconfig"

	"github.com/wildguard/console/internal/devapi"
	"github.com/wildguard/console/internal/infrastructure/http/server"
	"github.com/wildguard/console/internal/pkg/config"
	"github.com/wildguard/console/pkg/logger"
)

func main() {
	cfg, err := config.LoadDevAPI(context.Background(), envconfig.OsLookuper())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		Service: "wildguard-devapi",
	})

	store, err := devapi.NewStore()
	if err != nil {
		log.Fatal().Err(err).Msg("seeding store")
	}
	router := devapi.NewRouter(store, devapi.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL), log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.New(":"+cfg.Port, router, log).Run(ctx); err != nil {
		log.Error().Err(err).Msg("dev api stopped")
		stop()
		os.Exit(1)
	}
}
