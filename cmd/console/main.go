// Command console serves the WildGuard web console gateway.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/wildguard/console/internal/api"
	"github.com/wildguard/console/internal/api/middleware"
	"github.com/wildguard/console/internal/core/ports"
	"github.com/wildguard/console/internal/core/service"
	"github.com/wildguard/console/internal/infrastructure/apiclient"
	mongodb "github.com/wildguard/console/internal/infrastructure/db/mongo"
	redisdb "github.com/wildguard/console/internal/infrastructure/db/redis"
	"github.com/wildguard/console/internal/infrastructure/http/handlers"
	"github.com/wildguard/console/internal/infrastructure/http/server"
	"github.com/wildguard/console/internal/infrastructure/queue"
	"github.com/wildguard/console/internal/infrastructure/storage/memory"
	"github.com/wildguard/console/internal/pkg/config"
	"github.com/wildguard/console/pkg/logger"
)

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		Service: "wildguard-console",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error().Err(err).Msg("console stopped")
		stop()
		os.Exit(1)
	}
}

const sessionSweepInterval = time.Minute

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	var (
		provider  ports.StorageProvider
		readiness []handlers.Pinger
	)
	switch cfg.Session.Store {
	case config.StoreRedis:
		client, err := redisdb.Connect(ctx, redisdb.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err != nil {
			return fmt.Errorf("session store: %w", err)
		}
		defer client.Close()
		provider = redisdb.NewSessionStore(client, cfg.Session.TTL)
		readiness = append(readiness, redisdb.Pinger{Client: client})
	default:
		provider = memory.NewProvider()
	}

	var sink ports.AuditSink = service.NewLogAuditSink(logger.Component("audit"))
	if cfg.Audit.Sink == config.AuditMongo {
		client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return fmt.Errorf("audit sink: %w", err)
		}
		defer func() {
			dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Disconnect(dctx)
		}()
		repo := mongodb.NewAuditRepository(db)
		if err := repo.EnsureIndexes(ctx); err != nil {
			return fmt.Errorf("audit indexes: %w", err)
		}
		sink = repo
		readiness = append(readiness, mongodb.Pinger{DB: db})
	}

	// Workers outlive the request context so Close can drain them.
	dispatcher := queue.NewDispatcher(cfg.Audit.Workers, sink, log)
	dispatcher.Start(context.Background())
	defer dispatcher.Close()

	factory := apiclient.Factory(cfg.API.BaseURL,
		apiclient.WithTimeout(cfg.API.Timeout),
		apiclient.WithLogger(log),
	)
	registry := service.NewRegistry(provider, factory, log, service.WithAuditSink(dispatcher))
	go registry.RunSweeper(ctx, cfg.Session.TTL, sessionSweepInterval)
	readiness = append(readiness, handlers.PingFunc{Label: "backend", Fn: backendProbe(cfg.API.BaseURL)})

	router := api.NewRouter(api.Deps{
		Registry:     registry,
		PollInterval: cfg.API.PollInterval,
		Cookie: middleware.CookieOptions{
			Secure: cfg.Session.CookieSecure,
			MaxAge: cfg.Session.TTL,
		},
		Readiness: readiness,
		Log:       log,
		Metrics:   true,
	})

	log.Info().
		Str("env", cfg.Env).
		Str("api", cfg.API.BaseURL).
		Str("session_store", cfg.Session.Store).
		Str("audit_sink", cfg.Audit.Sink).
		Msg("starting console")
	return server.New(":"+cfg.Port, router, log).Run(ctx)
}

// backendProbe counts any non-5xx answer from the backend as ready.
func backendProbe(baseURL string) func(ctx context.Context) error {
	hc := &http.Client{Timeout: 3 * time.Second}
	return func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodHead, baseURL+"/", nil)
		if err != nil {
			return err
		}
		resp, err := hc.Do(req)
		if err != nil {
			return err
		}
		resp.Body.Close()
		if resp.StatusCode >= http.StatusInternalServerError {
			return fmt.Errorf("backend answered %d", resp.StatusCode)
		}
		return nil
	}
}
