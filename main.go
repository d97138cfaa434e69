package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Billy-Davies-2/scrimhub-ui/internal/analytics"
	"github.com/Billy-Davies-2/scrimhub-ui/internal/auth"
	"github.com/Billy-Davies-2/scrimhub-ui/internal/backend"
	"github.com/Billy-Davies-2/scrimhub-ui/internal/config"
	"github.com/Billy-Davies-2/scrimhub-ui/internal/feed"
	"github.com/Billy-Davies-2/scrimhub-ui/internal/forms"
	grpcserver "github.com/Billy-Davies-2/scrimhub-ui/internal/grpc"
	"github.com/Billy-Davies-2/scrimhub-ui/internal/handlers"
	"github.com/Billy-Davies-2/scrimhub-ui/internal/logger"
	"github.com/Billy-Davies-2/scrimhub-ui/internal/mocks"
	"github.com/Billy-Davies-2/scrimhub-ui/internal/pubsub"
	"github.com/Billy-Davies-2/scrimhub-ui/internal/search"
	"github.com/Billy-Davies-2/scrimhub-ui/internal/social"
	"github.com/Billy-Davies-2/scrimhub-ui/internal/storage"
)

// sessionTTL is how long an untouched browser session keeps its credential
const sessionTTL = 30 * 24 * time.Hour

// closableUpstream is a NATS bridge that owns a connection
type closableUpstream interface {
	pubsub.Upstream
	Close()
}

func main() {
	// .env first so LOG_LEVEL from the file applies to the logger
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	logger.Init()

	logger.Info("Starting ScrimHub UI", "environment", cfg.Environment, "backend", cfg.BackendURL)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := openStore(cfg)
	defer store.Close()

	upstream := openUpstream(cfg)
	bus := pubsub.NewWithUpstream(upstream)
	defer func() {
		bus.Close()
		upstream.Close()
	}()

	rec := openAnalytics(cfg)
	defer rec.Close()

	api := backend.New(backend.Options{
		BaseURL: cfg.BackendURL,
		Timeout: cfg.BackendTimeout,
		Rate:    cfg.BackendRate,
		Burst:   int(cfg.BackendRate),
	})

	app := handlers.New(handlers.Deps{
		Guard:     auth.NewGuard(store, api, cfg.CookieSecure),
		Backend:   api,
		Feed:      feed.NewService(api, bus, rec),
		Social:    social.NewService(api, bus, rec),
		Search:    search.NewService(api, rec),
		Forms:     forms.NewService(api),
		Bus:       bus,
		Store:     store,
		Analytics: rec,
	})

	// Start gRPC health server in a goroutine
	health := grpcserver.NewServer(store, rec)
	go health.Watch(ctx, 15*time.Second)
	go func() {
		lis, err := net.Listen("tcp", "0.0.0.0:"+cfg.GRPCPort)
		if err != nil {
			logger.Error("Failed to listen for gRPC", "error", err, "port", cfg.GRPCPort)
			log.Fatalf("Failed to listen for gRPC: %v", err)
		}
		if err := health.Serve(lis); err != nil {
			logger.Error("Failed to serve gRPC", "error", err)
		}
	}()

	if purger, ok := store.(storage.Purger); ok {
		go purgeSessions(ctx, purger)
	} else {
		logger.Info("Skipping session purge (store does not expire sessions)", "driver", cfg.StorageDriver)
	}

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Port,
		Handler:           app.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", "error", err)
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	// open event streams end with the bus, so close it before draining
	bus.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP shutdown failed", "error", err)
	}
	health.Stop()
}

func openStore(cfg *config.Config) storage.Store {
	switch cfg.StorageDriver {
	case "sqlite":
		s, err := storage.NewSQLiteStore(cfg.SQLiteFile)
		if err != nil {
			logger.Error("Failed to initialize SQLite", "error", err)
			log.Fatalf("Failed to initialize SQLite: %v", err)
		}
		logger.Info("Connected to SQLite session store", "file", cfg.SQLiteFile)
		return s
	case "postgres":
		if cfg.DatabaseURL == "" {
			// config only allows this in development
			s, err := mocks.NewMockPostgresStore(cfg.SQLiteFile)
			if err != nil {
				log.Fatalf("Failed to initialize mock Postgres: %v", err)
			}
			return s
		}
		s, err := storage.NewPostgresStore(cfg.DatabaseURL)
		if err != nil {
			logger.Error("Failed to initialize Postgres", "error", err)
			log.Fatalf("Failed to initialize Postgres: %v", err)
		}
		logger.Info("Connected to Postgres session store")
		return s
	default:
		logger.Info("Using in-memory session store")
		return storage.NewMemoryStore()
	}
}

func openUpstream(cfg *config.Config) closableUpstream {
	switch cfg.NATSMode {
	case "embedded":
		logger.Info("Starting embedded NATS server for local development")
		opts := pubsub.DefaultEmbeddedNATSOptions()
		opts.Subject = cfg.NATSSubject
		p, err := pubsub.NewEmbeddedNATSPubSub(opts)
		if err != nil {
			logger.Error("Failed to initialize embedded NATS", "error", err)
			log.Fatalf("Failed to initialize embedded NATS: %v", err)
		}
		logger.Info("Embedded NATS server ready", "url", p.GetServerURL())
		return p
	case "memory":
		return mocks.NewMockNATSPubSub()
	default:
		p, err := pubsub.NewNATSPubSub(cfg.NATSURL, cfg.NATSSubject)
		if err != nil {
			logger.Error("Failed to initialize NATS", "error", err)
			log.Fatalf("Failed to initialize NATS: %v", err)
		}
		return p
	}
}

// openAnalytics uses ClickHouse outside development. A ClickHouse that is
// down at startup only disables analytics.
func openAnalytics(cfg *config.Config) analytics.Recorder {
	if cfg.IsDevelopment() {
		logger.Info("Using mock ClickHouse for local development (no ClickHouse server required)")
		return mocks.NewMockRecorder(100)
	}
	r, err := analytics.NewClickHouseRecorder(analytics.ClickHouseOptions{
		Addr:     cfg.ClickHouseAddr,
		Database: cfg.ClickHouseDB,
		Username: cfg.ClickHouseUser,
		Password: cfg.ClickHousePassword,
	})
	if err != nil {
		logger.Error("Failed to initialize ClickHouse, analytics disabled", "error", err, "address", cfg.ClickHouseAddr)
		return analytics.Nop{}
	}
	logger.Info("Connected to ClickHouse", "address", cfg.ClickHouseAddr, "database", cfg.ClickHouseDB)
	return r
}

func purgeSessions(ctx context.Context, p storage.Purger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			n, err := p.PurgeOlderThan(ctx, sessionTTL)
			if err != nil {
				logger.Warn("Session purge failed", "error", err)
				continue
			}
			if n > 0 {
				logger.Info("Purged abandoned sessions", "count", n)
			}
		case <-ctx.Done():
			return
		}
	}
}
