// Command server runs the campus activity service: event catalog,
// registration lifecycle and step-up authentication, all backed by in-memory
// stores.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	authHandler "campushub/internal/auth/handler"
	authService "campushub/internal/auth/service"
	challengeStore "campushub/internal/auth/store/challenge"
	identityStore "campushub/internal/auth/store/identity"
	sessionStore "campushub/internal/auth/store/session"
	"campushub/internal/auth/token"
	"campushub/internal/auth/workers/cleanup"
	"campushub/internal/notify"
	"campushub/internal/platform/config"
	"campushub/internal/platform/health"
	"campushub/internal/platform/logger"
	"campushub/internal/platform/metrics"
	"campushub/internal/platform/tracer"
	registrationHandler "campushub/internal/registration/handler"
	registrationService "campushub/internal/registration/service"
	eventStore "campushub/internal/registration/store/event"
	registrationStore "campushub/internal/registration/store/registration"
	"campushub/internal/seeder"
	httptransport "campushub/internal/transport/http"
)

// main wires dependencies and keeps the server lifecycle small. Business
// logic lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	log.Info("initializing campushub",
		"addr", cfg.Addr,
		"session_ttl", cfg.SessionTTL.String(),
		"challenge_ttl", cfg.ChallengeTTL.String(),
		"seed_demo_data", cfg.SeedDemoData,
	)

	m := metrics.New()
	traces := tracer.NewOTel()
	notifier := notify.NewLogNotifier(log)

	identities := identityStore.New()
	sessions := sessionStore.New()
	challenges := challengeStore.New()
	events := eventStore.New()
	registrations := registrationStore.New()

	tokens := token.NewService(cfg.JWTSigningKey, "campushub")
	auth := authService.NewService(identities, sessions, challenges, notifier, tokens,
		authService.Config{
			ChallengeTTL: cfg.ChallengeTTL,
			SessionTTL:   cfg.SessionTTL,
		},
		authService.WithLogger(log),
		authService.WithMetrics(m),
		authService.WithTracer(traces),
	)
	catalog := registrationService.NewService(events, registrations, notifier,
		registrationService.WithLogger(log),
		registrationService.WithMetrics(m),
		registrationService.WithTracer(traces),
	)

	if cfg.SeedDemoData {
		if err := seeder.New(identities, events, registrations, log).Seed(context.Background()); err != nil {
			log.Error("failed to seed demo data", "error", err)
			os.Exit(1)
		}
	}

	sweeper, err := cleanup.New(sessions, challenges,
		cleanup.WithCleanupInterval(cfg.CleanupInterval),
		cleanup.WithCleanupLogger(log),
	)
	if err != nil {
		log.Error("failed to build cleanup worker", "error", err)
		os.Exit(1)
	}

	healthHandler := health.New("development")
	router := httptransport.NewRouter(
		authHandler.New(auth, log),
		registrationHandler.New(catalog, log),
		auth,
		healthHandler,
		m,
		log,
	)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting http server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		if err := sweeper.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down server gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}
