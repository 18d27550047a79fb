package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"

	"bidcheck/internal/ai/gemini"
	"bidcheck/internal/auth"
	"bidcheck/internal/billing/stripe"
	"bidcheck/internal/config"
	"bidcheck/internal/email"
	"bidcheck/internal/email/noop"
	"bidcheck/internal/email/ses"
	"bidcheck/internal/handler"
	"bidcheck/internal/logger"
	"bidcheck/internal/metrics"
	"bidcheck/internal/port"
	"bidcheck/internal/ratelimit"
	"bidcheck/internal/repository/postgres"
	"bidcheck/internal/router"
	"bidcheck/internal/service"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger.Setup(cfg.Log)

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	readiness := map[string]handler.Pinger{"database": db}

	// Shared rate limiting when Redis is configured, in-process otherwise
	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		readiness["redis"] = handler.PingFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}
	limiter := ratelimit.New(redisClient, cfg.RateLimit)

	m := metrics.New()

	// Initialize repositories
	entitlementRepo := postgres.NewEntitlementRepo(db)
	billingEventRepo := postgres.NewBillingEventRepo(db)
	profileRepo := postgres.NewProfileRepo(db)
	mailQueueRepo := postgres.NewMailQueueRepo(db)

	// Initialize outbound adapters
	sender, err := newEmailSender(&cfg.Mail)
	if err != nil {
		return fmt.Errorf("failed to initialize email sender: %w", err)
	}
	composer := email.NewComposer(cfg.Mail.FrontendURL)
	forwarder := gemini.NewForwarder(&cfg.Gemini)
	billingProvider := stripe.NewBilling(cfg.Stripe)
	verifier := auth.NewJWTVerifier(cfg.Auth)

	if cfg.Gemini.APIKey == "" {
		log.Warn("BIDCHECK_GEMINI_API_KEY is not set; generation requests will fail upstream")
	}
	if cfg.Stripe.WebhookSecret == "" {
		log.Warn("BIDCHECK_STRIPE_WEBHOOK_SECRET is not set; all webhooks will be rejected")
	}

	// Initialize services
	entitlementSvc := service.NewEntitlementService(entitlementRepo, cfg.FreeTier.Limit, profileRepo, mailQueueRepo, composer)
	billingSvc := service.NewBillingService(billingProvider, entitlementSvc, billingEventRepo)
	profileSvc := service.NewProfileService(profileRepo, mailQueueRepo, composer)
	generationSvc := service.NewGenerationService(forwarder, entitlementSvc)

	// Start mail queue worker
	mailWorker := service.NewMailQueueWorker(mailQueueRepo, sender, service.MailQueueConfig{
		PollInterval: time.Duration(cfg.Mail.PollIntervalSecs) * time.Second,
		MaxRetries:   cfg.Mail.MaxRetries,
		Concurrency:  cfg.Mail.Concurrency,
		StaleAfter:   time.Duration(cfg.Mail.StaleClaimSecs) * time.Second,
	}, m)
	workerDone := make(chan struct{})
	go func() {
		mailWorker.Start(ctx)
		close(workerDone)
	}()

	// Setup router
	r := router.Setup(verifier, limiter, m, router.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		MaxBodyBytes:   cfg.Server.MaxBodyMB << 20,
		TrustedProxies: cfg.Server.TrustedProxies,
	}, router.Handlers{
		Generate:    handler.NewGenerateHandler(generationSvc, m),
		Billing:     handler.NewBillingHandler(billingSvc, m),
		Entitlement: handler.NewEntitlementHandler(entitlementSvc, m),
		Profile:     handler.NewProfileHandler(profileSvc),
		Health:      handler.NewHealthHandler(readiness),
		SPA:         handler.NewSPAHandler(cfg.Server.StaticDir),
	})

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithFields(log.Fields{
			"addr":        cfg.Server.Port,
			"environment": cfg.Server.Environment,
			"model":       forwarder.Model(),
		}).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		log.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
	stop()
	<-workerDone
	log.Info("server stopped")
	return nil
}

func newEmailSender(cfg *config.MailConfig) (port.EmailSender, error) {
	switch cfg.Provider {
	case "ses":
		return ses.NewSESSender(cfg)
	case "", "noop":
		return noop.NewNoopSender(), nil
	default:
		return nil, fmt.Errorf("unknown mail provider %q", cfg.Provider)
	}
}
