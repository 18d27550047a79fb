package router

import (
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"bidcheck/internal/handler"
	"bidcheck/internal/metrics"
	"bidcheck/internal/middleware"
	"bidcheck/internal/port"
)

// Handlers groups the HTTP handlers mounted by Setup.
type Handlers struct {
	Generate    *handler.GenerateHandler
	Billing     *handler.BillingHandler
	Entitlement *handler.EntitlementHandler
	Profile     *handler.ProfileHandler
	Health      *handler.HealthHandler
	SPA         *handler.SPAHandler
}

// Options holds the edge settings applied to every request.
type Options struct {
	AllowedOrigins []string
	MaxBodyBytes   int64
	// TrustedProxies are honored for X-Forwarded-For; empty trusts none.
	TrustedProxies []string
}

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	verifier port.TokenVerifier,
	limiter port.RateLimiter,
	m *metrics.Metrics,
	opts Options,
	h Handlers,
) *gin.Engine {
	r := gin.New()
	if err := r.SetTrustedProxies(opts.TrustedProxies); err != nil {
		log.WithError(err).Warn("router: invalid trusted proxies, trusting none")
		_ = r.SetTrustedProxies(nil)
	}

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(m))
	r.Use(middleware.CORS(opts.AllowedOrigins))
	if opts.MaxBodyBytes > 0 {
		r.Use(middleware.MaxBodySize(opts.MaxBodyBytes))
	}

	// Health checks and metrics
	r.GET("/healthz", h.Health.Liveness)
	r.GET("/readyz", h.Health.Readiness)
	if m != nil {
		r.GET("/metrics", gin.WrapH(m.Handler()))
	}

	api := r.Group("/api")

	// Stripe calls this directly; the signature is the authentication.
	api.POST("/webhook", h.Billing.Webhook)

	// Protected routes - require a valid identity token
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(verifier))

	protected.POST("/generate", middleware.RateLimit(limiter, m), h.Generate.Generate)

	protected.POST("/create-portal-session", h.Billing.CreatePortalSession)
	protected.POST("/create-checkout-session", h.Billing.CreateCheckoutSession)

	protected.GET("/entitlement", h.Entitlement.Get)
	protected.POST("/usage", h.Entitlement.RecordUsage)

	protected.POST("/profile", h.Profile.Create)
	protected.GET("/profile", h.Profile.Get)

	if h.SPA != nil {
		r.NoRoute(h.SPA.Serve)
	}

	return r
}
