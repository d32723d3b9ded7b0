package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ignatzorin/talent-escrow/internal/config"
	"github.com/ignatzorin/talent-escrow/internal/http/handlers"
	"github.com/ignatzorin/talent-escrow/internal/http/middleware"
	newHandler "github.com/ignatzorin/talent-escrow/internal/interface/http/handler"
	"github.com/ignatzorin/talent-escrow/internal/metrics"
)

// Handlers собирает все хэндлеры для SetupRouter.
type Handlers struct {
	Auth    *handlers.AuthHandler
	Payment *handlers.PaymentHandler
	Health  *handlers.HealthHandler
	WS      *handlers.WSHandler
	Offer   *newHandler.OfferHandler
	Profile *newHandler.ProfileHandler
}

func SetupRouter(cfg *config.Config, h Handlers, tokens middleware.TokenParser, httpMetrics *metrics.HTTPMetrics) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	if httpMetrics != nil {
		r.Use(httpMetrics.Middleware())
	}
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", h.Health.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	auth := middleware.AuthMiddleware(tokens)
	limited := middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod)

	authGroup := api.Group("/auth")
	authGroup.Use(limited)
	{
		authGroup.GET("/challenge", h.Auth.Challenge)
		authGroup.POST("/login", h.Auth.Login)
		authGroup.POST("/refresh", h.Auth.Refresh)
		authGroup.POST("/logout", h.Auth.Logout)
	}

	// Публичные маршруты
	api.GET("/ws", h.WS.Handle)
	api.GET("/profiles/:address", middleware.RecordAddressParam("address"), h.Profile.GetProfile)
	api.GET("/offers/derive", h.Offer.DeriveAddress)
	api.GET("/offers/:id", middleware.RecordAddressParam("id"), h.Offer.GetOffer)

	// Защищённые маршруты
	protected := api.Group("/")
	protected.Use(auth)
	{
		protected.POST("/profiles", h.Profile.CreateProfile)
		protected.GET("/profiles/me", h.Profile.GetMe)
		protected.PUT("/profiles/me", h.Profile.UpdateMe)

		protected.GET("/offers", h.Offer.ListMyOffers)
		protected.POST("/offers/:id", limited, h.Offer.OpenOffer)
		protected.POST("/offers/:id/respond", middleware.RecordAddressParam("id"), h.Offer.RespondOffer)
		protected.POST("/offers/:id/reclaim", middleware.RecordAddressParam("id"), h.Offer.ReclaimExpired)

		protected.GET("/payments/balance", h.Payment.GetBalance)
		protected.GET("/payments/transactions", h.Payment.ListTransactions)
		if cfg.Escrow.DevFaucetEnabled {
			protected.POST("/payments/deposit", h.Payment.Deposit)
		}
	}

	return r
}
