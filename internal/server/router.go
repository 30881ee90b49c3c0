package server

import (
	"context"
	"net/http"
	"time"

	"barberbook/internal/config"
	"barberbook/internal/database"
	"barberbook/internal/middleware"
	"barberbook/internal/modules/appointment"
	"barberbook/internal/modules/auth"
	"barberbook/internal/modules/catalog"
	"barberbook/internal/modules/notification"
	"barberbook/internal/modules/payment"
	"barberbook/internal/pkg/jwt"
	"barberbook/internal/pkg/metrics"
	"barberbook/internal/pkg/response"
	"barberbook/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Deps are the resources owned by the caller. Hub, Gateway and Limiter are
// created from Config when nil.
type Deps struct {
	Config  *config.Config
	DB      *gorm.DB
	Log     logrus.FieldLogger
	Hub     *notification.Hub
	Gateway payment.Gateway
	Limiter *middleware.RateLimiter
}

func NewRouter(d Deps) *gin.Engine {
	cfg := d.Config
	if d.Hub == nil {
		d.Hub = notification.NewHub()
	}
	if d.Gateway == nil {
		d.Gateway = payment.NewLibelulaClient(cfg.LibelulaBaseURL, cfg.LibelulaAPIKey, cfg.LibelulaTimeout)
	}
	if d.Limiter == nil {
		d.Limiter = middleware.NewRateLimiter(5, 20)
	}

	tokens := jwt.New(cfg.JWTSecret, cfg.JWTTTL)

	userRepo := repository.NewUserRepository(d.DB)
	shopRepo := repository.NewBarbershopRepository(d.DB)
	barberRepo := repository.NewBarberRepository(d.DB)
	serviceRepo := repository.NewServiceRepository(d.DB)
	hairstyleRepo := repository.NewHairstyleRepository(d.DB)
	appointmentRepo := repository.NewAppointmentRepository(d.DB)

	authHandler := auth.NewHandler(auth.NewService(userRepo, tokens, d.Log))
	catalogHandler := catalog.NewHandler(catalog.NewService(shopRepo, barberRepo, serviceRepo, hairstyleRepo))
	appointmentHandler := appointment.NewHandler(appointment.NewService(appointmentRepo, d.Hub, d.Log))
	paymentHandler := payment.NewHandler(payment.NewService(
		appointmentRepo,
		userRepo,
		d.Gateway,
		d.Hub,
		d.Log,
		payment.Options{
			PublicBaseURL: cfg.PublicBaseURL,
			ReturnURL:     cfg.AppReturnURL,
			WebhookSecret: cfg.LibelulaWebhookSecret,
		},
	))
	notificationHandler := notification.NewHandler(d.Hub, tokens, d.Log)

	r := gin.New()
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		d.Log.WithError(err).Warn("ignoring TRUSTED_PROXIES, client IP is the socket peer")
		_ = r.SetTrustedProxies(nil)
	}
	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(d.Log),
		middleware.Metrics(),
		middleware.CORS(cfg.CORSAllowedOrigins),
	)

	r.GET("/health", healthHandler(d.DB))
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/api")
	{
		authHandler.RegisterPublicRoutes(api, d.Limiter.Middleware())
		catalogHandler.RegisterPublicRoutes(api)
		notificationHandler.RegisterPublicRoutes(api)
		// The gateway must always get 200, so the callback is not rate limited.
		paymentHandler.RegisterPublicRoutes(api, middleware.CallbackToken(cfg.LibelulaWebhookSecret, d.Log))

		protected := api.Group("")
		protected.Use(middleware.JWTAuth(tokens))
		{
			authHandler.RegisterProtectedRoutes(protected)
			appointmentHandler.RegisterProtectedRoutes(protected)
			paymentHandler.RegisterProtectedRoutes(protected)
		}
	}

	r.NoRoute(func(c *gin.Context) {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Route not found")
	})
	return r
}

func healthHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		sqlDB, err := db.DB()
		if err == nil {
			err = database.Ping(ctx, sqlDB)
		}
		if err != nil {
			_ = c.Error(err)
			response.Error(c, http.StatusServiceUnavailable, "DATABASE_UNAVAILABLE", "Database is not reachable")
			return
		}
		response.Success(c, http.StatusOK, gin.H{"status": "ok", "database": "up"})
	}
}
