package httpapi

import (
	"net/http"
	"time"

	"brewtab-analytics-service/internal/analytics"
	"brewtab-analytics-service/internal/config"
	"brewtab-analytics-service/internal/http/handlers"
	"brewtab-analytics-service/internal/middleware"
	"brewtab-analytics-service/internal/queue"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

func NewRouter(engine *analytics.Engine, logger *zap.Logger, cfg config.Config, queueClient *queue.Client) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID())
	r.Use(requestLogger(logger))
	r.Use(middleware.Telemetry(logger))

	if cfg.Env == "development" || len(cfg.CorsAllowedOrigins) > 0 {
		options := cors.Options{
			AllowedMethods: []string{"GET", "OPTIONS"},
			AllowedHeaders: []string{
				"Accept",
				"Authorization",
				"Content-Type",
				"X-Requested-With",
				"Cache-Control",
			},
			AllowCredentials: true,
			MaxAge:           300,
		}

		if cfg.Env == "development" {
			options.AllowOriginFunc = func(_ *http.Request, origin string) bool {
				return true
			}
		} else {
			options.AllowedOrigins = cfg.CorsAllowedOrigins
		}

		r.Use(cors.Handler(options))
	}

	h := &handlers.Handler{Engine: engine, Logger: logger, Config: cfg, Queue: queueClient}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api/merchant/analytics", func(r chi.Router) {
		r.Use(middleware.MerchantAuth(cfg.JWTSecret))

		r.Get("/sales", h.MerchantSalesReport)
		r.Get("/sales/export", h.MerchantSalesReportPDF)
		r.Get("/products", h.MerchantProductReport)
		r.Get("/customers", h.MerchantCustomerReport)
	})

	return r
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Duration("elapsed", time.Since(start)),
				zap.String("requestId", r.Header.Get("X-Request-Id")),
			)
		})
	}
}
