package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/mmuslimabdulj/neural-galaxy/internal/config"
	"github.com/mmuslimabdulj/neural-galaxy/internal/middleware"
	"github.com/mmuslimabdulj/neural-galaxy/internal/observability"
)

// requestTimeout bounds REST handlers; the websocket route is exempt
const requestTimeout = 10 * time.Second

// NewRouter wires every route with its middleware
func NewRouter(h *Handler, limiters *middleware.Limiters, metrics *observability.Collector, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	if config.AppConfig.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Metrics(metrics))
	r.Use(chimw.Recoverer)
	r.Use(middleware.SecurityHeaders)

	r.With(middleware.NoCache).Get("/", h.HandleGalaxy)
	r.Get("/healthz", h.HandleHealth)
	if metrics != nil {
		r.Handle("/metrics", metrics.Handler())
	}

	r.With(middleware.RateLimitMiddleware(limiters.WebSocket)).Get("/ws", h.HandleWebSocket)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.RateLimitMiddleware(limiters.API))
		r.Use(chimw.Timeout(requestTimeout))

		r.Get("/domains", h.HandleDomains)
		r.Route("/galaxies/{name}", func(r chi.Router) {
			r.Get("/stars", h.HandleListStars)
			r.Post("/stars", h.HandleCreateStar)
			r.Delete("/stars/{id}", h.HandleDismissStar)
			r.Post("/depth", h.HandleDepth)
			r.Post("/reset", h.HandleReset)
			r.Get("/frame", h.HandleFrame)
		})
	})

	return r
}
