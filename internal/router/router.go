package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/kiwari-pos/stockbook/internal/config"
	"github.com/kiwari-pos/stockbook/internal/handler"
	mw "github.com/kiwari-pos/stockbook/internal/middleware"
	"github.com/kiwari-pos/stockbook/internal/service"
	"github.com/kiwari-pos/stockbook/internal/ws"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

// Version is reported by /health.
var Version = "dev"

// New creates a Chi router with all application routes wired up.
func New(cfg *config.Config, session *service.Session, hub *ws.Hub, gatherer prometheus.Gatherer) chi.Router {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(mw.RequestLogger)
	r.Use(mw.Recover)

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300, // 5 minutes
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","version":"` + Version + `"}`))
	})

	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Get("/ws/notices", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWS(hub, w, r)
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.AllowContentType("application/json"))

		productHandler := handler.NewProductHandler(session)
		r.Route("/products", productHandler.RegisterRoutes)

		orderHandler := handler.NewOrderHandler(session)
		r.Route("/order", orderHandler.RegisterRoutes)
		r.Route("/orders", orderHandler.RegisterHistoryRoutes)

		reportsHandler := handler.NewReportsHandler(session)
		r.Route("/stats", reportsHandler.RegisterRoutes)

		dataHandler := handler.NewDataHandler(session)
		r.Route("/data", dataHandler.RegisterRoutes)

		confirmationHandler := handler.NewConfirmationHandler(session)
		r.Route("/confirmations", confirmationHandler.RegisterRoutes)
	})

	log.Debug().Msg("router initialized with all handlers")
	return r
}
