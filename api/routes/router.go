package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/foodwaste-backend/api/controllers"
	"github.com/angelmondragon/foodwaste-backend/api/middleware"
	"github.com/angelmondragon/foodwaste-backend/internal/expiry"
	"github.com/angelmondragon/foodwaste-backend/internal/listings"
	"github.com/angelmondragon/foodwaste-backend/internal/reports"
	"github.com/angelmondragon/foodwaste-backend/pkg/config"
	"github.com/angelmondragon/foodwaste-backend/pkg/db"
	"github.com/angelmondragon/foodwaste-backend/pkg/logger"
)

// Params carries everything the HTTP surface depends on.
type Params struct {
	Config   *config.Config
	Logger   *logger.Logger
	Store    db.Pinger
	Listings listings.Service
	Reports  reports.Service
	Expiry   expiry.Service
	// Gatherer backs /metrics. Nil falls back to the default registry.
	Gatherer prometheus.Gatherer
	// Clock is used for on-demand and on-read sweeps. Defaults to time.Now.
	Clock func() time.Time
}

func NewRouter(p Params) http.Handler {
	cfg, logg := p.Config, p.Logger
	clock := p.Clock
	if clock == nil {
		clock = time.Now
	}
	gatherer := p.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	refreshOnRead := cfg.Expiry.RefreshOnRead && p.Expiry != nil

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, p.Store))
	})

	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/maintenance/expiry", controllers.RunExpirySweep(p.Expiry, clock, logg))

		r.Route("/listings", func(r chi.Router) {
			read := r
			if refreshOnRead {
				read = r.With(middleware.RefreshExpiry(p.Expiry, clock, logg))
			}
			read.Get("/", controllers.ListListings(p.Listings, logg))
			r.Post("/", controllers.CreateListing(p.Listings, logg))
			read.Get("/{foodId}", controllers.GetListing(p.Listings, logg))
			r.Put("/{foodId}", controllers.UpdateListing(p.Listings, logg))
			r.Delete("/{foodId}", controllers.DeleteListing(p.Listings, logg))
		})

		r.Route("/reports", func(r chi.Router) {
			if refreshOnRead {
				r.Use(middleware.RefreshExpiry(p.Expiry, clock, logg))
			}
			r.Get("/", controllers.ListReports())
			r.Get("/filters", controllers.ReportFilters(p.Reports, logg))
			r.Get("/summary", controllers.ReportSummary(p.Reports, logg))
			r.Get("/{name}", controllers.RunReport(p.Reports, logg))
		})
	})

	return r
}
