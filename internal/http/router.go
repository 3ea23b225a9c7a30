package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/tradedesk/internal/http/bill"
	"github.com/MrJamesThe3rd/tradedesk/internal/http/export"
	"github.com/MrJamesThe3rd/tradedesk/internal/http/importfile"
	"github.com/MrJamesThe3rd/tradedesk/internal/http/matching"
	"github.com/MrJamesThe3rd/tradedesk/internal/http/remittance"
	"github.com/MrJamesThe3rd/tradedesk/internal/http/settlement"
)

type Handlers struct {
	Bills       *bill.Handler
	Remittances *remittance.Handler
	Import      *importfile.Handler
	Settlements *settlement.Handler
	Matching    *matching.Handler
	Export      *export.Handler
}

type Options struct {
	AllowedOrigins []string
	Timeout        time.Duration
}

func New(h Handlers, opts Options) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	if opts.Timeout > 0 {
		router.Use(middleware.Timeout(opts.Timeout))
	}

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/bills", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Bills.Routes(r)
		})

		r.Route("/remittances", h.Remittances.Routes)

		r.Route("/import", h.Import.Routes)

		r.Route("/settlements", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Settlements.Routes(r)
		})

		r.Route("/matching", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Matching.Routes(r)
		})

		r.Route("/export", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Export.Routes(r)
		})
	})

	return router
}
