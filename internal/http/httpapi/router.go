package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"aimarketer/internal/http/handlers"
	"aimarketer/internal/middleware"
)

// Options carries the cross-cutting settings for NewRouter.
type Options struct {
	CORSAllowedOrigins []string
	RateLimitPerMin    int
	CountryLookup      middleware.CountryLookup
}

func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(app.Logger),
		middleware.CORS(opts.CORSAllowedOrigins),
	)

	// Health
	r.Get("/v1/healthz", app.Health)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Country(opts.CountryLookup))

		r.With(middleware.RateLimit(opts.RateLimitPerMin, time.Minute)).
			Post("/generate-image", app.GenerateImage)

		r.Get("/styles", app.Styles)
		r.Get("/presets", app.Presets)
		r.Post("/preview", app.Preview)
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(opts.RateLimitPerMin, time.Minute))
			r.Post("/export", app.Export)
			r.Post("/export/bundle", app.ExportBundle)
		})
		r.Get("/stats", app.StatsSummary)
	})

	return r
}
