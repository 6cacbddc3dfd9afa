package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"viducate/internal/http/handlers"
	"viducate/internal/middleware"
)

// Options carries the router's middleware configuration.
type Options struct {
	JWTSecret       string
	AllowedOrigins  []string
	RateLimitPerMin int
	FallbackLang    string
	CountryLookup   middleware.CountryLookup
}

// NewRouter wires the middleware chain and the route table.
func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(app.Logger),
		middleware.CORS(opts.AllowedOrigins),
		middleware.RateLimit(opts.RateLimitPerMin, time.Minute),
		middleware.Language(opts.FallbackLang, opts.CountryLookup),
	)

	r.Get("/v1/healthz", app.Health)
	r.Post("/v1/auth/google", app.AuthGoogleVerify)
	r.Post("/v1/contact", app.ContactCreate)

	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthJWT(opts.JWTSecret))

		r.Get("/v1/me", app.Me)

		r.Route("/v1/videos", func(r chi.Router) {
			r.Post("/", app.VideoGenerate)
			r.Get("/", app.VideoList)
			r.Get("/{id}", app.VideoGet)
			r.Get("/{id}/status", app.VideoStatus)
			r.Delete("/{id}", app.VideoDelete)
		})

		r.Route("/v1/quizzes", func(r chi.Router) {
			r.Post("/generate", app.QuizGenerate)
			r.Get("/{id}", app.QuizGet)
			r.Post("/submit", app.QuizSubmit)
		})

		r.Get("/v1/gamification", app.GamificationProfile)
		r.Get("/v1/leaderboard", app.Leaderboard)
		r.Get("/v1/stats", app.StatsSummary)
	})

	return r
}
