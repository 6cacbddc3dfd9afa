package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"viducate/internal/adapter/repo"
	"viducate/internal/gamification"
	"viducate/internal/http/handlers"
	"viducate/internal/http/httpapi"
	"viducate/internal/infra"
	"viducate/internal/infra/geoip"
	"viducate/internal/infra/google"
	"viducate/internal/middleware"
	"viducate/internal/providers/did"
	quizgen "viducate/internal/providers/quiz"
	"viducate/internal/quiz"
	"viducate/internal/video"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer pool.Close()

	talks, err := did.NewClient(cfg.DIDAPIKey,
		did.WithBaseURL(cfg.DIDBaseURL),
		did.WithSubmitTimeout(cfg.DIDSubmitTimeout),
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build talks client")
	}

	var generator quizgen.Generator
	if cfg.OpenAIAPIKey != "" {
		generator = quizgen.NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL)
	} else {
		logger.Warn().Msg("OPENAI_API_KEY not set, quiz generation uses the fallback")
	}

	var countryLookup middleware.CountryLookup
	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip disabled")
	} else if resolver != nil {
		countryLookup = resolver.CountryCode
	}

	users := repo.NewUserRepository(pool)
	videos := repo.NewVideoRepository(pool)
	quizzes := repo.NewQuizRepository(pool)
	badges := repo.NewBadgeRepository(pool)
	contacts := repo.NewContactRepository(pool)

	game := gamification.NewService(users, videos, quizzes, badges, logger)
	videoSvc := video.NewService(videos, talks, game, logger)
	quizSvc := quiz.NewService(quizzes, videos, generator, game, logger)

	app := handlers.NewApp()
	app.Logger = logger
	app.JWTSecret = cfg.JWTSecret
	app.Verifier = google.NewVerifier(cfg.GoogleIssuer, cfg.GoogleClientID)
	app.Users = users
	app.VideoRepo = videos
	app.QuizRepo = quizzes
	app.Contacts = contacts
	app.Videos = videoSvc
	app.Quizzes = quizSvc
	app.Gamification = game

	router := httpapi.NewRouter(app, httpapi.Options{
		JWTSecret:       cfg.JWTSecret,
		AllowedOrigins:  cfg.AllowedOrigins,
		RateLimitPerMin: cfg.RateLimitPerMin,
		FallbackLang:    "en",
		CountryLookup:   countryLookup,
	})

	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
