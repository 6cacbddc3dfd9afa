// Package handlers contains the HTTP surface. Handlers decode and validate
// payloads, delegate to the services, and translate domain errors into
// status codes.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"viducate/internal/domain"
	"viducate/internal/gamification"
	"viducate/internal/infra/google"
	"viducate/internal/middleware"
	"viducate/internal/quiz"
	"viducate/internal/video"
)

// App bundles the dependencies the handlers need.
type App struct {
	Logger       zerolog.Logger
	JWTSecret    string
	Verifier     google.IdentityVerifier
	Users        domain.UserRepository
	VideoRepo    domain.VideoRepository
	QuizRepo     domain.QuizRepository
	Contacts     domain.ContactRepository
	Videos       *video.Service
	Quizzes      *quiz.Service
	Gamification *gamification.Service
	Validate     *validator.Validate
}

func NewApp() *App {
	return &App{Validate: validator.New()}
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, errCode, message string) {
	a.json(w, code, errorResponse{Error: errCode, Message: message})
}

// decode parses a JSON body strictly and runs struct validation.
func (a *App) decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	return a.Validate.Struct(v)
}

// serviceError maps domain sentinel errors onto HTTP statuses. Rate-limit
// responses carry Retry-After so the client poller can honor the flat delay.
func (a *App) serviceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusNotFound, "not_found", "resource not found")
	case errors.Is(err, domain.ErrForbidden):
		a.error(w, http.StatusForbidden, "forbidden", "resource belongs to another user")
	case errors.Is(err, domain.ErrUnauthorized):
		a.error(w, http.StatusUnauthorized, "unauthorized", "authentication required")
	case errors.Is(err, domain.ErrInvalidInput):
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, domain.ErrRateLimited):
		w.Header().Set("Retry-After", "60")
		a.error(w, http.StatusTooManyRequests, "rate_limited", "upstream service is rate limiting, retry later")
	case errors.Is(err, domain.ErrProviderTimeout):
		a.error(w, http.StatusGatewayTimeout, "provider_timeout", "video service did not respond in time")
	case errors.Is(err, domain.ErrProviderFailure):
		a.error(w, http.StatusBadGateway, "provider_failure", "video service request failed")
	default:
		a.Logger.Error().Err(err).Msg("unhandled service error")
		a.error(w, http.StatusInternalServerError, "internal", "internal error")
	}
}

// currentUser resolves the authenticated user, materializing the row from
// token claims on first contact.
func (a *App) currentUser(r *http.Request) (*domain.User, error) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil || claims.Sub == "" {
		return nil, domain.ErrUnauthorized
	}

	user, err := a.Users.GetByID(r.Context(), claims.Sub)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	// no row under the token's id; the provider subject in the claims is
	// the durable key, so try it before recreating
	subject := claims.Subject
	if subject == "" {
		subject = claims.Sub
	}
	if user, err := a.Users.GetBySubject(r.Context(), subject); err == nil {
		return user, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	// recreate under the token's id so sub keeps resolving for the
	// session's lifetime
	return a.Users.UpsertBySubject(r.Context(), &domain.User{
		ID:      claims.Sub,
		Subject: subject,
		Email:   claims.Email,
		Name:    claims.Name,
		Picture: claims.Picture,
		Locale:  claims.Locale,
		Role:    domain.UserRoleStudent,
	})
}
