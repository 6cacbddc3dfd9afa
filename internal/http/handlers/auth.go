package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"viducate/internal/domain"
	"viducate/internal/middleware"
)

const sessionTTL = 24 * time.Hour

type googleVerifyRequest struct {
	IDToken string `json:"id_token" validate:"required"`
}

type googleVerifyResponse struct {
	Token string  `json:"token"`
	User  userDTO `json:"user"`
}

type userDTO struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture,omitempty"`
	Locale  string `json:"locale"`
	Role    string `json:"role"`
	Points  int    `json:"points"`
	Level   int    `json:"level"`
}

func toUserDTO(u *domain.User) userDTO {
	return userDTO{
		ID:      u.ID,
		Email:   u.Email,
		Name:    u.Name,
		Picture: u.Picture,
		Locale:  u.Locale,
		Role:    string(u.Role),
		Points:  u.Points,
		Level:   u.Level,
	}
}

// AuthGoogleVerify exchanges a Google ID token for a first-party session
// token, creating the user row on first sign-in.
func (a *App) AuthGoogleVerify(w http.ResponseWriter, r *http.Request) {
	var req googleVerifyRequest
	if err := a.decode(r, &req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "id_token required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	identity, err := a.Verifier.VerifyIDToken(ctx, req.IDToken)
	if err != nil {
		a.Logger.Error().Err(err).Msg("google verify failed")
		a.error(w, http.StatusUnauthorized, "unauthorized", "invalid google token")
		return
	}

	locale := identity.Locale
	if locale == "" {
		locale = "en"
	}
	user, err := a.Users.UpsertBySubject(r.Context(), &domain.User{
		ID:      uuid.NewString(),
		Subject: identity.Subject,
		Email:   identity.Email,
		Name:    identity.Name,
		Picture: identity.Picture,
		Locale:  locale,
		Role:    domain.UserRoleStudent,
	})
	if err != nil {
		a.Logger.Error().Err(err).Msg("upsert user failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to persist user")
		return
	}

	token, err := middleware.SignJWT(a.JWTSecret, middleware.TokenClaims{
		Sub:      user.ID,
		Subject:  user.Subject,
		Email:    user.Email,
		Name:     user.Name,
		Picture:  user.Picture,
		Locale:   user.Locale,
		Exp:      time.Now().Add(sessionTTL).Unix(),
		Issuer:   "viducate",
		Audience: "viducate-clients",
	})
	if err != nil {
		a.Logger.Error().Err(err).Msg("sign jwt failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to sign token")
		return
	}

	a.json(w, http.StatusOK, googleVerifyResponse{Token: token, User: toUserDTO(user)})
}

// Me returns the authenticated user's profile.
func (a *App) Me(w http.ResponseWriter, r *http.Request) {
	user, err := a.currentUser(r)
	if err != nil {
		a.serviceError(w, err)
		return
	}
	a.json(w, http.StatusOK, toUserDTO(user))
}
