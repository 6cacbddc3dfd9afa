package handlers

import (
	"net/http"

	"viducate/internal/domain"
)

type contactRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"required,max=5000"`
}

// ContactCreate stores a contact-form submission. The endpoint is public.
func (a *App) ContactCreate(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := a.decode(r, &req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "name, email, and message are required")
		return
	}

	id, err := a.Contacts.Create(r.Context(), &domain.Contact{
		Name:    req.Name,
		Email:   req.Email,
		Message: req.Message,
	})
	if err != nil {
		a.Logger.Error().Err(err).Msg("store contact failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to store message")
		return
	}
	a.json(w, http.StatusCreated, map[string]any{"id": id})
}
