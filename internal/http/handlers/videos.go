package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"viducate/internal/domain"
	"viducate/internal/middleware"
	"viducate/internal/video"
)

type generateVideoRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content" validate:"required,min=1,max=20000"`
	Language string `json:"language" validate:"omitempty,max=16"`
	AvatarID string `json:"avatar_id" validate:"omitempty,max=64"`
}

type generateVideoResponse struct {
	VideoID int64  `json:"video_id"`
	TalkID  string `json:"talk_id"`
	Status  string `json:"status"`
}

type videoStatusResponse struct {
	VideoID   int64  `json:"video_id"`
	Status    string `json:"status"`
	VideoURL  string `json:"video_url,omitempty"`
	DIDStatus string `json:"d_id_status,omitempty"`
}

type videoDTO struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Language  string    `json:"language"`
	AvatarID  string    `json:"avatar_id"`
	TalkID    string    `json:"talk_id,omitempty"`
	Status    string    `json:"status"`
	VideoURL  string    `json:"video_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toVideoDTO(v *domain.VideoRequest) videoDTO {
	return videoDTO{
		ID:        v.ID,
		Title:     v.Title,
		Content:   v.Content,
		Language:  v.Language,
		AvatarID:  v.AvatarID,
		TalkID:    v.TalkID,
		Status:    string(v.Status),
		VideoURL:  v.VideoURL,
		CreatedAt: v.CreatedAt,
		UpdatedAt: v.UpdatedAt,
	}
}

// VideoGenerate accepts lesson content and starts a render. The response is
// 202: the video is not ready, the client polls the status endpoint.
func (a *App) VideoGenerate(w http.ResponseWriter, r *http.Request) {
	user, err := a.currentUser(r)
	if err != nil {
		a.serviceError(w, err)
		return
	}

	var req generateVideoRequest
	if err := a.decode(r, &req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "content is required")
		return
	}

	language := req.Language
	if language == "" {
		language = middleware.LanguageFromContext(r.Context())
	}

	res, err := a.Videos.Generate(r.Context(), video.GenerateInput{
		AuthorID: user.ID,
		Title:    req.Title,
		Content:  req.Content,
		Language: middleware.NormalizeLanguage(language),
		AvatarID: req.AvatarID,
	})
	if err != nil {
		a.serviceError(w, err)
		return
	}

	a.json(w, http.StatusAccepted, generateVideoResponse{
		VideoID: res.VideoID,
		TalkID:  res.TalkID,
		Status:  string(res.Status),
	})
}

// VideoStatus reconciles the record against the external render job and
// returns the current state.
func (a *App) VideoStatus(w http.ResponseWriter, r *http.Request) {
	user, err := a.currentUser(r)
	if err != nil {
		a.serviceError(w, err)
		return
	}
	videoID, err := pathID(r)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid video id")
		return
	}

	res, err := a.Videos.Reconcile(r.Context(), user.ID, videoID, r.URL.Query().Get("talk_id"))
	if err != nil {
		a.serviceError(w, err)
		return
	}

	a.json(w, http.StatusOK, videoStatusResponse{
		VideoID:   res.VideoID,
		Status:    string(res.Status),
		VideoURL:  res.VideoURL,
		DIDStatus: res.TalkStatus,
	})
}

// VideoGet returns one of the user's videos.
func (a *App) VideoGet(w http.ResponseWriter, r *http.Request) {
	user, err := a.currentUser(r)
	if err != nil {
		a.serviceError(w, err)
		return
	}
	videoID, err := pathID(r)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid video id")
		return
	}

	v, err := a.Videos.Get(r.Context(), user.ID, videoID)
	if err != nil {
		a.serviceError(w, err)
		return
	}
	a.json(w, http.StatusOK, toVideoDTO(v))
}

// VideoList returns the user's videos, newest first.
func (a *App) VideoList(w http.ResponseWriter, r *http.Request) {
	user, err := a.currentUser(r)
	if err != nil {
		a.serviceError(w, err)
		return
	}

	videos, err := a.Videos.List(r.Context(), user.ID)
	if err != nil {
		a.serviceError(w, err)
		return
	}
	dtos := make([]videoDTO, 0, len(videos))
	for i := range videos {
		dtos = append(dtos, toVideoDTO(&videos[i]))
	}
	a.json(w, http.StatusOK, map[string]any{"videos": dtos})
}

// VideoDelete removes one of the user's videos.
func (a *App) VideoDelete(w http.ResponseWriter, r *http.Request) {
	user, err := a.currentUser(r)
	if err != nil {
		a.serviceError(w, err)
		return
	}
	videoID, err := pathID(r)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid video id")
		return
	}

	if err := a.Videos.Delete(r.Context(), user.ID, videoID); err != nil {
		a.serviceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
