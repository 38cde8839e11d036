package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/linkdesk/videolink/internal/domain"
	"github.com/linkdesk/videolink/internal/service"
)

// VideoLinkManager is the part of service.VideoLinkService the handler needs.
type VideoLinkManager interface {
	Get(ctx context.Context) (string, bool, error)
	Set(ctx context.Context, creds service.Credentials, link string) error
	Clear(ctx context.Context, creds service.Credentials) error
}

// VideoLinkHandler handles the /video-link endpoints.
type VideoLinkHandler struct {
	links  VideoLinkManager
	logger *slog.Logger
}

// NewVideoLinkHandler creates a new VideoLinkHandler.
func NewVideoLinkHandler(links VideoLinkManager, logger *slog.Logger) *VideoLinkHandler {
	return &VideoLinkHandler{links: links, logger: logger}
}

type videoLinkResponse struct {
	VideoLink string `json:"videoLink"`
}

type updateVideoLinkRequest struct {
	Username     string  `json:"username"`
	Password     string  `json:"password"`
	NewVideoLink *string `json:"newVideoLink"`
}

type deleteVideoLinkRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type successResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// Get handles GET /video-link. An absent link is reported as the empty string.
func (h *VideoLinkHandler) Get(w http.ResponseWriter, r *http.Request) {
	link, _, err := h.links.Get(r.Context())
	if err != nil {
		respondServiceError(w, r, h.logger, err)
		return
	}
	RespondJSON(w, http.StatusOK, videoLinkResponse{VideoLink: link})
}

// Update handles POST /video-link.
func (h *VideoLinkHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateVideoLinkRequest
	if err := DecodeJSON(r, &req); err != nil {
		respondInvalidBody(w)
		return
	}
	if req.NewVideoLink == nil {
		RespondError(w, domain.ErrValidation("newVideoLink is required"))
		return
	}

	creds := service.Credentials{Username: req.Username, Password: req.Password}
	if err := h.links.Set(r.Context(), creds, *req.NewVideoLink); err != nil {
		respondServiceError(w, r, h.logger, err)
		return
	}
	RespondJSON(w, http.StatusOK, successResponse{Success: true})
}

// Delete handles DELETE /video-link.
func (h *VideoLinkHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req deleteVideoLinkRequest
	if err := DecodeJSON(r, &req); err != nil {
		respondInvalidBody(w)
		return
	}

	creds := service.Credentials{Username: req.Username, Password: req.Password}
	if err := h.links.Clear(r.Context(), creds); err != nil {
		respondServiceError(w, r, h.logger, err)
		return
	}
	RespondJSON(w, http.StatusOK, successResponse{Success: true})
}
