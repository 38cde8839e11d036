package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/linkdesk/videolink/internal/domain"
	"github.com/linkdesk/videolink/internal/service"
)

// AdminManager is the part of service.CredentialService the handler needs.
type AdminManager interface {
	Login(ctx context.Context, username, password string) (*domain.AdminAccount, error)
	AddAdmin(ctx context.Context, input service.AddAdminInput) (*domain.AdminAccount, error)
}

// AdminHandler handles login and admin creation.
type AdminHandler struct {
	admins AdminManager
	logger *slog.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(admins AdminManager, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{admins: admins, logger: logger}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type addAdminRequest struct {
	MainAdminPassword string `json:"mainAdminPassword"`
	Username          string `json:"username"`
	Password          string `json:"password"`
}

// Login handles POST /login.
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := DecodeJSON(r, &req); err != nil {
		respondInvalidBody(w)
		return
	}

	if _, err := h.admins.Login(r.Context(), req.Username, req.Password); err != nil {
		if !domain.HasCode(err, domain.CodeInternal) {
			h.logger.Warn("login failed", "remote_ip", ClientIP(r), "request_id", GetRequestID(r.Context()))
		}
		respondServiceError(w, r, h.logger, err)
		return
	}
	RespondJSON(w, http.StatusOK, successResponse{Success: true, Message: "Login successful"})
}

// AddAdmin handles POST /add-admin.
func (h *AdminHandler) AddAdmin(w http.ResponseWriter, r *http.Request) {
	var req addAdminRequest
	if err := DecodeJSON(r, &req); err != nil {
		respondInvalidBody(w)
		return
	}

	_, err := h.admins.AddAdmin(r.Context(), service.AddAdminInput{
		MainAdminPassword: req.MainAdminPassword,
		Username:          req.Username,
		Password:          req.Password,
	})
	if err != nil {
		respondServiceError(w, r, h.logger, err)
		return
	}
	RespondJSON(w, http.StatusOK, successResponse{Success: true})
}
