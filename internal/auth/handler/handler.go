// Package handler exposes the authentication flow over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"campushub/internal/auth/models"
	"campushub/internal/platform/middleware"
	jsonResponse "campushub/internal/transport/http/json"
	"campushub/internal/transport/http/shared"
	id "campushub/pkg/domain"
	dErrors "campushub/pkg/domain-errors"
	"campushub/pkg/validation"
)

// Service defines the interface for authentication operations.
type Service interface {
	Login(ctx context.Context, req *models.LoginRequest, userAgent string) (*models.LoginResult, error)
	VerifyCode(ctx context.Context, req *models.VerifyCodeRequest, userAgent string) (*models.SessionResult, error)
	ResendCode(ctx context.Context, req *models.ResendCodeRequest) (*models.ResendResult, error)
	Logout(ctx context.Context, sessionID id.SessionID) error
}

// Handler handles the login, verification and logout endpoints.
type Handler struct {
	auth   Service
	logger *slog.Logger
}

// New creates a new auth Handler with the given service and logger.
func New(auth Service, logger *slog.Logger) *Handler {
	return &Handler{auth: auth, logger: logger}
}

// Register registers the public auth routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/auth/login", h.HandleLogin)
	r.Post("/auth/verify", h.HandleVerify)
	r.Post("/auth/resend", h.HandleResend)
}

// RegisterProtected registers routes that require an authenticated session.
func (h *Handler) RegisterProtected(r chi.Router) {
	r.Post("/auth/logout", h.HandleLogout)
	r.Get("/auth/me", h.HandleMe)
}

// HandleLogin implements POST /auth/login.
// Checks credentials; privileged roles receive a one-time-code challenge
// out-of-band, others receive a session directly.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req models.LoginRequest
	if !h.decode(w, r, &req) {
		return
	}
	req.Normalize()
	if err := validation.Validate(&req); err != nil {
		h.warn(ctx, "invalid login request", err)
		shared.WriteError(w, err)
		return
	}

	res, err := h.auth.Login(ctx, &req, r.UserAgent())
	if err != nil {
		h.warn(ctx, "login failed", err)
		shared.WriteError(w, err)
		return
	}
	jsonResponse.WriteJSON(w, http.StatusOK, res)
}

// HandleVerify implements POST /auth/verify.
// Exchanges a pending challenge plus the correct one-time code for a session.
func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req models.VerifyCodeRequest
	if !h.decode(w, r, &req) {
		return
	}
	req.Normalize()
	if err := validation.Validate(&req); err != nil {
		h.warn(ctx, "invalid verify request", err)
		shared.WriteError(w, err)
		return
	}

	res, err := h.auth.VerifyCode(ctx, &req, r.UserAgent())
	if err != nil {
		h.warn(ctx, "verification failed", err)
		shared.WriteError(w, err)
		return
	}
	jsonResponse.WriteJSON(w, http.StatusOK, res)
}

// HandleResend implements POST /auth/resend.
// Issues a fresh code for an existing pending challenge.
func (h *Handler) HandleResend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req models.ResendCodeRequest
	if !h.decode(w, r, &req) {
		return
	}
	req.Normalize()
	if err := validation.Validate(&req); err != nil {
		h.warn(ctx, "invalid resend request", err)
		shared.WriteError(w, err)
		return
	}

	res, err := h.auth.ResendCode(ctx, &req)
	if err != nil {
		h.warn(ctx, "resend failed", err)
		shared.WriteError(w, err)
		return
	}
	jsonResponse.WriteJSON(w, http.StatusOK, res)
}

// HandleLogout implements POST /auth/logout for the current session.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal := middleware.GetPrincipal(ctx)
	if principal == nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	sessionID, err := id.ParseSessionID(principal.SessionID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	if err := h.auth.Logout(ctx, sessionID); err != nil {
		h.warn(ctx, "logout failed", err)
		shared.WriteError(w, err)
		return
	}
	jsonResponse.WriteJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}

// HandleMe implements GET /auth/me for the current session.
func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipal(r.Context())
	if principal == nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}
	jsonResponse.WriteJSON(w, http.StatusOK, models.UserInfo{
		ID:    principal.UserID,
		Email: principal.Email,
		Name:  principal.Name,
		Role:  principal.Role,
	})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.warn(r.Context(), "failed to decode request body", err)
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid JSON in request body"))
		return false
	}
	return true
}

func (h *Handler) warn(ctx context.Context, msg string, err error) {
	h.logger.WarnContext(ctx, msg,
		"error", err,
		"request_id", middleware.GetRequestID(ctx),
	)
}
