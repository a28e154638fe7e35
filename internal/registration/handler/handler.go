// Package handler exposes the activity catalog and the registration
// lifecycle over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"campushub/internal/platform/middleware"
	"campushub/internal/registration/models"
	jsonResponse "campushub/internal/transport/http/json"
	"campushub/internal/transport/http/shared"
	id "campushub/pkg/domain"
	dErrors "campushub/pkg/domain-errors"
	"campushub/pkg/validation"
)

// Service defines the interface for catalog and registration operations.
type Service interface {
	CreateEvent(ctx context.Context, req *models.CreateEventRequest) (*models.Event, error)
	GetEvent(ctx context.Context, eventID id.EventID) (*models.Event, error)
	ListEvents(ctx context.Context) ([]*models.Event, error)
	ListClubs(ctx context.Context) ([]*models.Club, error)

	Register(ctx context.Context, eventID id.EventID, studentID id.StudentID, studentName, studentEmail string) (*models.Registration, error)
	Approve(ctx context.Context, regID id.RegistrationID) (*models.Registration, error)
	Reject(ctx context.Context, regID id.RegistrationID) (*models.Registration, error)
	Cancel(ctx context.Context, regID id.RegistrationID) (*models.Registration, error)
	GetRegistration(ctx context.Context, regID id.RegistrationID) (*models.Registration, error)
	ListByEvent(ctx context.Context, eventID id.EventID) ([]*models.Registration, error)
	ListByStudent(ctx context.Context, studentID id.StudentID) ([]*models.Registration, error)
	PendingRegistrations(ctx context.Context) ([]*models.Registration, error)

	Now() time.Time
}

// Handler handles the event catalog and registration endpoints.
type Handler struct {
	registrations Service
	logger        *slog.Logger
}

// New creates a new registration Handler with the given service and logger.
func New(registrations Service, logger *slog.Logger) *Handler {
	return &Handler{registrations: registrations, logger: logger}
}

// Register registers the public catalog routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/events", h.HandleListEvents)
	r.Get("/events/{event_id}", h.HandleGetEvent)
	r.Get("/clubs", h.HandleListClubs)
}

// RegisterProtected registers routes that require an authenticated session.
func (h *Handler) RegisterProtected(r chi.Router) {
	r.Post("/events/{event_id}/registrations", h.HandleRegister)
	r.Get("/me/registrations", h.HandleMyRegistrations)
	r.Post("/registrations/{registration_id}/cancel", h.HandleCancel)
}

// RegisterAdmin registers routes that require the registration management
// capability.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Post("/events", h.HandleCreateEvent)
	r.Get("/events/{event_id}/registrations", h.HandleListByEvent)
	r.Get("/registrations/pending", h.HandlePending)
	r.Post("/registrations/{registration_id}/approve", h.HandleApprove)
	r.Post("/registrations/{registration_id}/reject", h.HandleReject)
}

// HandleListEvents implements GET /events.
func (h *Handler) HandleListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.registrations.ListEvents(r.Context())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	now := h.registrations.Now()
	out := make([]models.EventResponse, 0, len(events))
	for _, event := range events {
		out = append(out, models.NewEventResponse(event, now))
	}
	jsonResponse.WriteJSON(w, http.StatusOK, out)
}

// HandleGetEvent implements GET /events/{event_id}.
func (h *Handler) HandleGetEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := id.ParseEventID(chi.URLParam(r, "event_id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	event, err := h.registrations.GetEvent(r.Context(), eventID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	jsonResponse.WriteJSON(w, http.StatusOK, models.NewEventResponse(event, h.registrations.Now()))
}

// HandleListClubs implements GET /clubs.
func (h *Handler) HandleListClubs(w http.ResponseWriter, r *http.Request) {
	clubs, err := h.registrations.ListClubs(r.Context())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	out := make([]models.ClubResponse, 0, len(clubs))
	for _, club := range clubs {
		out = append(out, models.NewClubResponse(club))
	}
	jsonResponse.WriteJSON(w, http.StatusOK, out)
}

// HandleCreateEvent implements POST /events.
func (h *Handler) HandleCreateEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req models.CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid JSON in request body"))
		return
	}
	req.Normalize()
	if err := validation.Validate(&req); err != nil {
		h.warn(ctx, "invalid create event request", err)
		shared.WriteError(w, err)
		return
	}

	event, err := h.registrations.CreateEvent(ctx, &req)
	if err != nil {
		h.warn(ctx, "create event failed", err)
		shared.WriteError(w, err)
		return
	}
	jsonResponse.WriteJSON(w, http.StatusCreated, models.NewEventResponse(event, h.registrations.Now()))
}

// HandleRegister implements POST /events/{event_id}/registrations.
// The student comes from the session, never from the body.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal := middleware.GetPrincipal(ctx)
	if principal == nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	eventID, err := id.ParseEventID(chi.URLParam(r, "event_id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	studentID, err := id.ParseStudentID(principal.UserID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	reg, err := h.registrations.Register(ctx, eventID, studentID, principal.Name, principal.Email)
	if err != nil {
		h.warn(ctx, "registration failed", err)
		shared.WriteError(w, err)
		return
	}
	jsonResponse.WriteJSON(w, http.StatusCreated, models.NewRegistrationResponse(reg))
}

// HandleMyRegistrations implements GET /me/registrations.
func (h *Handler) HandleMyRegistrations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal := middleware.GetPrincipal(ctx)
	if principal == nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}
	studentID, err := id.ParseStudentID(principal.UserID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	regs, err := h.registrations.ListByStudent(ctx, studentID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	jsonResponse.WriteJSON(w, http.StatusOK, toRegistrationResponses(regs))
}

// HandleCancel implements POST /registrations/{registration_id}/cancel.
// Students may cancel their own registrations; managers may cancel any.
func (h *Handler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal := middleware.GetPrincipal(ctx)
	if principal == nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	regID, err := id.ParseRegistrationID(chi.URLParam(r, "registration_id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	if !principal.CanManageRegistrations() {
		existing, err := h.registrations.GetRegistration(ctx, regID)
		if err != nil {
			shared.WriteError(w, err)
			return
		}
		if existing.StudentID.String() != principal.UserID {
			shared.WriteError(w, dErrors.New(dErrors.CodeForbidden, "cannot cancel another student's registration"))
			return
		}
	}

	reg, err := h.registrations.Cancel(ctx, regID)
	if err != nil {
		h.warn(ctx, "cancel failed", err)
		shared.WriteError(w, err)
		return
	}
	jsonResponse.WriteJSON(w, http.StatusOK, models.NewRegistrationResponse(reg))
}

// HandleListByEvent implements GET /events/{event_id}/registrations.
func (h *Handler) HandleListByEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := id.ParseEventID(chi.URLParam(r, "event_id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	regs, err := h.registrations.ListByEvent(r.Context(), eventID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	jsonResponse.WriteJSON(w, http.StatusOK, toRegistrationResponses(regs))
}

// HandlePending implements GET /registrations/pending.
func (h *Handler) HandlePending(w http.ResponseWriter, r *http.Request) {
	regs, err := h.registrations.PendingRegistrations(r.Context())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	jsonResponse.WriteJSON(w, http.StatusOK, toRegistrationResponses(regs))
}

// HandleApprove implements POST /registrations/{registration_id}/approve.
func (h *Handler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, h.registrations.Approve)
}

// HandleReject implements POST /registrations/{registration_id}/reject.
func (h *Handler) HandleReject(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, h.registrations.Reject)
}

func (h *Handler) review(w http.ResponseWriter, r *http.Request, op func(context.Context, id.RegistrationID) (*models.Registration, error)) {
	ctx := r.Context()
	regID, err := id.ParseRegistrationID(chi.URLParam(r, "registration_id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	reg, err := op(ctx, regID)
	if err != nil {
		h.warn(ctx, "review failed", err)
		shared.WriteError(w, err)
		return
	}
	jsonResponse.WriteJSON(w, http.StatusOK, models.NewRegistrationResponse(reg))
}

func toRegistrationResponses(regs []*models.Registration) []models.RegistrationResponse {
	out := make([]models.RegistrationResponse, 0, len(regs))
	for _, reg := range regs {
		out = append(out, models.NewRegistrationResponse(reg))
	}
	return out
}

func (h *Handler) warn(ctx context.Context, msg string, err error) {
	h.logger.WarnContext(ctx, msg,
		"error", err,
		"request_id", middleware.GetRequestID(ctx),
	)
}
