// Package handler is the thin HTTP layer over the scheduling service. It
// delegates to the service without embedding business logic so transport
// concerns remain isolated.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"chronoplan/internal/platform/metrics"
	"chronoplan/internal/platform/middleware"
	"chronoplan/internal/scheduling/models"
	"chronoplan/internal/scheduling/service"
	"chronoplan/internal/timezone"
	"chronoplan/internal/transport/http/shared"
	dErrors "chronoplan/pkg/domain-errors"
)

// Service defines the scheduling operations the HTTP layer depends on.
type Service interface {
	CreateEvent(ctx context.Context, in service.EventInput) (*models.Event, error)
	ListEvents(ctx context.Context, profileID uuid.UUID) ([]*models.Event, error)
	GetEvent(ctx context.Context, id uuid.UUID) (*models.Event, error)
	UpdateEvent(ctx context.Context, id uuid.UUID, in service.EventInput) (*models.Event, []*models.LogEntry, error)
	DeleteEvent(ctx context.Context, id uuid.UUID) error
	GetEventLogs(ctx context.Context, eventID uuid.UUID) ([]*models.LogEntry, error)
	CreateProfile(ctx context.Context, name string) (*models.Profile, error)
	ListProfiles(ctx context.Context) ([]*models.Profile, error)
}

// Projector projects stored instants into display timezones for responses.
type Projector interface {
	ToLocal(instant time.Time, zone string) (timezone.Local, error)
}

// Handler handles scheduling endpoints.
type Handler struct {
	logger    *slog.Logger
	scheduler Service
	projector Projector
	metrics   *metrics.Metrics
}

// New creates a scheduling Handler.
func New(scheduler Service, projector Projector, logger *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{
		logger:    logger,
		scheduler: scheduler,
		projector: projector,
		metrics:   m,
	}
}

// Register mounts the API under /api with the standard middleware chain.
func (h *Handler) Register(r chi.Router) {
	api := chi.NewRouter()
	api.Use(middleware.Recovery(h.logger))
	api.Use(middleware.RequestID)
	api.Use(middleware.Logger(h.logger))
	api.Use(middleware.Timeout(30 * time.Second))
	api.Use(middleware.ContentTypeJSON)
	if h.metrics != nil {
		api.Use(middleware.Latency(h.metrics))
	}

	api.Post("/events", h.handleCreateEvent)
	api.Get("/events", h.handleListEvents)
	api.Get("/events/{id}", h.handleGetEvent)
	api.Put("/events/{id}", h.handleUpdateEvent)
	api.Delete("/events/{id}", h.handleDeleteEvent)
	api.Get("/events/{id}/logs", h.handleEventLogs)
	api.Post("/profiles", h.handleCreateProfile)
	api.Get("/profiles", h.handleListProfiles)

	r.Mount("/api", api)
}

// eventResponse augments the stored event with wall-clock projections when a
// display timezone applies.
type eventResponse struct {
	*models.Event
	StartLocal string `json:"start_local,omitempty"`
	EndLocal   string `json:"end_local,omitempty"`
}

func (h *Handler) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.warn(ctx, "invalid create event body", err)
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if err := req.validate(); err != nil {
		h.warn(ctx, "create event validation failed", err)
		shared.WriteError(w, err)
		return
	}

	e, err := h.scheduler.CreateEvent(ctx, req.toInput())
	if err != nil {
		h.writeServiceError(ctx, w, "failed to create event", err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, eventResponse{Event: e})
}

func (h *Handler) handleListEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	profileID := uuid.Nil
	if raw := r.URL.Query().Get("profile_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid profile_id"))
			return
		}
		profileID = parsed
	}

	// Resolve the display zone before touching the store so an invalid tz is
	// rejected even when there is nothing to project.
	displayZone := r.URL.Query().Get("tz")
	if displayZone != "" {
		if _, err := h.projector.ToLocal(time.Time{}, displayZone); err != nil {
			h.warn(ctx, "invalid display timezone", err)
			shared.WriteError(w, dErrors.New(dErrors.CodeValidation, "unknown timezone"))
			return
		}
	}

	events, err := h.scheduler.ListEvents(ctx, profileID)
	if err != nil {
		h.writeServiceError(ctx, w, "failed to list events", err)
		return
	}

	out := make([]eventResponse, 0, len(events))
	for _, e := range events {
		resp, err := h.project(e, displayZone)
		if err != nil {
			h.warn(ctx, "invalid display timezone", err)
			shared.WriteError(w, err)
			return
		}
		out = append(out, resp)
	}
	shared.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	e, err := h.scheduler.GetEvent(ctx, id)
	if err != nil {
		h.writeServiceError(ctx, w, "failed to load event", err)
		return
	}

	// Without an explicit display timezone the projection uses the event's
	// original zone, which is what an edit form repopulates from.
	displayZone := r.URL.Query().Get("tz")
	if displayZone == "" {
		displayZone = e.OriginalTimezone
	}
	resp, err := h.project(e, displayZone)
	if err != nil {
		h.warn(ctx, "invalid display timezone", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleUpdateEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.warn(ctx, "invalid update event body", err)
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if err := req.validate(); err != nil {
		h.warn(ctx, "update event validation failed", err)
		shared.WriteError(w, err)
		return
	}

	e, _, err := h.scheduler.UpdateEvent(ctx, id, req.toInput())
	if err != nil {
		h.writeServiceError(ctx, w, "failed to update event", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, eventResponse{Event: e})
}

func (h *Handler) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	if err := h.scheduler.DeleteEvent(ctx, id); err != nil {
		h.writeServiceError(ctx, w, "failed to delete event", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]string{"message": "Event removed"})
}

func (h *Handler) handleEventLogs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	entries, err := h.scheduler.GetEventLogs(ctx, id)
	if err != nil {
		h.writeServiceError(ctx, w, "failed to list event logs", err)
		return
	}
	if entries == nil {
		entries = []*models.LogEntry{}
	}
	shared.WriteJSON(w, http.StatusOK, entries)
}

func (h *Handler) handleCreateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.warn(ctx, "invalid create profile body", err)
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if err := req.validate(); err != nil {
		h.warn(ctx, "create profile validation failed", err)
		shared.WriteError(w, err)
		return
	}

	p, err := h.scheduler.CreateProfile(ctx, req.Name)
	if err != nil {
		h.writeServiceError(ctx, w, "failed to create profile", err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, p)
}

func (h *Handler) handleListProfiles(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	profiles, err := h.scheduler.ListProfiles(ctx)
	if err != nil {
		h.writeServiceError(ctx, w, "failed to list profiles", err)
		return
	}
	if profiles == nil {
		profiles = []*models.Profile{}
	}
	shared.WriteJSON(w, http.StatusOK, profiles)
}

// project attaches wall-clock fields for the display zone; an empty zone
// leaves the response as stored instants only.
func (h *Handler) project(e *models.Event, zone string) (eventResponse, error) {
	resp := eventResponse{Event: e}
	if zone == "" {
		return resp, nil
	}
	start, err := h.projector.ToLocal(e.StartTime, zone)
	if err != nil {
		return eventResponse{}, dErrors.New(dErrors.CodeValidation, "unknown timezone")
	}
	end, err := h.projector.ToLocal(e.EndTime, zone)
	if err != nil {
		return eventResponse{}, dErrors.New(dErrors.CodeValidation, "unknown timezone")
	}
	resp.StartLocal = start.Input()
	resp.EndLocal = end.Input()
	return resp, nil
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid event id"))
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) warn(ctx context.Context, msg string, err error) {
	h.logger.WarnContext(ctx, msg,
		"request_id", middleware.GetRequestID(ctx),
		"error", err.Error(),
	)
}

// writeServiceError logs with severity matched to the error kind and writes
// the envelope. Business errors are warnings; anything else is unexpected.
func (h *Handler) writeServiceError(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	switch {
	case dErrors.HasCode(err, dErrors.CodeValidation),
		dErrors.HasCode(err, dErrors.CodeBadRequest),
		dErrors.HasCode(err, dErrors.CodeNotFound),
		dErrors.HasCode(err, dErrors.CodeConflict):
		h.warn(ctx, msg, err)
	default:
		h.logger.ErrorContext(ctx, msg,
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
	}
	shared.WriteError(w, err)
}
