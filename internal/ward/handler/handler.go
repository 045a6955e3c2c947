// Package handler exposes room registration and patient movement over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/go-chi/chi/v5"

	"clinicore/internal/platform/metrics"
	"clinicore/internal/platform/middleware"
	"clinicore/internal/transport/http/shared"
	"clinicore/internal/ward/models"
	dErrors "clinicore/pkg/domain-errors"
	"clinicore/pkg/requestcontext"
)

// Service defines the ward operations the handler delegates to.
type Service interface {
	RegisterRoom(ctx context.Context, params models.RoomParams) (*models.Room, error)
	GetRoom(ctx context.Context, label string) (*models.Room, error)
	ListRooms(ctx context.Context) ([]*models.Room, error)
	Admit(ctx context.Context, roomLabel, patientID string) error
	Discharge(ctx context.Context, roomLabel, patientID string) error
	Transfer(ctx context.Context, fromLabel, toLabel, patientID string) error
	SetMaxOccupancy(ctx context.Context, roomLabel string, maxOccupancy int) error
}

// Handler handles ward endpoints.
type Handler struct {
	logger  *slog.Logger
	service Service
	metrics *metrics.Metrics
}

// New creates a ward Handler.
func New(service Service, logger *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{
		logger:  logger,
		service: service,
		metrics: m,
	}
}

// Register registers the ward routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(ward chi.Router) {
		ward.Use(middleware.Recovery(h.logger))
		ward.Use(middleware.RequestID)
		ward.Use(middleware.Logger(h.logger))
		ward.Use(middleware.Timeout(30 * time.Second))
		ward.Use(middleware.ContentTypeJSON)
		ward.Use(middleware.Latency(h.metrics))
		ward.Use(middleware.Tracing)
		ward.Post("/rooms", h.handleRegisterRoom)
		ward.Get("/rooms", h.handleListRooms)
		ward.Get("/rooms/{label}", h.handleGetRoom)
		ward.Put("/rooms/{label}/capacity", h.handleSetCapacity)
		ward.Post("/rooms/{label}/admissions", h.handleAdmit)
		ward.Delete("/rooms/{label}/admissions/{patientID}", h.handleDischarge)
		ward.Post("/transfers", h.handleTransfer)
	})
}

type registerRoomRequest struct {
	Label        string `json:"label"`
	Address      string `json:"address,omitempty"`
	Floor        int    `json:"floor,omitempty"`
	Number       int    `json:"number,omitempty"`
	Type         string `json:"type"`
	MaxOccupancy int    `json:"max_occupancy"`
}

type roomResponse struct {
	Label        string   `json:"label"`
	Address      string   `json:"address,omitempty"`
	Floor        int      `json:"floor"`
	Number       int      `json:"number"`
	Type         string   `json:"type"`
	MaxOccupancy int      `json:"max_occupancy"`
	Occupants    []string `json:"occupants"`
}

type admitRequest struct {
	PatientID string `json:"patient_id"`
}

type transferRequest struct {
	PatientID string `json:"patient_id"`
	From      string `json:"from"`
	To        string `json:"to"`
}

type capacityRequest struct {
	MaxOccupancy int `json:"max_occupancy"`
}

func (h *Handler) handleRegisterRoom(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req registerRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if !govalidator.StringLength(req.Label, "1", "64") {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid room label"))
		return
	}

	room, err := h.service.RegisterRoom(ctx, models.RoomParams{
		Label:        req.Label,
		Address:      req.Address,
		Floor:        req.Floor,
		Number:       req.Number,
		Type:         models.ParseRoomType(req.Type),
		MaxOccupancy: req.MaxOccupancy,
	})
	if err != nil {
		h.writeServiceError(ctx, w, "failed to register room", err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, toRoomResponse(room))
}

func (h *Handler) handleListRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.service.ListRooms(r.Context())
	if err != nil {
		h.writeServiceError(r.Context(), w, "failed to list rooms", err)
		return
	}
	out := make([]roomResponse, 0, len(rooms))
	for _, room := range rooms {
		out = append(out, toRoomResponse(room))
	}
	shared.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	room, err := h.service.GetRoom(r.Context(), chi.URLParam(r, "label"))
	if err != nil {
		h.writeServiceError(r.Context(), w, "failed to fetch room", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, toRoomResponse(room))
}

func (h *Handler) handleSetCapacity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req capacityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if err := h.service.SetMaxOccupancy(ctx, chi.URLParam(r, "label"), req.MaxOccupancy); err != nil {
		h.writeServiceError(ctx, w, "failed to resize room", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleAdmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req admitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if !govalidator.IsNumeric(req.PatientID) {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "patient_id must be numeric"))
		return
	}
	if err := h.service.Admit(ctx, chi.URLParam(r, "label"), req.PatientID); err != nil {
		h.writeServiceError(ctx, w, "failed to admit patient", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleDischarge(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.service.Discharge(ctx, chi.URLParam(r, "label"), chi.URLParam(r, "patientID")); err != nil {
		h.writeServiceError(ctx, w, "failed to discharge patient", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleTransfer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req transferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if !govalidator.IsNumeric(req.PatientID) || req.From == "" || req.To == "" {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "patient_id, from, and to are required"))
		return
	}
	if err := h.service.Transfer(ctx, req.From, req.To, req.PatientID); err != nil {
		h.writeServiceError(ctx, w, "failed to transfer patient", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeServiceError(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, msg,
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, msg))
		return
	}
	shared.WriteError(w, err)
}

func toRoomResponse(room *models.Room) roomResponse {
	return roomResponse{
		Label:        room.Label(),
		Address:      room.Address(),
		Floor:        room.Floor(),
		Number:       room.Number(),
		Type:         string(room.Type()),
		MaxOccupancy: room.MaxOccupancy(),
		Occupants:    room.Occupants(),
	}
}
