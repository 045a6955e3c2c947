// Package service coordinates room registration and patient movement. Every
// occupancy change runs inside the room store's Execute callback so the
// capacity check and the write are serialized per room.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"clinicore/internal/audit"
	identity "clinicore/internal/identity/models"
	"clinicore/internal/platform/metrics"
	"clinicore/internal/ward/models"
	"clinicore/internal/ward/placement"
	"clinicore/internal/ward/store"
	dErrors "clinicore/pkg/domain-errors"
	"clinicore/pkg/platform/sentinel"
	"clinicore/pkg/requestcontext"
)

// PatientLookup resolves a patient by national identifier so admissions can
// be placement-checked. Satisfied by the identity patient store.
type PatientLookup interface {
	FindByNationalID(ctx context.Context, nationalID string) (*identity.Patient, error)
}

// Service owns ward operations.
type Service struct {
	rooms    store.RoomStore
	patients PatientLookup

	logger  *slog.Logger
	sink    audit.Sink
	metrics *metrics.Metrics
}

// Option configures optional collaborators.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithAudit(sink audit.Sink) Option {
	return func(s *Service) { s.sink = sink }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func New(rooms store.RoomStore, patients PatientLookup, opts ...Option) (*Service, error) {
	if rooms == nil || patients == nil {
		return nil, errors.New("room store and patient lookup are required")
	}
	s := &Service{
		rooms:    rooms,
		patients: patients,
		logger:   slog.Default(),
		sink:     nopSink{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// RegisterRoom creates a new empty room.
func (s *Service) RegisterRoom(ctx context.Context, params models.RoomParams) (*models.Room, error) {
	room, err := models.NewRoom(params)
	if err != nil {
		return nil, err
	}
	if err := s.rooms.Create(ctx, room); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.Newf(dErrors.CodeConflict, "room %s already registered", room.Label())
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to register room")
	}
	s.logger.InfoContext(ctx, "room registered",
		"room", room.Label(), "type", string(room.Type()), "capacity", room.MaxOccupancy())
	s.sink.Enqueue(s.wardEvent(ctx, audit.ActionRoomRegistered, room.Label()).
		WithField("room_type", string(room.Type())).
		WithField("capacity", strconv.Itoa(room.MaxOccupancy())))
	return room, nil
}

// GetRoom returns the current state of a room.
func (s *Service) GetRoom(ctx context.Context, label string) (*models.Room, error) {
	room, err := s.rooms.Find(ctx, label)
	if err != nil {
		return nil, s.wrapRoomErr(err, label)
	}
	return room, nil
}

// ListRooms returns all rooms in registration order.
func (s *Service) ListRooms(ctx context.Context) ([]*models.Room, error) {
	rooms, err := s.rooms.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list rooms")
	}
	return rooms, nil
}

// Admit places a patient into a room. The room must suit the patient's
// department and must have a free bed; on a full room the admission is
// rejected, never queued or clamped.
func (s *Service) Admit(ctx context.Context, roomLabel, patientID string) error {
	patient, err := s.patients.FindByNationalID(ctx, patientID)
	if err != nil {
		return s.wrapPatientErr(err, patientID)
	}
	department := placement.PatientDepartment(patient)

	err = s.rooms.Execute(ctx, roomLabel, func(room *models.Room) error {
		if !roomSuits(room.Type(), department) {
			return dErrors.Newf(dErrors.CodeValidation,
				"room %s (%s) does not suit department %s", room.Label(), room.Type(), department)
		}
		return room.AddOccupant(patientID)
	})
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeCapacityExceeded) {
			s.metrics.IncrementCapacityRejection()
			s.sink.Enqueue(s.wardEvent(ctx, audit.ActionCapacityRejected, roomLabel).
				WithSubject(patientID))
		}
		return s.wrapRoomErr(err, roomLabel)
	}

	s.metrics.IncrementAdmission()
	s.logger.InfoContext(ctx, "patient admitted", "room", roomLabel)
	s.sink.Enqueue(s.wardEvent(ctx, audit.ActionPatientAdmitted, roomLabel).
		WithSubject(patientID).
		WithField("department", string(department)))
	return nil
}

// Discharge removes a patient from a room.
func (s *Service) Discharge(ctx context.Context, roomLabel, patientID string) error {
	err := s.rooms.Execute(ctx, roomLabel, func(room *models.Room) error {
		return room.RemoveOccupant(patientID)
	})
	if err != nil {
		return s.wrapRoomErr(err, roomLabel)
	}
	s.logger.InfoContext(ctx, "patient discharged", "room", roomLabel)
	s.sink.Enqueue(s.wardEvent(ctx, audit.ActionPatientDischarged, roomLabel).
		WithSubject(patientID))
	return nil
}

// Transfer moves a patient between rooms atomically: if the destination
// rejects the patient the source keeps them.
func (s *Service) Transfer(ctx context.Context, fromLabel, toLabel, patientID string) error {
	if fromLabel == toLabel {
		return dErrors.New(dErrors.CodeInvalidInput, "transfer source and destination are the same room")
	}
	patient, err := s.patients.FindByNationalID(ctx, patientID)
	if err != nil {
		return s.wrapPatientErr(err, patientID)
	}
	department := placement.PatientDepartment(patient)

	err = s.rooms.ExecuteTransfer(ctx, fromLabel, toLabel, func(from, to *models.Room) error {
		if !roomSuits(to.Type(), department) {
			return dErrors.Newf(dErrors.CodeValidation,
				"room %s (%s) does not suit department %s", to.Label(), to.Type(), department)
		}
		if err := from.RemoveOccupant(patientID); err != nil {
			return err
		}
		return to.AddOccupant(patientID)
	})
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeCapacityExceeded) {
			s.metrics.IncrementCapacityRejection()
			s.sink.Enqueue(s.wardEvent(ctx, audit.ActionCapacityRejected, toLabel).
				WithSubject(patientID))
		}
		return s.wrapRoomErr(err, fromLabel)
	}

	s.logger.InfoContext(ctx, "patient transferred", "from", fromLabel, "to", toLabel)
	s.sink.Enqueue(s.wardEvent(ctx, audit.ActionPatientTransferred, toLabel).
		WithSubject(patientID).
		WithField("from", fromLabel))
	return nil
}

// SetMaxOccupancy resizes a room. Shrinking below the current occupancy
// fails; occupants are never evicted by a resize.
func (s *Service) SetMaxOccupancy(ctx context.Context, roomLabel string, maxOccupancy int) error {
	err := s.rooms.Execute(ctx, roomLabel, func(room *models.Room) error {
		return room.SetMaxOccupancy(maxOccupancy)
	})
	if err != nil {
		return s.wrapRoomErr(err, roomLabel)
	}
	s.logger.InfoContext(ctx, "room resized", "room", roomLabel, "capacity", maxOccupancy)
	return nil
}

// roomSuits reports whether a room of the given type can host a patient of
// the given department. The general ward accepts anyone.
func roomSuits(roomType, department models.RoomType) bool {
	return roomType == department || roomType == models.RoomGeneral
}

func (s *Service) wrapRoomErr(err error, label string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.Newf(dErrors.CodeNotFound, "room %s not found", label)
	}
	var dErr *dErrors.Error
	if errors.As(err, &dErr) {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "room operation failed")
}

func (s *Service) wrapPatientErr(err error, patientID string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.Newf(dErrors.CodeNotFound, "patient %s not found", audit.HashSubject(patientID)[:12])
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "patient lookup failed")
}

func (s *Service) wardEvent(ctx context.Context, action audit.Action, roomLabel string) audit.Event {
	return audit.NewEvent(audit.CategoryOperations, action, requestcontext.Now(ctx)).
		WithRequestID(requestcontext.RequestID(ctx)).
		WithField("room", roomLabel)
}

type nopSink struct{}

func (nopSink) Enqueue(audit.Event) {}
