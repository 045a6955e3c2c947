// Package service orchestrates person registration: it runs raw field values
// through the entity builders, enforces the identifier-collision policy at
// creation time, and records the outcome.
package service

import (
	"context"
	"errors"
	"log/slog"

	"clinicore/internal/audit"
	"clinicore/internal/identity/models"
	"clinicore/internal/identity/store"
	"clinicore/internal/platform/metrics"
	dErrors "clinicore/pkg/domain-errors"
	"clinicore/pkg/platform/sentinel"
	"clinicore/pkg/requestcontext"
)

// Service registers patients, doctors, and nurses.
type Service struct {
	patients store.PatientStore
	doctors  store.DoctorStore
	nurses   store.NurseStore

	logger  *slog.Logger
	sink    audit.Sink
	metrics *metrics.Metrics
}

// Option configures optional collaborators.
type Option func(*Service)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithAudit sets the audit sink.
func WithAudit(sink audit.Sink) Option {
	return func(s *Service) { s.sink = sink }
}

// WithMetrics sets the metrics collaborators.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// New builds the registration service. All three stores are required.
func New(patients store.PatientStore, doctors store.DoctorStore, nurses store.NurseStore, opts ...Option) (*Service, error) {
	if patients == nil || doctors == nil || nurses == nil {
		return nil, errors.New("patient, doctor, and nurse stores are required")
	}
	svc := &Service{
		patients: patients,
		doctors:  doctors,
		nurses:   nurses,
		logger:   slog.Default(),
		sink:     nopSink{},
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// RegisterPatient validates and persists a new patient. Validation failures
// propagate uncaught with their specific code; a duplicate national
// identifier is rejected with CodeConflict.
func (s *Service) RegisterPatient(ctx context.Context, params models.PatientParams) (*models.Patient, error) {
	patient, err := models.NewPatient(params)
	if err != nil {
		return nil, err
	}
	if err := s.patients.Create(ctx, patient); err != nil {
		return nil, s.wrapCreateErr(err, "patient")
	}
	s.recordRegistration(ctx, "patient", patient.NationalID)
	return patient, nil
}

// RegisterDoctor validates and persists a new doctor.
func (s *Service) RegisterDoctor(ctx context.Context, params models.DoctorParams) (*models.Doctor, error) {
	doctor, err := models.NewDoctor(params)
	if err != nil {
		return nil, err
	}
	if err := s.doctors.Create(ctx, doctor); err != nil {
		return nil, s.wrapCreateErr(err, "doctor")
	}
	s.recordRegistration(ctx, "doctor", doctor.NationalID)
	return doctor, nil
}

// RegisterNurse validates and persists a new nurse.
func (s *Service) RegisterNurse(ctx context.Context, params models.NurseParams) (*models.Nurse, error) {
	nurse, err := models.NewNurse(params)
	if err != nil {
		return nil, err
	}
	if err := s.nurses.Create(ctx, nurse); err != nil {
		return nil, s.wrapCreateErr(err, "nurse")
	}
	s.recordRegistration(ctx, "nurse", nurse.NationalID)
	return nurse, nil
}

// GetPatient looks up a patient by national identifier.
func (s *Service) GetPatient(ctx context.Context, nationalID string) (*models.Patient, error) {
	patient, err := s.patients.FindByNationalID(ctx, nationalID)
	if err != nil {
		return nil, wrapLookupErr(err, "patient")
	}
	return patient, nil
}

// GetDoctor looks up a doctor by national identifier.
func (s *Service) GetDoctor(ctx context.Context, nationalID string) (*models.Doctor, error) {
	doctor, err := s.doctors.FindByNationalID(ctx, nationalID)
	if err != nil {
		return nil, wrapLookupErr(err, "doctor")
	}
	return doctor, nil
}

// GetNurse looks up a nurse by national identifier.
func (s *Service) GetNurse(ctx context.Context, nationalID string) (*models.Nurse, error) {
	nurse, err := s.nurses.FindByNationalID(ctx, nationalID)
	if err != nil {
		return nil, wrapLookupErr(err, "nurse")
	}
	return nurse, nil
}

func (s *Service) wrapCreateErr(err error, kind string) error {
	if errors.Is(err, sentinel.ErrAlreadyUsed) {
		return dErrors.Newf(dErrors.CodeConflict, "a %s with this national identifier already exists", kind)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create "+kind)
}

func wrapLookupErr(err error, kind string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, kind+" not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load "+kind)
}

func (s *Service) recordRegistration(ctx context.Context, kind, nationalID string) {
	s.metrics.IncrementRegistered(kind)
	s.sink.Enqueue(audit.NewEvent(audit.CategoryCompliance, audit.ActionPersonRegistered, requestcontext.Now(ctx)).
		WithSubject(nationalID).
		WithRequestID(requestcontext.RequestID(ctx)).
		WithField("kind", kind))
	s.logger.InfoContext(ctx, "person registered",
		"kind", kind,
		"subject_hash", audit.HashSubject(nationalID),
		"request_id", requestcontext.RequestID(ctx),
	)
}

type nopSink struct{}

func (nopSink) Enqueue(audit.Event) {}
