// Package handler exposes registration and lookup of patients, doctors, and
// nurses over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/go-chi/chi/v5"

	"clinicore/internal/identity/models"
	"clinicore/internal/platform/metrics"
	"clinicore/internal/platform/middleware"
	"clinicore/internal/transport/http/shared"
	dErrors "clinicore/pkg/domain-errors"
	platformstrings "clinicore/pkg/platform/strings"
	"clinicore/pkg/requestcontext"
)

const birthDateLayout = "2006-01-02"

// Service defines the registration operations the handler delegates to.
type Service interface {
	RegisterPatient(ctx context.Context, params models.PatientParams) (*models.Patient, error)
	RegisterDoctor(ctx context.Context, params models.DoctorParams) (*models.Doctor, error)
	RegisterNurse(ctx context.Context, params models.NurseParams) (*models.Nurse, error)
	GetPatient(ctx context.Context, nationalID string) (*models.Patient, error)
	GetDoctor(ctx context.Context, nationalID string) (*models.Doctor, error)
	GetNurse(ctx context.Context, nationalID string) (*models.Nurse, error)
}

// Handler handles the person registry endpoints.
type Handler struct {
	logger  *slog.Logger
	service Service
	metrics *metrics.Metrics
}

// New creates a registry Handler.
func New(service Service, logger *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{
		logger:  logger,
		service: service,
		metrics: m,
	}
}

// Register registers the person routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(registry chi.Router) {
		registry.Use(middleware.Recovery(h.logger))
		registry.Use(middleware.RequestID)
		registry.Use(middleware.Logger(h.logger))
		registry.Use(middleware.Timeout(30 * time.Second))
		registry.Use(middleware.ContentTypeJSON)
		registry.Use(middleware.Latency(h.metrics))
		registry.Use(middleware.Tracing)
		registry.Post("/patients", h.handleRegisterPatient)
		registry.Get("/patients/{nationalID}", h.handleGetPatient)
		registry.Post("/doctors", h.handleRegisterDoctor)
		registry.Get("/doctors/{nationalID}", h.handleGetDoctor)
		registry.Post("/nurses", h.handleRegisterNurse)
		registry.Get("/nurses/{nationalID}", h.handleGetNurse)
	})
}

type personRequest struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Age        int    `json:"age"`
	NationalID string `json:"national_id,omitempty"`
	Password   string `json:"password"`
}

type registerPatientRequest struct {
	personRequest
	BirthDate string `json:"birth_date"`
	Address   string `json:"address,omitempty"`
	Diagnosis string `json:"diagnosis,omitempty"`
}

type registerDoctorRequest struct {
	personRequest
	Specialization string   `json:"specialization"`
	AvailableDays  []string `json:"available_days,omitempty"`
	RoomLabel      string   `json:"room,omitempty"`
	Contact        string   `json:"contact,omitempty"`
}

type assignmentRequest struct {
	PatientID   string    `json:"patient_id"`
	TreatmentID string    `json:"treatment_id"`
	Role        string    `json:"role"`
	Timestamp   time.Time `json:"timestamp"`
}

type registerNurseRequest struct {
	personRequest
	Specialization string              `json:"specialization,omitempty"`
	Assignments    []assignmentRequest `json:"assignments,omitempty"`
}

type personResponse struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Age        int    `json:"age"`
	NationalID string `json:"national_id"`
}

type patientResponse struct {
	personResponse
	BirthDate string `json:"birth_date"`
	Address   string `json:"address,omitempty"`
	Diagnosis string `json:"diagnosis"`
}

type doctorResponse struct {
	personResponse
	Specialization string   `json:"specialization"`
	AvailableDays  []string `json:"available_days,omitempty"`
	RoomLabel      string   `json:"room,omitempty"`
	Contact        string   `json:"contact,omitempty"`
}

type nurseResponse struct {
	personResponse
	Specialization string              `json:"specialization,omitempty"`
	Assignments    []assignmentRequest `json:"assignments,omitempty"`
}

func (h *Handler) handleRegisterPatient(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req registerPatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.warnBadRequest(ctx, "invalid patient registration request", err)
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if err := validatePersonRequest(req.personRequest); err != nil {
		shared.WriteError(w, err)
		return
	}
	birthDate, err := time.Parse(birthDateLayout, req.BirthDate)
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "birth_date must be YYYY-MM-DD"))
		return
	}

	patient, err := h.service.RegisterPatient(ctx, models.PatientParams{
		PersonParams: personParams(req.personRequest),
		BirthDate:    birthDate,
		Address:      req.Address,
		Diagnosis:    models.Diagnosis(req.Diagnosis),
	})
	if err != nil {
		h.writeServiceError(ctx, w, "failed to register patient", err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, toPatientResponse(patient))
}

func (h *Handler) handleRegisterDoctor(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req registerDoctorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.warnBadRequest(ctx, "invalid doctor registration request", err)
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if err := validatePersonRequest(req.personRequest); err != nil {
		shared.WriteError(w, err)
		return
	}
	days, err := parseWeekdays(req.AvailableDays)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	doctor, err := h.service.RegisterDoctor(ctx, models.DoctorParams{
		PersonParams:   personParams(req.personRequest),
		Specialization: models.Specialization(req.Specialization),
		AvailableDays:  days,
		RoomLabel:      req.RoomLabel,
		Contact:        req.Contact,
	})
	if err != nil {
		h.writeServiceError(ctx, w, "failed to register doctor", err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, toDoctorResponse(doctor))
}

func (h *Handler) handleRegisterNurse(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req registerNurseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.warnBadRequest(ctx, "invalid nurse registration request", err)
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if err := validatePersonRequest(req.personRequest); err != nil {
		shared.WriteError(w, err)
		return
	}

	assignments := make([]models.Assignment, 0, len(req.Assignments))
	for _, a := range req.Assignments {
		assignments = append(assignments, models.Assignment{
			PatientID:   a.PatientID,
			TreatmentID: a.TreatmentID,
			Role:        a.Role,
			Timestamp:   a.Timestamp,
		})
	}

	nurse, err := h.service.RegisterNurse(ctx, models.NurseParams{
		PersonParams:   personParams(req.personRequest),
		Specialization: req.Specialization,
		Assignments:    assignments,
	})
	if err != nil {
		h.writeServiceError(ctx, w, "failed to register nurse", err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, toNurseResponse(nurse))
}

func (h *Handler) handleGetPatient(w http.ResponseWriter, r *http.Request) {
	patient, err := h.service.GetPatient(r.Context(), chi.URLParam(r, "nationalID"))
	if err != nil {
		h.writeServiceError(r.Context(), w, "failed to fetch patient", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, toPatientResponse(patient))
}

func (h *Handler) handleGetDoctor(w http.ResponseWriter, r *http.Request) {
	doctor, err := h.service.GetDoctor(r.Context(), chi.URLParam(r, "nationalID"))
	if err != nil {
		h.writeServiceError(r.Context(), w, "failed to fetch doctor", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, toDoctorResponse(doctor))
}

func (h *Handler) handleGetNurse(w http.ResponseWriter, r *http.Request) {
	nurse, err := h.service.GetNurse(r.Context(), chi.URLParam(r, "nationalID"))
	if err != nil {
		h.writeServiceError(r.Context(), w, "failed to fetch nurse", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, toNurseResponse(nurse))
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

func (h *Handler) warnBadRequest(ctx context.Context, msg string, err error) {
	h.logger.WarnContext(ctx, msg,
		"request_id", requestcontext.RequestID(ctx),
		"error", err.Error(),
	)
}

// validatePersonRequest rejects obviously malformed input before the domain
// builders see it. Field-level semantics (checksum, age minimums) stay in the
// builders.
func validatePersonRequest(req personRequest) error {
	if !govalidator.StringLength(req.FirstName, "1", "100") {
		return dErrors.New(dErrors.CodeInvalidInput, "invalid first_name")
	}
	if !govalidator.StringLength(req.LastName, "1", "100") {
		return dErrors.New(dErrors.CodeInvalidInput, "invalid last_name")
	}
	if req.NationalID != "" && !govalidator.IsNumeric(req.NationalID) {
		return dErrors.New(dErrors.CodeInvalidInput, "national_id must be numeric")
	}
	if !govalidator.StringLength(req.Password, "1", "255") {
		return dErrors.New(dErrors.CodeInvalidInput, "password is required")
	}
	return nil
}

func personParams(req personRequest) models.PersonParams {
	return models.PersonParams{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Age:        req.Age,
		NationalID: req.NationalID,
		Password:   req.Password,
	}
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

func parseWeekdays(names []string) ([]time.Weekday, error) {
	normalized := platformstrings.DedupeAndTrimLower(names)
	days := make([]time.Weekday, 0, len(normalized))
	for _, name := range normalized {
		day, ok := weekdayNames[name]
		if !ok {
			return nil, dErrors.Newf(dErrors.CodeInvalidInput, "unknown weekday %q", name)
		}
		days = append(days, day)
	}
	return days, nil
}

func toPersonResponse(p models.Person) personResponse {
	return personResponse{
		FirstName:  p.FirstName,
		LastName:   p.LastName,
		Age:        p.Age,
		NationalID: p.NationalID,
	}
}

func toPatientResponse(p *models.Patient) patientResponse {
	return patientResponse{
		personResponse: toPersonResponse(p.Person),
		BirthDate:      p.BirthDate.Format(birthDateLayout),
		Address:        p.Address,
		Diagnosis:      p.Diagnosis.String(),
	}
}

func toDoctorResponse(d *models.Doctor) doctorResponse {
	days := make([]string, 0, len(d.AvailableDays))
	for _, day := range d.AvailableDays {
		days = append(days, strings.ToLower(day.String()))
	}
	return doctorResponse{
		personResponse: toPersonResponse(d.Person),
		Specialization: d.Specialization.String(),
		AvailableDays:  days,
		RoomLabel:      d.RoomLabel,
		Contact:        d.Contact,
	}
}

func toNurseResponse(n *models.Nurse) nurseResponse {
	assignments := make([]assignmentRequest, 0, len(n.Assignments))
	for _, a := range n.Assignments {
		assignments = append(assignments, assignmentRequest{
			PatientID:   a.PatientID,
			TreatmentID: a.TreatmentID,
			Role:        a.Role,
			Timestamp:   a.Timestamp,
		})
	}
	return nurseResponse{
		personResponse: toPersonResponse(n.Person),
		Specialization: n.Specialization,
		Assignments:    assignments,
	}
}
