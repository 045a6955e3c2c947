// Package service implements the authentication resolver: it maps a login
// credential to a role by checking the fixed administrative pair, then
// scanning the doctor and patient collections for a matching national
// identifier and verifying the stored credential.
package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks DoctorDirectory,PatientDirectory

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"strconv"

	"github.com/mssola/useragent"
	"golang.org/x/crypto/bcrypt"

	"clinicore/internal/audit"
	"clinicore/internal/auth/lockout"
	"clinicore/internal/identity/credential"
	"clinicore/internal/identity/models"
	"clinicore/internal/platform/config"
	"clinicore/internal/platform/metrics"
	"clinicore/pkg/requestcontext"
)

// Role is the access classification resolved for a login.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleDoctor  Role = "DOCTOR"
	RolePatient Role = "PATIENT"
)

// DoctorDirectory supplies a full snapshot of doctor records. The resolver
// imposes no consistency guarantees beyond what the snapshot's iteration
// order provides.
type DoctorDirectory interface {
	List(ctx context.Context) ([]*models.Doctor, error)
}

// PatientDirectory supplies a full snapshot of patient records.
type PatientDirectory interface {
	List(ctx context.Context) ([]*models.Patient, error)
}

// Resolver authenticates logins. It is fail-closed and non-diagnostic: every
// failure path yields "no role" so callers cannot distinguish an unknown user
// from a wrong password.
type Resolver struct {
	admin    config.AdminConfig
	doctors  DoctorDirectory
	patients PatientDirectory

	guard   *lockout.Guard
	logger  *slog.Logger
	sink    audit.Sink
	metrics *metrics.Metrics
}

// Option configures optional collaborators.
type Option func(*Resolver)

// WithLockout guards attempts with the given failure counter.
func WithLockout(guard *lockout.Guard) Option {
	return func(r *Resolver) { r.guard = guard }
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) { r.logger = logger }
}

// WithAudit sets the audit sink.
func WithAudit(sink audit.Sink) Option {
	return func(r *Resolver) { r.sink = sink }
}

// WithMetrics sets the metrics collaborators.
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Resolver) { r.metrics = m }
}

// New builds a resolver. The admin pair comes from configuration so no
// credential is compiled into the binary.
func New(admin config.AdminConfig, doctors DoctorDirectory, patients PatientDirectory, opts ...Option) (*Resolver, error) {
	if doctors == nil || patients == nil {
		return nil, errors.New("doctor and patient directories are required")
	}
	r := &Resolver{
		admin:    admin,
		doctors:  doctors,
		patients: patients,
		logger:   slog.Default(),
		sink:     nopSink{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Authenticate resolves a login and password to a role. The boolean is false
// when no role could be resolved, for any reason; infrastructure failures are
// logged and also resolve to no role.
func (r *Resolver) Authenticate(ctx context.Context, login, password string) (Role, bool) {
	if r.guard != nil {
		allowed, retryAfter, err := r.guard.Allowed(ctx, login)
		if err != nil {
			r.logger.ErrorContext(ctx, "lockout check failed", "error", err)
			return "", false
		}
		if !allowed {
			r.recordLockout(ctx, login, retryAfter.String())
			return "", false
		}
	}

	// The fixed administrative pair bypasses identifier parsing and the
	// credential subsystem entirely.
	if r.isAdmin(login, password) {
		r.recordSuccess(ctx, login, RoleAdmin)
		return RoleAdmin, true
	}

	id, err := strconv.ParseUint(login, 10, 64)
	if err != nil {
		r.recordFailure(ctx, login)
		return "", false
	}

	if doctor, ok := r.findDoctor(ctx, id); ok {
		if credential.Verify(doctor.Credential, password) {
			r.recordSuccess(ctx, login, RoleDoctor)
			return RoleDoctor, true
		}
		// First match consumes the attempt; patients are not consulted.
		r.recordFailure(ctx, login)
		return "", false
	}

	if patient, ok := r.findPatient(ctx, id); ok {
		if credential.Verify(patient.Credential, password) {
			r.recordSuccess(ctx, login, RolePatient)
			return RolePatient, true
		}
		r.recordFailure(ctx, login)
		return "", false
	}

	r.recordFailure(ctx, login)
	return "", false
}

// isAdmin compares both halves of the administrative pair in constant time.
// When a bcrypt hash is configured it takes precedence over the plaintext
// password setting.
func (r *Resolver) isAdmin(login, password string) bool {
	if r.admin.Login == "" {
		return false
	}
	loginOK := subtle.ConstantTimeCompare([]byte(login), []byte(r.admin.Login)) == 1
	if r.admin.PasswordHash != "" {
		return loginOK && bcrypt.CompareHashAndPassword([]byte(r.admin.PasswordHash), []byte(password)) == nil
	}
	if r.admin.Password == "" {
		return false
	}
	passwordOK := subtle.ConstantTimeCompare([]byte(password), []byte(r.admin.Password)) == 1
	return loginOK && passwordOK
}

// findDoctor scans the doctor snapshot for the first record whose national
// identifier equals the parsed login. Duplicate identifiers resolve to
// snapshot order; registration rejects duplicates so in practice there is at
// most one.
func (r *Resolver) findDoctor(ctx context.Context, id uint64) (*models.Doctor, bool) {
	doctors, err := r.doctors.List(ctx)
	if err != nil {
		r.logger.ErrorContext(ctx, "doctor snapshot unavailable", "error", err)
		return nil, false
	}
	for _, d := range doctors {
		if n, err := strconv.ParseUint(d.NationalID, 10, 64); err == nil && n == id {
			return d, true
		}
	}
	return nil, false
}

func (r *Resolver) findPatient(ctx context.Context, id uint64) (*models.Patient, bool) {
	patients, err := r.patients.List(ctx)
	if err != nil {
		r.logger.ErrorContext(ctx, "patient snapshot unavailable", "error", err)
		return nil, false
	}
	for _, p := range patients {
		if n, err := strconv.ParseUint(p.NationalID, 10, 64); err == nil && n == id {
			return p, true
		}
	}
	return nil, false
}

func (r *Resolver) recordSuccess(ctx context.Context, login string, role Role) {
	if r.guard != nil {
		if err := r.guard.RecordSuccess(ctx, login); err != nil {
			r.logger.WarnContext(ctx, "failed to clear lockout state", "error", err)
		}
	}
	r.metrics.IncrementLogin("success", string(role))
	r.sink.Enqueue(r.authEvent(ctx, audit.ActionAuthSucceeded, login).
		WithField("role", string(role)))
}

func (r *Resolver) recordFailure(ctx context.Context, login string) {
	if r.guard != nil {
		if _, err := r.guard.RecordFailure(ctx, login); err != nil {
			r.logger.WarnContext(ctx, "failed to record lockout failure", "error", err)
		}
	}
	r.metrics.IncrementLogin("failure", "")
	r.sink.Enqueue(r.authEvent(ctx, audit.ActionAuthFailed, login))
}

func (r *Resolver) recordLockout(ctx context.Context, login, retryAfter string) {
	r.metrics.IncrementLogin("locked_out", "")
	r.sink.Enqueue(r.authEvent(ctx, audit.ActionAuthLockedOut, login).
		WithField("retry_after", retryAfter))
}

// authEvent builds a security event enriched with the caller's browser
// family, which helps forensics without logging the raw user agent string.
func (r *Resolver) authEvent(ctx context.Context, action audit.Action, login string) audit.Event {
	event := audit.NewEvent(audit.CategorySecurity, action, requestcontext.Now(ctx)).
		WithSubject(login).
		WithRequestID(requestcontext.RequestID(ctx))
	if ua := requestcontext.UserAgent(ctx); ua != "" {
		parsed := useragent.New(ua)
		browser, _ := parsed.Browser()
		event = event.WithField("client", browser).WithField("client_os", parsed.OS())
	}
	if ip := requestcontext.ClientIP(ctx); ip != "" {
		event = event.WithField("client_ip", ip)
	}
	return event
}

type nopSink struct{}

func (nopSink) Enqueue(audit.Event) {}
