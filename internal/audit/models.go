// Package audit captures key domain actions as structured events. Events are
// transport-agnostic: publishers fan them out to the log, to Kafka, or to
// whatever sink operations wires in.
package audit

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

// Category classifies audit events by their primary purpose, which drives
// retention and routing downstream.
type Category string

const (
	// CategorySecurity covers authentication outcomes and lockouts.
	CategorySecurity Category = "security"
	// CategoryCompliance covers person registration and ward movements.
	CategoryCompliance Category = "compliance"
	// CategoryOperations covers routine visibility events.
	CategoryOperations Category = "operations"
)

// Action names the audited domain action.
type Action string

const (
	ActionPersonRegistered   Action = "person_registered"
	ActionAuthSucceeded      Action = "auth_succeeded"
	ActionAuthFailed         Action = "auth_failed"
	ActionAuthLockedOut      Action = "auth_locked_out"
	ActionPatientAdmitted    Action = "patient_admitted"
	ActionPatientDischarged  Action = "patient_discharged"
	ActionPatientTransferred Action = "patient_transferred"
	ActionCapacityRejected   Action = "capacity_rejected"
	ActionRoomRegistered     Action = "room_registered"
)

// Event is one audited action. SubjectHash carries a SHA-256 of the national
// identifier involved so the trail stays traceable without storing raw PII.
type Event struct {
	ID          string            `json:"id"`
	Category    Category          `json:"category"`
	Action      Action            `json:"action"`
	Timestamp   time.Time         `json:"timestamp"`
	SubjectHash string            `json:"subject_hash,omitempty"`
	RequestID   string            `json:"request_id,omitempty"`
	Fields      map[string]string `json:"fields,omitempty"`
}

// NewEvent builds an event with a fresh ID and the given timestamp.
func NewEvent(category Category, action Action, at time.Time) Event {
	return Event{
		ID:        uuid.New().String(),
		Category:  category,
		Action:    action,
		Timestamp: at,
	}
}

// WithSubject hashes the subject identifier into the event.
func (e Event) WithSubject(nationalID string) Event {
	e.SubjectHash = HashSubject(nationalID)
	return e
}

// WithRequestID attaches the request correlation ID.
func (e Event) WithRequestID(requestID string) Event {
	e.RequestID = requestID
	return e
}

// WithField attaches one labeled detail to the event.
func (e Event) WithField(key, value string) Event {
	fields := make(map[string]string, len(e.Fields)+1)
	for k, v := range e.Fields {
		fields[k] = v
	}
	fields[key] = value
	e.Fields = fields
	return e
}

// HashSubject produces the hex SHA-256 of an identifier for PII-free
// traceability.
func HashSubject(nationalID string) string {
	sum := sha256.Sum256([]byte(nationalID))
	return hex.EncodeToString(sum[:])
}
