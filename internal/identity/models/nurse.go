package models

import (
	"strings"
	"time"

	dErrors "clinicore/pkg/domain-errors"
)

// Assignment records a nurse's involvement in one patient treatment.
type Assignment struct {
	PatientID   string
	TreatmentID string
	Role        string
	Timestamp   time.Time
}

// Nurse is a person on the nursing staff. Unlike doctors the specialization
// is free text, matching how the wards record it. Immutable once built.
type Nurse struct {
	Person
	Specialization string
	Assignments    []Assignment
}

// NurseParams carries raw nurse fields into the builder.
type NurseParams struct {
	PersonParams
	Specialization string
	Assignments    []Assignment
}

// NewNurse validates and builds a nurse. The minimum age of 20 is inclusive.
func NewNurse(p NurseParams) (*Nurse, error) {
	person, err := newPerson(p.PersonParams, MinNurseAge, time.Time{})
	if err != nil {
		return nil, err
	}
	for _, a := range p.Assignments {
		if strings.TrimSpace(a.PatientID) == "" {
			return nil, dErrors.New(dErrors.CodeInvalidInput, "assignment is missing a patient id")
		}
	}
	assignments := make([]Assignment, len(p.Assignments))
	copy(assignments, p.Assignments)
	return &Nurse{
		Person:         person,
		Specialization: p.Specialization,
		Assignments:    assignments,
	}, nil
}
