package models

import (
	"time"

	dErrors "clinicore/pkg/domain-errors"
)

// minimum ages per role. Patient age must be strictly positive; staff carry
// professional minimums.
const (
	MinPatientAge = 1
	MinDoctorAge  = 25
	MinNurseAge   = 20
)

// Patient is a person admitted to (or registered with) the hospital.
// Immutable once built.
type Patient struct {
	Person
	BirthDate time.Time
	Address   string
	Diagnosis Diagnosis
}

// PatientParams carries raw patient fields into the builder.
type PatientParams struct {
	PersonParams
	BirthDate time.Time
	Address   string
	Diagnosis Diagnosis // DiagnosisAwaiting when unset
}

// NewPatient validates and builds a patient. The identifier checksum is
// verified against the claimed birth date, so the two can never disagree on a
// stored record.
func NewPatient(p PatientParams) (*Patient, error) {
	if p.BirthDate.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "birth date is required")
	}
	person, err := newPerson(p.PersonParams, MinPatientAge, p.BirthDate)
	if err != nil {
		return nil, err
	}
	diagnosis := p.Diagnosis
	if diagnosis == "" {
		diagnosis = DiagnosisAwaiting
	}
	if !diagnosis.IsValid() {
		return nil, dErrors.Newf(dErrors.CodeInvalidInput, "unknown diagnosis %q", diagnosis)
	}
	return &Patient{
		Person:    person,
		BirthDate: p.BirthDate,
		Address:   p.Address,
		Diagnosis: diagnosis,
	}, nil
}

// IsMinor reports whether the patient is under 18, which routes them to the
// pediatric ward regardless of diagnosis.
func (p *Patient) IsMinor() bool {
	return p.Age < 18
}
