package models

import dErrors "clinicore/pkg/domain-errors"

// Diagnosis is the admission diagnosis recorded for a patient. New patients
// without a confirmed diagnosis carry DiagnosisAwaiting.
type Diagnosis string

const (
	DiagnosisAwaiting     Diagnosis = "awaiting"
	DiagnosisCardiac      Diagnosis = "cardiac"
	DiagnosisNeurological Diagnosis = "neurological"
	DiagnosisOrthopedic   Diagnosis = "orthopedic"
	DiagnosisRespiratory  Diagnosis = "respiratory"
	DiagnosisOncological  Diagnosis = "oncological"
	DiagnosisPsychiatric  Diagnosis = "psychiatric"
)

var validDiagnoses = map[Diagnosis]bool{
	DiagnosisAwaiting:     true,
	DiagnosisCardiac:      true,
	DiagnosisNeurological: true,
	DiagnosisOrthopedic:   true,
	DiagnosisRespiratory:  true,
	DiagnosisOncological:  true,
	DiagnosisPsychiatric:  true,
}

// ParseDiagnosis constructs a Diagnosis from external input. The empty string
// maps to DiagnosisAwaiting.
func ParseDiagnosis(s string) (Diagnosis, error) {
	if s == "" {
		return DiagnosisAwaiting, nil
	}
	d := Diagnosis(s)
	if !validDiagnoses[d] {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "unknown diagnosis %q", s)
	}
	return d, nil
}

// IsValid checks membership in the diagnosis enumeration.
func (d Diagnosis) IsValid() bool {
	return validDiagnoses[d]
}

func (d Diagnosis) String() string { return string(d) }

// Specialization is a doctor's medical specialization.
type Specialization string

const (
	SpecializationInternist    Specialization = "internist"
	SpecializationCardiologist Specialization = "cardiologist"
	SpecializationNeurologist  Specialization = "neurologist"
	SpecializationOrthopedist  Specialization = "orthopedist"
	SpecializationPediatrician Specialization = "pediatrician"
	SpecializationSurgeon      Specialization = "surgeon"
	SpecializationOncologist   Specialization = "oncologist"
	SpecializationPsychiatrist Specialization = "psychiatrist"
)

var validSpecializations = map[Specialization]bool{
	SpecializationInternist:    true,
	SpecializationCardiologist: true,
	SpecializationNeurologist:  true,
	SpecializationOrthopedist:  true,
	SpecializationPediatrician: true,
	SpecializationSurgeon:      true,
	SpecializationOncologist:   true,
	SpecializationPsychiatrist: true,
}

// ParseSpecialization constructs a Specialization from external input.
func ParseSpecialization(s string) (Specialization, error) {
	sp := Specialization(s)
	if !validSpecializations[sp] {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "unknown specialization %q", s)
	}
	return sp, nil
}

// IsValid checks membership in the specialization enumeration.
func (s Specialization) IsValid() bool {
	return validSpecializations[s]
}

func (s Specialization) String() string { return string(s) }
