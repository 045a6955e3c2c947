package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"clinicore/internal/identity/credential"
	"clinicore/internal/identity/pesel"
	dErrors "clinicore/pkg/domain-errors"
)

type BuildersSuite struct {
	suite.Suite
	birthDate time.Time
}

func (s *BuildersSuite) SetupTest() {
	s.birthDate = time.Date(1944, time.May, 14, 0, 0, 0, 0, time.UTC)
}

func TestBuildersSuite(t *testing.T) {
	suite.Run(t, new(BuildersSuite))
}

func (s *BuildersSuite) patientParams() PatientParams {
	return PatientParams{
		PersonParams: PersonParams{
			FirstName:  "Anna",
			LastName:   "Kowalska",
			Age:        82,
			NationalID: "44051401359",
			Password:   "s3cret",
		},
		BirthDate: s.birthDate,
	}
}

func (s *BuildersSuite) doctorParams() DoctorParams {
	return DoctorParams{
		PersonParams: PersonParams{
			FirstName: "Jan",
			LastName:  "Nowak",
			Age:       40,
			Password:  "s3cret",
		},
		Specialization: SpecializationCardiologist,
	}
}

func (s *BuildersSuite) nurseParams() NurseParams {
	return NurseParams{
		PersonParams: PersonParams{
			FirstName: "Maria",
			LastName:  "Lis",
			Age:       30,
			Password:  "s3cret",
		},
		Specialization: "intensive care",
	}
}

// TestValidationPrecedence verifies that a record with several defects always
// surfaces them in the same order: name, then age, then identity.
func (s *BuildersSuite) TestValidationPrecedence() {
	s.Run("blank name wins over bad age and bad identifier", func() {
		params := s.patientParams()
		params.FirstName = "   "
		params.Age = -5
		params.NationalID = "123"

		_, err := NewPatient(params)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidName))
	})

	s.Run("bad age wins over bad identifier", func() {
		params := s.patientParams()
		params.Age = 0
		params.NationalID = "123"

		_, err := NewPatient(params)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidAge))
	})

	s.Run("bad identifier surfaces last", func() {
		params := s.patientParams()
		params.NationalID = "12345678901"

		_, err := NewPatient(params)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidIdentity))
	})
}

func (s *BuildersSuite) TestPatient() {
	s.Run("builds a valid patient", func() {
		patient, err := NewPatient(s.patientParams())
		s.Require().NoError(err)
		s.Equal("44051401359", patient.NationalID)
		s.Equal(DiagnosisAwaiting, patient.Diagnosis)
		s.True(credential.Verify(patient.Credential, "s3cret"))
	})

	s.Run("requires a birth date", func() {
		params := s.patientParams()
		params.BirthDate = time.Time{}

		_, err := NewPatient(params)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	s.Run("rejects age zero", func() {
		params := s.patientParams()
		params.Age = 0
		_, err := NewPatient(params)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidAge))
	})

	s.Run("accepts age one", func() {
		params := s.patientParams()
		params.Age = 1
		params.NationalID = ""
		params.BirthDate = time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)

		patient, err := NewPatient(params)
		s.Require().NoError(err)
		s.Equal(1, patient.Age)
	})

	s.Run("rejects identifier that mismatches the birth date", func() {
		params := s.patientParams()
		params.BirthDate = time.Date(1944, time.May, 15, 0, 0, 0, 0, time.UTC)

		_, err := NewPatient(params)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidIdentity))
	})

	s.Run("generates an identifier encoding the birth date when absent", func() {
		params := s.patientParams()
		params.NationalID = ""

		patient, err := NewPatient(params)
		s.Require().NoError(err)
		s.True(pesel.IsValidNationalID(patient.NationalID, s.birthDate))
	})

	s.Run("rejects an unknown diagnosis", func() {
		params := s.patientParams()
		params.Diagnosis = "sniffles"

		_, err := NewPatient(params)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	s.Run("keeps an explicit diagnosis", func() {
		params := s.patientParams()
		params.Diagnosis = DiagnosisCardiac

		patient, err := NewPatient(params)
		s.Require().NoError(err)
		s.Equal(DiagnosisCardiac, patient.Diagnosis)
	})

	s.Run("classifies minors", func() {
		params := s.patientParams()
		params.NationalID = ""
		params.Age = 10
		params.BirthDate = time.Date(2016, time.March, 2, 0, 0, 0, 0, time.UTC)

		patient, err := NewPatient(params)
		s.Require().NoError(err)
		s.True(patient.IsMinor())
	})
}

func (s *BuildersSuite) TestDoctor() {
	s.Run("builds a valid doctor with generated identifier", func() {
		doctor, err := NewDoctor(s.doctorParams())
		s.Require().NoError(err)
		s.True(pesel.HasValidChecksum(doctor.NationalID))
		s.Equal(SpecializationCardiologist, doctor.Specialization)
	})

	s.Run("rejects age 24", func() {
		params := s.doctorParams()
		params.Age = 24
		_, err := NewDoctor(params)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidAge))
	})

	s.Run("accepts age 25", func() {
		params := s.doctorParams()
		params.Age = 25
		_, err := NewDoctor(params)
		s.Require().NoError(err)
	})

	s.Run("rejects an unknown specialization", func() {
		params := s.doctorParams()
		params.Specialization = "alchemist"
		_, err := NewDoctor(params)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	s.Run("deduplicates and orders available days", func() {
		params := s.doctorParams()
		params.AvailableDays = []time.Weekday{
			time.Friday, time.Monday, time.Friday, time.Wednesday,
		}

		doctor, err := NewDoctor(params)
		s.Require().NoError(err)
		s.Equal([]time.Weekday{time.Monday, time.Wednesday, time.Friday}, doctor.AvailableDays)
		s.True(doctor.IsAvailableOn(time.Monday))
		s.False(doctor.IsAvailableOn(time.Tuesday))
	})

	s.Run("accepts an explicit checksum-valid identifier", func() {
		params := s.doctorParams()
		params.NationalID = "44051401359"

		doctor, err := NewDoctor(params)
		s.Require().NoError(err)
		s.Equal("44051401359", doctor.NationalID)
	})
}

func (s *BuildersSuite) TestNurse() {
	s.Run("builds a valid nurse", func() {
		nurse, err := NewNurse(s.nurseParams())
		s.Require().NoError(err)
		s.Equal("intensive care", nurse.Specialization)
	})

	s.Run("rejects age 19", func() {
		params := s.nurseParams()
		params.Age = 19
		_, err := NewNurse(params)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidAge))
	})

	s.Run("accepts age 20", func() {
		params := s.nurseParams()
		params.Age = 20
		_, err := NewNurse(params)
		s.Require().NoError(err)
	})

	s.Run("rejects an assignment without a patient id", func() {
		params := s.nurseParams()
		params.Assignments = []Assignment{{PatientID: " ", TreatmentID: "t1", Role: "lead"}}

		_, err := NewNurse(params)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	s.Run("copies assignments defensively", func() {
		given := []Assignment{{PatientID: "44051401359", TreatmentID: "t1", Role: "lead"}}
		params := s.nurseParams()
		params.Assignments = given

		nurse, err := NewNurse(params)
		s.Require().NoError(err)

		given[0].PatientID = "mutated"
		s.Equal("44051401359", nurse.Assignments[0].PatientID)
	})
}

// TestCredentialMaterial verifies the exactly-one-of rule between a plaintext
// password and a persisted salt+hash pair.
func (s *BuildersSuite) TestCredentialMaterial() {
	s.Run("rejects both password and persisted pair", func() {
		params := s.patientParams()
		params.Salt = "c2FsdA=="
		params.Hash = "aGFzaA=="

		_, err := NewPatient(params)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	s.Run("rejects neither", func() {
		params := s.patientParams()
		params.Password = ""

		_, err := NewPatient(params)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	s.Run("reconstructs from a persisted pair", func() {
		original, err := NewPatient(s.patientParams())
		s.Require().NoError(err)

		params := s.patientParams()
		params.Password = ""
		params.Salt = original.Credential.Salt()
		params.Hash = original.Credential.Hash()

		restored, err := NewPatient(params)
		s.Require().NoError(err)
		s.True(credential.Verify(restored.Credential, "s3cret"))
	})
}
