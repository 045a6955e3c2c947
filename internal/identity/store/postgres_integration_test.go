//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"clinicore/internal/identity/credential"
	"clinicore/internal/identity/models"
	"clinicore/internal/identity/store"
	"clinicore/pkg/platform/sentinel"
	"clinicore/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	patients *store.PostgresPatients
	doctors  *store.PostgresDoctors
	nurses   *store.PostgresNurses
	ctx      context.Context
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.ctx = context.Background()
	s.postgres = containers.NewPostgresContainer(s.T())
	s.Require().NoError(s.postgres.Apply(s.ctx, store.Schema))
	s.patients = store.NewPostgresPatients(s.postgres.DB)
	s.doctors = store.NewPostgresDoctors(s.postgres.DB)
	s.nurses = store.NewPostgresNurses(s.postgres.DB)
}

func (s *PostgresStoreSuite) TearDownSuite() {
	_ = s.postgres.DB.Close()
	_ = s.postgres.Container.Terminate(context.Background())
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(s.ctx, "patients", "doctors", "nurses"))
}

func (s *PostgresStoreSuite) newPatient(password string) *models.Patient {
	patient, err := models.NewPatient(models.PatientParams{
		PersonParams: models.PersonParams{
			FirstName:  "Anna",
			LastName:   "Nowak",
			Age:        82,
			NationalID: "44051401359",
			Password:   password,
		},
		BirthDate: time.Date(1944, time.May, 14, 0, 0, 0, 0, time.UTC),
		Address:   "ul. Dluga 12, Krakow",
		Diagnosis: models.DiagnosisCardiac,
	})
	s.Require().NoError(err)
	return patient
}

func (s *PostgresStoreSuite) TestPatientRoundTrip() {
	created := s.newPatient("s3cret")
	s.Require().NoError(s.patients.Create(s.ctx, created))

	found, err := s.patients.FindByNationalID(s.ctx, created.NationalID)
	s.Require().NoError(err)
	s.Equal(created.FirstName, found.FirstName)
	s.Equal(created.LastName, found.LastName)
	s.Equal(created.Age, found.Age)
	s.Equal(created.Address, found.Address)
	s.Equal(created.Diagnosis, found.Diagnosis)
	s.True(created.BirthDate.Equal(found.BirthDate))

	s.Run("credential survives persistence", func() {
		s.True(credential.Verify(found.Credential, "s3cret"))
		s.False(credential.Verify(found.Credential, "wrong"))
	})
}

func (s *PostgresStoreSuite) TestPatientDuplicateRejected() {
	first := s.newPatient("s3cret")
	s.Require().NoError(s.patients.Create(s.ctx, first))

	second := s.newPatient("other")
	err := s.patients.Create(s.ctx, second)
	s.Require().ErrorIs(err, sentinel.ErrAlreadyUsed)

	// The original record is untouched.
	found, err := s.patients.FindByNationalID(s.ctx, first.NationalID)
	s.Require().NoError(err)
	s.True(credential.Verify(found.Credential, "s3cret"))
}

func (s *PostgresStoreSuite) TestPatientNotFound() {
	_, err := s.patients.FindByNationalID(s.ctx, "02230501238")
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestPatientList() {
	patient, err := models.NewPatient(models.PatientParams{
		PersonParams: models.PersonParams{
			FirstName: "Piotr",
			LastName:  "Wisniewski",
			Age:       24,
			Password:  "s3cret",
		},
		BirthDate: time.Date(2002, time.March, 5, 0, 0, 0, 0, time.UTC),
	})
	s.Require().NoError(err)
	s.Require().NoError(s.patients.Create(s.ctx, patient))
	s.Require().NoError(s.patients.Create(s.ctx, s.newPatient("s3cret")))

	listed, err := s.patients.List(s.ctx)
	s.Require().NoError(err)
	s.Len(listed, 2)
}

func (s *PostgresStoreSuite) TestDoctorRoundTrip() {
	doctor, err := models.NewDoctor(models.DoctorParams{
		PersonParams: models.PersonParams{
			FirstName:  "Maria",
			LastName:   "Kowalska",
			Age:        45,
			NationalID: "80920100015",
			Password:   "s3cret",
		},
		Specialization: models.SpecializationCardiologist,
		AvailableDays:  []time.Weekday{time.Friday, time.Monday, time.Monday},
		RoomLabel:      "C-101",
		Contact:        "m.kowalska@clinic.example",
	})
	s.Require().NoError(err)
	s.Require().NoError(s.doctors.Create(s.ctx, doctor))

	found, err := s.doctors.FindByNationalID(s.ctx, doctor.NationalID)
	s.Require().NoError(err)
	s.Equal(models.SpecializationCardiologist, found.Specialization)
	s.Equal([]time.Weekday{time.Monday, time.Friday}, found.AvailableDays)
	s.Equal("C-101", found.RoomLabel)
	s.True(credential.Verify(found.Credential, "s3cret"))
}

func (s *PostgresStoreSuite) TestNurseRoundTrip() {
	nurse, err := models.NewNurse(models.NurseParams{
		PersonParams: models.PersonParams{
			FirstName: "Ewa",
			LastName:  "Zielinska",
			Age:       31,
			Password:  "s3cret",
		},
		Assignments: []models.Assignment{
			{PatientID: "44051401359", TreatmentID: "tr-1", Role: "primary"},
		},
	})
	s.Require().NoError(err)
	s.Require().NoError(s.nurses.Create(s.ctx, nurse))

	found, err := s.nurses.FindByNationalID(s.ctx, nurse.NationalID)
	s.Require().NoError(err)
	s.Require().Len(found.Assignments, 1)
	s.Equal("44051401359", found.Assignments[0].PatientID)
	s.Equal("tr-1", found.Assignments[0].TreatmentID)
	s.True(credential.Verify(found.Credential, "s3cret"))
}
