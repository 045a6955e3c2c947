package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"

	"clinicore/internal/identity/credential"
	"clinicore/internal/identity/models"
	"clinicore/pkg/platform/sentinel"
)

// Schema is the DDL for the person tables. Applied by cmd/server at startup
// and by integration tests.
const Schema = `
CREATE TABLE IF NOT EXISTS patients (
	national_id  VARCHAR(11) PRIMARY KEY,
	first_name   TEXT NOT NULL,
	last_name    TEXT NOT NULL,
	age          INT NOT NULL,
	birth_date   DATE NOT NULL,
	address      TEXT NOT NULL DEFAULT '',
	diagnosis    TEXT NOT NULL,
	salt         TEXT NOT NULL,
	hash         TEXT NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE TABLE IF NOT EXISTS doctors (
	national_id    VARCHAR(11) PRIMARY KEY,
	first_name     TEXT NOT NULL,
	last_name      TEXT NOT NULL,
	age            INT NOT NULL,
	specialization TEXT NOT NULL,
	available_days INT[] NOT NULL DEFAULT '{}',
	room_label     TEXT NOT NULL DEFAULT '',
	contact        TEXT NOT NULL DEFAULT '',
	salt           TEXT NOT NULL,
	hash           TEXT NOT NULL,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE TABLE IF NOT EXISTS nurses (
	national_id    VARCHAR(11) PRIMARY KEY,
	first_name     TEXT NOT NULL,
	last_name      TEXT NOT NULL,
	age            INT NOT NULL,
	specialization TEXT NOT NULL DEFAULT '',
	assignments    JSONB NOT NULL DEFAULT '[]',
	salt           TEXT NOT NULL,
	hash           TEXT NOT NULL,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

// PostgresPatients is the postgres-backed PatientStore.
type PostgresPatients struct {
	db *sql.DB
}

// NewPostgresPatients wraps an open database handle.
func NewPostgresPatients(db *sql.DB) *PostgresPatients {
	return &PostgresPatients{db: db}
}

func (s *PostgresPatients) Create(ctx context.Context, p *models.Patient) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO patients (national_id, first_name, last_name, age, birth_date, address, diagnosis, salt, hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		p.NationalID, p.FirstName, p.LastName, p.Age, p.BirthDate, p.Address,
		string(p.Diagnosis), p.Credential.Salt(), p.Credential.Hash())
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrAlreadyUsed
		}
		return fmt.Errorf("create patient: %w", err)
	}
	return nil
}

func (s *PostgresPatients) FindByNationalID(ctx context.Context, nationalID string) (*models.Patient, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT national_id, first_name, last_name, age, birth_date, address, diagnosis, salt, hash
		FROM patients WHERE national_id = $1`, nationalID)
	return scanPatient(row)
}

func (s *PostgresPatients) List(ctx context.Context) ([]*models.Patient, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT national_id, first_name, last_name, age, birth_date, address, diagnosis, salt, hash
		FROM patients ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	defer rows.Close()

	var out []*models.Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanPatient restores a patient from a row. Restored records bypass the
// builder: they were validated at creation time and the credential is
// reconstructed from the persisted salt+hash without re-hashing.
func scanPatient(row rowScanner) (*models.Patient, error) {
	var (
		p         models.Patient
		diagnosis string
		birthDate time.Time
		salt      string
		hash      string
	)
	err := row.Scan(&p.NationalID, &p.FirstName, &p.LastName, &p.Age,
		&birthDate, &p.Address, &diagnosis, &salt, &hash)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan patient: %w", err)
	}
	p.BirthDate = birthDate
	p.Diagnosis = models.Diagnosis(diagnosis)
	p.Credential = credential.FromPersisted(salt, hash)
	return &p, nil
}

// PostgresDoctors is the postgres-backed DoctorStore.
type PostgresDoctors struct {
	db *sql.DB
}

// NewPostgresDoctors wraps an open database handle.
func NewPostgresDoctors(db *sql.DB) *PostgresDoctors {
	return &PostgresDoctors{db: db}
}

func (s *PostgresDoctors) Create(ctx context.Context, d *models.Doctor) error {
	days := make([]int64, len(d.AvailableDays))
	for i, day := range d.AvailableDays {
		days[i] = int64(day)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO doctors (national_id, first_name, last_name, age, specialization, available_days, room_label, contact, salt, hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		d.NationalID, d.FirstName, d.LastName, d.Age, string(d.Specialization),
		pq.Array(days), d.RoomLabel, d.Contact, d.Credential.Salt(), d.Credential.Hash())
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrAlreadyUsed
		}
		return fmt.Errorf("create doctor: %w", err)
	}
	return nil
}

func (s *PostgresDoctors) FindByNationalID(ctx context.Context, nationalID string) (*models.Doctor, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT national_id, first_name, last_name, age, specialization, available_days, room_label, contact, salt, hash
		FROM doctors WHERE national_id = $1`, nationalID)
	return scanDoctor(row)
}

func (s *PostgresDoctors) List(ctx context.Context) ([]*models.Doctor, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT national_id, first_name, last_name, age, specialization, available_days, room_label, contact, salt, hash
		FROM doctors ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list doctors: %w", err)
	}
	defer rows.Close()

	var out []*models.Doctor
	for rows.Next() {
		d, err := scanDoctor(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func scanDoctor(row rowScanner) (*models.Doctor, error) {
	var (
		d              models.Doctor
		specialization string
		days           pq.Int64Array
		salt           string
		hash           string
	)
	err := row.Scan(&d.NationalID, &d.FirstName, &d.LastName, &d.Age,
		&specialization, &days, &d.RoomLabel, &d.Contact, &salt, &hash)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan doctor: %w", err)
	}
	d.Specialization = models.Specialization(specialization)
	d.AvailableDays = make([]time.Weekday, len(days))
	for i, day := range days {
		d.AvailableDays[i] = time.Weekday(day)
	}
	d.Credential = credential.FromPersisted(salt, hash)
	return &d, nil
}

// PostgresNurses is the postgres-backed NurseStore.
type PostgresNurses struct {
	db *sql.DB
}

// NewPostgresNurses wraps an open database handle.
func NewPostgresNurses(db *sql.DB) *PostgresNurses {
	return &PostgresNurses{db: db}
}

func (s *PostgresNurses) Create(ctx context.Context, n *models.Nurse) error {
	assignments, err := json.Marshal(n.Assignments)
	if err != nil {
		return fmt.Errorf("encode assignments: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO nurses (national_id, first_name, last_name, age, specialization, assignments, salt, hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		n.NationalID, n.FirstName, n.LastName, n.Age, n.Specialization,
		assignments, n.Credential.Salt(), n.Credential.Hash())
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrAlreadyUsed
		}
		return fmt.Errorf("create nurse: %w", err)
	}
	return nil
}

func (s *PostgresNurses) FindByNationalID(ctx context.Context, nationalID string) (*models.Nurse, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT national_id, first_name, last_name, age, specialization, assignments, salt, hash
		FROM nurses WHERE national_id = $1`, nationalID)
	return scanNurse(row)
}

func (s *PostgresNurses) List(ctx context.Context) ([]*models.Nurse, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT national_id, first_name, last_name, age, specialization, assignments, salt, hash
		FROM nurses ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list nurses: %w", err)
	}
	defer rows.Close()

	var out []*models.Nurse
	for rows.Next() {
		n, err := scanNurse(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func scanNurse(row rowScanner) (*models.Nurse, error) {
	var (
		n           models.Nurse
		assignments []byte
		salt        string
		hash        string
	)
	err := row.Scan(&n.NationalID, &n.FirstName, &n.LastName, &n.Age,
		&n.Specialization, &assignments, &salt, &hash)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan nurse: %w", err)
	}
	if err := json.Unmarshal(assignments, &n.Assignments); err != nil {
		return nil, fmt.Errorf("decode assignments: %w", err)
	}
	n.Credential = credential.FromPersisted(salt, hash)
	return &n, nil
}

func isUniqueViolation(err error) bool {
	if pqErr, ok := err.(*pq.Error); ok {
		return pqErr.Code == "23505"
	}
	return false
}
