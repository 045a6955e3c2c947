package store

import (
	"context"
	"sync"

	"clinicore/internal/identity/models"
	"clinicore/pkg/platform/sentinel"
)

// In-memory stores keep development and tests lightweight. They favor clarity
// over performance and preserve insertion order so snapshot scans are
// deterministic.

// InMemoryPatients is a thread-safe in-memory PatientStore.
type InMemoryPatients struct {
	mu      sync.RWMutex
	byID    map[string]*models.Patient
	ordered []string
}

// NewInMemoryPatients creates an empty patient store.
func NewInMemoryPatients() *InMemoryPatients {
	return &InMemoryPatients{byID: make(map[string]*models.Patient)}
}

func (s *InMemoryPatients) Create(_ context.Context, patient *models.Patient) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[patient.NationalID]; ok {
		return sentinel.ErrAlreadyUsed
	}
	s.byID[patient.NationalID] = patient
	s.ordered = append(s.ordered, patient.NationalID)
	return nil
}

func (s *InMemoryPatients) FindByNationalID(_ context.Context, nationalID string) (*models.Patient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.byID[nationalID]; ok {
		return p, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryPatients) List(_ context.Context) ([]*models.Patient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Patient, 0, len(s.ordered))
	for _, id := range s.ordered {
		out = append(out, s.byID[id])
	}
	return out, nil
}

// InMemoryDoctors is a thread-safe in-memory DoctorStore.
type InMemoryDoctors struct {
	mu      sync.RWMutex
	byID    map[string]*models.Doctor
	ordered []string
}

// NewInMemoryDoctors creates an empty doctor store.
func NewInMemoryDoctors() *InMemoryDoctors {
	return &InMemoryDoctors{byID: make(map[string]*models.Doctor)}
}

func (s *InMemoryDoctors) Create(_ context.Context, doctor *models.Doctor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[doctor.NationalID]; ok {
		return sentinel.ErrAlreadyUsed
	}
	s.byID[doctor.NationalID] = doctor
	s.ordered = append(s.ordered, doctor.NationalID)
	return nil
}

func (s *InMemoryDoctors) FindByNationalID(_ context.Context, nationalID string) (*models.Doctor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if d, ok := s.byID[nationalID]; ok {
		return d, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryDoctors) List(_ context.Context) ([]*models.Doctor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Doctor, 0, len(s.ordered))
	for _, id := range s.ordered {
		out = append(out, s.byID[id])
	}
	return out, nil
}

// InMemoryNurses is a thread-safe in-memory NurseStore.
type InMemoryNurses struct {
	mu      sync.RWMutex
	byID    map[string]*models.Nurse
	ordered []string
}

// NewInMemoryNurses creates an empty nurse store.
func NewInMemoryNurses() *InMemoryNurses {
	return &InMemoryNurses{byID: make(map[string]*models.Nurse)}
}

func (s *InMemoryNurses) Create(_ context.Context, nurse *models.Nurse) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[nurse.NationalID]; ok {
		return sentinel.ErrAlreadyUsed
	}
	s.byID[nurse.NationalID] = nurse
	s.ordered = append(s.ordered, nurse.NationalID)
	return nil
}

func (s *InMemoryNurses) FindByNationalID(_ context.Context, nationalID string) (*models.Nurse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if n, ok := s.byID[nationalID]; ok {
		return n, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryNurses) List(_ context.Context) ([]*models.Nurse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Nurse, 0, len(s.ordered))
	for _, id := range s.ordered {
		out = append(out, s.byID[id])
	}
	return out, nil
}
