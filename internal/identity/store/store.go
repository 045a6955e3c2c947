// Package store persists person records. Stores are interface-driven so the
// registration service and the authentication resolver can run against
// in-memory, postgres, or test implementations without rewiring.
package store

import (
	"context"

	"clinicore/internal/identity/models"
)

// PatientStore persists patients keyed by national identifier.
//
// Create enforces the identifier-collision policy at creation time: a second
// record with the same national identifier is rejected with
// sentinel.ErrAlreadyUsed. List returns a full snapshot in insertion order;
// the resolver's first-match scan relies on that order being deterministic.
type PatientStore interface {
	Create(ctx context.Context, patient *models.Patient) error
	FindByNationalID(ctx context.Context, nationalID string) (*models.Patient, error)
	List(ctx context.Context) ([]*models.Patient, error)
}

// DoctorStore persists doctors keyed by national identifier.
type DoctorStore interface {
	Create(ctx context.Context, doctor *models.Doctor) error
	FindByNationalID(ctx context.Context, nationalID string) (*models.Doctor, error)
	List(ctx context.Context) ([]*models.Doctor, error)
}

// NurseStore persists nurses keyed by national identifier.
type NurseStore interface {
	Create(ctx context.Context, nurse *models.Nurse) error
	FindByNationalID(ctx context.Context, nationalID string) (*models.Nurse, error)
	List(ctx context.Context) ([]*models.Nurse, error)
}
