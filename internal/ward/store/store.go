// Package store persists rooms. Occupancy mutations go through Execute and
// ExecuteTransfer, which serialize access to the affected rooms so the
// capacity check and the mutation commit together.
package store

import (
	"context"

	"clinicore/internal/ward/models"
)

// RoomStore is the persistence contract for rooms.
//
// Create returns sentinel.ErrAlreadyUsed when the label is taken. Find
// returns sentinel.ErrNotFound for unknown labels. List returns a snapshot in
// registration order.
//
// Execute loads the room, runs mutate while holding exclusive access to it,
// and persists the result only when mutate returns nil. ExecuteTransfer does
// the same for a pair of rooms so a patient move commits atomically or not at
// all.
type RoomStore interface {
	Create(ctx context.Context, room *models.Room) error
	Find(ctx context.Context, label string) (*models.Room, error)
	List(ctx context.Context) ([]*models.Room, error)
	Execute(ctx context.Context, label string, mutate func(room *models.Room) error) error
	ExecuteTransfer(ctx context.Context, from, to string, mutate func(from, to *models.Room) error) error
}
