// Package models holds the ward-side domain objects. A Room owns its
// occupant list and enforces the capacity bound on every mutation; callers
// can neither overfill a room nor shrink its capacity below the current
// occupancy.
package models

import (
	"fmt"
	"slices"
	"strings"

	dErrors "clinicore/pkg/domain-errors"
)

// Room is an admission unit with a hard occupancy bound.
type Room struct {
	label        string
	address      string
	floor        int
	number       int
	roomType     RoomType
	occupants    []string
	maxOccupancy int
}

// RoomParams carries the raw fields for a room. Label identifies the room
// everywhere else in the system (stores, doctor assignments, audit events).
type RoomParams struct {
	Label        string
	Address      string
	Floor        int
	Number       int
	Type         RoomType
	MaxOccupancy int
}

// NewRoom builds an empty room. Capacity must be positive; a zero-capacity
// room could never admit anyone and is treated as a construction mistake.
func NewRoom(params RoomParams) (*Room, error) {
	label := strings.TrimSpace(params.Label)
	if label == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "room label must not be blank")
	}
	if !params.Type.IsValid() {
		return nil, dErrors.Newf(dErrors.CodeInvalidInput, "unknown room type %q", params.Type)
	}
	if params.MaxOccupancy <= 0 {
		return nil, dErrors.Newf(dErrors.CodeInvalidInput, "room capacity must be positive, got %d", params.MaxOccupancy)
	}
	if params.Floor < 0 || params.Number < 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "room floor and number must not be negative")
	}
	return &Room{
		label:        label,
		address:      strings.TrimSpace(params.Address),
		floor:        params.Floor,
		number:       params.Number,
		roomType:     params.Type,
		maxOccupancy: params.MaxOccupancy,
	}, nil
}

// RestoreRoom rebuilds a room from persisted state. The occupant list is
// validated against the capacity so a corrupted row cannot materialize an
// overfull room.
func RestoreRoom(params RoomParams, occupants []string) (*Room, error) {
	room, err := NewRoom(params)
	if err != nil {
		return nil, err
	}
	if len(occupants) > params.MaxOccupancy {
		return nil, dErrors.Newf(dErrors.CodeInvariantViolation,
			"room %s holds %d occupants over capacity %d", room.label, len(occupants), params.MaxOccupancy)
	}
	room.occupants = slices.Clone(occupants)
	return room, nil
}

func (r *Room) Label() string      { return r.label }
func (r *Room) Address() string    { return r.address }
func (r *Room) Floor() int         { return r.floor }
func (r *Room) Number() int        { return r.number }
func (r *Room) Type() RoomType     { return r.roomType }
func (r *Room) MaxOccupancy() int  { return r.maxOccupancy }
func (r *Room) OccupantCount() int { return len(r.occupants) }

// Occupants returns a copy; mutations go through AddOccupant and
// RemoveOccupant so the bound always holds.
func (r *Room) Occupants() []string {
	return slices.Clone(r.occupants)
}

// IsFull reports whether the room has no free bed.
func (r *Room) IsFull() bool {
	return len(r.occupants) >= r.maxOccupancy
}

// Holds reports whether the patient currently occupies the room.
func (r *Room) Holds(patientID string) bool {
	return slices.Contains(r.occupants, patientID)
}

// AddOccupant admits a patient. It fails when the room is full or the patient
// already occupies it; the occupant list is never silently truncated.
func (r *Room) AddOccupant(patientID string) error {
	if strings.TrimSpace(patientID) == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "occupant id must not be blank")
	}
	if r.Holds(patientID) {
		return dErrors.Newf(dErrors.CodeConflict, "patient already occupies room %s", r.label)
	}
	if r.IsFull() {
		return dErrors.Newf(dErrors.CodeCapacityExceeded,
			"room %s is full (%d/%d)", r.label, len(r.occupants), r.maxOccupancy)
	}
	r.occupants = append(r.occupants, patientID)
	return nil
}

// SetOccupants replaces the whole occupant list, rejecting lists that exceed
// capacity or carry blanks or duplicates. The previous list is kept intact on
// failure.
func (r *Room) SetOccupants(patientIDs []string) error {
	if len(patientIDs) > r.maxOccupancy {
		return dErrors.Newf(dErrors.CodeCapacityExceeded,
			"room %s cannot hold %d occupants (capacity %d)", r.label, len(patientIDs), r.maxOccupancy)
	}
	seen := make(map[string]struct{}, len(patientIDs))
	for _, id := range patientIDs {
		if strings.TrimSpace(id) == "" {
			return dErrors.New(dErrors.CodeInvalidInput, "occupant id must not be blank")
		}
		if _, ok := seen[id]; ok {
			return dErrors.Newf(dErrors.CodeConflict, "duplicate occupant %s", id)
		}
		seen[id] = struct{}{}
	}
	r.occupants = slices.Clone(patientIDs)
	return nil
}

// RemoveOccupant discharges a patient from the room.
func (r *Room) RemoveOccupant(patientID string) error {
	idx := slices.Index(r.occupants, patientID)
	if idx < 0 {
		return dErrors.Wrap(
			fmt.Errorf("patient %s not in room %s", patientID, r.label),
			dErrors.CodeNotFound, "occupant not found")
	}
	r.occupants = slices.Delete(r.occupants, idx, idx+1)
	return nil
}

// SetMaxOccupancy resizes the room. Shrinking below the current occupancy is
// rejected rather than evicting anyone.
func (r *Room) SetMaxOccupancy(maxOccupancy int) error {
	if maxOccupancy <= 0 {
		return dErrors.Newf(dErrors.CodeInvalidInput, "room capacity must be positive, got %d", maxOccupancy)
	}
	if maxOccupancy < len(r.occupants) {
		return dErrors.Newf(dErrors.CodeCapacityExceeded,
			"room %s holds %d occupants, cannot shrink to %d", r.label, len(r.occupants), maxOccupancy)
	}
	r.maxOccupancy = maxOccupancy
	return nil
}
