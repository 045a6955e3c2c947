package store

import (
	"context"
	"slices"
	"sync"

	"clinicore/internal/ward/models"
	"clinicore/pkg/platform/sentinel"
)

// roomRecord is the persisted shape of a room. Rooms are rehydrated through
// RestoreRoom on every read so callers always hold an isolated copy.
type roomRecord struct {
	params    models.RoomParams
	occupants []string
}

func recordOf(room *models.Room) roomRecord {
	return roomRecord{
		params: models.RoomParams{
			Label:        room.Label(),
			Address:      room.Address(),
			Floor:        room.Floor(),
			Number:       room.Number(),
			Type:         room.Type(),
			MaxOccupancy: room.MaxOccupancy(),
		},
		occupants: room.Occupants(),
	}
}

// InMemoryRooms keeps rooms in a mutex-guarded map. Execute holds the write
// lock for the duration of the mutation, which gives the single-writer
// serialization the capacity guard requires.
type InMemoryRooms struct {
	mu      sync.RWMutex
	byLabel map[string]roomRecord
	ordered []string
}

func NewInMemoryRooms() *InMemoryRooms {
	return &InMemoryRooms{byLabel: make(map[string]roomRecord)}
}

func (s *InMemoryRooms) Create(_ context.Context, room *models.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byLabel[room.Label()]; exists {
		return sentinel.ErrAlreadyUsed
	}
	s.byLabel[room.Label()] = recordOf(room)
	s.ordered = append(s.ordered, room.Label())
	return nil
}

func (s *InMemoryRooms) Find(_ context.Context, label string) (*models.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.restore(label)
}

func (s *InMemoryRooms) List(_ context.Context) ([]*models.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rooms := make([]*models.Room, 0, len(s.ordered))
	for _, label := range s.ordered {
		room, err := s.restore(label)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	return rooms, nil
}

func (s *InMemoryRooms) Execute(_ context.Context, label string, mutate func(room *models.Room) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, err := s.restore(label)
	if err != nil {
		return err
	}
	if err := mutate(room); err != nil {
		return err
	}
	s.byLabel[label] = recordOf(room)
	return nil
}

func (s *InMemoryRooms) ExecuteTransfer(_ context.Context, from, to string, mutate func(from, to *models.Room) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	source, err := s.restore(from)
	if err != nil {
		return err
	}
	destination, err := s.restore(to)
	if err != nil {
		return err
	}
	if err := mutate(source, destination); err != nil {
		return err
	}
	s.byLabel[from] = recordOf(source)
	s.byLabel[to] = recordOf(destination)
	return nil
}

// restore must be called with at least the read lock held.
func (s *InMemoryRooms) restore(label string) (*models.Room, error) {
	rec, ok := s.byLabel[label]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return models.RestoreRoom(rec.params, slices.Clone(rec.occupants))
}
