package store

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/suite"

	"clinicore/internal/ward/models"
	"clinicore/pkg/platform/sentinel"
)

type RoomStoreSuite struct {
	suite.Suite
	store *InMemoryRooms
	ctx   context.Context
}

func (s *RoomStoreSuite) SetupTest() {
	s.store = NewInMemoryRooms()
	s.ctx = context.Background()
}

func TestRoomStoreSuite(t *testing.T) {
	suite.Run(t, new(RoomStoreSuite))
}

func (s *RoomStoreSuite) newRoom(label string, capacity int) *models.Room {
	room, err := models.NewRoom(models.RoomParams{
		Label:        label,
		Type:         models.RoomGeneral,
		MaxOccupancy: capacity,
	})
	s.Require().NoError(err)
	return room
}

func (s *RoomStoreSuite) TestCreationAndLookups() {
	s.Run("creates and finds a room", func() {
		s.Require().NoError(s.store.Create(s.ctx, s.newRoom("a-1", 2)))

		found, err := s.store.Find(s.ctx, "a-1")
		s.Require().NoError(err)
		s.Equal(2, found.MaxOccupancy())
	})

	s.Run("rejects duplicate label", func() {
		s.Require().NoError(s.store.Create(s.ctx, s.newRoom("dup", 1)))
		err := s.store.Create(s.ctx, s.newRoom("dup", 1))
		s.Require().ErrorIs(err, sentinel.ErrAlreadyUsed)
	})

	s.Run("returns ErrNotFound for unknown label", func() {
		_, err := s.store.Find(s.ctx, "nope")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("lists in registration order", func() {
		s.Require().NoError(s.store.Create(s.ctx, s.newRoom("z-9", 1)))
		s.Require().NoError(s.store.Create(s.ctx, s.newRoom("b-2", 1)))

		rooms, err := s.store.List(s.ctx)
		s.Require().NoError(err)
		labels := make([]string, 0, len(rooms))
		for _, room := range rooms {
			labels = append(labels, room.Label())
		}
		s.Contains(labels, "z-9")
		s.Contains(labels, "b-2")
		s.Less(slices.Index(labels, "z-9"), slices.Index(labels, "b-2"))
	})
}

func (s *RoomStoreSuite) TestExecute() {
	s.Run("persists a successful mutation", func() {
		s.Require().NoError(s.store.Create(s.ctx, s.newRoom("e-1", 2)))

		err := s.store.Execute(s.ctx, "e-1", func(room *models.Room) error {
			return room.AddOccupant("44051401359")
		})
		s.Require().NoError(err)

		found, err := s.store.Find(s.ctx, "e-1")
		s.Require().NoError(err)
		s.True(found.Holds("44051401359"))
	})

	s.Run("discards the mutation when the callback fails", func() {
		s.Require().NoError(s.store.Create(s.ctx, s.newRoom("e-2", 2)))

		err := s.store.Execute(s.ctx, "e-2", func(room *models.Room) error {
			s.Require().NoError(room.AddOccupant("44051401359"))
			return errors.New("change of plans")
		})
		s.Require().Error(err)

		found, err := s.store.Find(s.ctx, "e-2")
		s.Require().NoError(err)
		s.Zero(found.OccupantCount())
	})

	s.Run("snapshots from Find are isolated from the store", func() {
		s.Require().NoError(s.store.Create(s.ctx, s.newRoom("e-3", 2)))

		found, err := s.store.Find(s.ctx, "e-3")
		s.Require().NoError(err)
		s.Require().NoError(found.AddOccupant("44051401359"))

		again, err := s.store.Find(s.ctx, "e-3")
		s.Require().NoError(err)
		s.Zero(again.OccupantCount())
	})
}

func (s *RoomStoreSuite) TestExecuteTransfer() {
	s.Run("commits both rooms together", func() {
		s.Require().NoError(s.store.Create(s.ctx, s.newRoom("t-1", 1)))
		s.Require().NoError(s.store.Create(s.ctx, s.newRoom("t-2", 1)))
		s.Require().NoError(s.store.Execute(s.ctx, "t-1", func(room *models.Room) error {
			return room.AddOccupant("44051401359")
		}))

		err := s.store.ExecuteTransfer(s.ctx, "t-1", "t-2", func(from, to *models.Room) error {
			if err := from.RemoveOccupant("44051401359"); err != nil {
				return err
			}
			return to.AddOccupant("44051401359")
		})
		s.Require().NoError(err)

		source, err := s.store.Find(s.ctx, "t-1")
		s.Require().NoError(err)
		s.Zero(source.OccupantCount())

		destination, err := s.store.Find(s.ctx, "t-2")
		s.Require().NoError(err)
		s.True(destination.Holds("44051401359"))
	})

	s.Run("keeps the source when the destination rejects", func() {
		s.Require().NoError(s.store.Create(s.ctx, s.newRoom("t-3", 1)))
		s.Require().NoError(s.store.Create(s.ctx, s.newRoom("t-4", 1)))
		s.Require().NoError(s.store.Execute(s.ctx, "t-3", func(room *models.Room) error {
			return room.AddOccupant("44051401359")
		}))
		s.Require().NoError(s.store.Execute(s.ctx, "t-4", func(room *models.Room) error {
			return room.AddOccupant("02230501238")
		}))

		err := s.store.ExecuteTransfer(s.ctx, "t-3", "t-4", func(from, to *models.Room) error {
			if err := from.RemoveOccupant("44051401359"); err != nil {
				return err
			}
			return to.AddOccupant("44051401359")
		})
		s.Require().Error(err)

		source, err := s.store.Find(s.ctx, "t-3")
		s.Require().NoError(err)
		s.True(source.Holds("44051401359"), "rejected transfer must not discharge the patient")
	})
}
