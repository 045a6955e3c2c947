package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"clinicore/internal/ward/models"
	"clinicore/pkg/platform/sentinel"
)

// Schema is the DDL for the rooms table. Applied at startup when a database
// is configured.
const Schema = `
CREATE TABLE IF NOT EXISTS rooms (
	label         VARCHAR(64) PRIMARY KEY,
	address       TEXT        NOT NULL DEFAULT '',
	floor         INT         NOT NULL DEFAULT 0,
	number        INT         NOT NULL DEFAULT 0,
	room_type     TEXT        NOT NULL,
	max_occupancy INT         NOT NULL,
	occupants     TEXT[]      NOT NULL DEFAULT '{}',
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

const roomColumns = "label, address, floor, number, room_type, max_occupancy, occupants"

// PostgresRooms persists rooms in PostgreSQL. Execute and ExecuteTransfer
// take row locks (SELECT ... FOR UPDATE) so the capacity check and the write
// commit in one transaction.
type PostgresRooms struct {
	pool *pgxpool.Pool
}

func NewPostgresRooms(pool *pgxpool.Pool) *PostgresRooms {
	return &PostgresRooms{pool: pool}
}

func (s *PostgresRooms) Create(ctx context.Context, room *models.Room) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO rooms (`+roomColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		room.Label(), room.Address(), room.Floor(), room.Number(),
		string(room.Type()), room.MaxOccupancy(), room.Occupants(),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return sentinel.ErrAlreadyUsed
		}
		return fmt.Errorf("insert room: %w", err)
	}
	return nil
}

func (s *PostgresRooms) Find(ctx context.Context, label string) (*models.Room, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+roomColumns+` FROM rooms WHERE label = $1`, label)
	return scanRoom(row)
}

func (s *PostgresRooms) List(ctx context.Context) ([]*models.Room, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+roomColumns+` FROM rooms ORDER BY created_at, label`)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	defer rows.Close()

	var rooms []*models.Room
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	return rooms, rows.Err()
}

func (s *PostgresRooms) Execute(ctx context.Context, label string, mutate func(room *models.Room) error) error {
	return s.inTx(ctx, func(tx pgx.Tx) error {
		room, err := lockRoom(ctx, tx, label)
		if err != nil {
			return err
		}
		if err := mutate(room); err != nil {
			return err
		}
		return saveRoom(ctx, tx, room)
	})
}

func (s *PostgresRooms) ExecuteTransfer(ctx context.Context, from, to string, mutate func(from, to *models.Room) error) error {
	return s.inTx(ctx, func(tx pgx.Tx) error {
		// Lock in label order so two concurrent transfers over the same
		// pair cannot deadlock.
		first, second := from, to
		if second < first {
			first, second = second, first
		}
		locked := make(map[string]*models.Room, 2)
		for _, label := range []string{first, second} {
			room, err := lockRoom(ctx, tx, label)
			if err != nil {
				return err
			}
			locked[label] = room
		}
		if err := mutate(locked[from], locked[to]); err != nil {
			return err
		}
		if err := saveRoom(ctx, tx, locked[from]); err != nil {
			return err
		}
		return saveRoom(ctx, tx, locked[to])
	})
}

func (s *PostgresRooms) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func lockRoom(ctx context.Context, tx pgx.Tx, label string) (*models.Room, error) {
	row := tx.QueryRow(ctx, `SELECT `+roomColumns+` FROM rooms WHERE label = $1 FOR UPDATE`, label)
	return scanRoom(row)
}

func saveRoom(ctx context.Context, tx pgx.Tx, room *models.Room) error {
	_, err := tx.Exec(ctx,
		`UPDATE rooms SET max_occupancy = $2, occupants = $3 WHERE label = $1`,
		room.Label(), room.MaxOccupancy(), room.Occupants(),
	)
	if err != nil {
		return fmt.Errorf("update room %s: %w", room.Label(), err)
	}
	return nil
}

func scanRoom(row pgx.Row) (*models.Room, error) {
	var (
		params    models.RoomParams
		roomType  string
		occupants []string
	)
	err := row.Scan(&params.Label, &params.Address, &params.Floor, &params.Number,
		&roomType, &params.MaxOccupancy, &occupants)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan room: %w", err)
	}
	params.Type = models.ParseRoomType(roomType)
	return models.RestoreRoom(params, occupants)
}
