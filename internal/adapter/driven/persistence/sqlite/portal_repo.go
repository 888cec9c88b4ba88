package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Wyydra/teleguild/internal/core/domain"
	_ "modernc.org/sqlite"
)

// PortalRepository stores the room directory in a SQLite file. Call ids
// are the table's integer primary key, so they survive restarts.
type PortalRepository struct {
	db *sql.DB
}

func Open(path string) (*PortalRepository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS portals (
		call_id INTEGER PRIMARY KEY,
		room_id TEXT NOT NULL UNIQUE,
		name    TEXT NOT NULL DEFAULT ''
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create portals table: %w", err)
	}

	return &PortalRepository{db: db}, nil
}

func (r *PortalRepository) Close() error {
	return r.db.Close()
}

func (r *PortalRepository) Upsert(ctx context.Context, rooms []domain.Room) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, room := range rooms {
		_, err := tx.ExecContext(ctx, `INSERT INTO portals (room_id, name) VALUES (?, ?)
			ON CONFLICT(room_id) DO UPDATE SET name=excluded.name`,
			room.ID.String(), room.Name)
		if err != nil {
			return fmt.Errorf("upsert room %s: %w", room.ID, err)
		}
	}
	return tx.Commit()
}

func (r *PortalRepository) Replace(ctx context.Context, portals []domain.Portal) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM portals`); err != nil {
		return err
	}
	for _, p := range portals {
		_, err := tx.ExecContext(ctx, `INSERT INTO portals (call_id, room_id, name) VALUES (?, ?, ?)`,
			p.CallID, p.Room.ID.String(), p.Room.Name)
		if err != nil {
			return fmt.Errorf("insert portal %d: %w", p.CallID, err)
		}
	}
	return tx.Commit()
}

func (r *PortalRepository) ByCallID(ctx context.Context, callID int) (domain.Portal, error) {
	row := r.db.QueryRowContext(ctx, `SELECT call_id, room_id, name FROM portals WHERE call_id = ?`, callID)
	return scanPortal(row)
}

func (r *PortalRepository) ByRoomID(ctx context.Context, roomID domain.RoomID) (domain.Portal, error) {
	row := r.db.QueryRowContext(ctx, `SELECT call_id, room_id, name FROM portals WHERE room_id = ?`, roomID.String())
	return scanPortal(row)
}

func (r *PortalRepository) List(ctx context.Context) ([]domain.Portal, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT call_id, room_id, name FROM portals ORDER BY call_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Portal
	for rows.Next() {
		p, err := scanPortal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPortal(s scanner) (domain.Portal, error) {
	var (
		p      domain.Portal
		roomID string
	)
	if err := s.Scan(&p.CallID, &roomID, &p.Room.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Portal{}, domain.ErrRoomNotFound
		}
		return domain.Portal{}, err
	}
	id, err := domain.ParseRoomID(roomID)
	if err != nil {
		return domain.Portal{}, fmt.Errorf("stored room id %q: %w", roomID, err)
	}
	p.Room.ID = id
	return p, nil
}
