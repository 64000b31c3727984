package store

import (
	"context"
	"database/sql"
	"time"

	"coedit/internal/models"
)

type MySQLStore struct {
	DB *sql.DB
}

func NewMySQL(db *sql.DB) *MySQLStore {
	return &MySQLStore{DB: db}
}

func (s *MySQLStore) Create(ctx context.Context, room *models.Room) error {
	_, err := s.DB.ExecContext(ctx,
		"INSERT INTO rooms (id, name, code, language, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
		room.ID, room.Name, room.Code, room.Language, room.CreatedAt, room.UpdatedAt)
	return err
}

func (s *MySQLStore) Get(ctx context.Context, id string) (*models.Room, error) {
	var r models.Room
	err := s.DB.QueryRowContext(ctx,
		"SELECT id, name, code, language, created_at, updated_at FROM rooms WHERE id = ?", id).
		Scan(&r.ID, &r.Name, &r.Code, &r.Language, &r.CreatedAt, &r.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *MySQLStore) Put(ctx context.Context, id, code string, updatedAt time.Time) error {
	_, err := s.DB.ExecContext(ctx,
		"UPDATE rooms SET code = ?, updated_at = ? WHERE id = ?", code, updatedAt, id)
	return err
}
