package db

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Curator is an authenticated feedback source.
type Curator struct {
	ID        string    `json:"id"`
	Handle    string    `json:"handle"`
	CreatedAt time.Time `json:"created_at"`

	PasswordHash string `json:"-"`
}

// CreateCurator inserts a curator account.
func (db *DB) CreateCurator(ctx context.Context, handle, passwordHash string) (*Curator, error) {
	c := &Curator{
		ID:           NewID(),
		Handle:       handle,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	_, err := db.ExecContext(ctx, `
		INSERT INTO curators (id, handle, password_hash, created_at)
		VALUES (?, ?, ?, ?)`, c.ID, c.Handle, c.PasswordHash, c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// GetCuratorByHandle returns a curator or ErrNotFound.
func (db *DB) GetCuratorByHandle(ctx context.Context, handle string) (*Curator, error) {
	c := &Curator{}
	err := db.QueryRowContext(ctx, `
		SELECT id, handle, password_hash, created_at FROM curators WHERE handle = ?`, handle).
		Scan(&c.ID, &c.Handle, &c.PasswordHash, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}
