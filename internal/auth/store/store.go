package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/squareupapp/squareup-server/internal/user"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) CreateOTP(ctx context.Context, email, codeHash string, expiresAt time.Time) error {
	query := `
		INSERT INTO otps (email, code_hash, expires_at, created_at)
		VALUES ($1, $2, $3, NOW())
	`

	if _, err := s.db.ExecContext(ctx, query, email, codeHash, expiresAt); err != nil {
		return fmt.Errorf("creating otp: %w", err)
	}

	return nil
}

func (s *Store) LatestActiveOTP(ctx context.Context, email string) (int64, string, error) {
	query := `
		SELECT id, code_hash FROM otps
		WHERE email = $1 AND consumed_at IS NULL AND expires_at > NOW()
		ORDER BY created_at DESC
		LIMIT 1
	`

	var (
		id   int64
		hash string
	)

	if err := s.db.QueryRowContext(ctx, query, email).Scan(&id, &hash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, "", user.ErrNotFound
		}

		return 0, "", fmt.Errorf("getting otp: %w", err)
	}

	return id, hash, nil
}

func (s *Store) ConsumeOTP(ctx context.Context, id int64) error {
	query := `UPDATE otps SET consumed_at = NOW() WHERE id = $1 AND consumed_at IS NULL`

	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("consuming otp: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return user.ErrNotFound
	}

	return nil
}
