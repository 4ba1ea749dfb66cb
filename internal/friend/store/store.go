package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/squareupapp/squareup-server/internal/friend"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Friendships are stored once per pair with the lexicographically smaller id
// in user_low.
func orderPair(a, b uuid.UUID) (uuid.UUID, uuid.UUID) {
	if a.String() < b.String() {
		return a, b
	}

	return b, a
}

func (s *Store) CreateRequest(ctx context.Context, fromID, toID uuid.UUID) error {
	query := `
		INSERT INTO friend_requests (sender_id, receiver_id, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (sender_id, receiver_id) DO NOTHING
	`

	if _, err := s.db.ExecContext(ctx, query, fromID, toID); err != nil {
		return fmt.Errorf("creating friend request: %w", err)
	}

	return nil
}

func (s *Store) DeleteRequest(ctx context.Context, fromID, toID uuid.UUID) (bool, error) {
	query := `DELETE FROM friend_requests WHERE sender_id = $1 AND receiver_id = $2`

	res, err := s.db.ExecContext(ctx, query, fromID, toID)
	if err != nil {
		return false, fmt.Errorf("deleting friend request: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("deleting friend request: %w", err)
	}

	return n > 0, nil
}

func (s *Store) RequestExists(ctx context.Context, fromID, toID uuid.UUID) (bool, error) {
	var exists bool
	if err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM friend_requests WHERE sender_id = $1 AND receiver_id = $2)`,
		fromID, toID,
	).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking friend request: %w", err)
	}

	return exists, nil
}

// AcceptRequest removes the pending request (and its mirror, if a crossed pair
// exists) and records the friendship, all in one database transaction.
func (s *Store) AcceptRequest(ctx context.Context, fromID, toID uuid.UUID) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning accept tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`DELETE FROM friend_requests WHERE sender_id = $1 AND receiver_id = $2`,
		fromID, toID,
	)
	if err != nil {
		return fmt.Errorf("deleting accepted request: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return friend.ErrNoRequest
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM friend_requests WHERE sender_id = $1 AND receiver_id = $2`,
		toID, fromID,
	); err != nil {
		return fmt.Errorf("deleting mirrored request: %w", err)
	}

	low, high := orderPair(fromID, toID)
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO friendships (user_low, user_high, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_low, user_high) DO NOTHING`,
		low, high,
	); err != nil {
		return fmt.Errorf("creating friendship: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing accept tx: %w", err)
	}

	return nil
}

func (s *Store) DeleteFriendship(ctx context.Context, a, b uuid.UUID) (bool, error) {
	low, high := orderPair(a, b)

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM friendships WHERE user_low = $1 AND user_high = $2`, low, high,
	)
	if err != nil {
		return false, fmt.Errorf("deleting friendship: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("deleting friendship: %w", err)
	}

	return n > 0, nil
}

func (s *Store) AreFriends(ctx context.Context, a, b uuid.UUID) (bool, error) {
	low, high := orderPair(a, b)

	var exists bool
	if err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM friendships WHERE user_low = $1 AND user_high = $2)`,
		low, high,
	).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking friendship: %w", err)
	}

	return exists, nil
}

func (s *Store) ListFriendIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	query := `
		SELECT CASE WHEN user_low = $1 THEN user_high ELSE user_low END
		FROM friendships
		WHERE user_low = $1 OR user_high = $1
		ORDER BY created_at DESC
	`

	return s.listIDs(ctx, query, userID)
}

func (s *Store) ListIncomingRequestIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	query := `
		SELECT sender_id FROM friend_requests
		WHERE receiver_id = $1
		ORDER BY created_at DESC
	`

	return s.listIDs(ctx, query, userID)
}

func (s *Store) ListOutgoingRequestIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	query := `
		SELECT receiver_id FROM friend_requests
		WHERE sender_id = $1
		ORDER BY created_at DESC
	`

	return s.listIDs(ctx, query, userID)
}

func (s *Store) listIDs(ctx context.Context, query string, userID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing ids: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID

	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning id: %w", err)
		}

		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating id rows: %w", err)
	}

	return ids, nil
}
