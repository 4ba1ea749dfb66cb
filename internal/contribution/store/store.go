package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/squareupapp/squareup-server/internal/contribution"
	"github.com/squareupapp/squareup-server/internal/database"
	"github.com/squareupapp/squareup-server/internal/money"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type appendTx struct {
	tx      *sql.Tx
	groupID uuid.UUID
}

func (s *Store) BeginAppend(ctx context.Context, groupID uuid.UUID) (contribution.AppendTx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning append tx: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", database.GroupLockKey(groupID)); err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("acquiring group lock: %w", err)
	}

	return &appendTx{tx: tx, groupID: groupID}, nil
}

func (t *appendTx) Commit() error   { return t.tx.Commit() }
func (t *appendTx) Rollback() error { return t.tx.Rollback() }

func (t *appendTx) Members(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := t.tx.QueryContext(ctx,
		`SELECT user_id FROM group_members WHERE group_id = $1 ORDER BY position ASC`,
		t.groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("loading group members: %w", err)
	}
	defer rows.Close()

	var members []uuid.UUID

	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning member: %w", err)
		}

		members = append(members, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating member rows: %w", err)
	}

	// Every group has at least two members, so an empty set means the group
	// is gone (or never existed).
	if len(members) == 0 {
		return nil, contribution.ErrGroupNotFound
	}

	return members, nil
}

func (t *appendTx) Create(ctx context.Context, c *contribution.Contribution) error {
	query := `
		INSERT INTO contributions (group_id, sender_id, description, total_amount, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, created_at
	`

	err := t.tx.QueryRowContext(ctx, query,
		c.GroupID, c.SenderID, c.Description, int64(c.TotalAmount),
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating contribution: %w", err)
	}

	for receiverID, amount := range c.ReceiverAmounts {
		if _, err := t.tx.ExecContext(ctx, `
			INSERT INTO contribution_receivers (contribution_id, receiver_id, amount)
			VALUES ($1, $2, $3)`,
			c.ID, receiverID, int64(amount),
		); err != nil {
			return fmt.Errorf("creating contribution receiver: %w", err)
		}
	}

	return nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectContributionColumns = `c.id, c.group_id, c.sender_id, c.description, c.total_amount, c.created_at`

func scanContribution(s scanner) (*contribution.Contribution, error) {
	var (
		c     contribution.Contribution
		total int64
	)

	if err := s.Scan(&c.ID, &c.GroupID, &c.SenderID, &c.Description, &total, &c.CreatedAt); err != nil {
		return nil, err
	}

	c.TotalAmount = money.Amount(total)
	c.ReceiverAmounts = make(map[uuid.UUID]money.Amount)

	return &c, nil
}

func (s *Store) ListForGroup(ctx context.Context, groupID uuid.UUID) ([]*contribution.Contribution, error) {
	query := `SELECT ` + selectContributionColumns + `
		FROM contributions c
		WHERE c.group_id = $1
		ORDER BY c.created_at DESC, c.id DESC`

	rows, err := s.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("listing group contributions: %w", err)
	}
	defer rows.Close()

	contribs, err := collectContributions(rows)
	if err != nil {
		return nil, err
	}

	if err := s.attachReceivers(ctx, contribs); err != nil {
		return nil, err
	}

	return contribs, nil
}

func (s *Store) ListFeed(ctx context.Context, userID uuid.UUID, limit int, afterID *uuid.UUID) ([]*contribution.Contribution, error) {
	query := `SELECT ` + selectContributionColumns + `
		FROM contributions c
		JOIN group_members gm ON gm.group_id = c.group_id AND gm.user_id = $1`

	args := []any{userID}
	argIdx := 2

	if afterID != nil {
		// Keyset cursor: resolve the cursor row first so a stale or invisible
		// id fails loudly instead of silently returning page one.
		var cursor struct {
			createdAt sql.NullTime
			id        uuid.UUID
		}

		err := s.db.QueryRowContext(ctx, `
			SELECT c.created_at, c.id
			FROM contributions c
			JOIN group_members gm ON gm.group_id = c.group_id AND gm.user_id = $1
			WHERE c.id = $2`,
			userID, *afterID,
		).Scan(&cursor.createdAt, &cursor.id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, contribution.ErrNotFound
			}

			return nil, fmt.Errorf("resolving feed cursor: %w", err)
		}

		query += fmt.Sprintf(" WHERE (c.created_at, c.id) < ($%d, $%d)", argIdx, argIdx+1)

		args = append(args, cursor.createdAt.Time, cursor.id)
		argIdx += 2
	}

	query += fmt.Sprintf(" ORDER BY c.created_at DESC, c.id DESC LIMIT $%d", argIdx)
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing feed: %w", err)
	}
	defer rows.Close()

	contribs, err := collectContributions(rows)
	if err != nil {
		return nil, err
	}

	if err := s.attachReceivers(ctx, contribs); err != nil {
		return nil, err
	}

	return contribs, nil
}

func (s *Store) ListRecent(ctx context.Context, limit int) ([]*contribution.Contribution, error) {
	query := `SELECT ` + selectContributionColumns + `
		FROM contributions c
		ORDER BY c.created_at DESC, c.id DESC
		LIMIT $1`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("listing recent contributions: %w", err)
	}
	defer rows.Close()

	contribs, err := collectContributions(rows)
	if err != nil {
		return nil, err
	}

	if err := s.attachReceivers(ctx, contribs); err != nil {
		return nil, err
	}

	return contribs, nil
}

func collectContributions(rows *sql.Rows) ([]*contribution.Contribution, error) {
	var contribs []*contribution.Contribution

	for rows.Next() {
		c, err := scanContribution(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning contribution: %w", err)
		}

		contribs = append(contribs, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating contribution rows: %w", err)
	}

	return contribs, nil
}

func (s *Store) attachReceivers(ctx context.Context, contribs []*contribution.Contribution) error {
	if len(contribs) == 0 {
		return nil
	}

	byID := make(map[uuid.UUID]*contribution.Contribution, len(contribs))
	placeholders := make([]string, len(contribs))
	args := make([]any, len(contribs))

	for i, c := range contribs {
		byID[c.ID] = c
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = c.ID
	}

	query := `
		SELECT contribution_id, receiver_id, amount
		FROM contribution_receivers
		WHERE contribution_id IN (` + strings.Join(placeholders, ", ") + `)`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("loading receivers: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			contribID  uuid.UUID
			receiverID uuid.UUID
			amount     int64
		)

		if err := rows.Scan(&contribID, &receiverID, &amount); err != nil {
			return fmt.Errorf("scanning receiver: %w", err)
		}

		if c, ok := byID[contribID]; ok {
			c.ReceiverAmounts[receiverID] = money.Amount(amount)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating receiver rows: %w", err)
	}

	return nil
}
