package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/squareupapp/squareup-server/internal/database"
	"github.com/squareupapp/squareup-server/internal/group"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Store) CreateGroup(ctx context.Context, g *group.Group) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning create tx: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO groups (name, created_by, created_at)
		VALUES ($1, $2, NOW())
		RETURNING id, created_at`,
		g.Name, g.CreatedBy,
	).Scan(&g.ID, &g.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating group: %w", err)
	}

	for i, memberID := range g.MemberIDs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO group_members (group_id, user_id, position)
			VALUES ($1, $2, $3)`,
			g.ID, memberID, i,
		); err != nil {
			return fmt.Errorf("adding group member: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing create tx: %w", err)
	}

	return nil
}

func (s *Store) GetGroup(ctx context.Context, id uuid.UUID) (*group.Group, error) {
	return getGroup(ctx, s.db, id)
}

func getGroup(ctx context.Context, q querier, id uuid.UUID) (*group.Group, error) {
	var g group.Group

	err := q.QueryRowContext(ctx,
		`SELECT id, name, created_by, created_at FROM groups WHERE id = $1`, id,
	).Scan(&g.ID, &g.Name, &g.CreatedBy, &g.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, group.ErrNotFound
		}

		return nil, fmt.Errorf("getting group: %w", err)
	}

	if g.MemberIDs, err = listIDs(ctx, q,
		`SELECT user_id FROM group_members WHERE group_id = $1 ORDER BY position ASC`, id,
	); err != nil {
		return nil, err
	}

	if g.VotesToDelete, err = listIDs(ctx, q,
		`SELECT user_id FROM group_delete_votes WHERE group_id = $1 ORDER BY created_at ASC`, id,
	); err != nil {
		return nil, err
	}

	return &g, nil
}

func (s *Store) ListGroupsForUser(ctx context.Context, userID uuid.UUID) ([]*group.Group, error) {
	query := `
		SELECT g.id FROM groups g
		JOIN group_members gm ON gm.group_id = g.id
		WHERE gm.user_id = $1
		ORDER BY g.created_at DESC
	`

	ids, err := listIDs(ctx, s.db, query, userID)
	if err != nil {
		return nil, err
	}

	return s.loadGroups(ctx, ids)
}

func (s *Store) ListGroups(ctx context.Context) ([]*group.Group, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM groups ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing groups: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID

	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning group id: %w", err)
		}

		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating group rows: %w", err)
	}

	return s.loadGroups(ctx, ids)
}

func (s *Store) loadGroups(ctx context.Context, ids []uuid.UUID) ([]*group.Group, error) {
	groups := make([]*group.Group, 0, len(ids))

	for _, id := range ids {
		g, err := getGroup(ctx, s.db, id)
		if err != nil {
			if errors.Is(err, group.ErrNotFound) {
				// Deleted between the id listing and the load.
				continue
			}

			return nil, err
		}

		groups = append(groups, g)
	}

	return groups, nil
}

type voteTx struct {
	tx      *sql.Tx
	groupID uuid.UUID
}

// BeginVote serializes the vote read-modify-write per group: the advisory
// lock is held for the whole transaction, so the unanimous check and the
// delete happen atomically with respect to any other voter.
func (s *Store) BeginVote(ctx context.Context, groupID uuid.UUID) (group.VoteTx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning vote tx: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", database.GroupLockKey(groupID)); err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("acquiring group lock: %w", err)
	}

	return &voteTx{tx: tx, groupID: groupID}, nil
}

func (t *voteTx) Commit() error   { return t.tx.Commit() }
func (t *voteTx) Rollback() error { return t.tx.Rollback() }

func (t *voteTx) Group(ctx context.Context) (*group.Group, error) {
	return getGroup(ctx, t.tx, t.groupID)
}

func (t *voteTx) AddVote(ctx context.Context, userID uuid.UUID) error {
	if _, err := t.tx.ExecContext(ctx, `
		INSERT INTO group_delete_votes (group_id, user_id, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (group_id, user_id) DO NOTHING`,
		t.groupID, userID,
	); err != nil {
		return fmt.Errorf("adding delete vote: %w", err)
	}

	return nil
}

func (t *voteTx) RemoveVote(ctx context.Context, userID uuid.UUID) error {
	if _, err := t.tx.ExecContext(ctx,
		`DELETE FROM group_delete_votes WHERE group_id = $1 AND user_id = $2`,
		t.groupID, userID,
	); err != nil {
		return fmt.Errorf("removing delete vote: %w", err)
	}

	return nil
}

func (t *voteTx) DeleteGroup(ctx context.Context) error {
	// Members, votes, and contributions go with it via ON DELETE CASCADE.
	if _, err := t.tx.ExecContext(ctx, `DELETE FROM groups WHERE id = $1`, t.groupID); err != nil {
		return fmt.Errorf("deleting group: %w", err)
	}

	return nil
}

func listIDs(ctx context.Context, q querier, query string, arg any) ([]uuid.UUID, error) {
	rows, err := q.QueryContext(ctx, query, arg)
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
