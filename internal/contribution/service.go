package contribution

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/squareupapp/squareup-server/internal/money"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=contribution
type Repository interface {
	// BeginAppend opens a write transaction serialized per group, so a
	// concurrent balance read never observes a half-written contribution.
	BeginAppend(ctx context.Context, groupID uuid.UUID) (AppendTx, error)
	ListForGroup(ctx context.Context, groupID uuid.UUID) ([]*Contribution, error)
	// ListFeed returns contributions from every group the user belongs to,
	// newest first, starting after the cursor contribution when afterID is
	// set. The cursor must be visible to the user (ErrNotFound otherwise).
	ListFeed(ctx context.Context, userID uuid.UUID, limit int, afterID *uuid.UUID) ([]*Contribution, error)
	ListRecent(ctx context.Context, limit int) ([]*Contribution, error)
}

type AppendTx interface {
	// Members returns the group's member set under the group lock.
	Members(ctx context.Context) ([]uuid.UUID, error)
	Create(ctx context.Context, c *Contribution) error
	Commit() error
	Rollback() error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type AddParams struct {
	GroupID         uuid.UUID
	SenderID        uuid.UUID
	Description     string
	TotalAmount     money.Amount
	ReceiverAmounts map[uuid.UUID]money.Amount
}

// Add validates and appends a contribution. The receiver total is allowed to
// differ from TotalAmount: the sender may be covering part of the bill
// themselves, and the legacy clients only warn when the split exceeds the
// total.
func (s *Service) Add(ctx context.Context, params AddParams) (*Contribution, error) {
	if params.TotalAmount <= 0 {
		return nil, fmt.Errorf("%w: total must be positive", ErrInvalidAmount)
	}

	if len(params.ReceiverAmounts) == 0 {
		return nil, fmt.Errorf("%w: at least one receiver required", ErrInvalidAmount)
	}

	for id, amount := range params.ReceiverAmounts {
		if amount <= 0 {
			return nil, fmt.Errorf("%w: receiver %s amount must be positive", ErrInvalidAmount, id)
		}
	}

	tx, err := s.repo.BeginAppend(ctx, params.GroupID)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	members, err := tx.Members(ctx)
	if err != nil {
		return nil, err
	}

	memberSet := make(map[uuid.UUID]struct{}, len(members))
	for _, m := range members {
		memberSet[m] = struct{}{}
	}

	if _, ok := memberSet[params.SenderID]; !ok {
		return nil, fmt.Errorf("%w: sender %s", ErrNotMember, params.SenderID)
	}

	for id := range params.ReceiverAmounts {
		if _, ok := memberSet[id]; !ok {
			return nil, fmt.Errorf("%w: receiver %s", ErrNotMember, id)
		}

		if id == params.SenderID {
			return nil, fmt.Errorf("%w: sender cannot be a receiver", ErrNotMember)
		}
	}

	c := &Contribution{
		GroupID:         params.GroupID,
		SenderID:        params.SenderID,
		Description:     params.Description,
		TotalAmount:     params.TotalAmount,
		ReceiverAmounts: params.ReceiverAmounts,
	}
	if err := tx.Create(ctx, c); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing contribution: %w", err)
	}

	return c, nil
}

func (s *Service) ListForGroup(ctx context.Context, groupID uuid.UUID) ([]*Contribution, error) {
	return s.repo.ListForGroup(ctx, groupID)
}

const (
	defaultFeedLimit = 15
	maxFeedLimit     = 100
)

// Feed returns a page of the user's contribution feed plus a hasMore flag.
// hasMore follows the client contract: a full page means more may exist.
func (s *Service) Feed(ctx context.Context, userID uuid.UUID, limit int, afterID *uuid.UUID) ([]*Contribution, bool, error) {
	if limit <= 0 {
		limit = defaultFeedLimit
	}

	if limit > maxFeedLimit {
		limit = maxFeedLimit
	}

	page, err := s.repo.ListFeed(ctx, userID, limit, afterID)
	if err != nil {
		return nil, false, err
	}

	return page, len(page) == limit, nil
}

// Recent returns the newest contributions across all groups, for the ops
// console.
func (s *Service) Recent(ctx context.Context, limit int) ([]*Contribution, error) {
	if limit <= 0 {
		limit = defaultFeedLimit
	}

	return s.repo.ListRecent(ctx, limit)
}
