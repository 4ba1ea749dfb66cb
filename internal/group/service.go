package group

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/squareupapp/squareup-server/internal/contribution"
	"github.com/squareupapp/squareup-server/internal/ledger"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=group
type Repository interface {
	CreateGroup(ctx context.Context, g *Group) error
	GetGroup(ctx context.Context, id uuid.UUID) (*Group, error)
	ListGroupsForUser(ctx context.Context, userID uuid.UUID) ([]*Group, error)
	ListGroups(ctx context.Context) ([]*Group, error)
	// BeginVote opens a write transaction holding the per-group lock, so the
	// unanimous-delete check-and-act cannot race a concurrent final vote.
	BeginVote(ctx context.Context, groupID uuid.UUID) (VoteTx, error)
}

// VoteTx is a per-group serialized read-modify-write on the delete-vote set.
type VoteTx interface {
	// Group re-reads the group under the lock.
	Group(ctx context.Context) (*Group, error)
	AddVote(ctx context.Context, userID uuid.UUID) error
	RemoveVote(ctx context.Context, userID uuid.UUID) error
	// DeleteGroup removes the group and, by cascade, its contributions.
	DeleteGroup(ctx context.Context) error
	Commit() error
	Rollback() error
}

// FriendChecker gates group creation on existing friendships.
type FriendChecker interface {
	AreFriends(ctx context.Context, a, b uuid.UUID) (bool, error)
}

// UserDirectory answers whether a user id exists.
type UserDirectory interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// ContributionSource supplies a group's contribution history for balance
// projection.
type ContributionSource interface {
	ListForGroup(ctx context.Context, groupID uuid.UUID) ([]*contribution.Contribution, error)
}

type Service struct {
	repo     Repository
	users    UserDirectory
	friends  FriendChecker
	contribs ContributionSource
}

func NewService(repo Repository, users UserDirectory, friends FriendChecker, contribs ContributionSource) *Service {
	return &Service{repo: repo, users: users, friends: friends, contribs: contribs}
}

type CreateParams struct {
	Name      string
	CreatorID uuid.UUID
	MemberIDs []uuid.UUID
}

// Create makes a new group. The creator is always a member, every other
// member must exist and be a friend of the creator, and the final member set
// needs at least two users. Membership never changes afterwards.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Group, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, ErrEmptyName
	}

	members := make([]uuid.UUID, 0, len(params.MemberIDs)+1)
	seen := map[uuid.UUID]struct{}{params.CreatorID: {}}
	members = append(members, params.CreatorID)

	for _, id := range params.MemberIDs {
		if _, ok := seen[id]; ok {
			continue
		}

		seen[id] = struct{}{}
		members = append(members, id)
	}

	if len(members) < 2 {
		return nil, ErrTooFewMembers
	}

	for _, id := range members[1:] {
		exists, err := s.users.Exists(ctx, id)
		if err != nil {
			return nil, err
		}

		if !exists {
			return nil, fmt.Errorf("%w: %s", ErrUnknownMember, id)
		}

		friends, err := s.friends.AreFriends(ctx, params.CreatorID, id)
		if err != nil {
			return nil, err
		}

		if !friends {
			return nil, fmt.Errorf("%w: %s", ErrNotFriends, id)
		}
	}

	g := &Group{
		Name:      name,
		CreatedBy: params.CreatorID,
		MemberIDs: members,
	}
	if err := s.repo.CreateGroup(ctx, g); err != nil {
		return nil, err
	}

	return g, nil
}

// View is a group joined with its contribution history and derived balances.
type View struct {
	Group         *Group
	Contributions []*contribution.Contribution
	Balances      ledger.Balances
}

// ListForUser returns every group the user belongs to with freshly computed
// balances. Balances are always recomputed from the full contribution list;
// there is no cached projection to go stale.
func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID) ([]*View, error) {
	groups, err := s.repo.ListGroupsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	views := make([]*View, 0, len(groups))

	for _, g := range groups {
		v, err := s.project(ctx, g)
		if err != nil {
			return nil, err
		}

		views = append(views, v)
	}

	return views, nil
}

// Get returns one group with balances, restricted to members.
func (s *Service) Get(ctx context.Context, groupID, userID uuid.UUID) (*View, error) {
	g, err := s.repo.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	if !g.IsMember(userID) {
		return nil, ErrNotAMember
	}

	return s.project(ctx, g)
}

// ListAll returns every group with balances, for the ops console.
func (s *Service) ListAll(ctx context.Context) ([]*View, error) {
	groups, err := s.repo.ListGroups(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]*View, 0, len(groups))

	for _, g := range groups {
		v, err := s.project(ctx, g)
		if err != nil {
			return nil, err
		}

		views = append(views, v)
	}

	return views, nil
}

func (s *Service) project(ctx context.Context, g *Group) (*View, error) {
	contribs, err := s.contribs.ListForGroup(ctx, g.ID)
	if err != nil {
		return nil, err
	}

	entries := make([]ledger.Entry, len(contribs))
	for i, c := range contribs {
		entries[i] = ledger.Entry{SenderID: c.SenderID, ReceiverAmounts: c.ReceiverAmounts}
	}

	return &View{
		Group:         g,
		Contributions: contribs,
		Balances:      ledger.Compute(g.MemberIDs, entries),
	}, nil
}

// VoteResult reports the outcome of a vote operation. When Deleted is true the
// group is gone and Group holds its final pre-deletion state.
type VoteResult struct {
	Group   *Group
	Deleted bool
}

// VoteToDelete records userID's vote to close the group. A duplicate vote is
// a no-op. When the vote makes consent unanimous, the group and all of its
// contributions are deleted in the same transaction; the per-group lock
// guarantees that two concurrent final votes produce exactly one deletion.
func (s *Service) VoteToDelete(ctx context.Context, groupID, userID uuid.UUID) (*VoteResult, error) {
	tx, err := s.repo.BeginVote(ctx, groupID)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	g, err := tx.Group(ctx)
	if err != nil {
		return nil, err
	}

	if !g.IsMember(userID) {
		return nil, ErrNotAMember
	}

	if g.HasVoted(userID) {
		if err := tx.Commit(); err != nil {
			return nil, fmt.Errorf("committing vote: %w", err)
		}

		return &VoteResult{Group: g}, nil
	}

	if err := tx.AddVote(ctx, userID); err != nil {
		return nil, err
	}

	g.VotesToDelete = append(g.VotesToDelete, userID)

	deleted := len(g.VotesToDelete) == len(g.MemberIDs)
	if deleted {
		if err := tx.DeleteGroup(ctx); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing vote: %w", err)
	}

	return &VoteResult{Group: g, Deleted: deleted}, nil
}

// UnvoteToDelete withdraws userID's vote; withdrawing a vote that was never
// cast is a no-op.
func (s *Service) UnvoteToDelete(ctx context.Context, groupID, userID uuid.UUID) (*Group, error) {
	tx, err := s.repo.BeginVote(ctx, groupID)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	g, err := tx.Group(ctx)
	if err != nil {
		return nil, err
	}

	if !g.IsMember(userID) {
		return nil, ErrNotAMember
	}

	if g.HasVoted(userID) {
		if err := tx.RemoveVote(ctx, userID); err != nil {
			return nil, err
		}

		votes := g.VotesToDelete[:0]
		for _, id := range g.VotesToDelete {
			if id != userID {
				votes = append(votes, id)
			}
		}

		g.VotesToDelete = votes
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing unvote: %w", err)
	}

	return g, nil
}
