package friend

import (
	"context"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=friend
type Repository interface {
	CreateRequest(ctx context.Context, fromID, toID uuid.UUID) error
	DeleteRequest(ctx context.Context, fromID, toID uuid.UUID) (bool, error)
	RequestExists(ctx context.Context, fromID, toID uuid.UUID) (bool, error)
	// AcceptRequest atomically removes the pending request (both directions,
	// should a crossed pair exist) and records the friendship.
	AcceptRequest(ctx context.Context, fromID, toID uuid.UUID) error
	DeleteFriendship(ctx context.Context, a, b uuid.UUID) (bool, error)
	AreFriends(ctx context.Context, a, b uuid.UUID) (bool, error)
	ListFriendIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	ListIncomingRequestIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	ListOutgoingRequestIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

// UserDirectory answers whether a user id exists at all.
type UserDirectory interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type Service struct {
	repo  Repository
	users UserDirectory
}

func NewService(repo Repository, users UserDirectory) *Service {
	return &Service{repo: repo, users: users}
}

// Request sends a friend request from userID to targetID. If the target has a
// pending request towards the sender already, the crossed pair resolves into a
// friendship instead of a second request.
func (s *Service) Request(ctx context.Context, userID, targetID uuid.UUID) error {
	if userID == targetID {
		return ErrSelfRequest
	}

	exists, err := s.users.Exists(ctx, targetID)
	if err != nil {
		return err
	}

	if !exists {
		return ErrUnknownUser
	}

	friends, err := s.repo.AreFriends(ctx, userID, targetID)
	if err != nil {
		return err
	}

	if friends {
		return ErrAlreadyFriends
	}

	reverse, err := s.repo.RequestExists(ctx, targetID, userID)
	if err != nil {
		return err
	}

	if reverse {
		return s.repo.AcceptRequest(ctx, targetID, userID)
	}

	pending, err := s.repo.RequestExists(ctx, userID, targetID)
	if err != nil {
		return err
	}

	if pending {
		return ErrDuplicateRequest
	}

	return s.repo.CreateRequest(ctx, userID, targetID)
}

// Accept turns the pending request fromID -> userID into a friendship.
func (s *Service) Accept(ctx context.Context, userID, fromID uuid.UUID) error {
	exists, err := s.repo.RequestExists(ctx, fromID, userID)
	if err != nil {
		return err
	}

	if !exists {
		return ErrNoRequest
	}

	return s.repo.AcceptRequest(ctx, fromID, userID)
}

// RejectIncoming removes the pending request fromID -> userID.
func (s *Service) RejectIncoming(ctx context.Context, userID, fromID uuid.UUID) error {
	deleted, err := s.repo.DeleteRequest(ctx, fromID, userID)
	if err != nil {
		return err
	}

	if !deleted {
		return ErrNoRequest
	}

	return nil
}

// WithdrawOutgoing removes the pending request userID -> targetID.
func (s *Service) WithdrawOutgoing(ctx context.Context, userID, targetID uuid.UUID) error {
	deleted, err := s.repo.DeleteRequest(ctx, userID, targetID)
	if err != nil {
		return err
	}

	if !deleted {
		return ErrNoRequest
	}

	return nil
}

func (s *Service) Remove(ctx context.Context, userID, friendID uuid.UUID) error {
	deleted, err := s.repo.DeleteFriendship(ctx, userID, friendID)
	if err != nil {
		return err
	}

	if !deleted {
		return ErrNotFriends
	}

	return nil
}

func (s *Service) AreFriends(ctx context.Context, a, b uuid.UUID) (bool, error) {
	return s.repo.AreFriends(ctx, a, b)
}

func (s *Service) Friends(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	return s.repo.ListFriendIDs(ctx, userID)
}

func (s *Service) IncomingRequests(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	return s.repo.ListIncomingRequestIDs(ctx, userID)
}

func (s *Service) OutgoingRequests(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	return s.repo.ListOutgoingRequestIDs(ctx, userID)
}
