package group

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound      = errors.New("group not found")
	ErrEmptyName     = errors.New("group name required")
	ErrNotAMember    = errors.New("user is not a member of the group")
	ErrTooFewMembers = errors.New("a group needs at least two members")
	ErrUnknownMember = errors.New("unknown member")
	ErrNotFriends    = errors.New("members must be friends of the creator")
)

// Group is a named set of users sharing expenses. The app calls this a
// "transaction" on the wire. Membership is fixed at creation.
type Group struct {
	ID            uuid.UUID
	Name          string
	CreatedBy     uuid.UUID
	MemberIDs     []uuid.UUID
	VotesToDelete []uuid.UUID
	CreatedAt     time.Time
}

func (g *Group) IsMember(userID uuid.UUID) bool {
	for _, id := range g.MemberIDs {
		if id == userID {
			return true
		}
	}

	return false
}

func (g *Group) HasVoted(userID uuid.UUID) bool {
	for _, id := range g.VotesToDelete {
		if id == userID {
			return true
		}
	}

	return false
}
