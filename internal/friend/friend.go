// Package friend implements the friend-request state machine: a directed
// pending request becomes a symmetric friendship on accept; reject or
// withdrawal removes the request without creating a relationship.
package friend

import "errors"

var (
	ErrSelfRequest      = errors.New("cannot send a friend request to yourself")
	ErrAlreadyFriends   = errors.New("users are already friends")
	ErrDuplicateRequest = errors.New("friend request already sent")
	ErrNoRequest        = errors.New("no such friend request")
	ErrNotFriends       = errors.New("users are not friends")
	ErrUnknownUser      = errors.New("unknown user")
)
