package user

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound      = errors.New("user not found")
	ErrEmailTaken    = errors.New("email already registered")
	ErrUsernameTaken = errors.New("username already taken")
	ErrWeakPassword  = errors.New("password must be at least 8 characters")
)

// User is a registered account.
type User struct {
	ID           uuid.UUID
	Email        string
	Username     string
	FirstName    string
	LastName     string
	PasswordHash string
	CreatedAt    time.Time
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Summary is the public projection of a user attached to feeds and groups.
type Summary struct {
	ID        uuid.UUID
	Username  string
	FirstName string
	LastName  string
	Name      string
}

func (u *User) Summary() Summary {
	return Summary{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Name:      u.FullName(),
	}
}
