package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=user
type Repository interface {
	CreateUser(ctx context.Context, u *User) error
	GetUser(ctx context.Context, id uuid.UUID) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	SearchByUsernamePrefix(ctx context.Context, prefix string, limit int) ([]*User, error)
	UserExists(ctx context.Context, id uuid.UUID) (bool, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type RegisterParams struct {
	Email     string
	Username  string
	FirstName string
	LastName  string
	Password  string
}

const searchLimit = 20

func (s *Service) Register(ctx context.Context, params RegisterParams) (*User, error) {
	if len(params.Password) < 8 {
		return nil, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	u := &User{
		Email:        normalizeEmail(params.Email),
		Username:     normalizeUsername(params.Username),
		FirstName:    strings.TrimSpace(params.FirstName),
		LastName:     strings.TrimSpace(params.LastName),
		PasswordHash: string(hash),
	}
	if err := s.repo.CreateUser(ctx, u); err != nil {
		return nil, err
	}

	return u, nil
}

// Authenticate verifies credentials. The identifier may be an email address or
// a username; the caller cannot tell which lookup failed.
func (s *Service) Authenticate(ctx context.Context, identifier, password string) (*User, error) {
	var (
		u   *User
		err error
	)

	if strings.Contains(identifier, "@") {
		u, err = s.repo.GetUserByEmail(ctx, normalizeEmail(identifier))
	} else {
		u, err = s.repo.GetUserByUsername(ctx, normalizeUsername(identifier))
	}

	if err != nil {
		return nil, ErrNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrNotFound
	}

	return u, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.GetUser(ctx, id)
}

func (s *Service) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.repo.UserExists(ctx, id)
}

// EmailAvailable reports whether no account uses the address yet.
func (s *Service) EmailAvailable(ctx context.Context, email string) (bool, error) {
	_, err := s.repo.GetUserByEmail(ctx, normalizeEmail(email))
	if err == nil {
		return false, nil
	}

	if errors.Is(err, ErrNotFound) {
		return true, nil
	}

	return false, err
}

func (s *Service) UsernameAvailable(ctx context.Context, username string) (bool, error) {
	_, err := s.repo.GetUserByUsername(ctx, normalizeUsername(username))
	if err == nil {
		return false, nil
	}

	if errors.Is(err, ErrNotFound) {
		return true, nil
	}

	return false, err
}

// ResetPassword replaces the password for the account behind email. The OTP
// check happens in the auth package before this is called.
func (s *Service) ResetPassword(ctx context.Context, email, newPassword string) error {
	if len(newPassword) < 8 {
		return ErrWeakPassword
	}

	u, err := s.repo.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	return s.repo.UpdatePassword(ctx, u.ID, string(hash))
}

// Search matches usernames by case-insensitive prefix.
func (s *Service) Search(ctx context.Context, prefix string) ([]Summary, error) {
	prefix = normalizeUsername(prefix)
	if prefix == "" {
		return nil, nil
	}

	users, err := s.repo.SearchByUsernamePrefix(ctx, prefix, searchLimit)
	if err != nil {
		return nil, err
	}

	summaries := make([]Summary, len(users))
	for i, u := range users {
		summaries[i] = u.Summary()
	}

	return summaries, nil
}

// Summaries resolves display details for a set of user ids, e.g. everyone
// referenced by a feed page. Unknown ids are skipped.
func (s *Service) Summaries(ctx context.Context, ids []uuid.UUID) ([]Summary, error) {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	summaries := make([]Summary, 0, len(ids))

	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}

		seen[id] = struct{}{}

		u, err := s.repo.GetUser(ctx, id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}

			return nil, err
		}

		summaries = append(summaries, u.Summary())
	}

	return summaries, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func normalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
