package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/squareupapp/squareup-server/internal/user"
)

var ErrInvalidOTP = errors.New("invalid or expired code")

// Mailer delivers one-time codes. Implemented by the email package.
type Mailer interface {
	SendOTP(ctx context.Context, to, code string) error
}

//go:generate mockgen -source=otp.go -destination=otp_mock.go -package=auth
type OTPRepository interface {
	CreateOTP(ctx context.Context, email, codeHash string, expiresAt time.Time) error
	// LatestActiveOTP returns the newest unconsumed, unexpired code hash for
	// the address, or user.ErrNotFound when none exists.
	LatestActiveOTP(ctx context.Context, email string) (id int64, codeHash string, err error)
	ConsumeOTP(ctx context.Context, id int64) error
}

// UserLookup is the slice of the user service the OTP flow needs.
type UserLookup interface {
	EmailAvailable(ctx context.Context, email string) (bool, error)
	ResetPassword(ctx context.Context, email, newPassword string) error
}

// OTPService runs the email-code password reset flow.
type OTPService struct {
	repo   OTPRepository
	users  UserLookup
	mailer Mailer
	ttl    time.Duration
}

func NewOTPService(repo OTPRepository, users UserLookup, mailer Mailer, ttl time.Duration) *OTPService {
	return &OTPService{repo: repo, users: users, mailer: mailer, ttl: ttl}
}

// Send generates, stores, and emails a fresh code. Unknown addresses return
// success without sending anything, so the endpoint cannot be used to probe
// which emails have accounts.
func (s *OTPService) Send(ctx context.Context, email string) error {
	available, err := s.users.EmailAvailable(ctx, email)
	if err != nil {
		return err
	}

	if available {
		slog.Info("otp requested for unknown email", "email", email)
		return nil
	}

	code, err := generateCode()
	if err != nil {
		return fmt.Errorf("generating code: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing code: %w", err)
	}

	if err := s.repo.CreateOTP(ctx, email, string(hash), time.Now().Add(s.ttl)); err != nil {
		return err
	}

	return s.mailer.SendOTP(ctx, email, code)
}

// ResetPassword verifies the code, consumes it, and sets the new password.
// Each code works at most once.
func (s *OTPService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	id, hash, err := s.repo.LatestActiveOTP(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return ErrInvalidOTP
		}

		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)); err != nil {
		return ErrInvalidOTP
	}

	if err := s.repo.ConsumeOTP(ctx, id); err != nil {
		return err
	}

	return s.users.ResetPassword(ctx, email, newPassword)
}

// generateCode returns a uniformly random 6-digit code.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%06d", n.Int64()), nil
}
