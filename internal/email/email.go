// Package email delivers transactional mail through third-party providers,
// trying each configured provider in order until one succeeds.
package email

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

var ErrNoProviders = errors.New("no email providers configured")

// Provider sends one kind of mail we care about today: OTP codes.
type Provider interface {
	Name() string
	SendOTP(ctx context.Context, to, code string) error
}

// Sender fans a send out across providers with fallback. The first provider
// is primary; the rest only see traffic when everything before them failed.
type Sender struct {
	providers []Provider
}

func NewSender(providers ...Provider) *Sender {
	return &Sender{providers: providers}
}

func (s *Sender) SendOTP(ctx context.Context, to, code string) error {
	if len(s.providers) == 0 {
		return ErrNoProviders
	}

	var lastErr error

	for _, p := range s.providers {
		err := p.SendOTP(ctx, to, code)
		if err == nil {
			slog.Info("otp email sent", "provider", p.Name())
			return nil
		}

		slog.Warn("email provider failed", "provider", p.Name(), "error", err)
		lastErr = err
	}

	return fmt.Errorf("all email providers failed: %w", lastErr)
}

const otpSubject = "Your SquareUp verification code"

func otpHTML(code string) string {
	return fmt.Sprintf(`<div style="font-family: sans-serif; max-width: 480px; margin: 0 auto;">
	<h2>SquareUp</h2>
	<p>Use this code to reset your password. It expires in 10 minutes.</p>
	<p style="font-size: 32px; font-weight: bold; letter-spacing: 6px;">%s</p>
	<p>If you didn't request this, you can ignore this email.</p>
</div>`, code)
}
