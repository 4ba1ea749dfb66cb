package email

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
)

// ResendProvider sends through resend.com.
type ResendProvider struct {
	client *resend.Client
	from   string
}

func NewResendProvider(apiKey, from string) *ResendProvider {
	return &ResendProvider{
		client: resend.NewClient(apiKey),
		from:   from,
	}
}

func (p *ResendProvider) Name() string { return "resend" }

func (p *ResendProvider) SendOTP(ctx context.Context, to, code string) error {
	params := &resend.SendEmailRequest{
		From:    p.from,
		To:      []string{to},
		Subject: otpSubject,
		Html:    otpHTML(code),
	}

	if _, err := p.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("resend send: %w", err)
	}

	return nil
}
