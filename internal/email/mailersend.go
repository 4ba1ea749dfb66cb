package email

import (
	"context"
	"fmt"

	"github.com/mailersend/mailersend-go"
)

// MailerSendProvider sends through mailersend.com.
type MailerSendProvider struct {
	client   *mailersend.Mailersend
	from     string
	fromName string
}

func NewMailerSendProvider(apiKey, from, fromName string) *MailerSendProvider {
	return &MailerSendProvider{
		client:   mailersend.NewMailersend(apiKey),
		from:     from,
		fromName: fromName,
	}
}

func (p *MailerSendProvider) Name() string { return "mailersend" }

func (p *MailerSendProvider) SendOTP(ctx context.Context, to, code string) error {
	message := p.client.Email.NewMessage()
	message.SetFrom(mailersend.From{Name: p.fromName, Email: p.from})
	message.SetRecipients([]mailersend.Recipient{{Email: to}})
	message.SetSubject(otpSubject)
	message.SetHTML(otpHTML(code))

	if _, err := p.client.Email.Send(ctx, message); err != nil {
		return fmt.Errorf("mailersend send: %w", err)
	}

	return nil
}
