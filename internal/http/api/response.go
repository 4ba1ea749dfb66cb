package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/squareupapp/squareup-server/internal/contribution"
	"github.com/squareupapp/squareup-server/internal/money"
	"github.com/squareupapp/squareup-server/internal/user"
)

// UserSummary is the public user projection attached to feeds, groups, and
// search results. Field names match what the mobile client decodes.
type UserSummary struct {
	UserID    uuid.UUID `json:"user_id"`
	Username  string    `json:"username"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Name      string    `json:"name"`
}

func ToUserSummary(s user.Summary) UserSummary {
	return UserSummary{
		UserID:    s.ID,
		Username:  s.Username,
		FirstName: s.FirstName,
		LastName:  s.LastName,
		Name:      s.Name,
	}
}

func ToUserSummaries(summaries []user.Summary) []UserSummary {
	resp := make([]UserSummary, len(summaries))
	for i, s := range summaries {
		resp[i] = ToUserSummary(s)
	}

	return resp
}

// Contribution is the wire form of a payment event. Amounts serialize as
// fixed-point decimal strings via money.Amount.
type Contribution struct {
	ContributionID  uuid.UUID               `json:"contribution_id"`
	TransactionID   uuid.UUID               `json:"transaction_id"`
	SenderID        uuid.UUID               `json:"sender_id"`
	Description     string                  `json:"description"`
	TotalAmount     money.Amount            `json:"total_amount"`
	ReceiverAmounts map[string]money.Amount `json:"receiver_amounts"`
	CreatedAt       time.Time               `json:"created_at"`
}

func ToContribution(c *contribution.Contribution) Contribution {
	receivers := make(map[string]money.Amount, len(c.ReceiverAmounts))
	for id, amount := range c.ReceiverAmounts {
		receivers[id.String()] = amount
	}

	return Contribution{
		ContributionID:  c.ID,
		TransactionID:   c.GroupID,
		SenderID:        c.SenderID,
		Description:     c.Description,
		TotalAmount:     c.TotalAmount,
		ReceiverAmounts: receivers,
		CreatedAt:       c.CreatedAt,
	}
}

func ToContributions(contributions []*contribution.Contribution) []Contribution {
	resp := make([]Contribution, len(contributions))
	for i, c := range contributions {
		resp[i] = ToContribution(c)
	}

	return resp
}
