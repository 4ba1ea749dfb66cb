package contribution

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/squareupapp/squareup-server/internal/money"
)

var (
	ErrGroupNotFound = errors.New("group not found")
	ErrNotMember     = errors.New("user is not a member of the group")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrNotFound      = errors.New("contribution not found")
)

// Contribution is one immutable payment event inside a group: the sender paid
// TotalAmount and each receiver owes the sender their share.
type Contribution struct {
	ID              uuid.UUID
	GroupID         uuid.UUID
	SenderID        uuid.UUID
	Description     string
	TotalAmount     money.Amount
	ReceiverAmounts map[uuid.UUID]money.Amount
	CreatedAt       time.Time
}
