package groups

import (
	"time"

	"github.com/google/uuid"

	"github.com/squareupapp/squareup-server/internal/group"
	"github.com/squareupapp/squareup-server/internal/http/api"
	"github.com/squareupapp/squareup-server/internal/money"
)

// transactionResponse is the wire form of a group. The mobile client calls
// groups "transactions", so the legacy field names stay.
type transactionResponse struct {
	TransactionID uuid.UUID                          `json:"transaction_id"`
	Name          string                             `json:"name"`
	UserIDs       []uuid.UUID                        `json:"user_ids"`
	Contributions []api.Contribution                 `json:"contributions"`
	NetAmounts    map[string]money.Amount            `json:"net_amounts"`
	Debts         map[string]map[string]money.Amount `json:"debts"`
	VotesToDelete []uuid.UUID                        `json:"votes_to_delete"`
	CreatedAt     time.Time                          `json:"created_at"`
	CreatedBy     uuid.UUID                          `json:"created_by"`
}

func toResponse(v *group.View) transactionResponse {
	nets := make(map[string]money.Amount, len(v.Balances.Net))
	for id, amount := range v.Balances.Net {
		nets[id.String()] = amount
	}

	debts := make(map[string]map[string]money.Amount, len(v.Balances.Debts))
	for debtor, owed := range v.Balances.Debts {
		inner := make(map[string]money.Amount, len(owed))
		for creditor, amount := range owed {
			inner[creditor.String()] = amount
		}

		debts[debtor.String()] = inner
	}

	return transactionResponse{
		TransactionID: v.Group.ID,
		Name:          v.Group.Name,
		UserIDs:       v.Group.MemberIDs,
		Contributions: api.ToContributions(v.Contributions),
		NetAmounts:    nets,
		Debts:         debts,
		VotesToDelete: v.Group.VotesToDelete,
		CreatedAt:     v.Group.CreatedAt,
		CreatedBy:     v.Group.CreatedBy,
	}
}

func toResponseList(views []*group.View) []transactionResponse {
	resp := make([]transactionResponse, len(views))
	for i, v := range views {
		resp[i] = toResponse(v)
	}

	return resp
}
