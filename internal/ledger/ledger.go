// Package ledger implements the settlement netting engine: given the
// contributions recorded in a group it derives each member's net balance and
// the directed pairwise debts that remain after opposing obligations cancel.
package ledger

import (
	"github.com/google/uuid"

	"github.com/squareupapp/squareup-server/internal/money"
)

// Entry is the slice of a contribution the engine cares about: who paid and
// how much each receiver owes them back.
type Entry struct {
	SenderID        uuid.UUID
	ReceiverAmounts map[uuid.UUID]money.Amount
}

// Balances is the derived state of a group's ledger.
type Balances struct {
	// Net maps every member to their signed balance: positive means the group
	// owes them, negative means they owe the group. Sums to zero.
	Net map[uuid.UUID]money.Amount
	// Debts maps debtor -> creditor -> amount. For any pair at most one
	// direction is present, and every amount is strictly positive.
	Debts map[uuid.UUID]map[uuid.UUID]money.Amount
}

type pair struct {
	debtor   uuid.UUID
	creditor uuid.UUID
}

// Compute derives balances from the full list of a group's contributions.
// members seeds the net map so inactive members still appear with a zero
// balance. The computation is pure and deterministic: recomputing on an
// unchanged entry list yields identical output.
func Compute(members []uuid.UUID, entries []Entry) Balances {
	net := make(map[uuid.UUID]money.Amount, len(members))
	for _, m := range members {
		net[m] = 0
	}

	// Raw directed debt accumulated across all contributions. raw[{d, c}] is
	// the total receiver d owes sender c before netting.
	raw := make(map[pair]money.Amount)

	for _, e := range entries {
		for receiver, amount := range e.ReceiverAmounts {
			if receiver == e.SenderID {
				continue
			}

			net[e.SenderID] += amount
			net[receiver] -= amount
			raw[pair{debtor: receiver, creditor: e.SenderID}] += amount
		}
	}

	debts := make(map[uuid.UUID]map[uuid.UUID]money.Amount)

	for p, owed := range raw {
		reverse := raw[pair{debtor: p.creditor, creditor: p.debtor}]
		if owed <= reverse {
			// The reverse direction wins (or the pair nets to zero); it is
			// emitted when the loop reaches it.
			continue
		}

		if debts[p.debtor] == nil {
			debts[p.debtor] = make(map[uuid.UUID]money.Amount)
		}

		debts[p.debtor][p.creditor] = owed - reverse
	}

	return Balances{Net: net, Debts: debts}
}
