package ledger_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/squareupapp/squareup-server/internal/ledger"
	"github.com/squareupapp/squareup-server/internal/money"
)

func cents(n int64) money.Amount { return money.Amount(n) }

func TestCompute_WorkedExample(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	members := []uuid.UUID{a, b, c}

	// A pays $30 split {B: $15, C: $15}; B pays $10 split {A: $10}.
	entries := []ledger.Entry{
		{SenderID: a, ReceiverAmounts: map[uuid.UUID]money.Amount{b: cents(1500), c: cents(1500)}},
		{SenderID: b, ReceiverAmounts: map[uuid.UUID]money.Amount{a: cents(1000)}},
	}

	got := ledger.Compute(members, entries)

	assert.Equal(t, cents(2000), got.Net[a])
	assert.Equal(t, cents(-500), got.Net[b])
	assert.Equal(t, cents(-1500), got.Net[c])

	require.Len(t, got.Debts, 2)
	assert.Equal(t, cents(500), got.Debts[b][a])
	assert.Equal(t, cents(1500), got.Debts[c][a])
}

func TestCompute_EmptyGroup(t *testing.T) {
	a, b := uuid.New(), uuid.New()

	got := ledger.Compute([]uuid.UUID{a, b}, nil)

	assert.Equal(t, cents(0), got.Net[a])
	assert.Equal(t, cents(0), got.Net[b])
	assert.Empty(t, got.Debts)
}

func TestCompute_OppositeDebtsCancelExactly(t *testing.T) {
	a, b := uuid.New(), uuid.New()

	entries := []ledger.Entry{
		{SenderID: a, ReceiverAmounts: map[uuid.UUID]money.Amount{b: cents(1250)}},
		{SenderID: b, ReceiverAmounts: map[uuid.UUID]money.Amount{a: cents(1250)}},
	}

	got := ledger.Compute([]uuid.UUID{a, b}, entries)

	assert.Equal(t, cents(0), got.Net[a])
	assert.Equal(t, cents(0), got.Net[b])
	assert.Empty(t, got.Debts, "a fully netted pair must not emit a zero debt")
}

func TestCompute_Properties(t *testing.T) {
	a, b, c, d := uuid.New(), uuid.New(), uuid.New(), uuid.New()
	members := []uuid.UUID{a, b, c, d}

	entries := []ledger.Entry{
		{SenderID: a, ReceiverAmounts: map[uuid.UUID]money.Amount{b: cents(733), c: cents(733), d: cents(734)}},
		{SenderID: b, ReceiverAmounts: map[uuid.UUID]money.Amount{a: cents(1999)}},
		{SenderID: c, ReceiverAmounts: map[uuid.UUID]money.Amount{b: cents(50), d: cents(1)}},
		{SenderID: d, ReceiverAmounts: map[uuid.UUID]money.Amount{a: cents(734)}},
		{SenderID: b, ReceiverAmounts: map[uuid.UUID]money.Amount{c: cents(733)}},
	}

	got := ledger.Compute(members, entries)

	var sum money.Amount
	for _, n := range got.Net {
		sum += n
	}
	assert.Equal(t, cents(0), sum, "net amounts must sum to zero")

	for debtor, creditors := range got.Debts {
		for creditor, amount := range creditors {
			assert.Positive(t, int64(amount), "debt %s -> %s must be positive", debtor, creditor)
			_, reversed := got.Debts[creditor][debtor]
			assert.False(t, reversed, "both directions present for pair %s/%s", debtor, creditor)
		}
	}

	again := ledger.Compute(members, entries)
	assert.Equal(t, got, again, "recomputation on unchanged input must be identical")
}

func TestCompute_PartialNetLeavesDifference(t *testing.T) {
	a, b := uuid.New(), uuid.New()

	entries := []ledger.Entry{
		{SenderID: a, ReceiverAmounts: map[uuid.UUID]money.Amount{b: cents(1500)}},
		{SenderID: b, ReceiverAmounts: map[uuid.UUID]money.Amount{a: cents(1000)}},
	}

	got := ledger.Compute([]uuid.UUID{a, b}, entries)

	require.Len(t, got.Debts, 1)
	assert.Equal(t, cents(500), got.Debts[b][a])
	_, hasReverse := got.Debts[a]
	assert.False(t, hasReverse)
}
