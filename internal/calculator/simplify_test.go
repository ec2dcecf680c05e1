package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/money"
)

func row(from, to, amount string) models.PairwiseBalance {
	return models.PairwiseBalance{GroupID: "g", FromUserID: from, ToUserID: to, Amount: money.MustParse(amount)}
}

func assertSameNets(t *testing.T, before, after []models.PairwiseBalance) {
	t.Helper()
	want := NetFromPairwise(before)
	got := NetFromPairwise(after)
	for u, v := range want {
		assert.True(t, got[u].Equal(v), "user %s: net %s, want %s", u, got[u], v)
	}
	for u, v := range got {
		assert.True(t, want[u].Equal(v), "user %s appeared with net %s", u, v)
	}
}

func TestSimplify(t *testing.T) {
	tests := []struct {
		name string
		rows []models.PairwiseBalance
		want []string
	}{
		{
			name: "cycle collapses to nothing",
			rows: []models.PairwiseBalance{row("a", "b", "50.00"), row("b", "c", "50.00"), row("c", "a", "50.00")},
			want: nil,
		},
		{
			name: "chain becomes one payment",
			rows: []models.PairwiseBalance{row("a", "b", "10.00"), row("b", "c", "10.00")},
			want: []string{"a->c:10.00"},
		},
		{
			name: "partial chain",
			rows: []models.PairwiseBalance{row("a", "b", "30.00"), row("b", "c", "20.00"), row("a", "c", "5.00")},
			want: []string{"a->c:25.00", "a->b:10.00"},
		},
		{
			name: "already minimal is returned as is",
			rows: []models.PairwiseBalance{row("b", "a", "10.00"), row("c", "a", "10.00")},
			want: []string{"b->a:10.00", "c->a:10.00"},
		},
		{
			name: "empty",
			rows: nil,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Simplify("g", tt.rows)

			assert.Equal(t, tt.want, rowStrings(got))
			assert.LessOrEqual(t, len(got), len(tt.rows))
			assertSameNets(t, tt.rows, got)
		})
	}
}

func TestSimplifyNeverIncreasesRowCount(t *testing.T) {
	// Greedy largest-first matching needs four rows here while three suffice.
	rows := []models.PairwiseBalance{
		row("x", "q", "3.00"),
		row("x", "r", "3.00"),
		row("y", "p", "4.00"),
	}

	got := Simplify("g", rows)

	assert.Equal(t, rowStrings(rows), rowStrings(got))
}

func TestSimplifyBoundsAndDeterminism(t *testing.T) {
	expenses := []*models.Expense{
		resolvedExpense(t, "e1", "120.00", "a", "a", "b", "c", "d", "e"),
		resolvedExpense(t, "e2", "75.25", "b", "a", "c", "e"),
		resolvedExpense(t, "e3", "19.99", "c", "b", "d"),
		resolvedExpense(t, "e4", "64.10", "e", "a", "b", "c", "d", "e"),
	}
	net, _ := NetBalances(expenses, nil)
	rows := PairwiseBalances("g", net)

	got := Simplify("g", rows)

	creditors, debtors := 0, 0
	for _, v := range net {
		switch {
		case v.IsPositive():
			creditors++
		case v.IsNegative():
			debtors++
		}
	}
	assert.LessOrEqual(t, len(got), len(rows))
	if creditors > 0 && debtors > 0 {
		assert.LessOrEqual(t, len(got), creditors+debtors-1)
	}
	assertSameNets(t, rows, got)
	assert.Equal(t, rowStrings(got), rowStrings(Simplify("g", rows)))
}

func TestPreview(t *testing.T) {
	rows := []models.PairwiseBalance{row("a", "b", "50.00"), row("b", "c", "50.00"), row("c", "a", "50.00")}

	p := Preview("g", rows)

	assert.Equal(t, "g", p.GroupID)
	assert.Equal(t, 3, p.CurrentTransactions)
	assert.Equal(t, 0, p.SimplifiedTransactions)
	assert.Equal(t, 3, p.TransactionsSaved)
	assert.Equal(t, 100.0, p.PercentageSaved)
	assert.True(t, p.WorthSimplifying)
	assert.Len(t, p.Current, 3)
	assert.Empty(t, p.Simplified)
}

func TestPreviewRoundsPercentage(t *testing.T) {
	rows := []models.PairwiseBalance{row("a", "b", "10.00"), row("b", "c", "10.00"), row("d", "c", "5.00")}

	p := Preview("g", rows)

	require.Equal(t, 2, p.SimplifiedTransactions)
	assert.Equal(t, 1, p.TransactionsSaved)
	assert.Equal(t, 33.3, p.PercentageSaved)
}

func TestPreviewNothingToDo(t *testing.T) {
	p := Preview("g", nil)

	assert.Equal(t, 0, p.CurrentTransactions)
	assert.Equal(t, 0.0, p.PercentageSaved)
	assert.False(t, p.WorthSimplifying)
}
