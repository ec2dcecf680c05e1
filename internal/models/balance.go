package models

import "github.com/mmynk/splitledger/internal/money"

// PairwiseBalance records that FromUserID owes ToUserID Amount within a group.
// Amount is always positive and at most one direction exists between two users.
type PairwiseBalance struct {
	GroupID    string      `json:"group_id"`
	FromUserID string      `json:"from_user_id"`
	ToUserID   string      `json:"to_user_id"`
	Amount     money.Money `json:"amount"`
}

// Counterparty is one side of a user's balance view.
type Counterparty struct {
	GroupID string
	UserID  string
	Amount  money.Money
}

// UserBalances is a user's position, either within one group or across all
// of their groups when GroupID is empty.
type UserBalances struct {
	UserID  string
	GroupID string

	// Owes lists who the user owes money to.
	Owes []Counterparty

	// Owed lists who owes the user money.
	Owed []Counterparty

	TotalOwes money.Money
	TotalOwed money.Money

	// Net is TotalOwed - TotalOwes. Positive means the user is a creditor.
	Net money.Money
}

// BalanceMatrix is an N×N view of a group's pairwise balances.
// Amounts[i][j] is what Members[i] owes Members[j], zero where no row exists.
type BalanceMatrix struct {
	GroupID string
	Members []string
	Amounts [][]money.Money
}

// At returns what from owes to, or zero if either is not a member.
func (m *BalanceMatrix) At(from, to string) money.Money {
	i, j := -1, -1
	for k, id := range m.Members {
		if id == from {
			i = k
		}
		if id == to {
			j = k
		}
	}
	if i < 0 || j < 0 {
		return money.Zero
	}
	return m.Amounts[i][j]
}

// SimplificationPreview describes what simplifying a group's debts would do
// without changing anything.
type SimplificationPreview struct {
	GroupID                string
	CurrentTransactions    int
	SimplifiedTransactions int
	TransactionsSaved      int

	// PercentageSaved is rounded to one decimal place.
	PercentageSaved float64

	WorthSimplifying bool

	Current    []PairwiseBalance
	Simplified []PairwiseBalance
}

// SimplifyResult reports the outcome of committing a simplification.
type SimplifyResult struct {
	GroupID string
	Before  int
	After   int

	// Applied is false when the rows were already minimal and nothing changed.
	Applied bool
	Rows    []PairwiseBalance
}
