package models

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/money"
)

// SplitType selects how an expense amount is divided among participants.
type SplitType string

const (
	SplitEqual      SplitType = "equal"
	SplitUnequal    SplitType = "unequal"
	SplitPercentage SplitType = "percentage"
)

// Valid reports whether t is a known split type.
func (t SplitType) Valid() bool {
	switch t {
	case SplitEqual, SplitUnequal, SplitPercentage:
		return true
	}
	return false
}

// Participant is one entry in an expense's ordered participant list.
//
// Weight is interpreted per split type:
//   - equal: ignored
//   - unequal: the exact amount owed
//   - percentage: the percentage of the total owed
type Participant struct {
	UserID string
	Weight decimal.Decimal
}

// Expense is a payment made by one member on behalf of some participants.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// GroupID is the group this expense belongs to.
	GroupID string

	// Description is a free-form label (e.g., "Groceries").
	Description string

	// Amount is the total paid. Always positive.
	Amount money.Money

	// Currency is a display label only.
	Currency string

	// PayerID is the member who paid the full amount.
	PayerID string

	// SplitType decides how Participants' weights are read.
	SplitType SplitType

	// Participants is the ordered input to the split. Order matters: the
	// remainder cents of a split go to the earliest participants.
	Participants []Participant

	// Shares is the resolved split. Populated by the split resolver and
	// persisted alongside the expense; their amounts sum exactly to Amount.
	Shares []ExpenseShare

	// CreatedBy is the user ID who recorded the expense.
	CreatedBy string

	// CreatedAt and UpdatedAt are Unix timestamps.
	CreatedAt int64
	UpdatedAt int64
}

// ExpenseShare is one participant's portion of an expense.
type ExpenseShare struct {
	ExpenseID string
	UserID    string
	Amount    money.Money

	// Percentage is set only for percentage splits.
	Percentage *decimal.Decimal
}
