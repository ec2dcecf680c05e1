package models

import "github.com/mmynk/splitledger/internal/money"

// Settlement represents a payment between group members to clear debts.
// Settlements are append-only.
type Settlement struct {
	// ID is the unique identifier for the settlement (UUID format).
	ID string

	// GroupID is the group this settlement belongs to.
	GroupID string

	// PayerID is the user who paid (debtor settling up).
	PayerID string

	// ReceiverID is the user who received payment (creditor being paid).
	ReceiverID string

	// Amount is the payment amount. Always positive.
	Amount money.Money

	// Currency is a display label only; no conversion is ever applied.
	Currency string

	// Note is an optional description for the settlement.
	Note string

	// CreatedBy is the user ID who recorded this settlement.
	CreatedBy string

	// CreatedAt is the Unix timestamp when the settlement was recorded.
	CreatedAt int64
}
