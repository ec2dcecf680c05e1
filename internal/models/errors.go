package models

import "errors"

// Validation errors. These are safe to show to the caller and are always
// returned before any state changes.
var (
	ErrInvalidSplit         = errors.New("invalid split")
	ErrSplitSumMismatch     = errors.New("split amounts do not add up to the expense total")
	ErrDuplicateParticipant = errors.New("participant listed more than once")
	ErrSelfSettlement       = errors.New("payer and receiver must be different users")
	ErrNonPositiveAmount    = errors.New("amount must be greater than zero")
	ErrNotGroupMember       = errors.New("user is not a member of the group")
)

var (
	// ErrRecalculationFailure wraps any failure while rebuilding a group's
	// balances. The unit of work that triggered it has been rolled back.
	ErrRecalculationFailure = errors.New("balance recalculation failed")

	// ErrNotFound is returned when a group, expense or settlement does not exist.
	ErrNotFound = errors.New("not found")
)

// IsValidation reports whether err is one of the caller-facing validation errors.
func IsValidation(err error) bool {
	for _, target := range []error{
		ErrInvalidSplit,
		ErrSplitSumMismatch,
		ErrDuplicateParticipant,
		ErrSelfSettlement,
		ErrNonPositiveAmount,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
