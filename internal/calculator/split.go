// Package calculator holds the pure ledger arithmetic: resolving an expense
// into shares, folding a group's history into net balances, pairing those
// nets into stored rows and simplifying the resulting debt graph.
// Nothing in this package performs I/O.
package calculator

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/money"
)

var hundred = decimal.NewFromInt(100)

// ResolveSplit computes each participant's share of the expense. The shares
// always sum exactly to the expense amount.
//
// Split rules:
//   - equal: amount/n at two places, leftover cents one each to the first
//     participants in input order
//   - unequal: weights are the exact amounts and must add up to the total
//   - percentage: weights must add up to 100; each share is rounded half-up
//     and the cent difference is moved one cent at a time across the
//     participants with a positive percentage, in input order
//
// If the payer is not among the participants a zero share is appended for
// them, so every expense carries a share row for its payer.
func ResolveSplit(e *models.Expense) ([]models.ExpenseShare, error) {
	if !e.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: expense amount %s", models.ErrNonPositiveAmount, e.Amount)
	}
	if len(e.Participants) == 0 {
		return nil, fmt.Errorf("%w: no participants", models.ErrInvalidSplit)
	}
	if e.PayerID == "" {
		return nil, fmt.Errorf("%w: payer is required", models.ErrInvalidSplit)
	}

	seen := make(map[string]bool, len(e.Participants))
	for _, p := range e.Participants {
		if p.UserID == "" {
			return nil, fmt.Errorf("%w: participant without user id", models.ErrInvalidSplit)
		}
		if seen[p.UserID] {
			return nil, fmt.Errorf("%w: %s", models.ErrDuplicateParticipant, p.UserID)
		}
		seen[p.UserID] = true
	}

	var shares []models.ExpenseShare
	var err error
	switch e.SplitType {
	case models.SplitEqual:
		shares = splitEqual(e)
	case models.SplitUnequal:
		shares, err = splitUnequal(e)
	case models.SplitPercentage:
		shares, err = splitPercentage(e)
	default:
		return nil, fmt.Errorf("%w: unknown split type %q", models.ErrInvalidSplit, e.SplitType)
	}
	if err != nil {
		return nil, err
	}

	if !seen[e.PayerID] {
		payerShare := models.ExpenseShare{ExpenseID: e.ID, UserID: e.PayerID, Amount: money.Zero}
		if e.SplitType == models.SplitPercentage {
			zero := decimal.Zero
			payerShare.Percentage = &zero
		}
		shares = append(shares, payerShare)
	}

	return shares, nil
}

func splitEqual(e *models.Expense) []models.ExpenseShare {
	parts := e.Amount.Allocate(len(e.Participants))
	shares := make([]models.ExpenseShare, len(e.Participants))
	for i, p := range e.Participants {
		shares[i] = models.ExpenseShare{ExpenseID: e.ID, UserID: p.UserID, Amount: parts[i]}
	}
	return shares
}

func splitUnequal(e *models.Expense) ([]models.ExpenseShare, error) {
	shares := make([]models.ExpenseShare, len(e.Participants))
	total := money.Zero
	for i, p := range e.Participants {
		if p.Weight.IsNegative() {
			return nil, fmt.Errorf("%w: negative amount for %s", models.ErrInvalidSplit, p.UserID)
		}
		if !p.Weight.Equal(p.Weight.Round(money.Scale)) {
			return nil, fmt.Errorf("%w: amount for %s has more than two decimal places", models.ErrInvalidSplit, p.UserID)
		}
		amount := money.FromDecimal(p.Weight)
		shares[i] = models.ExpenseShare{ExpenseID: e.ID, UserID: p.UserID, Amount: amount}
		total = total.Add(amount)
	}
	if !total.Equal(e.Amount) {
		return nil, fmt.Errorf("%w: shares total %s, expense is %s", models.ErrSplitSumMismatch, total, e.Amount)
	}
	return shares, nil
}

func splitPercentage(e *models.Expense) ([]models.ExpenseShare, error) {
	pctTotal := decimal.Zero
	for _, p := range e.Participants {
		if p.Weight.IsNegative() {
			return nil, fmt.Errorf("%w: negative percentage for %s", models.ErrInvalidSplit, p.UserID)
		}
		pctTotal = pctTotal.Add(p.Weight)
	}
	if !pctTotal.Equal(hundred) {
		return nil, fmt.Errorf("%w: percentages total %s, expected 100", models.ErrSplitSumMismatch, pctTotal)
	}

	shares := make([]models.ExpenseShare, len(e.Participants))
	total := money.Zero
	for i, p := range e.Participants {
		pct := p.Weight
		amount := e.Amount.Percent(pct)
		shares[i] = models.ExpenseShare{ExpenseID: e.ID, UserID: p.UserID, Amount: amount, Percentage: &pct}
		total = total.Add(amount)
	}

	diff := e.Amount.Sub(total).Cents()
	step := money.FromCents(1)
	if diff < 0 {
		step = step.Neg()
		diff = -diff
	}
	for diff > 0 {
		moved := false
		for i := range shares {
			if diff == 0 {
				break
			}
			if !shares[i].Percentage.IsPositive() {
				continue
			}
			next := shares[i].Amount.Add(step)
			if next.IsNegative() {
				continue
			}
			shares[i].Amount = next
			diff--
			moved = true
		}
		if !moved {
			return nil, fmt.Errorf("%w: cannot distribute rounding remainder", models.ErrInvalidSplit)
		}
	}

	return shares, nil
}
