package calculator

import (
	"container/heap"
	"math"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/money"
)

type position struct {
	userID string
	amount money.Money // magnitude, always positive
}

// positionQueue is a max-heap by amount, ties broken by ascending user id so
// the output is reproducible.
type positionQueue []position

func (q positionQueue) Len() int { return len(q) }
func (q positionQueue) Less(i, j int) bool {
	if c := q[i].amount.Cmp(q[j].amount); c != 0 {
		return c > 0
	}
	return q[i].userID < q[j].userID
}
func (q positionQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *positionQueue) Push(x any) { *q = append(*q, x.(position)) }
func (q *positionQueue) Pop() any {
	old := *q
	n := len(old)
	p := old[n-1]
	*q = old[:n-1]
	return p
}

// Simplify rewrites a group's debt rows into a smaller set that leaves every
// user's net balance unchanged.
//
// Greedy matching: repeatedly settle the largest debtor against the largest
// creditor for the smaller of the two amounts and requeue whatever is left.
// This yields at most (#creditors + #debtors - 1) rows. Finding the true
// minimum is NP-hard; the greedy result is an approximation, and when it is
// not strictly smaller than the input the input rows are returned unchanged.
func Simplify(groupID string, rows []models.PairwiseBalance) []models.PairwiseBalance {
	net := NetFromPairwise(rows)

	creditors := &positionQueue{}
	debtors := &positionQueue{}
	for _, u := range sortedUsers(net) {
		v := net[u]
		switch {
		case v.Negligible():
		case v.IsPositive():
			*creditors = append(*creditors, position{userID: u, amount: v})
		default:
			*debtors = append(*debtors, position{userID: u, amount: v.Neg()})
		}
	}
	heap.Init(creditors)
	heap.Init(debtors)

	var simplified []models.PairwiseBalance
	for creditors.Len() > 0 && debtors.Len() > 0 {
		c := heap.Pop(creditors).(position)
		d := heap.Pop(debtors).(position)

		amount := money.Min(c.amount, d.amount)
		simplified = append(simplified, models.PairwiseBalance{
			GroupID:    groupID,
			FromUserID: d.userID,
			ToUserID:   c.userID,
			Amount:     amount,
		})

		if rest := c.amount.Sub(amount); !rest.Negligible() {
			heap.Push(creditors, position{userID: c.userID, amount: rest})
		}
		if rest := d.amount.Sub(amount); !rest.Negligible() {
			heap.Push(debtors, position{userID: d.userID, amount: rest})
		}
	}

	if len(simplified) >= len(rows) {
		current := make([]models.PairwiseBalance, len(rows))
		copy(current, rows)
		return current
	}
	return simplified
}

// Preview reports what Simplify would do to rows without changing them.
func Preview(groupID string, rows []models.PairwiseBalance) models.SimplificationPreview {
	simplified := Simplify(groupID, rows)
	saved := len(rows) - len(simplified)

	var pct float64
	if len(rows) > 0 {
		pct = math.Round(float64(saved)/float64(len(rows))*1000) / 10
	}

	return models.SimplificationPreview{
		GroupID:                groupID,
		CurrentTransactions:    len(rows),
		SimplifiedTransactions: len(simplified),
		TransactionsSaved:      saved,
		PercentageSaved:        pct,
		WorthSimplifying:       saved > 0,
		Current:                rows,
		Simplified:             simplified,
	}
}
