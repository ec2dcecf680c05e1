package calculator

import (
	"sort"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/money"
)

// SkippedExpense names an expense left out of a balance computation because
// its stored shares cannot be trusted.
type SkippedExpense struct {
	ExpenseID string
	Reason    string
}

// NetBalances replays a group's full history into one signed amount per user.
// Positive means the user is owed money, negative means they owe.
//
// Algorithm:
//   - expense: payer += amount, then every share's user -= share amount
//   - settlement: payer += amount, receiver -= amount
//
// Expenses with no shares, or whose shares do not add up to the amount, are
// skipped and reported so the caller can log them. The result always sums to
// exactly zero.
func NetBalances(expenses []*models.Expense, settlements []*models.Settlement) (map[string]money.Money, []SkippedExpense) {
	net := make(map[string]money.Money)
	var skipped []SkippedExpense

	for _, e := range expenses {
		if len(e.Shares) == 0 {
			skipped = append(skipped, SkippedExpense{ExpenseID: e.ID, Reason: "expense has no shares"})
			continue
		}
		total := money.Zero
		for _, s := range e.Shares {
			total = total.Add(s.Amount)
		}
		if !total.Equal(e.Amount) {
			skipped = append(skipped, SkippedExpense{ExpenseID: e.ID, Reason: "shares total " + total.String() + ", expense is " + e.Amount.String()})
			continue
		}

		net[e.PayerID] = net[e.PayerID].Add(e.Amount)
		for _, s := range e.Shares {
			net[s.UserID] = net[s.UserID].Sub(s.Amount)
		}
	}

	for _, s := range settlements {
		net[s.PayerID] = net[s.PayerID].Add(s.Amount)
		net[s.ReceiverID] = net[s.ReceiverID].Sub(s.Amount)
	}

	return net, skipped
}

// PairwiseBalances turns net balances into stored debt rows. Users are
// visited in ascending id order and each (i, j) pair with opposite signs gets
// one row for min(|debtor|, creditor). Residuals are consumed as rows are
// emitted, so the rows reproduce the nets exactly. The result is
// deterministic for a given input but not minimal; see Simplify.
func PairwiseBalances(groupID string, net map[string]money.Money) []models.PairwiseBalance {
	users := sortedUsers(net)
	residual := make(map[string]money.Money, len(net))
	for u, v := range net {
		residual[u] = v
	}

	var rows []models.PairwiseBalance
	for i := 0; i < len(users); i++ {
		for j := i + 1; j < len(users); j++ {
			a, b := users[i], users[j]
			ra, rb := residual[a], residual[b]

			var from, to string
			var amount money.Money
			switch {
			case ra.IsNegative() && rb.IsPositive():
				from, to, amount = a, b, money.Min(ra.Neg(), rb)
			case ra.IsPositive() && rb.IsNegative():
				from, to, amount = b, a, money.Min(ra, rb.Neg())
			default:
				continue
			}
			if amount.Negligible() {
				continue
			}

			residual[from] = residual[from].Add(amount)
			residual[to] = residual[to].Sub(amount)
			rows = append(rows, models.PairwiseBalance{
				GroupID:    groupID,
				FromUserID: from,
				ToUserID:   to,
				Amount:     amount,
			})
		}
	}

	return rows
}

// NetFromPairwise recovers net balances from stored rows.
func NetFromPairwise(rows []models.PairwiseBalance) map[string]money.Money {
	net := make(map[string]money.Money)
	for _, r := range rows {
		net[r.ToUserID] = net[r.ToUserID].Add(r.Amount)
		net[r.FromUserID] = net[r.FromUserID].Sub(r.Amount)
	}
	return net
}

func sortedUsers(net map[string]money.Money) []string {
	users := make([]string, 0, len(net))
	for u := range net {
		users = append(users, u)
	}
	sort.Strings(users)
	return users
}
