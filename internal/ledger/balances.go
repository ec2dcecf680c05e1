package ledger

import (
	"context"
	"fmt"
	"sort"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/events"
	"github.com/mmynk/splitledger/internal/lock"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/money"
	"github.com/mmynk/splitledger/internal/storage"
)

// GetUserBalances summarizes who userID owes and who owes them, within one
// group or, when groupID is empty, across every group. Cross-group views are
// only available to the user themselves.
func (e *Engine) GetUserBalances(ctx context.Context, actor, userID, groupID string) (*models.UserBalances, error) {
	if groupID != "" {
		if _, err := e.memberGroup(ctx, actor, groupID); err != nil {
			return nil, err
		}
	} else if actor != "" && actor != userID {
		return nil, fmt.Errorf("%w: balances of %s across groups", models.ErrNotGroupMember, userID)
	}

	rows, err := e.store.ListUserBalances(ctx, userID, groupID)
	if err != nil {
		return nil, err
	}

	out := &models.UserBalances{UserID: userID, GroupID: groupID}
	for _, r := range rows {
		if r.FromUserID == userID {
			out.Owes = append(out.Owes, models.Counterparty{GroupID: r.GroupID, UserID: r.ToUserID, Amount: r.Amount})
			out.TotalOwes = out.TotalOwes.Add(r.Amount)
		} else {
			out.Owed = append(out.Owed, models.Counterparty{GroupID: r.GroupID, UserID: r.FromUserID, Amount: r.Amount})
			out.TotalOwed = out.TotalOwed.Add(r.Amount)
		}
	}
	out.Net = out.TotalOwed.Sub(out.TotalOwes)
	return out, nil
}

// GetGroupBalanceMatrix returns every member's debt to every other member.
// Users with stored rows who have since left the group are appended after
// the current members.
func (e *Engine) GetGroupBalanceMatrix(ctx context.Context, actor, groupID string) (*models.BalanceMatrix, error) {
	group, err := e.memberGroup(ctx, actor, groupID)
	if err != nil {
		return nil, err
	}
	rows, err := e.store.ListGroupBalances(ctx, groupID)
	if err != nil {
		return nil, err
	}

	members := append([]string(nil), group.Members...)
	index := make(map[string]int, len(members))
	for i, m := range members {
		index[m] = i
	}
	var extra []string
	for _, r := range rows {
		for _, u := range []string{r.FromUserID, r.ToUserID} {
			if _, ok := index[u]; !ok {
				index[u] = -1
				extra = append(extra, u)
			}
		}
	}
	sort.Strings(extra)
	for _, u := range extra {
		index[u] = len(members)
		members = append(members, u)
	}

	amounts := make([][]money.Money, len(members))
	for i := range amounts {
		amounts[i] = make([]money.Money, len(members))
	}
	for _, r := range rows {
		amounts[index[r.FromUserID]][index[r.ToUserID]] = r.Amount
	}

	return &models.BalanceMatrix{GroupID: groupID, Members: members, Amounts: amounts}, nil
}

// GetSimplificationPreview reports how many rows simplifying would remove.
// Nothing is written.
func (e *Engine) GetSimplificationPreview(ctx context.Context, actor, groupID string) (*models.SimplificationPreview, error) {
	if _, err := e.memberGroup(ctx, actor, groupID); err != nil {
		return nil, err
	}
	rows, err := e.store.ListGroupBalances(ctx, groupID)
	if err != nil {
		return nil, err
	}
	preview := calculator.Preview(groupID, rows)
	return &preview, nil
}

// SimplifyDebts replaces a group's stored rows with a smaller set that keeps
// every member's net balance. When no smaller set is found the rows are left
// alone and Applied is false.
//
// The simplified rows last until the next mutation, whose recalculation
// rebuilds the deterministic pairing from history.
func (e *Engine) SimplifyDebts(ctx context.Context, actor, groupID string) (*models.SimplifyResult, error) {
	unlock, err := e.locker.Lock(ctx, lock.GroupKey(groupID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	result := &models.SimplifyResult{GroupID: groupID}
	err = e.store.InTx(ctx, func(q storage.Queries) error {
		group, err := q.GetGroup(ctx, groupID)
		if err != nil {
			return err
		}
		if err := requireMembers(group, actor); err != nil {
			return err
		}

		rows, err := q.ListGroupBalances(ctx, groupID)
		if err != nil {
			return err
		}
		simplified := calculator.Simplify(groupID, rows)

		result.Before = len(rows)
		result.After = len(simplified)
		result.Rows = simplified
		if len(simplified) >= len(rows) {
			return nil
		}
		result.Applied = true
		return q.ReplaceGroupBalances(ctx, groupID, simplified)
	})
	if err != nil {
		return nil, err
	}
	e.metrics.ObserveSimplification(result.Applied)

	if !result.Applied {
		e.logger.InfoContext(ctx, "Debts already simplified", "group_id", groupID, "rows", result.Before)
		return result, nil
	}

	e.logger.InfoContext(ctx, "Debts simplified", "group_id", groupID, "before", result.Before, "after", result.After)
	e.publish(ctx, events.BalancesChanged{
		GroupID:  groupID,
		Reason:   events.ReasonSimplified,
		ActorID:  actor,
		Balances: result.Rows,
	})
	return result, nil
}
