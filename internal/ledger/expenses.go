package ledger

import (
	"context"
	"fmt"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/events"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

// ResolveSplit computes the shares an expense would get without storing it.
func (e *Engine) ResolveSplit(expense *models.Expense) ([]models.ExpenseShare, error) {
	return calculator.ResolveSplit(expense)
}

// CreateExpense validates and splits the expense, stores it and rebuilds the
// group's balances in the same transaction.
func (e *Engine) CreateExpense(ctx context.Context, actor string, expense *models.Expense) (*models.Expense, error) {
	shares, err := calculator.ResolveSplit(expense)
	if err != nil {
		return nil, err
	}
	expense.Shares = shares
	expense.CreatedBy = actor

	rows, err := e.mutate(ctx, expense.GroupID, func(q storage.Queries) error {
		group, err := q.GetGroup(ctx, expense.GroupID)
		if err != nil {
			return err
		}
		if err := requireMembers(group, expenseUsers(actor, expense)...); err != nil {
			return err
		}
		return q.CreateExpense(ctx, expense)
	})
	e.metrics.ObserveMutation(string(events.ReasonExpenseCreated), err)
	if err != nil {
		return nil, err
	}

	e.logger.InfoContext(ctx, "Expense created",
		"group_id", expense.GroupID,
		"expense_id", expense.ID,
		"amount", expense.Amount.String(),
		"split_type", expense.SplitType,
	)
	e.publish(ctx, events.BalancesChanged{
		GroupID:   expense.GroupID,
		Reason:    events.ReasonExpenseCreated,
		SubjectID: expense.ID,
		ActorID:   actor,
		Balances:  rows,
	})
	return expense, nil
}

// UpdateExpense replaces an expense's amount, payer, split and description.
// The group cannot change. Expense, shares and balances are replaced together.
func (e *Engine) UpdateExpense(ctx context.Context, actor string, expense *models.Expense) (*models.Expense, error) {
	existing, err := e.store.GetExpense(ctx, expense.ID)
	if err != nil {
		return nil, err
	}
	if expense.GroupID != "" && expense.GroupID != existing.GroupID {
		return nil, fmt.Errorf("%w: expense %s cannot move to another group", models.ErrInvalidSplit, expense.ID)
	}
	expense.GroupID = existing.GroupID
	expense.CreatedBy = existing.CreatedBy
	expense.CreatedAt = existing.CreatedAt

	shares, err := calculator.ResolveSplit(expense)
	if err != nil {
		return nil, err
	}
	expense.Shares = shares

	rows, err := e.mutate(ctx, expense.GroupID, func(q storage.Queries) error {
		group, err := q.GetGroup(ctx, expense.GroupID)
		if err != nil {
			return err
		}
		if err := requireMembers(group, expenseUsers(actor, expense)...); err != nil {
			return err
		}
		return q.UpdateExpense(ctx, expense)
	})
	e.metrics.ObserveMutation(string(events.ReasonExpenseUpdated), err)
	if err != nil {
		return nil, err
	}

	e.logger.InfoContext(ctx, "Expense updated", "group_id", expense.GroupID, "expense_id", expense.ID)
	e.publish(ctx, events.BalancesChanged{
		GroupID:   expense.GroupID,
		Reason:    events.ReasonExpenseUpdated,
		SubjectID: expense.ID,
		ActorID:   actor,
		Balances:  rows,
	})
	return expense, nil
}

// DeleteExpense removes an expense and rebuilds the group's balances.
func (e *Engine) DeleteExpense(ctx context.Context, actor, expenseID string) error {
	existing, err := e.store.GetExpense(ctx, expenseID)
	if err != nil {
		return err
	}

	rows, err := e.mutate(ctx, existing.GroupID, func(q storage.Queries) error {
		group, err := q.GetGroup(ctx, existing.GroupID)
		if err != nil {
			return err
		}
		if err := requireMembers(group, actor); err != nil {
			return err
		}
		return q.DeleteExpense(ctx, expenseID)
	})
	e.metrics.ObserveMutation(string(events.ReasonExpenseDeleted), err)
	if err != nil {
		return err
	}

	e.logger.InfoContext(ctx, "Expense deleted", "group_id", existing.GroupID, "expense_id", expenseID)
	e.publish(ctx, events.BalancesChanged{
		GroupID:   existing.GroupID,
		Reason:    events.ReasonExpenseDeleted,
		SubjectID: expenseID,
		ActorID:   actor,
		Balances:  rows,
	})
	return nil
}

// GetExpense returns an expense with its shares.
func (e *Engine) GetExpense(ctx context.Context, actor, expenseID string) (*models.Expense, error) {
	expense, err := e.store.GetExpense(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if _, err := e.memberGroup(ctx, actor, expense.GroupID); err != nil {
		return nil, err
	}
	return expense, nil
}

// ListExpenses returns a group's expenses, oldest first.
func (e *Engine) ListExpenses(ctx context.Context, actor, groupID string) ([]*models.Expense, error) {
	if _, err := e.memberGroup(ctx, actor, groupID); err != nil {
		return nil, err
	}
	return e.store.ListExpensesByGroup(ctx, groupID)
}

// expenseUsers lists everyone an expense touches: actor, payer and participants.
func expenseUsers(actor string, expense *models.Expense) []string {
	ids := make([]string, 0, len(expense.Participants)+2)
	ids = append(ids, actor, expense.PayerID)
	for _, p := range expense.Participants {
		ids = append(ids, p.UserID)
	}
	return ids
}
