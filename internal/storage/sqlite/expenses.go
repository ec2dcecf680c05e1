package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
)

const expenseColumns = `id, group_id, description, amount, currency, payer_id, split_type, created_by, created_at, updated_at`

// CreateExpense persists an expense together with its participants and shares.
func (s *queries) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if expense.CreatedAt == 0 {
		expense.CreatedAt = now
	}
	if expense.UpdatedAt == 0 {
		expense.UpdatedAt = expense.CreatedAt
	}

	_, err := s.q.ExecContext(ctx,
		`INSERT INTO expenses (`+expenseColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.GroupID, expense.Description, expense.Amount, expense.Currency,
		expense.PayerID, string(expense.SplitType), expense.CreatedBy, expense.CreatedAt, expense.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	return s.insertExpenseChildren(ctx, expense)
}

// UpdateExpense overwrites an expense and replaces its participants and shares.
func (s *queries) UpdateExpense(ctx context.Context, expense *models.Expense) error {
	expense.UpdatedAt = time.Now().Unix()

	res, err := s.q.ExecContext(ctx,
		`UPDATE expenses
		 SET description = ?, amount = ?, currency = ?, payer_id = ?, split_type = ?, updated_at = ?
		 WHERE id = ?`,
		expense.Description, expense.Amount, expense.Currency, expense.PayerID,
		string(expense.SplitType), expense.UpdatedAt, expense.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}
	if err := requireAffected(res, "expense", expense.ID); err != nil {
		return err
	}

	if err := s.deleteExpenseChildren(ctx, expense.ID); err != nil {
		return err
	}
	return s.insertExpenseChildren(ctx, expense)
}

// DeleteExpense removes an expense and everything attached to it.
func (s *queries) DeleteExpense(ctx context.Context, expenseID string) error {
	if err := s.deleteExpenseChildren(ctx, expenseID); err != nil {
		return err
	}

	res, err := s.q.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", expenseID)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	return requireAffected(res, "expense", expenseID)
}

// GetExpense retrieves an expense by ID, including participants and shares.
func (s *queries) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	expense := &models.Expense{}
	var splitType string
	err := s.q.QueryRowContext(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE id = ?`,
		expenseID,
	).Scan(&expense.ID, &expense.GroupID, &expense.Description, &expense.Amount, &expense.Currency,
		&expense.PayerID, &splitType, &expense.CreatedBy, &expense.CreatedAt, &expense.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("expense %s: %w", expenseID, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	expense.SplitType = models.SplitType(splitType)

	byID := map[string]*models.Expense{expense.ID: expense}
	if err := s.loadParticipants(ctx, byID,
		`SELECT expense_id, user_id, weight FROM expense_participants WHERE expense_id = ? ORDER BY position`,
		expenseID,
	); err != nil {
		return nil, err
	}
	if err := s.loadShares(ctx, byID,
		`SELECT expense_id, user_id, amount, percentage FROM expense_shares WHERE expense_id = ? ORDER BY position`,
		expenseID,
	); err != nil {
		return nil, err
	}

	return expense, nil
}

// ListExpensesByGroup retrieves every expense of a group, oldest first.
func (s *queries) ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error) {
	rows, err := s.q.QueryContext(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE group_id = ? ORDER BY created_at, id`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses by group: %w", err)
	}

	var expenses []*models.Expense
	byID := make(map[string]*models.Expense)
	for rows.Next() {
		expense := &models.Expense{}
		var splitType string
		if err := rows.Scan(&expense.ID, &expense.GroupID, &expense.Description, &expense.Amount, &expense.Currency,
			&expense.PayerID, &splitType, &expense.CreatedBy, &expense.CreatedAt, &expense.UpdatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expense.SplitType = models.SplitType(splitType)
		expenses = append(expenses, expense)
		byID[expense.ID] = expense
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	if len(expenses) == 0 {
		return expenses, nil
	}

	if err := s.loadParticipants(ctx, byID,
		`SELECT p.expense_id, p.user_id, p.weight
		 FROM expense_participants p JOIN expenses e ON e.id = p.expense_id
		 WHERE e.group_id = ? ORDER BY p.expense_id, p.position`,
		groupID,
	); err != nil {
		return nil, err
	}
	if err := s.loadShares(ctx, byID,
		`SELECT sh.expense_id, sh.user_id, sh.amount, sh.percentage
		 FROM expense_shares sh JOIN expenses e ON e.id = sh.expense_id
		 WHERE e.group_id = ? ORDER BY sh.expense_id, sh.position`,
		groupID,
	); err != nil {
		return nil, err
	}

	return expenses, nil
}

func (s *queries) insertExpenseChildren(ctx context.Context, expense *models.Expense) error {
	for i, p := range expense.Participants {
		_, err := s.q.ExecContext(ctx,
			"INSERT INTO expense_participants (expense_id, position, user_id, weight) VALUES (?, ?, ?, ?)",
			expense.ID, i, p.UserID, p.Weight.String(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert expense participant: %w", err)
		}
	}

	for i := range expense.Shares {
		share := &expense.Shares[i]
		share.ExpenseID = expense.ID

		var pct any
		if share.Percentage != nil {
			pct = share.Percentage.String()
		}
		_, err := s.q.ExecContext(ctx,
			"INSERT INTO expense_shares (expense_id, user_id, position, amount, percentage) VALUES (?, ?, ?, ?, ?)",
			expense.ID, share.UserID, i, share.Amount, pct,
		)
		if err != nil {
			return fmt.Errorf("failed to insert expense share: %w", err)
		}
	}

	return nil
}

func (s *queries) deleteExpenseChildren(ctx context.Context, expenseID string) error {
	if _, err := s.q.ExecContext(ctx, "DELETE FROM expense_shares WHERE expense_id = ?", expenseID); err != nil {
		return fmt.Errorf("failed to delete expense shares: %w", err)
	}
	if _, err := s.q.ExecContext(ctx, "DELETE FROM expense_participants WHERE expense_id = ?", expenseID); err != nil {
		return fmt.Errorf("failed to delete expense participants: %w", err)
	}
	return nil
}

func (s *queries) loadParticipants(ctx context.Context, byID map[string]*models.Expense, query string, arg string) error {
	rows, err := s.q.QueryContext(ctx, query, arg)
	if err != nil {
		return fmt.Errorf("failed to get expense participants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var expenseID, userID, weight string
		if err := rows.Scan(&expenseID, &userID, &weight); err != nil {
			return fmt.Errorf("failed to scan expense participant: %w", err)
		}
		w, err := decimal.NewFromString(weight)
		if err != nil {
			return fmt.Errorf("failed to parse participant weight %q: %w", weight, err)
		}
		if e, ok := byID[expenseID]; ok {
			e.Participants = append(e.Participants, models.Participant{UserID: userID, Weight: w})
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate expense participants: %w", err)
	}
	return nil
}

func (s *queries) loadShares(ctx context.Context, byID map[string]*models.Expense, query string, arg string) error {
	rows, err := s.q.QueryContext(ctx, query, arg)
	if err != nil {
		return fmt.Errorf("failed to get expense shares: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var share models.ExpenseShare
		var pct sql.NullString
		if err := rows.Scan(&share.ExpenseID, &share.UserID, &share.Amount, &pct); err != nil {
			return fmt.Errorf("failed to scan expense share: %w", err)
		}
		if pct.Valid {
			p, err := decimal.NewFromString(pct.String)
			if err != nil {
				return fmt.Errorf("failed to parse share percentage %q: %w", pct.String, err)
			}
			share.Percentage = &p
		}
		if e, ok := byID[share.ExpenseID]; ok {
			e.Shares = append(e.Shares, share)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate expense shares: %w", err)
	}
	return nil
}

func requireAffected(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, models.ErrNotFound)
	}
	return nil
}
