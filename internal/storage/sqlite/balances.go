package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/mmynk/splitledger/internal/models"
)

// ReplaceGroupBalances swaps a group's stored balance rows for rows. Callers
// run it inside InTx so readers never observe a half-written snapshot.
func (s *queries) ReplaceGroupBalances(ctx context.Context, groupID string, rows []models.PairwiseBalance) error {
	if _, err := s.q.ExecContext(ctx, "DELETE FROM balances WHERE group_id = ?", groupID); err != nil {
		return fmt.Errorf("failed to clear balances: %w", err)
	}

	now := time.Now().Unix()
	for _, r := range rows {
		if r.GroupID != "" && r.GroupID != groupID {
			return fmt.Errorf("balance row for group %s written to group %s", r.GroupID, groupID)
		}
		_, err := s.q.ExecContext(ctx,
			"INSERT INTO balances (group_id, from_user_id, to_user_id, amount, updated_at) VALUES (?, ?, ?, ?, ?)",
			groupID, r.FromUserID, r.ToUserID, r.Amount, now,
		)
		if err != nil {
			return fmt.Errorf("failed to insert balance: %w", err)
		}
	}

	return nil
}

// ListGroupBalances returns a group's stored rows ordered by debtor then creditor.
func (s *queries) ListGroupBalances(ctx context.Context, groupID string) ([]models.PairwiseBalance, error) {
	return s.listBalances(ctx,
		`SELECT group_id, from_user_id, to_user_id, amount FROM balances
		 WHERE group_id = ? ORDER BY from_user_id, to_user_id`,
		groupID,
	)
}

// ListUserBalances returns the rows a user appears in on either side.
func (s *queries) ListUserBalances(ctx context.Context, userID, groupID string) ([]models.PairwiseBalance, error) {
	if groupID == "" {
		return s.listBalances(ctx,
			`SELECT group_id, from_user_id, to_user_id, amount FROM balances
			 WHERE from_user_id = ? OR to_user_id = ?
			 ORDER BY group_id, from_user_id, to_user_id`,
			userID, userID,
		)
	}
	return s.listBalances(ctx,
		`SELECT group_id, from_user_id, to_user_id, amount FROM balances
		 WHERE group_id = ? AND (from_user_id = ? OR to_user_id = ?)
		 ORDER BY from_user_id, to_user_id`,
		groupID, userID, userID,
	)
}

func (s *queries) listBalances(ctx context.Context, query string, args ...any) ([]models.PairwiseBalance, error) {
	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list balances: %w", err)
	}
	defer rows.Close()

	var balances []models.PairwiseBalance
	for rows.Next() {
		var b models.PairwiseBalance
		if err := rows.Scan(&b.GroupID, &b.FromUserID, &b.ToUserID, &b.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan balance: %w", err)
		}
		balances = append(balances, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate balances: %w", err)
	}

	return balances, nil
}
