package ledger

import (
	"context"
	"fmt"

	"github.com/mmynk/splitledger/internal/events"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

// RecordSettlement stores a payment from PayerID to ReceiverID and rebuilds
// the group's balances. Settlements are append-only; a mistaken payment is
// corrected by recording one in the other direction.
func (e *Engine) RecordSettlement(ctx context.Context, actor string, s *models.Settlement) (*models.Settlement, error) {
	if !s.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: settlement amount %s", models.ErrNonPositiveAmount, s.Amount)
	}
	if s.PayerID == "" || s.ReceiverID == "" {
		return nil, fmt.Errorf("%w: payer and receiver are required", models.ErrInvalidSplit)
	}
	if s.PayerID == s.ReceiverID {
		return nil, fmt.Errorf("%w: %s", models.ErrSelfSettlement, s.PayerID)
	}
	s.CreatedBy = actor

	rows, err := e.mutate(ctx, s.GroupID, func(q storage.Queries) error {
		group, err := q.GetGroup(ctx, s.GroupID)
		if err != nil {
			return err
		}
		if err := requireMembers(group, actor, s.PayerID, s.ReceiverID); err != nil {
			return err
		}
		return q.CreateSettlement(ctx, s)
	})
	e.metrics.ObserveMutation(string(events.ReasonSettlementRecorded), err)
	if err != nil {
		return nil, err
	}

	e.logger.InfoContext(ctx, "Settlement recorded",
		"group_id", s.GroupID,
		"settlement_id", s.ID,
		"payer_id", s.PayerID,
		"receiver_id", s.ReceiverID,
		"amount", s.Amount.String(),
	)
	e.publish(ctx, events.BalancesChanged{
		GroupID:   s.GroupID,
		Reason:    events.ReasonSettlementRecorded,
		SubjectID: s.ID,
		ActorID:   actor,
		Balances:  rows,
	})
	return s, nil
}

// ListSettlements returns a group's settlement history, newest first.
func (e *Engine) ListSettlements(ctx context.Context, actor, groupID string) ([]*models.Settlement, error) {
	if _, err := e.memberGroup(ctx, actor, groupID); err != nil {
		return nil, err
	}
	return e.store.ListSettlementsByGroup(ctx, groupID)
}
