// Package ledger is the balance engine. Every operation that changes what a
// group owes runs the same pipeline:
//
//	validate -> lock group -> begin tx -> write -> replay history -> replace balances -> commit -> unlock -> publish
//
// Balances are never patched incrementally. Each recalculation replays the
// group's full expense and settlement history, so running it twice produces
// the same rows.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/events"
	"github.com/mmynk/splitledger/internal/lock"
	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

// Engine runs ledger operations against a Store.
//
// Actor arguments name the user performing the call. They must be members of
// the group involved. An empty actor means a trusted internal caller such as
// an operator tool and skips that check.
type Engine struct {
	store     storage.Store
	locker    lock.Locker
	publisher events.Publisher
	metrics   *metrics.Ledger
	logger    *slog.Logger
	now       func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithLocker sets the per-group lock. Defaults to an in-process lock.
func WithLocker(l lock.Locker) Option { return func(e *Engine) { e.locker = l } }

// WithPublisher sets where balance events go. Defaults to dropping them.
func WithPublisher(p events.Publisher) Option { return func(e *Engine) { e.publisher = p } }

// WithMetrics sets the collectors. Defaults to none.
func WithMetrics(m *metrics.Ledger) Option { return func(e *Engine) { e.metrics = m } }

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option { return func(e *Engine) { e.logger = l } }

// New creates an Engine.
func New(store storage.Store, opts ...Option) *Engine {
	e := &Engine{
		store:     store,
		locker:    lock.NewLocal(),
		publisher: events.Noop{},
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// mutate runs fn and a recalculation of groupID in one transaction while
// holding the group's lock. fn's error is returned as is; a recalculation
// error is wrapped in ErrRecalculationFailure. Either way nothing is kept.
func (e *Engine) mutate(ctx context.Context, groupID string, fn func(q storage.Queries) error) ([]models.PairwiseBalance, error) {
	unlock, err := e.locker.Lock(ctx, lock.GroupKey(groupID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	var rows []models.PairwiseBalance
	err = e.store.InTx(ctx, func(q storage.Queries) error {
		if fn != nil {
			if err := fn(q); err != nil {
				return err
			}
		}
		var err error
		rows, err = e.recalculate(ctx, q, groupID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// recalculate replays the group's history and replaces its stored rows.
// It must run inside the transaction of the triggering mutation.
func (e *Engine) recalculate(ctx context.Context, q storage.Queries, groupID string) (rows []models.PairwiseBalance, err error) {
	start := e.now()
	defer func() {
		e.metrics.ObserveRecalculation(start, len(rows), err)
		if err != nil {
			e.logger.ErrorContext(ctx, "Balance recalculation failed", "group_id", groupID, "error", err)
		}
	}()

	expenses, err := q.ListExpensesByGroup(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("%w: group %s: %w", models.ErrRecalculationFailure, groupID, err)
	}
	settlements, err := q.ListSettlementsByGroup(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("%w: group %s: %w", models.ErrRecalculationFailure, groupID, err)
	}

	net, skipped := calculator.NetBalances(expenses, settlements)
	for _, s := range skipped {
		e.logger.WarnContext(ctx, "Skipping expense during recalculation",
			"group_id", groupID,
			"expense_id", s.ExpenseID,
			"reason", s.Reason,
		)
	}
	e.metrics.AddSkippedExpenses(len(skipped))

	rows = calculator.PairwiseBalances(groupID, net)
	if err := q.ReplaceGroupBalances(ctx, groupID, rows); err != nil {
		return nil, fmt.Errorf("%w: group %s: %w", models.ErrRecalculationFailure, groupID, err)
	}

	e.logger.DebugContext(ctx, "Recalculated group balances",
		"group_id", groupID,
		"expenses", len(expenses),
		"settlements", len(settlements),
		"rows", len(rows),
	)
	return rows, nil
}

// RecalculateGroupBalances rebuilds a group's stored balances from its full
// history. Safe to run at any time; the result only depends on the history.
func (e *Engine) RecalculateGroupBalances(ctx context.Context, groupID string) ([]models.PairwiseBalance, error) {
	rows, err := e.mutate(ctx, groupID, func(q storage.Queries) error {
		_, err := q.GetGroup(ctx, groupID)
		return err
	})
	if err != nil {
		return nil, err
	}
	e.publish(ctx, events.BalancesChanged{GroupID: groupID, Reason: events.ReasonRecalculated, Balances: rows})
	return rows, nil
}

// RecalculateAll rebuilds every group, at most concurrency at a time.
// It returns the number of groups rebuilt. The first failure cancels the
// groups not yet started.
func (e *Engine) RecalculateAll(ctx context.Context, concurrency int) (int, error) {
	ids, err := e.store.ListGroupIDs(ctx)
	if err != nil {
		return 0, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(concurrency, 1))
	for _, id := range ids {
		g.Go(func() error {
			if _, err := e.RecalculateGroupBalances(gctx, id); err != nil {
				return fmt.Errorf("group %s: %w", id, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	e.logger.InfoContext(ctx, "Recalculated all groups", "groups", len(ids))
	return len(ids), nil
}

func (e *Engine) publish(ctx context.Context, event events.BalancesChanged) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = e.now().UTC()
	}
	if err := e.publisher.Publish(ctx, event); err != nil {
		e.logger.WarnContext(ctx, "Failed to publish balances event",
			"group_id", event.GroupID,
			"reason", event.Reason,
			"error", err,
		)
	}
}

// requireMembers checks that every non-empty id belongs to group.
func requireMembers(group *models.Group, ids ...string) error {
	for _, id := range ids {
		if id == "" {
			continue
		}
		if !group.HasMember(id) {
			return fmt.Errorf("%w: %s in group %s", models.ErrNotGroupMember, id, group.ID)
		}
	}
	return nil
}

// IsUnavailable reports whether err means the group was busy and the call
// may be retried.
func IsUnavailable(err error) bool {
	return errors.Is(err, lock.ErrNotObtained)
}
