// Package events announces ledger changes to other systems. Events are
// published after the owning transaction commits; a failed publish never
// undoes a committed change.
package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/mmynk/splitledger/internal/models"
)

// Reason says which operation produced a new balance snapshot.
type Reason string

const (
	ReasonExpenseCreated     Reason = "expense_created"
	ReasonExpenseUpdated     Reason = "expense_updated"
	ReasonExpenseDeleted     Reason = "expense_deleted"
	ReasonSettlementRecorded Reason = "settlement_recorded"
	ReasonRecalculated       Reason = "recalculated"
	ReasonSimplified         Reason = "simplified"
)

// BalancesChanged is emitted whenever a group's stored balances are replaced.
type BalancesChanged struct {
	GroupID    string                   `json:"group_id"`
	Reason     Reason                   `json:"reason"`
	SubjectID  string                   `json:"subject_id,omitempty"`
	ActorID    string                   `json:"actor_id,omitempty"`
	Balances   []models.PairwiseBalance `json:"balances"`
	OccurredAt time.Time                `json:"occurred_at"`
}

// ToJSON encodes the event for the wire.
func (e BalancesChanged) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// Publisher delivers ledger events.
type Publisher interface {
	Publish(ctx context.Context, event BalancesChanged) error
	Close() error
}

// Noop drops every event. Used when no broker is configured.
type Noop struct{}

func (Noop) Publish(context.Context, BalancesChanged) error { return nil }
func (Noop) Close() error { return nil }

// Memory keeps published events in order. Useful for tests and local tooling.
type Memory struct {
	mu     sync.Mutex
	events []BalancesChanged
}

func (m *Memory) Publish(_ context.Context, event BalancesChanged) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *Memory) Close() error { return nil }

// Events returns a copy of everything published so far.
func (m *Memory) Events() []BalancesChanged {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]BalancesChanged, len(m.events))
	copy(out, m.events)
	return out
}
