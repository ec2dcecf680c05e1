// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/mmynk/splitledger/internal/models"
)

// Queries is the set of reads and writes the ledger needs. It is satisfied
// both by a Store and by the transaction-scoped handle passed to InTx, so the
// same code can run inside or outside a transaction.
//
// Lookups of a missing row return an error wrapping models.ErrNotFound.
type Queries interface {
	// CreateGroup persists a new group and its members.
	// The group.ID and group.CreatedAt fields are populated if unset.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group with its members in join order.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// ListGroupIDs returns every group ID, oldest first.
	ListGroupIDs(ctx context.Context) ([]string, error)

	// AddGroupMembers appends members, ignoring any already present.
	AddGroupMembers(ctx context.Context, groupID string, members []string) error

	// CreateExpense persists an expense with its participants and shares.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// UpdateExpense replaces an expense and all of its participants and shares.
	UpdateExpense(ctx context.Context, expense *models.Expense) error

	// DeleteExpense removes an expense and its shares.
	DeleteExpense(ctx context.Context, expenseID string) error

	// GetExpense retrieves an expense with participants and shares.
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)

	// ListExpensesByGroup returns all expenses of a group, oldest first.
	ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error)

	// CreateSettlement persists a new settlement. Settlements are never updated.
	CreateSettlement(ctx context.Context, settlement *models.Settlement) error

	// GetSettlement retrieves a settlement by ID.
	GetSettlement(ctx context.Context, settlementID string) (*models.Settlement, error)

	// ListSettlementsByGroup returns all settlements of a group, newest first.
	ListSettlementsByGroup(ctx context.Context, groupID string) ([]*models.Settlement, error)

	// ReplaceGroupBalances deletes every stored balance row of the group and
	// inserts rows in their place.
	ReplaceGroupBalances(ctx context.Context, groupID string, rows []models.PairwiseBalance) error

	// ListGroupBalances returns the stored rows of a group.
	ListGroupBalances(ctx context.Context, groupID string) ([]models.PairwiseBalance, error)

	// ListUserBalances returns every stored row the user appears in, limited
	// to one group when groupID is not empty.
	ListUserBalances(ctx context.Context, userID, groupID string) ([]models.PairwiseBalance, error)
}

// Store is a Queries backed by a database that can also run a function
// atomically.
type Store interface {
	Queries

	// InTx runs fn inside a single transaction. The transaction commits if fn
	// returns nil and rolls back otherwise.
	InTx(ctx context.Context, fn func(q Queries) error) error

	// Close releases any resources held by the store.
	Close() error
}
