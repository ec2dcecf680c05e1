// Package models defines the core domain models for the ledger engine.
//
// # Write models
//
//   - Expense: a payment by one member, split into ExpenseShares
//   - Settlement: a direct repayment between two members (append-only)
//   - Group: the membership boundary every ledger operation is scoped to
//
// # Derived models
//
//   - PairwiseBalance: one stored "from owes to" row; a group's rows are
//     always replaced as a whole, never patched
//   - UserBalances, BalanceMatrix, SimplificationPreview: read views built
//     from the stored rows
//
// Users are referenced by opaque ID strings. Amounts use money.Money and
// never a float.
package models
