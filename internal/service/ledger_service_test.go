package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/middleware"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage/sqlite"
	"github.com/mmynk/splitledger/pkg/ledgerapi"
)

// setupTestServer serves a LedgerService over httptest. Callers name the
// acting user with the dev identity header.
func setupTestServer(t *testing.T) *ledgerapi.LedgerServiceClient {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	engine := ledger.New(store,
		ledger.WithMetrics(metrics.New(prometheus.NewRegistry())),
		ledger.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	path, handler := ledgerapi.NewLedgerServiceHandler(
		NewLedgerService(engine),
		connect.WithInterceptors(middleware.DevIdentity()),
	)

	mux := http.NewServeMux()
	mux.Handle(path, handler)
	server := httptest.NewServer(mux)

	t.Cleanup(func() {
		server.Close()
		store.Close()
	})

	return ledgerapi.NewLedgerServiceClient(http.DefaultClient, server.URL)
}

func as[T any](user string, msg *T) *connect.Request[T] {
	req := connect.NewRequest(msg)
	if user != "" {
		req.Header().Set(middleware.DevUserHeader, user)
	}
	return req
}

func requireCode(t *testing.T, err error, code connect.Code) {
	t.Helper()
	require.Error(t, err)
	var connectErr *connect.Error
	require.True(t, errors.As(err, &connectErr), "expected connect error, got %v", err)
	assert.Equal(t, code, connectErr.Code(), connectErr.Message())
}

func createGroup(t *testing.T, client *ledgerapi.LedgerServiceClient, owner string, members ...string) string {
	t.Helper()
	resp, err := client.CreateGroup(context.Background(), as(owner, &ledgerapi.CreateGroupRequest{
		Name:    "Flat",
		Members: members,
	}))
	require.NoError(t, err)
	return resp.Msg.Group.ID
}

func TestLedgerServiceExpenseFlow(t *testing.T) {
	client := setupTestServer(t)
	ctx := context.Background()
	gid := createGroup(t, client, "alice", "bob", "carol")

	created, err := client.CreateExpense(ctx, as("alice", &ledgerapi.CreateExpenseRequest{
		Expense: &ledgerapi.Expense{
			GroupID:     gid,
			Description: "Dinner",
			Amount:      "30.00",
			PayerID:     "alice",
			SplitType:   "equal",
			Participants: []ledgerapi.Participant{
				{UserID: "alice"}, {UserID: "bob"}, {UserID: "carol"},
			},
		},
	}))
	require.NoError(t, err)
	e := created.Msg.Expense
	assert.NotEmpty(t, e.ID)
	assert.Equal(t, "alice", e.CreatedBy)
	require.Len(t, e.Shares, 3)
	assert.Equal(t, "10.00", e.Shares[0].Amount)

	bal, err := client.GetUserBalances(ctx, as("bob", &ledgerapi.GetUserBalancesRequest{GroupID: gid}))
	require.NoError(t, err)
	assert.Equal(t, "bob", bal.Msg.UserID)
	assert.Equal(t, "-10.00", bal.Msg.Net)
	require.Len(t, bal.Msg.Owes, 1)
	assert.Equal(t, "alice", bal.Msg.Owes[0].UserID)

	matrix, err := client.GetGroupBalanceMatrix(ctx, as("carol", &ledgerapi.GetGroupBalanceMatrixRequest{GroupID: gid}))
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob", "carol"}, matrix.Msg.Members)
	assert.Equal(t, "10.00", matrix.Msg.Amounts[1][0])
	assert.Equal(t, "0.00", matrix.Msg.Amounts[0][1])

	updated, err := client.UpdateExpense(ctx, as("bob", &ledgerapi.UpdateExpenseRequest{
		Expense: &ledgerapi.Expense{
			ID:        e.ID,
			Amount:    "30.00",
			PayerID:   "alice",
			SplitType: "percentage",
			Participants: []ledgerapi.Participant{
				{UserID: "bob", Weight: "50"},
				{UserID: "carol", Weight: "50"},
			},
		},
	}))
	require.NoError(t, err)
	assert.Equal(t, gid, updated.Msg.Expense.GroupID)
	require.Len(t, updated.Msg.Expense.Shares, 3)
	assert.Equal(t, "50", updated.Msg.Expense.Shares[0].Percentage)

	listed, err := client.ListExpenses(ctx, as("carol", &ledgerapi.ListExpensesRequest{GroupID: gid}))
	require.NoError(t, err)
	require.Len(t, listed.Msg.Expenses, 1)
	assert.Equal(t, "percentage", listed.Msg.Expenses[0].SplitType)

	_, err = client.DeleteExpense(ctx, as("carol", &ledgerapi.DeleteExpenseRequest{ExpenseID: e.ID}))
	require.NoError(t, err)

	_, err = client.GetExpense(ctx, as("carol", &ledgerapi.GetExpenseRequest{ExpenseID: e.ID}))
	requireCode(t, err, connect.CodeNotFound)
}

func TestLedgerServiceResolveSplit(t *testing.T) {
	client := setupTestServer(t)

	resp, err := client.ResolveSplit(context.Background(), as("alice", &ledgerapi.ResolveSplitRequest{
		Expense: &ledgerapi.Expense{
			Amount:       "10.00",
			PayerID:      "alice",
			SplitType:    "equal",
			Participants: []ledgerapi.Participant{{UserID: "alice"}, {UserID: "bob"}, {UserID: "carol"}},
		},
	}))
	require.NoError(t, err)

	var amounts []string
	for _, s := range resp.Msg.Shares {
		amounts = append(amounts, s.Amount)
	}
	assert.Equal(t, []string{"3.34", "3.33", "3.33"}, amounts)
}

func TestLedgerServiceSettlementsAndSimplify(t *testing.T) {
	client := setupTestServer(t)
	ctx := context.Background()
	gid := createGroup(t, client, "a", "b", "c")

	for _, payer := range []string{"a", "b"} {
		_, err := client.CreateExpense(ctx, as(payer, &ledgerapi.CreateExpenseRequest{
			Expense: &ledgerapi.Expense{
				GroupID:      gid,
				Amount:       "60.00",
				PayerID:      payer,
				SplitType:    "equal",
				Participants: []ledgerapi.Participant{{UserID: "a"}, {UserID: "b"}, {UserID: "c"}},
			},
		}))
		require.NoError(t, err)
	}

	settled, err := client.RecordSettlement(ctx, as("c", &ledgerapi.RecordSettlementRequest{
		GroupID: gid, PayerID: "c", ReceiverID: "a", Amount: "20.00", Note: "cash",
	}))
	require.NoError(t, err)
	assert.Equal(t, "c", settled.Msg.Settlement.CreatedBy)

	history, err := client.ListSettlements(ctx, as("a", &ledgerapi.ListSettlementsRequest{GroupID: gid}))
	require.NoError(t, err)
	require.Len(t, history.Msg.Settlements, 1)
	assert.Equal(t, "20.00", history.Msg.Settlements[0].Amount)

	preview, err := client.GetSimplificationPreview(ctx, as("b", &ledgerapi.GetSimplificationPreviewRequest{GroupID: gid}))
	require.NoError(t, err)
	assert.Equal(t, preview.Msg.CurrentTransactions, len(preview.Msg.Current))

	simplified, err := client.SimplifyDebts(ctx, as("b", &ledgerapi.SimplifyDebtsRequest{GroupID: gid}))
	require.NoError(t, err)
	assert.Equal(t, preview.Msg.WorthSimplifying, simplified.Msg.Applied)
	assert.LessOrEqual(t, simplified.Msg.After, simplified.Msg.Before)

	recalc, err := client.RecalculateGroupBalances(ctx, as("a", &ledgerapi.RecalculateGroupBalancesRequest{GroupID: gid}))
	require.NoError(t, err)
	assert.Len(t, recalc.Msg.Balances, 1)
	assert.Equal(t, "c", recalc.Msg.Balances[0].FromUserID)
	assert.Equal(t, "b", recalc.Msg.Balances[0].ToUserID)
	assert.Equal(t, "20.00", recalc.Msg.Balances[0].Amount)
}

func TestLedgerServiceErrors(t *testing.T) {
	client := setupTestServer(t)
	ctx := context.Background()
	gid := createGroup(t, client, "alice", "bob")

	expense := func(amount string, ids ...string) *ledgerapi.Expense {
		e := &ledgerapi.Expense{GroupID: gid, Amount: amount, PayerID: "alice", SplitType: "equal"}
		for _, id := range ids {
			e.Participants = append(e.Participants, ledgerapi.Participant{UserID: id})
		}
		return e
	}

	tests := []struct {
		name string
		call func() error
		code connect.Code
	}{
		{
			name: "no identity",
			call: func() error {
				_, err := client.GetGroup(ctx, as("", &ledgerapi.GetGroupRequest{GroupID: gid}))
				return err
			},
			code: connect.CodeUnauthenticated,
		},
		{
			name: "too many decimal places",
			call: func() error {
				_, err := client.CreateExpense(ctx, as("alice", &ledgerapi.CreateExpenseRequest{Expense: expense("1.005", "alice", "bob")}))
				return err
			},
			code: connect.CodeInvalidArgument,
		},
		{
			name: "unknown split type",
			call: func() error {
				e := expense("10.00", "alice", "bob")
				e.SplitType = "shares"
				_, err := client.CreateExpense(ctx, as("alice", &ledgerapi.CreateExpenseRequest{Expense: e}))
				return err
			},
			code: connect.CodeInvalidArgument,
		},
		{
			name: "participant outside group",
			call: func() error {
				_, err := client.CreateExpense(ctx, as("alice", &ledgerapi.CreateExpenseRequest{Expense: expense("10.00", "alice", "eve")}))
				return err
			},
			code: connect.CodePermissionDenied,
		},
		{
			name: "stranger reads matrix",
			call: func() error {
				_, err := client.GetGroupBalanceMatrix(ctx, as("eve", &ledgerapi.GetGroupBalanceMatrixRequest{GroupID: gid}))
				return err
			},
			code: connect.CodePermissionDenied,
		},
		{
			name: "stranger recalculates",
			call: func() error {
				_, err := client.RecalculateGroupBalances(ctx, as("eve", &ledgerapi.RecalculateGroupBalancesRequest{GroupID: gid}))
				return err
			},
			code: connect.CodePermissionDenied,
		},
		{
			name: "self settlement",
			call: func() error {
				_, err := client.RecordSettlement(ctx, as("alice", &ledgerapi.RecordSettlementRequest{
					GroupID: gid, PayerID: "alice", ReceiverID: "alice", Amount: "5.00",
				}))
				return err
			},
			code: connect.CodeInvalidArgument,
		},
		{
			name: "zero settlement",
			call: func() error {
				_, err := client.RecordSettlement(ctx, as("alice", &ledgerapi.RecordSettlementRequest{
					GroupID: gid, PayerID: "bob", ReceiverID: "alice", Amount: "0",
				}))
				return err
			},
			code: connect.CodeInvalidArgument,
		},
		{
			name: "unknown group",
			call: func() error {
				_, err := client.SimplifyDebts(ctx, as("alice", &ledgerapi.SimplifyDebtsRequest{GroupID: "missing"}))
				return err
			},
			code: connect.CodeNotFound,
		},
		{
			name: "other user's cross-group balances",
			call: func() error {
				_, err := client.GetUserBalances(ctx, as("bob", &ledgerapi.GetUserBalancesRequest{UserID: "alice"}))
				return err
			},
			code: connect.CodePermissionDenied,
		},
		{
			name: "group without name",
			call: func() error {
				_, err := client.CreateGroup(ctx, as("alice", &ledgerapi.CreateGroupRequest{Name: " "}))
				return err
			},
			code: connect.CodeInvalidArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requireCode(t, tt.call(), tt.code)
		})
	}
}

func TestToConnectErrorHidesInternalCauses(t *testing.T) {
	err := toConnectError(context.Background(), "CreateExpense",
		errors.Join(models.ErrRecalculationFailure, errors.New("database is locked")))

	var connectErr *connect.Error
	require.True(t, errors.As(err, &connectErr))
	assert.Equal(t, connect.CodeInternal, connectErr.Code())
	assert.Equal(t, "server error", connectErr.Message())
}
