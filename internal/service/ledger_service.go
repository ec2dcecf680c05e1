package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/money"
	"github.com/mmynk/splitledger/pkg/ledgerapi"
)

// LedgerService implements the Connect LedgerService on top of a ledger.Engine.
type LedgerService struct {
	ledgerapi.UnimplementedLedgerServiceHandler
	engine *ledger.Engine
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(engine *ledger.Engine) *LedgerService {
	return &LedgerService{engine: engine}
}

// CreateGroup creates a group with the caller as a member.
func (s *LedgerService) CreateGroup(ctx context.Context, req *connect.Request[ledgerapi.CreateGroupRequest]) (*connect.Response[ledgerapi.CreateGroupResponse], error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("CreateGroup request received", "name", req.Msg.Name, "members_count", len(req.Msg.Members))

	group, err := s.engine.CreateGroup(ctx, actor, req.Msg.Name, req.Msg.Members)
	if err != nil {
		return nil, toConnectError(ctx, "CreateGroup", err)
	}
	return connect.NewResponse(&ledgerapi.CreateGroupResponse{Group: groupToAPI(group)}), nil
}

// AddGroupMembers adds users to a group the caller belongs to.
func (s *LedgerService) AddGroupMembers(ctx context.Context, req *connect.Request[ledgerapi.AddGroupMembersRequest]) (*connect.Response[ledgerapi.AddGroupMembersResponse], error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}

	group, err := s.engine.AddGroupMembers(ctx, actor, req.Msg.GroupID, req.Msg.Members)
	if err != nil {
		return nil, toConnectError(ctx, "AddGroupMembers", err)
	}
	slog.Info("Group members added", "group_id", group.ID, "members_count", len(group.Members))
	return connect.NewResponse(&ledgerapi.AddGroupMembersResponse{Group: groupToAPI(group)}), nil
}

func (s *LedgerService) GetGroup(ctx context.Context, req *connect.Request[ledgerapi.GetGroupRequest]) (*connect.Response[ledgerapi.GetGroupResponse], error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}

	group, err := s.engine.GetGroup(ctx, actor, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(ctx, "GetGroup", err)
	}
	return connect.NewResponse(&ledgerapi.GetGroupResponse{Group: groupToAPI(group)}), nil
}

// ResolveSplit returns the shares an expense would get. Nothing is stored.
func (s *LedgerService) ResolveSplit(ctx context.Context, req *connect.Request[ledgerapi.ResolveSplitRequest]) (*connect.Response[ledgerapi.ResolveSplitResponse], error) {
	if _, err := requireActor(ctx); err != nil {
		return nil, err
	}

	expense, err := expenseFromAPI(req.Msg.Expense)
	if err != nil {
		return nil, toConnectError(ctx, "ResolveSplit", err)
	}
	shares, err := s.engine.ResolveSplit(expense)
	if err != nil {
		return nil, toConnectError(ctx, "ResolveSplit", err)
	}
	return connect.NewResponse(&ledgerapi.ResolveSplitResponse{Shares: sharesToAPI(shares)}), nil
}

// CreateExpense stores an expense and rebuilds its group's balances.
func (s *LedgerService) CreateExpense(ctx context.Context, req *connect.Request[ledgerapi.CreateExpenseRequest]) (*connect.Response[ledgerapi.CreateExpenseResponse], error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}

	expense, err := expenseFromAPI(req.Msg.Expense)
	if err != nil {
		return nil, toConnectError(ctx, "CreateExpense", err)
	}
	expense.ID = ""

	slog.Info("CreateExpense request received",
		"group_id", expense.GroupID,
		"amount", expense.Amount.String(),
		"split_type", expense.SplitType,
		"participants_count", len(expense.Participants),
	)

	created, err := s.engine.CreateExpense(ctx, actor, expense)
	if err != nil {
		return nil, toConnectError(ctx, "CreateExpense", err)
	}
	return connect.NewResponse(&ledgerapi.CreateExpenseResponse{Expense: expenseToAPI(created)}), nil
}

// UpdateExpense replaces an expense and rebuilds its group's balances.
func (s *LedgerService) UpdateExpense(ctx context.Context, req *connect.Request[ledgerapi.UpdateExpenseRequest]) (*connect.Response[ledgerapi.UpdateExpenseResponse], error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}

	expense, err := expenseFromAPI(req.Msg.Expense)
	if err != nil {
		return nil, toConnectError(ctx, "UpdateExpense", err)
	}

	updated, err := s.engine.UpdateExpense(ctx, actor, expense)
	if err != nil {
		return nil, toConnectError(ctx, "UpdateExpense", err)
	}
	return connect.NewResponse(&ledgerapi.UpdateExpenseResponse{Expense: expenseToAPI(updated)}), nil
}

// DeleteExpense removes an expense and rebuilds its group's balances.
func (s *LedgerService) DeleteExpense(ctx context.Context, req *connect.Request[ledgerapi.DeleteExpenseRequest]) (*connect.Response[ledgerapi.DeleteExpenseResponse], error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.engine.DeleteExpense(ctx, actor, req.Msg.ExpenseID); err != nil {
		return nil, toConnectError(ctx, "DeleteExpense", err)
	}
	return connect.NewResponse(&ledgerapi.DeleteExpenseResponse{}), nil
}

func (s *LedgerService) GetExpense(ctx context.Context, req *connect.Request[ledgerapi.GetExpenseRequest]) (*connect.Response[ledgerapi.GetExpenseResponse], error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}

	expense, err := s.engine.GetExpense(ctx, actor, req.Msg.ExpenseID)
	if err != nil {
		return nil, toConnectError(ctx, "GetExpense", err)
	}
	return connect.NewResponse(&ledgerapi.GetExpenseResponse{Expense: expenseToAPI(expense)}), nil
}

func (s *LedgerService) ListExpenses(ctx context.Context, req *connect.Request[ledgerapi.ListExpensesRequest]) (*connect.Response[ledgerapi.ListExpensesResponse], error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}

	expenses, err := s.engine.ListExpenses(ctx, actor, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(ctx, "ListExpenses", err)
	}

	out := make([]*ledgerapi.Expense, len(expenses))
	for i, e := range expenses {
		out[i] = expenseToAPI(e)
	}
	return connect.NewResponse(&ledgerapi.ListExpensesResponse{Expenses: out}), nil
}

// RecordSettlement records a payment between two members.
func (s *LedgerService) RecordSettlement(ctx context.Context, req *connect.Request[ledgerapi.RecordSettlementRequest]) (*connect.Response[ledgerapi.RecordSettlementResponse], error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}

	amount, err := money.Parse(req.Msg.Amount)
	if err != nil {
		return nil, toConnectError(ctx, "RecordSettlement", err)
	}

	slog.Info("RecordSettlement request received",
		"group_id", req.Msg.GroupID,
		"payer_id", req.Msg.PayerID,
		"receiver_id", req.Msg.ReceiverID,
		"amount", amount.String(),
	)

	settlement, err := s.engine.RecordSettlement(ctx, actor, &models.Settlement{
		GroupID:    req.Msg.GroupID,
		PayerID:    req.Msg.PayerID,
		ReceiverID: req.Msg.ReceiverID,
		Amount:     amount,
		Currency:   req.Msg.Currency,
		Note:       req.Msg.Note,
	})
	if err != nil {
		return nil, toConnectError(ctx, "RecordSettlement", err)
	}
	return connect.NewResponse(&ledgerapi.RecordSettlementResponse{Settlement: settlementToAPI(settlement)}), nil
}

// ListSettlements returns a group's settlement history, newest first.
func (s *LedgerService) ListSettlements(ctx context.Context, req *connect.Request[ledgerapi.ListSettlementsRequest]) (*connect.Response[ledgerapi.ListSettlementsResponse], error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}

	settlements, err := s.engine.ListSettlements(ctx, actor, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(ctx, "ListSettlements", err)
	}

	out := make([]*ledgerapi.Settlement, len(settlements))
	for i, st := range settlements {
		out[i] = settlementToAPI(st)
	}
	return connect.NewResponse(&ledgerapi.ListSettlementsResponse{Settlements: out}), nil
}

// RecalculateGroupBalances rebuilds a group's balances from its history.
func (s *LedgerService) RecalculateGroupBalances(ctx context.Context, req *connect.Request[ledgerapi.RecalculateGroupBalancesRequest]) (*connect.Response[ledgerapi.RecalculateGroupBalancesResponse], error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := s.engine.GetGroup(ctx, actor, req.Msg.GroupID); err != nil {
		return nil, toConnectError(ctx, "RecalculateGroupBalances", err)
	}
	rows, err := s.engine.RecalculateGroupBalances(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(ctx, "RecalculateGroupBalances", err)
	}
	return connect.NewResponse(&ledgerapi.RecalculateGroupBalancesResponse{Balances: balancesToAPI(rows)}), nil
}

// GetUserBalances returns who a user owes and who owes them. UserID defaults
// to the caller.
func (s *LedgerService) GetUserBalances(ctx context.Context, req *connect.Request[ledgerapi.GetUserBalancesRequest]) (*connect.Response[ledgerapi.GetUserBalancesResponse], error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}

	userID := req.Msg.UserID
	if userID == "" {
		userID = actor
	}

	b, err := s.engine.GetUserBalances(ctx, actor, userID, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(ctx, "GetUserBalances", err)
	}
	return connect.NewResponse(&ledgerapi.GetUserBalancesResponse{
		UserID:    b.UserID,
		GroupID:   b.GroupID,
		Owes:      counterpartiesToAPI(b.Owes),
		Owed:      counterpartiesToAPI(b.Owed),
		TotalOwes: b.TotalOwes.String(),
		TotalOwed: b.TotalOwed.String(),
		Net:       b.Net.String(),
	}), nil
}

// GetGroupBalanceMatrix returns the member-by-member debt matrix of a group.
func (s *LedgerService) GetGroupBalanceMatrix(ctx context.Context, req *connect.Request[ledgerapi.GetGroupBalanceMatrixRequest]) (*connect.Response[ledgerapi.GetGroupBalanceMatrixResponse], error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}

	m, err := s.engine.GetGroupBalanceMatrix(ctx, actor, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(ctx, "GetGroupBalanceMatrix", err)
	}

	amounts := make([][]string, len(m.Amounts))
	for i, row := range m.Amounts {
		amounts[i] = make([]string, len(row))
		for j, a := range row {
			amounts[i][j] = a.String()
		}
	}
	return connect.NewResponse(&ledgerapi.GetGroupBalanceMatrixResponse{
		GroupID: m.GroupID,
		Members: m.Members,
		Amounts: amounts,
	}), nil
}

// SimplifyDebts replaces a group's balances with a smaller equivalent set.
func (s *LedgerService) SimplifyDebts(ctx context.Context, req *connect.Request[ledgerapi.SimplifyDebtsRequest]) (*connect.Response[ledgerapi.SimplifyDebtsResponse], error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}

	result, err := s.engine.SimplifyDebts(ctx, actor, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(ctx, "SimplifyDebts", err)
	}
	return connect.NewResponse(&ledgerapi.SimplifyDebtsResponse{
		Applied:  result.Applied,
		Before:   result.Before,
		After:    result.After,
		Balances: balancesToAPI(result.Rows),
	}), nil
}

// GetSimplificationPreview reports what SimplifyDebts would save.
func (s *LedgerService) GetSimplificationPreview(ctx context.Context, req *connect.Request[ledgerapi.GetSimplificationPreviewRequest]) (*connect.Response[ledgerapi.GetSimplificationPreviewResponse], error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}

	p, err := s.engine.GetSimplificationPreview(ctx, actor, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(ctx, "GetSimplificationPreview", err)
	}
	return connect.NewResponse(&ledgerapi.GetSimplificationPreviewResponse{
		CurrentTransactions:    p.CurrentTransactions,
		SimplifiedTransactions: p.SimplifiedTransactions,
		TransactionsSaved:      p.TransactionsSaved,
		PercentageSaved:        p.PercentageSaved,
		WorthSimplifying:       p.WorthSimplifying,
		Current:                balancesToAPI(p.Current),
		Simplified:             balancesToAPI(p.Simplified),
	}), nil
}
