package ledgerapi

import (
	"context"
	"errors"
	"net/http"

	"connectrpc.com/connect"
)

// LedgerServiceName is the fully-qualified name of the ledger service.
const LedgerServiceName = "splitledger.v1.LedgerService"

// Procedure paths, usable with connect.Spec.Procedure in interceptors.
const (
	LedgerServiceCreateGroupProcedure              = "/splitledger.v1.LedgerService/CreateGroup"
	LedgerServiceAddGroupMembersProcedure          = "/splitledger.v1.LedgerService/AddGroupMembers"
	LedgerServiceGetGroupProcedure                 = "/splitledger.v1.LedgerService/GetGroup"
	LedgerServiceResolveSplitProcedure             = "/splitledger.v1.LedgerService/ResolveSplit"
	LedgerServiceCreateExpenseProcedure            = "/splitledger.v1.LedgerService/CreateExpense"
	LedgerServiceUpdateExpenseProcedure            = "/splitledger.v1.LedgerService/UpdateExpense"
	LedgerServiceDeleteExpenseProcedure            = "/splitledger.v1.LedgerService/DeleteExpense"
	LedgerServiceGetExpenseProcedure               = "/splitledger.v1.LedgerService/GetExpense"
	LedgerServiceListExpensesProcedure             = "/splitledger.v1.LedgerService/ListExpenses"
	LedgerServiceRecordSettlementProcedure         = "/splitledger.v1.LedgerService/RecordSettlement"
	LedgerServiceListSettlementsProcedure          = "/splitledger.v1.LedgerService/ListSettlements"
	LedgerServiceRecalculateGroupBalancesProcedure = "/splitledger.v1.LedgerService/RecalculateGroupBalances"
	LedgerServiceGetUserBalancesProcedure          = "/splitledger.v1.LedgerService/GetUserBalances"
	LedgerServiceGetGroupBalanceMatrixProcedure    = "/splitledger.v1.LedgerService/GetGroupBalanceMatrix"
	LedgerServiceSimplifyDebtsProcedure            = "/splitledger.v1.LedgerService/SimplifyDebts"
	LedgerServiceGetSimplificationPreviewProcedure = "/splitledger.v1.LedgerService/GetSimplificationPreview"
)

// LedgerServiceHandler is implemented by the server side of the service.
type LedgerServiceHandler interface {
	CreateGroup(context.Context, *connect.Request[CreateGroupRequest]) (*connect.Response[CreateGroupResponse], error)
	AddGroupMembers(context.Context, *connect.Request[AddGroupMembersRequest]) (*connect.Response[AddGroupMembersResponse], error)
	GetGroup(context.Context, *connect.Request[GetGroupRequest]) (*connect.Response[GetGroupResponse], error)
	ResolveSplit(context.Context, *connect.Request[ResolveSplitRequest]) (*connect.Response[ResolveSplitResponse], error)
	CreateExpense(context.Context, *connect.Request[CreateExpenseRequest]) (*connect.Response[CreateExpenseResponse], error)
	UpdateExpense(context.Context, *connect.Request[UpdateExpenseRequest]) (*connect.Response[UpdateExpenseResponse], error)
	DeleteExpense(context.Context, *connect.Request[DeleteExpenseRequest]) (*connect.Response[DeleteExpenseResponse], error)
	GetExpense(context.Context, *connect.Request[GetExpenseRequest]) (*connect.Response[GetExpenseResponse], error)
	ListExpenses(context.Context, *connect.Request[ListExpensesRequest]) (*connect.Response[ListExpensesResponse], error)
	RecordSettlement(context.Context, *connect.Request[RecordSettlementRequest]) (*connect.Response[RecordSettlementResponse], error)
	ListSettlements(context.Context, *connect.Request[ListSettlementsRequest]) (*connect.Response[ListSettlementsResponse], error)
	RecalculateGroupBalances(context.Context, *connect.Request[RecalculateGroupBalancesRequest]) (*connect.Response[RecalculateGroupBalancesResponse], error)
	GetUserBalances(context.Context, *connect.Request[GetUserBalancesRequest]) (*connect.Response[GetUserBalancesResponse], error)
	GetGroupBalanceMatrix(context.Context, *connect.Request[GetGroupBalanceMatrixRequest]) (*connect.Response[GetGroupBalanceMatrixResponse], error)
	SimplifyDebts(context.Context, *connect.Request[SimplifyDebtsRequest]) (*connect.Response[SimplifyDebtsResponse], error)
	GetSimplificationPreview(context.Context, *connect.Request[GetSimplificationPreviewRequest]) (*connect.Response[GetSimplificationPreviewResponse], error)
}

// NewLedgerServiceHandler builds an HTTP handler serving every procedure of
// svc. It returns the path prefix to mount the handler on.
func NewLedgerServiceHandler(svc LedgerServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(Codec{})}, opts...)

	mux := http.NewServeMux()
	mux.Handle(LedgerServiceCreateGroupProcedure, connect.NewUnaryHandler(LedgerServiceCreateGroupProcedure, svc.CreateGroup, opts...))
	mux.Handle(LedgerServiceAddGroupMembersProcedure, connect.NewUnaryHandler(LedgerServiceAddGroupMembersProcedure, svc.AddGroupMembers, opts...))
	mux.Handle(LedgerServiceGetGroupProcedure, connect.NewUnaryHandler(LedgerServiceGetGroupProcedure, svc.GetGroup, opts...))
	mux.Handle(LedgerServiceResolveSplitProcedure, connect.NewUnaryHandler(LedgerServiceResolveSplitProcedure, svc.ResolveSplit, opts...))
	mux.Handle(LedgerServiceCreateExpenseProcedure, connect.NewUnaryHandler(LedgerServiceCreateExpenseProcedure, svc.CreateExpense, opts...))
	mux.Handle(LedgerServiceUpdateExpenseProcedure, connect.NewUnaryHandler(LedgerServiceUpdateExpenseProcedure, svc.UpdateExpense, opts...))
	mux.Handle(LedgerServiceDeleteExpenseProcedure, connect.NewUnaryHandler(LedgerServiceDeleteExpenseProcedure, svc.DeleteExpense, opts...))
	mux.Handle(LedgerServiceGetExpenseProcedure, connect.NewUnaryHandler(LedgerServiceGetExpenseProcedure, svc.GetExpense, opts...))
	mux.Handle(LedgerServiceListExpensesProcedure, connect.NewUnaryHandler(LedgerServiceListExpensesProcedure, svc.ListExpenses, opts...))
	mux.Handle(LedgerServiceRecordSettlementProcedure, connect.NewUnaryHandler(LedgerServiceRecordSettlementProcedure, svc.RecordSettlement, opts...))
	mux.Handle(LedgerServiceListSettlementsProcedure, connect.NewUnaryHandler(LedgerServiceListSettlementsProcedure, svc.ListSettlements, opts...))
	mux.Handle(LedgerServiceRecalculateGroupBalancesProcedure, connect.NewUnaryHandler(LedgerServiceRecalculateGroupBalancesProcedure, svc.RecalculateGroupBalances, opts...))
	mux.Handle(LedgerServiceGetUserBalancesProcedure, connect.NewUnaryHandler(LedgerServiceGetUserBalancesProcedure, svc.GetUserBalances, opts...))
	mux.Handle(LedgerServiceGetGroupBalanceMatrixProcedure, connect.NewUnaryHandler(LedgerServiceGetGroupBalanceMatrixProcedure, svc.GetGroupBalanceMatrix, opts...))
	mux.Handle(LedgerServiceSimplifyDebtsProcedure, connect.NewUnaryHandler(LedgerServiceSimplifyDebtsProcedure, svc.SimplifyDebts, opts...))
	mux.Handle(LedgerServiceGetSimplificationPreviewProcedure, connect.NewUnaryHandler(LedgerServiceGetSimplificationPreviewProcedure, svc.GetSimplificationPreview, opts...))

	return "/" + LedgerServiceName + "/", mux
}

// LedgerServiceClient is a client for the ledger service.
type LedgerServiceClient struct {
	createGroup              *connect.Client[CreateGroupRequest, CreateGroupResponse]
	addGroupMembers          *connect.Client[AddGroupMembersRequest, AddGroupMembersResponse]
	getGroup                 *connect.Client[GetGroupRequest, GetGroupResponse]
	resolveSplit             *connect.Client[ResolveSplitRequest, ResolveSplitResponse]
	createExpense            *connect.Client[CreateExpenseRequest, CreateExpenseResponse]
	updateExpense            *connect.Client[UpdateExpenseRequest, UpdateExpenseResponse]
	deleteExpense            *connect.Client[DeleteExpenseRequest, DeleteExpenseResponse]
	getExpense               *connect.Client[GetExpenseRequest, GetExpenseResponse]
	listExpenses             *connect.Client[ListExpensesRequest, ListExpensesResponse]
	recordSettlement         *connect.Client[RecordSettlementRequest, RecordSettlementResponse]
	listSettlements          *connect.Client[ListSettlementsRequest, ListSettlementsResponse]
	recalculateGroupBalances *connect.Client[RecalculateGroupBalancesRequest, RecalculateGroupBalancesResponse]
	getUserBalances          *connect.Client[GetUserBalancesRequest, GetUserBalancesResponse]
	getGroupBalanceMatrix    *connect.Client[GetGroupBalanceMatrixRequest, GetGroupBalanceMatrixResponse]
	simplifyDebts            *connect.Client[SimplifyDebtsRequest, SimplifyDebtsResponse]
	getSimplificationPreview *connect.Client[GetSimplificationPreviewRequest, GetSimplificationPreviewResponse]
}

// NewLedgerServiceClient creates a client for the service at baseURL, e.g.
// "http://localhost:8080".
func NewLedgerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *LedgerServiceClient {
	opts = append([]connect.ClientOption{connect.WithCodec(Codec{})}, opts...)
	return &LedgerServiceClient{
		createGroup:              connect.NewClient[CreateGroupRequest, CreateGroupResponse](httpClient, baseURL+LedgerServiceCreateGroupProcedure, opts...),
		addGroupMembers:          connect.NewClient[AddGroupMembersRequest, AddGroupMembersResponse](httpClient, baseURL+LedgerServiceAddGroupMembersProcedure, opts...),
		getGroup:                 connect.NewClient[GetGroupRequest, GetGroupResponse](httpClient, baseURL+LedgerServiceGetGroupProcedure, opts...),
		resolveSplit:             connect.NewClient[ResolveSplitRequest, ResolveSplitResponse](httpClient, baseURL+LedgerServiceResolveSplitProcedure, opts...),
		createExpense:            connect.NewClient[CreateExpenseRequest, CreateExpenseResponse](httpClient, baseURL+LedgerServiceCreateExpenseProcedure, opts...),
		updateExpense:            connect.NewClient[UpdateExpenseRequest, UpdateExpenseResponse](httpClient, baseURL+LedgerServiceUpdateExpenseProcedure, opts...),
		deleteExpense:            connect.NewClient[DeleteExpenseRequest, DeleteExpenseResponse](httpClient, baseURL+LedgerServiceDeleteExpenseProcedure, opts...),
		getExpense:               connect.NewClient[GetExpenseRequest, GetExpenseResponse](httpClient, baseURL+LedgerServiceGetExpenseProcedure, opts...),
		listExpenses:             connect.NewClient[ListExpensesRequest, ListExpensesResponse](httpClient, baseURL+LedgerServiceListExpensesProcedure, opts...),
		recordSettlement:         connect.NewClient[RecordSettlementRequest, RecordSettlementResponse](httpClient, baseURL+LedgerServiceRecordSettlementProcedure, opts...),
		listSettlements:          connect.NewClient[ListSettlementsRequest, ListSettlementsResponse](httpClient, baseURL+LedgerServiceListSettlementsProcedure, opts...),
		recalculateGroupBalances: connect.NewClient[RecalculateGroupBalancesRequest, RecalculateGroupBalancesResponse](httpClient, baseURL+LedgerServiceRecalculateGroupBalancesProcedure, opts...),
		getUserBalances:          connect.NewClient[GetUserBalancesRequest, GetUserBalancesResponse](httpClient, baseURL+LedgerServiceGetUserBalancesProcedure, opts...),
		getGroupBalanceMatrix:    connect.NewClient[GetGroupBalanceMatrixRequest, GetGroupBalanceMatrixResponse](httpClient, baseURL+LedgerServiceGetGroupBalanceMatrixProcedure, opts...),
		simplifyDebts:            connect.NewClient[SimplifyDebtsRequest, SimplifyDebtsResponse](httpClient, baseURL+LedgerServiceSimplifyDebtsProcedure, opts...),
		getSimplificationPreview: connect.NewClient[GetSimplificationPreviewRequest, GetSimplificationPreviewResponse](httpClient, baseURL+LedgerServiceGetSimplificationPreviewProcedure, opts...),
	}
}

func (c *LedgerServiceClient) CreateGroup(ctx context.Context, req *connect.Request[CreateGroupRequest]) (*connect.Response[CreateGroupResponse], error) {
	return c.createGroup.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) AddGroupMembers(ctx context.Context, req *connect.Request[AddGroupMembersRequest]) (*connect.Response[AddGroupMembersResponse], error) {
	return c.addGroupMembers.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) GetGroup(ctx context.Context, req *connect.Request[GetGroupRequest]) (*connect.Response[GetGroupResponse], error) {
	return c.getGroup.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) ResolveSplit(ctx context.Context, req *connect.Request[ResolveSplitRequest]) (*connect.Response[ResolveSplitResponse], error) {
	return c.resolveSplit.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) CreateExpense(ctx context.Context, req *connect.Request[CreateExpenseRequest]) (*connect.Response[CreateExpenseResponse], error) {
	return c.createExpense.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) UpdateExpense(ctx context.Context, req *connect.Request[UpdateExpenseRequest]) (*connect.Response[UpdateExpenseResponse], error) {
	return c.updateExpense.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) DeleteExpense(ctx context.Context, req *connect.Request[DeleteExpenseRequest]) (*connect.Response[DeleteExpenseResponse], error) {
	return c.deleteExpense.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) GetExpense(ctx context.Context, req *connect.Request[GetExpenseRequest]) (*connect.Response[GetExpenseResponse], error) {
	return c.getExpense.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) ListExpenses(ctx context.Context, req *connect.Request[ListExpensesRequest]) (*connect.Response[ListExpensesResponse], error) {
	return c.listExpenses.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) RecordSettlement(ctx context.Context, req *connect.Request[RecordSettlementRequest]) (*connect.Response[RecordSettlementResponse], error) {
	return c.recordSettlement.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) ListSettlements(ctx context.Context, req *connect.Request[ListSettlementsRequest]) (*connect.Response[ListSettlementsResponse], error) {
	return c.listSettlements.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) RecalculateGroupBalances(ctx context.Context, req *connect.Request[RecalculateGroupBalancesRequest]) (*connect.Response[RecalculateGroupBalancesResponse], error) {
	return c.recalculateGroupBalances.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) GetUserBalances(ctx context.Context, req *connect.Request[GetUserBalancesRequest]) (*connect.Response[GetUserBalancesResponse], error) {
	return c.getUserBalances.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) GetGroupBalanceMatrix(ctx context.Context, req *connect.Request[GetGroupBalanceMatrixRequest]) (*connect.Response[GetGroupBalanceMatrixResponse], error) {
	return c.getGroupBalanceMatrix.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) SimplifyDebts(ctx context.Context, req *connect.Request[SimplifyDebtsRequest]) (*connect.Response[SimplifyDebtsResponse], error) {
	return c.simplifyDebts.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) GetSimplificationPreview(ctx context.Context, req *connect.Request[GetSimplificationPreviewRequest]) (*connect.Response[GetSimplificationPreviewResponse], error) {
	return c.getSimplificationPreview.CallUnary(ctx, req)
}

// UnimplementedLedgerServiceHandler answers every procedure with
// CodeUnimplemented. Embed it to stay compatible as procedures are added.
type UnimplementedLedgerServiceHandler struct{}

func (UnimplementedLedgerServiceHandler) CreateGroup(context.Context, *connect.Request[CreateGroupRequest]) (*connect.Response[CreateGroupResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("splitledger.v1.LedgerService.CreateGroup is not implemented"))
}

func (UnimplementedLedgerServiceHandler) AddGroupMembers(context.Context, *connect.Request[AddGroupMembersRequest]) (*connect.Response[AddGroupMembersResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("splitledger.v1.LedgerService.AddGroupMembers is not implemented"))
}

func (UnimplementedLedgerServiceHandler) GetGroup(context.Context, *connect.Request[GetGroupRequest]) (*connect.Response[GetGroupResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("splitledger.v1.LedgerService.GetGroup is not implemented"))
}

func (UnimplementedLedgerServiceHandler) ResolveSplit(context.Context, *connect.Request[ResolveSplitRequest]) (*connect.Response[ResolveSplitResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("splitledger.v1.LedgerService.ResolveSplit is not implemented"))
}

func (UnimplementedLedgerServiceHandler) CreateExpense(context.Context, *connect.Request[CreateExpenseRequest]) (*connect.Response[CreateExpenseResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("splitledger.v1.LedgerService.CreateExpense is not implemented"))
}

func (UnimplementedLedgerServiceHandler) UpdateExpense(context.Context, *connect.Request[UpdateExpenseRequest]) (*connect.Response[UpdateExpenseResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("splitledger.v1.LedgerService.UpdateExpense is not implemented"))
}

func (UnimplementedLedgerServiceHandler) DeleteExpense(context.Context, *connect.Request[DeleteExpenseRequest]) (*connect.Response[DeleteExpenseResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("splitledger.v1.LedgerService.DeleteExpense is not implemented"))
}

func (UnimplementedLedgerServiceHandler) GetExpense(context.Context, *connect.Request[GetExpenseRequest]) (*connect.Response[GetExpenseResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("splitledger.v1.LedgerService.GetExpense is not implemented"))
}

func (UnimplementedLedgerServiceHandler) ListExpenses(context.Context, *connect.Request[ListExpensesRequest]) (*connect.Response[ListExpensesResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("splitledger.v1.LedgerService.ListExpenses is not implemented"))
}

func (UnimplementedLedgerServiceHandler) RecordSettlement(context.Context, *connect.Request[RecordSettlementRequest]) (*connect.Response[RecordSettlementResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("splitledger.v1.LedgerService.RecordSettlement is not implemented"))
}

func (UnimplementedLedgerServiceHandler) ListSettlements(context.Context, *connect.Request[ListSettlementsRequest]) (*connect.Response[ListSettlementsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("splitledger.v1.LedgerService.ListSettlements is not implemented"))
}

func (UnimplementedLedgerServiceHandler) RecalculateGroupBalances(context.Context, *connect.Request[RecalculateGroupBalancesRequest]) (*connect.Response[RecalculateGroupBalancesResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("splitledger.v1.LedgerService.RecalculateGroupBalances is not implemented"))
}

func (UnimplementedLedgerServiceHandler) GetUserBalances(context.Context, *connect.Request[GetUserBalancesRequest]) (*connect.Response[GetUserBalancesResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("splitledger.v1.LedgerService.GetUserBalances is not implemented"))
}

func (UnimplementedLedgerServiceHandler) GetGroupBalanceMatrix(context.Context, *connect.Request[GetGroupBalanceMatrixRequest]) (*connect.Response[GetGroupBalanceMatrixResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("splitledger.v1.LedgerService.GetGroupBalanceMatrix is not implemented"))
}

func (UnimplementedLedgerServiceHandler) SimplifyDebts(context.Context, *connect.Request[SimplifyDebtsRequest]) (*connect.Response[SimplifyDebtsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("splitledger.v1.LedgerService.SimplifyDebts is not implemented"))
}

func (UnimplementedLedgerServiceHandler) GetSimplificationPreview(context.Context, *connect.Request[GetSimplificationPreviewRequest]) (*connect.Response[GetSimplificationPreviewResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("splitledger.v1.LedgerService.GetSimplificationPreview is not implemented"))
}

var (
	_ LedgerServiceHandler = (*LedgerServiceClient)(nil)
	_ LedgerServiceHandler = UnimplementedLedgerServiceHandler{}
)
