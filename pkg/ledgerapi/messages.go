package ledgerapi

// Amounts travel as decimal strings with two places, e.g. "12.50".

type Group struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Members   []string `json:"members"`
	CreatedAt int64    `json:"created_at,omitempty"`
}

// Participant is one user in an expense split. Weight is ignored for equal
// splits, is the exact amount for unequal splits and the percentage for
// percentage splits.
type Participant struct {
	UserID string `json:"user_id"`
	Weight string `json:"weight,omitempty"`
}

type Share struct {
	UserID     string `json:"user_id"`
	Amount     string `json:"amount"`
	Percentage string `json:"percentage,omitempty"`
}

type Expense struct {
	ID           string        `json:"id,omitempty"`
	GroupID      string        `json:"group_id"`
	Description  string        `json:"description,omitempty"`
	Amount       string        `json:"amount"`
	Currency     string        `json:"currency,omitempty"`
	PayerID      string        `json:"payer_id"`
	SplitType    string        `json:"split_type"`
	Participants []Participant `json:"participants"`
	Shares       []Share       `json:"shares,omitempty"`
	CreatedBy    string        `json:"created_by,omitempty"`
	CreatedAt    int64         `json:"created_at,omitempty"`
	UpdatedAt    int64         `json:"updated_at,omitempty"`
}

type Settlement struct {
	ID         string `json:"id"`
	GroupID    string `json:"group_id"`
	PayerID    string `json:"payer_id"`
	ReceiverID string `json:"receiver_id"`
	Amount     string `json:"amount"`
	Currency   string `json:"currency,omitempty"`
	Note       string `json:"note,omitempty"`
	CreatedBy  string `json:"created_by,omitempty"`
	CreatedAt  int64  `json:"created_at"`
}

// Balance says FromUserID owes ToUserID Amount.
type Balance struct {
	GroupID    string `json:"group_id"`
	FromUserID string `json:"from_user_id"`
	ToUserID   string `json:"to_user_id"`
	Amount     string `json:"amount"`
}

type Counterparty struct {
	GroupID string `json:"group_id"`
	UserID  string `json:"user_id"`
	Amount  string `json:"amount"`
}

type CreateGroupRequest struct {
	Name    string   `json:"name"`
	Members []string `json:"members"`
}

type CreateGroupResponse struct {
	Group *Group `json:"group"`
}

type AddGroupMembersRequest struct {
	GroupID string   `json:"group_id"`
	Members []string `json:"members"`
}

type AddGroupMembersResponse struct {
	Group *Group `json:"group"`
}

type GetGroupRequest struct {
	GroupID string `json:"group_id"`
}

type GetGroupResponse struct {
	Group *Group `json:"group"`
}

// ResolveSplitRequest previews the shares of an expense without storing it.
type ResolveSplitRequest struct {
	Expense *Expense `json:"expense"`
}

type ResolveSplitResponse struct {
	Shares []Share `json:"shares"`
}

type CreateExpenseRequest struct {
	Expense *Expense `json:"expense"`
}

type CreateExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

// UpdateExpenseRequest replaces the expense named by Expense.ID. GroupID may
// be left empty; it cannot change.
type UpdateExpenseRequest struct {
	Expense *Expense `json:"expense"`
}

type UpdateExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type DeleteExpenseRequest struct {
	ExpenseID string `json:"expense_id"`
}

type DeleteExpenseResponse struct{}

type GetExpenseRequest struct {
	ExpenseID string `json:"expense_id"`
}

type GetExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type ListExpensesRequest struct {
	GroupID string `json:"group_id"`
}

type ListExpensesResponse struct {
	Expenses []*Expense `json:"expenses"`
}

type RecordSettlementRequest struct {
	GroupID    string `json:"group_id"`
	PayerID    string `json:"payer_id"`
	ReceiverID string `json:"receiver_id"`
	Amount     string `json:"amount"`
	Currency   string `json:"currency,omitempty"`
	Note       string `json:"note,omitempty"`
}

type RecordSettlementResponse struct {
	Settlement *Settlement `json:"settlement"`
}

type ListSettlementsRequest struct {
	GroupID string `json:"group_id"`
}

type ListSettlementsResponse struct {
	Settlements []*Settlement `json:"settlements"`
}

type RecalculateGroupBalancesRequest struct {
	GroupID string `json:"group_id"`
}

type RecalculateGroupBalancesResponse struct {
	Balances []Balance `json:"balances"`
}

// GetUserBalancesRequest asks for one user's position. An empty GroupID
// spans every group and is only allowed for the caller's own balances.
type GetUserBalancesRequest struct {
	UserID  string `json:"user_id"`
	GroupID string `json:"group_id,omitempty"`
}

type GetUserBalancesResponse struct {
	UserID    string         `json:"user_id"`
	GroupID   string         `json:"group_id,omitempty"`
	Owes      []Counterparty `json:"owes"`
	Owed      []Counterparty `json:"owed"`
	TotalOwes string         `json:"total_owes"`
	TotalOwed string         `json:"total_owed"`
	Net       string         `json:"net"`
}

type GetGroupBalanceMatrixRequest struct {
	GroupID string `json:"group_id"`
}

// GetGroupBalanceMatrixResponse holds Amounts[i][j], what Members[i] owes
// Members[j].
type GetGroupBalanceMatrixResponse struct {
	GroupID string     `json:"group_id"`
	Members []string   `json:"members"`
	Amounts [][]string `json:"amounts"`
}

type SimplifyDebtsRequest struct {
	GroupID string `json:"group_id"`
}

type SimplifyDebtsResponse struct {
	Applied  bool      `json:"applied"`
	Before   int       `json:"before"`
	After    int       `json:"after"`
	Balances []Balance `json:"balances"`
}

type GetSimplificationPreviewRequest struct {
	GroupID string `json:"group_id"`
}

type GetSimplificationPreviewResponse struct {
	CurrentTransactions    int       `json:"current_transactions"`
	SimplifiedTransactions int       `json:"simplified_transactions"`
	TransactionsSaved      int       `json:"transactions_saved"`
	PercentageSaved        float64   `json:"percentage_saved"`
	WorthSimplifying       bool      `json:"worth_simplifying"`
	Current                []Balance `json:"current"`
	Simplified             []Balance `json:"simplified"`
}
