package service

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/money"
	"github.com/mmynk/splitledger/pkg/ledgerapi"
)

// expenseFromAPI converts a wire expense. Shares are ignored; they are always
// derived from the split.
func expenseFromAPI(in *ledgerapi.Expense) (*models.Expense, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: expense is required", models.ErrInvalidSplit)
	}

	amount, err := money.Parse(in.Amount)
	if err != nil {
		return nil, err
	}

	participants := make([]models.Participant, len(in.Participants))
	for i, p := range in.Participants {
		weight := decimal.Zero
		if p.Weight != "" {
			weight, err = decimal.NewFromString(p.Weight)
			if err != nil {
				return nil, fmt.Errorf("%w: weight %q for %s", models.ErrInvalidSplit, p.Weight, p.UserID)
			}
		}
		participants[i] = models.Participant{UserID: p.UserID, Weight: weight}
	}

	return &models.Expense{
		ID:           in.ID,
		GroupID:      in.GroupID,
		Description:  in.Description,
		Amount:       amount,
		Currency:     in.Currency,
		PayerID:      in.PayerID,
		SplitType:    models.SplitType(in.SplitType),
		Participants: participants,
	}, nil
}

func expenseToAPI(e *models.Expense) *ledgerapi.Expense {
	participants := make([]ledgerapi.Participant, len(e.Participants))
	for i, p := range e.Participants {
		participants[i] = ledgerapi.Participant{UserID: p.UserID}
		if e.SplitType != models.SplitEqual {
			participants[i].Weight = p.Weight.String()
		}
	}

	return &ledgerapi.Expense{
		ID:           e.ID,
		GroupID:      e.GroupID,
		Description:  e.Description,
		Amount:       e.Amount.String(),
		Currency:     e.Currency,
		PayerID:      e.PayerID,
		SplitType:    string(e.SplitType),
		Participants: participants,
		Shares:       sharesToAPI(e.Shares),
		CreatedBy:    e.CreatedBy,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

func sharesToAPI(shares []models.ExpenseShare) []ledgerapi.Share {
	out := make([]ledgerapi.Share, len(shares))
	for i, s := range shares {
		out[i] = ledgerapi.Share{UserID: s.UserID, Amount: s.Amount.String()}
		if s.Percentage != nil {
			out[i].Percentage = s.Percentage.String()
		}
	}
	return out
}

func groupToAPI(g *models.Group) *ledgerapi.Group {
	return &ledgerapi.Group{
		ID:        g.ID,
		Name:      g.Name,
		Members:   g.Members,
		CreatedAt: g.CreatedAt,
	}
}

func settlementToAPI(s *models.Settlement) *ledgerapi.Settlement {
	return &ledgerapi.Settlement{
		ID:         s.ID,
		GroupID:    s.GroupID,
		PayerID:    s.PayerID,
		ReceiverID: s.ReceiverID,
		Amount:     s.Amount.String(),
		Currency:   s.Currency,
		Note:       s.Note,
		CreatedBy:  s.CreatedBy,
		CreatedAt:  s.CreatedAt,
	}
}

func balancesToAPI(rows []models.PairwiseBalance) []ledgerapi.Balance {
	out := make([]ledgerapi.Balance, len(rows))
	for i, r := range rows {
		out[i] = ledgerapi.Balance{
			GroupID:    r.GroupID,
			FromUserID: r.FromUserID,
			ToUserID:   r.ToUserID,
			Amount:     r.Amount.String(),
		}
	}
	return out
}

func counterpartiesToAPI(cs []models.Counterparty) []ledgerapi.Counterparty {
	out := make([]ledgerapi.Counterparty, len(cs))
	for i, c := range cs {
		out[i] = ledgerapi.Counterparty{GroupID: c.GroupID, UserID: c.UserID, Amount: c.Amount.String()}
	}
	return out
}
