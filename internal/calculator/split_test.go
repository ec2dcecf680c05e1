package calculator

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/money"
)

func participants(ids ...string) []models.Participant {
	ps := make([]models.Participant, len(ids))
	for i, id := range ids {
		ps[i] = models.Participant{UserID: id}
	}
	return ps
}

func weighted(pairs ...string) []models.Participant {
	ps := make([]models.Participant, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		ps = append(ps, models.Participant{UserID: pairs[i], Weight: decimal.RequireFromString(pairs[i+1])})
	}
	return ps
}

func shareMap(shares []models.ExpenseShare) map[string]string {
	m := make(map[string]string, len(shares))
	for _, s := range shares {
		m[s.UserID] = s.Amount.String()
	}
	return m
}

func TestResolveSplit(t *testing.T) {
	tests := []struct {
		name         string
		expense      models.Expense
		wantErr      error
		validateFunc func(t *testing.T, shares []models.ExpenseShare)
	}{
		{
			name: "equal split of 30 among three",
			expense: models.Expense{
				Amount: money.MustParse("30.00"), PayerID: "u1",
				SplitType: models.SplitEqual, Participants: participants("u1", "u2", "u3"),
			},
			validateFunc: func(t *testing.T, shares []models.ExpenseShare) {
				got := shareMap(shares)
				for _, u := range []string{"u1", "u2", "u3"} {
					if got[u] != "10.00" {
						t.Errorf("%s share = %s, want 10.00", u, got[u])
					}
				}
			},
		},
		{
			name: "equal split of 10 among three assigns the extra cent to the first participant",
			expense: models.Expense{
				Amount: money.MustParse("10.00"), PayerID: "u2",
				SplitType: models.SplitEqual, Participants: participants("u2", "u1", "u3"),
			},
			validateFunc: func(t *testing.T, shares []models.ExpenseShare) {
				want := []string{"3.34", "3.33", "3.33"}
				for i, s := range shares {
					if s.Amount.String() != want[i] {
						t.Errorf("share[%d] (%s) = %s, want %s", i, s.UserID, s.Amount, want[i])
					}
				}
			},
		},
		{
			name: "payer outside the participant list gets a zero share",
			expense: models.Expense{
				Amount: money.MustParse("20.00"), PayerID: "payer",
				SplitType: models.SplitEqual, Participants: participants("a", "b"),
			},
			validateFunc: func(t *testing.T, shares []models.ExpenseShare) {
				if len(shares) != 3 {
					t.Fatalf("got %d shares, want 3", len(shares))
				}
				last := shares[2]
				if last.UserID != "payer" || !last.Amount.IsZero() {
					t.Errorf("last share = %s:%s, want payer:0.00", last.UserID, last.Amount)
				}
			},
		},
		{
			name: "unequal split with exact amounts",
			expense: models.Expense{
				Amount: money.MustParse("50.00"), PayerID: "a",
				SplitType: models.SplitUnequal, Participants: weighted("a", "10.00", "b", "15.50", "c", "24.50"),
			},
			validateFunc: func(t *testing.T, shares []models.ExpenseShare) {
				got := shareMap(shares)
				if got["b"] != "15.50" || got["c"] != "24.50" {
					t.Errorf("unexpected shares %v", got)
				}
			},
		},
		{
			name: "unequal split that does not add up",
			expense: models.Expense{
				Amount: money.MustParse("50.00"), PayerID: "a",
				SplitType: models.SplitUnequal, Participants: weighted("a", "10.00", "b", "15.00"),
			},
			wantErr: models.ErrSplitSumMismatch,
		},
		{
			name: "unequal split with sub-cent amount",
			expense: models.Expense{
				Amount: money.MustParse("1.00"), PayerID: "a",
				SplitType: models.SplitUnequal, Participants: weighted("a", "0.505", "b", "0.495"),
			},
			wantErr: models.ErrInvalidSplit,
		},
		{
			name: "percentage split with remainder",
			expense: models.Expense{
				Amount: money.MustParse("10.00"), PayerID: "a",
				SplitType: models.SplitPercentage, Participants: weighted("a", "33.33", "b", "33.33", "c", "33.34"),
			},
			validateFunc: func(t *testing.T, shares []models.ExpenseShare) {
				want := map[string]string{"a": "3.34", "b": "3.33", "c": "3.33"}
				for u, w := range want {
					if got := shareMap(shares)[u]; got != w {
						t.Errorf("%s share = %s, want %s", u, got, w)
					}
				}
				for _, s := range shares {
					if s.Percentage == nil {
						t.Errorf("%s share has no percentage", s.UserID)
					}
				}
			},
		},
		{
			name: "percentage split skips zero-percent participants when moving cents",
			expense: models.Expense{
				Amount: money.MustParse("0.05"), PayerID: "a",
				SplitType: models.SplitPercentage, Participants: weighted("z", "0", "a", "50", "b", "50"),
			},
			validateFunc: func(t *testing.T, shares []models.ExpenseShare) {
				got := shareMap(shares)
				if got["z"] != "0.00" {
					t.Errorf("zero-percent share = %s, want 0.00", got["z"])
				}
			},
		},
		{
			name: "percentages not adding to 100",
			expense: models.Expense{
				Amount: money.MustParse("10.00"), PayerID: "a",
				SplitType: models.SplitPercentage, Participants: weighted("a", "50", "b", "40"),
			},
			wantErr: models.ErrSplitSumMismatch,
		},
		{
			name:    "no participants",
			expense: models.Expense{Amount: money.MustParse("10.00"), PayerID: "a", SplitType: models.SplitEqual},
			wantErr: models.ErrInvalidSplit,
		},
		{
			name: "duplicate participant",
			expense: models.Expense{
				Amount: money.MustParse("10.00"), PayerID: "a",
				SplitType: models.SplitEqual, Participants: participants("a", "b", "a"),
			},
			wantErr: models.ErrDuplicateParticipant,
		},
		{
			name: "zero amount",
			expense: models.Expense{
				Amount: money.Zero, PayerID: "a",
				SplitType: models.SplitEqual, Participants: participants("a"),
			},
			wantErr: models.ErrNonPositiveAmount,
		},
		{
			name: "unknown split type",
			expense: models.Expense{
				Amount: money.MustParse("10.00"), PayerID: "a",
				SplitType: "shares", Participants: participants("a"),
			},
			wantErr: models.ErrInvalidSplit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares, err := ResolveSplit(&tt.expense)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ResolveSplit() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveSplit() unexpected error: %v", err)
			}

			total := money.Zero
			for _, s := range shares {
				total = total.Add(s.Amount)
			}
			if !total.Equal(tt.expense.Amount) {
				t.Errorf("shares sum to %s, want %s", total, tt.expense.Amount)
			}

			if tt.validateFunc != nil {
				tt.validateFunc(t, shares)
			}
		})
	}
}

func TestResolveSplitSumInvariant(t *testing.T) {
	amounts := []string{"0.01", "0.02", "1.00", "10.00", "99.99", "100.00", "1234.57"}
	for _, a := range amounts {
		for n := 1; n <= 9; n++ {
			ids := make([]string, n)
			for i := range ids {
				ids[i] = string(rune('a' + i))
			}
			e := &models.Expense{
				Amount: money.MustParse(a), PayerID: "a",
				SplitType: models.SplitEqual, Participants: participants(ids...),
			}
			shares, err := ResolveSplit(e)
			if err != nil {
				t.Fatalf("%s/%d: %v", a, n, err)
			}
			total := money.Zero
			for _, s := range shares {
				total = total.Add(s.Amount)
			}
			if !total.Equal(e.Amount) {
				t.Errorf("%s split %d ways sums to %s", a, n, total)
			}
		}
	}
}
