package money

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr error
	}{
		{in: "10", want: "10.00"},
		{in: "10.5", want: "10.50"},
		{in: "0.01", want: "0.01"},
		{in: "-3.33", want: "-3.33"},
		{in: "1.005", wantErr: ErrTooPrecise},
		{in: "abc", wantErr: ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			m, err := Parse(tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.String())
		})
	}
}

func TestAllocate(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		n      int
		want   []string
	}{
		{"ten three ways", "10.00", 3, []string{"3.34", "3.33", "3.33"}},
		{"exact", "9.00", 3, []string{"3.00", "3.00", "3.00"}},
		{"one cent", "0.01", 3, []string{"0.01", "0.00", "0.00"}},
		{"two remainder cents", "100.00", 7, []string{"14.29", "14.29", "14.29", "14.29", "14.28", "14.28", "14.28"}},
		{"negative", "-10.00", 3, []string{"-3.34", "-3.33", "-3.33"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount := MustParse(tt.amount)
			parts := amount.Allocate(tt.n)
			require.Len(t, parts, tt.n)

			got := make([]string, len(parts))
			for i, p := range parts {
				got[i] = p.String()
			}
			assert.Equal(t, tt.want, got)
			assert.True(t, Sum(parts...).Equal(amount), "parts must sum to the amount")
		})
	}

	assert.Nil(t, MustParse("1.00").Allocate(0))
}

func TestPercentRoundsHalfUp(t *testing.T) {
	tests := []struct {
		amount string
		pct    string
		want   string
	}{
		{"10.00", "33.33", "3.33"},
		{"0.05", "50", "0.03"},
		{"100.00", "12.5", "12.50"},
		{"0.15", "10", "0.02"},
	}

	for _, tt := range tests {
		t.Run(tt.amount+"@"+tt.pct, func(t *testing.T) {
			got := MustParse(tt.amount).Percent(decimal.RequireFromString(tt.pct))
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestArithmetic(t *testing.T) {
	a := MustParse("0.10")
	b := MustParse("0.20")

	assert.Equal(t, "0.30", a.Add(b).String())
	assert.Equal(t, "-0.10", a.Sub(b).String())
	assert.Equal(t, "0.10", a.Sub(b).Abs().String())
	assert.Equal(t, "-0.10", a.Neg().String())
	assert.Equal(t, int64(10), a.Cents())
	assert.Equal(t, a, Min(a, b))
	assert.True(t, a.LessThan(b))
	assert.True(t, a.Sub(b).IsNegative())
	assert.True(t, b.IsPositive())
	assert.True(t, Zero.IsZero())
}

func TestNegligible(t *testing.T) {
	assert.True(t, Zero.Negligible())
	assert.False(t, Epsilon.Negligible())
	assert.False(t, Epsilon.Neg().Negligible())
	assert.False(t, MustParse("5.00").Negligible())
}

func TestJSON(t *testing.T) {
	type payload struct {
		Amount Money `json:"amount"`
	}

	out, err := json.Marshal(payload{Amount: MustParse("12.5")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":"12.50"}`, string(out))

	var in payload
	require.NoError(t, json.Unmarshal([]byte(`{"amount":"7.25"}`), &in))
	assert.Equal(t, "7.25", in.Amount.String())

	require.NoError(t, json.Unmarshal([]byte(`{"amount":3}`), &in))
	assert.Equal(t, "3.00", in.Amount.String())

	assert.Error(t, json.Unmarshal([]byte(`{"amount":"1.234"}`), &in))
}

func TestScanValue(t *testing.T) {
	m := MustParse("42.10")
	v, err := m.Value()
	require.NoError(t, err)
	assert.Equal(t, "42.10", v)

	var got Money
	require.NoError(t, got.Scan("42.10"))
	assert.True(t, got.Equal(m))

	require.NoError(t, got.Scan([]byte("1.5")))
	assert.Equal(t, "1.50", got.String())

	require.NoError(t, got.Scan(int64(7)))
	assert.Equal(t, "7.00", got.String())

	require.NoError(t, got.Scan(nil))
	assert.True(t, got.IsZero())

	assert.Error(t, got.Scan(true))
}
