package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/money"
)

func TestBalancesChangedJSON(t *testing.T) {
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	e := BalancesChanged{
		GroupID: "g1",
		Reason:  ReasonSettlementRecorded,
		Balances: []models.PairwiseBalance{
			{GroupID: "g1", FromUserID: "a", ToUserID: "b", Amount: money.MustParse("12.5")},
		},
		OccurredAt: at,
	}

	body, err := e.ToJSON()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, "g1", decoded["group_id"])
	assert.Equal(t, "settlement_recorded", decoded["reason"])
	assert.NotContains(t, decoded, "subject_id")

	rows := decoded["balances"].([]any)
	require.Len(t, rows, 1)
	assert.Equal(t, "12.50", rows[0].(map[string]any)["amount"])
}

func TestMemoryPublisher(t *testing.T) {
	var m Memory
	ctx := context.Background()

	require.NoError(t, m.Publish(ctx, BalancesChanged{GroupID: "a"}))
	require.NoError(t, m.Publish(ctx, BalancesChanged{GroupID: "b"}))

	got := m.Events()
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].GroupID)
	assert.Equal(t, "b", got[1].GroupID)
	assert.NoError(t, m.Close())
}

func TestNoop(t *testing.T) {
	var p Publisher = Noop{}
	assert.NoError(t, p.Publish(context.Background(), BalancesChanged{}))
	assert.NoError(t, p.Close())
}
