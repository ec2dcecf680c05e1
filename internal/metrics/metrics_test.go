package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestLedgerMetrics(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveRecalculation(time.Now(), 3, nil)
	m.ObserveRecalculation(time.Now(), 0, errors.New("boom"))
	m.ObserveMutation("expense_created", nil)
	m.ObserveMutation("expense_created", errors.New("boom"))
	m.ObserveSimplification(true)
	m.AddSkippedExpenses(2)
	m.AddSkippedExpenses(0)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.recalculations.WithLabelValues(OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.recalculations.WithLabelValues(OutcomeError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.mutations.WithLabelValues("expense_created", OutcomeError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.simplifications.WithLabelValues("true")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.simplifications.WithLabelValues("false")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.skippedExpenses))
}

func TestNilLedgerIsSafe(t *testing.T) {
	var m *Ledger
	assert.NotPanics(t, func() {
		m.ObserveRecalculation(time.Now(), 1, nil)
		m.ObserveMutation("x", nil)
		m.ObserveSimplification(false)
		m.AddSkippedExpenses(1)
	})
}

func TestDefaultIsSingleton(t *testing.T) {
	assert.Same(t, Default(), Default())
}
