// Package metrics exposes Prometheus collectors for the ledger engine.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Ledger holds the collectors the engine reports to.
type Ledger struct {
	recalculations     *prometheus.CounterVec
	recalculationTime  prometheus.Histogram
	mutations          *prometheus.CounterVec
	simplifications    *prometheus.CounterVec
	skippedExpenses    prometheus.Counter
	balanceRowsWritten prometheus.Histogram
}

// Singleton for the default registry (avoid double registration).
var (
	defaultOnce sync.Once
	defaultInst *Ledger
)

// Default returns collectors registered with prometheus.DefaultRegisterer.
func Default() *Ledger {
	defaultOnce.Do(func() {
		defaultInst = New(prometheus.DefaultRegisterer)
	})
	return defaultInst
}

// New registers a fresh set of collectors with reg. Tests pass their own
// prometheus.NewRegistry().
func New(reg prometheus.Registerer) *Ledger {
	f := promauto.With(reg)
	return &Ledger{
		recalculations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_recalculations_total",
			Help: "Group balance recalculations by outcome",
		}, []string{"outcome"}),
		recalculationTime: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "ledger_recalculation_duration_seconds",
			Help:    "Time taken to replay a group's history and replace its balances",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}),
		mutations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_mutations_total",
			Help: "Ledger-affecting mutations by kind and outcome",
		}, []string{"kind", "outcome"}),
		simplifications: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_simplifications_total",
			Help: "Debt simplification commits by whether rows changed",
		}, []string{"applied"}),
		skippedExpenses: f.NewCounter(prometheus.CounterOpts{
			Name: "ledger_skipped_expenses_total",
			Help: "Expenses left out of a recalculation because their shares were inconsistent",
		}),
		balanceRowsWritten: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "ledger_balance_rows",
			Help:    "Number of pairwise rows written per balance replacement",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),
	}
}

// ObserveRecalculation records one recalculation.
func (m *Ledger) ObserveRecalculation(start time.Time, rows int, err error) {
	if m == nil {
		return
	}
	m.recalculationTime.Observe(time.Since(start).Seconds())
	if err != nil {
		m.recalculations.WithLabelValues(OutcomeError).Inc()
		return
	}
	m.recalculations.WithLabelValues(OutcomeOK).Inc()
	m.balanceRowsWritten.Observe(float64(rows))
}

// ObserveMutation records an expense or settlement write.
func (m *Ledger) ObserveMutation(kind string, err error) {
	if m == nil {
		return
	}
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	m.mutations.WithLabelValues(kind, outcome).Inc()
}

// ObserveSimplification records a simplify commit.
func (m *Ledger) ObserveSimplification(applied bool) {
	if m == nil {
		return
	}
	label := "false"
	if applied {
		label = "true"
	}
	m.simplifications.WithLabelValues(label).Inc()
}

// AddSkippedExpenses counts expenses dropped from a recalculation.
func (m *Ledger) AddSkippedExpenses(n int) {
	if m == nil || n == 0 {
		return
	}
	m.skippedExpenses.Add(float64(n))
}
