package metrics

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/scottcagno/hashlab/pkg/common"
	"github.com/scottcagno/hashlab/pkg/stats"
	"github.com/scottcagno/hashlab/pkg/util"
)

// value gathers reg and returns the counter, gauge or histogram sample count
// of the series name with exactly the given labels, or -1 if there is none
func value(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	fams, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, fam := range fams {
		if fam.GetName() != name {
			continue
		}
	metric:
		for _, m := range fam.GetMetric() {
			if len(m.GetLabel()) != len(labels) {
				continue
			}
			for _, lp := range m.GetLabel() {
				if labels[lp.GetName()] != lp.GetValue() {
					continue metric
				}
			}
			switch {
			case m.GetCounter() != nil:
				return m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				return m.GetGauge().GetValue()
			case m.GetHistogram() != nil:
				return float64(m.GetHistogram().GetSampleCount())
			}
		}
	}
	return -1
}

func Test_Outcome(t *testing.T) {
	util.AssertExpected(t, OutcomeOK, Outcome(nil))
	util.AssertExpected(t, OutcomeDuplicate, Outcome(errors.Wrap(common.ErrDuplicateKey, "x")))
	util.AssertExpected(t, OutcomeFull, Outcome(common.ErrTableFull))
	util.AssertExpected(t, OutcomeNotFound, Outcome(common.ErrNotFound))
	util.AssertExpected(t, OutcomeInvalid, Outcome(common.ErrInvalidKey))
	util.AssertExpected(t, OutcomeError, Outcome(errors.New("boom")))
}

func Test_Metrics_Operations(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	ins := common.InsertResult{Key: 5, Strategy: common.Linear, Inserted: true, Comparisons: 2}
	m.ObserveInsert(ins, nil)
	m.ObserveInsert(common.InsertResult{Key: 5, Strategy: common.Linear}, common.ErrDuplicateKey)
	m.ObserveSearch(common.SearchResult{Key: 6, Strategy: common.Linear}, nil)
	m.ObserveDelete(common.DeleteResult{SearchResult: common.SearchResult{Strategy: common.Linear}}, common.ErrNotFound)

	util.AssertExpected(t, 1.0, value(t, reg, "hashlab_operations_total",
		map[string]string{"op": "insert", "strategy": "linear", "outcome": OutcomeOK}))
	util.AssertExpected(t, 1.0, value(t, reg, "hashlab_operations_total",
		map[string]string{"op": "insert", "strategy": "linear", "outcome": OutcomeDuplicate}))
	util.AssertExpected(t, 1.0, value(t, reg, "hashlab_operations_total",
		map[string]string{"op": "search", "strategy": "linear", "outcome": OutcomeMiss}))
	util.AssertExpected(t, 1.0, value(t, reg, "hashlab_operations_total",
		map[string]string{"op": "delete", "strategy": "linear", "outcome": OutcomeNotFound}))
	// only the stored insert is observed
	util.AssertExpected(t, 1.0, value(t, reg, "hashlab_insert_comparisons",
		map[string]string{"strategy": "linear"}))
}

func Test_Metrics_Sessions(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.SessionOpened("a", stats.Snapshot{})
	m.SetStats("a", stats.Snapshot{LoadFactor: 0.3, AvgSearchLength: 2})
	util.AssertExpected(t, 1.0, value(t, reg, "hashlab_sessions", map[string]string{}))
	util.AssertExpected(t, 0.3, value(t, reg, "hashlab_load_factor", map[string]string{"session": "a"}))
	util.AssertExpected(t, 2.0, value(t, reg, "hashlab_average_search_length", map[string]string{"session": "a"}))

	m.SessionClosed("a")
	util.AssertExpected(t, 0.0, value(t, reg, "hashlab_sessions", map[string]string{}))
	util.AssertExpected(t, -1.0, value(t, reg, "hashlab_load_factor", map[string]string{"session": "a"}))
}

func Test_Metrics_Unregistered(t *testing.T) {
	m := New(nil)
	m.ObserveInsert(common.InsertResult{Strategy: common.Chaining, Inserted: true, Comparisons: 1}, nil)
	m.SessionOpened("b", stats.Snapshot{})
	m.SessionClosed("b")
}
