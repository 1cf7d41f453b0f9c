package metrics

import (
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/scottcagno/hashlab/pkg/common"
	"github.com/scottcagno/hashlab/pkg/stats"
)

// Outcome labels
const (
	OutcomeOK        = "ok"
	OutcomeMiss      = "miss"
	OutcomeDuplicate = "duplicate"
	OutcomeFull      = "full"
	OutcomeNotFound  = "not_found"
	OutcomeInvalid   = "invalid"
	OutcomeError     = "error"
)

// Metrics groups every collector the daemon exposes. Each Metrics owns its
// collectors, so several can live side by side on different registries.
type Metrics struct {
	ops        *prometheus.CounterVec
	probes     *prometheus.HistogramVec
	sessions   prometheus.Gauge
	loadFactor *prometheus.GaugeVec
	asl        *prometheus.GaugeVec
}

// New creates the collectors and registers them with reg. A nil reg leaves
// them unregistered.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hashlab_operations_total",
			Help: "Table operations by kind, strategy and outcome",
		}, []string{"op", "strategy", "outcome"}),
		probes: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hashlab_insert_comparisons",
			Help:    "Comparisons made by successful inserts",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}, []string{"strategy"}),
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "hashlab_sessions",
			Help: "Number of open sessions",
		}),
		loadFactor: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "hashlab_load_factor",
			Help: "Load factor of the table by session",
		}, []string{"session"}),
		asl: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "hashlab_average_search_length",
			Help: "Average search length of the table by session",
		}, []string{"session"}),
	}
	if reg != nil {
		reg.MustRegister(m.ops, m.probes, m.sessions, m.loadFactor, m.asl)
	}
	return m
}

// Outcome maps the error of an operation onto its outcome label
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, common.ErrDuplicateKey):
		return OutcomeDuplicate
	case errors.Is(err, common.ErrTableFull):
		return OutcomeFull
	case errors.Is(err, common.ErrNotFound):
		return OutcomeNotFound
	case errors.Is(err, common.ErrInvalidKey):
		return OutcomeInvalid
	}
	return OutcomeError
}

func (m *Metrics) ObserveInsert(res common.InsertResult, err error) {
	m.ops.WithLabelValues("insert", res.Strategy.String(), Outcome(err)).Inc()
	if res.Inserted {
		m.probes.WithLabelValues(res.Strategy.String()).Observe(float64(res.Comparisons))
	}
}

func (m *Metrics) ObserveSearch(res common.SearchResult, err error) {
	outcome := Outcome(err)
	if err == nil && !res.Found {
		outcome = OutcomeMiss
	}
	m.ops.WithLabelValues("search", res.Strategy.String(), outcome).Inc()
}

func (m *Metrics) ObserveDelete(res common.DeleteResult, err error) {
	m.ops.WithLabelValues("delete", res.Strategy.String(), Outcome(err)).Inc()
}

// SetStats publishes the current load factor and ASL of session id
func (m *Metrics) SetStats(id string, snap stats.Snapshot) {
	m.loadFactor.WithLabelValues(id).Set(snap.LoadFactor)
	m.asl.WithLabelValues(id).Set(snap.AvgSearchLength)
}

func (m *Metrics) SessionOpened(id string, snap stats.Snapshot) {
	m.sessions.Inc()
	m.SetStats(id, snap)
}

// SessionClosed drops the per session series of id
func (m *Metrics) SessionClosed(id string) {
	m.sessions.Dec()
	m.loadFactor.DeleteLabelValues(id)
	m.asl.DeleteLabelValues(id)
}
