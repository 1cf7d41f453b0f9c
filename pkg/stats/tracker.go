package stats

import (
	"fmt"

	"github.com/scottcagno/hashlab/pkg/common"
)

// DefaultHistorySize is how many collision events a tracker remembers when
// no size is given
const DefaultHistorySize = 5

// Event records one insert that collided
type Event struct {
	Key      int             `json:"key"`
	Strategy common.Strategy `json:"strategy"`
	Home     int             `json:"home"`
	Slot     int             `json:"slot"`
	Position int             `json:"position"`
	Probes   int             `json:"probes"`
	Sequence []int           `json:"sequence"`
}

func (e Event) String() string {
	if e.Strategy == common.Chaining {
		return fmt.Sprintf("insert %d: h=%d, collision, appended at chain position %d",
			e.Key, e.Home, e.Position)
	}
	return fmt.Sprintf("insert %d: h=%d, collision, probed %v, stored in slot %d after %d probes",
		e.Key, e.Home, e.Sequence, e.Slot, e.Probes)
}

// Snapshot is a point in time copy of the statistics
type Snapshot struct {
	Strategy        common.Strategy `json:"strategy"`
	Capacity        int             `json:"capacity"`
	ElementCount    int             `json:"elementCount"`
	TotalProbes     int             `json:"totalProbes"`
	Collisions      int             `json:"collisions"`
	LoadFactor      float64         `json:"loadFactor"`
	AvgSearchLength float64         `json:"avgSearchLength"`
	// TheoreticalASL is the textbook estimate 1 + α/2 of a successful search
	// under open addressing. It is zero for chaining.
	TheoreticalASL float64 `json:"theoreticalASL,omitempty"`
	History        []Event `json:"history"`
}

// Tracker accumulates probe counts and element counts across the operations
// of a single table. It is not safe for concurrent use.
type Tracker struct {
	strategy    common.Strategy
	capacity    int
	totalProbes int
	elements    int
	collisions  int
	limit       int
	history     []Event
}

// NewTracker returns an empty tracker for a table of the given capacity and
// strategy that remembers the most recent historySize collisions. A size of
// zero or less uses DefaultHistorySize.
func NewTracker(capacity int, strategy common.Strategy, historySize int) *Tracker {
	if historySize < 1 {
		historySize = DefaultHistorySize
	}
	return &Tracker{
		strategy: strategy,
		capacity: capacity,
		limit:    historySize,
		history:  make([]Event, 0, historySize),
	}
}

// RecordInsert adds the cost of a successful insert to the running totals.
// Failed inserts leave the tracker untouched.
func (t *Tracker) RecordInsert(res common.InsertResult) {
	if !res.Inserted {
		return
	}
	t.totalProbes += res.Comparisons
	t.elements++
	if res.Collided() {
		t.collisions++
		t.remember(Event{
			Key:      res.Key,
			Strategy: res.Strategy,
			Home:     res.Home,
			Slot:     res.Slot,
			Position: res.Position,
			Probes:   res.Probes,
			Sequence: append([]int(nil), res.Sequence...),
		})
	}
}

// RecordDelete lowers the element count after a successful delete. Probes
// already recorded stay recorded.
func (t *Tracker) RecordDelete(res common.DeleteResult) {
	if !res.Deleted || t.elements == 0 {
		return
	}
	t.elements--
}

// remember appends e to the history, dropping the oldest event when full
func (t *Tracker) remember(e Event) {
	if len(t.history) == t.limit {
		copy(t.history, t.history[1:])
		t.history = t.history[:len(t.history)-1]
	}
	t.history = append(t.history, e)
}

// LoadFactor returns elementCount / capacity
func (t *Tracker) LoadFactor() float64 {
	if t.capacity == 0 {
		return 0
	}
	return float64(t.elements) / float64(t.capacity)
}

// AverageSearchLength returns totalProbes / elementCount, or zero for an
// empty table
func (t *Tracker) AverageSearchLength() float64 {
	if t.elements == 0 {
		return 0
	}
	return float64(t.totalProbes) / float64(t.elements)
}

// TotalProbes returns the cumulative comparison count of all stored inserts
func (t *Tracker) TotalProbes() int {
	return t.totalProbes
}

// Elements returns the number of live elements
func (t *Tracker) Elements() int {
	return t.elements
}

// History returns a copy of the remembered collision events, oldest first
func (t *Tracker) History() []Event {
	return append([]Event(nil), t.history...)
}

// Snapshot returns a copy of every statistic
func (t *Tracker) Snapshot() Snapshot {
	s := Snapshot{
		Strategy:        t.strategy,
		Capacity:        t.capacity,
		ElementCount:    t.elements,
		TotalProbes:     t.totalProbes,
		Collisions:      t.collisions,
		LoadFactor:      t.LoadFactor(),
		AvgSearchLength: t.AverageSearchLength(),
		History:         t.History(),
	}
	if t.strategy.OpenAddressing() {
		s.TheoreticalASL = 1 + s.LoadFactor/2
	}
	return s
}
