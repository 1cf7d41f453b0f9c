/*
	Package session owns the one active table a caller works against, along with
	the statistics of that table. Reconfiguring never mutates the existing table:
	a brand new table and tracker are built and swapped in whole, and the old
	ones are dropped. A Session is not safe for concurrent use; callers that
	share one must serialise access themselves.
*/
package session

import (
	"github.com/pkg/errors"
	"github.com/scottcagno/hashlab"
	"github.com/scottcagno/hashlab/pkg/common"
	"github.com/scottcagno/hashlab/pkg/hash/hasher"
	"github.com/scottcagno/hashlab/pkg/hashmap/chained"
	"github.com/scottcagno/hashlab/pkg/hashmap/openaddr"
	"github.com/scottcagno/hashlab/pkg/logger"
	"github.com/scottcagno/hashlab/pkg/stats"
)

var (
	_ hashlab.Table = (*openaddr.Table)(nil)
	_ hashlab.Table = (*chained.Table)(nil)
)

// Session is the operation API a presentation layer talks to
type Session struct {
	conf  Config
	table hashlab.Table
	stats *stats.Tracker
	log   *logger.Logger
}

// Option configures optional parts of a Session
type Option func(*Session)

// WithLogger makes the session log to l instead of logger.DefaultLogger
func WithLogger(l *logger.Logger) Option {
	return func(s *Session) {
		s.log = l
	}
}

// New returns a session with an empty table built from conf
func New(conf Config, opts ...Option) (*Session, error) {
	s := &Session{
		log: logger.DefaultLogger,
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.Configure(conf); err != nil {
		return nil, err
	}
	return s, nil
}

// newTable builds an empty table for conf
func newTable(conf Config) (hashlab.Table, error) {
	if conf.Strategy == common.Chaining {
		return chained.NewTable(conf.Capacity, conf.Method)
	}
	return openaddr.NewTable(conf.Capacity, conf.Strategy, conf.Method)
}

// Configure throws away the current table and statistics and starts over
// with an empty table built from conf. On error the session keeps its
// current table.
func (s *Session) Configure(conf Config) error {
	if conf.HistorySize < 1 {
		conf.HistorySize = stats.DefaultHistorySize
	}
	if err := conf.Validate(); err != nil {
		return errors.Wrap(err, "configure")
	}
	table, err := newTable(conf)
	if err != nil {
		return errors.Wrap(err, "configure")
	}
	s.conf = conf
	s.table = table
	s.stats = stats.NewTracker(conf.Capacity, conf.Strategy, conf.HistorySize)
	s.log.Infof("configured %d slot table, strategy=%s hash=%s", conf.Capacity, conf.Strategy, conf.Method)
	return nil
}

// Reset empties the table, keeping the current configuration
func (s *Session) Reset() {
	// the current config was already validated, this cannot fail
	if err := s.Configure(s.conf); err != nil {
		s.log.Errorf("reset: %v", err)
	}
}

// Config returns the active configuration
func (s *Session) Config() Config {
	return s.conf
}

// Insert adds key to the active table and records its cost
func (s *Session) Insert(key int) (common.InsertResult, error) {
	res, err := s.table.Insert(key)
	s.stats.RecordInsert(res)
	if err != nil {
		s.log.Warnf("insert %d rejected: %v", key, err)
		return res, err
	}
	s.log.Debugf("insert %d: home=%d slot=%d probes=%d sequence=%v",
		key, res.Home, res.Slot, res.Probes, res.Sequence)
	return res, nil
}

// Search looks key up in the active table. A missing key is reported with
// Found set to false and a nil error.
func (s *Session) Search(key int) (common.SearchResult, error) {
	res, err := s.table.Search(key)
	if err != nil {
		s.log.Warnf("search %d rejected: %v", key, err)
		return res, err
	}
	s.log.Debugf("search %d: found=%t slot=%d probes=%d sequence=%v",
		key, res.Found, res.Slot, res.Probes, res.Sequence)
	return res, nil
}

// Delete removes key from the active table. It returns common.ErrNotFound
// when the key is absent.
func (s *Session) Delete(key int) (common.DeleteResult, error) {
	res, err := s.table.Delete(key)
	s.stats.RecordDelete(res)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.log.Debugf("delete %d: not found", key)
		} else {
			s.log.Warnf("delete %d rejected: %v", key, err)
		}
		return res, err
	}
	s.log.Debugf("delete %d: slot=%d position=%d", key, res.Slot, res.Position)
	return res, nil
}

// Stats returns a snapshot of the active table's statistics
func (s *Session) Stats() stats.Snapshot {
	snap := s.stats.Snapshot()
	s.log.Tracef("stats: elements=%d probes=%d load=%.2f asl=%.2f",
		snap.ElementCount, snap.TotalProbes, snap.LoadFactor, snap.AvgSearchLength)
	return snap
}

// Layout is a read only picture of the table for presentation. Slots is
// set for open addressing, Buckets for chaining.
type Layout struct {
	Capacity int             `json:"capacity"`
	Strategy common.Strategy `json:"strategy"`
	Method   hasher.Method   `json:"hash"`
	Slots    []openaddr.Slot `json:"slots,omitempty"`
	Buckets  [][]int         `json:"buckets,omitempty"`
}

// View returns a copy of the table contents
func (s *Session) View() Layout {
	l := Layout{
		Capacity: s.conf.Capacity,
		Strategy: s.conf.Strategy,
		Method:   s.conf.Method,
	}
	switch t := s.table.(type) {
	case *openaddr.Table:
		l.Slots = t.Slots()
	case *chained.Table:
		l.Buckets = t.Buckets()
	}
	return l
}
