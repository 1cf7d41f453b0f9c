/*
	This table uses closed hashing (open addressing). Every key lives directly in
	the slot array and collisions are resolved by walking a probe sequence:
	01) linear probing     h, h+1, h+2, ...
	02) quadratic probing  h, h+1², h-1², h+2², h-2², ...
	03) double hashing     h, h+s, h+2s, ... (s from a second hash, never 0)
	Every sequence is bounded to capacity attempts. The table never grows.
	Deleting a key leaves a tombstone behind so that keys which probed past it
	on their way in can still be found.
*/
package openaddr

import (
	"github.com/pkg/errors"
	"github.com/scottcagno/hashlab/pkg/common"
	"github.com/scottcagno/hashlab/pkg/hash/hasher"
)

// Table is a fixed capacity open addressing hash table over integer keys
type Table struct {
	strategy common.Strategy
	hash     *hasher.Hasher
	step     *hasher.Hasher // second hash function, double hashing only
	keys     int
	slots    []Slot
}

// NewTable returns an empty table with exactly capacity slots that resolves
// collisions using the provided strategy and places keys using method
func NewTable(capacity int, strategy common.Strategy, method hasher.Method) (*Table, error) {
	if !strategy.OpenAddressing() {
		return nil, errors.Wrapf(common.ErrUnknownStrategy, "%s is not an open addressing strategy", strategy)
	}
	hash, err := hasher.New(method, capacity)
	if err != nil {
		return nil, err
	}
	t := &Table{
		strategy: strategy,
		hash:     hash,
		slots:    make([]Slot, capacity),
	}
	if strategy == common.Double {
		t.step, err = hasher.New(hasher.Multiplication, capacity)
		if err != nil {
			return nil, err
		}
	}
	return t, nil
}

// home returns the initial slot and the probe step for key
func (t *Table) home(key int) (int, int) {
	home := t.hash.Sum(key)
	if t.step == nil {
		return home, 0
	}
	step := t.step.Sum(key)
	if step == 0 {
		// a zero step would probe the same slot forever
		step = 1
	}
	return home, step
}

// Insert stores key in the first vacant (empty or tombstoned) slot along its
// probe sequence. Keys that are already present are rejected with
// common.ErrDuplicateKey. If every attempt lands on an occupied slot the
// insert fails with common.ErrTableFull and the table is left untouched.
func (t *Table) Insert(key int) (common.InsertResult, error) {
	res := common.InsertResult{
		Key:      key,
		Strategy: t.strategy,
		Slot:     -1,
	}
	if err := common.CheckKey(key); err != nil {
		return res, err
	}
	home, step := t.home(key)
	res.Home = home
	// reject duplicates before touching anything
	if found := t.lookup(key, home, step); found.Found {
		res.Sequence = found.Sequence
		return res, errors.Wrapf(common.ErrDuplicateKey, "key %d already in slot %d", key, found.Slot)
	}
	capacity := len(t.slots)
	res.Sequence = make([]int, 0, 4)
	for i := 0; i < capacity; i++ {
		idx := Probe(t.strategy, home, step, i, capacity)
		res.Sequence = append(res.Sequence, idx)
		if t.slots[idx].vacant() {
			// we found a spot, claim it
			t.slots[idx] = Slot{State: Occupied, Key: key}
			t.keys++
			res.Slot = idx
			res.Inserted = true
			res.Probes = i
			res.Comparisons = i + 1
			return res, nil
		}
	}
	// every attempt hit an occupied slot
	res.Comparisons = len(res.Sequence)
	res.Probes = common.ProbesFor(res.Comparisons)
	return res, errors.Wrapf(common.ErrTableFull, "no vacant slot for key %d after %d probes", key, capacity)
}

// Search looks key up. It stops at the first empty slot or after capacity
// attempts, whichever comes first; tombstones never stop it. Not finding the
// key is reported through the result, the error is only used for bad keys.
func (t *Table) Search(key int) (common.SearchResult, error) {
	if err := common.CheckKey(key); err != nil {
		return common.SearchResult{Key: key, Strategy: t.strategy, Slot: -1, Position: -1}, err
	}
	home, step := t.home(key)
	return t.lookup(key, home, step), nil
}

// lookup walks the probe sequence for key
func (t *Table) lookup(key, home, step int) common.SearchResult {
	res := common.SearchResult{
		Key:      key,
		Strategy: t.strategy,
		Home:     home,
		Slot:     -1,
		Position: -1,
		Sequence: make([]int, 0, 4),
	}
	capacity := len(t.slots)
	for i := 0; i < capacity; i++ {
		idx := Probe(t.strategy, home, step, i, capacity)
		res.Sequence = append(res.Sequence, idx)
		res.Comparisons = i + 1
		res.Probes = i
		slot := t.slots[idx]
		if slot.State == Empty {
			// never been used, key cannot be further along
			return res
		}
		if slot.holds(key) {
			res.Found = true
			res.Slot = idx
			res.Position = 0
			return res
		}
		// occupied by another key or tombstoned, keep on probing
	}
	return res
}

// Delete removes key by turning its slot into a tombstone. It returns
// common.ErrNotFound when key is not in the table.
func (t *Table) Delete(key int) (common.DeleteResult, error) {
	found, err := t.Search(key)
	res := common.DeleteResult{SearchResult: found}
	if err != nil {
		return res, err
	}
	if !found.Found {
		return res, errors.Wrapf(common.ErrNotFound, "key %d", key)
	}
	t.slots[found.Slot] = Slot{State: Tombstone}
	t.keys--
	res.Deleted = true
	return res, nil
}

// Slots returns a copy of every slot in index order
func (t *Table) Slots() []Slot {
	slots := make([]Slot, len(t.slots))
	copy(slots, t.slots)
	return slots
}

// Iterator is an iterator function type
type Iterator func(slot int, key int) bool

// Range calls it for every occupied slot in index order for as long as it
// keeps returning true. Range is not safe to combine with inserts or deletes.
func (t *Table) Range(it Iterator) {
	for i := range t.slots {
		if t.slots[i].State != Occupied {
			continue
		}
		if !it(i, t.slots[i].Key) {
			return
		}
	}
}

// Tombstones returns the number of deleted slots not yet reused
func (t *Table) Tombstones() int {
	var n int
	for i := range t.slots {
		if t.slots[i].State == Tombstone {
			n++
		}
	}
	return n
}

// Strategy returns the collision strategy of the table
func (t *Table) Strategy() common.Strategy {
	return t.strategy
}

// Method returns the hash method of the table
func (t *Table) Method() hasher.Method {
	return t.hash.Method()
}

// PercentFull returns the current load factor of the table
func (t *Table) PercentFull() float64 {
	return float64(t.keys) / float64(len(t.slots))
}

// Len returns the number of live keys in the table
func (t *Table) Len() int {
	return t.keys
}

// Cap returns the fixed number of slots
func (t *Table) Cap() int {
	return len(t.slots)
}
