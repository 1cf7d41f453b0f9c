/*
	This table uses separate chaining. Every slot owns a chain of keys and a key
	always lives in the chain of the slot its hash picks, so there is no probing.
	Chains are never sorted: new keys go to the end, which keeps the cost of
	finding a key equal to its 1-based position in the chain. The number of
	slots is fixed for the lifetime of the table.
*/
package chained

import (
	"github.com/pkg/errors"
	"github.com/scottcagno/hashlab/pkg/common"
	"github.com/scottcagno/hashlab/pkg/hash/hasher"
)

// Table is a fixed capacity separate chaining hash table over integer keys
type Table struct {
	hash    *hasher.Hasher
	keys    int
	buckets []bucket
}

// NewTable returns an empty table with exactly capacity chains, placing
// keys using method
func NewTable(capacity int, method hasher.Method) (*Table, error) {
	hash, err := hasher.New(method, capacity)
	if err != nil {
		return nil, err
	}
	t := &Table{
		hash:    hash,
		buckets: make([]bucket, capacity),
	}
	return t, nil
}

// Insert appends key to the chain of its slot. It fails with
// common.ErrDuplicateKey when the key is already there. The comparison count
// is the new chain length.
func (t *Table) Insert(key int) (common.InsertResult, error) {
	res := common.InsertResult{
		Key:      key,
		Strategy: common.Chaining,
		Slot:     -1,
	}
	if err := common.CheckKey(key); err != nil {
		return res, err
	}
	i := t.hash.Sum(key)
	res.Home = i
	res.Sequence = []int{i}
	pos, ok := t.buckets[i].insert(key)
	if !ok {
		return res, errors.Wrapf(common.ErrDuplicateKey, "key %d already chained at slot %d", key, i)
	}
	t.keys++
	res.Slot = i
	res.Position = pos
	res.Inserted = true
	res.Comparisons = t.buckets[i].size
	res.Probes = common.ProbesFor(res.Comparisons)
	return res, nil
}

// Search scans the chain for key from the front
func (t *Table) Search(key int) (common.SearchResult, error) {
	res := common.SearchResult{
		Key:      key,
		Strategy: common.Chaining,
		Slot:     -1,
		Position: -1,
	}
	if err := common.CheckKey(key); err != nil {
		return res, err
	}
	i := t.hash.Sum(key)
	res.Home = i
	res.Sequence = []int{i}
	pos, comparisons, ok := t.buckets[i].search(key)
	res.Comparisons = comparisons
	res.Probes = common.ProbesFor(comparisons)
	if ok {
		res.Found = true
		res.Slot = i
		res.Position = pos
	}
	return res, nil
}

// Delete unlinks key from its chain. It returns common.ErrNotFound when the
// key is not in the table.
func (t *Table) Delete(key int) (common.DeleteResult, error) {
	found, err := t.Search(key)
	res := common.DeleteResult{SearchResult: found}
	if err != nil {
		return res, err
	}
	if !found.Found {
		return res, errors.Wrapf(common.ErrNotFound, "key %d", key)
	}
	t.buckets[found.Slot].delete(key)
	t.keys--
	res.Deleted = true
	return res, nil
}

// Buckets returns a copy of every chain in slot order
func (t *Table) Buckets() [][]int {
	buckets := make([][]int, len(t.buckets))
	for i := range t.buckets {
		buckets[i] = t.buckets[i].keys()
	}
	return buckets
}

// Iterator is an iterator function type
type Iterator func(slot, pos, key int) bool

// Range calls it for every key, slot by slot and in chain order, for as long
// as it keeps returning true. Range is not safe to combine with inserts or
// deletes.
func (t *Table) Range(it Iterator) {
	for i := range t.buckets {
		stop := false
		t.buckets[i].scan(func(pos, key int) bool {
			if !it(i, pos, key) {
				stop = true
				return false
			}
			return true
		})
		if stop {
			return
		}
	}
}

// Longest returns the length of the longest chain
func (t *Table) Longest() int {
	var n int
	for i := range t.buckets {
		if t.buckets[i].size > n {
			n = t.buckets[i].size
		}
	}
	return n
}

// Strategy always returns common.Chaining
func (t *Table) Strategy() common.Strategy {
	return common.Chaining
}

// Method returns the hash method of the table
func (t *Table) Method() hasher.Method {
	return t.hash.Method()
}

// PercentFull returns the current load factor of the table. Unlike open
// addressing it may exceed 1.
func (t *Table) PercentFull() float64 {
	return float64(t.keys) / float64(len(t.buckets))
}

// Len returns the number of keys in the table
func (t *Table) Len() int {
	return t.keys
}

// Cap returns the fixed number of chains
func (t *Table) Cap() int {
	return len(t.buckets)
}
