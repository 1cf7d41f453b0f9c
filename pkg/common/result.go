package common

// InsertResult describes the outcome of a single insert. A failed insert
// still carries the probe sequence that was attempted.
type InsertResult struct {
	Key      int      `json:"key"`
	Strategy Strategy `json:"strategy"`
	Home     int      `json:"home"`     // slot the hash function picked
	Slot     int      `json:"slot"`     // slot the key landed in, -1 on failure
	Position int      `json:"position"` // position inside a chain, always 0 for open addressing
	Inserted bool     `json:"inserted"`
	// Probes is the 0-based probe count: every attempt after the first one
	// (or every key already chained ahead of this one) is a collision.
	Probes int `json:"probes"`
	// Comparisons is the search cost charged to the statistics: the number
	// of slots examined for open addressing, the new chain length for chaining.
	Comparisons int   `json:"comparisons"`
	Sequence    []int `json:"sequence"`
}

// Collided reports whether the key could not be stored at the first place
// it was offered
func (r InsertResult) Collided() bool {
	return r.Inserted && r.Probes > 0
}

// SearchResult describes the outcome of a lookup. Not finding a key is a
// normal result, not an error.
type SearchResult struct {
	Key         int      `json:"key"`
	Strategy    Strategy `json:"strategy"`
	Home        int      `json:"home"`
	Found       bool     `json:"found"`
	Slot        int      `json:"slot"`     // -1 when not found
	Position    int      `json:"position"` // -1 when not found
	Probes      int      `json:"probes"`
	Comparisons int      `json:"comparisons"`
	Sequence    []int    `json:"sequence"`
}

// DeleteResult is the lookup that located the key plus whether it was removed
type DeleteResult struct {
	SearchResult
	Deleted bool `json:"deleted"`
}

// ProbesFor converts a comparison count into a 0-based probe count
func ProbesFor(comparisons int) int {
	if comparisons < 1 {
		return 0
	}
	return comparisons - 1
}
