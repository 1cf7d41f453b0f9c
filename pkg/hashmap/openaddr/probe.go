package openaddr

import "github.com/scottcagno/hashlab/pkg/common"

// Probe returns the slot examined on the given 0-based attempt for a key
// whose hash function picked home. It has no state, so any single step of a
// probe sequence can be computed on its own:
//
//	linear:     home + i
//	quadratic:  home, home+1², home-1², home+2², home-2², ...
//	double:     home + i*step
//
// All results are reduced into [0, capacity) with a non-negative modulo.
// The step argument is only used by double hashing.
func Probe(strategy common.Strategy, home, step, attempt, capacity int) int {
	switch strategy {
	case common.Quadratic:
		if attempt == 0 {
			return mod(home, capacity)
		}
		k := ((attempt + 1) / 2) % capacity
		offset := (k * k) % capacity
		if attempt%2 == 0 {
			offset = -offset
		}
		return mod(home+offset, capacity)
	case common.Double:
		return mod(home+(attempt%capacity)*(step%capacity), capacity)
	default:
		return mod(home+attempt, capacity)
	}
}

// ProbeSequence returns the first n slots Probe produces
func ProbeSequence(strategy common.Strategy, home, step, n, capacity int) []int {
	seq := make([]int, 0, n)
	for i := 0; i < n; i++ {
		seq = append(seq, Probe(strategy, home, step, i, capacity))
	}
	return seq
}

// mod is a modulo that never returns a negative number
func mod(a, m int) int {
	r := a % m
	if r < 0 {
		r += m
	}
	return r
}
