package util

import (
	"math/rand"
	"time"
)

var src = rand.New(rand.NewSource(time.Now().UnixNano()))

// RandIntn returns a random int in [min, max)
func RandIntn(min, max int) int {
	return src.Intn(max-min) + min
}

// RandKeys returns n distinct random keys in [0, max). When max is smaller
// than n only max keys are returned. A negative n or max yields no keys.
func RandKeys(n, max int) []int {
	if n > max {
		n = max
	}
	if n < 0 {
		n = 0
	}
	seen := make(map[int]struct{}, n)
	keys := make([]int, 0, n)
	for len(keys) < n {
		k := src.Intn(max)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	return keys
}
