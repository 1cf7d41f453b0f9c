package util

import "testing"

func Test_RandKeys(t *testing.T) {
	keys := RandKeys(50, 100)
	AssertLen(t, 50, len(keys))
	seen := make(map[int]bool)
	for _, k := range keys {
		AssertTrue(t, k >= 0 && k < 100)
		AssertFalse(t, seen[k])
		seen[k] = true
	}
	AssertLen(t, 3, len(RandKeys(10, 3)))
	AssertLen(t, 0, len(RandKeys(-1, 100)))
	AssertLen(t, 0, len(RandKeys(5, -1)))
}

func Test_RandIntn(t *testing.T) {
	for i := 0; i < 100; i++ {
		n := RandIntn(5, 10)
		AssertTrue(t, n >= 5 && n < 10)
	}
}
