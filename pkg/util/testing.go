package util

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/pkg/errors"
)

// AssertExpected fails the test when got differs from expected, printing
// a readable diff. Nil and empty slices and maps compare equal.
func AssertExpected(t testing.TB, expected, got interface{}) bool {
	t.Helper()
	if diff := cmp.Diff(expected, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("error, expected: %v, got: %v (-expected +got):\n%s", expected, got, diff)
		return false
	}
	return true
}

func AssertLen(t testing.TB, expected int, got int) bool {
	t.Helper()
	return AssertExpected(t, expected, got)
}

func AssertTrue(t testing.TB, got bool) bool {
	t.Helper()
	return AssertExpected(t, true, got)
}

func AssertFalse(t testing.TB, got bool) bool {
	t.Helper()
	return AssertExpected(t, false, got)
}

// AssertNoError fails the test on any non-nil error
func AssertNoError(t testing.TB, err error) bool {
	t.Helper()
	if err != nil {
		t.Errorf("error, expected no error, got: %v", err)
		return false
	}
	return true
}

// AssertErrorIs fails the test unless err matches target somewhere in its chain
func AssertErrorIs(t testing.TB, target, err error) bool {
	t.Helper()
	if !errors.Is(err, target) {
		t.Errorf("error, expected: %v, got: %v", target, err)
		return false
	}
	return true
}
