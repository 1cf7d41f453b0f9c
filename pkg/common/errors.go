package common

import (
	"log"

	"github.com/pkg/errors"
)

var (
	ErrInvalidKey      = errors.New("invalid key")
	ErrInvalidCapacity = errors.New("invalid capacity")
	ErrUnknownStrategy = errors.New("unknown collision strategy")
	ErrUnknownMethod   = errors.New("unknown hash method")
	ErrTableFull       = errors.New("table full")
	ErrDuplicateKey    = errors.New("duplicate key")
	ErrNotFound        = errors.New("key not found")
)

// MaxKey is the largest key a table accepts. Any key at or below it can be
// squared without overflowing a uint64, which the mid-square method relies on.
const MaxKey uint64 = 1<<32 - 1

// CheckKey returns ErrInvalidKey (wrapped with the offending value) when key
// is negative or larger than MaxKey
func CheckKey(key int) error {
	if key < 0 || uint64(key) > MaxKey {
		return errors.Wrapf(ErrInvalidKey, "key %d out of range [0, %d]", key, MaxKey)
	}
	return nil
}

// CheckCapacity returns ErrInvalidCapacity when capacity is not positive
func CheckCapacity(capacity int) error {
	if capacity < 1 {
		return errors.Wrapf(ErrInvalidCapacity, "capacity %d must be positive", capacity)
	}
	return nil
}

// ErrCheck panics on a non-nil error. It is only meant for the cmd demos.
func ErrCheck(err error) {
	if err != nil {
		log.Panicf("error: [%T] %q\n", err, err)
	}
}
