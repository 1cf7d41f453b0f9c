package common

import (
	"strings"

	"github.com/pkg/errors"
)

// Strategy selects how a table resolves collisions
type Strategy uint8

const (
	Linear Strategy = iota
	Quadratic
	Chaining
	Double
)

var strategyNames = [...]string{
	Linear:    "linear",
	Quadratic: "quadratic",
	Chaining:  "chaining",
	Double:    "double",
}

func (s Strategy) String() string {
	if int(s) < len(strategyNames) {
		return strategyNames[s]
	}
	return "unknown"
}

// OpenAddressing reports whether the strategy stores keys directly in the
// slot array (as opposed to chaining them off of it)
func (s Strategy) OpenAddressing() bool {
	return s == Linear || s == Quadratic || s == Double
}

// Valid reports whether s is one of the defined strategies
func (s Strategy) Valid() bool {
	return int(s) < len(strategyNames)
}

// MarshalText implements encoding.TextMarshaler
func (s Strategy) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, errors.Wrapf(ErrUnknownStrategy, "strategy %d", s)
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (s *Strategy) UnmarshalText(text []byte) error {
	v, err := ParseStrategy(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ParseStrategy returns the strategy matching name. A few common aliases
// are accepted ("chain", "probe", "double-hashing").
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "linear", "linear-probing", "probe":
		return Linear, nil
	case "quadratic", "quadratic-probing":
		return Quadratic, nil
	case "chaining", "chain", "chained":
		return Chaining, nil
	case "double", "double-hashing":
		return Double, nil
	}
	return 0, errors.Wrapf(ErrUnknownStrategy, "%q", name)
}
