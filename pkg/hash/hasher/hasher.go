/*
	Package hasher maps integer keys onto slot indexes in [0, capacity). Two
	classic textbook methods are the main event:
	01) division remainder:  h(k) = k mod capacity
	02) mid-square:          square k, pull the middle digits, reduce mod capacity
	A few more are provided for comparison: folding (summing 3-digit groups),
	multiplication (golden ratio fraction scaled to the capacity) and xxhash.
	Every method is a pure function of (key, capacity).
*/
package hasher

import (
	"encoding/binary"
	"math"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/pkg/errors"
	"github.com/scottcagno/hashlab/pkg/common"
)

// Method selects a hash function
type Method uint8

const (
	Division Method = iota
	MidSquare
	Folding
	Multiplication
	XXHash
)

// goldenRatio is (sqrt(5)-1)/2, the multiplier Knuth suggests for the
// multiplication method
const goldenRatio = 0.6180339887498949

var methodNames = [...]string{
	Division:       "division",
	MidSquare:      "midsquare",
	Folding:        "folding",
	Multiplication: "multiplication",
	XXHash:         "xxhash",
}

func (m Method) String() string {
	if m.Valid() {
		return methodNames[m]
	}
	return "unknown"
}

// Valid reports whether m is one of the defined methods
func (m Method) Valid() bool {
	return int(m) < len(methodNames)
}

// MarshalText implements encoding.TextMarshaler
func (m Method) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, errors.Wrapf(common.ErrUnknownMethod, "method %d", m)
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (m *Method) UnmarshalText(text []byte) error {
	v, err := ParseMethod(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// ParseMethod returns the method matching name
func ParseMethod(name string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "division", "div", "mod":
		return Division, nil
	case "midsquare", "mid-square":
		return MidSquare, nil
	case "folding", "fold":
		return Folding, nil
	case "multiplication", "mul":
		return Multiplication, nil
	case "xxhash", "xx":
		return XXHash, nil
	}
	return 0, errors.Wrapf(common.ErrUnknownMethod, "%q", name)
}

// Hash validates its input and returns the slot index for key using method m
func Hash(m Method, key, capacity int) (int, error) {
	h, err := New(m, capacity)
	if err != nil {
		return 0, err
	}
	if err := common.CheckKey(key); err != nil {
		return 0, err
	}
	return h.Sum(key), nil
}

// Hasher binds a method to a fixed capacity
type Hasher struct {
	method   Method
	capacity int
	sum      func(key uint64, capacity int) int
}

// New returns a Hasher for the provided method and capacity
func New(m Method, capacity int) (*Hasher, error) {
	if err := common.CheckCapacity(capacity); err != nil {
		return nil, err
	}
	var fn func(uint64, int) int
	switch m {
	case Division:
		fn = division
	case MidSquare:
		fn = midSquare
	case Folding:
		fn = folding
	case Multiplication:
		fn = multiplication
	case XXHash:
		fn = xxHash
	default:
		return nil, errors.Wrapf(common.ErrUnknownMethod, "method %d", m)
	}
	return &Hasher{
		method:   m,
		capacity: capacity,
		sum:      fn,
	}, nil
}

// Sum returns the slot index for key. The key must already have passed
// common.CheckKey; the tables do that before they ever get here.
func (h *Hasher) Sum(key int) int {
	return h.sum(uint64(key), h.capacity)
}

// Method returns the hash method in use
func (h *Hasher) Method() Method {
	return h.method
}

// Capacity returns the capacity the hasher reduces into
func (h *Hasher) Capacity() int {
	return h.capacity
}

func division(key uint64, capacity int) int {
	return int(key % uint64(capacity))
}

// midSquare squares the key and extracts as many middle decimal digits as
// there are digits in capacity-1. Short squares are used as is.
func midSquare(key uint64, capacity int) int {
	squared := strconv.FormatUint(key*key, 10)
	width := len(strconv.Itoa(capacity - 1))
	if len(squared) > width {
		start := len(squared)/2 - width/2
		squared = squared[start : start+width]
	}
	var extracted uint64
	for i := 0; i < len(squared); i++ {
		extracted = extracted*10 + uint64(squared[i]-'0')
	}
	return int(extracted % uint64(capacity))
}

// folding adds up the key three decimal digits at a time
func folding(key uint64, capacity int) int {
	var sum uint64
	for key > 0 {
		sum += key % 1000
		key /= 1000
	}
	return int(sum % uint64(capacity))
}

func multiplication(key uint64, capacity int) int {
	_, frac := math.Modf(float64(key) * goldenRatio)
	i := int(float64(capacity) * frac)
	if i >= capacity {
		// float rounding can land exactly on capacity
		i = capacity - 1
	}
	return i
}

func xxHash(key uint64, capacity int) int {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], key)
	return int(xxhash.Sum64(b[:]) % uint64(capacity))
}
