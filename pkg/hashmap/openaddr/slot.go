package openaddr

import "encoding/json"

// SlotState is the tag carried by every slot in the table
type SlotState uint8

const (
	// Empty slots have never held a key. A search stops here.
	Empty SlotState = iota
	// Occupied slots hold a live key
	Occupied
	// Tombstone slots held a key that was deleted. Inserts may reuse them,
	// searches must keep probing past them.
	Tombstone
)

var slotStateNames = [...]string{
	Empty:     "empty",
	Occupied:  "occupied",
	Tombstone: "tombstone",
}

func (s SlotState) String() string {
	if int(s) < len(slotStateNames) {
		return slotStateNames[s]
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler
func (s SlotState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Slot is a single cell of the table. Key is only meaningful when State
// is Occupied.
type Slot struct {
	State SlotState `json:"state"`
	Key   int       `json:"key"`
}

// MarshalJSON writes the key for every occupied slot, key 0 included, and
// leaves it out for empty and tombstoned slots
func (s Slot) MarshalJSON() ([]byte, error) {
	out := struct {
		State SlotState `json:"state"`
		Key   *int      `json:"key,omitempty"`
	}{
		State: s.State,
	}
	if s.State == Occupied {
		out.Key = &s.Key
	}
	return json.Marshal(out)
}

// vacant reports whether an insert may claim this slot
func (s Slot) vacant() bool {
	return s.State != Occupied
}

// holds reports whether this slot is occupied by key
func (s Slot) holds(key int) bool {
	return s.State == Occupied && s.Key == key
}
