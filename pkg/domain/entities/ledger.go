package entities

import "sort"

// EventKind distinguishes consumption from replenishment
type EventKind int

const (
	Demand EventKind = iota
	Supply
)

// String method for EventKind enum
func (k EventKind) String() string {
	switch k {
	case Demand:
		return "demand"
	case Supply:
		return "supply"
	default:
		return "unknown"
	}
}

// MarshalText renders the kind as its lower-case name
func (k EventKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// LedgerEvent is one dated demand or supply movement for a ledger key
type LedgerEvent struct {
	Date     string    `json:"date"`
	Kind     EventKind `json:"kind"`
	Note     string    `json:"note"`
	Quantity Quantity  `json:"quantity"` // magnitude, never negative
	Key      string    `json:"key"`
}

// Ledger maps a ledger key to its events. Event order inside a key is
// insertion order; chronological order is imposed by the simulator.
type Ledger map[string][]LedgerEvent

// Append adds an event under key, stamping the key on the event
func (l Ledger) Append(key string, event LedgerEvent) {
	event.Key = key
	l[key] = append(l[key], event)
}

// Keys returns the ledger keys in sorted order
func (l Ledger) Keys() []string {
	keys := make([]string, 0, len(l))
	for k := range l {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Events returns the events recorded under key
func (l Ledger) Events(key string) []LedgerEvent {
	return l[key]
}

// Count returns the number of events of the given kind across all keys
func (l Ledger) Count(kind EventKind) int {
	n := 0
	for _, events := range l {
		for _, e := range events {
			if e.Kind == kind {
				n++
			}
		}
	}
	return n
}
