package entities

// Status is the verdict for a component group
type Status int

const (
	Sufficient Status = iota
	Shortage
)

// String method for Status enum
func (s Status) String() string {
	switch s {
	case Sufficient:
		return "sufficient"
	case Shortage:
		return "shortage"
	default:
		return "unknown"
	}
}

// MarshalText renders the status as its lower-case name
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ShortageMarker identifies the first event that drove the balance negative
type ShortageMarker struct {
	Date string `json:"date"`
	Note string `json:"note"`
}

// String formats the marker as "date (note)"
func (m *ShortageMarker) String() string {
	if m == nil {
		return "-"
	}
	return m.Date + " (" + m.Note + ")"
}

// AuditEntry records one simulated movement and the balance after it
type AuditEntry struct {
	Date     string    `json:"date"`
	Note     string    `json:"note"`
	Kind     EventKind `json:"kind"`
	Quantity Quantity  `json:"quantity"`
	Balance  Quantity  `json:"balance"`
}

// SimulationResult is the chronological balance simulation of one group
type SimulationResult struct {
	InitialBalance Quantity        `json:"initial_balance"`
	TotalDemand    Quantity        `json:"total_demand"`
	FinalBalance   Quantity        `json:"final_balance"`
	FirstShortage  *ShortageMarker `json:"first_shortage,omitempty"`
	Trail          []AuditEntry    `json:"trail"`
}

// Status reports Shortage when the simulation ends below zero
func (r *SimulationResult) Status() Status {
	if r.FinalBalance.IsNegative() {
		return Shortage
	}
	return Sufficient
}
