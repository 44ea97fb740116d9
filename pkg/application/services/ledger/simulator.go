package ledger

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/vsinha/shortage/pkg/domain/entities"
)

// Simulator replays a group's ledger events in date order against its stock
type Simulator struct {
	normalizer entities.Normalizer
}

// NewSimulator creates a simulator
func NewSimulator(normalizer entities.Normalizer) *Simulator {
	return &Simulator{normalizer: normalizer}
}

type demandKey struct {
	date string
	note string
}

// Simulate collects the events of every member's normalized key and walks
// them chronologically. Members sharing a key each contribute that key's
// supply. Demand events repeated across members for the same (date, note)
// count once at their largest quantity. On equal dates supply is applied
// before demand.
func (s *Simulator) Simulate(group *entities.ComponentGroup, ledger entities.Ledger) *entities.SimulationResult {
	supplies, demands := s.collect(group, ledger)

	sequence := make([]entities.LedgerEvent, 0, len(supplies)+len(demands))
	sequence = append(sequence, supplies...)
	sequence = append(sequence, demands...)
	sort.SliceStable(sequence, func(i, j int) bool {
		return sequence[i].Date < sequence[j].Date
	})

	initial := group.OnHand()
	result := &entities.SimulationResult{
		InitialBalance: initial,
		TotalDemand:    decimal.Zero,
		Trail:          make([]entities.AuditEntry, 0, len(sequence)),
	}

	balance := initial
	for _, event := range sequence {
		switch event.Kind {
		case entities.Supply:
			balance = balance.Add(event.Quantity)
		case entities.Demand:
			balance = balance.Sub(event.Quantity)
			if event.Quantity.IsPositive() {
				result.TotalDemand = result.TotalDemand.Add(event.Quantity)
			}
			if balance.IsNegative() && result.FirstShortage == nil {
				result.FirstShortage = &entities.ShortageMarker{Date: event.Date, Note: event.Note}
			}
		}
		result.Trail = append(result.Trail, entities.AuditEntry{
			Date:     event.Date,
			Note:     event.Note,
			Kind:     event.Kind,
			Quantity: event.Quantity,
			Balance:  balance,
		})
	}
	result.FinalBalance = balance

	return result
}

// collect gathers supplies in ledger order and deduplicated demands in
// first-seen order
func (s *Simulator) collect(group *entities.ComponentGroup, ledger entities.Ledger) ([]entities.LedgerEvent, []entities.LedgerEvent) {
	supplies := make([]entities.LedgerEvent, 0)
	demands := make([]entities.LedgerEvent, 0)
	position := make(map[demandKey]int)

	for _, member := range group.Members {
		key := s.normalizer.NormalizedForm(string(member.Line.PartNo))
		if key == "" {
			continue
		}

		for _, event := range ledger.Events(key) {
			if event.Kind == entities.Supply {
				supplies = append(supplies, event)
				continue
			}
			dk := demandKey{date: event.Date, note: event.Note}
			if i, seen := position[dk]; seen {
				if event.Quantity.GreaterThan(demands[i].Quantity) {
					demands[i] = event
				}
				continue
			}
			position[dk] = len(demands)
			demands = append(demands, event)
		}
	}

	return supplies, demands
}
