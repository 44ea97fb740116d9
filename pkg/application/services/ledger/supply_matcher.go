package ledger

import (
	"go.uber.org/zap"

	"github.com/vsinha/shortage/pkg/domain/entities"
)

// SupplyMatcher attaches supplier deliveries to the ledger keys they replenish
type SupplyMatcher struct {
	normalizer entities.Normalizer
	logger     *zap.Logger
}

// MatchResult describes where deliveries ended up
type MatchResult struct {
	Matched int
	// Unmatched lists the raw part numbers bucketed on their own, in
	// first-seen order
	Unmatched []string
}

// NewSupplyMatcher creates a supply matcher
func NewSupplyMatcher(normalizer entities.Normalizer, logger *zap.Logger) *SupplyMatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SupplyMatcher{normalizer: normalizer, logger: logger}
}

// Inject appends one supply event per delivery to every ledger key sharing
// the delivery's normalized part number. Deliveries matching no key are
// bucketed under their raw part number. Non-positive deliveries are ignored.
func (m *SupplyMatcher) Inject(ledger entities.Ledger, deliveries []entities.Delivery) MatchResult {
	index := m.reverseIndex(ledger)
	result := MatchResult{Unmatched: make([]string, 0)}
	bucketed := make(map[string]bool)

	for _, d := range deliveries {
		if !d.Quantity.IsPositive() {
			continue
		}
		note := d.Note
		if note == "" {
			note = entities.DefaultDeliveryNote
		}
		event := entities.LedgerEvent{
			Date:     d.Date,
			Kind:     entities.Supply,
			Note:     note,
			Quantity: d.Quantity,
		}

		keys, found := index[m.normalizer.NormalizedForm(string(d.PartNo))]
		if !found {
			raw := string(d.PartNo)
			ledger.Append(raw, event)
			if !bucketed[raw] {
				bucketed[raw] = true
				result.Unmatched = append(result.Unmatched, raw)
			}
			continue
		}
		for _, key := range keys {
			ledger.Append(key, event)
		}
		result.Matched++
	}

	m.logger.Debug("matched deliveries",
		zap.Int("deliveries", len(deliveries)),
		zap.Int("matched", result.Matched),
		zap.Int("unmatched_parts", len(result.Unmatched)))

	return result
}

// reverseIndex maps normalized ids to the ledger keys present before injection
func (m *SupplyMatcher) reverseIndex(ledger entities.Ledger) map[string][]string {
	index := make(map[string][]string)
	for _, key := range ledger.Keys() {
		id := m.normalizer.NormalizedForm(key)
		index[id] = append(index[id], key)
	}
	return index
}
