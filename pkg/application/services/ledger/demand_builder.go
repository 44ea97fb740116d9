package ledger

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/vsinha/shortage/pkg/domain/entities"
)

// DemandBuilder explodes production orders into dated demand events keyed by
// normalized part number
type DemandBuilder struct {
	normalizer entities.Normalizer
	logger     *zap.Logger
}

// NewDemandBuilder creates a demand builder
func NewDemandBuilder(normalizer entities.Normalizer, logger *zap.Logger) *DemandBuilder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DemandBuilder{normalizer: normalizer, logger: logger}
}

// DemandNote labels the demand events produced by an order
func DemandNote(order entities.ProductionOrder) string {
	source := order.Source
	if source == "" {
		source = entities.SourceManual
	}
	return fmt.Sprintf("Production: %s (%s)", order.Model, source)
}

// SortOrders returns a copy of orders stable-sorted by date
func SortOrders(orders []entities.ProductionOrder) []entities.ProductionOrder {
	sorted := make([]entities.ProductionOrder, len(orders))
	copy(sorted, orders)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date < sorted[j].Date
	})
	return sorted
}

// Build returns a new ledger holding one demand event per (order, key).
// Lines of the same model sharing a key contribute their largest usage once.
func (b *DemandBuilder) Build(orders []entities.ProductionOrder, bom []entities.BOMLine) entities.Ledger {
	ledger := make(entities.Ledger)

	byModel := make(map[string][]entities.BOMLine)
	for _, line := range bom {
		byModel[line.Model] = append(byModel[line.Model], line)
	}

	for _, order := range SortOrders(orders) {
		if !order.Quantity.IsPositive() {
			b.logger.Debug("skipping order with non-positive quantity",
				zap.String("model", order.Model),
				zap.String("date", order.Date))
			continue
		}
		lines, ok := byModel[order.Model]
		if !ok {
			b.logger.Debug("skipping order for unknown model",
				zap.String("model", order.Model),
				zap.String("date", order.Date))
			continue
		}

		keys, usage := b.maxUsageByKey(lines)
		note := DemandNote(order)
		for _, key := range keys {
			ledger.Append(key, entities.LedgerEvent{
				Date:     order.Date,
				Kind:     entities.Demand,
				Note:     note,
				Quantity: order.Quantity.Mul(usage[key]),
			})
		}
	}

	return ledger
}

// maxUsageByKey returns the keys of a model's lines in first-seen order and
// the largest positive usage recorded for each
func (b *DemandBuilder) maxUsageByKey(lines []entities.BOMLine) ([]string, map[string]entities.Quantity) {
	keys := make([]string, 0, len(lines))
	usage := make(map[string]entities.Quantity, len(lines))

	for _, line := range lines {
		if !line.Usage.IsPositive() {
			continue
		}
		key := b.normalizer.NormalizedForm(string(line.PartNo))
		if key == "" {
			continue
		}
		current, seen := usage[key]
		if !seen {
			keys = append(keys, key)
			usage[key] = line.Usage
			continue
		}
		if line.Usage.GreaterThan(current) {
			usage[key] = line.Usage
		}
	}

	return keys, usage
}
