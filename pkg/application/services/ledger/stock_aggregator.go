package ledger

import (
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vsinha/shortage/pkg/domain/entities"
)

// StockAggregator sums on-hand rows per base part number for one site
type StockAggregator struct {
	normalizer entities.Normalizer
	logger     *zap.Logger
}

// NewStockAggregator creates a stock aggregator
func NewStockAggregator(normalizer entities.Normalizer, logger *zap.Logger) *StockAggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StockAggregator{normalizer: normalizer, logger: logger}
}

// Accumulate builds the stock mapping of a site. When the site names a
// warehouse, rows from any other warehouse are skipped. Negative rows count
// as zero.
func (a *StockAggregator) Accumulate(site entities.Site, rows []entities.StockRecord) entities.SiteStock {
	stock := make(entities.SiteStock)
	skipped := 0

	for _, row := range rows {
		if site.Warehouse != "" && !strings.EqualFold(strings.TrimSpace(row.Warehouse), site.Warehouse) {
			skipped++
			continue
		}
		base := a.normalizer.BaseForm(string(row.PartNo))
		if base == "" {
			skipped++
			continue
		}
		qty := row.Quantity
		if qty.IsNegative() {
			a.logger.Debug("clamping negative stock row",
				zap.String("site", site.Name),
				zap.String("part", string(row.PartNo)),
				zap.String("quantity", qty.String()))
			qty = decimal.Zero
		}
		stock[base] = stock.Get(base).Add(qty)
	}

	a.logger.Debug("aggregated site stock",
		zap.String("site", site.Name),
		zap.Int("rows", len(rows)),
		zap.Int("skipped", skipped),
		zap.Int("parts", len(stock)))

	return stock
}
