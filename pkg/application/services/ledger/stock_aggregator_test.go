package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vsinha/shortage/pkg/domain/entities"
)

func TestStockAggregator_SumsByBaseForm(t *testing.T) {
	agg := NewStockAggregator(entities.DefaultNormalizer, nil)

	stock := agg.Accumulate(entities.Site{Name: "W26"}, []entities.StockRecord{
		stockRow("1234-A", 10),
		stockRow("TW1234", 5),
		stockRow("TW1234-B", 2.5),
		stockRow("5555", 7),
	})

	assert.Len(t, stock, 2)
	assertQty(t, 17.5, stock.Get("TW1234"))
	assertQty(t, 7, stock.Get("TW5555"))
	assertQty(t, 0, stock.Get("TW9999"))
	assertQty(t, 24.5, stock.Total())
}

func TestStockAggregator_WarehouseRestriction(t *testing.T) {
	agg := NewStockAggregator(entities.DefaultNormalizer, nil)
	rows := []entities.StockRecord{
		{PartNo: "TW1", Quantity: qty(10), Warehouse: "W08"},
		{PartNo: "TW1", Quantity: qty(4), Warehouse: "W01"},
		{PartNo: "TW1", Quantity: qty(1), Warehouse: " w08 "},
	}

	restricted := agg.Accumulate(entities.Site{Name: "W08", Warehouse: "W08"}, rows)
	unrestricted := agg.Accumulate(entities.Site{Name: "ALL"}, rows)

	assertQty(t, 11, restricted.Get("TW1"))
	assertQty(t, 15, unrestricted.Get("TW1"))
}

func TestStockAggregator_ClampsNegativeRows(t *testing.T) {
	agg := NewStockAggregator(entities.DefaultNormalizer, nil)

	stock := agg.Accumulate(entities.Site{Name: "S"}, []entities.StockRecord{
		stockRow("TW1", 10),
		stockRow("TW1", -4),
		stockRow("TW2", -3),
	})

	assertQty(t, 10, stock.Get("TW1"))
	assertQty(t, 0, stock.Get("TW2"))
}

func TestStockAggregator_EmptyPartSkipped(t *testing.T) {
	agg := NewStockAggregator(entities.DefaultNormalizer, nil)

	stock := agg.Accumulate(entities.Site{Name: "S"}, []entities.StockRecord{stockRow("  ", 10)})

	assert.Empty(t, stock)
}
