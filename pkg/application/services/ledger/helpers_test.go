package ledger

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/vsinha/shortage/pkg/domain/entities"
)

func qty(v float64) entities.Quantity {
	return decimal.NewFromFloat(v)
}

func line(model, partNo, itemCode string, usage float64) entities.BOMLine {
	return entities.BOMLine{
		Model:    model,
		PartNo:   entities.PartNumber(partNo),
		ItemCode: itemCode,
		Name:     "name " + partNo,
		Usage:    qty(usage),
	}
}

func order(date, model string, quantity float64) entities.ProductionOrder {
	return entities.ProductionOrder{Date: date, Model: model, Quantity: qty(quantity), Source: entities.SourceManual}
}

func delivery(date, partNo string, quantity float64) entities.Delivery {
	return entities.Delivery{Date: date, PartNo: entities.PartNumber(partNo), Quantity: qty(quantity), Note: entities.DefaultDeliveryNote}
}

func stockRow(partNo string, quantity float64) entities.StockRecord {
	return entities.StockRecord{PartNo: entities.PartNumber(partNo), Quantity: qty(quantity)}
}

func assertQty(t *testing.T, want float64, got entities.Quantity, msgAndArgs ...interface{}) {
	t.Helper()
	assert.Truef(t, got.Equal(qty(want)), "expected %v, got %s %s", want, got.String(), spew.Sprint(msgAndArgs...))
}

func newTestEngine() *Engine {
	return NewEngineWithConfig(EngineConfig{Workers: 4, Normalizer: entities.DefaultNormalizer}, nil)
}
