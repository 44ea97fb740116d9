package entities

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Source labels for production orders
const (
	SourceManual = "manual"
	SourceImport = "import"
)

// ProductionOrder is a scheduled build of a model on a date
type ProductionOrder struct {
	ID       string   `json:"id"`
	Date     string   `json:"date"` // ISO YYYY-MM-DD
	Model    string   `json:"model"`
	Quantity Quantity `json:"quantity"`
	Source   string   `json:"source"`
}

// NewProductionOrder creates a validated ProductionOrder. The date is
// accepted in any layout ParseDate understands and stored in ISO form.
func NewProductionOrder(date, model string, quantity Quantity, source string) (*ProductionOrder, error) {
	isoDate, err := ParseDate(date)
	if err != nil {
		return nil, err
	}
	model = strings.TrimSpace(model)
	if model == "" {
		return nil, fmt.Errorf("model cannot be empty")
	}
	if !quantity.IsPositive() {
		return nil, fmt.Errorf("quantity must be positive, got %s", quantity.String())
	}
	source = strings.TrimSpace(source)
	if source == "" {
		source = SourceManual
	}

	return &ProductionOrder{
		Date:     isoDate,
		Model:    model,
		Quantity: quantity,
		Source:   source,
	}, nil
}

// TotalPlannedQuantity sums the positive order quantities
func TotalPlannedQuantity(orders []ProductionOrder) Quantity {
	total := decimal.Zero
	for _, o := range orders {
		if o.Quantity.IsPositive() {
			total = total.Add(o.Quantity)
		}
	}
	return total
}
