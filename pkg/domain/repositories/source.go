package repositories

import (
	"context"

	"github.com/vsinha/shortage/pkg/domain/entities"
)

// Diagnostic is a per-file ingestion message. Ingestion never fails a run
// because of a single unreadable supplier file.
type Diagnostic struct {
	File    string `json:"file"`
	Level   string `json:"level"` // "ok", "warn" or "error"
	Message string `json:"message"`
	Records int    `json:"records"`
}

// Snapshot is a complete, typed set of inputs read from the outside world
type Snapshot struct {
	BOM         []*entities.BOMLine
	Stock       []*entities.StockRecord
	Orders      []*entities.ProductionOrder
	Deliveries  []*entities.Delivery
	Diagnostics []Diagnostic
}

// InputSource turns raw tabular files into typed records
type InputSource interface {
	LoadSnapshot(ctx context.Context) (*Snapshot, error)
}
