package csv

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/vsinha/shortage/pkg/domain/entities"
	"github.com/vsinha/shortage/pkg/domain/repositories"
)

// File names read from the input directory
const (
	BOMFile        = "bom.csv"
	StockFile      = "stock.csv"
	ScheduleFile   = "schedule.csv"
	DeliveriesFile = "deliveries.csv"
)

// Loader handles loading shortage inputs from CSV files
type Loader struct {
	dir    string
	logger *zap.Logger
}

// NewLoader creates a new CSV loader reading from dir
func NewLoader(dir string, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{dir: dir, logger: logger}
}

// Verify interface compliance
var _ repositories.InputSource = (*Loader)(nil)

// LoadSnapshot reads every input file of the directory. bom.csv and
// stock.csv are required; a missing schedule or deliveries file yields an
// empty list.
func (l *Loader) LoadSnapshot(ctx context.Context) (*repositories.Snapshot, error) {
	snap := &repositories.Snapshot{}

	bom, err := l.LoadBOM(filepath.Join(l.dir, BOMFile))
	if err != nil {
		return nil, err
	}
	snap.BOM = bom
	snap.Diagnostics = append(snap.Diagnostics, okDiagnostic(BOMFile, len(bom)))

	stock, err := l.LoadStock(filepath.Join(l.dir, StockFile))
	if err != nil {
		return nil, err
	}
	snap.Stock = stock
	snap.Diagnostics = append(snap.Diagnostics, okDiagnostic(StockFile, len(stock)))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	orders, err := l.LoadSchedule(filepath.Join(l.dir, ScheduleFile))
	switch {
	case errors.Is(err, os.ErrNotExist):
		snap.Diagnostics = append(snap.Diagnostics, missingDiagnostic(ScheduleFile))
	case err != nil:
		return nil, err
	default:
		snap.Orders = orders
		snap.Diagnostics = append(snap.Diagnostics, okDiagnostic(ScheduleFile, len(orders)))
	}

	deliveries, err := l.LoadDeliveries(filepath.Join(l.dir, DeliveriesFile))
	switch {
	case errors.Is(err, os.ErrNotExist):
		snap.Diagnostics = append(snap.Diagnostics, missingDiagnostic(DeliveriesFile))
	case err != nil:
		return nil, err
	default:
		snap.Deliveries = deliveries
		snap.Diagnostics = append(snap.Diagnostics, okDiagnostic(DeliveriesFile, len(deliveries)))
	}

	l.logger.Info("loaded csv inputs",
		zap.String("dir", l.dir),
		zap.Int("bom_lines", len(snap.BOM)),
		zap.Int("stock_rows", len(snap.Stock)),
		zap.Int("orders", len(snap.Orders)),
		zap.Int("deliveries", len(snap.Deliveries)))

	return snap, nil
}

// LoadBOM loads BOM lines from a CSV file
func (l *Loader) LoadBOM(filename string) ([]*entities.BOMLine, error) {
	t, err := readTable(filename, "BOM", []string{"model", "part_no", "usage"})
	if err != nil {
		return nil, err
	}

	bomLines := make([]*entities.BOMLine, 0, len(t.rows))
	for i, record := range t.rows {
		usage, ok := entities.ParseQuantity(t.get(record, "usage"))
		if !ok {
			l.logger.Debug("bom usage is not a number, using zero",
				zap.Int("row", i+2), zap.String("value", t.get(record, "usage")))
		}
		line, err := entities.NewBOMLine(
			t.get(record, "model"),
			entities.PartNumber(t.get(record, "part_no")),
			t.get(record, "item_code"),
			t.get(record, "name"),
			t.get(record, "spec"),
			usage,
		)
		if err != nil {
			return nil, fmt.Errorf("BOM CSV row %d: %w", i+2, err)
		}
		bomLines = append(bomLines, line)
	}

	return bomLines, nil
}

// LoadStock loads stock rows from a CSV file. Rows without a part number
// are skipped.
func (l *Loader) LoadStock(filename string) ([]*entities.StockRecord, error) {
	t, err := readTable(filename, "stock", []string{"site", "part_no", "quantity"})
	if err != nil {
		return nil, err
	}

	records := make([]*entities.StockRecord, 0, len(t.rows))
	for i, record := range t.rows {
		partNo := t.get(record, "part_no")
		site := t.get(record, "site")
		if partNo == "" || site == "" {
			l.logger.Debug("skipping stock row without part or site", zap.Int("row", i+2))
			continue
		}
		records = append(records, &entities.StockRecord{
			PartNo:    entities.PartNumber(partNo),
			Quantity:  entities.CoerceQuantity(t.get(record, "quantity")),
			Site:      site,
			Warehouse: t.get(record, "warehouse"),
		})
	}

	return records, nil
}

// LoadSchedule loads production orders from a CSV file. Rows with a
// non-positive or unreadable quantity are skipped.
func (l *Loader) LoadSchedule(filename string) ([]*entities.ProductionOrder, error) {
	t, err := readTable(filename, "schedule", []string{"date", "model", "quantity"})
	if err != nil {
		return nil, err
	}

	orders := make([]*entities.ProductionOrder, 0, len(t.rows))
	for i, record := range t.rows {
		qty, ok := entities.ParseQuantity(t.get(record, "quantity"))
		if !ok || !qty.IsPositive() {
			l.logger.Debug("skipping schedule row without positive quantity", zap.Int("row", i+2))
			continue
		}
		source := t.get(record, "source")
		if source == "" {
			source = entities.SourceImport
		}
		order, err := entities.NewProductionOrder(t.get(record, "date"), t.get(record, "model"), qty, source)
		if err != nil {
			return nil, fmt.Errorf("schedule CSV row %d: %w", i+2, err)
		}
		order.ID = fmt.Sprintf("%s:%d", filepath.Base(filename), i+2)
		orders = append(orders, order)
	}

	return orders, nil
}

// LoadDeliveries loads supplier deliveries from a CSV file. Rows with a
// non-positive or unreadable quantity are skipped.
func (l *Loader) LoadDeliveries(filename string) ([]*entities.Delivery, error) {
	t, err := readTable(filename, "deliveries", []string{"date", "part_no", "quantity"})
	if err != nil {
		return nil, err
	}

	deliveries := make([]*entities.Delivery, 0, len(t.rows))
	for i, record := range t.rows {
		qty, ok := entities.ParseQuantity(t.get(record, "quantity"))
		if !ok || !qty.IsPositive() {
			l.logger.Debug("skipping delivery row without positive quantity", zap.Int("row", i+2))
			continue
		}
		d, err := entities.NewDelivery(t.get(record, "date"), entities.PartNumber(t.get(record, "part_no")), qty, t.get(record, "note"))
		if err != nil {
			return nil, fmt.Errorf("deliveries CSV row %d: %w", i+2, err)
		}
		deliveries = append(deliveries, d)
	}

	return deliveries, nil
}

// table is a CSV file with its header resolved to column positions
type table struct {
	columns map[string]int
	rows    [][]string
}

func (t *table) get(record []string, column string) string {
	i, ok := t.columns[column]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func readTable(filename, kind string, required []string) (*table, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s file %s: %w", kind, filename, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%s CSV %s is empty", kind, filename)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s CSV: %w", kind, err)
	}

	t := &table{columns: make(map[string]int, len(header))}
	for i, col := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(col, "\ufeff")))
		if _, exists := t.columns[name]; !exists {
			t.columns[name] = i
		}
	}
	for _, col := range required {
		if _, ok := t.columns[col]; !ok {
			return nil, fmt.Errorf("%s CSV header missing column %q, got %v", kind, col, header)
		}
	}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s CSV: %w", kind, err)
		}
		if isBlank(record) {
			continue
		}
		t.rows = append(t.rows, record)
	}

	return t, nil
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func okDiagnostic(file string, records int) repositories.Diagnostic {
	return repositories.Diagnostic{File: file, Level: "ok", Message: fmt.Sprintf("%d records", records), Records: records}
}

func missingDiagnostic(file string) repositories.Diagnostic {
	return repositories.Diagnostic{File: file, Level: "warn", Message: "file not present"}
}
