package xlsx

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/vsinha/shortage/pkg/domain/entities"
	"github.com/vsinha/shortage/pkg/domain/repositories"
	"github.com/vsinha/shortage/pkg/infrastructure/config"
)

// SiteFile is the stock workbook of one site
type SiteFile struct {
	Site string
	Path string
}

// LoaderConfig lists the workbooks read by the loader
type LoaderConfig struct {
	BOM           string
	Sites         []SiteFile
	SupplierDir   string
	SupplierFiles []string
	Columns       config.ColumnConfig
}

// Loader reads BOM, stock and supplier delivery workbooks
type Loader struct {
	config LoaderConfig
	logger *zap.Logger
}

// NewLoader creates a workbook loader. Empty keyword lists fall back to the
// default ERP column keywords.
func NewLoader(cfg LoaderConfig, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg.Columns = cfg.Columns.WithDefaults()
	return &Loader{config: cfg, logger: logger}
}

// NewLoaderFromConfig builds a loader for the xlsx section of cfg
func NewLoaderFromConfig(cfg *config.Config, logger *zap.Logger) *Loader {
	sites := make([]SiteFile, len(cfg.Sites))
	for i, s := range cfg.Sites {
		sites[i] = SiteFile{Site: strings.TrimSpace(s.Name), Path: s.File}
	}
	return NewLoader(LoaderConfig{
		BOM:           cfg.XLSX.BOM,
		Sites:         sites,
		SupplierDir:   cfg.XLSX.SupplierDir,
		SupplierFiles: cfg.XLSX.SupplierFiles,
		Columns:       cfg.Columns,
	}, logger)
}

// Verify interface compliance
var _ repositories.InputSource = (*Loader)(nil)

// LoadSnapshot reads the BOM and every site's stock, then every supplier
// workbook. BOM and stock failures are fatal; supplier workbooks only
// produce diagnostics.
func (l *Loader) LoadSnapshot(ctx context.Context) (*repositories.Snapshot, error) {
	snap := &repositories.Snapshot{}

	bom, err := l.LoadBOM(l.config.BOM)
	if err != nil {
		return nil, err
	}
	snap.BOM = bom
	snap.Diagnostics = append(snap.Diagnostics, repositories.Diagnostic{
		File: filepath.Base(l.config.BOM), Level: "ok", Message: fmt.Sprintf("%d BOM lines", len(bom)), Records: len(bom),
	})

	for _, site := range l.config.Sites {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		records, err := l.LoadStock(site.Path, site.Site)
		if err != nil {
			return nil, err
		}
		snap.Stock = append(snap.Stock, records...)
		snap.Diagnostics = append(snap.Diagnostics, repositories.Diagnostic{
			File: filepath.Base(site.Path), Level: "ok", Message: fmt.Sprintf("%d stock rows for %s", len(records), site.Site), Records: len(records),
		})
	}

	files, err := l.SupplierFiles()
	if err != nil {
		return nil, err
	}
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		deliveries, diag := l.LoadSupplierMatrix(path)
		snap.Deliveries = append(snap.Deliveries, deliveries...)
		snap.Diagnostics = append(snap.Diagnostics, diag)
	}

	l.logger.Info("loaded workbooks",
		zap.Int("bom_lines", len(snap.BOM)),
		zap.Int("stock_rows", len(snap.Stock)),
		zap.Int("supplier_files", len(files)),
		zap.Int("deliveries", len(snap.Deliveries)))

	return snap, nil
}

// SupplierFiles returns the configured supplier workbooks followed by the
// workbooks of the supplier directory in name order. Office lock files are
// ignored.
func (l *Loader) SupplierFiles() ([]string, error) {
	files := append([]string(nil), l.config.SupplierFiles...)
	if l.config.SupplierDir == "" {
		return files, nil
	}

	entries, err := os.ReadDir(l.config.SupplierDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read supplier dir %s: %w", l.config.SupplierDir, err)
	}
	found := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, "~$") || !strings.EqualFold(filepath.Ext(name), ".xlsx") {
			continue
		}
		found = append(found, filepath.Join(l.config.SupplierDir, name))
	}
	sort.Strings(found)
	return append(files, found...), nil
}

// LoadBOM reads the BOM workbook. The header row is the first of the top rows
// holding a part number title.
func (l *Loader) LoadBOM(path string) ([]*entities.BOMLine, error) {
	rows, err := readFirstSheet(path)
	if err != nil {
		return nil, err
	}
	cols := l.config.Columns

	hr, _, ok := findHeader(rows, cols.Part, headerScanRows)
	if !ok {
		return nil, fmt.Errorf("BOM workbook %s: no header row with a part number column", path)
	}
	h := newHeader(rows[hr])
	cModel := h.find(cols.Model)
	cPart := h.find(cols.Part)
	if cModel < 0 {
		return nil, fmt.Errorf("BOM workbook %s: no model column: %w", path, entities.ErrMissingRequiredField)
	}
	cCode := h.find(cols.ItemCode)
	cName := h.find(cols.Name)
	cSpec := h.find(cols.Spec)
	cUsage := h.find(cols.Usage)

	lines := make([]*entities.BOMLine, 0, len(rows)-hr-1)
	for r := hr + 1; r < len(rows); r++ {
		row := rows[r]
		part := cell(row, cPart)
		if !isDataPart(part, cols.Subtotal) {
			continue
		}
		usage, ok := entities.ParseQuantity(cell(row, cUsage))
		if !ok {
			l.logger.Debug("bom usage is not a number, using zero",
				zap.String("file", path), zap.Int("row", r+1))
		}
		line, err := entities.NewBOMLine(cell(row, cModel), entities.PartNumber(part), cell(row, cCode), cell(row, cName), cell(row, cSpec), usage)
		if err != nil {
			return nil, fmt.Errorf("BOM workbook %s row %d: %w", path, r+1, err)
		}
		lines = append(lines, line)
	}

	return lines, nil
}

// LoadStock reads one site's stock workbook
func (l *Loader) LoadStock(path, site string) ([]*entities.StockRecord, error) {
	rows, err := readFirstSheet(path)
	if err != nil {
		return nil, err
	}
	cols := l.config.Columns

	hr, _, ok := findHeader(rows, cols.Part, headerScanRows)
	if !ok {
		return nil, fmt.Errorf("stock workbook %s: no header row with a part number column", path)
	}
	h := newHeader(rows[hr])
	cPart := h.find(cols.Part)
	cQty := h.quantityColumn(cols.Quantity, cols.OnHand)
	if cQty < 0 {
		return nil, fmt.Errorf("stock workbook %s: no quantity column", path)
	}
	cWarehouse := h.find(cols.Warehouse)

	records := make([]*entities.StockRecord, 0, len(rows)-hr-1)
	for r := hr + 1; r < len(rows); r++ {
		row := rows[r]
		part := cell(row, cPart)
		if !isDataPart(part, cols.Subtotal) {
			continue
		}
		records = append(records, &entities.StockRecord{
			PartNo:    entities.PartNumber(part),
			Quantity:  entities.CoerceQuantity(cell(row, cQty)),
			Site:      site,
			Warehouse: cell(row, cWarehouse),
		})
	}

	return records, nil
}
