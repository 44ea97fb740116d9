package xlsx

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/vsinha/shortage/pkg/domain/entities"
	"github.com/vsinha/shortage/pkg/domain/repositories"
)

// LoadSupplierMatrix reads a supplier delivery schedule laid out as one row
// per part and one column per date. Every positive quantity under a date
// column becomes a delivery. Problems are reported in the diagnostic and
// never returned as errors.
func (l *Loader) LoadSupplierMatrix(path string) ([]*entities.Delivery, repositories.Diagnostic) {
	diag := repositories.Diagnostic{File: filepath.Base(path)}

	rows, err := readFirstSheet(path)
	if err != nil {
		diag.Level = "error"
		diag.Message = err.Error()
		l.logger.Warn("unreadable supplier workbook", zap.String("file", path), zap.Error(err))
		return nil, diag
	}

	hr, cPart, ok := findHeader(rows, l.config.Columns.Part, supplierHeaderScanRows)
	if !ok {
		diag.Level = "error"
		diag.Message = "no part number column"
		l.logger.Warn("supplier workbook without part column", zap.String("file", path))
		return nil, diag
	}

	dates := dateColumns(rows, hr, cPart)
	if len(dates) == 0 {
		diag.Level = "warn"
		diag.Message = "no date columns"
		l.logger.Warn("supplier workbook without date columns", zap.String("file", path))
		return nil, diag
	}

	deliveries := make([]*entities.Delivery, 0)
	for r := hr + 1; r < len(rows); r++ {
		row := rows[r]
		part := cell(row, cPart)
		if !isDataPart(part, l.config.Columns.Subtotal) {
			continue
		}
		for _, dc := range dates {
			qty, ok := entities.ParseQuantity(cell(row, dc.col))
			if !ok || !qty.IsPositive() {
				continue
			}
			deliveries = append(deliveries, &entities.Delivery{
				Date:     dc.date,
				PartNo:   entities.PartNumber(part),
				Quantity: qty,
				Note:     entities.DefaultDeliveryNote,
			})
		}
	}

	diag.Level = "ok"
	diag.Records = len(deliveries)
	diag.Message = fmt.Sprintf("%d deliveries", len(deliveries))
	l.logger.Info("read supplier workbook", zap.String("file", path), zap.Int("deliveries", len(deliveries)))
	return deliveries, diag
}

type dateColumn struct {
	col  int
	date string
}

// dateColumns scans from the row above the header down to five rows below
// it and returns the date cells of the first row holding any
func dateColumns(rows [][]string, headerRow, partCol int) []dateColumn {
	start := headerRow - 1
	if start < 0 {
		start = 0
	}
	end := headerRow + 6
	if end > len(rows) {
		end = len(rows)
	}

	for r := start; r < end; r++ {
		found := make([]dateColumn, 0)
		for c, v := range rows[r] {
			if c == partCol {
				continue
			}
			date, ok := headerDate(v)
			if !ok {
				continue
			}
			found = append(found, dateColumn{col: c, date: date})
		}
		if len(found) > 0 {
			return found
		}
	}
	return nil
}

// Serial numbers outside this range are read as quantities, not dates
// (45000 is 2023-03-15)
const (
	minDateSerial = 30000
	maxDateSerial = 80000
)

// headerDate reads a date header cell. Cells without a date number format
// come through as raw Excel serial numbers and are converted with the 1900
// date system.
func headerDate(v string) (string, bool) {
	if date, err := entities.ParseDate(v); err == nil {
		return date, true
	}
	serial, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || serial < minDateSerial || serial > maxDateSerial {
		return "", false
	}
	t, err := excelize.ExcelDateToTime(float64(serial), false)
	if err != nil {
		return "", false
	}
	return t.Format(entities.DateLayout), true
}
