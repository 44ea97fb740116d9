package xlsx

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

const (
	// headerScanRows bounds the header search of BOM and stock sheets
	headerScanRows = 10
	// supplierHeaderScanRows bounds the header search of supplier matrices
	supplierHeaderScanRows = 15
)

// readFirstSheet returns the rows of the workbook's first sheet as displayed
// text
func readFirstSheet(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook %s has no sheets", path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s of %s: %w", sheets[0], path, err)
	}
	return rows, nil
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if k != "" && strings.Contains(s, k) {
			return true
		}
	}
	return false
}

// findHeader returns the first row within limit holding a cell that
// contains one of keywords, and that cell's column
func findHeader(rows [][]string, keywords []string, limit int) (int, int, bool) {
	for r := 0; r < len(rows) && r < limit; r++ {
		for c, v := range rows[r] {
			if containsAny(strings.TrimSpace(v), keywords) {
				return r, c, true
			}
		}
	}
	return -1, -1, false
}

// header maps a header row to column positions by keyword
type header []string

func newHeader(row []string) header {
	h := make(header, len(row))
	for i, v := range row {
		h[i] = strings.TrimSpace(v)
	}
	return h
}

// find returns the first column whose title contains any keyword, or -1
func (h header) find(keywords []string) int {
	for i, title := range h {
		if containsAny(title, keywords) {
			return i
		}
	}
	return -1
}

// quantityColumn prefers a quantity column that is also an on-hand column,
// then any quantity column, then any on-hand column
func (h header) quantityColumn(quantity, onHand []string) int {
	first := -1
	for i, title := range h {
		if !containsAny(title, quantity) {
			continue
		}
		if containsAny(title, onHand) {
			return i
		}
		if first < 0 {
			first = i
		}
	}
	if first >= 0 {
		return first
	}
	return h.find(onHand)
}

// isDataPart reports whether a part cell holds a real part number rather
// than a blank, a missing value or a subtotal label
func isDataPart(part string, subtotal []string) bool {
	if part == "" || strings.EqualFold(part, "nan") {
		return false
	}
	return !containsAny(part, subtotal)
}
