package output

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/vsinha/shortage/pkg/application/dto"
)

// Workbook sheet names
const (
	ShortageSheet  = "Shortage"
	TrailSheet     = "Audit Trail"
	UnmatchedSheet = "Unmatched Supply"
)

// WriteXLSX writes the report as a workbook with one sheet per table.
// Short groups are highlighted on the Shortage sheet.
func WriteXLSX(w io.Writer, report *dto.ShortageReport) error {
	f, err := BuildWorkbook(report)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// BuildWorkbook lays the report out in a new excelize file
func BuildWorkbook(report *dto.ShortageReport) (*excelize.File, error) {
	f := excelize.NewFile()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#D3D3D3"}, Pattern: 1},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	shortStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Color: "#9C0006"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#FFC7CE"}, Pattern: 1},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create shortage style: %w", err)
	}

	groups := make([][]string, 0, len(report.Groups))
	shortRows := make([]bool, 0, len(report.Groups))
	for _, g := range report.Groups {
		groups = append(groups, GroupRow(g, report.Sites))
		shortRows = append(shortRows, g.IsShortage())
	}

	var trail [][]string
	for _, g := range report.Groups {
		trail = append(trail, TrailRows(g)...)
	}

	var unmatched [][]string
	for _, u := range report.Unmatched {
		for _, e := range u.Events {
			unmatched = append(unmatched, []string{u.PartNo, e.Date, e.Note, e.Quantity.String()})
		}
	}

	sheets := []struct {
		name      string
		headers   []string
		data      [][]string
		highlight []bool
	}{
		{ShortageSheet, GroupHeader(report.Sites), groups, shortRows},
		{TrailSheet, TrailHeader(), trail, nil},
		{UnmatchedSheet, []string{"part_no", "date", "note", "quantity"}, unmatched, nil},
	}

	for i, s := range sheets {
		index, err := f.NewSheet(s.name)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to create sheet %s: %w", s.name, err)
		}
		if i == 0 {
			f.SetActiveSheet(index)
		}
		if err := writeSheet(f, s.name, s.headers, s.data, headerStyle); err != nil {
			f.Close()
			return nil, err
		}
		for row, short := range s.highlight {
			if !short {
				continue
			}
			first, _ := excelize.CoordinatesToCellName(1, row+2)
			last, _ := excelize.CoordinatesToCellName(len(s.headers), row+2)
			if err := f.SetCellStyle(s.name, first, last, shortStyle); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to style %s row %d: %w", s.name, row+2, err)
			}
		}
	}

	f.DeleteSheet("Sheet1")
	return f, nil
}

func writeSheet(f *excelize.File, sheet string, headers []string, data [][]string, headerStyle int) error {
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return fmt.Errorf("failed to write %s header: %w", sheet, err)
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return fmt.Errorf("failed to style %s header: %w", sheet, err)
		}
	}

	for rowIdx, row := range data {
		for colIdx, value := range row {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("failed to write %s!%s: %w", sheet, cell, err)
			}
		}
	}

	for i := range headers {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, col, col, 15); err != nil {
			return fmt.Errorf("failed to size %s column %s: %w", sheet, col, err)
		}
	}
	return nil
}
