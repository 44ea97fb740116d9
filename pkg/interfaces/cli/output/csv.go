package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/vsinha/shortage/pkg/application/dto"
)

// CSV file names written by WriteCSVFiles
const (
	GroupsCSV    = "groups.csv"
	TrailCSV     = "audit_trail.csv"
	UnmatchedCSV = "unmatched_supply.csv"
)

// WriteCSVFiles writes the group table, the audit trail and the unmatched
// supply table into dir and returns the files written
func WriteCSVFiles(dir string, report *dto.ShortageReport) ([]string, error) {
	writers := []struct {
		name  string
		write func(io.Writer, *dto.ShortageReport) error
	}{
		{GroupsCSV, WriteGroupsCSV},
		{TrailCSV, WriteTrailCSV},
		{UnmatchedCSV, WriteUnmatchedCSV},
	}

	files := make([]string, 0, len(writers))
	for _, wr := range writers {
		write := wr.write
		filename, err := createOutputFile(dir, wr.name, func(w io.Writer) error {
			return write(w, report)
		})
		if err != nil {
			return files, fmt.Errorf("failed to write %s: %w", wr.name, err)
		}
		files = append(files, filename)
	}
	return files, nil
}

// GroupHeader returns the group table columns, one stock column per site
func GroupHeader(sites []string) []string {
	header := []string{"model", "key", "part_numbers", "name", "spec", "max_usage"}
	for _, site := range sites {
		header = append(header, "stock_"+site)
	}
	return append(header,
		"stock_total", "total_demand", "final_balance", "status", "first_shortage")
}

// GroupRow flattens one group in GroupHeader column order
func GroupRow(g dto.GroupResult, sites []string) []string {
	row := []string{g.Model, g.Key, PartList(g), g.Name, g.Spec, g.MaxUsage.String()}
	for _, site := range sites {
		row = append(row, g.Stock.Get(site).String())
	}
	firstShortage := ""
	if g.FirstShortage != nil {
		firstShortage = g.FirstShortage.String()
	}
	return append(row,
		g.Stock.Total().String(),
		g.TotalDemand.String(),
		g.FinalBalance.String(),
		g.Status.String(),
		firstShortage)
}

// TrailHeader returns the audit trail columns
func TrailHeader() []string {
	return []string{"model", "key", "seq", "date", "kind", "note", "quantity", "balance"}
}

// TrailRows flattens a group's audit trail, starting with the opening balance
func TrailRows(g dto.GroupResult) [][]string {
	rows := make([][]string, 0, len(g.Trail)+1)
	rows = append(rows, []string{g.Model, g.Key, "0", "", "opening", "Stock on hand", "", g.InitialBalance.String()})
	for i, e := range g.Trail {
		rows = append(rows, []string{
			g.Model,
			g.Key,
			strconv.Itoa(i + 1),
			e.Date,
			e.Kind.String(),
			e.Note,
			e.Quantity.String(),
			e.Balance.String(),
		})
	}
	return rows
}

// WriteGroupsCSV writes one row per component group
func WriteGroupsCSV(w io.Writer, report *dto.ShortageReport) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(GroupHeader(report.Sites)); err != nil {
		return err
	}
	for _, g := range report.Groups {
		if err := cw.Write(GroupRow(g, report.Sites)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTrailCSV writes every group's audit trail
func WriteTrailCSV(w io.Writer, report *dto.ShortageReport) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(TrailHeader()); err != nil {
		return err
	}
	for _, g := range report.Groups {
		if err := cw.WriteAll(TrailRows(g)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteUnmatchedCSV writes one row per delivery that matched no demand
func WriteUnmatchedCSV(w io.Writer, report *dto.ShortageReport) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"part_no", "date", "note", "quantity"}); err != nil {
		return err
	}
	for _, u := range report.Unmatched {
		for _, e := range u.Events {
			if err := cw.Write([]string{u.PartNo, e.Date, e.Note, e.Quantity.String()}); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
