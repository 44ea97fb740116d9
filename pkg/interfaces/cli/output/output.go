package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vsinha/shortage/pkg/application/dto"
	"github.com/vsinha/shortage/pkg/domain/entities"
)

// Supported output formats
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatHTML = "html"
	FormatXLSX = "xlsx"
)

// Formats lists every format Generate understands
func Formats() []string {
	return []string{FormatText, FormatJSON, FormatCSV, FormatHTML, FormatXLSX}
}

// Config holds configuration for output generation
type Config struct {
	Format     string
	OutputDir  string
	Verbose    bool
	Trail      bool // include every group's audit trail in text output
	RunTime    time.Duration
	InputFiles map[string]string
	Out        io.Writer // defaults to os.Stdout
}

func (c Config) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

// Generate creates output in the specified format
func Generate(report *dto.ShortageReport, config Config) error {
	if report == nil {
		return fmt.Errorf("no report to render")
	}
	switch config.Format {
	case FormatText, "":
		return generateTextOutput(report, config)
	case FormatJSON:
		return generateJSONOutput(report, config)
	case FormatCSV:
		return generateCSVOutput(report, config)
	case FormatHTML:
		return generateHTMLOutput(report, config)
	case FormatXLSX:
		return generateXLSXOutput(report, config)
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

// generateTextOutput prints the report and optionally saves a copy
func generateTextOutput(report *dto.ShortageReport, config Config) error {
	if err := WriteText(config.out(), report, config); err != nil {
		return err
	}
	if config.OutputDir == "" {
		return nil
	}

	filename, err := createOutputFile(config.OutputDir, "shortage_report.txt", func(w io.Writer) error {
		return WriteText(w, report, config)
	})
	if err != nil {
		return err
	}
	saved(config, "Results saved to: %s\n", filename)
	return nil
}

// WriteText renders the human-readable report
func WriteText(w io.Writer, report *dto.ShortageReport, config Config) error {
	p := &printer{w: w}

	p.printf("📊 Shortage Ledger Summary\n")
	p.printf("==========================\n\n")
	p.printf("Items: %d\n", report.Summary.Items)
	p.printf("Shortages: %d\n", report.Summary.Shortages)
	p.printf("Production Orders: %d (planned quantity %s)\n",
		report.Summary.Orders, report.Summary.PlannedQuantity.String())
	p.printf("Deliveries: %d (%d matched)\n",
		report.Summary.Deliveries, report.Summary.MatchedDeliveries)
	p.printf("Sites: %s\n", strings.Join(report.Sites, ", "))
	if config.RunTime > 0 {
		p.printf("Run Time: %v\n", config.RunTime)
	}
	p.printf("\n")

	if len(report.Groups) > 0 {
		p.printf("📋 Component Groups:\n")
		header := []string{
			fmt.Sprintf("%-12s", "Model"),
			fmt.Sprintf("%-10s", "Key"),
			fmt.Sprintf("%-24s", "Part Numbers"),
			fmt.Sprintf("%-20s", "Name"),
		}
		rule := []string{strings.Repeat("-", 12), strings.Repeat("-", 10), strings.Repeat("-", 24), strings.Repeat("-", 20)}
		for _, site := range report.Sites {
			header = append(header, fmt.Sprintf("%10s", truncate(site, 10)))
			rule = append(rule, strings.Repeat("-", 10))
		}
		header = append(header,
			fmt.Sprintf("%10s", "Demand"), fmt.Sprintf("%10s", "Final"),
			fmt.Sprintf("%-10s", "Status"), "First Shortage")
		rule = append(rule, strings.Repeat("-", 10), strings.Repeat("-", 10), strings.Repeat("-", 10), strings.Repeat("-", 24))
		p.printf("%s\n%s\n", strings.Join(header, " "), strings.Join(rule, " "))

		for _, g := range report.Groups {
			row := []string{
				fmt.Sprintf("%-12s", truncate(g.Model, 12)),
				fmt.Sprintf("%-10s", truncate(g.Key, 10)),
				fmt.Sprintf("%-24s", truncate(PartList(g), 24)),
				fmt.Sprintf("%-20s", truncate(g.Name, 20)),
			}
			for _, site := range report.Sites {
				row = append(row, fmt.Sprintf("%10s", g.Stock.Get(site).String()))
			}
			row = append(row,
				fmt.Sprintf("%10s", g.TotalDemand.String()),
				fmt.Sprintf("%10s", g.FinalBalance.String()),
				fmt.Sprintf("%-10s", statusLabel(g.Status)),
				g.FirstShortage.String())
			p.printf("%s\n", strings.Join(row, " "))
		}
		p.printf("\n")
	}

	if config.Trail {
		for _, g := range report.Groups {
			if len(g.Trail) == 0 {
				continue
			}
			p.printf("🧾 %s / %s (start %s)\n", g.Model, g.Key, g.InitialBalance.String())
			p.printf("%-12s %-40s %10s %10s\n", "Date", "Note", "Movement", "Balance")
			for _, e := range g.Trail {
				p.printf("%-12s %-40s %10s %10s\n",
					e.Date, truncate(e.Note, 40), signed(e), e.Balance.String())
			}
			p.printf("\n")
		}
	}

	if len(report.Unmatched) > 0 {
		p.printf("📦 Unmatched Supply:\n")
		p.printf("%-24s %10s %-8s\n", "Part Number", "Total", "Events")
		p.printf("%-24s %10s %-8s\n", strings.Repeat("-", 24), strings.Repeat("-", 10), strings.Repeat("-", 8))
		for _, u := range report.Unmatched {
			p.printf("%-24s %10s %-8d\n", truncate(u.PartNo, 24), u.Total.String(), len(u.Events))
		}
		p.printf("\n")
	}

	if len(report.Diagnostics) > 0 {
		p.printf("⚠️  Input Diagnostics:\n")
		for _, d := range report.Diagnostics {
			p.printf("  [%s] %s: %s\n", d.Level, d.File, d.Message)
		}
		p.printf("\n")
	}

	return p.err
}

// generateJSONOutput creates JSON output
func generateJSONOutput(report *dto.ShortageReport, config Config) error {
	if config.OutputDir == "" {
		return WriteJSON(config.out(), report)
	}

	filename, err := createOutputFile(config.OutputDir, "shortage_report.json", func(w io.Writer) error {
		return WriteJSON(w, report)
	})
	if err != nil {
		return err
	}
	saved(config, "JSON results saved to: %s\n", filename)
	return nil
}

// WriteJSON writes the report as indented JSON
func WriteJSON(w io.Writer, report *dto.ShortageReport) error {
	jsonData, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	jsonData = append(jsonData, '\n')
	if _, err := w.Write(jsonData); err != nil {
		return fmt.Errorf("failed to write JSON: %w", err)
	}
	return nil
}

// generateCSVOutput writes the report tables as CSV files
func generateCSVOutput(report *dto.ShortageReport, config Config) error {
	if config.OutputDir == "" {
		return fmt.Errorf("output directory required for CSV format")
	}

	files, err := WriteCSVFiles(config.OutputDir, report)
	if err != nil {
		return err
	}

	if config.Verbose {
		fmt.Fprintf(config.out(), "💾 CSV results saved to:\n")
		for _, f := range files {
			fmt.Fprintf(config.out(), "  %s\n", f)
		}
	}
	return nil
}

// generateHTMLOutput renders the HTML report to stdout or a file
func generateHTMLOutput(report *dto.ShortageReport, config Config) error {
	if config.OutputDir == "" {
		return WriteHTML(config.out(), report, config)
	}

	filename, err := createOutputFile(config.OutputDir, "shortage_report.html", func(w io.Writer) error {
		return WriteHTML(w, report, config)
	})
	if err != nil {
		return err
	}
	saved(config, "HTML report saved to: %s\n", filename)
	return nil
}

// generateXLSXOutput writes the report workbook. A workbook is binary so an
// output directory is required.
func generateXLSXOutput(report *dto.ShortageReport, config Config) error {
	if config.OutputDir == "" {
		return fmt.Errorf("output directory required for xlsx format")
	}

	filename, err := createOutputFile(config.OutputDir, "shortage_report.xlsx", func(w io.Writer) error {
		return WriteXLSX(w, report)
	})
	if err != nil {
		return err
	}
	saved(config, "Workbook saved to: %s\n", filename)
	return nil
}

// PartList joins the distinct raw part numbers of a group with "/"
func PartList(g dto.GroupResult) string {
	seen := make(map[entities.PartNumber]bool, len(g.Members))
	parts := make([]string, 0, len(g.Members))
	for _, m := range g.Members {
		if seen[m.PartNo] {
			continue
		}
		seen[m.PartNo] = true
		parts = append(parts, string(m.PartNo))
	}
	return strings.Join(parts, "/")
}

func createOutputFile(dir, name string, write func(io.Writer) error) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	filename := filepath.Join(dir, name)
	f, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", filename, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", filename, err)
	}
	return filename, nil
}

func saved(config Config, format, filename string) {
	if config.Verbose {
		fmt.Fprintf(config.out(), "💾 "+format, filename)
	}
}

func statusLabel(s entities.Status) string {
	if s == entities.Shortage {
		return "SHORTAGE"
	}
	return "OK"
}

// signed renders a trail movement with its direction
func signed(e entities.AuditEntry) string {
	if e.Kind == entities.Demand {
		return "-" + e.Quantity.String()
	}
	return "+" + e.Quantity.String()
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 1 {
		return string(r[:width])
	}
	return string(r[:width-1]) + "…"
}

// printer remembers the first write error so table code stays linear
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}
