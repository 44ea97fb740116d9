package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/vsinha/shortage/pkg/application/services/ledger"
	"github.com/vsinha/shortage/pkg/application/services/report"
	"github.com/vsinha/shortage/pkg/infrastructure/repositories/memory"
	"github.com/vsinha/shortage/pkg/interfaces/cli/output"
)

// ReportConfig holds configuration for the report command
type ReportConfig struct {
	Common       CommonConfig
	Model        string
	Part         string
	Name         string
	ShortageOnly bool
	Format       string
	OutputDir    string
	Trail        bool
}

// ReportCommand runs the shortage ledger once and renders the result
type ReportCommand struct {
	config ReportConfig
	out    io.Writer
}

// NewReportCommand creates a new report command with the given configuration
func NewReportCommand(config ReportConfig) *ReportCommand {
	return &ReportCommand{
		config: config,
		out:    os.Stdout,
	}
}

// Execute runs the report command
func (c *ReportCommand) Execute(ctx context.Context) error {
	if c.config.Common.Help {
		c.showHelp()
		return nil
	}

	if err := c.validateInputs(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	app, err := NewApp(c.config.Common)
	if err != nil {
		return err
	}
	defer app.Close()

	if c.config.Common.Verbose {
		c.printHeader(app)
	}

	return runReport(ctx, app, c.config, c.out)
}

// runReport recomputes the ledger and writes one report. The watch command
// calls it on every change.
func runReport(ctx context.Context, app *App, cfg ReportConfig, out io.Writer) error {
	verbose := cfg.Common.Verbose
	if verbose {
		fmt.Fprintln(out, "🔄 Running shortage ledger...")
	}

	result, err := app.Orchestrator.RunCompletePlanning(ctx, ledger.View{Model: cfg.Model})
	if err != nil {
		return fmt.Errorf("error running shortage ledger: %w", err)
	}

	if verbose {
		stats := memory.GetMemoryStats()
		fmt.Fprintf(out, "✅ Data loaded:\n")
		fmt.Fprintf(out, "  BOM Lines: %d (%d models)\n", result.Inputs.BOMLines, result.Inputs.Models)
		fmt.Fprintf(out, "  Stock Rows: %d\n", result.Inputs.StockRows)
		fmt.Fprintf(out, "  Orders: %d imported, %d planned\n", result.Inputs.ImportedOrders, result.Inputs.PlannedOrders)
		fmt.Fprintf(out, "  Deliveries: %d\n", result.Inputs.Deliveries)
		fmt.Fprintf(out, "✅ Ledger computed in %v (heap %s)\n\n", result.Duration, memory.FormatBytes(stats.AllocBytes))
	}

	filtered := report.Apply(result.Report, report.Filter{
		Part:         cfg.Part,
		Name:         cfg.Name,
		ShortageOnly: cfg.ShortageOnly,
	})

	err = output.Generate(filtered, output.Config{
		Format:    cfg.Format,
		OutputDir: cfg.OutputDir,
		Verbose:   verbose,
		Trail:     cfg.Trail,
		RunTime:   result.Duration,
		Out:       out,
	})
	if err != nil {
		return fmt.Errorf("error generating output: %w", err)
	}

	if verbose {
		fmt.Fprintln(out, "🏁 Shortage analysis complete!")
	}
	return nil
}

// validateInputs validates the command configuration
func (c *ReportCommand) validateInputs() error {
	return validateFormat(c.config.Format, c.config.OutputDir)
}

func validateFormat(format, outputDir string) error {
	if format == "" {
		return nil
	}
	if !slices.Contains(output.Formats(), format) {
		return fmt.Errorf("unsupported output format %q (want one of %v)", format, output.Formats())
	}
	if (format == output.FormatCSV || format == output.FormatXLSX) && outputDir == "" {
		return fmt.Errorf("-output directory required for %s format", format)
	}
	return nil
}

// printHeader prints the command header information
func (c *ReportCommand) printHeader(app *App) {
	fmt.Fprintf(c.out, "🚀 Shortage Ledger CLI\n")
	fmt.Fprintf(c.out, "Input format: %s\n", app.Config.Format)
	fmt.Fprintf(c.out, "Inputs:\n")
	for _, p := range app.InputPaths() {
		fmt.Fprintf(c.out, "  %s\n", p)
	}
	fmt.Fprintf(c.out, "Plan store: %s\n", app.Config.Store.Path)
	if c.config.Model != "" {
		fmt.Fprintf(c.out, "Model: %s\n", c.config.Model)
	}
	fmt.Fprintf(c.out, "Output format: %s\n", c.config.Format)
	if c.config.OutputDir != "" {
		fmt.Fprintf(c.out, "Output directory: %s\n", c.config.OutputDir)
	}
	fmt.Fprintln(c.out)
}

// showHelp displays the help message
func (c *ReportCommand) showHelp() {
	fmt.Fprint(c.out, `shortage report - compute per-component shortages for the production plan

USAGE:
    shortage report [options]

OPTIONS:
    -config <file>      YAML configuration file (default: $SHORTAGE_CONFIG)
    -env <file>         Environment file loaded before the config (default: .env)
    -data <dir>         CSV input directory (overrides the config, implies csv input)
    -db <file>          Production plan database (default: shortage.db)
    -model <model>      Report only this model
    -part <text>        Keep groups with a part number containing text
    -name <text>        Keep groups with a name containing text
    -shortage-only      Keep only groups that run short
    -format <fmt>       Output format: text, json, csv, html, xlsx (default: text)
    -output <dir>       Output directory (required for csv and xlsx)
    -trail              Print every group's simulation in text output
    -log-level <lvl>    debug, info, warn or error
    -verbose            Enable verbose output
    -help               Show this help message

CSV INPUT DIRECTORY:
    data/
    ├── bom.csv         # model,part_no,item_code,name,spec,usage
    ├── stock.csv       # site,part_no,quantity,warehouse
    ├── schedule.csv    # date,model,quantity,source (optional)
    └── deliveries.csv  # date,part_no,quantity,note (optional)

EXAMPLES:
    shortage report -data data/ -shortage-only
    shortage report -config shortage.yaml -format html -output out/
    shortage report -data data/ -model CTRL-100 -trail
`)
}
