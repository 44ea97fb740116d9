package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/vsinha/shortage/pkg/interfaces/cli/commands"
)

// executor is satisfied by every subcommand
type executor interface {
	Execute(ctx context.Context) error
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cmd, err := parse(os.Args[1], os.Args[2:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	if cmd == nil {
		usage()
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// parse builds the subcommand named by name from its flags. A nil command
// means help was requested.
func parse(name string, args []string) (executor, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	common := commonFlags(fs)

	switch name {
	case "report":
		cfg := reportFlags(fs)
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		cfg.Common = *common
		return commands.NewReportCommand(*cfg), nil

	case "plan":
		if len(args) == 0 {
			return commands.NewPlanCommand(commands.PlanConfig{Common: *common}), nil
		}
		cfg := commands.PlanConfig{Action: args[0]}
		fs.StringVar(&cfg.Date, "date", "", "Build date")
		fs.StringVar(&cfg.Model, "model", "", "Model to build")
		fs.StringVar(&cfg.Quantity, "qty", "", "Units to build")
		fs.StringVar(&cfg.ID, "id", "", "Order ID")
		if err := fs.Parse(args[1:]); err != nil {
			return nil, err
		}
		cfg.Common = *common
		return commands.NewPlanCommand(cfg), nil

	case "watch":
		cfg := commands.WatchConfig{}
		report := reportFlags(fs)
		fs.StringVar(&cfg.Cron, "cron", "", "Also refresh on this cron schedule")
		fs.DurationVar(&cfg.Debounce, "debounce", commands.DefaultDebounce, "Quiet period before a rerun")
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		report.Common = *common
		cfg.Report = *report
		return commands.NewWatchCommand(cfg), nil

	case "serve":
		cfg := commands.ServeConfig{}
		fs.StringVar(&cfg.Addr, "addr", "", "Listen address (default from config, :8080)")
		fs.StringVar(&cfg.Cron, "cron", "", "Refresh the cached report on this cron schedule")
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		cfg.Common = *common
		return commands.NewServeCommand(cfg), nil

	case "help", "-h", "-help", "--help":
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown command %q", name)
	}
}

func commonFlags(fs *flag.FlagSet) *commands.CommonConfig {
	c := &commands.CommonConfig{}
	fs.StringVar(&c.ConfigFile, "config", "", "YAML configuration file")
	fs.StringVar(&c.EnvFile, "env", "", "Environment file loaded before the config")
	fs.StringVar(&c.DataDir, "data", "", "CSV input directory")
	fs.StringVar(&c.DBPath, "db", "", "Production plan database")
	fs.StringVar(&c.LogLevel, "log-level", "", "Log level: debug, info, warn, error")
	fs.BoolVar(&c.Verbose, "verbose", false, "Enable verbose output")
	fs.BoolVar(&c.Help, "help", false, "Show help message")
	return c
}

func reportFlags(fs *flag.FlagSet) *commands.ReportConfig {
	c := &commands.ReportConfig{}
	fs.StringVar(&c.Model, "model", "", "Report only this model")
	fs.StringVar(&c.Part, "part", "", "Keep groups with a part number containing text")
	fs.StringVar(&c.Name, "name", "", "Keep groups with a name containing text")
	fs.BoolVar(&c.ShortageOnly, "shortage-only", false, "Keep only groups that run short")
	fs.StringVar(&c.Format, "format", "text", "Output format: text, json, csv, html, xlsx")
	fs.StringVar(&c.OutputDir, "output", "", "Output directory for results")
	fs.BoolVar(&c.Trail, "trail", false, "Print every group's simulation")
	return c
}

func usage() {
	fmt.Fprint(os.Stderr, `shortage - component shortage ledger

USAGE:
    shortage <command> [options]

COMMANDS:
    report    Compute shortages once and print or save the report
    plan      Manage the stored production plan (add, list, remove, clear)
    watch     Recompute the report whenever an input file changes
    serve     Serve reports and the production plan over HTTP

Run "shortage <command> -help" for command options.
`)
}
