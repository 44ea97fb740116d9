package commands

import (
	"errors"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/vsinha/shortage/pkg/application/services/ledger"
	"github.com/vsinha/shortage/pkg/application/services/orchestration"
	"github.com/vsinha/shortage/pkg/domain/repositories"
	"github.com/vsinha/shortage/pkg/infrastructure/config"
	"github.com/vsinha/shortage/pkg/infrastructure/events"
	"github.com/vsinha/shortage/pkg/infrastructure/logger"
	"github.com/vsinha/shortage/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/shortage/pkg/infrastructure/repositories/sqlite"
	"github.com/vsinha/shortage/pkg/infrastructure/repositories/xlsx"
)

// CommonConfig holds the flags every subcommand understands
type CommonConfig struct {
	ConfigFile string
	EnvFile    string
	DataDir    string // overrides csv.dir and selects csv input
	DBPath     string // overrides store.path
	LogLevel   string
	Verbose    bool
	Help       bool
}

// App is the wired application shared by the subcommands
type App struct {
	Config       *config.Config
	Logger       *zap.Logger
	Source       repositories.InputSource
	Plan         *sqlite.ScheduleRepository
	Events       *events.InMemoryEventStore
	Orchestrator *orchestration.PlanningOrchestrator
}

// NewApp loads configuration and wires logging, ingestion, the plan store
// and the engine. Close must be called when done.
func NewApp(common CommonConfig) (*App, error) {
	cfg, err := config.Load(common.ConfigFile, common.EnvFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if common.DataDir != "" {
		cfg.Format = config.FormatCSV
		cfg.CSV.Dir = common.DataDir
	}
	if common.DBPath != "" {
		cfg.Store.Path = common.DBPath
	}
	if common.LogLevel != "" {
		cfg.Log.Level = common.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	var source repositories.InputSource
	switch cfg.Format {
	case config.FormatXLSX:
		source = xlsx.NewLoaderFromConfig(cfg, logger.Named(log, "xlsx"))
	default:
		source = csv.NewLoader(cfg.CSV.Dir, logger.Named(log, "csv"))
	}

	plan, err := sqlite.Open(cfg.Store.Path, logger.Named(log, "plan"))
	if err != nil {
		_ = log.Sync()
		return nil, err
	}

	engine := ledger.NewEngineWithConfig(ledger.EngineConfig{
		Workers:    cfg.Engine.Workers,
		Normalizer: cfg.Normalizer(),
	}, logger.Named(log, "engine"))

	store := events.NewInMemoryEventStore(logger.Named(log, "events"))

	return &App{
		Config:       cfg,
		Logger:       log,
		Source:       source,
		Plan:         plan,
		Events:       store,
		Orchestrator: orchestration.NewPlanningOrchestrator(source, plan, engine, cfg.EntitySites(), store, log),
	}, nil
}

// InputPaths lists the files and directories the configured inputs live in
func (a *App) InputPaths() []string {
	if a.Config.Format != config.FormatXLSX {
		return []string{a.Config.CSV.Dir}
	}

	paths := []string{a.Config.XLSX.BOM}
	for _, site := range a.Config.Sites {
		paths = append(paths, site.File)
	}
	if a.Config.XLSX.SupplierDir != "" {
		paths = append(paths, a.Config.XLSX.SupplierDir)
	}
	for _, f := range a.Config.XLSX.SupplierFiles {
		paths = append(paths, filepath.Clean(f))
	}
	return paths
}

// Close releases the plan store and flushes the logger
func (a *App) Close() error {
	var errs []error
	if a.Plan != nil {
		errs = append(errs, a.Plan.Close())
	}
	// Sync on stderr fails with EINVAL on some platforms; nothing to do about it.
	_ = a.Logger.Sync()
	return errors.Join(errs...)
}
