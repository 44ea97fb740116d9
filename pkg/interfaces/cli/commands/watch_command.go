package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/vsinha/shortage/pkg/infrastructure/events"
	"github.com/vsinha/shortage/pkg/infrastructure/scheduler"
	"github.com/vsinha/shortage/pkg/infrastructure/watcher"
)

// DefaultDebounce is how long the inputs must stay quiet before a recompute
const DefaultDebounce = 500 * time.Millisecond

// WatchConfig holds configuration for the watch command
type WatchConfig struct {
	Report   ReportConfig
	Cron     string // overrides refresh.cron
	Debounce time.Duration
}

// WatchCommand recomputes the report whenever an input changes and,
// optionally, on a cron schedule
type WatchCommand struct {
	config WatchConfig
	out    io.Writer
}

// NewWatchCommand creates a new watch command with the given configuration
func NewWatchCommand(config WatchConfig) *WatchCommand {
	if config.Debounce <= 0 {
		config.Debounce = DefaultDebounce
	}
	return &WatchCommand{config: config, out: os.Stdout}
}

// Execute runs until ctx is cancelled
func (c *WatchCommand) Execute(ctx context.Context) error {
	if c.config.Report.Common.Help {
		c.showHelp()
		return nil
	}

	if err := validateFormat(c.config.Report.Format, c.config.Report.OutputDir); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	spec := c.config.Cron
	app, err := NewApp(c.config.Report.Common)
	if err != nil {
		return err
	}
	defer app.Close()
	if spec == "" {
		spec = app.Config.Refresh.Cron
	}
	if spec != "" {
		if err := scheduler.ValidateSpec(spec); err != nil {
			return fmt.Errorf("validation error: %w", err)
		}
	}

	log := app.Logger.Named("watch")
	c.logTransitions(app, log)

	w, err := watcher.NewWatcher(nil, log)
	if err != nil {
		return err
	}
	defer w.Stop()

	if c.config.Report.Common.ConfigFile != "" {
		// config changes need a restart; watched only to warn about it
		if err := w.Add(c.config.Report.Common.ConfigFile); err != nil {
			return err
		}
	}
	for _, p := range app.InputPaths() {
		if err := w.Add(p); err != nil {
			return err
		}
	}
	// plan edits from "shortage plan" or the HTTP API land in the sqlite
	// database or its write-ahead log
	for _, p := range planStorePaths(app.Config.Store.Path) {
		if err := w.AddFile(p); err != nil {
			return err
		}
	}

	refresh := make(chan struct{}, 1)
	if spec != "" {
		sched := scheduler.NewScheduler(log)
		if err := sched.Schedule(spec, "refresh", func(ctx context.Context) error {
			select {
			case refresh <- struct{}{}:
			default:
			}
			return nil
		}); err != nil {
			return err
		}
		sched.Start()
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			sched.Stop(stopCtx)
		}()
	}

	c.recompute(ctx, app, log, "startup")

	batches := watcher.Debounce(ctx, w.Watch(ctx), c.config.Debounce)
	log.Info("watching inputs", zap.Strings("paths", app.InputPaths()), zap.String("cron", spec))

	for {
		select {
		case <-ctx.Done():
			log.Info("watch stopped")
			return nil
		case batch, ok := <-batches:
			if !ok {
				return nil
			}
			if c.touchesConfig(batch) {
				log.Warn("configuration changed; restart watch to apply it")
			}
			c.recompute(ctx, app, log, fmt.Sprintf("%d file change(s)", len(batch)))
		case <-refresh:
			c.recompute(ctx, app, log, "scheduled refresh")
		}
	}
}

// recompute runs one report. Failures are logged and the watch goes on, since
// an input may be caught half-written.
func (c *WatchCommand) recompute(ctx context.Context, app *App, log *zap.Logger, reason string) {
	log.Info("recomputing", zap.String("reason", reason))
	if err := runReport(ctx, app, c.config.Report, c.out); err != nil {
		log.Error("recompute failed", zap.Error(err))
	}
}

func (c *WatchCommand) touchesConfig(batch []watcher.Event) bool {
	cfg := c.config.Report.Common.ConfigFile
	if cfg == "" {
		return false
	}
	for _, ev := range batch {
		if sameFile(ev.Path, cfg) {
			return true
		}
	}
	return false
}

// planStorePaths lists the files a plan edit writes to
func planStorePaths(dbPath string) []string {
	if dbPath == "" || dbPath == ":memory:" {
		return nil
	}
	return []string{dbPath, dbPath + "-wal"}
}

func sameFile(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}

// logTransitions reports shortages appearing and clearing between recomputes
func (c *WatchCommand) logTransitions(app *App, log *zap.Logger) {
	_ = app.Events.Subscribe([]string{events.ShortageIdentifiedEvent}, events.HandlerFunc(func(e events.Event) error {
		data, ok := e.Data().(events.ShortageIdentified)
		if !ok {
			return fmt.Errorf("unexpected payload %T", e.Data())
		}
		log.Warn("shortage identified",
			zap.String("group", e.StreamID()),
			zap.String("final_balance", data.FinalBalance.String()),
			zap.Stringer("first_shortage", data.FirstShortage))
		return nil
	}))
	_ = app.Events.Subscribe([]string{events.ShortageResolvedEvent}, events.HandlerFunc(func(e events.Event) error {
		log.Info("shortage resolved", zap.String("group", e.StreamID()))
		return nil
	}))
}

// showHelp displays the help message
func (c *WatchCommand) showHelp() {
	fmt.Fprint(c.out, `shortage watch - recompute the report whenever an input changes

USAGE:
    shortage watch [report options] [-cron <spec>] [-debounce <duration>]

OPTIONS:
    -cron <spec>        Also recompute on a schedule, e.g. "@every 15m" or "0 7 * * 1-5"
    -debounce <d>       Quiet period before recomputing (default: 500ms)

Every report option (-config, -data, -model, -format, -output, ...) is
accepted; see "shortage report -help". Edits to the production plan made
with "shortage plan" or the HTTP API also trigger a recompute. Press
Ctrl-C to stop.
`)
}
