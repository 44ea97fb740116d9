// Package shortage is the embeddable entry point to the shortage ledger.
// Callers that already hold BOM, stock, order and delivery records in memory
// can compute a report without going through the file loaders or the CLI.
package shortage

import (
	"context"
	"runtime/debug"

	"go.uber.org/zap"

	"github.com/vsinha/shortage/pkg/application/dto"
	"github.com/vsinha/shortage/pkg/application/services/ledger"
	"github.com/vsinha/shortage/pkg/domain/entities"
)

// Re-exported so embedders need a single import
type (
	Input  = ledger.Input
	View   = ledger.View
	Report = dto.ShortageReport
)

// LargeInputLines is the BOM size above which GC pacing kicks in
const LargeInputLines = 10000

// EngineConfig holds configuration for the embedded engine
type EngineConfig struct {
	// Workers bounds concurrent group simulation (0 = GOMAXPROCS)
	Workers int
	// SiteTag and Separator override the part number conventions
	SiteTag   string
	Separator string
	// EnableGCPacing runs the GC more aggressively for large inputs
	EnableGCPacing bool
	Logger         *zap.Logger
}

// Engine wraps the ledger engine for library use
type Engine struct {
	ledger *ledger.Engine
	config EngineConfig
}

// NewEngine creates an engine with default conventions and GC pacing enabled
func NewEngine() *Engine {
	return NewEngineWithConfig(EngineConfig{EnableGCPacing: true})
}

// NewEngineWithConfig creates an engine with custom configuration
func NewEngineWithConfig(config EngineConfig) *Engine {
	return &Engine{
		config: config,
		ledger: ledger.NewEngineWithConfig(ledger.EngineConfig{
			Workers:    config.Workers,
			Normalizer: entities.Normalizer{SiteTag: config.SiteTag, Separator: config.Separator},
		}, config.Logger),
	}
}

// Compute runs one complete shortage calculation over in-memory inputs
func (e *Engine) Compute(ctx context.Context, input Input) (*Report, error) {
	if e.config.EnableGCPacing && len(input.BOM) > LargeInputLines {
		old := debug.SetGCPercent(50)
		defer debug.SetGCPercent(old)
	}
	return e.ledger.Run(ctx, input)
}

// Compute runs input through a default engine
func Compute(ctx context.Context, input Input) (*Report, error) {
	return NewEngine().Compute(ctx, input)
}
