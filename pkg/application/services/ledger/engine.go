package ledger

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vsinha/shortage/pkg/application/dto"
	"github.com/vsinha/shortage/pkg/domain/entities"
	"github.com/vsinha/shortage/pkg/domain/services"
)

// EngineConfig holds configuration for the shortage ledger engine
type EngineConfig struct {
	// Workers bounds the number of groups simulated concurrently (0 = GOMAXPROCS)
	Workers int
	// Normalizer controls site tag and separator handling for part numbers
	Normalizer entities.Normalizer
}

// View scopes which models are reported. Demand from every order is always
// built so parts shared across models see their full consumption.
type View struct {
	// Model restricts the report to one model when set
	Model string
}

// Input is everything one run needs. Stock rows are keyed by site name.
type Input struct {
	BOM        []entities.BOMLine
	Stock      map[string][]entities.StockRecord
	Sites      []entities.Site
	Orders     []entities.ProductionOrder
	Deliveries []entities.Delivery
	View       View
}

// Engine turns BOM, stock, orders and deliveries into a shortage report
type Engine struct {
	config     EngineConfig
	logger     *zap.Logger
	aggregator *StockAggregator
	demand     *DemandBuilder
	matcher    *SupplyMatcher
	grouper    *Grouper
	simulator  *Simulator
}

// NewEngine creates a new engine with default configuration
func NewEngine(logger *zap.Logger) *Engine {
	return NewEngineWithConfig(EngineConfig{
		Workers:    runtime.GOMAXPROCS(0),
		Normalizer: entities.DefaultNormalizer,
	}, logger)
}

// NewEngineWithConfig creates a new engine with custom configuration
func NewEngineWithConfig(config EngineConfig, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.Workers <= 0 {
		config.Workers = runtime.GOMAXPROCS(0)
	}
	n := config.Normalizer
	return &Engine{
		config:     config,
		logger:     logger,
		aggregator: NewStockAggregator(n, logger.Named("stock")),
		demand:     NewDemandBuilder(n, logger.Named("demand")),
		matcher:    NewSupplyMatcher(n, logger.Named("supply")),
		grouper:    NewGrouper(n),
		simulator:  NewSimulator(n),
	}
}

// Run performs one complete shortage calculation. It either returns a full
// report or an error; partial reports are never produced.
func (e *Engine) Run(ctx context.Context, input Input) (*dto.ShortageReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	validation := services.ValidateBOM(input.BOM)
	if !validation.Valid() {
		return nil, fmt.Errorf("invalid BOM: %s: %w", strings.Join(validation.Errors, "; "), entities.ErrMissingRequiredField)
	}
	for _, warning := range validation.Warnings {
		e.logger.Warn("bom validation warning", zap.String("warning", warning))
	}

	sites := ResolveSites(input.Sites, input.Stock)
	siteNames := make([]string, len(sites))
	stock := make(entities.StockBySite, len(sites))
	for i, site := range sites {
		siteNames[i] = site.Name
		stock[site.Name] = e.aggregator.Accumulate(site, input.Stock[site.Name])
	}

	orders := SortOrders(input.Orders)
	ledger := e.demand.Build(orders, input.BOM)
	demandKeys := len(ledger)
	match := e.matcher.Inject(ledger, input.Deliveries)

	groups, err := e.grouper.Group(SortBOMLines(ScopeLines(input.BOM, orders, input.View)), stock, siteNames)
	if err != nil {
		return nil, fmt.Errorf("failed to group bom lines: %w", err)
	}

	results := make([]dto.GroupResult, len(groups))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.config.Workers)
	for i := range groups {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			sim := e.simulator.Simulate(&groups[i], ledger)
			results[i] = dto.NewGroupResult(&groups[i], sim)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to simulate groups: %w", err)
	}

	report := &dto.ShortageReport{
		Sites:     siteNames,
		Groups:    results,
		Unmatched: unmatchedSupply(ledger, match.Unmatched),
		Summary: dto.Summarize(results, dto.Summary{
			PlannedQuantity:   entities.TotalPlannedQuantity(orders),
			Orders:            len(orders),
			Deliveries:        len(input.Deliveries),
			MatchedDeliveries: match.Matched,
		}),
	}

	e.logger.Info("shortage run complete",
		zap.Int("bom_lines", len(input.BOM)),
		zap.Int("orders", len(orders)),
		zap.Int("demand_keys", demandKeys),
		zap.Int("groups", report.Summary.Items),
		zap.Int("shortages", report.Summary.Shortages),
		zap.Int("unmatched_parts", len(report.Unmatched)))

	return report, nil
}

// ResolveSites returns the configured sites, or one unrestricted site per
// stock key in name order when none are configured
func ResolveSites(configured []entities.Site, stock map[string][]entities.StockRecord) []entities.Site {
	if len(configured) > 0 {
		return configured
	}
	names := make([]string, 0, len(stock))
	for name := range stock {
		names = append(names, name)
	}
	sort.Strings(names)
	sites := make([]entities.Site, len(names))
	for i, name := range names {
		sites[i] = entities.Site{Name: name}
	}
	return sites
}

// ScopeLines selects the BOM lines to report. A view model wins; otherwise
// only models with orders are kept, or the whole BOM when there are none.
func ScopeLines(bom []entities.BOMLine, orders []entities.ProductionOrder, view View) []entities.BOMLine {
	keep := make(map[string]bool)
	switch {
	case view.Model != "":
		keep[view.Model] = true
	case len(orders) > 0:
		for _, o := range orders {
			keep[o.Model] = true
		}
	default:
		return bom
	}

	scoped := make([]entities.BOMLine, 0, len(bom))
	for _, line := range bom {
		if keep[line.Model] {
			scoped = append(scoped, line)
		}
	}
	return scoped
}

func unmatchedSupply(ledger entities.Ledger, parts []string) []dto.UnmatchedSupply {
	out := make([]dto.UnmatchedSupply, 0, len(parts))
	for _, part := range parts {
		events := ledger.Events(part)
		total := entities.Quantity{}
		for _, ev := range events {
			total = total.Add(ev.Quantity)
		}
		out = append(out, dto.UnmatchedSupply{PartNo: part, Total: total, Events: events})
	}
	return out
}
