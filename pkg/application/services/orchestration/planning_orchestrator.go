package orchestration

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/vsinha/shortage/pkg/application/dto"
	"github.com/vsinha/shortage/pkg/application/services/ledger"
	"github.com/vsinha/shortage/pkg/domain/entities"
	"github.com/vsinha/shortage/pkg/domain/repositories"
	"github.com/vsinha/shortage/pkg/infrastructure/events"
	"github.com/vsinha/shortage/pkg/infrastructure/repositories/memory"
)

var (
	// ErrNoPlanStore is returned by plan operations when no store is configured
	ErrNoPlanStore = errors.New("no production plan store configured")
	// ErrInvalidOrder wraps production order validation failures
	ErrInvalidOrder = errors.New("invalid production order")
)

// PlanningOrchestrator coordinates ingestion, the production plan store and
// the ledger engine. Every run reloads the inputs and recomputes everything.
type PlanningOrchestrator struct {
	source repositories.InputSource
	plan   repositories.ScheduleRepository
	engine *ledger.Engine
	sites  []entities.Site
	events events.EventStore
	logger *zap.Logger

	mu        sync.Mutex
	lastShort map[string]bool
}

// NewPlanningOrchestrator creates a new planning orchestrator. plan and
// eventStore may be nil.
func NewPlanningOrchestrator(
	source repositories.InputSource,
	plan repositories.ScheduleRepository,
	engine *ledger.Engine,
	sites []entities.Site,
	eventStore events.EventStore,
	logger *zap.Logger,
) *PlanningOrchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlanningOrchestrator{
		source: source,
		plan:   plan,
		engine: engine,
		sites:  sites,
		events: eventStore,
		logger: logger,
	}
}

// InputStats counts what a run was computed from
type InputStats struct {
	BOMLines       int `json:"bom_lines"`
	Models         int `json:"models"`
	StockRows      int `json:"stock_rows"`
	ImportedOrders int `json:"imported_orders"`
	PlannedOrders  int `json:"planned_orders"`
	Deliveries     int `json:"deliveries"`
}

// PlanningResult contains one recompute and its bookkeeping
type PlanningResult struct {
	Report       *dto.ShortageReport
	Inputs       InputStats
	PlanningDate time.Time
	Duration     time.Duration
}

// RunCompletePlanning loads a fresh snapshot, merges the stored production
// plan and runs the engine
func (po *PlanningOrchestrator) RunCompletePlanning(ctx context.Context, view ledger.View) (*PlanningResult, error) {
	start := time.Now()

	snapshot, err := po.source.LoadSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load inputs: %w", err)
	}

	bomRepo := memory.NewBOMRepository(len(snapshot.BOM))
	if err := bomRepo.LoadBOMLines(snapshot.BOM); err != nil {
		return nil, fmt.Errorf("failed to load BOM lines into repository: %w", err)
	}
	stockRepo := memory.NewStockRepository()
	if err := stockRepo.LoadStockRecords(snapshot.Stock); err != nil {
		return nil, fmt.Errorf("failed to load stock into repository: %w", err)
	}

	bom, err := bomRepo.GetAllBOMLines()
	if err != nil {
		return nil, err
	}
	models, err := bomRepo.GetModels()
	if err != nil {
		return nil, err
	}

	orders := make([]entities.ProductionOrder, 0, len(snapshot.Orders))
	for _, o := range snapshot.Orders {
		orders = append(orders, *o)
	}
	imported := len(orders)

	if po.plan != nil {
		planned, err := po.plan.ListOrders(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list production plan: %w", err)
		}
		orders = append(orders, planned...)
	}

	deliveries := make([]entities.Delivery, 0, len(snapshot.Deliveries))
	for _, d := range snapshot.Deliveries {
		deliveries = append(deliveries, *d)
	}

	report, err := po.engine.Run(ctx, ledger.Input{
		BOM:        bom,
		Stock:      stockRepo.BySite(),
		Sites:      po.sites,
		Orders:     orders,
		Deliveries: deliveries,
		View:       view,
	})
	if err != nil {
		return nil, err
	}
	report.Diagnostics = snapshot.Diagnostics

	po.recordTransitions(report, view)

	result := &PlanningResult{
		Report: report,
		Inputs: InputStats{
			BOMLines:       len(bom),
			Models:         len(models),
			StockRows:      len(snapshot.Stock),
			ImportedOrders: imported,
			PlannedOrders:  len(orders) - imported,
			Deliveries:     len(deliveries),
		},
		PlanningDate: start,
		Duration:     time.Since(start),
	}

	po.logger.Debug("planning complete",
		zap.Int("models", result.Inputs.Models),
		zap.Int("planned_orders", result.Inputs.PlannedOrders),
		zap.Duration("duration", result.Duration))

	return result, nil
}

// recordTransitions appends shortage.identified / shortage.resolved events
// for groups whose status changed since the previous unscoped run. The first
// run reports every short group.
func (po *PlanningOrchestrator) recordTransitions(report *dto.ShortageReport, view ledger.View) {
	if po.events == nil || view.Model != "" {
		return
	}

	po.mu.Lock()
	defer po.mu.Unlock()

	current := make(map[string]bool, len(report.Groups))
	for _, g := range report.Groups {
		stream := events.GroupStream(g.Model, g.Key)
		short := g.IsShortage()
		current[stream] = short

		was, seen := po.lastShort[stream]
		var event events.Event
		switch {
		case short && (!seen || !was):
			event = events.NewShortageIdentifiedEvent(events.ShortageIdentified{
				Model:         g.Model,
				Key:           g.Key,
				FinalBalance:  g.FinalBalance,
				FirstShortage: g.FirstShortage,
			})
		case !short && seen && was:
			event = events.NewShortageResolvedEvent(events.ShortageResolved{
				Model:        g.Model,
				Key:          g.Key,
				FinalBalance: g.FinalBalance,
			})
		}
		if event == nil {
			continue
		}
		if err := po.events.AppendEvent(stream, event); err != nil {
			po.logger.Warn("failed to record shortage transition", zap.String("group", stream), zap.Error(err))
		}
	}
	po.lastShort = current
}

// AddOrder validates and stores a manual production order
func (po *PlanningOrchestrator) AddOrder(ctx context.Context, date, model string, quantity entities.Quantity) (*entities.ProductionOrder, error) {
	if po.plan == nil {
		return nil, ErrNoPlanStore
	}
	order, err := entities.NewProductionOrder(date, model, quantity, entities.SourceManual)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidOrder, err)
	}
	if err := po.plan.AddOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to add order: %w", err)
	}
	po.append(events.PlanStream, events.NewPlanOrderAddedEvent(*order))
	return order, nil
}

// ListOrders returns the stored production plan
func (po *PlanningOrchestrator) ListOrders(ctx context.Context) ([]entities.ProductionOrder, error) {
	if po.plan == nil {
		return nil, ErrNoPlanStore
	}
	return po.plan.ListOrders(ctx)
}

// RemoveOrder deletes one stored order
func (po *PlanningOrchestrator) RemoveOrder(ctx context.Context, id string) error {
	if po.plan == nil {
		return ErrNoPlanStore
	}
	if err := po.plan.RemoveOrder(ctx, id); err != nil {
		return err
	}
	po.append(events.PlanStream, events.NewPlanOrderRemovedEvent(id))
	return nil
}

// ClearPlan deletes every stored order
func (po *PlanningOrchestrator) ClearPlan(ctx context.Context) error {
	if po.plan == nil {
		return ErrNoPlanStore
	}
	if err := po.plan.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear production plan: %w", err)
	}
	po.append(events.PlanStream, events.NewPlanClearedEvent())
	return nil
}

// Events returns the event log from position onwards, empty when no store
// is configured
func (po *PlanningOrchestrator) Events(fromPosition int) ([]events.Event, error) {
	if po.events == nil {
		return []events.Event{}, nil
	}
	return po.events.ReadAllEvents(fromPosition)
}

func (po *PlanningOrchestrator) append(stream string, event events.Event) {
	if po.events == nil {
		return
	}
	if err := po.events.AppendEvent(stream, event); err != nil {
		po.logger.Warn("failed to record event", zap.String("type", event.Type()), zap.Error(err))
	}
}
