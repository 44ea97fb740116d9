package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/vsinha/shortage/pkg/domain/entities"
)

// Plan actions
const (
	PlanAdd    = "add"
	PlanList   = "list"
	PlanRemove = "remove"
	PlanClear  = "clear"
)

// PlanConfig holds configuration for the plan command
type PlanConfig struct {
	Common   CommonConfig
	Action   string
	Date     string
	Model    string
	Quantity string
	ID       string
}

// PlanCommand edits the stored production plan
type PlanCommand struct {
	config PlanConfig
	out    io.Writer
}

// NewPlanCommand creates a new plan command with the given configuration
func NewPlanCommand(config PlanConfig) *PlanCommand {
	return &PlanCommand{config: config, out: os.Stdout}
}

// Execute runs the plan command
func (c *PlanCommand) Execute(ctx context.Context) error {
	if c.config.Common.Help || c.config.Action == "" {
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

	return c.run(ctx, app)
}

func (c *PlanCommand) run(ctx context.Context, app *App) error {
	po := app.Orchestrator

	switch c.config.Action {
	case PlanAdd:
		quantity, ok := entities.ParseQuantity(c.config.Quantity)
		if !ok {
			return fmt.Errorf("invalid quantity %q", c.config.Quantity)
		}
		order, err := po.AddOrder(ctx, c.config.Date, c.config.Model, quantity)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "✅ Added %s: %s x %s on %s\n", order.ID, order.Model, order.Quantity.String(), order.Date)

	case PlanList:
		orders, err := po.ListOrders(ctx)
		if err != nil {
			return err
		}
		c.printOrders(orders)

	case PlanRemove:
		if err := po.RemoveOrder(ctx, c.config.ID); err != nil {
			return err
		}
		fmt.Fprintf(c.out, "🗑️  Removed %s\n", c.config.ID)

	case PlanClear:
		if err := po.ClearPlan(ctx); err != nil {
			return err
		}
		fmt.Fprintln(c.out, "🗑️  Production plan cleared")
	}
	return nil
}

// validateInputs checks the flags each action needs
func (c *PlanCommand) validateInputs() error {
	switch c.config.Action {
	case PlanAdd:
		if c.config.Date == "" || c.config.Model == "" || c.config.Quantity == "" {
			return fmt.Errorf("plan add requires -date, -model and -qty")
		}
	case PlanRemove:
		if c.config.ID == "" {
			return fmt.Errorf("plan remove requires -id")
		}
	case PlanList, PlanClear:
	default:
		return fmt.Errorf("unknown plan action %q", c.config.Action)
	}
	return nil
}

func (c *PlanCommand) printOrders(orders []entities.ProductionOrder) {
	if len(orders) == 0 {
		fmt.Fprintln(c.out, "📋 Production plan is empty")
		return
	}

	fmt.Fprintf(c.out, "📋 Production Plan (%d orders, %s units):\n",
		len(orders), entities.TotalPlannedQuantity(orders).String())
	fmt.Fprintf(c.out, "%-36s %-12s %-16s %10s %-8s\n", "ID", "Date", "Model", "Qty", "Source")
	fmt.Fprintf(c.out, "%-36s %-12s %-16s %10s %-8s\n",
		"------------------------------------", "------------", "----------------", "----------", "--------")
	for _, o := range orders {
		fmt.Fprintf(c.out, "%-36s %-12s %-16s %10s %-8s\n", o.ID, o.Date, o.Model, o.Quantity.String(), o.Source)
	}
}

// showHelp displays the help message
func (c *PlanCommand) showHelp() {
	fmt.Fprint(c.out, `shortage plan - manage the stored production plan

USAGE:
    shortage plan add -date <date> -model <model> -qty <n>
    shortage plan list
    shortage plan remove -id <id>
    shortage plan clear

OPTIONS:
    -config <file>      YAML configuration file (default: $SHORTAGE_CONFIG)
    -db <file>          Production plan database (default: shortage.db)
    -date <date>        Build date, e.g. 2024-03-05 or 2024/3/5
    -model <model>      Model to build
    -qty <n>            Units to build, must be positive
    -id <id>            Order ID as shown by "plan list"
    -help               Show this help message

Stored orders are merged with schedule.csv before every report.
`)
}
