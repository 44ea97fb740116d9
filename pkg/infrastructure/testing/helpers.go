package testing

import (
	"context"
	"errors"
	gotesting "testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/shortage/pkg/domain/entities"
	"github.com/vsinha/shortage/pkg/domain/repositories"
	"github.com/vsinha/shortage/pkg/infrastructure/repositories/memory"
)

func mustCreateBOMLine(model, partNo, itemCode, name string, usage float64) *entities.BOMLine {
	line, err := entities.NewBOMLine(model, entities.PartNumber(partNo), itemCode, name, "", decimal.NewFromFloat(usage))
	if err != nil {
		panic(err)
	}
	return line
}

func mustCreateOrder(date, model string, quantity int64) *entities.ProductionOrder {
	order, err := entities.NewProductionOrder(date, model, decimal.NewFromInt(quantity), entities.SourceManual)
	if err != nil {
		panic(err)
	}
	return order
}

// BuildSimpleTestData builds a two-model controller board scenario with
// stock at two sites
func BuildSimpleTestData() (*memory.BOMRepository, *memory.StockRepository) {
	bomRepo := memory.NewBOMRepository(8)
	stockRepo := memory.NewStockRepository()

	_ = bomRepo.LoadBOMLines([]*entities.BOMLine{
		mustCreateBOMLine("CTRL-100", "1001-A", "R1", "MCU", 1),
		mustCreateBOMLine("CTRL-100", "TW1001-B", "R1", "MCU second source", 1),
		mustCreateBOMLine("CTRL-100", "2002", "R2", "Capacitor 10uF", 4),
		mustCreateBOMLine("CTRL-100", "3003", "", "Connector", 2),
		mustCreateBOMLine("CTRL-200", "2002", "C1", "Capacitor 10uF", 6),
		mustCreateBOMLine("CTRL-200", "4004-X", "C2", "Relay", 1),
	})

	_ = stockRepo.LoadStockRecords([]*entities.StockRecord{
		{Site: "W08", PartNo: "TW1001", Quantity: decimal.NewFromInt(300), Warehouse: "W08"},
		{Site: "W08", PartNo: "TW2002", Quantity: decimal.NewFromInt(1000), Warehouse: "W08"},
		{Site: "W08", PartNo: "TW2002", Quantity: decimal.NewFromInt(5000), Warehouse: "W99"},
		{Site: "W26", PartNo: "1001", Quantity: decimal.NewFromInt(50)},
		{Site: "W26", PartNo: "TW3003", Quantity: decimal.NewFromInt(120)},
	})

	return bomRepo, stockRepo
}

// ScheduleRepositoryContract exercises the behaviour every plan store must
// share. The repository must start empty.
func ScheduleRepositoryContract(t *gotesting.T, repo repositories.ScheduleRepository) {
	t.Helper()
	ctx := context.Background()

	orders, err := repo.ListOrders(ctx)
	require.NoError(t, err)
	require.Empty(t, orders)

	late := mustCreateOrder("2024-03-10", "CTRL-100", 200)
	early := mustCreateOrder("2024-03-01", "CTRL-200", 50)
	sameDay := mustCreateOrder("2024-03-10", "CTRL-200", 25)
	sameDay.Source = "schedule.csv"
	for _, o := range []*entities.ProductionOrder{late, early, sameDay} {
		require.NoError(t, repo.AddOrder(ctx, o))
		require.NotEmpty(t, o.ID)
	}

	orders, err = repo.ListOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 3)
	assert.Equal(t, early.ID, orders[0].ID)
	assert.Equal(t, late.ID, orders[1].ID)
	assert.Equal(t, sameDay.ID, orders[2].ID)
	assert.Equal(t, "schedule.csv", orders[2].Source)
	assert.True(t, orders[1].Quantity.Equal(decimal.NewFromInt(200)))
	assert.Equal(t, "2024-03-10", orders[1].Date)
	assert.Equal(t, "CTRL-100", orders[1].Model)

	zero := &entities.ProductionOrder{Date: "2024-03-01", Model: "CTRL-100", Quantity: decimal.Zero}
	assert.Error(t, repo.AddOrder(ctx, zero))

	require.NoError(t, repo.RemoveOrder(ctx, late.ID))
	err = repo.RemoveOrder(ctx, late.ID)
	assert.True(t, errors.Is(err, repositories.ErrOrderNotFound), "got %v", err)

	orders, err = repo.ListOrders(ctx)
	require.NoError(t, err)
	assert.Len(t, orders, 2)

	require.NoError(t, repo.Clear(ctx))
	orders, err = repo.ListOrders(ctx)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

// StaticSource is an InputSource returning a fixed snapshot
type StaticSource struct {
	Snapshot *repositories.Snapshot
	Err      error
}

// LoadSnapshot returns the configured snapshot or error
func (s *StaticSource) LoadSnapshot(ctx context.Context) (*repositories.Snapshot, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Snapshot, nil
}

// BuildControllerSnapshot returns one model with two components at site
// "main": C1 (1001, usage 2) is well stocked, R1 (2002, usage 1) covers
// exactly the one imported order of 10 units on 2024-03-01.
func BuildControllerSnapshot() *repositories.Snapshot {
	imported := mustCreateOrder("2024-03-01", "CTRL-100", 10)
	imported.ID = "schedule.csv:2"
	imported.Source = entities.SourceImport

	return &repositories.Snapshot{
		BOM: []*entities.BOMLine{
			mustCreateBOMLine("CTRL-100", "1001", "C1", "Capacitor", 2),
			mustCreateBOMLine("CTRL-100", "2002", "R1", "Resistor", 1),
		},
		Stock: []*entities.StockRecord{
			{Site: "main", PartNo: "1001", Quantity: decimal.NewFromInt(100)},
			{Site: "main", PartNo: "TW2002-B", Quantity: decimal.NewFromInt(10)},
		},
		Orders: []*entities.ProductionOrder{imported},
	}
}
