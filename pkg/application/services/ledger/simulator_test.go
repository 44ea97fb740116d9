package ledger

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/shortage/pkg/domain/entities"
)

func groupOf(onHand float64, lines ...entities.BOMLine) *entities.ComponentGroup {
	g := &entities.ComponentGroup{Model: lines[0].Model, Key: lines[0].GroupKey()}
	for _, l := range lines {
		g.Members = append(g.Members, entities.GroupMember{Line: l, Base: l.PartNo.Base()})
	}
	g.Stock = entities.SiteQuantities{{Site: "S", Quantity: qty(onHand)}}
	return g
}

func demandEvent(date, note string, q float64) entities.LedgerEvent {
	return entities.LedgerEvent{Date: date, Kind: entities.Demand, Note: note, Quantity: qty(q)}
}

func supplyEvent(date string, q float64) entities.LedgerEvent {
	return entities.LedgerEvent{Date: date, Kind: entities.Supply, Note: entities.DefaultDeliveryNote, Quantity: qty(q)}
}

func TestSimulator_ChronologicalBalance(t *testing.T) {
	ledger := make(entities.Ledger)
	ledger.Append("P1", demandEvent("2024-01-05", "Production: M1 (manual)", 80))
	ledger.Append("P1", demandEvent("2024-01-01", "Production: M1 (manual)", 40))
	ledger.Append("P1", supplyEvent("2024-01-03", 10))

	result := NewSimulator(entities.DefaultNormalizer).Simulate(groupOf(100, line("M1", "P1", "", 1)), ledger)

	require.Len(t, result.Trail, 3, spew.Sdump(result.Trail))
	assertQty(t, 60, result.Trail[0].Balance)
	assertQty(t, 70, result.Trail[1].Balance)
	assertQty(t, -10, result.Trail[2].Balance)
	assert.Equal(t, entities.Supply, result.Trail[1].Kind)
	assertQty(t, 100, result.InitialBalance)
	assertQty(t, 120, result.TotalDemand)
	assertQty(t, -10, result.FinalBalance)
	require.NotNil(t, result.FirstShortage)
	assert.Equal(t, "2024-01-05 (Production: M1 (manual))", result.FirstShortage.String())
	assert.Equal(t, entities.Shortage, result.Status())
}

func TestSimulator_DemandDedupKeepsMax(t *testing.T) {
	ledger := make(entities.Ledger)
	ledger.Append("P1", demandEvent("2024-01-01", "Production: M1 (manual)", 100))
	ledger.Append("P2", demandEvent("2024-01-01", "Production: M1 (manual)", 150))

	group := groupOf(0, line("M1", "P1", "K1", 1), line("M1", "P2", "K1", 1.5))
	result := NewSimulator(entities.DefaultNormalizer).Simulate(group, ledger)

	require.Len(t, result.Trail, 1, spew.Sdump(result.Trail))
	assertQty(t, 150, result.TotalDemand)
	assertQty(t, -150, result.FinalBalance)
}

func TestSimulator_SupplyBeforeDemandOnSameDate(t *testing.T) {
	ledger := make(entities.Ledger)
	ledger.Append("P1", demandEvent("2024-01-01", "Production: M1 (manual)", 20))
	ledger.Append("P1", supplyEvent("2024-01-01", 20))

	result := NewSimulator(entities.DefaultNormalizer).Simulate(groupOf(0, line("M1", "P1", "", 1)), ledger)

	require.Len(t, result.Trail, 2)
	assert.Equal(t, entities.Supply, result.Trail[0].Kind)
	assertQty(t, 20, result.Trail[0].Balance)
	assertQty(t, 0, result.Trail[1].Balance)
	assert.Nil(t, result.FirstShortage)
	assert.Equal(t, entities.Sufficient, result.Status())
}

func TestSimulator_SharedKeySupplyPerMember(t *testing.T) {
	ledger := make(entities.Ledger)
	ledger.Append("1234", supplyEvent("2024-01-01", 5))

	group := groupOf(0, line("M1", "1234-A", "K1", 1), line("M1", "1234-B", "K1", 1))
	result := NewSimulator(entities.DefaultNormalizer).Simulate(group, ledger)

	assertQty(t, 10, result.FinalBalance)
	require.Len(t, result.Trail, 2)
	assertQty(t, 5, result.Trail[0].Balance)
	assertQty(t, 10, result.Trail[1].Balance)
}

func TestSimulator_SharedKeyDemandOncePerOrder(t *testing.T) {
	ledger := make(entities.Ledger)
	ledger.Append("1234", supplyEvent("2024-01-01", 10))
	ledger.Append("1234", demandEvent("2024-01-02", "Production: M1 (manual)", 30))

	group := groupOf(100, line("M1", "1234-A", "K1", 1), line("M1", "1234-B", "K1", 1))
	result := NewSimulator(entities.DefaultNormalizer).Simulate(group, ledger)

	// two members see the delivery; the order still counts once
	assertQty(t, 100, result.InitialBalance)
	assertQty(t, 30, result.TotalDemand)
	assertQty(t, 90, result.FinalBalance)
	require.Len(t, result.Trail, 3)
	assert.Equal(t, entities.Demand, result.Trail[2].Kind)
}

func TestSimulator_NoEvents(t *testing.T) {
	result := NewSimulator(entities.DefaultNormalizer).Simulate(groupOf(42, line("M1", "P1", "", 1)), entities.Ledger{})

	assertQty(t, 42, result.FinalBalance)
	assertQty(t, 0, result.TotalDemand)
	assert.Empty(t, result.Trail)
	assert.Nil(t, result.FirstShortage)
}
