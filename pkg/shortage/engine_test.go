package shortage

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/shortage/pkg/domain/entities"
)

func smallInput(stockPart string) Input {
	return Input{
		BOM: []entities.BOMLine{
			{Model: "M1", PartNo: "100-A", ItemCode: "X1", Name: "Relay", Usage: decimal.NewFromInt(2)},
		},
		Stock: map[string][]entities.StockRecord{
			"main": {{Site: "main", PartNo: entities.PartNumber(stockPart), Quantity: decimal.NewFromInt(10)}},
		},
		Orders: []entities.ProductionOrder{
			{ID: "o1", Date: "2024-01-01", Model: "M1", Quantity: decimal.NewFromInt(6)},
		},
	}
}

func TestCompute_Small(t *testing.T) {
	report, err := Compute(context.Background(), smallInput("TW100"))
	require.NoError(t, err)

	require.Len(t, report.Groups, 1)
	g := report.Groups[0]
	assert.Equal(t, []string{"main"}, report.Sites)
	assert.True(t, g.FinalBalance.Equal(decimal.NewFromInt(-2)), g.FinalBalance.String())
	assert.Equal(t, "2024-01-01 (Production: M1 (manual))", g.FirstShortage.String())
}

func TestCompute_SiteTagOverride(t *testing.T) {
	engine := NewEngineWithConfig(EngineConfig{SiteTag: "CN"})

	report, err := engine.Compute(context.Background(), smallInput("CN100"))
	require.NoError(t, err)
	require.Len(t, report.Groups, 1)
	assert.True(t, report.Groups[0].InitialBalance.Equal(decimal.NewFromInt(10)))

	// the default tag no longer matches
	report, err = engine.Compute(context.Background(), smallInput("TW100"))
	require.NoError(t, err)
	assert.True(t, report.Groups[0].InitialBalance.IsZero())
}

func TestCompute_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Compute(ctx, smallInput("TW100"))
	assert.ErrorIs(t, err, context.Canceled)
}

// largeInputConfig sizes a synthetic plant
type largeInputConfig struct {
	Models     int
	Positions  int // component positions per model
	Orders     int // orders per model
	Deliveries int
}

// synthesize builds a reproducible input. Every position has one or two
// interchangeable parts and part numbers are shared across models so
// demand from several models lands on the same ledger key.
func synthesize(cfg largeInputConfig) Input {
	rng := rand.New(rand.NewSource(42))
	input := Input{Stock: map[string][]entities.StockRecord{}}

	partFor := func(pos int) string { return fmt.Sprintf("%05d", pos*7%(cfg.Positions*2)) }

	for m := 0; m < cfg.Models; m++ {
		model := fmt.Sprintf("MDL-%03d", m)
		for p := 0; p < cfg.Positions; p++ {
			code := fmt.Sprintf("P%d", p+1)
			usage := decimal.NewFromInt(int64(rng.Intn(4) + 1))
			base := partFor(p + m)
			input.BOM = append(input.BOM, entities.BOMLine{
				Model: model, PartNo: entities.PartNumber(base + "-A"), ItemCode: code, Name: "Part " + base, Usage: usage,
			})
			if rng.Intn(3) == 0 {
				input.BOM = append(input.BOM, entities.BOMLine{
					Model: model, PartNo: entities.PartNumber("TW" + base + "-B"), ItemCode: code, Name: "Alt " + base, Usage: usage,
				})
			}
		}
		for o := 0; o < cfg.Orders; o++ {
			input.Orders = append(input.Orders, entities.ProductionOrder{
				ID:       fmt.Sprintf("%s-%d", model, o),
				Date:     fmt.Sprintf("2024-%02d-%02d", 1+o%12, 1+rng.Intn(28)),
				Model:    model,
				Quantity: decimal.NewFromInt(int64(rng.Intn(50) + 1)),
				Source:   "synthetic",
			})
		}
	}

	for _, site := range []string{"main", "annex"} {
		for p := 0; p < cfg.Positions*2; p++ {
			if rng.Intn(2) == 0 {
				continue
			}
			input.Stock[site] = append(input.Stock[site], entities.StockRecord{
				Site:     site,
				PartNo:   entities.PartNumber(fmt.Sprintf("TW%05d", p)),
				Quantity: decimal.NewFromInt(int64(rng.Intn(500))),
			})
		}
	}

	for d := 0; d < cfg.Deliveries; d++ {
		input.Deliveries = append(input.Deliveries, entities.Delivery{
			Date:     fmt.Sprintf("2024-%02d-15", 1+d%12),
			PartNo:   entities.PartNumber(fmt.Sprintf("%05d-A", rng.Intn(cfg.Positions*3))),
			Quantity: decimal.NewFromInt(int64(rng.Intn(200) + 1)),
			Note:     fmt.Sprintf("PO-%d", d),
		})
	}
	return input
}

func TestCompute_LargeInputIsDeterministic(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping large input test in short mode")
	}

	cfg := largeInputConfig{Models: 20, Positions: 300, Orders: 12, Deliveries: 500}
	input := synthesize(cfg)

	serial, err := NewEngineWithConfig(EngineConfig{Workers: 1}).Compute(context.Background(), input)
	require.NoError(t, err)
	parallel, err := NewEngineWithConfig(EngineConfig{Workers: 8, EnableGCPacing: true}).Compute(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, cfg.Models*cfg.Positions, serial.Summary.Items)
	assert.Equal(t, cfg.Models*cfg.Orders, serial.Summary.Orders)

	a, err := json.Marshal(serial)
	require.NoError(t, err)
	b, err := json.Marshal(parallel)
	require.NoError(t, err)
	assert.JSONEq(t, string(a), string(b))
}

func BenchmarkCompute(b *testing.B) {
	input := synthesize(largeInputConfig{Models: 10, Positions: 200, Orders: 12, Deliveries: 200})
	engine := NewEngine()
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := engine.Compute(ctx, input); err != nil {
			b.Fatal(err)
		}
	}
}
