package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/shortage/pkg/domain/entities"
)

func TestSortBOMLines_GroupingOrder(t *testing.T) {
	lines := []entities.BOMLine{
		line("M1", "P3", "A10", 1),
		line("M1", "P2", "A2", 1),
		line("M1", "P1", "", 1),
		line("M0", "P9", "B5", 1),
		line("M1", "P0", "nan", 1),
	}
	assert.False(t, IsGroupingOrder(lines))

	sorted := SortBOMLines(lines)

	parts := make([]entities.PartNumber, len(sorted))
	for i, l := range sorted {
		parts[i] = l.PartNo
	}
	assert.Equal(t, []entities.PartNumber{"P9", "P0", "P1", "P2", "P3"}, parts)
	assert.True(t, IsGroupingOrder(sorted))
	assert.Equal(t, entities.PartNumber("P3"), lines[0].PartNo, "input must not be reordered")
}

func TestGrouper_ConsecutiveKeysFormGroups(t *testing.T) {
	lines := SortBOMLines([]entities.BOMLine{
		line("M1", "P2", "A2", 1),
		line("M1", "P2B", "A2", 2),
		line("M1", "P1", "", 1),
		line("M2", "P2", "A2", 1),
	})

	groups, err := NewGrouper(entities.DefaultNormalizer).Group(lines, entities.StockBySite{}, nil)
	require.NoError(t, err)

	require.Len(t, groups, 3)
	assert.Equal(t, "M1", groups[0].Model)
	assert.Equal(t, "P1", groups[0].Key)
	assert.Equal(t, "A2", groups[1].Key)
	assert.Len(t, groups[1].Members, 2)
	assertQty(t, 2, groups[1].MaxUsage())
	assert.Equal(t, "M2", groups[2].Model)
}

func TestGrouper_PartitionsView(t *testing.T) {
	lines := SortBOMLines([]entities.BOMLine{
		line("M1", "P1", "C1", 1),
		line("M1", "P2", "C1", 1),
		line("M1", "P3", "C2", 1),
		line("M1", "P4", "", 1),
		line("M2", "P1", "C1", 1),
		line("M2", "P5", "", 1),
	})

	groups, err := NewGrouper(entities.DefaultNormalizer).Group(lines, entities.StockBySite{}, nil)
	require.NoError(t, err)

	seen := make(map[string]bool)
	members := 0
	for _, g := range groups {
		id := g.Model + "|" + g.Key
		assert.False(t, seen[id], "group %s appears twice", id)
		seen[id] = true
		for _, m := range g.Members {
			assert.Equal(t, g.Model, m.Line.Model)
			assert.Equal(t, g.Key, m.Line.GroupKey())
		}
		members += len(g.Members)
	}
	assert.Equal(t, len(lines), members)
}

func TestGrouper_StockPerSite(t *testing.T) {
	stock := entities.StockBySite{
		"W08": {"TW1234": qty(50), "TW7": qty(1)},
		"W26": {"TW1234": qty(20)},
	}
	lines := SortBOMLines([]entities.BOMLine{
		line("M1", "1234-A", "K1", 1),
		line("M1", "1234-B", "K1", 1),
		line("M1", "7", "K1", 1),
	})

	groups, err := NewGrouper(entities.DefaultNormalizer).Group(lines, stock, []string{"W08", "W26"})
	require.NoError(t, err)
	require.Len(t, groups, 1)

	g := groups[0]
	assert.Equal(t, "TW1234", g.Members[0].Base)
	assertQty(t, 50, g.Members[0].Stock.Get("W08"))
	assertQty(t, 20, g.Members[1].Stock.Get("W26"))
	// every member adds its base part's stock, shared or not
	assertQty(t, 101, g.Stock.Get("W08"))
	assertQty(t, 40, g.Stock.Get("W26"))
	assertQty(t, 141, g.OnHand())
}

func TestGrouper_RejectsUnsortedInput(t *testing.T) {
	lines := []entities.BOMLine{line("M2", "P1", "", 1), line("M1", "P1", "", 1)}

	_, err := NewGrouper(entities.DefaultNormalizer).Group(lines, entities.StockBySite{}, nil)

	assert.EqualError(t, err, "bom lines are not in grouping order")
}
