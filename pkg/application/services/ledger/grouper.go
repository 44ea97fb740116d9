package ledger

import (
	"fmt"
	"sort"

	"github.com/vsinha/shortage/pkg/domain/entities"
)

// SortBOMLines returns a copy of lines in grouping order: model, then the
// numeric rank of the item code, then part number. The sort is stable.
func SortBOMLines(lines []entities.BOMLine) []entities.BOMLine {
	sorted := make([]entities.BOMLine, len(lines))
	copy(sorted, lines)
	sort.SliceStable(sorted, func(i, j int) bool {
		return lessGrouping(sorted[i], sorted[j])
	})
	return sorted
}

// IsGroupingOrder reports whether lines are already in the order produced by
// SortBOMLines
func IsGroupingOrder(lines []entities.BOMLine) bool {
	for i := 1; i < len(lines); i++ {
		if lessGrouping(lines[i], lines[i-1]) {
			return false
		}
	}
	return true
}

func lessGrouping(a, b entities.BOMLine) bool {
	if a.Model != b.Model {
		return a.Model < b.Model
	}
	if c := a.ItemCodeRank().Cmp(b.ItemCodeRank()); c != 0 {
		return c < 0
	}
	return a.PartNo < b.PartNo
}

// Grouper partitions sorted BOM lines into component groups
type Grouper struct {
	normalizer entities.Normalizer
}

// NewGrouper creates a grouper
func NewGrouper(normalizer entities.Normalizer) *Grouper {
	return &Grouper{normalizer: normalizer}
}

// Group walks lines in grouping order and starts a new group whenever the
// (model, group key) pair changes. Each member carries its stock per site in
// the order of sites; the group stock sums distinct base part numbers once.
func (g *Grouper) Group(lines []entities.BOMLine, stock entities.StockBySite, sites []string) ([]entities.ComponentGroup, error) {
	if !IsGroupingOrder(lines) {
		return nil, fmt.Errorf("bom lines are not in grouping order")
	}

	groups := make([]entities.ComponentGroup, 0)
	var current *entities.ComponentGroup

	for _, line := range lines {
		key := line.GroupKey()
		if current == nil || current.Model != line.Model || current.Key != key {
			groups = append(groups, entities.ComponentGroup{
				Model: line.Model,
				Key:   key,
				Stock: zeroSiteQuantities(sites),
			})
			current = &groups[len(groups)-1]
		}

		base := g.normalizer.BaseForm(string(line.PartNo))
		memberStock := make(entities.SiteQuantities, len(sites))
		for i, site := range sites {
			memberStock[i] = entities.SiteQuantity{Site: site, Quantity: stock[site].Get(base)}
		}
		current.Members = append(current.Members, entities.GroupMember{
			Line:  line,
			Base:  base,
			Stock: memberStock,
		})
		current.Stock = current.Stock.Add(memberStock)
	}

	return groups, nil
}

func zeroSiteQuantities(sites []string) entities.SiteQuantities {
	out := make(entities.SiteQuantities, len(sites))
	for i, site := range sites {
		out[i] = entities.SiteQuantity{Site: site}
	}
	return out
}
