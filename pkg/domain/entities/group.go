package entities

// GroupMember is a BOM line inside a component group together with the stock
// found for its base part number
type GroupMember struct {
	Line  BOMLine
	Base  string
	Stock SiteQuantities
}

// ComponentGroup gathers the interchangeable BOM lines at one logical
// position of one model. Identity is (Model, Key).
type ComponentGroup struct {
	Model   string
	Key     string
	Members []GroupMember
	Stock   SiteQuantities // member stock summed per site
}

// OnHand returns the group's stock across all sites
func (g *ComponentGroup) OnHand() Quantity {
	return g.Stock.Total()
}

// Lines returns the member BOM lines in group order
func (g *ComponentGroup) Lines() []BOMLine {
	lines := make([]BOMLine, len(g.Members))
	for i, m := range g.Members {
		lines[i] = m.Line
	}
	return lines
}

// MaxUsage returns the largest member usage
func (g *ComponentGroup) MaxUsage() Quantity {
	if len(g.Members) == 0 {
		return Quantity{}
	}
	usage := g.Members[0].Line.Usage
	for _, m := range g.Members[1:] {
		if m.Line.Usage.GreaterThan(usage) {
			usage = m.Line.Usage
		}
	}
	return usage
}
