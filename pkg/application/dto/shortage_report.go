package dto

import (
	"github.com/vsinha/shortage/pkg/domain/entities"
	"github.com/vsinha/shortage/pkg/domain/repositories"
)

// ShortageReport contains the complete output of a shortage ledger run
type ShortageReport struct {
	Sites       []string                  `json:"sites"`
	Groups      []GroupResult             `json:"groups"`
	Unmatched   []UnmatchedSupply         `json:"unmatched_supply"`
	Summary     Summary                   `json:"summary"`
	Diagnostics []repositories.Diagnostic `json:"diagnostics,omitempty"`
}

// MemberView is one BOM line of a group as shown in reports
type MemberView struct {
	PartNo   entities.PartNumber     `json:"part_no"`
	Base     string                  `json:"base"`
	ItemCode string                  `json:"item_code,omitempty"`
	Name     string                  `json:"name"`
	Spec     string                  `json:"spec"`
	Usage    entities.Quantity       `json:"usage"`
	Stock    entities.SiteQuantities `json:"stock"`
}

// GroupResult is the simulated outcome for one component group
type GroupResult struct {
	Model          string                   `json:"model"`
	Key            string                   `json:"key"`
	Name           string                   `json:"name"`
	Spec           string                   `json:"spec"`
	MaxUsage       entities.Quantity        `json:"max_usage"`
	Members        []MemberView             `json:"members"`
	Stock          entities.SiteQuantities  `json:"stock"`
	Status         entities.Status          `json:"status"`
	FirstShortage  *entities.ShortageMarker `json:"first_shortage,omitempty"`
	InitialBalance entities.Quantity        `json:"initial_balance"`
	TotalDemand    entities.Quantity        `json:"total_demand"`
	FinalBalance   entities.Quantity        `json:"final_balance"`
	Trail          []entities.AuditEntry    `json:"trail"`
}

// NewGroupResult flattens a group and its simulation into a report row. Name
// and spec are taken from the first member.
func NewGroupResult(group *entities.ComponentGroup, sim *entities.SimulationResult) GroupResult {
	members := make([]MemberView, len(group.Members))
	for i, m := range group.Members {
		members[i] = MemberView{
			PartNo:   m.Line.PartNo,
			Base:     m.Base,
			ItemCode: m.Line.ItemCode,
			Name:     m.Line.Name,
			Spec:     m.Line.Spec,
			Usage:    m.Line.Usage,
			Stock:    m.Stock,
		}
	}

	result := GroupResult{
		Model:          group.Model,
		Key:            group.Key,
		MaxUsage:       group.MaxUsage(),
		Members:        members,
		Stock:          group.Stock,
		Status:         sim.Status(),
		FirstShortage:  sim.FirstShortage,
		InitialBalance: sim.InitialBalance,
		TotalDemand:    sim.TotalDemand,
		FinalBalance:   sim.FinalBalance,
		Trail:          sim.Trail,
	}
	if len(group.Members) > 0 {
		result.Name = group.Members[0].Line.Name
		result.Spec = group.Members[0].Line.Spec
	}
	return result
}

// IsShortage reports whether the group ends below zero
func (g GroupResult) IsShortage() bool {
	return g.Status == entities.Shortage
}

// UnmatchedSupply is a delivery bucket whose part number matched no demand
type UnmatchedSupply struct {
	PartNo string                 `json:"part_no"`
	Total  entities.Quantity      `json:"total"`
	Events []entities.LedgerEvent `json:"events"`
}

// Summary carries the headline numbers of a report
type Summary struct {
	Items             int               `json:"items"`
	Shortages         int               `json:"shortages"`
	PlannedQuantity   entities.Quantity `json:"planned_quantity"`
	Orders            int               `json:"orders"`
	Deliveries        int               `json:"deliveries"`
	MatchedDeliveries int               `json:"matched_deliveries"`
}

// Summarize counts items and shortages over groups. The order and delivery
// figures are carried over from base.
func Summarize(groups []GroupResult, base Summary) Summary {
	base.Items = len(groups)
	base.Shortages = 0
	for _, g := range groups {
		if g.IsShortage() {
			base.Shortages++
		}
	}
	return base
}
