package report

import (
	"strings"

	"github.com/vsinha/shortage/pkg/application/dto"
)

// Filter narrows a finished report. Empty fields match everything.
type Filter struct {
	Part         string `json:"part" form:"part"`
	Name         string `json:"name" form:"name"`
	ShortageOnly bool   `json:"shortage_only" form:"shortage_only"`
}

// IsZero reports whether the filter keeps every group
func (f Filter) IsZero() bool {
	return strings.TrimSpace(f.Part) == "" && strings.TrimSpace(f.Name) == "" && !f.ShortageOnly
}

// Matches reports whether any member of the group satisfies the part and
// name searches and, when requested, the group is short
func (f Filter) Matches(g dto.GroupResult) bool {
	if f.ShortageOnly && !g.IsShortage() {
		return false
	}
	part := strings.ToLower(strings.TrimSpace(f.Part))
	name := strings.ToLower(strings.TrimSpace(f.Name))

	matchPart := part == ""
	matchName := name == ""
	for _, m := range g.Members {
		if !matchPart && strings.Contains(strings.ToLower(string(m.PartNo)), part) {
			matchPart = true
		}
		if !matchName && strings.Contains(strings.ToLower(m.Name), name) {
			matchName = true
		}
	}
	return matchPart && matchName
}

// Apply returns a shallow copy of the report holding only matching groups,
// with item and shortage counts recomputed for the filtered set
func Apply(report *dto.ShortageReport, f Filter) *dto.ShortageReport {
	if report == nil {
		return nil
	}
	out := *report
	if f.IsZero() {
		return &out
	}

	groups := make([]dto.GroupResult, 0, len(report.Groups))
	for _, g := range report.Groups {
		if f.Matches(g) {
			groups = append(groups, g)
		}
	}
	out.Groups = groups
	out.Summary = dto.Summarize(groups, report.Summary)
	return &out
}

// Shortages returns the short groups of a report in report order
func Shortages(report *dto.ShortageReport) []dto.GroupResult {
	return Apply(report, Filter{ShortageOnly: true}).Groups
}
