package services

import (
	"fmt"

	"github.com/vsinha/shortage/pkg/domain/entities"
)

// BOMValidator checks the structural preconditions of a BOM before it is
// handed to the shortage engine
type BOMValidator struct{}

// NewBOMValidator creates a new BOM validator
func NewBOMValidator() *BOMValidator {
	return &BOMValidator{}
}

// LineIssue points at a BOM line by its position in the input
type LineIssue struct {
	Index  int
	Line   entities.BOMLine
	Reason string
}

// ValidationResult contains the results of BOM validation
type ValidationResult struct {
	MissingFields  []LineIssue
	DuplicateLines []LineIssue
	Models         int
	Errors         []string
	Warnings       []string
}

// Valid reports whether the BOM can be used by the engine
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// ValidateBOM validates a set of BOM lines with a fresh validator
func ValidateBOM(bomLines []entities.BOMLine) *ValidationResult {
	return NewBOMValidator().ValidateBOM(bomLines)
}

// ValidateBOM reports lines missing a model or part number as errors and
// repeated (model, part, item code) rows as warnings. Repeated rows are
// tolerated by demand building, which takes the largest usage once.
func (v *BOMValidator) ValidateBOM(bomLines []entities.BOMLine) *ValidationResult {
	result := &ValidationResult{
		MissingFields:  make([]LineIssue, 0),
		DuplicateLines: make([]LineIssue, 0),
		Errors:         make([]string, 0),
		Warnings:       make([]string, 0),
	}

	models := make(map[string]bool)
	for i, line := range bomLines {
		switch {
		case line.Model == "":
			result.MissingFields = append(result.MissingFields, LineIssue{Index: i, Line: line, Reason: "model"})
		case line.PartNo == "":
			result.MissingFields = append(result.MissingFields, LineIssue{Index: i, Line: line, Reason: "part number"})
		default:
			models[line.Model] = true
		}
	}
	result.Models = len(models)

	result.DuplicateLines = v.detectDuplicateLines(bomLines)

	for _, issue := range result.MissingFields {
		result.Errors = append(result.Errors, fmt.Sprintf("BOM line %d is missing its %s", issue.Index+1, issue.Reason))
	}
	if len(result.DuplicateLines) > 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Found %d duplicate BOM lines", len(result.DuplicateLines)))
	}

	return result
}

// detectDuplicateLines finds later lines repeating an earlier (model, part, item code)
func (v *BOMValidator) detectDuplicateLines(bomLines []entities.BOMLine) []LineIssue {
	seen := make(map[string]int)
	duplicates := make([]LineIssue, 0)

	for i, line := range bomLines {
		if line.Model == "" || line.PartNo == "" {
			continue
		}
		key := fmt.Sprintf("%s|%s|%s", line.Model, line.PartNo, line.ItemCode)
		if first, exists := seen[key]; exists {
			duplicates = append(duplicates, LineIssue{
				Index:  i,
				Line:   line,
				Reason: fmt.Sprintf("repeats line %d", first+1),
			})
		} else {
			seen[key] = i
		}
	}

	return duplicates
}
