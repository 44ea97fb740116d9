package entities

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrMissingRequiredField is returned when an input record lacks a field the
// engine cannot run without
var ErrMissingRequiredField = errors.New("missing required field")

// BOMLine represents one component row of a model's Bill of Materials
type BOMLine struct {
	Model    string
	PartNo   PartNumber
	ItemCode string // optional position code; empty or "nan" means absent
	Name     string
	Spec     string
	Usage    Quantity // units consumed per one unit of model produced
}

// NewBOMLine creates a validated BOMLine. Model and part number are the only
// required fields; a negative usage is kept as-is and ignored by demand.
func NewBOMLine(model string, partNo PartNumber, itemCode, name, spec string, usage Quantity) (*BOMLine, error) {
	model = strings.TrimSpace(model)
	partNo = PartNumber(strings.TrimSpace(string(partNo)))
	if model == "" {
		return nil, fmt.Errorf("model cannot be empty: %w", ErrMissingRequiredField)
	}
	if partNo == "" {
		return nil, fmt.Errorf("part number cannot be empty: %w", ErrMissingRequiredField)
	}

	return &BOMLine{
		Model:    model,
		PartNo:   partNo,
		ItemCode: strings.TrimSpace(itemCode),
		Name:     strings.TrimSpace(name),
		Spec:     strings.TrimSpace(spec),
		Usage:    usage,
	}, nil
}

// HasItemCode reports whether the line carries a usable item code
func (l BOMLine) HasItemCode() bool {
	code := strings.TrimSpace(l.ItemCode)
	return code != "" && !strings.EqualFold(code, "nan")
}

// GroupKey returns the item code when present, otherwise the raw part number
func (l BOMLine) GroupKey() string {
	if l.HasItemCode() {
		return strings.TrimSpace(l.ItemCode)
	}
	return string(l.PartNo)
}

// ItemCodeRank extracts the first run of digits in the item code as a number.
// Absent or non-numeric codes rank as zero.
func (l BOMLine) ItemCodeRank() decimal.Decimal {
	if !l.HasItemCode() {
		return decimal.Zero
	}
	code := l.ItemCode
	start := strings.IndexFunc(code, isDigit)
	if start < 0 {
		return decimal.Zero
	}
	end := start
	for end < len(code) && isDigit(rune(code[end])) {
		end++
	}
	rank, err := decimal.NewFromString(code[start:end])
	if err != nil {
		return decimal.Zero
	}
	return rank
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
