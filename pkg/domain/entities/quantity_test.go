package entities

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		raw    string
		want   string
		wantOK bool
	}{
		{"10", "10", true},
		{" 2.5 ", "2.5", true},
		{"1,200", "1200", true},
		{"-3", "-3", true},
		{"", "0", false},
		{"abc", "0", false},
		{"nan", "0", false},
		{"NaN", "0", false},
		{"12pcs", "0", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := ParseQuantity(tt.raw)
			assert.Equal(t, tt.wantOK, ok)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestCoerceQuantity_ZeroOnFailure(t *testing.T) {
	assert.True(t, CoerceQuantity("n/a").IsZero())
	assert.True(t, CoerceQuantity("7").Equal(decimal.NewFromInt(7)))
}
