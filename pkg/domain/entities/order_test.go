package entities

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductionOrder_Validation(t *testing.T) {
	order, err := NewProductionOrder("2024/03/01", "M1", decimal.NewFromInt(100), "")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01", order.Date)
	assert.Equal(t, SourceManual, order.Source)

	testCases := []struct {
		name        string
		date        string
		model       string
		qty         int64
		expectError string
	}{
		{"empty date", "", "M1", 1, "date cannot be empty"},
		{"bad date", "tomorrow", "M1", 1, "invalid date: tomorrow"},
		{"empty model", "2024-03-01", " ", 1, "model cannot be empty"},
		{"zero quantity", "2024-03-01", "M1", 0, "quantity must be positive, got 0"},
		{"negative quantity", "2024-03-01", "M1", -5, "quantity must be positive, got -5"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewProductionOrder(tc.date, tc.model, decimal.NewFromInt(tc.qty), "manual")
			require.Error(t, err)
			assert.Equal(t, tc.expectError, err.Error())
		})
	}
}

func TestTotalPlannedQuantity(t *testing.T) {
	orders := []ProductionOrder{
		{Quantity: decimal.NewFromInt(100)},
		{Quantity: decimal.NewFromInt(-20)},
		{Quantity: decimal.NewFromInt(50)},
	}
	assert.True(t, TotalPlannedQuantity(orders).Equal(decimal.NewFromInt(150)))
}

func TestDelivery_Validation(t *testing.T) {
	d, err := NewDelivery("2024-02-01", " TW1234 ", decimal.NewFromInt(5), "")
	require.NoError(t, err)
	assert.Equal(t, PartNumber("TW1234"), d.PartNo)
	assert.Equal(t, DefaultDeliveryNote, d.Note)

	_, err = NewDelivery("2024-02-01", "", decimal.NewFromInt(5), "")
	require.EqualError(t, err, "part number cannot be empty")

	_, err = NewDelivery("2024-02-01", "P", decimal.NewFromInt(-1), "")
	require.EqualError(t, err, "quantity cannot be negative, got -1")
}

func TestParseDate_Layouts(t *testing.T) {
	for _, raw := range []string{"2024-01-05", "2024/01/05", "2024/1/5", "01-05-24", "2024-01-05 00:00:00", "2024年1月5日"} {
		got, err := ParseDate(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, "2024-01-05", got, raw)
	}
}

func TestParseDate_ShortFormsAreMonthFirst(t *testing.T) {
	got, err := ParseDate("03/04/24")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-04", got)

	_, err = ParseDate("25/04/24")
	assert.EqualError(t, err, "invalid date: 25/04/24")
}
