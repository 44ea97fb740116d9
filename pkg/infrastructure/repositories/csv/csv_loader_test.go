package csv

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/shortage/pkg/domain/entities"
)

func writeCSV(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoader_LoadSnapshot(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, BOMFile, "\ufeffmodel,part_no,item_code,name,spec,usage\n"+
		"CTRL-100,1001-A,R1,MCU,QFN48,1\n"+
		"CTRL-100,2002,R2,Capacitor,0603,\"1,000\"\n"+
		"\n"+
		"CTRL-200,3003,,Relay,,n/a\n")
	writeCSV(t, dir, StockFile, "site,part_no,quantity,warehouse\n"+
		"W08,TW1001,300,W08\n"+
		",TW9,1,\n"+
		"W26,2002,abc,\n")
	writeCSV(t, dir, ScheduleFile, "date,model,quantity,source\n"+
		"2024/03/05,CTRL-100,200,\n"+
		"2024-03-01,CTRL-200,0,\n"+
		"2024-03-02,CTRL-200,50,erp\n")
	writeCSV(t, dir, DeliveriesFile, "date,part_no,quantity,note\n"+
		"2024-03-03,1001-A,100,\n"+
		"2024-03-04,2002,-5,PO-7\n")

	snap, err := NewLoader(dir, nil).LoadSnapshot(context.Background())
	require.NoError(t, err)

	require.Len(t, snap.BOM, 3)
	assert.Equal(t, "R1", snap.BOM[0].ItemCode)
	assert.True(t, snap.BOM[1].Usage.Equal(entities.CoerceQuantity("1000")))
	assert.True(t, snap.BOM[2].Usage.IsZero())

	require.Len(t, snap.Stock, 2)
	assert.Equal(t, "W08", snap.Stock[0].Warehouse)
	assert.True(t, snap.Stock[1].Quantity.IsZero())

	require.Len(t, snap.Orders, 2)
	assert.Equal(t, "2024-03-05", snap.Orders[0].Date)
	assert.Equal(t, entities.SourceImport, snap.Orders[0].Source)
	assert.Equal(t, "erp", snap.Orders[1].Source)
	assert.Equal(t, "schedule.csv:2", snap.Orders[0].ID)

	require.Len(t, snap.Deliveries, 1)
	assert.Equal(t, entities.DefaultDeliveryNote, snap.Deliveries[0].Note)

	require.Len(t, snap.Diagnostics, 4)
	for _, d := range snap.Diagnostics {
		assert.Equal(t, "ok", d.Level, d.File)
	}
}

func TestLoader_OptionalFilesMissing(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, BOMFile, "model,part_no,usage\nM1,P1,1\n")
	writeCSV(t, dir, StockFile, "site,part_no,quantity\nS,P1,3\n")

	snap, err := NewLoader(dir, nil).LoadSnapshot(context.Background())
	require.NoError(t, err)

	assert.Empty(t, snap.Orders)
	assert.Empty(t, snap.Deliveries)
	require.Len(t, snap.Diagnostics, 4)
	assert.Equal(t, "warn", snap.Diagnostics[2].Level)
	assert.Equal(t, ScheduleFile, snap.Diagnostics[2].File)
}

func TestLoader_Errors(t *testing.T) {
	tests := []struct {
		name    string
		bom     string
		wantErr string
	}{
		{"missing column", "model,part_no\nM1,P1\n", `BOM CSV header missing column "usage"`},
		{"missing part", "model,part_no,usage\nM1,,1\n", "BOM CSV row 2: part number cannot be empty"},
		{"empty file", "", "is empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeCSV(t, dir, BOMFile, tt.bom)
			writeCSV(t, dir, StockFile, "site,part_no,quantity\n")

			_, err := NewLoader(dir, nil).LoadSnapshot(context.Background())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoader_MissingBOMPartWrapsSentinel(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, BOMFile, "model,part_no,usage\n,P1,1\n")

	_, err := NewLoader(dir, nil).LoadBOM(path)

	assert.True(t, errors.Is(err, entities.ErrMissingRequiredField))
}

func TestLoader_MissingRequiredFile(t *testing.T) {
	_, err := NewLoader(t.TempDir(), nil).LoadSnapshot(context.Background())

	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
