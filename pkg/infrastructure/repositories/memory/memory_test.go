package memory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/shortage/pkg/domain/entities"
	"github.com/vsinha/shortage/pkg/infrastructure/repositories/memory"
	testhelpers "github.com/vsinha/shortage/pkg/infrastructure/testing"
)

func TestBOMRepository_ModelIndex(t *testing.T) {
	bomRepo, _ := testhelpers.BuildSimpleTestData()

	models, err := bomRepo.GetModels()
	require.NoError(t, err)
	assert.Equal(t, []string{"CTRL-100", "CTRL-200"}, models)

	lines, err := bomRepo.GetModelLines("CTRL-200")
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, entities.PartNumber("2002"), lines[0].PartNo)

	lines, err = bomRepo.GetModelLines("NOPE")
	require.NoError(t, err)
	assert.Empty(t, lines)

	all, err := bomRepo.GetAllBOMLines()
	require.NoError(t, err)
	assert.Len(t, all, 6)
}

func TestBOMRepository_RejectsNilLine(t *testing.T) {
	repo := memory.NewBOMRepository(1)
	assert.EqualError(t, repo.LoadBOMLines([]*entities.BOMLine{nil}), "bom line 0 is nil")
}

func TestStockRepository_Sites(t *testing.T) {
	_, stockRepo := testhelpers.BuildSimpleTestData()

	sites, err := stockRepo.GetSites()
	require.NoError(t, err)
	assert.Equal(t, []string{"W08", "W26"}, sites)

	rows, err := stockRepo.GetSiteRecords("W08")
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	bySite := stockRepo.BySite()
	assert.Len(t, bySite["W26"], 2)
}

func TestScheduleRepository_Contract(t *testing.T) {
	testhelpers.ScheduleRepositoryContract(t, memory.NewScheduleRepository())
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 B", memory.FormatBytes(512))
	assert.Equal(t, "1.5 KB", memory.FormatBytes(1536))
	assert.Equal(t, "2.0 MB", memory.FormatBytes(2*1024*1024))
}
