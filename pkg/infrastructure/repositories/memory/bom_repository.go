package memory

import (
	"fmt"
	"runtime"

	"github.com/vsinha/shortage/pkg/domain/entities"
	"github.com/vsinha/shortage/pkg/domain/repositories"
)

// BOMRepository provides in-memory BOM storage indexed by model
type BOMRepository struct {
	bomLines     []entities.BOMLine
	modelIndexes map[string][]int
	models       []string
}

// NewBOMRepository creates a BOM repository sized for the expected line count
func NewBOMRepository(expectedBOMLines int) *BOMRepository {
	return &BOMRepository{
		bomLines:     make([]entities.BOMLine, 0, expectedBOMLines),
		modelIndexes: make(map[string][]int),
		models:       make([]string, 0),
	}
}

// Verify interface compliance
var _ repositories.BOMRepository = (*BOMRepository)(nil)

// LoadBOMLines loads BOM lines into the repository
func (r *BOMRepository) LoadBOMLines(lines []*entities.BOMLine) error {
	for i, line := range lines {
		if line == nil {
			return fmt.Errorf("bom line %d is nil", i)
		}
		r.AddBOMLine(*line)
	}
	return nil
}

// AddBOMLine adds a BOM line to the repository
func (r *BOMRepository) AddBOMLine(line entities.BOMLine) {
	index := len(r.bomLines)
	r.bomLines = append(r.bomLines, line)
	if _, exists := r.modelIndexes[line.Model]; !exists {
		r.models = append(r.models, line.Model)
	}
	r.modelIndexes[line.Model] = append(r.modelIndexes[line.Model], index)
}

// GetAllBOMLines returns a copy of all BOM lines in load order
func (r *BOMRepository) GetAllBOMLines() ([]entities.BOMLine, error) {
	lines := make([]entities.BOMLine, len(r.bomLines))
	copy(lines, r.bomLines)
	return lines, nil
}

// GetModelLines returns the lines of one model, empty for unknown models
func (r *BOMRepository) GetModelLines(model string) ([]entities.BOMLine, error) {
	indexes := r.modelIndexes[model]
	lines := make([]entities.BOMLine, 0, len(indexes))
	for _, index := range indexes {
		lines = append(lines, r.bomLines[index])
	}
	return lines, nil
}

// GetModels returns the distinct models in first-seen order
func (r *BOMRepository) GetModels() ([]string, error) {
	models := make([]string, len(r.models))
	copy(models, r.models)
	return models, nil
}

// MemoryStats provides memory usage statistics
type MemoryStats struct {
	AllocBytes      uint64
	TotalAllocBytes uint64
	Mallocs         uint64
	Frees           uint64
	HeapObjects     uint64
}

// GetMemoryStats returns current memory usage statistics
func GetMemoryStats() MemoryStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return MemoryStats{
		AllocBytes:      m.Alloc,
		TotalAllocBytes: m.TotalAlloc,
		Mallocs:         m.Mallocs,
		Frees:           m.Frees,
		HeapObjects:     m.HeapObjects,
	}
}

// FormatBytes formats bytes in human readable format
func FormatBytes(bytes uint64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := uint64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
