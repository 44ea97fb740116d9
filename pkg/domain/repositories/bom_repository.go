package repositories

import "github.com/vsinha/shortage/pkg/domain/entities"

// BOMRepository provides access to Bill of Materials data
type BOMRepository interface {
	LoadBOMLines(lines []*entities.BOMLine) error
	GetAllBOMLines() ([]entities.BOMLine, error)

	// GetModelLines returns the lines of one model in load order
	GetModelLines(model string) ([]entities.BOMLine, error)

	// GetModels returns the distinct models in first-seen order
	GetModels() ([]string, error)
}
