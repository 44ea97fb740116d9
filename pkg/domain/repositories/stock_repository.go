package repositories

import "github.com/vsinha/shortage/pkg/domain/entities"

// StockRepository provides access to on-hand stock rows per site
type StockRepository interface {
	LoadStockRecords(records []*entities.StockRecord) error
	GetSiteRecords(site string) ([]entities.StockRecord, error)
	GetSites() ([]string, error)
}
