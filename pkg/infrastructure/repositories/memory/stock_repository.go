package memory

import (
	"fmt"
	"sort"

	"github.com/vsinha/shortage/pkg/domain/entities"
	"github.com/vsinha/shortage/pkg/domain/repositories"
)

// StockRepository provides in-memory stock storage grouped by site
type StockRepository struct {
	records map[string][]entities.StockRecord
}

// NewStockRepository creates a new in-memory stock repository
func NewStockRepository() *StockRepository {
	return &StockRepository{
		records: make(map[string][]entities.StockRecord),
	}
}

// Verify interface compliance
var _ repositories.StockRepository = (*StockRepository)(nil)

// LoadStockRecords loads stock rows into the repository
func (r *StockRepository) LoadStockRecords(records []*entities.StockRecord) error {
	for i, rec := range records {
		if rec == nil {
			return fmt.Errorf("stock record %d is nil", i)
		}
		r.AddStockRecord(*rec)
	}
	return nil
}

// AddStockRecord adds one stock row under its site
func (r *StockRepository) AddStockRecord(rec entities.StockRecord) {
	r.records[rec.Site] = append(r.records[rec.Site], rec)
}

// GetSiteRecords returns the rows of one site in load order
func (r *StockRepository) GetSiteRecords(site string) ([]entities.StockRecord, error) {
	rows := r.records[site]
	out := make([]entities.StockRecord, len(rows))
	copy(out, rows)
	return out, nil
}

// GetSites returns the site names in sorted order
func (r *StockRepository) GetSites() ([]string, error) {
	sites := make([]string, 0, len(r.records))
	for site := range r.records {
		sites = append(sites, site)
	}
	sort.Strings(sites)
	return sites, nil
}

// BySite returns every site's rows keyed by site name
func (r *StockRepository) BySite() map[string][]entities.StockRecord {
	out := make(map[string][]entities.StockRecord, len(r.records))
	for site, rows := range r.records {
		cp := make([]entities.StockRecord, len(rows))
		copy(cp, rows)
		out[site] = cp
	}
	return out
}
