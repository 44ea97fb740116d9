package entities

import (
	"sort"

	"github.com/shopspring/decimal"
)

// StockRecord is one on-hand row of a site's stock listing
type StockRecord struct {
	PartNo    PartNumber
	Quantity  Quantity
	Site      string
	Warehouse string // sub-location inside the site, may be empty
}

// Site describes a stock site. When Warehouse is set only rows from that
// sub-location count towards the site's stock.
type Site struct {
	Name      string `json:"name" yaml:"name"`
	Warehouse string `json:"warehouse,omitempty" yaml:"warehouse"`
}

// SiteStock maps base part numbers to their on-hand total at one site
type SiteStock map[string]Quantity

// Get returns the on-hand quantity for a base part number, zero when unknown
func (s SiteStock) Get(base string) Quantity {
	if q, ok := s[base]; ok {
		return q
	}
	return decimal.Zero
}

// Total sums every quantity in the mapping
func (s SiteStock) Total() Quantity {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	total := decimal.Zero
	for _, k := range keys {
		total = total.Add(s[k])
	}
	return total
}

// StockBySite holds one SiteStock per site name
type StockBySite map[string]SiteStock

// SiteQuantities is a per-site quantity breakdown kept in site order
type SiteQuantities []SiteQuantity

// SiteQuantity pairs a site name with a quantity
type SiteQuantity struct {
	Site     string   `json:"site"`
	Quantity Quantity `json:"quantity"`
}

// Total sums the breakdown
func (sq SiteQuantities) Total() Quantity {
	total := decimal.Zero
	for _, q := range sq {
		total = total.Add(q.Quantity)
	}
	return total
}

// Get returns the quantity recorded for a site, zero when absent
func (sq SiteQuantities) Get(site string) Quantity {
	for _, q := range sq {
		if q.Site == site {
			return q.Quantity
		}
	}
	return decimal.Zero
}

// Add returns a new breakdown with other added site by site. Sites missing
// from the receiver are appended in other's order.
func (sq SiteQuantities) Add(other SiteQuantities) SiteQuantities {
	out := make(SiteQuantities, len(sq))
	copy(out, sq)
	for _, o := range other {
		found := false
		for i := range out {
			if out[i].Site == o.Site {
				out[i].Quantity = out[i].Quantity.Add(o.Quantity)
				found = true
				break
			}
		}
		if !found {
			out = append(out, o)
		}
	}
	return out
}
