package sales

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"stockops.GO/core/cache"
	salesRepo "stockops.GO/model/repository/sales"
	"stockops.GO/service/skumap"
)

const (
	discoveryCacheKey = "sales:discovery"
	discoveryCacheTag = "sales"
	discoveryCacheTTL = 120
)

// DiscoveryRow profiles one raw SKU seen in synced order history, with its
// current resolution outcome so operators can spot what needs mapping.
type DiscoveryRow struct {
	RawSku       string   `json:"raw_sku"`
	Orders       int      `json:"orders"`
	TotalQty     int      `json:"total_qty"`
	FirstSeen    string   `json:"first_seen"`
	LastSeen     string   `json:"last_seen"`
	Channels     []string `json:"channels"`
	Resolution   string   `json:"resolution"`
	CanonicalSku string   `json:"canonical_sku,omitempty"`
}

// Discover aggregates raw SKU usage from order history and resolves each SKU
// against the current mapping table and catalog. Served from the process
// cache between imports.
func Discover(db *gorm.DB) ([]DiscoveryRow, error) {
	c := cache.GetInstance()
	if v, ok := c.Get(discoveryCacheKey); ok {
		if rows, ok2 := v.([]DiscoveryRow); ok2 {
			return rows, nil
		}
	}

	repo, err := salesRepo.NewSalesRepository(db)
	if err != nil {
		return nil, err
	}
	stats, err := repo.RawSkuStats()
	if err != nil {
		return nil, err
	}
	tables, err := skumap.LoadTables(db)
	if err != nil {
		return nil, err
	}

	rows := make([]DiscoveryRow, 0, len(stats))
	for _, s := range stats {
		res, err := tables.Resolve(s.RawSku)
		if err != nil {
			if !errors.Is(err, skumap.ErrCycleDetected) {
				return nil, err
			}
			// A cycled chain has no canonical SKU; surface it as unmapped so
			// the listing stays usable while the mapping gets fixed.
			res = skumap.Resolution{RawSku: s.RawSku, State: skumap.StateUnmapped}
		}
		row := DiscoveryRow{
			RawSku:       s.RawSku,
			Orders:       s.Orders,
			TotalQty:     s.TotalQty,
			Resolution:   res.State,
			CanonicalSku: res.CanonicalSku,
		}
		if !s.FirstSeen.IsZero() {
			row.FirstSeen = s.FirstSeen.Format("2006-01-02")
		}
		if !s.LastSeen.IsZero() {
			row.LastSeen = s.LastSeen.Format("2006-01-02")
		}
		if s.Channels != "" {
			row.Channels = strings.Split(s.Channels, ",")
		}
		rows = append(rows, row)
	}

	c.Set(discoveryCacheKey, rows, discoveryCacheTTL, []string{discoveryCacheTag})
	return rows, nil
}

// InvalidateDiscoveryCache drops cached discovery rows. Called after every
// import.
func InvalidateDiscoveryCache() {
	cache.GetInstance().DeleteByTag(discoveryCacheTag)
}
