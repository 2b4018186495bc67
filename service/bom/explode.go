package bom

import (
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	catalogRepo "stockops.GO/model/repository/catalog"
	salesRepo "stockops.GO/model/repository/sales"
	"stockops.GO/service/skumap"
)

// ExplosionResult is aggregated component demand for a window, with the
// data-quality conditions met along the way. Unmapped SKUs and products
// without a BOM never fail the computation; their contribution is excluded
// and reported.
type ExplosionResult struct {
	Totals     map[uint]int `json:"totals"`      // component_id -> consumed
	MissingBom []string     `json:"missing_bom"` // canonical SKUs with no BOM rows
	Unmapped   []string     `json:"unmapped"`    // raw SKUs with no canonical hit
}

// WarningStrings renders the data-quality conditions for API responses.
func (r *ExplosionResult) WarningStrings() []string {
	warnings := make([]string, 0, len(r.Unmapped)+len(r.MissingBom))
	for _, sku := range r.Unmapped {
		warnings = append(warnings, fmt.Sprintf("sku=%s: unmapped, excluded from demand", sku))
	}
	for _, sku := range r.MissingBom {
		warnings = append(warnings, fmt.Sprintf("sku=%s: no bom entries, demand understated", sku))
	}
	return warnings
}

// Explode canonicalizes each sales event and accumulates component demand:
// qty sold times BOM quantity, across every product referencing the
// component. No double-count suppression.
func Explode(db *gorm.DB, events []salesRepo.SalesEvent) (*ExplosionResult, error) {
	tables, err := skumap.LoadTables(db)
	if err != nil {
		return nil, err
	}

	result := &ExplosionResult{Totals: make(map[uint]int)}

	type resolved struct {
		canonical string
		quantity  int
	}
	var hits []resolved
	unmappedSet := make(map[string]struct{})
	canonicalSet := make(map[string]struct{})

	for _, ev := range events {
		res, err := tables.Resolve(ev.RawSku)
		if err != nil {
			return nil, err
		}
		if res.State == skumap.StateUnmapped {
			unmappedSet[ev.RawSku] = struct{}{}
			continue
		}
		hits = append(hits, resolved{canonical: res.CanonicalSku, quantity: ev.Quantity})
		canonicalSet[res.CanonicalSku] = struct{}{}
	}

	skus := make([]string, 0, len(canonicalSet))
	for sku := range canonicalSet {
		skus = append(skus, sku)
	}

	repo, err := catalogRepo.NewCatalogRepository(db)
	if err != nil {
		return nil, err
	}
	boms, err := repo.GetBomEntriesForSkus(skus)
	if err != nil {
		return nil, err
	}

	missingSet := make(map[string]struct{})
	for _, h := range hits {
		entries := boms[h.canonical]
		if len(entries) == 0 {
			missingSet[h.canonical] = struct{}{}
			continue
		}
		for _, e := range entries {
			result.Totals[e.ComponentID] += h.quantity * e.Quantity
		}
	}

	result.Unmapped = sortedKeys(unmappedSet)
	result.MissingBom = sortedKeys(missingSet)
	return result, nil
}

// ExplodeWindow aggregates demand over the trailing window from synced order
// history.
func ExplodeWindow(db *gorm.DB, windowDays int, now time.Time) (*ExplosionResult, error) {
	repo, err := salesRepo.NewSalesRepository(db)
	if err != nil {
		return nil, err
	}
	events, err := repo.ConsumptionSince(now.AddDate(0, 0, -windowDays))
	if err != nil {
		return nil, err
	}
	return Explode(db, events)
}

func sortedKeys(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
