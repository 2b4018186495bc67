package skumap

import (
	"strings"

	"gorm.io/gorm"

	"stockops.GO/core/cache"
	apperrors "stockops.GO/core/errors"
	catalogEntity "stockops.GO/model/entity/catalog"
	catalogRepo "stockops.GO/model/repository/catalog"
)

// Channel SKU suffixes with fixed meaning. A trailing P marks a personalized
// listing that consumes the base SKU's BOM. -BALL marks a packaging variant
// that carries its own BOM; it folds into the base only for sales reporting.
const (
	PersonalizationSuffix = "P"
	VariantSuffix         = "-BALL"
)

// Resolution states, most to least certain.
const (
	StateExact    = "exact"    // raw SKU is itself canonical
	StateMapped   = "mapped"   // explicit mapping chain ended in the catalog
	StateDerived  = "derived"  // suffix stripping found the base SKU
	StateUnmapped = "unmapped" // no catalog hit; excluded from explosion
)

// ErrCycleDetected guards resolution against a corrupted mapping table.
// Creation-time validation should make it unreachable.
var ErrCycleDetected = apperrors.Conflict("sku mapping cycle detected")

// Resolution is the outcome of canonicalizing one raw channel SKU.
type Resolution struct {
	RawSku       string `json:"raw_sku"`
	CanonicalSku string `json:"canonical_sku,omitempty"`
	State        string `json:"state"`
	Personalized bool   `json:"personalized,omitempty"`
}

const (
	cacheKeyMappings = "skumap:mappings"
	cacheKeyCatalog  = "skumap:catalog"
	cacheTag         = "skumap"
	cacheTTLSeconds  = 60
)

// Tables bundles the two lookup tables resolution runs against.
type Tables struct {
	Mappings map[string]string   // old_sku -> current_sku
	Catalog  map[string]struct{} // canonical product SKUs
}

// LoadTables returns the mapping table and catalog SKU set, served from the
// process cache between mutations.
func LoadTables(db *gorm.DB) (*Tables, error) {
	c := cache.GetInstance()
	if v, ok := c.Get(cacheKeyMappings); ok {
		if w, ok2 := c.Get(cacheKeyCatalog); ok2 {
			mappings, mOK := v.(map[string]string)
			catalog, cOK := w.(map[string]struct{})
			if mOK && cOK {
				return &Tables{Mappings: mappings, Catalog: catalog}, nil
			}
		}
	}

	repo, err := catalogRepo.NewCatalogRepository(db)
	if err != nil {
		return nil, err
	}
	mappings, err := repo.MappingTable()
	if err != nil {
		return nil, err
	}
	catalog, err := repo.ProductSkuSet()
	if err != nil {
		return nil, err
	}

	c.Set(cacheKeyMappings, mappings, cacheTTLSeconds, []string{cacheTag})
	c.Set(cacheKeyCatalog, catalog, cacheTTLSeconds, []string{cacheTag})
	return &Tables{Mappings: mappings, Catalog: catalog}, nil
}

// InvalidateCache drops the cached lookup tables. Call after any mapping or
// product SKU mutation.
func InvalidateCache() {
	cache.GetInstance().DeleteByTag(cacheTag)
}

// Resolve canonicalizes one raw SKU against the current DB state.
func Resolve(db *gorm.DB, rawSku string) (Resolution, error) {
	tables, err := LoadTables(db)
	if err != nil {
		return Resolution{}, err
	}
	return tables.Resolve(rawSku)
}

// Resolve canonicalizes one raw SKU against preloaded tables. Batch callers
// load tables once and resolve many.
//
// Order: walk the explicit mapping chain (visited set defends against
// cycles), then take a direct catalog hit, then strip the personalization
// and variant suffixes looking for the base SKU.
func (t *Tables) Resolve(rawSku string) (Resolution, error) {
	res := Resolution{RawSku: rawSku, State: StateUnmapped}
	sku := strings.TrimSpace(rawSku)
	if sku == "" {
		return res, nil
	}

	visited := map[string]struct{}{sku: {}}
	mapped := false
	for {
		next, ok := t.Mappings[sku]
		if !ok {
			break
		}
		if _, seen := visited[next]; seen {
			return res, ErrCycleDetected
		}
		visited[next] = struct{}{}
		sku = next
		mapped = true
	}

	if _, ok := t.Catalog[sku]; ok {
		res.CanonicalSku = sku
		if mapped {
			res.State = StateMapped
		} else {
			res.State = StateExact
		}
		return res, nil
	}

	if base, ok := strings.CutSuffix(sku, PersonalizationSuffix); ok && base != "" {
		if _, hit := t.Catalog[base]; hit {
			res.CanonicalSku = base
			res.State = StateDerived
			res.Personalized = true
			return res, nil
		}
	}
	if base, ok := strings.CutSuffix(sku, VariantSuffix); ok && base != "" {
		if _, hit := t.Catalog[base]; hit {
			res.CanonicalSku = base
			res.State = StateDerived
			return res, nil
		}
	}

	return res, nil
}

// BaseSku strips the variant suffix for sales-reporting aggregation. BOM
// lookups never use this; a variant SKU keeps its own BOM.
func BaseSku(sku string) string {
	if base, ok := strings.CutSuffix(sku, VariantSuffix); ok && base != "" {
		return base
	}
	return sku
}

// ValidateMapping rejects self-mappings and any mapping that would let
// resolution starting at current reach old again.
func ValidateMapping(db *gorm.DB, oldSku, currentSku string) error {
	oldSku = strings.TrimSpace(oldSku)
	currentSku = strings.TrimSpace(currentSku)
	if oldSku == "" || currentSku == "" {
		return apperrors.Validation("old_sku and current_sku are required")
	}
	if oldSku == currentSku {
		return apperrors.Validation("mapping may not point a sku at itself")
	}

	tables, err := LoadTables(db)
	if err != nil {
		return err
	}
	visited := map[string]struct{}{currentSku: {}}
	sku := currentSku
	for {
		if sku == oldSku {
			return apperrors.Conflict("mapping %s -> %s would create a cycle", oldSku, currentSku)
		}
		next, ok := tables.Mappings[sku]
		if !ok {
			return nil
		}
		if _, seen := visited[next]; seen {
			// Existing chain already loops without touching old_sku; the
			// proposed mapping is not the problem.
			return nil
		}
		visited[next] = struct{}{}
		sku = next
	}
}

// CreateMapping validates and inserts a redirect, then drops the lookup
// cache.
func CreateMapping(db *gorm.DB, oldSku, currentSku, platform, notes string) (*catalogEntity.SkuMapping, error) {
	if err := ValidateMapping(db, oldSku, currentSku); err != nil {
		return nil, err
	}

	repo, err := catalogRepo.NewCatalogRepository(db)
	if err != nil {
		return nil, err
	}
	existing, err := repo.GetMappingByOldSku(strings.TrimSpace(oldSku))
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.Conflict("sku %s is already mapped to %s", existing.OldSku, existing.CurrentSku)
	}

	m := &catalogEntity.SkuMapping{
		OldSku:     strings.TrimSpace(oldSku),
		CurrentSku: strings.TrimSpace(currentSku),
		Platform:   strings.TrimSpace(platform),
		Notes:      notes,
	}
	if err := repo.CreateMapping(m); err != nil {
		return nil, err
	}
	InvalidateCache()
	return m, nil
}

// DeleteMapping removes a redirect by ID and drops the lookup cache.
func DeleteMapping(db *gorm.DB, id uint) error {
	repo, err := catalogRepo.NewCatalogRepository(db)
	if err != nil {
		return err
	}
	if err := repo.DeleteMapping(id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.NotFoundID("sku mapping", id)
		}
		return err
	}
	InvalidateCache()
	return nil
}
