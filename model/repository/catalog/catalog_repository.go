package catalog

import (
	"database/sql"
	"errors"

	"gorm.io/gorm"

	catalogEntity "stockops.GO/model/entity/catalog"
)

type CatalogRepository struct {
	db    *gorm.DB
	sqlDB *sql.DB
}

func NewCatalogRepository(db *gorm.DB) (*CatalogRepository, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	return &CatalogRepository{db: db, sqlDB: sqlDB}, nil
}

// ---------- Brands ----------

// GetBrandByID returns a brand or nil when absent.
func (r *CatalogRepository) GetBrandByID(id uint) (*catalogEntity.Brand, error) {
	var b catalogEntity.Brand
	err := r.db.First(&b, "brand_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// ---------- Components ----------

// GetComponentByID returns a component or nil when absent.
func (r *CatalogRepository) GetComponentByID(id uint) (*catalogEntity.Component, error) {
	var c catalogEntity.Component
	err := r.db.First(&c, "component_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetComponentBySKU returns a component by its own SKU, nil when absent.
func (r *CatalogRepository) GetComponentBySKU(sku string) (*catalogEntity.Component, error) {
	var c catalogEntity.Component
	err := r.db.First(&c, "sku = ?", sku).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetActiveComponents returns every active component ordered by SKU.
func (r *CatalogRepository) GetActiveComponents() ([]catalogEntity.Component, error) {
	var comps []catalogEntity.Component
	err := r.db.Where("is_active = ?", true).Order("sku ASC").Find(&comps).Error
	return comps, err
}

// GetComponentsByIDs fetches components keyed by ID in one query.
func (r *CatalogRepository) GetComponentsByIDs(ids []uint) (map[uint]catalogEntity.Component, error) {
	result := make(map[uint]catalogEntity.Component, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var comps []catalogEntity.Component
	if err := r.db.Where("component_id IN ?", ids).Find(&comps).Error; err != nil {
		return nil, err
	}
	for _, c := range comps {
		result[c.ComponentID] = c
	}
	return result, nil
}

// ---------- Product SKUs ----------

// GetProductSkuBySKU returns a product SKU row or nil when absent.
func (r *CatalogRepository) GetProductSkuBySKU(sku string) (*catalogEntity.ProductSku, error) {
	var p catalogEntity.ProductSku
	err := r.db.First(&p, "sku = ?", sku).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ProductSkuSet returns all known canonical SKUs as a lookup set.
// Uses raw SQL for minimal overhead on a hot path.
func (r *CatalogRepository) ProductSkuSet() (map[string]struct{}, error) {
	const query = `SELECT sku FROM product_sku`
	rows, err := r.sqlDB.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	set := make(map[string]struct{})
	for rows.Next() {
		var sku string
		if err := rows.Scan(&sku); err != nil {
			continue
		}
		set[sku] = struct{}{}
	}
	return set, rows.Err()
}

// CreateProductSku inserts a new canonical SKU.
func (r *CatalogRepository) CreateProductSku(p *catalogEntity.ProductSku) error {
	return r.db.Create(p).Error
}

// ---------- BOM entries ----------

// GetBomEntryByID returns a BOM entry or nil when absent.
func (r *CatalogRepository) GetBomEntryByID(id uint) (*catalogEntity.BomEntry, error) {
	var e catalogEntity.BomEntry
	err := r.db.First(&e, "bom_entry_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// GetBomEntriesByProductSku returns the BOM of one canonical SKU.
func (r *CatalogRepository) GetBomEntriesByProductSku(sku string) ([]catalogEntity.BomEntry, error) {
	var entries []catalogEntity.BomEntry
	err := r.db.Where("product_sku = ?", sku).Order("bom_entry_id ASC").Find(&entries).Error
	return entries, err
}

// GetBomEntriesForSkus batch-fetches BOMs for many canonical SKUs, keyed by
// product SKU. SKUs with no BOM are simply absent from the map.
func (r *CatalogRepository) GetBomEntriesForSkus(skus []string) (map[string][]catalogEntity.BomEntry, error) {
	result := make(map[string][]catalogEntity.BomEntry, len(skus))
	if len(skus) == 0 {
		return result, nil
	}
	var entries []catalogEntity.BomEntry
	if err := r.db.Where("product_sku IN ?", skus).Find(&entries).Error; err != nil {
		return nil, err
	}
	for _, e := range entries {
		result[e.ProductSku] = append(result[e.ProductSku], e)
	}
	return result, nil
}

// BomEntryExists reports whether the (product_sku, component_id) pair is
// already mapped.
func (r *CatalogRepository) BomEntryExists(productSku string, componentID uint) (bool, error) {
	var count int64
	err := r.db.Model(&catalogEntity.BomEntry{}).
		Where("product_sku = ? AND component_id = ?", productSku, componentID).
		Count(&count).Error
	return count > 0, err
}

// CreateBomEntry inserts a BOM entry.
func (r *CatalogRepository) CreateBomEntry(e *catalogEntity.BomEntry) error {
	return r.db.Create(e).Error
}

// UpdateBomEntry persists quantity/notes changes to an existing entry.
func (r *CatalogRepository) UpdateBomEntry(e *catalogEntity.BomEntry) error {
	return r.db.Model(&catalogEntity.BomEntry{}).
		Where("bom_entry_id = ?", e.BomEntryID).
		Updates(map[string]interface{}{"quantity": e.Quantity, "notes": e.Notes}).Error
}

// DeleteBomEntry removes a BOM entry by ID.
func (r *CatalogRepository) DeleteBomEntry(id uint) error {
	return r.db.Delete(&catalogEntity.BomEntry{}, "bom_entry_id = ?", id).Error
}

// ---------- SKU mappings ----------

// GetMappingByOldSku returns the mapping whose old_sku matches, nil when absent.
func (r *CatalogRepository) GetMappingByOldSku(oldSku string) (*catalogEntity.SkuMapping, error) {
	var m catalogEntity.SkuMapping
	err := r.db.First(&m, "old_sku = ?", oldSku).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// MappingTable loads every mapping as old_sku -> current_sku for chain walks.
// Uses raw SQL for minimal overhead.
func (r *CatalogRepository) MappingTable() (map[string]string, error) {
	const query = `SELECT old_sku, current_sku FROM sku_mapping`
	rows, err := r.sqlDB.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	table := make(map[string]string)
	for rows.Next() {
		var oldSku, currentSku string
		if err := rows.Scan(&oldSku, &currentSku); err != nil {
			continue
		}
		table[oldSku] = currentSku
	}
	return table, rows.Err()
}

// ListMappings returns all mappings ordered by creation.
func (r *CatalogRepository) ListMappings() ([]catalogEntity.SkuMapping, error) {
	var mappings []catalogEntity.SkuMapping
	err := r.db.Order("sku_mapping_id ASC").Find(&mappings).Error
	return mappings, err
}

// CreateMapping inserts a redirect row.
func (r *CatalogRepository) CreateMapping(m *catalogEntity.SkuMapping) error {
	return r.db.Create(m).Error
}

// DeleteMapping removes a mapping by ID. Returns gorm.ErrRecordNotFound when
// nothing was deleted.
func (r *CatalogRepository) DeleteMapping(id uint) error {
	res := r.db.Delete(&catalogEntity.SkuMapping{}, "sku_mapping_id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
