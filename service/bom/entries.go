package bom

import (
	"strings"

	"gorm.io/gorm"

	apperrors "stockops.GO/core/errors"
	catalogEntity "stockops.GO/model/entity/catalog"
	catalogRepo "stockops.GO/model/repository/catalog"
	"stockops.GO/service/skumap"
)

// EntryInput is the JSON input for creating a BOM entry.
type EntryInput struct {
	ProductSku  string `json:"product_sku"`
	BrandID     uint   `json:"brand_id"`
	ComponentID uint   `json:"component_id"`
	Quantity    int    `json:"quantity"`
	Notes       string `json:"notes"`
}

// CreateEntry validates and inserts one BOM entry. Product SKUs not seen
// before are registered under the brand so the BOM can be built ahead of the
// first sale.
func CreateEntry(db *gorm.DB, in EntryInput) (*catalogEntity.BomEntry, error) {
	in.ProductSku = strings.TrimSpace(in.ProductSku)
	if in.ProductSku == "" {
		return nil, apperrors.Validation("product_sku is required")
	}
	if in.Quantity < 1 {
		return nil, apperrors.Validation("quantity must be at least 1")
	}

	repo, err := catalogRepo.NewCatalogRepository(db)
	if err != nil {
		return nil, err
	}

	comp, err := repo.GetComponentByID(in.ComponentID)
	if err != nil {
		return nil, err
	}
	if comp == nil {
		return nil, apperrors.NotFoundID("component", in.ComponentID)
	}

	brand, err := repo.GetBrandByID(in.BrandID)
	if err != nil {
		return nil, err
	}
	if brand == nil {
		return nil, apperrors.NotFoundID("brand", in.BrandID)
	}

	exists, err := repo.BomEntryExists(in.ProductSku, in.ComponentID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.Conflict("bom entry for %s / component %d already exists", in.ProductSku, in.ComponentID)
	}

	product, err := repo.GetProductSkuBySKU(in.ProductSku)
	if err != nil {
		return nil, err
	}
	if product == nil {
		product = &catalogEntity.ProductSku{
			SKU:     in.ProductSku,
			BrandID: in.BrandID,
			Status:  catalogEntity.ProductStatusActive,
		}
		if err := repo.CreateProductSku(product); err != nil {
			return nil, err
		}
		skumap.InvalidateCache()
	}

	entry := &catalogEntity.BomEntry{
		ProductSku:  in.ProductSku,
		BrandID:     in.BrandID,
		ComponentID: in.ComponentID,
		Quantity:    in.Quantity,
		Notes:       in.Notes,
	}
	if err := repo.CreateBomEntry(entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// UpdateEntry changes quantity and notes of an existing entry.
func UpdateEntry(db *gorm.DB, id uint, quantity int, notes string) (*catalogEntity.BomEntry, error) {
	if quantity < 1 {
		return nil, apperrors.Validation("quantity must be at least 1")
	}
	repo, err := catalogRepo.NewCatalogRepository(db)
	if err != nil {
		return nil, err
	}
	entry, err := repo.GetBomEntryByID(id)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, apperrors.NotFoundID("bom entry", id)
	}
	entry.Quantity = quantity
	entry.Notes = notes
	if err := repo.UpdateBomEntry(entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// DeleteEntry removes one entry by ID.
func DeleteEntry(db *gorm.DB, id uint) error {
	repo, err := catalogRepo.NewCatalogRepository(db)
	if err != nil {
		return err
	}
	entry, err := repo.GetBomEntryByID(id)
	if err != nil {
		return err
	}
	if entry == nil {
		return apperrors.NotFoundID("bom entry", id)
	}
	return repo.DeleteBomEntry(id)
}

// EntriesForProduct lists the BOM of one canonical SKU.
func EntriesForProduct(db *gorm.DB, productSku string) ([]catalogEntity.BomEntry, error) {
	repo, err := catalogRepo.NewCatalogRepository(db)
	if err != nil {
		return nil, err
	}
	return repo.GetBomEntriesByProductSku(strings.TrimSpace(productSku))
}
