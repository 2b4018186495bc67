package catalog

import "gorm.io/datatypes"

// Product lifecycle states. Historic and discontinued SKUs stay valid BOM and
// forecast inputs; they are only excluded from currently-sellable views.
const (
	ProductStatusActive       = "active"
	ProductStatusHistoric     = "historic"
	ProductStatusDiscontinued = "discontinued"
)

// ProductSku represents the product_sku table: one sellable canonical SKU.
// Platforms holds the channel tags the SKU is listed on as a JSON array.
type ProductSku struct {
	ProductSkuID uint           `gorm:"column:product_sku_id;primaryKey;autoIncrement" json:"product_sku_id,omitempty"`
	SKU          string         `gorm:"column:sku;type:varchar(64);not null;uniqueIndex" json:"sku"`
	BrandID      uint           `gorm:"column:brand_id;index;not null" json:"brand_id"`
	Status       string         `gorm:"column:status;type:varchar(16);not null;default:active" json:"status"`
	Platforms    datatypes.JSON `gorm:"column:platforms" json:"platforms,omitempty"`
}

func (ProductSku) TableName() string {
	return "product_sku"
}

// Sellable reports whether the SKU should appear in active catalog views.
func (p *ProductSku) Sellable() bool {
	return p.Status == ProductStatusActive
}
