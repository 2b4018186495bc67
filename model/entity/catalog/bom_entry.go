package catalog

// BomEntry represents the bom_entry table: one component requirement of a
// product. Quantity is the number of this component consumed per unit sold.
type BomEntry struct {
	BomEntryID  uint   `gorm:"column:bom_entry_id;primaryKey;autoIncrement" json:"bom_entry_id,omitempty"`
	ProductSku  string `gorm:"column:product_sku;type:varchar(64);not null;uniqueIndex:ux_bom_product_component" json:"product_sku"`
	BrandID     uint   `gorm:"column:brand_id;index" json:"brand_id"`
	ComponentID uint   `gorm:"column:component_id;not null;uniqueIndex:ux_bom_product_component" json:"component_id"`
	Quantity    int    `gorm:"column:quantity;not null;default:1" json:"quantity"`
	Notes       string `gorm:"column:notes;type:varchar(255)" json:"notes,omitempty"`
}

func (BomEntry) TableName() string {
	return "bom_entry"
}
