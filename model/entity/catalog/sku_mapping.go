package catalog

import "time"

// SkuMapping represents the sku_mapping table: a redirect from a raw channel
// SKU to its canonical replacement. Chains are allowed (old -> mid -> current)
// but cycles are rejected at creation time.
type SkuMapping struct {
	SkuMappingID uint      `gorm:"column:sku_mapping_id;primaryKey;autoIncrement" json:"sku_mapping_id,omitempty"`
	OldSku       string    `gorm:"column:old_sku;type:varchar(64);not null;uniqueIndex" json:"old_sku"`
	CurrentSku   string    `gorm:"column:current_sku;type:varchar(64);not null;index" json:"current_sku"`
	Platform     string    `gorm:"column:platform;type:varchar(32)" json:"platform,omitempty"`
	Notes        string    `gorm:"column:notes;type:varchar(255)" json:"notes,omitempty"`
	Created      time.Time `gorm:"column:created;autoCreateTime" json:"created,omitempty"`
}

func (SkuMapping) TableName() string {
	return "sku_mapping"
}
