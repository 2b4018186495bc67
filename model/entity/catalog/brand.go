package catalog

// Brand represents the brand table. Canonical SKUs are brand-scoped.
type Brand struct {
	BrandID  uint   `gorm:"column:brand_id;primaryKey;autoIncrement" json:"brand_id,omitempty"`
	Code     string `gorm:"column:code;type:varchar(16);not null;uniqueIndex" json:"code"`
	Name     string `gorm:"column:name;type:varchar(128);not null" json:"name"`
	IsActive bool   `gorm:"column:is_active;not null;default:1" json:"is_active"`
}

func (Brand) TableName() string {
	return "brand"
}
