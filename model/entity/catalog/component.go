package catalog

// Component represents the component table: a purchasable part kept in stock
// and consumed when finished products sell.
type Component struct {
	ComponentID     uint   `gorm:"column:component_id;primaryKey;autoIncrement" json:"component_id,omitempty"`
	SKU             string `gorm:"column:sku;type:varchar(64);not null;uniqueIndex" json:"sku"`
	Name            string `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Category        string `gorm:"column:category;type:varchar(64)" json:"category,omitempty"`
	Material        string `gorm:"column:material;type:varchar(64)" json:"material,omitempty"`
	Variant         string `gorm:"column:variant;type:varchar(64)" json:"variant,omitempty"`
	SafetyStockDays int    `gorm:"column:safety_stock_days;not null;default:0" json:"safety_stock_days"`
	MinOrderQty     int    `gorm:"column:min_order_qty;not null;default:0" json:"min_order_qty"`
	// LeadTimeDays nil means fall back to the preferred supplier's default,
	// then to the configured default.
	LeadTimeDays *int  `gorm:"column:lead_time_days" json:"lead_time_days,omitempty"`
	SupplierID   *uint `gorm:"column:supplier_id;index" json:"supplier_id,omitempty"`
	IsActive     bool  `gorm:"column:is_active;not null;default:1" json:"is_active"`
}

func (Component) TableName() string {
	return "component"
}
