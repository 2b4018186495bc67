package purchase

import "github.com/shopspring/decimal"

// Supplier represents the supplier table.
type Supplier struct {
	SupplierID          uint            `gorm:"column:supplier_id;primaryKey;autoIncrement" json:"supplier_id,omitempty"`
	Name                string          `gorm:"column:name;type:varchar(128);not null" json:"name"`
	DefaultLeadTimeDays int             `gorm:"column:default_lead_time_days;not null;default:0" json:"default_lead_time_days"`
	MinOrderQty         int             `gorm:"column:min_order_qty;not null;default:0" json:"min_order_qty"`
	MinOrderValue       decimal.Decimal `gorm:"column:min_order_value;type:decimal(12,2);not null;default:0" json:"min_order_value"`
	PaymentTerms        string          `gorm:"column:payment_terms;type:varchar(64)" json:"payment_terms,omitempty"`
	Currency            string          `gorm:"column:currency;type:varchar(8);not null;default:EUR" json:"currency"`
	IsActive            bool            `gorm:"column:is_active;not null;default:1" json:"is_active"`
}

func (Supplier) TableName() string {
	return "supplier"
}
