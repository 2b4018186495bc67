package stock

import "time"

// Adjustment types accepted by the stock ledger.
const (
	AdjustmentCount  = "count"
	AdjustmentAdd    = "add"
	AdjustmentRemove = "remove"
)

// StockAdjustment represents the stock_adjustment table: the append-only
// audit trail behind every on_hand change. Rows are never updated or deleted.
// Reference carries the caller's request identity so retried adjustments can
// be detected instead of double-applied.
type StockAdjustment struct {
	StockAdjustmentID uint      `gorm:"column:stock_adjustment_id;primaryKey;autoIncrement" json:"stock_adjustment_id,omitempty"`
	ComponentID       uint      `gorm:"column:component_id;index;not null" json:"component_id"`
	AdjustmentType    string    `gorm:"column:adjustment_type;type:varchar(16);not null" json:"adjustment_type"`
	Quantity          int       `gorm:"column:quantity;not null" json:"quantity"`
	Delta             int       `gorm:"column:delta;not null" json:"delta"`
	PreviousOnHand    int       `gorm:"column:previous_on_hand;not null" json:"previous_on_hand"`
	NewOnHand         int       `gorm:"column:new_on_hand;not null" json:"new_on_hand"`
	Reference         string    `gorm:"column:reference;type:varchar(64);uniqueIndex" json:"reference,omitempty"`
	Notes             string    `gorm:"column:notes;type:varchar(255)" json:"notes,omitempty"`
	Created           time.Time `gorm:"column:created;autoCreateTime" json:"created,omitempty"`
}

func (StockAdjustment) TableName() string {
	return "stock_adjustment"
}

// ValidAdjustmentType reports whether t is one of the ledger types.
func ValidAdjustmentType(t string) bool {
	return t == AdjustmentCount || t == AdjustmentAdd || t == AdjustmentRemove
}
