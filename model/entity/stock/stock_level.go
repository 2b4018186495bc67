package stock

// StockLevel represents the stock_level table, one row per component. All
// quantities are counts, never negative. Mutated only by the stock ledger and
// purchase order receiving.
type StockLevel struct {
	StockLevelID uint `gorm:"column:stock_level_id;primaryKey;autoIncrement" json:"stock_level_id,omitempty"`
	ComponentID  uint `gorm:"column:component_id;not null;uniqueIndex" json:"component_id"`
	OnHand       int  `gorm:"column:on_hand;not null;default:0" json:"on_hand"`
	Reserved     int  `gorm:"column:reserved;not null;default:0" json:"reserved"`
	OnOrder      int  `gorm:"column:on_order;not null;default:0" json:"on_order"`
}

func (StockLevel) TableName() string {
	return "stock_level"
}

// Available is the sellable quantity: on hand minus reservations, floored at
// zero. Computed, never stored.
func (s *StockLevel) Available() int {
	avail := s.OnHand - s.Reserved
	if avail < 0 {
		return 0
	}
	return avail
}
