package purchase

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase order states. Progression is monotonic: draft -> sent ->
// confirmed -> partial/received. There is no cancelled state; only drafts
// can be deleted.
const (
	StatusDraft     = "draft"
	StatusSent      = "sent"
	StatusConfirmed = "confirmed"
	StatusPartial   = "partial"
	StatusReceived  = "received"
)

// PurchaseOrder represents the purchase_order table.
type PurchaseOrder struct {
	PurchaseOrderID uint                `gorm:"column:purchase_order_id;primaryKey;autoIncrement" json:"purchase_order_id,omitempty"`
	OrderNo         string              `gorm:"column:order_no;type:varchar(32);not null;uniqueIndex" json:"order_no"`
	SupplierID      uint                `gorm:"column:supplier_id;index;not null" json:"supplier_id"`
	Status          string              `gorm:"column:status;type:varchar(16);not null;default:draft" json:"status"`
	ExpectedDate    *time.Time          `gorm:"column:expected_date" json:"expected_date,omitempty"`
	ShippingCost    decimal.Decimal     `gorm:"column:shipping_cost;type:decimal(12,2);not null;default:0" json:"shipping_cost"`
	Notes           string              `gorm:"column:notes;type:varchar(255)" json:"notes,omitempty"`
	Created         time.Time           `gorm:"column:created;autoCreateTime" json:"created,omitempty"`
	Modified        time.Time           `gorm:"column:modified;autoUpdateTime" json:"modified,omitempty"`
	Items           []PurchaseOrderItem `gorm:"foreignKey:PurchaseOrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

func (PurchaseOrder) TableName() string {
	return "purchase_order"
}

// Open reports whether the order still commits incoming stock, i.e. whether
// its lines count toward component on_order.
func (p *PurchaseOrder) Open() bool {
	return p.Status == StatusSent || p.Status == StatusConfirmed || p.Status == StatusPartial
}

// PurchaseOrderItem represents the purchase_order_item table, one ordered
// component line. Invariant: QuantityReceived never exceeds QuantityOrdered.
type PurchaseOrderItem struct {
	PurchaseOrderItemID uint            `gorm:"column:purchase_order_item_id;primaryKey;autoIncrement" json:"purchase_order_item_id,omitempty"`
	PurchaseOrderID     uint            `gorm:"column:purchase_order_id;index;not null" json:"purchase_order_id"`
	ComponentID         uint            `gorm:"column:component_id;index;not null" json:"component_id"`
	QuantityOrdered     int             `gorm:"column:quantity_ordered;not null" json:"quantity_ordered"`
	QuantityReceived    int             `gorm:"column:quantity_received;not null;default:0" json:"quantity_received"`
	UnitPrice           decimal.Decimal `gorm:"column:unit_price;type:decimal(12,4);not null;default:0" json:"unit_price"`
}

func (PurchaseOrderItem) TableName() string {
	return "purchase_order_item"
}

// Outstanding is the quantity still expected on this line.
func (i *PurchaseOrderItem) Outstanding() int {
	return i.QuantityOrdered - i.QuantityReceived
}
