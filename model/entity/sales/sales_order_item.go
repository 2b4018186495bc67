package sales

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesOrderItem represents the sales_order_item table: one line of a synced
// channel order, kept verbatim (raw SKU, no canonicalization). Written only
// by the import pipeline; forecasting and SKU discovery read it.
type SalesOrderItem struct {
	SalesOrderItemID uint            `gorm:"column:sales_order_item_id;primaryKey;autoIncrement" json:"sales_order_item_id,omitempty"`
	Channel          string          `gorm:"column:channel;type:varchar(32);not null;uniqueIndex:ux_sales_channel_ref_sku" json:"channel"`
	OrderRef         string          `gorm:"column:order_ref;type:varchar(64);not null;uniqueIndex:ux_sales_channel_ref_sku" json:"order_ref"`
	RawSku           string          `gorm:"column:raw_sku;type:varchar(64);not null;uniqueIndex:ux_sales_channel_ref_sku;index" json:"raw_sku"`
	Quantity         int             `gorm:"column:quantity;not null" json:"quantity"`
	UnitPrice        decimal.Decimal `gorm:"column:unit_price;type:decimal(12,4);not null;default:0" json:"unit_price"`
	OrderedAt        time.Time       `gorm:"column:ordered_at;index;not null" json:"ordered_at"`
	Created          time.Time       `gorm:"column:created;autoCreateTime" json:"created,omitempty"`
}

func (SalesOrderItem) TableName() string {
	return "sales_order_item"
}
