package models

// --- Stock overview ---

type StockOverview struct {
	Components []*ComponentStatus `json:"components"`
	Summary    *StockSummary      `json:"summary"`
	Warnings   []string           `json:"warnings"`
}

type ComponentStatus struct {
	ComponentID        int32    `json:"component_id"`
	SKU                string   `json:"sku"`
	Name               string   `json:"name"`
	OnHand             int32    `json:"on_hand"`
	Reserved           int32    `json:"reserved"`
	OnOrder            int32    `json:"on_order"`
	Available          int32    `json:"available"`
	ConsumedOverWindow int32    `json:"consumed_over_window"`
	WindowDays         int32    `json:"window_days"`
	LeadTimeDays       int32    `json:"lead_time_days"`
	SafetyStockDays    int32    `json:"safety_stock_days"`
	Velocity           float64  `json:"velocity"`
	DaysRemaining      *float64 `json:"days_remaining,omitempty"`
	ReorderPoint       float64  `json:"reorder_point"`
	Status             string   `json:"status"`
	SuggestedOrderQty  int32    `json:"suggested_order_qty"`
}

type StockSummary struct {
	OK         int32 `json:"ok"`
	Warning    int32 `json:"warning"`
	Critical   int32 `json:"critical"`
	OutOfStock int32 `json:"out_of_stock"`
	OnOrder    int32 `json:"on_order"`
}

// --- Purchase orders ---

type PurchaseOrder struct {
	ID           int32                `json:"id"`
	OrderNo      string               `json:"order_no"`
	SupplierID   int32                `json:"supplier_id"`
	Status       string               `json:"status"`
	ExpectedDate *string              `json:"expected_date,omitempty"`
	ShippingCost string               `json:"shipping_cost"`
	Notes        *string              `json:"notes,omitempty"`
	Created      string               `json:"created"`
	Items        []*PurchaseOrderItem `json:"items"`
}

type PurchaseOrderItem struct {
	ID               int32  `json:"id"`
	ComponentID      int32  `json:"component_id"`
	QuantityOrdered  int32  `json:"quantity_ordered"`
	QuantityReceived int32  `json:"quantity_received"`
	UnitPrice        string `json:"unit_price"`
}

// --- SKU mapping ---

type SkuMapping struct {
	ID         int32   `json:"id"`
	OldSku     string  `json:"old_sku"`
	CurrentSku string  `json:"current_sku"`
	Platform   *string `json:"platform,omitempty"`
	Notes      *string `json:"notes,omitempty"`
}

type DiscoveredSku struct {
	RawSku       string   `json:"raw_sku"`
	Orders       int32    `json:"orders"`
	TotalQty     int32    `json:"total_qty"`
	FirstSeen    string   `json:"first_seen"`
	LastSeen     string   `json:"last_seen"`
	Channels     []string `json:"channels"`
	Resolution   string   `json:"resolution"`
	CanonicalSku *string  `json:"canonical_sku,omitempty"`
}
