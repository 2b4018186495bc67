package forecast

import (
	"math"

	"stockops.GO/config"
	catalogEntity "stockops.GO/model/entity/catalog"
	purchaseEntity "stockops.GO/model/entity/purchase"
)

// Stock status values, ordered by severity.
const (
	StatusOK         = "ok"
	StatusWarning    = "warning"
	StatusCritical   = "critical"
	StatusOutOfStock = "out_of_stock"
)

// Input is one component's stock position and demand over the window.
type Input struct {
	Available          int
	OnHand             int
	OnOrder            int
	ConsumedOverWindow int
	WindowDays         int
	LeadTimeDays       int
	SafetyStockDays    int
	MinOrderQty        int
}

// Result is the computed velocity profile. DaysRemaining is nil when there
// is no consumption; with no demand there is nothing to run out of.
type Result struct {
	Velocity          float64  `json:"velocity"`
	DaysRemaining     *float64 `json:"days_remaining"`
	ReorderPoint      float64  `json:"reorder_point"`
	Status            string   `json:"status"`
	SuggestedOrderQty int      `json:"suggested_order_qty"`
}

// Compute derives velocity, days remaining, reorder point, status and a
// suggested order quantity. Pure function.
//
// Status precedence: out of stock when nothing is available; critical when
// the remaining days cannot cover lead time plus safety stock; warning when
// they cannot cover that plus the warning buffer; ok otherwise. Zero velocity
// with stock on hand is ok, not a risk. Holding everything else fixed, more
// available stock never worsens the status.
func Compute(in Input) Result {
	windowDays := in.WindowDays
	if windowDays <= 0 {
		windowDays = config.Forecast().WindowDays
	}

	res := Result{}
	res.Velocity = float64(in.ConsumedOverWindow) / float64(windowDays)
	coverDays := float64(in.LeadTimeDays + in.SafetyStockDays)
	res.ReorderPoint = res.Velocity * coverDays

	if res.Velocity > 0 {
		days := float64(in.Available) / res.Velocity
		res.DaysRemaining = &days
	}

	warningBuffer := float64(config.Forecast().WarningBufferDays)
	switch {
	case in.Available <= 0:
		res.Status = StatusOutOfStock
	case res.DaysRemaining != nil && *res.DaysRemaining <= coverDays:
		res.Status = StatusCritical
	case res.DaysRemaining != nil && *res.DaysRemaining <= coverDays+warningBuffer:
		res.Status = StatusWarning
	default:
		res.Status = StatusOK
	}

	res.SuggestedOrderQty = suggestedOrderQty(in, res)
	return res
}

// suggestedOrderQty sizes the order that restores a full window of cover,
// net of stock on hand and already on order. Zero until the position falls
// to the reorder point; the supplier minimum is enforced on any non-zero
// suggestion.
func suggestedOrderQty(in Input, res Result) int {
	if res.Velocity <= 0 {
		return 0
	}
	windowDays := in.WindowDays
	if windowDays <= 0 {
		windowDays = config.Forecast().WindowDays
	}
	if float64(in.Available) > res.ReorderPoint {
		return 0
	}

	qtyForTarget := math.Ceil(res.Velocity * float64(windowDays))
	gap := qtyForTarget - float64(in.OnHand) - float64(in.OnOrder)
	suggested := int(math.Max(0, math.Ceil(gap)))
	if suggested > 0 && suggested < in.MinOrderQty {
		suggested = in.MinOrderQty
	}
	return suggested
}

// ResolveLeadTime walks the fallback chain: the component's own lead time,
// then its preferred supplier's default, then the configured default.
func ResolveLeadTime(comp *catalogEntity.Component, supplier *purchaseEntity.Supplier) int {
	if comp != nil && comp.LeadTimeDays != nil && *comp.LeadTimeDays > 0 {
		return *comp.LeadTimeDays
	}
	if supplier != nil && supplier.DefaultLeadTimeDays > 0 {
		return supplier.DefaultLeadTimeDays
	}
	return config.Forecast().DefaultLeadTimeDays
}
