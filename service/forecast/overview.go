package forecast

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"stockops.GO/config"
	catalogRepo "stockops.GO/model/repository/catalog"
	purchaseRepo "stockops.GO/model/repository/purchase"
	stockRepo "stockops.GO/model/repository/stock"
	"stockops.GO/service/bom"
)

// ComponentStatus is one component's full stock picture for the dashboard.
type ComponentStatus struct {
	ComponentID        uint     `json:"component_id"`
	SKU                string   `json:"sku"`
	Name               string   `json:"name"`
	OnHand             int      `json:"on_hand"`
	Reserved           int      `json:"reserved"`
	OnOrder            int      `json:"on_order"`
	Available          int      `json:"available"`
	ConsumedOverWindow int      `json:"consumed_over_window"`
	WindowDays         int      `json:"window_days"`
	LeadTimeDays       int      `json:"lead_time_days"`
	SafetyStockDays    int      `json:"safety_stock_days"`
	Velocity           float64  `json:"velocity"`
	DaysRemaining      *float64 `json:"days_remaining"`
	ReorderPoint       float64  `json:"reorder_point"`
	Status             string   `json:"status"`
	SuggestedOrderQty  int      `json:"suggested_order_qty"`
}

// Summary is the dashboard headline: component counts per status plus total
// units on order.
type Summary struct {
	OK         int `json:"ok"`
	Warning    int `json:"warning"`
	Critical   int `json:"critical"`
	OutOfStock int `json:"out_of_stock"`
	OnOrder    int `json:"on_order"`
}

// OverviewResult is the computed stock overview for every active component.
type OverviewResult struct {
	Components []ComponentStatus `json:"components"`
	Summary    Summary           `json:"summary"`
	Warnings   []string          `json:"warnings,omitempty"`
}

// Overview recomputes velocity and status for every active component from
// the trailing consumption window. Read-only snapshot, no locks.
func Overview(db *gorm.DB, now time.Time) (*OverviewResult, error) {
	return OverviewWindow(db, now, config.Forecast().WindowDays)
}

// OverviewWindow is Overview with an explicit velocity window, used when a
// client asks for a shorter or longer trailing window than the default.
func OverviewWindow(db *gorm.DB, now time.Time, windowDays int) (*OverviewResult, error) {
	if windowDays <= 0 {
		windowDays = config.Forecast().WindowDays
	}

	explosion, err := bom.ExplodeWindow(db, windowDays, now)
	if err != nil {
		return nil, err
	}

	catRepo, err := catalogRepo.NewCatalogRepository(db)
	if err != nil {
		return nil, err
	}
	components, err := catRepo.GetActiveComponents()
	if err != nil {
		return nil, err
	}

	levels, err := stockRepo.NewStockRepository(db).ListLevels()
	if err != nil {
		return nil, err
	}

	supplierIDs := make([]uint, 0)
	seen := make(map[uint]struct{})
	for _, comp := range components {
		if comp.SupplierID != nil {
			if _, ok := seen[*comp.SupplierID]; !ok {
				seen[*comp.SupplierID] = struct{}{}
				supplierIDs = append(supplierIDs, *comp.SupplierID)
			}
		}
	}
	poRepo, err := purchaseRepo.NewPurchaseRepository(db)
	if err != nil {
		return nil, err
	}
	suppliers, err := poRepo.GetSuppliersByIDs(supplierIDs)
	if err != nil {
		return nil, err
	}
	outstanding, err := poRepo.OutstandingByComponent()
	if err != nil {
		return nil, err
	}

	result := &OverviewResult{
		Components: make([]ComponentStatus, 0, len(components)),
		Warnings:   explosion.WarningStrings(),
	}

	for i := range components {
		comp := &components[i]
		level := levels[comp.ComponentID]

		leadTime := 0
		if comp.SupplierID != nil {
			if s, ok := suppliers[*comp.SupplierID]; ok {
				leadTime = ResolveLeadTime(comp, &s)
			} else {
				leadTime = ResolveLeadTime(comp, nil)
			}
		} else {
			leadTime = ResolveLeadTime(comp, nil)
		}

		in := Input{
			Available:          level.Available(),
			OnHand:             level.OnHand,
			OnOrder:            level.OnOrder,
			ConsumedOverWindow: explosion.Totals[comp.ComponentID],
			WindowDays:         windowDays,
			LeadTimeDays:       leadTime,
			SafetyStockDays:    comp.SafetyStockDays,
			MinOrderQty:        comp.MinOrderQty,
		}
		res := Compute(in)

		result.Components = append(result.Components, ComponentStatus{
			ComponentID:        comp.ComponentID,
			SKU:                comp.SKU,
			Name:               comp.Name,
			OnHand:             level.OnHand,
			Reserved:           level.Reserved,
			OnOrder:            level.OnOrder,
			Available:          level.Available(),
			ConsumedOverWindow: in.ConsumedOverWindow,
			WindowDays:         windowDays,
			LeadTimeDays:       leadTime,
			SafetyStockDays:    comp.SafetyStockDays,
			Velocity:           res.Velocity,
			DaysRemaining:      res.DaysRemaining,
			ReorderPoint:       res.ReorderPoint,
			Status:             res.Status,
			SuggestedOrderQty:  res.SuggestedOrderQty,
		})

		switch res.Status {
		case StatusOK:
			result.Summary.OK++
		case StatusWarning:
			result.Summary.Warning++
		case StatusCritical:
			result.Summary.Critical++
		case StatusOutOfStock:
			result.Summary.OutOfStock++
		}
		result.Summary.OnOrder += level.OnOrder

		// on_order is kept incrementally by the ledger; the open PO lines are
		// the source of truth. Drift between the two is a data problem.
		if poOutstanding := outstanding[comp.ComponentID]; poOutstanding != level.OnOrder {
			result.Warnings = append(result.Warnings, fmt.Sprintf(
				"component %s: on_order is %d but open purchase order lines sum to %d",
				comp.SKU, level.OnOrder, poOutstanding))
		}
	}

	return result, nil
}
