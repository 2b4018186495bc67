package resolvers

import (
	"context"
	"strings"
	"time"

	gqlmodels "stockops.GO/graphql/models"
	"stockops.GO/service/forecast"
)

// StockOverview resolves the full dashboard overview, optionally filtered to
// one status.
func (r *QueryResolver) StockOverview(ctx context.Context, statusFilter *string) (*gqlmodels.StockOverview, error) {
	res, err := forecast.OverviewWindow(r.db, time.Now(), r.windowDays(ctx))
	if err != nil {
		return nil, err
	}

	out := &gqlmodels.StockOverview{
		Components: make([]*gqlmodels.ComponentStatus, 0, len(res.Components)),
		Summary:    mapSummary(res.Summary),
		Warnings:   res.Warnings,
	}
	if out.Warnings == nil {
		out.Warnings = []string{}
	}

	for i := range res.Components {
		if statusFilter != nil && *statusFilter != "" && res.Components[i].Status != *statusFilter {
			continue
		}
		out.Components = append(out.Components, mapComponentStatus(&res.Components[i]))
	}
	return out, nil
}

// StockStatus resolves one component by canonical SKU. Returns null when the
// SKU is unknown.
func (r *QueryResolver) StockStatus(ctx context.Context, sku string) (*gqlmodels.ComponentStatus, error) {
	res, err := forecast.OverviewWindow(r.db, time.Now(), r.windowDays(ctx))
	if err != nil {
		return nil, err
	}
	sku = strings.TrimSpace(sku)
	for i := range res.Components {
		if res.Components[i].SKU == sku {
			return mapComponentStatus(&res.Components[i]), nil
		}
	}
	return nil, nil
}

func mapComponentStatus(cs *forecast.ComponentStatus) *gqlmodels.ComponentStatus {
	return &gqlmodels.ComponentStatus{
		ComponentID:        int32(cs.ComponentID),
		SKU:                cs.SKU,
		Name:               cs.Name,
		OnHand:             int32(cs.OnHand),
		Reserved:           int32(cs.Reserved),
		OnOrder:            int32(cs.OnOrder),
		Available:          int32(cs.Available),
		ConsumedOverWindow: int32(cs.ConsumedOverWindow),
		WindowDays:         int32(cs.WindowDays),
		LeadTimeDays:       int32(cs.LeadTimeDays),
		SafetyStockDays:    int32(cs.SafetyStockDays),
		Velocity:           cs.Velocity,
		DaysRemaining:      cs.DaysRemaining,
		ReorderPoint:       cs.ReorderPoint,
		Status:             cs.Status,
		SuggestedOrderQty:  int32(cs.SuggestedOrderQty),
	}
}

func mapSummary(s forecast.Summary) *gqlmodels.StockSummary {
	return &gqlmodels.StockSummary{
		OK:         int32(s.OK),
		Warning:    int32(s.Warning),
		Critical:   int32(s.Critical),
		OutOfStock: int32(s.OutOfStock),
		OnOrder:    int32(s.OnOrder),
	}
}
