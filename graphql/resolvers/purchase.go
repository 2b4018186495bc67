package resolvers

import (
	"context"
	"time"

	apperrors "stockops.GO/core/errors"
	gqlmodels "stockops.GO/graphql/models"
	purchaseEntity "stockops.GO/model/entity/purchase"
	purchaseService "stockops.GO/service/purchase"
)

// PurchaseOrders resolves the order list, optionally filtered by status.
func (r *QueryResolver) PurchaseOrders(ctx context.Context, status *string) ([]*gqlmodels.PurchaseOrder, error) {
	filter := ""
	if status != nil {
		filter = *status
	}
	orders, err := purchaseService.List(r.db, filter)
	if err != nil {
		return nil, err
	}
	out := make([]*gqlmodels.PurchaseOrder, 0, len(orders))
	for i := range orders {
		out = append(out, mapPurchaseOrder(&orders[i]))
	}
	return out, nil
}

// PurchaseOrder resolves one order by ID. Returns null when unknown.
func (r *QueryResolver) PurchaseOrder(ctx context.Context, id int32) (*gqlmodels.PurchaseOrder, error) {
	if id < 1 {
		return nil, nil
	}
	po, err := purchaseService.Get(r.db, uint(id))
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return mapPurchaseOrder(po), nil
}

func mapPurchaseOrder(po *purchaseEntity.PurchaseOrder) *gqlmodels.PurchaseOrder {
	out := &gqlmodels.PurchaseOrder{
		ID:           int32(po.PurchaseOrderID),
		OrderNo:      po.OrderNo,
		SupplierID:   int32(po.SupplierID),
		Status:       po.Status,
		ShippingCost: po.ShippingCost.StringFixed(2),
		Created:      po.Created.Format(time.RFC3339),
		Items:        make([]*gqlmodels.PurchaseOrderItem, 0, len(po.Items)),
	}
	if po.ExpectedDate != nil {
		d := po.ExpectedDate.Format("2006-01-02")
		out.ExpectedDate = &d
	}
	if po.Notes != "" {
		n := po.Notes
		out.Notes = &n
	}
	for i := range po.Items {
		item := &po.Items[i]
		out.Items = append(out.Items, &gqlmodels.PurchaseOrderItem{
			ID:               int32(item.PurchaseOrderItemID),
			ComponentID:      int32(item.ComponentID),
			QuantityOrdered:  int32(item.QuantityOrdered),
			QuantityReceived: int32(item.QuantityReceived),
			UnitPrice:        item.UnitPrice.String(),
		})
	}
	return out
}
