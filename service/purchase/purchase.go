package purchase

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "stockops.GO/core/errors"
	purchaseEntity "stockops.GO/model/entity/purchase"
	catalogRepo "stockops.GO/model/repository/catalog"
	purchaseRepo "stockops.GO/model/repository/purchase"
	stockService "stockops.GO/service/stock"
)

// ItemInput is one ordered line of a new purchase order.
type ItemInput struct {
	ComponentID uint            `json:"component_id"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// CreateInput is the JSON input for creating a purchase order. Status may be
// draft (default) or sent; sent orders commit their lines to on_order
// immediately.
type CreateInput struct {
	SupplierID   uint            `json:"supplier_id"`
	Status       string          `json:"status"`
	ExpectedDate *time.Time      `json:"expected_date"`
	ShippingCost decimal.Decimal `json:"shipping_cost"`
	Notes        string          `json:"notes"`
	Items        []ItemInput     `json:"items"`
}

// ReceiveLineInput is one line delivery of a receiving call.
type ReceiveLineInput struct {
	LineItemID       uint `json:"line_item_id"`
	QuantityReceived int  `json:"quantity_received"`
}

// LineReceipt reports one applied line delivery.
type LineReceipt struct {
	LineItemID       uint `json:"line_item_id"`
	ComponentID      uint `json:"component_id"`
	QuantityReceived int  `json:"quantity_received"`
	TotalReceived    int  `json:"total_received"`
	Outstanding      int  `json:"outstanding"`
}

// ReceiveResult is the outcome of a receiving call.
type ReceiveResult struct {
	PurchaseOrder *purchaseEntity.PurchaseOrder `json:"purchase_order"`
	Lines         []LineReceipt                 `json:"lines"`
}

// Create validates and inserts a purchase order with its lines. A sent order
// is created as draft and sent inside the same transaction, so on_order and
// the order row move together.
func Create(db *gorm.DB, in CreateInput, now time.Time) (*purchaseEntity.PurchaseOrder, error) {
	status := in.Status
	if status == "" {
		status = purchaseEntity.StatusDraft
	}
	if status != purchaseEntity.StatusDraft && status != purchaseEntity.StatusSent {
		return nil, apperrors.Validation("a purchase order starts as draft or sent, got %q", status)
	}
	if len(in.Items) == 0 {
		return nil, apperrors.Validation("items are required")
	}
	for i, item := range in.Items {
		if item.Quantity < 1 {
			return nil, apperrors.Validation("items[%d]: quantity must be at least 1", i)
		}
		if item.UnitPrice.IsNegative() {
			return nil, apperrors.Validation("items[%d]: unit_price must not be negative", i)
		}
	}
	if in.ShippingCost.IsNegative() {
		return nil, apperrors.Validation("shipping_cost must not be negative")
	}

	repo, err := purchaseRepo.NewPurchaseRepository(db)
	if err != nil {
		return nil, err
	}
	supplier, err := repo.GetSupplierByID(in.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, apperrors.NotFoundID("supplier", in.SupplierID)
	}

	catRepo, err := catalogRepo.NewCatalogRepository(db)
	if err != nil {
		return nil, err
	}
	componentIDs := make([]uint, 0, len(in.Items))
	for _, item := range in.Items {
		componentIDs = append(componentIDs, item.ComponentID)
	}
	components, err := catRepo.GetComponentsByIDs(componentIDs)
	if err != nil {
		return nil, err
	}
	for _, item := range in.Items {
		if _, ok := components[item.ComponentID]; !ok {
			return nil, apperrors.NotFoundID("component", item.ComponentID)
		}
	}

	var po *purchaseEntity.PurchaseOrder
	err = db.Transaction(func(tx *gorm.DB) error {
		orderNo, err := repo.NextOrderNo(tx, now)
		if err != nil {
			return err
		}

		po = &purchaseEntity.PurchaseOrder{
			OrderNo:      orderNo,
			SupplierID:   in.SupplierID,
			Status:       purchaseEntity.StatusDraft,
			ExpectedDate: in.ExpectedDate,
			ShippingCost: in.ShippingCost,
			Notes:        in.Notes,
		}
		for _, item := range in.Items {
			po.Items = append(po.Items, purchaseEntity.PurchaseOrderItem{
				ComponentID:     item.ComponentID,
				QuantityOrdered: item.Quantity,
				UnitPrice:       item.UnitPrice,
			})
		}
		if err := repo.CreateOrder(tx, po); err != nil {
			return err
		}

		if status == purchaseEntity.StatusSent {
			return sendLocked(tx, repo, po)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return po, nil
}

// Send moves a draft to sent. Each line's ordered quantity becomes committed
// incoming stock at this transition; a draft is not a real commitment.
func Send(db *gorm.DB, poID uint) (*purchaseEntity.PurchaseOrder, error) {
	repo, err := purchaseRepo.NewPurchaseRepository(db)
	if err != nil {
		return nil, err
	}

	var po *purchaseEntity.PurchaseOrder
	err = db.Transaction(func(tx *gorm.DB) error {
		po, err = repo.GetOrderForUpdate(tx, poID)
		if err != nil {
			return err
		}
		if po == nil {
			return apperrors.NotFoundID("purchase order", poID)
		}
		if po.Status != purchaseEntity.StatusDraft {
			return apperrors.Conflict("purchase order %s is %s, only a draft can be sent", po.OrderNo, po.Status)
		}
		return sendLocked(tx, repo, po)
	})
	if err != nil {
		return nil, err
	}
	return po, nil
}

// sendLocked applies the draft -> sent transition on an order already loaded
// inside tx.
func sendLocked(tx *gorm.DB, repo *purchaseRepo.PurchaseRepository, po *purchaseEntity.PurchaseOrder) error {
	for _, item := range po.Items {
		if err := stockService.CommitOnOrder(tx, item.ComponentID, item.QuantityOrdered); err != nil {
			return err
		}
	}
	if err := repo.SaveStatus(tx, po.PurchaseOrderID, purchaseEntity.StatusSent); err != nil {
		return err
	}
	po.Status = purchaseEntity.StatusSent
	return nil
}

// Confirm records the supplier's acknowledgement: sent -> confirmed. No
// stock effect.
func Confirm(db *gorm.DB, poID uint) (*purchaseEntity.PurchaseOrder, error) {
	repo, err := purchaseRepo.NewPurchaseRepository(db)
	if err != nil {
		return nil, err
	}

	var po *purchaseEntity.PurchaseOrder
	err = db.Transaction(func(tx *gorm.DB) error {
		po, err = repo.GetOrderForUpdate(tx, poID)
		if err != nil {
			return err
		}
		if po == nil {
			return apperrors.NotFoundID("purchase order", poID)
		}
		if po.Status != purchaseEntity.StatusSent {
			return apperrors.Conflict("purchase order %s is %s, only a sent order can be confirmed", po.OrderNo, po.Status)
		}
		if err := repo.SaveStatus(tx, po.PurchaseOrderID, purchaseEntity.StatusConfirmed); err != nil {
			return err
		}
		po.Status = purchaseEntity.StatusConfirmed
		return nil
	})
	if err != nil {
		return nil, err
	}
	return po, nil
}

// Receive books deliveries against order lines. Every line is validated
// before anything mutates; one oversized line fails the whole call with no
// state change. Applied lines move goods from on_order to on_hand through
// the stock ledger and the order settles on partial or received.
func Receive(db *gorm.DB, poID uint, lines []ReceiveLineInput) (*ReceiveResult, error) {
	if len(lines) == 0 {
		return nil, apperrors.Validation("lines are required")
	}

	repo, err := purchaseRepo.NewPurchaseRepository(db)
	if err != nil {
		return nil, err
	}

	var result *ReceiveResult
	err = db.Transaction(func(tx *gorm.DB) error {
		po, err := repo.GetOrderForUpdate(tx, poID)
		if err != nil {
			return err
		}
		if po == nil {
			return apperrors.NotFoundID("purchase order", poID)
		}
		if !po.Open() {
			return apperrors.Conflict("purchase order %s is %s, nothing can be received", po.OrderNo, po.Status)
		}

		items := make(map[uint]*purchaseEntity.PurchaseOrderItem, len(po.Items))
		for i := range po.Items {
			items[po.Items[i].PurchaseOrderItemID] = &po.Items[i]
		}

		// Validate every line before touching anything.
		for i, line := range lines {
			if line.QuantityReceived < 1 {
				return apperrors.Validation("lines[%d]: quantity_received must be at least 1", i)
			}
			item, ok := items[line.LineItemID]
			if !ok {
				return apperrors.NotFoundID("purchase order line", line.LineItemID)
			}
			if item.QuantityReceived+line.QuantityReceived > item.QuantityOrdered {
				return apperrors.Conflict(
					"line %d: receiving %d exceeds ordered %d (already received %d)",
					line.LineItemID, line.QuantityReceived, item.QuantityOrdered, item.QuantityReceived)
			}
		}

		result = &ReceiveResult{}
		for _, line := range lines {
			item := items[line.LineItemID]
			item.QuantityReceived += line.QuantityReceived
			if err := repo.SaveItemReceived(tx, item.PurchaseOrderItemID, item.QuantityReceived); err != nil {
				return err
			}

			notes := fmt.Sprintf("received on %s", po.OrderNo)
			if _, err := stockService.ReceiveIntoStock(tx, item.ComponentID, line.QuantityReceived, notes, ""); err != nil {
				return err
			}

			result.Lines = append(result.Lines, LineReceipt{
				LineItemID:       item.PurchaseOrderItemID,
				ComponentID:      item.ComponentID,
				QuantityReceived: line.QuantityReceived,
				TotalReceived:    item.QuantityReceived,
				Outstanding:      item.Outstanding(),
			})
		}

		status := purchaseEntity.StatusReceived
		for i := range po.Items {
			if po.Items[i].Outstanding() > 0 {
				status = purchaseEntity.StatusPartial
				break
			}
		}
		if err := repo.SaveStatus(tx, po.PurchaseOrderID, status); err != nil {
			return err
		}
		po.Status = status
		result.PurchaseOrder = po
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Delete removes a purchase order. Only drafts are deletable; anything sent
// is part of the procurement record.
func Delete(db *gorm.DB, poID uint) error {
	repo, err := purchaseRepo.NewPurchaseRepository(db)
	if err != nil {
		return err
	}
	return db.Transaction(func(tx *gorm.DB) error {
		po, err := repo.GetOrderForUpdate(tx, poID)
		if err != nil {
			return err
		}
		if po == nil {
			return apperrors.NotFoundID("purchase order", poID)
		}
		if po.Status != purchaseEntity.StatusDraft {
			return apperrors.Conflict("purchase order %s is %s, only drafts can be deleted", po.OrderNo, po.Status)
		}
		return repo.DeleteOrder(tx, po.PurchaseOrderID)
	})
}

// Get returns one purchase order with lines.
func Get(db *gorm.DB, poID uint) (*purchaseEntity.PurchaseOrder, error) {
	repo, err := purchaseRepo.NewPurchaseRepository(db)
	if err != nil {
		return nil, err
	}
	po, err := repo.GetOrderByID(poID)
	if err != nil {
		return nil, err
	}
	if po == nil {
		return nil, apperrors.NotFoundID("purchase order", poID)
	}
	return po, nil
}

// List returns purchase orders newest first, optionally filtered by status.
func List(db *gorm.DB, status string) ([]purchaseEntity.PurchaseOrder, error) {
	repo, err := purchaseRepo.NewPurchaseRepository(db)
	if err != nil {
		return nil, err
	}
	return repo.ListOrders(status)
}
