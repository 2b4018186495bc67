package purchase

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	purchaseEntity "stockops.GO/model/entity/purchase"
)

type PurchaseRepository struct {
	db    *gorm.DB
	sqlDB *sql.DB
}

func NewPurchaseRepository(db *gorm.DB) (*PurchaseRepository, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	return &PurchaseRepository{db: db, sqlDB: sqlDB}, nil
}

// ---------- Suppliers ----------

// GetSupplierByID returns a supplier or nil when absent.
func (r *PurchaseRepository) GetSupplierByID(id uint) (*purchaseEntity.Supplier, error) {
	var s purchaseEntity.Supplier
	err := r.db.First(&s, "supplier_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetSuppliersByIDs fetches suppliers keyed by ID in one query.
func (r *PurchaseRepository) GetSuppliersByIDs(ids []uint) (map[uint]purchaseEntity.Supplier, error) {
	result := make(map[uint]purchaseEntity.Supplier, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var suppliers []purchaseEntity.Supplier
	if err := r.db.Where("supplier_id IN ?", ids).Find(&suppliers).Error; err != nil {
		return nil, err
	}
	for _, s := range suppliers {
		result[s.SupplierID] = s
	}
	return result, nil
}

// ---------- Purchase orders ----------

// NextOrderNo issues the next PO number for the month, PO<yyyymm><seq>
// (e.g. PO202509001). Call inside the creating transaction.
func (r *PurchaseRepository) NextOrderNo(tx *gorm.DB, now time.Time) (string, error) {
	prefix := "PO" + now.Format("200601")
	var last string
	err := tx.Model(&purchaseEntity.PurchaseOrder{}).
		Select("order_no").
		Where("order_no LIKE ?", prefix+"%").
		Order("order_no DESC").
		Limit(1).
		Scan(&last).Error
	if err != nil {
		return "", err
	}
	seq := 1
	if last != "" {
		if n, err := strconv.Atoi(strings.TrimPrefix(last, prefix)); err == nil {
			seq = n + 1
		}
	}
	return fmt.Sprintf("%s%03d", prefix, seq), nil
}

// CreateOrder inserts the PO and its items inside tx.
func (r *PurchaseRepository) CreateOrder(tx *gorm.DB, po *purchaseEntity.PurchaseOrder) error {
	return tx.Create(po).Error
}

// GetOrderByID returns the PO with its items, nil when absent.
func (r *PurchaseRepository) GetOrderByID(id uint) (*purchaseEntity.PurchaseOrder, error) {
	var po purchaseEntity.PurchaseOrder
	err := r.db.Preload("Items").First(&po, "purchase_order_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &po, nil
}

// GetOrderForUpdate loads the PO with items inside tx, row-locked on MySQL.
func (r *PurchaseRepository) GetOrderForUpdate(tx *gorm.DB, id uint) (*purchaseEntity.PurchaseOrder, error) {
	var po purchaseEntity.PurchaseOrder
	q := tx
	if tx.Dialector.Name() == "mysql" {
		q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	err := q.Preload("Items").First(&po, "purchase_order_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &po, nil
}

// ListOrders returns POs newest first, optionally filtered by status.
func (r *PurchaseRepository) ListOrders(status string) ([]purchaseEntity.PurchaseOrder, error) {
	q := r.db.Preload("Items").Order("purchase_order_id DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var orders []purchaseEntity.PurchaseOrder
	err := q.Find(&orders).Error
	return orders, err
}

// SaveStatus persists a status transition inside tx.
func (r *PurchaseRepository) SaveStatus(tx *gorm.DB, poID uint, status string) error {
	return tx.Model(&purchaseEntity.PurchaseOrder{}).
		Where("purchase_order_id = ?", poID).
		Update("status", status).Error
}

// SaveItemReceived persists a line's received counter inside tx.
func (r *PurchaseRepository) SaveItemReceived(tx *gorm.DB, itemID uint, quantityReceived int) error {
	return tx.Model(&purchaseEntity.PurchaseOrderItem{}).
		Where("purchase_order_item_id = ?", itemID).
		Update("quantity_received", quantityReceived).Error
}

// DeleteOrder removes the PO and its items inside tx. Caller checks the
// draft-only rule first.
func (r *PurchaseRepository) DeleteOrder(tx *gorm.DB, poID uint) error {
	if err := tx.Delete(&purchaseEntity.PurchaseOrderItem{}, "purchase_order_id = ?", poID).Error; err != nil {
		return err
	}
	return tx.Delete(&purchaseEntity.PurchaseOrder{}, "purchase_order_id = ?", poID).Error
}

// OutstandingByComponent sums quantity_ordered - quantity_received per
// component over open ({sent, confirmed, partial}) orders.
// Uses raw SQL for the join.
func (r *PurchaseRepository) OutstandingByComponent() (map[uint]int, error) {
	const query = `
		SELECT i.component_id, COALESCE(SUM(i.quantity_ordered - i.quantity_received), 0)
		FROM purchase_order_item i
		JOIN purchase_order p ON p.purchase_order_id = i.purchase_order_id
		WHERE p.status IN ('sent', 'confirmed', 'partial')
		GROUP BY i.component_id
	`
	rows, err := r.sqlDB.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[uint]int)
	for rows.Next() {
		var componentID uint
		var outstanding int
		if err := rows.Scan(&componentID, &outstanding); err != nil {
			continue
		}
		result[componentID] = outstanding
	}
	return result, rows.Err()
}
