package stock

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	stockEntity "stockops.GO/model/entity/stock"
)

type StockRepository struct {
	db *gorm.DB
}

// NewStockRepository wraps a gorm handle, which may be a transaction. Unlike
// the other repositories this one runs no raw SQL, so it never needs the
// underlying *sql.DB and is safe to construct inside db.Transaction.
func NewStockRepository(db *gorm.DB) *StockRepository {
	return &StockRepository{db: db}
}

// WithLock adds a row lock on MySQL. SQLite has no SELECT ... FOR UPDATE;
// its single writer serializes the transaction anyway.
func WithLock(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "mysql" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// GetLevelForUpdate loads one stock level inside tx, row-locked on MySQL.
// Returns nil when the component has no stock row.
func (r *StockRepository) GetLevelForUpdate(tx *gorm.DB, componentID uint) (*stockEntity.StockLevel, error) {
	var level stockEntity.StockLevel
	err := WithLock(tx).First(&level, "component_id = ?", componentID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &level, nil
}

// GetLevelByComponentID returns a snapshot read of one stock level, nil when
// absent.
func (r *StockRepository) GetLevelByComponentID(componentID uint) (*stockEntity.StockLevel, error) {
	var level stockEntity.StockLevel
	err := r.db.First(&level, "component_id = ?", componentID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &level, nil
}

// EnsureLevel creates the zero-valued stock row for a component if it does
// not exist yet.
func (r *StockRepository) EnsureLevel(componentID uint) error {
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&stockEntity.StockLevel{ComponentID: componentID}).Error
}

// ListLevels returns all stock levels keyed by component ID.
func (r *StockRepository) ListLevels() (map[uint]stockEntity.StockLevel, error) {
	var levels []stockEntity.StockLevel
	if err := r.db.Find(&levels).Error; err != nil {
		return nil, err
	}
	result := make(map[uint]stockEntity.StockLevel, len(levels))
	for _, l := range levels {
		result[l.ComponentID] = l
	}
	return result, nil
}

// SaveLevel persists mutated on_hand/reserved/on_order counters inside tx.
func (r *StockRepository) SaveLevel(tx *gorm.DB, level *stockEntity.StockLevel) error {
	return tx.Model(&stockEntity.StockLevel{}).
		Where("stock_level_id = ?", level.StockLevelID).
		Updates(map[string]interface{}{
			"on_hand":  level.OnHand,
			"reserved": level.Reserved,
			"on_order": level.OnOrder,
		}).Error
}

// InsertAdjustment appends one audit row inside tx. Rows are never updated.
func (r *StockRepository) InsertAdjustment(tx *gorm.DB, adj *stockEntity.StockAdjustment) error {
	return tx.Create(adj).Error
}

// ReferenceExists reports whether an adjustment already carries the given
// request reference.
func (r *StockRepository) ReferenceExists(tx *gorm.DB, reference string) (bool, error) {
	if reference == "" {
		return false, nil
	}
	var count int64
	err := tx.Model(&stockEntity.StockAdjustment{}).
		Where("reference = ?", reference).
		Count(&count).Error
	return count > 0, err
}

// AdjustmentsByComponent returns the audit trail for one component, newest
// first.
func (r *StockRepository) AdjustmentsByComponent(componentID uint, limit int) ([]stockEntity.StockAdjustment, error) {
	if limit <= 0 {
		limit = 50
	}
	var adjs []stockEntity.StockAdjustment
	err := r.db.Where("component_id = ?", componentID).
		Order("stock_adjustment_id DESC").
		Limit(limit).
		Find(&adjs).Error
	return adjs, err
}
