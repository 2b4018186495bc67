package sales

import (
	"database/sql"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	salesEntity "stockops.GO/model/entity/sales"
)

// SalesEvent is one raw SKU's aggregated demand over a window.
type SalesEvent struct {
	RawSku   string `json:"raw_sku"`
	Quantity int    `json:"quantity"`
}

// RawSkuStat is one raw SKU's usage profile from synced order history.
type RawSkuStat struct {
	RawSku    string    `json:"raw_sku"`
	Orders    int       `json:"orders"`
	TotalQty  int       `json:"total_qty"`
	FirstSeen time.Time `json:"first_seen"`
	LastSeen  time.Time `json:"last_seen"`
	Channels  string    `json:"channels"`
}

type SalesRepository struct {
	db    *gorm.DB
	sqlDB *sql.DB
}

func NewSalesRepository(db *gorm.DB) (*SalesRepository, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	return &SalesRepository{db: db, sqlDB: sqlDB}, nil
}

// UpsertItems writes order lines in batches. Duplicate (channel, order_ref,
// raw_sku) rows are ignored, so re-running a channel sync is safe.
func (r *SalesRepository) UpsertItems(items []salesEntity.SalesOrderItem, batchSize int) error {
	if len(items) == 0 {
		return nil
	}
	if batchSize <= 0 {
		batchSize = 500
	}
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(items, batchSize).Error
}

// ConsumptionSince aggregates sold quantity per raw SKU from the cutoff on.
// Uses raw SQL for the hot forecasting path.
func (r *SalesRepository) ConsumptionSince(since time.Time) ([]SalesEvent, error) {
	const query = `
		SELECT raw_sku, COALESCE(SUM(quantity), 0)
		FROM sales_order_item
		WHERE ordered_at >= ?
		GROUP BY raw_sku
	`
	rows, err := r.sqlDB.Query(query, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []SalesEvent
	for rows.Next() {
		var ev SalesEvent
		if err := rows.Scan(&ev.RawSku, &ev.Quantity); err != nil {
			continue
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// RawSkuStats profiles every raw SKU seen in order history: order count,
// total quantity, first/last seen, contributing channels.
func (r *SalesRepository) RawSkuStats() ([]RawSkuStat, error) {
	const query = `
		SELECT raw_sku, COUNT(*), COALESCE(SUM(quantity), 0),
		       MIN(ordered_at), MAX(ordered_at),
		       GROUP_CONCAT(DISTINCT channel)
		FROM sales_order_item
		GROUP BY raw_sku
		ORDER BY raw_sku
	`
	rows, err := r.sqlDB.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []RawSkuStat
	for rows.Next() {
		var s RawSkuStat
		var firstSeen, lastSeen string
		if err := rows.Scan(&s.RawSku, &s.Orders, &s.TotalQty, &firstSeen, &lastSeen, &s.Channels); err != nil {
			continue
		}
		s.FirstSeen = parseDBTime(firstSeen)
		s.LastSeen = parseDBTime(lastSeen)
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

// parseDBTime decodes datetime text from aggregate columns. MIN/MAX strip
// the column's declared type, so drivers hand back strings in their own
// layout instead of time.Time.
func parseDBTime(v string) time.Time {
	layouts := []string{
		time.RFC3339Nano,
		"2006-01-02 15:04:05.999999999-07:00",
		"2006-01-02 15:04:05",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t
		}
	}
	return time.Time{}
}

// DistinctRawSkus lists raw SKUs seen since the cutoff.
func (r *SalesRepository) DistinctRawSkus(since time.Time) ([]string, error) {
	var skus []string
	err := r.db.Model(&salesEntity.SalesOrderItem{}).
		Distinct("raw_sku").
		Where("ordered_at >= ?", since).
		Order("raw_sku").
		Pluck("raw_sku", &skus).Error
	return skus, err
}
