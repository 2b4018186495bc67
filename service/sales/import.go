package sales

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	salesEntity "stockops.GO/model/entity/sales"
	salesRepo "stockops.GO/model/repository/sales"
)

// OrderItemInput is the JSON input for one synced order line.
type OrderItemInput struct {
	Channel   string          `json:"channel"`
	OrderRef  string          `json:"order_ref"`
	RawSku    string          `json:"raw_sku"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	OrderedAt time.Time       `json:"ordered_at"`
}

// ImportResult holds counters from an import run.
type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Warnings []string `json:"warnings,omitempty"`
}

// ImportOrdersJSON validates and upserts synced order lines. Lines are kept
// verbatim under their raw SKU; canonicalization happens at read time.
// Duplicate (channel, order_ref, raw_sku) lines are ignored, so connectors
// can replay a sync window safely.
func ImportOrdersJSON(db *gorm.DB, items []OrderItemInput, batchSize int) (*ImportResult, error) {
	result := &ImportResult{}

	rows := make([]salesEntity.SalesOrderItem, 0, len(items))
	for i, it := range items {
		channel := strings.TrimSpace(it.Channel)
		orderRef := strings.TrimSpace(it.OrderRef)
		rawSku := strings.TrimSpace(it.RawSku)

		switch {
		case channel == "":
			result.Skipped++
			result.Warnings = append(result.Warnings, fmt.Sprintf("items[%d]: empty channel, skipping", i))
			continue
		case orderRef == "":
			result.Skipped++
			result.Warnings = append(result.Warnings, fmt.Sprintf("items[%d]: empty order_ref, skipping", i))
			continue
		case rawSku == "":
			result.Skipped++
			result.Warnings = append(result.Warnings, fmt.Sprintf("items[%d]: empty raw_sku, skipping", i))
			continue
		case it.Quantity < 1:
			result.Skipped++
			result.Warnings = append(result.Warnings, fmt.Sprintf("items[%d]: quantity %d invalid, skipping", i, it.Quantity))
			continue
		case it.UnitPrice.IsNegative():
			result.Skipped++
			result.Warnings = append(result.Warnings, fmt.Sprintf("items[%d]: negative unit_price, skipping", i))
			continue
		case it.OrderedAt.IsZero():
			result.Skipped++
			result.Warnings = append(result.Warnings, fmt.Sprintf("items[%d]: ordered_at is required, skipping", i))
			continue
		}

		rows = append(rows, salesEntity.SalesOrderItem{
			Channel:   channel,
			OrderRef:  orderRef,
			RawSku:    rawSku,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			OrderedAt: it.OrderedAt,
		})
	}

	if len(rows) > 0 {
		repo, err := salesRepo.NewSalesRepository(db)
		if err != nil {
			return nil, err
		}
		if err := repo.UpsertItems(rows, batchSize); err != nil {
			return nil, fmt.Errorf("sales upsert: %w", err)
		}
		InvalidateDiscoveryCache()
	}

	result.Imported = len(rows)
	return result, nil
}

var csvTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ImportOrdersCSV reads order lines from CSV. Required columns: channel,
// order_ref, raw_sku, quantity. Optional: unit_price, ordered_at (defaults
// to now).
func ImportOrdersCSV(db *gorm.DB, r io.Reader, batchSize int) (*ImportResult, error) {
	reader := csv.NewReader(r)
	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read CSV header: %w", err)
	}
	colIndex := make(map[string]int, len(headers))
	for i, h := range headers {
		colIndex[strings.TrimSpace(h)] = i
	}
	for _, required := range []string{"channel", "order_ref", "raw_sku", "quantity"} {
		if _, ok := colIndex[required]; !ok {
			return nil, fmt.Errorf("CSV must contain a %q column", required)
		}
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read CSV rows: %w", err)
	}

	field := func(row []string, name string) string {
		ci, ok := colIndex[name]
		if !ok || ci >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[ci])
	}

	items := make([]OrderItemInput, 0, len(rows))
	for _, row := range rows {
		item := OrderItemInput{
			Channel:   field(row, "channel"),
			OrderRef:  field(row, "order_ref"),
			RawSku:    field(row, "raw_sku"),
			OrderedAt: time.Now(),
		}
		if v := field(row, "quantity"); v != "" {
			if q, err := strconv.Atoi(v); err == nil {
				item.Quantity = q
			}
		}
		if v := field(row, "unit_price"); v != "" {
			if p, err := decimal.NewFromString(v); err == nil {
				item.UnitPrice = p
			}
		}
		if v := field(row, "ordered_at"); v != "" {
			for _, layout := range csvTimeLayouts {
				if t, err := time.Parse(layout, v); err == nil {
					item.OrderedAt = t
					break
				}
			}
		}
		items = append(items, item)
	}

	return ImportOrdersJSON(db, items, batchSize)
}
