package alert

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	catalogEntity "stockops.GO/model/entity/catalog"
	purchaseEntity "stockops.GO/model/entity/purchase"
	salesEntity "stockops.GO/model/entity/sales"
	stockEntity "stockops.GO/model/entity/stock"
	"stockops.GO/service/forecast"
	"stockops.GO/service/skumap"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&catalogEntity.Brand{},
		&catalogEntity.Component{},
		&catalogEntity.ProductSku{},
		&catalogEntity.BomEntry{},
		&catalogEntity.SkuMapping{},
		&purchaseEntity.PurchaseOrder{},
		&purchaseEntity.PurchaseOrderItem{},
		&stockEntity.StockLevel{},
		&salesEntity.SalesOrderItem{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	skumap.InvalidateCache()
	t.Cleanup(skumap.InvalidateCache)
	return db
}

// seedScenario sets up one healthy, one critical and one empty component:
// COMP-OK has deep stock, COMP-LOW sells 2/day with 4 days left, COMP-OUT
// has nothing on hand.
func seedScenario(t *testing.T, db *gorm.DB, now time.Time) {
	t.Helper()
	brand := catalogEntity.Brand{Code: "GB", Name: "Giftbox", IsActive: true}
	if err := db.Create(&brand).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}
	comps := []catalogEntity.Component{
		{SKU: "COMP-OK", Name: "Box", IsActive: true},
		{SKU: "COMP-LOW", Name: "Ribbon", IsActive: true},
		{SKU: "COMP-OUT", Name: "Card", IsActive: true},
	}
	if err := db.Create(&comps).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}
	products := []catalogEntity.ProductSku{
		{SKU: "GB-OK", BrandID: brand.BrandID, Status: catalogEntity.ProductStatusActive},
		{SKU: "GB-LOW", BrandID: brand.BrandID, Status: catalogEntity.ProductStatusActive},
	}
	if err := db.Create(&products).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}
	entries := []catalogEntity.BomEntry{
		{ProductSku: "GB-OK", BrandID: brand.BrandID, ComponentID: comps[0].ComponentID, Quantity: 1},
		{ProductSku: "GB-LOW", BrandID: brand.BrandID, ComponentID: comps[1].ComponentID, Quantity: 1},
	}
	if err := db.Create(&entries).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}
	levels := []stockEntity.StockLevel{
		{ComponentID: comps[0].ComponentID, OnHand: 500},
		{ComponentID: comps[1].ComponentID, OnHand: 8},
	}
	if err := db.Create(&levels).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}
	orders := []salesEntity.SalesOrderItem{
		{Channel: "etsy", OrderRef: "o1", RawSku: "GB-OK", Quantity: 30, OrderedAt: now.AddDate(0, 0, -10)},
		{Channel: "etsy", OrderRef: "o2", RawSku: "GB-LOW", Quantity: 60, OrderedAt: now.AddDate(0, 0, -10)},
	}
	if err := db.Create(&orders).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func TestBuildReport_PartitionsBySeverity(t *testing.T) {
	db := testDB(t)
	now := time.Date(2025, 6, 15, 7, 0, 0, 0, time.UTC)
	seedScenario(t, db, now)

	data, err := BuildReport(db, now)
	if err != nil {
		t.Fatalf("BuildReport: %v", err)
	}

	if len(data.OutOfStock) != 1 || data.OutOfStock[0].SKU != "COMP-OUT" {
		t.Errorf("out of stock = %+v, want COMP-OUT", skus(data.OutOfStock))
	}
	if len(data.Critical) != 1 || data.Critical[0].SKU != "COMP-LOW" {
		t.Errorf("critical = %+v, want COMP-LOW", skus(data.Critical))
	}
	if len(data.Warning) != 0 {
		t.Errorf("warning = %+v, want none", skus(data.Warning))
	}
	if data.Empty() {
		t.Error("Empty() = true, want false")
	}
	if data.Critical[0].SuggestedOrderQty == 0 {
		t.Error("critical component has no suggested order quantity")
	}
	if data.Summary.OK != 1 {
		t.Errorf("summary.OK = %d, want 1: the healthy component stays out of the report", data.Summary.OK)
	}
}

func TestBuildReport_EmptyWhenAllHealthy(t *testing.T) {
	db := testDB(t)
	now := time.Date(2025, 6, 15, 7, 0, 0, 0, time.UTC)

	comp := catalogEntity.Component{SKU: "COMP-OK", Name: "Box", IsActive: true}
	if err := db.Create(&comp).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}
	level := stockEntity.StockLevel{ComponentID: comp.ComponentID, OnHand: 100}
	if err := db.Create(&level).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	data, err := BuildReport(db, now)
	if err != nil {
		t.Fatalf("BuildReport: %v", err)
	}
	if !data.Empty() {
		t.Errorf("Empty() = false for a healthy warehouse: %+v", data)
	}
}

func skus(components []forecast.ComponentStatus) []string {
	out := make([]string, 0, len(components))
	for _, c := range components {
		out = append(out, c.SKU)
	}
	return out
}

type captureNotifier struct {
	mu   sync.Mutex
	got  *LowStockAlertData
	fail bool
}

func (c *captureNotifier) Notify(data *LowStockAlertData) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.got = data
	if c.fail {
		return errors.New("delivery failed")
	}
	return nil
}

func TestRun_FansOutToNotifiers(t *testing.T) {
	db := testDB(t)
	now := time.Date(2025, 6, 15, 7, 0, 0, 0, time.UTC)
	seedScenario(t, db, now)

	first := &captureNotifier{}
	second := &captureNotifier{fail: true}
	RegisterNotifier(first)
	RegisterNotifier(second)
	t.Cleanup(func() {
		notifierMu.Lock()
		notifiers = nil
		notifierMu.Unlock()
	})

	err := Run(db, now)
	if err == nil {
		t.Fatal("want the failing notifier's error surfaced")
	}

	// Both notifiers got the report despite one failing.
	if first.got == nil || second.got == nil {
		t.Fatal("not every notifier was called")
	}
	if len(first.got.Critical) != 1 {
		t.Errorf("delivered critical = %d, want 1", len(first.got.Critical))
	}
}
