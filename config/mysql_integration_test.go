package config

import (
	"fmt"
	"os"
	"testing"
	"time"

	"gorm.io/gorm"

	catalogEntity "stockops.GO/model/entity/catalog"
	purchaseEntity "stockops.GO/model/entity/purchase"
	salesEntity "stockops.GO/model/entity/sales"
	stockEntity "stockops.GO/model/entity/stock"
	stockService "stockops.GO/service/stock"
)

const integrationSKUPrefix = "STOCKOPS-ITEST-"

// mysqlTestDB connects to the MySQL instance named by the MYSQL_* env vars.
// Without MYSQL_HOST or MYSQL_DSN the integration tests skip, so the suite
// stays green on machines that only run the sqlite tests.
func mysqlTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	if os.Getenv("MYSQL_HOST") == "" && os.Getenv("MYSQL_DSN") == "" {
		t.Skip("MYSQL_HOST not set, skipping MySQL integration test")
	}
	t.Setenv("DB_DRIVER", "")
	t.Setenv("GORM_LOG", "off")

	db, err := NewDB()
	if err != nil {
		t.Skipf("cannot connect to MySQL (%s:%s): %v, skipping integration test",
			os.Getenv("MYSQL_HOST"), os.Getenv("MYSQL_PORT"), err)
	}
	if err := db.AutoMigrate(
		&catalogEntity.Brand{},
		&catalogEntity.Component{},
		&catalogEntity.ProductSku{},
		&catalogEntity.BomEntry{},
		&catalogEntity.SkuMapping{},
		&stockEntity.StockLevel{},
		&stockEntity.StockAdjustment{},
		&purchaseEntity.Supplier{},
		&purchaseEntity.PurchaseOrder{},
		&purchaseEntity.PurchaseOrderItem{},
		&salesEntity.SalesOrderItem{},
	); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func cleanupIntegrationRows(t *testing.T, db *gorm.DB) {
	t.Helper()

	var componentIDs []uint
	db.Table("component").Where("sku LIKE ?", integrationSKUPrefix+"%").Pluck("component_id", &componentIDs)
	if len(componentIDs) == 0 {
		return
	}
	db.Exec("DELETE FROM stock_adjustment WHERE component_id IN ?", componentIDs)
	db.Exec("DELETE FROM stock_level WHERE component_id IN ?", componentIDs)
	result := db.Exec("DELETE FROM component WHERE component_id IN ?", componentIDs)
	t.Logf("cleaned up %d integration test components", result.RowsAffected)
}

// ---------- Ledger round trip ----------

func TestMySQLIntegration_LedgerRoundTrip(t *testing.T) {
	db := mysqlTestDB(t)
	cleanupIntegrationRows(t, db)
	t.Cleanup(func() { cleanupIntegrationRows(t, db) })

	sku := fmt.Sprintf("%s%d", integrationSKUPrefix, time.Now().UnixNano())
	comp := catalogEntity.Component{SKU: sku, Name: "Integration test component", IsActive: true}
	if err := db.Create(&comp).Error; err != nil {
		t.Fatalf("create component: %v", err)
	}

	res, err := stockService.Adjust(db, stockService.AdjustInput{
		ComponentID:    comp.ComponentID,
		AdjustmentType: stockEntity.AdjustmentAdd,
		Quantity:       25,
	})
	if err != nil {
		t.Fatalf("adjust add: %v", err)
	}
	if res.NewOnHand != 25 {
		t.Errorf("new on_hand after add = %d, want 25", res.NewOnHand)
	}

	res, err = stockService.Adjust(db, stockService.AdjustInput{
		ComponentID:    comp.ComponentID,
		AdjustmentType: stockEntity.AdjustmentCount,
		Quantity:       18,
		Notes:          "integration recount",
	})
	if err != nil {
		t.Fatalf("adjust count: %v", err)
	}
	if res.NewOnHand != 18 || res.Delta != -7 {
		t.Errorf("recount = %d (delta %d), want 18 (delta -7)", res.NewOnHand, res.Delta)
	}

	var level stockEntity.StockLevel
	if err := db.Where("component_id = ?", comp.ComponentID).First(&level).Error; err != nil {
		t.Fatalf("read level: %v", err)
	}
	if level.OnHand != 18 {
		t.Errorf("stored on_hand = %d, want 18", level.OnHand)
	}

	history, err := stockService.History(db, comp.ComponentID, 10)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("history rows = %d, want 2", len(history))
	}
	if history[0].AdjustmentType != stockEntity.AdjustmentCount {
		t.Errorf("newest history row type = %s, want count", history[0].AdjustmentType)
	}
}

// ---------- Table counts ----------

func TestMySQLIntegration_TableCounts(t *testing.T) {
	db := mysqlTestDB(t)

	tables := []string{
		"component",
		"product_sku",
		"bom_entry",
		"sku_mapping",
		"stock_level",
		"stock_adjustment",
		"supplier",
		"purchase_order",
		"purchase_order_item",
		"sales_order_item",
	}
	for _, tbl := range tables {
		var count int64
		if err := db.Table(tbl).Count(&count).Error; err != nil {
			t.Errorf("count %s: %v", tbl, err)
			continue
		}
		t.Logf("  %-25s %d rows", tbl, count)
	}
}
