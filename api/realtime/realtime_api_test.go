package realtime

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	catalogEntity "stockops.GO/model/entity/catalog"
	purchaseEntity "stockops.GO/model/entity/purchase"
	salesEntity "stockops.GO/model/entity/sales"
	stockEntity "stockops.GO/model/entity/stock"
	"stockops.GO/service/skumap"
)

const (
	testUser = "admin"
	testPass = "secret"
)

func basicAuth(user, pass string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(user+":"+pass))
}

func doGet(e *echo.Echo, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Authorization", basicAuth(testUser, testPass))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

// getRepositories pins the first database it sees for the process lifetime,
// so every scenario here shares one database and one server.
func TestRealtimeAPI(t *testing.T) {
	tmpFile := filepath.Join(os.TempDir(), fmt.Sprintf("realtime_api_test_%d.db", time.Now().UnixNano()))
	t.Cleanup(func() { os.Remove(tmpFile) })
	db, err := gorm.Open(sqlite.Open(tmpFile), &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA busy_timeout=5000")
	if err := db.AutoMigrate(
		&catalogEntity.Brand{},
		&catalogEntity.Component{},
		&catalogEntity.ProductSku{},
		&catalogEntity.BomEntry{},
		&catalogEntity.SkuMapping{},
		&purchaseEntity.Supplier{},
		&purchaseEntity.PurchaseOrder{},
		&purchaseEntity.PurchaseOrderItem{},
		&stockEntity.StockLevel{},
		&salesEntity.SalesOrderItem{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	skumap.InvalidateCache()
	t.Cleanup(skumap.InvalidateCache)

	supplier := purchaseEntity.Supplier{Name: "Acme", DefaultLeadTimeDays: 10, IsActive: true}
	if err := db.Create(&supplier).Error; err != nil {
		t.Fatalf("seed supplier: %v", err)
	}
	comp := catalogEntity.Component{SKU: "COMP-A", Name: "Box", SupplierID: &supplier.SupplierID, IsActive: true}
	if err := db.Create(&comp).Error; err != nil {
		t.Fatalf("seed component: %v", err)
	}
	if err := db.Create(&stockEntity.StockLevel{ComponentID: comp.ComponentID, OnHand: 20}).Error; err != nil {
		t.Fatalf("seed level: %v", err)
	}
	product := catalogEntity.ProductSku{SKU: "GB-001", Status: catalogEntity.ProductStatusActive}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	entry := catalogEntity.BomEntry{ProductSku: "GB-001", ComponentID: comp.ComponentID, Quantity: 1}
	if err := db.Create(&entry).Error; err != nil {
		t.Fatalf("seed bom: %v", err)
	}
	sale := salesEntity.SalesOrderItem{
		Channel: "shopify", OrderRef: "S-1", RawSku: "GB-001",
		Quantity: 10, OrderedAt: time.Now().AddDate(0, 0, -2),
	}
	if err := db.Create(&sale).Error; err != nil {
		t.Fatalf("seed sale: %v", err)
	}

	e := echo.New()
	apiGroup := e.Group("/api")
	apiGroup.Use(middleware.BasicAuth(func(user, pass string, c echo.Context) (bool, error) {
		return user == testUser && pass == testPass, nil
	}))
	RegisterRealtimeRoutes(apiGroup, db)

	t.Run("stock requires sku", func(t *testing.T) {
		rec := doGet(e, "/api/realtime/stock")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("stock unknown sku", func(t *testing.T) {
		rec := doGet(e, "/api/realtime/stock?sku=NOPE")
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("stock snapshot", func(t *testing.T) {
		rec := doGet(e, "/api/realtime/stock?sku=COMP-A")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
		}
		var res struct {
			SKU           string   `json:"sku"`
			OnHand        int      `json:"on_hand"`
			Available     int      `json:"available"`
			Velocity      float64  `json:"velocity"`
			DaysRemaining *float64 `json:"days_remaining"`
			Status        string   `json:"status"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if res.SKU != "COMP-A" || res.OnHand != 20 || res.Available != 20 {
			t.Errorf("got %+v, want COMP-A with 20 on hand", res)
		}
		if res.Velocity <= 0 {
			t.Errorf("velocity = %v, want > 0 after a windowed sale", res.Velocity)
		}
		if res.DaysRemaining == nil {
			t.Error("days_remaining = nil, want a value while stock lasts")
		}
		if res.Status != "ok" {
			t.Errorf("status = %q, want ok", res.Status)
		}
	})

	t.Run("component lookup", func(t *testing.T) {
		rec := doGet(e, "/api/realtime/component?sku=COMP-A")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		var got catalogEntity.Component
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if got.ComponentID != comp.ComponentID || got.Name != "Box" {
			t.Errorf("component = %+v, want the seeded row", got)
		}

		if rec := doGet(e, "/api/realtime/component?sku=NOPE"); rec.Code != http.StatusNotFound {
			t.Errorf("unknown: status = %d, want 404", rec.Code)
		}
	})
}
