package graphql

import (
	"bytes"
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
	"gorm.io/gorm"

	catalogEntity "stockops.GO/model/entity/catalog"
	purchaseEntity "stockops.GO/model/entity/purchase"
	salesEntity "stockops.GO/model/entity/sales"
	stockEntity "stockops.GO/model/entity/stock"
	salesService "stockops.GO/service/sales"
	"stockops.GO/service/skumap"
)

func graphqlTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	tmpFile := filepath.Join(os.TempDir(), fmt.Sprintf("graphql_api_test_%s_%d.db", t.Name(), time.Now().UnixNano()))
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
		&stockEntity.StockAdjustment{},
		&salesEntity.SalesOrderItem{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	skumap.InvalidateCache()
	salesService.InvalidateDiscoveryCache()
	t.Cleanup(func() {
		skumap.InvalidateCache()
		salesService.InvalidateDiscoveryCache()
	})
	return db
}

type gqlResponse struct {
	Data   map[string]interface{}
	Errors []struct{ Message string }
}

func postGraphQL(t *testing.T, e *echo.Echo, body map[string]interface{}, headers map[string]string) gqlResponse {
	t.Helper()
	b, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/graphql", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("graphql status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	var resp gqlResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return resp
}

func seedStockScene(t *testing.T, db *gorm.DB) {
	t.Helper()
	comp := catalogEntity.Component{SKU: "COMP-A", Name: "Box", IsActive: true}
	if err := db.Create(&comp).Error; err != nil {
		t.Fatalf("seed component: %v", err)
	}
	if err := db.Create(&stockEntity.StockLevel{ComponentID: comp.ComponentID, OnHand: 40}).Error; err != nil {
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
		Quantity: 20, OrderedAt: time.Now().AddDate(0, 0, -5),
	}
	if err := db.Create(&sale).Error; err != nil {
		t.Fatalf("seed sale: %v", err)
	}
}

func TestGraphQL_StockOverview_DataCheck(t *testing.T) {
	e := echo.New()
	db := graphqlTestDB(t)
	seedStockScene(t, db)
	RegisterGraphQLRoutes(e, db)

	resp := postGraphQL(t, e, map[string]interface{}{
		"query": `query { stockOverview { components { sku onHand status windowDays } summary { ok outOfStock } warnings } }`,
	}, nil)
	if len(resp.Errors) > 0 {
		t.Fatalf("graphql errors: %v", resp.Errors)
	}

	overview := resp.Data["stockOverview"].(map[string]interface{})
	components := overview["components"].([]interface{})
	if len(components) != 1 {
		t.Fatalf("components len = %d, want 1", len(components))
	}
	comp := components[0].(map[string]interface{})
	if comp["sku"] != "COMP-A" {
		t.Errorf("components[0].sku = %v, want COMP-A", comp["sku"])
	}
	if int(comp["onHand"].(float64)) != 40 {
		t.Errorf("components[0].onHand = %v, want 40", comp["onHand"])
	}
	if comp["status"] != "ok" {
		t.Errorf("components[0].status = %v, want ok", comp["status"])
	}
	summary := overview["summary"].(map[string]interface{})
	if int(summary["ok"].(float64)) != 1 {
		t.Errorf("summary.ok = %v, want 1", summary["ok"])
	}
}

func TestGraphQL_StockOverview_StatusFilter(t *testing.T) {
	e := echo.New()
	db := graphqlTestDB(t)
	seedStockScene(t, db)
	RegisterGraphQLRoutes(e, db)

	resp := postGraphQL(t, e, map[string]interface{}{
		"query": `query { stockOverview(status: "out_of_stock") { components { sku } summary { ok } } }`,
	}, nil)
	if len(resp.Errors) > 0 {
		t.Fatalf("graphql errors: %v", resp.Errors)
	}
	overview := resp.Data["stockOverview"].(map[string]interface{})
	components := overview["components"].([]interface{})
	if len(components) != 0 {
		t.Errorf("components len = %d, want 0 after filter", len(components))
	}
	// Summary still counts everything; the filter narrows the list only.
	summary := overview["summary"].(map[string]interface{})
	if int(summary["ok"].(float64)) != 1 {
		t.Errorf("summary.ok = %v, want 1", summary["ok"])
	}
}

func TestGraphQL_StockStatus_BySku(t *testing.T) {
	e := echo.New()
	db := graphqlTestDB(t)
	seedStockScene(t, db)
	RegisterGraphQLRoutes(e, db)

	resp := postGraphQL(t, e, map[string]interface{}{
		"query":     `query($sku: String!) { stockStatus(sku: $sku) { sku available status } }`,
		"variables": map[string]interface{}{"sku": "COMP-A"},
	}, nil)
	if len(resp.Errors) > 0 {
		t.Fatalf("graphql errors: %v", resp.Errors)
	}
	statusVal := resp.Data["stockStatus"]
	if statusVal == nil {
		t.Fatalf("stockStatus is null")
	}
	status := statusVal.(map[string]interface{})
	if status["sku"] != "COMP-A" || int(status["available"].(float64)) != 40 {
		t.Errorf("stockStatus = %v, want COMP-A with 40 available", status)
	}

	resp = postGraphQL(t, e, map[string]interface{}{
		"query":     `query($sku: String!) { stockStatus(sku: $sku) { sku } }`,
		"variables": map[string]interface{}{"sku": "NOPE"},
	}, nil)
	if len(resp.Errors) > 0 {
		t.Fatalf("graphql errors: %v", resp.Errors)
	}
	if resp.Data["stockStatus"] != nil {
		t.Errorf("stockStatus = %v, want null for unknown sku", resp.Data["stockStatus"])
	}
}

func TestGraphQL_WindowOverrideHeader(t *testing.T) {
	e := echo.New()
	db := graphqlTestDB(t)
	seedStockScene(t, db)
	RegisterGraphQLRoutes(e, db)

	resp := postGraphQL(t, e, map[string]interface{}{
		"query": `query { stockOverview { components { windowDays consumedOverWindow velocity } } }`,
	}, map[string]string{"Forecast-Window": "10"})
	if len(resp.Errors) > 0 {
		t.Fatalf("graphql errors: %v", resp.Errors)
	}
	overview := resp.Data["stockOverview"].(map[string]interface{})
	comp := overview["components"].([]interface{})[0].(map[string]interface{})
	if int(comp["windowDays"].(float64)) != 10 {
		t.Errorf("windowDays = %v, want 10 from header override", comp["windowDays"])
	}
	if int(comp["consumedOverWindow"].(float64)) != 20 {
		t.Errorf("consumedOverWindow = %v, want 20", comp["consumedOverWindow"])
	}
	if got := comp["velocity"].(float64); got != 2.0 {
		t.Errorf("velocity = %v, want 2.0 over the 10 day window", got)
	}
}

func TestGraphQL_WindowOverrideVariables(t *testing.T) {
	e := echo.New()
	db := graphqlTestDB(t)
	seedStockScene(t, db)
	RegisterGraphQLRoutes(e, db)

	resp := postGraphQL(t, e, map[string]interface{}{
		"query":     `query { stockOverview { components { windowDays } } }`,
		"variables": map[string]interface{}{"__Window": 10},
	}, nil)
	if len(resp.Errors) > 0 {
		t.Fatalf("graphql errors: %v", resp.Errors)
	}
	overview := resp.Data["stockOverview"].(map[string]interface{})
	comp := overview["components"].([]interface{})[0].(map[string]interface{})
	if int(comp["windowDays"].(float64)) != 10 {
		t.Errorf("windowDays = %v, want 10 from variables override", comp["windowDays"])
	}
}

func TestGraphQL_SkuMappings(t *testing.T) {
	e := echo.New()
	db := graphqlTestDB(t)
	RegisterGraphQLRoutes(e, db)

	if err := db.Create(&catalogEntity.SkuMapping{OldSku: "OLD-1", CurrentSku: "GB-001", Platform: "amazon"}).Error; err != nil {
		t.Fatalf("seed mapping: %v", err)
	}

	resp := postGraphQL(t, e, map[string]interface{}{
		"query": `query { skuMappings { id oldSku currentSku platform } }`,
	}, nil)
	if len(resp.Errors) > 0 {
		t.Fatalf("graphql errors: %v", resp.Errors)
	}
	mappings := resp.Data["skuMappings"].([]interface{})
	if len(mappings) != 1 {
		t.Fatalf("skuMappings len = %d, want 1", len(mappings))
	}
	m := mappings[0].(map[string]interface{})
	if m["oldSku"] != "OLD-1" || m["currentSku"] != "GB-001" {
		t.Errorf("mapping = %v, want OLD-1 -> GB-001", m)
	}
}

func TestGraphQL_Extension_Registry(t *testing.T) {
	e := echo.New()
	db := graphqlTestDB(t)
	RegisterGraphQLRoutes(e, db)

	resp := postGraphQL(t, e, map[string]interface{}{
		"query": `query { _extension(name: "ping", args: "{}") }`,
	}, nil)
	if len(resp.Errors) > 0 {
		t.Fatalf("graphql errors: %v", resp.Errors)
	}
	ext := resp.Data["_extension"]
	if ext == nil {
		t.Fatalf("_extension is null")
	}
	s, ok := ext.(string)
	if !ok {
		t.Fatalf("_extension = %T, want string", ext)
	}
	if s != `{"pong":"ok"}` {
		t.Errorf("_extension = %q, want %q", s, `{"pong":"ok"}`)
	}
}

func TestGraphQL_Playground(t *testing.T) {
	e := echo.New()
	db := graphqlTestDB(t)
	RegisterGraphQLRoutes(e, db)

	req := httptest.NewRequest(http.MethodGet, "/playground", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/html" {
		t.Errorf("content type = %q, want text/html", ct)
	}
}
