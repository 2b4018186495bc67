package graphql

import (
	"context"
	"testing"

	gql "github.com/graph-gophers/graphql-go"
	"github.com/labstack/echo/v4"

	graphqlpkg "stockops.GO/graphql"
	gqlmodels "stockops.GO/graphql/models"
)

// MockRootResolver answers every query with canned values (no DB).
type MockRootResolver struct{}

func (m *MockRootResolver) Query() *MockQueryResolver {
	return &MockQueryResolver{}
}

type MockQueryResolver struct{}

type mockStockOverviewArgs struct {
	Status *string
}

func (m *MockQueryResolver) StockOverview(ctx context.Context, args mockStockOverviewArgs) (*gqlmodels.StockOverview, error) {
	days := 12.5
	return &gqlmodels.StockOverview{
		Components: []*gqlmodels.ComponentStatus{{
			ComponentID:   1,
			SKU:           "MOCK-COMP",
			Name:          "Mock Component",
			OnHand:        25,
			Available:     25,
			WindowDays:    30,
			Velocity:      2,
			DaysRemaining: &days,
			Status:        "ok",
		}},
		Summary:  &gqlmodels.StockSummary{OK: 1},
		Warnings: []string{},
	}, nil
}

type mockStockStatusArgs struct {
	Sku string
}

func (m *MockQueryResolver) StockStatus(ctx context.Context, args mockStockStatusArgs) (*gqlmodels.ComponentStatus, error) {
	return &gqlmodels.ComponentStatus{
		ComponentID: 1,
		SKU:         args.Sku,
		Name:        "Mock Component",
		WindowDays:  30,
		Status:      "ok",
	}, nil
}

type mockPurchaseOrdersArgs struct {
	Status *string
}

func (m *MockQueryResolver) PurchaseOrders(ctx context.Context, args mockPurchaseOrdersArgs) ([]*gqlmodels.PurchaseOrder, error) {
	return []*gqlmodels.PurchaseOrder{mockPurchaseOrder(1)}, nil
}

type mockPurchaseOrderArgs struct {
	ID int32
}

func (m *MockQueryResolver) PurchaseOrder(ctx context.Context, args mockPurchaseOrderArgs) (*gqlmodels.PurchaseOrder, error) {
	return mockPurchaseOrder(args.ID), nil
}

func mockPurchaseOrder(id int32) *gqlmodels.PurchaseOrder {
	return &gqlmodels.PurchaseOrder{
		ID:           id,
		OrderNo:      "PO-MOCK-1",
		SupplierID:   1,
		Status:       "sent",
		ShippingCost: "0",
		Created:      "2025-06-01T00:00:00Z",
		Items: []*gqlmodels.PurchaseOrderItem{{
			ID:              1,
			ComponentID:     1,
			QuantityOrdered: 40,
			UnitPrice:       "1.25",
		}},
	}
}

func (m *MockQueryResolver) SkuMappings(ctx context.Context) ([]*gqlmodels.SkuMapping, error) {
	return []*gqlmodels.SkuMapping{{ID: 1, OldSku: "OLD-MOCK", CurrentSku: "MOCK-NEW"}}, nil
}

func (m *MockQueryResolver) SkuDiscovery(ctx context.Context) ([]*gqlmodels.DiscoveredSku, error) {
	return []*gqlmodels.DiscoveredSku{{
		RawSku:     "mock_raw",
		Orders:     3,
		TotalQty:   9,
		FirstSeen:  "2025-05-01T00:00:00Z",
		LastSeen:   "2025-06-01T00:00:00Z",
		Channels:   []string{"etsy"},
		Resolution: "unmapped",
	}}, nil
}

type mockExtensionArgs struct {
	Name string
	Args *string
}

func (m *MockQueryResolver) Extension(ctx context.Context, args mockExtensionArgs) (*string, error) {
	s := `{"mock":"ok"}`
	return &s, nil
}

// NewMockSchema parses the real schema against the mock resolvers.
func NewMockSchema() *gql.Schema {
	schema, err := gql.ParseSchema(graphqlpkg.Schema(), &MockRootResolver{}, gql.UseFieldResolvers())
	if err != nil {
		panic("mock schema: " + err.Error())
	}
	return schema
}

func mockServer() *echo.Echo {
	e := echo.New()
	RegisterGraphQLRoutesWithSchema(e, NewMockSchema())
	return e
}

func TestMockSchema_StockOverview(t *testing.T) {
	e := mockServer()

	resp := postGraphQL(t, e, map[string]interface{}{
		"query": `{ stockOverview { components { sku onHand daysRemaining } summary { ok } } }`,
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
	if comp["sku"] != "MOCK-COMP" {
		t.Errorf("components[0].sku = %v, want MOCK-COMP", comp["sku"])
	}
	if int(comp["onHand"].(float64)) != 25 {
		t.Errorf("components[0].onHand = %v, want 25", comp["onHand"])
	}
	if comp["daysRemaining"].(float64) != 12.5 {
		t.Errorf("components[0].daysRemaining = %v, want 12.5", comp["daysRemaining"])
	}
}

// Every Query field resolves through the schema in one request, so a resolver
// signature drifting from schema.graphqls fails here before any DB test runs.
func TestMockSchema_AllQueryFields(t *testing.T) {
	e := mockServer()

	resp := postGraphQL(t, e, map[string]interface{}{
		"query": `{
			stockStatus(sku: "MOCK-COMP") { sku status }
			purchaseOrders { orderNo items { unitPrice } }
			purchaseOrder(id: 7) { id status }
			skuMappings { oldSku currentSku }
			skuDiscovery { rawSku resolution channels }
			_extension(name: "anything")
		}`,
	}, nil)
	if len(resp.Errors) > 0 {
		t.Fatalf("graphql errors: %v", resp.Errors)
	}

	status := resp.Data["stockStatus"].(map[string]interface{})
	if status["sku"] != "MOCK-COMP" {
		t.Errorf("stockStatus.sku = %v, want MOCK-COMP", status["sku"])
	}

	orders := resp.Data["purchaseOrders"].([]interface{})
	if len(orders) != 1 {
		t.Fatalf("purchaseOrders len = %d, want 1", len(orders))
	}
	first := orders[0].(map[string]interface{})
	if first["orderNo"] != "PO-MOCK-1" {
		t.Errorf("purchaseOrders[0].orderNo = %v, want PO-MOCK-1", first["orderNo"])
	}
	items := first["items"].([]interface{})
	if items[0].(map[string]interface{})["unitPrice"] != "1.25" {
		t.Errorf("items[0].unitPrice = %v, want 1.25", items[0])
	}

	po := resp.Data["purchaseOrder"].(map[string]interface{})
	if int(po["id"].(float64)) != 7 {
		t.Errorf("purchaseOrder.id = %v, want 7", po["id"])
	}

	mappings := resp.Data["skuMappings"].([]interface{})
	if len(mappings) != 1 || mappings[0].(map[string]interface{})["oldSku"] != "OLD-MOCK" {
		t.Errorf("skuMappings = %v, want one OLD-MOCK row", mappings)
	}

	discovered := resp.Data["skuDiscovery"].([]interface{})
	if len(discovered) != 1 || discovered[0].(map[string]interface{})["resolution"] != "unmapped" {
		t.Errorf("skuDiscovery = %v, want one unmapped row", discovered)
	}

	if resp.Data["_extension"] != `{"mock":"ok"}` {
		t.Errorf("_extension = %v, want {\"mock\":\"ok\"}", resp.Data["_extension"])
	}
}
