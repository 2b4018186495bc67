package graphqlserver

import (
	"context"

	gql "github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"
	"gorm.io/gorm"

	"stockops.GO/graphql"
	gqlmodels "stockops.GO/graphql/models"
	"stockops.GO/graphql/resolvers"
)

// RootResolver is the root for graphql-go. Query resolvers are created per
// request so the window override from headers/variables applies.
type RootResolver struct {
	DB *gorm.DB
}

// Query returns the query resolver.
func (r *RootResolver) Query() *QueryResolver {
	return &QueryResolver{db: r.DB}
}

// QueryResolver adapts graphql-go argument structs onto the resolvers package.
type QueryResolver struct {
	db *gorm.DB
}

func (r *QueryResolver) query() *resolvers.QueryResolver {
	return resolvers.NewQueryResolver(r.db)
}

// StockOverviewArgs matches the stockOverview query arguments.
type StockOverviewArgs struct {
	Status *string
}

func (r *QueryResolver) StockOverview(ctx context.Context, args StockOverviewArgs) (*gqlmodels.StockOverview, error) {
	return r.query().StockOverview(ctx, args.Status)
}

// StockStatusArgs matches the stockStatus query arguments.
type StockStatusArgs struct {
	Sku string
}

func (r *QueryResolver) StockStatus(ctx context.Context, args StockStatusArgs) (*gqlmodels.ComponentStatus, error) {
	return r.query().StockStatus(ctx, args.Sku)
}

// PurchaseOrdersArgs matches the purchaseOrders query arguments.
type PurchaseOrdersArgs struct {
	Status *string
}

func (r *QueryResolver) PurchaseOrders(ctx context.Context, args PurchaseOrdersArgs) ([]*gqlmodels.PurchaseOrder, error) {
	return r.query().PurchaseOrders(ctx, args.Status)
}

// PurchaseOrderArgs matches the purchaseOrder query arguments.
type PurchaseOrderArgs struct {
	ID int32
}

func (r *QueryResolver) PurchaseOrder(ctx context.Context, args PurchaseOrderArgs) (*gqlmodels.PurchaseOrder, error) {
	return r.query().PurchaseOrder(ctx, args.ID)
}

func (r *QueryResolver) SkuMappings(ctx context.Context) ([]*gqlmodels.SkuMapping, error) {
	return r.query().SkuMappings(ctx)
}

func (r *QueryResolver) SkuDiscovery(ctx context.Context) ([]*gqlmodels.DiscoveredSku, error) {
	return r.query().SkuDiscovery(ctx)
}

// ExtensionArgs for _extension(name, args).
type ExtensionArgs struct {
	Name string
	Args *string
}

func (r *QueryResolver) Extension(ctx context.Context, args ExtensionArgs) (*string, error) {
	return r.query().Extension(ctx, args.Name, args.Args)
}

// NewSchema parses the schema and returns a graphql-go Schema.
func NewSchema(db *gorm.DB) (*gql.Schema, error) {
	return gql.ParseSchema(graphql.Schema(), &RootResolver{DB: db}, gql.UseFieldResolvers())
}

// Handler returns an http.Handler for GraphQL (relay format).
func Handler(schema *gql.Schema) *relay.Handler {
	return &relay.Handler{Schema: schema}
}
