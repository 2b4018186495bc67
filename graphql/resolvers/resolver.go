package resolvers

import (
	"context"
	"encoding/json"

	"gorm.io/gorm"

	"stockops.GO/config"
	"stockops.GO/graphql"
	gqlregistry "stockops.GO/graphql/registry"
)

func init() {
	gqlregistry.RegisterQueryResolverFactory(func(db interface{}) interface{} {
		return &QueryResolver{db: db.(*gorm.DB)}
	})
}

// QueryResolver is the single resolver for all Query fields.
// Methods live in stock.go, purchase.go, skumap.go.
// New Query fields: use RegisterSchemaExtension + add method on QueryResolver,
// or use _extension for fully dynamic resolvers.
type QueryResolver struct {
	db *gorm.DB
}

// NewQueryResolver builds the resolver for one request.
func NewQueryResolver(db *gorm.DB) *QueryResolver {
	return &QueryResolver{db: db}
}

// windowDays returns the per-request velocity window, falling back to the
// configured default.
func (r *QueryResolver) windowDays(ctx context.Context) int {
	if days := graphql.WindowDaysFromContext(ctx); days > 0 {
		return days
	}
	return config.Forecast().WindowDays
}

// Extension dispatches to registered custom resolvers.
func (r *QueryResolver) Extension(ctx context.Context, name string, rawArgs *string) (*string, error) {
	m := make(map[string]interface{})
	if rawArgs != nil && *rawArgs != "" {
		_ = json.Unmarshal([]byte(*rawArgs), &m)
	}
	out, err := gqlregistry.Resolve(ctx, name, m)
	if err != nil {
		return nil, err
	}
	b, _ := json.Marshal(out)
	s := string(b)
	return &s, nil
}
