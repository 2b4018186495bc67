package resolvers

import (
	"context"

	gqlmodels "stockops.GO/graphql/models"
	catalogRepo "stockops.GO/model/repository/catalog"
	salesService "stockops.GO/service/sales"
)

// SkuMappings resolves the redirect table.
func (r *QueryResolver) SkuMappings(ctx context.Context) ([]*gqlmodels.SkuMapping, error) {
	repo, err := catalogRepo.NewCatalogRepository(r.db)
	if err != nil {
		return nil, err
	}
	mappings, err := repo.ListMappings()
	if err != nil {
		return nil, err
	}
	out := make([]*gqlmodels.SkuMapping, 0, len(mappings))
	for i := range mappings {
		m := &mappings[i]
		row := &gqlmodels.SkuMapping{
			ID:         int32(m.SkuMappingID),
			OldSku:     m.OldSku,
			CurrentSku: m.CurrentSku,
		}
		if m.Platform != "" {
			p := m.Platform
			row.Platform = &p
		}
		if m.Notes != "" {
			n := m.Notes
			row.Notes = &n
		}
		out = append(out, row)
	}
	return out, nil
}

// SkuDiscovery resolves raw SKU usage from the sales feed with each SKU's
// current resolution state.
func (r *QueryResolver) SkuDiscovery(ctx context.Context) ([]*gqlmodels.DiscoveredSku, error) {
	rows, err := salesService.Discover(r.db)
	if err != nil {
		return nil, err
	}
	out := make([]*gqlmodels.DiscoveredSku, 0, len(rows))
	for _, row := range rows {
		d := &gqlmodels.DiscoveredSku{
			RawSku:     row.RawSku,
			Orders:     int32(row.Orders),
			TotalQty:   int32(row.TotalQty),
			FirstSeen:  row.FirstSeen,
			LastSeen:   row.LastSeen,
			Channels:   row.Channels,
			Resolution: row.Resolution,
		}
		if d.Channels == nil {
			d.Channels = []string{}
		}
		if row.CanonicalSku != "" {
			c := row.CanonicalSku
			d.CanonicalSku = &c
		}
		out = append(out, d)
	}
	return out, nil
}
