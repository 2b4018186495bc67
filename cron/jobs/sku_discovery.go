package jobs

import (
	"log"

	"stockops.GO/config"
	"stockops.GO/cron"
	salesService "stockops.GO/service/sales"
	"stockops.GO/service/skumap"
)

func init() {
	cron.Register("skudiscoveryjob", "30 2 * * *", SkuDiscoveryJob)
}

// SkuDiscoveryJob recomputes the raw SKU discovery listing overnight and logs
// what still resolves to nothing, so unmapped channel SKUs show up in the
// morning logs even when nobody opens the dashboard.
func SkuDiscoveryJob(args ...string) {
	db, err := config.GetDB()
	if err != nil {
		log.Printf("skudiscoveryjob: db: %v", err)
		return
	}

	salesService.InvalidateDiscoveryCache()
	rows, err := salesService.Discover(db)
	if err != nil {
		log.Printf("skudiscoveryjob: %v", err)
		return
	}

	unmapped := 0
	for _, row := range rows {
		if row.Resolution == skumap.StateUnmapped {
			unmapped++
			log.Printf("skudiscoveryjob: unmapped sku %q seen in %d orders", row.RawSku, row.Orders)
		}
	}
	log.Printf("skudiscoveryjob: %d raw skus, %d unmapped", len(rows), unmapped)
}
