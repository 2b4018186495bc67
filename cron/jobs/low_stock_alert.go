package jobs

import (
	"log"
	"time"

	"stockops.GO/config"
	"stockops.GO/cron"
	"stockops.GO/service/alert"
)

func init() {
	cron.Register("lowstockalertjob", "0 7 * * *", LowStockAlertJob)
}

// LowStockAlertJob builds the low-stock report and fans it out to the
// registered notifiers. Scheduled every morning before the buyers start.
func LowStockAlertJob(args ...string) {
	db, err := config.GetDB()
	if err != nil {
		log.Printf("lowstockalertjob: db: %v", err)
		return
	}
	if err := alert.Run(db, time.Now()); err != nil {
		log.Printf("lowstockalertjob: %v", err)
	}
}
