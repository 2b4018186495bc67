package alert

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"stockops.GO/api"
	alertService "stockops.GO/service/alert"
)

func init() {
	api.RegisterModule(RegisterAlertRoutes)
}

// RegisterAlertRoutes wires the low-stock report endpoints.
func RegisterAlertRoutes(apiGroup *echo.Group, db *gorm.DB) {
	g := apiGroup.Group("/alerts")

	// GET /api/alerts/low-stock – current report without notifying anyone
	g.GET("/low-stock", func(c echo.Context) error {
		start := time.Now()

		report, err := alertService.BuildReport(db, time.Now())
		if err != nil {
			return api.JSONError(c, err)
		}

		duration := time.Since(start).Milliseconds()
		c.Response().Header().Set("X-Request-Duration-ms", strconv.FormatInt(duration, 10))

		return c.JSON(http.StatusOK, report)
	})

	// POST /api/alerts/low-stock/run – build the report and fan it out to
	// every registered notifier, same path the nightly cron takes
	g.POST("/low-stock/run", func(c echo.Context) error {
		if err := alertService.Run(db, time.Now()); err != nil {
			return api.JSONError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"status": "dispatched"})
	})
}
