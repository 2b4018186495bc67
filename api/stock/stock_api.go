package stock

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"stockops.GO/api"
	"stockops.GO/config"
	"stockops.GO/service/forecast"
	stockService "stockops.GO/service/stock"
)

func init() {
	api.RegisterModule(RegisterStockRoutes)
}

const (
	overviewCacheKey = "stockops:stock:overview"
	overviewCacheTTL = 30 * time.Second
)

func RegisterStockRoutes(apiGroup *echo.Group, db *gorm.DB) {
	g := apiGroup.Group("/stock")

	// POST /api/stock/adjust – one ledger mutation (count/add/remove)
	g.POST("/adjust", func(c echo.Context) error {
		start := time.Now()

		var body stockService.AdjustInput
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}

		res, err := stockService.Adjust(db, body)
		duration := time.Since(start).Milliseconds()
		c.Response().Header().Set("X-Request-Duration-ms", strconv.FormatInt(duration, 10))
		if err != nil {
			return api.JSONError(c, err)
		}

		invalidateOverviewCache()
		return c.JSON(http.StatusOK, res)
	})

	// GET /api/stock – per-component stock + velocity status + summary
	g.GET("", func(c echo.Context) error {
		start := time.Now()

		if payload, ok := cachedOverview(); ok {
			c.Response().Header().Set("X-Cache", "redis")
			return c.JSONBlob(http.StatusOK, payload)
		}

		overview, err := forecast.Overview(db, time.Now())
		duration := time.Since(start).Milliseconds()
		c.Response().Header().Set("X-Request-Duration-ms", strconv.FormatInt(duration, 10))
		if err != nil {
			return api.JSONError(c, err)
		}

		payload, err := json.Marshal(overview)
		if err != nil {
			return api.JSONError(c, err)
		}
		storeOverview(payload)
		return c.JSONBlob(http.StatusOK, payload)
	})

	// GET /api/stock/adjustments?component_id=&limit= – audit trail
	g.GET("/adjustments", func(c echo.Context) error {
		componentID, err := strconv.ParseUint(c.QueryParam("component_id"), 10, 32)
		if err != nil || componentID == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "component_id required"})
		}
		limit, _ := strconv.Atoi(c.QueryParam("limit"))

		adjustments, err := stockService.History(db, uint(componentID), limit)
		if err != nil {
			return api.JSONError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"adjustments": adjustments})
	})
}

// cachedOverview serves the overview from redis when configured.
func cachedOverview() ([]byte, bool) {
	if config.RedisClient == nil {
		return nil, false
	}
	raw, err := config.RedisClient.Get(config.RedisCtx(), overviewCacheKey).Bytes()
	if err != nil {
		return nil, false
	}
	return raw, true
}

func storeOverview(payload []byte) {
	if config.RedisClient == nil {
		return
	}
	config.RedisClient.Set(config.RedisCtx(), overviewCacheKey, payload, overviewCacheTTL)
}

func invalidateOverviewCache() {
	if config.RedisClient == nil {
		return
	}
	config.RedisClient.Del(config.RedisCtx(), overviewCacheKey)
}
