package skumap

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"stockops.GO/api"
	catalogRepo "stockops.GO/model/repository/catalog"
	salesService "stockops.GO/service/sales"
	skumapService "stockops.GO/service/skumap"
)

func init() {
	api.RegisterModule(RegisterSkumapRoutes)
}

type mappingInput struct {
	OldSku     string `json:"old_sku"`
	CurrentSku string `json:"current_sku"`
	Platform   string `json:"platform"`
	Notes      string `json:"notes"`
}

// RegisterSkumapRoutes wires SKU mapping management plus the discovery and
// suggestion helpers that feed it.
func RegisterSkumapRoutes(apiGroup *echo.Group, db *gorm.DB) {
	g := apiGroup.Group("/sku-mapping")

	// GET /api/sku-mapping – all redirect rows
	g.GET("", func(c echo.Context) error {
		repo, err := catalogRepo.NewCatalogRepository(db)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "repository init failed"})
		}
		mappings, err := repo.ListMappings()
		if err != nil {
			return api.JSONError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{
			"mappings": mappings,
			"count":    len(mappings),
		})
	})

	// POST /api/sku-mapping – create a redirect (cycles rejected)
	g.POST("", func(c echo.Context) error {
		start := time.Now()

		var input mappingInput
		if err := c.Bind(&input); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid JSON payload"})
		}

		mapping, err := skumapService.CreateMapping(db, input.OldSku, input.CurrentSku, input.Platform, input.Notes)
		if err != nil {
			return api.JSONError(c, err)
		}

		duration := time.Since(start).Milliseconds()
		c.Response().Header().Set("X-Request-Duration-ms", strconv.FormatInt(duration, 10))

		return c.JSON(http.StatusCreated, mapping)
	})

	// DELETE /api/sku-mapping?id=N
	g.DELETE("", func(c echo.Context) error {
		id, err := strconv.ParseUint(c.QueryParam("id"), 10, 32)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
		}
		if err := skumapService.DeleteMapping(db, uint(id)); err != nil {
			return api.JSONError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"deleted": id})
	})

	// GET /api/sku-resolve?sku=XXX – explain how one raw SKU resolves
	apiGroup.GET("/sku-resolve", func(c echo.Context) error {
		sku := c.QueryParam("sku")
		if sku == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "sku required"})
		}
		res, err := skumapService.Resolve(db, sku)
		if err != nil {
			return api.JSONError(c, err)
		}
		return c.JSON(http.StatusOK, res)
	})

	// GET /api/sku-discovery – raw SKUs seen in sales with resolution state
	apiGroup.GET("/sku-discovery", func(c echo.Context) error {
		start := time.Now()

		rows, err := salesService.Discover(db)
		if err != nil {
			return api.JSONError(c, err)
		}

		unmapped := 0
		for _, row := range rows {
			if row.Resolution == skumapService.StateUnmapped {
				unmapped++
			}
		}

		duration := time.Since(start).Milliseconds()
		c.Response().Header().Set("X-Request-Duration-ms", strconv.FormatInt(duration, 10))

		return c.JSON(http.StatusOK, echo.Map{
			"skus":     rows,
			"count":    len(rows),
			"unmapped": unmapped,
		})
	})

	// POST /api/sku-suggestions – heuristic + fuzzy mapping candidates.
	// Suggestions are advisory; nothing is written until a mapping is posted.
	apiGroup.POST("/sku-suggestions", func(c echo.Context) error {
		start := time.Now()

		var input skumapService.SuggestInput
		if err := c.Bind(&input); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid JSON payload"})
		}

		suggestions, err := skumapService.Suggest(c.Request().Context(), db, input)
		if err != nil {
			return api.JSONError(c, err)
		}

		duration := time.Since(start).Milliseconds()
		c.Response().Header().Set("X-Request-Duration-ms", strconv.FormatInt(duration, 10))

		return c.JSON(http.StatusOK, echo.Map{
			"suggestions": suggestions,
			"count":       len(suggestions),
		})
	})
}
