package bom

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"stockops.GO/api"
	bomService "stockops.GO/service/bom"
)

func init() {
	api.RegisterModule(RegisterBomRoutes)
}

// RegisterBomRoutes wires the bill-of-materials editor endpoints.
func RegisterBomRoutes(apiGroup *echo.Group, db *gorm.DB) {
	g := apiGroup.Group("/bom")

	// GET /api/bom?product_sku=XXX – full BOM of one product
	g.GET("", func(c echo.Context) error {
		productSku := c.QueryParam("product_sku")
		if productSku == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "product_sku required"})
		}
		entries, err := bomService.EntriesForProduct(db, productSku)
		if err != nil {
			return api.JSONError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{
			"product_sku": productSku,
			"entries":     entries,
			"count":       len(entries),
		})
	})

	// POST /api/bom – create one entry, registering the product if new
	g.POST("", func(c echo.Context) error {
		start := time.Now()

		var input bomService.EntryInput
		if err := c.Bind(&input); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid JSON payload"})
		}

		entry, err := bomService.CreateEntry(db, input)
		if err != nil {
			return api.JSONError(c, err)
		}

		duration := time.Since(start).Milliseconds()
		c.Response().Header().Set("X-Request-Duration-ms", strconv.FormatInt(duration, 10))

		return c.JSON(http.StatusCreated, entry)
	})

	// PATCH /api/bom/:id – change quantity / notes
	g.PATCH("/:id", func(c echo.Context) error {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
		}

		var input struct {
			Quantity int    `json:"quantity"`
			Notes    string `json:"notes"`
		}
		if err := c.Bind(&input); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid JSON payload"})
		}

		entry, err := bomService.UpdateEntry(db, uint(id), input.Quantity, input.Notes)
		if err != nil {
			return api.JSONError(c, err)
		}
		return c.JSON(http.StatusOK, entry)
	})

	// DELETE /api/bom/:id
	g.DELETE("/:id", func(c echo.Context) error {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
		}
		if err := bomService.DeleteEntry(db, uint(id)); err != nil {
			return api.JSONError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"deleted": id})
	})
}
