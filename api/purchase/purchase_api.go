package purchase

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"stockops.GO/api"
	purchaseService "stockops.GO/service/purchase"
)

func init() {
	api.RegisterModule(RegisterPurchaseRoutes)
}

// RegisterPurchaseRoutes wires the purchase order lifecycle endpoints.
func RegisterPurchaseRoutes(apiGroup *echo.Group, db *gorm.DB) {
	g := apiGroup.Group("/po")

	// GET /api/po?status=sent – list orders, newest first
	g.GET("", func(c echo.Context) error {
		orders, err := purchaseService.List(db, c.QueryParam("status"))
		if err != nil {
			return api.JSONError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{
			"orders": orders,
			"count":  len(orders),
		})
	})

	// GET /api/po/:id – one order with line items
	g.GET("/:id", func(c echo.Context) error {
		id, err := parseID(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
		}
		po, err := purchaseService.Get(db, id)
		if err != nil {
			return api.JSONError(c, err)
		}
		return c.JSON(http.StatusOK, po)
	})

	// POST /api/po – create a draft (or immediately sent) order
	g.POST("", func(c echo.Context) error {
		start := time.Now()

		var input purchaseService.CreateInput
		if err := c.Bind(&input); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid JSON payload"})
		}

		po, err := purchaseService.Create(db, input, time.Now())
		if err != nil {
			return api.JSONError(c, err)
		}

		duration := time.Since(start).Milliseconds()
		c.Response().Header().Set("X-Request-Duration-ms", strconv.FormatInt(duration, 10))

		return c.JSON(http.StatusCreated, po)
	})

	// POST /api/po/send {po_id} – draft -> sent, commits on_order
	g.POST("/send", func(c echo.Context) error {
		var input struct {
			PurchaseOrderID uint `json:"po_id"`
		}
		if err := c.Bind(&input); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid JSON payload"})
		}
		if input.PurchaseOrderID == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "po_id required"})
		}
		po, err := purchaseService.Send(db, input.PurchaseOrderID)
		if err != nil {
			return api.JSONError(c, err)
		}
		return c.JSON(http.StatusOK, po)
	})

	// POST /api/po/confirm {po_id} – sent -> confirmed
	g.POST("/confirm", func(c echo.Context) error {
		var input struct {
			PurchaseOrderID uint `json:"po_id"`
		}
		if err := c.Bind(&input); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid JSON payload"})
		}
		if input.PurchaseOrderID == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "po_id required"})
		}
		po, err := purchaseService.Confirm(db, input.PurchaseOrderID)
		if err != nil {
			return api.JSONError(c, err)
		}
		return c.JSON(http.StatusOK, po)
	})

	// POST /api/po/receive {po_id, lines} – book received quantities into stock
	g.POST("/receive", func(c echo.Context) error {
		start := time.Now()

		var input struct {
			PurchaseOrderID uint                               `json:"po_id"`
			Lines           []purchaseService.ReceiveLineInput `json:"lines"`
		}
		if err := c.Bind(&input); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid JSON payload"})
		}
		if input.PurchaseOrderID == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "po_id required"})
		}

		result, err := purchaseService.Receive(db, input.PurchaseOrderID, input.Lines)
		if err != nil {
			return api.JSONError(c, err)
		}

		duration := time.Since(start).Milliseconds()
		c.Response().Header().Set("X-Request-Duration-ms", strconv.FormatInt(duration, 10))

		return c.JSON(http.StatusOK, result)
	})

	// DELETE /api/po/:id – drafts only
	g.DELETE("/:id", func(c echo.Context) error {
		id, err := parseID(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
		}
		if err := purchaseService.Delete(db, id); err != nil {
			return api.JSONError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"deleted": id})
	})
}

func parseID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	return uint(id), err
}
