package realtime

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"stockops.GO/api"
	"stockops.GO/config"
	purchaseEntity "stockops.GO/model/entity/purchase"
	stockEntity "stockops.GO/model/entity/stock"
	catalogRepo "stockops.GO/model/repository/catalog"
	purchaseRepo "stockops.GO/model/repository/purchase"
	stockRepo "stockops.GO/model/repository/stock"
	"stockops.GO/service/bom"
	"stockops.GO/service/forecast"
)

func init() {
	api.RegisterModule(RegisterRealtimeRoutes)
}

// Singleton repositories (created once per DB)
var (
	catRepoInstance *catalogRepo.CatalogRepository
	stRepoInstance  *stockRepo.StockRepository
	poRepoInstance  *purchaseRepo.PurchaseRepository
	repoOnce        sync.Once
	repoErr         error
)

func getRepositories(db *gorm.DB) (*catalogRepo.CatalogRepository, *stockRepo.StockRepository, *purchaseRepo.PurchaseRepository, error) {
	repoOnce.Do(func() {
		catRepoInstance, repoErr = catalogRepo.NewCatalogRepository(db)
		if repoErr != nil {
			return
		}
		stRepoInstance = stockRepo.NewStockRepository(db)
		poRepoInstance, repoErr = purchaseRepo.NewPurchaseRepository(db)
	})
	return catRepoInstance, stRepoInstance, poRepoInstance, repoErr
}

// RegisterRealtimeRoutes sets up the single-component stock lookup used by
// warehouse tooling.
func RegisterRealtimeRoutes(apiGroup *echo.Group, db *gorm.DB) {
	g := apiGroup.Group("/realtime")

	// GET /api/realtime/stock?sku=XXX – one component's level + status
	g.GET("/stock", func(c echo.Context) error {
		start := time.Now()

		sku := c.QueryParam("sku")
		if sku == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "sku required"})
		}

		catR, stR, poR, err := getRepositories(db)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "repository init failed"})
		}

		comp, err := catR.GetComponentBySKU(sku)
		if err != nil {
			return api.JSONError(c, err)
		}
		if comp == nil {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "component not found"})
		}

		// Parallel fetch using errgroup
		var (
			level     *stockEntity.StockLevel
			explosion *bom.ExplosionResult
			supplier  *purchaseEntity.Supplier
		)
		cfg := config.Forecast()
		eg := new(errgroup.Group)

		eg.Go(func() error {
			var err error
			level, err = stR.GetLevelByComponentID(comp.ComponentID)
			return err
		})
		eg.Go(func() error {
			var err error
			explosion, err = bom.ExplodeWindow(db, cfg.WindowDays, time.Now())
			return err
		})
		eg.Go(func() error {
			if comp.SupplierID == nil {
				return nil
			}
			var err error
			supplier, err = poR.GetSupplierByID(*comp.SupplierID)
			return err
		})

		if err := eg.Wait(); err != nil {
			return api.JSONError(c, err)
		}

		if level == nil {
			level = &stockEntity.StockLevel{ComponentID: comp.ComponentID}
		}
		res := forecast.Compute(forecast.Input{
			Available:          level.Available(),
			OnHand:             level.OnHand,
			OnOrder:            level.OnOrder,
			ConsumedOverWindow: explosion.Totals[comp.ComponentID],
			WindowDays:         cfg.WindowDays,
			LeadTimeDays:       forecast.ResolveLeadTime(comp, supplier),
			SafetyStockDays:    comp.SafetyStockDays,
			MinOrderQty:        comp.MinOrderQty,
		})

		duration := time.Since(start).Milliseconds()
		c.Response().Header().Set("X-Request-Duration-ms", strconv.FormatInt(duration, 10))

		return c.JSON(http.StatusOK, realtimeStockResponse{
			SKU:               comp.SKU,
			ComponentID:       comp.ComponentID,
			Name:              comp.Name,
			OnHand:            level.OnHand,
			Reserved:          level.Reserved,
			OnOrder:           level.OnOrder,
			Available:         level.Available(),
			Velocity:          res.Velocity,
			DaysRemaining:     res.DaysRemaining,
			ReorderPoint:      res.ReorderPoint,
			Status:            res.Status,
			SuggestedOrderQty: res.SuggestedOrderQty,
		})
	})

	// GET /api/realtime/component?sku=XXX – catalog record only
	g.GET("/component", func(c echo.Context) error {
		sku := c.QueryParam("sku")
		if sku == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "sku required"})
		}
		catR, _, _, err := getRepositories(db)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "repository init failed"})
		}
		comp, err := catR.GetComponentBySKU(sku)
		if err != nil {
			return api.JSONError(c, err)
		}
		if comp == nil {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "component not found"})
		}
		return c.JSON(http.StatusOK, comp)
	})
}

type realtimeStockResponse struct {
	SKU               string   `json:"sku"`
	ComponentID       uint     `json:"component_id"`
	Name              string   `json:"name"`
	OnHand            int      `json:"on_hand"`
	Reserved          int      `json:"reserved"`
	OnOrder           int      `json:"on_order"`
	Available         int      `json:"available"`
	Velocity          float64  `json:"velocity"`
	DaysRemaining     *float64 `json:"days_remaining"`
	ReorderPoint      float64  `json:"reorder_point"`
	Status            string   `json:"status"`
	SuggestedOrderQty int      `json:"suggested_order_qty"`
}
