package api

import (
	"sync"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"stockops.GO/core/registry"
)

// ModuleFunc mounts a feature's routes on the authenticated /api group. The
// stock, purchase, sales, skumap, bom, forecast and graphql packages register
// themselves this way from init().
type ModuleFunc func(g *echo.Group, db *gorm.DB)

// RouteFunc mounts routes on the root Echo instance, outside auth. The status
// page and custom public endpoints use this.
type RouteFunc func(e *echo.Echo, db *gorm.DB)

var mu sync.Mutex

func stored[T any](key string) []T {
	if v, ok := registry.GlobalRegistry.GetGlobal(key); ok && v != nil {
		return v.([]T)
	}
	return nil
}

func register[T any](key string, fn T) {
	mu.Lock()
	defer mu.Unlock()
	if registry.GlobalRegistry.IsLocked(key) {
		panic("api: " + key + " already applied, register from init() only")
	}
	registry.GlobalRegistry.SetGlobal(key, append(stored[T](key), fn))
}

// RegisterModule adds an /api module. Call from init().
func RegisterModule(fn ModuleFunc) {
	register(registry.KeyRegistryAPI, fn)
}

// RegisterRoute adds a root-level route module. Call from init().
func RegisterRoute(fn RouteFunc) {
	register(registry.KeyRegistryRoutes, fn)
}

// RegisterGET mounts a single public GET handler on the root instance.
func RegisterGET(path string, handler echo.HandlerFunc) {
	RegisterRoute(func(e *echo.Echo, _ *gorm.DB) {
		e.GET(path, handler)
	})
}

// RegisterHTMLModule registers an HTML page module (alias for RegisterRoute).
func RegisterHTMLModule(fn RouteFunc) {
	RegisterRoute(fn)
}

// ApplyModules mounts every registered /api module, then locks the set; any
// later registration panics.
func ApplyModules(g *echo.Group, db *gorm.DB) {
	for _, fn := range stored[ModuleFunc](registry.KeyRegistryAPI) {
		fn(g, db)
	}
	registry.GlobalRegistry.Lock(registry.KeyRegistryAPI)
}

// ApplyRoutes mounts every registered root-level module and locks the set.
func ApplyRoutes(e *echo.Echo, db *gorm.DB) {
	for _, fn := range stored[RouteFunc](registry.KeyRegistryRoutes) {
		fn(e, db)
	}
	registry.GlobalRegistry.Lock(registry.KeyRegistryRoutes)
}
