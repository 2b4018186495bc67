package registry

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"stockops.GO/core/registry"
)

// ExtensionFunc is the signature for custom _extension resolvers. Args is the
// JSON-decoded argument object.
type ExtensionFunc func(ctx context.Context, args map[string]interface{}) (interface{}, error)

// QueryResolverFactory creates the Query resolver for graphql-go. Call from init().
type QueryResolverFactory func(db interface{}) interface{}

var (
	mu                   sync.Mutex
	extensionsLocked     int32
	queryResolverFactory QueryResolverFactory
)

// RegisterQueryResolverFactory sets the factory for the main Query resolver.
func RegisterQueryResolverFactory(fn QueryResolverFactory) {
	mu.Lock()
	defer mu.Unlock()
	queryResolverFactory = fn
}

// GetQueryResolver returns the Query resolver. Panics if not registered.
func GetQueryResolver(db interface{}) interface{} {
	if queryResolverFactory == nil {
		panic("graphql/registry: QueryResolverFactory not registered")
	}
	return queryResolverFactory(db)
}

func extensions() map[string]ExtensionFunc {
	if v, ok := registry.GlobalRegistry.GetGlobal(registry.KeyRegistryGraphQL); ok && v != nil {
		return v.(map[string]ExtensionFunc)
	}
	return make(map[string]ExtensionFunc)
}

// Register adds an extension resolver. Call from init() in custom packages.
// Name must be unique. Panics once the registry is locked by the first request.
func Register(name string, resolve ExtensionFunc) {
	mu.Lock()
	defer mu.Unlock()
	if registry.GlobalRegistry.IsLocked(registry.KeyRegistryGraphQL) {
		panic("graphql/registry: locked (register only during init before first request)")
	}
	entries := extensions()
	if _, ok := entries[name]; ok {
		panic("graphql/registry: duplicate " + name)
	}
	entries[name] = resolve
	registry.GlobalRegistry.SetGlobal(registry.KeyRegistryGraphQL, entries)
}

// Unregister removes a registration (for tests). Unlocks the registry first.
func Unregister(name string) {
	mu.Lock()
	defer mu.Unlock()
	registry.GlobalRegistry.UnlockForTesting(registry.KeyRegistryGraphQL)
	entries := extensions()
	delete(entries, name)
	registry.GlobalRegistry.SetGlobal(registry.KeyRegistryGraphQL, entries)
}

// Resolve dispatches one _extension call. The registry locks on first use so
// late Register calls fail loudly instead of racing requests.
func Resolve(ctx context.Context, field string, args map[string]interface{}) (interface{}, error) {
	if atomic.CompareAndSwapInt32(&extensionsLocked, 0, 1) {
		registry.GlobalRegistry.Lock(registry.KeyRegistryGraphQL)
	}
	resolve, ok := extensions()[field]
	if !ok {
		if names := Names(); len(names) > 0 {
			return nil, fmt.Errorf("unknown extension %q (registered: %s)", field, strings.Join(names, ", "))
		}
		return nil, fmt.Errorf("unknown extension %q (none registered)", field)
	}
	return resolve(ctx, args)
}

// Names returns all registered extension names, sorted.
func Names() []string {
	mu.Lock()
	defer mu.Unlock()
	entries := extensions()
	names := make([]string, 0, len(entries))
	for n := range entries {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
