package registry

import (
	"sync"
)

// Registry is a thread-safe key/value store with per-key locking. Extension
// registries (cmd, cron, api, graphql) store their entries here and lock the
// key once init-time registration is over, so later writes panic loudly
// instead of racing the running server.
type Registry struct {
	values sync.Map // key -> interface{}
	locked sync.Map // key -> struct{}
}

// GlobalRegistry is the process-wide registry instance.
var GlobalRegistry = &Registry{}

// GetGlobal returns the value for key, if set.
func (r *Registry) GetGlobal(key string) (interface{}, bool) {
	return r.values.Load(key)
}

// SetGlobal stores the value for key. Does not check the lock; callers
// (the extension registries) perform the IsLocked check themselves.
func (r *Registry) SetGlobal(key string, value interface{}) {
	r.values.Store(key, value)
}

// Lock marks key immutable. Subsequent registrations should panic.
func (r *Registry) Lock(key string) {
	r.locked.Store(key, struct{}{})
}

// IsLocked reports whether key has been locked.
func (r *Registry) IsLocked(key string) bool {
	_, ok := r.locked.Load(key)
	return ok
}

// UnlockForTesting clears the lock on key. Tests only.
func (r *Registry) UnlockForTesting(key string) {
	r.locked.Delete(key)
}
