package cron

import (
	"sync"

	"stockops.GO/core/registry"
)

// Job is a named schedule plus the function the scheduler runs. The shipped
// jobs (lowstockalertjob, skudiscoveryjob) register themselves from init() in
// cron/jobs; deployments add more through Register in custom packages.
type Job struct {
	Schedule string
	Run      func(...string)
}

var mu sync.Mutex

func snapshot() map[string]Job {
	if v, ok := registry.GlobalRegistry.GetGlobal(registry.KeyRegistryCron); ok && v != nil {
		return v.(map[string]Job)
	}
	return make(map[string]Job)
}

// Register adds a job under a unique name. Panics on a duplicate name or
// after the scheduler has read the set.
func Register(name, schedule string, run func(...string)) {
	mu.Lock()
	defer mu.Unlock()
	if registry.GlobalRegistry.IsLocked(registry.KeyRegistryCron) {
		panic("cron: jobs already scheduled, register from init() only")
	}
	jobs := snapshot()
	if _, dup := jobs[name]; dup {
		panic("cron: duplicate job " + name)
	}
	jobs[name] = Job{Schedule: schedule, Run: run}
	registry.GlobalRegistry.SetGlobal(registry.KeyRegistryCron, jobs)
}

// Unregister drops a job and reopens the registry. Tests only.
func Unregister(name string) {
	mu.Lock()
	defer mu.Unlock()
	registry.GlobalRegistry.UnlockForTesting(registry.KeyRegistryCron)
	jobs := snapshot()
	delete(jobs, name)
	registry.GlobalRegistry.SetGlobal(registry.KeyRegistryCron, jobs)
}

// Jobs returns a copy of the registered jobs and locks the registry, so the
// set the caller schedules is exactly the set returned.
func Jobs() map[string]Job {
	mu.Lock()
	defer mu.Unlock()
	src := snapshot()
	out := make(map[string]Job, len(src))
	for name, j := range src {
		out[name] = j
	}
	registry.GlobalRegistry.Lock(registry.KeyRegistryCron)
	return out
}
