package cron

import (
	"log"

	"github.com/robfig/cron/v3"

	"stockops.GO/config"
)

// StartCron wires every known job into a scheduler and starts it. Known jobs
// are the config.CronJobs entries plus everything added through Register.
func StartCron() *cron.Cron {
	c := cron.New()
	add := func(name, schedule string, run func(...string)) {
		if _, err := c.AddFunc(schedule, func() { run() }); err != nil {
			log.Fatalf("cron: bad schedule for job %s: %v", name, err)
		}
	}
	for name, j := range config.CronJobs {
		add(name, j.Schedule, j.Job)
	}
	for name, j := range Jobs() {
		add(name, j.Schedule, j.Run)
	}
	c.Start()
	return c
}
