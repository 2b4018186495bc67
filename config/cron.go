package config

// CronJob pairs a schedule expression with the function to run.
type CronJob struct {
	Schedule string
	Job      func(...string)
}

// CronJobs holds jobs wired directly into the config. The shipped jobs
// (cron/jobs) register themselves through cron.Register instead, so this
// map stays empty unless a deployment adds entries here.
var CronJobs = map[string]CronJob{
	// Add more jobs here
}
