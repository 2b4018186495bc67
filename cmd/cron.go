package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"stockops.GO/config"
	"stockops.GO/cron"
)

var jobName string

var cronStartCmd = &cobra.Command{
	Use:   "cron:start",
	Short: "Start the cron scheduler, or run a single job by name and exit",
	Run: func(cmd *cobra.Command, args []string) {
		if jobName != "" {
			runSingleJob(strings.ToLower(jobName), args)
			return
		}
		c := cron.StartCron()
		fmt.Println("Cron scheduler running. Ctrl+C to stop.")
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		<-ctx.Done()
		c.Stop()
	},
}

// runSingleJob looks the name up in config.CronJobs first, then the registry.
func runSingleJob(name string, args []string) {
	if j, ok := config.CronJobs[name]; ok {
		fmt.Printf("Running job %s\n", name)
		j.Job(args...)
		return
	}
	if j, ok := cron.Jobs()[name]; ok {
		fmt.Printf("Running job %s\n", name)
		j.Run(args...)
		return
	}
	fmt.Fprintf(os.Stderr, "unknown job: %s\n", name)
	os.Exit(1)
}

func init() {
	cronStartCmd.Flags().StringVarP(&jobName, "job", "j", "", "Run a single cron job by name and exit")
	rootCmd.AddCommand(cronStartCmd)
}
