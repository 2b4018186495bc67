package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"stockops.GO/config"
	salesService "stockops.GO/service/sales"
)

var (
	salesImportFile  string
	salesImportBatch int
)

var salesImportCmd = &cobra.Command{
	Use:   "sales:import",
	Short: "Import channel order lines from CSV",
	Run: func(cmd *cobra.Command, args []string) {
		f, err := os.Open(salesImportFile)
		if err != nil {
			fmt.Printf("Failed to open CSV: %v\n", err)
			return
		}
		defer f.Close()

		db, err := config.NewDB()
		if err != nil {
			fmt.Printf("Database connection failed: %v\n", err)
			return
		}

		start := time.Now()
		res, err := salesService.ImportOrdersCSV(db, f, salesImportBatch)
		if err != nil {
			fmt.Printf("Import failed: %v\n", err)
			return
		}

		for _, w := range res.Warnings {
			fmt.Printf("  [warn] %s\n", w)
		}

		fmt.Printf(`
=== Import Report ===
Imported:   %d
Skipped:    %d
Total time: %s
=====================
`, res.Imported, res.Skipped, time.Since(start).Round(time.Millisecond))
	},
}

func init() {
	salesImportCmd.Flags().StringVarP(&salesImportFile, "file", "f", "", "CSV file path (required)")
	salesImportCmd.MarkFlagRequired("file")
	salesImportCmd.Flags().IntVar(&salesImportBatch, "batch-size", 500, "Batch size for DB operations")
	rootCmd.AddCommand(salesImportCmd)
}
