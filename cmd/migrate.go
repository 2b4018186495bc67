package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/cobra"

	"stockops.GO/config"
	catalogEntity "stockops.GO/model/entity/catalog"
	purchaseEntity "stockops.GO/model/entity/purchase"
	salesEntity "stockops.GO/model/entity/sales"
	stockEntity "stockops.GO/model/entity/stock"
)

var (
	migrateDown  bool
	migrateSteps int
)

// migrateURL builds the golang-migrate MySQL URL from the same env the GORM
// connection uses.
func migrateURL() string {
	if dsn := os.Getenv("MIGRATE_DSN"); dsn != "" {
		return dsn
	}
	user := os.Getenv("MYSQL_USER")
	pass := os.Getenv("MYSQL_PASS")
	host := os.Getenv("MYSQL_HOST")
	port := os.Getenv("MYSQL_PORT")
	db := os.Getenv("MYSQL_DB")
	if port == "" {
		port = "3306"
	}
	return fmt.Sprintf("mysql://%s:%s@tcp(%s:%s)/%s", user, pass, host, port, db)
}

var migrateCmd = &cobra.Command{
	Use:   "db:migrate",
	Short: "Run SQL migrations against MySQL",
	Run: func(cmd *cobra.Command, args []string) {
		path := config.GetEnv("MIGRATIONS_PATH", "migrations")
		m, err := migrate.New("file://"+path, migrateURL())
		if err != nil {
			fmt.Printf("Migration setup failed: %v\n", err)
			os.Exit(1)
		}
		defer m.Close()

		switch {
		case migrateSteps != 0:
			err = m.Steps(migrateSteps)
		case migrateDown:
			err = m.Down()
		default:
			err = m.Up()
		}
		if errors.Is(err, migrate.ErrNoChange) {
			fmt.Println("Database already up to date.")
			return
		}
		if err != nil {
			fmt.Printf("Migration failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Migrations applied.")
	},
}

var autoMigrateCmd = &cobra.Command{
	Use:   "db:automigrate",
	Short: "Create or update the schema via GORM (dev and sqlite deployments)",
	Run: func(cmd *cobra.Command, args []string) {
		db, err := config.NewDB()
		if err != nil {
			fmt.Printf("Database connection failed: %v\n", err)
			os.Exit(1)
		}
		err = db.AutoMigrate(
			&catalogEntity.Brand{},
			&catalogEntity.Component{},
			&catalogEntity.ProductSku{},
			&catalogEntity.BomEntry{},
			&catalogEntity.SkuMapping{},
			&stockEntity.StockLevel{},
			&stockEntity.StockAdjustment{},
			&purchaseEntity.Supplier{},
			&purchaseEntity.PurchaseOrder{},
			&purchaseEntity.PurchaseOrderItem{},
			&salesEntity.SalesOrderItem{},
		)
		if err != nil {
			fmt.Printf("AutoMigrate failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Schema up to date.")
	},
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateDown, "down", false, "Roll back all migrations")
	migrateCmd.Flags().IntVar(&migrateSteps, "steps", 0, "Apply N migrations (negative rolls back)")
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(autoMigrateCmd)
}
