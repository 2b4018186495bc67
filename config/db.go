package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a fresh connection. DB_DRIVER=sqlite runs the whole engine on a
// single file, the default is MySQL.
func NewDB() (*gorm.DB, error) {
	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logLevel(),
			Colorful:      true,
		},
	)

	if strings.EqualFold(os.Getenv("DB_DRIVER"), "sqlite") {
		path := GetEnv("SQLITE_PATH", "stockops.db")
		return gorm.Open(sqlite.Open(path), &gorm.Config{Logger: gormLogger})
	}

	dsn := os.Getenv("MYSQL_DSN")
	if dsn == "" {
		user := os.Getenv("MYSQL_USER")
		pass := os.Getenv("MYSQL_PASS")
		host := os.Getenv("MYSQL_HOST")
		port := os.Getenv("MYSQL_PORT")
		db := os.Getenv("MYSQL_DB")
		if port == "" {
			port = "3306"
		}
		dsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&charset=utf8mb4&loc=Local", user, pass, host, port, db)
	}
	return gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: gormLogger})
}

func logLevel() logger.LogLevel {
	if os.Getenv("GORM_LOG") == "off" {
		return logger.Silent
	}
	return logger.Info
}

var (
	dbOnce sync.Once
	dbInst *gorm.DB
	dbErr  error
)

// GetDB returns the shared connection, opening it on first use. Cron jobs and
// CLI commands go through this so they reuse one pool.
func GetDB() (*gorm.DB, error) {
	dbOnce.Do(func() {
		dbInst, dbErr = NewDB()
	})
	return dbInst, dbErr
}
