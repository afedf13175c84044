package database

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/sochai/sochai-web/app/models"
	"github.com/sochai/sochai-web/internal/pkg/env"
)

const maxRetries = 5
const retryDelay = 5 * time.Second

var DB *gorm.DB

func GetDB() *gorm.DB {
	return DB
}

func DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		env.GetEnv("DB_USER", ""),
		env.GetEnv("DB_PASSWORD", ""),
		env.GetEnv("DB_HOST", "127.0.0.1"),
		env.GetEnv("DB_PORT", "3306"),
		env.GetEnv("DB_NAME", ""),
	)
}

// Open connects to dsn without retrying.
func Open(dsn string) (*gorm.DB, error) {
	return gorm.Open(mysql.New(mysql.Config{
		DSN:                       dsn,
		DefaultStringSize:         256,
		DisableDatetimePrecision:  true,
		DontSupportRenameIndex:    true,
		DontSupportRenameColumn:   true,
		SkipInitializeWithVersion: false,
	}), &gorm.Config{})
}

// SetupDatabase connects the reconciliation ledger. The BFF keeps running without
// it: partial failures are then only logged.
func SetupDatabase() error {
	if env.GetEnv("DB_NAME", "") == "" {
		log.Warn("[Database] DB_NAME not set, payment reconciliation is disabled")
		return fmt.Errorf("database not configured")
	}

	var err error
	for i := 0; i < maxRetries; i++ {
		DB, err = Open(DSN())
		if err == nil {
			if env.GetBool("DB_AUTO_MIGRATE", false) {
				if err := DB.AutoMigrate(&models.PaymentReconciliation{}); err != nil {
					log.Errorf("[Database] Auto migration failed: %v", err)
				}
			}
			log.Info("[Database] Connected")
			return nil
		}

		log.Warnf("[Database] Failed to connect (try %d/%d): %v", i+1, maxRetries, err)
		if i < maxRetries-1 {
			time.Sleep(retryDelay)
		}
	}
	DB = nil
	return err
}
