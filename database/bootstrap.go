// database/bootstrap.go
package database

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	sqlite "github.com/glebarez/sqlite" // CGO-free driver
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"agriverse/config"
	"agriverse/entities"
)

// Open connects to the configured store. TranslateError is on so unique-index
// violations surface as gorm.ErrDuplicatedKey.
func Open(cfg config.AppConfig) (*gorm.DB, error) {
	gcfg := &gorm.Config{
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger: gormLogger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags),
			gormLogger.Config{
				SlowThreshold:             time.Second,
				LogLevel:                  gormLogger.Warn,
				IgnoreRecordNotFoundError: true,
			},
		),
	}

	var dial gorm.Dialector
	switch strings.ToLower(cfg.DBDriver) {
	case "postgres", "postgresql":
		if cfg.DBDSN == "" {
			return nil, fmt.Errorf("DB_DSN is required for postgres")
		}
		dial = postgres.Open(cfg.DBDSN)
	case "", "sqlite":
		dial = sqlite.Open(sqliteDSN(cfg.DBPath))
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	db, err := gorm.Open(dial, gcfg)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.DBDriver, err)
	}
	return db, nil
}

// sqlite allows one writer; a busy timeout keeps concurrent requests from failing fast.
func sqliteDSN(path string) string {
	if strings.Contains(path, "?") {
		return path
	}
	return path + "?_pragma=busy_timeout(5000)"
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&entities.User{},
		&entities.Land{},
		&entities.CultivationCycle{},
		&entities.CycleTask{},
		&entities.CropSchedule{},
		&entities.GrowthData{},
		&entities.Product{},
		&entities.DiseaseReport{},
		&entities.PlantPlan{},
		&entities.KBDocument{},
		&entities.KBChunk{},
	); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	return nil
}

// OpenAndMigrate is the path used by the server and by tests.
func OpenAndMigrate(cfg config.AppConfig) (*gorm.DB, error) {
	db, err := Open(cfg)
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}
