package database

import (
	"errors"
	"log"
	"time"

	"github.com/campusgig/server/internal/config"
	"github.com/campusgig/server/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type DB struct {
	*gorm.DB
}

func Connect(cfg *config.Config) (*DB, error) {
	logLevel := logger.Silent
	if cfg.ServerEnv == "development" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logLevel),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, err
	}

	// Register metrics plugin for Prometheus
	if err := db.Use(&MetricsPlugin{}); err != nil {
		log.Printf("Failed to register metrics plugin: %v", err)
	}

	// Configure connection pool
	sqlDB, err := db.DB()
	if err == nil {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(5 * time.Minute)
	}

	return &DB{db}, nil
}

// Migrate runs AutoMigrate for all models and seeds default settings.
func Migrate(db *DB) error {
	err := db.AutoMigrate(
		// User domain
		&models.User{},
		&models.Skill{},
		&models.EmailVerification{},
		&models.Device{},

		// Gig domain
		&models.Gig{},
		&models.Application{},

		// Platform settings
		&models.Setting{},
	)
	if err != nil {
		return err
	}

	seedSettings(db)
	return nil
}

// seedSettings inserts default platform settings when absent.
func seedSettings(db *DB) {
	defaults := map[string]string{
		models.SettingMatchRadiusKm:         "50",
		models.SettingMaxActiveApplications: "20",
	}
	for key, value := range defaults {
		var existing models.Setting
		if err := db.Where("key = ?", key).First(&existing).Error; errors.Is(err, gorm.ErrRecordNotFound) {
			if err := db.Create(&models.Setting{Key: key, Value: value}).Error; err != nil {
				log.Printf("Failed to seed setting %s: %v", key, err)
			}
		}
	}
}
