package db

import (
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/quiroferreira/clinic-scheduler/internal/config"
	"github.com/quiroferreira/clinic-scheduler/internal/models"
)

func NewDB(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
	})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.AutoMigrate(
		&models.Professional{},
		&models.Member{},
		&models.Dependent{},
		&models.PrivatePatient{},
		&models.Service{},
		&models.Location{},
		&models.Appointment{},
		&models.SchedulingAccess{},
		&models.AuditLog{},
	); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	// one default attendance location per professional
	db.Exec(`
        CREATE UNIQUE INDEX IF NOT EXISTS idx_locations_default
        ON locations (professional_id)
        WHERE is_default
    `)

	return db
}
