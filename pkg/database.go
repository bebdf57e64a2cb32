package pkg

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/edupulse/school-service/internal/config"
	"github.com/edupulse/school-service/internal/models"
)

// InitDatabase opens the postgres connection and migrates the schema.
func InitDatabase(cfg *config.Config) (*gorm.DB, error) {
	logLevel := gormlogger.Warn
	if cfg.Environment == "development" {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(
		&models.Branch{},
		&models.GlobalSetting{},
		&models.Session{},
		&models.Staff{},
		&models.Parent{},
		&models.Student{},
		&models.LoginCredential{},
		&models.PasswordReset{},
		&models.LoginLog{},
		&models.Class{},
		&models.Section{},
		&models.Enroll{},
		&models.StudentAttendance{},
		&models.StaffAttendance{},
		&models.Transaction{},
		&models.FeeAllocation{},
		&models.FeePayment{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return db, nil
}
