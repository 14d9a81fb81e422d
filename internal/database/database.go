package database

import (
	"fmt"
	"log"

	"github.com/classclarus/classroom-api/internal/config"
	"github.com/classclarus/classroom-api/internal/models"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func Connect(cfg *config.Config) error {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "postgres":
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName)
		dialector = postgres.Open(dsn)
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)
		dialector = mysql.Open(dsn)
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	var err error
	DB, err = gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Println("Database connection established")
	return nil
}

func Migrate() error {
	return MigrateDB(DB)
}

// MigrateDB runs auto-migration against the given handle (tests use an
// in-memory sqlite database).
func MigrateDB(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Organization{},
		&models.OrgJoinCode{},
		&models.Class{},
		&models.ClassMembership{},
		&models.OrganizationMembership{},
		&models.GuardianLink{},
		&models.Group{},
		&models.GroupStudent{},
		&models.Team{},
		&models.TeamStudent{},
		&models.BehaviorLog{},
		&models.RewardRedemption{},
		&models.StudentExpectation{},
		&models.ClassRosterEntry{},
		&models.DashboardPreference{},
		&models.TermsAcceptance{},
		&models.PendingMember{},
		&models.UserFile{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func GetDB() *gorm.DB {
	return DB
}

// SetDB sets the database instance (used for testing)
func SetDB(db *gorm.DB) {
	DB = db
}
