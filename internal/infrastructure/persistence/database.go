package persistence

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/smartstore/backend/internal/domain/catalog"
	"github.com/smartstore/backend/internal/domain/feedback"
	"github.com/smartstore/backend/internal/domain/history"
	"github.com/smartstore/backend/internal/domain/identity"
	"github.com/smartstore/backend/internal/domain/order"
	"github.com/smartstore/backend/internal/infrastructure/config"
)

// Database holds the gorm connection for whichever driver is configured.
// The sqlite backing keeps single-binary deployments dependency-free;
// postgres serves hosted deployments.
type Database struct {
	DB *gorm.DB
}

// NewDatabase opens a connection per the configured driver
func NewDatabase(cfg *config.DatabaseConfig, logger gormlogger.Interface) (*Database, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.Path)
	case "postgres":
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 logger,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &Database{DB: db}, nil
}

// Migrate creates or updates the schema for every aggregate
func (d *Database) Migrate() error {
	return d.DB.AutoMigrate(
		&identity.User{},
		&catalog.Category{},
		&catalog.Supplier{},
		&catalog.Product{},
		&CartEntryModel{},
		&order.Order{},
		&order.Line{},
		&history.Entry{},
		&feedback.Feedback{},
	)
}

// Close closes the database connection
func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Close()
}

// Ping checks if the database connection is alive
func (d *Database) Ping() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Ping()
}
