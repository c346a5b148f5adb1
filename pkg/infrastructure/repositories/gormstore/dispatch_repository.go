package gormstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/vsinha/slitter/pkg/domain/entities"
	"github.com/vsinha/slitter/pkg/domain/repositories"
)

// DispatchRepository stores dispatch entries and their line items in MySQL
type DispatchRepository struct {
	db *gorm.DB
}

// Verify interface compliance
var _ repositories.DispatchRepository = (*DispatchRepository)(nil)

// Open connects to MySQL. parseTime is forced on so timestamps scan into time.Time.
func Open(dsn string, logger *logrus.Logger) (*gorm.DB, error) {
	normalized, err := NormalizeDSN(dsn)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	db, err := gorm.Open(mysql.Open(normalized), &gorm.Config{
		Logger: gormlogger.New(logger, gormlogger.Config{
			Colorful:      false,
			LogLevel:      gormlogger.Error,
			SlowThreshold: time.Second,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// NormalizeDSN parses a MySQL DSN and returns it with parseTime enabled
func NormalizeDSN(dsn string) (string, error) {
	cfg, err := mysqldriver.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("invalid mysql dsn: %w", err)
	}
	cfg.ParseTime = true
	if cfg.Loc == nil {
		cfg.Loc = time.UTC
	}
	return cfg.FormatDSN(), nil
}

// NewDispatchRepository creates a repository on db
func NewDispatchRepository(db *gorm.DB) *DispatchRepository {
	return &DispatchRepository{db: db}
}

// Migrate creates or updates the dispatch tables
func (r *DispatchRepository) Migrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&dispatchEntryModel{}, &lineItemModel{})
}

// SaveDispatchEntry replaces the entry and its full line-item list in one transaction
func (r *DispatchRepository) SaveDispatchEntry(ctx context.Context, entry *entities.DispatchEntry) error {
	if entry.ID == "" {
		return fmt.Errorf("dispatch entry id cannot be empty")
	}
	model := toModel(entry)
	items := model.LineItems
	model.LineItems = nil

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("dispatch_entry_id = ?", model.ID).Delete(&lineItemModel{}).Error; err != nil {
			return fmt.Errorf("failed to clear line items of %s: %w", model.ID, err)
		}
		if err := tx.Save(&model).Error; err != nil {
			return fmt.Errorf("failed to save dispatch entry %s: %w", model.ID, err)
		}
		if len(items) == 0 {
			return nil
		}
		if err := tx.Create(&items).Error; err != nil {
			return fmt.Errorf("failed to save line items of %s: %w", model.ID, err)
		}
		return nil
	})
}

// GetDispatchEntry returns the entry with the given id
func (r *DispatchRepository) GetDispatchEntry(ctx context.Context, id string) (*entities.DispatchEntry, error) {
	var model dispatchEntryModel
	err := r.db.WithContext(ctx).
		Preload("LineItems", orderByPosition).
		Where("id = ?", id).
		First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("dispatch entry %s: %w", id, entities.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return fromModel(model)
}

// GetAllDispatchEntries returns all entries sorted by id
func (r *DispatchRepository) GetAllDispatchEntries(ctx context.Context) ([]*entities.DispatchEntry, error) {
	var models []dispatchEntryModel
	if err := r.db.WithContext(ctx).Preload("LineItems", orderByPosition).Order("id").Find(&models).Error; err != nil {
		return nil, err
	}

	entries := make([]*entities.DispatchEntry, 0, len(models))
	for _, model := range models {
		entry, err := fromModel(model)
		if err != nil {
			return nil, fmt.Errorf("dispatch entry %s: %w", model.ID, err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func orderByPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position")
}
