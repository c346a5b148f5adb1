package gormstore

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/vsinha/slitter/pkg/domain/entities"
	"github.com/vsinha/slitter/pkg/domain/repositories"
)

// JobCardRepository stores job cards with their coils and ledger rows in MySQL
type JobCardRepository struct {
	db *gorm.DB
}

// Verify interface compliance
var _ repositories.JobCardRepository = (*JobCardRepository)(nil)

// NewJobCardRepository creates a repository on db
func NewJobCardRepository(db *gorm.DB) *JobCardRepository {
	return &JobCardRepository{db: db}
}

// Migrate creates or updates the job card tables
func (r *JobCardRepository) Migrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&jobCardModel{}, &coilModel{}, &ledgerRowModel{})
}

// SaveJobCard replaces the job card, its coils and its ledger in one transaction
func (r *JobCardRepository) SaveJobCard(ctx context.Context, job *entities.JobCard) error {
	if job.ID == "" {
		return fmt.Errorf("job card id cannot be empty")
	}
	model := toJobCardModel(job)
	coils, rows := model.Coils, model.LedgerRows
	model.Coils, model.LedgerRows = nil, nil

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("job_card_id = ?", model.ID).Delete(&ledgerRowModel{}).Error; err != nil {
			return fmt.Errorf("failed to clear ledger of %s: %w", model.ID, err)
		}
		if err := tx.Where("job_card_id = ?", model.ID).Delete(&coilModel{}).Error; err != nil {
			return fmt.Errorf("failed to clear coils of %s: %w", model.ID, err)
		}
		if err := tx.Save(&model).Error; err != nil {
			return fmt.Errorf("failed to save job card %s: %w", model.ID, err)
		}
		if len(coils) > 0 {
			if err := tx.Create(&coils).Error; err != nil {
				return fmt.Errorf("failed to save coils of %s: %w", model.ID, err)
			}
		}
		if len(rows) > 0 {
			if err := tx.Create(&rows).Error; err != nil {
				return fmt.Errorf("failed to save ledger of %s: %w", model.ID, err)
			}
		}
		return nil
	})
}

// GetJobCard returns the job card with the given id
func (r *JobCardRepository) GetJobCard(ctx context.Context, id string) (*entities.JobCard, error) {
	var model jobCardModel
	err := r.preload(ctx).Where("id = ?", id).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("job card %s: %w", id, entities.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return fromJobCardModel(model)
}

// GetAllJobCards returns all job cards in creation order
func (r *JobCardRepository) GetAllJobCards(ctx context.Context) ([]*entities.JobCard, error) {
	var models []jobCardModel
	if err := r.preload(ctx).Order("created_at, id").Find(&models).Error; err != nil {
		return nil, err
	}

	jobs := make([]*entities.JobCard, 0, len(models))
	for _, model := range models {
		job, err := fromJobCardModel(model)
		if err != nil {
			return nil, fmt.Errorf("job card %s: %w", model.ID, err)
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

func (r *JobCardRepository) preload(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Coils", orderByPosition).
		Preload("LedgerRows", func(db *gorm.DB) *gorm.DB { return db.Order("sequence_no") })
}
