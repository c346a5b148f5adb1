package gormstore

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/vsinha/slitter/pkg/domain/entities"
	"github.com/vsinha/slitter/pkg/domain/repositories"
)

// PlanRepository stores production plans in MySQL
type PlanRepository struct {
	db *gorm.DB
}

// Verify interface compliance
var _ repositories.PlanRepository = (*PlanRepository)(nil)

// NewPlanRepository creates a repository on db
func NewPlanRepository(db *gorm.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

// Migrate creates or updates the plans table
func (r *PlanRepository) Migrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&planModel{})
}

// SavePlan inserts or replaces a plan
func (r *PlanRepository) SavePlan(ctx context.Context, plan *entities.Plan) error {
	if plan.ID == "" {
		return fmt.Errorf("plan id cannot be empty")
	}
	model := toPlanModel(plan)
	if err := r.db.WithContext(ctx).Save(&model).Error; err != nil {
		return fmt.Errorf("failed to save plan %s: %w", plan.ID, err)
	}
	return nil
}

// LoadPlans stores every plan in one transaction
func (r *PlanRepository) LoadPlans(plans []*entities.Plan) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, plan := range plans {
			model := toPlanModel(plan)
			if err := tx.Save(&model).Error; err != nil {
				return fmt.Errorf("failed to load plan %s: %w", plan.ID, err)
			}
		}
		return nil
	})
}

// GetPlan returns the plan with the given id
func (r *PlanRepository) GetPlan(ctx context.Context, id string) (*entities.Plan, error) {
	var model planModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("plan %s: %w", id, entities.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return fromPlanModel(model)
}

// GetPlans returns the plans in the order requested
func (r *PlanRepository) GetPlans(ctx context.Context, ids []string) ([]*entities.Plan, error) {
	if len(ids) == 0 {
		return []*entities.Plan{}, nil
	}

	var models []planModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&models).Error; err != nil {
		return nil, err
	}
	byID := make(map[string]planModel, len(models))
	for _, model := range models {
		byID[model.ID] = model
	}

	plans := make([]*entities.Plan, 0, len(ids))
	for _, id := range ids {
		model, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("plan %s: %w", id, entities.ErrNotFound)
		}
		plan, err := fromPlanModel(model)
		if err != nil {
			return nil, fmt.Errorf("plan %s: %w", id, err)
		}
		plans = append(plans, plan)
	}
	return plans, nil
}

// GetAllPlans returns all plans in creation order
func (r *PlanRepository) GetAllPlans(ctx context.Context) ([]*entities.Plan, error) {
	var models []planModel
	if err := r.db.WithContext(ctx).Order("created_at, id").Find(&models).Error; err != nil {
		return nil, err
	}

	plans := make([]*entities.Plan, 0, len(models))
	for _, model := range models {
		plan, err := fromPlanModel(model)
		if err != nil {
			return nil, fmt.Errorf("plan %s: %w", model.ID, err)
		}
		plans = append(plans, plan)
	}
	return plans, nil
}
