package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/vsinha/slitter/pkg/domain/entities"
	"github.com/vsinha/slitter/pkg/domain/repositories"
)

// PlanRepository provides in-memory plan storage
type PlanRepository struct {
	mu       sync.RWMutex
	plans    []entities.Plan
	plansMap map[string]int
}

// NewPlanRepository creates a new in-memory plan repository
func NewPlanRepository(expectedPlans int) *PlanRepository {
	return &PlanRepository{
		plans:    make([]entities.Plan, 0, expectedPlans),
		plansMap: make(map[string]int, expectedPlans),
	}
}

// Verify interface compliance
var _ repositories.PlanRepository = (*PlanRepository)(nil)

// LoadPlans loads plans into the repository
func (r *PlanRepository) LoadPlans(plans []*entities.Plan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, plan := range plans {
		r.put(*plan)
	}
	return nil
}

// SavePlan inserts or replaces a plan
func (r *PlanRepository) SavePlan(_ context.Context, plan *entities.Plan) error {
	if plan.ID == "" {
		return fmt.Errorf("plan id cannot be empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.put(*plan)
	return nil
}

func (r *PlanRepository) put(plan entities.Plan) {
	if index, exists := r.plansMap[plan.ID]; exists {
		r.plans[index] = plan
		return
	}
	r.plansMap[plan.ID] = len(r.plans)
	r.plans = append(r.plans, plan)
}

// GetPlan returns a copy of the plan with the given id
func (r *PlanRepository) GetPlan(_ context.Context, id string) (*entities.Plan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	index, exists := r.plansMap[id]
	if !exists {
		return nil, fmt.Errorf("plan %s: %w", id, entities.ErrNotFound)
	}
	plan := r.plans[index]
	return &plan, nil
}

// GetPlans returns copies of the plans in the order requested
func (r *PlanRepository) GetPlans(ctx context.Context, ids []string) ([]*entities.Plan, error) {
	plans := make([]*entities.Plan, 0, len(ids))
	for _, id := range ids {
		plan, err := r.GetPlan(ctx, id)
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}
	return plans, nil
}

// GetAllPlans returns copies of all plans in insertion order
func (r *PlanRepository) GetAllPlans(_ context.Context) ([]*entities.Plan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	plans := make([]*entities.Plan, 0, len(r.plans))
	for i := range r.plans {
		plan := r.plans[i]
		plans = append(plans, &plan)
	}
	return plans, nil
}
