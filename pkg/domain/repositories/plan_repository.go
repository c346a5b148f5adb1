package repositories

import (
	"context"

	"github.com/vsinha/slitter/pkg/domain/entities"
)

// PlanRepository provides access to production plans
type PlanRepository interface {
	GetPlan(ctx context.Context, id string) (*entities.Plan, error)
	GetPlans(ctx context.Context, ids []string) ([]*entities.Plan, error)
	GetAllPlans(ctx context.Context) ([]*entities.Plan, error)
	SavePlan(ctx context.Context, plan *entities.Plan) error
	LoadPlans(plans []*entities.Plan) error
}
