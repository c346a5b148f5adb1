package services

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/vsinha/slitter/pkg/application/dto"
	"github.com/vsinha/slitter/pkg/domain/entities"
	"github.com/vsinha/slitter/pkg/domain/repositories"
	domain "github.com/vsinha/slitter/pkg/domain/services"
	"github.com/vsinha/slitter/pkg/infrastructure/events"
)

// MergeService combines pending plans of the same micron into a single
// slitting job card
type MergeService struct {
	base
	plans      repositories.PlanRepository
	jobs       repositories.JobCardRepository
	dispatch   repositories.DispatchRepository
	allocator  *domain.CoilAllocator
	aggregator *domain.ProductionLedgerAggregator
}

// NewMergeService creates a merge service
func NewMergeService(
	plans repositories.PlanRepository,
	jobs repositories.JobCardRepository,
	dispatch repositories.DispatchRepository,
	allocator *domain.CoilAllocator,
	store events.EventStore,
	logger *logrus.Logger,
) *MergeService {
	return &MergeService{
		base:       newBase(store, logger),
		plans:      plans,
		jobs:       jobs,
		dispatch:   dispatch,
		allocator:  allocator,
		aggregator: domain.NewProductionLedgerAggregator(),
	}
}

// Preview computes the allocation for req without writing anything
func (s *MergeService) Preview(ctx context.Context, req dto.MergeRequest) (*dto.MergePreview, error) {
	if err := validateInput(req); err != nil {
		return nil, err
	}

	stored, err := s.plans.GetPlans(ctx, req.PlanIDs)
	if err != nil {
		return nil, err
	}

	plans := make([]entities.Plan, 0, len(stored))
	for _, plan := range stored {
		if plan.Status != entities.PlanPending {
			return nil, fmt.Errorf("plan %s is %s: %w", plan.ID, plan.Status, entities.ErrInvalidTransition)
		}
		if !plan.TargetWeightKg.Positive() {
			return nil, fmt.Errorf("plan %s has no target weight: %w", plan.ID, entities.ErrInsufficientInput)
		}
		plans = append(plans, *plan)
	}

	micron := plans[0].Micron
	for _, plan := range plans[1:] {
		if plan.Micron != micron {
			return nil, fmt.Errorf("plan %s is %g micron, plan %s is %g micron: %w",
				plans[0].ID, micron, plan.ID, plan.Micron, entities.ErrMicronMismatch)
		}
	}

	orders := make([]entities.CoilOrder, 0, len(plans))
	var combinedWidth float64
	for _, plan := range plans {
		width := plan.OutputWidthMm
		if override, ok := req.OutputWidthOverrides[plan.ID]; ok {
			width = override
		}
		combinedWidth += width
		orders = append(orders, entities.CoilOrder{
			PlanID:         plan.ID,
			OutputWidthMm:  width,
			TargetWeightKg: plan.TargetWeightKg.Value,
		})
	}

	sourceWidth := resolveSourceWidth(req.SourceWidthMm, plans, combinedWidth)
	allocation, err := s.allocator.Allocate(orders, micron, sourceWidth, req.RollLengthM)
	if err != nil {
		return nil, err
	}
	if allocation.CombinedOutputWidthMm > allocation.SourceWidthMm {
		return nil, fmt.Errorf("%gmm of output on a %gmm source: %w",
			allocation.CombinedOutputWidthMm, allocation.SourceWidthMm, entities.ErrOverWidth)
	}

	return &dto.MergePreview{Allocation: *allocation, Plans: plans}, nil
}

// Commit creates the job card for req, completes the merged plans and
// stores the job's initial dispatch entry
func (s *MergeService) Commit(ctx context.Context, req dto.MergeRequest) (*dto.MergeResult, error) {
	preview, err := s.Preview(ctx, req)
	if err != nil {
		return nil, err
	}

	jobID := req.JobCardID
	if jobID == "" {
		jobID = "JOB-" + uuid.NewString()
	}
	if _, err := s.jobs.GetJobCard(ctx, jobID); err == nil {
		return nil, fmt.Errorf("job card %s already exists: %w", jobID, ErrValidation)
	}

	now := s.now()
	allocation := preview.Allocation
	job := entities.JobCard{
		ID:              jobID,
		PlanIDs:         make([]string, 0, len(preview.Plans)),
		SourceWidthMm:   allocation.SourceWidthMm,
		RollLengthM:     allocation.SourceRollLengthM,
		Micron:          allocation.Micron,
		TargetWeightKg:  allocation.TotalTargetWeightKg,
		MasterRollCount: allocation.MasterRollCount,
		Coils:           make([]entities.Coil, 0, len(allocation.PerCoil)),
		Status:          entities.JobPending,
		CreatedAt:       now,
	}
	for i, share := range allocation.PerCoil {
		job.PlanIDs = append(job.PlanIDs, share.PlanID)
		job.Coils = append(job.Coils, entities.Coil{
			ID:             fmt.Sprintf("%s-C%d", jobID, i+1),
			PlanID:         share.PlanID,
			OutputWidthMm:  share.OutputWidthMm,
			PlannedRolls:   share.RollCount,
			TargetWeightKg: math.Round(share.AllocatedWeightKg*1000) / 1000,
		})
	}

	if err := s.jobs.SaveJobCard(ctx, &job); err != nil {
		return nil, fmt.Errorf("failed to save job card %s: %w", jobID, err)
	}
	s.publish(events.NewJobCardEvent(events.JobCardCreatedEvent, job))

	for _, plan := range preview.Plans {
		plan.Complete(now)
		if err := s.plans.SavePlan(ctx, &plan); err != nil {
			return nil, fmt.Errorf("failed to complete plan %s: %w", plan.ID, err)
		}
		s.publish(events.NewPlanEvent(events.PlanCompletedEvent, plan))
	}

	entry := s.aggregator.Aggregate(job)
	entry.UpdatedAt = now
	if err := s.dispatch.SaveDispatchEntry(ctx, &entry); err != nil {
		return nil, fmt.Errorf("failed to save dispatch entry %s: %w", entry.ID, err)
	}
	s.publish(events.NewDispatchEvent(events.DispatchAggregatedEvent, entry, ""))

	s.logger.WithFields(logrus.Fields{
		"job":          jobID,
		"plans":        len(job.PlanIDs),
		"source_width": job.SourceWidthMm,
		"master_rolls": job.MasterRollCount,
		"utilization":  allocation.Utilization,
	}).Info("plans merged into job card")

	return &dto.MergeResult{JobCard: job, Dispatch: entry, Allocation: allocation}, nil
}

// resolveSourceWidth picks the explicit source width, else the one all
// plans agree on, else the combined output width
func resolveSourceWidth(explicit *float64, plans []entities.Plan, combinedWidth float64) float64 {
	if explicit != nil {
		return *explicit
	}
	shared := plans[0].SourceWidthMm
	if !shared.Positive() {
		return combinedWidth
	}
	for _, plan := range plans[1:] {
		if !plan.SourceWidthMm.Positive() || plan.SourceWidthMm.Value != shared.Value {
			return combinedWidth
		}
	}
	return shared.Value
}
