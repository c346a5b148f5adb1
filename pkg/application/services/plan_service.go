package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/vsinha/slitter/pkg/application/dto"
	"github.com/vsinha/slitter/pkg/domain/entities"
	"github.com/vsinha/slitter/pkg/domain/repositories"
	domain "github.com/vsinha/slitter/pkg/domain/services"
	"github.com/vsinha/slitter/pkg/infrastructure/events"
	"github.com/vsinha/slitter/pkg/infrastructure/logging"
)

// PlanService creates and edits production plans and keeps dispatch line
// items linked to a plan in step with it
type PlanService struct {
	base
	plans      repositories.PlanRepository
	dispatch   repositories.DispatchRepository
	converter  *domain.UnitConverter
	reconciler *domain.PlanToDispatchReconciler
}

// NewPlanService creates a plan service
func NewPlanService(
	plans repositories.PlanRepository,
	dispatch repositories.DispatchRepository,
	converter *domain.UnitConverter,
	store events.EventStore,
	logger *logrus.Logger,
) *PlanService {
	return &PlanService{
		base:       newBase(store, logger),
		plans:      plans,
		dispatch:   dispatch,
		converter:  converter,
		reconciler: domain.NewPlanToDispatchReconciler(),
	}
}

// Derive runs the unit conversion for input without storing anything
func (s *PlanService) Derive(input dto.PlanInput) (*dto.PlanResult, error) {
	plan, err := s.buildPlan(input)
	if err != nil {
		return nil, err
	}
	return s.derive(plan)
}

// Create derives and stores a new pending plan. A plan whose inputs are
// incomplete is still stored, with its derived fields undefined.
func (s *PlanService) Create(ctx context.Context, input dto.PlanInput) (*dto.PlanResult, error) {
	plan, err := s.buildPlan(input)
	if err != nil {
		return nil, err
	}
	if plan.ID == "" {
		plan.ID = "PLN-" + uuid.NewString()
	}
	if _, err := s.plans.GetPlan(ctx, plan.ID); err == nil {
		return nil, fmt.Errorf("plan %s already exists: %w", plan.ID, ErrValidation)
	}

	now := s.now()
	plan.CreatedAt = now
	plan.UpdatedAt = now

	result, err := s.derive(plan)
	if err != nil {
		return nil, err
	}
	if err := s.plans.SavePlan(ctx, &result.Plan); err != nil {
		return nil, fmt.Errorf("failed to save plan %s: %w", plan.ID, err)
	}

	s.logger.WithFields(logrus.Fields{
		"plan":    plan.ID,
		"process": plan.ProcessKind.String(),
		"driver":  plan.Driver.String(),
	}).Info("plan created")
	s.publish(events.NewPlanEvent(events.PlanCreatedEvent, result.Plan))
	return result, nil
}

// Import derives and stores plans read from a scenario file. Every plan is
// validated before any is stored. Plans already stored are left as they
// are and omitted from the results.
func (s *PlanService) Import(ctx context.Context, plans []*entities.Plan) ([]*dto.PlanResult, error) {
	now := s.now()
	results := make([]*dto.PlanResult, 0, len(plans))
	skipped := 0
	for _, loaded := range plans {
		_, err := s.plans.GetPlan(ctx, loaded.ID)
		if err == nil {
			skipped++
			continue
		}
		if !errors.Is(err, entities.ErrNotFound) {
			return nil, fmt.Errorf("failed to check plan %s: %w", loaded.ID, err)
		}

		plan := *loaded
		plan.Status = entities.PlanPending
		plan.CreatedAt = now
		plan.UpdatedAt = now
		if err := plan.Validate(); err != nil {
			return nil, fmt.Errorf("plan %q: %w: %v", plan.ID, ErrValidation, err)
		}
		result, err := s.derive(plan)
		if err != nil {
			return nil, fmt.Errorf("plan %s: %w", plan.ID, err)
		}
		results = append(results, result)
	}

	for _, result := range results {
		if err := s.plans.SavePlan(ctx, &result.Plan); err != nil {
			return nil, fmt.Errorf("failed to save plan %s: %w", result.Plan.ID, err)
		}
		s.publish(events.NewPlanEvent(events.PlanCreatedEvent, result.Plan))
	}

	s.logger.WithFields(logrus.Fields{
		"plans":   len(results),
		"skipped": skipped,
	}).Info("plans imported")
	return results, nil
}

// Edit applies edit to a stored plan, re-derives it and reconciles every
// dispatch entry referencing it. A completed plan is reopened for the
// edit and completed again afterwards. Once the plan is saved the edit
// succeeds; reconcile failures are reported on result.Reconcile.
func (s *PlanService) Edit(ctx context.Context, id string, edit dto.PlanEdit) (*dto.PlanResult, error) {
	if err := validateInput(edit); err != nil {
		return nil, err
	}

	stored, err := s.plans.GetPlan(ctx, id)
	if err != nil {
		return nil, err
	}
	plan := *stored

	now := s.now()
	wasCompleted := plan.Reopen(now)

	if edit.Customer != nil {
		plan.Customer = *edit.Customer
	}
	if edit.Micron != nil {
		plan.Micron = *edit.Micron
	}
	if edit.OutputWidthMm != nil {
		plan.OutputWidthMm = *edit.OutputWidthMm
	}
	if edit.SourceWidthMm != nil {
		plan.SourceWidthMm = optionalMeasure(edit.SourceWidthMm)
	}
	if edit.CuttingLengthMm != nil {
		plan.CuttingLengthMm = optionalMeasure(edit.CuttingLengthMm)
	}
	if edit.ProcessKind != nil {
		plan.ProcessKind = *edit.ProcessKind
		if !plan.DriverAllowed(plan.Driver) && edit.Driver == nil {
			plan.Driver = entities.DriverWeight
		}
	}
	if edit.Driver != nil {
		if err := plan.SwitchDriver(*edit.Driver); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
	}
	if edit.DriverValue != nil {
		if err := plan.Write(plan.Driver, *edit.DriverValue); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrValidation, err)
		}
	}
	if err := plan.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	result, err := s.derive(plan)
	if err != nil {
		return nil, err
	}
	result.Plan.UpdatedAt = now
	if wasCompleted {
		result.Plan.Complete(now)
	}
	if err := s.plans.SavePlan(ctx, &result.Plan); err != nil {
		return nil, fmt.Errorf("failed to save plan %s: %w", id, err)
	}
	s.publish(events.NewPlanEvent(events.PlanUpdatedEvent, result.Plan))

	report, err := s.Reconcile(ctx, result.Plan)
	if err != nil {
		report = &dto.ReconcileReport{PlanID: id, Updated: []string{}, Error: err.Error()}
		logging.LogError(s.logger, "services", "Edit", report, err)
	}
	result.Reconcile = report
	return result, nil
}

// Reconcile pushes plan onto every dispatch line item linked to it. Each
// entry is saved on its own; one failed save does not stop the rest.
func (s *PlanService) Reconcile(ctx context.Context, plan entities.Plan) (*dto.ReconcileReport, error) {
	stored, err := s.dispatch.GetAllDispatchEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load dispatch entries: %w", err)
	}
	entries := make([]entities.DispatchEntry, 0, len(stored))
	for _, entry := range stored {
		entries = append(entries, *entry)
	}

	result := s.reconciler.Reconcile(plan, entries)
	report := &dto.ReconcileReport{
		PlanID:       plan.ID,
		NoOp:         result.NoOp(),
		ItemsUpdated: result.ItemsUpdated,
		Updated:      []string{},
	}

	var failures []error
	now := s.now()
	for i := range result.Entries {
		entry := result.Entries[i]
		entry.UpdatedAt = now
		if err := s.dispatch.SaveDispatchEntry(ctx, &entry); err != nil {
			if report.Failed == nil {
				report.Failed = make(map[string]string)
			}
			report.Failed[entry.ID] = err.Error()
			failures = append(failures, fmt.Errorf("dispatch entry %s: %w", entry.ID, err))
			continue
		}
		report.Updated = append(report.Updated, entry.ID)
		s.publish(events.NewDispatchEvent(events.DispatchReconciledEvent, entry, plan.ID))
	}

	if len(failures) > 0 {
		logging.LogError(s.logger, "services", "Reconcile", report,
			fmt.Errorf("plan %s reconciliation partially failed: %w", plan.ID, errors.Join(failures...)))
	} else if !report.NoOp {
		s.logger.WithFields(logrus.Fields{
			"plan":    plan.ID,
			"entries": len(report.Updated),
			"items":   report.ItemsUpdated,
		}).Info("plan reconciled onto dispatch")
	}
	return report, nil
}

// Get returns one plan
func (s *PlanService) Get(ctx context.Context, id string) (*entities.Plan, error) {
	return s.plans.GetPlan(ctx, id)
}

// List returns all plans, optionally only those with the given status
func (s *PlanService) List(ctx context.Context, status *entities.PlanStatus) ([]*entities.Plan, error) {
	plans, err := s.plans.GetAllPlans(ctx)
	if err != nil {
		return nil, err
	}
	if status == nil {
		return plans, nil
	}
	filtered := make([]*entities.Plan, 0, len(plans))
	for _, plan := range plans {
		if plan.Status == *status {
			filtered = append(filtered, plan)
		}
	}
	return filtered, nil
}

func (s *PlanService) buildPlan(input dto.PlanInput) (entities.Plan, error) {
	if err := validateInput(input); err != nil {
		return entities.Plan{}, err
	}

	plan := entities.Plan{
		ID:              input.ID,
		Customer:        input.Customer,
		Micron:          input.Micron,
		SourceWidthMm:   optionalMeasure(input.SourceWidthMm),
		OutputWidthMm:   input.OutputWidthMm,
		CuttingLengthMm: optionalMeasure(input.CuttingLengthMm),
		ProcessKind:     input.ProcessKind,
		Driver:          input.Driver,
		Status:          entities.PlanPending,
	}
	if input.DriverValue != nil {
		if err := plan.Write(plan.Driver, *input.DriverValue); err != nil {
			return entities.Plan{}, fmt.Errorf("%w: %w", ErrValidation, err)
		}
	}

	check := plan
	if check.ID == "" {
		check.ID = "preview"
	}
	if err := check.Validate(); err != nil {
		return entities.Plan{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return plan, nil
}

// derive runs the converter; insufficient input is reported on the result
// rather than as an error
func (s *PlanService) derive(plan entities.Plan) (*dto.PlanResult, error) {
	derived, err := s.converter.Derive(plan)
	result := &dto.PlanResult{Plan: derived}
	switch {
	case err == nil:
	case errors.Is(err, entities.ErrInsufficientInput):
		result.Insufficient = true
		result.Reason = err.Error()
	default:
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return result, nil
}

// optionalMeasure maps a missing or zero payload value to undefined
func optionalMeasure(v *float64) entities.Measure {
	if v == nil || *v == 0 {
		return entities.Undefined
	}
	return entities.Known(*v)
}
