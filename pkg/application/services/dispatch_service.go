package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/vsinha/slitter/pkg/application/dto"
	"github.com/vsinha/slitter/pkg/domain/entities"
	"github.com/vsinha/slitter/pkg/domain/repositories"
	domain "github.com/vsinha/slitter/pkg/domain/services"
	"github.com/vsinha/slitter/pkg/infrastructure/events"
)

// DispatchService manages dispatch entries created straight from a plan,
// without a slitting job in between
type DispatchService struct {
	base
	plans      repositories.PlanRepository
	dispatch   repositories.DispatchRepository
	reconciler *domain.PlanToDispatchReconciler
}

// NewDispatchService creates a dispatch service
func NewDispatchService(
	plans repositories.PlanRepository,
	dispatch repositories.DispatchRepository,
	store events.EventStore,
	logger *logrus.Logger,
) *DispatchService {
	return &DispatchService{
		base:       newBase(store, logger),
		plans:      plans,
		dispatch:   dispatch,
		reconciler: domain.NewPlanToDispatchReconciler(),
	}
}

// CreateFromPlan stores a draft entry with one line item linked to the
// plan and completes the plan. Descriptive and derived fields are filled
// the same way a later plan edit would refresh them.
func (s *DispatchService) CreateFromPlan(ctx context.Context, planID string, input dto.DispatchInput) (*entities.DispatchEntry, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if input.WeightKg.IsNegative() {
		return nil, fmt.Errorf("%w: weight cannot be negative, got %s", ErrValidation, input.WeightKg)
	}

	plan, err := s.plans.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	if plan.Status != entities.PlanPending {
		return nil, fmt.Errorf("plan %s is %s: %w", planID, plan.Status, entities.ErrInvalidTransition)
	}

	now := s.now()
	draft := entities.DispatchEntry{
		ID:     "DSP-" + uuid.NewString(),
		Status: entities.DispatchDraft,
		LineItems: []entities.LineItem{{
			ID:          "LI-" + uuid.NewString(),
			PlanID:      plan.ID,
			WeightKg:    input.WeightKg,
			PieceCount:  input.PieceCount,
			BundleCount: input.BundleCount,
		}},
	}

	result := s.reconciler.Reconcile(*plan, []entities.DispatchEntry{draft})
	entry := result.Entries[0]
	entry.RecomputeTotals()
	entry.UpdatedAt = now

	if err := s.dispatch.SaveDispatchEntry(ctx, &entry); err != nil {
		return nil, fmt.Errorf("failed to save dispatch entry %s: %w", entry.ID, err)
	}

	plan.Complete(now)
	if err := s.plans.SavePlan(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to complete plan %s: %w", planID, err)
	}

	s.logger.WithFields(logrus.Fields{
		"dispatch":  entry.ID,
		"plan":      planID,
		"weight_kg": entry.TotalWeightKg.String(),
	}).Info("dispatch entry created from plan")
	s.publish(events.NewDispatchEvent(events.DispatchCreatedEvent, entry, planID))
	s.publish(events.NewPlanEvent(events.PlanCompletedEvent, *plan))
	return &entry, nil
}

// UpdateCounts edits the operator quantities of a plan-linked line item.
// Wastage follows a changed weight.
func (s *DispatchService) UpdateCounts(ctx context.Context, entryID string, input dto.CountsInput) (*entities.DispatchEntry, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if input.WeightKg != nil && input.WeightKg.IsNegative() {
		return nil, fmt.Errorf("%w: weight cannot be negative, got %s", ErrValidation, input.WeightKg)
	}

	entry, err := s.dispatch.GetDispatchEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}

	var item *entities.LineItem
	for i := range entry.LineItems {
		if entry.LineItems[i].ID == input.LineItemID {
			item = &entry.LineItems[i]
			break
		}
	}
	if item == nil {
		return nil, fmt.Errorf("line item %s on dispatch %s: %w", input.LineItemID, entryID, entities.ErrNotFound)
	}
	if item.CoilID != "" {
		return nil, fmt.Errorf("line item %s: %w", item.ID, entities.ErrLedgerOwned)
	}

	if input.PieceCount != nil {
		item.PieceCount = *input.PieceCount
	}
	if input.BundleCount != nil {
		item.BundleCount = *input.BundleCount
	}
	if input.WeightKg != nil {
		item.WeightKg = *input.WeightKg
		if item.DerivedWeightKg.Valid {
			item.WastageKg.Decimal = item.DerivedWeightKg.Decimal.Sub(item.WeightKg)
			item.WastageKg.Valid = true
		}
	}

	entry.RecomputeTotals()
	entry.UpdatedAt = s.now()
	if err := s.dispatch.SaveDispatchEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to save dispatch entry %s: %w", entryID, err)
	}
	return entry, nil
}

// Get returns one dispatch entry
func (s *DispatchService) Get(ctx context.Context, id string) (*entities.DispatchEntry, error) {
	return s.dispatch.GetDispatchEntry(ctx, id)
}

// List returns all dispatch entries, optionally only those with the given status
func (s *DispatchService) List(ctx context.Context, status *entities.DispatchStatus) ([]*entities.DispatchEntry, error) {
	entries, err := s.dispatch.GetAllDispatchEntries(ctx)
	if err != nil {
		return nil, err
	}
	if status == nil {
		return entries, nil
	}
	filtered := make([]*entities.DispatchEntry, 0, len(entries))
	for _, entry := range entries {
		if entry.Status == *status {
			filtered = append(filtered, entry)
		}
	}
	return filtered, nil
}
