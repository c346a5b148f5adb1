package services

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/vsinha/slitter/pkg/application/dto"
	"github.com/vsinha/slitter/pkg/domain/entities"
)

func TestDispatchService_CreateFromPlan(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	input := plainInput("P-1", 50)
	input.ProcessKind = entities.SealedEdge
	if _, err := f.planService.Create(ctx, input); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	entry, err := f.dispatchService.CreateFromPlan(ctx, "P-1", dto.DispatchInput{
		WeightKg:    decimal.RequireFromString("49.5"),
		PieceCount:  4700,
		BundleCount: 10,
	})
	if err != nil {
		t.Fatalf("CreateFromPlan failed: %v", err)
	}

	if entry.Status != entities.DispatchDraft || len(entry.LineItems) != 1 {
		t.Fatalf("Expected draft with one item, got %s with %d", entry.Status, len(entry.LineItems))
	}
	item := entry.LineItems[0]
	if item.Description != "600 x 300mm Side Seal" || item.ProcessCode != "SS" || item.Micron != 20 {
		t.Errorf("Unexpected descriptive fields: %+v", item)
	}
	if !item.WastageKg.Valid || !item.WastageKg.Decimal.Equal(decimal.RequireFromString("0.5")) {
		t.Errorf("Expected wastage 0.5, got %v", item.WastageKg)
	}
	if !entry.TotalWeightKg.Equal(decimal.RequireFromString("49.5")) || entry.TotalPieces != 4700 {
		t.Errorf("Unexpected totals: %s, %d", entry.TotalWeightKg, entry.TotalPieces)
	}

	plan, _ := f.plans.GetPlan(ctx, "P-1")
	if plan.Status != entities.PlanCompleted {
		t.Errorf("Expected plan completed, got %s", plan.Status)
	}

	_, err = f.dispatchService.CreateFromPlan(ctx, "P-1", dto.DispatchInput{})
	if !errors.Is(err, entities.ErrInvalidTransition) {
		t.Errorf("Expected ErrInvalidTransition for a completed plan, got %v", err)
	}
}

func TestDispatchService_CreateFromPlan_RejectsNegativeWeight(t *testing.T) {
	f := newFixture(t)
	if _, err := f.planService.Create(context.Background(), plainInput("P-1", 50)); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	_, err := f.dispatchService.CreateFromPlan(context.Background(), "P-1", dto.DispatchInput{WeightKg: decimal.NewFromInt(-1)})
	if !errors.Is(err, ErrValidation) {
		t.Errorf("Expected ErrValidation, got %v", err)
	}
}

func TestDispatchService_UpdateCounts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if _, err := f.planService.Create(ctx, plainInput("P-1", 50)); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	entry, err := f.dispatchService.CreateFromPlan(ctx, "P-1", dto.DispatchInput{WeightKg: decimal.NewFromInt(45), PieceCount: 100})
	if err != nil {
		t.Fatalf("CreateFromPlan failed: %v", err)
	}

	weight := decimal.NewFromInt(47)
	updated, err := f.dispatchService.UpdateCounts(ctx, entry.ID, dto.CountsInput{
		LineItemID:  entry.LineItems[0].ID,
		WeightKg:    &weight,
		PieceCount:  int64Ptr(150),
		BundleCount: int64Ptr(3),
	})
	if err != nil {
		t.Fatalf("UpdateCounts failed: %v", err)
	}
	item := updated.LineItems[0]
	if item.PieceCount != 150 || item.BundleCount != 3 || updated.TotalPieces != 150 {
		t.Errorf("Counts not applied: %+v", item)
	}
	if !item.WastageKg.Decimal.Equal(decimal.NewFromInt(3)) {
		t.Errorf("Expected wastage 3, got %v", item.WastageKg)
	}
	if !updated.TotalWeightKg.Equal(weight) {
		t.Errorf("Expected total weight 47, got %s", updated.TotalWeightKg)
	}

	_, err = f.dispatchService.UpdateCounts(ctx, entry.ID, dto.CountsInput{LineItemID: "LI-missing"})
	if !errors.Is(err, entities.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestDispatchService_UpdateCounts_LedgerOwned(t *testing.T) {
	f := newFixture(t)
	f.mergeAB(t)

	_, err := f.dispatchService.UpdateCounts(context.Background(), "DSP-JOB-1", dto.CountsInput{
		LineItemID: "LI-JOB-1-C1",
		PieceCount: int64Ptr(99),
	})
	if !errors.Is(err, entities.ErrLedgerOwned) {
		t.Errorf("Expected ErrLedgerOwned, got %v", err)
	}
}

func TestDispatchService_List(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.mergeAB(t)
	if _, err := f.planService.Create(ctx, plainInput("P-1", 50)); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := f.dispatchService.CreateFromPlan(ctx, "P-1", dto.DispatchInput{}); err != nil {
		t.Fatalf("CreateFromPlan failed: %v", err)
	}

	all, err := f.dispatchService.List(ctx, nil)
	if err != nil || len(all) != 2 {
		t.Fatalf("Expected 2 entries, got %d (%v)", len(all), err)
	}
	slitting := entities.DispatchInSlitting
	inSlitting, _ := f.dispatchService.List(ctx, &slitting)
	if len(inSlitting) != 1 || inSlitting[0].ID != "DSP-JOB-1" {
		t.Errorf("Expected only DSP-JOB-1 in slitting, got %v", inSlitting)
	}
}
