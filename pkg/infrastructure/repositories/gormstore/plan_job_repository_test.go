package gormstore

import (
	"context"
	"errors"
	"os"
	"reflect"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/slitter/pkg/domain/entities"
)

var storedAt = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

func samplePlan() *entities.Plan {
	return &entities.Plan{
		ID:              "P-1",
		Customer:        "Acme",
		Micron:          20,
		OutputWidthMm:   600,
		TargetWeightKg:  entities.Known(50),
		TargetLengthM:   entities.Known(1488.095),
		TargetPieces:    entities.KnownCount(4960),
		CuttingLengthMm: entities.Known(300),
		ProcessKind:     entities.SealedEdge,
		Driver:          entities.DriverWeight,
		Status:          entities.PlanCompleted,
		CreatedAt:       storedAt,
		UpdatedAt:       storedAt,
	}
}

func sampleJob() *entities.JobCard {
	return &entities.JobCard{
		ID:              "JOB-1",
		PlanIDs:         []string{"A", "B"},
		SourceWidthMm:   700,
		RollLengthM:     2000,
		Micron:          25,
		TargetWeightKg:  210,
		MasterRollCount: 5,
		Coils: []entities.Coil{
			{ID: "JOB-1-C1", PlanID: "A", OutputWidthMm: 400, PlannedRolls: 5, TargetWeightKg: 120},
			{ID: "JOB-1-C2", PlanID: "B", OutputWidthMm: 300, PlannedRolls: 4, TargetWeightKg: 90},
		},
		Status: entities.JobInProgress,
		LedgerRows: []entities.LedgerRow{{
			ID:            "ROW-3",
			CoilID:        "JOB-1-C1",
			SequenceNo:    3,
			GrossWeightKg: decimal.RequireFromString("12.55"),
			CoreWeightKg:  decimal.RequireFromString("0.5"),
			NetWeightKg:   decimal.RequireFromString("12.05"),
			LengthM:       decimal.NewFromInt(400),
			RecordedAt:    storedAt,
		}},
		CreatedAt:      storedAt,
		LastSequenceNo: 4,
	}
}

func TestPlanModelConversion(t *testing.T) {
	plan := samplePlan()

	model := toPlanModel(plan)
	if model.SourceWidthMm != nil {
		t.Errorf("Expected undefined source width to be stored as null, got %v", *model.SourceWidthMm)
	}
	if model.ProcessKind != "SealedEdge" || model.Driver != "Weight" || model.Status != "Completed" {
		t.Errorf("Unexpected enum columns: %s %s %s", model.ProcessKind, model.Driver, model.Status)
	}

	back, err := fromPlanModel(model)
	if err != nil {
		t.Fatalf("fromPlanModel failed: %v", err)
	}
	if !reflect.DeepEqual(back, plan) {
		t.Errorf("Conversion changed the plan:\n%+v\n%+v", back, plan)
	}

	model.Driver = "Volume"
	if _, err := fromPlanModel(model); err == nil {
		t.Error("Expected an error for an unknown driver")
	}
}

func TestJobCardModelConversion(t *testing.T) {
	job := sampleJob()

	model := toJobCardModel(job)
	for i, coil := range model.Coils {
		if coil.Position != i || coil.JobCardID != job.ID {
			t.Errorf("Coil %d: expected position %d under %s, got %d under %s", i, i, job.ID, coil.Position, coil.JobCardID)
		}
	}
	if model.LastSequenceNo != 4 {
		t.Errorf("Expected the high-water mark to be stored, got %d", model.LastSequenceNo)
	}

	back, err := fromJobCardModel(model)
	if err != nil {
		t.Fatalf("fromJobCardModel failed: %v", err)
	}
	if !reflect.DeepEqual(back, job) {
		t.Errorf("Conversion changed the job card:\n%+v\n%+v", back, job)
	}
	if back.NextSequenceNo() != 5 {
		t.Errorf("Expected next sequence 5 after a reload, got %d", back.NextSequenceNo())
	}
}

// TestPlanAndJobRepositories_MySQL runs against a real database when
// SLITTER_TEST_MYSQL_DSN is set
func TestPlanAndJobRepositories_MySQL(t *testing.T) {
	dsn := os.Getenv("SLITTER_TEST_MYSQL_DSN")
	if dsn == "" {
		t.Skip("SLITTER_TEST_MYSQL_DSN not set")
	}

	ctx := context.Background()
	db, err := Open(dsn, nil)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	plans := NewPlanRepository(db)
	jobs := NewJobCardRepository(db)
	if err := plans.Migrate(ctx); err != nil {
		t.Fatalf("plan Migrate failed: %v", err)
	}
	if err := jobs.Migrate(ctx); err != nil {
		t.Fatalf("job Migrate failed: %v", err)
	}
	t.Cleanup(func() {
		db.Where("id = ?", "P-1").Delete(&planModel{})
		db.Where("job_card_id = ?", "JOB-1").Delete(&ledgerRowModel{})
		db.Where("job_card_id = ?", "JOB-1").Delete(&coilModel{})
		db.Where("id = ?", "JOB-1").Delete(&jobCardModel{})
	})

	if err := plans.SavePlan(ctx, samplePlan()); err != nil {
		t.Fatalf("SavePlan failed: %v", err)
	}
	stored, err := plans.GetPlans(ctx, []string{"P-1"})
	if err != nil || len(stored) != 1 || stored[0].TargetPieces.Value != 4960 {
		t.Fatalf("Expected P-1 back with 4960 pieces, got %v (%v)", stored, err)
	}
	if _, err := plans.GetPlans(ctx, []string{"P-1", "P-missing"}); !errors.Is(err, entities.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for a missing plan, got %v", err)
	}

	job := sampleJob()
	if err := jobs.SaveJobCard(ctx, job); err != nil {
		t.Fatalf("SaveJobCard failed: %v", err)
	}
	job.LedgerRows = nil
	if err := jobs.SaveJobCard(ctx, job); err != nil {
		t.Fatalf("second SaveJobCard failed: %v", err)
	}
	reloaded, err := jobs.GetJobCard(ctx, "JOB-1")
	if err != nil {
		t.Fatalf("GetJobCard failed: %v", err)
	}
	if len(reloaded.LedgerRows) != 0 || len(reloaded.Coils) != 2 {
		t.Errorf("Expected the replaced ledger and both coils, got %+v", reloaded)
	}
	if reloaded.NextSequenceNo() != 5 {
		t.Errorf("Expected numbering to survive the reload, got next %d", reloaded.NextSequenceNo())
	}
	if _, err := jobs.GetJobCard(ctx, "JOB-missing"); !errors.Is(err, entities.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}
