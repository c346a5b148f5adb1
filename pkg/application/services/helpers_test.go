package services

import (
	"context"
	"testing"
	"time"

	logtest "github.com/sirupsen/logrus/hooks/test"

	"github.com/vsinha/slitter/pkg/application/dto"
	"github.com/vsinha/slitter/pkg/domain/entities"
	domain "github.com/vsinha/slitter/pkg/domain/services"
	"github.com/vsinha/slitter/pkg/infrastructure/events"
	"github.com/vsinha/slitter/pkg/infrastructure/repositories/memory"
)

var fixedNow = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

type fixture struct {
	plans    *memory.PlanRepository
	jobs     *memory.JobCardRepository
	dispatch *memory.DispatchRepository
	events   *events.InMemoryEventStore
	hook     *logtest.Hook

	planService     *PlanService
	mergeService    *MergeService
	ledgerService   *LedgerService
	dispatchService *DispatchService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	logger, hook := logtest.NewNullLogger()
	constants := domain.DefaultConstants()

	f := &fixture{
		plans:    memory.NewPlanRepository(8),
		jobs:     memory.NewJobCardRepository(),
		dispatch: memory.NewDispatchRepository(),
		events:   events.NewInMemoryEventStore(logger),
		hook:     hook,
	}
	f.planService = NewPlanService(f.plans, f.dispatch, domain.NewUnitConverter(constants), f.events, logger)
	f.mergeService = NewMergeService(f.plans, f.jobs, f.dispatch, domain.NewCoilAllocator(constants), f.events, logger)
	f.ledgerService = NewLedgerService(f.jobs, f.dispatch, f.events, logger)
	f.dispatchService = NewDispatchService(f.plans, f.dispatch, f.events, logger)

	clock := func() time.Time { return fixedNow }
	f.planService.SetClock(clock)
	f.mergeService.SetClock(clock)
	f.ledgerService.SetClock(clock)
	f.dispatchService.SetClock(clock)
	return f
}

func floatPtr(v float64) *float64 { return &v }

func int64Ptr(v int64) *int64 { return &v }

func (f *fixture) createTubePlan(t *testing.T, id string, width, micron, weight float64) entities.Plan {
	t.Helper()
	result, err := f.planService.Create(context.Background(), dto.PlanInput{
		ID:            id,
		Micron:        micron,
		OutputWidthMm: width,
		ProcessKind:   entities.Tube,
		Driver:        entities.DriverWeight,
		DriverValue:   floatPtr(weight),
	})
	if err != nil {
		t.Fatalf("Create %s failed: %v", id, err)
	}
	return result.Plan
}

// mergeAB creates two tube plans of 400mm/120kg and 300mm/90kg at 25
// micron and merges them onto a 700mm source
func (f *fixture) mergeAB(t *testing.T) *dto.MergeResult {
	t.Helper()
	f.createTubePlan(t, "A", 400, 25, 120)
	f.createTubePlan(t, "B", 300, 25, 90)

	result, err := f.mergeService.Commit(context.Background(), dto.MergeRequest{
		PlanIDs:     []string{"A", "B"},
		RollLengthM: 2000,
		JobCardID:   "JOB-1",
	})
	if err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	return result
}

func (f *fixture) countEvents(eventType string) int {
	n := 0
	for _, e := range f.events.All(0) {
		if e.Type == eventType {
			n++
		}
	}
	return n
}
