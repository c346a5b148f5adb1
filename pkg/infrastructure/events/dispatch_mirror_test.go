package events

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"github.com/vsinha/slitter/pkg/domain/entities"
)

type pushed struct {
	entryID string
	rows    []DispatchRow
}

type recordingSink struct {
	pushes chan pushed
	err    error
}

func newRecordingSink() *recordingSink {
	return &recordingSink{pushes: make(chan pushed, 8)}
}

func (s *recordingSink) PushDispatch(entryID string, rows []DispatchRow) error {
	s.pushes <- pushed{entryID: entryID, rows: rows}
	return s.err
}

func (s *recordingSink) next(t *testing.T) pushed {
	t.Helper()
	select {
	case p := <-s.pushes:
		return p
	case <-time.After(time.Second):
		t.Fatal("Timed out waiting for a mirrored dispatch")
		return pushed{}
	}
}

func mirroredEntry() entities.DispatchEntry {
	entry := entities.DispatchEntry{
		ID:        "DSP-JOB-1",
		JobCardID: "JOB-1",
		Status:    entities.DispatchInSlitting,
		LineItems: []entities.LineItem{
			{ID: "LI-JOB-1-C1", CoilID: "JOB-1-C1", Description: "400mm Coil", Micron: 25, WeightKg: decimal.RequireFromString("23.45"), PieceCount: 2},
			{
				ID:              "LI-P",
				PlanID:          "P-1",
				Description:     "600 x 300mm Side Seal",
				ProcessCode:     "SS",
				WeightKg:        decimal.NewFromInt(48),
				BundleCount:     4,
				DerivedWeightKg: decimal.NewNullDecimal(decimal.NewFromInt(50)),
				WastageKg:       decimal.NewNullDecimal(decimal.NewFromInt(2)),
			},
		},
	}
	entry.RecomputeTotals()
	return entry
}

func TestFlattenDispatch(t *testing.T) {
	rows := FlattenDispatch(mirroredEntry())
	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(rows))
	}

	coil := rows[0]
	if coil.EntryID != "DSP-JOB-1" || coil.JobCardID != "JOB-1" || coil.Status != "InSlitting" {
		t.Errorf("Expected entry fields on every row, got %+v", coil)
	}
	if coil.WeightKg != "23.45" || coil.PieceCount != 2 {
		t.Errorf("Expected 23.45kg over 2 pieces, got %s over %d", coil.WeightKg, coil.PieceCount)
	}
	if coil.DerivedWeightKg != "" || coil.WastageKg != "" {
		t.Errorf("Expected undefined derived values to be empty, got %q and %q", coil.DerivedWeightKg, coil.WastageKg)
	}

	plan := rows[1]
	if plan.DerivedWeightKg != "50" || plan.WastageKg != "2" || plan.BundleCount != 4 {
		t.Errorf("Unexpected plan row: %+v", plan)
	}
}

func TestMirrorDispatch_PushesDispatchChanges(t *testing.T) {
	store := NewInMemoryEventStore(nil)
	sink := newRecordingSink()
	cancel := MirrorDispatch(store, sink)

	if _, err := store.Append(NewPlanEvent(PlanUpdatedEvent, entities.Plan{ID: "P-1"})); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if _, err := store.Append(NewDispatchEvent(DispatchAggregatedEvent, mirroredEntry(), "")); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	got := sink.next(t)
	if got.entryID != "DSP-JOB-1" || len(got.rows) != 2 {
		t.Errorf("Expected both rows of DSP-JOB-1, got %s with %d rows", got.entryID, len(got.rows))
	}

	cancel()
	if _, err := store.Append(NewDispatchEvent(DispatchReconciledEvent, mirroredEntry(), "P-1")); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	select {
	case p := <-sink.pushes:
		t.Errorf("Expected no push after cancel, got %s", p.entryID)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestMirrorDispatch_SinkFailureIsLogged(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	store := NewInMemoryEventStore(logger)
	sink := newRecordingSink()
	sink.err = errors.New("sheet locked")
	defer MirrorDispatch(store, sink)()

	if _, err := store.Append(NewDispatchEvent(DispatchCreatedEvent, mirroredEntry(), "P-1")); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	sink.next(t)

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if entry := hook.LastEntry(); entry != nil {
			if entry.Level != logrus.ErrorLevel || entry.Data["event"] != DispatchCreatedEvent {
				t.Errorf("Expected an error log for %s, got %+v", DispatchCreatedEvent, entry)
			}
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Error("Expected the sink failure to be logged")
}

func TestLogSink_OneLinePerRow(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	sink := NewLogSink(logger)

	if err := sink.PushDispatch("DSP-JOB-1", FlattenDispatch(mirroredEntry())); err != nil {
		t.Fatalf("PushDispatch failed: %v", err)
	}
	entries := hook.AllEntries()
	if len(entries) != 2 {
		t.Fatalf("Expected 2 log lines, got %d", len(entries))
	}
	if entries[0].Data["line_item"] != "LI-JOB-1-C1" || entries[0].Data["weight_kg"] != "23.45" {
		t.Errorf("Unexpected fields: %v", entries[0].Data)
	}
}
