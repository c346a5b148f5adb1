package entities

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func newTestRow(t *testing.T, id, coilID string) LedgerRow {
	t.Helper()
	row, err := NewLedgerRow(id, coilID, decimal.NewFromInt(10), decimal.RequireFromString("0.5"), decimal.NewFromInt(900), time.Now())
	if err != nil {
		t.Fatalf("Failed to create row: %v", err)
	}
	return *row
}

func TestNewLedgerRow_Validation(t *testing.T) {
	row, err := NewLedgerRow("R1", "C1", decimal.RequireFromString("12.55"), decimal.RequireFromString("0.5"), decimal.Zero, time.Now())
	if err != nil {
		t.Fatalf("Expected valid row: %v", err)
	}
	if !row.NetWeightKg.Equal(decimal.RequireFromString("12.05")) {
		t.Errorf("Expected net 12.05, got %s", row.NetWeightKg)
	}

	testCases := []struct {
		name        string
		id, coil    string
		gross, core string
		expectError string
	}{
		{"empty id", "", "C1", "10", "1", "ledger row id cannot be empty"},
		{"empty coil", "R1", "", "10", "1", "coil id cannot be empty"},
		{"zero gross", "R1", "C1", "0", "0", "gross weight must be positive, got 0"},
		{"negative core", "R1", "C1", "10", "-1", "core weight cannot be negative, got -1"},
		{"core over gross", "R1", "C1", "1", "2", "core weight 2 cannot exceed gross weight 1"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewLedgerRow(tc.id, tc.coil, decimal.RequireFromString(tc.gross), decimal.RequireFromString(tc.core), decimal.Zero, time.Now())
			if err == nil {
				t.Fatalf("Expected error for %s, but got none", tc.name)
			}
			if err.Error() != tc.expectError {
				t.Errorf("Expected error '%s', got '%s'", tc.expectError, err.Error())
			}
		})
	}
}

func TestJobCard_LedgerLifecycle(t *testing.T) {
	job := JobCard{ID: "JOB-1", Coils: []Coil{{ID: "C1"}, {ID: "C2"}}}

	first, err := job.AddLedgerRow(newTestRow(t, "R1", "C1"))
	if err != nil {
		t.Fatalf("AddLedgerRow failed: %v", err)
	}
	if first.SequenceNo != 1 {
		t.Errorf("Expected sequence 1, got %d", first.SequenceNo)
	}
	if job.Status != JobInProgress {
		t.Errorf("Expected InProgress after first row, got %s", job.Status)
	}

	if _, err := job.AddLedgerRow(newTestRow(t, "R2", "C2")); err != nil {
		t.Fatalf("AddLedgerRow failed: %v", err)
	}
	third, err := job.AddLedgerRow(newTestRow(t, "R3", "C1"))
	if err != nil {
		t.Fatalf("AddLedgerRow failed: %v", err)
	}
	if third.SequenceNo != 3 {
		t.Errorf("Expected sequence 3, got %d", third.SequenceNo)
	}

	// Deleting a middle row leaves a gap; numbering continues after the max
	if err := job.DeleteLedgerRow("R2"); err != nil {
		t.Fatalf("DeleteLedgerRow failed: %v", err)
	}
	fourth, err := job.AddLedgerRow(newTestRow(t, "R4", "C2"))
	if err != nil {
		t.Fatalf("AddLedgerRow failed: %v", err)
	}
	if fourth.SequenceNo != 4 {
		t.Errorf("Expected sequence 4, got %d", fourth.SequenceNo)
	}

	if _, err := job.AddLedgerRow(newTestRow(t, "R5", "C9")); !errors.Is(err, ErrCoilNotFound) {
		t.Errorf("Expected ErrCoilNotFound, got %v", err)
	}
	if err := job.DeleteLedgerRow("R404"); !errors.Is(err, ErrLedgerRowNotFound) {
		t.Errorf("Expected ErrLedgerRowNotFound, got %v", err)
	}

	if err := job.Complete(); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if _, err := job.AddLedgerRow(newTestRow(t, "R6", "C1")); !errors.Is(err, ErrJobCompleted) {
		t.Errorf("Expected ErrJobCompleted, got %v", err)
	}
	if err := job.DeleteLedgerRow("R1"); !errors.Is(err, ErrJobCompleted) {
		t.Errorf("Expected ErrJobCompleted on delete, got %v", err)
	}
	if err := job.Complete(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Expected ErrInvalidTransition, got %v", err)
	}
}

func TestJobCard_SequenceNotReusedAfterDeletingLast(t *testing.T) {
	job := JobCard{ID: "JOB-1", Coils: []Coil{{ID: "C1"}}}

	for _, id := range []string{"R1", "R2"} {
		if _, err := job.AddLedgerRow(newTestRow(t, id, "C1")); err != nil {
			t.Fatalf("AddLedgerRow failed: %v", err)
		}
	}
	if err := job.DeleteLedgerRow("R2"); err != nil {
		t.Fatalf("DeleteLedgerRow failed: %v", err)
	}
	if job.LastSequenceNo != 2 {
		t.Errorf("Expected last sequence to stay 2 after delete, got %d", job.LastSequenceNo)
	}

	next, err := job.AddLedgerRow(newTestRow(t, "R3", "C1"))
	if err != nil {
		t.Fatalf("AddLedgerRow failed: %v", err)
	}
	if next.SequenceNo != 3 {
		t.Errorf("Expected sequence 3 after deleting 2, got %d", next.SequenceNo)
	}

	// Deleting every row still keeps the numbering going
	for _, id := range []string{"R1", "R3"} {
		if err := job.DeleteLedgerRow(id); err != nil {
			t.Fatalf("DeleteLedgerRow failed: %v", err)
		}
	}
	if got := job.NextSequenceNo(); got != 4 {
		t.Errorf("Expected next sequence 4 on an emptied ledger, got %d", got)
	}

	// Survives a copy through storage
	if clone := job.Clone(); clone.NextSequenceNo() != 4 {
		t.Errorf("Expected clone to keep the high-water mark, got %d", clone.NextSequenceNo())
	}
}

func TestJobCard_CloneIsIndependent(t *testing.T) {
	job := JobCard{ID: "JOB-1", Coils: []Coil{{ID: "C1"}}}
	if _, err := job.AddLedgerRow(newTestRow(t, "R1", "C1")); err != nil {
		t.Fatalf("AddLedgerRow failed: %v", err)
	}

	clone := job.Clone()
	if err := clone.DeleteLedgerRow("R1"); err != nil {
		t.Fatalf("DeleteLedgerRow failed: %v", err)
	}
	clone.Coils[0].ID = "CHANGED"

	if len(job.LedgerRows) != 1 || job.Coils[0].ID != "C1" {
		t.Error("Clone must not share rows or coils with the original")
	}
}

func TestDispatchEntry_RecomputeTotals(t *testing.T) {
	entry := DispatchEntry{LineItems: []LineItem{
		{WeightKg: decimal.RequireFromString("12.345"), PieceCount: 3},
		{WeightKg: decimal.RequireFromString("0.655"), PieceCount: 2},
	}}
	entry.RecomputeTotals()

	if !entry.TotalWeightKg.Equal(decimal.NewFromInt(13)) {
		t.Errorf("Expected 13, got %s", entry.TotalWeightKg)
	}
	if entry.TotalPieces != 5 {
		t.Errorf("Expected 5 pieces, got %d", entry.TotalPieces)
	}
	if DispatchIDForJob("JOB-7") != "DSP-JOB-7" {
		t.Errorf("Unexpected dispatch id %s", DispatchIDForJob("JOB-7"))
	}
}
