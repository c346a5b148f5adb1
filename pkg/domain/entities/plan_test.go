package entities

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestPlan_Validation(t *testing.T) {
	valid := Plan{ID: "PLAN-1", Micron: 20, OutputWidthMm: 600, ProcessKind: Plain, Driver: DriverWeight}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Expected valid plan to pass: %v", err)
	}

	testCases := []struct {
		name        string
		plan        Plan
		expectError string
	}{
		{"empty id", Plan{ProcessKind: Plain}, "plan id cannot be empty"},
		{"unknown process", Plan{ID: "P", ProcessKind: ProcessKind(42)}, "invalid process kind 42"},
		{"length driver on printing", Plan{ID: "P", ProcessKind: Printing, Driver: DriverLength}, "driver Length is not valid for process Printing"},
		{"pieces driver on tube", Plan{ID: "P", ProcessKind: Tube, Driver: DriverPieces}, "driver Pieces is not valid for process Tube"},
		{"negative micron", Plan{ID: "P", Micron: -1}, "micron and width cannot be negative"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.plan.Validate()
			if err == nil {
				t.Fatalf("Expected error for %s, but got none", tc.name)
			}
			if err.Error() != tc.expectError {
				t.Errorf("Expected error '%s', got '%s'", tc.expectError, err.Error())
			}
		})
	}
}

func TestPlan_Write_OnlyDriver(t *testing.T) {
	plan := Plan{ID: "PLAN-1", Driver: DriverWeight}

	if err := plan.Write(DriverWeight, 42); err != nil {
		t.Fatalf("Expected driver write to succeed: %v", err)
	}
	if plan.TargetWeightKg != Known(42) {
		t.Errorf("Expected weight 42, got %+v", plan.TargetWeightKg)
	}

	err := plan.Write(DriverPieces, 10)
	if !errors.Is(err, ErrNotDriver) {
		t.Fatalf("Expected ErrNotDriver, got %v", err)
	}
	if plan.TargetPieces.Valid {
		t.Error("Derived field must not be written")
	}
}

func TestPlan_Write_RejectsFractionalPieces(t *testing.T) {
	plan := Plan{ID: "PLAN-1", ProcessKind: SealedEdge, Driver: DriverPieces}

	err := plan.Write(DriverPieces, 4960.9)
	if !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("Expected ErrInvalidQuantity, got %v", err)
	}
	if plan.TargetPieces.Valid {
		t.Errorf("Expected pieces left unset, got %+v", plan.TargetPieces)
	}

	if err := plan.Write(DriverPieces, 4960); err != nil {
		t.Fatalf("Expected whole pieces to be accepted: %v", err)
	}
	if plan.TargetPieces != KnownCount(4960) {
		t.Errorf("Expected 4960 pieces, got %+v", plan.TargetPieces)
	}

	weight := Plan{ID: "PLAN-2", Driver: DriverWeight}
	if err := weight.Write(DriverWeight, 49.75); err != nil {
		t.Errorf("Expected fractional weight to be accepted: %v", err)
	}
}

func TestPlan_SwitchDriver(t *testing.T) {
	plan := Plan{ID: "PLAN-1", ProcessKind: Tube, Driver: DriverWeight}
	if err := plan.SwitchDriver(DriverLength); err != nil {
		t.Fatalf("Expected switch to Length to succeed: %v", err)
	}
	if plan.Driver != DriverLength {
		t.Errorf("Expected driver Length, got %s", plan.Driver)
	}
	if err := plan.SwitchDriver(DriverPieces); err == nil {
		t.Error("Expected tube plan to reject Pieces driver")
	}
}

func TestPlan_CompleteAndReopen(t *testing.T) {
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	plan := Plan{ID: "PLAN-1"}

	if plan.Reopen(now) {
		t.Error("Pending plan cannot be reopened")
	}
	plan.Complete(now)
	if plan.Status != PlanCompleted {
		t.Errorf("Expected Completed, got %s", plan.Status)
	}
	if !plan.Reopen(now) || plan.Status != PlanPending {
		t.Error("Expected completed plan to reopen to Pending")
	}
}

func TestPlan_JSON(t *testing.T) {
	plan := Plan{
		ID:             "PLAN-1",
		TargetWeightKg: Known(50),
		ProcessKind:    SealedEdge,
		Driver:         DriverPieces,
	}

	data, err := json.Marshal(plan)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if decoded["processKind"] != "SealedEdge" || decoded["driver"] != "Pieces" {
		t.Errorf("Expected enums as names, got %v / %v", decoded["processKind"], decoded["driver"])
	}
	if decoded["targetLengthM"] != nil {
		t.Errorf("Expected undefined length as null, got %v", decoded["targetLengthM"])
	}
	if decoded["targetWeightKg"] != 50.0 {
		t.Errorf("Expected weight 50, got %v", decoded["targetWeightKg"])
	}

	var back Plan
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal into Plan failed: %v", err)
	}
	if back.ProcessKind != SealedEdge || back.TargetLengthM.Valid || back.TargetWeightKg != Known(50) {
		t.Errorf("Unexpected decoded plan: %+v", back)
	}
}

func TestParseProcessKind(t *testing.T) {
	for _, s := range []string{"plain", "PRINTING", "SealedEdge", "rounded_edge", "Tube"} {
		if _, err := ParseProcessKind(s); err != nil {
			t.Errorf("Expected %q to parse: %v", s, err)
		}
	}
	if _, err := ParseProcessKind("laminated"); err == nil {
		t.Error("Expected unknown process kind to fail")
	}
}
