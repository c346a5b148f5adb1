package services

import (
	"testing"

	"github.com/vsinha/slitter/pkg/domain/entities"
)

func TestProcessCode(t *testing.T) {
	testCases := []struct {
		label string
		code  string
	}{
		{"600 x 300mm Side Seal", "SS"},
		{"600 x 300mm SIDE SEAL", "SS"},
		{"450 x 200mm Round Bottom", "RB"},
		{"500 x 250mm Printed", "PR"},
		{"700mm Tube", "TB"},
		{"600 x 300mm Plain", ""},
		{"", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.label, func(t *testing.T) {
			if got := ProcessCode(tc.label); got != tc.code {
				t.Errorf("Expected code %q, got %q", tc.code, got)
			}
		})
	}
}

func TestSizeLabel(t *testing.T) {
	testCases := []struct {
		name  string
		plan  entities.Plan
		label string
	}{
		{"cut plan", entities.Plan{OutputWidthMm: 600, CuttingLengthMm: entities.Known(300), ProcessKind: entities.SealedEdge}, "600 x 300mm Side Seal"},
		{"fractional width", entities.Plan{OutputWidthMm: 312.5, CuttingLengthMm: entities.Known(410), ProcessKind: entities.Printing}, "312.5 x 410mm Printed"},
		{"no cut length", entities.Plan{OutputWidthMm: 600, ProcessKind: entities.Plain}, "600mm Plain"},
		{"tube", entities.Plan{OutputWidthMm: 700, CuttingLengthMm: entities.Known(300), ProcessKind: entities.Tube}, "700mm Tube"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := SizeLabel(tc.plan); got != tc.label {
				t.Errorf("Expected label %q, got %q", tc.label, got)
			}
		})
	}
}
