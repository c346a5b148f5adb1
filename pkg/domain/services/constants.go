package services

import "github.com/vsinha/slitter/pkg/domain/entities"

// Constants are the material and process figures the formulas run on.
//
// PrintingDensity (K1) and TubeDensity (K2) are kept as two separately
// named constants. They are not interchangeable: each family was calibrated
// on its own material and unifying them changes physical results.
type Constants struct {
	PrintingDensity        float64 // K1, printing/cutting family
	TubeDensity            float64 // K2, tube/plant family and slitting merges
	SealedEdgeAllowanceMm  float64
	RoundedEdgeAllowanceMm float64
	PrintingExtraLengthM   float64 // setup waste added to printing runs only
}

// DefaultConstants returns the plant's standard figures
func DefaultConstants() Constants {
	return Constants{
		PrintingDensity:        0.00280,
		TubeDensity:            0.00276,
		SealedEdgeAllowanceMm:  10,
		RoundedEdgeAllowanceMm: 20,
		PrintingExtraLengthM:   100,
	}
}

// Allowance is the fixed cut-length add-on for a process
func (c Constants) Allowance(kind entities.ProcessKind) float64 {
	switch kind {
	case entities.SealedEdge:
		return c.SealedEdgeAllowanceMm
	case entities.RoundedEdge:
		return c.RoundedEdgeAllowanceMm
	default:
		return 0
	}
}

// ExtraLengthM is the wastage buffer in meters for a process
func (c Constants) ExtraLengthM(kind entities.ProcessKind) float64 {
	if kind == entities.Printing {
		return c.PrintingExtraLengthM
	}
	return 0
}
