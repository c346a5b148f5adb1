package services

import (
	"fmt"
	"math"

	"github.com/vsinha/slitter/pkg/domain/entities"
)

// UnitConverter derives the non-driver quantities of a plan.
// It is pure and deterministic; the same plan always derives the same way.
type UnitConverter struct {
	constants Constants
}

// NewUnitConverter creates a converter for the given constants
func NewUnitConverter(constants Constants) *UnitConverter {
	return &UnitConverter{constants: constants}
}

// Constants returns the figures the converter runs on
func (uc *UnitConverter) Constants() Constants {
	return uc.constants
}

// EffectiveCutLengthMm is the cutting length plus the process allowance
func (uc *UnitConverter) EffectiveCutLengthMm(plan entities.Plan) entities.Measure {
	if !plan.CuttingLengthMm.Positive() {
		return entities.Undefined
	}
	return entities.Known(plan.CuttingLengthMm.Value + uc.constants.Allowance(plan.ProcessKind))
}

// WeightForLength is the printing-family weight of lengthM meters of film
func (uc *UnitConverter) WeightForLength(lengthM, widthMm, micron float64) float64 {
	return lengthM * widthMm * micron * uc.constants.PrintingDensity / 1000
}

// OneMeterWeightKg is the tube-family base weight for a width and micron.
// Multiplied by a length in meters and divided by 1000 it gives kilograms.
func (uc *UnitConverter) OneMeterWeightKg(widthMm, micron float64) entities.Measure {
	if widthMm <= 0 || micron <= 0 {
		return entities.Undefined
	}
	return entities.Known(widthMm * micron * uc.constants.TubeDensity)
}

// Derive recomputes every field of the plan that is not the current driver.
// The driver's own value is never changed. When inputs are missing the
// affected fields are left undefined and ErrInsufficientInput is returned
// alongside the partially derived plan.
func (uc *UnitConverter) Derive(plan entities.Plan) (entities.Plan, error) {
	if !plan.DriverAllowed(plan.Driver) {
		return plan, fmt.Errorf("driver %s is not valid for process %s", plan.Driver, plan.ProcessKind)
	}
	if plan.ProcessKind.IsTube() {
		return uc.deriveTube(plan)
	}
	return uc.derivePrinting(plan)
}

// SwitchDriver makes d authoritative and re-derives everything else from
// the value d already holds
func (uc *UnitConverter) SwitchDriver(plan entities.Plan, d entities.Driver) (entities.Plan, error) {
	if err := plan.SwitchDriver(d); err != nil {
		return plan, err
	}
	return uc.Derive(plan)
}

func (uc *UnitConverter) derivePrinting(plan entities.Plan) (entities.Plan, error) {
	width, micron := plan.OutputWidthMm, plan.Micron
	extra := uc.constants.ExtraLengthM(plan.ProcessKind)
	cut := uc.EffectiveCutLengthMm(plan)

	switch plan.Driver {
	case entities.DriverWeight:
		plan.TargetLengthM = entities.Undefined
		plan.TargetPieces = entities.UndefinedCount
		if width <= 0 || micron <= 0 || !plan.TargetWeightKg.Positive() {
			return plan, fmt.Errorf("width, micron and weight are required: %w", entities.ErrInsufficientInput)
		}

		lengthM := plan.TargetWeightKg.Value * 1000 / (width * micron * uc.constants.PrintingDensity)
		plan.TargetLengthM = entities.Known(lengthM)

		if !cut.Positive() {
			return plan, fmt.Errorf("cutting length is required for pieces: %w", entities.ErrInsufficientInput)
		}
		pieces := math.Floor((lengthM - extra) * 1000 / cut.Value)
		if pieces < 0 {
			pieces = 0
		}
		plan.TargetPieces = entities.KnownCount(int64(pieces))

	case entities.DriverPieces:
		plan.TargetLengthM = entities.Undefined
		plan.TargetWeightKg = entities.Undefined
		if width <= 0 || micron <= 0 || !plan.TargetPieces.Positive() || !cut.Positive() {
			return plan, fmt.Errorf("width, micron, pieces and cutting length are required: %w", entities.ErrInsufficientInput)
		}

		cuttingLengthM := cut.Value * float64(plan.TargetPieces.Value) / 1000
		lengthM := math.Ceil(cuttingLengthM + extra)
		plan.TargetLengthM = entities.Known(lengthM)
		plan.TargetWeightKg = entities.Known(uc.WeightForLength(lengthM, width, micron))
	}

	return plan, nil
}

func (uc *UnitConverter) deriveTube(plan entities.Plan) (entities.Plan, error) {
	plan.TargetPieces = entities.UndefinedCount
	oneMeter := uc.OneMeterWeightKg(plan.OutputWidthMm, plan.Micron)

	switch plan.Driver {
	case entities.DriverWeight:
		plan.TargetLengthM = entities.Undefined
		if !oneMeter.Positive() || !plan.TargetWeightKg.Positive() {
			return plan, fmt.Errorf("width, micron and weight are required: %w", entities.ErrInsufficientInput)
		}
		plan.TargetLengthM = entities.Known(plan.TargetWeightKg.Value * 1000 / oneMeter.Value)

	case entities.DriverLength:
		plan.TargetWeightKg = entities.Undefined
		if !oneMeter.Positive() || !plan.TargetLengthM.Positive() {
			return plan, fmt.Errorf("width, micron and length are required: %w", entities.ErrInsufficientInput)
		}
		plan.TargetWeightKg = entities.Known(oneMeter.Value * plan.TargetLengthM.Value / 1000)
	}

	return plan, nil
}
