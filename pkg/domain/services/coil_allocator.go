package services

import (
	"fmt"
	"math"

	"github.com/vsinha/slitter/pkg/domain/entities"
)

// rollCountEpsilon absorbs float noise before ceiling a roll count
const rollCountEpsilon = 1e-9

// CoilAllocator computes the combined production specification for orders
// slit from one source width at one micron
type CoilAllocator struct {
	constants Constants
}

// NewCoilAllocator creates an allocator for the given constants
func NewCoilAllocator(constants Constants) *CoilAllocator {
	return &CoilAllocator{constants: constants}
}

// Allocate combines orders into one source-width run.
//
// The source roll is wound double and halved before slitting, so roll
// weights use half of sourceRollLengthM. The master roll count is the
// largest per-coil requirement: all coils come off the same physical batch.
func (a *CoilAllocator) Allocate(
	orders []entities.CoilOrder,
	micron, sourceWidthMm, sourceRollLengthM float64,
) (*entities.CoilAllocation, error) {
	if micron <= 0 || sourceWidthMm <= 0 || sourceRollLengthM <= 0 {
		return nil, fmt.Errorf("micron, source width and roll length must be positive: %w", entities.ErrInsufficientInput)
	}

	var combinedWidth, totalTarget float64
	for i, order := range orders {
		if order.OutputWidthMm <= 0 {
			return nil, fmt.Errorf("order %d has no output width: %w", i+1, entities.ErrInsufficientInput)
		}
		if order.TargetWeightKg < 0 {
			return nil, fmt.Errorf("order %d has negative target weight: %w", i+1, entities.ErrInsufficientInput)
		}
		combinedWidth += order.OutputWidthMm
		totalTarget += order.TargetWeightKg
	}
	if combinedWidth <= 0 || totalTarget <= 0 {
		return nil, fmt.Errorf("combined width and target weight must be positive: %w", entities.ErrInsufficientInput)
	}

	oneMeterWeight := sourceWidthMm * micron * a.constants.TubeDensity
	effectiveLength := sourceRollLengthM / 2
	sourceRollWeight := oneMeterWeight / 1000 * effectiveLength
	weightPerMm := totalTarget / combinedWidth

	allocation := &entities.CoilAllocation{
		Micron:                     micron,
		CombinedOutputWidthMm:      combinedWidth,
		SourceWidthMm:              sourceWidthMm,
		SourceRollLengthM:          sourceRollLengthM,
		SourceRollLengthEffectiveM: effectiveLength,
		OneMeterWeightKg:           oneMeterWeight,
		SourceRollWeightKg:         sourceRollWeight,
		TotalTargetWeightKg:        totalTarget,
		TotalRollCount:             totalTarget / sourceRollWeight,
		ProductionQtyKg:            weightPerMm * sourceWidthMm,
		Utilization:                combinedWidth / sourceWidthMm,
		PerCoil:                    make([]entities.CoilShare, 0, len(orders)),
	}

	for _, order := range orders {
		unitRollWeight := (order.OutputWidthMm * micron * a.constants.TubeDensity / 2 * sourceRollLengthM) / 1000
		coilQty := weightPerMm * order.OutputWidthMm
		rolls := int64(math.Ceil(coilQty/unitRollWeight - rollCountEpsilon))
		if rolls < 0 {
			rolls = 0
		}

		allocation.PerCoil = append(allocation.PerCoil, entities.CoilShare{
			PlanID:            order.PlanID,
			OutputWidthMm:     order.OutputWidthMm,
			TargetWeightKg:    order.TargetWeightKg,
			UnitRollWeightKg:  unitRollWeight,
			RollCount:         rolls,
			AllocatedWeightKg: coilQty,
		})
		allocation.TotalProductionWeightKg += coilQty
		if rolls > allocation.MasterRollCount {
			allocation.MasterRollCount = rolls
		}
	}

	return allocation, nil
}
