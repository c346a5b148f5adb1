package entities

// CoilOrder is one output requested from a merged source roll
type CoilOrder struct {
	PlanID         string  `json:"planId,omitempty"`
	OutputWidthMm  float64 `json:"outputWidthMm"`
	TargetWeightKg float64 `json:"targetWeightKg"`
}

// CoilShare is one order's slice of a combined production run
type CoilShare struct {
	PlanID            string  `json:"planId,omitempty"`
	OutputWidthMm     float64 `json:"outputWidthMm"`
	TargetWeightKg    float64 `json:"targetWeightKg"`
	UnitRollWeightKg  float64 `json:"unitRollWeightKg"`
	RollCount         int64   `json:"rollCount"`
	AllocatedWeightKg float64 `json:"allocatedWeightKg"`
}

// CoilAllocation is the combined production specification for a merge
// group. It is always recomputed from its inputs, never edited.
type CoilAllocation struct {
	Micron                     float64     `json:"micron"`
	CombinedOutputWidthMm      float64     `json:"combinedOutputWidthMm"`
	SourceWidthMm              float64     `json:"sourceWidthMm"`
	SourceRollLengthM          float64     `json:"sourceRollLengthM"`
	SourceRollLengthEffectiveM float64     `json:"sourceRollLengthEffectiveM"`
	OneMeterWeightKg           float64     `json:"oneMeterWeightKg"`
	SourceRollWeightKg         float64     `json:"sourceRollWeightKg"`
	TotalTargetWeightKg        float64     `json:"totalTargetWeightKg"`
	TotalRollCount             float64     `json:"totalRollCount"`
	ProductionQtyKg            float64     `json:"productionQtyKg"`
	TotalProductionWeightKg    float64     `json:"totalProductionWeightKg"`
	MasterRollCount            int64       `json:"masterRollCount"`
	Utilization                float64     `json:"utilization"`
	PerCoil                    []CoilShare `json:"perCoil"`
}
