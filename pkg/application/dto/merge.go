package dto

import (
	"github.com/vsinha/slitter/pkg/domain/entities"
)

// MergeRequest selects pending plans to combine into one slitting run
type MergeRequest struct {
	PlanIDs              []string           `json:"planIds" validate:"min=2,unique,dive,required"`
	SourceWidthMm        *float64           `json:"sourceWidthMm" validate:"omitempty,gt=0"`
	RollLengthM          float64            `json:"rollLengthM" validate:"gt=0"`
	OutputWidthOverrides map[string]float64 `json:"outputWidthOverrides" validate:"omitempty,dive,gt=0"`
	JobCardID            string             `json:"jobCardId"`
}

// MergePreview is the allocation for a merge request before it is committed
type MergePreview struct {
	Allocation entities.CoilAllocation `json:"allocation"`
	Plans      []entities.Plan         `json:"plans"`
}

// MergeResult is what committing a merge produced
type MergeResult struct {
	JobCard    entities.JobCard        `json:"jobCard"`
	Dispatch   entities.DispatchEntry  `json:"dispatch"`
	Allocation entities.CoilAllocation `json:"allocation"`
}
