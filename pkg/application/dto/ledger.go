package dto

import (
	"github.com/shopspring/decimal"

	"github.com/vsinha/slitter/pkg/domain/entities"
)

// LedgerRowInput is one weighing event from the shop floor
type LedgerRowInput struct {
	CoilID        string          `json:"coilId" validate:"required"`
	GrossWeightKg decimal.Decimal `json:"grossWeightKg"`
	CoreWeightKg  decimal.Decimal `json:"coreWeightKg"`
	LengthM       decimal.Decimal `json:"lengthM"`
}

// LedgerResult is the job card and its re-derived dispatch entry after a
// ledger change. Row is set when a row was recorded.
type LedgerResult struct {
	JobCard  entities.JobCard       `json:"jobCard"`
	Row      *entities.LedgerRow    `json:"row,omitempty"`
	Dispatch entities.DispatchEntry `json:"dispatch"`
}
