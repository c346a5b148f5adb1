package services

import (
	"github.com/shopspring/decimal"

	"github.com/vsinha/slitter/pkg/domain/entities"
)

// ProductionLedgerAggregator folds a job card's ledger rows into its
// dispatch entry. Ledger rows are the only source of coil-linked weight:
// the entry's line items are rebuilt from scratch on every call.
type ProductionLedgerAggregator struct{}

// NewProductionLedgerAggregator creates an aggregator
func NewProductionLedgerAggregator() *ProductionLedgerAggregator {
	return &ProductionLedgerAggregator{}
}

// LineItemIDForCoil is the deterministic id of a coil-linked line item
func LineItemIDForCoil(coilID string) string {
	return "LI-" + coilID
}

// Aggregate builds the dispatch entry for job. There is one line item per
// coil defined on the job, in coil order, including coils with no rows.
// The result depends only on the job, so repeated calls are identical.
func (a *ProductionLedgerAggregator) Aggregate(job entities.JobCard) entities.DispatchEntry {
	weights := make(map[string]decimal.Decimal, len(job.Coils))
	counts := make(map[string]int64, len(job.Coils))
	for _, row := range job.LedgerRows {
		weights[row.CoilID] = weights[row.CoilID].Add(row.NetWeightKg)
		counts[row.CoilID]++
	}

	entry := entities.DispatchEntry{
		ID:        entities.DispatchIDForJob(job.ID),
		JobCardID: job.ID,
		Status:    entities.DispatchInSlitting,
		LineItems: make([]entities.LineItem, 0, len(job.Coils)),
	}
	if job.Status == entities.JobCompleted {
		entry.Status = entities.DispatchReady
	}

	for _, coil := range job.Coils {
		label := formatNumber(coil.OutputWidthMm) + "mm Coil"
		entry.LineItems = append(entry.LineItems, entities.LineItem{
			ID:          LineItemIDForCoil(coil.ID),
			CoilID:      coil.ID,
			Description: label,
			ProcessCode: ProcessCode(label),
			Micron:      job.Micron,
			WeightKg:    weights[coil.ID].Round(weightPlaces),
			PieceCount:  counts[coil.ID],
		})
	}

	entry.RecomputeTotals()
	return entry
}
