package services

import (
	"github.com/shopspring/decimal"

	"github.com/vsinha/slitter/pkg/domain/entities"
)

// weightPlaces is the precision recorded weights are kept at
const weightPlaces = 3

// ReconcileResult holds the dispatch entries touched by a plan edit
type ReconcileResult struct {
	PlanID       string
	Entries      []entities.DispatchEntry
	ItemsUpdated int
}

// NoOp reports that no line item references the plan
func (r ReconcileResult) NoOp() bool {
	return r.ItemsUpdated == 0
}

// PlanToDispatchReconciler propagates plan edits onto the dispatch line
// items that reference the plan
type PlanToDispatchReconciler struct{}

// NewPlanToDispatchReconciler creates a reconciler
func NewPlanToDispatchReconciler() *PlanToDispatchReconciler {
	return &PlanToDispatchReconciler{}
}

// Reconcile returns updated copies of every entry with a line item linked
// to plan. Inputs are not modified.
//
// Label, process code, micron and derived weight follow the plan. Wastage
// is the newly derived weight minus the item's recorded weight, which is
// read before anything is written. WeightKg, PieceCount and BundleCount
// are operator quantities and are left as they are.
func (r *PlanToDispatchReconciler) Reconcile(plan entities.Plan, entries []entities.DispatchEntry) ReconcileResult {
	result := ReconcileResult{PlanID: plan.ID}
	if plan.ID == "" {
		return result
	}

	label := SizeLabel(plan)
	code := ProcessCode(label)
	derived := decimal.NullDecimal{}
	if plan.TargetWeightKg.Valid {
		derived = decimal.NewNullDecimal(decimal.NewFromFloat(plan.TargetWeightKg.Value).Round(weightPlaces))
	}

	for _, entry := range entries {
		if !entry.ReferencesPlan(plan.ID) {
			continue
		}

		updated := entry.Clone()
		for i := range updated.LineItems {
			item := &updated.LineItems[i]
			if item.PlanID != plan.ID {
				continue
			}

			recorded := item.WeightKg

			item.Description = label
			item.ProcessCode = code
			item.Micron = plan.Micron
			item.DerivedWeightKg = derived
			if derived.Valid {
				item.WastageKg = decimal.NewNullDecimal(derived.Decimal.Sub(recorded))
			} else {
				item.WastageKg = decimal.NullDecimal{}
			}
			result.ItemsUpdated++
		}
		result.Entries = append(result.Entries, updated)
	}

	return result
}
