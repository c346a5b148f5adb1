package dto

import (
	"github.com/vsinha/slitter/pkg/domain/entities"
)

// PlanInput creates a plan or previews a derivation
type PlanInput struct {
	ID              string               `json:"id"`
	Customer        string               `json:"customer"`
	Micron          float64              `json:"micron" validate:"gte=0"`
	SourceWidthMm   *float64             `json:"sourceWidthMm" validate:"omitempty,gt=0"`
	OutputWidthMm   float64              `json:"outputWidthMm" validate:"gte=0"`
	CuttingLengthMm *float64             `json:"cuttingLengthMm" validate:"omitempty,gt=0"`
	ProcessKind     entities.ProcessKind `json:"processKind"`
	Driver          entities.Driver      `json:"driver"`
	DriverValue     *float64             `json:"driverValue" validate:"omitempty,gte=0"`
}

// PlanEdit changes a stored plan. Nil fields are left alone. Driver
// switches authority first; DriverValue then writes the (new) driver.
type PlanEdit struct {
	Customer        *string               `json:"customer"`
	Micron          *float64              `json:"micron" validate:"omitempty,gte=0"`
	SourceWidthMm   *float64              `json:"sourceWidthMm" validate:"omitempty,gte=0"`
	OutputWidthMm   *float64              `json:"outputWidthMm" validate:"omitempty,gte=0"`
	CuttingLengthMm *float64              `json:"cuttingLengthMm" validate:"omitempty,gte=0"`
	ProcessKind     *entities.ProcessKind `json:"processKind"`
	Driver          *entities.Driver      `json:"driver"`
	DriverValue     *float64              `json:"driverValue" validate:"omitempty,gte=0"`
}

// PlanResult is a plan after derivation. Insufficient is set when some
// derived fields are undefined; Reason says why.
type PlanResult struct {
	Plan         entities.Plan    `json:"plan"`
	Insufficient bool             `json:"insufficient"`
	Reason       string           `json:"reason,omitempty"`
	Reconcile    *ReconcileReport `json:"reconcile,omitempty"`
}

// ReconcileReport lists which dispatch entries a plan edit rewrote.
// Entries are written independently; Failed maps entry id to error text.
// Error is set when the entries could not be read at all, in which case
// nothing was reconciled and the edit is still stored.
type ReconcileReport struct {
	PlanID       string            `json:"planId"`
	NoOp         bool              `json:"noOp"`
	ItemsUpdated int               `json:"itemsUpdated"`
	Updated      []string          `json:"updated"`
	Failed       map[string]string `json:"failed,omitempty"`
	Error        string            `json:"error,omitempty"`
}
