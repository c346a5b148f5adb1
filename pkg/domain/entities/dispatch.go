package entities

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DispatchStatus represents where a dispatch entry is in the shipping flow
type DispatchStatus int

const (
	DispatchDraft DispatchStatus = iota
	DispatchInSlitting
	DispatchReady
)

// String method for DispatchStatus enum
func (s DispatchStatus) String() string {
	switch s {
	case DispatchDraft:
		return "Draft"
	case DispatchInSlitting:
		return "InSlitting"
	case DispatchReady:
		return "Ready"
	default:
		return "Unknown"
	}
}

// ParseDispatchStatus accepts the String form case-insensitively
func ParseDispatchStatus(s string) (DispatchStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "draft":
		return DispatchDraft, nil
	case "inslitting", "in_slitting":
		return DispatchInSlitting, nil
	case "ready":
		return DispatchReady, nil
	default:
		return DispatchDraft, fmt.Errorf("invalid dispatch status: %s", s)
	}
}

func (s DispatchStatus) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *DispatchStatus) UnmarshalText(text []byte) error {
	parsed, err := ParseDispatchStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// LineItem is one outward quantity on a dispatch entry.
//
// A plan-linked item (PlanID set) has its descriptive and derived fields
// owned by reconciliation, while PieceCount and BundleCount stay with the
// operator. A coil-linked item (CoilID set) is rebuilt from the ledger.
type LineItem struct {
	ID              string              `json:"id"`
	PlanID          string              `json:"planId,omitempty"`
	CoilID          string              `json:"coilId,omitempty"`
	Description     string              `json:"description"`
	ProcessCode     string              `json:"processCode"`
	Micron          float64             `json:"micron"`
	WeightKg        decimal.Decimal     `json:"weightKg"`
	PieceCount      int64               `json:"pieceCount"`
	BundleCount     int64               `json:"bundleCount"`
	DerivedWeightKg decimal.NullDecimal `json:"derivedWeightKg"`
	WastageKg       decimal.NullDecimal `json:"wastageKg"`
}

// DispatchEntry is the record of quantities ready to ship
type DispatchEntry struct {
	ID            string          `json:"id"`
	JobCardID     string          `json:"jobCardId,omitempty"`
	Status        DispatchStatus  `json:"status"`
	LineItems     []LineItem      `json:"lineItems"`
	TotalWeightKg decimal.Decimal `json:"totalWeightKg"`
	TotalPieces   int64           `json:"totalPieces"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// DispatchIDForJob is the deterministic dispatch entry id of a job card
func DispatchIDForJob(jobID string) string {
	return "DSP-" + jobID
}

// RecomputeTotals sums weight and pieces over the line items
func (d *DispatchEntry) RecomputeTotals() {
	total := decimal.Zero
	var pieces int64
	for _, item := range d.LineItems {
		total = total.Add(item.WeightKg)
		pieces += item.PieceCount
	}
	d.TotalWeightKg = total
	d.TotalPieces = pieces
}

// ReferencesPlan reports whether any line item is linked to planID
func (d *DispatchEntry) ReferencesPlan(planID string) bool {
	for _, item := range d.LineItems {
		if item.PlanID == planID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the entry
func (d DispatchEntry) Clone() DispatchEntry {
	out := d
	out.LineItems = append([]LineItem(nil), d.LineItems...)
	return out
}
