package dto

import (
	"github.com/shopspring/decimal"
)

// DispatchInput creates a dispatch entry straight from a plan
type DispatchInput struct {
	WeightKg    decimal.Decimal `json:"weightKg"`
	PieceCount  int64           `json:"pieceCount" validate:"gte=0"`
	BundleCount int64           `json:"bundleCount" validate:"gte=0"`
}

// CountsInput edits the operator-owned quantities of a plan-linked line item
type CountsInput struct {
	LineItemID  string           `json:"lineItemId" validate:"required"`
	WeightKg    *decimal.Decimal `json:"weightKg"`
	PieceCount  *int64           `json:"pieceCount" validate:"omitempty,gte=0"`
	BundleCount *int64           `json:"bundleCount" validate:"omitempty,gte=0"`
}
