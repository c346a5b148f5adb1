package services

import (
	"strconv"
	"strings"

	"github.com/vsinha/slitter/pkg/domain/entities"
)

// processCodes maps label keywords to short dispatch codes. Checked in
// order; the first keyword contained in the label wins.
var processCodes = []struct {
	keyword string
	code    string
}{
	{"seal", "SS"},
	{"round", "RB"},
	{"print", "PR"},
	{"tube", "TB"},
}

// ProcessCode returns the short code for a label, or "" when nothing matches
func ProcessCode(label string) string {
	lower := strings.ToLower(label)
	for _, pc := range processCodes {
		if strings.Contains(lower, pc.keyword) {
			return pc.code
		}
	}
	return ""
}

// SubLabel is the process-specific suffix of a size label
func SubLabel(kind entities.ProcessKind) string {
	switch kind {
	case entities.Printing:
		return "Printed"
	case entities.SealedEdge:
		return "Side Seal"
	case entities.RoundedEdge:
		return "Round Bottom"
	case entities.Tube:
		return "Tube"
	default:
		return "Plain"
	}
}

// SizeLabel describes a plan by width, cut length and process
func SizeLabel(plan entities.Plan) string {
	width := formatNumber(plan.OutputWidthMm)
	if plan.ProcessKind.IsTube() || !plan.CuttingLengthMm.Positive() {
		return width + "mm " + SubLabel(plan.ProcessKind)
	}
	return width + " x " + formatNumber(plan.CuttingLengthMm.Value) + "mm " + SubLabel(plan.ProcessKind)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
