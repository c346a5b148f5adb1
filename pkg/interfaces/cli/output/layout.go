package output

import (
	"fmt"
	"math"
	"strings"

	"github.com/vsinha/slitter/pkg/domain/entities"
)

// Layout draws the source width as a bar of the given character width, one
// segment per coil in slitting order and dots for the unused edge trim:
//
//	[AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAABBBBBBBBBBBBBBBBBBBBBBBB....]
//	 A=400mm B=300mm trim=50mm
func Layout(a entities.CoilAllocation, width int) string {
	if width < 1 || a.SourceWidthMm <= 0 {
		return ""
	}

	var bar, legend strings.Builder
	bar.WriteByte('[')

	used := 0
	var usedMm float64
	for i, share := range a.PerCoil {
		usedMm += share.OutputWidthMm
		// cumulative rounding keeps the segments summing to the covered width
		end := int(math.Round(usedMm / a.SourceWidthMm * float64(width)))
		if end > width {
			end = width
		}
		symbol := segmentSymbol(i)
		bar.WriteString(strings.Repeat(string(symbol), max(end-used, 0)))
		used = max(used, end)

		if i > 0 {
			legend.WriteByte(' ')
		}
		fmt.Fprintf(&legend, "%c=%gmm", symbol, share.OutputWidthMm)
	}

	bar.WriteString(strings.Repeat(".", width-used))
	bar.WriteByte(']')

	if trim := a.SourceWidthMm - a.CombinedOutputWidthMm; trim > 0 {
		fmt.Fprintf(&legend, " trim=%gmm", trim)
	}
	return bar.String() + "\n " + legend.String()
}

func segmentSymbol(i int) byte {
	const symbols = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	return symbols[i%len(symbols)]
}
