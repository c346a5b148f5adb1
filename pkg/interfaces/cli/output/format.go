package output

import (
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/vsinha/slitter/pkg/domain/entities"
	domain "github.com/vsinha/slitter/pkg/domain/services"
)

const undefinedCell = "-"

func measure(m entities.Measure, places int) string {
	if !m.Valid {
		return undefinedCell
	}
	return strconv.FormatFloat(m.Value, 'f', places, 64)
}

func count(c entities.Count) string {
	if !c.Valid {
		return undefinedCell
	}
	return strconv.FormatInt(c.Value, 10)
}

func nullDecimal(d decimal.NullDecimal) string {
	if !d.Valid {
		return undefinedCell
	}
	return d.Decimal.StringFixed(3)
}

func sizeLabel(plan entities.Plan) string {
	return domain.SizeLabel(plan)
}
