package output

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/vsinha/slitter/pkg/application/dto"
	"github.com/vsinha/slitter/pkg/domain/entities"
)

func plansWorkbook(results []*dto.PlanResult, config Config) error {
	header := []interface{}{"Plan", "Customer", "Process", "Driver", "Micron", "Width mm", "Weight kg", "Length m", "Pieces", "Label"}
	rows := make([][]interface{}, 0, len(results))
	for _, result := range results {
		plan := result.Plan
		rows = append(rows, []interface{}{
			plan.ID,
			plan.Customer,
			plan.ProcessKind.String(),
			plan.Driver.String(),
			plan.Micron,
			plan.OutputWidthMm,
			cellMeasure(plan.TargetWeightKg),
			cellMeasure(plan.TargetLengthM),
			cellCount(plan.TargetPieces),
			sizeLabel(plan),
		})
	}
	return saveWorkbook(config, "plans.xlsx", "Plans", header, rows)
}

func mergeWorkbook(result *dto.MergeResult, config Config) error {
	header := []interface{}{"Coil", "Plan", "Width mm", "Unit Roll kg", "Allocated kg", "Rolls"}
	rows := make([][]interface{}, 0, len(result.Allocation.PerCoil))
	for i, share := range result.Allocation.PerCoil {
		coilID := ""
		if i < len(result.JobCard.Coils) {
			coilID = result.JobCard.Coils[i].ID
		}
		rows = append(rows, []interface{}{
			coilID,
			share.PlanID,
			share.OutputWidthMm,
			share.UnitRollWeightKg,
			share.AllocatedWeightKg,
			share.RollCount,
		})
	}
	return saveWorkbook(config, "merge.xlsx", result.JobCard.ID, header, rows)
}

func dispatchWorkbook(entry *entities.DispatchEntry, config Config) error {
	header := []interface{}{"Item", "Description", "Code", "Micron", "Weight kg", "Pieces", "Bundles", "Derived kg", "Wastage kg"}
	rows := make([][]interface{}, 0, len(entry.LineItems)+1)
	for _, item := range entry.LineItems {
		weight, _ := item.WeightKg.Float64()
		rows = append(rows, []interface{}{
			item.ID,
			item.Description,
			item.ProcessCode,
			item.Micron,
			weight,
			item.PieceCount,
			item.BundleCount,
			cellDecimal(item.DerivedWeightKg),
			cellDecimal(item.WastageKg),
		})
	}
	total, _ := entry.TotalWeightKg.Float64()
	rows = append(rows, []interface{}{"Total", "", "", "", total, entry.TotalPieces, nil, nil, nil})
	return saveWorkbook(config, "dispatch.xlsx", entry.ID, header, rows)
}

// saveWorkbook writes one sheet into OutputDir/filename. Undefined values
// are left as empty cells.
func saveWorkbook(config Config, filename, sheet string, header []interface{}, rows [][]interface{}) error {
	if config.OutputDir == "" {
		return fmt.Errorf("output directory required for xlsx format")
	}
	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if sheet == "" || len(sheet) > 31 {
		sheet = "Sheet1"
	}
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	path := filepath.Join(config.OutputDir, filename)
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	if config.Verbose {
		fmt.Fprintf(config.writer(), "💾 Workbook saved to: %s\n", path)
	}
	return nil
}

func cellMeasure(m entities.Measure) interface{} {
	if !m.Valid {
		return nil
	}
	return m.Value
}

func cellCount(c entities.Count) interface{} {
	if !c.Valid {
		return nil
	}
	return c.Value
}

func cellDecimal(d decimal.NullDecimal) interface{} {
	if !d.Valid {
		return nil
	}
	v, _ := d.Decimal.Float64()
	return v
}
