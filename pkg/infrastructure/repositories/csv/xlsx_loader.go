package csv

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// readWorkbook returns the rows of the first sheet in the workbook
func readWorkbook(filename string) ([][]string, error) {
	f, err := excelize.OpenFile(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	return f.GetRows(sheets[0])
}

// WriteWorkbook writes header and rows to the first sheet of a new workbook
func WriteWorkbook(filename string, header []string, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
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

	return f.SaveAs(filename)
}

// PlanHeader is the column layout of a plans scenario file
func PlanHeader() []string {
	return append([]string(nil), planHeader...)
}

// LedgerHeader is the column layout of a ledger scenario file
func LedgerHeader() []string {
	return append([]string(nil), ledgerHeader...)
}
