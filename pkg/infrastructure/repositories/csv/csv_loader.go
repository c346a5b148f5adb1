package csv

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vsinha/slitter/pkg/domain/entities"
)

var (
	planHeader   = []string{"id", "customer", "process", "driver", "driver_value", "micron", "output_width_mm", "source_width_mm", "cutting_length_mm"}
	ledgerHeader = []string{"plan_id", "gross_weight_kg", "core_weight_kg", "length_m"}
)

// LedgerRecord is one weighing read from a scenario file. Rows name the
// plan whose coil they were cut for; coil ids only exist once a job card
// has been created.
type LedgerRecord struct {
	PlanID        string
	GrossWeightKg decimal.Decimal
	CoreWeightKg  decimal.Decimal
	LengthM       decimal.Decimal
}

// Loader handles loading plan and ledger scenarios from CSV or XLSX files
type Loader struct{}

// NewLoader creates a new loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadPlans loads pending plans. Derived quantities are left for the unit
// converter; only the driver value is read.
func (l *Loader) LoadPlans(filename string) ([]*entities.Plan, error) {
	records, err := l.readRecords(filename, "plans", planHeader)
	if err != nil {
		return nil, err
	}

	plans := make([]*entities.Plan, 0, len(records))
	seen := make(map[string]bool, len(records))
	for i, record := range records {
		plan, err := parsePlan(record)
		if err != nil {
			return nil, fmt.Errorf("plans row %d: %w", i+2, err)
		}
		if seen[plan.ID] {
			return nil, fmt.Errorf("plans row %d: duplicate plan id %s", i+2, plan.ID)
		}
		seen[plan.ID] = true
		plans = append(plans, &plan)
	}

	return plans, nil
}

// LoadLedger loads weighings in file order
func (l *Loader) LoadLedger(filename string) ([]LedgerRecord, error) {
	records, err := l.readRecords(filename, "ledger", ledgerHeader)
	if err != nil {
		return nil, err
	}

	rows := make([]LedgerRecord, 0, len(records))
	for i, record := range records {
		row, err := parseLedgerRecord(record)
		if err != nil {
			return nil, fmt.Errorf("ledger row %d: %w", i+2, err)
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// readRecords returns the data rows of a scenario file after checking its
// header, reading .xlsx workbooks with excelize and anything else as CSV
func (l *Loader) readRecords(filename, kind string, expectedHeader []string) ([][]string, error) {
	var (
		records [][]string
		err     error
	)
	if strings.EqualFold(filepath.Ext(filename), ".xlsx") {
		records, err = readWorkbook(filename)
	} else {
		records, err = readCSV(filename)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s file %s: %w", kind, filename, err)
	}

	if len(records) < 2 {
		return nil, fmt.Errorf("%s file must have header and at least one data row", kind)
	}

	header := records[0]
	if !validateHeader(header, expectedHeader) {
		return nil, fmt.Errorf("%s header mismatch. Expected: %v, Got: %v", kind, expectedHeader, header)
	}

	data := make([][]string, 0, len(records)-1)
	for i, record := range records[1:] {
		if isBlank(record) {
			continue
		}
		// spreadsheets drop trailing empty cells
		for len(record) < len(expectedHeader) {
			record = append(record, "")
		}
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("%s row %d: expected %d columns, got %d", kind, i+2, len(expectedHeader), len(record))
		}
		data = append(data, record)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%s file must have header and at least one data row", kind)
	}

	return data, nil
}

func readCSV(filename string) ([][]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	return reader.ReadAll()
}

func validateHeader(actual, expected []string) bool {
	if len(actual) != len(expected) {
		return false
	}

	for i, col := range expected {
		if strings.ToLower(strings.TrimSpace(actual[i])) != col {
			return false
		}
	}

	return true
}

func isBlank(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func parsePlan(record []string) (entities.Plan, error) {
	plan := entities.Plan{
		ID:       strings.TrimSpace(record[0]),
		Customer: strings.TrimSpace(record[1]),
		Status:   entities.PlanPending,
	}

	kind, err := entities.ParseProcessKind(record[2])
	if err != nil {
		return entities.Plan{}, err
	}
	plan.ProcessKind = kind

	driver, err := entities.ParseDriver(record[3])
	if err != nil {
		return entities.Plan{}, err
	}
	plan.Driver = driver

	if plan.Micron, err = parseFloat(record[5], "micron"); err != nil {
		return entities.Plan{}, err
	}
	if plan.OutputWidthMm, err = parseFloat(record[6], "output width"); err != nil {
		return entities.Plan{}, err
	}
	if plan.SourceWidthMm, err = parseMeasure(record[7], "source width"); err != nil {
		return entities.Plan{}, err
	}
	if plan.CuttingLengthMm, err = parseMeasure(record[8], "cutting length"); err != nil {
		return entities.Plan{}, err
	}

	if err := plan.Validate(); err != nil {
		return entities.Plan{}, err
	}

	value, err := parseMeasure(record[4], "driver value")
	if err != nil {
		return entities.Plan{}, err
	}
	if value.Valid {
		if err := plan.Write(plan.Driver, value.Value); err != nil {
			return entities.Plan{}, err
		}
	}

	return plan, nil
}

func parseLedgerRecord(record []string) (LedgerRecord, error) {
	row := LedgerRecord{PlanID: strings.TrimSpace(record[0])}
	if row.PlanID == "" {
		return LedgerRecord{}, fmt.Errorf("plan id cannot be empty")
	}

	var err error
	if row.GrossWeightKg, err = parseDecimal(record[1], "gross weight"); err != nil {
		return LedgerRecord{}, err
	}
	if row.CoreWeightKg, err = parseDecimal(record[2], "core weight"); err != nil {
		return LedgerRecord{}, err
	}
	if strings.TrimSpace(record[3]) == "" {
		row.LengthM = decimal.Zero
	} else if row.LengthM, err = parseDecimal(record[3], "length"); err != nil {
		return LedgerRecord{}, err
	}

	return row, nil
}

func parseFloat(s, field string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %s", field, s)
	}
	return v, nil
}

// parseMeasure reads an optional cell; empty means undefined
func parseMeasure(s, field string) (entities.Measure, error) {
	if strings.TrimSpace(s) == "" {
		return entities.Undefined, nil
	}
	v, err := parseFloat(s, field)
	if err != nil {
		return entities.Undefined, err
	}
	return entities.Known(v), nil
}

func parseDecimal(s, field string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s: %s", field, s)
	}
	return d, nil
}
