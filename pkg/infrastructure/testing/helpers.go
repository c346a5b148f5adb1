package testing

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vsinha/slitter/pkg/domain/entities"
)

// BasicPlans are two 25 micron tubes that merge onto a 700mm source:
// A is 400mm at 120kg, B is 300mm at 90kg
func BasicPlans() []*entities.Plan {
	return []*entities.Plan{
		{
			ID:             "A",
			Customer:       "ACME",
			Micron:         25,
			OutputWidthMm:  400,
			ProcessKind:    entities.Tube,
			Driver:         entities.DriverWeight,
			TargetWeightKg: entities.Known(120),
		},
		{
			ID:             "B",
			Customer:       "ACME",
			Micron:         25,
			OutputWidthMm:  300,
			ProcessKind:    entities.Tube,
			Driver:         entities.DriverWeight,
			TargetWeightKg: entities.Known(90),
		},
	}
}

// BasicLedger weighs two coils of plan A, netting 23.45kg
var BasicLedger = [][]string{
	{"A", "12.55", "0.5", "400"},
	{"A", "11.90", "0.5", "380"},
}

// WriteBasicScenario writes plans.csv and ledger.csv for the basic
// scenario into dir
func WriteBasicScenario(dir string) error {
	var plans strings.Builder
	plans.WriteString("id,customer,process,driver,driver_value,micron,output_width_mm,source_width_mm,cutting_length_mm\n")
	for _, p := range BasicPlans() {
		fmt.Fprintf(&plans, "%s,%s,%s,%s,%g,%g,%g,,\n",
			p.ID, p.Customer, p.ProcessKind, p.Driver, p.TargetWeightKg.Value, p.Micron, p.OutputWidthMm)
	}

	var ledger strings.Builder
	ledger.WriteString("plan_id,gross_weight_kg,core_weight_kg,length_m\n")
	for _, row := range BasicLedger {
		ledger.WriteString(strings.Join(row, ",") + "\n")
	}

	if err := os.WriteFile(filepath.Join(dir, "plans.csv"), []byte(plans.String()), 0644); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "ledger.csv"), []byte(ledger.String()), 0644)
}
