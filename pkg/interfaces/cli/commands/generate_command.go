package commands

import (
	"context"
	encodingcsv "encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/vsinha/slitter/pkg/domain/entities"
	"github.com/vsinha/slitter/pkg/infrastructure/repositories/csv"
)

// GenerateConfig holds configuration for scenario generation
type GenerateConfig struct {
	Plans       int     // Number of plans to generate
	Micron      float64 // Film thickness shared by every plan so they can merge
	RowsPerPlan int     // Ledger weighings per plan
	Format      string  // csv or xlsx
	OutputDir   string  // Output directory for generated files
	Seed        int64   // Random seed for reproducible generation
	Help        bool    // Show help
	Verbose     bool    // Verbose output
}

// GenerateCommand writes a random plans and ledger scenario
type GenerateCommand struct {
	config GenerateConfig
	rand   *rand.Rand
}

// NewGenerateCommand creates a new generate command
func NewGenerateCommand(config GenerateConfig) *GenerateCommand {
	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if config.Format == "" {
		config.Format = "csv"
	}

	return &GenerateCommand{
		config: config,
		rand:   rand.New(rand.NewSource(seed)),
	}
}

// generatedPlan is a plan row plus what the ledger generator needs
type generatedPlan struct {
	id     string
	record []string
}

var (
	generatedProcesses = []entities.ProcessKind{entities.Plain, entities.Printing, entities.SealedEdge, entities.RoundedEdge, entities.Tube}
	generatedWidths    = []float64{150, 200, 250, 300, 350, 400, 450, 500}
	generatedCustomers = []string{"ACME", "NORTHPACK", "BLUEWRAP", "SUNPOLY"}
)

// Execute runs the generate command
func (cmd *GenerateCommand) Execute(ctx context.Context) error {
	if cmd.config.Help {
		cmd.printHelp()
		return nil
	}

	if cmd.config.Plans < 1 {
		return fmt.Errorf("validation error: -plans must be at least 1")
	}
	if cmd.config.Micron <= 0 {
		return fmt.Errorf("validation error: -micron must be positive")
	}
	if cmd.config.Format != "csv" && cmd.config.Format != "xlsx" {
		return fmt.Errorf("unsupported scenario format: %s", cmd.config.Format)
	}

	if cmd.config.Verbose {
		fmt.Printf("🔧 Generating scenario with %d plans at %g micron, %d weighings per plan\n",
			cmd.config.Plans, cmd.config.Micron, cmd.config.RowsPerPlan)
		fmt.Printf("📁 Output directory: %s\n", cmd.config.OutputDir)
		fmt.Printf("🎲 Random seed: %d\n", cmd.config.Seed)
	}

	if err := os.MkdirAll(cmd.config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	plans := cmd.generatePlans()
	planRows := make([][]string, len(plans))
	for i, plan := range plans {
		planRows[i] = plan.record
	}
	if err := cmd.write("plans", csv.PlanHeader(), planRows); err != nil {
		return fmt.Errorf("failed to generate plans: %w", err)
	}

	if cmd.config.RowsPerPlan > 0 {
		if err := cmd.write("ledger", csv.LedgerHeader(), cmd.generateLedger(plans)); err != nil {
			return fmt.Errorf("failed to generate ledger: %w", err)
		}
	}

	if cmd.config.Verbose {
		fmt.Printf("✅ Scenario generated successfully in %s\n", cmd.config.OutputDir)
	}

	return nil
}

// generatePlans creates plan rows in the plans file column order. Cut
// processes are driven by pieces so they carry a cutting length; tubes are
// weight or length driven; everything else by weight.
func (cmd *GenerateCommand) generatePlans() []generatedPlan {
	plans := make([]generatedPlan, 0, cmd.config.Plans)
	for i := 0; i < cmd.config.Plans; i++ {
		id := fmt.Sprintf("PLN-%04d", i+1)
		kind := generatedProcesses[cmd.rand.Intn(len(generatedProcesses))]
		width := generatedWidths[cmd.rand.Intn(len(generatedWidths))]

		var driver entities.Driver
		var value float64
		cutting := ""
		switch {
		case kind == entities.SealedEdge || kind == entities.RoundedEdge:
			driver = entities.DriverPieces
			value = float64(500 + 100*cmd.rand.Intn(20))
			cutting = formatGenerated(float64(200+50*cmd.rand.Intn(8)), 0)
		case kind.IsTube() && cmd.rand.Float64() < 0.4:
			driver = entities.DriverLength
			value = float64(1000 + 250*cmd.rand.Intn(12))
		default:
			driver = entities.DriverWeight
			value = float64(50 + 10*cmd.rand.Intn(20))
		}

		plans = append(plans, generatedPlan{
			id: id,
			record: []string{
				id,
				generatedCustomers[cmd.rand.Intn(len(generatedCustomers))],
				kind.String(),
				driver.String(),
				formatGenerated(value, 0),
				formatGenerated(cmd.config.Micron, 1),
				formatGenerated(width, 0),
				"",
				cutting,
			},
		})
	}
	return plans
}

// generateLedger creates weighings for every plan in plan order
func (cmd *GenerateCommand) generateLedger(plans []generatedPlan) [][]string {
	rows := make([][]string, 0, len(plans)*cmd.config.RowsPerPlan)
	for _, plan := range plans {
		for i := 0; i < cmd.config.RowsPerPlan; i++ {
			gross := 10 + cmd.rand.Float64()*5
			length := 300 + cmd.rand.Float64()*150
			rows = append(rows, []string{
				plan.id,
				formatGenerated(gross, 2),
				"0.5",
				formatGenerated(length, 0),
			})
		}
	}
	return rows
}

func (cmd *GenerateCommand) write(name string, header []string, rows [][]string) error {
	filePath := filepath.Join(cmd.config.OutputDir, name+"."+cmd.config.Format)
	if cmd.config.Verbose {
		fmt.Printf("📋 Generating %s...\n", filepath.Base(filePath))
	}

	if cmd.config.Format == "xlsx" {
		return csv.WriteWorkbook(filePath, header, rows)
	}

	file, err := os.Create(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	w := encodingcsv.NewWriter(file)
	if err := w.Write(header); err != nil {
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	return file.Close()
}

func formatGenerated(v float64, places int) string {
	return strconv.FormatFloat(v, 'f', places, 64)
}

// printHelp shows usage information
func (cmd *GenerateCommand) printHelp() {
	fmt.Println(`Slitter Scenario Generator

USAGE:
    slitter generate [OPTIONS]

OPTIONS:
    -plans <N>          Number of plans to generate (default: 4)
    -micron <F>         Micron shared by every plan (default: 25)
    -rows <N>           Ledger weighings per plan, 0 skips the ledger (default: 3)
    -format <fmt>       Scenario format: csv or xlsx (default: csv)
    -output <DIR>       Output directory for generated files (required)
    -seed <N>           Random seed for reproducible generation (optional)
    -verbose            Enable verbose output
    -help               Show this help message

EXAMPLES:
    # Generate a small scenario and merge it
    slitter generate -plans 3 -output ./scenario
    slitter ledger -scenario ./scenario -roll-length 2000

    # Generate a reproducible workbook scenario
    slitter generate -plans 6 -format xlsx -output ./scenario -seed 12345`)
}
