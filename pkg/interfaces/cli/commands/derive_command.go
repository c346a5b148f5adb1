package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/vsinha/slitter/pkg/interfaces/cli/output"
)

// DeriveConfig holds configuration for the derive command
type DeriveConfig struct {
	ScenarioDir string
	PlansFile   string
	EnvFile     string
	OutputDir   string
	Format      string
	Verbose     bool
	Help        bool

	Stdout io.Writer
}

// DeriveCommand derives the secondary quantities of every plan in a file
type DeriveCommand struct {
	config DeriveConfig
}

// NewDeriveCommand creates a new derive command with the given configuration
func NewDeriveCommand(config DeriveConfig) *DeriveCommand {
	if config.Stdout == nil {
		config.Stdout = os.Stdout
	}
	return &DeriveCommand{config: config}
}

// Execute runs the derive command
func (c *DeriveCommand) Execute(ctx context.Context) error {
	if c.config.Help {
		c.showHelp()
		return nil
	}

	plansFile, err := resolveScenarioFile(c.config.PlansFile, c.config.ScenarioDir, "plans")
	if err != nil {
		return fmt.Errorf("failed to resolve input files: %w", err)
	}

	constants, err := loadConstants(c.config.EnvFile)
	if err != nil {
		return err
	}
	e := newEngine(constants, stores{}, cliLogger(c.config.Verbose, nil))

	if c.config.Verbose {
		fmt.Fprintf(c.config.Stdout, "📂 Loading plans from %s...\n", plansFile)
	}
	results, err := e.importPlans(ctx, plansFile)
	if err != nil {
		return err
	}

	return output.Plans(results, output.Config{
		Format:    c.config.Format,
		OutputDir: c.config.OutputDir,
		Verbose:   c.config.Verbose,
		Writer:    c.config.Stdout,
	})
}

func (c *DeriveCommand) showHelp() {
	fmt.Fprintf(c.config.Stdout, `Slitter derive - compute weight, length and pieces for each plan

USAGE:
    slitter derive -scenario <directory>
    slitter derive -plans <file>

OPTIONS:
    -scenario <dir>     Directory containing plans.xlsx or plans.csv
    -plans <file>       Path to a plans CSV or XLSX file
    -env <file>         .env file with SLITTER_* constants (optional)
    -output <dir>       Output directory for results (required for xlsx)
    -format <fmt>       Output format: text, json, xlsx (default: text)
    -verbose            Enable verbose output
    -help               Show this help message

plans.csv:
    id,customer,process,driver,driver_value,micron,output_width_mm,source_width_mm,cutting_length_mm
    A,ACME,Tube,weight,120,25,400,,
    P,ACME,SealedEdge,pieces,1000,20,600,,300

EXAMPLES:
    slitter derive -scenario examples/basic
    slitter derive -plans plans.xlsx -format json
`)
}
