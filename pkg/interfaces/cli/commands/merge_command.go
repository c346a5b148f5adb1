package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/vsinha/slitter/pkg/application/dto"
	"github.com/vsinha/slitter/pkg/interfaces/cli/output"
)

// MergeConfig holds configuration for the merge command
type MergeConfig struct {
	ScenarioDir   string
	PlansFile     string
	EnvFile       string
	PlanIDs       []string
	RollLengthM   float64
	SourceWidthMm float64
	JobCardID     string
	Preview       bool
	OutputDir     string
	Format        string
	Verbose       bool
	Help          bool

	Stdout io.Writer
}

// MergeCommand slits several plans from one source roll
type MergeCommand struct {
	config MergeConfig
}

// NewMergeCommand creates a new merge command with the given configuration
func NewMergeCommand(config MergeConfig) *MergeCommand {
	if config.Stdout == nil {
		config.Stdout = os.Stdout
	}
	return &MergeCommand{config: config}
}

// Execute runs the merge command
func (c *MergeCommand) Execute(ctx context.Context) error {
	if c.config.Help {
		c.showHelp()
		return nil
	}

	if c.config.RollLengthM <= 0 {
		return fmt.Errorf("validation error: -roll-length must be positive")
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

	result, err := c.merge(ctx, e, plansFile)
	if err != nil {
		return err
	}

	return output.Merge(result, output.Config{
		Format:    c.config.Format,
		OutputDir: c.config.OutputDir,
		Verbose:   c.config.Verbose,
		Writer:    c.config.Stdout,
	})
}

// merge imports the plans and commits (or previews) the merge. A preview
// is reported as a result without a job card.
func (c *MergeCommand) merge(ctx context.Context, e *engine, plansFile string) (*dto.MergeResult, error) {
	results, err := e.importPlans(ctx, plansFile)
	if err != nil {
		return nil, err
	}

	ids := c.config.PlanIDs
	if len(ids) == 0 {
		ids = planIDs(results)
	}
	req := dto.MergeRequest{
		PlanIDs:     ids,
		RollLengthM: c.config.RollLengthM,
		JobCardID:   c.config.JobCardID,
	}
	if c.config.SourceWidthMm > 0 {
		width := c.config.SourceWidthMm
		req.SourceWidthMm = &width
	}

	if c.config.Verbose {
		fmt.Fprintf(c.config.Stdout, "🔄 Merging %d plans on a %gm roll...\n", len(ids), req.RollLengthM)
	}

	if c.config.Preview {
		preview, err := e.merges.Preview(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("error previewing merge: %w", err)
		}
		return &dto.MergeResult{Allocation: preview.Allocation}, nil
	}

	result, err := e.merges.Commit(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("error committing merge: %w", err)
	}
	return result, nil
}

func (c *MergeCommand) showHelp() {
	fmt.Fprintf(c.config.Stdout, `Slitter merge - allocate several plans across one source roll

USAGE:
    slitter merge -scenario <directory> -roll-length <m>
    slitter merge -plans <file> -roll-length <m> -ids A,B

OPTIONS:
    -scenario <dir>       Directory containing plans.xlsx or plans.csv
    -plans <file>         Path to a plans CSV or XLSX file
    -ids <list>           Comma separated plan ids to merge (default: all)
    -roll-length <m>      Source roll length in metres (required)
    -source-width <mm>    Source roll width (default: shared plan width, else combined width)
    -job <id>             Job card id (default: generated)
    -preview              Compute the allocation without creating a job card
    -env <file>           .env file with SLITTER_* constants (optional)
    -output <dir>         Output directory for results (required for xlsx)
    -format <fmt>         Output format: text, json, xlsx (default: text)
    -verbose              Enable verbose output
    -help                 Show this help message

EXAMPLES:
    slitter merge -scenario examples/basic -roll-length 2000
    slitter merge -plans plans.csv -ids A,B -roll-length 2000 -source-width 750 -preview
`)
}
