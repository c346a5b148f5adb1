package commands

import (
	"context"
	"fmt"

	"github.com/vsinha/slitter/pkg/application/dto"
	"github.com/vsinha/slitter/pkg/domain/entities"
	"github.com/vsinha/slitter/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/slitter/pkg/interfaces/cli/output"
)

// LedgerConfig holds configuration for the ledger command. The merge
// options build the job card the weighings are recorded against.
type LedgerConfig struct {
	MergeConfig
	LedgerFile string
	Complete   bool
}

// LedgerCommand replays a production ledger against a merged job card and
// prints the aggregated dispatch entry
type LedgerCommand struct {
	config LedgerConfig
	merge  *MergeCommand
}

// NewLedgerCommand creates a new ledger command with the given configuration
func NewLedgerCommand(config LedgerConfig) *LedgerCommand {
	config.Preview = false
	merge := NewMergeCommand(config.MergeConfig)
	config.MergeConfig = merge.config
	return &LedgerCommand{config: config, merge: merge}
}

// Execute runs the ledger command
func (c *LedgerCommand) Execute(ctx context.Context) error {
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
	ledgerFile, err := resolveScenarioFile(c.config.LedgerFile, c.config.ScenarioDir, "ledger")
	if err != nil {
		return fmt.Errorf("failed to resolve input files: %w", err)
	}

	records, err := csv.NewLoader().LoadLedger(ledgerFile)
	if err != nil {
		return fmt.Errorf("error loading ledger: %w", err)
	}

	constants, err := loadConstants(c.config.EnvFile)
	if err != nil {
		return err
	}
	e := newEngine(constants, stores{}, cliLogger(c.config.Verbose, nil))

	merged, err := c.merge.merge(ctx, e, plansFile)
	if err != nil {
		return err
	}

	entry, err := c.record(ctx, e, &merged.JobCard, records)
	if err != nil {
		return err
	}

	if c.config.Verbose {
		fmt.Fprintf(c.config.Stdout, "✅ Recorded %d rows on %s (%d events)\n\n", len(records), merged.JobCard.ID, e.eventCount())
	}

	return output.Dispatch(entry, output.Config{
		Format:    c.config.Format,
		OutputDir: c.config.OutputDir,
		Verbose:   c.config.Verbose,
		Writer:    c.config.Stdout,
	})
}

// record adds each weighing to the coil cut for its plan and returns the
// dispatch entry as it stands after the last row
func (c *LedgerCommand) record(ctx context.Context, e *engine, job *entities.JobCard, records []csv.LedgerRecord) (*entities.DispatchEntry, error) {
	coilByPlan := make(map[string]string, len(job.Coils))
	for _, coil := range job.Coils {
		coilByPlan[coil.PlanID] = coil.ID
	}

	var last *dto.LedgerResult
	for i, record := range records {
		coilID, ok := coilByPlan[record.PlanID]
		if !ok {
			return nil, fmt.Errorf("ledger row %d: plan %s is not on job %s", i+2, record.PlanID, job.ID)
		}
		result, err := e.ledger.RecordRow(ctx, job.ID, dto.LedgerRowInput{
			CoilID:        coilID,
			GrossWeightKg: record.GrossWeightKg,
			CoreWeightKg:  record.CoreWeightKg,
			LengthM:       record.LengthM,
		})
		if err != nil {
			return nil, fmt.Errorf("ledger row %d: %w", i+2, err)
		}
		last = result
	}

	if c.config.Complete {
		result, err := e.ledger.CompleteJob(ctx, job.ID)
		if err != nil {
			return nil, fmt.Errorf("error completing job: %w", err)
		}
		last = result
	}

	if last == nil {
		return e.dispatch.Get(ctx, entities.DispatchIDForJob(job.ID))
	}
	return &last.Dispatch, nil
}

func (c *LedgerCommand) showHelp() {
	fmt.Fprintf(c.config.Stdout, `Slitter ledger - record coil weighings and aggregate the dispatch entry

USAGE:
    slitter ledger -scenario <directory> -roll-length <m>
    slitter ledger -plans <file> -ledger <file> -roll-length <m>

OPTIONS:
    -scenario <dir>       Directory containing plans and ledger files (.xlsx or .csv)
    -plans <file>         Path to a plans CSV or XLSX file
    -ledger <file>        Path to a ledger CSV or XLSX file
    -ids <list>           Comma separated plan ids to merge (default: all)
    -roll-length <m>      Source roll length in metres (required)
    -source-width <mm>    Source roll width (optional)
    -job <id>             Job card id (default: generated)
    -complete             Complete the job after the last row
    -env <file>           .env file with SLITTER_* constants (optional)
    -output <dir>         Output directory for results (required for xlsx)
    -format <fmt>         Output format: text, json, xlsx (default: text)
    -verbose              Enable verbose output
    -help                 Show this help message

ledger.csv:
    plan_id,gross_weight_kg,core_weight_kg,length_m
    A,12.55,0.5,400
    A,11.90,0.5,380

EXAMPLES:
    slitter ledger -scenario examples/basic -roll-length 2000 -complete
`)
}
