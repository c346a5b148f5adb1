package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/vsinha/slitter/pkg/interfaces/cli/commands"
)

type command interface {
	Execute(ctx context.Context) error
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cmd, err := parse(os.Args[1], os.Args[2:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	if err := cmd.Execute(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func parse(name string, args []string) (command, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)

	switch name {
	case "derive":
		var config commands.DeriveConfig
		fs.StringVar(&config.ScenarioDir, "scenario", "", "Directory containing plans.xlsx or plans.csv")
		fs.StringVar(&config.PlansFile, "plans", "", "Path to plans CSV or XLSX file")
		fs.StringVar(&config.EnvFile, "env", "", "Path to .env file (optional)")
		fs.StringVar(&config.OutputDir, "output", "", "Output directory for results (optional)")
		fs.StringVar(&config.Format, "format", "text", "Output format: text, json, xlsx")
		fs.BoolVar(&config.Verbose, "verbose", false, "Enable verbose output")
		fs.BoolVar(&config.Help, "help", false, "Show help message")
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		return commands.NewDeriveCommand(config), nil

	case "merge":
		var config commands.MergeConfig
		ids := mergeFlags(fs, &config)
		fs.BoolVar(&config.Preview, "preview", false, "Compute the allocation without creating a job card")
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		config.PlanIDs = splitIDs(*ids)
		return commands.NewMergeCommand(config), nil

	case "ledger":
		var config commands.LedgerConfig
		ids := mergeFlags(fs, &config.MergeConfig)
		fs.StringVar(&config.LedgerFile, "ledger", "", "Path to ledger CSV or XLSX file")
		fs.BoolVar(&config.Complete, "complete", false, "Complete the job after the last row")
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		config.PlanIDs = splitIDs(*ids)
		return commands.NewLedgerCommand(config), nil

	case "serve":
		var config commands.ServeConfig
		fs.StringVar(&config.EnvFile, "env", "", "Path to .env file (optional)")
		fs.StringVar(&config.Addr, "addr", "", "Listen address (default: SLITTER_HTTP_ADDR)")
		fs.StringVar(&config.PlansFile, "plans", "", "Seed plans from a CSV or XLSX file")
		fs.BoolVar(&config.Help, "help", false, "Show help message")
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		return commands.NewServeCommand(config), nil

	case "generate":
		var config commands.GenerateConfig
		fs.IntVar(&config.Plans, "plans", 4, "Number of plans to generate")
		fs.Float64Var(&config.Micron, "micron", 25, "Micron shared by every plan")
		fs.IntVar(&config.RowsPerPlan, "rows", 3, "Ledger weighings per plan")
		fs.StringVar(&config.Format, "format", "csv", "Scenario format: csv or xlsx")
		fs.StringVar(&config.OutputDir, "output", "", "Output directory for generated files")
		fs.Int64Var(&config.Seed, "seed", 0, "Random seed for reproducible generation")
		fs.BoolVar(&config.Verbose, "verbose", false, "Enable verbose output")
		fs.BoolVar(&config.Help, "help", false, "Show help message")
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		if config.OutputDir == "" && !config.Help {
			return nil, fmt.Errorf("-output is required")
		}
		return commands.NewGenerateCommand(config), nil

	case "help", "-help", "--help", "-h":
		usage()
		os.Exit(0)
	}

	return nil, fmt.Errorf("unknown command %q (run 'slitter help')", name)
}

// mergeFlags registers the options shared by merge and ledger and returns
// the raw -ids value
func mergeFlags(fs *flag.FlagSet, config *commands.MergeConfig) *string {
	fs.StringVar(&config.ScenarioDir, "scenario", "", "Directory containing plans and ledger files")
	fs.StringVar(&config.PlansFile, "plans", "", "Path to plans CSV or XLSX file")
	fs.StringVar(&config.EnvFile, "env", "", "Path to .env file (optional)")
	fs.Float64Var(&config.RollLengthM, "roll-length", 0, "Source roll length in metres")
	fs.Float64Var(&config.SourceWidthMm, "source-width", 0, "Source roll width in mm (optional)")
	fs.StringVar(&config.JobCardID, "job", "", "Job card id (default: generated)")
	fs.StringVar(&config.OutputDir, "output", "", "Output directory for results (optional)")
	fs.StringVar(&config.Format, "format", "text", "Output format: text, json, xlsx")
	fs.BoolVar(&config.Verbose, "verbose", false, "Enable verbose output")
	fs.BoolVar(&config.Help, "help", false, "Show help message")
	return fs.String("ids", "", "Comma separated plan ids to merge (default: all)")
}

func splitIDs(raw string) []string {
	var ids []string
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

func usage() {
	fmt.Println(`Slitter - slitting plant unit conversion and reconciliation

USAGE:
    slitter <command> [OPTIONS]

COMMANDS:
    derive      Compute weight, length and pieces for each plan
    merge       Allocate several plans across one source roll
    ledger      Record weighings and aggregate the dispatch entry
    serve       Run the HTTP API
    generate    Write a random plans and ledger scenario

Run 'slitter <command> -help' for command options.`)
}
