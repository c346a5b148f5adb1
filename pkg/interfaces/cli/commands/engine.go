package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/vsinha/slitter/pkg/application/dto"
	appservices "github.com/vsinha/slitter/pkg/application/services"
	"github.com/vsinha/slitter/pkg/domain/repositories"
	domain "github.com/vsinha/slitter/pkg/domain/services"
	"github.com/vsinha/slitter/pkg/infrastructure/config"
	"github.com/vsinha/slitter/pkg/infrastructure/events"
	"github.com/vsinha/slitter/pkg/infrastructure/logging"
	"github.com/vsinha/slitter/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/slitter/pkg/infrastructure/repositories/memory"
	"github.com/vsinha/slitter/pkg/interfaces/httpapi"
)

// engine wires the application services over one set of repositories
type engine struct {
	plans    *appservices.PlanService
	merges   *appservices.MergeService
	ledger   *appservices.LedgerService
	dispatch *appservices.DispatchService
	events   *events.InMemoryEventStore
}

// stores are the repositories an engine runs on
type stores struct {
	plans    repositories.PlanRepository
	jobs     repositories.JobCardRepository
	dispatch repositories.DispatchRepository
}

// newEngine builds the services on repos. Nil repositories are replaced by
// in-memory ones.
func newEngine(constants domain.Constants, repos stores, logger *logrus.Logger) *engine {
	planRepo, jobRepo, dispatchRepo := repos.plans, repos.jobs, repos.dispatch
	if planRepo == nil {
		planRepo = memory.NewPlanRepository(64)
	}
	if jobRepo == nil {
		jobRepo = memory.NewJobCardRepository()
	}
	if dispatchRepo == nil {
		dispatchRepo = memory.NewDispatchRepository()
	}
	store := events.NewInMemoryEventStore(logger)

	return &engine{
		plans:    appservices.NewPlanService(planRepo, dispatchRepo, domain.NewUnitConverter(constants), store, logger),
		merges:   appservices.NewMergeService(planRepo, jobRepo, dispatchRepo, domain.NewCoilAllocator(constants), store, logger),
		ledger:   appservices.NewLedgerService(jobRepo, dispatchRepo, store, logger),
		dispatch: appservices.NewDispatchService(planRepo, dispatchRepo, store, logger),
		events:   store,
	}
}

func (e *engine) services() httpapi.Services {
	return httpapi.Services{
		Plans:    e.plans,
		Merges:   e.merges,
		Ledger:   e.ledger,
		Dispatch: e.dispatch,
	}
}

// importPlans loads a plans file and derives every plan in it
func (e *engine) importPlans(ctx context.Context, filename string) ([]*dto.PlanResult, error) {
	loaded, err := csv.NewLoader().LoadPlans(filename)
	if err != nil {
		return nil, fmt.Errorf("error loading plans: %w", err)
	}
	results, err := e.plans.Import(ctx, loaded)
	if err != nil {
		return nil, fmt.Errorf("error importing plans: %w", err)
	}
	return results, nil
}

// eventCount is the number of domain events published so far
func (e *engine) eventCount() int {
	return len(e.events.All(0))
}

// cliLogger logs to stderr in text form so stdout stays parseable
func cliLogger(verbose bool, out io.Writer) *logrus.Logger {
	if out == nil {
		out = os.Stderr
	}
	level := "warn"
	if verbose {
		level = "info"
	}
	return logging.New(level, "text", out)
}

// loadConstants reads conversion constants from the environment
func loadConstants(envFile string) (domain.Constants, error) {
	var files []string
	if envFile != "" {
		files = append(files, envFile)
	}
	cfg, err := config.Load(files...)
	if err != nil {
		return domain.Constants{}, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg.Constants, nil
}

// resolveScenarioFile picks name.xlsx or name.csv inside dir, preferring
// the workbook, unless an explicit path was given
func resolveScenarioFile(explicit, dir, name string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("%s file not found: %s", name, explicit)
		}
		return explicit, nil
	}
	if dir == "" {
		return "", fmt.Errorf("must specify either -scenario directory or -%s file", name)
	}
	for _, ext := range []string{".xlsx", ".csv"} {
		path := filepath.Join(dir, name+ext)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("%s file not found in %s", name, dir)
}

func planIDs(results []*dto.PlanResult) []string {
	ids := make([]string, len(results))
	for i, result := range results {
		ids[i] = result.Plan.ID
	}
	return ids
}
