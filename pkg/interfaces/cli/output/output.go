package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/vsinha/slitter/pkg/application/dto"
	"github.com/vsinha/slitter/pkg/domain/entities"
)

// Config holds configuration for output generation
type Config struct {
	Format    string
	OutputDir string
	Verbose   bool
	Writer    io.Writer
}

func (c Config) writer() io.Writer {
	if c.Writer == nil {
		return os.Stdout
	}
	return c.Writer
}

// Plans prints derived plans
func Plans(results []*dto.PlanResult, config Config) error {
	switch config.Format {
	case "text":
		return plansText(results, config.writer())
	case "json":
		return writeJSON(results, "plans.json", config)
	case "xlsx":
		return plansWorkbook(results, config)
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

// Merge prints a merge allocation and the job card it produced
func Merge(result *dto.MergeResult, config Config) error {
	switch config.Format {
	case "text":
		return mergeText(result, config.writer())
	case "json":
		return writeJSON(result, "merge.json", config)
	case "xlsx":
		return mergeWorkbook(result, config)
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

// Dispatch prints a dispatch entry
func Dispatch(entry *entities.DispatchEntry, config Config) error {
	switch config.Format {
	case "text":
		return dispatchText(entry, config.writer())
	case "json":
		return writeJSON(entry, "dispatch.json", config)
	case "xlsx":
		return dispatchWorkbook(entry, config)
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

func plansText(results []*dto.PlanResult, w io.Writer) error {
	fmt.Fprintf(w, "📋 Plans\n")
	fmt.Fprintf(w, "========\n\n")
	fmt.Fprintf(w, "%-12s %-12s %-8s %-8s %-7s %-12s %-12s %-10s %s\n",
		"Plan", "Process", "Driver", "Width", "Micron", "Weight kg", "Length m", "Pieces", "Label")
	fmt.Fprintf(w, "%-12s %-12s %-8s %-8s %-7s %-12s %-12s %-10s %s\n",
		"------------", "------------", "--------", "--------", "-------", "------------", "------------", "----------", "-----")

	for _, result := range results {
		plan := result.Plan
		fmt.Fprintf(w, "%-12s %-12s %-8s %-8g %-7g %-12s %-12s %-10s %s\n",
			plan.ID,
			plan.ProcessKind,
			plan.Driver,
			plan.OutputWidthMm,
			plan.Micron,
			measure(plan.TargetWeightKg, 3),
			measure(plan.TargetLengthM, 1),
			count(plan.TargetPieces),
			sizeLabel(plan))
	}

	var insufficient int
	for _, result := range results {
		if result.Insufficient {
			insufficient++
		}
	}
	if insufficient > 0 {
		fmt.Fprintf(w, "\n⚠️  %d plan(s) have undefined quantities:\n", insufficient)
		for _, result := range results {
			if result.Insufficient {
				fmt.Fprintf(w, "  %s: %s\n", result.Plan.ID, result.Reason)
			}
		}
	}
	fmt.Fprintln(w)
	return nil
}

func mergeText(result *dto.MergeResult, w io.Writer) error {
	a := result.Allocation
	job := result.JobCard

	if job.ID == "" {
		fmt.Fprintf(w, "🧵 Merge Preview\n")
	} else {
		fmt.Fprintf(w, "🧵 Job Card %s\n", job.ID)
	}
	fmt.Fprintf(w, "==================\n\n")
	fmt.Fprintf(w, "Micron: %g\n", a.Micron)
	fmt.Fprintf(w, "Source Width: %gmm (combined output %gmm, utilization %.1f%%)\n",
		a.SourceWidthMm, a.CombinedOutputWidthMm, a.Utilization*100)
	fmt.Fprintf(w, "Source Roll: %gm (%gm effective), %.3fkg\n",
		a.SourceRollLengthM, a.SourceRollLengthEffectiveM, a.SourceRollWeightKg)
	fmt.Fprintf(w, "Target: %.3fkg, Production: %.3fkg\n", a.TotalTargetWeightKg, a.ProductionQtyKg)
	fmt.Fprintf(w, "Master Rolls: %d\n\n", a.MasterRollCount)

	fmt.Fprintf(w, "%s\n\n", Layout(a, 60))

	fmt.Fprintf(w, "%-14s %-10s %-8s %-12s %-12s %-8s\n",
		"Coil", "Plan", "Width", "Unit Roll kg", "Allocated kg", "Rolls")
	fmt.Fprintf(w, "%-14s %-10s %-8s %-12s %-12s %-8s\n",
		"--------------", "----------", "--------", "------------", "------------", "--------")
	for i, share := range a.PerCoil {
		coilID := ""
		if i < len(job.Coils) {
			coilID = job.Coils[i].ID
		}
		fmt.Fprintf(w, "%-14s %-10s %-8g %-12.3f %-12.3f %-8d\n",
			coilID,
			share.PlanID,
			share.OutputWidthMm,
			share.UnitRollWeightKg,
			share.AllocatedWeightKg,
			share.RollCount)
	}
	fmt.Fprintln(w)
	return nil
}

func dispatchText(entry *entities.DispatchEntry, w io.Writer) error {
	fmt.Fprintf(w, "📦 Dispatch %s (%s)\n", entry.ID, entry.Status)
	fmt.Fprintf(w, "==================\n\n")
	fmt.Fprintf(w, "%-16s %-24s %-5s %-7s %-12s %-8s %-8s %-12s %-12s\n",
		"Item", "Description", "Code", "Micron", "Weight kg", "Pieces", "Bundles", "Derived kg", "Wastage kg")
	fmt.Fprintf(w, "%-16s %-24s %-5s %-7s %-12s %-8s %-8s %-12s %-12s\n",
		"----------------", "------------------------", "-----", "-------", "------------", "--------", "--------", "------------", "------------")

	for _, item := range entry.LineItems {
		fmt.Fprintf(w, "%-16s %-24s %-5s %-7g %-12s %-8d %-8d %-12s %-12s\n",
			item.ID,
			item.Description,
			item.ProcessCode,
			item.Micron,
			item.WeightKg.StringFixed(3),
			item.PieceCount,
			item.BundleCount,
			nullDecimal(item.DerivedWeightKg),
			nullDecimal(item.WastageKg))
	}

	fmt.Fprintf(w, "\nTotal: %skg, %d pieces\n\n", entry.TotalWeightKg.StringFixed(3), entry.TotalPieces)
	return nil
}

func writeJSON(v interface{}, filename string, config Config) error {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if config.OutputDir == "" {
		_, err := fmt.Fprintln(config.writer(), string(jsonData))
		return err
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	path := filepath.Join(config.OutputDir, filename)
	if err := os.WriteFile(path, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write JSON file: %w", err)
	}
	if config.Verbose {
		fmt.Fprintf(config.writer(), "💾 JSON results saved to: %s\n", path)
	}
	return nil
}
