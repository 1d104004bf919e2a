package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ppiankov/content-test-enforcer/internal/model"
	"github.com/ppiankov/content-test-enforcer/internal/pipeline"
	"github.com/ppiankov/content-test-enforcer/internal/report"
	"github.com/ppiankov/content-test-enforcer/internal/style"
	"github.com/ppiankov/content-test-enforcer/internal/worker"
)

func (a *app) runCheck(cmd *cobra.Command, args []string) error {
	cfg := a.cfg
	out := cmd.OutOrStdout()

	paths := append([]string{}, args...)
	fromFile, _ := cmd.Flags().GetString("from-file")
	if fromFile != "" {
		listed, err := worker.ReadPathsFromFile(fromFile)
		if err != nil {
			return fmt.Errorf("read path list: %w", err)
		}
		a.logf("✓ Loaded %d paths from %s", len(listed), fromFile)
		paths = append(paths, listed...)
	}

	palette := style.Plain()
	if cfg.Output.Format == "text" {
		mode, err := style.ParseMode(cfg.Output.Color)
		if err != nil {
			return err
		}
		palette = style.New(out, mode)
	}

	a.logf("⚙️  Checking %d notebook(s) with %d worker(s)...", len(paths), cfg.Concurrency.Workers)
	a.logf("   marker: %q  tag: %q  cache: %v  color: %v", cfg.Check.Marker, cfg.Check.Tag, cfg.Cache.Enabled, palette.Enabled())

	p := pipeline.NewPipeline(cfg, palette)
	processor := worker.NewBatchProcessor(p, cfg.Concurrency.Workers)
	results := processor.ProcessPaths(contextOrBackground(cmd), paths)

	reports := make([]model.DocumentReport, 0, len(results))
	failed := 0
	for _, res := range results {
		if !res.Passed() {
			failed++
		}

		if res.Error != nil {
			fmt.Fprintf(a.stderr, "%s %s: %v\n", "❌", res.Path, res.Error)
			reports = append(reports, model.DocumentReport{
				Path:   res.Path,
				Passed: false,
				Error:  res.Error.Error(),
			})
			continue
		}

		reports = append(reports, res.Outcome.Report)
		if cfg.Output.Format == "text" {
			if _, err := out.Write(res.Outcome.Text); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
		}
	}

	if err := writeStructured(out, cfg.Output.Format, reports); err != nil {
		return err
	}

	a.logf("✓ %d passed, %d failed", len(results)-failed, failed)

	if failed > 0 {
		if cfg.Output.Format == "text" {
			fmt.Fprint(out, report.Summary(failed))
		}
		return &FailedError{Count: failed}
	}

	return nil
}

func writeStructured(w io.Writer, format string, reports []model.DocumentReport) error {
	switch format {
	case "json":
		return report.WriteJSON(w, report.NewRun(reports))
	case "yaml":
		return report.WriteYAML(w, report.NewRun(reports))
	default:
		return nil
	}
}

// contextOrBackground guards against commands executed without ExecuteContext
func contextOrBackground(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
