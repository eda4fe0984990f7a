package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/normregion/internal/model"
	"github.com/ppiankov/normregion/internal/pipeline"
	"github.com/ppiankov/normregion/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <scenarios.yaml>",
	Short: "Evaluate many scenarios from a YAML file in parallel",
	Long: `Batch evaluates every scenario in a YAML file concurrently and writes
a JSON report, a Markdown report and an HTML chart per scenario.

File format:
  scenarios:
    - name: overlap
      mean: 0
      std_dev: 1
      region1: {limit: 1, direction: "<="}
      region2: {limit: 0, direction: ">="}

Example:
  normregion batch scenarios.yaml
  normregion batch scenarios.yaml --concurrency 8 --output-dir ./reports`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of concurrent workers (default: config)")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./normregion-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")

	batchCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the curve cache")
	batchCmd.Flags().StringVar(&locale, "locale", "", "number formatting locale (default: config)")
	batchCmd.Flags().StringVar(&curveMode, "curve-mode", "", "curve generation: sampled or exact (default: config)")
	batchCmd.Flags().Int64Var(&curveSeed, "seed", 0, "seed for sampled curves (0 = random)")

	addLLMFlags(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyOutputFlags(cmd, cfg)
	if concurrency > 0 {
		cfg.Concurrency.Workers = concurrency
	}
	if err := applyLLMFlags(cmd, cfg); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  normregion Batch Evaluation\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input file:   %s\n", file)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", cfg.Concurrency.Workers)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "  Curve:        %s\n", cfg.Curve.Mode)
	if cfg.LLM.Provider != "" {
		fmt.Fprintf(os.Stderr, "  LLM:          %s/%s\n", cfg.LLM.Provider, cfg.LLM.Model)
	}
	fmt.Fprintf(os.Stderr, "\n")

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	p := pipeline.NewPipeline(cfg)
	processor := worker.NewBatchProcessor(p, cfg.Concurrency.Workers)

	fmt.Fprintf(os.Stderr, "⚙️  Evaluating scenarios with %d workers...\n\n", cfg.Concurrency.Workers)
	results, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	successCount := 0
	failureCount := 0
	unclassifiedCount := 0
	slugs := newSlugSet()

	for _, result := range results {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Name, result.Error)
			continue
		}

		eval := result.Evaluation
		base := filepath.Join(outputDir, slugs.next(result.Name))

		chartPath := ""
		if len(eval.Curve) > 0 {
			chartPath = base + ".html"
		}
		if err := p.RenderReport(eval, base+".json", base+".md", chartPath, io.Discard, cfg.Output.Verbose); err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Name, err)
			continue
		}

		if eval.Outcome != nil && eval.Outcome.Err() != nil {
			unclassifiedCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %s\n", result.Name, eval.Outcome)
			continue
		}

		successCount++
		fmt.Fprintf(os.Stderr, "✓ %s (%s)\n", result.Name, headline(p.Renderer(), eval))
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:         %d scenarios\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:       %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Unclassified:  %d\n", unclassifiedCount)
	fmt.Fprintf(os.Stderr, "  Failures:      %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "  Output:        %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	return batchError(failureCount, len(results), ctx.Err())
}

// batchError is the command's outcome once every scenario is accounted for
func batchError(failures, total int, ctxErr error) error {
	if failures == 0 {
		return nil
	}
	if ctxErr != nil {
		return fmt.Errorf("%d of %d scenarios failed: %w", failures, total, ctxErr)
	}
	return fmt.Errorf("%d of %d scenarios failed", failures, total)
}

// headline is the one-line result shown per scenario
func headline(r *pipeline.Renderer, eval *model.Evaluation) string {
	if eval.Outcome != nil {
		return r.OutcomeLine(*eval.Outcome)
	}
	return r.RegionLine(eval.Regions[0])
}

// slugSet hands out unique file names
type slugSet map[string]int

func newSlugSet() slugSet {
	return make(slugSet)
}

func (s slugSet) next(name string) string {
	slug := sanitizeFilename(name)
	s[slug]++
	if n := s[slug]; n > 1 {
		return fmt.Sprintf("%s-%d", slug, n)
	}
	return slug
}

var filenameReplacer = strings.NewReplacer(
	"/", "_",
	"\\", "_",
	":", "_",
	"*", "_",
	"?", "_",
	"\"", "_",
	"<", "_",
	">", "_",
	"|", "_",
	" ", "-",
)

// sanitizeFilename sanitizes a string for use as a filename
func sanitizeFilename(s string) string {
	s = strings.TrimSpace(s)
	s = filenameReplacer.Replace(s)
	s = strings.Trim(s, ".")

	if s == "" {
		s = "scenario"
	}

	// Limit length
	if len(s) > 100 {
		s = s[:100]
	}

	return s
}
