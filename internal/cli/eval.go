package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/normregion/internal/model"
	"github.com/ppiankov/normregion/internal/pipeline"
)

var (
	opts      evalOptions
	outJSON   string
	outMD     string
	outChart  string
	timeout   time.Duration
	noCache   bool
	noFooter  bool
	locale    string
	curveMode string
	curveSeed int64
)

// evalOptions mirrors the interactive inputs: one distribution, a first
// region, and an optional second region
type evalOptions struct {
	name   string
	mean   float64
	std    float64
	dir1   string
	limit1 float64
	dual   bool
	dir2   string
	limit2 float64

	// limits default to the mean unless given explicitly
	limit1Set bool
	limit2Set bool
}

// input converts the options into a model.Input
func (o evalOptions) input() (model.Input, error) {
	in := model.Input{
		Name:   o.name,
		Mean:   o.mean,
		StdDev: o.std,
	}

	d1, err := model.ParseDirection(o.dir1)
	if err != nil {
		return in, fmt.Errorf("region 1: %w", err)
	}
	in.Region1 = model.Region{Limit: o.mean, Direction: d1}
	if o.limit1Set {
		in.Region1.Limit = o.limit1
	}

	if !o.dual {
		return in, nil
	}

	d2, err := model.ParseDirection(o.dir2)
	if err != nil {
		return in, fmt.Errorf("region 2: %w", err)
	}
	r2 := model.Region{Limit: o.mean, Direction: d2}
	if o.limit2Set {
		r2.Limit = o.limit2
	}
	in.Region2 = &r2

	return in, nil
}

// evalCmd represents the eval command
var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Evaluate one or two regions of a normal distribution",
	Long: `Eval computes the probability mass of X <= a or X >= a for a normal
distribution, and with --dual the relationship between two regions:
- Total area of both regions (opposite directions, no overlap)
- Area N exclusive (same direction)
- Area of overlap (opposite directions, intersecting)

Limits default to the mean. Directions accept <= or >= (also le/ge,
at-most/at-least).

Example:
  normregion eval --mean 0 --std 1 --dir1 "<=" --limit1 1
  normregion eval --dual --dir1 "<=" --limit1 1 --dir2 ">=" --limit2 0
  normregion eval --mean 100 --std 15 --limit1 130 --chart iq.html --md iq.md`,
	Args: cobra.NoArgs,
	RunE: runEval,
}

func init() {
	rootCmd.AddCommand(evalCmd)

	// Distribution and regions
	evalCmd.Flags().StringVar(&opts.name, "name", "", "name recorded in reports")
	evalCmd.Flags().Float64Var(&opts.mean, "mean", 0, "mean of the distribution")
	evalCmd.Flags().Float64Var(&opts.std, "std", 1, "standard deviation (> 0)")
	evalCmd.Flags().StringVar(&opts.dir1, "dir1", "<=", "direction of region 1 (<= or >=)")
	evalCmd.Flags().Float64Var(&opts.limit1, "limit1", 0, "limit of region 1 (default: mean)")
	evalCmd.Flags().BoolVar(&opts.dual, "dual", false, "enable the second region")
	evalCmd.Flags().StringVar(&opts.dir2, "dir2", ">=", "direction of region 2 (<= or >=)")
	evalCmd.Flags().Float64Var(&opts.limit2, "limit2", 0, "limit of region 2 (default: mean)")

	// Output flags
	evalCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (optional)")
	evalCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	evalCmd.Flags().StringVar(&outChart, "chart", "", "output HTML chart path (optional)")
	evalCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	evalCmd.Flags().StringVar(&locale, "locale", "", "number formatting locale, e.g. de or fr (default: config)")

	// Curve flags
	evalCmd.Flags().StringVar(&curveMode, "curve-mode", "", "curve generation: sampled or exact (default: config)")
	evalCmd.Flags().Int64Var(&curveSeed, "seed", 0, "seed for sampled curves (0 = random)")
	evalCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the curve cache")

	evalCmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "overall evaluation timeout")

	addLLMFlags(evalCmd)
}

// applyOutputFlags layers explicit flags over the loaded config
func applyOutputFlags(cmd *cobra.Command, cfg *model.Config) {
	if noFooter {
		cfg.Output.IncludeFooter = false
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	if locale != "" {
		cfg.Output.Locale = locale
	}
	if curveMode != "" {
		cfg.Curve.Mode = curveMode
	}
	if cmd.Flags().Changed("seed") {
		cfg.Curve.Seed = curveSeed
	}
	if verbose {
		cfg.Output.Verbose = true
	}
}

func runEval(cmd *cobra.Command, args []string) error {
	opts.limit1Set = cmd.Flags().Changed("limit1")
	opts.limit2Set = cmd.Flags().Changed("limit2")

	in, err := opts.input()
	if err != nil {
		return fmt.Errorf("invalid input: %w", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyOutputFlags(cmd, cfg)
	if outChart != "" {
		cfg.Output.Chart = true
	}
	if err := applyLLMFlags(cmd, cfg); err != nil {
		return err
	}

	if cfg.Output.Verbose {
		fmt.Fprintf(os.Stderr, "Distribution: normal(μ=%g, σ=%g)\n", in.Mean, in.StdDev)
		for i, r := range in.Regions() {
			fmt.Fprintf(os.Stderr, "Region %d: X %s\n", i+1, r)
		}
		fmt.Fprintf(os.Stderr, "Curve: %s (cache: %v)\n", cfg.Curve.Mode, cfg.Cache.Enabled)
		fmt.Fprintln(os.Stderr)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	p := pipeline.NewPipeline(cfg)

	if cfg.Output.Verbose {
		fmt.Fprintf(os.Stderr, "⚙️  Evaluating regions...\n")
	}

	eval, err := p.Evaluate(ctx, in)
	if err != nil {
		return fmt.Errorf("evaluate failed: %w", err)
	}

	if cfg.Output.Verbose {
		fmt.Fprintf(os.Stderr, "✓ Computed %d region area(s)\n", len(eval.Regions))
		if eval.Outcome != nil {
			fmt.Fprintf(os.Stderr, "✓ Classified relationship (rule: %s)\n", eval.Outcome.Rule)
		}
		if len(eval.Curve) > 0 {
			fmt.Fprintf(os.Stderr, "✓ Generated %d curve points\n", len(eval.Curve))
		}
		if eval.LLM != nil && eval.LLM.Enabled {
			fmt.Fprintf(os.Stderr, "✓ Generated LLM explanation using %s/%s\n", eval.LLM.Provider, eval.LLM.Model)
		}
		fmt.Fprintln(os.Stderr)
	}

	if err := p.RenderReport(eval, outJSON, outMD, outChart, os.Stdout, cfg.Output.Verbose); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	if eval.Outcome != nil {
		if err := eval.Outcome.Err(); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s\n", eval.Outcome)
			return fmt.Errorf("classify: %w", err)
		}
	}

	return nil
}
