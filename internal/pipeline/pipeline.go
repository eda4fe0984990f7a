package pipeline

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"github.com/ppiankov/normregion/internal/area"
	"github.com/ppiankov/normregion/internal/cache"
	"github.com/ppiankov/normregion/internal/curve"
	"github.com/ppiankov/normregion/internal/dist"
	"github.com/ppiankov/normregion/internal/llm"
	"github.com/ppiankov/normregion/internal/model"
)

// Pipeline orchestrates a complete evaluation
type Pipeline struct {
	sampler    *curve.Sampler
	renderer   *Renderer
	summarizer *llm.Summarizer // Optional LLM summarizer (nil if disabled)
	config     *model.Config
}

// NewPipeline creates a new pipeline with the given configuration
func NewPipeline(cfg *model.Config) *Pipeline {
	// Create LLM summarizer if configured
	var summarizer *llm.Summarizer
	if cfg.LLM.Provider != "" {
		s, err := llm.NewSummarizer(llm.ConfigFromModel(cfg.LLM))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Failed to initialize LLM provider: %v\n", err)
		} else {
			summarizer = s
		}
	}

	var curveCache cache.Cache
	if cfg.Cache.Enabled {
		curveCache = cache.NewMemoryCache(cfg.Cache.TTL, cfg.Cache.CleanupInterval)
	}

	return &Pipeline{
		sampler:    curve.NewSampler(cfg.Curve, curveCache),
		renderer:   NewRenderer(cfg.Output.IncludeFooter, cfg.Output.Locale),
		summarizer: summarizer,
		config:     cfg,
	}
}

// Renderer returns the renderer configured for this pipeline
func (p *Pipeline) Renderer() *Renderer {
	return p.renderer
}

// ValidateInput checks the preconditions the core relies on
func ValidateInput(in model.Input) error {
	if math.IsNaN(in.Mean) || math.IsInf(in.Mean, 0) {
		return fmt.Errorf("%w: got %v", model.ErrInvalidMean, in.Mean)
	}
	if math.IsNaN(in.StdDev) || math.IsInf(in.StdDev, 0) || in.StdDev <= 0 {
		return fmt.Errorf("%w: got %v", model.ErrInvalidStdDev, in.StdDev)
	}
	for i, r := range in.Regions() {
		if math.IsNaN(r.Limit) {
			return fmt.Errorf("region %d: %w", i+1, model.ErrInvalidLimit)
		}
		if !r.Direction.Valid() {
			return fmt.Errorf("region %d: %w: %d", i+1, model.ErrUnknownDirection, int(r.Direction))
		}
	}
	return nil
}

// Evaluate computes region areas and, in dual-region mode, their
// relationship. Every call recomputes from in; nothing carries over.
func (p *Pipeline) Evaluate(ctx context.Context, in model.Input) (*model.Evaluation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// 1. Check preconditions
	if err := ValidateInput(in); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	d := dist.NewNormal(in.Mean, in.StdDev)

	// 2. Area of each region
	eval := &model.Evaluation{
		Name: in.Name,
		Distribution: model.Distribution{
			Family: "normal",
			Mean:   in.Mean,
			StdDev: in.StdDev,
		},
		EvaluatedAt: time.Now().UTC(),
	}
	for i, r := range in.Regions() {
		eval.Regions = append(eval.Regions, model.RegionResult{
			Index:  i + 1,
			Region: r,
			Area:   area.Area(d, r),
		})
	}

	// 3. Relationship between the two regions
	if in.Dual() {
		outcome := area.Classify(d, in.Region1, *in.Region2)
		eval.Outcome = &outcome
	}

	// 4. Curve and shading for the chart
	if p.config.Output.Chart {
		pts, err := p.sampler.Curve(d)
		if err != nil {
			return nil, fmt.Errorf("curve: %w", err)
		}
		eval.Curve = pts
		for i := range eval.Regions {
			eval.Regions[i].Shade = curve.Shade(pts, eval.Regions[i].Region)
		}
	}

	// 5. Generate LLM explanation if enabled (AFTER computing, never affects values)
	if p.summarizer != nil && p.summarizer.IsEnabled() {
		summary, err := p.summarizer.GenerateSummary(ctx, *eval)
		if err != nil {
			// Don't fail the evaluation, just warn
			fmt.Fprintf(os.Stderr, "Warning: %s summary generation failed: %v\n", p.summarizer.ProviderName(), err)
		} else if summary != nil {
			eval.LLM = summary
		}
	}

	return eval, nil
}

// RenderReport renders the evaluation to the requested outputs and prints
// the summary to w
func (p *Pipeline) RenderReport(eval *model.Evaluation, jsonPath, mdPath, chartPath string, w io.Writer, verbose bool) error {
	if jsonPath != "" {
		if err := p.renderer.RenderJSON(eval, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", jsonPath)
		}
	}

	if mdPath != "" {
		if err := p.renderer.RenderMarkdown(eval, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote Markdown: %s\n", mdPath)
		}
	}

	if chartPath != "" {
		if len(eval.Curve) == 0 {
			return fmt.Errorf("render chart: evaluation has no curve (enable output.chart)")
		}
		if err := p.renderer.RenderChart(eval, chartPath); err != nil {
			return fmt.Errorf("render chart: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote chart: %s\n", chartPath)
		}
	}

	// Render LLM explanation to a separate file if present
	if eval.LLM != nil && eval.LLM.Enabled && mdPath != "" {
		llmPath := strings.TrimSuffix(mdPath, ".md") + ".llm.md"
		if err := writeFile(llmPath, []byte(llm.RenderSeparateMarkdown(eval.LLM))); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Failed to write LLM summary: %v\n", err)
		} else if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote LLM Summary: %s\n", llmPath)
		}
	}

	return p.renderer.RenderSummary(w, eval)
}
