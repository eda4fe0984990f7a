package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/ppiankov/normregion/internal/model"
)

// Renderer writes evaluations in the supported output formats
type Renderer struct {
	includeFooter bool
	printer       *message.Printer
}

// NewRenderer creates a renderer. locale is a BCP 47 tag used for number
// formatting; unparseable tags fall back to English.
func NewRenderer(includeFooter bool, locale string) *Renderer {
	return &Renderer{
		includeFooter: includeFooter,
		printer:       message.NewPrinter(parseLocale(locale)),
	}
}

func parseLocale(locale string) language.Tag {
	if strings.TrimSpace(locale) == "" {
		return language.English
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return language.English
	}
	return tag
}

// Probability formats a mass to 4 decimal places
func (r *Renderer) Probability(v float64) string {
	return r.printer.Sprintf("%.4f", v)
}

// pointDecimals reports whether the locale writes decimals with a point.
// Explanations always quote values that way.
func (r *Renderer) pointDecimals() bool {
	return r.Probability(0.5) == "0.5000"
}

// Number formats a distribution parameter or limit
func (r *Renderer) Number(v float64) string {
	return r.printer.Sprintf("%v", v)
}

// Title returns the chart/report heading for an evaluation
func (r *Renderer) Title(eval *model.Evaluation) string {
	return fmt.Sprintf("Normal Distribution (μ=%s, σ=%s)",
		r.Number(eval.Distribution.Mean), r.Number(eval.Distribution.StdDev))
}

// RegionLine describes one region result
func (r *Renderer) RegionLine(rr model.RegionResult) string {
	return fmt.Sprintf("Area of region %d (X %s %s): %s",
		rr.Index, rr.Region.Direction, r.Number(rr.Region.Limit), r.Probability(rr.Area))
}

// OutcomeLine describes the relationship of two regions
func (r *Renderer) OutcomeLine(o model.Outcome) string {
	if o.Kind == model.OutcomeUnclassified {
		return o.String()
	}
	return fmt.Sprintf("%s: %s", o.Label(), r.Probability(o.Value))
}

// RenderSummary prints the result panel
func (r *Renderer) RenderSummary(w io.Writer, eval *model.Evaluation) error {
	var sb strings.Builder

	if eval.Name != "" {
		fmt.Fprintf(&sb, "%s\n", eval.Name)
	}
	fmt.Fprintf(&sb, "%s\n\n", r.Title(eval))
	for _, rr := range eval.Regions {
		fmt.Fprintf(&sb, "%s\n", r.RegionLine(rr))
	}
	if eval.Outcome != nil {
		fmt.Fprintf(&sb, "\n%s\n", r.OutcomeLine(*eval.Outcome))
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// RenderJSON writes the evaluation as indented JSON
func (r *Renderer) RenderJSON(eval *model.Evaluation, path string) error {
	data, err := json.MarshalIndent(eval, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal evaluation: %w", err)
	}
	return writeFile(path, append(data, '\n'))
}

// RenderMarkdown writes the Markdown report to path
func (r *Renderer) RenderMarkdown(eval *model.Evaluation, path string) error {
	return writeFile(path, []byte(r.Markdown(eval)))
}

// Markdown returns the Markdown report
func (r *Renderer) Markdown(eval *model.Evaluation) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n\n", r.Title(eval))
	if eval.Name != "" {
		fmt.Fprintf(&sb, "Scenario: **%s**\n\n", eval.Name)
	}

	sb.WriteString("| Region | Selection | Area |\n")
	sb.WriteString("|--------|-----------|------|\n")
	for _, rr := range eval.Regions {
		fmt.Fprintf(&sb, "| %d | X %s %s | %s |\n",
			rr.Index, rr.Region.Direction, r.Number(rr.Region.Limit), r.Probability(rr.Area))
	}
	sb.WriteString("\n")

	if eval.Outcome != nil {
		sb.WriteString("## Relationship\n\n")
		fmt.Fprintf(&sb, "**%s**", r.OutcomeLine(*eval.Outcome))
		if eval.Outcome.Rule != "" {
			fmt.Fprintf(&sb, " (rule: `%s`)", eval.Outcome.Rule)
		}
		sb.WriteString("\n\n")
	}

	if eval.LLM != nil && eval.LLM.Enabled && eval.LLM.SummaryMD != "" {
		sb.WriteString("## Explanation\n\n")
		if !r.pointDecimals() {
			sb.WriteString("_Values in this explanation use `.` as the decimal separator._\n\n")
		}
		sb.WriteString(eval.LLM.SummaryMD)
		sb.WriteString("\n\n")
	}

	if r.includeFooter {
		sb.WriteString("---\n\n")
		sb.WriteString("_Areas are exact normal CDF values; the chart curve is a drawing aid._\n")
	}

	return sb.String()
}

// writeFile writes data to path, creating parent directories
func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
