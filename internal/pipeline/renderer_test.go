package pipeline

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/ppiankov/normregion/internal/model"
)

func sampleEvaluation() *model.Evaluation {
	return &model.Evaluation{
		Name:         "demo",
		Distribution: model.Distribution{Family: "normal", Mean: 0, StdDev: 1},
		Regions: []model.RegionResult{
			{Index: 1, Region: model.Region{Limit: -1, Direction: model.AtMost}, Area: 0.158655254},
			{Index: 2, Region: model.Region{Limit: 1, Direction: model.AtLeast}, Area: 0.158655254},
		},
		Outcome: &model.Outcome{Kind: model.OutcomeCombined, Value: 0.317310508, Rule: "disjoint"},
	}
}

func TestRenderer_Lines(t *testing.T) {
	r := NewRenderer(true, "en")
	eval := sampleEvaluation()

	if got := r.Title(eval); got != "Normal Distribution (μ=0, σ=1)" {
		t.Errorf("Title = %q", got)
	}
	if got := r.RegionLine(eval.Regions[0]); got != "Area of region 1 (X <= -1): 0.1587" {
		t.Errorf("RegionLine = %q", got)
	}
	if got := r.OutcomeLine(*eval.Outcome); got != "Total area of both regions: 0.3173" {
		t.Errorf("OutcomeLine = %q", got)
	}

	un := model.Unclassified()
	if got := r.OutcomeLine(un); !strings.HasPrefix(got, "No match") {
		t.Errorf("OutcomeLine(unclassified) = %q", got)
	}
}

func TestRenderer_Locale(t *testing.T) {
	if got := NewRenderer(false, "de").Probability(0.34134); got != "0,3413" {
		t.Errorf("German probability = %q, want 0,3413", got)
	}
	if got := NewRenderer(false, "not a locale!").Probability(0.5); got != "0.5000" {
		t.Errorf("fallback probability = %q, want 0.5000", got)
	}
	if got := NewRenderer(false, "").Probability(1); got != "1.0000" {
		t.Errorf("default probability = %q, want 1.0000", got)
	}
}

func TestRenderer_Markdown(t *testing.T) {
	eval := sampleEvaluation()

	md := NewRenderer(true, "en").Markdown(eval)
	for _, want := range []string{
		"# Normal Distribution (μ=0, σ=1)",
		"Scenario: **demo**",
		"| 1 | X <= -1 | 0.1587 |",
		"| 2 | X >= 1 | 0.1587 |",
		"## Relationship",
		"**Total area of both regions: 0.3173** (rule: `disjoint`)",
		"---",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}

	if strings.Contains(NewRenderer(false, "en").Markdown(eval), "---") {
		t.Error("footer rendered although disabled")
	}

	eval.LLM = &model.LLMSummary{Enabled: true, SummaryMD: "Tails on both sides."}
	if !strings.Contains(NewRenderer(false, "en").Markdown(eval), "## Explanation\n\nTails on both sides.") {
		t.Error("explanation section missing")
	}
	if strings.Contains(NewRenderer(false, "en").Markdown(eval), "decimal separator") {
		t.Error("separator note rendered for a point-decimal locale")
	}
}

func TestRenderer_MarkdownExplanationSeparatorNote(t *testing.T) {
	eval := sampleEvaluation()
	eval.LLM = &model.LLMSummary{Enabled: true, SummaryMD: "About 0.3173 lies in the tails."}

	md := NewRenderer(false, "de").Markdown(eval)
	if !strings.Contains(md, "| 1 | X <= -1 | 0,1587 |") {
		t.Errorf("table should use the locale separator:\n%s", md)
	}
	if !strings.Contains(md, "_Values in this explanation use `.` as the decimal separator._\n\nAbout 0.3173") {
		t.Errorf("explanation should carry the separator note:\n%s", md)
	}
}

func TestRenderer_JSONUnclassifiedValueIsNull(t *testing.T) {
	eval := sampleEvaluation()
	un := model.Unclassified()
	eval.Outcome = &un

	data, err := json.Marshal(eval)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded struct {
		Outcome map[string]any `json:"outcome"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	if v, ok := decoded.Outcome["value"]; !ok || v != nil {
		t.Errorf("expected null value, got %v (present=%v)", v, ok)
	}
	if decoded.Outcome["kind"] != "unclassified" {
		t.Errorf("expected kind unclassified, got %v", decoded.Outcome["kind"])
	}
}

func TestRenderer_Chart(t *testing.T) {
	eval := sampleEvaluation()
	for i := 0; i <= 60; i++ {
		x := -3 + float64(i)*0.1
		eval.Curve = append(eval.Curve, model.Point{X: x, Y: math.Exp(-x * x / 2)})
	}
	eval.Regions[0].Shade = &model.Shade{Xs: []float64{-3, -2, -1.5}, Ys: []float64{0.01, 0.1, 0.3}}
	eval.Regions[1].Shade = &model.Shade{Xs: []float64{1.5, 2, 3}, Ys: []float64{0.3, 0.1, 0.01}}

	var sb strings.Builder
	if err := NewRenderer(false, "en").WriteChart(&sb, eval); err != nil {
		t.Fatalf("WriteChart failed: %v", err)
	}
	page := sb.String()

	for _, want := range []string{
		"<!DOCTYPE html>",
		"<title>Normal Distribution (μ=0, σ=1)</title>",
		"<svg",
		`class="curve"`,
		`stroke="black"`,
		`fill="rgba(200,0,0,0.25)"`,
		`fill="rgba(0,0,200,0.25)"`,
		"Total area of both regions: 0.3173",
	} {
		if !strings.Contains(page, want) {
			t.Errorf("chart missing %q", want)
		}
	}
	if strings.Count(page, "<polygon") != 2 {
		t.Errorf("expected 2 shaded polygons, got %d", strings.Count(page, "<polygon"))
	}
	if strings.Count(page, `class="tick"`) != 7 {
		t.Errorf("expected 7 x ticks, got %d", strings.Count(page, `class="tick"`))
	}
}

func TestPlotArea(t *testing.T) {
	eval := sampleEvaluation()
	eval.Curve = []model.Point{{X: 0, Y: 0.4}}

	area := newPlotArea(eval)
	if !approxEqual(area.xmin, -3.3, 1e-9) || !approxEqual(area.xmax, 3.3, 1e-9) {
		t.Errorf("x range = [%v, %v], want [-3.3, 3.3]", area.xmin, area.xmax)
	}
	if !approxEqual(area.ymax, 0.42, 1e-9) {
		t.Errorf("ymax = %v, want 0.42", area.ymax)
	}
	if area.inside(-3.4) || !area.inside(3.3) {
		t.Error("inside() disagrees with the padded range")
	}
}
