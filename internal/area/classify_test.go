package area

import (
	"errors"
	"math"
	"testing"

	"github.com/ppiankov/normregion/internal/dist"
	"github.com/ppiankov/normregion/internal/model"
)

func TestClassify_Examples(t *testing.T) {
	d := dist.NewNormal(0, 1)

	tests := []struct {
		name       string
		r1, r2     model.Region
		wantKind   model.OutcomeKind
		wantRegion int
		wantValue  float64
		wantLabel  string
	}{
		{
			name:      "disjoint tails",
			r1:        atMost(0),
			r2:        atLeast(5),
			wantKind:  model.OutcomeCombined,
			wantValue: 0.5000,
			wantLabel: "Total area of both regions",
		},
		{
			name:      "overlapping body",
			r1:        atMost(1),
			r2:        atLeast(0),
			wantKind:  model.OutcomeOverlap,
			wantValue: 0.3413,
			wantLabel: "Area of overlap",
		},
		{
			name:       "region 1 exclusive",
			r1:         atMost(1),
			r2:         atMost(0),
			wantKind:   model.OutcomeExclusive,
			wantRegion: 1,
			wantValue:  0.3413,
			wantLabel:  "Area 1 exclusive",
		},
		{
			name:       "region 2 exclusive",
			r1:         atLeast(1),
			r2:         atLeast(0),
			wantKind:   model.OutcomeExclusive,
			wantRegion: 2,
			wantValue:  0.3413,
			wantLabel:  "Area 2 exclusive",
		},
		{
			name:      "disjoint with gap",
			r1:        atLeast(1),
			r2:        atMost(-1),
			wantKind:  model.OutcomeCombined,
			wantValue: 0.3173,
			wantLabel: "Total area of both regions",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Classify(d, tt.r1, tt.r2)

			if out.Kind != tt.wantKind {
				t.Fatalf("kind = %s, want %s", out.Kind, tt.wantKind)
			}
			if out.Region != tt.wantRegion {
				t.Errorf("region = %d, want %d", out.Region, tt.wantRegion)
			}
			if !approxEqual(out.Value, tt.wantValue, tolerance) {
				t.Errorf("value = %.6f, want %.4f", out.Value, tt.wantValue)
			}
			if out.Label() != tt.wantLabel {
				t.Errorf("label = %q, want %q", out.Label(), tt.wantLabel)
			}
			if out.Err() != nil {
				t.Errorf("unexpected error: %v", out.Err())
			}
		})
	}
}

func TestClassify_Symmetric(t *testing.T) {
	d := dist.NewNormal(0.5, 1.3)
	dirs := []model.Direction{model.AtMost, model.AtLeast}

	for _, l1 := range testLimits {
		for _, l2 := range testLimits {
			for _, d1 := range dirs {
				for _, d2 := range dirs {
					r1 := model.Region{Limit: l1, Direction: d1}
					r2 := model.Region{Limit: l2, Direction: d2}

					a := Classify(d, r1, r2)
					b := Classify(d, r2, r1)

					if a.Kind != b.Kind {
						t.Errorf("(%v, %v): kind %s vs swapped %s", r1, r2, a.Kind, b.Kind)
					}
					if !approxEqual(a.Value, b.Value, 1e-12) {
						t.Errorf("(%v, %v): value %v vs swapped %v", r1, r2, a.Value, b.Value)
					}
				}
			}
		}
	}
}

func TestClassify_ExclusiveLabelSwapsWithOrder(t *testing.T) {
	d := dist.NewNormal(0, 1)

	a := Classify(d, atMost(1), atMost(0))
	b := Classify(d, atMost(0), atMost(1))

	if a.Region != 1 || b.Region != 2 {
		t.Errorf("expected regions 1 and 2, got %d and %d", a.Region, b.Region)
	}
}

func TestClassify_IdenticalSameDirection(t *testing.T) {
	d := dist.NewNormal(0, 1)

	for _, limit := range []float64{-2, 0, 3.7} {
		for _, r := range []model.Region{atMost(limit), atLeast(limit)} {
			out := Classify(d, r, r)
			if out.Kind != model.OutcomeExclusive {
				t.Fatalf("%v twice: kind = %s, want exclusive", r, out.Kind)
			}
			if out.Value != 0 {
				t.Errorf("%v twice: value = %v, want 0", r, out.Value)
			}
		}
	}
}

func TestClassify_EqualOppositeLimitsIsZeroOverlap(t *testing.T) {
	d := dist.NewNormal(0, 1)

	for _, limit := range []float64{-1, 0, 2.5} {
		for _, pair := range [][2]model.Region{
			{atMost(limit), atLeast(limit)},
			{atLeast(limit), atMost(limit)},
		} {
			out := Classify(d, pair[0], pair[1])
			if out.Kind != model.OutcomeOverlap {
				t.Errorf("%v / %v: kind = %s, want overlap", pair[0], pair[1], out.Kind)
			}
			if out.Value != 0 {
				t.Errorf("%v / %v: value = %v, want 0", pair[0], pair[1], out.Value)
			}
		}
	}
}

func TestClassify_OverlapIgnoresOwnDirection(t *testing.T) {
	d := stepCDF{4: 0.9, 1: 0.2}

	out := Classify(d, atLeast(1), atMost(4))
	if out.Kind != model.OutcomeOverlap {
		t.Fatalf("kind = %s, want overlap", out.Kind)
	}
	if !approxEqual(out.Value, 0.7, 1e-12) {
		t.Errorf("value = %v, want CDF(4) - CDF(1) = 0.7", out.Value)
	}
}

func TestClassify_RuleNames(t *testing.T) {
	d := dist.NewNormal(0, 1)

	tests := []struct {
		r1, r2 model.Region
		want   string
	}{
		{atMost(0), atMost(1), "same-direction"},
		{atMost(1), atLeast(0), "overlap"},
		{atLeast(0), atMost(1), "overlap"},
		{atMost(0), atLeast(1), "disjoint"},
		{atLeast(1), atMost(0), "disjoint"},
	}

	for _, tt := range tests {
		if got := Classify(d, tt.r1, tt.r2).Rule; got != tt.want {
			t.Errorf("Classify(%v, %v).Rule = %q, want %q", tt.r1, tt.r2, got, tt.want)
		}
	}
}

func TestClassify_Unclassified(t *testing.T) {
	d := dist.NewNormal(0, 1)

	out := Classify(d, atMost(math.NaN()), atLeast(0))

	if out.Kind != model.OutcomeUnclassified {
		t.Fatalf("kind = %s, want unclassified", out.Kind)
	}
	if !math.IsNaN(out.Value) {
		t.Errorf("value = %v, want NaN", out.Value)
	}
	if !errors.Is(out.Err(), model.ErrUnclassified) {
		t.Errorf("Err() = %v, want ErrUnclassified", out.Err())
	}
	if out.Label() != "No match" {
		t.Errorf("label = %q, want %q", out.Label(), "No match")
	}
}
