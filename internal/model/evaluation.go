package model

import (
	"errors"
	"time"
)

// Input validation errors
var (
	ErrInvalidMean   = errors.New("mean must be a finite number")
	ErrInvalidStdDev = errors.New("standard deviation must be a finite number greater than zero")
	ErrInvalidLimit  = errors.New("region limit must be a number")
)

// Input holds everything one evaluation needs.
// Dual-region mode is on when Region2 is set.
type Input struct {
	Name    string  `json:"name,omitempty" yaml:"name,omitempty"`
	Mean    float64 `json:"mean" yaml:"mean"`
	StdDev  float64 `json:"std_dev" yaml:"std_dev"`
	Region1 Region  `json:"region1" yaml:"region1"`
	Region2 *Region `json:"region2,omitempty" yaml:"region2,omitempty"`
}

// Dual reports whether a second region is present
func (in Input) Dual() bool {
	return in.Region2 != nil
}

// Regions returns the enabled regions in order
func (in Input) Regions() []Region {
	if in.Region2 == nil {
		return []Region{in.Region1}
	}
	return []Region{in.Region1, *in.Region2}
}

// Evaluation is the complete result for one Input
type Evaluation struct {
	Name         string         `json:"name,omitempty"`
	Distribution Distribution   `json:"distribution"`
	Regions      []RegionResult `json:"regions"`
	Outcome      *Outcome       `json:"outcome,omitempty"` // nil in single-region mode
	Curve        []Point        `json:"curve,omitempty"`
	EvaluatedAt  time.Time      `json:"evaluated_at"`

	LLM *LLMSummary `json:"llm,omitempty"` // Optional explanation (never affects values)
}

// Distribution records the parameters an evaluation ran against
type Distribution struct {
	Family string  `json:"family"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
}

// RegionResult is the probability mass of one region
type RegionResult struct {
	Index  int     `json:"index"` // 1 or 2
	Region Region  `json:"region"`
	Area   float64 `json:"area"`
	Shade  *Shade  `json:"shade,omitempty"`
}

// Point is one sample of a rendered curve
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Shade is the slice of curve points drawn under a region
type Shade struct {
	Xs []float64 `json:"xs"`
	Ys []float64 `json:"ys"`
}

// LLMSummary contains an optional LLM-generated explanation
type LLMSummary struct {
	Enabled       bool     `json:"enabled"`
	Provider      string   `json:"provider,omitempty"`
	Model         string   `json:"model,omitempty"`
	StrictNumbers bool     `json:"strict_numbers"`
	SummaryMD     string   `json:"summary_md,omitempty"`
	Warnings      []string `json:"warnings,omitempty"`
}
