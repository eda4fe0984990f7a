package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// ErrUnclassified signals that no relationship rule matched two regions
var ErrUnclassified = errors.New("regions could not be classified")

// OutcomeKind tags the combined metric of two regions
type OutcomeKind string

const (
	OutcomeCombined     OutcomeKind = "combined"     // disjoint opposite-direction regions, masses summed
	OutcomeExclusive    OutcomeKind = "exclusive"    // same direction, mass of the larger not covered by the smaller
	OutcomeOverlap      OutcomeKind = "overlap"      // intersecting opposite-direction regions
	OutcomeUnclassified OutcomeKind = "unclassified" // no rule matched
)

// Outcome is the combined metric for a pair of regions
type Outcome struct {
	Kind  OutcomeKind `json:"kind"`
	Value float64     `json:"-"`
	// Region is 1 or 2 for exclusive outcomes, 0 otherwise
	Region int `json:"region,omitempty"`
	// Rule names the classifier rule that produced the outcome
	Rule string `json:"rule,omitempty"`
}

// Unclassified returns the outcome used when no rule matches
func Unclassified() Outcome {
	return Outcome{Kind: OutcomeUnclassified, Value: math.NaN()}
}

// Label returns the human-readable name of the metric
func (o Outcome) Label() string {
	switch o.Kind {
	case OutcomeCombined:
		return "Total area of both regions"
	case OutcomeExclusive:
		return fmt.Sprintf("Area %d exclusive", o.Region)
	case OutcomeOverlap:
		return "Area of overlap"
	default:
		return "No match"
	}
}

// String renders the outcome the way the result panel shows it
func (o Outcome) String() string {
	if o.Kind == OutcomeUnclassified {
		return "No match: the two regions could not be classified"
	}
	return fmt.Sprintf("%s: %.4f", o.Label(), o.Value)
}

// Err returns ErrUnclassified for the fallback outcome and nil otherwise
func (o Outcome) Err() error {
	if o.Kind == OutcomeUnclassified {
		return ErrUnclassified
	}
	return nil
}

// MarshalJSON writes Value as null when it is not a number
func (o Outcome) MarshalJSON() ([]byte, error) {
	type plain Outcome
	out := struct {
		plain
		Value *float64 `json:"value"`
	}{plain: plain(o)}
	if !math.IsNaN(o.Value) && !math.IsInf(o.Value, 0) {
		v := o.Value
		out.Value = &v
	}
	return json.Marshal(out)
}
