package area

import (
	"math"

	"github.com/ppiankov/normregion/internal/dist"
	"github.com/ppiankov/normregion/internal/model"
)

// rule is one entry of the classification table.
// match decides whether the rule applies; eval computes its outcome.
type rule struct {
	name  string
	match func(r1, r2 model.Region) bool
	eval  func(d dist.CDF, r1, r2 model.Region) model.Outcome
}

// rules are evaluated in order and the first match wins. The conditions
// overlap at equal limits, so the order is part of the contract: an
// at-most limit equal to an at-least limit is an overlap of zero, not a
// disjoint pair.
var rules = []rule{
	{
		name:  "same-direction",
		match: func(r1, r2 model.Region) bool { return r1.Direction == r2.Direction },
		eval:  exclusive,
	},
	{
		name: "overlap",
		match: func(r1, r2 model.Region) bool {
			return r1.Direction == model.AtMost && r1.Limit >= r2.Limit
		},
		eval: overlap,
	},
	{
		name: "overlap",
		match: func(r1, r2 model.Region) bool {
			return r2.Direction == model.AtMost && r2.Limit >= r1.Limit
		},
		eval: overlap,
	},
	{
		name: "disjoint",
		match: func(r1, r2 model.Region) bool {
			return r1.Direction == model.AtMost && r1.Limit <= r2.Limit
		},
		eval: combined,
	},
	{
		name: "disjoint",
		match: func(r1, r2 model.Region) bool {
			return r2.Direction == model.AtMost && r2.Limit <= r1.Limit
		},
		eval: func(d dist.CDF, r1, r2 model.Region) model.Outcome {
			return combined(d, r2, r1)
		},
	},
}

// Classify determines how two regions relate under d and returns the
// matching combined metric. When no rule matches (only possible with NaN
// limits) the outcome is model.OutcomeUnclassified, never a zero value.
func Classify(d dist.CDF, r1, r2 model.Region) model.Outcome {
	for _, rl := range rules {
		if rl.match(r1, r2) {
			out := rl.eval(d, r1, r2)
			out.Rule = rl.name
			return out
		}
	}
	return model.Unclassified()
}

// exclusive reports the mass of the larger same-direction region that the
// smaller one does not cover. Ties go to region 2.
func exclusive(d dist.CDF, r1, r2 model.Region) model.Outcome {
	a1 := Area(d, r1)
	a2 := Area(d, r2)

	region := 2
	if a1 > a2 {
		region = 1
	}

	return model.Outcome{
		Kind:   model.OutcomeExclusive,
		Value:  math.Abs(a1 - a2),
		Region: region,
	}
}

// overlap measures the mass between the two limits. Both limits are
// measured as at-most regions whatever their own direction.
func overlap(d dist.CDF, r1, r2 model.Region) model.Outcome {
	lo := Area(d, model.Region{Limit: r1.Limit, Direction: model.AtMost})
	hi := Area(d, model.Region{Limit: r2.Limit, Direction: model.AtMost})

	return model.Outcome{
		Kind:  model.OutcomeOverlap,
		Value: math.Abs(lo - hi),
	}
}

// combined sums the masses of two regions that do not intersect
func combined(d dist.CDF, atMost, atLeast model.Region) model.Outcome {
	return model.Outcome{
		Kind:  model.OutcomeCombined,
		Value: Area(d, atMost) + Area(d, atLeast),
	}
}
