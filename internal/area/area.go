// Package area measures half-line regions against a distribution and
// classifies how two regions relate.
package area

import (
	"github.com/ppiankov/normregion/internal/dist"
	"github.com/ppiankov/normregion/internal/model"
)

// Area returns the probability mass of r under d.
// Any limit is accepted; limits far in the tails saturate toward 0 or 1.
func Area(d dist.CDF, r model.Region) float64 {
	if r.Direction == model.AtMost {
		return d.CDF(r.Limit)
	}
	return 1 - d.CDF(r.Limit)
}
