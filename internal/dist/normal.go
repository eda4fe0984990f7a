// Package dist wraps the continuous distributions regions are measured against.
package dist

import (
	"math/rand"

	"github.com/aclements/go-moremath/stats"
)

// CDF is anything that can report the probability mass at or below x
type CDF interface {
	CDF(x float64) float64
}

// Normal is a normal distribution with fixed parameters.
// StdDev must be greater than zero; the CDF is undefined otherwise and
// callers are expected to check before constructing one.
type Normal struct {
	Mean   float64
	StdDev float64
	nd     stats.NormalDist
}

// NewNormal creates a normal distribution
func NewNormal(mean, stdDev float64) Normal {
	return Normal{
		Mean:   mean,
		StdDev: stdDev,
		nd:     stats.NormalDist{Mu: mean, Sigma: stdDev},
	}
}

// CDF returns P(X <= x)
func (n Normal) CDF(x float64) float64 {
	return n.nd.CDF(x)
}

// PDF returns the density at x
func (n Normal) PDF(x float64) float64 {
	return n.nd.PDF(x)
}

// Bounds returns mean - 3σ and mean + 3σ
func (n Normal) Bounds() (float64, float64) {
	return n.nd.Bounds()
}

// Draw returns count random variates from the distribution
func (n Normal) Draw(r *rand.Rand, count int) []float64 {
	xs := make([]float64, count)
	for i := range xs {
		xs[i] = n.nd.Rand(r)
	}
	return xs
}
