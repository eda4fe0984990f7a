// Package curve produces the density curve drawn under a distribution and
// slices it into the shaded part of each region.
package curve

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/aclements/go-moremath/stats"

	"github.com/ppiankov/normregion/internal/cache"
	"github.com/ppiankov/normregion/internal/dist"
	"github.com/ppiankov/normregion/internal/model"
)

// ErrBadCurveConfig is returned when curve settings cannot produce a curve
var ErrBadCurveConfig = errors.New("invalid curve configuration")

// Sampler generates curves according to a CurveConfig
type Sampler struct {
	cfg   model.CurveConfig
	cache cache.Cache // nil disables caching
}

// NewSampler creates a sampler; c may be nil
func NewSampler(cfg model.CurveConfig, c cache.Cache) *Sampler {
	return &Sampler{cfg: cfg, cache: c}
}

// Curve returns the curve for d, sorted by X ascending.
//
// In sampled mode it mirrors a distplot: draw random variates, fit a normal
// to them and evaluate the fitted density on an evenly spaced grid from the
// smallest to the largest draw. In exact mode the true density is evaluated
// on mean ± 3σ.
func (s *Sampler) Curve(d dist.Normal) ([]model.Point, error) {
	if s.cfg.Points < 2 {
		return nil, fmt.Errorf("%w: points must be at least 2, got %d", ErrBadCurveConfig, s.cfg.Points)
	}

	key := ""
	if s.cache != nil && s.deterministic() {
		key = cache.CurveKey(d.Mean, d.StdDev, s.cfg)
		if pts, ok := s.cache.Get(key); ok {
			return pts, nil
		}
	}

	var pts []model.Point
	switch s.cfg.Mode {
	case model.CurveModeExact:
		pts = exact(d, s.cfg.Points)
	case model.CurveModeSampled, "":
		if s.cfg.Draws < 2 {
			return nil, fmt.Errorf("%w: draws must be at least 2, got %d", ErrBadCurveConfig, s.cfg.Draws)
		}
		pts = sampled(d, s.rand(), s.cfg.Draws, s.cfg.Points)
	default:
		return nil, fmt.Errorf("%w: unknown mode %q", ErrBadCurveConfig, s.cfg.Mode)
	}

	if key != "" {
		_ = s.cache.Set(key, pts, 0)
	}

	return pts, nil
}

// deterministic reports whether the same inputs always yield the same curve
func (s *Sampler) deterministic() bool {
	return s.cfg.Mode == model.CurveModeExact || s.cfg.Seed != 0
}

func (s *Sampler) rand() *rand.Rand {
	seed := s.cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

func sampled(d dist.Normal, r *rand.Rand, draws, points int) []model.Point {
	sample := stats.Sample{Xs: d.Draw(r, draws)}
	fitted := dist.NewNormal(sample.Mean(), sample.StdDev())
	lo, hi := sample.Bounds()

	step := (hi - lo) / float64(points)
	pts := make([]model.Point, points)
	for i := range pts {
		x := lo + float64(i)*step
		pts[i] = model.Point{X: x, Y: fitted.PDF(x)}
	}
	return pts
}

func exact(d dist.Normal, points int) []model.Point {
	lo, hi := d.Bounds()

	step := (hi - lo) / float64(points-1)
	pts := make([]model.Point, points)
	for i := range pts {
		x := lo + float64(i)*step
		pts[i] = model.Point{X: x, Y: d.PDF(x)}
	}
	return pts
}
