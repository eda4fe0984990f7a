package curve

import "github.com/ppiankov/normregion/internal/model"

// Slice returns the curve points lying strictly inside r, for shading.
// samples must be sorted by X ascending. The y values are taken by
// position: the prefix of the curve for at-most regions, the suffix for
// at-least regions. This is a drawing aid and says nothing about the
// region's probability mass.
func Slice(samples []model.Point, r model.Region) (xs, ys []float64) {
	xs = make([]float64, 0, len(samples))
	for _, p := range samples {
		if r.Contains(p.X) {
			xs = append(xs, p.X)
		}
	}

	ys = make([]float64, len(xs))
	offset := 0
	if r.Direction == model.AtLeast {
		offset = len(samples) - len(xs)
	}
	for i := range ys {
		ys[i] = samples[offset+i].Y
	}

	return xs, ys
}

// Shade wraps Slice into the shape evaluations carry
func Shade(samples []model.Point, r model.Region) *model.Shade {
	xs, ys := Slice(samples, r)
	return &model.Shade{Xs: xs, Ys: ys}
}
