package dist

import (
	"math"
	"math/rand"
	"testing"
)

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) < tol
}

func TestNormal_CDF(t *testing.T) {
	n := NewNormal(0, 1)

	tests := []struct {
		x    float64
		want float64
	}{
		{0, 0.5},
		{1, 0.841345},
		{-1, 0.158655},
		{1.96, 0.975002},
		{math.Inf(1), 1},
		{math.Inf(-1), 0},
	}

	for _, tt := range tests {
		if got := n.CDF(tt.x); !approxEqual(got, tt.want, 1e-5) {
			t.Errorf("CDF(%v) = %v, want %v", tt.x, got, tt.want)
		}
	}
}

func TestNormal_CDF_Shifted(t *testing.T) {
	n := NewNormal(10, 2)
	if got := n.CDF(12); !approxEqual(got, 0.841345, 1e-5) {
		t.Errorf("CDF(12) = %v, want 0.841345", got)
	}
}

func TestNormal_PDF(t *testing.T) {
	n := NewNormal(0, 1)
	want := 1 / math.Sqrt(2*math.Pi)
	if got := n.PDF(0); !approxEqual(got, want, 1e-9) {
		t.Errorf("PDF(0) = %v, want %v", got, want)
	}
}

func TestNormal_Bounds(t *testing.T) {
	lo, hi := NewNormal(5, 2).Bounds()
	if !approxEqual(lo, -1, 1e-9) || !approxEqual(hi, 11, 1e-9) {
		t.Errorf("Bounds() = (%v, %v), want (-1, 11)", lo, hi)
	}
}

func TestNormal_Draw(t *testing.T) {
	n := NewNormal(3, 0.5)
	xs := n.Draw(rand.New(rand.NewSource(42)), 5000)

	if len(xs) != 5000 {
		t.Fatalf("expected 5000 draws, got %d", len(xs))
	}

	var sum float64
	for _, x := range xs {
		sum += x
	}
	if mean := sum / float64(len(xs)); !approxEqual(mean, 3, 0.05) {
		t.Errorf("sample mean = %v, want about 3", mean)
	}
}

func TestNormal_Draw_Deterministic(t *testing.T) {
	n := NewNormal(0, 1)
	a := n.Draw(rand.New(rand.NewSource(7)), 10)
	b := n.Draw(rand.New(rand.NewSource(7)), 10)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("draw %d differs with the same seed: %v vs %v", i, a[i], b[i])
		}
	}
}
