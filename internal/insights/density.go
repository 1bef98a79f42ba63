package insights

import (
	"math"
	"sort"

	"github.com/aerodash/aerodash/config"
)

// Point is one sample of an estimated density curve.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Bin is one histogram bucket, normalized to probability density so the
// histogram and the KDE curve share a scale.
type Bin struct {
	Center  float64
	Density float64
}

// Histogram buckets the sample into count bins across [min, max] and
// normalizes heights to probability density. Fewer than one value or a zero
// spread yields a single degenerate bin.
func Histogram(sample []float64, count int) []Bin {
	if len(sample) == 0 {
		return nil
	}
	if count <= 0 {
		count = 1
	}
	lo, hi := minMax(sample)
	if hi == lo {
		return []Bin{{Center: lo, Density: 1}}
	}

	width := (hi - lo) / float64(count)
	counts := make([]int, count)
	for _, v := range sample {
		i := int((v - lo) / width)
		if i >= count { // hi itself lands in the last bin
			i = count - 1
		}
		counts[i]++
	}

	n := float64(len(sample))
	bins := make([]Bin, count)
	for i, c := range counts {
		bins[i] = Bin{
			Center:  lo + (float64(i)+0.5)*width,
			Density: float64(c) / (n * width),
		}
	}
	return bins
}

// KDE estimates the probability density of the sample with a Gaussian kernel
// and Silverman's rule-of-thumb bandwidth, evaluated on an evenly spaced grid
// of points across [min, max]. Non-positive points take the configured
// default. It reports ok=false when fewer than two values or a zero spread
// make the estimate undefined; callers then render the histogram alone.
func KDE(sample []float64, points int) ([]Point, bool) {
	if points <= 0 {
		points = config.DefaultKDEPoints
	}
	if len(sample) < 2 || points < 2 {
		return nil, false
	}
	lo, hi := minMax(sample)
	if hi == lo {
		return nil, false
	}

	step := (hi - lo) / float64(points-1)
	xs := make([]float64, points)
	for i := range xs {
		xs[i] = lo + float64(i)*step
	}
	return KDEAt(sample, xs)
}

// KDEAt evaluates the kernel density estimate at the given positions, letting
// the density chart share a grid with its histogram bins.
func KDEAt(sample []float64, xs []float64) ([]Point, bool) {
	if len(sample) < 2 || len(xs) == 0 {
		return nil, false
	}
	h := silvermanBandwidth(sample)
	if h <= 0 {
		return nil, false
	}

	n := float64(len(sample))
	norm := 1 / (n * h * math.Sqrt(2*math.Pi))

	curve := make([]Point, len(xs))
	for i, x := range xs {
		var sum float64
		for _, v := range sample {
			z := (x - v) / h
			sum += math.Exp(-0.5 * z * z)
		}
		curve[i] = Point{X: x, Y: norm * sum}
	}
	return curve, true
}

// silvermanBandwidth implements h = 0.9 * min(σ, IQR/1.34) * n^(-1/5),
// falling back to whichever spread measure is positive.
func silvermanBandwidth(sample []float64) float64 {
	sigma := stddev(sample)
	iqr := interquartileRange(sample) / 1.34

	spread := sigma
	if iqr > 0 && (iqr < spread || spread == 0) {
		spread = iqr
	}
	if spread <= 0 {
		return 0
	}
	return 0.9 * spread * math.Pow(float64(len(sample)), -0.2)
}

func stddev(sample []float64) float64 {
	n := float64(len(sample))
	var sum float64
	for _, v := range sample {
		sum += v
	}
	mean := sum / n
	var ss float64
	for _, v := range sample {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / (n - 1))
}

func interquartileRange(sample []float64) float64 {
	sorted := make([]float64, len(sample))
	copy(sorted, sample)
	sort.Float64s(sorted)
	return quantile(sorted, 0.75) - quantile(sorted, 0.25)
}

// quantile interpolates linearly between order statistics (type-7, the common
// default).
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q * float64(len(sorted)-1)
	i := int(math.Floor(pos))
	frac := pos - float64(i)
	if i+1 >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	return sorted[i]*(1-frac) + sorted[i+1]*frac
}

func minMax(sample []float64) (float64, float64) {
	lo, hi := sample[0], sample[0]
	for _, v := range sample[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}
