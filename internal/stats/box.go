package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Box summarizes a distribution for a box plot. Whiskers reach the most
// extreme observations within 1.5 IQR of the quartiles.
type Box struct {
	N            int
	Min          float64
	Q1           float64
	Median       float64
	Q3           float64
	Max          float64
	WhiskerLow   float64
	WhiskerHigh  float64
	Outliers     []float64
	OutlierCount int
}

// IQR is the interquartile range.
func (b Box) IQR() float64 { return b.Q3 - b.Q1 }

// BoxOf computes box statistics for vals. ok is false for an empty slice.
func BoxOf(vals []float64) (Box, bool) {
	if len(vals) == 0 {
		return Box{}, false
	}
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)

	b := Box{
		N:      len(sorted),
		Min:    floats.Min(sorted),
		Max:    floats.Max(sorted),
		Q1:     Quantile(sorted, 0.25),
		Median: Quantile(sorted, 0.5),
		Q3:     Quantile(sorted, 0.75),
	}
	lo := b.Q1 - 1.5*b.IQR()
	hi := b.Q3 + 1.5*b.IQR()
	b.WhiskerLow, b.WhiskerHigh = math.Inf(1), math.Inf(-1)
	for _, v := range sorted {
		if v < lo || v > hi {
			b.Outliers = append(b.Outliers, v)
			continue
		}
		b.WhiskerLow = math.Min(b.WhiskerLow, v)
		b.WhiskerHigh = math.Max(b.WhiskerHigh, v)
	}
	b.OutlierCount = len(b.Outliers)
	return b, true
}

// Quantile returns the p-quantile of sorted data, interpolating linearly
// between the closest ranks (h = (n-1)p).
func Quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if n == 1 || p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}
	h := float64(n-1) * p
	lo := math.Floor(h)
	i := int(lo)
	if i+1 >= n {
		return sorted[n-1]
	}
	return sorted[i] + (h-lo)*(sorted[i+1]-sorted[i])
}
