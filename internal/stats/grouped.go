// Package stats computes grouped means and rates over labelled observations.
package stats

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Bucket is one group of a grouped statistic. Value is meaningful only when
// Valid; a bucket with no observations is reported as no data.
type Bucket struct {
	Label string
	Count int
	Value float64
	Valid bool
}

// Grouped is an ordered grouped statistic.
type Grouped struct {
	Name    string
	Buckets []Bucket
}

// Labels returns the bucket labels in order.
func (g Grouped) Labels() []string {
	out := make([]string, len(g.Buckets))
	for i, b := range g.Buckets {
		out[i] = b.Label
	}
	return out
}

// Lookup returns the bucket with the given label.
func (g Grouped) Lookup(label string) (Bucket, bool) {
	for _, b := range g.Buckets {
		if b.Label == label {
			return b, true
		}
	}
	return Bucket{}, false
}

// Value returns the value for label and whether it carries data.
func (g Grouped) Value(label string) (float64, bool) {
	b, ok := g.Lookup(label)
	if !ok || !b.Valid {
		return 0, false
	}
	return b.Value, true
}

// Max is the largest valid value.
func (g Grouped) Max() (float64, bool) {
	vals := g.validValues()
	if len(vals) == 0 {
		return 0, false
	}
	return floats.Max(vals), true
}

// Normalize divides each valid value by the maximum. When there is no data
// or the maximum is zero every bucket is marked invalid.
func (g Grouped) Normalize() Grouped {
	out := Grouped{Name: g.Name, Buckets: make([]Bucket, len(g.Buckets))}
	copy(out.Buckets, g.Buckets)
	max, ok := g.Max()
	for i := range out.Buckets {
		b := &out.Buckets[i]
		if !ok || max == 0 || !b.Valid {
			b.Value, b.Valid = 0, false
			continue
		}
		b.Value /= max
	}
	return out
}

func (g Grouped) validValues() []float64 {
	var vals []float64
	for _, b := range g.Buckets {
		if b.Valid {
			vals = append(vals, b.Value)
		}
	}
	return vals
}

// Accumulator collects observations per label. Labels in the canonical order
// always appear; other labels follow in first-seen order.
type Accumulator struct {
	order  []string
	values map[string][]float64
}

// NewAccumulator returns an Accumulator seeded with the canonical labels.
func NewAccumulator(order ...string) *Accumulator {
	a := &Accumulator{values: make(map[string][]float64, len(order))}
	for _, l := range order {
		a.addLabel(l)
	}
	return a
}

func (a *Accumulator) addLabel(l string) {
	if _, ok := a.values[l]; ok {
		return
	}
	a.order = append(a.order, l)
	a.values[l] = nil
}

// Add records one observation.
func (a *Accumulator) Add(label string, v float64) {
	a.addLabel(label)
	a.values[label] = append(a.values[label], v)
}

// AddFlag records a 0/1 observation for rate statistics.
func (a *Accumulator) AddFlag(label string, hit bool) {
	v := 0.0
	if hit {
		v = 1
	}
	a.Add(label, v)
}

// Labels returns all labels in report order.
func (a *Accumulator) Labels() []string {
	out := make([]string, len(a.order))
	copy(out, a.order)
	return out
}

// Values returns the observations recorded for label.
func (a *Accumulator) Values(label string) []float64 {
	return a.values[label]
}

// Mean reduces each label to the mean of its observations. For flags this
// is the rate of hits.
func (a *Accumulator) Mean(name string) Grouped {
	g := Grouped{Name: name, Buckets: make([]Bucket, 0, len(a.order))}
	for _, l := range a.order {
		vals := a.values[l]
		b := Bucket{Label: l, Count: len(vals)}
		if len(vals) > 0 {
			b.Value = stat.Mean(vals, nil)
			b.Valid = true
		}
		g.Buckets = append(g.Buckets, b)
	}
	return g
}

// Mean is the arithmetic mean of vals; ok is false for an empty slice.
func Mean(vals []float64) (float64, bool) {
	if len(vals) == 0 {
		return 0, false
	}
	return stat.Mean(vals, nil), true
}
