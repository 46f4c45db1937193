// Package bucket maps continuous ages and BMI values to named, ordered ranges.
package bucket

import "math"

// Age bucket labels in canonical order.
const (
	Young      = "Young (18-29)"
	MiddleAged = "Middle-aged (30-44)"
	Mature     = "Mature (45-59)"
	Senior     = "Senior (60+)"
)

// BMI bucket labels in canonical order. They match the sleep dataset's
// BMI Category values after cleaning.
const (
	Underweight = "Underweight"
	Normal      = "Normal"
	Overweight  = "Overweight"
	Obese       = "Obese"
)

// AgeLabels returns the age buckets in order.
func AgeLabels() []string {
	return []string{Young, MiddleAged, Mature, Senior}
}

// BMILabels returns the BMI buckets in order.
func BMILabels() []string {
	return []string{Underweight, Normal, Overweight, Obese}
}

// Age returns the bucket for age. Boundaries fall into the higher bucket.
func Age(age float64) string {
	switch {
	case age < 30:
		return Young
	case age < 45:
		return MiddleAged
	case age < 60:
		return Mature
	default:
		return Senior
	}
}

// BMI returns the bucket for bmi using right-closed intervals over (0, 100].
// ok is false when bmi falls outside every interval.
func BMI(bmi float64) (label string, ok bool) {
	switch {
	case math.IsNaN(bmi) || bmi <= 0 || bmi > 100:
		return "", false
	case bmi <= 18.5:
		return Underweight, true
	case bmi <= 25:
		return Normal, true
	case bmi <= 30:
		return Overweight, true
	default:
		return Obese, true
	}
}
