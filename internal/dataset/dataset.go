package dataset

import "fmt"

// ID identifies one of the three survey datasets.
type ID string

const (
	Sleep    ID = "sleep"
	Diabetes ID = "diabetes"
	Heart    ID = "heart"
)

// Column names as they appear in the source files.
const (
	ColAge           = "Age"
	ColBMICategory   = "BMI Category"
	ColSleepDisorder = "Sleep Disorder"
	ColStressLevel   = "Stress Level"

	ColDiabetes     = "Diabetes_012"
	ColBMI          = "BMI"
	ColPhysActivity = "PhysActivity"

	ColHeartDisease = "Heart Disease"
)

// Spec describes where a dataset lives and which columns the pipeline relies on.
type Spec struct {
	ID        ID
	Name      string
	RawFile   string
	CleanFile string
	// Columns must exist in both the raw and the cleaned file.
	Columns []string
}

var specs = []Spec{
	{
		ID:        Sleep,
		Name:      "Sleep Health and Lifestyle",
		RawFile:   "Sleep_health_and_lifestyle_dataset.csv",
		CleanFile: "clean_sleep.csv",
		Columns:   []string{ColAge, ColBMICategory, ColSleepDisorder, ColStressLevel},
	},
	{
		ID:        Diabetes,
		Name:      "Diabetes Health Indicators",
		RawFile:   "diabetes_012_health_indicators_BRFSS2015.csv",
		CleanFile: "clean_diabetes.csv",
		Columns:   []string{ColDiabetes, ColBMI, ColPhysActivity, ColAge},
	},
	{
		ID:        Heart,
		Name:      "Heart Disease Prediction",
		RawFile:   "Heart_Disease_Prediction.csv",
		CleanFile: "clean_heart.csv",
		Columns:   []string{ColAge, ColHeartDisease},
	},
}

// All returns the dataset specs in processing order.
func All() []Spec {
	out := make([]Spec, len(specs))
	copy(out, specs)
	return out
}

// Lookup returns the spec for id.
func Lookup(id ID) (Spec, error) {
	for _, s := range specs {
		if s.ID == id {
			return s, nil
		}
	}
	return Spec{}, fmt.Errorf("unknown dataset %q (use sleep, diabetes or heart)", id)
}

// Parse maps user input to a dataset ID.
func Parse(s string) (ID, error) {
	sp, err := Lookup(ID(s))
	if err != nil {
		return "", err
	}
	return sp.ID, nil
}

// Select resolves user-supplied dataset names into specs in processing
// order. No names selects every dataset.
func Select(names []string) ([]Spec, error) {
	if len(names) == 0 {
		return All(), nil
	}
	want := map[ID]bool{}
	for _, n := range names {
		id, err := Parse(n)
		if err != nil {
			return nil, err
		}
		want[id] = true
	}
	var out []Spec
	for _, s := range specs {
		if want[s.ID] {
			out = append(out, s)
		}
	}
	return out, nil
}
