// Package insight compares the three cleaned datasets by age and BMI bucket.
package insight

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-gota/gota/dataframe"

	"github.com/KaramelBytes/healthsurvey-cli/internal/bucket"
	"github.com/KaramelBytes/healthsurvey-cli/internal/dataset"
	"github.com/KaramelBytes/healthsurvey-cli/internal/stats"
	"github.com/KaramelBytes/healthsurvey-cli/internal/table"
)

// Statistic names.
const (
	DiabetesRisk      = "Diabetes Risk"
	HeartDiseaseRate  = "Heart Disease Rate"
	StressLevel       = "Stress Level"
	SleepDisorderRate = "Sleep Disorder Rate"
)

// Presence is the Heart Disease value counted as a positive case.
const Presence = "Presence"

// NoDisorder is the Sleep Disorder value for people without a disorder.
const NoDisorder = "None"

// Sets holds the three cleaned tables.
type Sets struct {
	Sleep    dataframe.DataFrame
	Diabetes dataframe.DataFrame
	Heart    dataframe.DataFrame
}

// Counts are the record counts of each table.
type Counts struct {
	Sleep    int
	Diabetes int
	Heart    int
}

// AgeStats groups each metric by age bucket.
type AgeStats struct {
	DiabetesRisk     stats.Grouped
	HeartDiseaseRate stats.Grouped
	Stress           stats.Grouped
}

// All returns the statistics in report order.
func (a AgeStats) All() []stats.Grouped {
	return []stats.Grouped{a.DiabetesRisk, a.HeartDiseaseRate, a.Stress}
}

// BMIStats groups each metric by BMI bucket or category.
type BMIStats struct {
	DiabetesRisk      stats.Grouped
	SleepDisorderRate stats.Grouped
	Stress            stats.Grouped
	// OutOfRange counts diabetes rows whose BMI fell outside every bucket.
	OutOfRange int
}

// All returns the statistics in report order.
func (b BMIStats) All() []stats.Grouped {
	return []stats.Grouped{b.DiabetesRisk, b.SleepDisorderRate, b.Stress}
}

// Report is the full cross-dataset result.
type Report struct {
	Counts Counts
	Age    AgeStats
	BMI    BMIStats
}

// Load reads the cleaned files from dir.
func Load(dir string, opt table.ReadOptions) (Sets, error) {
	var sets Sets
	targets := map[dataset.ID]*dataframe.DataFrame{
		dataset.Sleep:    &sets.Sleep,
		dataset.Diabetes: &sets.Diabetes,
		dataset.Heart:    &sets.Heart,
	}
	for _, spec := range dataset.All() {
		df, err := table.ReadFile(filepath.Join(dir, spec.CleanFile), opt)
		if err != nil {
			return Sets{}, fmt.Errorf("load %s: %w", spec.ID, err)
		}
		*targets[spec.ID] = df
	}
	return sets, nil
}

// Compute derives every grouped statistic. It does not modify the inputs.
func Compute(s Sets) (Report, error) {
	checks := []struct {
		id   dataset.ID
		df   dataframe.DataFrame
		cols []string
	}{
		{dataset.Sleep, s.Sleep, []string{dataset.ColAge, dataset.ColBMICategory, dataset.ColSleepDisorder, dataset.ColStressLevel}},
		{dataset.Diabetes, s.Diabetes, []string{dataset.ColAge, dataset.ColBMI, dataset.ColDiabetes}},
		{dataset.Heart, s.Heart, []string{dataset.ColAge, dataset.ColHeartDisease}},
	}
	for _, c := range checks {
		if err := table.RequireColumns(c.df, string(c.id), c.cols...); err != nil {
			return Report{}, err
		}
	}

	r := Report{Counts: Counts{Sleep: s.Sleep.Nrow(), Diabetes: s.Diabetes.Nrow(), Heart: s.Heart.Nrow()}}
	var err error
	if r.Age.DiabetesRisk, r.BMI.DiabetesRisk, r.BMI.OutOfRange, err = diabetesRisk(s.Diabetes); err != nil {
		return Report{}, fmt.Errorf("diabetes dataset: %w", err)
	}
	if r.Age.HeartDiseaseRate, err = heartRate(s.Heart); err != nil {
		return Report{}, fmt.Errorf("heart dataset: %w", err)
	}
	if r.Age.Stress, r.BMI.SleepDisorderRate, r.BMI.Stress, err = sleepStats(s.Sleep); err != nil {
		return Report{}, fmt.Errorf("sleep dataset: %w", err)
	}
	return r, nil
}

func diabetesRisk(df dataframe.DataFrame) (byAge, byBMI stats.Grouped, outOfRange int, err error) {
	ages, agePresent, err := table.Floats(df, dataset.ColAge)
	if err != nil {
		return byAge, byBMI, 0, err
	}
	bmis, bmiPresent, err := table.Floats(df, dataset.ColBMI)
	if err != nil {
		return byAge, byBMI, 0, err
	}
	stages, stagePresent, err := table.Floats(df, dataset.ColDiabetes)
	if err != nil {
		return byAge, byBMI, 0, err
	}

	age := stats.NewAccumulator(bucket.AgeLabels()...)
	bmi := stats.NewAccumulator(bucket.BMILabels()...)
	for i := range stages {
		if !stagePresent[i] {
			continue
		}
		if agePresent[i] {
			age.Add(bucket.Age(ages[i]), stages[i])
		}
		if !bmiPresent[i] {
			continue
		}
		label, ok := bucket.BMI(bmis[i])
		if !ok {
			outOfRange++
			continue
		}
		bmi.Add(label, stages[i])
	}
	return age.Mean(DiabetesRisk), bmi.Mean(DiabetesRisk), outOfRange, nil
}

func heartRate(df dataframe.DataFrame) (stats.Grouped, error) {
	ages, agePresent, err := table.Floats(df, dataset.ColAge)
	if err != nil {
		return stats.Grouped{}, err
	}
	status, statusPresent, err := table.Strings(df, dataset.ColHeartDisease)
	if err != nil {
		return stats.Grouped{}, err
	}
	acc := stats.NewAccumulator(bucket.AgeLabels()...)
	for i := range ages {
		if !agePresent[i] || !statusPresent[i] {
			continue
		}
		acc.AddFlag(bucket.Age(ages[i]), strings.TrimSpace(status[i]) == Presence)
	}
	return acc.Mean(HeartDiseaseRate), nil
}

func sleepStats(df dataframe.DataFrame) (stressByAge, disorderByBMI, stressByBMI stats.Grouped, err error) {
	ages, agePresent, err := table.Floats(df, dataset.ColAge)
	if err != nil {
		return
	}
	stress, stressPresent, err := table.Floats(df, dataset.ColStressLevel)
	if err != nil {
		return
	}
	cats, catPresent, err := table.Strings(df, dataset.ColBMICategory)
	if err != nil {
		return
	}
	disorders, disorderPresent, err := table.Strings(df, dataset.ColSleepDisorder)
	if err != nil {
		return
	}

	byAge := stats.NewAccumulator(bucket.AgeLabels()...)
	byBMI := stats.NewAccumulator(bucket.BMILabels()...)
	rate := stats.NewAccumulator(bucket.BMILabels()...)
	for i := range ages {
		if agePresent[i] && stressPresent[i] {
			byAge.Add(bucket.Age(ages[i]), stress[i])
		}
		if !catPresent[i] {
			continue
		}
		cat := strings.TrimSpace(cats[i])
		if stressPresent[i] {
			byBMI.Add(cat, stress[i])
		}
		if disorderPresent[i] {
			rate.AddFlag(cat, strings.TrimSpace(disorders[i]) != NoDisorder)
		}
	}
	return byAge.Mean(StressLevel), rate.Mean(SleepDisorderRate), byBMI.Mean(StressLevel), nil
}
