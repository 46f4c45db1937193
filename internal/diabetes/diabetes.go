// Package diabetes summarizes the cleaned diabetes indicators by stage.
package diabetes

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/go-gota/gota/dataframe"

	"github.com/KaramelBytes/healthsurvey-cli/internal/dataset"
	"github.com/KaramelBytes/healthsurvey-cli/internal/stats"
	"github.com/KaramelBytes/healthsurvey-cli/internal/table"
)

// Statistic names.
const (
	MeanBMI          = "Mean BMI"
	MeanPhysActivity = "Mean PhysActivity"
	MeanAge          = "Mean Age"
)

var stageNames = map[int]string{
	0: "No diabetes",
	1: "Prediabetes",
	2: "Diabetes",
}

// Stages returns the known stage values in order.
func Stages() []int { return []int{0, 1, 2} }

// StageName describes a stage value.
func StageName(stage int) string {
	if n, ok := stageNames[stage]; ok {
		return n
	}
	return "Other"
}

// StageLabel is the group label used for a stage.
func StageLabel(stage int) string { return strconv.Itoa(stage) }

// StageError reports a Diabetes_012 value that is not an accepted stage.
type StageError struct {
	Row    int
	Value  float64
	Reason string
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s row %d: %v %s", dataset.ColDiabetes, e.Row, e.Value, e.Reason)
}

// Options controls stage validation.
type Options struct {
	// StrictStages rejects stage values outside 0, 1 and 2. When false they
	// become extra groups in ascending order.
	StrictStages bool
}

// DefaultOptions validates stages strictly.
func DefaultOptions() Options { return Options{StrictStages: true} }

// Stage is one diabetes stage group.
type Stage struct {
	Value  int
	Label  string
	Name   string
	Count  int
	BMI    stats.Box
	HasBMI bool
}

// Overview holds dataset-wide figures.
type Overview struct {
	Total int
	// Prevalence is the share of staged records with a stage above zero.
	Prevalence float64
	MeanBMI    float64
	MeanAge    float64
	// HasBMI and HasAge are false when no record carries the value.
	HasBMI bool
	HasAge bool
	// Unstaged counts records with a missing stage.
	Unstaged int
}

// Report is the full diabetes result.
type Report struct {
	Stages       []Stage
	BMI          stats.Grouped
	PhysActivity stats.Grouped
	Age          stats.Grouped
	Overview     Overview
}

// Load reads the cleaned diabetes file.
func Load(path string, opt table.ReadOptions) (dataframe.DataFrame, error) {
	df, err := table.ReadFile(path, opt)
	if err != nil {
		return df, fmt.Errorf("load diabetes: %w", err)
	}
	return df, nil
}

// Analyze groups the table by stage.
func Analyze(df dataframe.DataFrame, opt Options) (Report, error) {
	if err := table.RequireColumns(df, string(dataset.Diabetes),
		dataset.ColDiabetes, dataset.ColBMI, dataset.ColPhysActivity, dataset.ColAge); err != nil {
		return Report{}, err
	}
	stages, staged, err := readStages(df, opt)
	if err != nil {
		return Report{}, err
	}
	bmi, bmiOK, err := table.Floats(df, dataset.ColBMI)
	if err != nil {
		return Report{}, err
	}
	act, actOK, err := table.Floats(df, dataset.ColPhysActivity)
	if err != nil {
		return Report{}, err
	}
	age, ageOK, err := table.Floats(df, dataset.ColAge)
	if err != nil {
		return Report{}, err
	}

	order := stageOrder(stages, staged)
	labels := make([]string, len(order))
	for i, s := range order {
		labels[i] = StageLabel(s)
	}
	bmiAcc := stats.NewAccumulator(labels...)
	actAcc := stats.NewAccumulator(labels...)
	ageAcc := stats.NewAccumulator(labels...)
	counts := make(map[int]int, len(order))

	ov := Overview{Total: df.Nrow()}
	var allBMI, allAge []float64
	positive, withStage := 0, 0
	for i := range stages {
		if bmiOK[i] {
			allBMI = append(allBMI, bmi[i])
		}
		if ageOK[i] {
			allAge = append(allAge, age[i])
		}
		if !staged[i] {
			ov.Unstaged++
			continue
		}
		withStage++
		if stages[i] > 0 {
			positive++
		}
		l := StageLabel(stages[i])
		counts[stages[i]]++
		if bmiOK[i] {
			bmiAcc.Add(l, bmi[i])
		}
		if actOK[i] {
			actAcc.Add(l, act[i])
		}
		if ageOK[i] {
			ageAcc.Add(l, age[i])
		}
	}
	if withStage > 0 {
		ov.Prevalence = float64(positive) / float64(withStage)
	}
	ov.MeanBMI, ov.HasBMI = stats.Mean(allBMI)
	ov.MeanAge, ov.HasAge = stats.Mean(allAge)

	r := Report{
		BMI:          bmiAcc.Mean(MeanBMI),
		PhysActivity: actAcc.Mean(MeanPhysActivity),
		Age:          ageAcc.Mean(MeanAge),
		Overview:     ov,
	}
	for i, s := range order {
		st := Stage{Value: s, Label: labels[i], Name: StageName(s), Count: counts[s]}
		st.BMI, st.HasBMI = stats.BoxOf(bmiAcc.Values(labels[i]))
		r.Stages = append(r.Stages, st)
	}
	return r, nil
}

func readStages(df dataframe.DataFrame, opt Options) ([]int, []bool, error) {
	vals, present, err := table.Floats(df, dataset.ColDiabetes)
	if err != nil {
		return nil, nil, err
	}
	stages := make([]int, len(vals))
	for i, v := range vals {
		if !present[i] {
			continue
		}
		if v != math.Trunc(v) {
			return nil, nil, &StageError{Row: i + 1, Value: v, Reason: "is not a whole stage"}
		}
		s := int(v)
		if _, known := stageNames[s]; !known && opt.StrictStages {
			return nil, nil, &StageError{Row: i + 1, Value: v, Reason: "is outside stages 0, 1 and 2"}
		}
		stages[i] = s
	}
	return stages, present, nil
}

// stageOrder is the union of known and observed stages, ascending.
func stageOrder(stages []int, present []bool) []int {
	set := map[int]bool{}
	for _, s := range Stages() {
		set[s] = true
	}
	for i, s := range stages {
		if present[i] {
			set[s] = true
		}
	}
	out := make([]int, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Ints(out)
	return out
}
