package clean

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/healthsurvey-cli/internal/dataset"
	"github.com/KaramelBytes/healthsurvey-cli/internal/table"
)

const rawSleep = `Person ID,Gender,Age,BMI Category,Sleep Disorder,Stress Level
1,Male,25,Normal Weight,,6
2,Female,31,Overweight,Insomnia,8
3,Male,47,Normal,,4
4,Female,60,Obese,Sleep Apnea,7
`

const rawDiabetes = `Diabetes_012,BMI,PhysActivity,Age
0.0,22.0,1.0,9.0
0.0,22.0,1.0,9.0
2.0,31.0,0.0,11.0
0.0,22.0,1.0,9.0
1.0,27.0,1.0,7.0
2.0,31.0,0.0,11.0
`

const rawHeart = `Age,Sex,Heart Disease
70,1,Presence
67,0,Absence
57,1,Presence
`

func mustRead(t *testing.T, src string) dataframe.DataFrame {
	t.Helper()
	df, err := table.Read(strings.NewReader(src), table.ReadOptions{})
	require.NoError(t, err)
	return df
}

func column(t *testing.T, df dataframe.DataFrame, name string) []string {
	t.Helper()
	vals, present, err := table.Strings(df, name)
	require.NoError(t, err)
	for i, ok := range present {
		if !ok {
			vals[i] = "<NA>"
		}
	}
	return vals
}

func spec(t *testing.T, id dataset.ID) dataset.Spec {
	t.Helper()
	s, err := dataset.Lookup(id)
	require.NoError(t, err)
	return s
}

func TestSleepRowFixUp(t *testing.T) {
	df := mustRead(t, "Age,BMI Category,Sleep Disorder,Stress Level\n25,Normal Weight,,5\n")
	out, res, err := New(Options{}, nil).CleanFrame(spec(t, dataset.Sleep), df)
	require.NoError(t, err)

	assert.Equal(t, []string{"25"}, column(t, out, "Age"))
	assert.Equal(t, []string{"Normal"}, column(t, out, "BMI Category"))
	assert.Equal(t, []string{"None"}, column(t, out, "Sleep Disorder"))
	require.Len(t, res.Rules, 2)
	assert.Equal(t, 1, res.Rules[0].Affected)
	assert.Equal(t, 1, res.Rules[1].Affected)
}

func TestSleepInvariants(t *testing.T) {
	df := mustRead(t, rawSleep)
	out, res, err := New(Options{}, nil).CleanFrame(spec(t, dataset.Sleep), df)
	require.NoError(t, err)

	assert.Equal(t, df.Nrow(), out.Nrow())
	assert.Equal(t, df.Ncol(), out.Ncol())
	assert.Equal(t, 0, table.ColumnMissing(out.Col("Sleep Disorder")))
	assert.NotContains(t, column(t, out, "BMI Category"), "Normal Weight")
	assert.Equal(t, []string{"None", "Insomnia", "None", "Sleep Apnea"}, column(t, out, "Sleep Disorder"))

	assert.Equal(t, 2, res.Before.Missing)
	assert.Equal(t, 0, res.After.Missing)

	// input untouched
	assert.Equal(t, 2, table.ColumnMissing(df.Col("Sleep Disorder")))
}

func TestDuplicateDiabetesRowsCollapse(t *testing.T) {
	df := mustRead(t, "BMI,Diabetes_012\n22,0\n22,0\n")
	out, _, err := Apply(df, Rules(dataset.Diabetes))
	require.NoError(t, err)
	assert.Equal(t, 1, out.Nrow())
}

func TestDropDuplicatesKeepsFirstOccurrenceOrder(t *testing.T) {
	df := mustRead(t, rawDiabetes)
	out, results, err := Apply(df, Rules(dataset.Diabetes))
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, 3, results[0].Affected)
	assert.Equal(t, []string{"0.0", "2.0", "1.0"}, column(t, out, "Diabetes_012"))
	assert.Equal(t, []string{"22.0", "31.0", "27.0"}, column(t, out, "BMI"))
	assert.Equal(t, 0, table.DuplicateCount(out))
}

func TestHeartRuleRunsOnCleanInput(t *testing.T) {
	df := mustRead(t, rawHeart)
	out, results, err := Apply(df, Rules(dataset.Heart))
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "drop-duplicates", results[0].Rule)
	assert.Equal(t, 0, results[0].Affected)
	assert.Equal(t, 3, out.Nrow())
}

func TestCleaningIsIdempotent(t *testing.T) {
	cases := map[dataset.ID]string{
		dataset.Sleep:    rawSleep,
		dataset.Diabetes: rawDiabetes,
		dataset.Heart:    rawHeart,
	}
	for id, src := range cases {
		t.Run(string(id), func(t *testing.T) {
			dir := t.TempDir()
			c := New(Options{}, nil)
			raw := filepath.Join(dir, "raw.csv")
			once := filepath.Join(dir, "once.csv")
			twice := filepath.Join(dir, "twice.csv")
			require.NoError(t, os.WriteFile(raw, []byte(src), 0o644))

			_, err := c.CleanFile(spec(t, id), raw, once)
			require.NoError(t, err)
			res, err := c.CleanFile(spec(t, id), once, twice)
			require.NoError(t, err)

			a, _ := os.ReadFile(once)
			b, _ := os.ReadFile(twice)
			assert.Equal(t, string(a), string(b))
			for _, r := range res.Rules {
				assert.Zero(t, r.Affected, r.Rule)
			}
		})
	}
}

func TestRulesRequireColumns(t *testing.T) {
	df := mustRead(t, "Age,BMI Category\n25,Normal\n")
	_, _, err := Apply(df, Rules(dataset.Sleep))
	var mc *table.MissingColumnError
	require.ErrorAs(t, err, &mc)
	assert.Equal(t, "Sleep Disorder", mc.Column)
}

func TestCleanFileMissingColumnWritesNothing(t *testing.T) {
	dir := t.TempDir()
	raw := filepath.Join(dir, "heart.csv")
	out := filepath.Join(dir, "clean_heart.csv")
	require.NoError(t, os.WriteFile(raw, []byte("Age,Sex\n70,1\n"), 0o644))

	_, err := New(Options{}, nil).CleanFile(spec(t, dataset.Heart), raw, out)
	var mc *table.MissingColumnError
	require.ErrorAs(t, err, &mc)
	assert.Equal(t, "Heart Disease", mc.Column)
	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr))
}

func TestCleanAllKeepsCompletedOutputs(t *testing.T) {
	rawDir := filepath.Join(t.TempDir(), "raw_data")
	cleanDir := filepath.Join(t.TempDir(), "cleaned_data")
	require.NoError(t, os.MkdirAll(rawDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(rawDir, spec(t, dataset.Sleep).RawFile), []byte(rawSleep), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(rawDir, spec(t, dataset.Diabetes).RawFile), []byte(rawDiabetes), 0o644))

	results, err := New(Options{}, nil).CleanAll(rawDir, cleanDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "heart dataset")
	assert.ErrorIs(t, err, os.ErrNotExist)
	require.Len(t, results, 2)

	for _, name := range []string{"clean_sleep.csv", "clean_diabetes.csv"} {
		_, statErr := os.Stat(filepath.Join(cleanDir, name))
		assert.NoError(t, statErr, name)
	}
	_, statErr := os.Stat(filepath.Join(cleanDir, "clean_heart.csv"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestCleanAllWritesCleanedFiles(t *testing.T) {
	rawDir := t.TempDir()
	cleanDir := filepath.Join(t.TempDir(), "cleaned_data")
	for id, src := range map[dataset.ID]string{dataset.Sleep: rawSleep, dataset.Diabetes: rawDiabetes, dataset.Heart: rawHeart} {
		require.NoError(t, os.WriteFile(filepath.Join(rawDir, spec(t, id).RawFile), []byte(src), 0o644))
	}
	results, err := New(Options{}, nil).CleanAll(rawDir, cleanDir)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, dataset.Sleep, results[0].Dataset.ID)
	assert.Equal(t, 6, results[1].Before.Rows)
	assert.Equal(t, 3, results[1].Before.Duplicates)
	assert.Equal(t, 3, results[1].After.Rows)

	b, err := os.ReadFile(filepath.Join(cleanDir, "clean_sleep.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(b), "1,Male,25,Normal,None,6\n")
}

func TestCleanFileHeaderOnly(t *testing.T) {
	dir := t.TempDir()
	raw := filepath.Join(dir, "diabetes.csv")
	out := filepath.Join(dir, "clean_diabetes.csv")
	header := "Diabetes_012,BMI,PhysActivity,Age\n"
	require.NoError(t, os.WriteFile(raw, []byte(header), 0o644))

	res, err := New(Options{}, nil).CleanFile(spec(t, dataset.Diabetes), raw, out)
	require.NoError(t, err)
	assert.Equal(t, Stats{Rows: 0, Cols: 4}, res.Before)
	assert.Equal(t, res.Before, res.After)

	b, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, header, string(b))

	sleepIn := filepath.Join(dir, "sleep.csv")
	require.NoError(t, os.WriteFile(sleepIn, []byte("Age,BMI Category,Sleep Disorder,Stress Level\n"), 0o644))
	_, err = New(Options{}, nil).CleanFile(spec(t, dataset.Sleep), sleepIn, filepath.Join(dir, "clean_sleep.csv"))
	require.NoError(t, err)
}
