package table

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadMarksConfiguredMarkersMissing(t *testing.T) {
	src := "Age,Sleep Disorder,Note\n25,,None\n40,Insomnia,NA\n"
	df, err := Read(strings.NewReader(src), ReadOptions{})
	require.NoError(t, err)
	require.Equal(t, 2, df.Nrow())

	sd := df.Col("Sleep Disorder")
	assert.True(t, sd.Elem(0).IsNA())
	assert.Equal(t, "Insomnia", sd.Elem(1).String())

	note := df.Col("Note")
	assert.False(t, note.Elem(0).IsNA(), "None is a value, not a missing marker")
	assert.True(t, note.Elem(1).IsNA())
	assert.Equal(t, 2, MissingCount(df))
}

func TestReadCustomNAValues(t *testing.T) {
	src := "a,b\n?,1\n,2\n"
	df, err := Read(strings.NewReader(src), ReadOptions{NAValues: []string{"?"}})
	require.NoError(t, err)
	assert.True(t, df.Col("a").Elem(0).IsNA())
	assert.False(t, df.Col("a").Elem(1).IsNA())
}

func TestReadFileErrors(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "absent.csv"), ReadOptions{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	bad := filepath.Join(t.TempDir(), "bad.csv")
	require.NoError(t, os.WriteFile(bad, []byte("a,b\n1,2,3\n"), 0o644))
	_, err = ReadFile(bad, ReadOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.csv")
}

func TestEncodeWritesMissingAsEmpty(t *testing.T) {
	src := "Age,Sleep Disorder\n25,\n40,Sleep Apnea\n"
	df, err := Read(strings.NewReader(src), ReadOptions{})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, df))
	assert.Equal(t, src, buf.String())
}

func TestWriteFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := "x,y\n1,a\n2,\"b, c\"\n"
	df, err := Read(strings.NewReader(src), ReadOptions{})
	require.NoError(t, err)

	out := filepath.Join(dir, "cleaned", "out.csv")
	require.NoError(t, WriteFile(out, df))
	b, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, src, string(b))
}

func TestRequireColumns(t *testing.T) {
	df, err := Read(strings.NewReader("Age,BMI\n1,2\n"), ReadOptions{})
	require.NoError(t, err)
	require.NoError(t, RequireColumns(df, "diabetes", "Age", "BMI"))

	err = RequireColumns(df, "diabetes", "Age", "Diabetes_012")
	var mc *MissingColumnError
	require.ErrorAs(t, err, &mc)
	assert.Equal(t, "Diabetes_012", mc.Column)
	assert.Equal(t, "diabetes", mc.Table)
}

func TestDuplicateMaskKeepsFirst(t *testing.T) {
	src := "BMI,Diabetes_012\n22,0\n30,1\n22,0\n,1\n,1\n22,0.0\n"
	df, err := Read(strings.NewReader(src), ReadOptions{})
	require.NoError(t, err)
	assert.Equal(t, []bool{false, false, true, false, true, false}, DuplicateMask(df))
	assert.Equal(t, 2, DuplicateCount(df))
}

func TestRowKeyDistinguishesMissingFromEmptyLikeText(t *testing.T) {
	df, err := Read(strings.NewReader("a,b\nNA,x\nnone,x\n"), ReadOptions{})
	require.NoError(t, err)
	cols := Columns(df)
	assert.NotEqual(t, RowKey(cols, 0), RowKey(cols, 1))
}

func TestFloat(t *testing.T) {
	df, err := Read(strings.NewReader("k,v\na, 2.5\nb,\nc,abc\nd,3\n"), ReadOptions{})
	require.NoError(t, err)
	s := df.Col("v")

	v, ok, err := Float(s, 0)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.InDelta(t, 2.5, v, 1e-9)

	_, ok, err = Float(s, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = Float(s, 2)
	var ve *ValueError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "v", ve.Column)
	assert.Equal(t, 3, ve.Row)
	assert.Equal(t, "abc", ve.Value)
}

func TestFloatsAndStrings(t *testing.T) {
	df, err := Read(strings.NewReader("n,s\n1,a\n,\n3,c\n"), ReadOptions{})
	require.NoError(t, err)

	vals, present, err := Floats(df, "n")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 0, 3}, vals)
	assert.Equal(t, []bool{true, false, true}, present)

	strs, sp, err := Strings(df, "s")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "", "c"}, strs)
	assert.Equal(t, []bool{true, false, true}, sp)

	_, _, err = Floats(df, "missing")
	var mc *MissingColumnError
	assert.ErrorAs(t, err, &mc)
}

func TestReadHeaderOnly(t *testing.T) {
	df, err := Read(strings.NewReader("Diabetes_012,BMI\n"), ReadOptions{})
	require.NoError(t, err)
	assert.Equal(t, 0, df.Nrow())
	assert.Equal(t, []string{"Diabetes_012", "BMI"}, df.Names())

	vals, present, err := Floats(df, "BMI")
	require.NoError(t, err)
	assert.Empty(t, vals)
	assert.Empty(t, present)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, df))
	assert.Equal(t, "Diabetes_012,BMI\n", buf.String())

	tsv, err := Read(strings.NewReader("a\tb\n"), ReadOptions{Delimiter: '\t'})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, tsv.Names())
}

func TestReadEmptyInputFails(t *testing.T) {
	_, err := Read(strings.NewReader(""), ReadOptions{})
	assert.Error(t, err)
}

func TestReadNaNAlwaysMissing(t *testing.T) {
	df, err := Read(strings.NewReader("a,b\nNaN,1\nNA,2\n"), ReadOptions{NAValues: []string{""}})
	require.NoError(t, err)
	assert.True(t, df.Col("a").Elem(0).IsNA())
	assert.False(t, df.Col("a").Elem(1).IsNA())
}
