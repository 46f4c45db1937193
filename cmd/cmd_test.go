package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"

	"github.com/KaramelBytes/healthsurvey-cli/internal/manifest"
)

const (
	rawSleep = `Person ID,Gender,Age,BMI Category,Sleep Disorder,Stress Level
1,Male,27,Overweight,,6
2,Male,28,Normal Weight,Insomnia,8
3,Female,45,Obese,Sleep Apnea,7
4,Female,61,Normal,,4
`
	rawDiabetes = `Diabetes_012,HighBP,BMI,PhysActivity,Age
0.0,1.0,22.0,1.0,5.0
2.0,1.0,31.0,0.0,9.0
0.0,1.0,22.0,1.0,5.0
1.0,0.0,27.0,1.0,7.0
2.0,1.0,35.0,0.0,11.0
`
	rawHeart = `Age,Sex,Heart Disease
52,1,Presence
34,0,Absence
52,1,Presence
67,1,Presence
`
)

// execRoot executes the root command with args and returns its stdout.
func execRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	// Reset sticky flags that persist Changed state across invocations
	reset := func(fs *pflag.FlagSet) {
		fs.VisitAll(func(fl *pflag.Flag) {
			if sv, ok := fl.Value.(pflag.SliceValue); ok {
				_ = sv.Replace(nil)
			} else {
				_ = fl.Value.Set(fl.DefValue)
			}
			fl.Changed = false
		})
	}
	reset(rootCmd.PersistentFlags())
	for _, c := range rootCmd.Commands() {
		reset(c.Flags())
	}
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execRoot(t, args...)
	if err != nil {
		t.Fatalf("command %v failed: %v\n%s", args, err, out)
	}
	return out
}

// workspace isolates HOME and writes the raw fixtures.
func workspace(t *testing.T) (raw, clean, charts string) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	raw = filepath.Join(home, "raw")
	clean = filepath.Join(home, "clean")
	charts = filepath.Join(home, "charts")
	if err := os.MkdirAll(raw, 0o755); err != nil {
		t.Fatalf("mkdir raw: %v", err)
	}
	files := map[string]string{
		"Sleep_health_and_lifestyle_dataset.csv":       rawSleep,
		"diabetes_012_health_indicators_BRFSS2015.csv": rawDiabetes,
		"Heart_Disease_Prediction.csv":                 rawHeart,
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(raw, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return raw, clean, charts
}

func TestCLI_CleanWritesFilesAndManifest(t *testing.T) {
	raw, clean, _ := workspace(t)
	out := mustRun(t, "clean", "--raw-dir", raw, "--clean-dir", clean)

	for _, want := range []string{"1. Sleep Dataset", "2. Diabetes Dataset", "3. Heart Dataset", "✓ Data cleaning complete"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
	b, err := os.ReadFile(filepath.Join(clean, "clean_sleep.csv"))
	if err != nil {
		t.Fatalf("read clean sleep: %v", err)
	}
	s := string(b)
	if strings.Contains(s, "Normal Weight") {
		t.Fatalf("Normal Weight survived cleaning:\n%s", s)
	}
	if !strings.Contains(s, "1,Male,27,Overweight,None,6") {
		t.Fatalf("missing sleep disorder not filled:\n%s", s)
	}
	b, err = os.ReadFile(filepath.Join(clean, "clean_diabetes.csv"))
	if err != nil {
		t.Fatalf("read clean diabetes: %v", err)
	}
	if n := strings.Count(strings.TrimSpace(string(b)), "\n"); n != 4 {
		t.Fatalf("expected 4 diabetes records after dedupe, got %d:\n%s", n, b)
	}
	if _, err := os.Stat(filepath.Join(clean, "clean.manifest.json")); err != nil {
		t.Fatalf("manifest not written: %v", err)
	}
}

func TestCLI_RunProducesChartsAndWorkbooks(t *testing.T) {
	raw, clean, charts := workspace(t)
	books := filepath.Join(charts, "books")
	out := mustRun(t, "run", "--raw-dir", raw, "--clean-dir", clean, "--charts-dir", charts, "--xlsx-dir", books)

	for _, want := range []string{"INSIGHT 1", "INSIGHT 2", "Dataset Overview", "✓ Pipeline complete"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
	for _, p := range []string{
		filepath.Join(charts, "age_health_risks.png"),
		filepath.Join(charts, "bmi_health_connection.png"),
		filepath.Join(charts, "diabetes_health_insights.png"),
		filepath.Join(charts, "insights.manifest.json"),
		filepath.Join(charts, "diabetes.manifest.json"),
		filepath.Join(books, "insights.xlsx"),
		filepath.Join(books, "diabetes.xlsx"),
	} {
		if fi, err := os.Stat(p); err != nil || fi.Size() == 0 {
			t.Fatalf("expected non-empty %s: %v", p, err)
		}
	}

	cleanRun, err := manifest.Load(clean, "clean")
	if err != nil {
		t.Fatalf("load clean manifest: %v", err)
	}
	for _, name := range []string{"insights", "diabetes"} {
		m, err := manifest.Load(charts, name)
		if err != nil {
			t.Fatalf("load %s manifest: %v", name, err)
		}
		if m.Upstream != cleanRun.ID {
			t.Fatalf("%s manifest upstream = %q, want clean run %q", name, m.Upstream, cleanRun.ID)
		}
	}
}

func TestCLI_InsightsWithoutCleanFails(t *testing.T) {
	_, clean, charts := workspace(t)
	if _, err := execRoot(t, "insights", "--clean-dir", clean, "--charts-dir", charts); err == nil {
		t.Fatalf("expected error when cleaned files are absent")
	}
}

func TestCLI_DiabetesStrictStages(t *testing.T) {
	_, clean, charts := workspace(t)
	if err := os.MkdirAll(clean, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	body := "Diabetes_012,BMI,PhysActivity,Age\n0,22,1,5\n3,30,0,9\n"
	if err := os.WriteFile(filepath.Join(clean, "clean_diabetes.csv"), []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := execRoot(t, "diabetes", "--clean-dir", clean, "--charts-dir", charts); err == nil {
		t.Fatalf("expected stage error in strict mode")
	}
	out := mustRun(t, "diabetes", "--clean-dir", clean, "--charts-dir", charts, "--lenient-stages")
	if !strings.Contains(out, "Other") {
		t.Fatalf("expected extra stage group in lenient mode:\n%s", out)
	}
}

func TestCLI_AnalyzeWritesMarkdown(t *testing.T) {
	raw, _, _ := workspace(t)
	dest := filepath.Join(t.TempDir(), "profile.md")
	mustRun(t, "analyze", filepath.Join(raw, "Heart_Disease_Prediction.csv"), "--group-by", "Heart Disease", "-o", dest)
	b, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	md := string(b)
	for _, want := range []string{"[DATASET SUMMARY]", "[SCHEMA]", "[DATA QUALITY]", "[GROUP-BY SUMMARY]"} {
		if !strings.Contains(md, want) {
			t.Fatalf("analysis missing %s:\n%s", want, md)
		}
	}
}

func TestCLI_ConfigSetAndShow(t *testing.T) {
	workspace(t)
	mustRun(t, "config", "set", "chart_width", "720")
	out := mustRun(t, "config", "show")
	if !strings.Contains(out, "chart_width: 720") {
		t.Fatalf("config show did not reflect saved value:\n%s", out)
	}
	if _, err := execRoot(t, "config", "set", "unknown_key", "x"); err == nil {
		t.Fatalf("expected error for unknown key")
	}
}

func TestCLI_CleanSelectedDataset(t *testing.T) {
	raw, clean, _ := workspace(t)
	out := mustRun(t, "clean", "--raw-dir", raw, "--clean-dir", clean, "--dataset", "heart")
	if !strings.Contains(out, "1. Heart Dataset") {
		t.Fatalf("expected only the heart dataset:\n%s", out)
	}
	if _, err := os.Stat(filepath.Join(clean, "clean_heart.csv")); err != nil {
		t.Fatalf("heart not cleaned: %v", err)
	}
	for _, name := range []string{"clean_sleep.csv", "clean_diabetes.csv"} {
		if _, err := os.Stat(filepath.Join(clean, name)); !os.IsNotExist(err) {
			t.Fatalf("%s should not be written, stat err = %v", name, err)
		}
	}

	if _, err := execRoot(t, "clean", "--raw-dir", raw, "--clean-dir", clean, "--dataset", "lungs"); err == nil {
		t.Fatalf("expected error for unknown dataset")
	}
	// The slice flag must not leak into the next invocation.
	mustRun(t, "clean", "--raw-dir", raw, "--clean-dir", clean)
	if _, err := os.Stat(filepath.Join(clean, "clean_sleep.csv")); err != nil {
		t.Fatalf("full clean after filtered clean: %v", err)
	}
}

func TestCLI_HeaderOnlyDiabetesReportsNoData(t *testing.T) {
	_, clean, charts := workspace(t)
	if err := os.MkdirAll(clean, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(clean, "clean_diabetes.csv"), []byte("Diabetes_012,BMI,PhysActivity,Age\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	out := mustRun(t, "diabetes", "--clean-dir", clean, "--charts-dir", charts)
	if !strings.Contains(out, "Average BMI: no data") {
		t.Fatalf("expected no-data overview:\n%s", out)
	}
	if _, err := os.Stat(filepath.Join(charts, "diabetes_health_insights.png")); err != nil {
		t.Fatalf("chart not written: %v", err)
	}
}
