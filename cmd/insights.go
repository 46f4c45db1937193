package cmd

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/KaramelBytes/healthsurvey-cli/internal/charts"
	"github.com/KaramelBytes/healthsurvey-cli/internal/dataset"
	"github.com/KaramelBytes/healthsurvey-cli/internal/export"
	"github.com/KaramelBytes/healthsurvey-cli/internal/insight"
	"github.com/KaramelBytes/healthsurvey-cli/internal/manifest"
	"github.com/KaramelBytes/healthsurvey-cli/internal/report"
	"github.com/spf13/cobra"
)

var insXLSX string

var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Relate age and BMI to diabetes, heart disease, stress and sleep disorders",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInsights(cmd.OutOrStdout(), insXLSX)
	},
}

func init() {
	rootCmd.AddCommand(insightsCmd)
	insightsCmd.Flags().StringVar(&insXLSX, "xlsx", "", "also write every grouped statistic to this workbook")
}

func runInsights(out io.Writer, xlsxPath string) error {
	sets, err := insight.Load(cfg.CleanDir, cfg.ReadOptions())
	if err != nil {
		return err
	}
	r, err := insight.Compute(sets)
	if err != nil {
		return err
	}
	report.New(out).Insights(r)

	m := manifest.New("insights", cfg.ChartsDir)
	linkCleanRun(m)
	m.AddInput(filepath.Join(cfg.CleanDir, mustSpec(dataset.Sleep).CleanFile), manifest.KindCleanCSV, r.Counts.Sleep)
	m.AddInput(filepath.Join(cfg.CleanDir, mustSpec(dataset.Diabetes).CleanFile), manifest.KindCleanCSV, r.Counts.Diabetes)
	m.AddInput(filepath.Join(cfg.CleanDir, mustSpec(dataset.Heart).CleanFile), manifest.KindCleanCSV, r.Counts.Heart)

	figures := []struct {
		file string
		fig  charts.Figure
	}{
		{insight.AgeChartFile, insight.AgeFigure(r, cfg.ChartWidth, cfg.ChartHeight)},
		{insight.BMIChartFile, insight.BMIFigure(r, cfg.ChartWidth, cfg.ChartHeight)},
	}
	for _, f := range figures {
		path := filepath.Join(cfg.ChartsDir, f.file)
		if err := f.fig.Save(path); err != nil {
			return err
		}
		m.AddOutput(path, manifest.KindChart, 0)
		fmt.Fprintf(out, "✓ Saved chart %s\n", path)
	}

	if xlsxPath != "" {
		if err := export.WriteWorkbook(xlsxPath, export.InsightSheets(r)); err != nil {
			return err
		}
		m.AddOutput(xlsxPath, manifest.KindWorkbook, 0)
		fmt.Fprintf(out, "✓ Wrote workbook %s\n", xlsxPath)
	}

	if cfg.WriteManifest {
		if err := m.Save(); err != nil {
			return err
		}
		logger.Debug("manifest written", "path", m.Path(), "run", m.ID)
	}
	return nil
}

func mustSpec(id dataset.ID) dataset.Spec {
	s, err := dataset.Lookup(id)
	if err != nil {
		panic(err)
	}
	return s
}
