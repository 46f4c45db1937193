package cmd

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/KaramelBytes/healthsurvey-cli/internal/dataset"
	"github.com/KaramelBytes/healthsurvey-cli/internal/diabetes"
	"github.com/KaramelBytes/healthsurvey-cli/internal/export"
	"github.com/KaramelBytes/healthsurvey-cli/internal/manifest"
	"github.com/KaramelBytes/healthsurvey-cli/internal/report"
	"github.com/spf13/cobra"
)

var (
	diaXLSX    string
	diaLenient bool
)

var diabetesCmd = &cobra.Command{
	Use:   "diabetes",
	Short: "Summarize BMI, activity and age by diabetes stage",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("lenient-stages") {
			cfg.StrictStages = !diaLenient
		}
		return runDiabetes(cmd.OutOrStdout(), diaXLSX)
	},
}

func init() {
	rootCmd.AddCommand(diabetesCmd)
	diabetesCmd.Flags().StringVar(&diaXLSX, "xlsx", "", "also write the stage summary to this workbook")
	diabetesCmd.Flags().BoolVar(&diaLenient, "lenient-stages", false, "keep stages outside 0/1/2 as extra groups (overrides config)")
}

func runDiabetes(out io.Writer, xlsxPath string) error {
	in := filepath.Join(cfg.CleanDir, mustSpec(dataset.Diabetes).CleanFile)
	df, err := diabetes.Load(in, cfg.ReadOptions())
	if err != nil {
		return err
	}
	r, err := diabetes.Analyze(df, diabetes.Options{StrictStages: cfg.StrictStages})
	if err != nil {
		return err
	}
	report.New(out).Diabetes(r)

	m := manifest.New("diabetes", cfg.ChartsDir)
	linkCleanRun(m)
	m.AddInput(in, manifest.KindCleanCSV, df.Nrow())

	path := filepath.Join(cfg.ChartsDir, diabetes.ChartFile)
	if err := diabetes.Figure(r, cfg.ChartWidth, cfg.ChartHeight).Save(path); err != nil {
		return err
	}
	m.AddOutput(path, manifest.KindChart, 0)
	fmt.Fprintf(out, "✓ Saved chart %s\n", path)

	if xlsxPath != "" {
		if err := export.WriteWorkbook(xlsxPath, export.DiabetesSheets(r)); err != nil {
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
