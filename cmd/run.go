package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

var runXLSXDir string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Clean the datasets, then produce the insights and diabetes reports",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		var insBook, diaBook string
		if runXLSXDir != "" {
			insBook = filepath.Join(runXLSXDir, "insights.xlsx")
			diaBook = filepath.Join(runXLSXDir, "diabetes.xlsx")
		}
		steps := []struct {
			name string
			run  func() error
		}{
			{"clean", func() error { return runClean(out, nil) }},
			{"insights", func() error { return runInsights(out, insBook) }},
			{"diabetes", func() error { return runDiabetes(out, diaBook) }},
		}
		for _, s := range steps {
			logger.Debug("pipeline step", "step", s.name)
			if err := s.run(); err != nil {
				return fmt.Errorf("%s: %w", s.name, err)
			}
		}
		fmt.Fprintln(out, "✓ Pipeline complete")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVar(&runXLSXDir, "xlsx-dir", "", "write insights.xlsx and diabetes.xlsx into this directory")
}
