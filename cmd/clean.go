package cmd

import (
	"fmt"
	"io"

	"github.com/KaramelBytes/healthsurvey-cli/internal/clean"
	"github.com/KaramelBytes/healthsurvey-cli/internal/dataset"
	"github.com/KaramelBytes/healthsurvey-cli/internal/manifest"
	"github.com/KaramelBytes/healthsurvey-cli/internal/report"
	"github.com/spf13/cobra"
)

var cleanDatasets []string

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Clean the raw sleep, diabetes and heart datasets",
	Long: `Clean reads the three raw survey files from the raw directory, fills
missing sleep disorders, merges "Normal Weight" into "Normal", drops
duplicate diabetes and heart records, and writes the cleaned files.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runClean(cmd.OutOrStdout(), cleanDatasets)
	},
}

func init() {
	rootCmd.AddCommand(cleanCmd)
	cleanCmd.Flags().StringSliceVar(&cleanDatasets, "dataset", nil, "only clean these datasets: sleep, diabetes, heart (repeatable)")
}

func runClean(out io.Writer, names []string) error {
	specs, err := dataset.Select(names)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Cleaning datasets from %s\n", cfg.RawDir)
	c := clean.New(clean.Options{Read: cfg.ReadOptions()}, logger)
	results, err := c.CleanDatasets(cfg.RawDir, cfg.CleanDir, specs)
	report.New(out).Clean(results)
	for _, r := range results {
		fmt.Fprintf(out, "✓ Wrote %s\n", r.Output)
	}
	if err != nil {
		return err
	}

	if cfg.WriteManifest {
		m := manifest.New(cleanRun, cfg.CleanDir)
		for _, r := range results {
			m.AddInput(r.Input, manifest.KindRawCSV, r.Before.Rows)
			m.AddOutput(r.Output, manifest.KindCleanCSV, r.After.Rows)
		}
		if err := m.Save(); err != nil {
			return err
		}
		logger.Debug("manifest written", "path", m.Path(), "run", m.ID)
	}
	fmt.Fprintln(out, "✓ Data cleaning complete")
	return nil
}

// cleanRun names the manifest written by clean.
const cleanRun = "clean"

// linkCleanRun records the clean run whose outputs m reads, when its
// manifest is present.
func linkCleanRun(m *manifest.Manifest) {
	up, err := manifest.Load(cfg.CleanDir, cleanRun)
	if err != nil {
		logger.Debug("no upstream manifest", "err", err)
		return
	}
	m.Upstream = up.ID
}
