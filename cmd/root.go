package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	cfgpkg "github.com/KaramelBytes/healthsurvey-cli/internal/config"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	debug   bool
	// Directory flags (override config if set)
	flagRawDir    string
	flagCleanDir  string
	flagChartsDir string

	// Loaded configuration
	cfg *cfgpkg.Global
	// Diagnostics; discarded unless --debug
	logger = slog.New(slog.NewTextHandler(io.Discard, nil))
)

var rootCmd = &cobra.Command{
	Use:   "healthsurvey",
	Short: "HealthSurvey CLI: clean health-survey datasets and chart their risk factors",
	Long: `HealthSurvey cleans the sleep, diabetes and heart-disease survey datasets,
then summarizes how age, BMI and diabetes stage relate to health outcomes
as printed tables and chart images.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Assigned here rather than in the literal to avoid an initialization cycle (loadConfig reads rootCmd).
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error { return loadConfig(cmd) }
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.healthsurvey/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().StringVar(&flagRawDir, "raw-dir", "", "directory with the raw CSV files (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagCleanDir, "clean-dir", "", "directory for the cleaned CSV files (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagChartsDir, "charts-dir", "", "directory for chart images (overrides config)")
}

func loadConfig(cmd *cobra.Command) error {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		return err
	}
	cfg = c

	// Apply CLI overrides if provided
	f := rootCmd.PersistentFlags()
	if f.Changed("raw-dir") && flagRawDir != "" {
		cfg.RawDir = flagRawDir
	}
	if f.Changed("clean-dir") && flagCleanDir != "" {
		cfg.CleanDir = flagCleanDir
	}
	if f.Changed("charts-dir") && flagChartsDir != "" {
		cfg.ChartsDir = flagChartsDir
	}

	if debug {
		logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug}))
	} else {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	logger.Debug("configuration loaded", "raw_dir", cfg.RawDir, "clean_dir", cfg.CleanDir, "charts_dir", cfg.ChartsDir)
	return nil
}
