package cmd

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/healthsurvey-cli/internal/analysis"
	"github.com/KaramelBytes/healthsurvey-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	anaOutputPath string
	anaDelimiter  string
	anaGroupBy    string
	anaTopValues  int
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>...",
	Short: "Profile CSV/TSV files and produce a concise Markdown summary",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opt := analysis.DefaultOptions()
		opt.NAValues = cfg.NAValues
		opt.GroupBy = anaGroupBy
		if anaTopValues > 0 {
			opt.TopValues = anaTopValues
		}
		if anaDelimiter != "" {
			switch anaDelimiter {
			case ",":
				opt.Delimiter = ','
			case "\t", "tab":
				opt.Delimiter = '\t'
			case ";":
				opt.Delimiter = ';'
			default:
				return fmt.Errorf("unsupported --delimiter: %s", anaDelimiter)
			}
		}

		var parts []string
		for _, path := range args {
			rep, err := analysis.ProfileFile(path, opt)
			if err != nil {
				return fmt.Errorf("analyze %s: %w", path, err)
			}
			logger.Debug("profiled dataset", "path", path, "rows", rep.Rows, "cols", rep.Cols)
			parts = append(parts, rep.Markdown())
		}
		md := strings.Join(parts, "\n")

		if anaOutputPath != "" {
			if err := utils.SafeWriteFile(anaOutputPath, []byte(md)); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote analysis to %s\n", anaOutputPath)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), md)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&anaOutputPath, "output", "o", "", "optional path to write analysis (Markdown)")
	analyzeCmd.Flags().StringVar(&anaDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' (default from extension)")
	analyzeCmd.Flags().StringVar(&anaGroupBy, "group-by", "", "column whose values group the numeric means")
	analyzeCmd.Flags().IntVar(&anaTopValues, "top", 5, "frequent values listed per categorical column")
}
