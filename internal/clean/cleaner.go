package clean

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/go-gota/gota/dataframe"

	"github.com/KaramelBytes/healthsurvey-cli/internal/dataset"
	"github.com/KaramelBytes/healthsurvey-cli/internal/table"
)

// Stats describes the shape and quality of a table.
type Stats struct {
	Rows       int
	Cols       int
	Missing    int
	Duplicates int
}

// Measure computes Stats for df.
func Measure(df dataframe.DataFrame) Stats {
	return Stats{
		Rows:       df.Nrow(),
		Cols:       df.Ncol(),
		Missing:    table.MissingCount(df),
		Duplicates: table.DuplicateCount(df),
	}
}

// Result is the outcome of cleaning one dataset.
type Result struct {
	Dataset dataset.Spec
	Input   string
	Output  string
	Before  Stats
	After   Stats
	Rules   []RuleResult
}

// Options configures a Cleaner.
type Options struct {
	Read table.ReadOptions
}

// Cleaner reads raw files, applies the dataset rules and writes the results.
type Cleaner struct {
	opts   Options
	logger *slog.Logger
}

// New returns a Cleaner. A nil logger discards diagnostics.
func New(opts Options, logger *slog.Logger) *Cleaner {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Cleaner{opts: opts, logger: logger}
}

// CleanFrame validates and cleans an in-memory table.
func (c *Cleaner) CleanFrame(spec dataset.Spec, df dataframe.DataFrame) (dataframe.DataFrame, Result, error) {
	res := Result{Dataset: spec}
	if err := table.RequireColumns(df, string(spec.ID), spec.Columns...); err != nil {
		return df, res, err
	}
	res.Before = Measure(df)
	out, rules, err := Apply(df, Rules(spec.ID))
	if err != nil {
		return df, res, fmt.Errorf("clean %s: %w", spec.ID, err)
	}
	res.Rules = rules
	res.After = Measure(out)
	for _, r := range rules {
		c.logger.Debug("rule applied", "dataset", spec.ID, "rule", r.Rule, "affected", r.Affected)
	}
	return out, res, nil
}

// CleanFile cleans the file at in and writes the result to out.
// Nothing is written when any step fails.
func (c *Cleaner) CleanFile(spec dataset.Spec, in, out string) (Result, error) {
	c.logger.Debug("reading raw dataset", "dataset", spec.ID, "path", in)
	df, err := table.ReadFile(in, c.opts.Read)
	if err != nil {
		return Result{Dataset: spec, Input: in}, err
	}
	cleaned, res, err := c.CleanFrame(spec, df)
	res.Input = in
	if err != nil {
		return res, err
	}
	if err := table.WriteFile(out, cleaned); err != nil {
		return res, err
	}
	res.Output = out
	c.logger.Info("dataset cleaned", "dataset", spec.ID, "rows_before", res.Before.Rows, "rows_after", res.After.Rows, "output", out)
	return res, nil
}

// CleanAll cleans every dataset in processing order. Results of datasets
// completed before a failure are returned with the error and their files
// stay on disk.
func (c *Cleaner) CleanAll(rawDir, cleanDir string) ([]Result, error) {
	return c.CleanDatasets(rawDir, cleanDir, dataset.All())
}

// CleanDatasets cleans specs in the given order and stops at the first failure.
func (c *Cleaner) CleanDatasets(rawDir, cleanDir string, specs []dataset.Spec) ([]Result, error) {
	var results []Result
	for _, spec := range specs {
		res, err := c.CleanFile(spec,
			filepath.Join(rawDir, spec.RawFile),
			filepath.Join(cleanDir, spec.CleanFile),
		)
		if err != nil {
			return results, fmt.Errorf("%s dataset: %w", spec.ID, err)
		}
		results = append(results, res)
	}
	return results, nil
}
