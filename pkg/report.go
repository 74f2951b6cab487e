package pkg

import (
	"fmt"
	gio "io"
	"os"
	"strconv"

	"github.com/rs/zerolog"

	"mifs/pkg/selection"
)

type NoopWriter struct{}

func (x NoopWriter) Write(p []byte) (n int, err error) {
	return len(p), nil
}

// Row is a line of the summary table
type Row struct {
	Feature string
	Score   float64
}

// Report summarizes a selection run. For greedy methods Rows holds one row
// per committed step; for exhaustive search every selected feature carries
// the joint score of the combination.
type Report struct {
	Method    string
	Strategy  string
	Selected  []string
	Discarded []string
	Rows      []Row
}

func resultReport(r *selection.Result) *Report {
	report := &Report{
		Method:    r.Method,
		Strategy:  r.Strategy.String(),
		Selected:  r.Selected,
		Discarded: r.Discarded,
	}
	for _, s := range r.Steps {
		report.Rows = append(report.Rows, Row{Feature: s.Feature, Score: s.Score})
	}
	return report
}

func combinationReport(c *selection.Combination) *Report {
	report := &Report{Method: selection.MethodExhaustive, Selected: c.Features}
	for _, f := range c.Features {
		report.Rows = append(report.Rows, Row{Feature: f, Score: c.Score})
	}
	return report
}

// Write prints the rows as a feature,score table with a header line
func (r *Report) Write(w gio.Writer) error {
	if _, err := fmt.Fprintln(w, "feature,score"); err != nil {
		return err
	}
	for _, row := range r.Rows {
		if _, err := fmt.Fprintf(w, "%s,%s\n", row.Feature, strconv.FormatFloat(row.Score, 'f', -1, 64)); err != nil {
			return err
		}
	}
	return nil
}

// WriteFile writes the table to fileName, or nowhere when it is empty
func (r *Report) WriteFile(fileName string) error {
	var outputWriter gio.Writer
	if fileName != "" {
		outputFile, err := os.Create(fileName)
		if err != nil {
			return fmt.Errorf("error opening output file %s: %w", fileName, err)
		}
		defer outputFile.Close()
		outputWriter = outputFile
	} else {
		outputWriter = NoopWriter{}
	}
	if err := r.Write(outputWriter); err != nil {
		return fmt.Errorf("error writing output file %s: %w", fileName, err)
	}
	return nil
}

func (r *Report) Log(logger zerolog.Logger) {
	for i, row := range r.Rows {
		logger.Info().Int("Step", i+1).Str("Feature", row.Feature).Float64("Score", row.Score).Msg("")
	}
	logger.Info().Str("Method", r.Method).Str("Strategy", r.Strategy).Strs("Selected", r.Selected).Strs("Discarded", r.Discarded).Msg("selection finished")
}
