package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"mifs/pkg"
	"mifs/pkg/config"
	"mifs/pkg/io"
	"mifs/pkg/mi"
	"mifs/pkg/selection"
)

var version = "dev"

// selectionFlags are shared by the commands running a selection method.
// Flags given on the command line win over the run file, which wins over
// the environment.
type selectionFlags struct {
	input     string
	sheet     string
	output    string
	runFile   string
	sqlDriver string
	sqlDSN    string
	sqlQuery  string

	targets     []string
	features    []string
	categorical []string
	oneHot      []string

	k             int
	strategy      string
	bins          int
	precision     int
	workers       int
	progressEvery int
}

func (f *selectionFlags) register(cmd *cobra.Command, env *config.Config, withStrategy bool) {
	cmd.Flags().StringVarP(&f.input, "input", "i", "", "name of data input file (.csv or .xlsx)")
	cmd.Flags().StringVarP(&f.sheet, "sheet", "", "", "worksheet of an .xlsx input (optional, first sheet if not present)")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "name of output file (optional, uses stdout if not present)")
	cmd.Flags().StringVarP(&f.runFile, "config", "", "", "YAML run file (optional)")
	cmd.Flags().StringVarP(&f.sqlDriver, "sql-driver", "", "", "database driver to load data with: postgres or sqlite3")
	cmd.Flags().StringVarP(&f.sqlDSN, "sql-dsn", "", "", "database connection string")
	cmd.Flags().StringVarP(&f.sqlQuery, "sql-query", "", "", "query returning the dataset, used instead of the input file")
	cmd.Flags().StringSliceVarP(&f.targets, "targets", "t", nil, "target columns")
	cmd.Flags().StringSliceVarP(&f.features, "features", "f", nil, "candidate features (optional, every non target column if not present)")
	cmd.Flags().StringSliceVarP(&f.categorical, "categorical-columns", "", nil, "list of columns holding categorical data")
	cmd.Flags().StringSliceVarP(&f.oneHot, "one-hot", "", nil, "categorical columns to one-hot encode before scoring")
	cmd.Flags().IntVarP(&f.k, "k", "k", 1, "number of features to select")
	if withStrategy {
		cmd.Flags().StringVarP(&f.strategy, "strategy", "s", "jmi", "scoring strategy: mim disr jmi jmim njmim mrmr vdisr vmrmr1 or vmrmr2")
	}
	cmd.Flags().IntVarP(&f.bins, "bins", "", env.MI.Bins, "number of bins continuous columns are cut into")
	cmd.Flags().IntVarP(&f.precision, "precision", "", env.MI.Precision, "decimal digits mutual information is rounded to")
	cmd.Flags().IntVarP(&f.workers, "workers", "", env.Workers, "number of concurrent scoring workers (0 uses every CPU)")
	cmd.Flags().IntVarP(&f.progressEvery, "progress-every", "", 1000, "log progress every this many scored subsets")
}

func (f *selectionFlags) parameters(cmd *cobra.Command, method string) (pkg.RunParameters, error) {
	rf := &config.RunFile{}
	if f.runFile != "" {
		var err error
		if rf, err = config.ReadRunFileFromFile(f.runFile); err != nil {
			return pkg.RunParameters{}, err
		}
	}
	flags := cmd.Flags()
	pickString := func(name, flag, file string) string {
		if flags.Changed(name) || file == "" {
			return flag
		}
		return file
	}
	pickSlice := func(name string, flag, file []string) []string {
		if flags.Changed(name) || len(file) == 0 {
			return flag
		}
		return file
	}
	pickInt := func(name string, flag, file int) int {
		if flags.Changed(name) || file == 0 {
			return flag
		}
		return file
	}

	p := pkg.RunParameters{
		Data: io.DataParameters{
			DataFile:           pickString("input", f.input, rf.Data),
			Sheet:              pickString("sheet", f.sheet, rf.Sheet),
			CategoricalColumns: io.NewSet(pickSlice("categorical-columns", f.categorical, rf.Categorical)...),
			SQLDriver:          pickString("sql-driver", f.sqlDriver, rf.SQL.Driver),
			SQLDSN:             pickString("sql-dsn", f.sqlDSN, rf.SQL.DSN),
			SQLQuery:           pickString("sql-query", f.sqlQuery, rf.SQL.Query),
		},
		Features:      pickSlice("features", f.features, rf.Features),
		Targets:       pickSlice("targets", f.targets, rf.Targets),
		OneHot:        pickSlice("one-hot", f.oneHot, rf.OneHot),
		K:             pickInt("k", f.k, rf.K),
		Method:        method,
		Strategy:      pickString("strategy", f.strategy, rf.Strategy),
		MI:            mi.Config{Bins: pickInt("bins", f.bins, rf.Bins), Precision: f.precision},
		Workers:       f.workers,
		ProgressEvery: f.progressEvery,
		OutputFile:    f.output,
	}
	if rf.Precision != nil && !flags.Changed("precision") {
		p.MI.Precision = *rf.Precision
	}
	if method == "" {
		p.Method = rf.Method
	}
	if p.Data.DataFile == "" && p.Data.SQLQuery == "" {
		return p, fmt.Errorf("no input given: use --input, --sql-query or a run file")
	}
	if len(p.Targets) == 0 {
		return p, fmt.Errorf("no targets given: use --targets or a run file")
	}
	return p, nil
}

func runSelection(cmd *cobra.Command, f *selectionFlags, method string) error {
	params, err := f.parameters(cmd, method)
	if err != nil {
		return err
	}
	report, err := pkg.Run(commandContext(cmd), params)
	if err != nil {
		return err
	}
	if params.OutputFile == "" {
		return report.Write(cmd.OutOrStdout())
	}
	return nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func SelectCommand(env *config.Config) *cobra.Command {
	var flags selectionFlags
	var cmd = &cobra.Command{
		Use:   "select -i dataFile -t targets [-f features] [-k count] [-s strategy]",
		Short: "Greedily selects features one at a time with the given scoring strategy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSelection(cmd, &flags, selection.MethodForward)
		},
	}
	flags.register(cmd, env, true)
	return cmd
}

func EliminateCommand(env *config.Config) *cobra.Command {
	var flags selectionFlags
	var cmd = &cobra.Command{
		Use:   "eliminate -i dataFile -t targets [-f features] [-k count] [-s strategy]",
		Short: "Greedily discards features one at a time until k remain",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSelection(cmd, &flags, selection.MethodBackward)
		},
	}
	flags.register(cmd, env, true)
	return cmd
}

func SearchCommand(env *config.Config) *cobra.Command {
	var flags selectionFlags
	var cmd = &cobra.Command{
		Use:   "search -i dataFile -t targets [-f features] -k count",
		Short: "Scores every subset of k features and reports the most informative one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSelection(cmd, &flags, selection.MethodExhaustive)
		},
	}
	flags.register(cmd, env, false)
	return cmd
}

func RunCommand(env *config.Config) *cobra.Command {
	var flags selectionFlags
	var cmd = &cobra.Command{
		Use:   "run --config runFile",
		Short: "Runs the selection method described by a YAML run file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSelection(cmd, &flags, "")
		},
	}
	flags.register(cmd, env, true)
	_ = cmd.MarkFlagRequired("config")
	return cmd
}

func MICommand(env *config.Config) *cobra.Command {
	var data io.DataParameters
	var categorical, oneHot, x, y []string
	var miConfig mi.Config
	var normalized bool

	var cmd = &cobra.Command{
		Use:   "mi -i dataFile -x columns -y columns [--normalized]",
		Short: "Prints the mutual information between two groups of columns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data.CategoricalColumns = io.NewSet(categorical...)
			value, err := pkg.MutualInformation(commandContext(cmd), data, oneHot, x, y, miConfig, normalized)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), value)
			return err
		},
	}

	cmd.Flags().StringVarP(&data.DataFile, "input", "i", "", "name of data input file (.csv or .xlsx)")
	cmd.Flags().StringVarP(&data.Sheet, "sheet", "", "", "worksheet of an .xlsx input")
	cmd.Flags().StringVarP(&data.SQLDriver, "sql-driver", "", "", "database driver to load data with: postgres or sqlite3")
	cmd.Flags().StringVarP(&data.SQLDSN, "sql-dsn", "", "", "database connection string")
	cmd.Flags().StringVarP(&data.SQLQuery, "sql-query", "", "", "query returning the dataset, used instead of the input file")
	cmd.Flags().StringSliceVarP(&categorical, "categorical-columns", "", nil, "list of columns holding categorical data")
	cmd.Flags().StringSliceVarP(&oneHot, "one-hot", "", nil, "categorical columns to one-hot encode")
	cmd.Flags().StringSliceVarP(&x, "x", "x", nil, "first group of columns")
	cmd.Flags().StringSliceVarP(&y, "y", "y", nil, "second group of columns")
	cmd.Flags().BoolVarP(&normalized, "normalized", "", false, "divide by the joint entropy")
	cmd.Flags().IntVarP(&miConfig.Bins, "bins", "", env.MI.Bins, "number of bins continuous columns are cut into")
	cmd.Flags().IntVarP(&miConfig.Precision, "precision", "", env.MI.Precision, "decimal digits the result is rounded to")

	_ = cmd.MarkFlagRequired("x")
	_ = cmd.MarkFlagRequired("y")

	return cmd
}

func VersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Prints the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "mifs", version)
		},
	}
}

var logLevel string
var logFormat string

func NewRootCommand(env *config.Config) *cobra.Command {
	Main := &cobra.Command{Use: "mifs", PersistentPreRunE: setupLogging, SilenceUsage: true}

	Main.PersistentFlags().StringVarP(&logLevel, "log-level", "", env.LogLevel, "Logging level: info error or debug")
	Main.PersistentFlags().StringVarP(&logFormat, "log-format", "", env.LogFormat, "Logging format: pretty or json")

	Main.AddCommand(SelectCommand(env))
	Main.AddCommand(EliminateCommand(env))
	Main.AddCommand(SearchCommand(env))
	Main.AddCommand(RunCommand(env))
	Main.AddCommand(MICommand(env))
	Main.AddCommand(VersionCommand())
	return Main
}

func main() {
	env, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	if err := NewRootCommand(env).ExecuteContext(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("")
	}
}

func setupLogging(cmd *cobra.Command, args []string) error {
	switch logLevel {
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	default:
		return fmt.Errorf("invalid logging level %q specified", logLevel)
	}

	switch logFormat {
	case "pretty":
		setupPrettyLogging()
	case "json":
	default:
		return fmt.Errorf("invalid log format %q specified", logFormat)
	}
	return nil
}

func setupPrettyLogging() {
	writer := zerolog.ConsoleWriter{Out: os.Stderr}
	writer.FormatFieldValue = func(i interface{}) string {
		switch v := i.(type) {
		case json.Number:
			val, _ := v.Float64()
			return fmt.Sprintf("%.3f", val)
		default:
			return fmt.Sprintf("%s", i)
		}
	}
	log.Logger = log.Output(writer)
}
