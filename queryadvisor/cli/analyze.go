package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/krew-solutions/ascetic-query-advisor/queryadvisor/analysis"
	diagnostics "github.com/krew-solutions/ascetic-query-advisor/queryadvisor/diagnostics/domain"
	query "github.com/krew-solutions/ascetic-query-advisor/queryadvisor/query/domain"
)

// NewAnalyzeCommand creates the analyze command.
func NewAnalyzeCommand(rootOpts *RootOptions) *cobra.Command {
	cfg := &Config{}
	cmd := &cobra.Command{
		Use:   "analyze [query-file|-]",
		Short: "Report inefficient operators and recommend an index",
		Long: `Analyze a query document for operators that cannot use an index efficiently,
evaluate the collection's existing indexes and recommend a compound index.

The query is read from a file, from stdin with "-", or from --query.
Exit code 1 means a diagnostic at or above --fail-on was found.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(rootOpts, cfg, args, cmd)
		},
	}
	cfg.bindFlags(cmd)
	cmd.Flags().StringVar(&cfg.FailOn, "fail-on", "", "exit with code 1 when a diagnostic of this severity or worse is found (warning|bad|critical)")
	return cmd
}

func runAnalyze(opts *RootOptions, cfg *Config, args []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

	result, err := evaluate(opts, cfg, args, cmd)
	if err != nil {
		return err.report(formatter)
	}

	if err := formatter.Success(analyzeOutput{result}); err != nil {
		return err
	}

	if cfg.FailOn != "" {
		threshold, _ := diagnostics.ParseSeverity(cfg.FailOn)
		if diagnostics.AnyAtLeast(result.Diagnostics, threshold) {
			return NewExitError(ExitFailure, fmt.Sprintf("found diagnostics at or above %s", threshold))
		}
	}
	return nil
}

// commandError is a failure reported through the formatter before exiting with ExitCommandError.
type commandError struct {
	code    string
	message string
	err     error
}

func (e *commandError) report(f *OutputFormatter) error {
	if err := f.Error(e.code, e.err.Error(), nil); err != nil {
		return err
	}
	return WrapExitError(ExitCommandError, e.message, e.err)
}

// evaluate reads the input, builds the index sources and runs the analysis service.
func evaluate(opts *RootOptions, cfg *Config, args []string, cmd *cobra.Command) (analysis.Result, *commandError) {
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return analysis.Result{}, &commandError{ErrCodeConfig, "invalid configuration", err}
	}

	data, err := readQuery(cmd.InOrStdin(), args, cfg.Query)
	if err != nil {
		return analysis.Result{}, &commandError{ErrCodeInput, "unable to read query", err}
	}
	req, err := analysis.ParseRequest(data, []byte(cfg.Sort), cfg.Collection)
	if err != nil {
		return analysis.Result{}, queryError(err)
	}

	ctx := cmd.Context()
	source, closeSource, err := cfg.IndexSource(ctx, opts.logger)
	if err != nil {
		return analysis.Result{}, &commandError{ErrCodeConfig, "unable to open index source", err}
	}
	defer func() {
		if err := closeSource(); err != nil {
			opts.logger.WithError(err).Warn("unable to close index source")
		}
	}()

	serviceOpts := []analysis.ServiceOption{analysis.WithLogger(opts.logger)}
	if opts.newID != nil {
		serviceOpts = append(serviceOpts, analysis.WithIDGenerator(opts.newID))
	}
	result, err := analysis.NewService(source, serviceOpts...).Analyze(ctx, req)
	if err != nil {
		return analysis.Result{}, queryError(err)
	}
	return result, nil
}

func queryError(err error) *commandError {
	switch {
	case errors.Is(err, query.ErrUnknownOperator):
		return &commandError{ErrCodeUnknownOperator, "unknown operator", err}
	case errors.Is(err, query.ErrMalformedQuery):
		return &commandError{ErrCodeMalformedQuery, "malformed query", err}
	}
	return &commandError{ErrCodeGeneric, "analysis failed", err}
}

func readQuery(stdin io.Reader, args []string, inline string) ([]byte, error) {
	switch {
	case inline != "" && len(args) > 0:
		return nil, errors.New("give the query either as a file argument or with --query, not both")
	case inline != "":
		return []byte(inline), nil
	case len(args) == 0:
		return nil, errors.New("no query given: pass a file, - for stdin, or --query")
	case args[0] == "-":
		return io.ReadAll(stdin)
	}
	return os.ReadFile(args[0])
}
