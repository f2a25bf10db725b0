package cli

import (
	"bufio"
	"io"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"

	"github.com/krew-solutions/ascetic-query-advisor/queryadvisor/index/domain"
)

// NewIndexesCommand creates the indexes command.
func NewIndexesCommand(rootOpts *RootOptions) *cobra.Command {
	cfg := &Config{}
	cmd := &cobra.Command{
		Use:   "indexes [query-file|-]",
		Short: "Evaluate existing indexes against a query",
		Long: `Report coverage and ideal order of every existing index of the collection for a query,
and show how each index name differs from the recommended index.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIndexes(rootOpts, cfg, args, cmd)
		},
	}
	cfg.bindFlags(cmd)
	return cmd
}

// IndexDiff shows how an existing index differs from the recommendation.
// Insertions are marked {+...+} and deletions [-...-].
type IndexDiff struct {
	Index       string `json:"index"`
	Recommended string `json:"recommended"`
	Diff        string `json:"diff"`
}

type indexesOutput struct {
	Advice domain.Advice `json:"advice"`
	Diffs  []IndexDiff   `json:"diffs"`
}

func (o indexesOutput) RenderText(w io.Writer) error {
	bw := bufio.NewWriter(w)
	diffs := make(map[string]string, len(o.Diffs))
	for _, d := range o.Diffs {
		diffs[d.Index] = d.Diff
	}
	writeReports(bw, o.Advice.Reports, diffs)
	writeRecommendation(bw, o.Advice)
	return bw.Flush()
}

func runIndexes(opts *RootOptions, cfg *Config, args []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

	result, cmdErr := evaluate(opts, cfg, args, cmd)
	if cmdErr != nil {
		return cmdErr.report(formatter)
	}

	out := indexesOutput{Advice: result.Advice, Diffs: []IndexDiff{}}
	if rec, ok := result.Advice.Recommendation.Get(); ok {
		for _, r := range result.Advice.Reports {
			existing := r.Index.Name()
			out.Diffs = append(out.Diffs, IndexDiff{
				Index:       r.Name,
				Recommended: rec.Name,
				Diff:        diffNames(existing, rec.Name),
			})
		}
	}
	return formatter.Success(out)
}

func diffNames(existing, recommended string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(existing, recommended, false))

	var b strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			b.WriteString("{+" + d.Text + "+}")
		case diffmatchpatch.DiffDelete:
			b.WriteString("[-" + d.Text + "-]")
		default:
			b.WriteString(d.Text)
		}
	}
	return b.String()
}
