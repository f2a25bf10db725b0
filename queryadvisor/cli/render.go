package cli

import (
	"bufio"
	"fmt"
	"io"

	"github.com/krew-solutions/ascetic-query-advisor/queryadvisor/analysis"
	"github.com/krew-solutions/ascetic-query-advisor/queryadvisor/index/domain"
)

type analyzeOutput struct {
	analysis.Result
}

func (o analyzeOutput) RenderText(w io.Writer) error {
	bw := bufio.NewWriter(w)

	if len(o.Diagnostics) == 0 {
		fmt.Fprintln(bw, "Diagnostics: none")
	} else {
		fmt.Fprintln(bw, "Diagnostics:")
		for _, d := range o.Diagnostics {
			fmt.Fprintf(bw, "  %s\n", d)
		}
	}
	s := o.Summary
	fmt.Fprintf(bw, "Summary: %d total, %d critical, %d bad, %d warning\n", s.Total, s.Critical, s.Bad, s.Warning)

	writeReports(bw, o.Advice.Reports, nil)
	writeRecommendation(bw, o.Advice)
	return bw.Flush()
}

// writeReports lists the per-index verdicts. diffs, when given, adds a diff line per index.
func writeReports(w io.Writer, reports []domain.NamedReport, diffs map[string]string) {
	if len(reports) == 0 {
		fmt.Fprintln(w, "Indexes: none")
		return
	}
	fmt.Fprintln(w, "Indexes:")
	for _, r := range reports {
		fmt.Fprintf(w, "  %s %s: %s\n", r.Name, r.Index, describeReport(r.Report))
		if diff, ok := diffs[r.Name]; ok {
			fmt.Fprintf(w, "    diff: %s\n", diff)
		}
	}
}

func describeReport(r domain.IndexReport) string {
	if r.Geospatial {
		return "geospatial"
	}
	order := "no"
	if r.IdealOrder.UnwrapOr(false) {
		order = "yes"
	}
	return fmt.Sprintf("coverage %s, ideal order %s", r.Coverage.UnwrapOr(domain.CoverageNone), order)
}

func writeRecommendation(w io.Writer, advice domain.Advice) {
	if rec, ok := advice.Recommendation.Get(); ok {
		fmt.Fprintf(w, "Recommendation: %s %s (%s)\n", rec.Name, rec.Index, rec.Quality)
		return
	}
	if name, ok := advice.IdealIndex.Get(); ok {
		fmt.Fprintf(w, "Recommendation: none, index %s is already ideal\n", name)
		return
	}
	fmt.Fprintln(w, "Recommendation: none")
}
