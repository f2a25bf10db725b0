package domain

import (
	"context"
	"io"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/krew-solutions/ascetic-query-advisor/queryadvisor/option"
	query "github.com/krew-solutions/ascetic-query-advisor/queryadvisor/query/domain"
)

// Quality tells whether a recommended index serves every constrained field.
type Quality string

const (
	QualityGood     Quality = "good"
	QualityOptional Quality = "optional"
)

type IndexRecommendation struct {
	Index   IndexSpec `json:"index"`
	Name    string    `json:"name"`
	Quality Quality   `json:"quality"`
}

// NamedReport is the report for one existing index.
type NamedReport struct {
	Name   string      `json:"name"`
	Index  IndexSpec   `json:"index"`
	Report IndexReport `json:"report"`
}

// Advice is the full evaluation of a query against the collection's indexes.
type Advice struct {
	Classification FieldClassification                 `json:"classification"`
	Reports        []NamedReport                       `json:"reports"`
	IdealIndex     option.Option[string]               `json:"ideal_index"`
	Recommendation option.Option[IndexRecommendation] `json:"recommendation"`
}

type Advisor struct {
	source IndexSource
	logger logrus.FieldLogger
}

// NewAdvisor creates an advisor. source may be nil, then every query is treated as unindexed.
func NewAdvisor(source IndexSource, logger logrus.FieldLogger) *Advisor {
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}
	return &Advisor{source: source, logger: logger}
}

// Recommend returns a compound index for the query, or Nothing when an ideal one exists.
// Unknown operators are not refused, see Classify.
func (a *Advisor) Recommend(
	ctx context.Context,
	q query.Document,
	sortSpec SortSpec,
	collection option.Option[string],
) (option.Option[IndexRecommendation], error) {
	advice, err := a.Advise(ctx, q, sortSpec, collection)
	if err != nil {
		return option.Nothing[IndexRecommendation](), err
	}
	return advice.Recommendation, nil
}

// Advise classifies the query, reports on every existing index and recommends one when none is ideal.
func (a *Advisor) Advise(
	ctx context.Context,
	q query.Document,
	sortSpec SortSpec,
	collection option.Option[string],
) (Advice, error) {
	fc, err := Classify(q, sortSpec)
	if err != nil {
		return Advice{}, err
	}

	advice := Advice{Classification: fc}
	for _, named := range a.existingIndexes(ctx, collection) {
		named.Report = NewIndexReport(named.Index, fc, sortSpec)
		advice.Reports = append(advice.Reports, named)
		if named.Report.IsIdeal() && advice.IdealIndex.IsNothing() {
			advice.IdealIndex = option.Some(named.Name)
		}
	}

	log := a.logger.WithField("collection", collection.UnwrapOr(""))
	if name, ok := advice.IdealIndex.Get(); ok {
		log.WithField("index", name).Debug("existing index is already ideal")
		return advice, nil
	}

	advice.Recommendation = RecommendIndex(fc, sortSpec)
	if rec, ok := advice.Recommendation.Get(); ok {
		log.WithFields(logrus.Fields{
			"index":   rec.Name,
			"quality": rec.Quality,
		}).Debug("recommending index")
	}
	return advice, nil
}

func (a *Advisor) existingIndexes(ctx context.Context, collection option.Option[string]) []NamedReport {
	name, ok := collection.Get()
	if !ok || a.source == nil {
		return nil
	}

	definitions, err := a.source.FetchIndexDefinitions(ctx, name)
	if err != nil {
		a.logger.WithError(err).WithField("collection", name).
			Warn("index metadata unavailable, assuming no existing indexes")
		return nil
	}

	names := make([]string, 0, len(definitions))
	for n := range definitions {
		names = append(names, n)
	}
	sort.Strings(names)

	result := make([]NamedReport, 0, len(names))
	for _, n := range names {
		result = append(result, NamedReport{Name: n, Index: definitions[n]})
	}
	return result
}

// RecommendIndex synthesizes the equality, sort, range ordered index for a classification.
func RecommendIndex(fc FieldClassification, sortSpec SortSpec) option.Option[IndexRecommendation] {
	var index IndexSpec
	included := make(map[string]struct{})
	add := func(fields []string) {
		for _, f := range fields {
			if _, ok := included[f]; ok {
				continue
			}
			included[f] = struct{}{}
			dir := DirectionAscending
			if key, ok := sortSpec.Lookup(f); ok {
				dir = key.Direction()
			}
			index = append(index, IndexKey{Field: f, Direction: dir})
		}
	}
	add(uniqueInOrder(fc.Equality))
	add(fc.Sort)
	add(uniqueInOrder(fc.Range))

	if len(index) == 0 {
		return option.Nothing[IndexRecommendation]()
	}

	quality := QualityGood
	if len(fc.Unsupported) > 0 {
		quality = QualityOptional
	}
	return option.Some(IndexRecommendation{Index: index, Name: index.Name(), Quality: quality})
}
