package domain

import (
	"github.com/krew-solutions/ascetic-query-advisor/queryadvisor/option"
)

type Coverage string

const (
	CoverageNone    Coverage = "none"
	CoveragePartial Coverage = "partial"
	CoverageFull    Coverage = "full"
)

// IndexReport is the verdict on one existing index for a classified query.
// Coverage and IdealOrder are undefined for geospatial indexes.
type IndexReport struct {
	Coverage   option.Option[Coverage] `json:"coverage"`
	IdealOrder option.Option[bool]     `json:"ideal_order"`
	Geospatial bool                    `json:"geospatial"`
}

// IsIdeal reports whether the index already serves the query as well as a new one could.
func (r IndexReport) IsIdeal() bool {
	if r.Geospatial {
		return true
	}
	return option.Equal(r.Coverage, CoverageFull) && option.Equal(r.IdealOrder, true)
}

// NewIndexReport scores index against the classification and sort specification.
func NewIndexReport(index IndexSpec, fc FieldClassification, sort SortSpec) IndexReport {
	all := fc.AllFields()
	prefix := usablePrefix(index, all)

	for _, k := range prefix {
		if k.Direction.IsGeospatial() {
			return IndexReport{Geospatial: true}
		}
	}

	return IndexReport{
		Coverage:   option.Some(coverage(prefix, all)),
		IdealOrder: option.Some(idealOrder(prefix, fc, sort)),
	}
}

// usablePrefix is the leading run of index keys whose fields the query references.
func usablePrefix(index IndexSpec, all map[string]struct{}) IndexSpec {
	for i, k := range index {
		if _, ok := all[k.Field]; !ok {
			return index[:i]
		}
	}
	return index
}

func coverage(prefix IndexSpec, all map[string]struct{}) Coverage {
	covered := len(toSet(prefix.Fields()))
	switch {
	case covered == 0:
		return CoverageNone
	case covered == len(all):
		return CoverageFull
	}
	return CoveragePartial
}

// idealOrder checks the equality, sort, range heuristic:
// equality fields lead the prefix, non-equality sort fields follow in sort order,
// and every sort field is indexed in its sort direction.
func idealOrder(prefix IndexSpec, fc FieldClassification, sort SortSpec) bool {
	equality := toSet(fc.Equality)

	leading := make(map[string]struct{}, len(equality))
	for _, k := range prefix {
		if _, ok := equality[k.Field]; !ok {
			break
		}
		leading[k.Field] = struct{}{}
	}
	if len(leading) != len(equality) {
		return false
	}

	sortRest := withoutFields(fc.Sort, equality)
	prefixRest := withoutFields(prefix.Fields(), equality)
	if len(sortRest) > len(prefixRest) {
		return false
	}
	for i, f := range sortRest {
		if prefixRest[i] != f {
			return false
		}
	}

	return sortDirectionsMatch(prefix, sort)
}

func sortDirectionsMatch(prefix IndexSpec, sort SortSpec) bool {
	directions := make(map[string]Direction, len(prefix))
	for _, k := range prefix {
		directions[k.Field] = k.Direction
	}
	for _, k := range sort {
		dir, ok := directions[k.Field]
		if !ok || dir != k.Direction() {
			return false
		}
	}
	return true
}

func withoutFields(fields []string, exclude map[string]struct{}) []string {
	result := make([]string, 0, len(fields))
	for _, f := range fields {
		if _, ok := exclude[f]; !ok {
			result = append(result, f)
		}
	}
	return result
}
