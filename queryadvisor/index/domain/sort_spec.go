package domain

import (
	"fmt"

	query "github.com/krew-solutions/ascetic-query-advisor/queryadvisor/query/domain"
)

// SortKey is one entry of a sort specification: {'field': weight}.
type SortKey struct {
	Field  string
	Weight float64
}

// Direction is ascending for a positive weight and descending otherwise.
func (k SortKey) Direction() Direction {
	if k.Weight > 0 {
		return DirectionAscending
	}
	return DirectionDescending
}

// SortSpec is an ordered sort specification with unique fields.
type SortSpec []SortKey

func (s SortSpec) Fields() []string {
	fields := make([]string, len(s))
	for i, k := range s {
		fields[i] = k.Field
	}
	return fields
}

func (s SortSpec) Lookup(field string) (SortKey, bool) {
	for _, k := range s {
		if k.Field == field {
			return k, true
		}
	}
	return SortKey{}, false
}

func (s SortSpec) Has(field string) bool {
	_, ok := s.Lookup(field)
	return ok
}

// ParseSortSpec parses {"field": 1, "other": -1}. Empty input yields an empty spec.
func ParseSortSpec(data []byte) (SortSpec, error) {
	doc, err := query.ParseDocument(data)
	if err != nil {
		return nil, err
	}
	return SortSpecFromDocument(doc)
}

func SortSpecFromDocument(doc query.Document) (SortSpec, error) {
	spec := make(SortSpec, 0, len(doc))
	for _, e := range doc {
		weight, err := sortWeight(e.Value)
		if err != nil {
			return nil, &query.MalformedQueryError{Field: e.Key, Reason: err.Error()}
		}
		if spec.Has(e.Key) {
			return nil, &query.MalformedQueryError{Field: e.Key, Reason: "sort field appears twice"}
		}
		spec = append(spec, SortKey{Field: e.Key, Weight: weight})
	}
	return spec, nil
}

func sortWeight(value any) (float64, error) {
	var weight float64
	switch v := value.(type) {
	case int:
		weight = float64(v)
	case int64:
		weight = float64(v)
	case uint64:
		weight = float64(v)
	case float64:
		weight = v
	default:
		return 0, fmt.Errorf("sort weight must be a number, got: %T", value)
	}
	if weight == 0 {
		return 0, fmt.Errorf("sort weight must not be zero")
	}
	return weight, nil
}
