package domain

import (
	"fmt"

	query "github.com/krew-solutions/ascetic-query-advisor/queryadvisor/query/domain"
)

// rangeOperators can be served by an index range scan.
var rangeOperators = map[string]struct{}{
	string(query.OperatorAll): {},
	string(query.OperatorNot): {},
	string(query.OperatorIn):  {},
	string(query.OperatorNe):  {},
	string(query.OperatorNin): {},
	string(query.OperatorLt):  {},
	string(query.OperatorLte): {},
	string(query.OperatorGt):  {},
	string(query.OperatorGte): {},
}

// FieldClassification buckets query fields by how an index can serve them.
// Buckets keep duplicates, a field may appear in several of them.
type FieldClassification struct {
	Equality    []string `json:"equality"`
	Sort        []string `json:"sort"`
	Range       []string `json:"range"`
	Unsupported []string `json:"unsupported"`
}

// Classify walks the query through $and / $or / $nor and buckets every field, then takes the
// sort bucket from the sort specification.
// Operators are not validated here: unknown top-level operators are skipped and a field with an
// unknown operator is unsupported. Run the diagnostics analyzer first to refuse them.
func Classify(q query.Document, sort SortSpec) (FieldClassification, error) {
	var fc FieldClassification
	if err := fc.walk(q); err != nil {
		return FieldClassification{}, err
	}
	if len(sort) > 0 {
		fc.Sort = sort.Fields()
	}
	return fc, nil
}

func (fc *FieldClassification) walk(doc query.Document) error {
	for _, node := range query.Traverse(doc) {
		switch n := node.(type) {
		case query.MultiOperator:
			op, err := query.LookupOperator(n.Operator)
			if err != nil || !op.IsCombinator() {
				continue
			}
			subqueries, err := n.Subqueries()
			if err != nil {
				return err
			}
			for _, sub := range subqueries {
				if err := fc.walk(sub); err != nil {
					return err
				}
			}
		case query.FieldOperators:
			if onlyRangeOperators(n.OperatorKeys()) {
				fc.Range = append(fc.Range, n.Field)
			} else {
				fc.Unsupported = append(fc.Unsupported, n.Field)
			}
		case query.FieldEquality:
			fc.Equality = append(fc.Equality, n.Field)
		default:
			return fmt.Errorf("unexpected query node %T", node)
		}
	}
	return nil
}

func onlyRangeOperators(keys []string) bool {
	for _, k := range keys {
		if _, ok := rangeOperators[k]; !ok {
			return false
		}
	}
	return true
}

// AllFields is the deduplicated union of the equality, sort and range buckets.
func (fc FieldClassification) AllFields() map[string]struct{} {
	all := make(map[string]struct{}, len(fc.Equality)+len(fc.Sort)+len(fc.Range))
	for _, bucket := range [][]string{fc.Equality, fc.Sort, fc.Range} {
		for _, f := range bucket {
			all[f] = struct{}{}
		}
	}
	return all
}

func uniqueInOrder(fields []string) []string {
	seen := make(map[string]struct{}, len(fields))
	result := make([]string, 0, len(fields))
	for _, f := range fields {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		result = append(result, f)
	}
	return result
}

func toSet(fields []string) map[string]struct{} {
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}
