package domain

import (
	"fmt"

	query "github.com/krew-solutions/ascetic-query-advisor/queryadvisor/query/domain"
)

// MaxInElements is the largest $in list that does not get flagged.
const MaxInElements = 2000

var badRegexEndings = []string{".*", ".*$"}

// Analyze walks the whole query tree and returns diagnostics in pre-order, left-to-right order.
// Any UnknownOperatorError or MalformedQueryError aborts the call without partial results.
func Analyze(q query.Document) ([]Diagnostic, error) {
	a := &analyzer{}
	if err := a.document(q); err != nil {
		return nil, err
	}
	return a.diagnostics, nil
}

type analyzer struct {
	diagnostics []Diagnostic
}

func (a *analyzer) emit(field string, severity Severity, code Code, format string, args ...any) {
	a.diagnostics = append(a.diagnostics, Diagnostic{
		Message:  fmt.Sprintf(format, args...),
		Severity: severity,
		Code:     code,
		Field:    field,
	})
}

func (a *analyzer) document(doc query.Document) error {
	for _, node := range query.Traverse(doc) {
		switch n := node.(type) {
		case query.MultiOperator:
			if err := a.operator("", n.Operator, n.Argument); err != nil {
				return err
			}
		case query.FieldOperators:
			if err := a.fieldOperators(n.Field, n.Operators); err != nil {
				return err
			}
		case query.FieldEquality:
			// plain equality is always index friendly
		default:
			return fmt.Errorf("unexpected query node %T", node)
		}
	}
	return nil
}

func (a *analyzer) subqueries(operator string, argument any) error {
	docs, err := query.Subqueries(operator, argument)
	if err != nil {
		return err
	}
	for _, doc := range docs {
		if err := a.document(doc); err != nil {
			return err
		}
	}
	return nil
}

func (a *analyzer) fieldOperators(field string, ops query.Document) error {
	merged, err := query.MergeRegex(field, ops)
	if err != nil {
		return err
	}
	for _, e := range merged {
		if err := a.operator(field, e.Key, e.Value); err != nil {
			return err
		}
	}
	return nil
}

func (a *analyzer) operator(field, name string, argument any) error {
	op, err := query.LookupOperator(name)
	if err != nil {
		return err
	}

	switch op {
	case query.OperatorAll:
		a.emit(field, SeverityCritical, CodeAll,
			"$all on %s only uses an index for its first element and scans every candidate for the rest", subject(field))

	case query.OperatorIn:
		if list, ok := argument.([]any); ok && len(list) > MaxInElements {
			a.emit(field, SeverityCritical, CodeIn,
				"$in on %s has %d elements, more than %d makes planning and matching expensive",
				subject(field), len(list), MaxInElements)
		}

	case query.OperatorNe, query.OperatorNin:
		a.negation(field, op)

	case query.OperatorWhere:
		a.emit(field, SeverityCritical, CodeJavascript,
			"$where evaluates JavaScript for every document and cannot use an index")

	case query.OperatorNot:
		a.negation(field, op)
		ops, ok := argument.(query.Document)
		if !ok {
			return &query.MalformedQueryError{Field: field, Reason: fmt.Sprintf("$not value must be a document, got: %T", argument)}
		}
		return a.fieldOperators(field, ops)

	case query.OperatorNor:
		a.negation(field, op)
		return a.subqueries(name, argument)

	case query.OperatorAnd, query.OperatorOr:
		return a.subqueries(name, argument)

	case query.OperatorSize:
		a.emit(field, SeverityWarning, CodeSize,
			"$size on %s cannot use an index, keep a denormalized counter field and query it instead", subject(field))

	case query.OperatorRegex:
		regex, err := query.ToRegex(field, argument)
		if err != nil {
			return err
		}
		a.regex(field, regex)

	case query.OperatorLt, query.OperatorLte, query.OperatorGt, query.OperatorGte,
		query.OperatorExists, query.OperatorMod, query.OperatorType, query.OperatorElemMatch:
		// served by an index or costless to evaluate

	case query.OperatorNear, query.OperatorNearSphere, query.OperatorGeoWithin, query.OperatorWithin,
		query.OperatorGeoIntersects, query.OperatorMaxDistance, query.OperatorMinDistance,
		query.OperatorBox, query.OperatorCenter, query.OperatorCenterSphere, query.OperatorPolygon,
		query.OperatorGeometry:
		// served by a geospatial index

	default:
		return fmt.Errorf("no rule registered for operator %s", op)
	}
	return nil
}

func (a *analyzer) negation(field string, op query.Operator) {
	a.emit(field, SeverityCritical, CodeNegation,
		"%s on %s is a negation and has to inspect nearly every index entry", op, subject(field))
}

func (a *analyzer) regex(field string, regex query.Regex) {
	if !regex.Anchored() {
		a.emit(field, SeverityBad, CodeRegexAnchor,
			"regex %s on %s is not anchored with ^ and cannot use index bounds", regex, subject(field))
	}
	if regex.CaseInsensitive() {
		a.emit(field, SeverityBad, CodeRegexCase,
			"regex %s on %s is case-insensitive and cannot use index bounds, store a lowercased copy instead", regex, subject(field))
	}
	body := regex.Body()
	for _, ending := range badRegexEndings {
		if len(body) >= len(ending) && body[len(body)-len(ending):] == ending {
			a.emit(field, SeverityBad, CodeRegexBadEnd,
				"regex %s on %s ends with %q, which matches anything and only slows matching down", regex, subject(field), ending)
		}
	}
}

func subject(field string) string {
	if field == "" {
		return "the query"
	}
	return fmt.Sprintf("%q", field)
}
