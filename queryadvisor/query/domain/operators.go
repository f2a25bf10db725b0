package domain

import "strings"

const operatorPrefix = "$"

type Operator string

const (
	// Boolean combinators

	OperatorAnd Operator = "$and"
	OperatorOr  Operator = "$or"
	OperatorNor Operator = "$nor"
	OperatorNot Operator = "$not"

	// Comparison

	OperatorLt  Operator = "$lt"
	OperatorLte Operator = "$lte"
	OperatorGt  Operator = "$gt"
	OperatorGte Operator = "$gte"
	OperatorNe  Operator = "$ne"

	// Set membership

	OperatorIn  Operator = "$in"
	OperatorNin Operator = "$nin"
	OperatorAll Operator = "$all"

	// Element and evaluation

	OperatorExists    Operator = "$exists"
	OperatorType      Operator = "$type"
	OperatorMod       Operator = "$mod"
	OperatorSize      Operator = "$size"
	OperatorRegex     Operator = "$regex"
	OperatorWhere     Operator = "$where"
	OperatorElemMatch Operator = "$elemMatch"

	// Geospatial

	OperatorNear          Operator = "$near"
	OperatorNearSphere    Operator = "$nearSphere"
	OperatorGeoWithin     Operator = "$geoWithin"
	OperatorWithin        Operator = "$within"
	OperatorGeoIntersects Operator = "$geoIntersects"
	OperatorMaxDistance   Operator = "$maxDistance"
	OperatorMinDistance   Operator = "$minDistance"
	OperatorBox           Operator = "$box"
	OperatorCenter        Operator = "$center"
	OperatorCenterSphere  Operator = "$centerSphere"
	OperatorPolygon       Operator = "$polygon"
	OperatorGeometry      Operator = "$geometry"
)

// OptionsKey carries inline regex flags and is folded into $regex before dispatch.
const OptionsKey = "$options"

var knownOperators = []Operator{
	OperatorAnd, OperatorOr, OperatorNor, OperatorNot,
	OperatorLt, OperatorLte, OperatorGt, OperatorGte, OperatorNe,
	OperatorIn, OperatorNin, OperatorAll,
	OperatorExists, OperatorType, OperatorMod, OperatorSize, OperatorRegex, OperatorWhere, OperatorElemMatch,
	OperatorNear, OperatorNearSphere, OperatorGeoWithin, OperatorWithin, OperatorGeoIntersects,
	OperatorMaxDistance, OperatorMinDistance, OperatorBox, OperatorCenter, OperatorCenterSphere,
	OperatorPolygon, OperatorGeometry,
}

var operatorIndex = func() map[string]Operator {
	m := make(map[string]Operator, len(knownOperators))
	for _, op := range knownOperators {
		m[string(op)] = op
	}
	return m
}()

// KnownOperators returns every operator the analyzer has a rule for.
func KnownOperators() []Operator {
	result := make([]Operator, len(knownOperators))
	copy(result, knownOperators)
	return result
}

// LookupOperator resolves an operator key, refusing anything outside the known set.
func LookupOperator(name string) (Operator, error) {
	op, ok := operatorIndex[name]
	if !ok {
		return "", &UnknownOperatorError{Operator: name}
	}
	return op, nil
}

// IsCombinator reports whether the operator's argument is a list of subqueries.
func (o Operator) IsCombinator() bool {
	switch o {
	case OperatorAnd, OperatorOr, OperatorNor:
		return true
	}
	return false
}

func (o Operator) IsGeospatial() bool {
	switch o {
	case OperatorNear, OperatorNearSphere, OperatorGeoWithin, OperatorWithin, OperatorGeoIntersects,
		OperatorMaxDistance, OperatorMinDistance, OperatorBox, OperatorCenter, OperatorCenterSphere,
		OperatorPolygon, OperatorGeometry:
		return true
	}
	return false
}

// IsOperatorKey reports whether a document key selects an operator rather than a field.
func IsOperatorKey(key string) bool {
	return strings.HasPrefix(key, operatorPrefix)
}
