package domain

// QueryNode is one top-level entry of a query document.
// The set of implementations is closed: MultiOperator, FieldOperators, FieldEquality.
type QueryNode interface {
	queryNode()
	Key() string
}

// MultiOperator is an operator applied to the whole document: {'$or': [subquery, ...]}.
type MultiOperator struct {
	Operator string
	Argument any
}

func (MultiOperator) queryNode() {}

func (n MultiOperator) Key() string { return n.Operator }

// Subqueries returns the argument as a list of query documents.
func (n MultiOperator) Subqueries() ([]Document, error) {
	return Subqueries(n.Operator, n.Argument)
}

// FieldOperators is a field constrained by one or more operators: {'field': {'$gt': 1, '$lt': 5}}.
type FieldOperators struct {
	Field     string
	Operators Document
}

func (FieldOperators) queryNode() {}

func (n FieldOperators) Key() string { return n.Field }

// OperatorKeys returns the operator names in document order.
func (n FieldOperators) OperatorKeys() []string {
	return n.Operators.Keys()
}

// FieldEquality is a plain equality test: {'field': value}.
type FieldEquality struct {
	Field string
	Value any
}

func (FieldEquality) queryNode() {}

func (n FieldEquality) Key() string { return n.Field }

// Classify decides the node shape of one document entry.
func Classify(key string, value any) QueryNode {
	if IsOperatorKey(key) {
		return MultiOperator{Operator: key, Argument: value}
	}
	if doc, ok := value.(Document); ok && hasOperatorKey(doc) {
		return FieldOperators{Field: key, Operators: doc}
	}
	return FieldEquality{Field: key, Value: value}
}

// Traverse classifies every top-level entry of doc in document order. It does not recurse.
func Traverse(doc Document) []QueryNode {
	nodes := make([]QueryNode, 0, len(doc))
	for _, e := range doc {
		nodes = append(nodes, Classify(e.Key, e.Value))
	}
	return nodes
}

// Subqueries interprets a boolean combinator argument as a list of query documents.
func Subqueries(operator string, argument any) ([]Document, error) {
	list, ok := argument.([]any)
	if !ok {
		return nil, malformed("", "%s value must be list, got: %T", operator, argument)
	}
	docs := make([]Document, len(list))
	for i, item := range list {
		doc, ok := item.(Document)
		if !ok {
			return nil, malformed("", "%s item %d must be a document, got: %T", operator, i, item)
		}
		docs[i] = doc
	}
	return docs, nil
}

func hasOperatorKey(doc Document) bool {
	for _, e := range doc {
		if IsOperatorKey(e.Key) {
			return true
		}
	}
	return false
}
