package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	query "github.com/krew-solutions/ascetic-query-advisor/queryadvisor/query/domain"
)

func mustParse(t *testing.T, src string) query.Document {
	t.Helper()
	doc, err := query.ParseDocument([]byte(src))
	require.NoError(t, err)
	return doc
}

func mustSort(t *testing.T, src string) SortSpec {
	t.Helper()
	spec, err := ParseSortSpec([]byte(src))
	require.NoError(t, err)
	return spec
}

func classify(t *testing.T, q, sort string) FieldClassification {
	t.Helper()
	fc, err := Classify(mustParse(t, q), mustSort(t, sort))
	require.NoError(t, err)
	return fc
}

func TestClassify(t *testing.T) {
	t.Run("equality only", func(t *testing.T) {
		assert.Equal(t, FieldClassification{Equality: []string{"A"}}, classify(t, `{"A": 10}`, ``))
	})

	t.Run("equality, sort and range", func(t *testing.T) {
		fc := classify(t, `{"A": {"$gt": 1}, "B": 5}`, `{"B": 1}`)
		assert.Equal(t, FieldClassification{
			Equality: []string{"B"},
			Sort:     []string{"B"},
			Range:    []string{"A"},
		}, fc)
	})

	t.Run("range operators", func(t *testing.T) {
		q := `{"a": {"$all": [1]}, "b": {"$not": {"$gt": 1}}, "c": {"$in": [1]}, ` +
			`"d": {"$ne": 1}, "e": {"$nin": [1]}, "f": {"$lt": 1, "$gte": 0}, "g": {"$lte": 1}}`
		fc := classify(t, q, ``)
		assert.Equal(t, []string{"a", "b", "c", "d", "e", "f", "g"}, fc.Range)
		assert.Empty(t, fc.Unsupported)
	})

	t.Run("mixed operator set is unsupported", func(t *testing.T) {
		fc := classify(t, `{"a": {"$gt": 1, "$size": 2}, "b": {"$exists": true}, "c": {"$regex": "^x"}}`, ``)
		assert.Equal(t, []string{"a", "b", "c"}, fc.Unsupported)
		assert.Empty(t, fc.Range)
	})

	t.Run("duplicates across or branches are kept", func(t *testing.T) {
		fc := classify(t, `{"$or": [{"A": 1}, {"A": 2}]}`, ``)
		assert.Equal(t, []string{"A", "A"}, fc.Equality)
	})

	t.Run("flattens and / or / nor", func(t *testing.T) {
		fc := classify(t, `{"$and": [{"A": 1}, {"$or": [{"B": {"$gt": 1}}, {"$nor": [{"C": {"$size": 1}}]}]}]}`, ``)
		assert.Equal(t, FieldClassification{
			Equality:    []string{"A"},
			Range:       []string{"B"},
			Unsupported: []string{"C"},
		}, fc)
	})

	t.Run("field in several buckets", func(t *testing.T) {
		fc := classify(t, `{"$or": [{"A": 1}, {"A": {"$gt": 1}}]}`, `{"A": -1}`)
		assert.Equal(t, []string{"A"}, fc.Equality)
		assert.Equal(t, []string{"A"}, fc.Range)
		assert.Equal(t, []string{"A"}, fc.Sort)
	})

	t.Run("other document operators are skipped", func(t *testing.T) {
		fc := classify(t, `{"$where": "true", "A": 1}`, ``)
		assert.Equal(t, FieldClassification{Equality: []string{"A"}}, fc)
	})

	t.Run("sort order preserved", func(t *testing.T) {
		fc := classify(t, `{}`, `{"z": 1, "a": -1}`)
		assert.Equal(t, []string{"z", "a"}, fc.Sort)
	})

	t.Run("unknown operators are not refused", func(t *testing.T) {
		fc := classify(t, `{"$foo": 1, "A": {"$foo": 1}, "B": 2}`, ``)
		assert.Equal(t, FieldClassification{Equality: []string{"B"}, Unsupported: []string{"A"}}, fc)
	})

	t.Run("malformed combinator", func(t *testing.T) {
		_, err := Classify(mustParse(t, `{"$or": 1}`), nil)
		assert.ErrorIs(t, err, query.ErrMalformedQuery)
	})
}

func TestAllFields(t *testing.T) {
	fc := FieldClassification{
		Equality:    []string{"a", "a"},
		Sort:        []string{"b"},
		Range:       []string{"a", "c"},
		Unsupported: []string{"d"},
	}
	assert.Equal(t, map[string]struct{}{"a": {}, "b": {}, "c": {}}, fc.AllFields())
}
