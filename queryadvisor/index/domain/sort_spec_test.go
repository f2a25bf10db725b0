package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	query "github.com/krew-solutions/ascetic-query-advisor/queryadvisor/query/domain"
)

func TestParseSortSpec(t *testing.T) {
	t.Run("ordered weights", func(t *testing.T) {
		spec, err := ParseSortSpec([]byte(`{"b": 1, "a": -1}`))
		require.NoError(t, err)
		assert.Equal(t, SortSpec{{Field: "b", Weight: 1}, {Field: "a", Weight: -1}}, spec)
		assert.Equal(t, []string{"b", "a"}, spec.Fields())
		assert.Equal(t, DirectionAscending, spec[0].Direction())
		assert.Equal(t, DirectionDescending, spec[1].Direction())
	})
	t.Run("empty", func(t *testing.T) {
		spec, err := ParseSortSpec(nil)
		require.NoError(t, err)
		assert.Empty(t, spec)
	})
	t.Run("zero weight", func(t *testing.T) {
		_, err := ParseSortSpec([]byte(`{"a": 0}`))
		assert.ErrorIs(t, err, query.ErrMalformedQuery)
	})
	t.Run("non-numeric weight", func(t *testing.T) {
		_, err := ParseSortSpec([]byte(`{"a": "asc"}`))
		assert.ErrorIs(t, err, query.ErrMalformedQuery)
	})
}

func TestSortSpecLookup(t *testing.T) {
	spec := SortSpec{{Field: "a", Weight: -2}}
	key, ok := spec.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, -2.0, key.Weight)
	assert.False(t, spec.Has("b"))
}

func TestSortSpecFromDocumentDuplicate(t *testing.T) {
	_, err := SortSpecFromDocument(query.Document{{Key: "a", Value: 1}, {Key: "a", Value: -1}})
	assert.ErrorIs(t, err, query.ErrMalformedQuery)
}
