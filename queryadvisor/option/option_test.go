package option

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSome(t *testing.T) {
	t.Run("bool", func(t *testing.T) {
		o := Some(false)
		assert.True(t, o.IsSome())
		assert.False(t, o.IsNothing())
		assert.Equal(t, false, o.Unwrap())
	})

	t.Run("empty string is valid", func(t *testing.T) {
		o := Some("")
		assert.True(t, o.IsSome())
		assert.Equal(t, "", o.Unwrap())
	})
}

func TestNothing(t *testing.T) {
	o := Nothing[string]()
	assert.True(t, o.IsNothing())
	assert.False(t, o.IsSome())

	var zero Option[int]
	assert.True(t, zero.IsNothing())
}

func TestGet(t *testing.T) {
	v, ok := Some(7).Get()
	assert.True(t, ok)
	assert.Equal(t, 7, v)

	v, ok = Nothing[int]().Get()
	assert.False(t, ok)
	assert.Equal(t, 0, v)
}

func TestUnwrap(t *testing.T) {
	t.Run("some returns value", func(t *testing.T) {
		assert.Equal(t, 42, Some(42).Unwrap())
	})

	t.Run("none panics", func(t *testing.T) {
		assert.PanicsWithValue(t, "called Unwrap on a Nothing Option", func() {
			Nothing[int]().Unwrap()
		})
	})
}

func TestUnwrapOr(t *testing.T) {
	assert.Equal(t, 42, Some(42).UnwrapOr(0))
	assert.Equal(t, 99, Nothing[int]().UnwrapOr(99))
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(Some("full"), "full"))
	assert.False(t, Equal(Some("partial"), "full"))
	assert.False(t, Equal(Nothing[string](), ""))
}

func TestJSON(t *testing.T) {
	type report struct {
		Coverage   Option[string] `json:"coverage"`
		IdealOrder Option[bool]   `json:"ideal_order"`
	}

	data, err := json.Marshal(report{Coverage: Some("full")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"coverage":"full","ideal_order":null}`, string(data))
}

func TestString(t *testing.T) {
	assert.Equal(t, "Some(42)", Some(42).String())
	assert.Equal(t, "Nothing", Nothing[int]().String())
}
