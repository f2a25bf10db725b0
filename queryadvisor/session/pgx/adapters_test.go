package pgx

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRows overrides the pgx.Rows methods the adapter uses.
type fakeRows struct {
	pgx.Rows
	values [][]any
	idx    int
	err    error
	closed bool
}

func (r *fakeRows) Close() {
	r.closed = true
}

func (r *fakeRows) Err() error {
	return r.err
}

func (r *fakeRows) Next() bool {
	if r.err != nil || r.idx >= len(r.values) {
		return false
	}
	r.idx++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	for i, v := range r.values[r.idx-1] {
		*(dest[i].(*string)) = v.(string)
	}
	return nil
}

type fakeRow struct {
	err error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*int64)) = 3
	return nil
}

type fakeExecutor struct {
	rows     *fakeRows
	row      fakeRow
	tag      pgconn.CommandTag
	err      error
	lastSQL  string
	lastArgs []any
}

func (e *fakeExecutor) Exec(_ context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	e.lastSQL, e.lastArgs = query, args
	return e.tag, e.err
}

func (e *fakeExecutor) Query(_ context.Context, query string, args ...any) (pgx.Rows, error) {
	e.lastSQL, e.lastArgs = query, args
	if e.err != nil {
		return nil, e.err
	}
	return e.rows, nil
}

func (e *fakeExecutor) QueryRow(_ context.Context, query string, args ...any) pgx.Row {
	e.lastSQL, e.lastArgs = query, args
	return e.row
}

func TestConnectionExec(t *testing.T) {
	exec := &fakeExecutor{tag: pgconn.NewCommandTag("INSERT 0 2")}
	conn := &connection{ctx: context.Background(), exec: exec}

	res, err := conn.Exec("INSERT INTO t VALUES ($1)", "a")
	require.NoError(t, err)
	affected, err := res.RowsAffected()
	require.NoError(t, err)
	assert.Equal(t, int64(2), affected)
	assert.Equal(t, []any{"a"}, exec.lastArgs)

	exec.err = errors.New("duplicate key")
	_, err = conn.Exec("INSERT INTO t VALUES ($1)", "a")
	assert.EqualError(t, err, "duplicate key")
}

func TestConnectionQuery(t *testing.T) {
	t.Run("rows are adapted", func(t *testing.T) {
		rows := &fakeRows{values: [][]any{{"a_1"}, {"b_1"}}}
		conn := &connection{ctx: context.Background(), exec: &fakeExecutor{rows: rows}}

		result, err := conn.Query("SELECT index_name FROM t")
		require.NoError(t, err)
		var names []string
		for result.Next() {
			var name string
			require.NoError(t, result.Scan(&name))
			names = append(names, name)
		}
		require.NoError(t, result.Err())
		require.NoError(t, result.Close())
		assert.Equal(t, []string{"a_1", "b_1"}, names)
		assert.True(t, rows.closed)
	})

	t.Run("read failure is reported by Err, not Close", func(t *testing.T) {
		errRead := errors.New("conn closed")
		conn := &connection{ctx: context.Background(), exec: &fakeExecutor{rows: &fakeRows{err: errRead}}}

		result, err := conn.Query("SELECT index_name FROM t")
		require.NoError(t, err)
		assert.False(t, result.Next())
		assert.Equal(t, errRead, result.Err())
		assert.NoError(t, result.Close())
	})

	t.Run("query failure", func(t *testing.T) {
		conn := &connection{ctx: context.Background(), exec: &fakeExecutor{err: errors.New("syntax error")}}
		_, err := conn.Query("SELEC")
		assert.EqualError(t, err, "syntax error")
	})
}

func TestConnectionQueryRow(t *testing.T) {
	t.Run("scan", func(t *testing.T) {
		exec := &fakeExecutor{}
		conn := &connection{ctx: context.Background(), exec: exec}

		row := conn.QueryRow("SELECT COUNT(*) FROM t WHERE a = $1", "x")
		var count int64
		require.NoError(t, row.Scan(&count))
		assert.Equal(t, int64(3), count)
		assert.NoError(t, row.Err())
		assert.Equal(t, []any{"x"}, exec.lastArgs)
	})

	t.Run("scan error is kept", func(t *testing.T) {
		conn := &connection{ctx: context.Background(), exec: &fakeExecutor{row: fakeRow{err: pgx.ErrNoRows}}}

		row := conn.QueryRow("SELECT COUNT(*) FROM t")
		var count int64
		assert.ErrorIs(t, row.Scan(&count), pgx.ErrNoRows)
		assert.ErrorIs(t, row.Err(), pgx.ErrNoRows)
	})
}
