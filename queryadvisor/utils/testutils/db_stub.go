package testutils

import (
	"context"
	"errors"
	"fmt"

	"github.com/krew-solutions/ascetic-query-advisor/queryadvisor/session"
	"github.com/krew-solutions/ascetic-query-advisor/queryadvisor/session/result"
)

// NewSessionPoolStub returns a pool whose sessions answer every query with rows.
func NewSessionPoolStub(rows *RowsStub) *SessionPoolStub {
	stub := &SessionPoolStub{DbSession: &DbSessionStub{Rows: rows}}
	stub.DbSession.conn = &connectionStub{session: stub.DbSession}
	return stub
}

type SessionPoolStub struct {
	DbSession *DbSessionStub
}

func (p *SessionPoolStub) Session(ctx context.Context, callback session.SessionPoolCallback) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.DbSession.ctx = ctx
	return callback(p.DbSession)
}

type DbSessionStub struct {
	Rows         *RowsStub
	QueryErr     error
	ActualQuery  string
	ActualParams []any
	ctx          context.Context
	conn         *connectionStub
}

func (s *DbSessionStub) Context() context.Context {
	if s.ctx == nil {
		return context.Background()
	}
	return s.ctx
}

func (s *DbSessionStub) Atomic(callback session.SessionCallback) error {
	return callback(s)
}

func (s *DbSessionStub) Connection() session.DbConnection {
	return s.conn
}

type connectionStub struct {
	session *DbSessionStub
}

func (c *connectionStub) Exec(query string, args ...any) (session.Result, error) {
	c.session.ActualQuery = query
	c.session.ActualParams = args
	if c.session.QueryErr != nil {
		return nil, c.session.QueryErr
	}
	return result.NewResult(0), nil
}

func (c *connectionStub) Query(query string, args ...any) (session.Rows, error) {
	c.session.ActualQuery = query
	c.session.ActualParams = args
	if c.session.QueryErr != nil {
		return nil, c.session.QueryErr
	}
	return c.session.Rows, nil
}

func (c *connectionStub) QueryRow(query string, args ...any) session.Row {
	c.session.ActualQuery = query
	c.session.ActualParams = args
	return &RowStub{rows: c.session.Rows}
}

func NewRowsStub(rows ...[]any) *RowsStub {
	return &RowsStub{
		rows: rows,
		idx:  -1,
	}
}

// RowsStub replays fixed rows. CloseErr is returned from Close to simulate driver failures.
type RowsStub struct {
	rows     [][]any
	idx      int
	Closed   bool
	CloseErr error
}

func (r *RowsStub) Close() error {
	r.Closed = true
	return r.CloseErr
}

func (r *RowsStub) Err() error {
	return nil
}

func (r *RowsStub) Next() bool {
	r.idx++
	return r.idx < len(r.rows)
}

func (r *RowsStub) Scan(dest ...any) error {
	if r.idx < 0 || r.idx >= len(r.rows) {
		return errors.New("no current row")
	}

	row := r.rows[r.idx]
	for i, val := range row {
		if i >= len(dest) {
			break
		}
		switch d := dest[i].(type) {
		case *string:
			s, ok := val.(string)
			if !ok {
				return fmt.Errorf("column %d: cannot scan %T into string", i, val)
			}
			*d = s
		case *int64:
			n, ok := val.(int64)
			if !ok {
				return fmt.Errorf("column %d: cannot scan %T into int64", i, val)
			}
			*d = n
		default:
			return fmt.Errorf("column %d: unsupported scan type %T", i, dest[i])
		}
	}
	return nil
}

type RowStub struct {
	rows *RowsStub
	err  error
}

func (r *RowStub) Err() error {
	return r.err
}

func (r *RowStub) Scan(dest ...any) error {
	if !r.rows.Next() {
		r.err = errors.New("no rows in result set")
		return r.err
	}
	r.err = r.rows.Scan(dest...)
	return r.err
}
