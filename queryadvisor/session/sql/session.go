package sql

import (
	"context"
	"database/sql"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/krew-solutions/ascetic-query-advisor/queryadvisor/session"
)

// Session represents a database/sql session. Inside Atomic it is bound to the transaction.
type Session struct {
	ctx  context.Context
	db   *sql.DB
	exec executor
}

func NewSession(ctx context.Context, db *sql.DB) *Session {
	return &Session{
		ctx:  ctx,
		db:   db,
		exec: db,
	}
}

func (s *Session) Context() context.Context {
	return s.ctx
}

func (s *Session) Connection() session.DbConnection {
	return &connection{ctx: s.ctx, exec: s.exec}
}

func (s *Session) Atomic(callback session.SessionCallback) error {
	if s.db == nil {
		return errors.New("savepoints are not supported by database/sql sessions")
	}
	tx, err := s.db.BeginTx(s.ctx, nil)
	if err != nil {
		return errors.Wrap(err, "unable to start transaction")
	}
	txSession := &Session{
		ctx:  s.ctx,
		exec: tx,
	}
	err = callback(txSession)
	if err != nil {
		if txErr := tx.Rollback(); txErr != nil {
			return multierror.Append(err, txErr)
		}
		return err
	}
	if txErr := tx.Commit(); txErr != nil {
		return errors.Wrap(txErr, "failed to commit transaction")
	}
	return nil
}

// executor interface for both *sql.DB and *sql.Tx
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type connection struct {
	ctx  context.Context
	exec executor
}

func (c *connection) Exec(query string, args ...any) (session.Result, error) {
	res, err := c.exec.ExecContext(c.ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (c *connection) Query(query string, args ...any) (session.Rows, error) {
	rows, err := c.exec.QueryContext(c.ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *connection) QueryRow(query string, args ...any) session.Row {
	return c.exec.QueryRowContext(c.ctx, query, args...)
}
