package testutils

import (
	"context"
	"database/sql"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/mattn/go-sqlite3"

	pgxsession "github.com/krew-solutions/ascetic-query-advisor/queryadvisor/session/pgx"
	sqlsession "github.com/krew-solutions/ascetic-query-advisor/queryadvisor/session/sql"
)

// NewPgxSessionPool connects to the PostgreSQL database described by the DB_* environment.
// The pool is pinged, so an unreachable server is reported here.
func NewPgxSessionPool() (*pgxsession.SessionPool, error) {
	var db_username string = getEnv("DB_USERNAME", "devel")
	var db_password string = getEnv("DB_PASSWORD", "devel")
	var db_host string = getEnv("DB_HOST", "localhost")
	var db_port string = getEnv("DB_PORT", "5432")
	var db_basename string = getEnv("DB_DATABASE", "devel_grade")

	connString := "postgres://" + db_username + ":" + db_password + "@" + db_host + ":" + db_port + "/" + db_basename

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return pgxsession.NewSessionPool(pool), nil
}

// NewSQLiteSessionPool opens a private in-memory SQLite database.
func NewSQLiteSessionPool() (*sqlsession.SessionPool, error) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, err
	}
	// every connection to :memory: is a separate database
	db.SetMaxOpenConns(1)
	return sqlsession.NewSessionPool(db), nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}

	return fallback
}
