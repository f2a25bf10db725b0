package cli

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	diagnostics "github.com/krew-solutions/ascetic-query-advisor/queryadvisor/diagnostics/domain"
	"github.com/krew-solutions/ascetic-query-advisor/queryadvisor/index/domain"
	"github.com/krew-solutions/ascetic-query-advisor/queryadvisor/index/infrastructure"
	"github.com/krew-solutions/ascetic-query-advisor/queryadvisor/session"
	pgxsession "github.com/krew-solutions/ascetic-query-advisor/queryadvisor/session/pgx"
	sqlsession "github.com/krew-solutions/ascetic-query-advisor/queryadvisor/session/sql"
)

const (
	DriverSQLite = "sqlite3"
	DriverPgx    = "pgx"
)

const (
	EnvDriver       = "QUERYADVISOR_DRIVER"
	EnvDSN          = "QUERYADVISOR_DSN"
	EnvCatalogTable = "QUERYADVISOR_CATALOG_TABLE"
	EnvIndexFile    = "QUERYADVISOR_INDEX_FILE"
)

// Config holds the per-command flags. Empty source flags fall back to the environment.
type Config struct {
	Query        string
	Sort         string
	Collection   string
	IndexFile    string
	Driver       string
	DSN          string
	CatalogTable string
	FailOn       string
}

func (c *Config) bindFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&c.Query, "query", "q", "", "query document (instead of a file argument)")
	cmd.Flags().StringVarP(&c.Sort, "sort", "s", "", "sort specification, e.g. '{\"created\": -1}'")
	cmd.Flags().StringVarP(&c.Collection, "collection", "c", "", "collection whose existing indexes are evaluated")
	cmd.Flags().StringVar(&c.IndexFile, "index-file", "", "YAML file with index definitions (env "+EnvIndexFile+")")
	cmd.Flags().StringVar(&c.Driver, "driver", "", "index catalog driver: sqlite3 or pgx (env "+EnvDriver+")")
	cmd.Flags().StringVar(&c.DSN, "dsn", "", "index catalog connection string (env "+EnvDSN+")")
	cmd.Flags().StringVar(&c.CatalogTable, "catalog-table", "", "index catalog table (env "+EnvCatalogTable+")")
}

// ApplyEnv fills unset source settings from the environment.
func (c *Config) ApplyEnv() {
	c.Driver = flagOrEnv(c.Driver, EnvDriver)
	c.DSN = flagOrEnv(c.DSN, EnvDSN)
	c.CatalogTable = flagOrEnv(c.CatalogTable, EnvCatalogTable)
	c.IndexFile = flagOrEnv(c.IndexFile, EnvIndexFile)
	if c.CatalogTable == "" {
		c.CatalogTable = infrastructure.DefaultCatalogTable
	}
}

func (c Config) Validate() error {
	switch c.Driver {
	case "", DriverSQLite, DriverPgx:
	default:
		return fmt.Errorf("unknown driver %q: must be one of %s, %s", c.Driver, DriverSQLite, DriverPgx)
	}
	if c.DSN != "" && c.Driver == "" {
		return errors.New("a dsn requires a driver")
	}
	if c.Driver != "" && c.DSN == "" {
		return fmt.Errorf("driver %s requires a dsn", c.Driver)
	}
	if c.FailOn != "" {
		if _, err := diagnostics.ParseSeverity(c.FailOn); err != nil {
			return err
		}
	}
	return nil
}

// IndexSource builds the configured index sources. The returned close function releases
// database connections and is never nil. A nil source means no index metadata is available.
func (c Config) IndexSource(ctx context.Context, logger logrus.FieldLogger) (domain.IndexSource, func() error, error) {
	noop := func() error { return nil }
	var sources []domain.IndexSource
	closeFn := noop

	if c.Driver != "" {
		pool, closer, err := openSessionPool(ctx, c.Driver, c.DSN)
		if err != nil {
			return nil, noop, err
		}
		closeFn = closer
		sources = append(sources, infrastructure.NewCatalogSource(pool, c.CatalogTable, logger))
	}
	if c.IndexFile != "" {
		sources = append(sources, infrastructure.NewFileSource(c.IndexFile, logger))
	}

	switch len(sources) {
	case 0:
		return nil, closeFn, nil
	case 1:
		return sources[0], closeFn, nil
	}
	return infrastructure.NewCompositeSource(logger, sources...), closeFn, nil
}

func openSessionPool(ctx context.Context, driver, dsn string) (session.SessionPool, func() error, error) {
	switch driver {
	case DriverPgx:
		pool, err := pgxpool.New(ctx, dsn)
		if err != nil {
			return nil, nil, errors.Wrap(err, "unable to create connection pool")
		}
		p := pgxsession.NewSessionPool(pool)
		return p, p.Close, nil
	case DriverSQLite:
		db, err := sql.Open(driver, dsn)
		if err != nil {
			return nil, nil, errors.Wrap(err, "unable to open database")
		}
		p := sqlsession.NewSessionPool(db)
		return p, p.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown driver %q", driver)
}

func flagOrEnv(value, key string) string {
	if value != "" {
		return value
	}
	return os.Getenv(key)
}
