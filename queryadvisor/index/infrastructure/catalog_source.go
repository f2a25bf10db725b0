package infrastructure

import (
	"context"
	"fmt"
	"io"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/krew-solutions/ascetic-query-advisor/queryadvisor/index/domain"
	"github.com/krew-solutions/ascetic-query-advisor/queryadvisor/session"
)

const DefaultCatalogTable = "index_catalog"

var ErrIndexRegistered = errors.New("index is already registered")

// CatalogSource reads index definitions from a catalog table:
// one row per (collection, index_name) with the key document stored as text.
type CatalogSource struct {
	sessionPool session.SessionPool
	table       string
	logger      logrus.FieldLogger
}

func NewCatalogSource(sessionPool session.SessionPool, table string, logger logrus.FieldLogger) *CatalogSource {
	if table == "" {
		table = DefaultCatalogTable
	}
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}
	return &CatalogSource{
		sessionPool: sessionPool,
		table:       table,
		logger:      logger,
	}
}

func (c *CatalogSource) FetchIndexDefinitions(ctx context.Context, collection string) (map[string]domain.IndexSpec, error) {
	definitions := make(map[string]domain.IndexSpec)
	err := c.sessionPool.Session(ctx, func(s session.Session) error {
		dbSession, ok := s.(session.DbSession)
		if !ok {
			return errors.New("catalog source requires a database session")
		}
		return c.fetch(dbSession, collection, definitions)
	})
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read index catalog %q for collection %q", c.table, collection)
	}
	return definitions, nil
}

func (c *CatalogSource) fetch(s session.DbSession, collection string, definitions map[string]domain.IndexSpec) (err error) {
	sql := fmt.Sprintf(`
		SELECT index_name, key_spec FROM %s
		WHERE collection = $1
		ORDER BY index_name
	`, c.table)

	rows, err := s.Connection().Query(sql, collection)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = multierror.Append(err, closeErr)
		}
	}()

	for rows.Next() {
		var name, keySpec string
		if err := rows.Scan(&name, &keySpec); err != nil {
			return err
		}
		spec, err := domain.ParseIndexSpec([]byte(keySpec))
		if err != nil {
			c.logger.WithError(err).WithFields(logrus.Fields{
				"collection": collection,
				"index":      name,
			}).Warn("skipping index definition")
			continue
		}
		definitions[name] = spec
	}
	return rows.Err()
}

// Register stores one index definition for collection.
// Returns ErrIndexRegistered when the name is taken.
func (c *CatalogSource) Register(ctx context.Context, collection, name string, index domain.IndexSpec) error {
	keySpec, err := index.MarshalJSON()
	if err != nil {
		return err
	}
	return c.sessionPool.Session(ctx, func(s session.Session) error {
		return s.Atomic(func(txSession session.Session) error {
			conn := txSession.(session.DbSession).Connection()
			exists, err := c.exists(conn, collection, name)
			if err != nil {
				return errors.Wrapf(err, "unable to register index %q", name)
			}
			if exists {
				return errors.Wrapf(ErrIndexRegistered, "collection %q, index %q", collection, name)
			}
			sql := fmt.Sprintf(`
				INSERT INTO %s (collection, index_name, key_spec)
				VALUES ($1, $2, $3)
			`, c.table)
			_, err = conn.Exec(sql, collection, name, string(keySpec))
			return errors.Wrapf(err, "unable to register index %q", name)
		})
	})
}

func (c *CatalogSource) exists(conn session.DbConnection, collection, name string) (bool, error) {
	sql := fmt.Sprintf(`
		SELECT COUNT(*) FROM %s
		WHERE collection = $1 AND index_name = $2
	`, c.table)
	var count int64
	if err := conn.QueryRow(sql, collection, name).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (c *CatalogSource) Setup(ctx context.Context) error {
	return c.sessionPool.Session(ctx, func(s session.Session) error {
		sql := fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				collection TEXT NOT NULL,
				index_name TEXT NOT NULL,
				key_spec TEXT NOT NULL,
				PRIMARY KEY (collection, index_name)
			)
		`, c.table)
		_, err := s.(session.DbSession).Connection().Exec(sql)
		return err
	})
}

func (c *CatalogSource) Cleanup(ctx context.Context) error {
	return c.sessionPool.Session(ctx, func(s session.Session) error {
		_, err := s.(session.DbSession).Connection().Exec("DROP TABLE IF EXISTS " + c.table)
		return err
	})
}
