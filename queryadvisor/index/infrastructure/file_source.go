package infrastructure

import (
	"context"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/krew-solutions/ascetic-query-advisor/queryadvisor/index/domain"
	query "github.com/krew-solutions/ascetic-query-advisor/queryadvisor/query/domain"
)

const collectionsKey = "collections"

// FileSource reads index definitions from a YAML (or JSON) file of the form
//
//	collections:
//	  orders:
//	    status_1_created_-1: {status: 1, created: -1}
//
// The file is re-read on every fetch.
type FileSource struct {
	path   string
	logger logrus.FieldLogger
}

func NewFileSource(path string, logger logrus.FieldLogger) *FileSource {
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}
	return &FileSource{path: path, logger: logger}
}

func (f *FileSource) FetchIndexDefinitions(_ context.Context, collection string) (map[string]domain.IndexSpec, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, errors.Wrap(err, "unable to read index file")
	}
	return f.parse(data, collection)
}

func (f *FileSource) parse(data []byte, collection string) (map[string]domain.IndexSpec, error) {
	root, err := query.ParseDocument(data)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to parse index file %s", f.path)
	}

	definitions := make(map[string]domain.IndexSpec)
	collections, err := section(root, collectionsKey)
	if err != nil {
		return nil, errors.Wrapf(err, "index file %s", f.path)
	}
	indexes, err := section(collections, collection)
	if err != nil {
		return nil, errors.Wrapf(err, "index file %s", f.path)
	}

	for _, e := range indexes {
		spec, err := domain.IndexSpecFromValue(e.Value)
		if err != nil {
			f.logger.WithError(err).WithFields(logrus.Fields{
				"collection": collection,
				"index":      e.Key,
			}).Warn("skipping index definition")
			continue
		}
		definitions[e.Key] = spec
	}
	return definitions, nil
}

// section returns the mapping stored under key, or an empty one when the key is absent.
func section(doc query.Document, key string) (query.Document, error) {
	value, ok := doc.Lookup(key)
	if !ok || value == nil {
		return nil, nil
	}
	nested, ok := value.(query.Document)
	if !ok {
		return nil, errors.Errorf("%q must be a mapping, got: %T", key, value)
	}
	return nested, nil
}
