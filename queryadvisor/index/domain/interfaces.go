package domain

import "context"

// IndexSource provides the existing index definitions of a collection, keyed by index name.
// Implementations may fail; the advisor treats any failure as "no existing indexes".
type IndexSource interface {
	FetchIndexDefinitions(ctx context.Context, collection string) (map[string]IndexSpec, error)
}

// IndexSourceFunc adapts a function to IndexSource.
type IndexSourceFunc func(ctx context.Context, collection string) (map[string]IndexSpec, error)

func (f IndexSourceFunc) FetchIndexDefinitions(ctx context.Context, collection string) (map[string]IndexSpec, error) {
	return f(ctx, collection)
}
