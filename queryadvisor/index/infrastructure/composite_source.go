package infrastructure

import (
	"context"
	"io"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"

	"github.com/krew-solutions/ascetic-query-advisor/queryadvisor/index/domain"
)

// CompositeSource merges the definitions of several sources.
// On duplicate index names the earlier delegate wins.
type CompositeSource struct {
	delegates []domain.IndexSource
	logger    logrus.FieldLogger
}

func NewCompositeSource(logger logrus.FieldLogger, delegates ...domain.IndexSource) *CompositeSource {
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}
	return &CompositeSource{delegates: delegates, logger: logger}
}

// FetchIndexDefinitions fails only when every delegate fails.
// Partial failures are logged and the remaining definitions are returned.
func (c *CompositeSource) FetchIndexDefinitions(ctx context.Context, collection string) (map[string]domain.IndexSpec, error) {
	var errs *multierror.Error
	merged := make(map[string]domain.IndexSpec)
	succeeded := 0

	for _, delegate := range c.delegates {
		definitions, err := delegate.FetchIndexDefinitions(ctx, collection)
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		succeeded++
		for name, spec := range definitions {
			if _, exists := merged[name]; !exists {
				merged[name] = spec
			}
		}
	}

	if succeeded == 0 && errs != nil {
		return nil, errs.ErrorOrNil()
	}
	if errs != nil {
		c.logger.WithError(errs).WithField("collection", collection).
			Warn("some index sources failed")
	}
	return merged, nil
}
