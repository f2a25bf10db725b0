package infrastructure

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	logrustest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krew-solutions/ascetic-query-advisor/queryadvisor/index/domain"
)

func staticSource(definitions map[string]domain.IndexSpec) domain.IndexSource {
	return domain.IndexSourceFunc(func(context.Context, string) (map[string]domain.IndexSpec, error) {
		return definitions, nil
	})
}

func failingSource(err error) domain.IndexSource {
	return domain.IndexSourceFunc(func(context.Context, string) (map[string]domain.IndexSpec, error) {
		return nil, err
	})
}

func TestCompositeSource(t *testing.T) {
	ctx := context.Background()
	errDown := errors.New("catalog down")

	t.Run("first delegate wins", func(t *testing.T) {
		source := NewCompositeSource(nil,
			staticSource(map[string]domain.IndexSpec{"a": statusCreated}),
			staticSource(map[string]domain.IndexSpec{"a": location, "b": location}),
		)
		definitions, err := source.FetchIndexDefinitions(ctx, "orders")
		require.NoError(t, err)
		assert.Equal(t, map[string]domain.IndexSpec{"a": statusCreated, "b": location}, definitions)
	})

	t.Run("partial failure is logged", func(t *testing.T) {
		logger, hook := logrustest.NewNullLogger()
		source := NewCompositeSource(logger,
			failingSource(errDown),
			staticSource(map[string]domain.IndexSpec{"b": location}),
		)

		definitions, err := source.FetchIndexDefinitions(ctx, "orders")
		require.NoError(t, err)
		assert.Equal(t, map[string]domain.IndexSpec{"b": location}, definitions)

		entry := hook.LastEntry()
		require.NotNil(t, entry)
		assert.Equal(t, logrus.WarnLevel, entry.Level)
		assert.ErrorIs(t, entry.Data[logrus.ErrorKey].(error), errDown)
	})

	t.Run("all delegates fail", func(t *testing.T) {
		errOther := errors.New("file missing")
		source := NewCompositeSource(nil, failingSource(errDown), failingSource(errOther))
		_, err := source.FetchIndexDefinitions(ctx, "orders")
		assert.ErrorIs(t, err, errDown)
		assert.ErrorIs(t, err, errOther)
	})

	t.Run("no delegates", func(t *testing.T) {
		definitions, err := NewCompositeSource(nil).FetchIndexDefinitions(ctx, "orders")
		require.NoError(t, err)
		assert.Empty(t, definitions)
	})
}
