package analysis

import (
	"context"
	"io"

	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"

	diagnostics "github.com/krew-solutions/ascetic-query-advisor/queryadvisor/diagnostics/domain"
	index "github.com/krew-solutions/ascetic-query-advisor/queryadvisor/index/domain"
	"github.com/krew-solutions/ascetic-query-advisor/queryadvisor/option"
	query "github.com/krew-solutions/ascetic-query-advisor/queryadvisor/query/domain"
)

type Request struct {
	Query      query.Document
	Sort       index.SortSpec
	Collection option.Option[string]
}

// Result is one complete evaluation of a query.
type Result struct {
	ID          ulid.ULID                `json:"id"`
	Collection  option.Option[string]    `json:"collection"`
	Diagnostics []diagnostics.Diagnostic `json:"diagnostics"`
	Summary     diagnostics.Summary      `json:"summary"`
	Advice      index.Advice             `json:"advice"`
}

type ServiceOption func(*Service)

// WithIDGenerator replaces ulid.Make, for deterministic output.
func WithIDGenerator(newID func() ulid.ULID) ServiceOption {
	return func(s *Service) {
		s.newID = newID
	}
}

func WithLogger(logger logrus.FieldLogger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

type Service struct {
	advisor *index.Advisor
	logger  logrus.FieldLogger
	newID   func() ulid.ULID
}

func NewService(source index.IndexSource, opts ...ServiceOption) *Service {
	l := logrus.New()
	l.SetOutput(io.Discard)
	s := &Service{
		logger: l,
		newID:  ulid.Make,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.advisor = index.NewAdvisor(source, s.logger)
	return s
}

// Analyze runs the efficiency analyzer and the index advisor over one query.
// An unknown operator or malformed argument fails the whole request.
func (s *Service) Analyze(ctx context.Context, req Request) (Result, error) {
	found, err := diagnostics.Analyze(req.Query)
	if err != nil {
		return Result{}, err
	}
	if found == nil {
		found = []diagnostics.Diagnostic{}
	}

	advice, err := s.advisor.Advise(ctx, req.Query, req.Sort, req.Collection)
	if err != nil {
		return Result{}, err
	}

	result := Result{
		ID:          s.newID(),
		Collection:  req.Collection,
		Diagnostics: found,
		Summary:     diagnostics.Summarize(found),
		Advice:      advice,
	}
	s.logger.WithFields(logrus.Fields{
		"id":          result.ID.String(),
		"collection":  req.Collection.UnwrapOr(""),
		"diagnostics": result.Summary.Total,
	}).Debug("query analyzed")
	return result, nil
}
