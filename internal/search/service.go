package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"

	"moviecatalog/catalogservice/internal/domain"
)

var (
	ErrInvalidQuery = errors.New("query is required")
	ErrQueryTooLong = errors.New("query too long")
)

const (
	defaultTitleLimit        = 10
	defaultActorPages        = 1
	defaultPageSize          = 10
	defaultDetailConcurrency = 4

	// MaxQueryLength bounds user supplied queries.
	MaxQueryLength = 500

	kindTitle = "title"
	kindActor = "actor"
)

var tracer = otel.Tracer("moviecatalog/catalogservice/search")

// RemoteCatalog is the remote lookup surface the aggregator needs. Results
// carry their full status so failures can be logged before being dropped.
type RemoteCatalog interface {
	LookupPage(ctx context.Context, query string, page int) domain.PageLookup
	LookupByID(ctx context.Context, id string) domain.Lookup
}

type Service struct {
	catalog           RemoteCatalog
	titleLimit        int
	actorPages        int
	pageSize          int
	detailConcurrency int
	activity          *Activity
	logger            *slog.Logger
}

type ServiceOption func(*Service)

// WithTitleLimit caps the number of records a title search returns.
func WithTitleLimit(limit int) ServiceOption {
	return func(s *Service) {
		if limit > 0 {
			s.titleLimit = limit
		}
	}
}

// WithActorPages sets how many search pages an actor search may read.
func WithActorPages(pages int) ServiceOption {
	return func(s *Service) {
		if pages > 0 {
			s.actorPages = pages
		}
	}
}

func WithPageSize(size int) ServiceOption {
	return func(s *Service) {
		if size > 0 {
			s.pageSize = size
		}
	}
}

// WithDetailConcurrency bounds parallel detail fetches during actor search.
// A value of 1 fetches strictly one after another.
func WithDetailConcurrency(n int) ServiceOption {
	return func(s *Service) {
		if n > 0 {
			s.detailConcurrency = n
		}
	}
}

func WithActivity(activity *Activity) ServiceOption {
	return func(s *Service) {
		s.activity = activity
	}
}

func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

func NewService(catalog RemoteCatalog, opts ...ServiceOption) *Service {
	svc := &Service{
		catalog:           catalog,
		titleLimit:        defaultTitleLimit,
		actorPages:        defaultActorPages,
		pageSize:          defaultPageSize,
		detailConcurrency: defaultDetailConcurrency,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}
	if svc.activity == nil {
		svc.activity = NewActivity()
	}
	if svc.logger == nil {
		svc.logger = slog.Default()
	}
	return svc
}

// Activity exposes the service-wide in-flight tracker.
func (s *Service) Activity() *Activity {
	return s.activity
}

// Busy reports whether any aggregation is currently running.
func (s *Service) Busy() bool {
	return s.activity.Busy()
}

// ValidateQuery rejects queries longer than MaxQueryLength. Blank queries
// are valid and produce empty results.
func ValidateQuery(query string) error {
	if len(query) > MaxQueryLength {
		return fmt.Errorf("%w (max %d characters)", ErrQueryTooLong, MaxQueryLength)
	}
	return nil
}
