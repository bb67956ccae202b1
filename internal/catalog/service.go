package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"moviecatalog/catalogservice/internal/domain"
	"moviecatalog/catalogservice/internal/metrics"
	"moviecatalog/catalogservice/internal/search"
)

// Store is the saved movie collection.
type Store interface {
	Insert(ctx context.Context, record domain.MovieRecord) error
	Get(ctx context.Context, id string) (domain.MovieRecord, error)
	DeleteByID(ctx context.Context, id string) error
	ListAll(ctx context.Context) ([]domain.MovieRecord, error)
	SearchByActor(ctx context.Context, actor string) ([]domain.MovieRecord, error)
}

// Searcher starts remote aggregations. Each call owns its Pending result.
type Searcher interface {
	StartTitleSearch(ctx context.Context, query string) *search.Pending
	StartActorSearch(ctx context.Context, actor string) *search.Pending
}

type TitleLookup interface {
	FetchByTitle(ctx context.Context, title string) (domain.MovieRecord, bool)
}

type CollectionAction string

const (
	ActionSaved   CollectionAction = "saved"
	ActionDeleted CollectionAction = "deleted"
	ActionSeeded  CollectionAction = "seeded"
)

type CollectionEvent struct {
	Action CollectionAction `json:"action"`
	ID     string           `json:"id,omitempty"`
	Count  int              `json:"count,omitempty"`
}

// EventPublisher receives collection changes after they are stored.
type EventPublisher interface {
	PublishCollection(event CollectionEvent)
}

type Service struct {
	store    Store
	searcher Searcher
	lookup   TitleLookup
	events   EventPublisher
	logger   *slog.Logger
}

type ServiceOption func(*Service)

func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithEvents(events EventPublisher) ServiceOption {
	return func(s *Service) {
		s.events = events
	}
}

func NewService(store Store, searcher Searcher, lookup TitleLookup, opts ...ServiceOption) *Service {
	svc := &Service{
		store:    store,
		searcher: searcher,
		lookup:   lookup,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}
	if svc.logger == nil {
		svc.logger = slog.Default()
	}
	return svc
}

// SearchTitle returns remote matches only; the saved collection is not consulted.
func (s *Service) SearchTitle(ctx context.Context, query string) ([]domain.MovieRecord, error) {
	if err := search.ValidateQuery(query); err != nil {
		return nil, err
	}
	return s.searcher.StartTitleSearch(ctx, query).Wait(ctx)
}

// SearchActor returns saved movies featuring actor followed by remote
// matches, with saved copies winning on id collisions. The local query runs
// while the remote aggregation is in flight.
func (s *Service) SearchActor(ctx context.Context, actor string) ([]domain.MovieRecord, error) {
	if err := search.ValidateQuery(actor); err != nil {
		return nil, err
	}
	actor = strings.TrimSpace(actor)
	if actor == "" {
		return []domain.MovieRecord{}, nil
	}

	pending := s.searcher.StartActorSearch(ctx, actor)
	local, err := s.store.SearchByActor(ctx, actor)
	if err != nil {
		s.logger.Warn("local actor search failed",
			slog.String("actor", actor),
			slog.String("error", err.Error()),
		)
		local = nil
	}
	remote, err := pending.Wait(ctx)
	if err != nil {
		return nil, err
	}
	return search.MergeResults(local, remote), nil
}

// LookupTitle returns the upstream's best match for title.
func (s *Service) LookupTitle(ctx context.Context, title string) (domain.MovieRecord, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return domain.MovieRecord{}, search.ErrInvalidQuery
	}
	if err := search.ValidateQuery(title); err != nil {
		return domain.MovieRecord{}, err
	}
	record, ok := s.lookup.FetchByTitle(ctx, title)
	if !ok {
		return domain.MovieRecord{}, fmt.Errorf("%w: no movie titled %q", domain.ErrNotFound, title)
	}
	return record, nil
}

func (s *Service) Save(ctx context.Context, record domain.MovieRecord) error {
	if err := record.Validate(); err != nil {
		return err
	}
	record.ID = strings.TrimSpace(record.ID)
	if err := s.store.Insert(ctx, record); err != nil {
		observe("insert", err)
		return fmt.Errorf("save movie %s: %w", record.ID, err)
	}
	observe("insert", nil)
	s.publish(CollectionEvent{Action: ActionSaved, ID: record.ID})
	return nil
}

// Get returns the saved copy of a movie, or domain.ErrNotFound.
func (s *Service) Get(ctx context.Context, id string) (domain.MovieRecord, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.MovieRecord{}, fmt.Errorf("%w: id is required", domain.ErrInvalidRecord)
	}
	record, err := s.store.Get(ctx, id)
	observe("get", err)
	if err != nil {
		return domain.MovieRecord{}, fmt.Errorf("get movie %s: %w", id, err)
	}
	return record, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("%w: id is required", domain.ErrInvalidRecord)
	}
	if err := s.store.DeleteByID(ctx, id); err != nil {
		observe("delete", err)
		return fmt.Errorf("delete movie %s: %w", id, err)
	}
	observe("delete", nil)
	s.publish(CollectionEvent{Action: ActionDeleted, ID: id})
	return nil
}

func (s *Service) List(ctx context.Context) ([]domain.MovieRecord, error) {
	records, err := s.store.ListAll(ctx)
	observe("list", err)
	if err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}
	return records, nil
}

// SeedDefaults saves the starter collection, replacing existing copies.
func (s *Service) SeedDefaults(ctx context.Context) (int, error) {
	movies := DefaultMovies()
	for _, record := range movies {
		if err := s.store.Insert(ctx, record); err != nil {
			observe("insert", err)
			return 0, fmt.Errorf("seed movie %s: %w", record.ID, err)
		}
		observe("insert", nil)
	}
	s.publish(CollectionEvent{Action: ActionSeeded, Count: len(movies)})
	return len(movies), nil
}

func (s *Service) publish(event CollectionEvent) {
	if s.events != nil {
		s.events.PublishCollection(event)
	}
}

func observe(op string, err error) {
	result := "ok"
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrNotFound):
		result = "not_found"
	default:
		result = "error"
	}
	metrics.CollectionOpsTotal.WithLabelValues(op, result).Inc()
}
