package search

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/semaphore"

	"moviecatalog/catalogservice/internal/domain"
	"moviecatalog/catalogservice/internal/metrics"
)

// SearchByTitle pages through the upstream search, hydrating stubs whose
// title contains query until titleLimit records are collected or the
// upstream runs out. Output follows stub encounter order.
func (s *Service) SearchByTitle(ctx context.Context, query string) []domain.MovieRecord {
	query = strings.TrimSpace(query)
	if query == "" || s.catalog == nil {
		return []domain.MovieRecord{}
	}

	ctx, span := tracer.Start(ctx, "search.title")
	defer span.End()
	span.SetAttributes(attribute.String("search.query", query))

	done := s.track(kindTitle)
	results := make([]domain.MovieRecord, 0, s.titleLimit)
	defer func() { done(len(results)) }()

	seen := make(map[string]struct{}, s.titleLimit)
	pages := 0
	for page := 1; len(results) < s.titleLimit; page++ {
		if ctx.Err() != nil {
			break
		}
		lookup := s.catalog.LookupPage(ctx, query, page)
		pages++
		stubs := lookup.Stubs()
		if len(stubs) == 0 {
			s.logDropped(ctx, "search page", query, lookup.Status, lookup.Err)
			break
		}

		for _, stub := range stubs {
			if len(results) >= s.titleLimit {
				break
			}
			if !containsFold(stub.Title, query) {
				continue
			}
			if _, dup := seen[stub.ID]; dup {
				continue
			}
			record, ok := s.details(ctx, stub.ID)
			if !ok {
				continue
			}
			if _, dup := seen[record.ID]; dup {
				continue
			}
			seen[stub.ID] = struct{}{}
			seen[record.ID] = struct{}{}
			results = append(results, record)
		}

		if !lookup.Page.HasMore(page, s.pageSize) {
			break
		}
	}

	span.SetAttributes(
		attribute.Int("search.pages", pages),
		attribute.Int("search.results", len(results)),
	)
	return results
}

// SearchByActor reads the first actorPages search pages for actor, hydrates
// every stub with bounded parallelism and keeps records whose actors field
// contains actor. Output follows stub order regardless of fetch completion order.
func (s *Service) SearchByActor(ctx context.Context, actor string) []domain.MovieRecord {
	actor = strings.TrimSpace(actor)
	if actor == "" || s.catalog == nil {
		return []domain.MovieRecord{}
	}

	ctx, span := tracer.Start(ctx, "search.actor")
	defer span.End()
	span.SetAttributes(attribute.String("search.actor", actor))

	done := s.track(kindActor)
	results := make([]domain.MovieRecord, 0)
	defer func() { done(len(results)) }()

	stubs := s.collectStubs(ctx, actor, s.actorPages)
	lookups := s.fetchDetails(ctx, stubs)

	seen := make(map[string]struct{}, len(lookups))
	for _, lookup := range lookups {
		record, ok := lookup.Found()
		if !ok {
			continue
		}
		if !containsFold(record.Actors, actor) {
			continue
		}
		if _, dup := seen[record.ID]; dup {
			continue
		}
		seen[record.ID] = struct{}{}
		results = append(results, record)
	}

	span.SetAttributes(
		attribute.Int("search.stubs", len(stubs)),
		attribute.Int("search.results", len(results)),
	)
	return results
}

// collectStubs reads up to maxPages pages, dropping repeated ids.
func (s *Service) collectStubs(ctx context.Context, query string, maxPages int) []domain.SearchStub {
	var stubs []domain.SearchStub
	seen := make(map[string]struct{})
	for page := 1; page <= maxPages; page++ {
		if ctx.Err() != nil {
			break
		}
		lookup := s.catalog.LookupPage(ctx, query, page)
		pageStubs := lookup.Stubs()
		if len(pageStubs) == 0 {
			s.logDropped(ctx, "search page", query, lookup.Status, lookup.Err)
			break
		}
		for _, stub := range pageStubs {
			if _, dup := seen[stub.ID]; dup {
				continue
			}
			seen[stub.ID] = struct{}{}
			stubs = append(stubs, stub)
		}
		if !lookup.Page.HasMore(page, s.pageSize) {
			break
		}
	}
	return stubs
}

// fetchDetails hydrates stubs with at most detailConcurrency calls in flight.
// The returned slice is index-aligned with stubs.
func (s *Service) fetchDetails(ctx context.Context, stubs []domain.SearchStub) []domain.Lookup {
	lookups := make([]domain.Lookup, len(stubs))
	if len(stubs) == 0 {
		return lookups
	}

	sem := semaphore.NewWeighted(int64(s.detailConcurrency))
	var wg sync.WaitGroup
	for i, stub := range stubs {
		if err := sem.Acquire(ctx, 1); err != nil {
			// Context cancelled; remaining slots stay absent.
			for j := i; j < len(stubs); j++ {
				lookups[j] = domain.TransportError(err)
			}
			break
		}
		wg.Add(1)
		go func(index int, id string) {
			defer wg.Done()
			defer sem.Release(1)
			lookups[index] = s.lookupDetails(ctx, id)
		}(i, stub.ID)
	}
	wg.Wait()
	return lookups
}

func (s *Service) details(ctx context.Context, id string) (domain.MovieRecord, bool) {
	return s.lookupDetails(ctx, id).Found()
}

func (s *Service) lookupDetails(ctx context.Context, id string) domain.Lookup {
	lookup := s.catalog.LookupByID(ctx, id)
	if lookup.Status != domain.LookupFound {
		s.logDropped(ctx, "detail lookup", id, lookup.Status, lookup.Err)
	}
	return lookup
}

func (s *Service) logDropped(ctx context.Context, what, subject string, status domain.LookupStatus, err error) {
	attrs := []slog.Attr{
		slog.String("subject", truncate(subject, 80)),
		slog.String("status", string(status)),
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelDebug, what+" yielded no result", attrs...)
}

// track marks an aggregation as in flight and returns the function that
// records its completion.
func (s *Service) track(kind string) func(count int) {
	startedAt := time.Now()
	end := s.activity.Begin()
	return func(count int) {
		end()
		metrics.AggregationDuration.WithLabelValues(kind).Observe(time.Since(startedAt).Seconds())
		metrics.AggregationResults.WithLabelValues(kind).Observe(float64(count))
		s.logger.Debug("search aggregation finished",
			slog.String("kind", kind),
			slog.Int("results", count),
			slog.Int64("durationMs", time.Since(startedAt).Milliseconds()),
		)
	}
}

// truncate shortens value to at most limit bytes without splitting a rune.
func truncate(value string, limit int) string {
	if limit <= 0 || len(value) <= limit {
		return value
	}
	suffix := "..."
	if limit <= len(suffix) {
		suffix = ""
	}
	cut := limit - len(suffix)
	for cut > 0 && !utf8.RuneStart(value[cut]) {
		cut--
	}
	return value[:cut] + suffix
}
