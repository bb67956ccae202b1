package catalog

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"moviecatalog/catalogservice/internal/domain"
	"moviecatalog/catalogservice/internal/repository/memory"
	"moviecatalog/catalogservice/internal/search"
)

type fakeSearcher struct {
	title      []domain.MovieRecord
	actor      []domain.MovieRecord
	titleCalls int
	actorCalls int
}

func (f *fakeSearcher) StartTitleSearch(ctx context.Context, query string) *search.Pending {
	f.titleCalls++
	results := append([]domain.MovieRecord(nil), f.title...)
	return search.NewPending(func() []domain.MovieRecord { return results })
}

func (f *fakeSearcher) StartActorSearch(ctx context.Context, actor string) *search.Pending {
	f.actorCalls++
	results := append([]domain.MovieRecord(nil), f.actor...)
	return search.NewPending(func() []domain.MovieRecord { return results })
}

// blockedSearcher holds every search until release is closed.
type blockedSearcher struct {
	release chan struct{}
}

func (b *blockedSearcher) StartTitleSearch(ctx context.Context, query string) *search.Pending {
	return search.NewPending(func() []domain.MovieRecord {
		<-b.release
		return []domain.MovieRecord{{ID: "tt1"}}
	})
}

func (b *blockedSearcher) StartActorSearch(ctx context.Context, actor string) *search.Pending {
	return b.StartTitleSearch(ctx, actor)
}

type fakeLookup struct {
	records map[string]domain.MovieRecord
}

func (f *fakeLookup) FetchByTitle(ctx context.Context, title string) (domain.MovieRecord, bool) {
	_ = ctx
	record, ok := f.records[title]
	return record, ok
}

type failingStore struct {
	*memory.CollectionStore
	err error
}

func (f *failingStore) SearchByActor(ctx context.Context, actor string) ([]domain.MovieRecord, error) {
	return nil, f.err
}

func (f *failingStore) ListAll(ctx context.Context) ([]domain.MovieRecord, error) {
	return nil, f.err
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []CollectionEvent
}

func (p *recordingPublisher) PublishCollection(event CollectionEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func ids(records []domain.MovieRecord) string {
	out := make([]string, 0, len(records))
	for _, record := range records {
		out = append(out, record.ID)
	}
	return strings.Join(out, ",")
}

func TestSearchActorMergesSavedFirst(t *testing.T) {
	store := memory.NewCollectionStore()
	ctx := context.Background()
	_ = store.Insert(ctx, domain.MovieRecord{ID: "tt0133093", Title: "The Matrix (saved)", Actors: "Keanu Reeves"})
	_ = store.Insert(ctx, domain.MovieRecord{ID: "tt0111161", Title: "Shawshank", Actors: "Tim Robbins"})
	searcher := &fakeSearcher{actor: []domain.MovieRecord{
		{ID: "tt0133093", Title: "The Matrix (remote)", Actors: "Keanu Reeves"},
		{ID: "tt0234215", Title: "The Matrix Reloaded", Actors: "Keanu Reeves"},
	}}
	svc := NewService(store, searcher, &fakeLookup{})

	results, err := svc.SearchActor(ctx, "keanu")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := ids(results); got != "tt0133093,tt0234215" {
		t.Fatalf("expected tt0133093,tt0234215, got %s", got)
	}
	if results[0].Title != "The Matrix (saved)" {
		t.Fatalf("expected saved copy to win, got %q", results[0].Title)
	}
}

func TestSearchActorDegradesOnStoreFailure(t *testing.T) {
	store := &failingStore{CollectionStore: memory.NewCollectionStore(), err: errors.New("db down")}
	searcher := &fakeSearcher{actor: []domain.MovieRecord{{ID: "tt1", Actors: "Someone"}}}
	svc := NewService(store, searcher, &fakeLookup{})

	results, err := svc.SearchActor(context.Background(), "someone")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := ids(results); got != "tt1" {
		t.Fatalf("expected remote results only, got %s", got)
	}
}

func TestSearchActorBlankSkipsEverything(t *testing.T) {
	searcher := &fakeSearcher{}
	svc := NewService(memory.NewCollectionStore(), searcher, &fakeLookup{})

	results, err := svc.SearchActor(context.Background(), "  ")
	if err != nil || len(results) != 0 {
		t.Fatalf("expected empty result, got %v (%v)", results, err)
	}
	if searcher.actorCalls != 0 {
		t.Fatalf("expected no remote search")
	}
}

func TestSearchTitleIsRemoteOnly(t *testing.T) {
	store := memory.NewCollectionStore()
	_ = store.Insert(context.Background(), domain.MovieRecord{ID: "tt-local", Title: "Matrix fan cut"})
	searcher := &fakeSearcher{title: []domain.MovieRecord{{ID: "tt0133093", Title: "The Matrix"}}}
	svc := NewService(store, searcher, &fakeLookup{})

	results, err := svc.SearchTitle(context.Background(), "matrix")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := ids(results); got != "tt0133093" {
		t.Fatalf("expected remote result only, got %s", got)
	}
}

func TestSearchStopsWaitingWhenContextEnds(t *testing.T) {
	searcher := &blockedSearcher{release: make(chan struct{})}
	defer close(searcher.release)
	svc := NewService(memory.NewCollectionStore(), searcher, &fakeLookup{})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := svc.SearchTitle(ctx, "matrix"); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected DeadlineExceeded, got %v", err)
	}

	ctx2, cancel2 := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel2()
	if _, err := svc.SearchActor(ctx2, "keanu"); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected DeadlineExceeded, got %v", err)
	}
}

func TestSearchRejectsOverlongQuery(t *testing.T) {
	searcher := &fakeSearcher{}
	svc := NewService(memory.NewCollectionStore(), searcher, &fakeLookup{})
	long := strings.Repeat("x", search.MaxQueryLength+1)

	if _, err := svc.SearchTitle(context.Background(), long); !errors.Is(err, search.ErrQueryTooLong) {
		t.Fatalf("expected ErrQueryTooLong, got %v", err)
	}
	if _, err := svc.SearchActor(context.Background(), long); !errors.Is(err, search.ErrQueryTooLong) {
		t.Fatalf("expected ErrQueryTooLong, got %v", err)
	}
	if searcher.titleCalls+searcher.actorCalls != 0 {
		t.Fatalf("expected no searches for rejected queries")
	}
}

func TestLookupTitle(t *testing.T) {
	lookup := &fakeLookup{records: map[string]domain.MovieRecord{
		"Inception": {ID: "tt1375666", Title: "Inception"},
	}}
	svc := NewService(memory.NewCollectionStore(), &fakeSearcher{}, lookup)
	ctx := context.Background()

	record, err := svc.LookupTitle(ctx, " Inception ")
	if err != nil || record.ID != "tt1375666" {
		t.Fatalf("expected Inception, got %+v (%v)", record, err)
	}
	if _, err := svc.LookupTitle(ctx, "Nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.LookupTitle(ctx, ""); !errors.Is(err, search.ErrInvalidQuery) {
		t.Fatalf("expected ErrInvalidQuery, got %v", err)
	}
}

func TestSaveDeleteList(t *testing.T) {
	publisher := &recordingPublisher{}
	svc := NewService(memory.NewCollectionStore(), &fakeSearcher{}, &fakeLookup{}, WithEvents(publisher))
	ctx := context.Background()

	if err := svc.Save(ctx, domain.MovieRecord{ID: " tt1 ", Title: "One"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := svc.Save(ctx, domain.MovieRecord{Title: "No id"}); !errors.Is(err, domain.ErrInvalidRecord) {
		t.Fatalf("expected ErrInvalidRecord, got %v", err)
	}
	all, err := svc.List(ctx)
	if err != nil || ids(all) != "tt1" {
		t.Fatalf("expected [tt1], got %s (%v)", ids(all), err)
	}
	if err := svc.Delete(ctx, "tt1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(ctx, "tt1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := svc.Delete(ctx, " "); !errors.Is(err, domain.ErrInvalidRecord) {
		t.Fatalf("expected ErrInvalidRecord, got %v", err)
	}

	publisher.mu.Lock()
	defer publisher.mu.Unlock()
	if len(publisher.events) != 2 {
		t.Fatalf("expected 2 events, got %+v", publisher.events)
	}
	if publisher.events[0] != (CollectionEvent{Action: ActionSaved, ID: "tt1"}) {
		t.Fatalf("unexpected first event: %+v", publisher.events[0])
	}
	if publisher.events[1] != (CollectionEvent{Action: ActionDeleted, ID: "tt1"}) {
		t.Fatalf("unexpected second event: %+v", publisher.events[1])
	}
}

func TestGetSavedMovie(t *testing.T) {
	svc := NewService(memory.NewCollectionStore(), &fakeSearcher{}, &fakeLookup{})
	ctx := context.Background()

	if err := svc.Save(ctx, domain.MovieRecord{ID: "tt1375666", Title: "Inception"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	record, err := svc.Get(ctx, " tt1375666 ")
	if err != nil || record.Title != "Inception" {
		t.Fatalf("expected Inception, got %+v (%v)", record, err)
	}
	if _, err := svc.Get(ctx, "tt0000000"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.Get(ctx, ""); !errors.Is(err, domain.ErrInvalidRecord) {
		t.Fatalf("expected ErrInvalidRecord, got %v", err)
	}
}

func TestListPropagatesStoreError(t *testing.T) {
	store := &failingStore{CollectionStore: memory.NewCollectionStore(), err: errors.New("db down")}
	svc := NewService(store, &fakeSearcher{}, &fakeLookup{})
	if _, err := svc.List(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
}

func TestSeedDefaults(t *testing.T) {
	svc := NewService(memory.NewCollectionStore(), &fakeSearcher{}, &fakeLookup{})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		n, err := svc.SeedDefaults(ctx)
		if err != nil || n != 5 {
			t.Fatalf("seed: n=%d err=%v", n, err)
		}
	}
	all, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 5 {
		t.Fatalf("expected seeding to be idempotent with 5 movies, got %d", len(all))
	}

	results, err := svc.SearchActor(ctx, "keanu reeves")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if got := ids(results); got != "tt0133093" {
		t.Fatalf("expected the seeded Matrix, got %s", got)
	}
}
