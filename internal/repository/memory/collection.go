package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/cases"

	"moviecatalog/catalogservice/internal/domain"
)

type entry struct {
	record domain.MovieRecord
	seq    uint64
}

// CollectionStore keeps saved movies in process memory. Listing follows save
// order; re-saving an id moves it to the end.
type CollectionStore struct {
	mu      sync.RWMutex
	entries map[string]entry
	seq     uint64
}

func NewCollectionStore() *CollectionStore {
	return &CollectionStore{entries: make(map[string]entry)}
}

func (s *CollectionStore) Insert(ctx context.Context, record domain.MovieRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := record.Validate(); err != nil {
		return err
	}
	record.ID = strings.TrimSpace(record.ID)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.entries[record.ID] = entry{record: record, seq: s.seq}
	return nil
}

func (s *CollectionStore) Get(ctx context.Context, id string) (domain.MovieRecord, error) {
	if err := ctx.Err(); err != nil {
		return domain.MovieRecord{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[id]
	if !ok {
		return domain.MovieRecord{}, domain.ErrNotFound
	}
	return e.record, nil
}

func (s *CollectionStore) DeleteByID(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.entries, id)
	return nil
}

func (s *CollectionStore) ListAll(ctx context.Context) ([]domain.MovieRecord, error) {
	return s.filter(ctx, func(domain.MovieRecord) bool { return true })
}

// SearchByActor matches actor as a case-insensitive substring of the actors field.
func (s *CollectionStore) SearchByActor(ctx context.Context, actor string) ([]domain.MovieRecord, error) {
	actor = strings.TrimSpace(actor)
	if actor == "" {
		return []domain.MovieRecord{}, nil
	}
	needle := cases.Fold().String(actor)
	return s.filter(ctx, func(record domain.MovieRecord) bool {
		return strings.Contains(cases.Fold().String(record.Actors), needle)
	})
}

func (s *CollectionStore) filter(ctx context.Context, keep func(domain.MovieRecord) bool) ([]domain.MovieRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	matched := make([]entry, 0, len(s.entries))
	for _, e := range s.entries {
		if keep(e.record) {
			matched = append(matched, e)
		}
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool { return matched[i].seq < matched[j].seq })
	records := make([]domain.MovieRecord, 0, len(matched))
	for _, e := range matched {
		records = append(records, e.record)
	}
	return records, nil
}
