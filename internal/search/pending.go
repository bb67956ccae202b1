package search

import (
	"context"

	"moviecatalog/catalogservice/internal/domain"
)

// Pending is a single aggregation running in the background. It is in
// flight until Done is closed; no other call shares its state.
type Pending struct {
	done    chan struct{}
	results []domain.MovieRecord
}

// StartTitleSearch runs SearchByTitle in the background.
func (s *Service) StartTitleSearch(ctx context.Context, query string) *Pending {
	return NewPending(func() []domain.MovieRecord { return s.SearchByTitle(ctx, query) })
}

// StartActorSearch runs SearchByActor in the background.
func (s *Service) StartActorSearch(ctx context.Context, actor string) *Pending {
	return NewPending(func() []domain.MovieRecord { return s.SearchByActor(ctx, actor) })
}

// NewPending starts run in its own goroutine.
func NewPending(run func() []domain.MovieRecord) *Pending {
	p := &Pending{done: make(chan struct{})}
	go func() {
		defer close(p.done)
		p.results = run()
	}()
	return p
}

func (p *Pending) Done() <-chan struct{} {
	return p.done
}

func (p *Pending) Busy() bool {
	select {
	case <-p.done:
		return false
	default:
		return true
	}
}

// Wait blocks until the aggregation finishes or ctx ends.
func (p *Pending) Wait(ctx context.Context) ([]domain.MovieRecord, error) {
	select {
	case <-p.done:
		return p.results, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
