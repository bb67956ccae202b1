package search

import (
	"fmt"
	"reflect"
	"testing"

	"moviecatalog/catalogservice/internal/domain"
)

func TestMergeResultsLocalWins(t *testing.T) {
	local := []domain.MovieRecord{{ID: "a", Title: "local-a"}}
	remote := []domain.MovieRecord{
		{ID: "a", Title: "remote-a"},
		{ID: "b", Title: "remote-b"},
	}

	merged := MergeResults(local, remote)
	if len(merged) != 2 {
		t.Fatalf("expected 2 records, got %d", len(merged))
	}
	if merged[0].Title != "local-a" || merged[1].Title != "remote-b" {
		t.Fatalf("unexpected merge: %+v", merged)
	}
}

func TestMergeResultsDoesNotMutateInputs(t *testing.T) {
	local := []domain.MovieRecord{{ID: "x"}, {ID: "x"}}
	remote := []domain.MovieRecord{{ID: "y"}, {ID: "x"}}
	localCopy := append([]domain.MovieRecord(nil), local...)
	remoteCopy := append([]domain.MovieRecord(nil), remote...)

	_ = MergeResults(local, remote)
	if !reflect.DeepEqual(local, localCopy) || !reflect.DeepEqual(remote, remoteCopy) {
		t.Fatalf("inputs were modified")
	}
}

func TestMergeResultsEmptyInputs(t *testing.T) {
	if merged := MergeResults(nil, nil); len(merged) != 0 {
		t.Fatalf("expected empty merge, got %+v", merged)
	}
	remote := []domain.MovieRecord{{ID: "r1"}, {ID: "r2"}}
	if merged := MergeResults(nil, remote); !reflect.DeepEqual(merged, remote) {
		t.Fatalf("expected remote records unchanged, got %+v", merged)
	}
}

func TestMergeResultsDropsBlankIDs(t *testing.T) {
	merged := MergeResults([]domain.MovieRecord{{Title: "no id"}}, []domain.MovieRecord{{ID: "b"}})
	if len(merged) != 1 || merged[0].ID != "b" {
		t.Fatalf("expected only b, got %+v", merged)
	}
}

func TestMergeResultsProperties(t *testing.T) {
	for seed := 0; seed < 50; seed++ {
		local := make([]domain.MovieRecord, 0, seed%7)
		for i := 0; i < seed%7; i++ {
			local = append(local, domain.MovieRecord{ID: fmt.Sprintf("id%d", (i*seed)%5), Title: "local"})
		}
		remote := make([]domain.MovieRecord, 0, seed%9)
		for i := 0; i < seed%9; i++ {
			remote = append(remote, domain.MovieRecord{ID: fmt.Sprintf("id%d", (i+seed)%8), Title: "remote"})
		}

		merged := MergeResults(local, remote)
		if len(merged) > len(local)+len(remote) {
			t.Fatalf("seed %d: merged longer than inputs", seed)
		}
		assertUniqueIDs(t, merged)

		localIDs := make(map[string]bool)
		for _, record := range local {
			localIDs[record.ID] = true
		}
		remoteIDs := make(map[string]bool)
		for _, record := range remote {
			remoteIDs[record.ID] = true
		}
		for _, record := range merged {
			if !localIDs[record.ID] && !remoteIDs[record.ID] {
				t.Fatalf("seed %d: id %s not present in inputs", seed, record.ID)
			}
			if localIDs[record.ID] && record.Title != "local" {
				t.Fatalf("seed %d: id %s should come from local", seed, record.ID)
			}
		}
	}
}
