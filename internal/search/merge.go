package search

import "moviecatalog/catalogservice/internal/domain"

// MergeResults concatenates local and remote records and keeps the first
// record seen for each id, so local records win collisions. Records without
// an id are dropped. Inputs are not modified.
func MergeResults(local, remote []domain.MovieRecord) []domain.MovieRecord {
	merged := make([]domain.MovieRecord, 0, len(local)+len(remote))
	seen := make(map[string]struct{}, len(local)+len(remote))
	for _, group := range [2][]domain.MovieRecord{local, remote} {
		for _, record := range group {
			if record.ID == "" {
				continue
			}
			if _, dup := seen[record.ID]; dup {
				continue
			}
			seen[record.ID] = struct{}{}
			merged = append(merged, record)
		}
	}
	return merged
}
