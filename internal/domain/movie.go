package domain

import (
	"fmt"
	"strings"
)

// MovieRecord is the canonical movie entity. ID is the upstream identifier
// (an IMDb id such as "tt0133093") and is stable across remote and stored copies.
type MovieRecord struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Year     string `json:"year"`
	Rated    string `json:"rated"`
	Released string `json:"released"`
	Runtime  string `json:"runtime"`
	Genre    string `json:"genre"`
	Director string `json:"director"`
	Writer   string `json:"writer"`
	Actors   string `json:"actors"`
	Plot     string `json:"plot"`
}

// Validate reports ErrInvalidRecord when the record cannot be identified.
func (m MovieRecord) Validate() error {
	if strings.TrimSpace(m.ID) == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidRecord)
	}
	return nil
}

// SearchStub is a partial entry returned by the paginated search endpoint.
type SearchStub struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Year  string `json:"year,omitempty"`
	Type  string `json:"type,omitempty"`
}

// SearchPage is one page of stubs plus the upstream's total result count.
type SearchPage struct {
	Stubs        []SearchStub `json:"stubs"`
	TotalResults int          `json:"totalResults"`
}

// HasMore reports whether pages beyond page remain, given pageSize entries per page.
func (p SearchPage) HasMore(page, pageSize int) bool {
	if pageSize <= 0 {
		return false
	}
	return page*pageSize < p.TotalResults
}
