package types

import (
	"math"
	"strconv"
	"strings"
)

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
	// MaxPage keeps (page-1)*limit inside an int for every accepted limit.
	MaxPage = math.MaxInt / MaxPageLimit
)

// Filter holds whitelisted equality filters taken from the query string.
type Filter map[string]string

// SortField is one ordering term of a list query.
type SortField struct {
	Field      string
	Descending bool
}

// ProjectionField includes or hides one field of each returned record.
type ProjectionField struct {
	Field   string
	Include bool
}

// QueryOptions are the pagination options a list request may carry.
type QueryOptions struct {
	Limit     int
	Page      int
	SortBy    []SortField
	ProjectBy []ProjectionField
}

// Offset is the number of records skipped before the current page.
func (o QueryOptions) Offset() int {
	if o.Page <= 1 || o.Limit <= 0 {
		return 0
	}
	if o.Page-1 > math.MaxInt/o.Limit {
		return math.MaxInt / o.Limit * o.Limit
	}
	return (o.Page - 1) * o.Limit
}

// ParseQueryOptions reads sortBy, limit, page and projectBy. Malformed values fall
// back to the defaults instead of failing the request.
func ParseQueryOptions(sortBy, limit, page, projectBy string) QueryOptions {
	opts := QueryOptions{
		Limit: DefaultPageLimit,
		Page:  1,
	}
	if n, err := strconv.Atoi(strings.TrimSpace(limit)); err == nil && n > 0 {
		opts.Limit = min(n, MaxPageLimit)
	}
	if n, err := strconv.Atoi(strings.TrimSpace(page)); err == nil && n > 0 {
		opts.Page = min(n, MaxPage)
	}

	for _, term := range splitTerms(sortBy) {
		field, dir, _ := strings.Cut(term, ":")
		opts.SortBy = append(opts.SortBy, SortField{
			Field:      field,
			Descending: strings.EqualFold(dir, "desc"),
		})
	}
	for _, term := range splitTerms(projectBy) {
		field, mode, _ := strings.Cut(term, ":")
		opts.ProjectBy = append(opts.ProjectBy, ProjectionField{
			Field:   field,
			Include: !strings.EqualFold(mode, "hide"),
		})
	}
	return opts
}

func splitTerms(raw string) []string {
	var terms []string
	for _, term := range strings.Split(raw, ",") {
		term = strings.TrimSpace(term)
		if term == "" || strings.HasPrefix(term, ":") {
			continue
		}
		terms = append(terms, term)
	}
	return terms
}

// Page is one slice of a list query together with the total match count.
type Page[T any] struct {
	Items  []T
	Count  int64
	Offset int
	Limit  int
}
