package book

import "strings"

type SortField string

const (
	SortNone      SortField = ""
	SortTitle     SortField = "title"
	SortYearPub   SortField = "yearPub"
	SortCreatedAt SortField = "createdAt"
	SortUpdatedAt SortField = "updatedAt"
	SortAuthor    SortField = "author"
	SortGenre     SortField = "genre"
)

// ParseSortField maps the sortBy query parameter onto a known field.
func ParseSortField(raw string) (SortField, error) {
	switch f := SortField(strings.TrimSpace(raw)); f {
	case SortNone, SortTitle, SortYearPub, SortCreatedAt, SortUpdatedAt, SortAuthor, SortGenre:
		return f, nil
	default:
		return SortNone, ErrInvalidSortField
	}
}

// ListFilter holds the book listing query. Text filters are matched as
// case-insensitive substrings: Title against the book title, Author against
// the resolved author full name, Genre against the resolved genre name.
type ListFilter struct {
	Title  string
	Author string
	Genre  string
	SortBy SortField
	Desc   bool
}

// NewListFilter builds a filter from raw query values. Only "desc" flips
// the order; anything else sorts ascending.
func NewListFilter(title, author, genre, sortBy, sortOrder string) (ListFilter, error) {
	field, err := ParseSortField(sortBy)
	if err != nil {
		return ListFilter{}, err
	}

	return ListFilter{
		Title:  strings.TrimSpace(title),
		Author: strings.TrimSpace(author),
		Genre:  strings.TrimSpace(genre),
		SortBy: field,
		Desc:   strings.EqualFold(strings.TrimSpace(sortOrder), "desc"),
	}, nil
}
