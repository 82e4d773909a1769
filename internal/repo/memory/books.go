package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/geocoder89/bookapi/internal/domain/book"
)

type BooksRepo struct {
	s *Store
}

func (r *BooksRepo) ExistsByTitle(_ context.Context, title string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return r.titleTaken(title, ""), nil
}

func (r *BooksRepo) titleTaken(title, exceptID string) bool {
	for id, b := range r.s.books {
		if id != exceptID && b.Title == title {
			return true
		}
	}
	return false
}

func (r *BooksRepo) Create(_ context.Context, req book.CreateBookRequest) (book.Book, error) {
	b := book.NewFromCreateRequest(req)

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.titleTaken(b.Title, "") {
		return book.Book{}, book.ErrTitleTaken
	}

	r.s.books[b.ID] = b
	r.s.bookOrder = append(r.s.bookOrder, b.ID)

	return b, nil
}

func (r *BooksRepo) List(_ context.Context, filter book.ListFilter) ([]book.Detailed, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]book.Detailed, 0, len(r.s.bookOrder))

	for _, id := range r.s.bookOrder {
		d := r.expand(r.s.books[id])

		// listing drops books whose author no longer resolves
		if d.Author == nil {
			continue
		}
		if !matches(d, filter) {
			continue
		}
		out = append(out, d)
	}

	if filter.SortBy != book.SortNone {
		sort.SliceStable(out, func(i, j int) bool {
			c := compareBy(filter.SortBy, out[i], out[j])
			if filter.Desc {
				return c > 0
			}
			return c < 0
		})
	}

	return out, nil
}

func (r *BooksRepo) GetByID(_ context.Context, id string) (book.Detailed, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	b, ok := r.s.books[id]
	if !ok {
		return book.Detailed{}, book.ErrNotFound
	}
	return r.expand(b), nil
}

func (r *BooksRepo) Update(_ context.Context, id string, req book.UpdateBookRequest) (book.Book, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.books[id]
	if !ok {
		return book.Book{}, book.ErrNotFound
	}

	updated := req.Apply(current)
	if r.titleTaken(updated.Title, id) {
		return book.Book{}, book.ErrTitleTaken
	}

	updated.UpdatedAt = time.Now().UTC()
	r.s.books[id] = updated

	return updated, nil
}

func (r *BooksRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.books[id]; !ok {
		return book.ErrNotFound
	}

	delete(r.s.books, id)
	r.s.bookOrder = removeID(r.s.bookOrder, id)

	return nil
}

// expand must be called with the lock held.
func (r *BooksRepo) expand(b book.Book) book.Detailed {
	d := book.Detailed{
		ID:        b.ID,
		Title:     b.Title,
		YearPub:   b.YearPub,
		Image:     b.Image,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}

	if a, ok := r.s.authors[b.AuthorID]; ok {
		d.Author = &a
	}
	if g, ok := r.s.genres[b.GenreID]; ok && b.GenreID != "" {
		d.Genre = &g
	}
	return d
}

func matches(d book.Detailed, f book.ListFilter) bool {
	if f.Title != "" && !containsFold(d.Title, f.Title) {
		return false
	}
	if f.Author != "" && (d.Author == nil || !containsFold(d.Author.FullName, f.Author)) {
		return false
	}
	if f.Genre != "" && (d.Genre == nil || !containsFold(d.Genre.Name, f.Genre)) {
		return false
	}
	return true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func compareBy(field book.SortField, a, b book.Detailed) int {
	switch field {
	case book.SortTitle:
		return strings.Compare(a.Title, b.Title)
	case book.SortYearPub:
		return strings.Compare(a.YearPub, b.YearPub)
	case book.SortCreatedAt:
		return a.CreatedAt.Compare(b.CreatedAt)
	case book.SortUpdatedAt:
		return a.UpdatedAt.Compare(b.UpdatedAt)
	case book.SortAuthor:
		return strings.Compare(authorName(a), authorName(b))
	case book.SortGenre:
		return strings.Compare(genreName(a), genreName(b))
	default:
		return 0
	}
}

func authorName(d book.Detailed) string {
	if d.Author == nil {
		return ""
	}
	return d.Author.FullName
}

func genreName(d book.Detailed) string {
	if d.Genre == nil {
		return ""
	}
	return d.Genre.Name
}
