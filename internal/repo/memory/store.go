package memory

import (
	"context"
	"sync"

	"github.com/geocoder89/bookapi/internal/domain/author"
	"github.com/geocoder89/bookapi/internal/domain/book"
	"github.com/geocoder89/bookapi/internal/domain/genre"
	"github.com/geocoder89/bookapi/internal/domain/user"
	"github.com/geocoder89/bookapi/internal/repo"
)

// Store keeps every collection in process. Books are joined against the
// authors and genres maps, so all four share one lock. Each map has an
// order slice so listings come back in insertion order.
type Store struct {
	mu sync.RWMutex

	users     map[string]user.User
	userOrder []string

	authors     map[string]author.Author
	authorOrder []string

	genres     map[string]genre.Genre
	genreOrder []string

	books     map[string]book.Book
	bookOrder []string
}

func NewStore() *Store {
	return &Store{
		users:   make(map[string]user.User),
		authors: make(map[string]author.Author),
		genres:  make(map[string]genre.Genre),
		books:   make(map[string]book.Book),
	}
}

// Repositories exposes the store through the shared storage contract.
func (s *Store) Repositories() repo.Repositories {
	return repo.Repositories{
		Users:   &UsersRepo{s: s},
		Authors: &AuthorsRepo{s: s},
		Genres:  &GenresRepo{s: s},
		Books:   &BooksRepo{s: s},
		Ping:    func(context.Context) error { return nil },
		Close:   func(context.Context) error { return nil },
	}
}

func removeID(order []string, id string) []string {
	for i, v := range order {
		if v == id {
			return append(order[:i], order[i+1:]...)
		}
	}
	return order
}
