// Package repo describes the storage contract shared by the mongo, postgres
// and memory backends.
package repo

import (
	"context"

	"github.com/geocoder89/bookapi/internal/domain/author"
	"github.com/geocoder89/bookapi/internal/domain/book"
	"github.com/geocoder89/bookapi/internal/domain/genre"
	"github.com/geocoder89/bookapi/internal/domain/user"
)

type Users interface {
	FindByUsernameOrEmail(ctx context.Context, username, email string) (user.User, error)
	GetByUsername(ctx context.Context, username string) (user.User, error)
	Create(ctx context.Context, u user.User) (user.User, error)
	UpdateTokens(ctx context.Context, id, token, refreshToken string) error
}

type Authors interface {
	ExistsByFullName(ctx context.Context, fullName string) (bool, error)
	Create(ctx context.Context, req author.CreateAuthorRequest) (author.Author, error)
	List(ctx context.Context) ([]author.Author, error)
	GetByID(ctx context.Context, id string) (author.Author, error)
	Update(ctx context.Context, id string, req author.UpdateAuthorRequest) (author.Author, error)
	Delete(ctx context.Context, id string) error
}

type Genres interface {
	ExistsByName(ctx context.Context, name string) (bool, error)
	Create(ctx context.Context, req genre.CreateGenreRequest) (genre.Genre, error)
	List(ctx context.Context) ([]genre.Genre, error)
	GetByID(ctx context.Context, id string) (genre.Genre, error)
	Update(ctx context.Context, id string, req genre.UpdateGenreRequest) (genre.Genre, error)
	Delete(ctx context.Context, id string) error
}

type Books interface {
	ExistsByTitle(ctx context.Context, title string) (bool, error)
	Create(ctx context.Context, req book.CreateBookRequest) (book.Book, error)
	List(ctx context.Context, filter book.ListFilter) ([]book.Detailed, error)
	GetByID(ctx context.Context, id string) (book.Detailed, error)
	Update(ctx context.Context, id string, req book.UpdateBookRequest) (book.Book, error)
	Delete(ctx context.Context, id string) error
}

// Repositories is the set of stores the HTTP layer is wired with.
type Repositories struct {
	Users   Users
	Authors Authors
	Genres  Genres
	Books   Books

	// Ping backs the readiness check.
	Ping func(ctx context.Context) error
	// Close releases the underlying connection.
	Close func(ctx context.Context) error
}
