package book

import (
	"errors"
	"time"

	"github.com/geocoder89/bookapi/internal/domain/author"
	"github.com/geocoder89/bookapi/internal/domain/genre"
	"github.com/geocoder89/bookapi/internal/utils"
)

var (
	ErrNotFound         = errors.New("book not found")
	ErrTitleTaken       = errors.New("book title already exists")
	ErrInvalidSortField = errors.New("invalid sort field")
)

// Book is the stored shape: author and genre are references by id.
type Book struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	AuthorID  string    `json:"author"`
	GenreID   string    `json:"genre,omitempty"`
	YearPub   string    `json:"yearPub,omitempty"`
	Image     string    `json:"image,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Detailed is a book with its author and genre references expanded.
// Either may be nil when the reference is unset or dangling.
type Detailed struct {
	ID        string         `json:"id"`
	Title     string         `json:"title"`
	Author    *author.Author `json:"author"`
	Genre     *genre.Genre   `json:"genre"`
	YearPub   string         `json:"yearPub,omitempty"`
	Image     string         `json:"image,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

type CreateBookRequest struct {
	Title   string `json:"title" binding:"required,max=200"`
	Author  string `json:"author" binding:"required,objectid"`
	Genre   string `json:"genre" binding:"omitempty,objectid"`
	YearPub string `json:"yearPub" binding:"omitempty,max=16"`
	Image   string `json:"image" binding:"omitempty,max=2048"`
}

// UpdateBookRequest is a partial update. An empty genre clears the reference.
type UpdateBookRequest struct {
	Title   *string `json:"title" binding:"omitempty,min=1,max=200"`
	Author  *string `json:"author" binding:"omitempty,objectid"`
	Genre   *string `json:"genre" binding:"omitempty,len=0|objectid"`
	YearPub *string `json:"yearPub" binding:"omitempty,max=16"`
	Image   *string `json:"image" binding:"omitempty,max=2048"`
}

func (req UpdateBookRequest) Apply(b Book) Book {
	if req.Title != nil {
		b.Title = *req.Title
	}
	if req.Author != nil {
		b.AuthorID = *req.Author
	}
	if req.Genre != nil {
		b.GenreID = *req.Genre
	}
	if req.YearPub != nil {
		b.YearPub = *req.YearPub
	}
	if req.Image != nil {
		b.Image = *req.Image
	}
	return b
}

func NewFromCreateRequest(req CreateBookRequest) Book {
	now := time.Now().UTC()

	return Book{
		ID:        utils.NewObjectID(),
		Title:     req.Title,
		AuthorID:  req.Author,
		GenreID:   req.Genre,
		YearPub:   req.YearPub,
		Image:     req.Image,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
