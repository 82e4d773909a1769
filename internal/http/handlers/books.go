package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/geocoder89/bookapi/internal/config"
	"github.com/geocoder89/bookapi/internal/domain/book"
	"github.com/gin-gonic/gin"
)

type BookStore interface {
	ExistsByTitle(ctx context.Context, title string) (bool, error)
	Create(ctx context.Context, req book.CreateBookRequest) (book.Book, error)
	List(ctx context.Context, filter book.ListFilter) ([]book.Detailed, error)
	GetByID(ctx context.Context, id string) (book.Detailed, error)
	Update(ctx context.Context, id string, req book.UpdateBookRequest) (book.Book, error)
	Delete(ctx context.Context, id string) error
}

type BooksHandler struct {
	repo BookStore
}

func NewBooksHandler(repo BookStore) *BooksHandler {
	return &BooksHandler{repo: repo}
}

const (
	bookTitleTaken = "Book Title Already Exist"
	bookNotFound   = "Book ID does not exist"
)

func (h *BooksHandler) CreateBook(ctx *gin.Context) {
	var req book.CreateBookRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	taken, err := h.repo.ExistsByTitle(cctx, req.Title)
	if err != nil {
		RespondInternal(ctx, err)
		return
	}
	if taken {
		RespondConflict(ctx, bookTitleTaken)
		return
	}

	b, err := h.repo.Create(cctx, req)
	if err != nil {
		if errors.Is(err, book.ErrTitleTaken) {
			RespondConflict(ctx, bookTitleTaken)
			return
		}
		RespondInternal(ctx, err)
		return
	}

	auditLog(ctx, "book created", "book_id", b.ID)

	ctx.JSON(http.StatusCreated, gin.H{
		"message": "Book created successfully",
		"book":    b,
	})
}

// ListBooks answers GET /api/books?title=&author=&genre=&sortBy=&sortOrder=
// with the whole matching set.
func (h *BooksHandler) ListBooks(ctx *gin.Context) {
	filter, err := book.NewListFilter(
		ctx.Query("title"),
		ctx.Query("author"),
		ctx.Query("genre"),
		ctx.Query("sortBy"),
		ctx.Query("sortOrder"),
	)
	if err != nil {
		RespondBadRequest(ctx, "Invalid sortBy value", gin.H{
			"allowed": []book.SortField{
				book.SortTitle, book.SortYearPub, book.SortCreatedAt,
				book.SortUpdatedAt, book.SortAuthor, book.SortGenre,
			},
		})
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 5*time.Second)
	defer cancel()

	books, err := h.repo.List(cctx, filter)
	if err != nil {
		RespondInternal(ctx, err)
		return
	}

	RespondCatalogRead(ctx, gin.H{
		"message": "Books Retrieved Successfully",
		"books":   books,
		"count":   len(books),
	})
}

func (h *BooksHandler) GetBook(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	b, err := h.repo.GetByID(cctx, ctx.Param("bookId"))
	if err != nil {
		if errors.Is(err, book.ErrNotFound) {
			RespondNotFound(ctx, bookNotFound)
			return
		}
		RespondInternal(ctx, err)
		return
	}

	RespondCatalogRead(ctx, gin.H{
		"message": "Book retrieved successfully",
		"book":    b,
	})
}

func (h *BooksHandler) UpdateBook(ctx *gin.Context) {
	var req book.UpdateBookRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	b, err := h.repo.Update(cctx, ctx.Param("bookId"), req)
	if err != nil {
		switch {
		case errors.Is(err, book.ErrNotFound):
			RespondNotFound(ctx, bookNotFound)
		case errors.Is(err, book.ErrTitleTaken):
			RespondConflict(ctx, bookTitleTaken)
		default:
			RespondInternal(ctx, err)
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Book updated successfully",
		"book":    b,
	})
}

func (h *BooksHandler) DeleteBook(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	if err := h.repo.Delete(cctx, ctx.Param("bookId")); err != nil {
		if errors.Is(err, book.ErrNotFound) {
			RespondNotFound(ctx, bookNotFound)
			return
		}
		RespondInternal(ctx, err)
		return
	}

	auditLog(ctx, "book deleted", "book_id", ctx.Param("bookId"))

	ctx.JSON(http.StatusOK, gin.H{"message": "Book deleted successfully"})
}
