package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/geocoder89/bookapi/internal/config"
	"github.com/geocoder89/bookapi/internal/domain/author"
	"github.com/gin-gonic/gin"
)

type AuthorStore interface {
	ExistsByFullName(ctx context.Context, fullName string) (bool, error)
	Create(ctx context.Context, req author.CreateAuthorRequest) (author.Author, error)
	List(ctx context.Context) ([]author.Author, error)
	GetByID(ctx context.Context, id string) (author.Author, error)
	Update(ctx context.Context, id string, req author.UpdateAuthorRequest) (author.Author, error)
	Delete(ctx context.Context, id string) error
}

type AuthorsHandler struct {
	repo AuthorStore
}

func NewAuthorsHandler(repo AuthorStore) *AuthorsHandler {
	return &AuthorsHandler{repo: repo}
}

const (
	authorExists   = "Author Already Exist"
	authorNotFound = "Author ID does not exist"
)

func (h *AuthorsHandler) ListAuthors(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	authors, err := h.repo.List(cctx)
	if err != nil {
		RespondInternal(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Authors Retrieved Successfully",
		"authors": authors,
		"count":   len(authors),
	})
}

// CreateAuthor treats "firstName lastName" as the natural key.
func (h *AuthorsHandler) CreateAuthor(ctx *gin.Context) {
	var req author.CreateAuthorRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	taken, err := h.repo.ExistsByFullName(cctx, author.FullName(req.FirstName, req.LastName))
	if err != nil {
		RespondInternal(ctx, err)
		return
	}
	if taken {
		RespondConflict(ctx, authorExists)
		return
	}

	a, err := h.repo.Create(cctx, req)
	if err != nil {
		if errors.Is(err, author.ErrAlreadyExists) {
			RespondConflict(ctx, authorExists)
			return
		}
		RespondInternal(ctx, err)
		return
	}

	auditLog(ctx, "author created", "author_id", a.ID)

	ctx.JSON(http.StatusCreated, gin.H{
		"message": "Author created successfully",
		"author":  a,
	})
}

func (h *AuthorsHandler) GetAuthor(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	a, err := h.repo.GetByID(cctx, ctx.Param("authorId"))
	if err != nil {
		if errors.Is(err, author.ErrNotFound) {
			RespondNotFound(ctx, authorNotFound)
			return
		}
		RespondInternal(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Author retrieved successfully",
		"author":  a,
	})
}

func (h *AuthorsHandler) UpdateAuthor(ctx *gin.Context) {
	var req author.UpdateAuthorRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	a, err := h.repo.Update(cctx, ctx.Param("authorId"), req)
	if err != nil {
		switch {
		case errors.Is(err, author.ErrNotFound):
			RespondNotFound(ctx, authorNotFound)
		case errors.Is(err, author.ErrAlreadyExists):
			RespondConflict(ctx, authorExists)
		default:
			RespondInternal(ctx, err)
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Author updated successfully",
		"author":  a,
	})
}

func (h *AuthorsHandler) DeleteAuthor(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	if err := h.repo.Delete(cctx, ctx.Param("authorId")); err != nil {
		if errors.Is(err, author.ErrNotFound) {
			RespondNotFound(ctx, authorNotFound)
			return
		}
		RespondInternal(ctx, err)
		return
	}

	auditLog(ctx, "author deleted", "author_id", ctx.Param("authorId"))

	ctx.JSON(http.StatusOK, gin.H{"message": "Author deleted successfully"})
}
