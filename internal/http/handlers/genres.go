package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/geocoder89/bookapi/internal/config"
	"github.com/geocoder89/bookapi/internal/domain/genre"
	"github.com/gin-gonic/gin"
)

type GenreStore interface {
	ExistsByName(ctx context.Context, name string) (bool, error)
	Create(ctx context.Context, req genre.CreateGenreRequest) (genre.Genre, error)
	List(ctx context.Context) ([]genre.Genre, error)
	GetByID(ctx context.Context, id string) (genre.Genre, error)
	Update(ctx context.Context, id string, req genre.UpdateGenreRequest) (genre.Genre, error)
	Delete(ctx context.Context, id string) error
}

type GenresHandler struct {
	repo GenreStore
}

func NewGenresHandler(repo GenreStore) *GenresHandler {
	return &GenresHandler{repo: repo}
}

const (
	genreExists   = "Genre Already Exist"
	genreNotFound = "Genre ID does not exist"
)

func (h *GenresHandler) ListGenres(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	genres, err := h.repo.List(cctx)
	if err != nil {
		RespondInternal(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Genres Retrieved Successfully",
		"genres":  genres,
		"count":   len(genres),
	})
}

func (h *GenresHandler) CreateGenre(ctx *gin.Context) {
	var req genre.CreateGenreRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	taken, err := h.repo.ExistsByName(cctx, req.Name)
	if err != nil {
		RespondInternal(ctx, err)
		return
	}
	if taken {
		RespondConflict(ctx, genreExists)
		return
	}

	g, err := h.repo.Create(cctx, req)
	if err != nil {
		if errors.Is(err, genre.ErrAlreadyExists) {
			RespondConflict(ctx, genreExists)
			return
		}
		RespondInternal(ctx, err)
		return
	}

	auditLog(ctx, "genre created", "genre_id", g.ID)

	ctx.JSON(http.StatusCreated, gin.H{
		"message": "Genre created successfully",
		"genre":   g,
	})
}

func (h *GenresHandler) GetGenre(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	g, err := h.repo.GetByID(cctx, ctx.Param("genreId"))
	if err != nil {
		if errors.Is(err, genre.ErrNotFound) {
			RespondNotFound(ctx, genreNotFound)
			return
		}
		RespondInternal(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Genre retrieved successfully",
		"genre":   g,
	})
}

func (h *GenresHandler) UpdateGenre(ctx *gin.Context) {
	var req genre.UpdateGenreRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	g, err := h.repo.Update(cctx, ctx.Param("genreId"), req)
	if err != nil {
		switch {
		case errors.Is(err, genre.ErrNotFound):
			RespondNotFound(ctx, genreNotFound)
		case errors.Is(err, genre.ErrAlreadyExists):
			RespondConflict(ctx, genreExists)
		default:
			RespondInternal(ctx, err)
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Genre updated successfully",
		"genre":   g,
	})
}

func (h *GenresHandler) DeleteGenre(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	if err := h.repo.Delete(cctx, ctx.Param("genreId")); err != nil {
		if errors.Is(err, genre.ErrNotFound) {
			RespondNotFound(ctx, genreNotFound)
			return
		}
		RespondInternal(ctx, err)
		return
	}

	auditLog(ctx, "genre deleted", "genre_id", ctx.Param("genreId"))

	ctx.JSON(http.StatusOK, gin.H{"message": "Genre deleted successfully"})
}
