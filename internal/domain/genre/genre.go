package genre

import (
	"errors"
	"time"

	"github.com/geocoder89/bookapi/internal/utils"
)

var (
	ErrNotFound      = errors.New("genre not found")
	ErrAlreadyExists = errors.New("genre already exists")
)

type Genre struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type CreateGenreRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description" binding:"omitempty,max=1000"`
}

type UpdateGenreRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
}

func (req UpdateGenreRequest) Apply(g Genre) Genre {
	if req.Name != nil {
		g.Name = *req.Name
	}
	if req.Description != nil {
		g.Description = *req.Description
	}
	return g
}

func NewFromCreateRequest(req CreateGenreRequest) Genre {
	now := time.Now().UTC()

	return Genre{
		ID:          utils.NewObjectID(),
		Name:        req.Name,
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
