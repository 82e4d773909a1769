package author

import (
	"errors"
	"time"
)

var (
	ErrNotFound      = errors.New("author not found")
	ErrAlreadyExists = errors.New("author already exists")
)

type Author struct {
	ID          string    `json:"id"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	FullName    string    `json:"fullName"`
	Image       string    `json:"image,omitempty"`
	Nationality string    `json:"nationality,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// FullName is the natural key used for duplicate detection.
func FullName(firstName, lastName string) string {
	return firstName + " " + lastName
}

type CreateAuthorRequest struct {
	FirstName   string `json:"firstName" binding:"required,max=100"`
	LastName    string `json:"lastName" binding:"required,max=100"`
	Image       string `json:"image" binding:"omitempty,max=2048"`
	Nationality string `json:"nationality" binding:"omitempty,max=100"`
}

// UpdateAuthorRequest is a partial update; nil fields are left untouched.
type UpdateAuthorRequest struct {
	FirstName   *string `json:"firstName" binding:"omitempty,min=1,max=100"`
	LastName    *string `json:"lastName" binding:"omitempty,min=1,max=100"`
	Image       *string `json:"image" binding:"omitempty,max=2048"`
	Nationality *string `json:"nationality" binding:"omitempty,max=100"`
}

// Apply returns a copy of a with the request's non-nil fields applied.
func (req UpdateAuthorRequest) Apply(a Author) Author {
	if req.FirstName != nil {
		a.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		a.LastName = *req.LastName
	}
	if req.Image != nil {
		a.Image = *req.Image
	}
	if req.Nationality != nil {
		a.Nationality = *req.Nationality
	}
	a.FullName = FullName(a.FirstName, a.LastName)
	return a
}
