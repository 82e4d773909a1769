package author

import (
	"time"

	"github.com/geocoder89/bookapi/internal/utils"
)

func NewFromCreateRequest(req CreateAuthorRequest) Author {
	now := time.Now().UTC()

	return Author{
		ID:          utils.NewObjectID(),
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		FullName:    FullName(req.FirstName, req.LastName),
		Image:       req.Image,
		Nationality: req.Nationality,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
