package book

import (
	"testing"

	"github.com/geocoder89/bookapi/internal/utils"
)

func TestNewFromCreateRequest(t *testing.T) {
	req := CreateBookRequest{
		Title:   "Dune",
		Author:  "67f1b6a160b6731321647601",
		Genre:   "67f1b6a160b6731321647602",
		YearPub: "1965",
	}

	a := NewFromCreateRequest(req)
	b := NewFromCreateRequest(req)

	if !utils.IsObjectID(a.ID) {
		t.Fatalf("expected an object id, got %q", a.ID)
	}
	if a.ID == b.ID {
		t.Fatalf("expected a fresh id per book, got %q twice", a.ID)
	}
	if a.Title != "Dune" || a.AuthorID != req.Author || a.GenreID != req.Genre || a.YearPub != "1965" {
		t.Fatalf("request fields not copied: %+v", a)
	}
	if a.CreatedAt.IsZero() || !a.CreatedAt.Equal(a.UpdatedAt) {
		t.Fatalf("expected matching non-zero timestamps, got %v / %v", a.CreatedAt, a.UpdatedAt)
	}
}
