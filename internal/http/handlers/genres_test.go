package handlers_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/geocoder89/bookapi/internal/domain/genre"
	"github.com/geocoder89/bookapi/internal/http/handlers"
)

type fakeGenresRepo struct {
	existsFn func(ctx context.Context, name string) (bool, error)
	createFn func(ctx context.Context, req genre.CreateGenreRequest) (genre.Genre, error)
	listFn   func(ctx context.Context) ([]genre.Genre, error)
	getFn    func(ctx context.Context, id string) (genre.Genre, error)
	updateFn func(ctx context.Context, id string, req genre.UpdateGenreRequest) (genre.Genre, error)
	deleteFn func(ctx context.Context, id string) error
}

func (f *fakeGenresRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	if f.existsFn != nil {
		return f.existsFn(ctx, name)
	}
	return false, nil
}

func (f *fakeGenresRepo) Create(ctx context.Context, req genre.CreateGenreRequest) (genre.Genre, error) {
	if f.createFn != nil {
		return f.createFn(ctx, req)
	}
	return genre.NewFromCreateRequest(req), nil
}

func (f *fakeGenresRepo) List(ctx context.Context) ([]genre.Genre, error) {
	if f.listFn != nil {
		return f.listFn(ctx)
	}
	return []genre.Genre{}, nil
}

func (f *fakeGenresRepo) GetByID(ctx context.Context, id string) (genre.Genre, error) {
	if f.getFn != nil {
		return f.getFn(ctx, id)
	}
	return genre.Genre{}, genre.ErrNotFound
}

func (f *fakeGenresRepo) Update(ctx context.Context, id string, req genre.UpdateGenreRequest) (genre.Genre, error) {
	if f.updateFn != nil {
		return f.updateFn(ctx, id, req)
	}
	return genre.Genre{}, genre.ErrNotFound
}

func (f *fakeGenresRepo) Delete(ctx context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

func TestCreateGenreHandler(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		existing       string
		wantStatusCode int
		wantError      string
	}{
		{"success", `{"name":"Fantasy","description":"Swords"}`, "", http.StatusCreated, ""},
		{"duplicate", `{"name":"Fantasy"}`, "Fantasy", http.StatusBadRequest, "Genre Already Exist"},
		{"missing_name", `{"description":"x"}`, "", http.StatusBadRequest, "Invalid request body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeGenresRepo{
				existsFn: func(ctx context.Context, name string) (bool, error) {
					return tt.existing != "" && name == tt.existing, nil
				},
			}

			h := handlers.NewGenresHandler(fake)
			r := setupRouter(http.MethodPost, "/api/genres", h.CreateGenre)

			w := doJSON(r, http.MethodPost, "/api/genres", tt.body)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}

			resp := decode(t, w)
			if tt.wantError != "" && resp["error"] != tt.wantError {
				t.Fatalf("got error %v, want %q", resp["error"], tt.wantError)
			}
			if tt.wantStatusCode == http.StatusCreated && resp["message"] != "Genre created successfully" {
				t.Fatalf("unexpected message %v", resp["message"])
			}
		})
	}
}

func TestGenreReadHandlers(t *testing.T) {
	fantasy := genre.Genre{ID: validID, Name: "Fantasy"}
	fake := &fakeGenresRepo{
		listFn: func(ctx context.Context) ([]genre.Genre, error) {
			return []genre.Genre{fantasy}, nil
		},
		getFn: func(ctx context.Context, id string) (genre.Genre, error) {
			if id == fantasy.ID {
				return fantasy, nil
			}
			return genre.Genre{}, genre.ErrNotFound
		},
	}
	h := handlers.NewGenresHandler(fake)

	r := setupRouter(http.MethodGet, "/api/genres", h.ListGenres)
	w := doJSON(r, http.MethodGet, "/api/genres", "")
	resp := decode(t, w)
	if w.Code != http.StatusOK || resp["message"] != "Genres Retrieved Successfully" || resp["count"].(float64) != 1 {
		t.Fatalf("got %d %v", w.Code, resp)
	}

	r = setupRouter(http.MethodGet, "/api/genres/:genreId", h.GetGenre)
	w = doJSON(r, http.MethodGet, "/api/genres/"+validID, "")
	if w.Code != http.StatusOK || decode(t, w)["genre"].(map[string]any)["name"] != "Fantasy" {
		t.Fatalf("got %d %s", w.Code, w.Body.String())
	}

	w = doJSON(r, http.MethodGet, "/api/genres/"+missingID, "")
	if w.Code != http.StatusNotFound || decode(t, w)["error"] != "Genre ID does not exist" {
		t.Fatalf("got %d %s", w.Code, w.Body.String())
	}
}

func TestUpdateAndDeleteGenreHandlers(t *testing.T) {
	fake := &fakeGenresRepo{
		updateFn: func(ctx context.Context, id string, req genre.UpdateGenreRequest) (genre.Genre, error) {
			if id == missingID {
				return genre.Genre{}, genre.ErrNotFound
			}
			if req.Name != nil && *req.Name == "Horror" {
				return genre.Genre{}, genre.ErrAlreadyExists
			}
			return req.Apply(genre.Genre{ID: id, Name: "Fantasy"}), nil
		},
		deleteFn: func(ctx context.Context, id string) error {
			if id == missingID {
				return genre.ErrNotFound
			}
			return nil
		},
	}
	h := handlers.NewGenresHandler(fake)

	r := setupRouter(http.MethodPut, "/api/genres/:genreId", h.UpdateGenre)

	w := doJSON(r, http.MethodPut, "/api/genres/"+validID, `{"description":"Magic"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
	}
	g := decode(t, w)["genre"].(map[string]any)
	if g["name"] != "Fantasy" || g["description"] != "Magic" {
		t.Fatalf("partial update lost fields: %v", g)
	}

	if w := doJSON(r, http.MethodPut, "/api/genres/"+validID, `{"name":"Horror"}`); w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want 400", w.Code)
	}
	if w := doJSON(r, http.MethodPut, "/api/genres/"+missingID, `{"name":"Other"}`); w.Code != http.StatusNotFound {
		t.Fatalf("got status %d, want 404", w.Code)
	}

	r = setupRouter(http.MethodDelete, "/api/genres/:genreId", h.DeleteGenre)
	if w := doJSON(r, http.MethodDelete, "/api/genres/"+validID, ""); w.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", w.Code)
	}
	if w := doJSON(r, http.MethodDelete, "/api/genres/"+missingID, ""); w.Code != http.StatusNotFound {
		t.Fatalf("got status %d, want 404", w.Code)
	}
}
