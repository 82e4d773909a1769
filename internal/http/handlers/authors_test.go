package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/geocoder89/bookapi/internal/domain/author"
	"github.com/geocoder89/bookapi/internal/http/handlers"
)

type fakeAuthorsRepo struct {
	existsFn func(ctx context.Context, fullName string) (bool, error)
	createFn func(ctx context.Context, req author.CreateAuthorRequest) (author.Author, error)
	listFn   func(ctx context.Context) ([]author.Author, error)
	getFn    func(ctx context.Context, id string) (author.Author, error)
	updateFn func(ctx context.Context, id string, req author.UpdateAuthorRequest) (author.Author, error)
	deleteFn func(ctx context.Context, id string) error
}

func (f *fakeAuthorsRepo) ExistsByFullName(ctx context.Context, fullName string) (bool, error) {
	if f.existsFn != nil {
		return f.existsFn(ctx, fullName)
	}
	return false, nil
}

func (f *fakeAuthorsRepo) Create(ctx context.Context, req author.CreateAuthorRequest) (author.Author, error) {
	if f.createFn != nil {
		return f.createFn(ctx, req)
	}
	return author.NewFromCreateRequest(req), nil
}

func (f *fakeAuthorsRepo) List(ctx context.Context) ([]author.Author, error) {
	if f.listFn != nil {
		return f.listFn(ctx)
	}
	return []author.Author{}, nil
}

func (f *fakeAuthorsRepo) GetByID(ctx context.Context, id string) (author.Author, error) {
	if f.getFn != nil {
		return f.getFn(ctx, id)
	}
	return author.Author{}, author.ErrNotFound
}

func (f *fakeAuthorsRepo) Update(ctx context.Context, id string, req author.UpdateAuthorRequest) (author.Author, error) {
	if f.updateFn != nil {
		return f.updateFn(ctx, id, req)
	}
	return author.Author{}, author.ErrNotFound
}

func (f *fakeAuthorsRepo) Delete(ctx context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

func TestCreateAuthorHandler(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		repoSetup      func(*fakeAuthorsRepo)
		wantStatusCode int
		wantError      string
	}{
		{
			name:           "success",
			body:           `{"firstName":"Frank","lastName":"Herbert","nationality":"American"}`,
			wantStatusCode: http.StatusCreated,
		},
		{
			name: "duplicate_full_name",
			body: `{"firstName":"Frank","lastName":"Herbert"}`,
			repoSetup: func(f *fakeAuthorsRepo) {
				f.existsFn = func(ctx context.Context, fullName string) (bool, error) {
					return fullName == "Frank Herbert", nil
				}
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "Author Already Exist",
		},
		{
			name:           "missing_last_name",
			body:           `{"firstName":"Frank"}`,
			wantStatusCode: http.StatusBadRequest,
			wantError:      "Invalid request body",
		},
		{
			name: "exists_check_fails",
			body: `{"firstName":"Frank","lastName":"Herbert"}`,
			repoSetup: func(f *fakeAuthorsRepo) {
				f.existsFn = func(ctx context.Context, fullName string) (bool, error) {
					return false, errors.New("db error")
				}
			},
			wantStatusCode: http.StatusInternalServerError,
			wantError:      "db error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeAuthorsRepo{}
			if tt.repoSetup != nil {
				tt.repoSetup(fake)
			}

			h := handlers.NewAuthorsHandler(fake)
			r := setupRouter(http.MethodPost, "/api/authors", h.CreateAuthor)

			w := doJSON(r, http.MethodPost, "/api/authors", tt.body)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}

			resp := decode(t, w)
			if tt.wantError != "" && resp["error"] != tt.wantError {
				t.Fatalf("got error %v, want %q", resp["error"], tt.wantError)
			}
			if tt.wantStatusCode == http.StatusCreated {
				a := resp["author"].(map[string]any)
				if a["fullName"] != "Frank Herbert" {
					t.Fatalf("unexpected fullName %v", a["fullName"])
				}
			}
		})
	}
}

func TestListAuthorsHandler(t *testing.T) {
	fake := &fakeAuthorsRepo{
		listFn: func(ctx context.Context) ([]author.Author, error) {
			return []author.Author{
				{ID: validID, FirstName: "Frank", LastName: "Herbert", FullName: "Frank Herbert"},
				{ID: missingID, FirstName: "Ursula", LastName: "Le Guin", FullName: "Ursula Le Guin"},
			}, nil
		},
	}

	h := handlers.NewAuthorsHandler(fake)
	r := setupRouter(http.MethodGet, "/api/authors", h.ListAuthors)

	w := doJSON(r, http.MethodGet, "/api/authors", "")
	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", w.Code)
	}

	resp := decode(t, w)
	if resp["message"] != "Authors Retrieved Successfully" || resp["count"].(float64) != 2 {
		t.Fatalf("unexpected body %v", resp)
	}
}

func TestUpdateAuthorHandler(t *testing.T) {
	fake := &fakeAuthorsRepo{
		updateFn: func(ctx context.Context, id string, req author.UpdateAuthorRequest) (author.Author, error) {
			switch id {
			case missingID:
				return author.Author{}, author.ErrNotFound
			default:
				if req.FirstName != nil && *req.FirstName == "Ursula" {
					return author.Author{}, author.ErrAlreadyExists
				}
				return req.Apply(author.Author{ID: id, FirstName: "Frank", LastName: "Herbert"}), nil
			}
		},
	}

	h := handlers.NewAuthorsHandler(fake)
	r := setupRouter(http.MethodPut, "/api/authors/:authorId", h.UpdateAuthor)

	w := doJSON(r, http.MethodPut, "/api/authors/"+validID, `{"firstName":"Brian"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200, body=%s", w.Code, w.Body.String())
	}
	if got := decode(t, w)["author"].(map[string]any)["fullName"]; got != "Brian Herbert" {
		t.Fatalf("fullName not recomputed: %v", got)
	}

	w = doJSON(r, http.MethodPut, "/api/authors/"+missingID, `{"firstName":"Brian"}`)
	if w.Code != http.StatusNotFound || decode(t, w)["error"] != "Author ID does not exist" {
		t.Fatalf("got %d %s", w.Code, w.Body.String())
	}

	w = doJSON(r, http.MethodPut, "/api/authors/"+validID, `{"firstName":"Ursula"}`)
	if w.Code != http.StatusBadRequest || decode(t, w)["error"] != "Author Already Exist" {
		t.Fatalf("got %d %s", w.Code, w.Body.String())
	}
}

func TestDeleteAuthorHandler(t *testing.T) {
	fake := &fakeAuthorsRepo{
		deleteFn: func(ctx context.Context, id string) error {
			if id == missingID {
				return author.ErrNotFound
			}
			return nil
		},
	}

	h := handlers.NewAuthorsHandler(fake)
	r := setupRouter(http.MethodDelete, "/api/authors/:authorId", h.DeleteAuthor)

	w := doJSON(r, http.MethodDelete, "/api/authors/"+validID, "")
	if w.Code != http.StatusOK || decode(t, w)["message"] != "Author deleted successfully" {
		t.Fatalf("got %d %s", w.Code, w.Body.String())
	}

	w = doJSON(r, http.MethodDelete, "/api/authors/"+missingID, "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("got status %d, want 404", w.Code)
	}
}
