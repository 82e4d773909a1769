package memory

import (
	"context"
	"time"

	"github.com/geocoder89/bookapi/internal/domain/author"
)

type AuthorsRepo struct {
	s *Store
}

func (r *AuthorsRepo) ExistsByFullName(_ context.Context, fullName string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return r.fullNameTaken(fullName, ""), nil
}

// fullNameTaken must be called with the lock held.
func (r *AuthorsRepo) fullNameTaken(fullName, exceptID string) bool {
	for id, a := range r.s.authors {
		if id != exceptID && a.FullName == fullName {
			return true
		}
	}
	return false
}

func (r *AuthorsRepo) Create(_ context.Context, req author.CreateAuthorRequest) (author.Author, error) {
	a := author.NewFromCreateRequest(req)

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.fullNameTaken(a.FullName, "") {
		return author.Author{}, author.ErrAlreadyExists
	}

	r.s.authors[a.ID] = a
	r.s.authorOrder = append(r.s.authorOrder, a.ID)

	return a, nil
}

func (r *AuthorsRepo) List(_ context.Context) ([]author.Author, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]author.Author, 0, len(r.s.authorOrder))
	for _, id := range r.s.authorOrder {
		out = append(out, r.s.authors[id])
	}
	return out, nil
}

func (r *AuthorsRepo) GetByID(_ context.Context, id string) (author.Author, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	a, ok := r.s.authors[id]
	if !ok {
		return author.Author{}, author.ErrNotFound
	}
	return a, nil
}

func (r *AuthorsRepo) Update(_ context.Context, id string, req author.UpdateAuthorRequest) (author.Author, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.authors[id]
	if !ok {
		return author.Author{}, author.ErrNotFound
	}

	updated := req.Apply(current)
	if r.fullNameTaken(updated.FullName, id) {
		return author.Author{}, author.ErrAlreadyExists
	}

	updated.UpdatedAt = time.Now().UTC()
	r.s.authors[id] = updated

	return updated, nil
}

func (r *AuthorsRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.authors[id]; !ok {
		return author.ErrNotFound
	}

	delete(r.s.authors, id)
	r.s.authorOrder = removeID(r.s.authorOrder, id)

	return nil
}
