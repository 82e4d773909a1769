package memory

import (
	"context"
	"time"

	"github.com/geocoder89/bookapi/internal/domain/genre"
)

type GenresRepo struct {
	s *Store
}

func (r *GenresRepo) ExistsByName(_ context.Context, name string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return r.nameTaken(name, ""), nil
}

func (r *GenresRepo) nameTaken(name, exceptID string) bool {
	for id, g := range r.s.genres {
		if id != exceptID && g.Name == name {
			return true
		}
	}
	return false
}

func (r *GenresRepo) Create(_ context.Context, req genre.CreateGenreRequest) (genre.Genre, error) {
	g := genre.NewFromCreateRequest(req)

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.nameTaken(g.Name, "") {
		return genre.Genre{}, genre.ErrAlreadyExists
	}

	r.s.genres[g.ID] = g
	r.s.genreOrder = append(r.s.genreOrder, g.ID)

	return g, nil
}

func (r *GenresRepo) List(_ context.Context) ([]genre.Genre, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]genre.Genre, 0, len(r.s.genreOrder))
	for _, id := range r.s.genreOrder {
		out = append(out, r.s.genres[id])
	}
	return out, nil
}

func (r *GenresRepo) GetByID(_ context.Context, id string) (genre.Genre, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	g, ok := r.s.genres[id]
	if !ok {
		return genre.Genre{}, genre.ErrNotFound
	}
	return g, nil
}

func (r *GenresRepo) Update(_ context.Context, id string, req genre.UpdateGenreRequest) (genre.Genre, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.genres[id]
	if !ok {
		return genre.Genre{}, genre.ErrNotFound
	}

	updated := req.Apply(current)
	if r.nameTaken(updated.Name, id) {
		return genre.Genre{}, genre.ErrAlreadyExists
	}

	updated.UpdatedAt = time.Now().UTC()
	r.s.genres[id] = updated

	return updated, nil
}

func (r *GenresRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.genres[id]; !ok {
		return genre.ErrNotFound
	}

	delete(r.s.genres, id)
	r.s.genreOrder = removeID(r.s.genreOrder, id)

	return nil
}
