package postgres

import (
	"context"
	"errors"

	"github.com/geocoder89/bookapi/internal/domain/genre"
	"github.com/geocoder89/bookapi/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const genreColumns = `id, name, description, created_at, updated_at`

type GenresRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func scanGenre(row pgx.Row) (genre.Genre, error) {
	var g genre.Genre
	err := row.Scan(&g.ID, &g.Name, &g.Description, &g.CreatedAt, &g.UpdatedAt)
	return g, err
}

func (r *GenresRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	var found bool
	err := r.prom.ObserveDB("genres.exists_by_name", func() error {
		return r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM genres WHERE name = $1)`, name).Scan(&found)
	})
	return found, err
}

func (r *GenresRepo) Create(ctx context.Context, req genre.CreateGenreRequest) (genre.Genre, error) {
	g := genre.NewFromCreateRequest(req)

	err := r.prom.ObserveDB("genres.create", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO genres (id, name, description, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`,
			g.ID, g.Name, g.Description, g.CreatedAt, g.UpdatedAt)
		return err
	})
	if err != nil {
		if _, ok := uniqueViolation(err); ok {
			return genre.Genre{}, genre.ErrAlreadyExists
		}
		return genre.Genre{}, err
	}
	return g, nil
}

func (r *GenresRepo) List(ctx context.Context) ([]genre.Genre, error) {
	out := make([]genre.Genre, 0)

	err := r.prom.ObserveDB("genres.list", func() error {
		rows, err := r.pool.Query(ctx, `SELECT `+genreColumns+` FROM genres ORDER BY created_at ASC, id ASC`)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			g, err := scanGenre(rows)
			if err != nil {
				return err
			}
			out = append(out, g)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GenresRepo) GetByID(ctx context.Context, id string) (genre.Genre, error) {
	var g genre.Genre

	err := r.prom.ObserveDB("genres.get_by_id", func() error {
		var err error
		g, err = scanGenre(r.pool.QueryRow(ctx, `SELECT `+genreColumns+` FROM genres WHERE id = $1`, id))
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return genre.Genre{}, genre.ErrNotFound
		}
		return genre.Genre{}, err
	}
	return g, nil
}

func (r *GenresRepo) Update(ctx context.Context, id string, req genre.UpdateGenreRequest) (genre.Genre, error) {
	var g genre.Genre

	err := r.prom.ObserveDB("genres.update", func() error {
		var err error
		g, err = scanGenre(r.pool.QueryRow(ctx,
			`UPDATE genres SET
				name        = COALESCE($2, name),
				description = COALESCE($3, description),
				updated_at  = now()
			 WHERE id = $1
			 RETURNING `+genreColumns,
			id, req.Name, req.Description))
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return genre.Genre{}, genre.ErrNotFound
		}
		if _, ok := uniqueViolation(err); ok {
			return genre.Genre{}, genre.ErrAlreadyExists
		}
		return genre.Genre{}, err
	}
	return g, nil
}

func (r *GenresRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.pool, r.prom, "genres.delete", `DELETE FROM genres WHERE id = $1`, id, genre.ErrNotFound)
}
