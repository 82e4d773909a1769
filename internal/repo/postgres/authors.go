package postgres

import (
	"context"
	"errors"

	"github.com/geocoder89/bookapi/internal/domain/author"
	"github.com/geocoder89/bookapi/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const authorColumns = `id, first_name, last_name, full_name, image, nationality, created_at, updated_at`

type AuthorsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func scanAuthor(row pgx.Row) (author.Author, error) {
	var a author.Author
	err := row.Scan(&a.ID, &a.FirstName, &a.LastName, &a.FullName, &a.Image, &a.Nationality, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

func (r *AuthorsRepo) ExistsByFullName(ctx context.Context, fullName string) (bool, error) {
	var found bool
	err := r.prom.ObserveDB("authors.exists_by_full_name", func() error {
		return r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM authors WHERE full_name = $1)`, fullName).Scan(&found)
	})
	return found, err
}

func (r *AuthorsRepo) Create(ctx context.Context, req author.CreateAuthorRequest) (author.Author, error) {
	a := author.NewFromCreateRequest(req)

	err := r.prom.ObserveDB("authors.create", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO authors (id, first_name, last_name, image, nationality, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			a.ID, a.FirstName, a.LastName, a.Image, a.Nationality, a.CreatedAt, a.UpdatedAt)
		return err
	})
	if err != nil {
		if _, ok := uniqueViolation(err); ok {
			return author.Author{}, author.ErrAlreadyExists
		}
		return author.Author{}, err
	}
	return a, nil
}

func (r *AuthorsRepo) List(ctx context.Context) ([]author.Author, error) {
	out := make([]author.Author, 0)

	err := r.prom.ObserveDB("authors.list", func() error {
		rows, err := r.pool.Query(ctx, `SELECT `+authorColumns+` FROM authors ORDER BY created_at ASC, id ASC`)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			a, err := scanAuthor(rows)
			if err != nil {
				return err
			}
			out = append(out, a)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *AuthorsRepo) GetByID(ctx context.Context, id string) (author.Author, error) {
	var a author.Author

	err := r.prom.ObserveDB("authors.get_by_id", func() error {
		var err error
		a, err = scanAuthor(r.pool.QueryRow(ctx, `SELECT `+authorColumns+` FROM authors WHERE id = $1`, id))
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return author.Author{}, author.ErrNotFound
		}
		return author.Author{}, err
	}
	return a, nil
}

// Update leaves nil fields untouched; full_name is a generated column and
// follows the new names.
func (r *AuthorsRepo) Update(ctx context.Context, id string, req author.UpdateAuthorRequest) (author.Author, error) {
	var a author.Author

	err := r.prom.ObserveDB("authors.update", func() error {
		var err error
		a, err = scanAuthor(r.pool.QueryRow(ctx,
			`UPDATE authors SET
				first_name  = COALESCE($2, first_name),
				last_name   = COALESCE($3, last_name),
				image       = COALESCE($4, image),
				nationality = COALESCE($5, nationality),
				updated_at  = now()
			 WHERE id = $1
			 RETURNING `+authorColumns,
			id, req.FirstName, req.LastName, req.Image, req.Nationality))
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return author.Author{}, author.ErrNotFound
		}
		if _, ok := uniqueViolation(err); ok {
			return author.Author{}, author.ErrAlreadyExists
		}
		return author.Author{}, err
	}
	return a, nil
}

func (r *AuthorsRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.pool, r.prom, "authors.delete", `DELETE FROM authors WHERE id = $1`, id, author.ErrNotFound)
}

func deleteByID(ctx context.Context, pool *pgxpool.Pool, prom *observability.Prom, op, query, id string, notFound error) error {
	var affected int64

	err := prom.ObserveDB(op, func() error {
		tag, err := pool.Exec(ctx, query, id)
		affected = tag.RowsAffected()
		return err
	})
	if err != nil {
		return err
	}
	if affected == 0 {
		return notFound
	}
	return nil
}
