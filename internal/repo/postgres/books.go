package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/geocoder89/bookapi/internal/domain/author"
	"github.com/geocoder89/bookapi/internal/domain/book"
	"github.com/geocoder89/bookapi/internal/domain/genre"
	"github.com/geocoder89/bookapi/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const bookColumns = `id, title, author_id, genre_id, year_pub, image, created_at, updated_at`

const detailedSelect = `SELECT
	b.id, b.title, b.year_pub, b.image, b.created_at, b.updated_at,
	a.id, a.first_name, a.last_name, a.full_name, a.image, a.nationality, a.created_at, a.updated_at,
	g.id, g.name, g.description, g.created_at, g.updated_at
FROM books b`

var sortColumns = map[book.SortField]string{
	book.SortTitle:     `b.title COLLATE "C"`,
	book.SortYearPub:   `b.year_pub COLLATE "C"`,
	book.SortCreatedAt: `b.created_at`,
	book.SortUpdatedAt: `b.updated_at`,
	book.SortAuthor:    `a.full_name COLLATE "C"`,
	book.SortGenre:     `g.name COLLATE "C"`,
}

type BooksRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func scanBook(row pgx.Row) (book.Book, error) {
	var (
		b       book.Book
		genreID *string
	)
	err := row.Scan(&b.ID, &b.Title, &b.AuthorID, &genreID, &b.YearPub, &b.Image, &b.CreatedAt, &b.UpdatedAt)
	if genreID != nil {
		b.GenreID = *genreID
	}
	return b, err
}

// scanDetailed reads a detailedSelect row. Joined columns are nullable so
// a dangling reference comes back as a nil author or genre.
func scanDetailed(row pgx.Row) (book.Detailed, error) {
	var (
		d book.Detailed

		aID, aFirst, aLast, aFull, aImage, aNationality *string
		aCreated, aUpdated                              *time.Time

		gID, gName, gDescription *string
		gCreated, gUpdated       *time.Time
	)

	err := row.Scan(
		&d.ID, &d.Title, &d.YearPub, &d.Image, &d.CreatedAt, &d.UpdatedAt,
		&aID, &aFirst, &aLast, &aFull, &aImage, &aNationality, &aCreated, &aUpdated,
		&gID, &gName, &gDescription, &gCreated, &gUpdated,
	)
	if err != nil {
		return book.Detailed{}, err
	}

	if aID != nil {
		d.Author = &author.Author{
			ID:          *aID,
			FirstName:   *aFirst,
			LastName:    *aLast,
			FullName:    *aFull,
			Image:       *aImage,
			Nationality: *aNationality,
			CreatedAt:   *aCreated,
			UpdatedAt:   *aUpdated,
		}
	}
	if gID != nil {
		d.Genre = &genre.Genre{
			ID:          *gID,
			Name:        *gName,
			Description: *gDescription,
			CreatedAt:   *gCreated,
			UpdatedAt:   *gUpdated,
		}
	}
	return d, nil
}

func (r *BooksRepo) ExistsByTitle(ctx context.Context, title string) (bool, error) {
	var found bool
	err := r.prom.ObserveDB("books.exists_by_title", func() error {
		return r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM books WHERE title = $1)`, title).Scan(&found)
	})
	return found, err
}

func (r *BooksRepo) Create(ctx context.Context, req book.CreateBookRequest) (book.Book, error) {
	b := book.NewFromCreateRequest(req)

	var genreID *string
	if b.GenreID != "" {
		genreID = &b.GenreID
	}

	err := r.prom.ObserveDB("books.create", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO books (id, title, author_id, genre_id, year_pub, image, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			b.ID, b.Title, b.AuthorID, genreID, b.YearPub, b.Image, b.CreatedAt, b.UpdatedAt)
		return err
	})
	if err != nil {
		if _, ok := uniqueViolation(err); ok {
			return book.Book{}, book.ErrTitleTaken
		}
		return book.Book{}, err
	}
	return b, nil
}

func (r *BooksRepo) List(ctx context.Context, filter book.ListFilter) ([]book.Detailed, error) {
	query, args := buildListQuery(filter)
	out := make([]book.Detailed, 0)

	err := r.prom.ObserveDB("books.list", func() error {
		rows, err := r.pool.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			d, err := scanDetailed(rows)
			if err != nil {
				return err
			}
			out = append(out, d)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// buildListQuery inner-joins authors (books with a dangling author are
// dropped) and left-joins genres. Filters are literal, case-insensitive
// substring matches.
func buildListQuery(f book.ListFilter) (string, []any) {
	query := detailedSelect + `
JOIN authors a ON a.id = b.author_id
LEFT JOIN genres g ON g.id = b.genre_id`

	var conds []string
	var args []any

	argsPosition := 1

	add := func(column, value string) {
		conds = append(conds, fmt.Sprintf("%s ILIKE $%d", column, argsPosition))
		args = append(args, "%"+escapeLike(value)+"%")
		argsPosition++
	}

	if f.Title != "" {
		add("b.title", f.Title)
	}
	if f.Author != "" {
		add("a.full_name", f.Author)
	}
	if f.Genre != "" {
		add("g.name", f.Genre)
	}

	if len(conds) > 0 {
		query += "\nWHERE " + strings.Join(conds, " AND ")
	}

	// missing genres sort first ascending and last descending
	order := "b.id ASC"
	if column, ok := sortColumns[f.SortBy]; ok {
		dir := "ASC NULLS FIRST"
		if f.Desc {
			dir = "DESC NULLS LAST"
		}
		order = column + " " + dir + ", " + order
	}

	return query + "\nORDER BY " + order, args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (r *BooksRepo) GetByID(ctx context.Context, id string) (book.Detailed, error) {
	var d book.Detailed

	err := r.prom.ObserveDB("books.get_by_id", func() error {
		var err error
		d, err = scanDetailed(r.pool.QueryRow(ctx, detailedSelect+`
LEFT JOIN authors a ON a.id = b.author_id
LEFT JOIN genres g ON g.id = b.genre_id
WHERE b.id = $1`, id))
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return book.Detailed{}, book.ErrNotFound
		}
		return book.Detailed{}, err
	}
	return d, nil
}

// Update applies the non-nil fields. An empty genre clears genre_id.
func (r *BooksRepo) Update(ctx context.Context, id string, req book.UpdateBookRequest) (book.Book, error) {
	var b book.Book

	err := r.prom.ObserveDB("books.update", func() error {
		var err error
		b, err = scanBook(r.pool.QueryRow(ctx,
			`UPDATE books SET
				title      = COALESCE($2, title),
				author_id  = COALESCE($3, author_id),
				genre_id   = CASE WHEN $4::text IS NULL THEN genre_id ELSE NULLIF($4::text, '') END,
				year_pub   = COALESCE($5, year_pub),
				image      = COALESCE($6, image),
				updated_at = now()
			 WHERE id = $1
			 RETURNING `+bookColumns,
			id, req.Title, req.Author, req.Genre, req.YearPub, req.Image))
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return book.Book{}, book.ErrNotFound
		}
		if _, ok := uniqueViolation(err); ok {
			return book.Book{}, book.ErrTitleTaken
		}
		return book.Book{}, err
	}
	return b, nil
}

func (r *BooksRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.pool, r.prom, "books.delete", `DELETE FROM books WHERE id = $1`, id, book.ErrNotFound)
}
