package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/geocoder89/bookapi/internal/observability"
	"github.com/geocoder89/bookapi/internal/repo"
	"github.com/geocoder89/bookapi/internal/repo/postgres/migrations"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

func NewPool(ctx context.Context, dbURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return nil, err
	}

	cfg.MaxConns = 5

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}

// Migrate applies the embedded goose migrations through a database/sql
// handle borrowed from the pool.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

type Store struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

// NewStore wraps an open pool. prom may be nil.
func NewStore(pool *pgxpool.Pool, prom *observability.Prom) *Store {
	return &Store{pool: pool, prom: prom}
}

func (s *Store) Repositories() repo.Repositories {
	return repo.Repositories{
		Users:   &UsersRepo{pool: s.pool, prom: s.prom},
		Authors: &AuthorsRepo{pool: s.pool, prom: s.prom},
		Genres:  &GenresRepo{pool: s.pool, prom: s.prom},
		Books:   &BooksRepo{pool: s.pool, prom: s.prom},
		Ping:    s.pool.Ping,
		Close: func(context.Context) error {
			s.pool.Close()
			return nil
		},
	}
}

// uniqueViolation reports the violated constraint name for a 23505 error.
func uniqueViolation(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return pgErr.ConstraintName, true
	}
	return "", false
}
