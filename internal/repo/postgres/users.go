package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/geocoder89/bookapi/internal/domain/user"
	"github.com/geocoder89/bookapi/internal/observability"
	"github.com/geocoder89/bookapi/internal/utils"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `id, username, email, password_hash, token, refresh_token, created_at, updated_at`

type UsersRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func (r *UsersRepo) FindByUsernameOrEmail(ctx context.Context, username, email string) (user.User, error) {
	return r.getOne(ctx, "users.find_by_username_or_email",
		`SELECT `+userColumns+` FROM users WHERE username = $1 OR email = $2 ORDER BY created_at LIMIT 1`,
		username, email)
}

func (r *UsersRepo) GetByUsername(ctx context.Context, username string) (user.User, error) {
	return r.getOne(ctx, "users.get_by_username",
		`SELECT `+userColumns+` FROM users WHERE username = $1`,
		username)
}

func (r *UsersRepo) getOne(ctx context.Context, op, query string, args ...any) (user.User, error) {
	var u user.User

	err := r.prom.ObserveDB(op, func() error {
		return r.pool.QueryRow(ctx, query, args...).Scan(
			&u.ID,
			&u.Username,
			&u.Email,
			&u.PasswordHash,
			&u.Token,
			&u.RefreshToken,
			&u.CreatedAt,
			&u.UpdatedAt,
		)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, err
	}
	return u, nil
}

func (r *UsersRepo) Create(ctx context.Context, u user.User) (user.User, error) {
	now := time.Now().UTC()
	u.ID = utils.NewObjectID()
	u.CreatedAt, u.UpdatedAt = now, now

	err := r.prom.ObserveDB("users.create", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO users (id, username, email, password_hash, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			u.ID, u.Username, u.Email, u.PasswordHash, u.CreatedAt, u.UpdatedAt)
		return err
	})
	if err != nil {
		if constraint, ok := uniqueViolation(err); ok {
			if constraint == "users_email_key" {
				return user.User{}, user.ErrEmailTaken
			}
			return user.User{}, user.ErrUsernameTaken
		}
		return user.User{}, err
	}
	return u, nil
}

func (r *UsersRepo) UpdateTokens(ctx context.Context, id, token, refreshToken string) error {
	var affected int64

	err := r.prom.ObserveDB("users.update_tokens", func() error {
		tag, err := r.pool.Exec(ctx,
			`UPDATE users SET token = $2, refresh_token = $3, updated_at = now() WHERE id = $1`,
			id, token, refreshToken)
		affected = tag.RowsAffected()
		return err
	})
	if err != nil {
		return err
	}
	if affected == 0 {
		return user.ErrNotFound
	}
	return nil
}
