package memory

import (
	"context"
	"time"

	"github.com/geocoder89/bookapi/internal/domain/user"
	"github.com/geocoder89/bookapi/internal/utils"
)

type UsersRepo struct {
	s *Store
}

func (r *UsersRepo) FindByUsernameOrEmail(_ context.Context, username, email string) (user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, id := range r.s.userOrder {
		u := r.s.users[id]
		if u.Username == username || u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (r *UsersRepo) GetByUsername(_ context.Context, username string) (user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (r *UsersRepo) Create(_ context.Context, u user.User) (user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.users {
		if existing.Email == u.Email {
			return user.User{}, user.ErrEmailTaken
		}
		if existing.Username == u.Username {
			return user.User{}, user.ErrUsernameTaken
		}
	}

	now := time.Now().UTC()
	if u.ID == "" {
		u.ID = utils.NewObjectID()
	}
	u.CreatedAt = now
	u.UpdatedAt = now

	r.s.users[u.ID] = u
	r.s.userOrder = append(r.s.userOrder, u.ID)

	return u, nil
}

func (r *UsersRepo) UpdateTokens(_ context.Context, id, token, refreshToken string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return user.ErrNotFound
	}

	u.Token = token
	u.RefreshToken = refreshToken
	u.UpdatedAt = time.Now().UTC()
	r.s.users[id] = u

	return nil
}
