package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/geocoder89/bookapi/internal/domain/user"
	"github.com/geocoder89/bookapi/internal/http/handlers"
	"github.com/geocoder89/bookapi/internal/security"
)

type fakeUsersRepo struct {
	findFn         func(ctx context.Context, username, email string) (user.User, error)
	getFn          func(ctx context.Context, username string) (user.User, error)
	createFn       func(ctx context.Context, u user.User) (user.User, error)
	updateTokensFn func(ctx context.Context, id, token, refreshToken string) error
}

func (f *fakeUsersRepo) FindByUsernameOrEmail(ctx context.Context, username, email string) (user.User, error) {
	if f.findFn != nil {
		return f.findFn(ctx, username, email)
	}
	return user.User{}, user.ErrNotFound
}

func (f *fakeUsersRepo) GetByUsername(ctx context.Context, username string) (user.User, error) {
	if f.getFn != nil {
		return f.getFn(ctx, username)
	}
	return user.User{}, user.ErrNotFound
}

func (f *fakeUsersRepo) Create(ctx context.Context, u user.User) (user.User, error) {
	if f.createFn != nil {
		return f.createFn(ctx, u)
	}
	return u, nil
}

func (f *fakeUsersRepo) UpdateTokens(ctx context.Context, id, token, refreshToken string) error {
	if f.updateTokensFn != nil {
		return f.updateTokensFn(ctx, id, token, refreshToken)
	}
	return nil
}

type fakeIssuer struct{}

func (fakeIssuer) GenerateAccessToken(userID, username string) (string, error) {
	return "access-" + username, nil
}

func (fakeIssuer) GenerateRefreshToken(userID, username string) (string, error) {
	return "refresh-" + username, nil
}

func TestRegisterHandler(t *testing.T) {
	existing := user.User{ID: validID, Username: "bookuser", Email: "book@example.com"}

	tests := []struct {
		name           string
		body           string
		repoSetup      func(*fakeUsersRepo)
		wantStatusCode int
		wantError      string
	}{
		{
			name: "success",
			body: `{"username":"newuser","email":"new@example.com","password":"secret1"}`,
			repoSetup: func(f *fakeUsersRepo) {
				f.createFn = func(ctx context.Context, u user.User) (user.User, error) {
					if u.PasswordHash == "" || u.PasswordHash == "secret1" {
						return user.User{}, errors.New("password was not hashed")
					}
					u.ID = missingID
					u.CreatedAt = time.Now().UTC()
					return u, nil
				}
			},
			wantStatusCode: http.StatusCreated,
		},
		{
			name: "duplicate_email",
			body: `{"username":"other","email":"book@example.com","password":"secret1"}`,
			repoSetup: func(f *fakeUsersRepo) {
				f.findFn = func(ctx context.Context, username, email string) (user.User, error) { return existing, nil }
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "Email already in use",
		},
		{
			name: "duplicate_username",
			body: `{"username":"bookuser","email":"fresh@example.com","password":"secret1"}`,
			repoSetup: func(f *fakeUsersRepo) {
				f.findFn = func(ctx context.Context, username, email string) (user.User, error) { return existing, nil }
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "Username already in use",
		},
		{
			name: "lost_race_on_unique_index",
			body: `{"username":"newuser","email":"new@example.com","password":"secret1"}`,
			repoSetup: func(f *fakeUsersRepo) {
				f.createFn = func(ctx context.Context, u user.User) (user.User, error) { return user.User{}, user.ErrUsernameTaken }
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "Username already in use",
		},
		{
			name:           "invalid_email",
			body:           `{"username":"newuser","email":"nope","password":"secret1"}`,
			wantStatusCode: http.StatusBadRequest,
			wantError:      "Invalid request body",
		},
		{
			name: "lookup_failure",
			body: `{"username":"newuser","email":"new@example.com","password":"secret1"}`,
			repoSetup: func(f *fakeUsersRepo) {
				f.findFn = func(ctx context.Context, username, email string) (user.User, error) {
					return user.User{}, errors.New("connection refused")
				}
			},
			wantStatusCode: http.StatusInternalServerError,
			wantError:      "connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeUsersRepo{}
			if tt.repoSetup != nil {
				tt.repoSetup(fake)
			}

			h := handlers.NewAuthHandler(fake, fakeIssuer{})
			r := setupRouter(http.MethodPost, "/api/register", h.Register)

			w := doJSON(r, http.MethodPost, "/api/register", tt.body)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}

			resp := decode(t, w)
			if tt.wantError != "" && resp["error"] != tt.wantError {
				t.Fatalf("got error %v, want %q", resp["error"], tt.wantError)
			}

			if tt.wantStatusCode == http.StatusCreated {
				if resp["message"] != "User Registered Successfully" {
					t.Fatalf("unexpected message %v", resp["message"])
				}
				view, ok := resp["userResponse"].(map[string]any)
				if !ok {
					t.Fatalf("missing userResponse: %v", resp)
				}
				if _, leaked := view["password"]; leaked {
					t.Fatalf("password leaked in response")
				}
				if view["username"] != "newuser" || view["id"] != missingID {
					t.Fatalf("unexpected userResponse %v", view)
				}
			}
		})
	}
}

func TestLoginHandler(t *testing.T) {
	hash, err := security.HashPassword("secret1")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	stored := user.User{ID: validID, Username: "bookuser", Email: "book@example.com", PasswordHash: hash}

	tests := []struct {
		name           string
		body           string
		wantStatusCode int
		wantError      string
	}{
		{"success", `{"username":"bookuser","password":"secret1"}`, http.StatusOK, ""},
		{"wrong_password", `{"username":"bookuser","password":"wrong"}`, http.StatusBadRequest, "Invalid Username or Password"},
		{"unknown_user", `{"username":"ghost","password":"secret1"}`, http.StatusNotFound, "Invalid Username or Password"},
		{"missing_fields", `{}`, http.StatusBadRequest, "Invalid request body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var savedToken, savedRefresh string

			fake := &fakeUsersRepo{
				getFn: func(ctx context.Context, username string) (user.User, error) {
					if username == stored.Username {
						return stored, nil
					}
					return user.User{}, user.ErrNotFound
				},
				updateTokensFn: func(ctx context.Context, id, token, refreshToken string) error {
					savedToken, savedRefresh = token, refreshToken
					return nil
				},
			}

			h := handlers.NewAuthHandler(fake, fakeIssuer{})
			r := setupRouter(http.MethodPost, "/api/login", h.Login)

			w := doJSON(r, http.MethodPost, "/api/login", tt.body)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}

			resp := decode(t, w)
			if tt.wantError != "" {
				if resp["error"] != tt.wantError {
					t.Fatalf("got error %v, want %q", resp["error"], tt.wantError)
				}
				return
			}

			if resp["message"] != "Login Successful" || resp["token"] != "access-bookuser" {
				t.Fatalf("unexpected body %v", resp)
			}
			if savedToken != "access-bookuser" || savedRefresh != "refresh-bookuser" {
				t.Fatalf("tokens not persisted: %q %q", savedToken, savedRefresh)
			}

			u, ok := resp["user"].(map[string]any)
			if !ok {
				t.Fatalf("missing user in response: %v", resp)
			}
			for _, hidden := range []string{"password", "passwordHash", "token", "refreshToken"} {
				if _, leaked := u[hidden]; leaked {
					t.Fatalf("%s leaked in login response", hidden)
				}
			}
		})
	}
}
