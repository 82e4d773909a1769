package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/geocoder89/bookapi/internal/config"
	"github.com/geocoder89/bookapi/internal/domain/user"
	"github.com/geocoder89/bookapi/internal/security"
	"github.com/gin-gonic/gin"
)

type UserStore interface {
	FindByUsernameOrEmail(ctx context.Context, username, email string) (user.User, error)
	GetByUsername(ctx context.Context, username string) (user.User, error)
	Create(ctx context.Context, u user.User) (user.User, error)
	UpdateTokens(ctx context.Context, id, token, refreshToken string) error
}

type TokenIssuer interface {
	GenerateAccessToken(userID, username string) (string, error)
	GenerateRefreshToken(userID, username string) (string, error)
}

type AuthHandler struct {
	users UserStore
	jwt   TokenIssuer
}

func NewAuthHandler(users UserStore, jwt TokenIssuer) *AuthHandler {
	return &AuthHandler{users: users, jwt: jwt}
}

const invalidCredentials = "Invalid Username or Password"

func (h *AuthHandler) Register(ctx *gin.Context) {
	var req user.RegisterRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	existing, err := h.users.FindByUsernameOrEmail(cctx, req.Username, req.Email)
	switch {
	case err == nil:
		if existing.Email == req.Email {
			RespondConflict(ctx, "Email already in use")
			return
		}
		RespondConflict(ctx, "Username already in use")
		return
	case !errors.Is(err, user.ErrNotFound):
		RespondInternal(ctx, err)
		return
	}

	hash, err := security.HashPassword(req.Password)
	if err != nil {
		RespondInternal(ctx, err)
		return
	}

	u, err := h.users.Create(cctx, user.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
	})
	if err != nil {
		// a concurrent registration can still win the unique index
		switch {
		case errors.Is(err, user.ErrEmailTaken):
			RespondConflict(ctx, "Email already in use")
		case errors.Is(err, user.ErrUsernameTaken):
			RespondConflict(ctx, "Username already in use")
		default:
			RespondInternal(ctx, err)
		}
		return
	}

	slog.Default().InfoContext(ctx.Request.Context(), "user registered", "user_id", u.ID)

	ctx.JSON(http.StatusCreated, gin.H{
		"message":      "User Registered Successfully",
		"userResponse": u.Redacted(),
	})
}

// Login issues a fresh access/refresh pair and stores both on the user,
// replacing whatever was issued before. An unknown username is a 404 and a
// wrong password a 400, with the same message.
func (h *AuthHandler) Login(ctx *gin.Context) {
	var req user.LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	found, err := h.users.GetByUsername(cctx, req.Username)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			RespondNotFound(ctx, invalidCredentials)
			return
		}
		RespondInternal(ctx, err)
		return
	}

	if err := security.CheckPassword(found.PasswordHash, req.Password); err != nil {
		if errors.Is(err, security.ErrPasswordMismatch) {
			RespondBadRequest(ctx, invalidCredentials, nil)
			return
		}
		RespondInternal(ctx, err)
		return
	}

	accessToken, err := h.jwt.GenerateAccessToken(found.ID, found.Username)
	if err != nil {
		RespondInternal(ctx, err)
		return
	}

	refreshToken, err := h.jwt.GenerateRefreshToken(found.ID, found.Username)
	if err != nil {
		RespondInternal(ctx, err)
		return
	}

	if err := h.users.UpdateTokens(cctx, found.ID, accessToken, refreshToken); err != nil {
		RespondInternal(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Login Successful",
		"token":   accessToken,
		"user":    found.Redacted(),
	})
}
