package handlers

import (
	"log/slog"

	"github.com/geocoder89/bookapi/internal/actorctx"
	"github.com/gin-gonic/gin"
)

// auditLog records a catalog write together with the caller set by the
// auth gate.
func auditLog(ctx *gin.Context, msg string, attrs ...any) {
	if actor, ok := actorctx.From(ctx.Request.Context()); ok {
		attrs = append(attrs, "actor_id", actor.UserID, "actor", actor.Username)
	}
	slog.Default().InfoContext(ctx.Request.Context(), msg, attrs...)
}
