package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RespondError writes the {"error": message} body used by every handler.
// details is only attached when non-nil.
func RespondError(ctx *gin.Context, status int, message string, details interface{}) {
	body := gin.H{"error": message}
	if details != nil {
		body["details"] = details
	}
	ctx.JSON(status, body)
}

func RespondBadRequest(ctx *gin.Context, message string, details interface{}) {
	RespondError(ctx, http.StatusBadRequest, message, details)
}

// RespondConflict reports a duplicate natural key. Conflicts are 400s.
func RespondConflict(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusBadRequest, message, nil)
}

func RespondNotFound(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusNotFound, message, nil)
}

// RespondInternal passes the underlying error message through.
func RespondInternal(ctx *gin.Context, err error) {
	RespondError(ctx, http.StatusInternalServerError, err.Error(), nil)
}
