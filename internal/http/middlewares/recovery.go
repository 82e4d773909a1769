package middlewares

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

const defaultErrorMessage = "Internal Server Error"

// AppError is an error with an HTTP status, reported through ctx.Error and
// rendered by ErrorHandler.
type AppError struct {
	Status  int
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

func NewAppError(status int, message string) *AppError {
	return &AppError{Status: status, Message: message}
}

// Recovery turns a panic into a 500 {message} response.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		slog.Default().ErrorContext(c.Request.Context(), "panic recovered",
			"panic", recovered,
			"route", c.FullPath(),
			"request_id", c.GetString(CtxRequestID),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": defaultErrorMessage})
	})
}

// ErrorHandler renders errors attached with ctx.Error when nothing has
// been written yet.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		status := http.StatusInternalServerError
		message := defaultErrorMessage

		var appErr *AppError
		if errors.As(c.Errors.Last().Err, &appErr) {
			if appErr.Status != 0 {
				status = appErr.Status
			}
			if appErr.Message != "" {
				message = appErr.Message
			}
		}

		c.JSON(status, gin.H{"message": message})
	}
}

// NotFound is the NoRoute handler.
func NotFound(c *gin.Context) {
	_ = c.Error(NewAppError(http.StatusNotFound, "Route Not Found"))
}
