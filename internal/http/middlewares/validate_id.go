package middlewares

import (
	"fmt"
	"net/http"

	"github.com/geocoder89/bookapi/internal/utils"
	"github.com/gin-gonic/gin"
)

// ValidateObjectID rejects requests whose :param is not a 24-hex object id
// before any store lookup happens.
func ValidateObjectID(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !utils.IsObjectID(c.Param(param)) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error": fmt.Sprintf("Invalid %s (Object Id) format", param),
			})
			return
		}
		c.Next()
	}
}
