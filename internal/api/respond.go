package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/huddle-work/huddle/internal/middleware"
	"github.com/huddle-work/huddle/internal/workspace"
)

func tokenFrom(c *gin.Context) string {
	return middleware.Token(c)
}

// respondError maps a core error to its HTTP status: validation failures
// are 400, authorization failures are 403. Anything else is a bug surfaced
// as a 500 with the detail kept server-side.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	switch {
	case workspace.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case workspace.IsAuthorization(err):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		logger.Error("unexpected error", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// intQuery parses a required integer query parameter. The ok result is
// false after a 400 has already been written.
func intQuery(c *gin.Context, name string) (int, bool) {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be an integer"})
		return 0, false
	}
	return v, true
}
