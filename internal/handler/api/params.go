package api

import (
	"strconv"

	"marketplace-core/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

// errNoActor only fires when a handler runs without RequireAuth in front.
var errNoActor = errs.New("authenticated actor missing from context")

func parseIntQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
