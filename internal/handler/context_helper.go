package handler

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/noah-isme/horario-planner/internal/middleware"
	appErrors "github.com/noah-isme/horario-planner/pkg/errors"
	"github.com/noah-isme/horario-planner/pkg/response"
)

func operatorFromContext(c *gin.Context) string {
	if claims, ok := middleware.CurrentClaims(c); ok {
		return claims.Subject
	}
	return ""
}

// intQuery reads a non-negative integer query parameter; junk input yields fallback.
func intQuery(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}

// idParam reads a UUID path parameter. Anything else cannot name a stored row, so it is
// answered with 404 before reaching the database.
func idParam(c *gin.Context, resource string) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("%s not found", resource)))
		return "", false
	}
	return id, true
}
