package handlers

import (
	"github.com/gin-gonic/gin"

	"projecthub/internal/errs"
	"projecthub/internal/models"
)

func callerID(c *gin.Context) string {
	v, _ := c.Get("user_id")
	id, _ := v.(string)
	return id
}

func callerRole(c *gin.Context) models.Role {
	v, _ := c.Get("role")
	role, _ := v.(string)
	return models.Role(role)
}

// abortWithError maps the service error taxonomy onto an HTTP status with a
// JSON error body. The wrapped message stays actionable: "not found", "not
// yours" and "already responded" read differently to the client.
func abortWithError(c *gin.Context, err error) {
	c.JSON(errs.Status(err), gin.H{"error": err.Error()})
}
