package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"projecthub/internal/services"
)

type ActivityHandler struct {
	activity *services.ActivityService
}

func NewActivityHandler(activity *services.ActivityService) *ActivityHandler {
	return &ActivityHandler{activity: activity}
}

func (h *ActivityHandler) List(c *gin.Context) {
	entries, err := h.activity.ListForUser(c.Request.Context(), callerID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (h *ActivityHandler) MarkRead(c *gin.Context) {
	if err := h.activity.MarkRead(c.Request.Context(), c.Param("id"), callerID(c)); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"read": true})
}
