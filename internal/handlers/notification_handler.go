package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"projecthub/internal/services"
)

type NotificationHandler struct {
	notify     *services.NotificationService
	membership *services.MembershipService
}

func NewNotificationHandler(notify *services.NotificationService, membership *services.MembershipService) *NotificationHandler {
	return &NotificationHandler{notify: notify, membership: membership}
}

func (h *NotificationHandler) List(c *gin.Context) {
	notifications, err := h.notify.ListForUser(c.Request.Context(), callerID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, notifications)
}

func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	count, err := h.notify.UnreadCount(c.Request.Context(), callerID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	n, err := h.notify.MarkRead(c.Request.Context(), c.Param("id"), callerID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, n)
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	count, err := h.notify.MarkAllRead(c.Request.Context(), callerID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

func (h *NotificationHandler) Delete(c *gin.Context) {
	if err := h.notify.Delete(c.Request.Context(), c.Param("id"), callerID(c)); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

type respondRequest struct {
	Decision string `json:"decision" binding:"required"`
}

// Respond resolves an invitation. Accepting a taskChatInvite runs the
// membership side effects; a repeated response comes back as a conflict.
func (h *NotificationHandler) Respond(c *gin.Context) {
	var req respondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	n, err := h.membership.RespondToInvitation(c.Request.Context(), c.Param("id"), callerID(c), req.Decision)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, n)
}
