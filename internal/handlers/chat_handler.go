package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"projecthub/internal/models"
	"projecthub/internal/services"
)

type ChatHandler struct {
	chat       *services.ChatService
	membership *services.MembershipService
}

func NewChatHandler(chat *services.ChatService, membership *services.MembershipService) *ChatHandler {
	return &ChatHandler{chat: chat, membership: membership}
}

type postMessageRequest struct {
	Content       string `json:"content" binding:"required"`
	ParentMessage string `json:"parentMessage"`
}

func (h *ChatHandler) PostMessage(c *gin.Context) {
	var req postMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	msg, err := h.chat.PostMessage(c.Request.Context(), c.Param("id"), callerID(c), req.Content, req.ParentMessage)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

func (h *ChatHandler) ListMessages(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))

	messages, total, err := h.chat.ListMessages(c.Request.Context(), c.Param("id"), callerID(c), page, pageSize)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"messages": messages,
		"total":    total,
		"page":     page,
		"pageSize": pageSize,
	})
}

type inviteRequest struct {
	UserID string `json:"userId" binding:"required"`
}

func (h *ChatHandler) Invite(c *gin.Context) {
	var req inviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	n, err := h.membership.InviteToTaskChat(c.Request.Context(), callerID(c), c.Param("id"), req.UserID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if n == nil { // already a member
		c.JSON(http.StatusOK, gin.H{"invited": false})
		return
	}
	c.JSON(http.StatusCreated, n)
}

func (h *ChatHandler) Leave(c *gin.Context) {
	if err := h.membership.LeaveChat(c.Request.Context(), c.Param("id"), callerID(c)); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"left": true})
}

type goalRequest struct {
	Title string `json:"title" binding:"required"`
}

func (h *ChatHandler) CreateGoal(c *gin.Context) {
	var req goalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	goal, err := h.chat.CreateGoal(c.Request.Context(), c.Param("id"), callerID(c), req.Title)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, goal)
}

func (h *ChatHandler) ListGoals(c *gin.Context) {
	goals, err := h.chat.ListGoals(c.Request.Context(), c.Param("id"), callerID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, goals)
}

type goalStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *ChatHandler) UpdateGoalStatus(c *gin.Context) {
	var req goalStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	goal, err := h.chat.UpdateGoalStatus(c.Request.Context(), c.Param("goalId"), callerID(c), callerRole(c), models.GoalStatus(req.Status))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, goal)
}

func (h *ChatHandler) UpdateGoalTitle(c *gin.Context) {
	var req goalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	goal, err := h.chat.UpdateGoalTitle(c.Request.Context(), c.Param("goalId"), callerID(c), req.Title)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, goal)
}

func (h *ChatHandler) DeleteGoal(c *gin.Context) {
	if err := h.chat.DeleteGoal(c.Request.Context(), c.Param("goalId"), callerID(c)); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
