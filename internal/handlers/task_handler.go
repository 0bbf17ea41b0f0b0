package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"projecthub/internal/services"
)

type TaskHandler struct {
	tasks      *services.TaskService
	membership *services.MembershipService
}

func NewTaskHandler(tasks *services.TaskService, membership *services.MembershipService) *TaskHandler {
	return &TaskHandler{tasks: tasks, membership: membership}
}

type createTaskRequest struct {
	Title      string `json:"title" binding:"required"`
	Project    string `json:"project" binding:"required"`
	AssignedTo string `json:"assignedTo"`
}

func (h *TaskHandler) Create(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	task, err := h.tasks.Create(c.Request.Context(), callerID(c), req.Title, req.Project, req.AssignedTo)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

func (h *TaskHandler) Get(c *gin.Context) {
	task, err := h.tasks.Get(c.Request.Context(), c.Param("id"), callerID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

type addMemberRequest struct {
	UserID string `json:"userId" binding:"required"`
}

func (h *TaskHandler) AddMember(c *gin.Context) {
	var req addMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	task, err := h.membership.AddTaskMemberBy(c.Request.Context(), callerID(c), c.Param("id"), req.UserID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}
