package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-board-api/internal/dto"
	apierrors "github.com/yukikurage/project-board-api/internal/errors"
	"github.com/yukikurage/project-board-api/internal/middleware"
	"github.com/yukikurage/project-board-api/internal/models"
	"github.com/yukikurage/project-board-api/internal/services"
)

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListTasks returns tasks of every accessible project.
// Can filter by projectId, status and assigneeId
func (h *TaskHandler) ListTasks(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var input services.ListTasksInput
	if projectID := c.Query("projectId"); projectID != "" {
		input.ProjectID = &projectID
	}
	if status := c.Query("status"); status != "" {
		taskStatus := models.TaskStatus(status)
		input.Status = &taskStatus
	}
	if assigneeID := c.Query("assigneeId"); assigneeID != "" {
		input.AssigneeID = &assigneeID
	}

	tasks, err := h.taskService.ListTasks(principal, input)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Tasks retrieved successfully",
		"tasks":   dto.ToTaskDTOs(tasks),
	})
}

// GetTask returns a specific task by ID
func (h *TaskHandler) GetTask(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	task, err := h.taskService.GetTask(principal, c.Param("id"))
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task retrieved successfully",
		"task":    dto.ToTaskDTO(*task),
	})
}

// CreateTask creates a new task
func (h *TaskHandler) CreateTask(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateTaskRequest struct {
		Title       string            `json:"title"`
		Description string            `json:"description"`
		Status      models.TaskStatus `json:"status"`
		ProjectID   string            `json:"projectId"`
		AssigneeID  string            `json:"assigneeId"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.CreateTask(principal, services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		ProjectID:   req.ProjectID,
		AssigneeID:  req.AssigneeID,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Task created successfully",
		"task":    dto.ToTaskDTO(*task),
	})
}

// UpdateTask updates a task. Omitted fields are left unchanged.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type UpdateTaskRequest struct {
		Title       *string            `json:"title"`
		Description *string            `json:"description"`
		Status      *models.TaskStatus `json:"status"`
		AssigneeID  *string            `json:"assigneeId"`
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.UpdateTask(principal, c.Param("id"), services.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		AssigneeID:  req.AssigneeID,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task updated successfully",
		"task":    dto.ToTaskDTO(*task),
	})
}

// DeleteTask deletes a task
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	if err := h.taskService.DeleteTask(principal, c.Param("id")); err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted successfully",
	})
}

// GenerateTasks suggests tasks from free text without saving them
func (h *TaskHandler) GenerateTasks(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type GenerateTasksRequest struct {
		Text      string `json:"text"`
		ProjectID string `json:"projectId"`
	}

	var req GenerateTasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	drafts, err := h.taskService.GenerateTasks(c.Request.Context(), principal, services.GenerateTasksInput{
		ProjectID: req.ProjectID,
		Text:      req.Text,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	items := make([]dto.TaskDraftDTO, len(drafts))
	for i, draft := range drafts {
		items[i] = dto.TaskDraftDTO{Title: draft.Title, Description: draft.Description}
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Tasks generated successfully",
		"tasks":   items,
	})
}
