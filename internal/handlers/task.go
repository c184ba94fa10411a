package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/taskflow-dev/taskflow/internal/apperrors"
	"github.com/taskflow-dev/taskflow/internal/models"
	"github.com/taskflow-dev/taskflow/internal/services"
	"github.com/taskflow-dev/taskflow/internal/types"
	"github.com/taskflow-dev/taskflow/internal/utils"
)

type TaskHandler struct {
	tasks *services.TaskService
}

func NewTaskHandler(tasks *services.TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

type CreateTaskRequest struct {
	Title       string             `json:"title" binding:"required"`
	Description string             `json:"description"`
	ProjectID   uint               `json:"projectId" binding:"required"`
	Priority    types.TaskPriority `json:"priority"`
}

type UpdateTaskRequest struct {
	Title       *string             `json:"title"`
	Description *string             `json:"description"`
	Status      *types.TaskStatus   `json:"status"`
	Priority    *types.TaskPriority `json:"priority"`
}

type TaskResponse struct {
	ID          uint               `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Slug        string             `json:"slug"`
	Status      types.TaskStatus   `json:"status"`
	Priority    types.TaskPriority `json:"priority"`
	ProjectID   uint               `json:"projectId"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

func (h *TaskHandler) Create(ctx *gin.Context) {
	var req CreateTaskRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.WriteError(ctx, apperrors.Validation("Input validation failed", err.Error()))
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		utils.WriteError(ctx, apperrors.Authentication("User not authenticated"))
		return
	}

	task, err := h.tasks.Create(userID, services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		ProjectID:   req.ProjectID,
		Priority:    req.Priority,
	})

	if err != nil {
		utils.WriteError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, toTaskResponse(task))
}

func (h *TaskHandler) List(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		utils.WriteError(ctx, apperrors.Authentication("User not authenticated"))
		return
	}

	var projectID *uint

	if raw := ctx.Query("projectId"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil || parsed == 0 {
			utils.WriteError(ctx, apperrors.Validation("Invalid projectId filter", gin.H{"value": raw}))
			return
		}
		id := uint(parsed)
		projectID = &id
	}

	tasks, err := h.tasks.List(userID, projectID)

	if err != nil {
		utils.WriteError(ctx, err)
		return
	}

	response := make([]TaskResponse, 0, len(tasks))

	for i := range tasks {
		response = append(response, toTaskResponse(&tasks[i]))
	}

	ctx.JSON(http.StatusOK, response)
}

func (h *TaskHandler) Get(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		utils.WriteError(ctx, apperrors.Authentication("User not authenticated"))
		return
	}

	id, err := parseIDParam(ctx, "id")

	if err != nil {
		utils.WriteError(ctx, err)
		return
	}

	task, err := h.tasks.GetByID(userID, id)

	if err != nil {
		utils.WriteError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, toTaskResponse(task))
}

// GetBySlug looks a task up by slug within a project, for slug-routed pages.
func (h *TaskHandler) GetBySlug(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		utils.WriteError(ctx, apperrors.Authentication("User not authenticated"))
		return
	}

	raw := ctx.Query("projectId")

	parsed, parseErr := strconv.ParseUint(raw, 10, 32)

	if parseErr != nil || parsed == 0 {
		utils.WriteError(ctx, apperrors.Validation("projectId query parameter is required", gin.H{"value": raw}))
		return
	}

	task, err := h.tasks.GetBySlug(userID, ctx.Param("slug"), uint(parsed))

	if err != nil {
		utils.WriteError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, toTaskResponse(task))
}

func (h *TaskHandler) Update(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		utils.WriteError(ctx, apperrors.Authentication("User not authenticated"))
		return
	}

	id, err := parseIDParam(ctx, "id")

	if err != nil {
		utils.WriteError(ctx, err)
		return
	}

	var req UpdateTaskRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.WriteError(ctx, apperrors.Validation("Input validation failed", err.Error()))
		return
	}

	task, err := h.tasks.Update(userID, id, services.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
	})

	if err != nil {
		utils.WriteError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, toTaskResponse(task))
}

func (h *TaskHandler) Delete(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		utils.WriteError(ctx, apperrors.Authentication("User not authenticated"))
		return
	}

	id, err := parseIDParam(ctx, "id")

	if err != nil {
		utils.WriteError(ctx, err)
		return
	}

	if err := h.tasks.Delete(userID, id); err != nil {
		utils.WriteError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

func toTaskResponse(t *models.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Slug:        t.Slug,
		Status:      t.Status,
		Priority:    t.Priority,
		ProjectID:   t.ProjectID,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}
