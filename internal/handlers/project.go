package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/taskflow-dev/taskflow/internal/apperrors"
	"github.com/taskflow-dev/taskflow/internal/models"
	"github.com/taskflow-dev/taskflow/internal/services"
	"github.com/taskflow-dev/taskflow/internal/utils"
)

type ProjectHandler struct {
	projects *services.ProjectService
}

func NewProjectHandler(projects *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{projects: projects}
}

type CreateProjectRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type UpdateProjectRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type ProjectResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Slug        string    `json:"slug"`
	UserID      uint      `json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (h *ProjectHandler) Create(ctx *gin.Context) {
	var req CreateProjectRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.WriteError(ctx, apperrors.Validation("Input validation failed", err.Error()))
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		utils.WriteError(ctx, apperrors.Authentication("User not authenticated"))
		return
	}

	project, err := h.projects.Create(userID, services.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
	})

	if err != nil {
		utils.WriteError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, toProjectResponse(project))
}

func (h *ProjectHandler) List(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		utils.WriteError(ctx, apperrors.Authentication("User not authenticated"))
		return
	}

	projects, err := h.projects.List(userID)

	if err != nil {
		utils.WriteError(ctx, err)
		return
	}

	response := make([]ProjectResponse, 0, len(projects))

	for i := range projects {
		response = append(response, toProjectResponse(&projects[i]))
	}

	ctx.JSON(http.StatusOK, response)
}

func (h *ProjectHandler) Get(ctx *gin.Context) {
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

	project, err := h.projects.GetByID(userID, id)

	if err != nil {
		utils.WriteError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, toProjectResponse(project))
}

func (h *ProjectHandler) GetBySlug(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		utils.WriteError(ctx, apperrors.Authentication("User not authenticated"))
		return
	}

	project, err := h.projects.GetBySlug(userID, ctx.Param("slug"))

	if err != nil {
		utils.WriteError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, toProjectResponse(project))
}

func (h *ProjectHandler) Update(ctx *gin.Context) {
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

	var req UpdateProjectRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.WriteError(ctx, apperrors.Validation("Input validation failed", err.Error()))
		return
	}

	project, err := h.projects.Update(userID, id, services.UpdateProjectInput{
		Name:        req.Name,
		Description: req.Description,
	})

	if err != nil {
		utils.WriteError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, toProjectResponse(project))
}

func (h *ProjectHandler) Delete(ctx *gin.Context) {
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

	if err := h.projects.Delete(userID, id); err != nil {
		utils.WriteError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Project deleted successfully"})
}

func toProjectResponse(p *models.Project) ProjectResponse {
	return ProjectResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Slug:        p.Slug,
		UserID:      p.OwnerID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func parseIDParam(ctx *gin.Context, name string) (uint, error) {
	raw := ctx.Param(name)

	id, err := strconv.ParseUint(raw, 10, 32)

	if err != nil || id == 0 {
		return 0, apperrors.Validation("Invalid identifier", gin.H{"param": name, "value": raw})
	}

	return uint(id), nil
}
