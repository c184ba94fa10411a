package services

import (
	"errors"
	"strings"

	"github.com/taskflow-dev/taskflow/internal/apperrors"
	"github.com/taskflow-dev/taskflow/internal/authz"
	"github.com/taskflow-dev/taskflow/internal/models"
	"github.com/taskflow-dev/taskflow/internal/slug"
	"github.com/taskflow-dev/taskflow/internal/types"
	"gorm.io/gorm"
)

type TaskService struct {
	db *gorm.DB
}

func NewTaskService(db *gorm.DB) *TaskService {
	return &TaskService{db: db}
}

type CreateTaskInput struct {
	Title       string
	Description string
	ProjectID   uint
	Priority    types.TaskPriority
}

type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *types.TaskStatus
	Priority    *types.TaskPriority
}

// Create authorizes against the parent project, not the task itself: the
// project must exist (NotFound otherwise) and belong to the actor
// (Forbidden otherwise) before the task row is inserted.
func (s *TaskService) Create(actorID uint, in CreateTaskInput) (*models.Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, apperrors.Validation("Task title is required", nil)
	}

	var project models.Project

	if err := s.db.First(&project, in.ProjectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Project", in.ProjectID)
		}
		return nil, apperrors.Internal(err)
	}

	if !authz.CanAccess(actorID, project) {
		return nil, apperrors.Forbidden("project")
	}

	priority := in.Priority
	if priority == "" {
		priority = types.DefaultTaskPriority
	}
	if !priority.Valid() {
		return nil, apperrors.Validation("Invalid task priority", nil)
	}

	task := &models.Task{
		Title:       title,
		Description: in.Description,
		Status:      types.TaskStatusOpen,
		Priority:    priority,
		ProjectID:   project.ID,
	}

	base := slug.Make(title)
	candidate := base

	for attempt := 0; ; attempt++ {
		task.Slug = candidate

		err := s.db.Create(task).Error
		if err == nil {
			return task, nil
		}

		if !isUniqueViolation(err) {
			return nil, apperrors.Internal(err)
		}

		if attempt >= slugAttempts {
			return nil, apperrors.Conflict("Task", "slug")
		}

		candidate = slug.WithSuffix(base)
	}
}

// List returns the actor's tasks, newest first. With a project filter the
// project goes through the same gate as direct access, so listing someone
// else's project fails Forbidden rather than returning an empty slice.
func (s *TaskService) List(actorID uint, projectID *uint) ([]models.Task, error) {
	var tasks []models.Task

	if projectID != nil {
		if _, err := s.projectForActor(actorID, *projectID); err != nil {
			return nil, err
		}

		err := s.db.
			Where("project_id = ?", *projectID).
			Order("created_at DESC").
			Find(&tasks).Error

		if err != nil {
			return nil, apperrors.Internal(err)
		}

		return tasks, nil
	}

	err := s.db.
		Joins("JOIN projects ON projects.id = tasks.project_id AND projects.deleted_at IS NULL").
		Where("projects.owner_id = ?", actorID).
		Order("tasks.created_at DESC").
		Find(&tasks).Error

	if err != nil {
		return nil, apperrors.Internal(err)
	}

	return tasks, nil
}

// GetByID resolves the task, then its parent project, then the ownership
// check. The parent is fetched freshly on every call.
func (s *TaskService) GetByID(actorID, id uint) (*models.Task, error) {
	var task models.Task

	if err := s.db.First(&task, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Task", id)
		}
		return nil, apperrors.Internal(err)
	}

	if err := s.gate(actorID, &task); err != nil {
		return nil, err
	}

	return &task, nil
}

func (s *TaskService) GetBySlug(actorID uint, slugValue string, projectID uint) (*models.Task, error) {
	var task models.Task

	err := s.db.Where("slug = ? AND project_id = ?", slugValue, projectID).First(&task).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Task", slugValue)
		}
		return nil, apperrors.Internal(err)
	}

	if err := s.gate(actorID, &task); err != nil {
		return nil, err
	}

	return &task, nil
}

func (s *TaskService) Update(actorID, id uint, in UpdateTaskInput) (*models.Task, error) {
	task, err := s.GetByID(actorID, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, apperrors.Validation("Task title must not be empty", nil)
		}
		updates["title"] = title
	}

	if in.Description != nil {
		updates["description"] = *in.Description
	}

	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, apperrors.Validation("Invalid task status", nil)
		}
		updates["status"] = *in.Status
	}

	if in.Priority != nil {
		if !in.Priority.Valid() {
			return nil, apperrors.Validation("Invalid task priority", nil)
		}
		updates["priority"] = *in.Priority
	}

	if len(updates) == 0 {
		return task, nil
	}

	if err := s.db.Model(task).Updates(updates).Error; err != nil {
		return nil, apperrors.Internal(err)
	}

	// Refresh so the caller sees the stored row, timestamps included.
	if err := s.db.First(task, task.ID).Error; err != nil {
		return nil, apperrors.Internal(err)
	}

	return task, nil
}

func (s *TaskService) Delete(actorID, id uint) error {
	task, err := s.GetByID(actorID, id)
	if err != nil {
		return err
	}

	if err := s.db.Delete(task).Error; err != nil {
		return apperrors.Internal(err)
	}

	return nil
}

// gate enforces transitive ownership: the task is accessible to exactly the
// user owning its parent project.
func (s *TaskService) gate(actorID uint, task *models.Task) error {
	var project models.Project

	if err := s.db.First(&project, task.ProjectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Parent removed while the task row was still visible.
			return apperrors.NotFound("Task", task.ID)
		}
		return apperrors.Internal(err)
	}

	if !authz.CanAccess(actorID, project) {
		return apperrors.Forbidden("task")
	}

	return nil
}

func (s *TaskService) projectForActor(actorID, projectID uint) (*models.Project, error) {
	var project models.Project

	if err := s.db.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Project", projectID)
		}
		return nil, apperrors.Internal(err)
	}

	if !authz.CanAccess(actorID, project) {
		return nil, apperrors.Forbidden("project")
	}

	return &project, nil
}
