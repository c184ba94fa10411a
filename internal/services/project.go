package services

import (
	"errors"
	"strings"

	"github.com/taskflow-dev/taskflow/internal/apperrors"
	"github.com/taskflow-dev/taskflow/internal/authz"
	"github.com/taskflow-dev/taskflow/internal/models"
	"github.com/taskflow-dev/taskflow/internal/slug"
	"gorm.io/gorm"
)

type ProjectService struct {
	db *gorm.DB
}

func NewProjectService(db *gorm.DB) *ProjectService {
	return &ProjectService{db: db}
}

type CreateProjectInput struct {
	Name        string
	Description string
}

type UpdateProjectInput struct {
	Name        *string
	Description *string
}

func (s *ProjectService) Create(actorID uint, in CreateProjectInput) (*models.Project, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperrors.Validation("Project name is required", nil)
	}

	project := &models.Project{
		Name:        name,
		Description: in.Description,
		OwnerID:     actorID,
	}

	base := slug.Make(name)
	candidate := base

	for attempt := 0; ; attempt++ {
		project.Slug = candidate

		err := s.db.Create(project).Error
		if err == nil {
			return project, nil
		}

		if !isUniqueViolation(err) {
			return nil, apperrors.Internal(err)
		}

		if attempt >= slugAttempts {
			return nil, apperrors.Conflict("Project", "slug")
		}

		candidate = slug.WithSuffix(base)
	}
}

func (s *ProjectService) List(actorID uint) ([]models.Project, error) {
	var projects []models.Project

	err := s.db.
		Where("owner_id = ?", actorID).
		Order("updated_at DESC").
		Find(&projects).Error

	if err != nil {
		return nil, apperrors.Internal(err)
	}

	return projects, nil
}

// GetByID applies the existence-then-ownership gate: a missing project is
// NotFound, someone else's project is Forbidden, never the other way around.
func (s *ProjectService) GetByID(actorID, id uint) (*models.Project, error) {
	var project models.Project

	if err := s.db.First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Project", id)
		}
		return nil, apperrors.Internal(err)
	}

	if !authz.CanAccess(actorID, project) {
		return nil, apperrors.Forbidden("project")
	}

	return &project, nil
}

func (s *ProjectService) GetBySlug(actorID uint, slugValue string) (*models.Project, error) {
	var project models.Project

	if err := s.db.Where("slug = ?", slugValue).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Project", slugValue)
		}
		return nil, apperrors.Internal(err)
	}

	if !authz.CanAccess(actorID, project) {
		return nil, apperrors.Forbidden("project")
	}

	return &project, nil
}

// Update applies a partial patch: absent fields stay untouched, an empty
// patch returns the project unchanged.
func (s *ProjectService) Update(actorID, id uint, in UpdateProjectInput) (*models.Project, error) {
	project, err := s.GetByID(actorID, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, apperrors.Validation("Project name must not be empty", nil)
		}
		updates["name"] = name
	}

	if in.Description != nil {
		updates["description"] = *in.Description
	}

	if len(updates) == 0 {
		return project, nil
	}

	if err := s.db.Model(project).Updates(updates).Error; err != nil {
		return nil, apperrors.Internal(err)
	}

	// Refresh so the caller sees the stored row, timestamps included.
	if err := s.db.First(project, project.ID).Error; err != nil {
		return nil, apperrors.Internal(err)
	}

	return project, nil
}

// Delete removes the project and every task it contains in one transaction,
// so a partially applied cascade is never observable.
func (s *ProjectService) Delete(actorID, id uint) error {
	project, err := s.GetByID(actorID, id)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", project.ID).Delete(&models.Task{}).Error; err != nil {
			return err
		}
		return tx.Delete(project).Error
	})

	if err != nil {
		return apperrors.Internal(err)
	}

	return nil
}
