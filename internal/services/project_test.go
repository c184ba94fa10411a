package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskflow-dev/taskflow/internal/apperrors"
	"github.com/taskflow-dev/taskflow/internal/models"
	"github.com/taskflow-dev/taskflow/internal/services"
)

func TestProjectOwnershipGate(t *testing.T) {
	db := setupTestDB(t)
	projects := services.NewProjectService(db)

	owner := registerUser(t, db, "owner@example.com")
	other := registerUser(t, db, "other@example.com")

	project, err := projects.Create(owner.ID, services.CreateProjectInput{Name: "Owned"})
	require.NoError(t, err)

	got, err := projects.GetByID(owner.ID, project.ID)
	require.NoError(t, err)
	assert.Equal(t, project.ID, got.ID)

	_, err = projects.GetByID(other.ID, project.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestExistencePrecedesAuthorization(t *testing.T) {
	db := setupTestDB(t)
	projects := services.NewProjectService(db)

	owner := registerUser(t, db, "owner@example.com")
	other := registerUser(t, db, "other@example.com")

	project, err := projects.Create(owner.ID, services.CreateProjectInput{Name: "Owned"})
	require.NoError(t, err)

	// Nonexistent and someone-else's must be distinguishable outcomes.
	_, err = projects.GetByID(other.ID, project.ID+999)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = projects.GetByID(other.ID, project.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestProjectGetBySlug(t *testing.T) {
	db := setupTestDB(t)
	projects := services.NewProjectService(db)

	owner := registerUser(t, db, "owner@example.com")
	other := registerUser(t, db, "other@example.com")

	project, err := projects.Create(owner.ID, services.CreateProjectInput{Name: "My Project"})
	require.NoError(t, err)
	assert.Equal(t, "my-project", project.Slug)

	got, err := projects.GetBySlug(owner.ID, "my-project")
	require.NoError(t, err)
	assert.Equal(t, project.ID, got.ID)

	_, err = projects.GetBySlug(other.ID, "my-project")
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = projects.GetBySlug(owner.ID, "no-such-slug")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestProjectSlugCollision(t *testing.T) {
	db := setupTestDB(t)
	projects := services.NewProjectService(db)

	owner := registerUser(t, db, "owner@example.com")

	first, err := projects.Create(owner.ID, services.CreateProjectInput{Name: "Same Name"})
	require.NoError(t, err)

	second, err := projects.Create(owner.ID, services.CreateProjectInput{Name: "Same Name"})
	require.NoError(t, err)

	assert.NotEqual(t, first.Slug, second.Slug)
	assert.Contains(t, second.Slug, "same-name-")
}

func TestProjectUpdatePartialPatch(t *testing.T) {
	db := setupTestDB(t)
	projects := services.NewProjectService(db)

	owner := registerUser(t, db, "owner@example.com")

	project, err := projects.Create(owner.ID, services.CreateProjectInput{Name: "Original", Description: "Keep me"})
	require.NoError(t, err)

	newName := "Renamed"
	updated, err := projects.Update(owner.ID, project.ID, services.UpdateProjectInput{Name: &newName})
	require.NoError(t, err)

	assert.Equal(t, "Renamed", updated.Name)
	// Absent fields stay untouched.
	assert.Equal(t, "Keep me", updated.Description)
}

func TestProjectUpdateEmptyPatchIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	projects := services.NewProjectService(db)

	owner := registerUser(t, db, "owner@example.com")

	project, err := projects.Create(owner.ID, services.CreateProjectInput{Name: "Original", Description: "Unchanged"})
	require.NoError(t, err)

	updated, err := projects.Update(owner.ID, project.ID, services.UpdateProjectInput{})
	require.NoError(t, err)

	assert.Equal(t, "Original", updated.Name)
	assert.Equal(t, "Unchanged", updated.Description)
}

func TestProjectUpdateForbiddenForNonOwner(t *testing.T) {
	db := setupTestDB(t)
	projects := services.NewProjectService(db)

	owner := registerUser(t, db, "owner@example.com")
	other := registerUser(t, db, "other@example.com")

	project, err := projects.Create(owner.ID, services.CreateProjectInput{Name: "Owned"})
	require.NoError(t, err)

	newName := "Taken Over"
	_, err = projects.Update(other.ID, project.ID, services.UpdateProjectInput{Name: &newName})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestProjectDeleteCascadesToTasks(t *testing.T) {
	db := setupTestDB(t)
	projects := services.NewProjectService(db)
	tasks := services.NewTaskService(db)

	owner := registerUser(t, db, "owner@example.com")

	project, err := projects.Create(owner.ID, services.CreateProjectInput{Name: "Doomed"})
	require.NoError(t, err)

	first, err := tasks.Create(owner.ID, services.CreateTaskInput{Title: "Task one", ProjectID: project.ID})
	require.NoError(t, err)
	second, err := tasks.Create(owner.ID, services.CreateTaskInput{Title: "Task two", ProjectID: project.ID})
	require.NoError(t, err)

	require.NoError(t, projects.Delete(owner.ID, project.ID))

	listed, err := projects.List(owner.ID)
	require.NoError(t, err)
	assert.Empty(t, listed)

	_, err = tasks.GetByID(owner.ID, first.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = tasks.GetByID(owner.ID, second.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	var orphanCount int64
	require.NoError(t, db.Model(&models.Task{}).Where("project_id = ?", project.ID).Count(&orphanCount).Error)
	assert.Equal(t, int64(0), orphanCount)
}

func TestProjectDeleteForbiddenForNonOwner(t *testing.T) {
	db := setupTestDB(t)
	projects := services.NewProjectService(db)

	owner := registerUser(t, db, "owner@example.com")
	other := registerUser(t, db, "other@example.com")

	project, err := projects.Create(owner.ID, services.CreateProjectInput{Name: "Owned"})
	require.NoError(t, err)

	assert.ErrorIs(t, projects.Delete(other.ID, project.ID), apperrors.ErrForbidden)

	// Still there for the owner.
	_, err = projects.GetByID(owner.ID, project.ID)
	assert.NoError(t, err)
}

func TestProjectListIsOwnersOnlyMostRecentlyUpdatedFirst(t *testing.T) {
	db := setupTestDB(t)
	projects := services.NewProjectService(db)

	owner := registerUser(t, db, "owner@example.com")
	other := registerUser(t, db, "other@example.com")

	older, err := projects.Create(owner.ID, services.CreateProjectInput{Name: "Older"})
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	newer, err := projects.Create(owner.ID, services.CreateProjectInput{Name: "Newer"})
	require.NoError(t, err)

	_, err = projects.Create(other.ID, services.CreateProjectInput{Name: "Not Mine"})
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	touched := "Older but touched"
	_, err = projects.Update(owner.ID, older.ID, services.UpdateProjectInput{Name: &touched})
	require.NoError(t, err)

	listed, err := projects.List(owner.ID)
	require.NoError(t, err)

	require.Len(t, listed, 2)
	assert.Equal(t, older.ID, listed[0].ID)
	assert.Equal(t, newer.ID, listed[1].ID)
}

func TestProjectCreateRequiresName(t *testing.T) {
	db := setupTestDB(t)
	projects := services.NewProjectService(db)

	owner := registerUser(t, db, "owner@example.com")

	_, err := projects.Create(owner.ID, services.CreateProjectInput{Name: "   "})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}
