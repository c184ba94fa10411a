package models

import (
	"github.com/taskflow-dev/taskflow/internal/types"
	"gorm.io/gorm"
)

// Task has no owner column of its own; its authorization is resolved
// transitively through the parent project.
type Task struct {
	gorm.Model

	Title       string `gorm:"not null"`
	Description string
	Slug        string             `gorm:"uniqueIndex;not null"`
	Status      types.TaskStatus   `gorm:"type:varchar(20);not null;default:'OPEN'"`
	Priority    types.TaskPriority `gorm:"type:varchar(20);not null;default:'MEDIUM'"`
	ProjectID   uint               `gorm:"not null;index"`

	// Relationships
	Project Project `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
