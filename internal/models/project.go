package models

import "gorm.io/gorm"

type Project struct {
	gorm.Model

	Name        string `gorm:"not null"`
	Description string
	Slug        string `gorm:"uniqueIndex;not null"`
	OwnerID     uint   `gorm:"not null;index"`

	// Relationships
	Owner User   `gorm:"foreignKey:OwnerID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Tasks []Task `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

// OwnerUserID satisfies authz.Owned. A project's owner is fixed at creation.
func (p Project) OwnerUserID() uint {
	return p.OwnerID
}
