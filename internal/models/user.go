package models

import "gorm.io/gorm"

type User struct {
	gorm.Model

	Name         string
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	Slug         string `gorm:"uniqueIndex;not null"`

	// Relationships
	Projects []Project `gorm:"foreignKey:OwnerID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
