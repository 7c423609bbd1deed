package models

import (
	"time"

	"gorm.io/gorm"
)

// Group represents a decision group that users vote within.
// Each group has a single owner; other users join via invites.
type Group struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	OwnerID     uint           `gorm:"not null;index" json:"owner_id"`
	Name        string         `gorm:"not null" json:"name"`
	Description string         `json:"description"`
	Color       string         `json:"color"`
	ImageURL    string         `json:"image_url"`

	// Relationships
	Owner   User          `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Members []UserGroup   `gorm:"foreignKey:GroupID" json:"members,omitempty"`
	Invites []GroupInvite `gorm:"foreignKey:GroupID" json:"invites,omitempty"`
}
