package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a user in the system
type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	ExternalID   string         `gorm:"index" json:"external_id,omitempty"` // identity-provider subject
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `json:"-"`
	Name         string         `gorm:"not null" json:"name"`
	AvatarURL    string         `json:"avatar_url,omitempty"`

	// Relationships
	Memberships []UserGroup   `gorm:"foreignKey:UserID" json:"memberships,omitempty"`
	OwnedGroups []Group       `gorm:"foreignKey:OwnerID" json:"owned_groups,omitempty"`
	Votes       []MovieVote   `gorm:"foreignKey:UserID" json:"votes,omitempty"`
	Invites     []GroupInvite `gorm:"foreignKey:UserID" json:"invites,omitempty"`
}
