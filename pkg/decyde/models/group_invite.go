package models

import (
	"time"

	"gorm.io/gorm"
)

// InviteStatus represents the lifecycle state of a group invite
type InviteStatus string

const (
	InviteStatusPending   InviteStatus = "PENDING"
	InviteStatusAccepted  InviteStatus = "ACCEPTED"
	InviteStatusRejected  InviteStatus = "REJECTED"
	InviteStatusCancelled InviteStatus = "CANCELLED"
)

// GroupInvite represents an offer of group membership.
// PENDING is the only state an invite can transition out of; a rejected or
// cancelled invite is superseded by creating a new row, never by resetting
// the old one.
type GroupInvite struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	GroupID     uint         `gorm:"not null;index" json:"group_id"`
	SenderID    uint         `gorm:"not null" json:"sender_id"`
	UserID      *uint        `gorm:"index" json:"user_id,omitempty"` // resolved target, if the email matched an account
	Email       string       `gorm:"index" json:"email"`
	Status      InviteStatus `gorm:"type:varchar(20);default:'PENDING'" json:"status"`
	Token       string       `gorm:"uniqueIndex;not null" json:"-"`
	SentAt      time.Time    `json:"sent_at"`
	RespondedAt *time.Time   `json:"responded_at,omitempty"`
	CancelledAt *time.Time   `json:"cancelled_at,omitempty"`

	// Relationships
	Group  Group `gorm:"foreignKey:GroupID" json:"group,omitempty"`
	Sender User  `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	User   *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
