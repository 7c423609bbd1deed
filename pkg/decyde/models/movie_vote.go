package models

import (
	"time"

	"gorm.io/gorm"
)

// MovieVote is a single user's vote value for a movie, scoped optionally
// to a group. A nil GroupID means the vote counts toward the individual
// rather than any group. At most one row exists per (user, movie, group)
// tuple; the compound unique index backstops concurrent upserts.
type MovieVote struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	UserID    uint           `gorm:"not null;uniqueIndex:idx_user_movie_group" json:"user_id"`
	MovieID   uint           `gorm:"not null;uniqueIndex:idx_user_movie_group" json:"movie_id"`
	GroupID   *uint          `gorm:"uniqueIndex:idx_user_movie_group" json:"group_id,omitempty"`
	Vote      int            `gorm:"not null;default:0" json:"vote"` // stored verbatim; 0 is the UI convention for retracted

	// Relationships
	User  User   `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Movie Movie  `gorm:"foreignKey:MovieID" json:"movie,omitempty"`
	Group *Group `gorm:"foreignKey:GroupID" json:"group,omitempty"`
}
