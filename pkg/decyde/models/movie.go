package models

import (
	"time"

	"gorm.io/gorm"
)

// MovieType distinguishes feature films from series
type MovieType string

const (
	MovieTypeMovie  MovieType = "MOVIE"
	MovieTypeSeries MovieType = "SERIES"
)

// Movie is a vote candidate, created lazily the first time anyone votes
// for it. The IMDb id is immutable and unique; metadata is never updated
// after creation.
type Movie struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	ImdbID    string         `gorm:"uniqueIndex;not null" json:"imdb_id"`
	Title     string         `gorm:"not null" json:"title"`
	Year      int            `json:"year"`
	PosterURL string         `json:"poster_url"`
	Type      MovieType      `gorm:"type:varchar(20);default:'MOVIE'" json:"type"`

	// Relationships
	Votes []MovieVote `gorm:"foreignKey:MovieID" json:"votes,omitempty"`
}
