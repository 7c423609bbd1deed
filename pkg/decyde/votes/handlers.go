package votes

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ross-mclain-br/decyde/pkg/decyde/auth"
	"github.com/ross-mclain-br/decyde/pkg/decyde/models"
	"gorm.io/gorm"
)

// Handler handles vote-related requests
type Handler struct {
	db *gorm.DB
}

// NewHandler creates a new votes handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// MovieRequest carries metadata for lazy movie creation on first vote
type MovieRequest struct {
	Title     string `json:"title" binding:"required"`
	Year      int    `json:"year"`
	PosterURL string `json:"poster_url"`
	Type      string `json:"type" binding:"omitempty,oneof=MOVIE SERIES"`
}

// UpsertVoteRequest represents the request to cast or change a vote
type UpsertVoteRequest struct {
	ImdbID  string        `json:"imdb_id" binding:"required"`
	GroupID *uint         `json:"group_id"`
	Vote    int           `json:"vote"`
	Movie   *MovieRequest `json:"movie"`
}

// MovieResponse represents a movie in API responses
type MovieResponse struct {
	ID        uint   `json:"id"`
	ImdbID    string `json:"imdb_id"`
	Title     string `json:"title"`
	Year      int    `json:"year"`
	PosterURL string `json:"poster_url"`
	Type      string `json:"type"`
}

// VoteResponse represents a vote in API responses
type VoteResponse struct {
	ID      uint          `json:"id"`
	UserID  uint          `json:"user_id"`
	MovieID uint          `json:"movie_id"`
	GroupID *uint         `json:"group_id,omitempty"`
	Vote    int           `json:"vote"`
	Movie   MovieResponse `json:"movie"`
}

// TallyEntry represents one movie's aggregate votes within a group
type TallyEntry struct {
	Movie  MovieResponse `json:"movie"`
	Total  int           `json:"total"`
	Voters int           `json:"voters"`
}

func movieToResponse(movie models.Movie) MovieResponse {
	return MovieResponse{
		ID:        movie.ID,
		ImdbID:    movie.ImdbID,
		Title:     movie.Title,
		Year:      movie.Year,
		PosterURL: movie.PosterURL,
		Type:      string(movie.Type),
	}
}

func voteToResponse(vote models.MovieVote) VoteResponse {
	return VoteResponse{
		ID:      vote.ID,
		UserID:  vote.UserID,
		MovieID: vote.MovieID,
		GroupID: vote.GroupID,
		Vote:    vote.Vote,
		Movie:   movieToResponse(vote.Movie),
	}
}

// UpsertVote casts or changes the current user's vote for a movie
// @Summary Cast or change a vote
// @Description Upsert a vote for a movie, optionally scoped to a group; the movie record is created on first vote
// @Tags votes
// @Accept json
// @Produce json
// @Param request body UpsertVoteRequest true "Vote details"
// @Success 200 {object} VoteResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 422 {object} map[string]string "Unknown movie without metadata"
// @Security BearerAuth
// @Router /votes [post]
func (h *Handler) UpsertVote(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	var req UpsertVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Group-scoped votes require membership
	if req.GroupID != nil {
		if err := h.db.Where("user_id = ? AND group_id = ?", userID, *req.GroupID).First(&models.UserGroup{}).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
			return
		}
	}

	var payload *MoviePayload
	if req.Movie != nil {
		payload = &MoviePayload{
			Title:     req.Movie.Title,
			Year:      req.Movie.Year,
			PosterURL: req.Movie.PosterURL,
			Type:      models.MovieType(req.Movie.Type),
		}
	}

	vote, err := Upsert(h.db, userID, req.GroupID, req.ImdbID, req.Vote, payload)
	if err != nil {
		if errors.Is(err, ErrUnknownMovie) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Movie not found; include its metadata to vote for it"})
			return
		}
		log.Printf("Failed to upsert vote for user %d on %s: %v", userID, req.ImdbID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save vote"})
		return
	}

	// Reload with the movie attached for the response
	var full models.MovieVote
	if err := h.db.Preload("Movie").First(&full, vote.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load vote"})
		return
	}

	c.JSON(http.StatusOK, voteToResponse(full))
}

// ListMine returns the current user's votes, filtered to a group scope or
// to the personal scope
// @Summary List my votes
// @Tags votes
// @Produce json
// @Param group_id query int false "Restrict to a group scope"
// @Param personal query bool false "Restrict to the personal scope"
// @Success 200 {array} VoteResponse
// @Security BearerAuth
// @Router /votes [get]
func (h *Handler) ListMine(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	query := h.db.Preload("Movie").Where("user_id = ?", userID)
	if groupIDStr := c.Query("group_id"); groupIDStr != "" {
		groupID, err := strconv.ParseUint(groupIDStr, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid group ID"})
			return
		}
		query = query.Where("group_id = ?", groupID)
	} else if c.Query("personal") == "true" {
		query = query.Where("group_id IS NULL")
	}

	var votes []models.MovieVote
	if err := query.Order("updated_at DESC").Find(&votes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch votes"})
		return
	}

	resp := make([]VoteResponse, len(votes))
	for i, vote := range votes {
		resp[i] = voteToResponse(vote)
	}

	c.JSON(http.StatusOK, resp)
}

// GroupTally returns per-movie vote totals for a group (members only)
// @Summary Tally a group's votes
// @Tags votes
// @Produce json
// @Param id path int true "Group ID"
// @Success 200 {array} TallyEntry
// @Security BearerAuth
// @Router /groups/{id}/votes [get]
func (h *Handler) GroupTally(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	groupID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid group ID"})
		return
	}

	if err := h.db.Where("user_id = ? AND group_id = ?", userID, groupID).First(&models.UserGroup{}).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		return
	}

	var votes []models.MovieVote
	if err := h.db.Preload("Movie").Where("group_id = ?", groupID).Find(&votes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch votes"})
		return
	}

	byMovie := make(map[uint]*TallyEntry)
	order := make([]uint, 0, len(votes))
	for _, vote := range votes {
		entry, ok := byMovie[vote.MovieID]
		if !ok {
			entry = &TallyEntry{Movie: movieToResponse(vote.Movie)}
			byMovie[vote.MovieID] = entry
			order = append(order, vote.MovieID)
		}
		entry.Total += vote.Vote
		if vote.Vote != 0 {
			entry.Voters++
		}
	}

	tally := make([]TallyEntry, len(order))
	for i, movieID := range order {
		tally[i] = *byMovie[movieID]
	}

	c.JSON(http.StatusOK, tally)
}

// RegisterRoutes registers vote routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.ListMine)
	rg.POST("", h.UpsertVote)
}

// RegisterGroupRoutes registers the per-group tally
func (h *Handler) RegisterGroupRoutes(rg *gin.RouterGroup) {
	rg.GET("/:id/votes", h.GroupTally)
}
