package movies

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ross-mclain-br/decyde/pkg/decyde/omdb"
)

// Handler proxies movie-metadata searches for the UI
type Handler struct {
	client *omdb.Client
}

// NewHandler creates a new movies handler
func NewHandler(client *omdb.Client) *Handler {
	return &Handler{client: client}
}

// Search searches the metadata provider by title
// @Summary Search movies
// @Description Search the movie-metadata provider by title
// @Tags movies
// @Produce json
// @Param q query string true "Title search text"
// @Param page query int false "Result page"
// @Success 200 {object} omdb.SearchResponse
// @Security BearerAuth
// @Router /movies/search [get]
func (h *Handler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query parameter q is required"})
		return
	}

	page := 0
	if pageStr := c.Query("page"); pageStr != "" {
		parsed, err := strconv.Atoi(pageStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid page"})
			return
		}
		page = parsed
	}

	result, err := h.client.Search(c.Request.Context(), query, page)
	if err != nil {
		log.Printf("Movie search failed for %q: %v", query, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Movie search unavailable"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// Get fetches a single title by IMDb id
// @Summary Get a movie by IMDb id
// @Tags movies
// @Produce json
// @Param imdbId path string true "IMDb id"
// @Success 200 {object} omdb.Title
// @Security BearerAuth
// @Router /movies/{imdbId} [get]
func (h *Handler) Get(c *gin.Context) {
	imdbID := c.Param("imdbId")

	title, err := h.client.GetByImdbID(c.Request.Context(), imdbID)
	if err != nil {
		log.Printf("Movie lookup failed for %s: %v", imdbID, err)
		c.JSON(http.StatusNotFound, gin.H{"error": "Movie not found"})
		return
	}

	c.JSON(http.StatusOK, title)
}

// RegisterRoutes registers movie routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/search", h.Search)
	rg.GET("/:imdbId", h.Get)
}
