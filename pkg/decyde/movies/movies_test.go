package movies

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ross-mclain-br/decyde/pkg/decyde/omdb"
)

func setupTestRouter(upstreamURL string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := NewHandler(omdb.New("test-key", upstreamURL))
	handler.RegisterRoutes(r.Group("/movies"))
	return r
}

func TestSearchProxy(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"Search": [{"Title": "The Godfather", "Year": "1972", "imdbID": "tt0068646", "Type": "movie", "Poster": "N/A"}],
			"totalResults": "1",
			"Response": "True"
		}`))
	}))
	defer upstream.Close()

	router := setupTestRouter(upstream.URL)

	req, _ := http.NewRequest("GET", "/movies/search?q=godfather", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var result omdb.SearchResponse
	json.Unmarshal(resp.Body.Bytes(), &result)
	if len(result.Search) != 1 || result.Search[0].ImdbID != "tt0068646" {
		t.Errorf("Unexpected search payload: %+v", result)
	}
}

func TestSearchRequiresQuery(t *testing.T) {
	router := setupTestRouter("http://unused.invalid")

	req, _ := http.NewRequest("GET", "/movies/search", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", resp.Code)
	}
}

func TestSearchUpstreamDown(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer upstream.Close()

	router := setupTestRouter(upstream.URL)

	req, _ := http.NewRequest("GET", "/movies/search?q=anything", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadGateway {
		t.Errorf("Expected status 502, got %d", resp.Code)
	}
}

func TestGetMovie(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"Title": "The Godfather", "Year": "1972", "imdbID": "tt0068646", "Type": "movie", "Response": "True"}`))
	}))
	defer upstream.Close()

	router := setupTestRouter(upstream.URL)

	req, _ := http.NewRequest("GET", "/movies/tt0068646", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var title omdb.Title
	json.Unmarshal(resp.Body.Bytes(), &title)
	if title.ImdbID != "tt0068646" {
		t.Errorf("Expected imdbID tt0068646, got %s", title.ImdbID)
	}
}
