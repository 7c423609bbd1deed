package omdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Client talks to the OMDb movie-metadata API
type Client struct {
	APIKey  string
	BaseURL string
	HTTP    *http.Client
}

// SearchResult is a single entry in an OMDb title search
type SearchResult struct {
	Title  string `json:"Title"`
	Year   string `json:"Year"`
	ImdbID string `json:"imdbID"`
	Type   string `json:"Type"`
	Poster string `json:"Poster"`
}

// SearchResponse is the OMDb search envelope
type SearchResponse struct {
	Search       []SearchResult `json:"Search"`
	TotalResults string         `json:"totalResults"`
	Response     string         `json:"Response"`
	Error        string         `json:"Error"`
}

// Title is a full OMDb title record
type Title struct {
	Title    string `json:"Title"`
	Year     string `json:"Year"`
	ImdbID   string `json:"imdbID"`
	Type     string `json:"Type"`
	Poster   string `json:"Poster"`
	Plot     string `json:"Plot"`
	Genre    string `json:"Genre"`
	Runtime  string `json:"Runtime"`
	Response string `json:"Response"`
	Error    string `json:"Error"`
}

func New(apiKey, base string) *Client {
	return &Client{
		APIKey:  apiKey,
		BaseURL: base,
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Search queries OMDb for titles matching the given text.
func (c *Client) Search(ctx context.Context, query string, page int) (*SearchResponse, error) {
	u, _ := url.Parse(c.BaseURL)
	q := u.Query()
	q.Set("apikey", c.APIKey)
	q.Set("s", query)
	if page > 0 {
		q.Set("page", fmt.Sprint(page))
	}
	u.RawQuery = q.Encode()

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	res, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("omdb status %d", res.StatusCode)
	}
	var out SearchResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, err
	}
	if out.Response == "False" && out.Error != "" && out.Error != "Movie not found!" {
		return nil, fmt.Errorf("omdb: %s", out.Error)
	}
	return &out, nil
}

// GetByImdbID fetches a single title by its IMDb id.
func (c *Client) GetByImdbID(ctx context.Context, imdbID string) (*Title, error) {
	u, _ := url.Parse(c.BaseURL)
	q := u.Query()
	q.Set("apikey", c.APIKey)
	q.Set("i", imdbID)
	u.RawQuery = q.Encode()

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	res, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("omdb status %d", res.StatusCode)
	}
	var out Title
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, err
	}
	if out.Response == "False" {
		return nil, fmt.Errorf("omdb: %s", out.Error)
	}
	return &out, nil
}
