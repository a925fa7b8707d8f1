package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"powerfulchat/internal/services"
)

// Person represents the TMDB person details payload.
type Person struct {
	ID                 int64    `json:"id"`
	Name               string   `json:"name"`
	Biography          string   `json:"biography"`
	Birthday           string   `json:"birthday"`
	Deathday           string   `json:"deathday"`
	Gender             int      `json:"gender"`
	PlaceOfBirth       string   `json:"place_of_birth"`
	ProfilePath        string   `json:"profile_path"`
	KnownForDepartment string   `json:"known_for_department"`
	AlsoKnownAs        []string `json:"also_known_as"`
	Popularity         float64  `json:"popularity"`
}

// CreditEntry describes one cast or crew credit from a person's combined
// filmography. Title is populated for movies, Name for TV entries.
type CreditEntry struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Name        string `json:"name"`
	Character   string `json:"character"`
	Job         string `json:"job"`
	Department  string `json:"department"`
	MediaType   string `json:"media_type"`
	ReleaseDate string `json:"release_date"`
}

// DisplayTitle returns the work title regardless of media type.
func (e CreditEntry) DisplayTitle() string {
	if title := strings.TrimSpace(e.Title); title != "" {
		return title
	}
	return strings.TrimSpace(e.Name)
}

// CombinedCredits models the TMDB combined credits response.
type CombinedCredits struct {
	ID   int64         `json:"id"`
	Cast []CreditEntry `json:"cast"`
	Crew []CreditEntry `json:"crew"`
}

// Movie represents the subset of TMDB movie details the importer needs.
type Movie struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	ReleaseDate string `json:"release_date"`
	PosterPath  string `json:"poster_path"`
}

// PeopleAPI defines the TMDB operations used by the enrichment pipeline.
type PeopleAPI interface {
	GetPerson(ctx context.Context, personID int64) (*Person, error)
	GetCombinedCredits(ctx context.Context, personID int64) (*CombinedCredits, error)
	GetMovieDetails(ctx context.Context, movieID int64) (*Movie, error)
}

// Client provides access to the TMDB API for person metadata.
type Client struct {
	apiKey     string
	baseURL    string
	language   string
	httpClient *http.Client
}

var _ PeopleAPI = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// New creates a TMDB client.
func New(apiKey, baseURL, language string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("tmdb api key required")
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("tmdb base url required")
	}
	language = strings.TrimSpace(language)
	client := &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		language:   language,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// GetPerson fetches person details by TMDB ID.
func (c *Client) GetPerson(ctx context.Context, personID int64) (*Person, error) {
	if personID <= 0 {
		return nil, errors.New("person id must be positive")
	}
	var payload Person
	if err := c.getJSON(ctx, fmt.Sprintf("/person/%d", personID), "person details", &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// GetCombinedCredits fetches the combined cast and crew filmography for a person.
func (c *Client) GetCombinedCredits(ctx context.Context, personID int64) (*CombinedCredits, error) {
	if personID <= 0 {
		return nil, errors.New("person id must be positive")
	}
	var payload CombinedCredits
	if err := c.getJSON(ctx, fmt.Sprintf("/person/%d/combined_credits", personID), "combined credits", &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// GetMovieDetails fetches movie details by TMDB ID.
func (c *Client) GetMovieDetails(ctx context.Context, movieID int64) (*Movie, error) {
	if movieID <= 0 {
		return nil, errors.New("movie id must be positive")
	}
	var payload Movie
	if err := c.getJSON(ctx, fmt.Sprintf("/movie/%d", movieID), "movie details", &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func (c *Client) getJSON(ctx context.Context, path, op string, target any) error {
	endpoint, err := url.Parse(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("parse tmdb url: %w", err)
	}
	params := url.Values{}
	params.Set("api_key", c.apiKey)
	if c.language != "" {
		params.Set("language", c.language)
	}
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return services.Wrap(services.ErrExternalService, "tmdb", op, fmt.Sprintf("execute request (latency=%v)", latency), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return services.Wrap(services.ErrExternalService, "tmdb", op, fmt.Sprintf("returned %d (latency=%v)", resp.StatusCode, latency), nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("decode %s response: %w", op, err)
	}
	return nil
}

// ProfileImageURL resolves a profile_path into a full image URL, or "" when
// the person has no profile image.
func ProfileImageURL(profilePath string) string {
	profilePath = strings.TrimSpace(profilePath)
	if profilePath == "" {
		return ""
	}
	return "https://image.tmdb.org/t/p/original" + profilePath
}
