package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

const imageBaseURL = "https://image.tmdb.org/t/p/w500"

// Cache TTLs per endpoint. Search results churn, catalog data barely moves.
const (
	searchTTL    = 15 * time.Minute
	movieTTL     = 24 * time.Hour
	videosTTL    = 24 * time.Hour
	providersTTL = 6 * time.Hour
	creditsTTL   = 24 * time.Hour
)

// Client talks to the TMDB v3 API
type Client interface {
	SearchMovies(ctx context.Context, query string, page int) (*SearchResponse, error)
	GetMovie(ctx context.Context, movieID int64) (*MovieDetail, error)
	GetVideos(ctx context.Context, movieID int64) (*VideosResponse, error)
	GetProviders(ctx context.Context, movieID int64, region string) (*Providers, error)
	GetCredits(ctx context.Context, movieID int64) (*Credits, error)
}

type client struct {
	httpClient *http.Client
	cache      *redis.Client
	apiKey     string
	baseURL    string
}

// NewClient creates a TMDB client. cache may be nil, in which case every
// call goes straight to the API.
func NewClient(apiKey, baseURL string, cache *redis.Client) Client {
	return &client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		cache:      cache,
		apiKey:     apiKey,
		baseURL:    baseURL,
	}
}

// PosterURL turns a TMDB poster path into a full image URL
func PosterURL(posterPath string) string {
	if posterPath == "" {
		return ""
	}
	return imageBaseURL + posterPath
}

func (c *client) SearchMovies(ctx context.Context, query string, page int) (*SearchResponse, error) {
	if page < 1 {
		page = 1
	}

	cacheKey := fmt.Sprintf("tmdb:search:%s:%d", query, page)
	var resp SearchResponse
	if c.cacheGet(ctx, cacheKey, &resp) {
		return &resp, nil
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("page", strconv.Itoa(page))
	if err := c.get(ctx, "/search/movie", params, &resp); err != nil {
		return nil, err
	}

	for i := range resp.Results {
		resp.Results[i].PosterURL = PosterURL(resp.Results[i].PosterPath)
	}

	c.cacheSet(ctx, cacheKey, &resp, searchTTL)
	return &resp, nil
}

func (c *client) GetMovie(ctx context.Context, movieID int64) (*MovieDetail, error) {
	cacheKey := fmt.Sprintf("tmdb:movie:%d", movieID)
	var detail MovieDetail
	if c.cacheGet(ctx, cacheKey, &detail) {
		return &detail, nil
	}

	if err := c.get(ctx, fmt.Sprintf("/movie/%d", movieID), nil, &detail); err != nil {
		return nil, err
	}
	detail.PosterURL = PosterURL(detail.PosterPath)

	c.cacheSet(ctx, cacheKey, &detail, movieTTL)
	return &detail, nil
}

func (c *client) GetVideos(ctx context.Context, movieID int64) (*VideosResponse, error) {
	cacheKey := fmt.Sprintf("tmdb:videos:%d", movieID)
	var videos VideosResponse
	if c.cacheGet(ctx, cacheKey, &videos) {
		return &videos, nil
	}

	if err := c.get(ctx, fmt.Sprintf("/movie/%d/videos", movieID), nil, &videos); err != nil {
		return nil, err
	}

	c.cacheSet(ctx, cacheKey, &videos, videosTTL)
	return &videos, nil
}

func (c *client) GetProviders(ctx context.Context, movieID int64, region string) (*Providers, error) {
	cacheKey := fmt.Sprintf("tmdb:providers:%d:%s", movieID, region)
	var providers Providers
	if c.cacheGet(ctx, cacheKey, &providers) {
		return &providers, nil
	}

	var raw providersResponse
	if err := c.get(ctx, fmt.Sprintf("/movie/%d/watch/providers", movieID), nil, &raw); err != nil {
		return nil, err
	}

	// The API returns every region; keep only the requested one. A region
	// with no offerings comes back as an empty listing, not an error.
	regional := raw.Results[region]

	c.cacheSet(ctx, cacheKey, &regional, providersTTL)
	return &regional, nil
}

func (c *client) GetCredits(ctx context.Context, movieID int64) (*Credits, error) {
	cacheKey := fmt.Sprintf("tmdb:credits:%d", movieID)
	var credits Credits
	if c.cacheGet(ctx, cacheKey, &credits) {
		return &credits, nil
	}

	if err := c.get(ctx, fmt.Sprintf("/movie/%d/credits", movieID), nil, &credits); err != nil {
		return nil, err
	}

	c.cacheSet(ctx, cacheKey, &credits, creditsTTL)
	return &credits, nil
}

// get performs one API request and decodes the JSON body into out
func (c *client) get(ctx context.Context, path string, params url.Values, out any) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)

	reqURL := c.baseURL + path + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build request for %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, path)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", path, err)
	}

	return nil
}

// cacheGet loads a cached response. A cache failure is never fatal, the
// call just falls through to the API.
func (c *client) cacheGet(ctx context.Context, key string, out any) bool {
	if c.cache == nil {
		return false
	}

	data, err := c.cache.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.WithError(err).WithField("key", key).Debug("TMDB cache read failed")
		}
		return false
	}

	if err := json.Unmarshal(data, out); err != nil {
		log.WithError(err).WithField("key", key).Warn("Corrupt TMDB cache entry")
		return false
	}
	return true
}

func (c *client) cacheSet(ctx context.Context, key string, value any, ttl time.Duration) {
	if c.cache == nil {
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.cache.Set(ctx, key, data, ttl).Err(); err != nil {
		log.WithError(err).WithField("key", key).Debug("TMDB cache write failed")
	}
}
