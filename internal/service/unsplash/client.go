package unsplash

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/kapu/astroweb-go/internal/constants"
	"github.com/kapu/astroweb-go/internal/service/cache"
	"github.com/kapu/astroweb-go/internal/util"
	"github.com/kapu/astroweb-go/pkg/errors"
)

// Client looks up a single landscape photo for a hero section.
type Client struct {
	httpClient *http.Client
	baseURL    string
	accessKey  string
	cache      *cache.CacheService
	logger     *zap.Logger
}

type Option func(*Client)

// WithBaseURL points the client at another host, e.g. an httptest server.
func WithBaseURL(base string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(base, "/") }
}

// WithCache memoizes query results in Redis.
func WithCache(cs *cache.CacheService) Option {
	return func(c *Client) { c.cache = cs }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func NewClient(accessKey string, logger *zap.Logger, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: constants.APIConfig.UnsplashTimeout},
		baseURL:    constants.APIConfig.UnsplashBaseURL,
		accessKey:  accessKey,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type randomPhoto struct {
	URLs struct {
		Regular string `json:"regular"`
	} `json:"urls"`
}

func imageKey(query string) string {
	return constants.CacheKeys.ImagePrefix + util.Normalize(strings.Join(strings.Fields(query), " "))
}

// FindImage returns the regular-size URL of a random photo matching query.
// An empty query returns "" without a request.
func (c *Client) FindImage(ctx context.Context, query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", nil
	}

	if c.cache != nil {
		var cached string
		if found, err := c.cache.Get(ctx, imageKey(query), &cached); err == nil && found {
			return cached, nil
		}
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("orientation", "landscape")
	params.Set("content_filter", "high")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/photos/random?"+params.Encode(), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Client-ID "+c.accessKey)
	req.Header.Set("Accept-Version", "v1")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errors.NewServiceError("unsplash request failed", "unsplash", "random_photo", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", errors.NewServiceError("unsplash read failed", "unsplash", "random_photo", err)
	}

	if resp.StatusCode >= 400 {
		c.logger.Warn("Unsplash lookup rejected",
			zap.String("query", query),
			zap.Int("status", resp.StatusCode),
		)
		return "", errors.NewServiceError(fmt.Sprintf("unsplash status %d", resp.StatusCode), "unsplash", "random_photo", nil)
	}

	var photo randomPhoto
	if err := json.Unmarshal(body, &photo); err != nil {
		return "", errors.NewServiceError("unsplash decode failed", "unsplash", "random_photo", err)
	}
	if photo.URLs.Regular == "" {
		return "", nil
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, imageKey(query), photo.URLs.Regular, constants.CacheTTL.ImageLookup); err != nil {
			c.logger.Debug("Failed to cache image lookup", zap.Error(err))
		}
	}
	return photo.URLs.Regular, nil
}
