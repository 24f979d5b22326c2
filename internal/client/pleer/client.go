package pleer

//go:generate $MOCKGEN -source=client.go -destination=mocks/client_mock.go

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/np1/pms/internal/config"
	"github.com/np1/pms/internal/logger"
	http_transport "github.com/np1/pms/internal/transport/http"
	"github.com/np1/pms/internal/utils"
)

// Client defines the interface for interacting with the catalog service.
type Client interface {
	// Search returns one page of tracks matching query. Pages start at 1.
	Search(ctx context.Context, query string, page int) (*SearchResult, error)
	// GetTrackURL resolves a short-lived link to the audio of a track.
	GetTrackURL(ctx context.Context, trackID string, action URLAction) (string, error)
	// FetchTrack opens the audio stream at trackURL.
	FetchTrack(ctx context.Context, trackURL string) (*FetchTrackResult, error)
	// DownloadFromURL downloads arbitrary content, such as a cover image.
	DownloadFromURL(ctx context.Context, url string) (io.ReadCloser, error)
	// GetBaseURL returns the base URL of the catalog service.
	GetBaseURL() string
}

// searchCacheKey identifies a cached search page.
type searchCacheKey struct {
	query string
	page  int
}

// trackURLCacheKey identifies a cached link.
type trackURLCacheKey struct {
	trackID string
	action  URLAction
}

// ClientImpl implements the Client interface.
type ClientImpl struct {
	// baseURL is the base URL for API requests.
	baseURL string
	// pageSize is the number of results requested per page.
	pageSize int
	// apiClient makes the short JSON requests and is bounded by the request timeout.
	apiClient *http.Client
	// streamClient downloads audio and covers and has no overall timeout.
	streamClient *http.Client
	// searchCache keeps recent search pages so paging back and forth costs no requests.
	searchCache *lru.Cache[searchCacheKey, *SearchResult]
	// trackURLCache keeps resolved links until they are likely to expire.
	trackURLCache *expirable.LRU[trackURLCacheKey, string]
}

// NewClient creates a catalog client from the validated configuration.
func NewClient(cfg *config.Config) (Client, error) {
	cookies, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	baseURL, err := url.Parse(cfg.ServiceBaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid host URL: %w", err)
	}

	transport := http_transport.NewUserAgentInjector(
		http_transport.NewRetryTransport(
			http_transport.NewLogTransport(http.DefaultTransport, 0),
			cfg.RetryAttemptsCount,
			cfg.ParsedMinRetryPause,
			cfg.ParsedMaxRetryPause),
		utils.NewSimpleUserAgentProvider(http_transport.DefaultUserAgent))

	timeout := cfg.ParsedRequestTimeout
	if timeout <= 0 {
		timeout = http_transport.DefaultTimeout
	}

	searchCache, err := lru.New[searchCacheKey, *SearchResult](searchCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create search cache: %w", err)
	}

	client := &ClientImpl{
		baseURL:  strings.TrimRight(baseURL.String(), "/"),
		pageSize: int(cfg.ResultsPerPage),
		apiClient: &http.Client{
			Transport: transport,
			Jar:       cookies,
			Timeout:   timeout,
		},
		streamClient: &http.Client{
			Transport: transport,
			Jar:       cookies,
		},
		searchCache:   searchCache,
		trackURLCache: expirable.NewLRU[trackURLCacheKey, string](trackURLCacheSize, nil, trackURLCacheTTL),
	}

	return client, nil
}

// Search returns one page of tracks matching query.
// Identical queries differing only in case or spacing share a cache entry.
func (c *ClientImpl) Search(ctx context.Context, query string, page int) (*SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	page = max(page, 1)
	key := searchCacheKey{query: utils.NormalizeQuery(query), page: page}

	if cached, ok := c.searchCache.Get(key); ok {
		logger.Debugf(ctx, "Search cache hit for %q, page %d", query, page)

		return cached, nil
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("page", strconv.Itoa(page))

	if c.pageSize > 0 {
		params.Set("limit", strconv.Itoa(c.pageSize))
	}

	response, err := fetchJSON[searchResponse](ctx, c, http.MethodGet, searchURI, params)
	if err != nil {
		return nil, fmt.Errorf("failed to search for %q: %w", query, err)
	}

	if !response.Success {
		return nil, fmt.Errorf("%w: %q", ErrSearchFailed, query)
	}

	result := &SearchResult{
		Query:  query,
		Page:   page,
		Total:  int64(response.Count),
		Tracks: make([]*Track, 0, len(response.Tracks)),
	}

	offset := int64((page - 1) * max(c.pageSize, len(response.Tracks)))

	for _, raw := range response.Tracks {
		if raw == nil || strings.TrimSpace(string(raw.ID)) == "" {
			continue
		}

		result.Tracks = append(result.Tracks, raw.toTrack(offset+int64(len(result.Tracks))+1))
	}

	// Some responses omit the count.
	if result.Total == 0 && len(result.Tracks) > 0 {
		result.Total = offset + int64(len(result.Tracks))
	}

	c.searchCache.Add(key, result)

	logger.Debugf(ctx, "Search for %q page %d returned %d of %d tracks",
		query, page, len(result.Tracks), result.Total)

	return result, nil
}

// GetTrackURL resolves a short-lived link to the audio of a track.
func (c *ClientImpl) GetTrackURL(ctx context.Context, trackID string, action URLAction) (string, error) {
	trackID = strings.TrimSpace(trackID)
	if trackID == "" {
		return "", ErrEmptyTrackID
	}

	if action == "" {
		action = URLActionPlay
	}

	key := trackURLCacheKey{trackID: trackID, action: action}
	if cached, ok := c.trackURLCache.Get(key); ok {
		logger.Debugf(ctx, "Track link cache hit for ID: %s", trackID)

		return cached, nil
	}

	form := url.Values{}
	form.Set("action", string(action))
	form.Set("id", trackID)

	response, err := fetchJSON[trackURLResponse](ctx, c, http.MethodPost, trackURLURI, form)
	if err != nil {
		return "", fmt.Errorf("failed to resolve link for track %s: %w", trackID, err)
	}

	link := strings.TrimSpace(response.TrackLink)
	if !response.Success || link == "" {
		return "", fmt.Errorf("%w: %s", ErrTrackURLNotFound, trackID)
	}

	// Links may come back protocol-relative.
	if strings.HasPrefix(link, "//") {
		link = "https:" + link
	}

	c.trackURLCache.Add(key, link)

	return link, nil
}

// FetchTrack opens the audio stream at trackURL.
func (c *ClientImpl) FetchTrack(ctx context.Context, trackURL string) (*FetchTrackResult, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, trackURL, http.NoBody)
	if err != nil {
		return nil, err
	}

	// Ask for the whole file as a range so servers answer with an exact length.
	request.Header.Add("Range", "bytes=0-")

	response, err := c.streamClient.Do(request)
	if err != nil {
		return nil, err
	}

	if response.StatusCode != http.StatusOK && response.StatusCode != http.StatusPartialContent {
		response.Body.Close() //nolint:errcheck,gosec // Error on close is not critical here.

		return nil, fmt.Errorf("%w: %d", ErrUnexpectedHTTPStatus, response.StatusCode)
	}

	return &FetchTrackResult{
		Body:        response.Body,
		TotalBytes:  response.ContentLength,
		ContentType: response.Header.Get("Content-Type"),
	}, nil
}

// DownloadFromURL downloads content from the specified URL.
func (c *ClientImpl) DownloadFromURL(ctx context.Context, url string) (io.ReadCloser, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, err
	}

	response, err := c.streamClient.Do(request)
	if err != nil {
		return nil, err
	}

	if response.StatusCode != http.StatusOK {
		response.Body.Close() //nolint:errcheck,gosec // Error on close is not critical here.

		return nil, fmt.Errorf("%w: %d", ErrUnexpectedHTTPStatus, response.StatusCode)
	}

	return response.Body, nil
}

// GetBaseURL returns the base URL of the catalog service.
func (c *ClientImpl) GetBaseURL() string {
	return c.baseURL
}
