// Package twitter fetches hazard-related posts from the X API v2
// recent-search endpoint.
package twitter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/aquasentry/aquasentry/internal/domain"
)

// The fixed search query: any hazard term AND any region term, English only,
// original posts only. Kept verbatim from the operational query the analysts
// tuned; changing either disjunction changes what the ingester sees.
const (
	hazardTerms = `(cyclone OR tsunami OR "high tide" OR flooding OR "high waves" OR "storm surge")`
	regionTerms = `(India OR Mumbai OR Chennai OR Kolkata OR Kerala OR Odisha OR Gujarat OR Goa OR Andhra)`
)

// Query is the full recent-search query string submitted to the feed API.
const Query = hazardTerms + " " + regionTerms + " lang:en -is:retweet"

// Client fetches candidate post texts from the X recent-search API.
// It implements pipeline.FeedSearcher.
type Client struct {
	bearerToken string
	httpClient  *http.Client
	baseURL     string
	maxResults  int
	logger      *slog.Logger
}

// NewClient creates a feed search client. maxResults caps how many posts one
// fetch cycle requests; the endpoint accepts 10–100.
func NewClient(bearerToken string, maxResults int, logger *slog.Logger) *Client {
	return &Client{
		bearerToken: bearerToken,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL:    "https://api.twitter.com",
		maxResults: maxResults,
		logger:     logger,
	}
}

// FetchCandidates runs one recent-search call and returns the post texts in
// feed order. HTTP 429 maps to domain.ErrRateLimited; every other failure is
// a generic transport/API error. An empty feed is not an error.
func (c *Client) FetchCandidates(ctx context.Context) ([]string, error) {
	params := url.Values{
		"query":       {Query},
		"max_results": {strconv.Itoa(c.maxResults)},
	}
	fullURL := c.baseURL + "/2/tweets/search/recent?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.bearerToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("feed search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, domain.ErrRateLimited
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("feed API error: status %d: %s", resp.StatusCode, body)
	}

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	texts := make([]string, 0, len(sr.Data))
	for _, tw := range sr.Data {
		texts = append(texts, tw.Text)
	}
	return texts, nil
}

// X API v2 response types.

type searchResponse struct {
	Data []tweet `json:"data"`
	Meta meta    `json:"meta"`
}

type tweet struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type meta struct {
	ResultCount int `json:"result_count"`
}
