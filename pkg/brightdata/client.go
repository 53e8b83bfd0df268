// Package brightdata is a client for the Bright Data SERP proxy and dataset
// (scrape / trigger / snapshot) APIs.
package brightdata

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/tidwall/gjson"
)

const defaultBaseURL = "https://api.brightdata.com"

// ErrMalformedResponse is returned when a 2xx response body is not valid JSON
// where JSON is required.
var ErrMalformedResponse = errors.New("brightdata: malformed response body")

// Client defines the Bright Data API operations.
type Client interface {
	Search(ctx context.Context, req SearchRequest) (*SearchResponse, error)
	Scrape(ctx context.Context, req DatasetRequest) (*DatasetResponse, error)
	Trigger(ctx context.Context, req DatasetRequest) (*DatasetResponse, error)
	Snapshot(ctx context.Context, id string) (*SnapshotResponse, error)
}

// SearchRequest is the body for POST /request. URL is the search-engine
// page the proxy should fetch.
type SearchRequest struct {
	Zone   string `json:"zone"`
	URL    string `json:"url"`
	Format string `json:"format"`
}

// SearchResponse holds the organic results of a proxied search, in order.
type SearchResponse struct {
	Organic []OrganicResult
}

// OrganicResult is one organic search hit. Link falls back to the "url"
// field when "link" is absent.
type OrganicResult struct {
	Link  string
	Title string
}

// DatasetRequest is the body for POST /datasets/v3/scrape and /trigger.
type DatasetRequest struct {
	DatasetID string         `json:"dataset_id"`
	Input     []DatasetInput `json:"input"`
}

// DatasetInput is a single target of a dataset collection.
type DatasetInput struct {
	URL string `json:"url"`
}

// DatasetResponse is a 2xx response from the scrape or trigger endpoint.
// SnapshotID is set when the body carries a "snapshot_id".
type DatasetResponse struct {
	StatusCode int
	SnapshotID string
	Body       []byte
}

// SnapshotResponse is the response from GET /datasets/v3/snapshots/{id}.
// Ready is true only on HTTP 200.
type SnapshotResponse struct {
	StatusCode int
	Ready      bool
	Body       []byte
}

// APIError is returned when Bright Data responds with a non-2xx status.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("brightdata: HTTP %d: %s", e.StatusCode, e.Body)
}

// NewDatasetRequest builds a single-URL dataset request.
func NewDatasetRequest(datasetID, targetURL string) DatasetRequest {
	return DatasetRequest{DatasetID: datasetID, Input: []DatasetInput{{URL: targetURL}}}
}

// GoogleSearchURL renders a Google results URL that asks the proxy for
// parsed JSON output.
func GoogleSearchURL(base, query string) string {
	return base + "?q=" + url.QueryEscape(query) + "&brd_json=1"
}

// Option configures the httpClient.
type Option func(*httpClient)

// WithBaseURL overrides the default base URL. An empty url keeps the default.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		if url != "" {
			c.baseURL = strings.TrimRight(url, "/")
		}
	}
}

// WithHTTPClient sets a custom *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// httpClient implements Client using net/http. It is the authenticated API
// session: every request carries the bearer key.
type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates a new Bright Data client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) Search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	if req.Format == "" {
		req.Format = "raw"
	}
	status, data, err := c.send(ctx, http.MethodPost, "/request", req)
	if err != nil {
		return nil, eris.Wrap(err, "brightdata: search")
	}
	if status < 200 || status >= 300 {
		return nil, &APIError{StatusCode: status, Body: string(data)}
	}
	if !gjson.ValidBytes(data) {
		return nil, eris.Wrap(ErrMalformedResponse, "brightdata: search")
	}

	resp := &SearchResponse{}
	gjson.GetBytes(data, "organic").ForEach(func(_, item gjson.Result) bool {
		link := item.Get("link").String()
		if link == "" {
			link = item.Get("url").String()
		}
		resp.Organic = append(resp.Organic, OrganicResult{
			Link:  link,
			Title: item.Get("title").String(),
		})
		return true
	})
	return resp, nil
}

func (c *httpClient) Scrape(ctx context.Context, req DatasetRequest) (*DatasetResponse, error) {
	resp, err := c.dataset(ctx, "/datasets/v3/scrape", req)
	if err != nil {
		return nil, eris.Wrap(err, "brightdata: scrape")
	}
	return resp, nil
}

func (c *httpClient) Trigger(ctx context.Context, req DatasetRequest) (*DatasetResponse, error) {
	resp, err := c.dataset(ctx, "/datasets/v3/trigger", req)
	if err != nil {
		return nil, eris.Wrap(err, "brightdata: trigger")
	}
	return resp, nil
}

func (c *httpClient) Snapshot(ctx context.Context, id string) (*SnapshotResponse, error) {
	status, data, err := c.send(ctx, http.MethodGet, "/datasets/v3/snapshots/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, eris.Wrap(err, fmt.Sprintf("brightdata: get snapshot %s", id))
	}
	return &SnapshotResponse{
		StatusCode: status,
		Ready:      status == http.StatusOK,
		Body:       data,
	}, nil
}

func (c *httpClient) dataset(ctx context.Context, path string, req DatasetRequest) (*DatasetResponse, error) {
	status, data, err := c.send(ctx, http.MethodPost, path, req)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, &APIError{StatusCode: status, Body: string(data)}
	}
	resp := &DatasetResponse{StatusCode: status, Body: data}
	if gjson.ValidBytes(data) {
		resp.SnapshotID = gjson.GetBytes(data, "snapshot_id").String()
	}
	return resp, nil
}

// send performs a request and returns the status and raw body. Non-2xx
// statuses are not errors here; callers decide.
func (c *httpClient) send(ctx context.Context, method, path string, body any) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return 0, nil, eris.Wrap(err, "marshal request")
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, eris.Wrap(err, "create request")
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, eris.Wrap(err, "execute request")
	}
	defer resp.Body.Close() //nolint:errcheck

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, eris.Wrap(err, "read response body")
	}
	return resp.StatusCode, data, nil
}
