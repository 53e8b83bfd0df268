// Package linkedin is a minimal client for the LinkedIn v2 member identity
// and UGC posting APIs.
package linkedin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

const (
	defaultBaseURL = "https://api.linkedin.com/v2"

	// VisibilityPublic shares a post with everyone.
	VisibilityPublic = "PUBLIC"

	identityTimeout = 20 * time.Second
	postTimeout     = 30 * time.Second
)

// Member is the resolved author identity.
type Member struct {
	URN string
}

// PersonURN formats a member id as a person URN.
func PersonURN(id string) string {
	return "urn:li:person:" + id
}

// APIError is returned when LinkedIn responds with status >= 400. Detail is
// the parsed JSON body, or the raw text when the body is not JSON.
type APIError struct {
	StatusCode int
	Body       string
	Detail     any
}

func (e *APIError) Error() string {
	return fmt.Sprintf("linkedin: HTTP %d: %s", e.StatusCode, e.Body)
}

// Option configures the Client.
type Option func(*Client)

// WithBaseURL overrides the default base URL.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithHTTPClient sets a custom *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithMemberURN sets an explicit author override. It wins over every other
// source.
func WithMemberURN(urn string) Option {
	return func(c *Client) {
		c.override = strings.TrimSpace(urn)
	}
}

// WithConfiguredMemberURN sets the author from configuration. It is used
// when no explicit override is given.
func WithConfiguredMemberURN(urn string) Option {
	return func(c *Client) {
		c.configured = strings.TrimSpace(urn)
	}
}

// Client posts on behalf of the member owning the access token. The
// resolved member is cached for the client's lifetime.
type Client struct {
	token      string
	baseURL    string
	http       *http.Client
	override   string
	configured string

	mu     sync.Mutex
	member *Member
}

// NewClient creates a LinkedIn client for accessToken.
func NewClient(accessToken string, opts ...Option) *Client {
	c := &Client{
		token:   accessToken,
		baseURL: defaultBaseURL,
		http:    &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ResolveMember returns the author identity: the explicit override, the
// configured URN, then GET /me "id", then GET /userinfo "sub". Any /me
// failure falls through to /userinfo.
func (c *Client) ResolveMember(ctx context.Context) (*Member, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.member != nil {
		return c.member, nil
	}

	for _, urn := range []string{c.override, c.configured} {
		if urn != "" {
			c.member = &Member{URN: urn}
			return c.member, nil
		}
	}

	id, err := c.lookup(ctx, "/me", "id")
	if err == nil {
		c.member = &Member{URN: PersonURN(id)}
		return c.member, nil
	}
	zap.L().Debug("linkedin: /me lookup failed, trying /userinfo", zap.Error(err))

	sub, err := c.lookup(ctx, "/userinfo", "sub")
	if err != nil {
		return nil, eris.Wrap(err, "linkedin: resolve member")
	}
	c.member = &Member{URN: PersonURN(sub)}
	return c.member, nil
}

func (c *Client) lookup(ctx context.Context, path, field string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, identityTimeout)
	defer cancel()

	status, body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return "", err
	}
	if status < 200 || status >= 300 {
		return "", newAPIError(status, body)
	}
	id := gjson.GetBytes(body, field).String()
	if id == "" {
		return "", eris.Errorf("linkedin: %s response has no %q", path, field)
	}
	return id, nil
}

type ugcPost struct {
	Author          string                `json:"author"`
	LifecycleState  string                `json:"lifecycleState"`
	SpecificContent map[string]shareBlock `json:"specificContent"`
	Visibility      map[string]string     `json:"visibility"`
}

type shareBlock struct {
	ShareCommentary    shareText `json:"shareCommentary"`
	ShareMediaCategory string    `json:"shareMediaCategory"`
}

type shareText struct {
	Text string `json:"text"`
}

// CreateTextPost publishes text as the resolved member and returns the
// decoded response. An empty visibility means PUBLIC. Failures are not
// retried.
func (c *Client) CreateTextPost(ctx context.Context, text, visibility string) (map[string]any, error) {
	member, err := c.ResolveMember(ctx)
	if err != nil {
		return nil, err
	}
	if visibility == "" {
		visibility = VisibilityPublic
	}

	post := ugcPost{
		Author:         member.URN,
		LifecycleState: "PUBLISHED",
		SpecificContent: map[string]shareBlock{
			"com.linkedin.ugc.ShareContent": {
				ShareCommentary:    shareText{Text: text},
				ShareMediaCategory: "NONE",
			},
		},
		Visibility: map[string]string{
			"com.linkedin.ugc.MemberNetworkVisibility": visibility,
		},
	}

	ctx, cancel := context.WithTimeout(ctx, postTimeout)
	defer cancel()

	status, body, err := c.do(ctx, http.MethodPost, "/ugcPosts", post)
	if err != nil {
		return nil, eris.Wrap(err, "linkedin: create post")
	}
	if status >= 400 {
		return nil, newAPIError(status, body)
	}

	out := map[string]any{}
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &out); err != nil {
			return nil, eris.Wrap(err, "linkedin: decode post response")
		}
	}
	return out, nil
}

func newAPIError(status int, body []byte) *APIError {
	e := &APIError{StatusCode: status, Body: string(body), Detail: string(body)}
	var parsed any
	if err := json.Unmarshal(body, &parsed); err == nil {
		e.Detail = parsed
	}
	return e
}

func (c *Client) do(ctx context.Context, method, path string, body any) (int, []byte, error) {
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
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Restli-Protocol-Version", "2.0.0")

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
