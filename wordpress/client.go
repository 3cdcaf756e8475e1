// Package wordpress publishes posts to a WordPress site through its REST
// API, authenticating with an application password.
package wordpress

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/postforge/postforge/errors"
	"github.com/postforge/postforge/internal/httpclient"
	"github.com/postforge/postforge/internal/util"
	"github.com/postforge/postforge/version"
)

// postsEndpoint is the REST route for creating posts, joined onto the site
// domain. The trailing slash matters to some WordPress rewrite setups.
const postsEndpoint = "/wp-json/wp/v2/posts/"

// StatusPublish makes a created post publicly visible immediately.
const StatusPublish = "publish"

// DefaultTimeout bounds a single create-post request.
const DefaultTimeout = 30 * time.Second

// Post is the request body for creating a post.
type Post struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Status  string `json:"status"`
}

// PostResponse is the subset of the created-post response the agent uses.
type PostResponse struct {
	ID   int    `json:"id"`
	Link string `json:"link,omitempty"`
}

// Config holds the connection settings for one WordPress site.
type Config struct {
	// Domain is the site root, scheme included (https://blog.example.com).
	Domain string

	// Username and AppPassword authenticate via HTTP basic auth. WordPress
	// application passwords are space-separated; they are sent verbatim.
	Username    string
	AppPassword string

	// Timeout bounds each request. Zero means DefaultTimeout.
	Timeout time.Duration

	// AllowPrivateHosts permits publishing to localhost and private-network
	// domains, for a CMS on the operator's own network. Off by default:
	// without it, private targets are refused both here and at dial time.
	AllowPrivateHosts bool

	// Logger for publish outcomes. Nil disables logging.
	Logger *zap.SugaredLogger
}

// Client publishes posts to a single WordPress site.
type Client struct {
	domain      string
	username    string
	appPassword string
	httpClient  *httpclient.SaferClient
	logger      *zap.SugaredLogger
}

// NewClient validates the site domain and returns a publisher for it.
// Validation failures are configuration errors.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.Domain) == "" {
		return nil, errors.NewConfigf("wordpress domain not configured")
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	httpClient := httpclient.NewSaferClient(timeout)
	if cfg.AllowPrivateHosts {
		httpClient = httpclient.NewSaferClientWithOptions(timeout, httpclient.SaferClientOptions{
			BlockPrivateIP: util.Ptr(false),
		})
	}
	if _, err := httpClient.ValidateURL(cfg.Domain); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "invalid wordpress domain"), errors.ErrConfig)
	}

	log := cfg.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	return &Client{
		domain:      strings.TrimRight(cfg.Domain, "/"),
		username:    cfg.Username,
		appPassword: cfg.AppPassword,
		httpClient:  httpClient,
		logger:      log,
	}, nil
}

// Domain returns the configured site root.
func (c *Client) Domain() string {
	return c.domain
}

// CreatePost creates a post and returns the decoded response. Any status
// other than 201, and any transport failure, is returned as a publish-kind
// error carrying the status and a response excerpt.
func (c *Client) CreatePost(ctx context.Context, post Post) (*PostResponse, error) {
	if post.Status == "" {
		post.Status = StatusPublish
	}

	body, err := json.Marshal(post)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal post")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.domain+postsEndpoint, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())
	req.SetBasicAuth(c.username, c.appPassword)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.WrapPublish(err, "wordpress request failed")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.WrapPublish(err, "failed to read wordpress response")
	}

	if resp.StatusCode != http.StatusCreated {
		return nil, errors.Mark(
			errors.Newf("wordpress returned status %d: %s", resp.StatusCode, excerpt(respBody)),
			errors.ErrPublish,
		)
	}

	var created PostResponse
	if err := json.Unmarshal(respBody, &created); err != nil {
		return nil, errors.WrapPublish(err, "failed to decode wordpress response")
	}

	c.logger.Debugw("wordpress post created",
		"post_id", created.ID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return &created, nil
}

// Publish creates a published post with the given title and body and
// reports the outcome as a boolean: true only when WordPress answered 201.
// Failures are logged, never returned; success logs the new post ID. No
// retry happens here.
func (c *Client) Publish(ctx context.Context, title, body string) bool {
	created, err := c.CreatePost(ctx, Post{Title: title, Content: body, Status: StatusPublish})
	if err != nil {
		c.logger.Errorw("failed to publish blog post",
			"title", title,
			"error", err,
		)
		return false
	}

	c.logger.Infow("blog post published",
		"post_id", created.ID,
		"title", title,
	)
	return true
}

// SetHTTPClient swaps the underlying HTTP client. Tests use this to point
// the publisher at local servers that SSRF protection would block.
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = httpclient.WrapClient(client)
}

// excerpt trims a response body for inclusion in error messages.
func excerpt(body []byte) string {
	const maxLen = 200
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	return s
}
