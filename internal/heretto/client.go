// Package heretto implements the HTTP client for the Heretto Deploy API.
// Every tool request is routed through here: the client owns authentication,
// rate limiting and response size limits, and returns upstream JSON as
// opaque values for the portal augmentation layer to reshape.
package heretto

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/heretto-labs/heretto-mcp/internal/config"
	"github.com/heretto-labs/heretto-mcp/internal/utils/httpclient"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	userAgent      = "heretto-mcp/0.1.0"
	authHeader     = "X-Deploy-API-Auth"
	requestTimeout = 30 * time.Second

	// maxResponseBytes caps upstream response bodies to prevent memory exhaustion
	maxResponseBytes = 10 * 1024 * 1024

	// maxErrorBodyBytes is how much of an upstream error body is kept in error messages
	maxErrorBodyBytes = 512
)

// Client handles HTTP operations against the Heretto Deploy API
type Client struct {
	baseURL     string
	token       string
	sessionUUID string
	httpClient  *http.Client
	limiter     *rate.Limiter
	logger      *logrus.Logger
}

// APIError describes a non-2xx response from the Deploy API
type APIError struct {
	StatusCode int
	Method     string
	URL        string
	Body       string
}

func (e *APIError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("deploy API returned status %d for %s %s: %s", e.StatusCode, e.Method, e.URL, e.Body)
	}
	return fmt.Sprintf("deploy API returned status %d for %s %s", e.StatusCode, e.Method, e.URL)
}

// searchRequest is the body for the deployment search endpoint
type searchRequest struct {
	QueryString string `json:"queryString"`
}

// NewClient creates a Deploy API client from the current process configuration
func NewClient(cfg *config.Config, logger *logrus.Logger) *Client {
	return &Client{
		baseURL:     cfg.APIBaseURL,
		token:       cfg.DeployToken,
		sessionUUID: uuid.New().String(),
		httpClient:  httpclient.NewHTTPClientWithProxyAndLogger(requestTimeout, logger),
		limiter:     rate.NewLimiter(rate.Limit(cfg.RateLimit), 1),
		logger:      logger,
	}
}

// Search runs a full-text search within a deployment
func (c *Client) Search(ctx context.Context, org, dep, query string) (interface{}, error) {
	requestURL := c.deploymentURL(org, dep, "search")
	body, err := c.do(ctx, http.MethodPost, requestURL, searchRequest{QueryString: query}, nil)
	if err != nil {
		return nil, err
	}
	return decodeJSON(body)
}

// GetDeployment fetches deployment metadata
func (c *Client) GetDeployment(ctx context.Context, org, dep string) (interface{}, error) {
	body, err := c.do(ctx, http.MethodGet, c.deploymentURL(org, dep), nil, nil)
	if err != nil {
		return nil, err
	}
	return decodeJSON(body)
}

// GetStructure fetches the deployment's full content tree
func (c *Client) GetStructure(ctx context.Context, org, dep string) (interface{}, error) {
	body, err := c.do(ctx, http.MethodGet, c.deploymentURL(org, dep, "structure"), nil, nil)
	if err != nil {
		return nil, err
	}
	return decodeJSON(body)
}

// GetHTMLStrings fetches localised HTML strings for a deployment
func (c *Client) GetHTMLStrings(ctx context.Context, org, dep, locale string) (interface{}, error) {
	requestURL := c.deploymentURL(org, dep, "html-strings")
	if locale != "" {
		requestURL += "?" + url.Values{"locale": {locale}}.Encode()
	}
	body, err := c.do(ctx, http.MethodGet, requestURL, nil, nil)
	if err != nil {
		return nil, err
	}
	return decodeJSON(body)
}

// GetContent fetches content by path or resource ID. Both selectors are
// forwarded when supplied; the upstream decides how to combine them.
func (c *Client) GetContent(ctx context.Context, org, dep, forPath, forID string) (interface{}, error) {
	params := url.Values{}
	if forPath != "" {
		params.Set("for-path", forPath)
	}
	if forID != "" {
		params.Set("for-id", forID)
	}

	requestURL := c.deploymentURL(org, dep, "content")
	if encoded := params.Encode(); encoded != "" {
		requestURL += "?" + encoded
	}

	body, err := c.do(ctx, http.MethodGet, requestURL, nil, nil)
	if err != nil {
		return nil, err
	}
	return decodeJSON(body)
}

// GetAPISpecification fetches a published OpenAPI specification as raw text.
// Specs may be YAML or JSON; the body is returned byte-exact, undecoded.
func (c *Client) GetAPISpecification(ctx context.Context, org, dep, specID string) (string, error) {
	requestURL := c.deploymentURL(org, dep, "api-specification", specID)
	body, err := c.do(ctx, http.MethodGet, requestURL, nil, map[string]string{"Accept": "*/*"})
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// deploymentURL builds an endpoint URL under /org/{org}/deployments/{dep}
func (c *Client) deploymentURL(org, dep string, segments ...string) string {
	parts := []string{c.baseURL, "org", url.PathEscape(org), "deployments", url.PathEscape(dep)}
	for _, segment := range segments {
		parts = append(parts, url.PathEscape(segment))
	}
	return strings.Join(parts, "/")
}

// do executes a single Deploy API request and returns the response body.
// The rate limiter gates every call so bursts of tool invocations cannot
// hammer the upstream.
func (c *Client) do(ctx context.Context, method, requestURL string, payload interface{}, headers map[string]string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range headers {
		req.Header.Set(key, value)
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-MCP-Session-Id", c.sessionUUID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set(authHeader, c.token)
	}

	c.logger.WithFields(logrus.Fields{
		"method": method,
		"url":    requestURL,
	}).Debug("Calling Heretto Deploy API")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("deploy API request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore close error as we're already handling other errors
	}()

	limitedReader := io.LimitReader(resp.Body, maxResponseBytes)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.WithFields(logrus.Fields{
			"method":     method,
			"url":        requestURL,
			"statusCode": resp.StatusCode,
		}).Error("Deploy API returned error status")
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Method:     method,
			URL:        requestURL,
			Body:       truncateBody(body),
		}
	}

	c.logger.WithFields(logrus.Fields{
		"method":     method,
		"url":        requestURL,
		"statusCode": resp.StatusCode,
		"bytes":      len(body),
	}).Debug("Deploy API request completed")

	return body, nil
}

// decodeJSON parses an upstream body into an opaque JSON value
func decodeJSON(body []byte) (interface{}, error) {
	var payload interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse deploy API response: %w", err)
	}
	return payload, nil
}

// truncateBody trims an error body for inclusion in error messages
func truncateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) > maxErrorBodyBytes {
		return text[:maxErrorBodyBytes] + "..."
	}
	return text
}
