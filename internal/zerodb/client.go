// Package zerodb implements the typed HTTP client for the ZeroDB remote data
// platform. All table, vector, event, file, and memory operations issued by
// the application flow through this package, which translates transport
// failures and HTTP status codes into the application error taxonomy.
//
// Wire contract (consumed, not served):
//   - Base path: {base_url}/projects/{project_id}/database/...
//   - Auth: "Authorization: Bearer <api_key>" plus an X-Project-ID header
//   - Bodies: JSON both ways; an empty response body decodes to an empty object
//   - Status mapping: 401→Authentication, 403→Authorization, 404→NotFound,
//     409→Conflict, 422→Validation, 429→ExternalService (Retry-After
//     surfaced), ≥500→ExternalService, anything else non-2xx→Database
//
// The client carries no retry policy, no request queuing, and no batching;
// each call is bounded by a single configured timeout covering the whole
// round trip, and cancellation rides the caller's context. The underlying
// http.Client is shared by all concurrent requests and is created lazily on
// first use; Connect and Close are idempotent.
package zerodb

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/docflow/go-hr-backend/internal/apperr"
	"github.com/docflow/go-hr-backend/internal/config"
)

// ServiceName is attached to every ExternalService error raised here.
const ServiceName = "ZeroDB"

// Client is the project-scoped ZeroDB API client. The zero value is not
// usable; construct with New. Safe for concurrent use: the connection handle
// is guarded for lifecycle operations and the transport pools connections
// for in-flight requests.
type Client struct {
	baseURL   string
	apiKey    string
	projectID string
	timeout   time.Duration

	mu   sync.Mutex
	httc *http.Client // lazily created connection handle
}

// New constructs a client from configuration. No connection is established
// until Connect or the first request.
func New(cfg config.ZeroDBConfig) *Client {
	return &Client{
		baseURL:   cfg.BaseURL,
		apiKey:    cfg.APIKey,
		projectID: cfg.ProjectID,
		timeout:   cfg.Timeout,
	}
}

// Connect initializes the HTTP connection handle. It is a no-op when a live
// handle already exists.
func (c *Client) Connect() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.httc != nil {
		return
	}
	c.httc = &http.Client{Timeout: c.timeout}
	log.Info().Str("base_url", c.baseURL).Msg("zerodb client connected")
}

// Close releases the connection handle. Safe to call when already closed;
// a subsequent request lazily reconnects.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.httc == nil {
		return
	}
	c.httc.CloseIdleConnections()
	c.httc = nil
	log.Info().Msg("zerodb client connection closed")
}

// client returns the connection handle, creating it if absent.
func (c *Client) client() *http.Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.httc == nil {
		c.httc = &http.Client{Timeout: c.timeout}
		log.Info().Str("base_url", c.baseURL).Msg("zerodb client connected")
	}
	return c.httc
}

// Request issues one HTTP call against the project-scoped database path and
// returns the decoded JSON object. body, when non-nil, is marshaled as the
// JSON request body; query, when non-nil, is appended to the URL.
//
// All failure modes come back as taxonomy errors: transport timeouts and
// connection failures as ExternalService with the service name attached,
// other transport failures as a generic ExternalService, and non-2xx
// statuses per the package mapping.
func (c *Client) Request(ctx context.Context, method, path string, body any, query url.Values) (map[string]any, error) {
	u := fmt.Sprintf("%s/projects/%s/database%s", c.baseURL, c.projectID, path)
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var rdr io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, apperr.Validation("invalid request body: " + err.Error())
		}
		rdr = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, rdr)
	if err != nil {
		return nil, apperr.ExternalService("failed to build ZeroDB request: "+err.Error(), ServiceName)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Project-ID", c.projectID)

	log.Debug().Str("method", method).Str("path", path).Msg("zerodb request")

	resp, err := c.client().Do(req)
	if err != nil {
		return nil, c.transportError(err)
	}
	defer resp.Body.Close()

	return c.handleResponse(resp)
}

// transportError maps a transport-level failure onto the taxonomy. Timeouts
// and connection failures name the service; everything else is generic.
func (c *Client) transportError(err error) error {
	var ne net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &ne) && ne.Timeout():
		log.Error().Err(err).Msg("zerodb request timeout")
		return apperr.ExternalService(
			fmt.Sprintf("Request to ZeroDB timed out after %s", c.timeout), ServiceName)
	case isConnectError(err):
		log.Error().Err(err).Msg("zerodb connection error")
		return apperr.ExternalService("Failed to connect to ZeroDB API: "+err.Error(), ServiceName)
	default:
		log.Error().Err(err).Msg("zerodb http error")
		return apperr.ExternalService("HTTP error occurred: "+err.Error(), ServiceName)
	}
}

// isConnectError reports whether err is a dial/connection failure rather than
// a protocol-level one.
func isConnectError(err error) bool {
	var op *net.OpError
	return errors.As(err, &op)
}

// handleResponse decodes the response body and raises the taxonomy error
// matching the status code for non-2xx responses.
func (c *Client) handleResponse(resp *http.Response) (map[string]any, error) {
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperr.ExternalService("failed to read ZeroDB response: "+err.Error(), ServiceName)
	}

	data := map[string]any{}
	if len(raw) > 0 {
		if jerr := json.Unmarshal(raw, &data); jerr != nil {
			data = map[string]any{"raw": string(raw)}
		}
	}

	status := resp.StatusCode
	if status >= 200 && status < 300 {
		log.Debug().Int("status", status).Msg("zerodb response")
		return data, nil
	}

	msg := extractErrorMessage(data)
	log.Warn().Int("status", status).Str("error", msg).Msg("zerodb error response")

	switch {
	case status == http.StatusUnauthorized:
		return nil, apperr.Authentication("ZeroDB authentication failed: " + msg)
	case status == http.StatusForbidden:
		return nil, apperr.Authorization("ZeroDB access denied: " + msg)
	case status == http.StatusNotFound:
		return nil, apperr.NotFound("Resource not found: " + msg)
	case status == http.StatusConflict:
		return nil, apperr.Conflict("Resource conflict: " + msg)
	case status == http.StatusUnprocessableEntity:
		return nil, apperr.Validation("Validation failed: "+msg, validationDetails(data)...)
	case status == http.StatusTooManyRequests:
		retryAfter := resp.Header.Get("Retry-After")
		if retryAfter == "" {
			retryAfter = "unknown"
		}
		return nil, apperr.ExternalService(
			"ZeroDB rate limit exceeded. Retry after: "+retryAfter, ServiceName)
	case status >= 500:
		return nil, apperr.ExternalService("ZeroDB server error: "+msg, ServiceName)
	default:
		return nil, apperr.Database(fmt.Sprintf("ZeroDB error (%d): %s", status, msg))
	}
}

// extractErrorMessage pulls the error text from a ZeroDB error body, which
// names its field inconsistently.
func extractErrorMessage(data map[string]any) string {
	if s, ok := data["error"].(string); ok && s != "" {
		return s
	}
	if s, ok := data["message"].(string); ok && s != "" {
		return s
	}
	return "Unknown error"
}

// validationDetails lifts a structured "details" field from a 422 body into
// taxonomy details, tolerating both object and list shapes.
func validationDetails(data map[string]any) []apperr.Detail {
	v, ok := data["details"]
	if !ok {
		return nil
	}
	var out []apperr.Detail
	appendOne := func(m map[string]any) {
		d := apperr.Detail{}
		if s, ok := m["field"].(string); ok {
			d.Field = s
		}
		if s, ok := m["message"].(string); ok {
			d.Message = s
		}
		if s, ok := m["code"].(string); ok {
			d.Code = s
		}
		if d != (apperr.Detail{}) {
			out = append(out, d)
		}
	}
	switch t := v.(type) {
	case map[string]any:
		appendOne(t)
	case []any:
		for _, item := range t {
			if m, ok := item.(map[string]any); ok {
				appendOne(m)
			}
		}
	}
	return out
}

// HealthCheck probes the service /health endpoint (outside the project
// path). Any failure, transport or otherwise, is reported as unhealthy;
// this method never returns an error.
func (c *Client) HealthCheck(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return false
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client().Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode == http.StatusOK
}
