package lustroom

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

	"lustroom-portal/domain/dto"
	"lustroom-portal/domain/model"
	"lustroom-portal/domain/repository"
	"lustroom-portal/infrastructure/logger"
	"lustroom-portal/infrastructure/metrics"

	"github.com/google/go-querystring/query"
)

const (
	msgLoginFailed    = "Login failed. Please check your credentials."
	msgActivateFailed = "An unknown error occurred."
	msgPlatforms      = "Failed to fetch platforms."
	msgTiers          = "Failed to fetch tiers."
	msgContent        = "Failed to fetch content."
)

// Client talks to the Lustroom backend REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option customises client instantiation.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.httpClient = h
		}
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// NewLustroomClient builds a backend client rooted at base, e.g. https://host/api/v1.
func NewLustroomClient(base string, opts ...Option) (repository.IPortalBackend, error) {
	trimmed := strings.TrimSpace(base)
	if trimmed == "" {
		return nil, fmt.Errorf("backend base url is empty")
	}
	if !strings.HasPrefix(trimmed, "http://") && !strings.HasPrefix(trimmed, "https://") {
		trimmed = "https://" + trimmed
	}
	if _, err := url.Parse(trimmed); err != nil {
		return nil, fmt.Errorf("invalid backend base url: %w", err)
	}
	cli := &Client{
		baseURL:    strings.TrimRight(trimmed, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(cli)
	}
	return cli, nil
}

// enveloped is satisfied by every response DTO through the embedded dto.Envelope.
type enveloped interface {
	OK() bool
}

type call struct {
	endpoint string // metrics label
	method   string
	path     string
	query    interface{}
	body     interface{}
	token    string
	fallback string
}

func (c *Client) do(ctx context.Context, cl call, out enveloped) error {
	endpoint := c.baseURL + cl.path
	if cl.query != nil {
		values, err := query.Values(cl.query)
		if err != nil {
			return fmt.Errorf("encode query: %w", err)
		}
		if encoded := values.Encode(); encoded != "" {
			endpoint += "?" + encoded
		}
	}

	var reader io.Reader
	if cl.body != nil {
		payload, err := json.Marshal(cl.body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, cl.method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if cl.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := strings.TrimSpace(cl.token); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ObserveBackend(cl.endpoint, 0, time.Since(start))
		logger.GetLogger().WithField("endpoint", cl.endpoint).WithField("error", err).Error("Backend request failed")
		return fmt.Errorf("perform request: %w", err)
	}
	defer resp.Body.Close()
	metrics.ObserveBackend(cl.endpoint, resp.StatusCode, time.Since(start))

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := extractMessage(data)
		if msg == "" {
			msg = cl.fallback
		}
		logger.GetLogger().
			WithField("endpoint", cl.endpoint).
			WithField("status", resp.StatusCode).
			WithField("message", msg).
			Warn("Backend returned non-success status")
		return &repository.APIError{Status: resp.StatusCode, Message: msg}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if !out.OK() {
		msg := extractMessage(data)
		if msg == "" {
			msg = cl.fallback
		}
		return &repository.APIError{Status: resp.StatusCode, Message: msg}
	}
	return nil
}

// extractMessage pulls a human readable message out of an error body.
func extractMessage(body []byte) string {
	if len(bytes.TrimSpace(body)) == 0 {
		return ""
	}
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if m := strings.TrimSpace(payload.Message); m != "" {
		return m
	}
	return strings.TrimSpace(payload.Error)
}

// Login exchanges credentials for an access token.
func (c *Client) Login(ctx context.Context, req dto.ReqLogin) (*dto.ResLogin, error) {
	var res dto.ResLogin
	err := c.do(ctx, call{
		endpoint: "login",
		method:   http.MethodPost,
		path:     "/login",
		body:     req,
		fallback: msgLoginFailed,
	}, &res)
	if err != nil {
		return nil, err
	}
	if res.AccessToken == "" {
		return nil, &repository.APIError{Status: http.StatusOK, Message: msgLoginFailed}
	}
	return &res, nil
}

// Activate forwards an activation form to the backend.
func (c *Client) Activate(ctx context.Context, form map[string]string) (*dto.ResActivate, error) {
	var res dto.ResActivate
	err := c.do(ctx, call{
		endpoint: "activate",
		method:   http.MethodPost,
		path:     "/activate",
		body:     form,
		fallback: msgActivateFailed,
	}, &activateEnvelope{&res})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// activateEnvelope accepts any 2xx answer whatever its status field says.
// The message is shown to the user either way.
type activateEnvelope struct {
	*dto.ResActivate
}

func (a *activateEnvelope) OK() bool { return true }

func (a *activateEnvelope) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, a.ResActivate)
}

func (c *Client) GetPlatforms(ctx context.Context, token string) ([]model.Platform, error) {
	var res dto.ResPlatforms
	err := c.do(ctx, call{
		endpoint: "platforms",
		method:   http.MethodGet,
		path:     "/platforms",
		token:    token,
		fallback: msgPlatforms,
	}, &res)
	if err != nil {
		return nil, err
	}
	if res.Platforms == nil {
		return []model.Platform{}, nil
	}
	return res.Platforms, nil
}

func (c *Client) GetTiers(ctx context.Context, token, platformID string) ([]model.Tier, error) {
	var res dto.ResTiers
	err := c.do(ctx, call{
		endpoint: "tiers",
		method:   http.MethodGet,
		path:     "/platforms/" + url.PathEscape(platformID) + "/tiers",
		token:    token,
		fallback: msgTiers,
	}, &res)
	if err != nil {
		return nil, err
	}
	tiers := res.Tiers
	if tiers == nil {
		tiers = []model.Tier{}
	}
	for i := range tiers {
		if tiers[i].PlatformID == "" {
			tiers[i].PlatformID = model.ID(platformID)
		}
	}
	return tiers, nil
}

func (c *Client) GetContent(ctx context.Context, token, tierID string) (model.TierContent, error) {
	var res dto.ResContent
	err := c.do(ctx, call{
		endpoint: "content",
		method:   http.MethodGet,
		path:     "/get_patron_links",
		query:    dto.ReqContent{TierID: tierID},
		token:    token,
		fallback: msgContent,
	}, &res)
	if err != nil {
		return nil, err
	}
	if res.Content == nil {
		return model.TierContent{}, nil
	}
	return res.Content, nil
}
