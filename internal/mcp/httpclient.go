package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/meltforce/gymplan/internal/plans"
	"github.com/meltforce/gymplan/internal/storage"
)

// HTTPClient implements DataSource by calling the GymPlan REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// the engine and database live on the remote server.
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	return c.do(ctx, http.MethodGet, path, params, nil)
}

func (c *HTTPClient) post(ctx context.Context, path string, params url.Values, payload any) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("httpclient: encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}
	return c.do(ctx, http.MethodPost, path, params, body)
}

func (c *HTTPClient) do(ctx context.Context, method, path string, params url.Values, body io.Reader) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}
	req.Header.Set("X-API-Key", c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: read body: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("httpclient: %s: %w", path, storage.ErrNotFound)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, data)
	}

	return data, nil
}

func decode[T any](body []byte, what string) (*T, error) {
	var v T
	if err := json.Unmarshal(body, &v); err != nil {
		return nil, fmt.Errorf("httpclient: decode %s: %w", what, err)
	}
	return &v, nil
}

func (c *HTTPClient) GenerateForProfile(ctx context.Context, req plans.ProfileRequest) (*plans.Result, error) {
	body, err := c.post(ctx, "/api/v1/routines/predict", nil, req)
	if err != nil {
		return nil, err
	}
	return decode[plans.Result](body, "plan")
}

func (c *HTTPClient) GenerateForUser(ctx context.Context, userID int, seed *uint64) (*plans.Result, error) {
	params := url.Values{}
	if seed != nil {
		params.Set("seed", strconv.FormatUint(*seed, 10))
	}

	body, err := c.post(ctx, "/api/v1/routines/users/"+strconv.Itoa(userID), params, nil)
	if err != nil {
		return nil, err
	}
	return decode[plans.Result](body, "plan")
}

func (c *HTTPClient) History(ctx context.Context, userID, days int) (*plans.HistoryReport, error) {
	params := url.Values{}
	if days > 0 {
		params.Set("days", strconv.Itoa(days))
	}

	body, err := c.get(ctx, "/api/v1/users/"+strconv.Itoa(userID)+"/history", params)
	if err != nil {
		return nil, err
	}
	return decode[plans.HistoryReport](body, "history")
}

func (c *HTTPClient) UserPlans(ctx context.Context, userID, limit int) ([]plans.StoredPlan, error) {
	params := url.Values{}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	body, err := c.get(ctx, "/api/v1/users/"+strconv.Itoa(userID)+"/plans", params)
	if err != nil {
		return nil, err
	}

	var list []plans.StoredPlan
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("httpclient: decode plans: %w", err)
	}
	return list, nil
}

func (c *HTTPClient) RecoveryPolicy(ctx context.Context) (*plans.PolicyView, error) {
	body, err := c.get(ctx, "/api/v1/routines/recovery", nil)
	if err != nil {
		return nil, err
	}
	return decode[plans.PolicyView](body, "recovery policy")
}
