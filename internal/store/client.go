package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"server/internal/domain"
)

const defaultTimeout = 15 * time.Second

type Options struct {
	BaseURL    string
	HTTPClient *http.Client
}

// Client is the consuming side of the record store REST interface. The
// orchestrator only needs Create; the remaining operations back listing,
// search, and cleanup in the presentation layer.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

func NewClient(opts Options) *Client {
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		base = "http://localhost:8000"
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{httpClient: client, baseURL: base}
}

// Create persists an analysis record and returns the stored copy including
// its assigned identifier.
func (c *Client) Create(ctx context.Context, rec *domain.StoredAnalysis) (*domain.StoredAnalysis, error) {
	var out domain.StoredAnalysis
	if err := c.do(ctx, http.MethodPost, "/api/image-analysis", rec, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Get fetches a single record by its identifier.
func (c *Client) Get(ctx context.Context, id string) (*domain.StoredAnalysis, error) {
	var out domain.StoredAnalysis
	if err := c.do(ctx, http.MethodGet, "/api/image-analysis/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// List returns recent records, optionally filtered by analysis type.
func (c *Client) List(ctx context.Context, analysisType string, limit int) ([]domain.StoredAnalysis, error) {
	if limit <= 0 {
		limit = 50
	}
	path := "/api/image-analysis?limit=" + strconv.Itoa(limit)
	if analysisType != "" {
		path += "&analysis_type=" + url.QueryEscape(analysisType)
	}
	var out []domain.StoredAnalysis
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Search returns records whose image name matches the given name.
func (c *Client) Search(ctx context.Context, name string) ([]domain.StoredAnalysis, error) {
	var out []domain.StoredAnalysis
	if err := c.do(ctx, http.MethodGet, "/api/image-analysis/search/"+url.PathEscape(name), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Update overwrites the mutable fields of a stored record.
func (c *Client) Update(ctx context.Context, id string, rec *domain.StoredAnalysis) (*domain.StoredAnalysis, error) {
	var out domain.StoredAnalysis
	if err := c.do(ctx, http.MethodPut, "/api/image-analysis/"+url.PathEscape(id), rec, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes a stored record.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/image-analysis/"+url.PathEscape(id), nil, nil)
}

// Health verifies the record store is reachable.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/api/health", nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body *bytes.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("store: encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	} else {
		body = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("store: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("store: %s %s: %w", method, path, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode == http.StatusNotFound {
		return domain.ErrNotFound
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("store: %s %s: status %d", method, path, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("store: decode response: %w", err)
	}
	return nil
}
