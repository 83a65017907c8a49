package wiki

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const defaultTimeout = 10 * time.Second

type Options struct {
	BaseURL    string
	HTTPClient *http.Client
	Logger     *zerolog.Logger
}

// Client performs best-effort summary lookups against the Wikipedia REST API.
// It never surfaces an error: a missing page, timeout, or malformed body all
// read as "no summary".
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *zerolog.Logger
}

func NewClient(opts Options) *Client {
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		base = "https://en.wikipedia.org"
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{httpClient: client, baseURL: base, logger: opts.Logger}
}

// Summary is the enrichment payload attached to an artwork title.
type Summary struct {
	Title     string
	Extract   string
	Thumbnail string
	PageURL   string
}

type summaryResponse struct {
	Title     string `json:"title"`
	Extract   string `json:"extract"`
	Thumbnail struct {
		Source string `json:"source"`
	} `json:"thumbnail"`
	ContentURLs struct {
		Desktop struct {
			Page string `json:"page"`
		} `json:"desktop"`
	} `json:"content_urls"`
}

// Lookup fetches the page summary for a title. It returns nil when the title
// is blank, the page does not exist, or the call fails in any way.
func (c *Client) Lookup(ctx context.Context, title string) *Summary {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil
	}
	endpoint := c.baseURL + "/api/rest_v1/page/summary/" + url.PathEscape(title)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.warn(title, err)
		return nil
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return nil
	}
	var out summaryResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		c.warn(title, err)
		return nil
	}
	summary := &Summary{
		Title:     out.Title,
		Extract:   out.Extract,
		Thumbnail: out.Thumbnail.Source,
		PageURL:   out.ContentURLs.Desktop.Page,
	}
	if summary.Title == "" {
		summary.Title = title
	}
	if summary.Extract == "" {
		summary.Extract = "No summary available."
	}
	return summary
}

func (c *Client) warn(title string, err error) {
	if c.logger == nil {
		return
	}
	c.logger.Warn().Err(err).Str("title", title).Msg("wiki: lookup failed")
}
