package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"server/internal/domain"
)

const defaultTimeout = 30 * time.Second

type Options struct {
	BaseURL    string
	APIKey     string
	Model      string
	HTTPClient *http.Client
	Logger     *zerolog.Logger
}

// Client talks to an OpenAI-compatible multimodal chat endpoint. One
// DescribeArtwork call issues three priced requests, so the sequence is kept
// fixed and never parallelized.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
	logger     *zerolog.Logger
}

func NewClient(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("vision: api key is required")
	}
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		base = "https://api.ai.it.ufl.edu/v1"
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = "mistral-small-3.1"
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		httpClient: client,
		baseURL:    base,
		apiKey:     strings.TrimSpace(opts.APIKey),
		model:      model,
		logger:     opts.Logger,
	}, nil
}

// Description is the mandatory output of the analysis stage. The text fields
// are already clamped to their character budgets.
type Description struct {
	Metadata   domain.ArtworkMetadata
	Historical string
	Immersive  string
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string     `json:"role"`
	Content []chatPart `json:"content"`
}

type chatPart struct {
	Type     string        `json:"type"`
	Text     string        `json:"text,omitempty"`
	ImageURL *chatImageURL `json:"image_url,omitempty"`
}

type chatImageURL struct {
	URL string `json:"url"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// DescribeArtwork runs the three-step description sequence: metadata, then the
// historical account, then the immersive account. All three are mandatory;
// any transport or contract failure aborts the whole operation. Only the
// metadata payload tolerates model non-compliance, by falling back to the
// unknown sentinels.
func (c *Client) DescribeArtwork(ctx context.Context, imageDataURI string) (*Description, error) {
	raw, err := c.complete(ctx, metadataPrompt, imageDataURI)
	if err != nil {
		return nil, c.upstream("metadata", err)
	}
	meta := parseMetadata(raw)
	c.debug("metadata", "name", meta.Name)

	historical, err := c.complete(ctx, historicalPrompt, imageDataURI)
	if err != nil {
		return nil, c.upstream("historical", err)
	}
	historical = domain.ClampText(historical, domain.HistoricalMaxChars)
	c.debug("historical", "chars", fmt.Sprint(len([]rune(historical))))

	immersive, err := c.complete(ctx, immersivePrompt, imageDataURI)
	if err != nil {
		return nil, c.upstream("immersive", err)
	}
	immersive = domain.ClampText(immersive, domain.ImmersiveMaxChars)
	c.debug("immersive", "chars", fmt.Sprint(len([]rune(immersive))))

	return &Description{
		Metadata:   meta,
		Historical: historical,
		Immersive:  immersive,
	}, nil
}

func (c *Client) complete(ctx context.Context, prompt, imageDataURI string) (string, error) {
	payload := chatRequest{
		Model: c.model,
		Messages: []chatMessage{{
			Role: "user",
			Content: []chatPart{
				{Type: "text", Text: prompt},
				{Type: "image_url", ImageURL: &chatImageURL{URL: imageDataURI}},
			},
		}},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	endpoint := c.baseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("chat status %d", resp.StatusCode)
	}
	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if len(out.Choices) == 0 {
		return "", errors.New("no choices in response")
	}
	content := strings.TrimSpace(out.Choices[0].Message.Content)
	if content == "" {
		return "", errors.New("empty message content")
	}
	return content, nil
}

func (c *Client) upstream(stage string, err error) error {
	return fmt.Errorf("vision %s: %w: %w", stage, domain.ErrVisionUpstream, err)
}

func (c *Client) debug(stage, key, val string) {
	if c.logger == nil {
		return
	}
	c.logger.Debug().Str("stage", stage).Str(key, val).Msg("vision: step complete")
}
