package music

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"server/internal/domain"
)

const (
	defaultTimeout      = 30 * time.Second
	defaultPollInterval = 5 * time.Second
	defaultMaxAttempts  = 60
)

type Options struct {
	BaseURL     string
	APIKey      string
	Model       string
	CallbackURL string
	HTTPClient  *http.Client
	// PollInterval and MaxPollAttempts default to 5s and 60, capping the
	// polling stage at roughly five minutes of wall clock.
	PollInterval    time.Duration
	MaxPollAttempts int
	Logger          *zerolog.Logger
}

// Client submits instrumental generation jobs and tracks them through the
// asynchronous task-status protocol. Every failure mode here is non-fatal to
// callers; the pipeline treats them all as "no audio available".
type Client struct {
	httpClient   *http.Client
	baseURL      string
	apiKey       string
	model        string
	callbackURL  string
	pollInterval time.Duration
	maxAttempts  int
	logger       *zerolog.Logger
}

func NewClient(opts Options) *Client {
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		base = "https://api.sunoapi.org"
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = "V4_5"
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	interval := opts.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	attempts := opts.MaxPollAttempts
	if attempts <= 0 {
		attempts = defaultMaxAttempts
	}
	return &Client{
		httpClient:   client,
		baseURL:      base,
		apiKey:       strings.TrimSpace(opts.APIKey),
		model:        model,
		callbackURL:  opts.CallbackURL,
		pollInterval: interval,
		maxAttempts:  attempts,
		logger:       opts.Logger,
	}
}

type generateRequest struct {
	Prompt       string `json:"prompt"`
	CustomMode   bool   `json:"customMode"`
	Instrumental bool   `json:"instrumental"`
	Model        string `json:"model"`
	CallBackURL  string `json:"callBackUrl"`
}

type generateResponse struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data struct {
		TaskID string `json:"taskId"`
	} `json:"data"`
}

type recordInfoResponse struct {
	Data struct {
		Status   domain.TrackStatus `json:"status"`
		Response struct {
			Data []struct {
				AudioURL string `json:"audio_url"`
			} `json:"data"`
		} `json:"response"`
	} `json:"data"`
}

// Submit enqueues one instrumental-only generation job for the prompt and
// returns the task identifier. An application-level code other than 200, or a
// success response without a task id, is a rejection rather than a transport
// failure.
func (c *Client) Submit(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("music submit: %w: api key missing", domain.ErrMusicRejected)
	}
	payload := generateRequest{
		Prompt:       prompt,
		CustomMode:   false,
		Instrumental: true,
		Model:        c.model,
		CallBackURL:  c.callbackURL,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("music submit: %w", err)
	}
	endpoint := c.baseURL + "/api/v1/generate"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("music submit: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("music submit: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("music submit: %w", err)
	}
	if out.Code != 200 {
		return "", fmt.Errorf("music submit: %w: code %d %s", domain.ErrMusicRejected, out.Code, out.Msg)
	}
	taskID := strings.TrimSpace(out.Data.TaskID)
	if taskID == "" {
		return "", fmt.Errorf("music submit: %w: no taskId in response", domain.ErrMusicRejected)
	}
	if c.logger != nil {
		c.logger.Info().Str("task_id", taskID).Msg("music: task submitted")
	}
	return taskID, nil
}

// AwaitCompletion polls the task status until a terminal state or the attempt
// budget runs out. SUCCESS only counts once the nested payload carries an
// audio URL; a SUCCESS read without one keeps polling, matching the upstream
// behavior. A single transport failure ends the poll immediately.
func (c *Client) AwaitCompletion(ctx context.Context, taskID string) (string, error) {
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		task, err := c.pollOnce(ctx, taskID)
		if err != nil {
			return "", fmt.Errorf("music poll: %w: %w", domain.ErrPollTransport, err)
		}
		if c.logger != nil {
			c.logger.Debug().
				Str("task_id", taskID).
				Str("status", string(task.Status)).
				Int("attempt", attempt).
				Msg("music: task status")
		}
		if task.Status == domain.TrackStatusSuccess && task.AudioURL != "" {
			return task.AudioURL, nil
		}
		if task.Status == domain.TrackStatusFailed {
			return "", fmt.Errorf("music poll: %w", domain.ErrTrackFailed)
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(c.pollInterval):
		}
	}
	return "", fmt.Errorf("music poll: %w after %d attempts", domain.ErrPollTimeout, c.maxAttempts)
}

func (c *Client) pollOnce(ctx context.Context, taskID string) (domain.MusicTask, error) {
	task := domain.MusicTask{TaskID: taskID}
	endpoint := c.baseURL + "/api/v1/generate/record-info?taskId=" + url.QueryEscape(taskID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return task, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return task, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 300 {
		return task, fmt.Errorf("record-info status %d", resp.StatusCode)
	}
	var out recordInfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return task, err
	}
	if out.Data.Status == "" {
		return task, errors.New("record-info missing status")
	}
	task.Status = out.Data.Status
	if len(out.Data.Response.Data) > 0 {
		task.AudioURL = strings.TrimSpace(out.Data.Response.Data[0].AudioURL)
	}
	return task, nil
}
