package music

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"server/internal/domain"
)

func TestSubmit(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Fatalf("unexpected auth header: %s", got)
		}
		var payload generateRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if !payload.Instrumental {
			t.Fatalf("instrumental flag must be set")
		}
		if payload.CustomMode {
			t.Fatalf("customMode must be false")
		}
		if payload.Model != "V4_5" {
			t.Fatalf("unexpected model: %s", payload.Model)
		}
		if payload.Prompt != "dreamy moonlit waves" {
			t.Fatalf("unexpected prompt: %s", payload.Prompt)
		}
		_, _ = fmt.Fprint(w, `{"code":200,"data":{"taskId":"abc123"}}`)
	}))
	defer ts.Close()

	client := NewClient(Options{BaseURL: ts.URL, APIKey: "test-key"})
	taskID, err := client.Submit(context.Background(), "dreamy moonlit waves")
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}
	if taskID != "abc123" {
		t.Fatalf("unexpected task id: %s", taskID)
	}
}

func TestSubmitRejectedCode(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, `{"code":429,"msg":"insufficient credits"}`)
	}))
	defer ts.Close()

	client := NewClient(Options{BaseURL: ts.URL, APIKey: "test-key"})
	if _, err := client.Submit(context.Background(), "p"); !errors.Is(err, domain.ErrMusicRejected) {
		t.Fatalf("expected ErrMusicRejected, got %v", err)
	}
}

func TestSubmitMissingTaskID(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, `{"code":200,"data":{}}`)
	}))
	defer ts.Close()

	client := NewClient(Options{BaseURL: ts.URL, APIKey: "test-key"})
	if _, err := client.Submit(context.Background(), "p"); !errors.Is(err, domain.ErrMusicRejected) {
		t.Fatalf("expected ErrMusicRejected, got %v", err)
	}
}

func TestSubmitMissingAPIKey(t *testing.T) {
	client := NewClient(Options{BaseURL: "http://unused"})
	if _, err := client.Submit(context.Background(), "p"); !errors.Is(err, domain.ErrMusicRejected) {
		t.Fatalf("expected ErrMusicRejected, got %v", err)
	}
}

// statusServer replays a fixed sequence of record-info bodies, one per read,
// repeating the last one if polled further.
func statusServer(t *testing.T, bodies []string, reads *int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("taskId"); got != "abc123" {
			t.Fatalf("unexpected taskId: %s", got)
		}
		idx := *reads
		if idx >= len(bodies) {
			idx = len(bodies) - 1
		}
		*reads++
		_, _ = fmt.Fprint(w, bodies[idx])
	}))
}

func pollClient(baseURL string, maxAttempts int) *Client {
	return NewClient(Options{
		BaseURL:         baseURL,
		APIKey:          "test-key",
		PollInterval:    time.Millisecond,
		MaxPollAttempts: maxAttempts,
	})
}

const successBody = `{"data":{"status":"SUCCESS","response":{"data":[{"audio_url":"https://x/y.mp3"}]}}}`

func TestAwaitCompletionPendingThenSuccess(t *testing.T) {
	reads := 0
	ts := statusServer(t, []string{
		`{"data":{"status":"PENDING"}}`,
		`{"data":{"status":"PENDING"}}`,
		successBody,
	}, &reads)
	defer ts.Close()

	url, err := pollClient(ts.URL, 60).AwaitCompletion(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("AwaitCompletion error: %v", err)
	}
	if url != "https://x/y.mp3" {
		t.Fatalf("unexpected audio url: %s", url)
	}
	if reads != 3 {
		t.Fatalf("expected exactly 3 status reads, got %d", reads)
	}
}

func TestAwaitCompletionGeneratingThenSuccess(t *testing.T) {
	reads := 0
	ts := statusServer(t, []string{
		`{"data":{"status":"GENERATING"}}`,
		`{"data":{"status":"GENERATING"}}`,
		successBody,
	}, &reads)
	defer ts.Close()

	url, err := pollClient(ts.URL, 60).AwaitCompletion(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("AwaitCompletion error: %v", err)
	}
	if url != "https://x/y.mp3" {
		t.Fatalf("unexpected audio url: %s", url)
	}
}

func TestAwaitCompletionFailedIsTerminal(t *testing.T) {
	reads := 0
	ts := statusServer(t, []string{`{"data":{"status":"FAILED"}}`}, &reads)
	defer ts.Close()

	_, err := pollClient(ts.URL, 60).AwaitCompletion(context.Background(), "abc123")
	if !errors.Is(err, domain.ErrTrackFailed) {
		t.Fatalf("expected ErrTrackFailed, got %v", err)
	}
	if reads != 1 {
		t.Fatalf("FAILED must stop polling after 1 read, got %d", reads)
	}
}

func TestAwaitCompletionExhaustsBudget(t *testing.T) {
	reads := 0
	ts := statusServer(t, []string{`{"data":{"status":"PENDING"}}`}, &reads)
	defer ts.Close()

	_, err := pollClient(ts.URL, 60).AwaitCompletion(context.Background(), "abc123")
	if !errors.Is(err, domain.ErrPollTimeout) {
		t.Fatalf("expected ErrPollTimeout, got %v", err)
	}
	if reads != 60 {
		t.Fatalf("expected exactly 60 status reads, got %d", reads)
	}
}

func TestAwaitCompletionSuccessWithoutAudioKeepsPolling(t *testing.T) {
	reads := 0
	ts := statusServer(t, []string{
		`{"data":{"status":"SUCCESS","response":{"data":[]}}}`,
		successBody,
	}, &reads)
	defer ts.Close()

	url, err := pollClient(ts.URL, 60).AwaitCompletion(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("AwaitCompletion error: %v", err)
	}
	if url != "https://x/y.mp3" {
		t.Fatalf("unexpected audio url: %s", url)
	}
	if reads != 2 {
		t.Fatalf("expected a second read after payload-less SUCCESS, got %d", reads)
	}
}

func TestAwaitCompletionTransportFailureAborts(t *testing.T) {
	reads := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reads++
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer ts.Close()

	_, err := pollClient(ts.URL, 60).AwaitCompletion(context.Background(), "abc123")
	if !errors.Is(err, domain.ErrPollTransport) {
		t.Fatalf("expected ErrPollTransport, got %v", err)
	}
	if reads != 1 {
		t.Fatalf("transport failure must abort after 1 read, got %d", reads)
	}
}
