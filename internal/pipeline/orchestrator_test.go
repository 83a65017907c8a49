package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"

	"server/internal/domain"
	"server/internal/providers/vision"
)

type fakeDescriber struct {
	desc *vision.Description
	err  error
}

func (f *fakeDescriber) DescribeArtwork(ctx context.Context, imageDataURI string) (*vision.Description, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.desc, nil
}

type fakeMusic struct {
	taskID    string
	submitErr error
	audioURL  string
	awaitErr  error
	submitted string
}

func (f *fakeMusic) Submit(ctx context.Context, prompt string) (string, error) {
	f.submitted = prompt
	if f.submitErr != nil {
		return "", f.submitErr
	}
	return f.taskID, nil
}

func (f *fakeMusic) AwaitCompletion(ctx context.Context, taskID string) (string, error) {
	if f.awaitErr != nil {
		return "", f.awaitErr
	}
	return f.audioURL, nil
}

type fakeRecords struct {
	created *domain.StoredAnalysis
	err     error
	calls   int
}

func (f *fakeRecords) Create(ctx context.Context, rec *domain.StoredAnalysis) (*domain.StoredAnalysis, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	stored := *rec
	stored.ID = "stored-1"
	f.created = &stored
	return &stored, nil
}

func testDescription() *vision.Description {
	return &vision.Description{
		Metadata:   domain.ArtworkMetadata{Name: "Starry Night", Artist: "Vincent van Gogh", Genre: "Post-Impressionism"},
		Historical: "Painted in 1889 from an asylum window.",
		Immersive:  "A calm, dreamy swirl of deep blue night air.",
	}
}

func testOrchestrator(d Describer, m MusicGenerator, s RecordStore) *Orchestrator {
	return New(Options{
		Describer: d,
		Music:     m,
		Records:   s,
		Encode:    func(path string) (string, error) { return "data:image/jpeg;base64,Zm9v", nil },
		Logger:    zerolog.Nop(),
	})
}

func TestRunMuseumHappyPath(t *testing.T) {
	musicGen := &fakeMusic{taskID: "abc123", audioURL: "https://x/y.mp3"}
	records := &fakeRecords{}
	orch := testOrchestrator(&fakeDescriber{desc: testDescription()}, musicGen, records)

	result, err := orch.Run(context.Background(), "capture.jpg", ModeMuseum)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	rec := result.Record
	if rec.Metadata.Name != "Starry Night" {
		t.Fatalf("unexpected metadata: %+v", rec.Metadata)
	}
	if rec.AudioURL != "https://x/y.mp3" {
		t.Fatalf("unexpected audio url: %s", rec.AudioURL)
	}
	if musicGen.submitted != rec.Immersive {
		t.Fatalf("music prompt must be the immersive text, got %q", musicGen.submitted)
	}
	if result.Stored == nil || result.Stored.ID != "stored-1" {
		t.Fatalf("expected stored record, got %+v", result.Stored)
	}
	if result.StoreErr != nil {
		t.Fatalf("unexpected store error: %v", result.StoreErr)
	}
	if got := records.created.Metadata["audio_url"]; got != "https://x/y.mp3" {
		t.Fatalf("stored metadata missing audio url: %+v", records.created.Metadata)
	}
	if len(records.created.Descriptions) != 2 {
		t.Fatalf("expected both descriptions persisted: %+v", records.created.Descriptions)
	}
}

func TestRunMuseumMusicRejectionDegrades(t *testing.T) {
	musicGen := &fakeMusic{submitErr: fmt.Errorf("music submit: %w: code 429", domain.ErrMusicRejected)}
	records := &fakeRecords{}
	orch := testOrchestrator(&fakeDescriber{desc: testDescription()}, musicGen, records)

	result, err := orch.Run(context.Background(), "capture.jpg", ModeMuseum)
	if err != nil {
		t.Fatalf("a music rejection must not fail the pipeline: %v", err)
	}
	if result.Record.HasAudio() {
		t.Fatalf("expected absent audio, got %q", result.Record.AudioURL)
	}
	if result.Record.Historical == "" || result.Record.Immersive == "" {
		t.Fatalf("description fields must survive a music failure")
	}
	if records.calls != 1 {
		t.Fatalf("record must still be persisted, calls = %d", records.calls)
	}
}

func TestRunMuseumPollTimeoutDegrades(t *testing.T) {
	musicGen := &fakeMusic{taskID: "abc123", awaitErr: domain.ErrPollTimeout}
	orch := testOrchestrator(&fakeDescriber{desc: testDescription()}, musicGen, &fakeRecords{})

	result, err := orch.Run(context.Background(), "capture.jpg", ModeMuseum)
	if err != nil {
		t.Fatalf("a poll timeout must not fail the pipeline: %v", err)
	}
	if result.Record.HasAudio() {
		t.Fatalf("expected absent audio after poll timeout")
	}
}

func TestRunMuseumDescriptionFailureIsFatal(t *testing.T) {
	records := &fakeRecords{}
	orch := testOrchestrator(&fakeDescriber{err: domain.ErrVisionUpstream}, &fakeMusic{}, records)

	_, err := orch.Run(context.Background(), "capture.jpg", ModeMuseum)
	if !errors.Is(err, domain.ErrAnalysisFailed) {
		t.Fatalf("expected ErrAnalysisFailed, got %v", err)
	}
	if !errors.Is(err, domain.ErrVisionUpstream) {
		t.Fatalf("original cause must stay attached, got %v", err)
	}
	if records.calls != 0 {
		t.Fatalf("persistence must never run after a description failure")
	}
}

func TestRunMuseumEncodeFailureIsFatal(t *testing.T) {
	orch := New(Options{
		Describer: &fakeDescriber{desc: testDescription()},
		Encode:    func(path string) (string, error) { return "", domain.ErrImageEncode },
		Logger:    zerolog.Nop(),
	})
	_, err := orch.Run(context.Background(), "capture.jpg", ModeMuseum)
	if !errors.Is(err, domain.ErrAnalysisFailed) || !errors.Is(err, domain.ErrImageEncode) {
		t.Fatalf("expected wrapped encode failure, got %v", err)
	}
}

func TestRunMuseumPersistenceFailureStillReturnsRecord(t *testing.T) {
	records := &fakeRecords{err: errors.New("store down")}
	orch := testOrchestrator(&fakeDescriber{desc: testDescription()}, &fakeMusic{taskID: "abc123", audioURL: "https://x/y.mp3"}, records)

	result, err := orch.Run(context.Background(), "capture.jpg", ModeMuseum)
	if err != nil {
		t.Fatalf("persistence failure must not fail the pipeline: %v", err)
	}
	if result.StoreErr == nil {
		t.Fatalf("store error must be surfaced on the result")
	}
	if result.Stored != nil {
		t.Fatalf("no stored copy expected on persistence failure")
	}
	if result.Record == nil || result.Record.Metadata.Name != "Starry Night" {
		t.Fatalf("in-memory record must still be returned")
	}
}

func TestRunPlaceholderModes(t *testing.T) {
	records := &fakeRecords{}
	orch := testOrchestrator(&fakeDescriber{err: errors.New("must not be called")}, &fakeMusic{}, records)

	for _, mode := range []Mode{ModeMonuments, ModeLandscape} {
		result, err := orch.Run(context.Background(), "capture.jpg", mode)
		if err != nil {
			t.Fatalf("mode %s: %v", mode, err)
		}
		if result.Record.Metadata.Name == "" {
			t.Fatalf("mode %s: placeholder record missing name", mode)
		}
		if result.Record.HasAudio() {
			t.Fatalf("mode %s: placeholder must not carry audio", mode)
		}
		if len(result.Record.Emotions) != 3 {
			t.Fatalf("mode %s: expected 3 emotions, got %v", mode, result.Record.Emotions)
		}
	}
	if records.calls != 0 {
		t.Fatalf("placeholder modes must not persist")
	}
}

func TestRunUnsupportedMode(t *testing.T) {
	orch := testOrchestrator(&fakeDescriber{desc: testDescription()}, &fakeMusic{}, &fakeRecords{})
	if _, err := orch.Run(context.Background(), "capture.jpg", Mode("satellite")); !errors.Is(err, domain.ErrUnsupportedMode) {
		t.Fatalf("expected ErrUnsupportedMode, got %v", err)
	}
}

func TestParseMode(t *testing.T) {
	if mode, err := ParseMode(" Museum "); err != nil || mode != ModeMuseum {
		t.Fatalf("ParseMode failed: %v %v", mode, err)
	}
	if _, err := ParseMode("satellite"); !errors.Is(err, domain.ErrUnsupportedMode) {
		t.Fatalf("expected ErrUnsupportedMode")
	}
}
