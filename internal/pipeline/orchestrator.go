package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"server/internal/domain"
	"server/internal/imaging"
	"server/internal/providers/vision"
)

// Mode selects the analysis flavor. Museum runs the full remote pipeline;
// the other modes return fixed placeholder records until they get their own
// analysis paths.
type Mode string

const (
	ModeMuseum    Mode = "museum"
	ModeMonuments Mode = "monuments"
	ModeLandscape Mode = "landscape"
)

// ParseMode sanitizes free-form mode input.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeMuseum:
		return ModeMuseum, nil
	case ModeMonuments:
		return ModeMonuments, nil
	case ModeLandscape:
		return ModeLandscape, nil
	default:
		return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedMode, s)
	}
}

// Describer produces the mandatory description stage.
type Describer interface {
	DescribeArtwork(ctx context.Context, imageDataURI string) (*vision.Description, error)
}

// MusicGenerator covers the best-effort music stage: one submission followed
// by bounded polling.
type MusicGenerator interface {
	Submit(ctx context.Context, prompt string) (string, error)
	AwaitCompletion(ctx context.Context, taskID string) (string, error)
}

// RecordStore persists completed analyses.
type RecordStore interface {
	Create(ctx context.Context, rec *domain.StoredAnalysis) (*domain.StoredAnalysis, error)
}

type Options struct {
	Describer Describer
	Music     MusicGenerator
	Records   RecordStore
	// Encode overrides the image encoder, mainly for tests.
	Encode func(path string) (string, error)
	Logger zerolog.Logger
}

// Orchestrator sequences one analysis run: encode, describe, generate music,
// assemble, persist. Each run is independent; no state survives between runs.
type Orchestrator struct {
	describer Describer
	music     MusicGenerator
	records   RecordStore
	encode    func(path string) (string, error)
	logger    zerolog.Logger
}

func New(opts Options) *Orchestrator {
	encode := opts.Encode
	if encode == nil {
		encode = imaging.EncodeDataURI
	}
	return &Orchestrator{
		describer: opts.Describer,
		music:     opts.Music,
		records:   opts.Records,
		encode:    encode,
		logger:    opts.Logger,
	}
}

// Result separates the mandatory outcome from the best-effort ones. Record is
// always set on success; Stored is nil and StoreErr non-nil when persistence
// failed, which callers must treat as a warning rather than a failed analysis.
type Result struct {
	Record   *domain.AnalysisRecord
	Stored   *domain.StoredAnalysis
	StoreErr error
}

// Run executes the analysis pipeline for one captured image.
func (o *Orchestrator) Run(ctx context.Context, imageRef string, mode Mode) (*Result, error) {
	switch mode {
	case ModeMuseum:
		return o.runMuseum(ctx, imageRef)
	case ModeMonuments:
		return o.placeholder(imageRef, mode, "Monument Placeholder", "Unknown", "Monument",
			"Monument analysis is not available yet.",
			[]string{"historical", "grand", "majestic"}), nil
	case ModeLandscape:
		return o.placeholder(imageRef, mode, "Landscape Placeholder", "Nature", "Landscape",
			"Landscape analysis is not available yet.",
			[]string{"peaceful", "serene", "natural"}), nil
	default:
		return nil, fmt.Errorf("%w: %w: %q", domain.ErrAnalysisFailed, domain.ErrUnsupportedMode, mode)
	}
}

func (o *Orchestrator) runMuseum(ctx context.Context, imageRef string) (*Result, error) {
	dataURI, err := o.encode(imageRef)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrAnalysisFailed, err)
	}

	desc, err := o.describer.DescribeArtwork(ctx, dataURI)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrAnalysisFailed, err)
	}
	o.logger.Info().
		Str("name", desc.Metadata.Name).
		Str("artist", desc.Metadata.Artist).
		Msg("pipeline: description stage complete")

	audioURL := o.generateTrack(ctx, desc.Immersive)

	record := &domain.AnalysisRecord{
		ImageRef:   imageRef,
		Mode:       string(ModeMuseum),
		Metadata:   desc.Metadata,
		Historical: desc.Historical,
		Immersive:  desc.Immersive,
		AudioURL:   audioURL,
		Emotions:   ExtractEmotions(desc.Immersive),
	}

	result := &Result{Record: record}
	if o.records != nil {
		stored, err := o.records.Create(ctx, storedPayload(record))
		if err != nil {
			o.logger.Warn().Err(err).Msg("pipeline: persistence failed, returning in-memory record")
			result.StoreErr = err
		} else {
			result.Stored = stored
		}
	}
	return result, nil
}

// generateTrack runs the best-effort music stage. Every failure here reads as
// "no audio" so the caller can still present the description results.
func (o *Orchestrator) generateTrack(ctx context.Context, prompt string) string {
	if o.music == nil {
		return ""
	}
	taskID, err := o.music.Submit(ctx, prompt)
	if err != nil {
		o.logger.Warn().Err(err).Msg("pipeline: music submission failed")
		return ""
	}
	audioURL, err := o.music.AwaitCompletion(ctx, taskID)
	if err != nil {
		o.logger.Warn().Err(err).Str("task_id", taskID).Msg("pipeline: music generation yielded no audio")
		return ""
	}
	return audioURL
}

func (o *Orchestrator) placeholder(imageRef string, mode Mode, name, artist, genre, description string, emotions []string) *Result {
	return &Result{Record: &domain.AnalysisRecord{
		ImageRef:   imageRef,
		Mode:       string(mode),
		Metadata:   domain.ArtworkMetadata{Name: name, Artist: artist, Genre: genre},
		Historical: description,
		Emotions:   formatEmotions(emotions),
	}}
}

func storedPayload(rec *domain.AnalysisRecord) *domain.StoredAnalysis {
	return &domain.StoredAnalysis{
		ImageName:    rec.Metadata.Name,
		AnalysisType: rec.Mode,
		Descriptions: []string{rec.Historical, rec.Immersive},
		Metadata: map[string]string{
			"artist":    rec.Metadata.Artist,
			"genre":     rec.Metadata.Genre,
			"audio_url": rec.AudioURL,
			"image_ref": rec.ImageRef,
			"emotions":  strings.Join(rec.Emotions, ","),
		},
	}
}
