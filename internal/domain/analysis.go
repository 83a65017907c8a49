package domain

import (
	"strings"
	"time"
)

// Character budgets enforced on the description texts handed downstream.
// The vision model is instructed to respect them but the client clamps anyway.
const (
	HistoricalMaxChars = 500
	ImmersiveMaxChars  = 400
)

const ellipsis = "..."

// ArtworkMetadata identifies a recognized artwork. Fields fall back to the
// unknown sentinels when the model response cannot be parsed.
type ArtworkMetadata struct {
	Name   string `json:"paintingName"`
	Artist string `json:"artist"`
	Genre  string `json:"genre"`
}

// UnknownMetadata returns the fixed fallback used when metadata extraction
// yields something unparseable.
func UnknownMetadata() ArtworkMetadata {
	return ArtworkMetadata{
		Name:   "Unknown Artwork",
		Artist: "Unknown Artist",
		Genre:  "Unknown Genre",
	}
}

// ClampText enforces a maximum character count on text coming back from the
// model. Overlong content keeps the leading max-3 characters plus an ellipsis
// marker so the result never exceeds max.
func ClampText(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-len(ellipsis)]) + ellipsis
}

// AnalysisRecord is the merged artifact of one pipeline run. It is assembled
// once by the orchestrator and not mutated afterwards; the record store assigns
// the durable identifier and timestamps on create.
type AnalysisRecord struct {
	ImageRef   string
	Mode       string
	Metadata   ArtworkMetadata
	Historical string
	Immersive  string
	AudioURL   string
	Emotions   []string
}

// HasAudio reports whether the best-effort music stage produced a track.
func (r *AnalysisRecord) HasAudio() bool {
	return strings.TrimSpace(r.AudioURL) != ""
}

// StoredAnalysis is an analysis record as persisted by the record store.
type StoredAnalysis struct {
	ID           string            `json:"id"`
	ImageName    string            `json:"image_name"`
	AnalysisType string            `json:"analysis_type"`
	Descriptions []string          `json:"descriptions"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	ImageURL     string            `json:"image_url,omitempty"`
	ImageBase64  string            `json:"image_base64,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}
