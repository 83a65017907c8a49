package domain

import (
	"strings"
	"testing"
)

func TestClampTextWithinBound(t *testing.T) {
	for _, s := range []string{"", "short", strings.Repeat("a", HistoricalMaxChars)} {
		if got := ClampText(s, HistoricalMaxChars); got != s {
			t.Fatalf("text within bound must pass through: %q", got)
		}
	}
}

func TestClampTextOverBound(t *testing.T) {
	long := strings.Repeat("a", 520)
	got := ClampText(long, HistoricalMaxChars)
	if len([]rune(got)) != HistoricalMaxChars {
		t.Fatalf("clamped length = %d, want %d", len([]rune(got)), HistoricalMaxChars)
	}
	if got != strings.Repeat("a", 497)+"..." {
		t.Fatalf("expected 497 content chars plus ellipsis marker")
	}
}

func TestClampTextCountsRunes(t *testing.T) {
	long := strings.Repeat("é", ImmersiveMaxChars+1)
	got := ClampText(long, ImmersiveMaxChars)
	if n := len([]rune(got)); n != ImmersiveMaxChars {
		t.Fatalf("clamped rune count = %d, want %d", n, ImmersiveMaxChars)
	}
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("missing ellipsis marker")
	}
}

func TestUnknownMetadata(t *testing.T) {
	meta := UnknownMetadata()
	if meta.Name != "Unknown Artwork" || meta.Artist != "Unknown Artist" || meta.Genre != "Unknown Genre" {
		t.Fatalf("unexpected fallback: %+v", meta)
	}
}

func TestTrackStatusTerminal(t *testing.T) {
	if !TrackStatusSuccess.Terminal() || !TrackStatusFailed.Terminal() {
		t.Fatalf("SUCCESS and FAILED are terminal")
	}
	if TrackStatusPending.Terminal() || TrackStatusGenerating.Terminal() {
		t.Fatalf("PENDING and GENERATING are not terminal")
	}
}

func TestHasAudio(t *testing.T) {
	rec := AnalysisRecord{}
	if rec.HasAudio() {
		t.Fatalf("empty audio url must read as absent")
	}
	rec.AudioURL = "https://x/y.mp3"
	if !rec.HasAudio() {
		t.Fatalf("audio url must read as present")
	}
}
