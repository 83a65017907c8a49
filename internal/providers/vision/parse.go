package vision

import (
	"encoding/json"
	"strings"

	"server/internal/domain"
)

// parseMetadata extracts the structured metadata from whatever the model
// produced. Models regularly wrap the JSON in code fences or prose, so the
// fragment is located first; anything unparseable degrades to the unknown
// sentinels rather than failing the call.
func parseMetadata(raw string) domain.ArtworkMetadata {
	fallback := domain.UnknownMetadata()
	fragment := extractJSONFragment(raw)
	if fragment == "" {
		return fallback
	}
	var meta domain.ArtworkMetadata
	if err := json.Unmarshal([]byte(fragment), &meta); err != nil {
		return fallback
	}
	meta.Name = coalesce(meta.Name, fallback.Name)
	meta.Artist = coalesce(meta.Artist, fallback.Artist)
	meta.Genre = coalesce(meta.Genre, fallback.Genre)
	return meta
}

func extractJSONFragment(raw string) string {
	text := strings.TrimSpace(raw)
	if text == "" {
		return ""
	}
	text = trimCodeFence(text)
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		text = text[start : end+1]
	}
	return strings.TrimSpace(text)
}

func trimCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```JSON")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)
	if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return strings.TrimSpace(trimmed)
}

func coalesce(values ...string) string {
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			return v
		}
	}
	return ""
}
