package pipeline

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// emotionVocabulary is matched against the immersive description to derive
// the mood tags shown alongside a record.
var emotionVocabulary = []string{
	"calm", "dreamy", "melancholy", "energetic", "mysterious",
	"romantic", "joyful", "somber", "dramatic", "peaceful",
	"intense", "serene", "vibrant", "haunting", "ethereal",
}

var defaultEmotions = []string{"artistic", "expressive", "captivating"}

const maxEmotions = 3

// ExtractEmotions scans the immersive text for known emotion keywords and
// returns up to three of them, title-cased. A text matching nothing gets the
// fixed default triple.
func ExtractEmotions(immersive string) []string {
	text := strings.ToLower(immersive)
	var found []string
	for _, emotion := range emotionVocabulary {
		if strings.Contains(text, emotion) {
			found = append(found, emotion)
		}
		if len(found) == maxEmotions {
			break
		}
	}
	if len(found) == 0 {
		found = defaultEmotions
	}
	return formatEmotions(found)
}

func formatEmotions(emotions []string) []string {
	titled := cases.Title(language.Und)
	out := make([]string, 0, len(emotions))
	for _, e := range emotions {
		out = append(out, titled.String(e))
	}
	return out
}
