package imaging

import (
	"encoding/base64"
	"fmt"
	"os"

	"server/internal/domain"
)

const dataURIPrefix = "data:image/jpeg;base64,"

// EncodeDataURI reads a local image and returns it as an inline base64 data
// URI suitable for a multimodal chat request. The read is the only side
// effect; an unreadable or empty file fails the whole analysis.
func EncodeDataURI(path string) (string, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrImageEncode, err)
	}
	if len(payload) == 0 {
		return "", fmt.Errorf("%w: %s is empty", domain.ErrImageEncode, path)
	}
	return dataURIPrefix + base64.StdEncoding.EncodeToString(payload), nil
}
