package domain

// TrackStatus enumerates the generation task states reported by the music API.
type TrackStatus string

const (
	TrackStatusPending    TrackStatus = "PENDING"
	TrackStatusGenerating TrackStatus = "GENERATING"
	TrackStatusSuccess    TrackStatus = "SUCCESS"
	TrackStatusFailed     TrackStatus = "FAILED"
)

// Terminal reports whether the status ends the polling lifecycle. SUCCESS is
// only effectively terminal once an audio URL is present in the payload; that
// check belongs to the poller, not the status itself.
func (s TrackStatus) Terminal() bool {
	return s == TrackStatusSuccess || s == TrackStatusFailed
}

// MusicTask tracks one asynchronous instrumental generation job. Status moves
// only through polling reads; the initial PENDING is an assumption, not an
// observation.
type MusicTask struct {
	TaskID   string
	Status   TrackStatus
	AudioURL string
}
