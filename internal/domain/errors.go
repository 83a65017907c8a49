package domain

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrImageEncode     = errors.New("image encode failed")
	ErrVisionUpstream  = errors.New("vision upstream failure")
	ErrMusicRejected   = errors.New("music generation rejected")
	ErrPollTimeout     = errors.New("music task polling timed out")
	ErrPollTransport   = errors.New("music task polling transport failure")
	ErrTrackFailed     = errors.New("music generation failed")
	ErrAnalysisFailed  = errors.New("analysis failed")
	ErrUnsupportedMode = errors.New("unsupported analysis mode")
)
