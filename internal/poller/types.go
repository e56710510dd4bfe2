// internal/poller/types.go
package poller

import "time"

// Frame is one fetched snapshot image, raw bytes plus content type.
type Frame struct {
	Body        []byte
	ContentType string
}

// FetchResult is the outcome of one fetch cycle.
type FetchResult struct {
	Webcam   string
	IssuedAt time.Time
	Elapsed  time.Duration // wall-clock round trip, issue to completion

	Frame *Frame
	Err   error // non-nil means the fetch failed; Frame is nil
}
