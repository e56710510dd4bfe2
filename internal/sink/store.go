// internal/sink/store.go

// Package sink delivers fetched frames: an in-memory latest-frame
// store, and an optional on-disk spool.
package sink

import (
	"sync/atomic"

	"github.com/tamzrod/camwatch/internal/poller"
)

// Store holds the most recent good frame for one webcam.
// Failed fetches are ignored; the last good frame stays available.
type Store struct {
	latest atomic.Pointer[poller.FetchResult]
}

// Put stores a successful fetch result.
func (s *Store) Put(res poller.FetchResult) {
	if res.Err != nil || res.Frame == nil {
		return
	}
	s.latest.Store(&res)
}

// Latest returns the most recent good frame, or nil before the first
// successful fetch.
func (s *Store) Latest() *poller.FetchResult {
	return s.latest.Load()
}
