// internal/sink/spool.go
package sink

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tamzrod/camwatch/internal/poller"
)

// Spool writes frames to a directory, keeping at most keep files.
// Not safe for concurrent use; it is owned by a single viewer
// orchestrator goroutine.
type Spool struct {
	dir    string
	prefix string
	keep   int

	written []string // oldest first
}

// NewSpool creates the spool directory if needed.
// keep <= 0 means keep everything.
func NewSpool(dir, prefix string, keep int) (*Spool, error) {
	if dir == "" {
		return nil, errors.New("sink: spool dir required")
	}
	if prefix == "" {
		return nil, errors.New("sink: spool prefix required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("sink: create spool dir: %w", err)
	}

	return &Spool{dir: dir, prefix: prefix, keep: keep}, nil
}

// Write spools one successful fetch result and prunes the oldest file
// when over the cap. Failed fetches are skipped silently.
func (s *Spool) Write(res poller.FetchResult) error {
	if res.Err != nil || res.Frame == nil {
		return nil
	}

	name := s.prefix + "-" + strconv.FormatInt(res.IssuedAt.UnixMilli(), 10) + extensionFor(res.Frame.ContentType)
	path := filepath.Join(s.dir, name)

	if err := os.WriteFile(path, res.Frame.Body, 0o644); err != nil {
		return fmt.Errorf("sink: spool write: %w", err)
	}

	s.written = append(s.written, path)

	for s.keep > 0 && len(s.written) > s.keep {
		oldest := s.written[0]
		s.written = s.written[1:]

		if err := os.Remove(oldest); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("sink: spool prune: %w", err)
		}
	}

	return nil
}

func extensionFor(contentType string) string {
	switch {
	case strings.HasPrefix(contentType, "image/png"):
		return ".png"
	case strings.HasPrefix(contentType, "image/webp"):
		return ".webp"
	default:
		return ".jpg"
	}
}
