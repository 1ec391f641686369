package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/fsnotify/fsnotify"

	"github.com/vietddude/fhirgate/internal/core/domain"
)

// FSSource reads documents from a directory. Items are returned in
// lexical name order so repeated polls observe a stable sequence.
type FSSource struct {
	dir     string
	pattern string
}

// NewFSSource creates a directory-backed source. Pattern is a glob
// matched against item names ("*.json" keeps only JSON documents).
func NewFSSource(dir, pattern string) *FSSource {
	if pattern == "" {
		pattern = "*"
	}
	return &FSSource{dir: dir, pattern: pattern}
}

// Poll lists the directory and reads every matching regular file.
// A file that cannot be read is still reported, with ReadErr set, so
// the dispatcher can give it a terminal routing.
func (s *FSSource) Poll(ctx context.Context) ([]domain.Document, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list source dir: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ok, err := filepath.Match(s.pattern, e.Name())
		if err != nil {
			return nil, fmt.Errorf("invalid source pattern %q: %w", s.pattern, err)
		}
		if ok {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	docs := make([]domain.Document, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		path := filepath.Join(s.dir, name)
		content, err := os.ReadFile(path)
		docs = append(docs, domain.Document{
			ID:      name,
			Path:    path,
			Content: content,
			ReadErr: err,
		})
	}
	return docs, nil
}

// Remove deletes a routed item from the input directory.
func (s *FSSource) Remove(ctx context.Context, id string) error {
	if err := os.Remove(filepath.Join(s.dir, id)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove source item: %w", err)
	}
	return nil
}

// Watch signals when the input directory changes so the dispatcher can
// poll early. Events are coalesced; a slow consumer just sees one wake.
func (s *FSSource) Watch(ctx context.Context) (<-chan struct{}, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fs watcher: %w", err)
	}
	if err := watcher.Add(s.dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch source dir: %w", err)
	}

	wake := make(chan struct{}, 1)
	go func() {
		defer watcher.Close()
		defer close(wake)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if ev.Op.Has(fsnotify.Create) || ev.Op.Has(fsnotify.Write) || ev.Op.Has(fsnotify.Rename) {
					select {
					case wake <- struct{}{}:
					default:
					}
				}
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
				// Watch errors are non-fatal: the poll ticker still runs.
			}
		}
	}()
	return wake, nil
}
