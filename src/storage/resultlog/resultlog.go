package resultlog

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"docsearch/src/core/search"
	"docsearch/src/fsutil"
	"docsearch/src/infrastructure/log"
)

// Record is the structure persisted for one search call.
type Record struct {
	ID           string       `json:"id"`
	Query        string       `json:"query"`
	CollectionID string       `json:"collection_id"`
	Timestamp    time.Time    `json:"timestamp"`
	Results      []search.Hit `json:"results"`
}

// Writer persists search results as JSON files in a directory.
type Writer struct {
	dir string
	fs  fsutil.FileStore
	now func() time.Time
}

// NewWriter creates a result writer and ensures the target directory
// exists.
func NewWriter(dir string, fs fsutil.FileStore) (*Writer, error) {
	if err := fs.MakeDirectory(dir); err != nil {
		return nil, fmt.Errorf("failed to create results directory: %w", err)
	}

	return &Writer{
		dir: dir,
		fs:  fs,
		now: time.Now,
	}, nil
}

// Save writes the result set to a timestamped JSON file and returns its
// path.
func (w *Writer) Save(ctx context.Context, query, collectionID string, results []search.Hit) (string, error) {
	now := w.now()
	filename := fmt.Sprintf("search_%s_%s.json", sanitize(collectionID), now.Format("20060102150405"))
	path := filepath.Join(w.dir, filename)

	record := Record{
		ID:           uuid.NewString(),
		Query:        query,
		CollectionID: collectionID,
		Timestamp:    now,
		Results:      results,
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal search results: %w", err)
	}

	if err := w.fs.WriteFile(path, data); err != nil {
		return "", fmt.Errorf("failed to write search results: %w", err)
	}

	log.Info("saved search results", "path", path)
	return path, nil
}

// sanitize keeps only filename-safe characters from a collection id.
func sanitize(id string) string {
	var b strings.Builder
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.', r == '_', r == '-':
			b.WriteRune(r)
		}
	}
	return b.String()
}
