// Package history remembers recent extraction runs per graph dump.
//
// Picking a start node in a large dump is the slow part of the workflow,
// so the CLI records the last start node used for each source and offers
// it on the next run. Entries are stored as JSON files in a config
// directory, keyed by the content hash of the dump, with automatic
// expiration of stale entries.
//
// # Usage
//
// Create a store and record a run:
//
//	store, err := history.NewStore("")  // Uses ~/.config/reachview/history/
//	if err != nil {
//	    return err
//	}
//	store.Set(ctx, history.Entry{
//	    SourceHash: sourceHash,
//	    Start:      "102",
//	    Depth:      2,
//	    Direction:  "both",
//	})
//
// Look up the previous run for the same dump:
//
//	entry, err := store.Get(ctx, sourceHash)
//	if err != nil {
//	    return err
//	}
//	if entry != nil {
//	    // Reuse entry.Start as the default start node.
//	}
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// DefaultTTL is how long a recorded run stays valid. Dumps regenerate
// frequently; a start node picked a month ago is rarely still the node
// under investigation.
const DefaultTTL = 30 * 24 * time.Hour

// Entry records the parameters of one extraction run.
type Entry struct {
	SourceHash string    `json:"source_hash"`
	Start      string    `json:"start"`
	Depth      int       `json:"depth"`
	Direction  string    `json:"direction"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// IsExpired returns true if the entry is older than ttl.
func (e *Entry) IsExpired(ttl time.Duration) bool {
	return time.Now().After(e.UpdatedAt.Add(ttl))
}

// Store is a file-based record of recent runs. Entries are stored as JSON
// files named by source hash.
type Store struct {
	mu      sync.RWMutex
	baseDir string
	ttl     time.Duration
}

// NewStore creates a history store rooted at baseDir.
// If baseDir is empty, defaults to ~/.config/reachview/history/
func NewStore(baseDir string) (*Store, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".config", "reachview", "history")
	}
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}
	return &Store{baseDir: baseDir, ttl: DefaultTTL}, nil
}

func (s *Store) entryPath(sourceHash string) string {
	return filepath.Join(s.baseDir, sourceHash+".json")
}

// Get retrieves the recorded run for a source hash.
// Returns nil, nil if no entry exists or the entry has expired; expired
// entries are removed on the way out.
func (s *Store) Get(ctx context.Context, sourceHash string) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	path := s.entryPath(sourceHash)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read history file: %w", err)
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("parse history entry: %w", err)
	}

	if entry.IsExpired(s.ttl) {
		os.Remove(path)
		return nil, nil
	}
	return &entry, nil
}

// Set records a run, overwriting any previous entry for the same source.
// The entry's UpdatedAt is stamped here.
func (s *Store) Set(ctx context.Context, entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry.UpdatedAt = time.Now()
	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal history entry: %w", err)
	}

	path := s.entryPath(entry.SourceHash)
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write history file: %w", err)
	}
	return nil
}

// Delete removes the entry for a source hash. Missing entries are not an
// error.
func (s *Store) Delete(ctx context.Context, sourceHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.entryPath(sourceHash)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove history file: %w", err)
	}
	return nil
}

// Cleanup removes expired entries.
func (s *Store) Cleanup(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return fmt.Errorf("read history dir: %w", err)
	}

	for _, dirEntry := range entries {
		if dirEntry.IsDir() || filepath.Ext(dirEntry.Name()) != ".json" {
			continue
		}
		path := filepath.Join(s.baseDir, dirEntry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var entry Entry
		if err := json.Unmarshal(data, &entry); err != nil {
			continue
		}
		if entry.IsExpired(s.ttl) {
			os.Remove(path)
		}
	}
	return nil
}

// Path returns the base directory for history files.
func (s *Store) Path() string {
	return s.baseDir
}
