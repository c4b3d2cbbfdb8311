// Package history persists pipeline records. Both backends serialize
// concurrent appends so records never interleave; a truncated final line from
// a crash does not corrupt prior entries.
package history

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/doeshing/cmdguard/internal/domain"
	"github.com/doeshing/cmdguard/internal/pkg/filesystem"
	"github.com/doeshing/cmdguard/internal/ports"
)

// FileStore appends history entries to a jsonl file, one JSON object per line.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a history store under ~/.cmdguard/history/history.jsonl.
func NewFileStore() *FileStore {
	return &FileStore{
		path: filepath.Join(filesystem.UserHomeDir(), ".cmdguard", "history", "history.jsonl"),
	}
}

// NewFileStoreAt creates a store backed by an explicit path.
func NewFileStoreAt(path string) *FileStore {
	return &FileStore{path: path}
}

// Append implements ports.HistoryRepository.
func (f *FileStore) Append(entry domain.HistoryEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(f.path), domain.DirectoryPermissions); err != nil {
		return err
	}
	file, err := os.OpenFile(f.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, domain.HistoryFilePermissions)
	if err != nil {
		return err
	}
	defer file.Close()
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = file.Write(data)
	return err
}

// Entries loads history records, newest first. Lines that fail to parse
// (e.g. a truncated tail after a crash) are skipped.
func (f *FileStore) Entries(limit int, search string) ([]domain.HistoryEntry, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	lines := bytes.Split(bytes.TrimSpace(data), []byte("\n"))
	var entries []domain.HistoryEntry
	for i := len(lines) - 1; i >= 0; i-- {
		if len(lines[i]) == 0 {
			continue
		}
		var entry domain.HistoryEntry
		if err := json.Unmarshal(lines[i], &entry); err != nil {
			continue
		}
		if search != "" && !entryMatches(entry, search) {
			continue
		}
		entries = append(entries, entry)
		if limit > 0 && len(entries) >= limit {
			break
		}
	}
	return entries, nil
}

// Clear removes the history file.
func (f *FileStore) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// ExportJSON copies the history to another jsonl file.
func (f *FileStore) ExportJSON(dest string) error {
	entries, err := f.Entries(0, "")
	if err != nil {
		return err
	}
	return writeJSONL(dest, entries)
}

// Path returns the backing file path.
func (f *FileStore) Path() string {
	return f.path
}

func entryMatches(entry domain.HistoryEntry, search string) bool {
	search = strings.ToLower(search)
	return strings.Contains(strings.ToLower(entry.Command), search) ||
		strings.Contains(strings.ToLower(entry.Description), search)
}

func writeJSONL(dest string, entries []domain.HistoryEntry) error {
	file, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer file.Close()
	for _, entry := range entries {
		data, err := json.Marshal(entry)
		if err != nil {
			return err
		}
		if _, err := file.Write(append(data, '\n')); err != nil {
			return err
		}
	}
	return nil
}

var _ ports.HistoryRepository = (*FileStore)(nil)
