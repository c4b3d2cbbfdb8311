package history

import (
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/doeshing/cmdguard/internal/domain"
	"github.com/doeshing/cmdguard/internal/pkg/filesystem"
	"github.com/doeshing/cmdguard/internal/ports"
)

// SQLiteStore persists history in a SQLite database. Execution fields are
// flattened into columns; a blocked entry keeps them NULL.
type SQLiteStore struct {
	db       *sql.DB
	path     string
	fallback *FileStore
	mu       sync.Mutex
}

// NewSQLiteStore creates (or opens) the ~/.cmdguard/history/history.db
// database, degrading to the jsonl file store if the database is unusable.
func NewSQLiteStore() *SQLiteStore {
	return NewSQLiteStoreAt(filepath.Join(filesystem.UserHomeDir(), ".cmdguard", "history", "history.db"))
}

// NewSQLiteStoreAt opens a store at an explicit path.
func NewSQLiteStoreAt(path string) *SQLiteStore {
	fallback := NewFileStoreAt(strings.TrimSuffix(path, ".db") + ".jsonl")
	_ = os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return &SQLiteStore{path: path, fallback: fallback}
	}
	store := &SQLiteStore{db: db, path: path, fallback: fallback}
	if err := store.init(); err != nil {
		return &SQLiteStore{path: path, fallback: fallback}
	}
	return store
}

func (s *SQLiteStore) init() error {
	if s.db == nil {
		return os.ErrInvalid
	}
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS invocations (
		id TEXT PRIMARY KEY,
		timestamp TEXT NOT NULL,
		command TEXT NOT NULL,
		description TEXT,
		risk_tier TEXT,
		decision TEXT,
		reason TEXT,
		warnings TEXT,
		user_action TEXT,
		executed INTEGER NOT NULL DEFAULT 0,
		exit_code INTEGER,
		timed_out INTEGER,
		dry_run INTEGER,
		duration_ms INTEGER,
		stdout TEXT,
		stderr TEXT
	);`)
	return err
}

// Append implements ports.HistoryRepository.
func (s *SQLiteStore) Append(entry domain.HistoryEntry) error {
	if s.db == nil {
		return s.fallback.Append(entry)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var exitCode, timedOut, dryRun, durationMS interface{}
	var stdout, stderr interface{}
	executed := 0
	if entry.Execution != nil {
		executed = 1
		exitCode = entry.Execution.ExitCode
		timedOut = boolToInt(entry.Execution.TimedOut)
		dryRun = boolToInt(entry.Execution.DryRun)
		durationMS = entry.Execution.DurationMS
		stdout = entry.Execution.Stdout
		stderr = entry.Execution.Stderr
	}

	_, err := s.db.Exec(`INSERT INTO invocations
		(id, timestamp, command, description, risk_tier, decision, reason, warnings,
		 user_action, executed, exit_code, timed_out, dry_run, duration_ms, stdout, stderr)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.Timestamp.Format(domain.TimestampFormat),
		entry.Command,
		entry.Description,
		string(entry.Tier),
		string(entry.Decision),
		entry.Reason,
		strings.Join(entry.Warnings, ","),
		string(entry.UserAction),
		executed,
		exitCode,
		timedOut,
		dryRun,
		durationMS,
		stdout,
		stderr,
	)
	return err
}

// Entries returns history records, newest first, optionally filtered.
func (s *SQLiteStore) Entries(limit int, search string) ([]domain.HistoryEntry, error) {
	if s.db == nil {
		return s.fallback.Entries(limit, search)
	}
	builder := strings.Builder{}
	builder.WriteString(`SELECT id, timestamp, command, description, risk_tier, decision, reason,
		warnings, user_action, executed, exit_code, timed_out, dry_run, duration_ms, stdout, stderr
		FROM invocations`)
	var args []interface{}
	if search != "" {
		builder.WriteString(" WHERE command LIKE ? OR description LIKE ?")
		args = append(args, "%"+search+"%", "%"+search+"%")
	}
	builder.WriteString(" ORDER BY datetime(timestamp) DESC")
	if limit > 0 {
		builder.WriteString(" LIMIT ?")
		args = append(args, limit)
	}
	rows, err := s.db.Query(builder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.HistoryEntry
	for rows.Next() {
		var entry domain.HistoryEntry
		var ts, warnings string
		var executed int
		var exitCode, timedOut, dryRun, durationMS sql.NullInt64
		var stdout, stderr sql.NullString
		err := rows.Scan(&entry.ID, &ts, &entry.Command, &entry.Description,
			&entry.Tier, &entry.Decision, &entry.Reason, &warnings, &entry.UserAction,
			&executed, &exitCode, &timedOut, &dryRun, &durationMS, &stdout, &stderr)
		if err != nil {
			return nil, err
		}
		if t, err := time.Parse(domain.TimestampFormat, ts); err == nil {
			entry.Timestamp = t
		}
		if warnings != "" {
			entry.Warnings = strings.Split(warnings, ",")
		}
		if executed == 1 {
			entry.Execution = &domain.ExecutionResult{
				ExitCode:   int(exitCode.Int64),
				TimedOut:   timedOut.Int64 == 1,
				DryRun:     dryRun.Int64 == 1,
				DurationMS: durationMS.Int64,
				Stdout:     stdout.String,
				Stderr:     stderr.String,
			}
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Clear deletes all history entries.
func (s *SQLiteStore) Clear() error {
	if s.db == nil {
		return s.fallback.Clear()
	}
	_, err := s.db.Exec("DELETE FROM invocations")
	return err
}

// ExportJSON writes the invocation table to a jsonl file.
func (s *SQLiteStore) ExportJSON(dest string) error {
	entries, err := s.Entries(0, "")
	if err != nil {
		return err
	}
	return writeJSONL(dest, entries)
}

// Path returns the sqlite database path.
func (s *SQLiteStore) Path() string {
	return s.path
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

var _ ports.HistoryRepository = (*SQLiteStore)(nil)
