package domain

import "time"

// File permission constants
const (
	// DirectoryPermissions is the default permission for directories (rwxr-xr-x)
	DirectoryPermissions = 0o755
	// HistoryFilePermissions is the permission for history files (rw-r--r--)
	HistoryFilePermissions = 0o644
	// PolicyFilePermissions is the permission for policy files (rw-------)
	PolicyFilePermissions = 0o600
)

// Execution constants
const (
	// DefaultExecutionTimeoutSeconds bounds a single command execution.
	DefaultExecutionTimeoutSeconds = 30
	// WatchdogGracePeriod bounds how long the watchdog waits for the process
	// group to die after a SIGKILL before giving up on the wait.
	WatchdogGracePeriod = 2 * time.Second
)

// History constants
const (
	// DefaultHistoryLimit is the default number of history records to display
	DefaultHistoryLimit = 20
	// DefaultHistorySearchLimit is the default number of search results to return
	DefaultHistorySearchLimit = 50
)

// TimestampFormat is the standard timestamp format for persisted records.
const TimestampFormat = time.RFC3339
