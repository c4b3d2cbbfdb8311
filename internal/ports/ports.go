// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// This package establishes the contract between the application core and
// external adapters (infrastructure). Following the Ports and Adapters pattern,
// these interfaces keep the pipeline independent of specific implementations
// like the signature catalog format, the history backend, or the CLI frontend.
package ports

import (
	"context"
	"time"

	"github.com/doeshing/cmdguard/internal/domain"
)

// Translator is the external natural-language-to-command oracle. It sits
// outside the safety pipeline; the pipeline only consumes its output.
type Translator interface {
	Translate(ctx context.Context, intent string) (domain.CandidateCommand, error)
}

// Classifier evaluates a command string against the signature catalog and
// structural heuristics. Classify is pure and deterministic; an error means
// the catalog itself is unusable and the caller must fail closed.
type Classifier interface {
	Classify(text string) (domain.Classification, error)
}

// PolicyEngine turns a classification and a safety policy into a decision.
type PolicyEngine interface {
	Decide(c domain.Classification, policy domain.SafetyPolicy) domain.Decision
}

// CommandExecutor runs an approved command under a timeout watchdog. It never
// returns a Go error for command failure: spawn errors, non-zero exits, and
// timeouts are all communicated through the result.
type CommandExecutor interface {
	Execute(ctx context.Context, command, workingDir string, timeout time.Duration) domain.ExecutionResult
}

// ConfirmationPrompter drives the interactive confirm loop. Prompt presents
// the command and its classification and returns the chosen action; for
// modify it also returns the replacement command text. Non-interactive
// implementations must default to decline.
type ConfirmationPrompter interface {
	Prompt(command string, c domain.Classification) (domain.UserAction, string, error)
	Show(message string)
	Enabled() bool
}

// Explainer produces a human-readable rationale for a classification.
type Explainer interface {
	Explain(command string, c domain.Classification) string
}

// HistoryRecorder appends one entry per pipeline invocation. Failures are
// reported but must never retroactively affect a decision already made.
type HistoryRecorder interface {
	Record(entry domain.HistoryEntry) error
}

// HistoryRepository is the read/maintenance surface over the history backend.
type HistoryRepository interface {
	Append(entry domain.HistoryEntry) error
	Entries(limit int, search string) ([]domain.HistoryEntry, error)
	Clear() error
	ExportJSON(dest string) error
	Path() string
}

// Logger provides structured logging abstraction for the application layer.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
