package domain

// CandidateCommand is the output of the external natural-language translator:
// a shell command, a human-readable description, and an optional risk hint.
// The pipeline treats the translator as an opaque oracle and never validates
// the description; the hint is informational only and never lowers the
// classifier's own verdict.
type CandidateCommand struct {
	Text        string
	Description string
	RiskHint    RiskTier
}

// Synthetic exit codes for executions that never produced a real one.
const (
	// ExitCodeTimeout marks a command killed by the watchdog.
	ExitCodeTimeout = -1
	// ExitCodeSpawnFailure marks a command that could not be started at all
	// (binary not found, permission denied).
	ExitCodeSpawnFailure = -2
)

// DryRunMarker is placed in stdout of synthetic dry-run results.
const DryRunMarker = "[dry-run] command not executed"

// ExecutionResult captures the outcome of one supervised execution. It is
// created exactly once per executed command and immutable afterwards. Partial
// output captured before a timeout kill is retained.
type ExecutionResult struct {
	ExitCode   int    `json:"exit_code"`
	Stdout     string `json:"stdout,omitempty"`
	Stderr     string `json:"stderr,omitempty"`
	DurationMS int64  `json:"duration_ms"`
	TimedOut   bool   `json:"timed_out,omitempty"`
	DryRun     bool   `json:"dry_run,omitempty"`
}

// Success reports whether the command completed normally.
func (r ExecutionResult) Success() bool {
	return r.ExitCode == 0 && !r.TimedOut
}
