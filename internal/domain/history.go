package domain

import "time"

// UserAction is the confirmation loop input that led to the final outcome.
type UserAction string

const (
	ActionApprove UserAction = "approve"
	ActionModify  UserAction = "modify"
	ActionExplain UserAction = "explain"
	ActionHelp    UserAction = "help"
	ActionDecline UserAction = "decline"
	ActionNone    UserAction = ""
)

// HistoryEntry records one pipeline invocation. Entries are append-only and
// never updated or deleted by the pipeline. A blocked or declined entry never
// carries an Execution.
type HistoryEntry struct {
	ID          string           `json:"id"`
	Timestamp   time.Time        `json:"timestamp"`
	Command     string           `json:"command"`
	Description string           `json:"description,omitempty"`
	Tier        RiskTier         `json:"risk_tier"`
	Decision    DecisionKind     `json:"decision"`
	Reason      string           `json:"reason,omitempty"`
	Warnings    []string         `json:"warnings,omitempty"`
	UserAction  UserAction       `json:"user_action,omitempty"`
	Execution   *ExecutionResult `json:"execution,omitempty"`
}

// Executed reports whether this invocation actually ran a process.
func (e HistoryEntry) Executed() bool {
	return e.Execution != nil && !e.Execution.DryRun
}
