package domain

// DecisionKind enumerates policy verdicts.
type DecisionKind string

const (
	DecisionAllow   DecisionKind = "allow"
	DecisionConfirm DecisionKind = "confirm"
	DecisionBlock   DecisionKind = "block"
)

// Block reasons produced by the policy engine and pipeline.
const (
	BlockCriticalRisk       = "critical-risk-command"
	BlockDangerousSignature = "dangerous-signature"
	BlockSudoNotPermitted   = "sudo-not-permitted"
	BlockPathRestricted     = "path-restricted"
	BlockStrictModeHighRisk = "strict-mode-high-risk"
	BlockClassificationErr  = "classification-error"
)

// Decision is the policy engine's verdict on a classified command. It is
// consumed immediately and never persisted on its own; history entries record
// the kind and reason.
type Decision struct {
	Kind   DecisionKind
	Reason string
}

// Allow permits execution without confirmation.
func Allow() Decision { return Decision{Kind: DecisionAllow} }

// Confirm requires an explicit user approval before execution.
func Confirm() Decision { return Decision{Kind: DecisionConfirm} }

// Block refuses execution with the given reason.
func Block(reason string) Decision { return Decision{Kind: DecisionBlock, Reason: reason} }

// Blocked reports whether the decision refuses execution.
func (d Decision) Blocked() bool { return d.Kind == DecisionBlock }
