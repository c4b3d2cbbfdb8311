// Package domain defines core business entities and value objects for cmdguard.
//
// The domain layer is independent of infrastructure concerns and represents pure
// business logic and data structures: risk tiers, classifications, policy
// decisions, and history records.
package domain

import "strings"

// RiskTier orders command severity. Critical commands are never auto-approved
// regardless of policy.
type RiskTier string

const (
	TierLow      RiskTier = "low"
	TierMedium   RiskTier = "medium"
	TierHigh     RiskTier = "high"
	TierCritical RiskTier = "critical"
)

var tierOrder = map[RiskTier]int{
	TierLow:      0,
	TierMedium:   1,
	TierHigh:     2,
	TierCritical: 3,
}

// Severity returns the numeric rank of the tier. Unknown tiers rank below LOW.
func (t RiskTier) Severity() int {
	rank, ok := tierOrder[t]
	if !ok {
		return -1
	}
	return rank
}

// AtLeast reports whether t is as severe as other.
func (t RiskTier) AtLeast(other RiskTier) bool {
	return t.Severity() >= other.Severity()
}

// MaxTier returns the more severe of two tiers.
func MaxTier(a, b RiskTier) RiskTier {
	if b.Severity() > a.Severity() {
		return b
	}
	return a
}

// ParseRiskTier maps a string to a tier, defaulting to LOW for unknown values.
func ParseRiskTier(value string) RiskTier {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "medium":
		return TierMedium
	case "high":
		return TierHigh
	case "critical":
		return TierCritical
	default:
		return TierLow
	}
}

// Warning labels emitted by the classifier's structural heuristics.
const (
	WarnEmptyCommand     = "empty-command"
	WarnFileOperation    = "contains-file-operation"
	WarnPipeOrRedirect   = "contains-pipe-or-redirect"
	WarnNetworkOperation = "contains-network-operation"
	WarnPrivilege        = "privilege-escalation"
)

// Classification is the deterministic result of evaluating a command against
// the signature catalog and structural heuristics. Same text and catalog always
// yield the same classification.
type Classification struct {
	Tier              RiskTier
	Warnings          []string
	MatchedSignatures []string

	// AlwaysBlock is set when any matched signature is flagged always-block
	// in the catalog.
	AlwaysBlock bool

	// RequiresPrivilege is set for sudo/doas invocations and commands that
	// normally need elevated rights.
	RequiresPrivilege bool

	// TargetPaths are the path-looking tokens of the command, used by the
	// allowed-directory policy rule. UnresolvedTargets is set when the command
	// contains globs, variables, or substitutions that cannot be statically
	// resolved; such commands are treated as out-of-bounds when a directory
	// restriction is active.
	TargetPaths       []string
	UnresolvedTargets bool
}
