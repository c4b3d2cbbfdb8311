package security

import (
	"path/filepath"
	"strings"

	"github.com/doeshing/cmdguard/internal/domain"
	"github.com/doeshing/cmdguard/internal/ports"
)

// Engine is the policy engine: it turns a classification and a safety policy
// into a decision. Rules are evaluated in order and the first match wins, so
// the outcome is deterministic for any (classification, policy) pair.
type Engine struct{}

// NewEngine builds a policy engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Decide implements ports.PolicyEngine.
//
// Rule order:
//  1. critical tier blocks unconditionally
//  2. always-block signature with dangerous-command blocking enabled
//  3. elevated privilege without allow_sudo
//  4. directory restriction violated (unresolvable targets are out-of-bounds)
//  5. strict mode blocks high tier
//  6. auto-confirm allows the rest
//  7. low tier allows
//  8. everything else needs confirmation
func (e *Engine) Decide(c domain.Classification, policy domain.SafetyPolicy) domain.Decision {
	if c.Tier == domain.TierCritical {
		return domain.Block(domain.BlockCriticalRisk)
	}
	if policy.BlockDangerousCommands && c.AlwaysBlock {
		return domain.Block(domain.BlockDangerousSignature)
	}
	if c.RequiresPrivilege && !policy.AllowSudo {
		return domain.Block(domain.BlockSudoNotPermitted)
	}
	if len(policy.AllowedDirs) > 0 && !targetsWithinAllowed(c, policy) {
		return domain.Block(domain.BlockPathRestricted)
	}
	if policy.StrictMode && c.Tier.AtLeast(domain.TierHigh) {
		return domain.Block(domain.BlockStrictModeHighRisk)
	}
	if policy.AutoConfirm {
		return domain.Allow()
	}
	if c.Tier == domain.TierLow {
		return domain.Allow()
	}
	return domain.Confirm()
}

// targetsWithinAllowed applies the directory restriction to commands that
// mutate files. The rule is conservative: a target that cannot be statically
// resolved into an allowed directory counts as out-of-bounds.
func targetsWithinAllowed(c domain.Classification, policy domain.SafetyPolicy) bool {
	if !hasWarning(c, domain.WarnFileOperation) {
		return true
	}
	if c.UnresolvedTargets {
		return false
	}
	base := policy.WorkingDir
	if base == "" {
		base = "."
	}
	for _, target := range c.TargetPaths {
		if !pathAllowed(target, base, policy.AllowedDirs) {
			return false
		}
	}
	// A mutation with no resolvable absolute target operates on the working
	// directory; that must itself be allowed.
	if len(c.TargetPaths) == 0 {
		return pathAllowed(base, base, policy.AllowedDirs)
	}
	return true
}

func pathAllowed(target, base string, allowed []string) bool {
	if !filepath.IsAbs(target) {
		target = filepath.Join(base, target)
	}
	target = filepath.Clean(target)
	for _, dir := range allowed {
		if dir == "" {
			continue
		}
		dir = filepath.Clean(dir)
		if target == dir || strings.HasPrefix(target, dir+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func hasWarning(c domain.Classification, label string) bool {
	for _, w := range c.Warnings {
		if w == label {
			return true
		}
	}
	return false
}

var _ ports.PolicyEngine = (*Engine)(nil)
