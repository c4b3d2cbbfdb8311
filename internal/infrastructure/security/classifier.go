package security

import (
	"errors"
	"strings"

	"github.com/doeshing/cmdguard/internal/domain"
	"github.com/doeshing/cmdguard/internal/ports"
)

// Classifier evaluates command text against the catalog and the structural
// heuristics. Classification is a pure function of the text and the catalog:
// no host state is consulted and repeated calls yield identical results.
type Classifier struct {
	catalog *Catalog
}

// NewClassifier builds a classifier over a compiled catalog.
func NewClassifier(catalog *Catalog) (*Classifier, error) {
	if catalog == nil {
		return nil, errors.New("classifier requires a catalog")
	}
	return &Classifier{catalog: catalog}, nil
}

// Classify implements ports.Classifier.
func (c *Classifier) Classify(text string) (domain.Classification, error) {
	normalized := strings.Join(strings.Fields(text), " ")
	if normalized == "" {
		return domain.Classification{
			Tier:     domain.TierLow,
			Warnings: []string{domain.WarnEmptyCommand},
		}, nil
	}

	result := domain.Classification{Tier: domain.TierLow}
	seenLabels := map[string]bool{}

	for _, cs := range c.catalog.signatures {
		if !cs.re.MatchString(normalized) {
			continue
		}
		result.Tier = domain.MaxTier(result.Tier, domain.ParseRiskTier(cs.sig.Tier))
		result.MatchedSignatures = append(result.MatchedSignatures, cs.sig.ID)
		if cs.sig.AlwaysBlock {
			result.AlwaysBlock = true
		}
		if cs.sig.RequiresPrivilege {
			result.RequiresPrivilege = true
		}
		if cs.sig.Label != "" && !seenLabels[cs.sig.Label] {
			seenLabels[cs.sig.Label] = true
			result.Warnings = append(result.Warnings, cs.sig.Label)
		}
	}

	c.applyHeuristics(normalized, seenLabels, &result)
	result.TargetPaths, result.UnresolvedTargets = extractTargets(normalized)
	return result, nil
}

// applyHeuristics raises MEDIUM for file mutation, pipes/redirects, and network
// verbs even when no named signature matched.
func (c *Classifier) applyHeuristics(command string, seen map[string]bool, result *domain.Classification) {
	tokens := strings.Fields(command)

	if containsVerb(tokens, c.catalog.fileVerbs) {
		result.Tier = domain.MaxTier(result.Tier, domain.TierMedium)
		appendWarning(result, seen, domain.WarnFileOperation)
	}
	if strings.ContainsAny(command, "|><") {
		result.Tier = domain.MaxTier(result.Tier, domain.TierMedium)
		appendWarning(result, seen, domain.WarnPipeOrRedirect)
	}
	if containsVerb(tokens, c.catalog.netVerbs) {
		result.Tier = domain.MaxTier(result.Tier, domain.TierMedium)
		appendWarning(result, seen, domain.WarnNetworkOperation)
	}
	if containsVerb(tokens, c.catalog.privileged) && !result.RequiresPrivilege {
		result.RequiresPrivilege = true
		result.Tier = domain.MaxTier(result.Tier, domain.TierMedium)
		appendWarning(result, seen, domain.WarnPrivilege)
	}
}

func appendWarning(result *domain.Classification, seen map[string]bool, label string) {
	if seen[label] {
		return
	}
	seen[label] = true
	result.Warnings = append(result.Warnings, label)
}

func containsVerb(tokens []string, verbs map[string]bool) bool {
	for _, token := range tokens {
		if verbs[token] {
			return true
		}
	}
	return false
}

// extractTargets collects path-looking tokens for the allowed-directory rule.
// Globs, variables, substitutions, and backticks mark the command as
// statically unresolvable; the policy engine treats those as out-of-bounds
// when a directory restriction is active.
func extractTargets(command string) ([]string, bool) {
	unresolved := strings.ContainsAny(command, "*?[`") ||
		strings.Contains(command, "$(") ||
		strings.Contains(command, "${")
	var targets []string
	for _, token := range strings.Fields(command) {
		token = strings.Trim(token, `"'`)
		if strings.HasPrefix(token, "-") || !strings.Contains(token, "/") {
			continue
		}
		if strings.ContainsAny(token, "$~") {
			unresolved = true
			continue
		}
		targets = append(targets, token)
	}
	return targets, unresolved
}

var _ ports.Classifier = (*Classifier)(nil)
