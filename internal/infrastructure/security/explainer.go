package security

import (
	"fmt"
	"strings"

	"github.com/doeshing/cmdguard/internal/domain"
	"github.com/doeshing/cmdguard/internal/ports"
)

// TemplateExplainer renders a static rationale from the warning labels. The
// external translator can provide richer explanations; this is the fallback
// that needs no network round trip.
type TemplateExplainer struct{}

// NewTemplateExplainer builds a TemplateExplainer.
func NewTemplateExplainer() *TemplateExplainer {
	return &TemplateExplainer{}
}

var warningTemplates = map[string]string{
	"destructive-filesystem-op":        "deletes files or directories recursively and cannot be undone",
	"destructive-disk-write":           "writes raw data to a disk device, destroying its contents",
	"filesystem-wipe":                  "reformats or wipes a filesystem",
	"fork-bomb":                        "spawns processes until the machine becomes unresponsive",
	"permission-change-protected-root": "changes ownership or permissions on a protected system directory",
	"service-stop-control":             "stops or disables a system service",
	"forced-process-kill":              "force-kills processes without giving them a chance to clean up",
	"network-fetch-and-execute":        "downloads a remote script and executes it immediately",
	"dynamic-evaluation":               "evaluates dynamically constructed shell code",
	domain.WarnPrivilege:               "runs with elevated privileges",
	domain.WarnFileOperation:           "modifies files on disk",
	domain.WarnPipeOrRedirect:          "uses pipes or redirection, so output may overwrite files",
	domain.WarnNetworkOperation:        "talks to the network",
	domain.WarnEmptyCommand:            "is empty and does nothing",
}

// Explain implements ports.Explainer.
func (e *TemplateExplainer) Explain(command string, c domain.Classification) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Risk %s for: %s\n", strings.ToUpper(string(c.Tier)), command)
	if len(c.Warnings) == 0 {
		b.WriteString("No dangerous patterns were detected.")
		return b.String()
	}
	b.WriteString("This command:\n")
	for _, warning := range c.Warnings {
		if tmpl, ok := warningTemplates[warning]; ok {
			fmt.Fprintf(&b, " - %s (%s)\n", tmpl, warning)
		} else {
			fmt.Fprintf(&b, " - matched %s\n", warning)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

var _ ports.Explainer = (*TemplateExplainer)(nil)
