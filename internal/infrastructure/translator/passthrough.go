// Package translator adapts external command sources to the pipeline. The
// real natural-language translator lives outside this system; the pipeline
// only ever sees its CandidateCommand output.
package translator

import (
	"context"
	"strings"

	"github.com/doeshing/cmdguard/internal/domain"
	"github.com/doeshing/cmdguard/internal/ports"
)

// Passthrough treats the caller's input as the literal command text. It is
// the adapter used when a command arrives pre-translated (CLI arguments,
// batch files, another process's translator output).
type Passthrough struct {
	// Description is attached to every candidate; the pipeline never
	// validates it.
	Description string
}

// Translate implements ports.Translator. Empty input is passed through
// unchanged; the classifier flags it and the policy decides what to do.
func (p *Passthrough) Translate(_ context.Context, intent string) (domain.CandidateCommand, error) {
	return domain.CandidateCommand{
		Text:        strings.TrimSpace(intent),
		Description: p.Description,
	}, nil
}

var _ ports.Translator = (*Passthrough)(nil)
