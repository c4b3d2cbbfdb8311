package services

import (
	"errors"
	"fmt"

	"github.com/doeshing/cmdguard/internal/domain"
	"github.com/doeshing/cmdguard/internal/ports"
)

// ConfirmOutcome is the terminal state of one confirmation loop.
type ConfirmOutcome struct {
	Approved bool

	// Command is the text to execute when approved; it may differ from the
	// presented command after a modify transition.
	Command        string
	Classification domain.Classification
	Decision       domain.Decision

	// LastAction is the transition that ended the loop.
	LastAction domain.UserAction
}

const confirmHelp = `Available actions:
  y/yes - approve and execute the command
  m     - modify the command (it will be reclassified)
  e     - explain why the command was flagged
  h     - show this help
  n/no  - decline and record without executing`

// ConfirmLoop drives the Presented -> {Approved, Declined} state machine for
// commands the policy engine wants confirmed. Each modify transition re-enters
// classification; a modified command is never exempt from re-evaluation.
type ConfirmLoop struct {
	Classifier ports.Classifier
	Policy     ports.PolicyEngine
	Prompter   ports.ConfirmationPrompter
	Explainer  ports.Explainer
	Logger     ports.Logger
}

// Run presents the command until the actor approves or declines. A nil or
// non-interactive prompter declines immediately: ambiguity never executes.
func (l *ConfirmLoop) Run(command string, c domain.Classification, policy domain.SafetyPolicy) (ConfirmOutcome, error) {
	if l.Classifier == nil || l.Policy == nil {
		return ConfirmOutcome{}, errors.New("services.ConfirmLoop dependencies not satisfied")
	}
	declined := func(action domain.UserAction, decision domain.Decision) ConfirmOutcome {
		return ConfirmOutcome{
			Command:        command,
			Classification: c,
			Decision:       decision,
			LastAction:     action,
		}
	}

	if l.Prompter == nil || !l.Prompter.Enabled() {
		return declined(domain.ActionDecline, domain.Confirm()), nil
	}

	for {
		action, replacement, err := l.Prompter.Prompt(command, c)
		if err != nil {
			// A broken prompt channel fails closed.
			return declined(domain.ActionDecline, domain.Confirm()), nil
		}

		switch action {
		case domain.ActionApprove:
			return ConfirmOutcome{
				Approved:       true,
				Command:        command,
				Classification: c,
				Decision:       domain.Allow(),
				LastAction:     domain.ActionApprove,
			}, nil

		case domain.ActionModify:
			if replacement == "" || replacement == command {
				continue
			}
			newClass, err := l.Classifier.Classify(replacement)
			if err != nil {
				return declined(domain.ActionModify, domain.Block(domain.BlockClassificationErr)), nil
			}
			decision := l.Policy.Decide(newClass, policy)
			command, c = replacement, newClass
			switch decision.Kind {
			case domain.DecisionBlock:
				// A modification that classifies worse ends the loop; it
				// never reaches Approved.
				return declined(domain.ActionModify, decision), nil
			case domain.DecisionAllow:
				return ConfirmOutcome{
					Approved:       true,
					Command:        command,
					Classification: c,
					Decision:       decision,
					LastAction:     domain.ActionModify,
				}, nil
			default:
				l.Prompter.Show(fmt.Sprintf("Reclassified as %s; confirmation still required.", c.Tier))
			}

		case domain.ActionExplain:
			if l.Explainer != nil {
				l.Prompter.Show(l.Explainer.Explain(command, c))
			}

		case domain.ActionHelp:
			l.Prompter.Show(confirmHelp)

		default:
			return declined(domain.ActionDecline, domain.Confirm()), nil
		}
	}
}

// ScriptedPrompter replays a fixed transition sequence, for batch drivers and
// tests. When the script runs out it declines.
type ScriptedPrompter struct {
	Steps    []ScriptedStep
	Messages []string
	next     int
}

// ScriptedStep is one scripted transition; Replacement is only used by modify.
type ScriptedStep struct {
	Action      domain.UserAction
	Replacement string
}

// Prompt implements ports.ConfirmationPrompter.
func (s *ScriptedPrompter) Prompt(string, domain.Classification) (domain.UserAction, string, error) {
	if s.next >= len(s.Steps) {
		return domain.ActionDecline, "", nil
	}
	step := s.Steps[s.next]
	s.next++
	return step.Action, step.Replacement, nil
}

// Show records messages so drivers can surface them.
func (s *ScriptedPrompter) Show(message string) {
	s.Messages = append(s.Messages, message)
}

// Enabled reports the prompter as usable.
func (s *ScriptedPrompter) Enabled() bool { return true }

var _ ports.ConfirmationPrompter = (*ScriptedPrompter)(nil)
