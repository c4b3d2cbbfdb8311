// Package services orchestrates the safety pipeline end-to-end: classify,
// decide, confirm, execute, record.
package services

import (
	"context"
	"errors"

	"github.com/doeshing/cmdguard/internal/domain"
	"github.com/doeshing/cmdguard/internal/ports"
)

// Pipeline runs one candidate command through classification, policy,
// confirmation, execution, and history. A single invocation is sequential;
// independent invocations may run concurrently because the pipeline holds no
// mutable state of its own.
type Pipeline struct {
	Classifier ports.Classifier
	Policy     ports.PolicyEngine
	Executor   ports.CommandExecutor
	Prompter   ports.ConfirmationPrompter
	Explainer  ports.Explainer
	History    ports.HistoryRecorder
	Logger     ports.Logger
}

// RunRequest carries one candidate command and the policy to judge it under.
type RunRequest struct {
	Context context.Context
	Command domain.CandidateCommand
	Policy  domain.SafetyPolicy

	// DryRun skips the executor and records a synthetic result.
	DryRun bool

	// ClassifyOnly stops after the decision; nothing is executed or prompted.
	ClassifyOnly bool
}

// RunResult is the pipeline outcome handed back to the frontend.
type RunResult struct {
	Command        string
	Classification domain.Classification
	Decision       domain.Decision
	UserAction     domain.UserAction
	Execution      *domain.ExecutionResult

	// HistoryWarning is set when the entry could not be persisted. Logging
	// failure never blocks the decision already made.
	HistoryWarning error
}

// Run processes a single candidate command. Exactly one history entry is
// recorded per call, whatever the outcome.
func (p *Pipeline) Run(req RunRequest) (RunResult, error) {
	if p.Classifier == nil || p.Policy == nil || p.Executor == nil || p.History == nil || p.Logger == nil {
		return RunResult{}, errors.New("services.Pipeline dependencies not satisfied")
	}
	ctx := req.Context
	if ctx == nil {
		ctx = context.Background()
	}

	text := req.Command.Text
	result := RunResult{Command: text}

	classification, err := p.Classifier.Classify(text)
	if err != nil {
		// A catalog that cannot be evaluated fails closed.
		result.Classification = domain.Classification{Tier: domain.TierCritical}
		result.Decision = domain.Block(domain.BlockClassificationErr)
		p.record(req, &result)
		return result, err
	}
	result.Classification = classification
	result.Decision = p.Policy.Decide(classification, req.Policy)

	p.Logger.Debug("command classified", map[string]interface{}{
		"tier":     classification.Tier,
		"decision": result.Decision.Kind,
		"reason":   result.Decision.Reason,
	})

	if req.ClassifyOnly {
		p.record(req, &result)
		return result, nil
	}

	switch result.Decision.Kind {
	case domain.DecisionBlock:
		p.record(req, &result)
		return result, nil

	case domain.DecisionConfirm:
		loop := &ConfirmLoop{
			Classifier: p.Classifier,
			Policy:     p.Policy,
			Prompter:   p.Prompter,
			Explainer:  p.Explainer,
			Logger:     p.Logger,
		}
		outcome, err := loop.Run(text, classification, req.Policy)
		if err != nil {
			p.record(req, &result)
			return result, err
		}
		result.Command = outcome.Command
		result.Classification = outcome.Classification
		result.Decision = outcome.Decision
		result.UserAction = outcome.LastAction
		if !outcome.Approved {
			p.record(req, &result)
			return result, nil
		}
	}

	execution := p.execute(ctx, result.Command, req)
	result.Execution = &execution
	p.record(req, &result)
	return result, nil
}

func (p *Pipeline) execute(ctx context.Context, command string, req RunRequest) domain.ExecutionResult {
	if req.DryRun || req.Policy.DryRunDefault {
		return domain.ExecutionResult{
			ExitCode: 0,
			Stdout:   domain.DryRunMarker,
			DryRun:   true,
		}
	}
	return p.Executor.Execute(ctx, command, req.Policy.WorkingDir, req.Policy.Timeout())
}

// record appends exactly one entry for this invocation. Failures degrade to a
// warning on the result; they never alter the execution that already happened.
func (p *Pipeline) record(req RunRequest, result *RunResult) {
	entry := domain.HistoryEntry{
		Command:     result.Command,
		Description: req.Command.Description,
		Tier:        result.Classification.Tier,
		Decision:    result.Decision.Kind,
		Reason:      result.Decision.Reason,
		Warnings:    result.Classification.Warnings,
		UserAction:  result.UserAction,
		Execution:   result.Execution,
	}
	if err := p.History.Record(entry); err != nil {
		result.HistoryWarning = err
		p.Logger.Warn("history record failed", map[string]interface{}{
			"error":   err.Error(),
			"command": result.Command,
		})
	}
}
