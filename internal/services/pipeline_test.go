package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/doeshing/cmdguard/internal/domain"
)

type stubClassifier struct {
	tiers map[string]domain.RiskTier
	err   error
}

func (s *stubClassifier) Classify(text string) (domain.Classification, error) {
	if s.err != nil {
		return domain.Classification{}, s.err
	}
	tier, ok := s.tiers[text]
	if !ok {
		tier = domain.TierLow
	}
	return domain.Classification{Tier: tier}, nil
}

type stubPolicy struct{}

func (stubPolicy) Decide(c domain.Classification, _ domain.SafetyPolicy) domain.Decision {
	switch c.Tier {
	case domain.TierCritical:
		return domain.Block(domain.BlockCriticalRisk)
	case domain.TierLow:
		return domain.Allow()
	default:
		return domain.Confirm()
	}
}

type stubExecutor struct {
	calls  []string
	result domain.ExecutionResult
}

func (s *stubExecutor) Execute(_ context.Context, command, _ string, _ time.Duration) domain.ExecutionResult {
	s.calls = append(s.calls, command)
	return s.result
}

type stubHistory struct {
	entries []domain.HistoryEntry
	err     error
}

func (s *stubHistory) Record(entry domain.HistoryEntry) error {
	s.entries = append(s.entries, entry)
	return s.err
}

type stubExplainer struct{}

func (stubExplainer) Explain(command string, _ domain.Classification) string {
	return "explanation for " + command
}

type nopLogger struct{}

func (nopLogger) Debug(string, map[string]interface{}) {}
func (nopLogger) Info(string, map[string]interface{})  {}
func (nopLogger) Warn(string, map[string]interface{})  {}
func (nopLogger) Error(string, error, map[string]interface{}) {}

type disabledPrompter struct{}

func (disabledPrompter) Prompt(string, domain.Classification) (domain.UserAction, string, error) {
	return domain.ActionDecline, "", nil
}
func (disabledPrompter) Show(string)   {}
func (disabledPrompter) Enabled() bool { return false }

func newTestPipeline(tiers map[string]domain.RiskTier) (*Pipeline, *stubExecutor, *stubHistory) {
	executor := &stubExecutor{result: domain.ExecutionResult{ExitCode: 0, Stdout: "ok\n"}}
	history := &stubHistory{}
	p := &Pipeline{
		Classifier: &stubClassifier{tiers: tiers},
		Policy:     stubPolicy{},
		Executor:   executor,
		Explainer:  stubExplainer{},
		History:    history,
		Logger:     nopLogger{},
	}
	return p, executor, history
}

func runRequest(command string) RunRequest {
	return RunRequest{
		Command: domain.CandidateCommand{Text: command},
		Policy:  domain.DefaultSafetyPolicy(),
	}
}

func TestPipelineAllowExecutes(t *testing.T) {
	p, executor, history := newTestPipeline(nil)

	result, err := p.Run(runRequest("ls -la"))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Decision.Kind != domain.DecisionAllow {
		t.Fatalf("decision = %s, want allow", result.Decision.Kind)
	}
	if len(executor.calls) != 1 || executor.calls[0] != "ls -la" {
		t.Fatalf("executor calls = %v", executor.calls)
	}
	if result.Execution == nil || result.Execution.ExitCode != 0 {
		t.Fatalf("execution = %+v", result.Execution)
	}
	if len(history.entries) != 1 {
		t.Fatalf("history entries = %d, want 1", len(history.entries))
	}
	if history.entries[0].Execution == nil {
		t.Fatal("allowed run must record its execution")
	}
}

func TestPipelineBlockNeverExecutes(t *testing.T) {
	p, executor, history := newTestPipeline(map[string]domain.RiskTier{
		"rm -rf /": domain.TierCritical,
	})

	result, err := p.Run(runRequest("rm -rf /"))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !result.Decision.Blocked() {
		t.Fatalf("decision = %+v, want block", result.Decision)
	}
	if result.Decision.Reason != domain.BlockCriticalRisk {
		t.Fatalf("reason = %s", result.Decision.Reason)
	}
	if len(executor.calls) != 0 {
		t.Fatalf("executor must not run, got calls %v", executor.calls)
	}
	if len(history.entries) != 1 {
		t.Fatalf("history entries = %d, want 1", len(history.entries))
	}
	if history.entries[0].Execution != nil {
		t.Fatal("blocked entry must not carry an execution")
	}
}

func TestPipelineConfirmDeclined(t *testing.T) {
	p, executor, history := newTestPipeline(map[string]domain.RiskTier{
		"cp *.log backup/": domain.TierMedium,
	})
	p.Prompter = &ScriptedPrompter{Steps: []ScriptedStep{{Action: domain.ActionDecline}}}

	result, err := p.Run(runRequest("cp *.log backup/"))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.UserAction != domain.ActionDecline {
		t.Fatalf("user action = %s", result.UserAction)
	}
	if len(executor.calls) != 0 {
		t.Fatal("declined command must not execute")
	}
	if len(history.entries) != 1 {
		t.Fatalf("history entries = %d, want 1", len(history.entries))
	}
}

func TestPipelineConfirmApprovedExecutes(t *testing.T) {
	p, executor, history := newTestPipeline(map[string]domain.RiskTier{
		"cp a b": domain.TierMedium,
	})
	p.Prompter = &ScriptedPrompter{Steps: []ScriptedStep{{Action: domain.ActionApprove}}}

	result, err := p.Run(runRequest("cp a b"))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.UserAction != domain.ActionApprove {
		t.Fatalf("user action = %s", result.UserAction)
	}
	if len(executor.calls) != 1 {
		t.Fatalf("executor calls = %v", executor.calls)
	}
	if len(history.entries) != 1 {
		t.Fatalf("history entries = %d, want 1", len(history.entries))
	}
}

func TestPipelineDryRun(t *testing.T) {
	p, executor, history := newTestPipeline(nil)

	req := runRequest("ls")
	req.DryRun = true
	result, err := p.Run(req)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(executor.calls) != 0 {
		t.Fatal("dry run must not reach the executor")
	}
	if result.Execution == nil || !result.Execution.DryRun {
		t.Fatalf("execution = %+v", result.Execution)
	}
	if result.Execution.Stdout != domain.DryRunMarker {
		t.Fatalf("stdout = %q", result.Execution.Stdout)
	}
	if len(history.entries) != 1 {
		t.Fatalf("history entries = %d, want 1", len(history.entries))
	}
}

func TestPipelineClassifyOnly(t *testing.T) {
	p, executor, history := newTestPipeline(nil)

	req := runRequest("ls")
	req.ClassifyOnly = true
	result, err := p.Run(req)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Execution != nil || len(executor.calls) != 0 {
		t.Fatal("classify-only must not execute")
	}
	if len(history.entries) != 1 {
		t.Fatalf("history entries = %d, want 1", len(history.entries))
	}
}

func TestPipelineClassifierErrorFailsClosed(t *testing.T) {
	p, executor, history := newTestPipeline(nil)
	p.Classifier = &stubClassifier{err: errors.New("catalog broken")}

	result, err := p.Run(runRequest("ls"))
	if err == nil {
		t.Fatal("expected classification error")
	}
	if !result.Decision.Blocked() || result.Decision.Reason != domain.BlockClassificationErr {
		t.Fatalf("decision = %+v", result.Decision)
	}
	if len(executor.calls) != 0 {
		t.Fatal("must not execute after a classification failure")
	}
	if len(history.entries) != 1 {
		t.Fatalf("history entries = %d, want 1", len(history.entries))
	}
}

func TestPipelineHistoryFailureIsWarningOnly(t *testing.T) {
	p, executor, history := newTestPipeline(nil)
	history.err = errors.New("disk full")

	result, err := p.Run(runRequest("ls"))
	if err != nil {
		t.Fatalf("Run() error = %v, history failure must not fail the run", err)
	}
	if result.HistoryWarning == nil {
		t.Fatal("expected a history warning")
	}
	if len(executor.calls) != 1 {
		t.Fatal("execution must still happen")
	}
}

func TestPipelineMissingDependencies(t *testing.T) {
	p := &Pipeline{}
	if _, err := p.Run(runRequest("ls")); err == nil {
		t.Fatal("expected dependency error")
	}
}
