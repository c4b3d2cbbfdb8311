package domain

import "testing"

func TestRiskTierOrdering(t *testing.T) {
	ordered := []RiskTier{TierLow, TierMedium, TierHigh, TierCritical}
	for i := 1; i < len(ordered); i++ {
		if !ordered[i].AtLeast(ordered[i-1]) {
			t.Errorf("%s should be at least %s", ordered[i], ordered[i-1])
		}
		if ordered[i-1].AtLeast(ordered[i]) {
			t.Errorf("%s should rank below %s", ordered[i-1], ordered[i])
		}
	}
	if MaxTier(TierMedium, TierHigh) != TierHigh {
		t.Error("MaxTier(medium, high) != high")
	}
	if MaxTier(TierCritical, TierLow) != TierCritical {
		t.Error("MaxTier(critical, low) != critical")
	}
}

func TestParseRiskTier(t *testing.T) {
	tests := []struct {
		in   string
		want RiskTier
	}{
		{"low", TierLow},
		{"MEDIUM", TierMedium},
		{" high ", TierHigh},
		{"critical", TierCritical},
		{"bogus", TierLow},
		{"", TierLow},
	}
	for _, tt := range tests {
		if got := ParseRiskTier(tt.in); got != tt.want {
			t.Errorf("ParseRiskTier(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestExecutionResultSuccess(t *testing.T) {
	if !(ExecutionResult{ExitCode: 0}).Success() {
		t.Error("zero exit should be success")
	}
	if (ExecutionResult{ExitCode: 1}).Success() {
		t.Error("non-zero exit is not success")
	}
	if (ExecutionResult{ExitCode: 0, TimedOut: true}).Success() {
		t.Error("a timed-out run is never success")
	}
}

func TestHistoryEntryExecuted(t *testing.T) {
	if (HistoryEntry{}).Executed() {
		t.Error("entry without execution was not executed")
	}
	if (HistoryEntry{Execution: &ExecutionResult{DryRun: true}}).Executed() {
		t.Error("dry run did not actually execute")
	}
	if !(HistoryEntry{Execution: &ExecutionResult{ExitCode: 1}}).Executed() {
		t.Error("entry with a real execution counts as executed")
	}
}
