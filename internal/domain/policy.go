package domain

import "time"

// SafetyPolicy is the caller-owned configuration for one pipeline decision.
// It is passed by value and never mutated by the pipeline.
type SafetyPolicy struct {
	StrictMode              bool     `yaml:"strict_mode"`
	AllowSudo               bool     `yaml:"allow_sudo"`
	AllowedDirs             []string `yaml:"allowed_dirs"`
	BlockDangerousCommands  bool     `yaml:"block_dangerous_commands"`
	ExecutionTimeoutSeconds int      `yaml:"execution_timeout_seconds" validate:"gt=0"`
	AutoConfirm             bool     `yaml:"auto_confirm"`
	DryRunDefault           bool     `yaml:"dry_run_default"`
	WorkingDir              string   `yaml:"working_dir,omitempty"`
}

// DefaultSafetyPolicy returns the documented defaults: strict mode on, sudo
// off, no directory restriction, dangerous-signature blocking on, 30 second
// execution budget.
func DefaultSafetyPolicy() SafetyPolicy {
	return SafetyPolicy{
		StrictMode:              true,
		AllowSudo:               false,
		AllowedDirs:             nil,
		BlockDangerousCommands:  true,
		ExecutionTimeoutSeconds: DefaultExecutionTimeoutSeconds,
		AutoConfirm:             false,
		DryRunDefault:           false,
	}
}

// Timeout returns the execution budget as a duration.
func (p SafetyPolicy) Timeout() time.Duration {
	if p.ExecutionTimeoutSeconds <= 0 {
		return DefaultExecutionTimeoutSeconds * time.Second
	}
	return time.Duration(p.ExecutionTimeoutSeconds) * time.Second
}
