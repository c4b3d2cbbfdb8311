// Package config loads the safety policy from disk. Policy files are YAML
// with documented defaults written on first use.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/doeshing/cmdguard/assets"
	"github.com/doeshing/cmdguard/internal/domain"
	"github.com/doeshing/cmdguard/internal/pkg/filesystem"
)

// PolicyLoader loads the safety policy from ~/.cmdguard/policy.yaml
// (overridable via CMDGUARD_POLICY).
type PolicyLoader struct {
	overridePath string
	validate     *validator.Validate
}

// NewPolicyLoader builds a new loader.
func NewPolicyLoader(path string) *PolicyLoader {
	return &PolicyLoader{
		overridePath: path,
		validate:     validator.New(),
	}
}

// Load reads the policy file, writing the embedded defaults when it does not
// exist yet. A malformed or invalid file is an error so the caller never runs
// under a policy it did not ask for.
func (l *PolicyLoader) Load() (domain.SafetyPolicy, error) {
	path := l.resolvePath()
	if err := os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions); err != nil {
		return domain.SafetyPolicy{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if err := os.WriteFile(path, assets.DefaultPolicyYAML, domain.PolicyFilePermissions); err != nil {
				return domain.SafetyPolicy{}, err
			}
			return domain.DefaultSafetyPolicy(), nil
		}
		return domain.SafetyPolicy{}, err
	}

	policy := domain.DefaultSafetyPolicy()
	if err := yaml.Unmarshal(data, &policy); err != nil {
		return domain.SafetyPolicy{}, fmt.Errorf("parse policy: %w", err)
	}
	if err := l.validate.Struct(policy); err != nil {
		return domain.SafetyPolicy{}, fmt.Errorf("invalid policy: %w", err)
	}
	return policy, nil
}

// Path returns the resolved policy file location.
func (l *PolicyLoader) Path() string {
	return l.resolvePath()
}

func (l *PolicyLoader) resolvePath() string {
	if l.overridePath != "" {
		return expandPath(l.overridePath)
	}
	if custom := os.Getenv("CMDGUARD_POLICY"); custom != "" {
		return expandPath(custom)
	}
	return filepath.Join(filesystem.UserHomeDir(), ".cmdguard", "policy.yaml")
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(filesystem.UserHomeDir(), path[2:])
	}
	return path
}
