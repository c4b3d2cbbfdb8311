// Package security implements the signature catalog, the risk classifier, and
// the policy engine. Everything here is read-only with respect to the host
// system; the only component that mutates anything is the executor.
package security

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/cmdguard/assets"
	"github.com/doeshing/cmdguard/internal/domain"
	"github.com/doeshing/cmdguard/internal/pkg/filesystem"
)

// Signature is one dangerous-command matcher. New signatures are additive
// data; the classifier evaluates all of them uniformly.
type Signature struct {
	ID                string `yaml:"id"`
	Pattern           string `yaml:"pattern"`
	Tier              string `yaml:"tier"`
	Label             string `yaml:"label"`
	AlwaysBlock       bool   `yaml:"always_block,omitempty"`
	RequiresPrivilege bool   `yaml:"requires_privilege,omitempty"`
}

// CatalogDocument is the YAML schema root for a catalog file.
type CatalogDocument struct {
	Signatures         []Signature `yaml:"signatures"`
	PrivilegedCommands []string    `yaml:"privileged_commands"`
	FileCommands       []string    `yaml:"file_commands"`
	NetworkCommands    []string    `yaml:"network_commands"`
}

type compiledSignature struct {
	re  *regexp.Regexp
	sig Signature
}

// Catalog holds the compiled signature set plus the verb lists the structural
// heuristics use. It is immutable after construction and safe for concurrent
// use.
type Catalog struct {
	signatures []compiledSignature
	privileged map[string]bool
	fileVerbs  map[string]bool
	netVerbs   map[string]bool
}

// NewCatalog compiles a catalog document. A signature that cannot be compiled
// is a hard error so the caller fails closed instead of silently evaluating a
// partial catalog.
func NewCatalog(doc CatalogDocument) (*Catalog, error) {
	if len(doc.Signatures) == 0 {
		return nil, errors.New("catalog has no signatures")
	}
	compiled := make([]compiledSignature, 0, len(doc.Signatures))
	for _, sig := range doc.Signatures {
		if sig.ID == "" {
			return nil, errors.New("catalog signature missing id")
		}
		re, err := regexp.Compile(sig.Pattern)
		if err != nil {
			return nil, fmt.Errorf("compile signature %s: %w", sig.ID, err)
		}
		compiled = append(compiled, compiledSignature{re: re, sig: sig})
	}
	return &Catalog{
		signatures: compiled,
		privileged: toSet(doc.PrivilegedCommands),
		fileVerbs:  toSet(doc.FileCommands),
		netVerbs:   toSet(doc.NetworkCommands),
	}, nil
}

// DefaultCatalog compiles the embedded default catalog.
func DefaultCatalog() (*Catalog, error) {
	doc, err := parseCatalog(assets.DefaultCatalogYAML)
	if err != nil {
		return nil, err
	}
	return NewCatalog(doc)
}

// LoadCatalog reads a catalog file, falling back to the embedded defaults when
// the file does not exist. A present-but-malformed file is an error.
func LoadCatalog(path string) (*Catalog, error) {
	path = ResolveCatalogPath(path)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultCatalog()
		}
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	doc, err := parseCatalog(data)
	if err != nil {
		return nil, err
	}
	hydrateCatalogDefaults(&doc)
	return NewCatalog(doc)
}

// ResolveCatalogPath expands the catalog path to an absolute location,
// defaulting to ~/.cmdguard/catalog.yaml.
func ResolveCatalogPath(path string) string {
	if path == "" {
		if env := os.Getenv("CMDGUARD_CATALOG"); env != "" {
			path = env
		}
	}
	if path == "" {
		return filepath.Join(filesystem.UserHomeDir(), ".cmdguard", "catalog.yaml")
	}
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(filesystem.UserHomeDir(), path[2:])
	}
	return path
}

// WriteDefaultCatalog writes the embedded default catalog to the given path.
func WriteDefaultCatalog(path string) (string, error) {
	path = ResolveCatalogPath(path)
	if err := os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, assets.DefaultCatalogYAML, domain.HistoryFilePermissions); err != nil {
		return "", err
	}
	return path, nil
}

// Signatures returns the catalog signatures in declaration order.
func (c *Catalog) Signatures() []Signature {
	out := make([]Signature, 0, len(c.signatures))
	for _, cs := range c.signatures {
		out = append(out, cs.sig)
	}
	return out
}

func parseCatalog(data []byte) (CatalogDocument, error) {
	var doc CatalogDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return CatalogDocument{}, fmt.Errorf("parse catalog: %w", err)
	}
	return doc, nil
}

// hydrateCatalogDefaults fills verb lists a user file omitted so a custom
// signature set still gets the structural heuristics.
func hydrateCatalogDefaults(doc *CatalogDocument) {
	defaults, err := parseCatalog(assets.DefaultCatalogYAML)
	if err != nil {
		return
	}
	if len(doc.PrivilegedCommands) == 0 {
		doc.PrivilegedCommands = defaults.PrivilegedCommands
	}
	if len(doc.FileCommands) == 0 {
		doc.FileCommands = defaults.FileCommands
	}
	if len(doc.NetworkCommands) == 0 {
		doc.NetworkCommands = defaults.NetworkCommands
	}
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		if item != "" {
			set[item] = true
		}
	}
	return set
}
