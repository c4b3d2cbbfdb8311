package assets

import (
	_ "embed"
)

// DefaultCatalogYAML contains the embedded default signature catalog.
//
//go:embed defaults/catalog.yaml
var DefaultCatalogYAML []byte

// DefaultPolicyYAML contains the embedded default safety policy.
//
//go:embed defaults/policy.yaml
var DefaultPolicyYAML []byte
