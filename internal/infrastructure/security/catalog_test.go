package security

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalogCompiles(t *testing.T) {
	catalog, err := DefaultCatalog()
	require.NoError(t, err)

	sigs := catalog.Signatures()
	assert.NotEmpty(t, sigs)
	for _, sig := range sigs {
		assert.NotEmpty(t, sig.ID)
		assert.NotEmpty(t, sig.Pattern)
		assert.NotEmpty(t, sig.Label)
	}
	assert.NotEmpty(t, catalog.fileVerbs)
	assert.NotEmpty(t, catalog.netVerbs)
	assert.NotEmpty(t, catalog.privileged)
}

func TestNewCatalogRejectsBadInput(t *testing.T) {
	_, err := NewCatalog(CatalogDocument{})
	assert.Error(t, err, "empty catalog must not compile")

	_, err = NewCatalog(CatalogDocument{Signatures: []Signature{
		{ID: "", Pattern: "x", Tier: "low", Label: "no-id"},
	}})
	assert.Error(t, err)

	_, err = NewCatalog(CatalogDocument{Signatures: []Signature{
		{ID: "broken", Pattern: "rm[", Tier: "high", Label: "bad-regex"},
	}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
}

func TestLoadCatalogMissingFileFallsBack(t *testing.T) {
	catalog, err := LoadCatalog(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	defaults, err := DefaultCatalog()
	require.NoError(t, err)
	assert.Equal(t, len(defaults.Signatures()), len(catalog.Signatures()))
}

func TestLoadCatalogMalformedFileIsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("signatures: [unclosed"), 0o644))

	_, err := LoadCatalog(path)
	assert.Error(t, err)
}

func TestLoadCatalogHydratesVerbLists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	custom := `signatures:
  - id: drop-table
    pattern: 'DROP\s+TABLE'
    tier: high
    label: sql-drop-table
`
	require.NoError(t, os.WriteFile(path, []byte(custom), 0o644))

	catalog, err := LoadCatalog(path)
	require.NoError(t, err)

	// The custom file only declares signatures; the verb lists used by the
	// structural heuristics come from the embedded defaults.
	require.Len(t, catalog.Signatures(), 1)
	assert.True(t, catalog.fileVerbs["rm"])
	assert.True(t, catalog.netVerbs["curl"])
	assert.True(t, catalog.privileged["sudo"])
}

func TestWriteDefaultCatalogRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "catalog.yaml")

	written, err := WriteDefaultCatalog(path)
	require.NoError(t, err)
	assert.Equal(t, path, written)

	catalog, err := LoadCatalog(path)
	require.NoError(t, err)

	defaults, err := DefaultCatalog()
	require.NoError(t, err)
	assert.Equal(t, len(defaults.Signatures()), len(catalog.Signatures()))
}
