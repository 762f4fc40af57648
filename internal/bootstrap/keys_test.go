package bootstrap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicKeysUnder(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "id_ed25519.pub"), []byte("ssh-ed25519 AAAA ops@laptop\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "id_rsa.pub"), []byte("ssh-rsa BBBB ops@desk\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "id_ed25519"), []byte("PRIVATE"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "empty.pub"), []byte("  \n"), 0o644))

	keys, err := publicKeysUnder(dir)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"ssh-ed25519 AAAA ops@laptop", "ssh-rsa BBBB ops@desk"}, keys)
}

func TestPublicKeysUnder_MissingDir(t *testing.T) {
	keys, err := publicKeysUnder(filepath.Join(t.TempDir(), "absent"))
	require.NoError(t, err)
	assert.Empty(t, keys)
}
