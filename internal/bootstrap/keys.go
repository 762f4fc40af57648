package bootstrap

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
)

// DiscoverPublicKeys looks for SSH public keys under the invoking user's
// ~/.ssh. Missing directory or no matches yields an empty slice, not an
// error: discovery is best-effort and callers fall back to manual entry.
func DiscoverPublicKeys() ([]string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return nil, err
	}
	return publicKeysUnder(filepath.Join(home, ".ssh"))
}

func publicKeysUnder(dir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.pub"))
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(matches))
	for _, path := range matches {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		key := strings.TrimSpace(string(data))
		if key != "" {
			keys = append(keys, key)
		}
	}
	return keys, nil
}
