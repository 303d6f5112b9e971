package config

import (
	"errors"
	"os"
	"path/filepath"
)

const FileName = "config.yml"

// EnsureUserConfig returns the path of the user's config file inside dataDir,
// writing the embedded defaults there first if the file does not exist yet.
func EnsureUserConfig(dataDir string) (string, error) {
	userPath := filepath.Join(dataDir, FileName)

	_, err := os.Stat(userPath)
	if err == nil {
		return userPath, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return "", err
	}

	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(userPath, defaultYAML, 0o644); err != nil {
		return "", err
	}
	return userPath, nil
}

// Resolve makes a storage or catalog path relative to the data dir.
func (c Config) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.App.DataDir, p)
}
