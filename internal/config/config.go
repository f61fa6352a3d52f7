package config

import (
	"fmt"
	"os"
	"path/filepath"
)

type Config struct {
	Owner string
	Repo  string
}

func (c Config) RepoNWO() string {
	return fmt.Sprintf("%s/%s", c.Owner, c.Repo)
}

func (c Config) Validate() error {
	if c.Owner == "" || c.Repo == "" {
		return fmt.Errorf("owner and repo are required (use -R owner/repo)")
	}
	return nil
}

// StorePath returns the location of the local database, creating its
// parent directory.
func StorePath() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("resolve cache dir: %w", err)
	}
	dir := filepath.Join(base, "gh-browse")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create data dir: %w", err)
	}
	return filepath.Join(dir, "gh-browse.db"), nil
}
