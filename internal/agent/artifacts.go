package agent

import (
	"fmt"
	"os"
	"path/filepath"
)

// Artifacts lists the files written during a run. Empty paths were not written.
type Artifacts struct {
	Actions    string
	Prompt     string
	Screenshot string
}

func writeArtifact(dir, name string, data []byte) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: create %s: %w", ErrArtifact, dir, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("%w: write %s: %w", ErrArtifact, path, err)
	}
	return path, nil
}
