package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"processgpt/internal/chunker"
	"processgpt/internal/domain"
	"processgpt/internal/knowledge"
	"processgpt/internal/process"
)

// processAdapter exposes process management against the configured
// knowledge root.
type processAdapter struct {
	root string
}

func (p processAdapter) List() ([]string, error) { return process.List(p.root) }

func (p processAdapter) Create(name string) (string, error) {
	return process.Create(p.root, name)
}

// Upload reads a local file and stores it as a raw document of the process.
func (p processAdapter) Upload(processID, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	dest, err := process.SaveDocument(process.Dir(p.root, processID), filepath.Base(path), data)
	if err != nil {
		return "", err
	}
	return filepath.Base(dest), nil
}

// rebuildAdapter maps process ids onto directories for the knowledge
// builder.
type rebuildAdapter struct {
	root    string
	builder *knowledge.Builder
}

func newRebuildAdapter(root string) rebuildAdapter {
	return rebuildAdapter{
		root:    root,
		builder: knowledge.NewBuilder(chunker.New(chunker.DefaultChunkSize, chunker.DefaultOverlap)),
	}
}

func (r rebuildAdapter) Rebuild(processID string) (domain.BuildStats, error) {
	return r.builder.Rebuild(process.Dir(r.root, processID))
}

var _ domain.Rebuilder = rebuildAdapter{}
