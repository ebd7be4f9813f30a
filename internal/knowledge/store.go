// Package knowledge owns the per-process snapshot: building it from raw
// documents and loading it back for retrieval. A snapshot is four artifact
// files in the process directory (chunks, metadata, vectorizer, vectors)
// plus a manifest recording the build; all are written together or not at
// all.
package knowledge

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"processgpt/internal/domain"
	"processgpt/internal/embedding/tfidf"
	"processgpt/internal/sparse"
)

// Artifact file names inside a process directory.
const (
	chunksFile     = "chunks.json"
	metadataFile   = "metadata.json"
	vectorizerFile = "vectorizer.json"
	vectorsFile    = "vectors.json"
	manifestFile   = "manifest.json"
)

// RawDocsDirName is the subdirectory holding a process's raw documents.
const RawDocsDirName = "raw_docs"

// Store is a loaded snapshot: the ordered chunk sequence, the aligned
// metadata, the fitted vector model and the chunk-term matrix.
type Store struct {
	ProcessID  string
	Chunks     []string
	Metadata   []domain.ChunkMeta
	Vectorizer *tfidf.Vectorizer
	Vectors    *sparse.Matrix
}

// Manifest is the human-inspectable build record written alongside the
// snapshot artifacts. It is not required for loading.
type Manifest struct {
	BuildID     string    `json:"build_id"`
	BuiltAt     time.Time `json:"built_at"`
	Process     string    `json:"process"`
	Documents   int       `json:"documents"`
	Chunks      int       `json:"chunks"`
	VectorShape [2]int    `json:"vector_shape"`
}

func artifactPaths(processDir string) []string {
	return []string{
		filepath.Join(processDir, chunksFile),
		filepath.Join(processDir, metadataFile),
		filepath.Join(processDir, vectorizerFile),
		filepath.Join(processDir, vectorsFile),
	}
}

// Load reads a process snapshot from disk. If any of the four artifacts is
// missing it fails with ErrNotReady naming the process; any other failure
// is a deserialization or I/O error.
func Load(processDir string) (*Store, error) {
	processID := filepath.Base(processDir)
	for _, p := range artifactPaths(processDir) {
		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("process knowledge for %q: %w", processID, ErrNotReady)
		}
	}

	s := &Store{ProcessID: processID, Vectorizer: tfidf.New()}
	if err := readJSON(filepath.Join(processDir, chunksFile), &s.Chunks); err != nil {
		return nil, err
	}
	if err := readJSON(filepath.Join(processDir, metadataFile), &s.Metadata); err != nil {
		return nil, err
	}
	if err := readJSON(filepath.Join(processDir, vectorizerFile), s.Vectorizer); err != nil {
		return nil, err
	}
	var m sparse.Matrix
	if err := readJSON(filepath.Join(processDir, vectorsFile), &m); err != nil {
		return nil, err
	}
	s.Vectors = &m
	return s, nil
}

// LoadManifest reads the build record of a snapshot, if present.
func LoadManifest(processDir string) (*Manifest, error) {
	var m Manifest
	if err := readJSON(filepath.Join(processDir, manifestFile), &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// Version returns an opaque marker that changes whenever the snapshot files
// change on disk. Callers caching a loaded Store revalidate this marker and
// reload when it differs.
func Version(processDir string) string {
	var b strings.Builder
	for _, p := range artifactPaths(processDir) {
		info, err := os.Stat(p)
		if err != nil {
			b.WriteString("missing;")
			continue
		}
		fmt.Fprintf(&b, "%d:%d;", info.ModTime().UnixNano(), info.Size())
	}
	return b.String()
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading snapshot artifact: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding %s: %w", filepath.Base(path), err)
	}
	return nil
}
