package knowledge

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"processgpt/internal/domain"
	"processgpt/internal/embedding/tfidf"
	"processgpt/internal/logger"
	"processgpt/internal/sparse"
)

// Builder rebuilds process snapshots.
type Builder struct {
	chunker domain.Chunker
}

// NewBuilder creates a Builder that splits documents with the given chunker.
func NewBuilder(c domain.Chunker) *Builder {
	return &Builder{chunker: c}
}

// Rebuild reads every .txt document under the process's raw_docs directory
// in filename order, chunks them, fits a fresh vector model over all chunks
// and replaces the process snapshot. The previous snapshot stays intact
// unless every artifact write succeeds.
func (b *Builder) Rebuild(processDir string) (domain.BuildStats, error) {
	processID := filepath.Base(processDir)
	logger.Section("Knowledge Rebuild")
	logger.Debug("Process: %s", processID)

	docs, err := listDocuments(filepath.Join(processDir, RawDocsDirName))
	if err != nil {
		return domain.BuildStats{}, err
	}
	if len(docs) == 0 {
		return domain.BuildStats{}, fmt.Errorf("process %q: %w", processID, ErrNoDocuments)
	}
	logger.Debug("Documents: %d", len(docs))

	var chunks []string
	var metadata []domain.ChunkMeta
	for _, path := range docs {
		text, err := readTextLossy(path)
		if err != nil {
			return domain.BuildStats{}, fmt.Errorf("reading %s: %w", filepath.Base(path), err)
		}
		for idx, chunk := range b.chunker.Split(text) {
			chunks = append(chunks, chunk)
			metadata = append(metadata, domain.ChunkMeta{
				Source:     filepath.Base(path),
				ChunkIndex: idx,
				Process:    processID,
			})
		}
	}
	if len(chunks) == 0 {
		return domain.BuildStats{}, fmt.Errorf("process %q: %w", processID, ErrEmptyCorpus)
	}
	logger.Debug("Chunks: %d", len(chunks))

	vectorizer := tfidf.New()
	vectors, err := vectorizer.FitTransform(chunks)
	if err != nil {
		return domain.BuildStats{}, fmt.Errorf("fitting vector model: %w", err)
	}
	logger.Debug("Vocabulary: %d terms", vectorizer.NumFeatures())

	stats := domain.BuildStats{
		Process:     processID,
		Documents:   len(docs),
		Chunks:      len(chunks),
		VectorShape: [2]int{vectors.Rows, vectors.Cols},
	}

	manifest := Manifest{
		BuildID:     uuid.New().String(),
		BuiltAt:     time.Now().UTC(),
		Process:     processID,
		Documents:   stats.Documents,
		Chunks:      stats.Chunks,
		VectorShape: stats.VectorShape,
	}

	if err := writeSnapshot(processDir, chunks, metadata, vectorizer, vectors, manifest); err != nil {
		return domain.BuildStats{}, err
	}
	logger.Info("Snapshot committed: %s", manifest.BuildID)
	return stats, nil
}

// listDocuments returns the .txt files (case-insensitive extension) in dir,
// sorted by filename for deterministic chunk ordering.
func listDocuments(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading raw documents directory: %w", err)
	}
	var docs []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), ".txt") {
			docs = append(docs, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(docs)
	return docs, nil
}

// readTextLossy reads a file as UTF-8, dropping invalid byte sequences.
func readTextLossy(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.ToValidUTF8(string(data), ""), nil
}

type artifact struct {
	name  string
	value any
}

// writeSnapshot persists all artifacts atomically: every file is written to
// a temporary sibling first and only renamed into place after all writes
// succeed, manifest last. A failure leaves any prior snapshot untouched.
func writeSnapshot(processDir string, chunks []string, metadata []domain.ChunkMeta, vectorizer *tfidf.Vectorizer, vectors *sparse.Matrix, manifest Manifest) error {
	artifacts := []artifact{
		{chunksFile, chunks},
		{metadataFile, metadata},
		{vectorizerFile, vectorizer},
		{vectorsFile, vectors},
		{manifestFile, manifest},
	}

	var tmpPaths []string
	cleanup := func() {
		for _, p := range tmpPaths {
			os.Remove(p)
		}
	}

	for _, a := range artifacts {
		data, err := json.MarshalIndent(a.value, "", "  ")
		if err != nil {
			cleanup()
			return fmt.Errorf("encoding %s: %w", a.name, err)
		}
		tmp := filepath.Join(processDir, a.name+".tmp")
		if err := os.WriteFile(tmp, data, 0o644); err != nil {
			cleanup()
			return fmt.Errorf("writing %s: %w", a.name, err)
		}
		tmpPaths = append(tmpPaths, tmp)
	}

	for i, a := range artifacts {
		if err := os.Rename(tmpPaths[i], filepath.Join(processDir, a.name)); err != nil {
			cleanup()
			return fmt.Errorf("committing %s: %w", a.name, err)
		}
	}
	return nil
}
