// Package process manages the per-process directory layout under the
// knowledge root: creating processes, listing them and saving uploaded raw
// documents.
package process

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"processgpt/internal/knowledge"
)

// ErrEmptyName signals a blank process name after normalization.
var ErrEmptyName = errors.New("process name cannot be empty")

// ErrNotTxt signals an upload with a disallowed extension.
var ErrNotTxt = errors.New("only .txt files are allowed")

// Normalize converts a display name into the canonical process key:
// trimmed, lowercased, spaces replaced with underscores.
func Normalize(name string) (string, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
	if key == "" {
		return "", ErrEmptyName
	}
	return key, nil
}

// Create makes the process directory and its raw_docs subdirectory,
// returning the normalized process id. Creating an existing process is not
// an error.
func Create(root, name string) (string, error) {
	id, err := Normalize(name)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Join(root, id, knowledge.RawDocsDirName), 0o755); err != nil {
		return "", fmt.Errorf("creating process directory: %w", err)
	}
	return id, nil
}

// List returns the process ids under root, sorted. A missing root is an
// empty list, not an error.
func List(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading knowledge root: %w", err)
	}
	var ids []string
	for _, e := range entries {
		if e.IsDir() {
			ids = append(ids, e.Name())
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// Dir returns the directory of a process under root.
func Dir(root, id string) string {
	return filepath.Join(root, id)
}

// SaveDocument writes an uploaded raw document under the process's
// raw_docs directory. The filename is reduced to its base name and must
// carry a .txt extension (case-insensitive). An existing document with the
// same name is overwritten.
func SaveDocument(processDir, filename string, data []byte) (string, error) {
	name := filepath.Base(strings.TrimSpace(filename))
	if name == "." || name == string(filepath.Separator) || name == "" {
		return "", ErrNotTxt
	}
	if !strings.EqualFold(filepath.Ext(name), ".txt") {
		return "", ErrNotTxt
	}

	rawDir := filepath.Join(processDir, knowledge.RawDocsDirName)
	if err := os.MkdirAll(rawDir, 0o755); err != nil {
		return "", fmt.Errorf("creating raw documents directory: %w", err)
	}
	dest := filepath.Join(rawDir, name)
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return "", fmt.Errorf("saving document: %w", err)
	}
	return dest, nil
}
