package chunker

import (
	"regexp"
	"strings"
)

// DefaultChunkSize is the window size in characters.
const DefaultChunkSize = 700

// DefaultOverlap is the number of characters shared between consecutive
// windows of the same document.
const DefaultOverlap = 100

var whitespaceRe = regexp.MustCompile(`\s+`)

// FixedChunker splits normalized text into fixed-size overlapping windows.
type FixedChunker struct {
	size    int
	overlap int
}

// New creates a chunker with the given window size and overlap. Non-positive
// size or negative overlap fall back to the defaults; overlap is clamped
// below size so every window makes forward progress.
func New(size, overlap int) *FixedChunker {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = DefaultOverlap
	}
	if overlap >= size {
		overlap = size / 4
	}
	return &FixedChunker{size: size, overlap: overlap}
}

// Split collapses whitespace runs to single spaces, trims the ends, and cuts
// the result into windows of at most size characters. Consecutive windows
// share exactly overlap characters except the final one, which may be
// shorter. Blank input yields no chunks.
func (c *FixedChunker) Split(text string) []string {
	cleaned := []rune(strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " ")))
	if len(cleaned) == 0 {
		return nil
	}

	var chunks []string
	start := 0
	for start < len(cleaned) {
		end := start + c.size
		if end > len(cleaned) {
			end = len(cleaned)
		}
		chunks = append(chunks, string(cleaned[start:end]))
		if end == len(cleaned) {
			break
		}
		start = end - c.overlap
		if start < 0 {
			start = 0
		}
	}
	return chunks
}
