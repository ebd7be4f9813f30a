// Package service orchestrates query answering: rewrite, cached snapshot
// load, retrieval and answer composition. The Router is the single object
// the presentation layer calls for queries.
package service

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"processgpt/internal/domain"
	"processgpt/internal/knowledge"
	"processgpt/internal/logger"
	"processgpt/internal/rewrite"
)

// RelevanceFloor is the minimum cosine similarity for a retrieved chunk to
// count as usable evidence.
const RelevanceFloor = 0.05

// DefaultTopK is the number of candidates retrieved when the caller does
// not specify one.
const DefaultTopK = 4

// snippetLimit caps the characters of chunk text quoted per answer line.
const snippetLimit = 300

// Fixed user-facing answers for the two no-evidence states.
const (
	notReadyAnswer = "Answer not available: this process knowledge base is not ready yet."
	refusalAnswer  = "Answer not available from approved process documents. " +
		"Please rephrase or contact a trainer to update SOP coverage."
)

// Router answers questions against per-process knowledge snapshots. It
// keeps a one-entry snapshot cache keyed by process id; the cached entry is
// revalidated against the on-disk version marker on every access, so a
// rebuild or a process switch always forces a fresh load.
//
// The cache is guarded by a mutex, but semantically the Router serves one
// logical session at a time.
type Router struct {
	knowledgeRoot string

	mu            sync.Mutex
	cachedID      string
	cachedStore   *knowledge.Store
	cachedVersion string
}

// NewRouter creates a Router over the given knowledge root directory.
func NewRouter(knowledgeRoot string) *Router {
	return &Router{knowledgeRoot: knowledgeRoot}
}

var _ domain.Router = (*Router)(nil)

// Answer rewrites the question, retrieves the top-k chunks of the process
// snapshot and composes a grounded, source-attributed answer. All failure
// states are represented in the returned value; Answer never panics and
// never surfaces an error to the caller.
func (r *Router) Answer(processID, question string, topK int) domain.Answer {
	if topK <= 0 {
		topK = DefaultTopK
	}
	rewritten := rewrite.Rewrite(question)
	logger.Debug("Rewritten query: %q", rewritten)

	store, err := r.store(processID)
	if err != nil {
		if errors.Is(err, knowledge.ErrNotReady) {
			return domain.Answer{
				Answer:         notReadyAnswer,
				Sources:        []domain.Source{},
				RewrittenQuery: rewritten,
				Error:          err.Error(),
			}
		}
		// Corruption or I/O problems are opaque to the asker; detail goes
		// to the verbose log.
		logger.Warn("snapshot load failed for %q: %v", processID, err)
		return domain.Answer{
			Answer:         "Answer not available: process knowledge could not be loaded.",
			Sources:        []domain.Source{},
			RewrittenQuery: rewritten,
			Error:          fmt.Sprintf("knowledge snapshot for %q could not be loaded", processID),
		}
	}

	retrieved := retrieveTopK(store, rewritten, topK)
	if len(retrieved) == 0 {
		return domain.Answer{
			Answer:         refusalAnswer,
			Sources:        []domain.Source{},
			RewrittenQuery: rewritten,
		}
	}
	return compose(retrieved, rewritten)
}

// store returns the snapshot for processID through the one-entry cache.
func (r *Router) store(processID string) (*knowledge.Store, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	processDir := filepath.Join(r.knowledgeRoot, processID)
	version := knowledge.Version(processDir)
	if r.cachedID == processID && r.cachedStore != nil && r.cachedVersion == version {
		logger.Debug("Snapshot cache hit for %q", processID)
		return r.cachedStore, nil
	}

	store, err := knowledge.Load(processDir)
	if err != nil {
		r.cachedID = ""
		r.cachedStore = nil
		r.cachedVersion = ""
		return nil, err
	}
	logger.Debug("Snapshot loaded for %q (%d chunks)", processID, len(store.Chunks))
	r.cachedID = processID
	r.cachedStore = store
	r.cachedVersion = version
	return store, nil
}

// retrieveTopK scores the rewritten query against every chunk vector and
// returns up to k chunks in descending score order. The relevance floor is
// applied after top-k selection, so fewer than k results (or none) is a
// legitimate outcome.
func retrieveTopK(store *knowledge.Store, query string, k int) []domain.ScoredChunk {
	if len(store.Chunks) == 0 {
		return nil
	}
	queryVec := store.Vectorizer.Transform(query)
	scores := store.Vectors.CosineSimilarities(queryVec)

	idxs := make([]int, len(scores))
	for i := range idxs {
		idxs[i] = i
	}
	sort.SliceStable(idxs, func(a, b int) bool { return scores[idxs[a]] > scores[idxs[b]] })

	if k > len(idxs) {
		k = len(idxs)
	}
	var out []domain.ScoredChunk
	for _, idx := range idxs[:k] {
		if scores[idx] <= RelevanceFloor {
			continue
		}
		out = append(out, domain.ScoredChunk{
			Text:  store.Chunks[idx],
			Meta:  store.Metadata[idx],
			Score: scores[idx],
		})
	}
	return out
}

// compose formats retrieved chunks into an extractive answer: a header plus
// one numbered snippet line per chunk, with an aligned source list.
func compose(retrieved []domain.ScoredChunk, rewritten string) domain.Answer {
	lines := []string{"Based on approved SOP content:"}
	sources := make([]domain.Source, 0, len(retrieved))
	for i, item := range retrieved {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, snippet(item.Text)))
		sources = append(sources, domain.Source{
			Source:     item.Meta.Source,
			ChunkIndex: item.Meta.ChunkIndex,
			Score:      round3(item.Score),
		})
	}
	return domain.Answer{
		Answer:         strings.Join(lines, "\n"),
		Sources:        sources,
		RewrittenQuery: rewritten,
	}
}

func snippet(text string) string {
	runes := []rune(text)
	if len(runes) > snippetLimit {
		runes = runes[:snippetLimit]
	}
	return strings.TrimSpace(string(runes))
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
