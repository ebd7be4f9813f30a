package domain

// ChunkMeta describes one stored chunk. Metadata is index-aligned with the
// chunk sequence of a snapshot: metadata[i] describes chunks[i].
type ChunkMeta struct {
	Source     string `json:"source"`
	ChunkIndex int    `json:"chunk_index"`
	Process    string `json:"process"`
}

// ScoredChunk is a retrieval candidate that cleared the relevance floor.
type ScoredChunk struct {
	Text  string
	Meta  ChunkMeta
	Score float64
}

// Source is one attribution entry of an answer, aligned with the numbered
// snippet lines.
type Source struct {
	Source     string  `json:"source"`
	ChunkIndex int     `json:"chunk_index"`
	Score      float64 `json:"score"`
}

// Answer is the router's response. Failure states are represented in the
// value (Error is only set for the not-ready case); the router never returns
// a Go error to the presentation layer.
type Answer struct {
	Answer         string   `json:"answer"`
	Sources        []Source `json:"sources"`
	RewrittenQuery string   `json:"rewritten_query"`
	Error          string   `json:"error,omitempty"`
}

// BuildStats summarizes one successful knowledge rebuild. VectorShape is
// [rows, columns] of the chunk-term matrix.
type BuildStats struct {
	Process     string `json:"process"`
	Documents   int    `json:"documents"`
	Chunks      int    `json:"chunks"`
	VectorShape [2]int `json:"vector_shape"`
}

// Roles a user account can hold.
const (
	RoleAgent   = "agent"
	RoleTrainer = "trainer"
)

// User is an authenticated account. The password hash never leaves the
// auth store.
type User struct {
	Username string
	Role     string
}
