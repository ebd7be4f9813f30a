package domain

// Chunker splits raw document text into retrieval-sized spans.
type Chunker interface {
	Split(text string) []string
}

// Router answers process questions. It is the only object the presentation
// layer calls for queries.
type Router interface {
	Answer(processID, question string, topK int) Answer
}

// Rebuilder rebuilds the knowledge snapshot of one process.
type Rebuilder interface {
	Rebuild(processID string) (BuildStats, error)
}
