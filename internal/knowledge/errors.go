package knowledge

import "errors"

// ErrNotReady signals that a process has no snapshot yet. This is the
// expected state for a freshly created process and is distinct from a
// corrupted snapshot, which surfaces as a plain deserialization error.
var ErrNotReady = errors.New("process knowledge is not built yet")

// ErrNoDocuments signals a rebuild invoked on a process with no raw
// documents.
var ErrNoDocuments = errors.New("no .txt documents found in raw_docs")

// ErrEmptyCorpus signals a rebuild whose documents all normalized to blank
// text, producing zero chunks.
var ErrEmptyCorpus = errors.New("document parsing produced zero chunks")
