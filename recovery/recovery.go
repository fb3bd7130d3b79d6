// Package recovery provides pluggable error-handling policy for the
// tokenizer and content-stream scanner: callers decide, per Location,
// whether a malformed byte sequence aborts the run or is skipped.
package recovery

import "context"

type Strategy interface {
	OnError(ctx context.Context, err error, location Location) Action
}

// Location pinpoints where in a content stream an error occurred.
type Location struct {
	ByteOffset int64
	Component  string // e.g. "scan", "contentstream", "xobject"
	Operation  int    // index into the operation stream, -1 if not yet known
}

type Action int

const (
	ActionFail Action = iota
	ActionSkip
	ActionFix
	ActionWarn
)
