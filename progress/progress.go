// Package progress defines the event stream a harvest run emits and the
// sinks that deliver it (stdout, in-process callback, SSE, fan-out).
package progress

import (
	"context"
	"time"
)

// Kind tags one progress event.
type Kind string

const (
	KindStart          Kind = "start"
	KindProjectStart   Kind = "project-start"
	KindStage          Kind = "stage"
	KindProjectSuccess Kind = "project-success"
	KindProjectFail    Kind = "project-fail"
	KindProjectMeta    Kind = "project-meta"
	KindCompleted      Kind = "completed"
)

// Event is one progress notification. Project is the 1-based position of
// the project in the submitted batch; it is zero on batch-level events
// (start, completed).
type Event struct {
	Kind    Kind      `json:"kind"`
	Time    time.Time `json:"time"`
	Project int       `json:"project,omitempty"`
	URL     string    `json:"url,omitempty"`

	// Stage names the pipeline step on stage events.
	Stage   string `json:"stage,omitempty"`
	Message string `json:"message,omitempty"`

	// ProvisionalID and FinalID carry the project identifier resolution on
	// project-meta events.
	ProvisionalID string `json:"provisionalId,omitempty"`
	FinalID       string `json:"finalId,omitempty"`

	// Files and Chars summarize project-success and completed events.
	Files int `json:"files,omitempty"`
	Chars int `json:"chars,omitempty"`

	Error string `json:"error,omitempty"`
}

// Sink is the event delivery interface. Implementations must tolerate
// concurrent Send calls.
type Sink interface {
	Send(ctx context.Context, ev Event) error
	Close() error
}
