package browse

import "context"

// Node is one interactive element inside the content frame. The concrete
// implementation is rod-backed; tests use in-memory fakes.
type Node interface {
	// Attr returns an attribute value and whether it is present.
	Attr(name string) (string, bool)
	// Text returns the element's visible text content.
	Text() string
	// Visible reports whether the element is rendered and on screen.
	Visible() bool
	// Click clicks the element reliably, cascading through strategies.
	Click(ctx context.Context) error
}

// Frame is the minimal surface of the embedded document frame that the
// discovery and download stages need.
type Frame interface {
	// Query returns all elements matching a CSS selector. An empty result
	// is not an error.
	Query(selector string) ([]Node, error)
	// HTML returns a static snapshot of the frame's markup, used by the
	// last-resort discovery fallback.
	HTML() (string, error)
}
