// Package browse drives the third-party project UI through a real browser:
// session restore, content-frame location, folder navigation and clicks
// resilient to UI flakiness. The discovery and download stages only see the
// Frame/Node capability interfaces, so they can run against fakes in tests.
package browse

import "errors"

// ErrSessionInvalid means the stored session state is missing or malformed.
// Fatal for the project being processed — there is no anonymous fallback.
var ErrSessionInvalid = errors.New("browse: session state invalid or missing")

// ErrFolderNotFound means no locate strategy found a clickable folder within
// the timeout budget.
var ErrFolderNotFound = errors.New("browse: folder not found")

// ErrClickFailed means every click strategy failed on an element.
var ErrClickFailed = errors.New("browse: click failed after all strategies")

// ErrNoContentFrame means an iframe identified as the embedded application
// frame could not be entered.
var ErrNoContentFrame = errors.New("browse: content frame not found")
