package harvest

import "errors"

// ErrCanceled marks a project stopped by the caller's cancellation
// predicate. It is recorded as that project's failure and never aborts
// sibling projects.
var ErrCanceled = errors.New("harvest: canceled by user")

// ErrStopped marks a project that was never started because an earlier
// failure stopped the batch (ContinueOnError=false).
var ErrStopped = errors.New("harvest: not started, batch stopped after failure")
