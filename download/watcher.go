package download

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Chromium streams into a temp name and renames when done; these suffixes
// mark files still in flight.
var inflightSuffixes = []string{".crdownload", ".tmp", ".part"}

// collectFiles watches dir until expected completed files have landed or
// wait elapses, then returns the file names that arrived. Files recorded
// in baseline predate the trigger: they neither count toward expected nor
// appear in the result, so sequential trigger-and-wait cycles report each
// download exactly once. A final directory scan backstops any event the
// watcher missed.
func collectFiles(ctx context.Context, dir string, baseline map[string]bool, expected int, wait, settle time.Duration) []string {
	deadline := time.NewTimer(wait)
	defer deadline.Stop()

	seen := make(map[string]bool)
	watcher, err := fsnotify.NewWatcher()
	if err == nil {
		defer watcher.Close()
		if err := watcher.Add(dir); err != nil {
			watcher = nil
		}
	} else {
		watcher = nil
	}

	// A fast download can land between the trigger and the watch starting;
	// anything already on disk beyond the baseline still counts.
	for _, name := range scanDir(dir) {
		if !baseline[name] {
			seen[name] = true
		}
	}

	if watcher != nil {
	loop:
		for len(seen) < expected {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					break loop
				}
				if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
					continue
				}
				name := filepath.Base(ev.Name)
				if inflight(name) || name == "" || baseline[name] {
					continue
				}
				seen[name] = true
			case <-watcher.Errors:
				continue
			case <-deadline.C:
				break loop
			case <-ctx.Done():
				break loop
			}
		}
		if len(seen) >= expected && settle > 0 {
			// In-flight renames may still be landing.
			select {
			case <-time.After(settle):
			case <-ctx.Done():
			}
		}
	} else if len(seen) < expected {
		// No watcher: fall through to a plain bounded wait before scanning.
		select {
		case <-deadline.C:
		case <-ctx.Done():
		}
	}

	// The events only pace the wait; disk is the source of truth for what
	// actually landed. The baseline keeps earlier arrivals out of this
	// cycle's result.
	var names []string
	for _, name := range scanDir(dir) {
		if !baseline[name] {
			names = append(names, name)
		}
	}
	return names
}

// snapshotDir records which completed files are already present, taken
// before a trigger so that only new arrivals are attributed to it.
func snapshotDir(dir string) map[string]bool {
	m := make(map[string]bool)
	for _, name := range scanDir(dir) {
		m[name] = true
	}
	return m
}

// scanDir lists completed files currently in dir, in directory order.
func scanDir(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || inflight(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	return names
}

func inflight(name string) bool {
	for _, suf := range inflightSuffixes {
		if strings.HasSuffix(strings.ToLower(name), suf) {
			return true
		}
	}
	return false
}
