// Package download materializes selected document candidates into a local
// directory, preferring a single bulk download and falling back to
// per-file triggers.
package download

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"briefpipe/browse"
	"briefpipe/discover"
)

// Downloaded is one candidate that made it to disk.
type Downloaded struct {
	FileName  string
	FilePath  string
	SizeBytes int64
}

// bulkSelectors locates the "download selected" affordance, in order of
// preference.
var bulkSelectors = []string{
	`[data-testid="download-selected"]`,
	`button[aria-label*="download" i]`,
	`a[aria-label*="download" i]`,
	`[role="toolbar"] button[title*="download" i]`,
}

type Config struct {
	// Dir is where the browser drops downloads; see browse.Project.AllowDownloads.
	Dir string
	// Wait bounds the collection of download events for one trigger.
	Wait time.Duration
	// Settle is the grace period after the last expected file lands, to let
	// in-flight renames finish.
	Settle time.Duration
	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.Wait <= 0 {
		c.Wait = 90 * time.Second
	}
	if c.Settle <= 0 {
		c.Settle = 500 * time.Millisecond
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Orchestrator drives the download stage for one project.
type Orchestrator struct {
	cfg Config

	// collect waits for downloads to land in cfg.Dir, ignoring files in
	// baseline. Split out so tests can run the click choreography without
	// a real browser writing files.
	collect func(ctx context.Context, dir string, baseline map[string]bool, expected int, wait, settle time.Duration) []string
}

func New(cfg Config) *Orchestrator {
	cfg.defaults()
	return &Orchestrator{cfg: cfg, collect: collectFiles}
}

// Fetch clicks each candidate, triggers the download mechanism and returns
// whatever actually landed on disk. Partial failure yields a partial list;
// no download mechanism at all yields an empty list, not an error.
func (o *Orchestrator) Fetch(ctx context.Context, frame browse.Frame, cands []discover.Candidate) []Downloaded {
	if len(cands) == 0 {
		return nil
	}
	selected := o.selectCandidates(ctx, cands)
	if selected == 0 {
		o.cfg.Logger.Warn("download: no candidate could be selected")
		return nil
	}

	var names []string
	if bulk := o.findBulk(frame); bulk != nil {
		baseline := snapshotDir(o.cfg.Dir)
		if err := bulk.Click(ctx); err != nil {
			o.cfg.Logger.Warn("download: bulk trigger failed, falling back per file", "error", err)
			names = o.fetchEach(ctx, cands)
		} else {
			names = o.collect(ctx, o.cfg.Dir, baseline, selected, o.cfg.Wait, o.cfg.Settle)
		}
	} else {
		o.cfg.Logger.Debug("download: no bulk affordance, downloading per file")
		names = o.fetchEach(ctx, cands)
	}
	return o.materialized(names)
}

// selectCandidates clicks each candidate's element to mark it, skipping
// candidates without a live node. Returns how many were selected.
func (o *Orchestrator) selectCandidates(ctx context.Context, cands []discover.Candidate) int {
	n := 0
	for _, c := range cands {
		if c.Node == nil {
			o.cfg.Logger.Debug("download: candidate has no live element, skipping", "file", c.FileName)
			continue
		}
		if err := c.Node.Click(ctx); err != nil {
			o.cfg.Logger.Warn("download: could not select candidate", "file", c.FileName, "error", err)
			continue
		}
		n++
	}
	return n
}

func (o *Orchestrator) findBulk(frame browse.Frame) browse.Node {
	for _, sel := range bulkSelectors {
		nodes, err := frame.Query(sel)
		if err != nil {
			continue
		}
		for _, n := range nodes {
			if n.Visible() {
				return n
			}
		}
	}
	return nil
}

// fetchEach is the sequential fallback: one trigger-and-wait cycle per
// candidate with a live node. The directory is snapshotted before each
// trigger so a cycle only waits for, and reports, its own download.
func (o *Orchestrator) fetchEach(ctx context.Context, cands []discover.Candidate) []string {
	var names []string
	for _, c := range cands {
		if c.Node == nil {
			continue
		}
		baseline := snapshotDir(o.cfg.Dir)
		if err := c.Node.Click(ctx); err != nil {
			o.cfg.Logger.Warn("download: per-file trigger failed", "file", c.FileName, "error", err)
			continue
		}
		names = append(names, o.collect(ctx, o.cfg.Dir, baseline, 1, o.cfg.Wait, o.cfg.Settle)...)
	}
	return names
}

// materialized stats each landed name and builds the result list. Files
// that vanished between landing and stat are logged and dropped.
func (o *Orchestrator) materialized(names []string) []Downloaded {
	var out []Downloaded
	for _, name := range names {
		path := filepath.Join(o.cfg.Dir, name)
		info, err := os.Stat(path)
		if err != nil {
			o.cfg.Logger.Warn("download: file disappeared before stat", "file", name, "error", err)
			continue
		}
		out = append(out, Downloaded{FileName: name, FilePath: path, SizeBytes: info.Size()})
	}
	return out
}
