package harvest

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"briefpipe/browse"
	"briefpipe/discover"
	"briefpipe/download"
	"briefpipe/fields"
	"briefpipe/idgen"
	"briefpipe/progress"
)

// dsidRe finds the 7-digit business identifier inside a project's display
// name.
var dsidRe = regexp.MustCompile(`\b\d{7}\b`)

var dirID = idgen.Short(6)

// processProject runs the full pipeline for one project URL: navigate,
// locate the content frame, enter the documents folder, discover, select,
// download, extract, structure. Stages run in strict sequence within a
// project.
func (h *Harvester) processProject(ctx context.Context, number int, url string) Outcome {
	log := h.opts.Logger.With("project", number)
	h.emit(ctx, progress.Event{Kind: progress.KindProjectStart, Project: number, URL: url})

	p, err := h.browser.OpenProject(ctx, url)
	if err != nil {
		return h.fail(ctx, number, url, err)
	}
	defer p.Close()

	if err := h.canceled(ctx, number); err != nil {
		return h.fail(ctx, number, url, err)
	}

	name := p.Title()
	dsid := dsidRe.FindString(name)
	h.emit(ctx, progress.Event{
		Kind:          progress.KindProjectMeta,
		Project:       number,
		URL:           url,
		ProvisionalID: fmt.Sprintf("projeto-%d", number),
		FinalID:       dsid,
		Message:       name,
	})

	h.stage(ctx, number, "conteudo")
	frame, err := p.ContentFrame(ctx)
	if err != nil {
		return h.fail(ctx, number, url, err)
	}
	browse.CloseOverlay(ctx, frame, log)

	if err := h.canceled(ctx, number); err != nil {
		return h.fail(ctx, number, url, err)
	}

	h.stage(ctx, number, "pasta")
	if err := browse.NavigateToFolder(ctx, frame, h.opts.FolderLabel, h.opts.NavTimeout, log); err != nil {
		return h.fail(ctx, number, url, err)
	}

	h.stage(ctx, number, "descoberta")
	cands := h.engine.Scan(frame, name)
	if len(cands) == 0 {
		// Zero discoverable files is a valid, successful outcome.
		log.Info("harvest: no documents discovered")
		return h.succeed(ctx, number, url, name, dsid, nil)
	}
	cands = h.pickCandidates(cands, name, log)
	if len(cands) == 0 {
		log.Info("harvest: selection inconclusive, skipping project")
		return h.succeed(ctx, number, url, name, dsid, nil)
	}

	dir := filepath.Join(h.opts.WorkDir,
		fmt.Sprintf("briefpipe-%s-%s", time.Now().UTC().Format("20060102T150405"), dirID()))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return h.fail(ctx, number, url, fmt.Errorf("harvest: create download dir: %w", err))
	}
	if !h.opts.KeepFiles {
		defer os.RemoveAll(dir)
	}
	if err := p.AllowDownloads(dir); err != nil {
		return h.fail(ctx, number, url, err)
	}

	h.stage(ctx, number, "download")
	dl := download.New(download.Config{Dir: dir, Logger: log})
	files := dl.Fetch(ctx, frame, cands)

	h.stage(ctx, number, "extracao")
	var results []ExtractionResult
	for _, f := range files {
		res, err := h.extractor.Extract(f.FilePath)
		if err != nil {
			log.Warn("harvest: extraction failed", "file", f.FileName, "error", err)
			continue
		}
		results = append(results, ExtractionResult{
			FileName:  f.FileName,
			SizeBytes: f.SizeBytes,
			Content:   *res,
			Fields:    fields.Extract(res.Text, res.Comments),
		})
	}
	return h.succeed(ctx, number, url, name, dsid, results)
}

// pickCandidates applies the single-briefing policy.
func (h *Harvester) pickCandidates(cands []discover.Candidate, name string, log *slog.Logger) []discover.Candidate {
	if !h.opts.SingleBriefing || len(cands) < 2 {
		return cands
	}
	if sc := discover.SelectPrimary(cands, name); sc != nil {
		log.Info("harvest: primary briefing selected", "file", sc.FileName, "score", sc.Score, "reason", sc.Reason)
		return []discover.Candidate{sc.Candidate}
	}
	if h.opts.FallbackFirst {
		log.Info("harvest: scoring inconclusive, falling back to first candidate", "file", cands[0].FileName)
		return cands[:1]
	}
	return nil
}

func (h *Harvester) stage(ctx context.Context, number int, stage string) {
	h.emit(ctx, progress.Event{Kind: progress.KindStage, Project: number, Stage: stage})
}

func (h *Harvester) fail(ctx context.Context, number int, url string, err error) Outcome {
	out := failure(number, url, err)
	h.opts.Logger.Warn("harvest: project failed", "project", number, "error", err)
	h.emit(ctx, progress.Event{Kind: progress.KindProjectFail, Project: number, URL: url, Error: out.Error})
	return out
}

func (h *Harvester) succeed(ctx context.Context, number int, url, name, dsid string, results []ExtractionResult) Outcome {
	chars := 0
	for _, r := range results {
		chars += len(r.Content.Text)
	}
	h.emit(ctx, progress.Event{
		Kind:    progress.KindProjectSuccess,
		Project: number,
		URL:     url,
		Files:   len(results),
		Chars:   chars,
	})
	return Outcome{
		URL:           url,
		ProjectNumber: number,
		Success:       true,
		ProjectName:   name,
		DSID:          dsid,
		Results:       results,
	}
}
