// Package harvest is the concurrency controller: it fans project URLs out
// over a bounded worker budget, runs the per-project pipeline and folds
// the results into a batch summary.
package harvest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"briefpipe/browse"
	"briefpipe/discover"
	"briefpipe/idgen"
	"briefpipe/pdfx"
	"briefpipe/progress"
)

// Harvester runs one batch of projects.
type Harvester struct {
	opts      Options
	browser   *browse.Manager
	engine    *discover.Engine
	extractor *pdfx.Extractor

	// process and start are replaced in tests to exercise the controller
	// without a browser.
	process func(ctx context.Context, number int, url string) Outcome
	start   func(ctx context.Context) error
	stop    func()
}

func New(opts Options) *Harvester {
	opts.defaults()
	h := &Harvester{
		opts:      opts,
		engine:    discover.New(opts.Logger),
		extractor: pdfx.New(pdfx.Config{Logger: opts.Logger}),
	}
	h.process = h.processProject
	h.start = h.startBrowser
	h.stop = h.stopBrowser
	return h
}

func (h *Harvester) startBrowser(ctx context.Context) error {
	h.browser = browse.NewManager(browse.Config{
		Headless:    h.opts.Headless,
		SessionFile: h.opts.SessionFile,
		RemoteURL:   h.opts.RemoteURL,
		NavTimeout:  h.opts.NavTimeout,
		Logger:      h.opts.Logger,
	})
	return h.browser.Start(ctx)
}

func (h *Harvester) stopBrowser() {
	if h.browser != nil {
		h.browser.Close()
	}
}

// Run processes every URL and returns exactly one outcome per URL, indexed
// by submission order. Completion order across projects is unspecified; the
// worker budget refills as soon as any project finishes.
//
// The only run-level failure is an invalid session; everything after that
// is recorded per project.
func (h *Harvester) Run(ctx context.Context, urls []string) (*Summary, error) {
	runID := idgen.New()
	if len(urls) == 0 {
		return &Summary{RunID: runID, Outcomes: []Outcome{}}, nil
	}

	if err := h.start(ctx); err != nil {
		return nil, fmt.Errorf("harvest: %w", err)
	}
	defer h.stop()

	h.opts.Logger.Info("harvest: batch started", "run", runID, "projects", len(urls))
	h.emit(ctx, progress.Event{Kind: progress.KindStart, Message: fmt.Sprintf("%d projetos", len(urls))})

	summary := &Summary{RunID: runID, Outcomes: make([]Outcome, len(urls))}
	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		stopErr error // once set, no new project starts; names the cause
		skipped int
	)
	sem := make(chan struct{}, h.opts.Concurrency)

	for i, url := range urls {
		number := i + 1
		acquired := false
		select {
		case sem <- struct{}{}:
			acquired = true
		case <-ctx.Done():
		}
		mu.Lock()
		if ctx.Err() != nil && stopErr == nil {
			// Cancellation can race a freed worker slot; it still wins.
			stopErr = ErrCanceled
		}
		cause := stopErr
		mu.Unlock()
		if cause != nil {
			if acquired {
				<-sem
			}
			summary.Outcomes[i] = Outcome{
				URL:           url,
				ProjectNumber: number,
				Error:         cause.Error(),
			}
			skipped++
			h.emit(ctx, progress.Event{Kind: progress.KindProjectFail, Project: number, URL: url, Error: cause.Error()})
			continue
		}

		wg.Add(1)
		go func(number int, url string) {
			defer wg.Done()
			defer func() { <-sem }()

			out := h.process(ctx, number, url)

			mu.Lock()
			summary.Outcomes[number-1] = out
			if out.Success {
				summary.Succeeded++
			} else {
				summary.Failed++
				if !h.opts.ContinueOnError && stopErr == nil {
					stopErr = ErrStopped
				}
			}
			for _, r := range out.Results {
				summary.Files++
				summary.Chars += len(r.Content.Text)
			}
			mu.Unlock()

			h.persist(ctx, out)
		}(number, url)
	}
	wg.Wait()

	// Counters got updated per completion; slots that never started still
	// count as failures.
	summary.Failed += skipped

	h.emit(ctx, progress.Event{
		Kind:    progress.KindCompleted,
		Files:   summary.Files,
		Chars:   summary.Chars,
		Message: fmt.Sprintf("%d ok, %d falhas", summary.Succeeded, summary.Failed),
	})
	return summary, nil
}

func (h *Harvester) emit(ctx context.Context, ev progress.Event) {
	ev.Time = time.Now().UTC()
	if err := h.opts.Sink.Send(ctx, ev); err != nil {
		h.opts.Logger.Warn("harvest: progress event dropped", "kind", ev.Kind, "error", err)
	}
}

// persist writes the outcome to the configured store; failures are logged
// only.
func (h *Harvester) persist(ctx context.Context, out Outcome) {
	if h.opts.Store == nil {
		return
	}
	if err := h.opts.Store.SaveProject(ctx, toRecord(out)); err != nil {
		h.opts.Logger.Warn("harvest: persist failed", "project", out.ProjectNumber, "error", err)
	}
}

// canceled reports whether the caller's predicate or the context asks this
// project to stop.
func (h *Harvester) canceled(ctx context.Context, number int) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrCanceled, err)
	}
	if h.opts.CancelProject != nil && h.opts.CancelProject(number) {
		return ErrCanceled
	}
	return nil
}

// failure builds a failed outcome with a short human-readable message; raw
// selector names and stack traces stay in the logs.
func failure(number int, url string, err error) Outcome {
	msg := err.Error()
	switch {
	case errors.Is(err, ErrCanceled):
		msg = "cancelado pelo usuário"
	case errors.Is(err, browse.ErrFolderNotFound):
		msg = "pasta de documentos não encontrada"
	case errors.Is(err, browse.ErrSessionInvalid):
		msg = "sessão de autenticação inválida"
	}
	return Outcome{URL: url, ProjectNumber: number, Error: msg}
}
