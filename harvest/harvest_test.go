package harvest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"briefpipe/browse"
	"briefpipe/progress"
	"briefpipe/store"
)

// testHarvester returns a Harvester whose browser lifecycle is a no-op.
func testHarvester(opts Options, process func(ctx context.Context, number int, url string) Outcome) *Harvester {
	h := New(opts)
	h.start = func(context.Context) error { return nil }
	h.stop = func() {}
	if process != nil {
		h.process = process
	}
	return h
}

func urlsN(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("https://example.com/project/%d", i+1)
	}
	return out
}

func TestRunOrderPreservation(t *testing.T) {
	// WHAT: N URLs in, exactly N outcomes out, each in its submission slot,
	// no matter how completion interleaves.
	urls := urlsN(10)
	h := testHarvester(Options{Concurrency: 3}, func(_ context.Context, number int, url string) Outcome {
		// Later projects finish first.
		time.Sleep(time.Duration(11-number) * time.Millisecond)
		return Outcome{URL: url, ProjectNumber: number, Success: true}
	})

	sum, err := h.Run(context.Background(), urls)
	if err != nil {
		t.Fatal(err)
	}
	if len(sum.Outcomes) != len(urls) {
		t.Fatalf("outcomes = %d, want %d", len(sum.Outcomes), len(urls))
	}
	for i, out := range sum.Outcomes {
		if out.ProjectNumber != i+1 {
			t.Errorf("slot %d holds project %d", i, out.ProjectNumber)
		}
		if out.URL != urls[i] {
			t.Errorf("slot %d holds url %q, want %q", i, out.URL, urls[i])
		}
	}
	if sum.Succeeded != 10 || sum.Failed != 0 {
		t.Errorf("succeeded/failed = %d/%d", sum.Succeeded, sum.Failed)
	}
}

func TestRunConcurrencyBudget(t *testing.T) {
	var cur, max atomic.Int32
	h := testHarvester(Options{Concurrency: 3}, func(_ context.Context, number int, url string) Outcome {
		n := cur.Add(1)
		for {
			m := max.Load()
			if n <= m || max.CompareAndSwap(m, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		cur.Add(-1)
		return Outcome{URL: url, ProjectNumber: number, Success: true}
	})

	if _, err := h.Run(context.Background(), urlsN(12)); err != nil {
		t.Fatal(err)
	}
	if got := max.Load(); got > 3 {
		t.Errorf("max concurrent projects = %d, want <= 3", got)
	}
}

func TestRunStopsAfterFailure(t *testing.T) {
	// WHAT: With ContinueOnError=false, the failure of project 2 of 5 lets
	// running work finish but starts no new project task.
	var started atomic.Int32
	h := testHarvester(Options{Concurrency: 1, ContinueOnError: false}, func(_ context.Context, number int, url string) Outcome {
		started.Add(1)
		if number == 2 {
			return Outcome{URL: url, ProjectNumber: number, Error: "falha simulada"}
		}
		return Outcome{URL: url, ProjectNumber: number, Success: true}
	})

	sum, err := h.Run(context.Background(), urlsN(5))
	if err != nil {
		t.Fatal(err)
	}
	if got := started.Load(); got != 2 {
		t.Fatalf("started %d projects, want 2", got)
	}
	if len(sum.Outcomes) != 5 {
		t.Fatalf("outcomes = %d, want 5", len(sum.Outcomes))
	}
	if !sum.Outcomes[0].Success || sum.Outcomes[1].Success {
		t.Errorf("unexpected outcomes for started projects: %+v", sum.Outcomes[:2])
	}
	for i := 2; i < 5; i++ {
		if sum.Outcomes[i].Success {
			t.Errorf("project %d should not have run", i+1)
		}
		if sum.Outcomes[i].Error != ErrStopped.Error() {
			t.Errorf("project %d error = %q", i+1, sum.Outcomes[i].Error)
		}
	}
	if sum.Succeeded != 1 || sum.Failed != 4 {
		t.Errorf("succeeded/failed = %d/%d, want 1/4", sum.Succeeded, sum.Failed)
	}
}

func TestRunCanceledWhileQueuedReportsCancellation(t *testing.T) {
	// WHAT: Slots never started because the run context was canceled carry
	// the cancellation message, not the stop-after-failure one.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var once sync.Once
	firstStarted := make(chan struct{})
	h := testHarvester(Options{Concurrency: 1, ContinueOnError: true}, func(ctx context.Context, number int, url string) Outcome {
		once.Do(func() { close(firstStarted) })
		<-ctx.Done()
		return Outcome{URL: url, ProjectNumber: number, Error: "interrompido"}
	})
	go func() {
		<-firstStarted
		cancel()
	}()

	sum, err := h.Run(ctx, urlsN(3))
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i < 3; i++ {
		if sum.Outcomes[i].Error != ErrCanceled.Error() {
			t.Errorf("queued project %d error = %q, want %q", i+1, sum.Outcomes[i].Error, ErrCanceled.Error())
		}
		if sum.Outcomes[i].Error == ErrStopped.Error() {
			t.Errorf("queued project %d misattributed to a prior failure", i+1)
		}
	}
	if sum.Failed != 3 {
		t.Errorf("failed = %d, want 3", sum.Failed)
	}
}

func TestRunContinuesOnFailureByDefault(t *testing.T) {
	opts := DefaultOptions()
	h := testHarvester(opts, func(_ context.Context, number int, url string) Outcome {
		if number == 2 {
			return Outcome{URL: url, ProjectNumber: number, Error: "falha simulada"}
		}
		return Outcome{URL: url, ProjectNumber: number, Success: true}
	})
	sum, err := h.Run(context.Background(), urlsN(5))
	if err != nil {
		t.Fatal(err)
	}
	if sum.Succeeded != 4 || sum.Failed != 1 {
		t.Errorf("succeeded/failed = %d/%d, want 4/1", sum.Succeeded, sum.Failed)
	}
}

func TestRunZeroFilesIsSuccess(t *testing.T) {
	h := testHarvester(Options{}, func(_ context.Context, number int, url string) Outcome {
		return Outcome{URL: url, ProjectNumber: number, Success: true}
	})
	sum, err := h.Run(context.Background(), urlsN(1))
	if err != nil {
		t.Fatal(err)
	}
	if !sum.Outcomes[0].Success || sum.Files != 0 {
		t.Errorf("outcome %+v, files %d", sum.Outcomes[0], sum.Files)
	}
}

func TestRunEmptyBatch(t *testing.T) {
	h := testHarvester(Options{}, nil)
	sum, err := h.Run(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(sum.Outcomes) != 0 {
		t.Fatalf("outcomes = %d, want 0", len(sum.Outcomes))
	}
}

func TestRunInvalidSessionIsFatal(t *testing.T) {
	h := New(Options{})
	h.start = func(context.Context) error { return browse.ErrSessionInvalid }
	h.stop = func() {}
	if _, err := h.Run(context.Background(), urlsN(2)); !errors.Is(err, browse.ErrSessionInvalid) {
		t.Fatalf("got %v, want session error", err)
	}
}

func TestRunEmitsProgressEvents(t *testing.T) {
	var mu sync.Mutex
	var kinds []progress.Kind
	sink := progress.NewCallback(func(_ context.Context, ev progress.Event) error {
		mu.Lock()
		kinds = append(kinds, ev.Kind)
		mu.Unlock()
		return nil
	})
	h := testHarvester(Options{Concurrency: 1, Sink: sink}, func(_ context.Context, number int, url string) Outcome {
		return Outcome{URL: url, ProjectNumber: number, Success: true}
	})
	if _, err := h.Run(context.Background(), urlsN(2)); err != nil {
		t.Fatal(err)
	}

	mu.Lock()
	defer mu.Unlock()
	if kinds[0] != progress.KindStart {
		t.Errorf("first event %q, want start", kinds[0])
	}
	if kinds[len(kinds)-1] != progress.KindCompleted {
		t.Errorf("last event %q, want completed", kinds[len(kinds)-1])
	}
}

type fakeSink struct {
	mu    sync.Mutex
	saved []store.ProjectRecord
	err   error
}

func (f *fakeSink) SaveProject(_ context.Context, rec store.ProjectRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, rec)
	return nil
}

func (f *fakeSink) Close() error { return nil }

func TestRunPersistsOutcomes(t *testing.T) {
	sink := &fakeSink{}
	h := testHarvester(Options{Store: sink}, func(_ context.Context, number int, url string) Outcome {
		return Outcome{URL: url, ProjectNumber: number, Success: true, DSID: "5372048"}
	})
	if _, err := h.Run(context.Background(), urlsN(3)); err != nil {
		t.Fatal(err)
	}
	sink.mu.Lock()
	defer sink.mu.Unlock()
	if len(sink.saved) != 3 {
		t.Fatalf("persisted %d records, want 3", len(sink.saved))
	}
}

func TestRunSurvivesPersistFailure(t *testing.T) {
	// WHY: Persistence is a downstream consumer; its failure degrades to a
	// log line, never a batch failure.
	sink := &fakeSink{err: errors.New("disk full")}
	h := testHarvester(Options{Store: sink}, func(_ context.Context, number int, url string) Outcome {
		return Outcome{URL: url, ProjectNumber: number, Success: true}
	})
	sum, err := h.Run(context.Background(), urlsN(2))
	if err != nil {
		t.Fatal(err)
	}
	if sum.Succeeded != 2 {
		t.Errorf("succeeded = %d, want 2", sum.Succeeded)
	}
}

func TestCanceledPredicate(t *testing.T) {
	h := New(Options{CancelProject: func(n int) bool { return n == 2 }})
	if err := h.canceled(context.Background(), 1); err != nil {
		t.Errorf("project 1: %v", err)
	}
	if err := h.canceled(context.Background(), 2); !errors.Is(err, ErrCanceled) {
		t.Errorf("project 2: got %v, want ErrCanceled", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := h.canceled(ctx, 1); !errors.Is(err, ErrCanceled) {
		t.Errorf("cancelled context: got %v, want ErrCanceled", err)
	}
}

func TestFailureMessagesAreUserFacing(t *testing.T) {
	// WHY: Outcome errors reach end users; selector names and stack traces
	// must stay in the logs.
	out := failure(1, "u", browse.ErrFolderNotFound)
	if out.Error != "pasta de documentos não encontrada" {
		t.Errorf("got %q", out.Error)
	}
	out = failure(1, "u", ErrCanceled)
	if out.Error != "cancelado pelo usuário" {
		t.Errorf("got %q", out.Error)
	}
}

func TestConcurrencyClamp(t *testing.T) {
	for _, tc := range []struct{ in, want int }{{0, 1}, {-3, 1}, {3, 3}, {9, 5}} {
		h := New(Options{Concurrency: tc.in})
		if h.opts.Concurrency != tc.want {
			t.Errorf("concurrency %d clamped to %d, want %d", tc.in, h.opts.Concurrency, tc.want)
		}
	}
}
