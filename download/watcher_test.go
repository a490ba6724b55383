package download

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestCollectFilesSeesRenamedDownloads(t *testing.T) {
	// WHAT: A streamed .crdownload is ignored until it is renamed to its
	// final name; the rename completes the collection.
	dir := t.TempDir()
	go func() {
		time.Sleep(50 * time.Millisecond)
		tmp := filepath.Join(dir, "briefing.pdf.crdownload")
		os.WriteFile(tmp, []byte("partial"), 0o644)
		time.Sleep(50 * time.Millisecond)
		os.Rename(tmp, filepath.Join(dir, "briefing.pdf"))
	}()

	got := collectFiles(context.Background(), dir, nil, 1, 5*time.Second, 10*time.Millisecond)
	if len(got) != 1 || got[0] != "briefing.pdf" {
		t.Fatalf("got %v, want [briefing.pdf]", got)
	}
}

func TestCollectFilesBoundedWait(t *testing.T) {
	// WHAT: Fewer files than expected still returns after the wait elapses.
	dir := t.TempDir()
	go func() {
		time.Sleep(30 * time.Millisecond)
		os.WriteFile(filepath.Join(dir, "only.pdf"), []byte("x"), 0o644)
	}()

	start := time.Now()
	got := collectFiles(context.Background(), dir, nil, 3, 400*time.Millisecond, 0)
	if time.Since(start) < 300*time.Millisecond {
		t.Error("returned before the bounded wait elapsed")
	}
	if len(got) != 1 || got[0] != "only.pdf" {
		t.Fatalf("got %v, want [only.pdf]", got)
	}
}

func TestCollectFilesCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	got := collectFiles(ctx, t.TempDir(), nil, 5, time.Minute, 0)
	if len(got) != 0 {
		t.Fatalf("got %v, want empty", got)
	}
}

func TestCollectFilesIgnoresInflightLeftovers(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "stale.crdownload"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "done.pdf"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	got := collectFiles(context.Background(), dir, nil, 1, 2*time.Second, 0)
	if len(got) != 1 || got[0] != "done.pdf" {
		t.Fatalf("got %v, want [done.pdf]", got)
	}
}

func TestCollectFilesExcludesBaseline(t *testing.T) {
	// WHAT: A file present before the trigger neither satisfies the
	// expected count nor shows up in the result; the collector keeps
	// waiting for the genuinely new arrival.
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "earlier.pdf"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	baseline := snapshotDir(dir)
	go func() {
		time.Sleep(40 * time.Millisecond)
		os.WriteFile(filepath.Join(dir, "fresh.pdf"), []byte("y"), 0o644)
	}()

	got := collectFiles(context.Background(), dir, baseline, 1, 2*time.Second, 0)
	if len(got) != 1 || got[0] != "fresh.pdf" {
		t.Fatalf("got %v, want [fresh.pdf]", got)
	}
}

func TestSnapshotDirSkipsInflight(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "done.pdf"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "p.pdf.crdownload"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	base := snapshotDir(dir)
	if !base["done.pdf"] || base["p.pdf.crdownload"] {
		t.Fatalf("snapshot = %v", base)
	}
}

func TestInflight(t *testing.T) {
	cases := []struct {
		name string
		want bool
	}{
		{"a.pdf", false},
		{"a.pdf.crdownload", true},
		{"A.PDF.CRDOWNLOAD", true},
		{"a.part", true},
		{"a.tmp", true},
	}
	for _, tc := range cases {
		if got := inflight(tc.name); got != tc.want {
			t.Errorf("inflight(%q) = %v, want %v", tc.name, got, tc.want)
		}
	}
}
