package browse

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// folderStrategy is one way to locate a named folder or button inside the
// content frame. Strategies are a declarative, ordered table; each can be
// tested in isolation and reordered when the UI changes.
type folderStrategy struct {
	name     string
	selector string
	attr     string // when set, match this attribute instead of text
	partial  bool   // substring match instead of exact (case-insensitive)
}

var folderStrategies = []folderStrategy{
	{name: "button-text", selector: "button"},
	{name: "link-text", selector: "a"},
	{name: "role-button", selector: "[role=button]"},
	{name: "aria-label", selector: "[aria-label]", attr: "aria-label", partial: true},
	{name: "any-partial", selector: "div,span", partial: true},
}

// NavigateToFolder locates and clicks the element labeled folderLabel,
// trying each strategy in order and polling until the timeout budget runs
// out. Individual strategy errors are swallowed; exhaustion yields
// ErrFolderNotFound.
func NavigateToFolder(ctx context.Context, f Frame, folderLabel string, timeout time.Duration, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	deadline := time.Now().Add(timeout)

	for {
		for _, s := range folderStrategies {
			node, ok := findByStrategy(f, s, folderLabel)
			if !ok {
				continue
			}
			if err := node.Click(ctx); err != nil {
				logger.Debug("browse: folder click failed",
					"strategy", s.name, "label", folderLabel, "error", err)
				continue
			}
			logger.Debug("browse: folder opened", "strategy", s.name, "label", folderLabel)
			return nil
		}

		if time.Now().After(deadline) {
			return fmt.Errorf("%w: %q", ErrFolderNotFound, folderLabel)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(400 * time.Millisecond):
		}
	}
}

func findByStrategy(f Frame, s folderStrategy, label string) (Node, bool) {
	nodes, err := f.Query(s.selector)
	if err != nil {
		return nil, false
	}
	want := strings.ToLower(strings.TrimSpace(label))
	for _, n := range nodes {
		if !n.Visible() {
			continue
		}
		var got string
		if s.attr != "" {
			v, ok := n.Attr(s.attr)
			if !ok {
				continue
			}
			got = v
		} else {
			got = n.Text()
		}
		got = strings.ToLower(strings.TrimSpace(got))
		if got == "" {
			continue
		}
		if s.partial && strings.Contains(got, want) {
			return n, true
		}
		if !s.partial && got == want {
			return n, true
		}
	}
	return nil, false
}

// overlaySelectors are the known close affordances of the details panel
// that intercepts clicks on the document listing.
var overlaySelectors = []string{
	"[data-testid=close-details]",
	"[aria-label=Close]",
	"[aria-label=Fechar]",
	".details-panel button.close",
}

// CloseOverlay dismisses the intercepting side panel if present. Best
// effort: failures are logged and never propagate.
func CloseOverlay(ctx context.Context, f Frame, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	for _, sel := range overlaySelectors {
		nodes, err := f.Query(sel)
		if err != nil || len(nodes) == 0 {
			continue
		}
		for _, n := range nodes {
			if !n.Visible() {
				continue
			}
			if err := n.Click(ctx); err != nil {
				logger.Debug("browse: overlay dismiss failed", "selector", sel, "error", err)
				continue
			}
			logger.Debug("browse: overlay dismissed", "selector", sel)
			return
		}
	}
}
