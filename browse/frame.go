package browse

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// frameSrcHints identify the iframe hosting the embedded document
// application. The UI renames wrappers across releases; the src substrings
// have been stable.
var frameSrcHints = []string{"workfront", "attask", "/document"}

// ContentFrame locates the embedded application frame. When no iframe
// matches the hints — including pages whose only iframes are unrelated
// widgets — the page itself is returned, since some tenant layouts render
// the listing inline. ErrNoContentFrame is reserved for a matching iframe
// that cannot be entered.
func (p *Project) ContentFrame(ctx context.Context) (Frame, error) {
	els, err := p.Page.Context(ctx).Elements("iframe")
	if err != nil {
		return nil, fmt.Errorf("browse: list iframes: %w", err)
	}
	matched := false
	for _, el := range els {
		src, err := el.Attribute("src")
		if err != nil || src == nil || !frameSrcMatch(*src) {
			continue
		}
		matched = true
		fp, err := el.Frame()
		if err != nil {
			p.logger.Warn("browse: enter frame failed", "src", *src, "error", err)
			continue
		}
		return &rodFrame{page: fp, logger: p.logger}, nil
	}
	if matched {
		return nil, ErrNoContentFrame
	}
	return &rodFrame{page: p.Page, logger: p.logger}, nil
}

// frameSrcMatch reports whether an iframe src identifies the embedded
// document application.
func frameSrcMatch(src string) bool {
	lower := strings.ToLower(src)
	for _, hint := range frameSrcHints {
		if strings.Contains(lower, hint) {
			return true
		}
	}
	return false
}

// rodFrame adapts a rod page (or frame) to the Frame interface.
type rodFrame struct {
	page   *rod.Page
	logger *slog.Logger
}

// rodNode adapts a rod element to the Node interface.
type rodNode struct {
	el     *rod.Element
	page   *rod.Page
	logger *slog.Logger
}

func (f *rodFrame) Query(selector string) ([]Node, error) {
	els, err := f.page.Elements(selector)
	if err != nil {
		return nil, fmt.Errorf("browse: query %q: %w", selector, err)
	}
	nodes := make([]Node, 0, len(els))
	for _, el := range els {
		nodes = append(nodes, &rodNode{el: el, page: f.page, logger: f.logger})
	}
	return nodes, nil
}

func (f *rodFrame) HTML() (string, error) {
	res, err := f.page.Eval(`() => document.documentElement.outerHTML`)
	if err != nil {
		return "", fmt.Errorf("browse: frame html: %w", err)
	}
	return res.Value.Str(), nil
}

func (n *rodNode) Attr(name string) (string, bool) {
	v, err := n.el.Attribute(name)
	if err != nil || v == nil {
		return "", false
	}
	return *v, true
}

func (n *rodNode) Text() string {
	t, err := n.el.Text()
	if err != nil {
		return ""
	}
	return t
}

func (n *rodNode) Visible() bool {
	v, err := n.el.Visible()
	return err == nil && v
}

// clickStrategy is one attempt in the robust-click cascade.
type clickStrategy struct {
	name string
	do   func(ctx context.Context, n *rodNode) error
}

var clickStrategies = []clickStrategy{
	{"plain", func(ctx context.Context, n *rodNode) error {
		return n.el.Context(ctx).Click(proto.InputMouseButtonLeft, 1)
	}},
	{"delayed", func(ctx context.Context, n *rodNode) error {
		select {
		case <-time.After(600 * time.Millisecond):
		case <-ctx.Done():
			return ctx.Err()
		}
		return n.el.Context(ctx).Click(proto.InputMouseButtonLeft, 1)
	}},
	{"scroll-into-view", func(ctx context.Context, n *rodNode) error {
		if err := n.el.Context(ctx).ScrollIntoView(); err != nil {
			return err
		}
		return n.el.Context(ctx).Click(proto.InputMouseButtonLeft, 1)
	}},
	{"coordinates", func(ctx context.Context, n *rodNode) error {
		shape, err := n.el.Context(ctx).Shape()
		if err != nil {
			return err
		}
		box := shape.Box()
		if box == nil {
			return fmt.Errorf("element has no box")
		}
		mouse := n.page.Mouse
		if err := mouse.MoveTo(proto.Point{X: box.X + box.Width/2, Y: box.Y + box.Height/2}); err != nil {
			return err
		}
		return mouse.Click(proto.InputMouseButtonLeft, 1)
	}},
	{"scripted", func(ctx context.Context, n *rodNode) error {
		_, err := n.el.Context(ctx).Eval(`() => this.click()`)
		return err
	}},
}

// Click runs the strategy cascade, stopping at the first success. Timeouts
// and interception move on to the next strategy; only cascade exhaustion or
// a canceled context surfaces an error.
func (n *rodNode) Click(ctx context.Context) error {
	var lastErr error
	for _, s := range clickStrategies {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		attemptCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := s.do(attemptCtx, n)
		cancel()
		if err == nil {
			return nil
		}
		lastErr = err
		n.logger.Debug("browse: click strategy failed", "strategy", s.name, "error", err)
	}
	return fmt.Errorf("%w: %v", ErrClickFailed, lastErr)
}
