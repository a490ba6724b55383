package browse

import (
	"context"
	"strings"
)

// FakeNode is an in-memory Node for tests of the discovery and download
// stages. Clicks are recorded; ClickErr simulates a dead element; OnClick,
// when set, runs after each successful click so tests can simulate the
// side effects of a trigger.
type FakeNode struct {
	Attrs    map[string]string
	TextVal  string
	Hidden   bool
	ClickErr error
	OnClick  func()
	Clicks   int
}

func (n *FakeNode) Attr(name string) (string, bool) {
	v, ok := n.Attrs[name]
	return v, ok
}

func (n *FakeNode) Text() string { return n.TextVal }

func (n *FakeNode) Visible() bool { return !n.Hidden }

func (n *FakeNode) Click(ctx context.Context) error {
	if n.ClickErr != nil {
		return n.ClickErr
	}
	n.Clicks++
	if n.OnClick != nil {
		n.OnClick()
	}
	return nil
}

// FakeFrame maps selectors to node lists. Selector matching is exact, plus
// a loose contains-match so "div,span" style groups resolve.
type FakeFrame struct {
	Nodes   map[string][]*FakeNode
	HTMLDoc string
	Err     error
}

func (f *FakeFrame) Query(selector string) ([]Node, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	fakes, ok := f.Nodes[selector]
	if !ok {
		for k, v := range f.Nodes {
			if strings.Contains(selector, k) {
				fakes = v
				ok = true
				break
			}
		}
	}
	if !ok {
		return nil, nil
	}
	nodes := make([]Node, len(fakes))
	for i, n := range fakes {
		nodes[i] = n
	}
	return nodes, nil
}

func (f *FakeFrame) HTML() (string, error) {
	return f.HTMLDoc, nil
}
