package browse

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

// Config configures the browser manager.
type Config struct {
	// Headless controls Chrome's mode.
	Headless bool

	// SessionFile is the storage-state artifact path. Required.
	SessionFile string

	// RemoteURL is the WebSocket URL of an external Chrome instance.
	// Empty = launch a local Chrome via launcher.
	RemoteURL string

	// NavTimeout bounds a single navigation. Default: 45s.
	NavTimeout time.Duration

	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.NavTimeout <= 0 {
		c.NavTimeout = 45 * time.Second
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Manager owns the Chrome process for one batch run. Each project gets its
// own incognito context so concurrent tasks never share cookies or storage.
type Manager struct {
	cfg     Config
	state   *SessionState
	browser *rod.Browser
	lnch    *launcher.Launcher
}

// NewManager creates a Manager. Call Start before opening projects.
func NewManager(cfg Config) *Manager {
	cfg.defaults()
	return &Manager{cfg: cfg}
}

// Start validates the session state (fatal when invalid) and launches or
// connects to Chrome.
func (m *Manager) Start(ctx context.Context) error {
	st, err := LoadSessionState(m.cfg.SessionFile)
	if err != nil {
		return err
	}
	m.state = st

	var wsURL string
	if m.cfg.RemoteURL != "" {
		wsURL = m.cfg.RemoteURL
		m.cfg.Logger.Info("browse: connecting to remote chrome", "url", wsURL)
	} else {
		l := launcher.New().
			Headless(m.cfg.Headless).
			Set("disable-blink-features", "AutomationControlled")
		u, err := l.Launch()
		if err != nil {
			return fmt.Errorf("browse: launch: %w", err)
		}
		wsURL = u
		m.lnch = l
		m.cfg.Logger.Info("browse: launched chrome", "headless", m.cfg.Headless)
	}

	b := rod.New().ControlURL(wsURL).Context(ctx)
	if err := b.Connect(); err != nil {
		return fmt.Errorf("browse: connect: %w", err)
	}
	m.browser = b
	return nil
}

// Close shuts down Chrome.
func (m *Manager) Close() {
	if m.browser != nil {
		m.browser.Close()
		m.browser = nil
	}
	if m.lnch != nil {
		m.lnch.Cleanup()
		m.lnch = nil
	}
}

// Project is one project's isolated browsing context.
type Project struct {
	Page    *rod.Page
	browser *rod.Browser // incognito context
	logger  *slog.Logger
	navTO   time.Duration
}

// OpenProject creates an isolated incognito context with the stored session
// applied, opens a stealth page and navigates to the project URL.
func (m *Manager) OpenProject(ctx context.Context, projectURL string) (*Project, error) {
	if m.browser == nil {
		return nil, fmt.Errorf("browse: manager not started")
	}

	inc, err := m.browser.Incognito()
	if err != nil {
		return nil, fmt.Errorf("browse: incognito context: %w", err)
	}
	if err := m.state.apply(inc); err != nil {
		return nil, err
	}

	page, err := stealth.Page(inc)
	if err != nil {
		return nil, fmt.Errorf("browse: create page: %w", err)
	}

	navCtx, cancel := context.WithTimeout(ctx, m.cfg.NavTimeout)
	defer cancel()
	if err := page.Context(navCtx).Navigate(projectURL); err != nil {
		page.Close()
		return nil, fmt.Errorf("browse: navigate %s: %w", projectURL, err)
	}
	if err := page.Context(navCtx).WaitLoad(); err != nil {
		m.cfg.Logger.Warn("browse: wait load timeout", "url", projectURL, "error", err)
	}
	// Let the SPA settle; document listings render well after onload.
	waitIdle(navCtx, page)

	return &Project{
		Page:    page,
		browser: inc,
		logger:  m.cfg.Logger,
		navTO:   m.cfg.NavTimeout,
	}, nil
}

// AllowDownloads points Chrome's download machinery for this project's
// context at dir.
func (p *Project) AllowDownloads(dir string) error {
	err := proto.BrowserSetDownloadBehavior{
		Behavior:         proto.BrowserSetDownloadBehaviorBehaviorAllow,
		BrowserContextID: p.browser.BrowserContextID,
		DownloadPath:     dir,
	}.Call(p.browser)
	if err != nil {
		return fmt.Errorf("browse: set download dir: %w", err)
	}
	return nil
}

// Title returns the current page title, used as the project display name.
func (p *Project) Title() string {
	res, err := p.Page.Eval(`() => document.title`)
	if err != nil {
		return ""
	}
	return res.Value.Str()
}

// Close tears down the page and its incognito context.
func (p *Project) Close() {
	if p.Page != nil {
		p.Page.Close()
	}
	if p.browser != nil {
		p.browser.Close()
	}
}

func waitIdle(ctx context.Context, page *rod.Page) {
	wait := page.Context(ctx).WaitRequestIdle(
		500*time.Millisecond, nil, nil,
		[]proto.NetworkResourceType{
			proto.NetworkResourceTypeImage,
			proto.NetworkResourceTypeMedia,
			proto.NetworkResourceTypeFont,
		},
	)
	wait()
}
