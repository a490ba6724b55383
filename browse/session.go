package browse

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// SessionState is the persisted authentication artifact (Playwright
// storage-state layout: cookies plus per-origin localStorage).
type SessionState struct {
	Cookies []SessionCookie `json:"cookies"`
	Origins []SessionOrigin `json:"origins"`
}

// SessionCookie is one stored cookie.
type SessionCookie struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	Domain   string  `json:"domain"`
	Path     string  `json:"path"`
	Expires  float64 `json:"expires"`
	HTTPOnly bool    `json:"httpOnly"`
	Secure   bool    `json:"secure"`
	SameSite string  `json:"sameSite"`
}

// SessionOrigin is one origin's localStorage entries.
type SessionOrigin struct {
	Origin       string `json:"origin"`
	LocalStorage []struct {
		Name  string `json:"name"`
		Value string `json:"value"`
	} `json:"localStorage"`
}

// LoadSessionState reads and validates a storage-state file. A missing or
// malformed file is ErrSessionInvalid — fatal for the run, surfaced before
// any project is attempted.
func LoadSessionState(path string) (*SessionState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrSessionInvalid, path, err)
	}
	var st SessionState
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrSessionInvalid, path, err)
	}
	if err := st.Validate(); err != nil {
		return nil, err
	}
	return &st, nil
}

// Validate checks that the state can plausibly authenticate a session.
func (s *SessionState) Validate() error {
	if len(s.Cookies) == 0 {
		return fmt.Errorf("%w: no cookies", ErrSessionInvalid)
	}
	for i, c := range s.Cookies {
		if c.Name == "" || c.Value == "" || c.Domain == "" {
			return fmt.Errorf("%w: cookie %d incomplete", ErrSessionInvalid, i)
		}
	}
	return nil
}

// apply installs the stored cookies into a browser context.
func (s *SessionState) apply(b *rod.Browser) error {
	params := make([]*proto.NetworkCookieParam, 0, len(s.Cookies))
	for _, c := range s.Cookies {
		p := &proto.NetworkCookieParam{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Secure:   c.Secure,
			HTTPOnly: c.HTTPOnly,
		}
		if c.Expires > 0 {
			p.Expires = proto.TimeSinceEpoch(c.Expires)
		}
		switch c.SameSite {
		case "Strict", "Lax", "None":
			p.SameSite = proto.NetworkCookieSameSite(c.SameSite)
		}
		params = append(params, p)
	}
	if err := b.SetCookies(params); err != nil {
		return fmt.Errorf("browse: set cookies: %w", err)
	}
	return nil
}
