package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// Options configures a browser session.
type Options struct {
	// Headless runs the browser without a window.
	Headless bool

	// ProfileDir is the persistent user-data directory. Reusing it keeps
	// cookies and consent state between runs, which substantially lowers
	// the provider's block-page rate.
	ProfileDir string

	// UserAgent overrides the browser's user agent on every new page.
	UserAgent string
}

// Session owns a launched browser process and creates pages on it.
type Session struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
}

// NewSession launches a browser and connects to it.
func NewSession(opts Options) (*Session, error) {
	if opts.ProfileDir != "" {
		if err := os.MkdirAll(opts.ProfileDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create profile directory: %w", err)
		}
	}

	l := launcher.New().Headless(opts.Headless)
	if opts.ProfileDir != "" {
		l = l.UserDataDir(opts.ProfileDir)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		l.Cleanup()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	return &Session{browser: b, launcher: l}, nil
}

// NewPage opens a fresh page in the session.
func (s *Session) NewPage(opts Options) (Page, error) {
	p, err := s.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	if opts.UserAgent != "" {
		override := &proto.NetworkSetUserAgentOverride{UserAgent: opts.UserAgent}
		if err := p.SetUserAgent(override); err != nil {
			_ = p.Close()
			return nil, fmt.Errorf("failed to set user agent: %w", err)
		}
	}

	return &rodPage{page: p}, nil
}

// Close shuts down the browser and cleans up the launcher's temp state.
// The persistent profile directory is left in place.
func (s *Session) Close() error {
	err := s.browser.Close()
	s.launcher.Cleanup()
	return err
}

// rodPage adapts a *rod.Page to the Page interface.
type rodPage struct {
	page *rod.Page
}

// Navigate loads the URL and waits for the load event.
func (p *rodPage) Navigate(ctx context.Context, url string) error {
	page := p.page.Context(ctx)
	if err := page.Navigate(url); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("failed to wait for page load: %w", err)
	}
	return nil
}

// URL returns the current page address, following any redirect the
// provider performed (block pages live under their own path).
func (p *rodPage) URL() string {
	info, err := p.page.Info()
	if err != nil {
		return ""
	}
	return info.URL
}

// BodyText returns the page's visible body text.
func (p *rodPage) BodyText(ctx context.Context) (string, error) {
	el, err := p.page.Context(ctx).Element("body")
	if err != nil {
		return "", fmt.Errorf("failed to locate body: %w", err)
	}
	text, err := el.Text()
	if err != nil {
		return "", fmt.Errorf("failed to read body text: %w", err)
	}
	return text, nil
}

// Exists reports whether the selector matches anything on the page.
func (p *rodPage) Exists(ctx context.Context, selector string) (bool, error) {
	has, _, err := p.page.Context(ctx).Has(selector)
	if err != nil {
		return false, fmt.Errorf("failed to query selector %s: %w", selector, err)
	}
	return has, nil
}

// Eval runs a JS function expression in the page and returns its result
// as raw JSON.
func (p *rodPage) Eval(ctx context.Context, js string, args ...any) (json.RawMessage, error) {
	obj, err := p.page.Context(ctx).Eval(js, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate script: %w", err)
	}
	data, err := json.Marshal(obj.Value.Val())
	if err != nil {
		return nil, fmt.Errorf("failed to encode script result: %w", err)
	}
	return data, nil
}

// Close releases the page.
func (p *rodPage) Close() error {
	return p.page.Close()
}
