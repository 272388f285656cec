package gmaps

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"

	"maps-scraper/config"
)

// Session is the page-interaction surface the pipeline runs against. The
// discovery and enrichment code never touches the automation library
// directly, which keeps both testable against fakes.
type Session interface {
	Navigate(url string, timeout time.Duration) error
	WaitVisible(selector string, timeout time.Duration) error
	Fill(selector, text string) error
	PressEnter(selector string) error
	ScrollToBottom(selector string) error
	CountMatching(selector string) (int, error)
	RenderedMarkup() (string, error)
	Attribute(selector, name string) (string, bool, error)
	AttributeAll(selector, name string) ([]string, error)
	Sleep(d time.Duration)
	Close()
}

// SessionFactory opens a fresh isolated browsing session. Each unit of work
// gets its own session and must close it on every exit path.
type SessionFactory func() (Session, error)

// Browser owns a shared Chrome allocator from which per-unit sessions are
// spawned.
type Browser struct {
	allocCtx context.Context
	cancel   context.CancelFunc
}

// NewBrowser configures the Chrome allocator with the fixed browsing profile.
func NewBrowser(cfg *config.Config) *Browser {
	chromeBin := cfg.ChromeBin
	if chromeBin == "" {
		chromeBin = findChromeBinary()
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.UserAgent("Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 "+
			"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
		chromedp.WindowSize(1920, 1080),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)
	return &Browser{allocCtx: allocCtx, cancel: cancel}
}

// NewSession opens an isolated browsing context.
func (b *Browser) NewSession() (Session, error) {
	ctx, cancel := chromedp.NewContext(b.allocCtx,
		chromedp.WithLogf(func(string, ...interface{}) {}))

	// Force the browser process to start so session failures surface here,
	// not in the middle of a unit.
	if err := chromedp.Run(ctx); err != nil {
		cancel()
		return nil, fmt.Errorf("session: start browser: %w", err)
	}

	return &chromeSession{ctx: ctx, cancel: cancel}, nil
}

// Close tears down the allocator and every session spawned from it.
func (b *Browser) Close() {
	b.cancel()
}

type chromeSession struct {
	ctx    context.Context
	cancel context.CancelFunc
}

func (s *chromeSession) run(timeout time.Duration, actions ...chromedp.Action) error {
	ctx := s.ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return chromedp.Run(ctx, actions...)
}

func (s *chromeSession) Navigate(url string, timeout time.Duration) error {
	return s.run(timeout, chromedp.Navigate(url))
}

func (s *chromeSession) WaitVisible(selector string, timeout time.Duration) error {
	return s.run(timeout, chromedp.WaitVisible(selector, chromedp.ByQuery))
}

func (s *chromeSession) Fill(selector, text string) error {
	return s.run(0, chromedp.SendKeys(selector, text, chromedp.ByQuery))
}

func (s *chromeSession) PressEnter(selector string) error {
	return s.run(0, chromedp.SendKeys(selector, kb.Enter, chromedp.ByQuery))
}

func (s *chromeSession) ScrollToBottom(selector string) error {
	js := fmt.Sprintf(
		`(function() { var el = document.querySelector(%q); if (el) { el.scrollTop = el.scrollHeight; } })()`,
		selector)
	return s.run(0, chromedp.Evaluate(js, nil))
}

func (s *chromeSession) CountMatching(selector string) (int, error) {
	var n int
	js := fmt.Sprintf(`document.querySelectorAll(%q).length`, selector)
	err := s.run(0, chromedp.Evaluate(js, &n))
	return n, err
}

func (s *chromeSession) RenderedMarkup() (string, error) {
	var html string
	err := s.run(0, chromedp.OuterHTML("html", &html, chromedp.ByQuery))
	return html, err
}

func (s *chromeSession) Attribute(selector, name string) (string, bool, error) {
	var res struct {
		Found bool   `json:"found"`
		Value string `json:"value"`
	}
	js := fmt.Sprintf(`(function() {
		var el = document.querySelector(%q);
		if (!el) { return {found: false, value: ""}; }
		var v = el.getAttribute(%q);
		return {found: v !== null, value: v || ""};
	})()`, selector, name)
	err := s.run(0, chromedp.Evaluate(js, &res))
	return res.Value, res.Found, err
}

func (s *chromeSession) AttributeAll(selector, name string) ([]string, error) {
	var values []string
	js := fmt.Sprintf(`(function() {
		var out = [];
		var els = document.querySelectorAll(%q);
		for (var i = 0; i < els.length; i++) {
			var v = els[i].getAttribute(%q);
			if (v !== null) { out.push(v); }
		}
		return out;
	})()`, selector, name)
	err := s.run(0, chromedp.Evaluate(js, &values))
	return values, err
}

func (s *chromeSession) Sleep(d time.Duration) {
	time.Sleep(d)
}

func (s *chromeSession) Close() {
	s.cancel()
}

// findChromeBinary locates a Chrome/Chromium binary.
func findChromeBinary() string {
	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
